package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"EcoRoute-App/internal/domain/model"
)

const defaultDirectionsBaseURL = "https://maps.googleapis.com/maps/api/directions/json"

// GoogleDirectionsProvider はGoogle Maps Directions APIを使用した
// ターンバイターン経路検索の実装
type GoogleDirectionsProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleDirectionsProvider は新しいプロバイダを生成する
func NewGoogleDirectionsProvider(apiKey string) *GoogleDirectionsProvider {
	return &GoogleDirectionsProvider{
		apiKey:     apiKey,
		baseURL:    defaultDirectionsBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// googleTravelMode は移動手段をDirections APIのmodeパラメータへ対応付ける。
// スクーターは徒歩で近似し、公共交通系はすべてtransitにまとめる
func googleTravelMode(mode model.TransportMode) string {
	switch mode {
	case model.ModeBiking:
		return "bicycling"
	case model.ModeCar:
		return "driving"
	case model.ModeBus, model.ModeSkytrain, model.ModeSeabus, model.ModeWestCoastExpress:
		return "transit"
	default:
		return "walking"
	}
}

// GetDirections はDirections APIを呼び出してターンバイターン経路を取得する
func (g *GoogleDirectionsProvider) GetDirections(ctx context.Context, origin, destination model.Point, mode model.TransportMode, avoidHighways bool, alternatives bool) ([]model.ExternalRoute, error) {
	if g.apiKey == "" {
		return nil, errors.New("Google Maps APIキーが設定されていません")
	}

	reqURL := g.buildURL(origin, destination, mode, avoidHighways, alternatives)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	var apiResp directionsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	if apiResp.Status != "OK" || len(apiResp.Routes) == 0 {
		return nil, errors.New("APIから有効なルートが返されませんでした")
	}

	routes := make([]model.ExternalRoute, 0, len(apiResp.Routes))
	for _, r := range apiResp.Routes {
		routes = append(routes, convertAPIRoute(r))
	}
	return routes, nil
}

func (g *GoogleDirectionsProvider) buildURL(origin, destination model.Point, mode model.TransportMode, avoidHighways, alternatives bool) string {
	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	params.Set("destination", fmt.Sprintf("%f,%f", destination.Lat, destination.Lng))
	params.Set("mode", googleTravelMode(mode))
	if avoidHighways {
		params.Set("avoid", "highways")
	}
	if alternatives {
		params.Set("alternatives", "true")
	}
	if googleTravelMode(mode) == "transit" {
		params.Set("departure_time", "now")
	}
	params.Set("key", g.apiKey)
	return g.baseURL + "?" + params.Encode()
}

func convertAPIRoute(r directionsAPIRoute) model.ExternalRoute {
	route := model.ExternalRoute{
		OverviewPolyline: r.OverviewPolyline.Points,
	}
	for _, leg := range r.Legs {
		for _, step := range leg.Steps {
			ext := model.ExternalStep{
				TravelMode:     step.TravelMode,
				DistanceMeters: float64(step.Distance.Value),
				DurationSec:    float64(step.Duration.Value),
				StartPoint:     model.Point{Lat: step.StartLocation.Lat, Lng: step.StartLocation.Lng},
				EndPoint:       model.Point{Lat: step.EndLocation.Lat, Lng: step.EndLocation.Lng},
				Polyline:       step.Polyline.Points,
				Instructions:   step.HTMLInstructions,
			}
			if step.TransitDetails != nil {
				ext.Transit = &model.ExternalTransitDetails{
					LineName:      step.TransitDetails.Line.Name,
					LineShortName: step.TransitDetails.Line.ShortName,
					VehicleType:   step.TransitDetails.Line.Vehicle.Type,
					DepartureStop: step.TransitDetails.DepartureStop.Name,
					ArrivalStop:   step.TransitDetails.ArrivalStop.Name,
					NumStops:      step.TransitDetails.NumStops,
				}
			}
			route.Steps = append(route.Steps, ext)
		}
	}
	return route
}

// Directions APIレスポンスの構造体定義

type directionsAPIResponse struct {
	Status       string               `json:"status"`
	ErrorMessage string               `json:"error_message,omitempty"`
	Routes       []directionsAPIRoute `json:"routes"`
}

type directionsAPIRoute struct {
	Legs []struct {
		Steps []directionsAPIStep `json:"steps"`
	} `json:"legs"`
	OverviewPolyline struct {
		Points string `json:"points"`
	} `json:"overview_polyline"`
}

type directionsAPIStep struct {
	TravelMode string `json:"travel_mode"`
	Distance   struct {
		Value int `json:"value"`
	} `json:"distance"`
	Duration struct {
		Value int `json:"value"`
	} `json:"duration"`
	StartLocation struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"start_location"`
	EndLocation struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"end_location"`
	Polyline struct {
		Points string `json:"points"`
	} `json:"polyline"`
	HTMLInstructions string                    `json:"html_instructions"`
	TransitDetails   *directionsAPITransitInfo `json:"transit_details,omitempty"`
}

type directionsAPITransitInfo struct {
	Line struct {
		Name      string `json:"name"`
		ShortName string `json:"short_name"`
		Vehicle   struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"vehicle"`
	} `json:"line"`
	DepartureStop struct {
		Name string `json:"name"`
	} `json:"departure_stop"`
	ArrivalStop struct {
		Name string `json:"name"`
	} `json:"arrival_stop"`
	NumStops int `json:"num_stops"`
}
