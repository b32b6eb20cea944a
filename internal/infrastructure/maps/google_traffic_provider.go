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

// GoogleTrafficProvider はGoogle Maps Directions APIから交通状況を取得する実装
type GoogleTrafficProvider struct {
	apiKey     string
	httpClient *http.Client
}

// NewGoogleTrafficProvider は新しいプロバイダを生成する
func NewGoogleTrafficProvider(apiKey string) *GoogleTrafficProvider {
	return &GoogleTrafficProvider{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// GetTrafficConditions は渋滞を考慮した区間速度を取得する。
// 中心点を挟む対角リクエストでエリアの代表的な速度を得る
func (g *GoogleTrafficProvider) GetTrafficConditions(ctx context.Context, center model.Point, radiusMeters float64) (*model.TrafficData, error) {
	if g.apiKey == "" {
		return nil, errors.New("Google Maps APIキーが設定されていません")
	}

	// 半径をおおよその緯度差に変換してエリアを横断するルートを引く
	latOffset := radiusMeters / 111000.0
	origin := model.Point{Lat: center.Lat - latOffset, Lng: center.Lng}
	destination := model.Point{Lat: center.Lat + latOffset, Lng: center.Lng}

	reqURL := g.buildURL(origin, destination)
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

	var apiResp googleDirectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	if apiResp.Status != "OK" || len(apiResp.Routes) == 0 {
		return nil, errors.New("APIから有効なルートが返されませんでした")
	}

	traffic := &model.TrafficData{}
	for _, leg := range apiResp.Routes[0].Legs {
		for _, step := range leg.Steps {
			duration := step.Duration.Value
			durationInTraffic := step.DurationInTraffic.Value
			if durationInTraffic == 0 {
				durationInTraffic = duration
			}
			if durationInTraffic <= 0 {
				continue
			}
			traffic.Segments = append(traffic.Segments, model.TrafficSegment{
				EdgeID:   fmt.Sprintf("google_%f_%f", step.StartLocation.Lat, step.StartLocation.Lng),
				SpeedKmh: float64(step.Distance.Value) / float64(durationInTraffic) * 3.6,
			})
		}
	}
	return traffic, nil
}

func (g *GoogleTrafficProvider) buildURL(origin, destination model.Point) string {
	baseURL := "https://maps.googleapis.com/maps/api/directions/json"
	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	params.Set("destination", fmt.Sprintf("%f,%f", destination.Lat, destination.Lng))
	params.Set("departure_time", "now")
	params.Set("traffic_model", "best_guess")
	params.Set("key", g.apiKey)
	return baseURL + "?" + params.Encode()
}

// APIレスポンスの構造体定義
type googleDirectionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Steps []struct {
				Distance struct {
					Value int `json:"value"`
				} `json:"distance"`
				Duration struct {
					Value int `json:"value"`
				} `json:"duration"`
				DurationInTraffic struct {
					Value int `json:"value"`
				} `json:"duration_in_traffic"`
				StartLocation struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"start_location"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}
