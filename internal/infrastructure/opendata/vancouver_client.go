package opendata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/paulmach/orb"

	"EcoRoute-App/internal/domain/model"
)

// VancouverOpenDataClient はバンクーバー市オープンデータAPIから
// 道路閉鎖・工事情報を取得する実装
type VancouverOpenDataClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewVancouverOpenDataClient は新しいクライアントを生成する
func NewVancouverOpenDataClient(baseURL string) *VancouverOpenDataClient {
	if baseURL == "" {
		baseURL = "https://opendata.vancouver.ca/api/3/action"
	}
	return &VancouverOpenDataClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// GetRoadClosures は現在の道路閉鎖情報を返す
func (c *VancouverOpenDataClient) GetRoadClosures(ctx context.Context, center model.Point, radiusMeters float64) ([]model.ClosureRecord, error) {
	return c.fetchRecords(ctx, "road-closures", center, radiusMeters)
}

// GetConstructionSites は現在の工事箇所を返す
func (c *VancouverOpenDataClient) GetConstructionSites(ctx context.Context, center model.Point, radiusMeters float64) ([]model.ClosureRecord, error) {
	return c.fetchRecords(ctx, "construction-zones", center, radiusMeters)
}

func (c *VancouverOpenDataClient) fetchRecords(ctx context.Context, resourceID string, center model.Point, radiusMeters float64) ([]model.ClosureRecord, error) {
	params := url.Values{}
	params.Set("resource_id", resourceID)
	params.Set("limit", "100")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/datastore_search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	var apiResp datastoreSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	bound := boundAround(center, radiusMeters)

	records := make([]model.ClosureRecord, 0, len(apiResp.Result.Records))
	for _, raw := range apiResp.Result.Records {
		record, ok := toClosureRecord(raw)
		if !ok {
			continue
		}
		if !bound.Contains(orb.Point{record.Location.Lng, record.Location.Lat}) {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// boundAround は中心点と半径からバウンディングボックスを作る
func boundAround(center model.Point, radiusMeters float64) orb.Bound {
	latOffset := radiusMeters / 111000.0
	lngOffset := radiusMeters / 111000.0
	return orb.Bound{
		Min: orb.Point{center.Lng - lngOffset, center.Lat - latOffset},
		Max: orb.Point{center.Lng + lngOffset, center.Lat + latOffset},
	}
}

func toClosureRecord(raw map[string]any) (model.ClosureRecord, bool) {
	record := model.ClosureRecord{}

	if id, ok := raw["_id"]; ok {
		record.ID = fmt.Sprintf("%v", id)
	}
	if desc, ok := raw["description"].(string); ok {
		record.Description = desc
	} else if comp, ok := raw["comp_type"].(string); ok {
		record.Description = comp
	}
	if start, ok := raw["start_date"].(string); ok {
		record.StartDate = start
	}
	if end, ok := raw["end_date"].(string); ok {
		record.EndDate = end
	}

	lat, latOK := parseCoord(raw["latitude"])
	lng, lngOK := parseCoord(raw["longitude"])
	if !latOK || !lngOK {
		return record, false
	}
	record.Location = model.Point{Lat: lat, Lng: lng}
	return record, true
}

func parseCoord(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// APIレスポンスの構造体定義
type datastoreSearchResponse struct {
	Result struct {
		Records []map[string]any `json:"records"`
	} `json:"result"`
}
