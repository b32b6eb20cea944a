package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"EcoRoute-App/internal/domain/model"
)

// OpenWeatherClient はOpenWeather APIを使用した気象情報取得の実装
type OpenWeatherClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenWeatherClient は新しいクライアントを生成する
func NewOpenWeatherClient(apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:     apiKey,
		baseURL:    "https://api.openweathermap.org/data/2.5/weather",
		httpClient: &http.Client{Timeout: 3 * time.Second},
	}
}

// GetCurrentWeather は指定地点の現在の気象状況を取得する
func (c *OpenWeatherClient) GetCurrentWeather(ctx context.Context, location model.Point) (*model.WeatherData, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("OpenWeather APIキーが設定されていません")
	}

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", location.Lat))
	params.Set("lon", fmt.Sprintf("%f", location.Lng))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
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

	var apiResp openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	data := &model.WeatherData{
		Condition:    "clear",
		TemperatureC: apiResp.Main.Temp,
		WindSpeedKmh: apiResp.Wind.Speed * 3.6, // APIはm/sで返す
	}
	if len(apiResp.Weather) > 0 {
		data.Condition = normalizeCondition(apiResp.Weather[0].Main)
		data.Description = apiResp.Weather[0].Description
	}
	return data, nil
}

// normalizeCondition はOpenWeatherの天候区分を内部区分へ変換する
func normalizeCondition(main string) string {
	switch strings.ToLower(main) {
	case "rain", "drizzle", "thunderstorm":
		return "rain"
	case "snow":
		return "snow"
	case "fog", "mist", "haze":
		return "fog"
	case "tornado", "squall":
		return "extreme"
	default:
		return "clear"
	}
}

// APIレスポンスの構造体定義
type openWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s
	} `json:"wind"`
}
