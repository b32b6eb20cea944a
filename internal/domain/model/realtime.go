package model

import "time"

// WeatherData は現在の気象状況
type WeatherData struct {
	Condition    string  `json:"condition"` // "clear", "rain", "snow", "fog", "extreme"など
	TemperatureC float64 `json:"temperature_c"`
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
	Description  string  `json:"description,omitempty"`
}

// NeutralWeather は補正なしの気象データを返す
func NeutralWeather() *WeatherData {
	return &WeatherData{Condition: "clear"}
}

// Penalty は気象条件に応じた乗算ペナルティ係数を返す。
// 強風（30km/h超）はさらに1.2倍する
func (w *WeatherData) Penalty() float64 {
	if w == nil {
		return 1.0
	}
	penalty := 1.0
	switch w.Condition {
	case "rain", "drizzle", "thunderstorm":
		penalty = 1.3
	case "snow":
		penalty = 1.5
	case "fog", "mist", "haze":
		penalty = 1.2
	case "extreme":
		penalty = 2.0
	}
	if w.WindSpeedKmh > 30 {
		penalty *= 1.2
	}
	return penalty
}

// TrafficSegment は特定エッジの現在の走行速度
type TrafficSegment struct {
	EdgeID   string  `json:"edge_id"`
	SpeedKmh float64 `json:"speed_kmh"`
}

// TrafficData はエッジごとの交通速度の集合
type TrafficData struct {
	Segments []TrafficSegment `json:"segments"`
}

// ClosureRecord は道路閉鎖・工事情報
type ClosureRecord struct {
	ID          string `json:"id"`
	Location    Point  `json:"location"`
	Description string `json:"description"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

// SharedMobilityStation はシェアサイクル・電動キックボードのステーション
type SharedMobilityStation struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Location       Point         `json:"location"`
	Mode           TransportMode `json:"mode"`
	AvailableUnits int           `json:"available_units"`
}

// StopTimeUpdate は単一停留所の到着・出発予測
type StopTimeUpdate struct {
	StopID         string     `json:"stop_id"`
	StopSequence   int        `json:"stop_sequence"`
	ArrivalDelay   *int32     `json:"arrival_delay,omitempty"` // 秒
	ArrivalTime    *time.Time `json:"arrival_time,omitempty"`
	DepartureDelay *int32     `json:"departure_delay,omitempty"`
	DepartureTime  *time.Time `json:"departure_time,omitempty"`
}

// TransitTripUpdate はリアルタイムフィードから得た便の更新情報
type TransitTripUpdate struct {
	TripID          string           `json:"trip_id"`
	RouteID         string           `json:"route_id"`
	StopTimeUpdates []StopTimeUpdate `json:"stop_time_updates"`
}

// DelayAtStop は指定停留所での遅延秒数を返す。該当なしは0
func (t *TransitTripUpdate) DelayAtStop(stopID string) float64 {
	for _, u := range t.StopTimeUpdates {
		if u.StopID != stopID {
			continue
		}
		if u.ArrivalDelay != nil {
			return float64(*u.ArrivalDelay)
		}
		if u.DepartureDelay != nil {
			return float64(*u.DepartureDelay)
		}
	}
	return 0
}

// ServiceAlert は運行情報アラート
type ServiceAlert struct {
	ID          string   `json:"id"`
	Effect      string   `json:"effect"` // "NO_SERVICE", "REDUCED_SERVICE"など
	Header      string   `json:"header"`
	Description string   `json:"description,omitempty"`
	RouteIDs    []string `json:"route_ids,omitempty"`
	StopIDs     []string `json:"stop_ids,omitempty"`
}

// RealtimeConditions はリクエスト単位で収集したリアルタイム情報の束
type RealtimeConditions struct {
	Weather       *WeatherData
	Traffic       *TrafficData
	Closures      []ClosureRecord
	Construction  []ClosureRecord
	TripUpdates   []TransitTripUpdate
	ServiceAlerts []ServiceAlert
	Stations      []SharedMobilityStation
	DataSources   []string
}

// AllClosures は道路閉鎖と工事情報を結合して返す
func (rc *RealtimeConditions) AllClosures() []ClosureRecord {
	out := make([]ClosureRecord, 0, len(rc.Closures)+len(rc.Construction))
	out = append(out, rc.Closures...)
	out = append(out, rc.Construction...)
	return out
}
