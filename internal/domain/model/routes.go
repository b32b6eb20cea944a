package model

import "time"

// EffortLevel はステップの体力的な負荷
type EffortLevel string

const (
	EffortLow      EffortLevel = "low"
	EffortModerate EffortLevel = "moderate"
	EffortHigh     EffortLevel = "high"
)

// TransitDetails は公共交通ステップの付加情報
type TransitDetails struct {
	LineName       string   `json:"line_name,omitempty"`
	RouteShortName string   `json:"route_short_name,omitempty"`
	DepartureStop  string   `json:"departure_stop,omitempty"`
	ArrivalStop    string   `json:"arrival_stop,omitempty"`
	NumStops       int      `json:"num_stops,omitempty"`
	IsDelayed      bool     `json:"is_delayed"`
	DelaySeconds   float64  `json:"delay_seconds,omitempty"`
	ServiceAlerts  []string `json:"service_alerts,omitempty"`
}

// RouteStep はルートを構成する単一手段の区間
type RouteStep struct {
	Mode                 TransportMode   `json:"mode"`
	Distance             float64         `json:"distance"`       // メートル
	EstimatedTime        float64         `json:"estimated_time"` // 秒
	Slope                *float64        `json:"slope,omitempty"`
	EffortLevel          EffortLevel     `json:"effort_level,omitempty"`
	Instructions         string          `json:"instructions,omitempty"`
	StartPoint           Point           `json:"start_point"`
	EndPoint             Point           `json:"end_point"`
	Polyline             string          `json:"polyline,omitempty"`
	TransitDetails       *TransitDetails `json:"transit_details,omitempty"`
	SustainabilityPoints float64         `json:"sustainability_points"`
}

// Route は計算済みのルート
type Route struct {
	ID                        string          `json:"id"`
	Origin                    Point           `json:"origin"`
	Destination               Point           `json:"destination"`
	Steps                     []RouteStep     `json:"steps"`
	TotalDistance             float64         `json:"total_distance"` // メートル
	TotalTime                 float64         `json:"total_time"`     // 秒
	TotalSustainabilityPoints float64         `json:"total_sustainability_points"`
	CO2SavedGrams             float64         `json:"co2_saved_grams"`
	Preference                RoutePreference `json:"preference"`
	SafetyScore               float64         `json:"safety_score"`
	EnergyEfficiency          float64         `json:"energy_efficiency"`
	ScenicScore               float64         `json:"scenic_score"`
	CreatedAt                 time.Time       `json:"created_at"`
}

// ModeSet はルートに含まれる移動手段の集合を返す
func (r *Route) ModeSet() map[TransportMode]bool {
	modes := make(map[TransportMode]bool)
	for _, s := range r.Steps {
		modes[s.Mode] = true
	}
	return modes
}

// RouteRequest はルート探索リクエスト
type RouteRequest struct {
	Origin                    *Point            `json:"origin" validate:"required"`
	Destination               *Point            `json:"destination" validate:"required"`
	Preferences               []RoutePreference `json:"preferences"`
	TransportModes            []TransportMode   `json:"transport_modes"`
	DepartureTime             *time.Time        `json:"departure_time,omitempty"`
	MaxWalkingDistance        float64           `json:"max_walking_distance,omitempty"`
	AvoidHighways             bool              `json:"avoid_highways,omitempty"`
	AccessibilityRequirements []string          `json:"accessibility_requirements,omitempty"`
}

// AllowedModeSet はリクエストで許可された移動手段の集合を返す。
// 未指定の場合は徒歩のみ許可とみなす
func (rr *RouteRequest) AllowedModeSet() map[TransportMode]bool {
	modes := make(map[TransportMode]bool)
	if len(rr.TransportModes) == 0 {
		modes[ModeWalking] = true
		return modes
	}
	for _, m := range rr.TransportModes {
		modes[m] = true
	}
	return modes
}

// RouteResponse はルート探索レスポンス
type RouteResponse struct {
	RequestID         string   `json:"request_id"`
	Routes            []*Route `json:"routes"`
	Alternatives      []*Route `json:"alternatives,omitempty"`
	ProcessingTimeSec float64  `json:"processing_time_sec"`
	DataSources       []string `json:"data_sources"`
}

// FirestoreRoute はFirestoreにキャッシュされるルート
type FirestoreRoute struct {
	Origin                    Point           `firestore:"origin"`
	Destination               Point           `firestore:"destination"`
	Steps                     []RouteStep     `firestore:"steps"`
	TotalDistance             float64         `firestore:"total_distance"`
	TotalTime                 float64         `firestore:"total_time"`
	TotalSustainabilityPoints float64         `firestore:"total_sustainability_points"`
	Preference                RoutePreference `firestore:"preference"`
	ExpireAt                  time.Time       `firestore:"expireAt"`
}

// ToFirestoreRoute はTTL付きのFirestore保存用モデルへ変換する
func (r *Route) ToFirestoreRoute(ttlHours int) *FirestoreRoute {
	return &FirestoreRoute{
		Origin:                    r.Origin,
		Destination:               r.Destination,
		Steps:                     r.Steps,
		TotalDistance:             r.TotalDistance,
		TotalTime:                 r.TotalTime,
		TotalSustainabilityPoints: r.TotalSustainabilityPoints,
		Preference:                r.Preference,
		ExpireAt:                  time.Now().Add(time.Duration(ttlHours) * time.Hour),
	}
}

// ToRoute はFirestore保存モデルからルートを復元する
func (fr *FirestoreRoute) ToRoute(routeID string) *Route {
	return &Route{
		ID:                        routeID,
		Origin:                    fr.Origin,
		Destination:               fr.Destination,
		Steps:                     fr.Steps,
		TotalDistance:             fr.TotalDistance,
		TotalTime:                 fr.TotalTime,
		TotalSustainabilityPoints: fr.TotalSustainabilityPoints,
		Preference:                fr.Preference,
	}
}
