package model

// ExternalTransitDetails は外部経路APIの乗車区間情報
type ExternalTransitDetails struct {
	LineName      string `json:"line_name"`
	LineShortName string `json:"line_short_name"`
	VehicleType   string `json:"vehicle_type"` // "BUS"、"SUBWAY"など
	DepartureStop string `json:"departure_stop"`
	ArrivalStop   string `json:"arrival_stop"`
	NumStops      int    `json:"num_stops"`
}

// ExternalStep は外部経路APIのターンバイターン1ステップ
type ExternalStep struct {
	TravelMode     string                  `json:"travel_mode"` // "WALKING"、"TRANSIT"など
	DistanceMeters float64                 `json:"distance_meters"`
	DurationSec    float64                 `json:"duration_sec"`
	StartPoint     Point                   `json:"start_point"`
	EndPoint       Point                   `json:"end_point"`
	Polyline       string                  `json:"polyline,omitempty"`
	Instructions   string                  `json:"instructions,omitempty"`
	Transit        *ExternalTransitDetails `json:"transit,omitempty"`
}

// ExternalRoute は外部経路APIから取得した1ルート
type ExternalRoute struct {
	Steps            []ExternalStep `json:"steps"`
	OverviewPolyline string         `json:"overview_polyline,omitempty"`
}

// HasTransitStep はルートに公共交通区間が含まれるかを返す
func (r *ExternalRoute) HasTransitStep() bool {
	for _, s := range r.Steps {
		if s.Transit != nil {
			return true
		}
	}
	return false
}
