package model

// StreetSegment は道路データソースから取得した1区間。
// グラフビルダーがノードとエッジへ変換する
type StreetSegment struct {
	ID                string  `json:"id"`
	FromNodeID        string  `json:"from_node_id"`
	ToNodeID          string  `json:"to_node_id"`
	FromPoint         Point   `json:"from_point"`
	ToPoint           Point   `json:"to_point"`
	LengthMeters      float64 `json:"length_meters"`
	RoadClass         string  `json:"road_class"` // "residential", "primary", "cycleway", "footway"など
	IsBikeLane        bool    `json:"is_bike_lane"`
	IsSidewalk        bool    `json:"is_sidewalk"`
	HasTransitService bool    `json:"has_transit_service"`
	IsHighway         bool    `json:"is_highway"`
}

// AllowedModes は道路区分から通行可能な移動手段を導く。徒歩は常に許可される
func (s *StreetSegment) AllowedModes() []TransportMode {
	switch s.RoadClass {
	case "motorway", "trunk":
		return []TransportMode{ModeCar}
	case "cycleway":
		return []TransportMode{ModeWalking, ModeBiking, ModeScooter}
	case "footway", "pedestrian", "path":
		return []TransportMode{ModeWalking}
	default:
		return []TransportMode{ModeWalking, ModeBiking, ModeScooter, ModeCar}
	}
}
