package model

// TransitStop はGTFS静的データの停留所
type TransitStop struct {
	ID            string `json:"stop_id"`
	Code          string `json:"stop_code,omitempty"`
	Name          string `json:"stop_name"`
	Point         Point  `json:"point"`
	LocationType  int    `json:"location_type"` // 1なら駅（親ステーション）
	ParentStation string `json:"parent_station,omitempty"`
}

// IsStation は複数のりばを束ねる親ステーションかを返す
func (s *TransitStop) IsStation() bool {
	return s.LocationType == 1
}

// TransitRoute はGTFS静的データの路線
type TransitRoute struct {
	ID        string `json:"route_id"`
	ShortName string `json:"route_short_name"`
	LongName  string `json:"route_long_name"`
	Type      int    `json:"route_type"`
}

// TransitTrip はGTFS静的データの便
type TransitTrip struct {
	ID       string `json:"trip_id"`
	RouteID  string `json:"route_id"`
	Headsign string `json:"trip_headsign,omitempty"`
}
