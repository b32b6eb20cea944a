package repository

import (
	"github.com/paulmach/orb"

	"EcoRoute-App/internal/domain/model"
)

// GeoPoint PostGIS POINT 型の JSON 表現
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// PointToGeoPoint model.Point を PostGIS POINT 形式に変換
func PointToGeoPoint(p *model.Point) *GeoPoint {
	if p == nil {
		return nil
	}

	point := orb.Point{p.Lng, p.Lat}

	return &GeoPoint{
		Type:        "Point",
		Coordinates: []float64{point.Lon(), point.Lat()},
	}
}

// GeoPointToPoint PostGIS POINT を model.Point に変換
func GeoPointToPoint(geoPoint *GeoPoint) *model.Point {
	if geoPoint == nil || len(geoPoint.Coordinates) < 2 {
		return nil
	}

	point := orb.Point{geoPoint.Coordinates[0], geoPoint.Coordinates[1]}

	return &model.Point{
		Lat: point.Lat(),
		Lng: point.Lon(),
	}
}

// BoundAround 中心点と半径（メートル）から境界ボックスを作成。
// 粗い事前フィルタ用で、正確な距離判定は呼び出し側で行う
func BoundAround(center model.Point, radiusMeters float64) orb.Bound {
	// 緯度1度は約111km。経度方向も同じ係数で広めにとる
	padding := radiusMeters / 111000.0

	bound := orb.Bound{
		Min: orb.Point{center.Lng, center.Lat},
		Max: orb.Point{center.Lng, center.Lat},
	}
	return bound.Pad(padding)
}

// InBound 点が境界ボックス内にあるかを判定
func InBound(bound orb.Bound, p model.Point) bool {
	return bound.Contains(orb.Point{p.Lng, p.Lat})
}
