package repository

import (
	"context"

	"EcoRoute-App/internal/domain/model"
)

// StreetNetworkRepository は道路ネットワークの取得を担う
type StreetNetworkRepository interface {
	// GetSegmentsInRadius は中心点から半径内の道路セグメントを返す
	GetSegmentsInRadius(ctx context.Context, center model.Point, radiusMeters float64) ([]model.StreetSegment, error)
}
