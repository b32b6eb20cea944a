package repository

import (
	"context"

	"EcoRoute-App/internal/domain/model"
)

// DirectionsProvider は外部経路APIからターンバイターン経路を取得する。
// 公共交通一式のように自前グラフで表現しきれない手段を補完する
type DirectionsProvider interface {
	// GetDirections は指定手段での経路を取得する。代替案込みで複数返ることがある
	GetDirections(ctx context.Context, origin, destination model.Point, mode model.TransportMode, avoidHighways bool, alternatives bool) ([]model.ExternalRoute, error)
}
