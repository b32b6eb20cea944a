package repository

import (
	"context"

	"EcoRoute-App/internal/domain/model"
)

// RouteCacheRepository は計算済みルートのキャッシュを担う
type RouteCacheRepository interface {
	SaveRoute(ctx context.Context, route *model.Route) (string, error)
	GetRoute(ctx context.Context, routeID string) (*model.Route, error)
	DeleteRoute(ctx context.Context, routeID string) error
}
