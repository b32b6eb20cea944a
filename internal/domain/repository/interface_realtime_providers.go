package repository

import (
	"context"

	"EcoRoute-App/internal/domain/model"
)

// WeatherProvider は現在の気象状況を取得する
type WeatherProvider interface {
	GetCurrentWeather(ctx context.Context, location model.Point) (*model.WeatherData, error)
}

// TrafficProvider はエッジ単位の交通速度を取得する
type TrafficProvider interface {
	GetTrafficConditions(ctx context.Context, center model.Point, radiusMeters float64) (*model.TrafficData, error)
}

// ClosureProvider は道路閉鎖・工事情報を取得する
type ClosureProvider interface {
	GetRoadClosures(ctx context.Context, center model.Point, radiusMeters float64) ([]model.ClosureRecord, error)
	GetConstructionSites(ctx context.Context, center model.Point, radiusMeters float64) ([]model.ClosureRecord, error)
}

// SharedMobilityRepository はシェアモビリティのステーション情報を取得する
type SharedMobilityRepository interface {
	GetStationsNear(ctx context.Context, center model.Point, radiusMeters float64) ([]model.SharedMobilityStation, error)
}

// TransitRealtimeProvider はGTFS-RTフィードから便の更新とアラートを取得する
type TransitRealtimeProvider interface {
	GetTripUpdates(ctx context.Context) ([]model.TransitTripUpdate, error)
	GetServiceAlerts(ctx context.Context) ([]model.ServiceAlert, error)
}

// TransitScheduleRepository はGTFS静的データの検索を担う
type TransitScheduleRepository interface {
	// ResolveStopID は停留所名と路線番号から最適なstop_idを解決する
	ResolveStopID(ctx context.Context, stopName string, routeShortName string, near *model.Point) (string, error)
	// ResolveRouteID は路線番号からroute_idを解決する
	ResolveRouteID(ctx context.Context, routeShortName string) (string, error)
	// GetStopsInRadius は半径内の停留所を返す
	GetStopsInRadius(ctx context.Context, center model.Point, radiusMeters float64) ([]model.TransitStop, error)
}
