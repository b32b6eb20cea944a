package service

import (
	"EcoRoute-App/internal/domain/model"
)

// 手段ごとのポイント倍率。車利用はほぼ無効化する
var sustainabilityMultipliers = map[model.TransportMode]float64{
	model.ModeWalking:  1.5,
	model.ModeBiking:   1.2,
	model.ModeScooter:  1.0,
	model.ModeBus:      1.1,
	model.ModeSkytrain: 1.1,
	model.ModeCar:      0.1,
}

// RouteRewards はルート完了時の報酬
type RouteRewards struct {
	SustainabilityPoints int     `json:"sustainability_points"`
	CO2SavedKg           float64 `json:"co2_saved_kg"`
}

// GamificationService は持続可能な移動を促すための報酬計算を担う
type GamificationService struct{}

// NewGamificationService は新しいGamificationServiceインスタンスを作成
func NewGamificationService() *GamificationService {
	return &GamificationService{}
}

// CalculateRouteRewards はルート完了時の報酬を計算する
func (g *GamificationService) CalculateRouteRewards(route *model.Route) *RouteRewards {
	multiplier := g.routeMultiplier(route)
	return &RouteRewards{
		SustainabilityPoints: int(route.TotalSustainabilityPoints * multiplier),
		CO2SavedKg:           g.calculateCO2Savings(route),
	}
}

// routeMultiplier はルートの主要手段に応じたポイント倍率を返す。
// 距離が最長のステップの手段を主要手段とみなす
func (g *GamificationService) routeMultiplier(route *model.Route) float64 {
	var dominant model.TransportMode
	longest := -1.0
	for _, step := range route.Steps {
		if step.Distance > longest {
			longest = step.Distance
			dominant = step.Mode
		}
	}
	if m, ok := sustainabilityMultipliers[dominant]; ok {
		return m
	}
	return 1.0
}

// calculateCO2Savings は自動車利用と比較したCO2削減量（kg）を返す
func (g *GamificationService) calculateCO2Savings(route *model.Route) float64 {
	total := 0.0
	for _, step := range route.Steps {
		carKg := step.Distance / 1000 * co2EmissionsKgPerKm[model.ModeCar]
		ownKg, ok := co2EmissionsKgPerKm[step.Mode]
		if !ok {
			ownKg = co2EmissionsKgPerKm[model.ModeCar]
		}
		saved := carKg - step.Distance/1000*ownKg
		if saved > 0 {
			total += saved
		}
	}
	return total
}
