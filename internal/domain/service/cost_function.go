package service

import (
	"EcoRoute-App/internal/domain/model"
)

// CostFunction はエッジ通過の実効コスト（秒換算）を計算する。
// prevModeが空文字の場合は乗り換えペナルティを加算しない
type CostFunction interface {
	Cost(edge *model.Edge, mode, prevMode model.TransportMode) float64
	Preference() model.RoutePreference
}

// Heuristic はA*の許容的ヒューリスティック。
// 最速手段ではなく徒歩速度で割ることで過大評価を避ける
func Heuristic(from, to model.Point) float64 {
	return from.DistanceTo(to) / model.SpeedMPS(model.ModeWalking)
}

// NewCostFunction は優先基準に対応するコスト関数を返す。
// 未知の基準は最速基準にフォールバックする
func NewCostFunction(pref model.RoutePreference) CostFunction {
	switch pref {
	case model.PreferenceSafest:
		return &safestCost{}
	case model.PreferenceEnergyEfficient:
		return &energyEfficientCost{}
	case model.PreferenceScenic:
		return &scenicCost{}
	case model.PreferenceHealthy:
		return &healthyCost{}
	case model.PreferenceCheapest:
		return &cheapestCost{}
	default:
		return &fastestCost{}
	}
}

// baseTravelCost は気象・イベントペナルティ込みの所要時間（秒）
func baseTravelCost(edge *model.Edge, mode model.TransportMode) float64 {
	return edge.TravelTimeSec(mode)
}

type fastestCost struct{}

func (f *fastestCost) Preference() model.RoutePreference { return model.PreferenceFastest }

func (f *fastestCost) Cost(edge *model.Edge, mode, prevMode model.TransportMode) float64 {
	return baseTravelCost(edge, mode) + model.ModeSwitchCost(prevMode, mode)
}

type safestCost struct{}

func (s *safestCost) Preference() model.RoutePreference { return model.PreferenceSafest }

func (s *safestCost) Cost(edge *model.Edge, mode, prevMode model.TransportMode) float64 {
	cost := baseTravelCost(edge, mode)

	// 自転車レーンのない道路では安全ペナルティを課す
	if !edge.IsBikeLane {
		switch mode {
		case model.ModeCar:
			cost *= 1.2
		case model.ModeBiking, model.ModeScooter:
			cost *= 1.5
		}
	}
	return cost + model.ModeSwitchCost(prevMode, mode)
}

var energyWeights = map[model.TransportMode]float64{
	model.ModeWalking:  0.1,
	model.ModeBiking:   0.2,
	model.ModeScooter:  0.3,
	model.ModeBus:      0.4,
	model.ModeSkytrain: 0.4,
	model.ModeCar:      1.0,
}

type energyEfficientCost struct{}

func (e *energyEfficientCost) Preference() model.RoutePreference {
	return model.PreferenceEnergyEfficient
}

func (e *energyEfficientCost) Cost(edge *model.Edge, mode, prevMode model.TransportMode) float64 {
	weight, ok := energyWeights[mode]
	if !ok {
		weight = 0.5
	}
	cost := baseTravelCost(edge, mode) + edge.Distance*weight
	return cost + model.ModeSwitchCost(prevMode, mode)
}

var scenicBonuses = map[model.TransportMode]float64{
	model.ModeWalking: -0.2,
	model.ModeBiking:  -0.1,
	model.ModeScooter: 0,
	model.ModeBus:     0,
	model.ModeCar:     0.1,
}

type scenicCost struct{}

func (s *scenicCost) Preference() model.RoutePreference { return model.PreferenceScenic }

func (s *scenicCost) Cost(edge *model.Edge, mode, prevMode model.TransportMode) float64 {
	bonus := scenicBonuses[mode]
	cost := baseTravelCost(edge, mode) * (1 + bonus)
	return cost + model.ModeSwitchCost(prevMode, mode)
}

var healthyBonuses = map[model.TransportMode]float64{
	model.ModeWalking: -0.3,
	model.ModeBiking:  -0.2,
	model.ModeScooter: -0.1,
	model.ModeBus:     0,
	model.ModeCar:     0.2,
}

type healthyCost struct{}

func (h *healthyCost) Preference() model.RoutePreference { return model.PreferenceHealthy }

func (h *healthyCost) Cost(edge *model.Edge, mode, prevMode model.TransportMode) float64 {
	bonus := healthyBonuses[mode]
	cost := baseTravelCost(edge, mode) * (1 + bonus)
	return cost + model.ModeSwitchCost(prevMode, mode)
}

// 1kmあたりの概算料金係数
var pricePerKm = map[model.TransportMode]float64{
	model.ModeWalking:  0,
	model.ModeBiking:   0.1,
	model.ModeBus:      0.3,
	model.ModeSkytrain: 0.4,
	model.ModeScooter:  0.5,
	model.ModeCar:      1.0,
}

type cheapestCost struct{}

func (c *cheapestCost) Preference() model.RoutePreference { return model.PreferenceCheapest }

func (c *cheapestCost) Cost(edge *model.Edge, mode, prevMode model.TransportMode) float64 {
	price, ok := pricePerKm[mode]
	if !ok {
		price = 0.5
	}
	cost := baseTravelCost(edge, mode) + edge.Distance/1000*price
	return cost + model.ModeSwitchCost(prevMode, mode)
}
