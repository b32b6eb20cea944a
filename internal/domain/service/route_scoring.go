package service

import (
	"math"
	"sort"

	"EcoRoute-App/internal/domain/model"
)

// ApplyPreferenceScoring は優先基準に応じてルートの評価値を底上げする
func ApplyPreferenceScoring(route *model.Route, preferences []model.RoutePreference) {
	for _, pref := range preferences {
		switch pref {
		case model.PreferenceSafest:
			route.SafetyScore = math.Min(1.0, route.SafetyScore*1.1)
		case model.PreferenceEnergyEfficient:
			route.EnergyEfficiency = math.Min(1.0, route.EnergyEfficiency*1.1)
		case model.PreferenceScenic:
			route.ScenicScore = math.Min(1.0, route.ScenicScore*1.1)
		case model.PreferenceHealthy:
			route.TotalSustainabilityPoints = float64(int(route.TotalSustainabilityPoints * 1.2))
		}
	}
}

// SortRoutesByPreferences は優先基準の順序を重みとしてルートを降順ソートする
func SortRoutesByPreferences(routes []*model.Route, preferences []model.RoutePreference) []*model.Route {
	if len(preferences) == 0 {
		return routes
	}

	score := func(r *model.Route) float64 {
		s := 0.0
		for _, pref := range preferences {
			switch pref {
			case model.PreferenceFastest:
				// 遅延中のルートは実所要時間以上に効かせて順位を下げる
				s += 1000.0 / math.Max(DelayPenalizedTime(r), 1)
			case model.PreferenceSafest:
				s += r.SafetyScore * 100
			case model.PreferenceEnergyEfficient:
				s += r.EnergyEfficiency * 100
			case model.PreferenceScenic:
				s += r.ScenicScore * 100
			case model.PreferenceHealthy:
				s += r.TotalSustainabilityPoints
			case model.PreferenceCheapest:
				s += 1000.0 / math.Max(r.TotalDistance, 1)
			}
		}
		return s
	}

	sorted := make([]*model.Route, len(routes))
	copy(sorted, routes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return score(sorted[i]) > score(sorted[j])
	})
	return sorted
}

// IsSignificantlyDifferent は既存ルート群と比べて十分に異なるかを判定する。
// 距離が20%以上違い、かつ使用手段の集合が一致しないことが条件
func IsSignificantlyDifferent(route *model.Route, existing []*model.Route) bool {
	if len(existing) == 0 {
		return true
	}
	routeModes := route.ModeSet()
	for _, ex := range existing {
		if ex.TotalDistance > 0 {
			ratio := math.Abs(route.TotalDistance-ex.TotalDistance) / ex.TotalDistance
			if ratio < 0.2 {
				return false
			}
		}
		if sameModeSet(routeModes, ex.ModeSet()) {
			return false
		}
	}
	return true
}

func sameModeSet(a, b map[model.TransportMode]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for m := range a {
		if !b[m] {
			return false
		}
	}
	return true
}
