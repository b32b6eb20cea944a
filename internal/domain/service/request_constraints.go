package service

import (
	"EcoRoute-App/internal/domain/model"
)

// ApplyAvoidHighways は高速道路エッジから自動車の通行許可を外す。
// 探索前にリクエスト単位で適用する
func ApplyAvoidHighways(graph *model.Graph) {
	for _, edges := range graph.Edges {
		for _, e := range edges {
			if e.IsHighway {
				delete(e.AllowedModes, model.ModeCar)
			}
		}
	}
}

// WalkingDistanceMeters はルート内の徒歩区間の合計距離を返す
func WalkingDistanceMeters(route *model.Route) float64 {
	total := 0.0
	for _, step := range route.Steps {
		if step.Mode == model.ModeWalking {
			total += step.Distance
		}
	}
	return total
}

// FilterByWalkingDistance は徒歩合計が上限を超えるルートを除外する。
// 上限が0以下なら何もしない。全ルートが超過する場合は元の集合を返す
func FilterByWalkingDistance(routes []*model.Route, maxMeters float64) []*model.Route {
	if maxMeters <= 0 {
		return routes
	}
	filtered := make([]*model.Route, 0, len(routes))
	for _, r := range routes {
		if WalkingDistanceMeters(r) <= maxMeters {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return routes
	}
	return filtered
}
