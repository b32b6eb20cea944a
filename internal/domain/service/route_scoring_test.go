package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoRoute-App/internal/domain/model"
)

func scoredRoute(id string, distance, time float64, modes ...model.TransportMode) *model.Route {
	r := &model.Route{ID: id, TotalDistance: distance, TotalTime: time}
	for _, m := range modes {
		r.Steps = append(r.Steps, model.RouteStep{Mode: m, Distance: distance / float64(len(modes))})
	}
	return r
}

func TestApplyPreferenceScoring(t *testing.T) {
	t.Run("安全基準はスコアを1.1倍する", func(t *testing.T) {
		r := &model.Route{SafetyScore: 0.8}
		ApplyPreferenceScoring(r, []model.RoutePreference{model.PreferenceSafest})
		assert.InDelta(t, 0.88, r.SafetyScore, 0.001)
	})

	t.Run("スコアは1.0で頭打ち", func(t *testing.T) {
		r := &model.Route{SafetyScore: 0.95}
		ApplyPreferenceScoring(r, []model.RoutePreference{model.PreferenceSafest})
		assert.Equal(t, 1.0, r.SafetyScore)
	})

	t.Run("健康基準はポイントを1.2倍して切り捨てる", func(t *testing.T) {
		r := &model.Route{TotalSustainabilityPoints: 45}
		ApplyPreferenceScoring(r, []model.RoutePreference{model.PreferenceHealthy})
		assert.Equal(t, 54.0, r.TotalSustainabilityPoints)
	})
}

func delayedScoredRoute(id string, time, delaySec float64) *model.Route {
	return &model.Route{
		ID:        id,
		TotalTime: time,
		Steps: []model.RouteStep{
			{Mode: model.ModeBus, TransitDetails: &model.TransitDetails{
				IsDelayed:    delaySec > 0,
				DelaySeconds: delaySec,
			}},
		},
	}
}

func TestSortPenalizesDelayedRoutes(t *testing.T) {
	t.Run("同所要時間なら遅延なしが先に来る", func(t *testing.T) {
		onTime := delayedScoredRoute("on_time", 1800, 0)
		delayed := delayedScoredRoute("delayed", 1800, 600)

		sorted := SortRoutesByPreferences([]*model.Route{delayed, onTime},
			[]model.RoutePreference{model.PreferenceFastest})
		require.Len(t, sorted, 2)
		assert.Equal(t, "on_time", sorted[0].ID)
		assert.Equal(t, "delayed", sorted[1].ID)
	})
}

func TestDelayPenalizedTime(t *testing.T) {
	t.Run("猶予内の遅延は上乗せなし", func(t *testing.T) {
		r := delayedScoredRoute("r1", 1000, 200)
		assert.InDelta(t, 1000, DelayPenalizedTime(r), 0.001)
	})

	t.Run("猶予超過分は3倍で効く", func(t *testing.T) {
		// DelayPenalty(600) = 300 + 300*3 = 1200、超過分600を上乗せ
		r := delayedScoredRoute("r1", 1000, 600)
		assert.InDelta(t, 1600, DelayPenalizedTime(r), 0.001)
	})

	t.Run("遅延がなければ所要時間そのまま", func(t *testing.T) {
		r := delayedScoredRoute("r1", 1000, 0)
		assert.InDelta(t, 1000, DelayPenalizedTime(r), 0.001)
	})
}

func TestSortRoutesByPreferences(t *testing.T) {
	fast := scoredRoute("fast", 5000, 600, model.ModeCar)
	slow := scoredRoute("slow", 5000, 3600, model.ModeWalking)

	t.Run("最速基準は所要時間の短い順", func(t *testing.T) {
		sorted := SortRoutesByPreferences([]*model.Route{slow, fast}, []model.RoutePreference{model.PreferenceFastest})
		require.Len(t, sorted, 2)
		assert.Equal(t, "fast", sorted[0].ID)
	})

	t.Run("入力スライスは変更されない", func(t *testing.T) {
		routes := []*model.Route{slow, fast}
		SortRoutesByPreferences(routes, []model.RoutePreference{model.PreferenceFastest})
		assert.Equal(t, "slow", routes[0].ID)
	})

	t.Run("基準なしはそのまま返す", func(t *testing.T) {
		routes := []*model.Route{slow, fast}
		sorted := SortRoutesByPreferences(routes, nil)
		assert.Equal(t, "slow", sorted[0].ID)
	})
}

func TestIsSignificantlyDifferent(t *testing.T) {
	base := scoredRoute("base", 5000, 3600, model.ModeWalking)

	t.Run("既存なしは常にtrue", func(t *testing.T) {
		assert.True(t, IsSignificantlyDifferent(base, nil))
	})

	t.Run("距離も手段も異なればtrue", func(t *testing.T) {
		other := scoredRoute("other", 8000, 1200, model.ModeBus, model.ModeWalking)
		assert.True(t, IsSignificantlyDifferent(other, []*model.Route{base}))
	})

	t.Run("距離差20%未満はfalse", func(t *testing.T) {
		similar := scoredRoute("similar", 5400, 1200, model.ModeBus)
		assert.False(t, IsSignificantlyDifferent(similar, []*model.Route{base}))
	})

	t.Run("同一の手段集合はfalse", func(t *testing.T) {
		sameModes := scoredRoute("same", 9000, 5000, model.ModeWalking)
		assert.False(t, IsSignificantlyDifferent(sameModes, []*model.Route{base}))
	})
}
