package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoRoute-App/internal/domain/model"
)

// 高速道路 a-c の直行と、一般道 a-b-c の迂回を持つグラフ
func buildHighwayGraph() *model.Graph {
	g := model.NewGraph()
	g.AddNode(&model.Node{ID: "a", Point: model.Point{Lat: 49.2800, Lng: -123.1200}})
	g.AddNode(&model.Node{ID: "b", Point: model.Point{Lat: 49.2850, Lng: -123.1300}})
	g.AddNode(&model.Node{ID: "c", Point: model.Point{Lat: 49.2900, Lng: -123.1200}})

	g.AddBidirectionalEdge("hwy", "a", "c", 1100, model.ModeCar)
	g.AddBidirectionalEdge("ab", "a", "b", 900, model.ModeWalking, model.ModeCar)
	g.AddBidirectionalEdge("bc", "b", "c", 900, model.ModeWalking, model.ModeCar)
	for _, edges := range g.Edges {
		for _, e := range edges {
			if e.ID == "hwy_fwd" || e.ID == "hwy_rev" {
				e.IsHighway = true
			}
		}
	}
	return g
}

func TestApplyAvoidHighways(t *testing.T) {
	t.Run("高速道路エッジから自動車を外す", func(t *testing.T) {
		g := buildHighwayGraph()
		ApplyAvoidHighways(g)

		for _, edges := range g.Edges {
			for _, e := range edges {
				if e.IsHighway {
					assert.False(t, e.Allows(model.ModeCar), e.ID)
				} else {
					assert.True(t, e.Allows(model.ModeCar), e.ID)
				}
			}
		}
	})

	t.Run("適用後の探索は一般道を迂回する", func(t *testing.T) {
		g := buildHighwayGraph()
		carOnly := map[model.TransportMode]bool{model.ModeCar: true}
		search := NewAStarSearch(g)

		direct := search.FindPath("a", "c", carOnly, NewCostFunction(model.PreferenceFastest))
		require.Len(t, direct, 1)
		assert.Equal(t, "hwy_fwd", direct[0].Edge.ID)

		ApplyAvoidHighways(g)
		detour := search.FindPath("a", "c", carOnly, NewCostFunction(model.PreferenceFastest))
		require.Len(t, detour, 2)
		assert.Equal(t, "b", detour[0].Edge.To)
	})
}

func walkingRoute(id string, walkMeters float64) *model.Route {
	return &model.Route{
		ID: id,
		Steps: []model.RouteStep{
			{Mode: model.ModeWalking, Distance: walkMeters},
			{Mode: model.ModeBus, Distance: 3000},
		},
	}
}

func TestFilterByWalkingDistance(t *testing.T) {
	t.Run("上限超過のルートを除外する", func(t *testing.T) {
		routes := []*model.Route{walkingRoute("r1", 500), walkingRoute("r2", 2500)}
		filtered := FilterByWalkingDistance(routes, 2000)
		require.Len(t, filtered, 1)
		assert.Equal(t, "r1", filtered[0].ID)
	})

	t.Run("上限0はそのまま返す", func(t *testing.T) {
		routes := []*model.Route{walkingRoute("r1", 5000)}
		assert.Equal(t, routes, FilterByWalkingDistance(routes, 0))
	})

	t.Run("全ルート超過なら元の集合を返す", func(t *testing.T) {
		routes := []*model.Route{walkingRoute("r1", 3000), walkingRoute("r2", 4000)}
		assert.Equal(t, routes, FilterByWalkingDistance(routes, 1000))
	})

	t.Run("徒歩距離は徒歩ステップのみ合算する", func(t *testing.T) {
		r := walkingRoute("r1", 1500)
		assert.InDelta(t, 1500, WalkingDistanceMeters(r), 0.001)
	})
}
