package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoRoute-App/internal/domain/model"
)

func TestClassifyClosureSeverity(t *testing.T) {
	t.Run("全面通行止めはmajor", func(t *testing.T) {
		assert.Equal(t, SeverityMajor, ClassifyClosureSeverity("Full closure of Granville Bridge"))
		assert.Equal(t, SeverityMajor, ClassifyClosureSeverity("Road closed due to watermain break"))
		assert.Equal(t, SeverityMajor, ClassifyClosureSeverity("NO ACCESS southbound"))
	})

	t.Run("車線規制はminor", func(t *testing.T) {
		assert.Equal(t, SeverityMinor, ClassifyClosureSeverity("Lane closure on Broadway"))
		assert.Equal(t, SeverityMinor, ClassifyClosureSeverity("Sidewalk construction"))
	})

	t.Run("判定不能はminor扱い", func(t *testing.T) {
		assert.Equal(t, SeverityMinor, ClassifyClosureSeverity("Special event"))
	})
}

func TestApplyToGraph(t *testing.T) {
	g := model.NewGraph()
	g.AddNode(&model.Node{ID: "a", Point: model.Point{Lat: 49.28, Lng: -123.12}})
	g.AddNode(&model.Node{ID: "b", Point: model.Point{Lat: 49.29, Lng: -123.12}})
	g.AddEdge(model.NewEdge("ab", "a", "b", 1000, model.ModeCar))
	g.AddEdge(model.NewEdge("bc", "b", "a", 1000, model.ModeCar))

	svc := NewRealtimeFusionService(nil)
	conditions := &model.RealtimeConditions{
		Weather: &model.WeatherData{Condition: "rain"},
		Traffic: &model.TrafficData{
			Segments: []model.TrafficSegment{{EdgeID: "ab", SpeedKmh: 12}},
		},
	}
	svc.ApplyToGraph(g, conditions)

	ab := g.EdgesFrom("a")[0]
	bc := g.EdgesFrom("b")[0]

	t.Run("気象ペナルティは全エッジに乗算される", func(t *testing.T) {
		assert.InDelta(t, 1.3, ab.WeatherPenalty, 0.001)
		assert.InDelta(t, 1.3, bc.WeatherPenalty, 0.001)
	})

	t.Run("交通速度はID一致エッジのみ上書きされる", func(t *testing.T) {
		require.NotNil(t, ab.CurrentTrafficSpeed)
		assert.Equal(t, 12.0, *ab.CurrentTrafficSpeed)
		assert.Nil(t, bc.CurrentTrafficSpeed)
	})

	t.Run("nil条件は何もしない", func(t *testing.T) {
		before := ab.WeatherPenalty
		svc.ApplyToGraph(g, nil)
		assert.Equal(t, before, ab.WeatherPenalty)
	})
}

func TestApplyClosurePenalties(t *testing.T) {
	buildGraph := func() *model.Graph {
		g := model.NewGraph()
		g.AddNode(&model.Node{ID: "a", Point: model.Point{Lat: 49.2800, Lng: -123.1200}})
		g.AddNode(&model.Node{ID: "b", Point: model.Point{Lat: 49.2803, Lng: -123.1200}})
		g.AddNode(&model.Node{ID: "c", Point: model.Point{Lat: 49.3000, Lng: -123.1200}})
		g.AddNode(&model.Node{ID: "d", Point: model.Point{Lat: 49.3003, Lng: -123.1200}})
		g.AddEdge(model.NewEdge("ab", "a", "b", 35, model.ModeWalking))
		g.AddEdge(model.NewEdge("cd", "c", "d", 35, model.ModeWalking))
		return g
	}

	svc := NewRealtimeFusionService(nil)

	t.Run("major閉鎖の近接エッジは重くなる", func(t *testing.T) {
		g := buildGraph()
		svc.ApplyToGraph(g, &model.RealtimeConditions{
			Closures: []model.ClosureRecord{
				{ID: "c1", Location: model.Point{Lat: 49.2800, Lng: -123.1200}, Description: "Road closed"},
			},
		})

		assert.InDelta(t, 5.0, g.EdgesFrom("a")[0].EventPenalty, 0.001)
		// 離れたエッジは影響を受けない
		assert.InDelta(t, 1.0, g.EdgesFrom("c")[0].EventPenalty, 0.001)
	})

	t.Run("minor閉鎖は既定では無視される", func(t *testing.T) {
		g := buildGraph()
		svc.ApplyToGraph(g, &model.RealtimeConditions{
			Closures: []model.ClosureRecord{
				{ID: "c2", Location: model.Point{Lat: 49.2800, Lng: -123.1200}, Description: "Lane closure"},
			},
		})
		assert.InDelta(t, 1.0, g.EdgesFrom("a")[0].EventPenalty, 0.001)
	})

	t.Run("Strictモードはminor閉鎖にも軽いペナルティを課す", func(t *testing.T) {
		strict := NewRealtimeFusionService(nil)
		strict.Strict = true
		g := buildGraph()
		strict.ApplyToGraph(g, &model.RealtimeConditions{
			Closures: []model.ClosureRecord{
				{ID: "c3", Location: model.Point{Lat: 49.2800, Lng: -123.1200}, Description: "Lane closure"},
			},
		})
		assert.InDelta(t, 1.5, g.EdgesFrom("a")[0].EventPenalty, 0.001)
	})
}

func closureRoute(lat, lng float64) *model.Route {
	return &model.Route{
		ID: "r1",
		Steps: []model.RouteStep{
			{
				Mode:       model.ModeWalking,
				StartPoint: model.Point{Lat: lat, Lng: lng},
				EndPoint:   model.Point{Lat: lat + 0.001, Lng: lng},
			},
		},
	}
}

func TestFilterClosedRoutes(t *testing.T) {
	svc := NewRealtimeFusionService(nil)

	closurePoint := model.Point{Lat: 49.2800, Lng: -123.1200}
	major := model.ClosureRecord{
		ID:          "c1",
		Location:    closurePoint,
		Description: "Road closed for repairs",
	}
	minor := model.ClosureRecord{
		ID:          "c2",
		Location:    closurePoint,
		Description: "Lane closure",
	}

	t.Run("閉鎖地点50m以内を通るルートを除外する", func(t *testing.T) {
		near := closureRoute(49.2800, -123.1200)
		far := closureRoute(49.3000, -123.1200)
		far.ID = "r2"

		open := svc.FilterClosedRoutes([]*model.Route{near, far}, []model.ClosureRecord{major})
		require.Len(t, open, 1)
		assert.Equal(t, "r2", open[0].ID)
	})

	t.Run("50m超のルートは影響を受けない", func(t *testing.T) {
		// 約100m東にずれた閉鎖
		offset := model.ClosureRecord{
			ID:          "c3",
			Location:    model.Point{Lat: 49.2800, Lng: -123.1214},
			Description: "Road closed",
		}
		route := closureRoute(49.2800, -123.1200)
		open := svc.FilterClosedRoutes([]*model.Route{route}, []model.ClosureRecord{offset})
		assert.Len(t, open, 1)
	})

	t.Run("既定ではminor閉鎖を無視する", func(t *testing.T) {
		route := closureRoute(49.2800, -123.1200)
		open := svc.FilterClosedRoutes([]*model.Route{route}, []model.ClosureRecord{minor})
		assert.Len(t, open, 1)
	})

	t.Run("Strictモードはminor閉鎖も回避する", func(t *testing.T) {
		strict := NewRealtimeFusionService(nil)
		strict.Strict = true
		near := closureRoute(49.2800, -123.1200)
		far := closureRoute(49.3000, -123.1200)
		far.ID = "r2"
		open := strict.FilterClosedRoutes([]*model.Route{near, far}, []model.ClosureRecord{minor})
		require.Len(t, open, 1)
		assert.Equal(t, "r2", open[0].ID)
	})

	t.Run("全ルートが抵触する場合は元のルートを返す", func(t *testing.T) {
		near1 := closureRoute(49.2800, -123.1200)
		near2 := closureRoute(49.2800, -123.1200)
		near2.ID = "r2"
		open := svc.FilterClosedRoutes([]*model.Route{near1, near2}, []model.ClosureRecord{major})
		assert.Len(t, open, 2)
	})
}
