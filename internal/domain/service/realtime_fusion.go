package service

import (
	"strings"

	"github.com/sirupsen/logrus"

	"EcoRoute-App/internal/domain/model"
)

// ClosureSeverity は閉鎖情報の深刻度
type ClosureSeverity string

const (
	SeverityMajor ClosureSeverity = "major"
	SeverityMinor ClosureSeverity = "minor"
)

var majorClosureKeywords = []string{
	"full closure", "complete closure", "road closed", "bridge closed",
	"major", "full", "closed", "blocked", "no access",
}

var minorClosureKeywords = []string{
	"partial", "lane closure", "shoulder", "minor", "construction",
	"lane", "sidewalk", "shoulder work",
}

// ClassifyClosureSeverity は説明文のキーワードから深刻度を判定する。
// majorキーワードを先に評価し、どちらにも該当しなければminorとする
func ClassifyClosureSeverity(description string) ClosureSeverity {
	lower := strings.ToLower(description)
	for _, kw := range majorClosureKeywords {
		if strings.Contains(lower, kw) {
			return SeverityMajor
		}
	}
	for _, kw := range minorClosureKeywords {
		if strings.Contains(lower, kw) {
			return SeverityMinor
		}
	}
	return SeverityMinor
}

// RealtimeFusionService はリアルタイム情報をグラフとルートへ反映する
type RealtimeFusionService struct {
	logger *logrus.Logger

	// Strictがtrueの場合はminor閉鎖も回避対象にする
	Strict bool
}

// NewRealtimeFusionService は新しいRealtimeFusionServiceインスタンスを作成
func NewRealtimeFusionService(logger *logrus.Logger) *RealtimeFusionService {
	if logger == nil {
		logger = logrus.New()
	}
	return &RealtimeFusionService{logger: logger}
}

// 閉鎖近接エッジへ課すイベントペナルティ係数
const (
	majorClosureEdgePenalty = 5.0
	minorClosureEdgePenalty = 1.5
)

// ApplyToGraph は気象ペナルティ・交通速度・閉鎖ペナルティをグラフへ反映する。
// 気象ペナルティは乗算合成され、交通速度はエッジID一致時のみ上書きされる。
// 閉鎖地点の近接エッジはイベントペナルティで重くなり、探索が自然に迂回する
func (s *RealtimeFusionService) ApplyToGraph(graph *model.Graph, conditions *model.RealtimeConditions) {
	if conditions == nil {
		return
	}

	weatherPenalty := conditions.Weather.Penalty()

	trafficByEdge := make(map[string]float64)
	if conditions.Traffic != nil {
		for _, seg := range conditions.Traffic.Segments {
			trafficByEdge[seg.EdgeID] = seg.SpeedKmh
		}
	}

	for _, edges := range graph.Edges {
		for _, e := range edges {
			if weatherPenalty != 1.0 {
				e.WeatherPenalty *= weatherPenalty
			}
			if speed, ok := trafficByEdge[e.ID]; ok {
				v := speed
				e.CurrentTrafficSpeed = &v
			}
		}
	}

	s.applyClosurePenalties(graph, conditions.AllClosures())

	if weatherPenalty != 1.0 {
		s.logger.WithField("penalty", weatherPenalty).Info("🌧️ 気象ペナルティ適用")
	}
}

// applyClosurePenalties は閉鎖地点の近くを通るエッジを重くする。
// エッジは削除しない（全滅時でも経路が成立するように）
func (s *RealtimeFusionService) applyClosurePenalties(graph *model.Graph, closures []model.ClosureRecord) {
	for _, c := range closures {
		factor := minorClosureEdgePenalty
		if ClassifyClosureSeverity(c.Description) == SeverityMajor {
			factor = majorClosureEdgePenalty
		} else if !s.Strict {
			continue
		}

		for _, edges := range graph.Edges {
			for _, e := range edges {
				from := graph.Nodes[e.From]
				to := graph.Nodes[e.To]
				if from == nil || to == nil {
					continue
				}
				if edgeNearPoint(from.Point, to.Point, c.Location, model.ClosureProximityMeters) {
					e.EventPenalty *= factor
				}
			}
		}
	}
}

// edgeNearPoint はエッジの両端と中間点のいずれかが閾値以内かを返す
func edgeNearPoint(from, to, p model.Point, thresholdMeters float64) bool {
	if from.DistanceTo(p) <= thresholdMeters || to.DistanceTo(p) <= thresholdMeters {
		return true
	}
	mid := model.Point{Lat: (from.Lat + to.Lat) / 2, Lng: (from.Lng + to.Lng) / 2}
	return mid.DistanceTo(p) <= thresholdMeters
}

// RouteIntersectsClosures はルートのいずれかのステップが閉鎖地点の
// 50m以内を通過するかを判定する。既定ではmajor閉鎖のみ対象
func (s *RealtimeFusionService) RouteIntersectsClosures(route *model.Route, closures []model.ClosureRecord) bool {
	for _, c := range closures {
		severity := ClassifyClosureSeverity(c.Description)
		if severity != SeverityMajor && !s.Strict {
			continue
		}
		for _, step := range route.Steps {
			if stepNearPoint(step, c.Location, model.ClosureProximityMeters) {
				return true
			}
		}
	}
	return false
}

// stepNearPoint はステップの始点・終点・中間点のいずれかが
// 指定地点から閾値以内にあるかを返す
func stepNearPoint(step model.RouteStep, p model.Point, thresholdMeters float64) bool {
	if step.StartPoint.DistanceTo(p) <= thresholdMeters {
		return true
	}
	if step.EndPoint.DistanceTo(p) <= thresholdMeters {
		return true
	}
	mid := model.Point{
		Lat: (step.StartPoint.Lat + step.EndPoint.Lat) / 2,
		Lng: (step.StartPoint.Lng + step.EndPoint.Lng) / 2,
	}
	return mid.DistanceTo(p) <= thresholdMeters
}

// FilterClosedRoutes は閉鎖に抵触するルートを除外する。
// 全ルートが抵触する場合は元のルートをそのまま返す（案内ゼロよりまし）
func (s *RealtimeFusionService) FilterClosedRoutes(routes []*model.Route, closures []model.ClosureRecord) []*model.Route {
	if len(closures) == 0 {
		return routes
	}
	open := make([]*model.Route, 0, len(routes))
	for _, r := range routes {
		if s.RouteIntersectsClosures(r, closures) {
			s.logger.WithField("route_id", r.ID).Info("🚧 閉鎖のためルート除外")
			continue
		}
		open = append(open, r)
	}
	if len(open) == 0 {
		return routes
	}
	return open
}
