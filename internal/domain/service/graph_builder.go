package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"EcoRoute-App/internal/domain/model"
	"EcoRoute-App/internal/domain/repository"
)

// GraphBuilder はデータソースからマルチモーダルグラフを構築する。
// 各レイヤーの取得失敗はログに残してスキップし、構築自体は失敗させない
type GraphBuilder struct {
	streetRepo   repository.StreetNetworkRepository
	transitRepo  repository.TransitScheduleRepository
	mobilityRepo repository.SharedMobilityRepository
	logger       *logrus.Logger
}

// NewGraphBuilder は新しいGraphBuilderインスタンスを作成。
// リポジトリはnil可（そのレイヤーをスキップする）
func NewGraphBuilder(
	streetRepo repository.StreetNetworkRepository,
	transitRepo repository.TransitScheduleRepository,
	mobilityRepo repository.SharedMobilityRepository,
	logger *logrus.Logger,
) *GraphBuilder {
	if logger == nil {
		logger = logrus.New()
	}
	return &GraphBuilder{
		streetRepo:   streetRepo,
		transitRepo:  transitRepo,
		mobilityRepo: mobilityRepo,
		logger:       logger,
	}
}

// Build は中心点と半径からグラフを構築する
func (b *GraphBuilder) Build(ctx context.Context, center model.Point, radiusMeters float64) *model.Graph {
	graph := model.NewGraph()

	b.buildStreetLayer(ctx, graph, center, radiusMeters)
	b.attachTransitStops(ctx, graph, center, radiusMeters)
	b.attachMobilityStations(ctx, graph, center, radiusMeters)
	b.backfillEnergyCosts(graph)

	b.logger.WithFields(logrus.Fields{
		"nodes": len(graph.Nodes),
		"edges": len(graph.Edges),
	}).Info("🗺️ グラフ構築完了")
	return graph
}

func (b *GraphBuilder) buildStreetLayer(ctx context.Context, graph *model.Graph, center model.Point, radiusMeters float64) {
	if b.streetRepo == nil {
		b.logger.Info("道路データソース未設定、合成グリッドを使用")
		b.buildSyntheticGrid(graph, center, radiusMeters)
		return
	}

	segments, err := b.streetRepo.GetSegmentsInRadius(ctx, center, radiusMeters)
	if err != nil || len(segments) == 0 {
		if err != nil {
			b.logger.WithError(err).Warn("道路データ取得失敗、合成グリッドへフォールバック")
		}
		b.buildSyntheticGrid(graph, center, radiusMeters)
		return
	}

	for _, seg := range segments {
		b.addSegment(graph, seg)
	}
}

func (b *GraphBuilder) addSegment(graph *model.Graph, seg model.StreetSegment) {
	if _, ok := graph.Nodes[seg.FromNodeID]; !ok {
		graph.AddNode(&model.Node{ID: seg.FromNodeID, Point: seg.FromPoint, Type: model.NodeTypeIntersection})
	}
	if _, ok := graph.Nodes[seg.ToNodeID]; !ok {
		graph.AddNode(&model.Node{ID: seg.ToNodeID, Point: seg.ToPoint, Type: model.NodeTypeIntersection})
	}

	length := seg.LengthMeters
	if length <= 0 {
		length = seg.FromPoint.DistanceTo(seg.ToPoint)
	}

	modes := seg.AllowedModes()
	fwd := model.NewEdge(seg.ID+"_fwd", seg.FromNodeID, seg.ToNodeID, length, modes...)
	rev := model.NewEdge(seg.ID+"_rev", seg.ToNodeID, seg.FromNodeID, length, modes...)
	for _, e := range []*model.Edge{fwd, rev} {
		e.IsBikeLane = seg.IsBikeLane
		e.IsSidewalk = seg.IsSidewalk
		e.IsHighway = seg.IsHighway || seg.RoadClass == "motorway" || seg.RoadClass == "trunk"
		e.HasTransitService = seg.HasTransitService
		graph.AddEdge(e)
	}
}

// buildSyntheticGrid は100m間隔の4近傍格子を生成する。
// 実データが得られない環境でも探索を成立させるためのフォールバック
func (b *GraphBuilder) buildSyntheticGrid(graph *model.Graph, center model.Point, radiusMeters float64) {
	gridSize := model.DefaultGridSizeMeters
	steps := int(radiusMeters / gridSize)
	if steps < 1 {
		steps = 1
	}

	latStep := gridSize / 111000.0
	lngStep := gridSize / 111000.0

	nodeID := func(i, j int) string { return fmt.Sprintf("grid_%d_%d", i, j) }

	for i := -steps; i <= steps; i++ {
		for j := -steps; j <= steps; j++ {
			graph.AddNode(&model.Node{
				ID: nodeID(i, j),
				Point: model.Point{
					Lat: center.Lat + float64(i)*latStep,
					Lng: center.Lng + float64(j)*lngStep,
				},
				Type: model.NodeTypeIntersection,
			})
		}
	}

	gridModes := []model.TransportMode{model.ModeWalking, model.ModeBiking, model.ModeCar}
	for i := -steps; i <= steps; i++ {
		for j := -steps; j <= steps; j++ {
			from := graph.Nodes[nodeID(i, j)]
			if j+1 <= steps {
				to := graph.Nodes[nodeID(i, j+1)]
				d := from.Point.DistanceTo(to.Point)
				graph.AddBidirectionalEdge(fmt.Sprintf("grid_e_%d_%d_h", i, j), from.ID, to.ID, d, gridModes...)
			}
			if i+1 <= steps {
				to := graph.Nodes[nodeID(i+1, j)]
				d := from.Point.DistanceTo(to.Point)
				graph.AddBidirectionalEdge(fmt.Sprintf("grid_e_%d_%d_v", i, j), from.ID, to.ID, d, gridModes...)
			}
		}
	}
}

// attachTransitStops は半径内の停留所ノードを追加し、
// 200m以内の最寄り交差点ノードへ徒歩エッジで接続する
func (b *GraphBuilder) attachTransitStops(ctx context.Context, graph *model.Graph, center model.Point, radiusMeters float64) {
	if b.transitRepo == nil {
		return
	}
	stops, err := b.transitRepo.GetStopsInRadius(ctx, center, radiusMeters)
	if err != nil {
		b.logger.WithError(err).Warn("停留所データ取得失敗、スキップ")
		return
	}

	for _, stop := range stops {
		node := &model.Node{
			ID:    "stop_" + stop.ID,
			Point: stop.Point,
			Type:  model.NodeTypeTransitStop,
			Name:  stop.Name,
		}
		graph.AddNode(node)
		b.linkToNearestIntersection(graph, node, model.TransitStopLinkMeters)
	}
}

// attachMobilityStations はシェアモビリティのステーションを追加し、
// 100m以内の最寄り交差点ノードへ接続する
func (b *GraphBuilder) attachMobilityStations(ctx context.Context, graph *model.Graph, center model.Point, radiusMeters float64) {
	if b.mobilityRepo == nil {
		return
	}
	stations, err := b.mobilityRepo.GetStationsNear(ctx, center, radiusMeters)
	if err != nil {
		b.logger.WithError(err).Warn("シェアモビリティデータ取得失敗、スキップ")
		return
	}

	for _, st := range stations {
		node := &model.Node{
			ID:    "mobility_" + st.ID,
			Point: st.Location,
			Type:  model.NodeTypeSharedMobility,
			Name:  st.Name,
		}
		graph.AddNode(node)
		b.linkToNearestIntersection(graph, node, model.SharedMobilityLinkMeters)
	}
}

// linkToNearestIntersection は接続上限距離以内なら双方向の徒歩エッジを張る。
// 上限を超える場合は孤立ノードとして残す（エラーにはしない）
func (b *GraphBuilder) linkToNearestIntersection(graph *model.Graph, node *model.Node, maxMeters float64) {
	nearest := graph.NearestNodeOfType(node.Point, model.NodeTypeIntersection)
	if nearest == nil {
		return
	}
	d := node.Point.DistanceTo(nearest.Point)
	if d > maxMeters {
		return
	}
	graph.AddBidirectionalEdge("link_"+node.ID, node.ID, nearest.ID, d, model.ModeWalking)
}

func (b *GraphBuilder) backfillEnergyCosts(graph *model.Graph) {
	for _, edges := range graph.Edges {
		for _, e := range edges {
			for mode := range e.AllowedModes {
				weight, ok := energyWeights[mode]
				if !ok {
					weight = 0.5
				}
				e.EnergyCost[mode] = e.Distance * weight
			}
		}
	}
}
