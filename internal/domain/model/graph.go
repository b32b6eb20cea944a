package model

// Node はマルチモーダルグラフのノード
type Node struct {
	ID                    string   `json:"id"`
	Point                 Point    `json:"point"`
	Type                  NodeType `json:"type"`
	Name                  string   `json:"name,omitempty"`
	Elevation             *float64 `json:"elevation,omitempty"`
	SafetyScore           float64  `json:"safety_score,omitempty"`
	AccessibilityFeatures []string `json:"accessibility_features,omitempty"`
}

// Edge はグラフの有向エッジ。静的属性に加えて、
// リクエスト処理中にリアルタイム情報で上書きされる動的フィールドを持つ
type Edge struct {
	ID           string                 `json:"id"`
	From         string                 `json:"from"`
	To           string                 `json:"to"`
	Distance     float64                `json:"distance"` // メートル
	AllowedModes map[TransportMode]bool `json:"-"`

	// 静的フラグ
	IsBikeLane        bool     `json:"is_bike_lane"`
	IsSidewalk        bool     `json:"is_sidewalk"`
	IsHighway         bool     `json:"is_highway"`
	HasTransitService bool     `json:"has_transit_service"`
	TransitRouteIDs   []string `json:"transit_route_ids,omitempty"`

	// 動的フィールド（リクエストごとに融合レイヤーが書き込む）
	WeatherPenalty      float64  `json:"-"`
	EventPenalty        float64  `json:"-"`
	CurrentTrafficSpeed *float64 `json:"-"` // km/h、nilなら既定速度

	// 手段ごとのエネルギーコスト係数
	EnergyCost map[TransportMode]float64 `json:"-"`
}

// NewEdge は中立ペナルティで初期化されたエッジを返す
func NewEdge(id, from, to string, distance float64, modes ...TransportMode) *Edge {
	allowed := make(map[TransportMode]bool, len(modes))
	for _, m := range modes {
		allowed[m] = true
	}
	return &Edge{
		ID:             id,
		From:           from,
		To:             to,
		Distance:       distance,
		AllowedModes:   allowed,
		WeatherPenalty: 1.0,
		EventPenalty:   1.0,
		EnergyCost:     make(map[TransportMode]float64),
	}
}

// Allows は指定手段でこのエッジを通行できるかを返す
func (e *Edge) Allows(mode TransportMode) bool {
	return e.AllowedModes[mode]
}

// EffectiveSpeedMPS はリアルタイム交通情報を考慮した実効速度（m/s）を返す
func (e *Edge) EffectiveSpeedMPS(mode TransportMode) float64 {
	if e.CurrentTrafficSpeed != nil && (mode == ModeCar || mode == ModeBus) {
		return *e.CurrentTrafficSpeed * 1000 / 3600
	}
	return SpeedMPS(mode)
}

// TravelTimeSec はペナルティ適用後の所要時間（秒）を返す
func (e *Edge) TravelTimeSec(mode TransportMode) float64 {
	speed := e.EffectiveSpeedMPS(mode)
	if speed <= 0 {
		speed = SpeedMPS(ModeWalking)
	}
	return e.Distance / speed * e.WeatherPenalty * e.EventPenalty
}

// Graph はノードとエッジの集合。エッジはFromノードIDで索引される
type Graph struct {
	Nodes map[string]*Node
	Edges map[string][]*Edge
}

// NewGraph は空のグラフを返す
func NewGraph() *Graph {
	return &Graph{
		Nodes: make(map[string]*Node),
		Edges: make(map[string][]*Edge),
	}
}

// AddNode はノードを追加する。同一IDは上書きされる
func (g *Graph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
}

// AddEdge はエッジを追加する
func (g *Graph) AddEdge(e *Edge) {
	g.Edges[e.From] = append(g.Edges[e.From], e)
}

// AddBidirectionalEdge は両方向のエッジを追加する
func (g *Graph) AddBidirectionalEdge(idPrefix, a, b string, distance float64, modes ...TransportMode) {
	g.AddEdge(NewEdge(idPrefix+"_fwd", a, b, distance, modes...))
	g.AddEdge(NewEdge(idPrefix+"_rev", b, a, distance, modes...))
}

// EdgesFrom はノードから出るエッジを返す
func (g *Graph) EdgesFrom(nodeID string) []*Edge {
	return g.Edges[nodeID]
}

// NearestNode は指定地点に最も近いノードを返す。空グラフならnil
func (g *Graph) NearestNode(p Point) *Node {
	var nearest *Node
	best := -1.0
	for _, n := range g.Nodes {
		d := p.DistanceTo(n.Point)
		if nearest == nil || d < best {
			nearest = n
			best = d
		}
	}
	return nearest
}

// NearestNodeOfType は指定種別のノードのうち最も近いものを返す
func (g *Graph) NearestNodeOfType(p Point, t NodeType) *Node {
	var nearest *Node
	best := -1.0
	for _, n := range g.Nodes {
		if n.Type != t {
			continue
		}
		d := p.DistanceTo(n.Point)
		if nearest == nil || d < best {
			nearest = n
			best = d
		}
	}
	return nearest
}
