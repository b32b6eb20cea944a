package service

import (
	"container/heap"

	"github.com/samber/lo"

	"EcoRoute-App/internal/domain/model"
)

// searchState は探索の状態キー。同じノードでも到達時の移動手段が
// 異なれば乗り換えコストが変わるため、別の状態として扱う
type searchState struct {
	NodeID string
	Mode   model.TransportMode
}

// PathSegment は探索結果の1エッジ分
type PathSegment struct {
	Edge *model.Edge
	Mode model.TransportMode
}

type cameFromEntry struct {
	Prev searchState
	Seg  PathSegment
}

type pqItem struct {
	State    searchState
	Priority float64 // f = g + h
	Seq      int     // 同スコア時は先に積んだものを優先
	Index    int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].Priority != pq[j].Priority {
		return pq[i].Priority < pq[j].Priority
	}
	return pq[i].Seq < pq[j].Seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.Index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	*pq = old[:n-1]
	return item
}

// AStarSearch はマルチモーダルグラフ上のA*探索
type AStarSearch struct {
	graph *model.Graph
}

// NewAStarSearch は新しいA*探索インスタンスを作成
func NewAStarSearch(graph *model.Graph) *AStarSearch {
	return &AStarSearch{graph: graph}
}

// FindPath は始点から終点への最小コスト経路を探索する。
// 到達不能の場合はnil、始点と終点が同一の場合は空スライスを返す
func (a *AStarSearch) FindPath(startID, goalID string, allowedModes map[model.TransportMode]bool, costFn CostFunction) []PathSegment {
	goal, ok := a.graph.Nodes[goalID]
	if !ok {
		return nil
	}
	start, ok := a.graph.Nodes[startID]
	if !ok {
		return nil
	}
	if startID == goalID {
		return []PathSegment{}
	}

	gScore := make(map[searchState]float64)
	cameFrom := make(map[searchState]cameFromEntry)
	closed := make(map[searchState]bool)

	pq := priorityQueue{}
	heap.Init(&pq)
	seq := 0

	startState := searchState{NodeID: startID}
	gScore[startState] = 0
	heap.Push(&pq, &pqItem{
		State:    startState,
		Priority: Heuristic(start.Point, goal.Point),
		Seq:      seq,
	})

	for pq.Len() > 0 {
		current := heap.Pop(&pq).(*pqItem)
		state := current.State

		if closed[state] {
			continue
		}
		closed[state] = true

		if state.NodeID == goalID {
			return a.reconstructPath(cameFrom, state)
		}

		for _, edge := range a.graph.EdgesFrom(state.NodeID) {
			// 展開順を定義順に固定し、同スコア時のタイブレークを決定的にする
			for _, mode := range model.AllTransportModes {
				if !edge.AllowedModes[mode] || !allowedModes[mode] {
					continue
				}
				next := searchState{NodeID: edge.To, Mode: mode}
				if closed[next] {
					continue
				}

				tentative := gScore[state] + costFn.Cost(edge, mode, state.Mode)
				if existing, ok := gScore[next]; ok && tentative >= existing {
					continue
				}

				gScore[next] = tentative
				cameFrom[next] = cameFromEntry{Prev: state, Seg: PathSegment{Edge: edge, Mode: mode}}

				toNode := a.graph.Nodes[edge.To]
				if toNode == nil {
					continue
				}
				seq++
				heap.Push(&pq, &pqItem{
					State:    next,
					Priority: tentative + Heuristic(toNode.Point, goal.Point),
					Seq:      seq,
				})
			}
		}
	}

	return nil
}

func (a *AStarSearch) reconstructPath(cameFrom map[searchState]cameFromEntry, goal searchState) []PathSegment {
	path := []PathSegment{}
	state := goal
	for {
		entry, ok := cameFrom[state]
		if !ok {
			break
		}
		path = append(path, entry.Seg)
		state = entry.Prev
	}
	return lo.Reverse(path)
}
