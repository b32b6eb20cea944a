package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"EcoRoute-App/internal/domain/model"
)

// 自動車と比較したCO2排出量（kg/km）
var co2EmissionsKgPerKm = map[model.TransportMode]float64{
	model.ModeWalking:  0.0,
	model.ModeBiking:   0.0,
	model.ModeScooter:  0.02,
	model.ModeBus:      0.05,
	model.ModeSkytrain: 0.03,
	model.ModeCar:      0.12,
}

// RouteAssembler は探索結果のエッジ列をRouteへ組み立てる
type RouteAssembler struct {
	graph *model.Graph
}

// NewRouteAssembler は新しいRouteAssemblerインスタンスを作成
func NewRouteAssembler(graph *model.Graph) *RouteAssembler {
	return &RouteAssembler{graph: graph}
}

// Assemble はパスからルートを組み立てる。空パスは出発地=目的地の
// ゼロ距離ルートとして扱う
func (ra *RouteAssembler) Assemble(path []PathSegment, origin, destination model.Point, preference model.RoutePreference) *model.Route {
	route := &model.Route{
		ID:          uuid.New().String(),
		Origin:      origin,
		Destination: destination,
		Preference:  preference,
		CreatedAt:   time.Now(),
	}

	for i, seg := range path {
		step := ra.buildStep(seg, i, len(path))
		route.Steps = append(route.Steps, step)
		route.TotalDistance += step.Distance
		route.TotalTime += step.EstimatedTime
		route.TotalSustainabilityPoints += step.SustainabilityPoints
		route.CO2SavedGrams += co2SavedGrams(seg.Mode, step.Distance)
	}

	route.SafetyScore = safetyScore(route.Steps)
	route.EnergyEfficiency = energyEfficiencyScore(route.Steps)
	route.ScenicScore = scenicScore(route.Steps)
	return route
}

func (ra *RouteAssembler) buildStep(seg PathSegment, index, total int) model.RouteStep {
	edge := seg.Edge
	fromNode := ra.graph.Nodes[edge.From]
	toNode := ra.graph.Nodes[edge.To]

	step := model.RouteStep{
		Mode:          seg.Mode,
		Distance:      edge.Distance,
		EstimatedTime: edge.TravelTimeSec(seg.Mode),
	}
	if fromNode != nil {
		step.StartPoint = fromNode.Point
	}
	if toNode != nil {
		step.EndPoint = toNode.Point
	}

	step.Slope = calcSlope(fromNode, toNode, edge.Distance)
	step.EffortLevel = effortLevel(step.Slope)
	step.Instructions = generateInstructions(fromNode, toNode, seg.Mode, index, total, edge)
	step.SustainabilityPoints = sustainabilityPoints(seg.Mode, edge.Distance)

	if edge.HasTransitService && isTransitMode(seg.Mode) {
		step.TransitDetails = &model.TransitDetails{
			DepartureStop: nodeName(fromNode),
			ArrivalStop:   nodeName(toNode),
		}
		if len(edge.TransitRouteIDs) > 0 {
			step.TransitDetails.RouteShortName = edge.TransitRouteIDs[0]
		}
	}
	return step
}

func nodeName(n *model.Node) string {
	if n == nil {
		return ""
	}
	return n.Name
}

func calcSlope(from, to *model.Node, distance float64) *float64 {
	if from == nil || to == nil || from.Elevation == nil || to.Elevation == nil || distance <= 0 {
		return nil
	}
	slope := (*to.Elevation - *from.Elevation) / distance * 100
	return &slope
}

func effortLevel(slope *float64) model.EffortLevel {
	if slope == nil {
		return model.EffortModerate
	}
	switch {
	case *slope > 5:
		return model.EffortHigh
	case *slope < -2:
		return model.EffortLow
	default:
		return model.EffortModerate
	}
}

func sustainabilityPoints(mode model.TransportMode, distanceMeters float64) float64 {
	perKm := model.SustainabilityPointsPerKm[mode]
	return float64(int(distanceMeters / 1000 * perKm))
}

func co2SavedGrams(mode model.TransportMode, distanceMeters float64) float64 {
	carKg := distanceMeters / 1000 * co2EmissionsKgPerKm[model.ModeCar]
	ownKg, ok := co2EmissionsKgPerKm[mode]
	if !ok {
		ownKg = co2EmissionsKgPerKm[model.ModeCar]
	}
	saved := carKg - distanceMeters/1000*ownKg
	if saved < 0 {
		saved = 0
	}
	return saved * 1000
}

func generateInstructions(from, to *model.Node, mode model.TransportMode, index, total int, edge *model.Edge) string {
	fromName := "your location"
	if from != nil && from.Name != "" {
		fromName = from.Name
	}
	toName := "your destination"
	if to != nil && to.Name != "" {
		toName = to.Name
	}

	if index == 0 {
		switch mode {
		case model.ModeWalking:
			return fmt.Sprintf("Start walking from %s", fromName)
		case model.ModeBiking:
			return fmt.Sprintf("Start biking from %s", fromName)
		case model.ModeCar:
			return fmt.Sprintf("Start driving from %s", fromName)
		case model.ModeBus:
			if from == nil || from.Name == "" {
				fromName = "the bus stop"
			}
			return fmt.Sprintf("Take the bus from %s", fromName)
		default:
			return fmt.Sprintf("Start your journey using %s", mode)
		}
	}

	if index == total-1 {
		return fmt.Sprintf("Arrive at %s", toName)
	}

	direction := "north"
	if from != nil && to != nil {
		latDiff := to.Point.Lat - from.Point.Lat
		lngDiff := to.Point.Lng - from.Point.Lng
		if absFloat(latDiff) > absFloat(lngDiff) {
			if latDiff > 0 {
				direction = "north"
			} else {
				direction = "south"
			}
		} else {
			if lngDiff > 0 {
				direction = "east"
			} else {
				direction = "west"
			}
		}
	}

	distanceKm := edge.Distance / 1000
	switch mode {
	case model.ModeWalking:
		return fmt.Sprintf("Walk %.1fkm %s", distanceKm, direction)
	case model.ModeBiking:
		return fmt.Sprintf("Bike %.1fkm %s", distanceKm, direction)
	case model.ModeCar:
		return fmt.Sprintf("Drive %.1fkm %s", distanceKm, direction)
	case model.ModeBus:
		return fmt.Sprintf("Take bus %.1fkm %s", distanceKm, direction)
	default:
		return fmt.Sprintf("Continue %.1fkm %s using %s", distanceKm, direction, mode)
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func safetyScore(steps []model.RouteStep) float64 {
	if len(steps) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, s := range steps {
		switch s.Mode {
		case model.ModeWalking, model.ModeBiking, model.ModeScooter:
			sum += 0.9
		case model.ModeCar:
			sum += 0.7
		default:
			sum += 0.8
		}
	}
	return sum / float64(len(steps))
}

func energyEfficiencyScore(steps []model.RouteStep) float64 {
	if len(steps) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, s := range steps {
		switch s.Mode {
		case model.ModeWalking:
			sum += 1.0
		case model.ModeBiking:
			sum += 0.9
		case model.ModeBus, model.ModeSkytrain:
			sum += 0.7
		case model.ModeScooter:
			sum += 0.6
		case model.ModeCar:
			sum += 0.3
		default:
			sum += 0.5
		}
	}
	return sum / float64(len(steps))
}

func scenicScore(steps []model.RouteStep) float64 {
	if len(steps) == 0 {
		return 0.5
	}
	sum := 0.0
	for _, s := range steps {
		switch s.Mode {
		case model.ModeWalking, model.ModeBiking:
			sum += 0.8
		case model.ModeCar:
			sum += 0.4
		default:
			sum += 0.6
		}
	}
	return sum / float64(len(steps))
}
