package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"EcoRoute-App/internal/domain/model"
)

// vancouverLandmarks はAPIキーなしで動作させるためのデモ用ジオコーディング辞書
var vancouverLandmarks = map[string]model.Point{
	"vancouver downtown":          {Lat: 49.2827, Lng: -123.1207},
	"stanley park":                {Lat: 49.3043, Lng: -123.1443},
	"granville island":            {Lat: 49.2726, Lng: -123.1350},
	"gastown":                     {Lat: 49.2827, Lng: -123.1087},
	"chinatown":                   {Lat: 49.2794, Lng: -123.1087},
	"kitsilano":                   {Lat: 49.2726, Lng: -123.1675},
	"west end":                    {Lat: 49.2888, Lng: -123.1308},
	"yaletown":                    {Lat: 49.2756, Lng: -123.1219},
	"coal harbour":                {Lat: 49.2888, Lng: -123.1207},
	"english bay":                 {Lat: 49.2888, Lng: -123.1443},
	"robson square":               {Lat: 49.2827, Lng: -123.1207},
	"vancouver art gallery":       {Lat: 49.2827, Lng: -123.1207},
	"science world":               {Lat: 49.2736, Lng: -123.1036},
	"bc place":                    {Lat: 49.2768, Lng: -123.1087},
	"rogers arena":                {Lat: 49.2778, Lng: -123.1087},
	"canada place":                {Lat: 49.2888, Lng: -123.1119},
	"vancouver convention centre": {Lat: 49.2888, Lng: -123.1119},
	"seawall":                     {Lat: 49.2888, Lng: -123.1443},
	"lions gate bridge":           {Lat: 49.3043, Lng: -123.1443},
	"burrard bridge":              {Lat: 49.2726, Lng: -123.1350},
	"granville bridge":            {Lat: 49.2726, Lng: -123.1350},
	"cambie bridge":               {Lat: 49.2756, Lng: -123.1219},
	"main street":                 {Lat: 49.2736, Lng: -123.1036},
	"commercial drive":            {Lat: 49.2736, Lng: -123.1036},
	"broadway":                    {Lat: 49.2626, Lng: -123.1207},
	"4th avenue":                  {Lat: 49.2626, Lng: -123.1675},
	"16th avenue":                 {Lat: 49.2526, Lng: -123.1207},
	"41st avenue":                 {Lat: 49.2326, Lng: -123.1207},
	"marine drive":                {Lat: 49.2126, Lng: -123.1207},
	"airport":                     {Lat: 49.1967, Lng: -123.1815},
}

// DemoDataProvider はAPIキーが無い環境向けにサンプルルートを生成する
type DemoDataProvider struct {
	rng *rand.Rand
}

// NewDemoDataProvider は新しいDemoDataProviderインスタンスを作成
func NewDemoDataProvider() *DemoDataProvider {
	return &DemoDataProvider{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// KnownLocations はデモ用ランドマーク名の一覧を返す
func (d *DemoDataProvider) KnownLocations() []string {
	names := make([]string, 0, len(vancouverLandmarks))
	for name := range vancouverLandmarks {
		names = append(names, name)
	}
	return names
}

// GeocodeAddress は既知のバンクーバーのランドマーク名を座標へ変換する。
// 完全一致しない場合は部分一致を試し、それでも無ければfalseを返す
func (d *DemoDataProvider) GeocodeAddress(address string) (model.Point, bool) {
	lower := strings.ToLower(strings.TrimSpace(address))
	if p, ok := vancouverLandmarks[lower]; ok {
		return p, true
	}
	for name, p := range vancouverLandmarks {
		for _, word := range strings.Fields(lower) {
			if strings.Contains(name, word) {
				return p, true
			}
		}
	}
	return model.Point{}, false
}

// 優先基準ごとのデモ用手段セット
var demoModesByPreference = map[model.RoutePreference][]model.TransportMode{
	model.PreferenceFastest:         {model.ModeCar, model.ModeSkytrain, model.ModeBus},
	model.PreferenceSafest:          {model.ModeWalking, model.ModeBus, model.ModeSkytrain},
	model.PreferenceEnergyEfficient: {model.ModeWalking, model.ModeBiking, model.ModeBus},
	model.PreferenceScenic:          {model.ModeWalking, model.ModeBiking, model.ModeScooter},
	model.PreferenceHealthy:         {model.ModeWalking, model.ModeBiking},
	model.PreferenceCheapest:        {model.ModeWalking, model.ModeBus},
}

// GenerateDemoRoutes はリクエストに対するサンプルレスポンスを生成する
func (d *DemoDataProvider) GenerateDemoRoutes(request *model.RouteRequest) *model.RouteResponse {
	distance := request.Origin.DistanceTo(*request.Destination)

	prefs := request.Preferences
	if len(prefs) == 0 {
		prefs = []model.RoutePreference{model.PreferenceFastest}
	}

	routes := make([]*model.Route, 0, len(prefs))
	for _, pref := range prefs {
		routes = append(routes, d.buildDemoRoute(request, pref, distance))
	}

	var alternatives []*model.Route
	if len(routes) < model.MaxPrimaryRoutes {
		used := make(map[model.RoutePreference]bool)
		for _, p := range prefs {
			used[p] = true
		}
		for pref := range demoModesByPreference {
			if used[pref] || len(alternatives) >= 2 {
				continue
			}
			alternatives = append(alternatives, d.buildDemoRoute(request, pref, distance))
		}
	}

	return &model.RouteResponse{
		RequestID:         uuid.New().String(),
		Routes:            routes,
		Alternatives:      alternatives,
		ProcessingTimeSec: 0.5,
		DataSources:       []string{"Demo Mode - No API Keys Required"},
	}
}

func (d *DemoDataProvider) buildDemoRoute(request *model.RouteRequest, pref model.RoutePreference, distance float64) *model.Route {
	modes, ok := demoModesByPreference[pref]
	if !ok {
		modes = []model.TransportMode{model.ModeWalking, model.ModeBus}
	}

	numSteps := 2 + d.rng.Intn(3)
	stepDistance := distance / float64(numSteps)

	route := &model.Route{
		ID:          uuid.New().String(),
		Origin:      *request.Origin,
		Destination: *request.Destination,
		Preference:  pref,
		CreatedAt:   time.Now(),
	}

	current := *request.Origin
	for i := 0; i < numSteps; i++ {
		mode := modes[d.rng.Intn(len(modes))]
		progress := float64(i+1) / float64(numSteps)
		next := model.Point{
			Lat: request.Origin.Lat + (request.Destination.Lat-request.Origin.Lat)*progress,
			Lng: request.Origin.Lng + (request.Destination.Lng-request.Origin.Lng)*progress,
		}

		estimatedTime := stepDistance / model.SpeedMPS(mode)

		var instructions string
		switch {
		case i == 0:
			instructions = fmt.Sprintf("Start your journey using %s", mode)
		case i == numSteps-1:
			instructions = "Arrive at your destination"
		default:
			instructions = fmt.Sprintf("Continue %.1fkm using %s", stepDistance/1000, mode)
		}

		step := model.RouteStep{
			Mode:                 mode,
			Distance:             stepDistance,
			EstimatedTime:        estimatedTime,
			EffortLevel:          model.EffortModerate,
			Instructions:         instructions,
			StartPoint:           current,
			EndPoint:             next,
			SustainabilityPoints: sustainabilityPoints(mode, stepDistance),
		}
		route.Steps = append(route.Steps, step)
		route.TotalDistance += step.Distance
		route.TotalTime += step.EstimatedTime
		route.TotalSustainabilityPoints += step.SustainabilityPoints
		current = next
	}

	route.SafetyScore = safetyScore(route.Steps)
	route.EnergyEfficiency = energyEfficiencyScore(route.Steps)
	route.ScenicScore = scenicScore(route.Steps)
	return route
}
