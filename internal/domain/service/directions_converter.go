package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"EcoRoute-App/internal/domain/model"
)

var htmlTagPattern = regexp.MustCompile("<[^>]*>")

// 悪天候時にステップ指示へ前置する注記
var weatherNotes = map[string]string{
	"rain":    "🌧️ Rainy conditions",
	"snow":    "❄️ Snowy conditions",
	"fog":     "🌫️ Foggy conditions",
	"extreme": "⚠️ Extreme weather",
}

// DirectionsConverter は外部経路APIのターンバイターン経路をRouteへ変換する。
// 公共交通の車両種別からステップの移動手段を判定し、
// 徒歩・自転車ステップには気象ペナルティを反映する
type DirectionsConverter struct{}

// NewDirectionsConverter は新しいDirectionsConverterインスタンスを作成
func NewDirectionsConverter() *DirectionsConverter {
	return &DirectionsConverter{}
}

// Convert は外部経路をRouteへ変換する。ステップが空の場合はnilを返す
func (dc *DirectionsConverter) Convert(ext model.ExternalRoute, origin, destination model.Point, requested model.TransportMode, weather *model.WeatherData, preference model.RoutePreference) *model.Route {
	if len(ext.Steps) == 0 {
		return nil
	}

	route := &model.Route{
		ID:          uuid.New().String(),
		Origin:      origin,
		Destination: destination,
		Preference:  preference,
		CreatedAt:   time.Now(),
	}

	for _, extStep := range ext.Steps {
		step := dc.convertStep(extStep, requested, weather)
		route.Steps = append(route.Steps, step)
		route.TotalDistance += step.Distance
		route.TotalTime += step.EstimatedTime
		route.TotalSustainabilityPoints += step.SustainabilityPoints
		route.CO2SavedGrams += co2SavedGrams(step.Mode, step.Distance)
	}

	route.SafetyScore = safetyScore(route.Steps)
	route.EnergyEfficiency = energyEfficiencyScore(route.Steps)
	route.ScenicScore = scenicScore(route.Steps)
	return route
}

func (dc *DirectionsConverter) convertStep(ext model.ExternalStep, requested model.TransportMode, weather *model.WeatherData) model.RouteStep {
	mode := stepMode(ext, requested)

	step := model.RouteStep{
		Mode:          mode,
		Distance:      ext.DistanceMeters,
		EstimatedTime: ext.DurationSec,
		StartPoint:    ext.StartPoint,
		EndPoint:      ext.EndPoint,
		Polyline:      ext.Polyline,
		Instructions:  stripHTMLTags(ext.Instructions),
	}

	// 天候の影響を受けるのは屋外の人力手段のみ。公共交通はEnhanceRoute側で
	// 緩和係数を適用するため、ここでは二重に課さない
	if weather != nil && (mode == model.ModeWalking || mode == model.ModeBiking) {
		penalty := weather.Penalty()
		if penalty != 1.0 {
			step.EstimatedTime = float64(int(step.EstimatedTime * penalty))
		}
		if note, ok := weatherNotes[weather.Condition]; ok {
			step.Instructions = note + " - " + step.Instructions
		}
	}

	step.EffortLevel = externalEffortLevel(mode, ext.DistanceMeters, weather)
	step.SustainabilityPoints = sustainabilityPoints(mode, ext.DistanceMeters)

	if ext.Transit != nil {
		step.TransitDetails = &model.TransitDetails{
			LineName:       ext.Transit.LineName,
			RouteShortName: ext.Transit.LineShortName,
			DepartureStop:  ext.Transit.DepartureStop,
			ArrivalStop:    ext.Transit.ArrivalStop,
			NumStops:       ext.Transit.NumStops,
		}
	}
	if step.Instructions == "" {
		step.Instructions = fmt.Sprintf("Continue %.1fkm", ext.DistanceMeters/1000)
	}
	return step
}

// stepMode はステップの移動手段を決定する。公共交通区間は車両種別で
// バスとスカイトレインを判別し、乗り継ぎの徒歩区間は徒歩とする
func stepMode(ext model.ExternalStep, requested model.TransportMode) model.TransportMode {
	if ext.Transit != nil {
		vehicle := strings.ToLower(ext.Transit.VehicleType)
		if vehicle == "subway" || strings.Contains(vehicle, "train") {
			return model.ModeSkytrain
		}
		return model.ModeBus
	}
	if isTransitMode(requested) {
		return model.ModeWalking
	}
	return requested
}

// externalEffortLevel は距離・手段・天候から体力負荷を判定する
func externalEffortLevel(mode model.TransportMode, distanceMeters float64, weather *model.WeatherData) model.EffortLevel {
	effort := model.EffortModerate

	switch mode {
	case model.ModeWalking:
		if distanceMeters > 1000 {
			effort = model.EffortHigh
		} else if distanceMeters < 200 {
			effort = model.EffortLow
		}
		effort = escalateForWeather(effort, weather)
	case model.ModeBiking:
		if distanceMeters > 5000 {
			effort = model.EffortHigh
		} else if distanceMeters < 500 {
			effort = model.EffortLow
		}
		effort = escalateForWeather(effort, weather)
		if weather != nil && weather.WindSpeedKmh > 25 && effort == model.EffortModerate {
			effort = model.EffortHigh
		}
	}
	return effort
}

func escalateForWeather(effort model.EffortLevel, weather *model.WeatherData) model.EffortLevel {
	if weather == nil {
		return effort
	}
	switch weather.Condition {
	case "rain", "snow", "extreme":
		switch effort {
		case model.EffortLow:
			return model.EffortModerate
		case model.EffortModerate:
			return model.EffortHigh
		}
	}
	return effort
}

func stripHTMLTags(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}
