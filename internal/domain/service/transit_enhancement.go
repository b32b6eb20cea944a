package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"EcoRoute-App/internal/domain/model"
	"EcoRoute-App/internal/domain/repository"
)

// 旅客影響の大きいアラート効果
var disruptiveAlertEffects = map[string]bool{
	"NO_SERVICE":         true,
	"REDUCED_SERVICE":    true,
	"SIGNIFICANT_DELAYS": true,
}

// TransitEnhancementService は公共交通ステップへリアルタイム遅延と
// 運行アラートを反映し、遅延超過ルートの代替案を選ぶ
type TransitEnhancementService struct {
	scheduleRepo      repository.TransitScheduleRepository
	logger            *logrus.Logger
	DelayThresholdSec float64
}

// NewTransitEnhancementService は新しいTransitEnhancementServiceインスタンスを作成
func NewTransitEnhancementService(scheduleRepo repository.TransitScheduleRepository, logger *logrus.Logger) *TransitEnhancementService {
	if logger == nil {
		logger = logrus.New()
	}
	return &TransitEnhancementService{
		scheduleRepo:      scheduleRepo,
		logger:            logger,
		DelayThresholdSec: model.DefaultDelayThresholdSec,
	}
}

// EnhanceRoute はルート内の公共交通ステップへ遅延とアラートを付加する。
// 停留所・路線の解決に失敗したステップはそのまま残す
func (s *TransitEnhancementService) EnhanceRoute(ctx context.Context, route *model.Route, conditions *model.RealtimeConditions) {
	if conditions == nil {
		return
	}
	weatherFactor := transitWeatherFactor(conditions.Weather)

	for i := range route.Steps {
		step := &route.Steps[i]
		if !isTransitMode(step.Mode) {
			continue
		}

		if weatherFactor != 1.0 {
			step.EstimatedTime *= weatherFactor
		}

		if step.TransitDetails == nil {
			continue
		}
		s.applyDelay(ctx, step, conditions.TripUpdates)
		s.attachAlerts(ctx, step, conditions.ServiceAlerts)
	}

	route.TotalTime = 0
	for _, step := range route.Steps {
		route.TotalTime += step.EstimatedTime
	}
}

func (s *TransitEnhancementService) applyDelay(ctx context.Context, step *model.RouteStep, updates []model.TransitTripUpdate) {
	if s.scheduleRepo == nil || len(updates) == 0 {
		return
	}
	details := step.TransitDetails

	routeID, err := s.scheduleRepo.ResolveRouteID(ctx, details.RouteShortName)
	if err != nil {
		s.logger.WithError(err).WithField("route", details.RouteShortName).Debug("路線ID解決失敗、遅延適用スキップ")
		return
	}

	stopID, err := s.scheduleRepo.ResolveStopID(ctx, details.DepartureStop, details.RouteShortName, &step.StartPoint)
	if err != nil {
		s.logger.WithError(err).WithField("stop", details.DepartureStop).Debug("停留所ID解決失敗、遅延適用スキップ")
		return
	}

	for _, update := range updates {
		if update.RouteID != routeID {
			continue
		}
		delay := update.DelayAtStop(stopID)
		if delay <= 0 {
			continue
		}
		details.IsDelayed = true
		details.DelaySeconds = delay
		step.EstimatedTime += delay
		s.logger.WithFields(logrus.Fields{
			"route": details.RouteShortName,
			"stop":  details.DepartureStop,
			"delay": delay,
		}).Info("🚌 遅延情報を反映")
		return
	}
}

func (s *TransitEnhancementService) attachAlerts(ctx context.Context, step *model.RouteStep, alerts []model.ServiceAlert) {
	if len(alerts) == 0 || s.scheduleRepo == nil {
		return
	}
	details := step.TransitDetails
	routeID, err := s.scheduleRepo.ResolveRouteID(ctx, details.RouteShortName)
	if err != nil {
		return
	}

	for _, alert := range alerts {
		if !disruptiveAlertEffects[alert.Effect] {
			continue
		}
		if !lo.Contains(alert.RouteIDs, routeID) {
			continue
		}
		details.ServiceAlerts = append(details.ServiceAlerts, alert.Header)
	}
}

// MaxStepDelay はルート中の公共交通ステップの最大遅延秒数を返す
func MaxStepDelay(route *model.Route) float64 {
	max := 0.0
	for _, step := range route.Steps {
		if step.TransitDetails != nil && step.TransitDetails.DelaySeconds > max {
			max = step.TransitDetails.DelaySeconds
		}
	}
	return max
}

// DelayPenalty は遅延秒数を実効ペナルティへ変換する。
// 5分を超える部分は3倍で効かせ、長い遅延ほど代替案へ誘導する
func DelayPenalty(delaySec float64) float64 {
	const grace = 300.0
	if delaySec <= grace {
		return delaySec
	}
	return grace + (delaySec-grace)*3
}

// DelayPenalizedTime は遅延ペナルティを上乗せした実効所要時間（秒）を返す。
// ステップ時間には遅延の実秒数が既に含まれるため、超過分のみ加算する
func DelayPenalizedTime(route *model.Route) float64 {
	total := route.TotalTime
	for _, step := range route.Steps {
		if step.TransitDetails == nil || step.TransitDetails.DelaySeconds <= 0 {
			continue
		}
		delay := step.TransitDetails.DelaySeconds
		total += DelayPenalty(delay) - delay
	}
	return total
}

// transitRouteNames はルートが使用する路線番号の集合を返す
func transitRouteNames(route *model.Route) map[string]bool {
	names := make(map[string]bool)
	for _, step := range route.Steps {
		if step.TransitDetails != nil && step.TransitDetails.RouteShortName != "" {
			names[step.TransitDetails.RouteShortName] = true
		}
	}
	return names
}

// FilterDelayedRoutes は最大ステップ遅延が閾値を超えるルートを除外し、
// 除外されたルートごとに同じ路線を使わない代替案を最大3件選ぶ
func (s *TransitEnhancementService) FilterDelayedRoutes(routes []*model.Route, candidates []*model.Route) (kept []*model.Route, alternatives []*model.Route) {
	for _, r := range routes {
		if MaxStepDelay(r) <= s.DelayThresholdSec {
			kept = append(kept, r)
			continue
		}

		s.logger.WithFields(logrus.Fields{
			"route_id": r.ID,
			"delay":    MaxStepDelay(r),
		}).Info("⏱️ 遅延超過のためルート除外、代替案を探索")

		delayedNames := transitRouteNames(r)
		for _, cand := range candidates {
			if len(alternatives) >= model.MaxAlternativeRoutes {
				break
			}
			if cand.ID == r.ID {
				continue
			}
			if MaxStepDelay(cand) > s.DelayThresholdSec {
				continue
			}
			if sharesRouteName(transitRouteNames(cand), delayedNames) {
				continue
			}
			alternatives = append(alternatives, cand)
		}
	}
	return kept, alternatives
}

func sharesRouteName(a, b map[string]bool) bool {
	for name := range a {
		if b[name] {
			return true
		}
	}
	return false
}

func isTransitMode(mode model.TransportMode) bool {
	switch mode {
	case model.ModeBus, model.ModeSkytrain, model.ModeSeabus, model.ModeWestCoastExpress:
		return true
	}
	return false
}

// transitWeatherFactor は公共交通向けに緩和した気象係数を返す。
// 車内は天候の影響を受けにくいため、ペナルティの3割のみ効かせる
func transitWeatherFactor(w *model.WeatherData) float64 {
	p := w.Penalty()
	return 1 + (p-1)*0.3
}
