package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"EcoRoute-App/internal/domain/model"
	"EcoRoute-App/internal/domain/repository"
	"EcoRoute-App/internal/domain/service"
)

const (
	realtimeFetchTimeout = 3 * time.Second
	graphRadiusBufferM   = 500.0
)

// RoutePlanningUseCase はマルチモーダルルート探索のユースケース
type RoutePlanningUseCase interface {
	// FindRoutes はリクエストに基づいてルートを探索し、レスポンスを返す
	FindRoutes(ctx context.Context, req *model.RouteRequest) (*model.RouteResponse, error)

	// GetCachedRoute は保存済みルートをキャッシュから取得する
	GetCachedRoute(ctx context.Context, routeID string) (*model.Route, error)
}

// routePlanningUseCaseImpl はRoutePlanningUseCaseの実装
type routePlanningUseCaseImpl struct {
	graphBuilder       *service.GraphBuilder
	fusionService      *service.RealtimeFusionService
	transitService     *service.TransitEnhancementService
	demoProvider       *service.DemoDataProvider
	gamification       *service.GamificationService
	directionsConv     *service.DirectionsConverter
	directionsProvider repository.DirectionsProvider
	weatherProvider    repository.WeatherProvider
	trafficProvider    repository.TrafficProvider
	closureProvider    repository.ClosureProvider
	mobilityRepo       repository.SharedMobilityRepository
	realtimeTransit    repository.TransitRealtimeProvider
	routeCache         repository.RouteCacheRepository
	logger             *logrus.Logger
}

// NewRoutePlanningUseCase は新しいRoutePlanningUseCaseインスタンスを作成。
// プロバイダはnil可（そのデータソースをスキップする）
func NewRoutePlanningUseCase(
	graphBuilder *service.GraphBuilder,
	fusionService *service.RealtimeFusionService,
	transitService *service.TransitEnhancementService,
	directionsProvider repository.DirectionsProvider,
	weatherProvider repository.WeatherProvider,
	trafficProvider repository.TrafficProvider,
	closureProvider repository.ClosureProvider,
	mobilityRepo repository.SharedMobilityRepository,
	realtimeTransit repository.TransitRealtimeProvider,
	routeCache repository.RouteCacheRepository,
	logger *logrus.Logger,
) RoutePlanningUseCase {
	if logger == nil {
		logger = logrus.New()
	}
	return &routePlanningUseCaseImpl{
		graphBuilder:       graphBuilder,
		fusionService:      fusionService,
		transitService:     transitService,
		demoProvider:       service.NewDemoDataProvider(),
		gamification:       service.NewGamificationService(),
		directionsConv:     service.NewDirectionsConverter(),
		directionsProvider: directionsProvider,
		weatherProvider:    weatherProvider,
		trafficProvider:    trafficProvider,
		closureProvider:    closureProvider,
		mobilityRepo:       mobilityRepo,
		realtimeTransit:    realtimeTransit,
		routeCache:         routeCache,
		logger:             logger,
	}
}

// FindRoutes はリクエストに基づいてルートを探索する。
// パイプライン全体が失敗した場合はデモレスポンスへフォールバックする
func (u *routePlanningUseCaseImpl) FindRoutes(ctx context.Context, req *model.RouteRequest) (resp *model.RouteResponse, err error) {
	start := time.Now()
	requestID := uuid.New().String()

	defer func() {
		if r := recover(); r != nil {
			u.logger.WithField("panic", r).Error("❌ ルート探索パイプライン異常終了、デモレスポンスへフォールバック")
			resp = u.demoProvider.GenerateDemoRoutes(req)
			err = nil
		}
	}()

	u.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"origin":     *req.Origin,
		"dest":       *req.Destination,
	}).Info("🚀 ルート探索開始")

	// Step 1: リアルタイム情報を並行取得
	conditions := u.fetchRealtimeConditions(ctx, req)

	// Step 2: グラフを構築し、リアルタイム情報を反映
	center := model.Point{
		Lat: (req.Origin.Lat + req.Destination.Lat) / 2,
		Lng: (req.Origin.Lng + req.Destination.Lng) / 2,
	}
	radius := req.Origin.DistanceTo(*req.Destination)/2 + graphRadiusBufferM

	graph := u.graphBuilder.Build(ctx, center, radius)
	u.fusionService.ApplyToGraph(graph, conditions)
	if req.AvoidHighways {
		service.ApplyAvoidHighways(graph)
	}

	originNode := graph.NearestNode(*req.Origin)
	destNode := graph.NearestNode(*req.Destination)
	if originNode == nil || destNode == nil {
		u.logger.Warn("グラフが空のためデモレスポンスを返却")
		return u.demoProvider.GenerateDemoRoutes(req), nil
	}

	// Step 3: 優先基準ごとにA*探索してルートを組み立てる
	prefs := req.Preferences
	if len(prefs) == 0 {
		prefs = []model.RoutePreference{model.PreferenceFastest}
	}

	search := service.NewAStarSearch(graph)
	assembler := service.NewRouteAssembler(graph)
	allowedModes := req.AllowedModeSet()

	var candidates []*model.Route
	for _, pref := range prefs {
		path := search.FindPath(originNode.ID, destNode.ID, allowedModes, service.NewCostFunction(pref))
		if path == nil {
			u.logger.WithField("preference", pref).Info("到達可能なルートなし")
			continue
		}
		route := assembler.Assemble(path, *req.Origin, *req.Destination, pref)
		candidates = append(candidates, route)
	}

	// 代替案用に未指定の基準でも探索する
	var extraCandidates []*model.Route
	for _, pref := range allPreferences() {
		if containsPreference(prefs, pref) {
			continue
		}
		path := search.FindPath(originNode.ID, destNode.ID, allowedModes, service.NewCostFunction(pref))
		if path == nil {
			continue
		}
		extraCandidates = append(extraCandidates, assembler.Assemble(path, *req.Origin, *req.Destination, pref))
	}

	// 公共交通は外部経路APIのターンバイターン経路で補完する。
	// 先頭を主要候補、残りを代替候補として扱う
	for i, route := range u.fetchExternalTransitRoutes(ctx, req, conditions, prefs[0]) {
		if i == 0 {
			candidates = append(candidates, route)
		} else {
			extraCandidates = append(extraCandidates, route)
		}
	}

	// Step 4: リアルタイム情報でルートを補正・選別
	for _, route := range append(append([]*model.Route{}, candidates...), extraCandidates...) {
		u.transitService.EnhanceRoute(ctx, route, conditions)
	}

	candidates = service.FilterByWalkingDistance(candidates, req.MaxWalkingDistance)
	candidates = u.fusionService.FilterClosedRoutes(candidates, conditions.AllClosures())
	kept, delayAlternatives := u.transitService.FilterDelayedRoutes(candidates, extraCandidates)

	// Step 5: スコアリングとソート。確定ポイントは主要手段の倍率を反映する
	for _, route := range kept {
		service.ApplyPreferenceScoring(route, prefs)
		rewards := u.gamification.CalculateRouteRewards(route)
		route.TotalSustainabilityPoints = float64(rewards.SustainabilityPoints)
	}
	kept = service.SortRoutesByPreferences(kept, prefs)
	if len(kept) > model.MaxPrimaryRoutes {
		kept = kept[:model.MaxPrimaryRoutes]
	}

	alternatives := delayAlternatives
	for _, cand := range extraCandidates {
		if len(alternatives) >= model.MaxAlternativeRoutes {
			break
		}
		if service.IsSignificantlyDifferent(cand, kept) && !containsRoute(alternatives, cand.ID) {
			alternatives = append(alternatives, cand)
		}
	}
	if len(alternatives) > model.MaxAlternativeRoutes {
		alternatives = alternatives[:model.MaxAlternativeRoutes]
	}

	// Step 6: 結果をキャッシュに保存（失敗しても続行）
	if u.routeCache != nil {
		for _, route := range kept {
			if _, err := u.routeCache.SaveRoute(ctx, route); err != nil {
				u.logger.WithError(err).Warn("ルートキャッシュ保存失敗、続行")
			}
		}
	}

	u.logger.WithFields(logrus.Fields{
		"request_id":   requestID,
		"routes":       len(kept),
		"alternatives": len(alternatives),
		"elapsed":      time.Since(start),
	}).Info("✅ ルート探索完了")

	return &model.RouteResponse{
		RequestID:         requestID,
		Routes:            kept,
		Alternatives:      alternatives,
		ProcessingTimeSec: time.Since(start).Seconds(),
		DataSources:       conditions.DataSources,
	}, nil
}

// GetCachedRoute は保存済みルートをキャッシュから取得する
func (u *routePlanningUseCaseImpl) GetCachedRoute(ctx context.Context, routeID string) (*model.Route, error) {
	if u.routeCache == nil {
		return nil, fmt.Errorf("ルートキャッシュ未設定のため見つかりません: %s", routeID)
	}
	return u.routeCache.GetRoute(ctx, routeID)
}

// fetchExternalTransitRoutes は公共交通手段が許可されている場合に
// 外部経路APIからターンバイターン経路を取得してRouteへ変換する。
// プロバイダ未設定や取得失敗時は空を返し、グラフ探索の結果だけで続行する
func (u *routePlanningUseCaseImpl) fetchExternalTransitRoutes(ctx context.Context, req *model.RouteRequest, conditions *model.RealtimeConditions, pref model.RoutePreference) []*model.Route {
	if u.directionsProvider == nil {
		return nil
	}
	allowed := req.AllowedModeSet()
	if !allowed[model.ModeBus] && !allowed[model.ModeSkytrain] && !allowed[model.ModeSeabus] && !allowed[model.ModeWestCoastExpress] {
		return nil
	}

	external, err := u.directionsProvider.GetDirections(ctx, *req.Origin, *req.Destination, model.ModeBus, req.AvoidHighways, true)
	if err != nil {
		u.logger.WithError(err).Warn("外部経路API取得失敗、公共交通ルートをスキップ")
		return nil
	}

	var routes []*model.Route
	for _, ext := range external {
		route := u.directionsConv.Convert(ext, *req.Origin, *req.Destination, model.ModeBus, conditions.Weather, pref)
		if route == nil {
			continue
		}
		routes = append(routes, route)
	}
	if len(routes) > 0 {
		conditions.DataSources = append(conditions.DataSources, "google_directions")
		u.logger.WithField("routes", len(routes)).Info("🚌 公共交通ルートを外部経路APIから取得")
	}
	return routes
}

// fetchRealtimeConditions は各データソースを並行取得する。
// 個別の失敗は中立値で埋め、全体の失敗にはしない
func (u *routePlanningUseCaseImpl) fetchRealtimeConditions(ctx context.Context, req *model.RouteRequest) *model.RealtimeConditions {
	fetchCtx, cancel := context.WithTimeout(ctx, realtimeFetchTimeout)
	defer cancel()

	conditions := &model.RealtimeConditions{Weather: model.NeutralWeather()}
	var mu sync.Mutex
	var wg sync.WaitGroup

	center := model.Point{
		Lat: (req.Origin.Lat + req.Destination.Lat) / 2,
		Lng: (req.Origin.Lng + req.Destination.Lng) / 2,
	}
	radius := req.Origin.DistanceTo(*req.Destination)/2 + graphRadiusBufferM

	addSource := func(name string) {
		mu.Lock()
		conditions.DataSources = append(conditions.DataSources, name)
		mu.Unlock()
	}

	if u.weatherProvider != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			weather, err := u.weatherProvider.GetCurrentWeather(fetchCtx, center)
			if err != nil {
				u.logger.WithError(err).Warn("気象情報取得失敗、中立値を使用")
				return
			}
			mu.Lock()
			conditions.Weather = weather
			mu.Unlock()
			addSource("openweather")
		}()
	}

	if u.trafficProvider != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			traffic, err := u.trafficProvider.GetTrafficConditions(fetchCtx, center, radius)
			if err != nil {
				u.logger.WithError(err).Warn("交通情報取得失敗、スキップ")
				return
			}
			mu.Lock()
			conditions.Traffic = traffic
			mu.Unlock()
			addSource("google_traffic")
		}()
	}

	if u.closureProvider != nil {
		wg.Add(2)
		go func() {
			defer wg.Done()
			closures, err := u.closureProvider.GetRoadClosures(fetchCtx, center, radius)
			if err != nil {
				u.logger.WithError(err).Warn("道路閉鎖情報取得失敗、スキップ")
				return
			}
			mu.Lock()
			conditions.Closures = closures
			mu.Unlock()
			addSource("vancouver_open_data_closures")
		}()
		go func() {
			defer wg.Done()
			construction, err := u.closureProvider.GetConstructionSites(fetchCtx, center, radius)
			if err != nil {
				u.logger.WithError(err).Warn("工事情報取得失敗、スキップ")
				return
			}
			mu.Lock()
			conditions.Construction = construction
			mu.Unlock()
			addSource("vancouver_open_data_construction")
		}()
	}

	if u.mobilityRepo != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stations, err := u.mobilityRepo.GetStationsNear(fetchCtx, center, radius)
			if err != nil {
				u.logger.WithError(err).Warn("シェアモビリティ情報取得失敗、スキップ")
				return
			}
			mu.Lock()
			conditions.Stations = stations
			mu.Unlock()
			addSource("shared_mobility")
		}()
	}

	if u.realtimeTransit != nil {
		wg.Add(2)
		go func() {
			defer wg.Done()
			updates, err := u.realtimeTransit.GetTripUpdates(fetchCtx)
			if err != nil {
				u.logger.WithError(err).Warn("GTFS-RT trip updates取得失敗、スキップ")
				return
			}
			mu.Lock()
			conditions.TripUpdates = updates
			mu.Unlock()
			addSource("gtfs_rt_trip_updates")
		}()
		go func() {
			defer wg.Done()
			alerts, err := u.realtimeTransit.GetServiceAlerts(fetchCtx)
			if err != nil {
				u.logger.WithError(err).Warn("GTFS-RTアラート取得失敗、スキップ")
				return
			}
			mu.Lock()
			conditions.ServiceAlerts = alerts
			mu.Unlock()
			addSource("gtfs_rt_service_alerts")
		}()
	}

	wg.Wait()

	if len(conditions.DataSources) == 0 {
		conditions.DataSources = []string{"static_graph_only"}
	}
	return conditions
}

func allPreferences() []model.RoutePreference {
	return []model.RoutePreference{
		model.PreferenceFastest,
		model.PreferenceSafest,
		model.PreferenceEnergyEfficient,
		model.PreferenceScenic,
		model.PreferenceHealthy,
		model.PreferenceCheapest,
	}
}

func containsPreference(prefs []model.RoutePreference, p model.RoutePreference) bool {
	for _, pref := range prefs {
		if pref == p {
			return true
		}
	}
	return false
}

func containsRoute(routes []*model.Route, id string) bool {
	for _, r := range routes {
		if r.ID == id {
			return true
		}
	}
	return false
}
