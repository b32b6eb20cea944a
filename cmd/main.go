package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"EcoRoute-App/internal/domain/repository"
	"EcoRoute-App/internal/domain/service"
	"EcoRoute-App/internal/handler"
	"EcoRoute-App/internal/infrastructure/database"
	firestoreinfra "EcoRoute-App/internal/infrastructure/firestore"
	"EcoRoute-App/internal/infrastructure/maps"
	"EcoRoute-App/internal/infrastructure/opendata"
	"EcoRoute-App/internal/infrastructure/transit"
	"EcoRoute-App/internal/infrastructure/weather"
	repoImpl "EcoRoute-App/internal/repository"
	"EcoRoute-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx := context.Background()

	// 外部データソースの初期化。キー未設定のソースはnilのままスキップされ、
	// 全ソース未設定でもデモモードとして動作する
	var weatherProvider repository.WeatherProvider
	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
		weatherProvider = weather.NewOpenWeatherClient(key)
		logger.Info("✅ OpenWeatherクライアント初期化完了")
	} else {
		logger.Warn("⚠️  OPENWEATHER_API_KEY未設定、気象情報をスキップ")
	}

	var trafficProvider repository.TrafficProvider
	var directionsProvider repository.DirectionsProvider
	if key := os.Getenv("GOOGLE_MAPS_API_KEY"); key != "" {
		trafficProvider = maps.NewGoogleTrafficProvider(key)
		directionsProvider = maps.NewGoogleDirectionsProvider(key)
		logger.Info("✅ Google Traffic/Directionsプロバイダ初期化完了")
	} else {
		logger.Warn("⚠️  GOOGLE_MAPS_API_KEY未設定、交通情報と公共交通経路をスキップ")
	}

	closureProvider := opendata.NewVancouverOpenDataClient(os.Getenv("VANCOUVER_OPEN_DATA_URL"))

	// GTFS静的フィード（TransLink）
	gtfsDir := os.Getenv("GTFS_STATIC_DIR")
	if gtfsDir == "" {
		gtfsDir = "gtfs"
	}
	scheduleRepo := transit.NewGTFSStaticRepository(gtfsDir, logger)

	// GTFS-RTフィード
	var realtimeTransit repository.TransitRealtimeProvider
	if tripUpdatesURL := os.Getenv("GTFS_RT_TRIP_UPDATES_URL"); tripUpdatesURL != "" {
		realtimeTransit = transit.NewGTFSRealtimeClient(
			tripUpdatesURL,
			os.Getenv("GTFS_RT_SERVICE_ALERTS_URL"),
			os.Getenv("TRANSLINK_API_KEY"),
			logger,
		)
		logger.Info("✅ GTFS-RTクライアント初期化完了")
	} else {
		logger.Warn("⚠️  GTFS_RT_TRIP_UPDATES_URL未設定、リアルタイム交通をスキップ")
	}

	// PostgreSQL（道路ネットワーク）
	var streetRepo repository.StreetNetworkRepository
	if pgClient, err := database.NewPostgreSQLClient(); err != nil {
		logger.WithError(err).Warn("⚠️  PostgreSQL接続失敗、合成グリッドを使用")
	} else {
		streetRepo = repoImpl.NewPostgresStreetNetworkRepository(pgClient)
		logger.Info("✅ PostgreSQL接続成功")
	}

	// Supabase（シェアモビリティステーション）
	var mobilityRepo repository.SharedMobilityRepository
	if supabaseClient, err := database.NewSupabaseClient(); err != nil {
		logger.WithError(err).Warn("⚠️  Supabase接続失敗、シェアモビリティをスキップ")
	} else {
		mobilityRepo = repoImpl.NewSupabaseMobilityRepository(supabaseClient)
		logger.Info("✅ Supabase接続成功")
	}

	// Firestore（ルートキャッシュ）
	var routeCache repository.RouteCacheRepository
	if projectID := os.Getenv("FIRESTORE_PROJECT_ID"); projectID != "" {
		if fsClient, err := firestoreinfra.NewFirestoreClient(ctx, projectID); err != nil {
			logger.WithError(err).Warn("⚠️  Firestore接続失敗、ルートキャッシュをスキップ")
		} else {
			routeCache = repoImpl.NewFirestoreRouteCacheRepository(fsClient.GetClient(), logger)
			logger.Info("✅ Firestore接続成功")
		}
	}

	// ドメインサービスとユースケースの組み立て
	graphBuilder := service.NewGraphBuilder(streetRepo, scheduleRepo, mobilityRepo, logger)
	fusionService := service.NewRealtimeFusionService(logger)
	transitService := service.NewTransitEnhancementService(scheduleRepo, logger)

	planningUseCase := usecase.NewRoutePlanningUseCase(
		graphBuilder,
		fusionService,
		transitService,
		directionsProvider,
		weatherProvider,
		trafficProvider,
		closureProvider,
		mobilityRepo,
		realtimeTransit,
		routeCache,
		logger,
	)

	routeHandler := handler.NewRouteHandler(planningUseCase)

	// HTTPルーティングの設定
	router := gin.Default()
	router.GET("/api/health", routeHandler.GetHealth)
	router.GET("/api/locations", routeHandler.GetLocations)
	router.POST("/api/geocode", routeHandler.PostGeocode)
	router.POST("/api/routes", routeHandler.PostRoutes)
	router.GET("/api/routes/:id", routeHandler.GetCachedRoute)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Infof("🚀 EcoRoute-App server starting on :%s...", port)
	if err := router.Run(":" + port); err != nil {
		logger.WithError(err).Fatal("サーバー起動失敗")
	}
}
