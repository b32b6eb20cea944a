package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"EcoRoute-App/internal/domain/model"
	"EcoRoute-App/internal/domain/service"
	"EcoRoute-App/internal/usecase"
)

// RouteHandler はルート探索APIのハンドラー
type RouteHandler struct {
	planningUseCase usecase.RoutePlanningUseCase
	demoProvider    *service.DemoDataProvider
}

// NewRouteHandler は新しいRouteHandlerインスタンスを作成
func NewRouteHandler(planningUseCase usecase.RoutePlanningUseCase) *RouteHandler {
	return &RouteHandler{
		planningUseCase: planningUseCase,
		demoProvider:    service.NewDemoDataProvider(),
	}
}

// PostRoutes はルートを探索するエンドポイント
// POST /api/routes
func (h *RouteHandler) PostRoutes(c *gin.Context) {
	var req model.RouteRequest

	// リクエストボディのバインド
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	// バリデーション
	if err := h.validateRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "バリデーションエラー",
			"details": err.Error(),
		})
		return
	}

	// UseCase呼び出し
	response, err := h.planningUseCase.FindRoutes(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "ルート探索に失敗しました",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCachedRoute は保存済みルートを取得するエンドポイント
// GET /api/routes/:id
func (h *RouteHandler) GetCachedRoute(c *gin.Context) {
	routeID := c.Param("id")
	if routeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "route_idが指定されていません",
		})
		return
	}

	route, err := h.planningUseCase.GetCachedRoute(c.Request.Context(), routeID)
	if err != nil {
		if strings.Contains(err.Error(), "見つかりません") || strings.Contains(err.Error(), "有効期限切れ") {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "ルートが見つかりません",
				"details": err.Error(),
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "ルートの取得に失敗しました",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, route)
}

// GetLocations はデモ用の既知ランドマーク一覧を返すエンドポイント
// GET /api/locations
func (h *RouteHandler) GetLocations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"locations": h.demoProvider.KnownLocations(),
	})
}

// GeocodeRequest はジオコーディングリクエスト
type GeocodeRequest struct {
	Address string `json:"address" validate:"required"`
}

// PostGeocode はランドマーク名を座標へ変換するエンドポイント
// POST /api/geocode
func (h *RouteHandler) PostGeocode(c *gin.Context) {
	var req GeocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "addressが指定されていません",
		})
		return
	}

	point, ok := h.demoProvider.GeocodeAddress(req.Address)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "該当する地点が見つかりません",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": req.Address,
		"point":   point,
	})
}

// GetHealth はヘルスチェックエンドポイント
// GET /api/health
func (h *RouteHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// validateRequest はリクエストの詳細バリデーションを行う
func (h *RouteHandler) validateRequest(req *model.RouteRequest) error {
	// 出発地と目的地は必須
	if req.Origin == nil {
		return &ValidationError{Field: "origin", Message: "出発地は必須です"}
	}
	if req.Destination == nil {
		return &ValidationError{Field: "destination", Message: "目的地は必須です"}
	}

	// 緯度経度の範囲チェック
	if !req.Origin.IsValid() {
		return &ValidationError{Field: "origin", Message: "緯度は-90から90、経度は-180から180の範囲で指定してください"}
	}
	if !req.Destination.IsValid() {
		return &ValidationError{Field: "destination", Message: "緯度は-90から90、経度は-180から180の範囲で指定してください"}
	}

	// 優先基準のチェック
	for _, pref := range req.Preferences {
		switch pref {
		case model.PreferenceFastest, model.PreferenceSafest, model.PreferenceEnergyEfficient,
			model.PreferenceScenic, model.PreferenceHealthy, model.PreferenceCheapest:
		default:
			return &ValidationError{Field: "preferences", Message: "不明な優先基準です: " + string(pref)}
		}
	}

	// 移動手段のチェック
	for _, mode := range req.TransportModes {
		switch mode {
		case model.ModeWalking, model.ModeBiking, model.ModeScooter, model.ModeCar,
			model.ModeBus, model.ModeSkytrain, model.ModeSeabus, model.ModeWestCoastExpress:
		default:
			return &ValidationError{Field: "transport_modes", Message: "不明な移動手段です: " + string(mode)}
		}
	}

	// 最大徒歩距離のチェック
	if req.MaxWalkingDistance < 0 {
		return &ValidationError{Field: "max_walking_distance", Message: "最大徒歩距離は0以上で指定してください"}
	}

	return nil
}

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
