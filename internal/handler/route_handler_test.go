package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoRoute-App/internal/domain/model"
)

// stubPlanningUseCase は固定レスポンスを返すユースケース
type stubPlanningUseCase struct {
	response *model.RouteResponse
	cached   *model.Route
	err      error
}

func (s *stubPlanningUseCase) FindRoutes(ctx context.Context, req *model.RouteRequest) (*model.RouteResponse, error) {
	return s.response, s.err
}

func (s *stubPlanningUseCase) GetCachedRoute(ctx context.Context, routeID string) (*model.Route, error) {
	if s.cached == nil {
		return nil, fmt.Errorf("ルートが見つかりません: %s", routeID)
	}
	return s.cached, s.err
}

func setupRouter(uc *stubPlanningUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRouteHandler(uc)
	r := gin.New()
	r.POST("/api/routes", h.PostRoutes)
	r.GET("/api/routes/:id", h.GetCachedRoute)
	r.GET("/api/health", h.GetHealth)
	r.GET("/api/locations", h.GetLocations)
	r.POST("/api/geocode", h.PostGeocode)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestPostRoutes(t *testing.T) {
	okResponse := &model.RouteResponse{
		RequestID: "req-1",
		Routes:    []*model.Route{{ID: "r1"}},
	}

	t.Run("正常なリクエストは200", func(t *testing.T) {
		r := setupRouter(&stubPlanningUseCase{response: okResponse})
		w := postJSON(r, "/api/routes", `{
			"origin": {"lat": 49.2827, "lng": -123.1207},
			"destination": {"lat": 49.3043, "lng": -123.1443},
			"preferences": ["fastest"]
		}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp model.RouteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "req-1", resp.RequestID)
		assert.Len(t, resp.Routes, 1)
	})

	t.Run("出発地なしは400", func(t *testing.T) {
		r := setupRouter(&stubPlanningUseCase{response: okResponse})
		w := postJSON(r, "/api/routes", `{"destination": {"lat": 49.3, "lng": -123.1}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("緯度範囲外は400", func(t *testing.T) {
		r := setupRouter(&stubPlanningUseCase{response: okResponse})
		w := postJSON(r, "/api/routes", `{
			"origin": {"lat": 95.0, "lng": -123.1207},
			"destination": {"lat": 49.3043, "lng": -123.1443}
		}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("不明な優先基準は400", func(t *testing.T) {
		r := setupRouter(&stubPlanningUseCase{response: okResponse})
		w := postJSON(r, "/api/routes", `{
			"origin": {"lat": 49.2827, "lng": -123.1207},
			"destination": {"lat": 49.3043, "lng": -123.1443},
			"preferences": ["teleport"]
		}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("不明な移動手段は400", func(t *testing.T) {
		r := setupRouter(&stubPlanningUseCase{response: okResponse})
		w := postJSON(r, "/api/routes", `{
			"origin": {"lat": 49.2827, "lng": -123.1207},
			"destination": {"lat": 49.3043, "lng": -123.1443},
			"transport_modes": ["rocket"]
		}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("不正なJSONは400", func(t *testing.T) {
		r := setupRouter(&stubPlanningUseCase{response: okResponse})
		w := postJSON(r, "/api/routes", `{not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetCachedRoute(t *testing.T) {
	t.Run("保存済みルートは200", func(t *testing.T) {
		r := setupRouter(&stubPlanningUseCase{cached: &model.Route{ID: "route_abc"}})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/routes/route_abc", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var route model.Route
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &route))
		assert.Equal(t, "route_abc", route.ID)
	})

	t.Run("未知のIDは404", func(t *testing.T) {
		r := setupRouter(&stubPlanningUseCase{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/routes/missing", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetHealth(t *testing.T) {
	r := setupRouter(&stubPlanningUseCase{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestGetLocations(t *testing.T) {
	r := setupRouter(&stubPlanningUseCase{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/locations", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Locations []string `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Locations)
}

func TestPostGeocode(t *testing.T) {
	t.Run("既知のランドマークは200", func(t *testing.T) {
		r := setupRouter(&stubPlanningUseCase{})
		w := postJSON(r, "/api/geocode", `{"address": "stanley park"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "point")
	})

	t.Run("未知の地名は404", func(t *testing.T) {
		r := setupRouter(&stubPlanningUseCase{})
		w := postJSON(r, "/api/geocode", `{"address": "zzzzzz"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("address未指定は400", func(t *testing.T) {
		r := setupRouter(&stubPlanningUseCase{})
		w := postJSON(r, "/api/geocode", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
