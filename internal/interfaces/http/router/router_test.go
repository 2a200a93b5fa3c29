package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/handler"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type echoDispatcher struct{}

func (echoDispatcher) Dispatch(_ context.Context, f contract.Family, env contract.Envelope) (any, error) {
	return map[string]any{"family": f, "mode": env.Mode}, nil
}

type testServer struct {
	engine *gin.Engine
	tokens *auth.JWTService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:     "router-test-secret-with-32-characters",
		Expiration: time.Hour,
		Issuer:     "erp-test",
	})
	reg := prometheus.NewRegistry()
	metrics, err := middleware.NewHTTPMetrics(reg, "erp-test")
	require.NoError(t, err)

	r := New(Config{
		HTTP: config.HTTPConfig{
			MaxBodySize:      1 << 10,
			CORSAllowOrigins: []string{"http://localhost:5173"},
			CORSAllowMethods: []string{"GET", "POST", "OPTIONS"},
			CORSAllowHeaders: []string{"Content-Type", "Authorization"},
		},
		ServiceName:    "erp-test",
		Metrics:        metrics,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		JWT:            middleware.DefaultJWTConfig(tokens, auth.NewInMemoryTokenBlacklist()),
		Health:         handler.NewSystemHandler("erp", "test", nil).Health,
	})
	r.Register(handler.NewFamilyHandler(echoDispatcher{}))
	return &testServer{engine: r.Setup(), tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		tok, err := s.tokens.Generate(auth.Subject{UserID: 1, Username: "admin"})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok.Value)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 32)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	w = s.do(t, http.MethodGet, "/metrics", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{family="",method="GET",route="/health",service="erp-test",status="200"} 1`)
}

func TestRouter_APIRequiresToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/cities", `{"mode":3}`, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/cities", `{"mode":3}`, true)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cities", resp.Data["family"])
	assert.Equal(t, float64(3), resp.Data["mode"])
}

func TestRouter_BodyLimit(t *testing.T) {
	s := newTestServer(t)
	big := `{"mode":1,"parameters":{"CityName":"` + strings.Repeat("x", 2<<10) + `"}}`

	w := s.do(t, http.MethodPost, "/api/cities", big, true)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouter_NoRoute(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/nowhere", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
}

func TestRouter_CORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/cities", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
