package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthenticator is a mock implementation of Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, p contract.LoginParams) (*contract.LoginResult, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contract.LoginResult), args.Error(1)
}

func (m *MockAuthenticator) Logout(ctx context.Context, claims *auth.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

func (m *MockAuthenticator) Me(ctx context.Context, userID int64) (*identity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func newAuthRouter(t *testing.T, svc Authenticator) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-with-at-least-32-chars",
		Expiration: time.Hour,
		Issuer:     "erp-test",
	})
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.JWTAuthMiddleware(middleware.DefaultJWTConfig(tokens, auth.NewInMemoryTokenBlacklist())))
	NewAuthHandler(svc, nil).RegisterRoutes(router.Group("/api"))
	return router, tokens
}

func bearer(t *testing.T, tokens *auth.JWTService, userID int64) string {
	t.Helper()
	tok, err := tokens.Generate(auth.Subject{UserID: userID, Username: "admin", DisplayName: "Administrator"})
	require.NoError(t, err)
	return "Bearer " + tok.Value
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(MockAuthenticator)
	router, _ := newAuthRouter(t, svc)

	expires := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.On("Login", mock.Anything, contract.LoginParams{Username: "admin", Password: "s3cret!"}).
		Return(&contract.LoginResult{Token: "jwt", ExpiresAt: expires, User: identity.User{UserID: 1, Username: "admin"}}, nil)
	svc.On("Login", mock.Anything, contract.LoginParams{Username: "admin", Password: "wrong"}).
		Return(nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password"))

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("success", func(t *testing.T) {
		w := login(`{"Username":"admin","Password":"s3cret!"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "jwt", data["Token"])
		assert.Equal(t, "admin", data["User"].(map[string]any)["Username"])
	})

	t.Run("invalid credentials", func(t *testing.T) {
		w := login(`{"Username":"admin","Password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidCredentials, decodeResponse(t, w).Error.Code)
	})

	t.Run("schema failure never reaches the service", func(t *testing.T) {
		w := login(`{"Username":"ad","Password":""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Details, 2)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := login(`{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, w).Error.Code)
	})

	svc.AssertNumberOfCalls(t, "Login", 2)
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := new(MockAuthenticator)
	router, tokens := newAuthRouter(t, svc)
	svc.On("Logout", mock.Anything, mock.MatchedBy(func(c *auth.Claims) bool {
		return c.UserID == 5 && c.ID != ""
	})).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", bearer(t, tokens, 5))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_Me(t *testing.T) {
	svc := new(MockAuthenticator)
	router, tokens := newAuthRouter(t, svc)
	svc.On("Me", mock.Anything, int64(5)).Return(&identity.User{UserID: 5, Username: "admin", IsActive: true}, nil)

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", bearer(t, tokens, 5))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, float64(5), data["UserID"])
		assert.NotContains(t, data, "PasswordHash")
	})

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	svc.AssertNumberOfCalls(t, "Me", 1)
}
