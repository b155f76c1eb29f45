package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: expiration,
		Issuer:                "storefront-test",
	})
}

func newTestToken(t *testing.T, svc *auth.JWTService, role identity.Role) (*identity.User, string) {
	t.Helper()
	user, err := identity.NewUser("Ana", "ana@example.com", "secret1", role)
	require.NoError(t, err)
	token, err := svc.Generate(user)
	require.NoError(t, err)
	return user, token.AccessToken
}

func newAuthRouter(cfg JWTMiddlewareConfig, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	handlers := append([]gin.HandlerFunc{JWTAuthMiddleware(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(GetJWTUserID(c).String()))
	})
	router.GET("/test", handlers...)
	return router
}

func doAuth(router *gin.Engine, header string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set(AuthHeaderKey, header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	user, token := newTestToken(t, svc, identity.RoleCustomer)

	w, resp := doAuth(newAuthRouter(JWTMiddlewareConfig{JWTService: svc}), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID.String(), resp.Data)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := newAuthRouter(JWTMiddlewareConfig{JWTService: svc})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := doAuth(router, tt.header)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, dto.ErrCodeTokenInvalid, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)
	_, token := newTestToken(t, svc, identity.RoleCustomer)

	w, resp := doAuth(newAuthRouter(JWTMiddlewareConfig{JWTService: svc}), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token has expired", resp.Error.Message)
}

func TestJWTAuthMiddleware_RevokedToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	_, token := newTestToken(t, svc, identity.RoleCustomer)
	claims, err := svc.Validate(token)
	require.NoError(t, err)

	blacklist := auth.NewInMemoryTokenBlacklist()
	router := newAuthRouter(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: blacklist})

	w, _ := doAuth(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, time.Minute))
	w, resp := doAuth(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token has been revoked", resp.Error.Message)
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := newAuthRouter(JWTMiddlewareConfig{JWTService: svc}, RequireRole(identity.RoleAdmin))

	_, customerToken := newTestToken(t, svc, identity.RoleCustomer)
	w, resp := doAuth(router, "Bearer "+customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	_, adminToken := newTestToken(t, svc, identity.RoleAdmin)
	w, _ = doAuth(router, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_WithoutAuthentication(t *testing.T) {
	router := gin.New()
	router.GET("/test", RequireRole(identity.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetJWTUserID_NotAuthenticated(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, GetJWTUserID(c))
	assert.Nil(t, GetJWTClaims(c))
}
