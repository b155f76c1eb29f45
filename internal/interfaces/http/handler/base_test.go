package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.RequestIDKey, "req-123")
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "stock exceeded",
			err:        shared.ErrStockExceeded.WithMessage("Only 2 left"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   shared.CodeStockExceeded,
			wantMsg:    "Only 2 left",
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("loading: %w", shared.ErrOrderNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   shared.CodeOrderNotFound,
			wantMsg:    "Order not found",
		},
		{
			name:       "duplicate request",
			err:        shared.ErrDuplicateRequest,
			wantStatus: http.StatusConflict,
			wantCode:   shared.CodeDuplicateRequest,
		},
		{
			name:       "storage error",
			err:        shared.NewStorageError(errors.New("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   shared.CodeStorage,
		},
		{
			name:       "plain error hides detail",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
			wantMsg:    "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)
			h := &BaseHandler{}

			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-123", resp.Error.RequestID)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Error.Message)
			}
			assert.Len(t, c.Errors, 1)
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext(t)
		(&BaseHandler{}).HandleDomainError(c, nil)
		assert.Empty(t, w.Body.String())
	})
}

func TestBaseHandler_PathID(t *testing.T) {
	h := &BaseHandler{}

	t.Run("valid", func(t *testing.T) {
		c, _ := newTestContext(t)
		id := uuid.New()
		c.Params = gin.Params{{Key: "id", Value: id.String()}}

		got, ok := h.pathID(c, "id")
		assert.True(t, ok)
		assert.Equal(t, id, got)
	})

	t.Run("malformed", func(t *testing.T) {
		c, w := newTestContext(t)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		_, ok := h.pathID(c, "id")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, shared.CodeValidation, resp.Error.Code)
		assert.Equal(t, "Invalid id", resp.Error.Message)
	})
}

func TestBaseHandler_CurrentUserID(t *testing.T) {
	h := &BaseHandler{}

	t.Run("authenticated", func(t *testing.T) {
		c, _ := newTestContext(t)
		id := uuid.New()
		c.Set(middleware.JWTClaimsKey, &auth.Claims{UserID: id.String(), Role: identity.RoleCustomer})

		got, ok := h.currentUserID(c)
		assert.True(t, ok)
		assert.Equal(t, id, got)
	})

	t.Run("anonymous", func(t *testing.T) {
		c, w := newTestContext(t)

		_, ok := h.currentUserID(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, shared.CodeUnauthorized, decode(t, w).Error.Code)
	})
}

func TestRespondPage(t *testing.T) {
	c, w := newTestContext(t)
	page := &shared.Paginated[string]{Items: []string{"a", "b"}, Total: 12, Page: 2, PageSize: 5, TotalPages: 3}

	respondPage(&BaseHandler{}, c, page)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, []any{"a", "b"}, resp.Data)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(12), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 5, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandler_ResponseHelpers(t *testing.T) {
	h := &BaseHandler{}

	t.Run("created", func(t *testing.T) {
		c, w := newTestContext(t)
		h.Created(c, map[string]string{"id": "1"})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decode(t, w).Success)
	})

	t.Run("no content", func(t *testing.T) {
		c, w := newTestContext(t)
		h.NoContent(c)
		c.Writer.WriteHeaderNow()
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("bad request", func(t *testing.T) {
		c, w := newTestContext(t)
		h.BadRequest(c, "nope")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decode(t, w).Error.Code)
	})
}
