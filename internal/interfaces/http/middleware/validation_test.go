package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupInput struct {
	Email    string          `json:"email" binding:"required,email"`
	Quantity int             `json:"quantity" binding:"required,min=1"`
	Price    decimal.Decimal `json:"price" binding:"required"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req signupInput
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req.Price))
	})
	return router
}

func postJSON(router *gin.Engine, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHandleValidationError(t *testing.T) {
	router := newValidationRouter()

	t.Run("lists invalid fields by JSON name", func(t *testing.T) {
		w, resp := postJSON(router, `{"email": "invalid", "quantity": 0, "price": "0"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "email must be a valid email address", fields["email"])
		assert.Equal(t, "quantity is required", fields["quantity"])
		assert.Equal(t, "price is required", fields["price"])
	})

	t.Run("malformed JSON", func(t *testing.T) {
		w, resp := postJSON(router, `{"email":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})

	t.Run("wrong type", func(t *testing.T) {
		w, resp := postJSON(router, `{"email": "a@b.co", "quantity": "two", "price": "1"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "quantity", resp.Error.Details[0].Field)
	})

	t.Run("valid input", func(t *testing.T) {
		w, resp := postJSON(router, `{"email": "test@example.com", "quantity": 2, "price": "9.50"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, "9.5", resp.Data)
	})
}

func TestHandleValidationError_BodyTooLarge(t *testing.T) {
	SetupValidator()
	router := gin.New()
	router.Use(BodyLimit(16))
	router.POST("/test", func(c *gin.Context) {
		var req signupInput
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"email": "someone@example.com"}`))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeBodyTooLarge)
}
