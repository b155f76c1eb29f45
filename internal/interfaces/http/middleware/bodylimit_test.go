package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	// echo reports how much of the body the handler could read
	echo := func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusBadRequest, "truncated after %d bytes", len(data))
			return
		}
		c.String(http.StatusOK, "read %d bytes", len(data))
	}

	tests := []struct {
		name          string
		limit         int64
		method        string
		body          string
		contentLength int64
		wantStatus    int
		wantBody      string
	}{
		{"cart item fits", 1024, http.MethodPost, `{"product_id":"p","quantity":1}`, 31, http.StatusOK, "read 31 bytes"},
		{"declared length over limit", 100, http.MethodPost, strings.Repeat("x", 200), 200, http.StatusRequestEntityTooLarge, "ERR_BODY_TOO_LARGE"},
		{"bodyless GET", 10, http.MethodGet, "", 0, http.StatusOK, "read 0 bytes"},
		{"streamed body capped", 50, http.MethodPost, strings.Repeat("x", 100), -1, http.StatusBadRequest, "truncated"},
		{"exactly at limit", 16, http.MethodPut, strings.Repeat("y", 16), 16, http.StatusOK, "read 16 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(BodyLimit(tt.limit))
			router.Handle(tt.method, "/cart/items", echo)

			req := httptest.NewRequest(tt.method, "/cart/items", strings.NewReader(tt.body))
			req.ContentLength = tt.contentLength
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
