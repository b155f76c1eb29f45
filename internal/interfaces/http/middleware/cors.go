package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSConfig lists the cross-origin rules for the storefront API
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig allows no origins. Browsers calling from another
// origin get no CORS headers until AllowOrigins is set.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodPatch, http.MethodOptions,
		},
		AllowHeaders: []string{
			"Accept", "Authorization", "Cache-Control", "Content-Type",
			"Idempotency-Key", "Origin", RequestIDHeader,
		},
		ExposeHeaders:    []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// CORS applies DefaultCORSConfig
func CORS() gin.HandlerFunc {
	return CORSWithConfig(DefaultCORSConfig())
}

// corsPolicy holds the header values computed once from a CORSConfig
type corsPolicy struct {
	origins     []string
	anyOrigin   bool
	credentials bool
	static      map[string]string
}

func newCORSPolicy(cfg CORSConfig) corsPolicy {
	p := corsPolicy{
		origins:     cfg.AllowOrigins,
		anyOrigin:   slices.Contains(cfg.AllowOrigins, "*"),
		credentials: cfg.AllowCredentials,
		static: map[string]string{
			"Access-Control-Allow-Methods": strings.Join(cfg.AllowMethods, ", "),
			"Access-Control-Allow-Headers": strings.Join(cfg.AllowHeaders, ", "),
		},
	}
	if len(cfg.ExposeHeaders) > 0 {
		p.static["Access-Control-Expose-Headers"] = strings.Join(cfg.ExposeHeaders, ", ")
	}
	if cfg.MaxAge > 0 {
		p.static["Access-Control-Max-Age"] = strconv.Itoa(int(cfg.MaxAge / time.Second))
	}
	return p
}

// allowedOrigin returns the Access-Control-Allow-Origin value for origin,
// or "" when the origin is not allowed.
func (p corsPolicy) allowedOrigin(origin string) string {
	switch {
	case len(p.origins) == 0:
		return ""
	case p.anyOrigin:
		return "*"
	case origin != "" && slices.Contains(p.origins, origin):
		return origin
	default:
		return ""
	}
}

func (p corsPolicy) apply(h http.Header, allowed string) {
	h.Set("Access-Control-Allow-Origin", allowed)
	// Browsers reject credentials combined with a wildcard origin.
	if p.credentials && allowed != "*" {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	for k, v := range p.static {
		h.Set(k, v)
	}
}

// CORSWithConfig sets CORS headers for allowed origins. Preflight OPTIONS
// requests always end with 204, with headers only when the origin is allowed.
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	policy := newCORSPolicy(cfg)

	return func(c *gin.Context) {
		if allowed := policy.allowedOrigin(c.GetHeader("Origin")); allowed != "" {
			policy.apply(c.Writer.Header(), allowed)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
