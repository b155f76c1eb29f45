package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// SecurityConfig controls the optional security headers. The fixed
// headers (frame, sniffing, referrer) are always sent.
type SecurityConfig struct {
	HSTSEnabled           bool
	HSTSMaxAge            int // seconds
	HSTSIncludeSubdomains bool
	HSTSPreload           bool

	CSPEnabled   bool
	CSPDirective string

	PermissionsPolicyEnabled   bool
	PermissionsPolicyDirective string
}

// storefrontCSP allows product images from the object store over https
const storefrontCSP = "default-src 'self'; img-src 'self' data: https:; " +
	"script-src 'self'; style-src 'self' 'unsafe-inline'; font-src 'self' data:; " +
	"connect-src 'self'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'"

// DefaultSecurityConfig leaves HSTS off; enable it only behind HTTPS.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		HSTSMaxAge:                 365 * 24 * 60 * 60,
		HSTSIncludeSubdomains:      true,
		CSPEnabled:                 true,
		CSPDirective:               storefrontCSP,
		PermissionsPolicyEnabled:   true,
		PermissionsPolicyDirective: "camera=(), microphone=(), geolocation=(), payment=(), usb=()",
	}
}

// Secure applies DefaultSecurityConfig
func Secure() gin.HandlerFunc {
	return SecureWithConfig(DefaultSecurityConfig())
}

// SecureWithConfig sets security headers on every response
func SecureWithConfig(cfg SecurityConfig) gin.HandlerFunc {
	headers := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	if cfg.CSPEnabled && cfg.CSPDirective != "" {
		headers["Content-Security-Policy"] = cfg.CSPDirective
	}
	if cfg.PermissionsPolicyEnabled && cfg.PermissionsPolicyDirective != "" {
		headers["Permissions-Policy"] = cfg.PermissionsPolicyDirective
	}
	if cfg.HSTSEnabled {
		hsts := "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hsts += "; preload"
		}
		headers["Strict-Transport-Security"] = hsts
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for k, v := range headers {
			h.Set(k, v)
		}
		c.Next()
	}
}
