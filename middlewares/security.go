package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets the headers for a JSON/PDF API. Session data is never
// cached, and HSTS is only sent over https (directly or behind a proxy).
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		// login needs the browser location; nothing else does
		h.Set("Permissions-Policy", "geolocation=(self), microphone=(), camera=(), payment=()")

		if c.GetHeader("Authorization") != "" || c.Query("token") != "" {
			h.Set("Cache-Control", "no-store")
		}
		if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
