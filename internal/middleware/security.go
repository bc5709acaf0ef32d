package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders adds the response headers appropriate to a gateway that
// never serves HTML — every route returns a raw image/PDF artifact or a
// JSON health report (spec §4.7/§6), so there is no document origin for a
// script-src/style-src allow-list to protect. The CSP instead only denies
// framing and plugin content, and nosniff guards against a browser ever
// reinterpreting an artifact byte stream as something executable.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		c.Next()
	}
}
