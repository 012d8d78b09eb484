package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders returns Gin middleware that sets security response
// headers for the ledger API. The API serves JSON only, so the CSP
// denies everything.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		// Trail and report responses can include RESTRICTED entries;
		// no intermediary may cache them.
		c.Header("Cache-Control", "no-store")

		c.Next()
	}
}
