// Package httputil provides response helpers shared by the ledger API
// handlers and the middleware stack.
package httputil

import "github.com/gin-gonic/gin"

// RespondError writes the ledger API's error envelope ({code, message,
// request_id}) and aborts the request. The request ID lets an integrator
// correlate a rejected append with the server logs.
func RespondError(c *gin.Context, status int, code, message string) {
	var requestID string
	if rid, exists := c.Get("request_id"); exists {
		if s, ok := rid.(string); ok {
			requestID = s
		}
	}

	resp := map[string]string{
		"code":    code,
		"message": message,
	}

	if requestID != "" {
		resp["request_id"] = requestID
	}

	c.AbortWithStatusJSON(status, resp)
}
