package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// corsHeaders are sent to any request carrying an Origin. Exports are read
// by the front-end through Content-Disposition.
var corsHeaders = map[string]string{
	"Vary":                             "Origin",
	"Access-Control-Allow-Credentials": "true",
	"Access-Control-Allow-Headers":     "Content-Type, Authorization, X-Request-ID",
	"Access-Control-Allow-Methods":     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	"Access-Control-Expose-Headers":    "Content-Disposition, X-Request-ID",
	"Access-Control-Max-Age":           "600",
}

// CORSMiddleware echoes the caller's origin and answers OPTIONS with 204.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			for k, v := range corsHeaders {
				h.Set(k, v)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
