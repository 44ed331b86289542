// internal/middleware/payload_limit.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PayloadSizeLimit caps request bodies at maxBytes. Oversized payloads fail
// during body reads with http.MaxBytesError, which gin surfaces as a bind
// error; requests that declare their size up front are rejected immediately.
func PayloadSizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "Payload too large",
			})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
