package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/lithammer/shortuuid/v4"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with a short opaque id, kept from the
// client when it already sent one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = shortuuid.New()
		}
		c.Set(RequestIDHeader, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}
