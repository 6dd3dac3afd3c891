package middleware

import (
	"net/http"

	"loan-ledger/pkg/apperror"
	"loan-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// MaxBodySize rejects declared bodies over maxBytes with 413 and caps the
// reader for chunked ones, so binding fails once the limit is crossed.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, apperror.New(apperror.CodeValidation, "Request body too large", http.StatusRequestEntityTooLarge))
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
