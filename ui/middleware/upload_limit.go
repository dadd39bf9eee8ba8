package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// multipartOverhead allows for boundaries and form fields around the file itself
const multipartOverhead = 1 << 20

// LimitUploadBody caps the request body of POST requests so oversized uploads fail
// while the multipart form is parsed instead of after buffering.
func LimitUploadBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes+multipartOverhead {
			log.Printf("[LimitUploadBody] Request body of %d bytes exceeds limit", c.Request.ContentLength)
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
		c.Next()
	}
}
