package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const internalAuthHeader = "X-Internal-Auth"

// InternalAuth создает middleware межсервисной авторизации по общему секрету
func InternalAuth(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(internalAuthHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secretKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid internal auth"})
			return
		}
		c.Next()
	}
}
