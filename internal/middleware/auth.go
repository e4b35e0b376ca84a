package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthRequired guards HTML pages; signed-out users go back to the
// landing page
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)

		if session == nil {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}

// APIAuthRequired guards JSON endpoints with a 401 envelope
func APIAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)

		if session == nil || session.AccessToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Please sign in with GitHub"})
			c.Abort()
			return
		}

		c.Next()
	}
}
