package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/appealsync-backend/internal/http/response"
)

var errUnauthorized = errors.New("missing or invalid ops token")

// RequireOpsToken guards mutating ops routes with a shared bearer token.
// An empty token leaves the route open.
func RequireOpsToken(token string) gin.HandlerFunc {
	token = strings.TrimSpace(token)
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		got := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
