package middleware

import (
	"ctchen222/minimax-tic-tac-toe/internal/api/response"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	playerIDKey    = "playerID"
	PlayerIDHeader = "X-Player-ID"
)

// TokenAuthenticator turns a bearer token into a player id.
type TokenAuthenticator interface {
	Authenticate(token string) (string, error)
}

// PlayerIdentity resolves the calling player from a bearer token, falling
// back to the X-Player-ID header used by guests.
func PlayerIdentity(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				response.AbortWithError(c, http.StatusUnauthorized, "authorization header must be a bearer token")
				return
			}
			playerID, err := auth.Authenticate(strings.TrimSpace(token))
			if err != nil {
				response.AbortWithError(c, http.StatusUnauthorized, err.Error())
				return
			}
			c.Set(playerIDKey, playerID)
			c.Next()
			return
		}

		playerID := strings.TrimSpace(c.GetHeader(PlayerIDHeader))
		if playerID == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "missing player identity")
			return
		}
		c.Set(playerIDKey, playerID)
		c.Next()
	}
}

// PlayerID returns the id stored by PlayerIdentity.
func PlayerID(c *gin.Context) string {
	return c.GetString(playerIDKey)
}
