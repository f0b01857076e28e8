package api

import (
	"net/http"
	"strings"

	"reviewqr-backend/internal/session"
	"reviewqr-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

// WSHandler authenticates the websocket upgrade. Browsers cannot set headers
// on a websocket dial, so the token is also accepted as a query parameter.
// The feed is scoped to the session's tenant; platform roles see every tenant.
func WSHandler(sessions *session.Service, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			header := c.GetHeader("Authorization")
			if t := strings.TrimPrefix(header, "Bearer "); t != header {
				token = t
			}
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			return
		}

		sess, err := sessions.Get(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		hub.ServeWs(c.Writer, c.Request, sess.BusinessID)
	}
}
