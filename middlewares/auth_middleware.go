package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/junkeats-app/models"
	"github.com/yeremiapane/junkeats-app/utils"
)

// Context keys set by the auth middlewares.
const (
	ContextSessionID   = "session_id"
	ContextUserID      = "user_id"
	ContextToken       = "token"
	ContextTokenExpiry = "token_expiry"
)

// SessionLookup finds the session a token was issued for.
type SessionLookup interface {
	Get(sessionID string) (*models.Session, error)
}

// SessionAuth requires a valid "Bearer" token whose session still exists
// and exposes that session. A nil lookup skips the session check.
func SessionAuth(sessions SessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid token format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if !authorize(c, tokenString, sessions) {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid or expired token"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func authorize(c *gin.Context, tokenString string, sessions SessionLookup) bool {
	claims, err := utils.ValidateToken(tokenString)
	if err != nil {
		return false
	}
	if sessions != nil {
		if _, err := sessions.Get(claims.SessionID); err != nil {
			utils.InfoLogger.WithField("session", claims.SessionID).Infof("Rejected token: %v", err)
			return false
		}
	}

	c.Set(ContextSessionID, claims.SessionID)
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextToken, tokenString)
	if claims.ExpiresAt != nil {
		c.Set(ContextTokenExpiry, claims.ExpiresAt.Time)
	}
	return true
}
