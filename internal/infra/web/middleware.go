package web

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// sessionUserKey is the session entry holding the logged-in user's id.
	sessionUserKey = "user_id"
	// contextUserKey is the gin context entry RequireUser fills for handlers.
	contextUserKey = "acting_user_id"
)

// RequireUser rejects requests without a logged-in session and exposes the
// acting user id on the gin context. Handlers pass that id explicitly into
// the service layer; nothing below the handlers reads session state.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(sessionUserKey).(int64)
		if !ok || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIResponse{
				Success: false,
				Error:   "authentication required",
			})
			return
		}
		c.Set(contextUserKey, userID)
		c.Next()
	}
}

// actingUserID returns the user id RequireUser stored on the context.
func actingUserID(c *gin.Context) int64 {
	return c.GetInt64(contextUserKey)
}
