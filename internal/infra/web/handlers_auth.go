package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/asysc2020/relationship-manager-project/internal/app"
	idb "github.com/asysc2020/relationship-manager-project/internal/infra/database"
	"github.com/asysc2020/relationship-manager-project/internal/infra/metrics"
)

// AuthHandler serves registration, login, account lookup and the reminder
// channel link.
type AuthHandler struct {
	authService *app.AuthService
	metrics     *metrics.Metrics
}

func NewAuthHandler(as *app.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		authService: as,
		metrics:     m,
	}
}

// Register creates an account and logs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	u, err := h.authService.Register(c.Request.Context(), req.FacebookID, req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, app.ErrEmailTaken) {
			c.JSON(http.StatusConflict, APIResponse{Success: false, Error: app.ErrEmailTaken.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "registration failed"})
		return
	}

	if err := startSession(c, u.ID); err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to start session"})
		return
	}

	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: newUserSummary(u)})
}

// Login verifies credentials and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	u, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			h.metrics.IncLoginFailures()
			c.JSON(http.StatusUnauthorized, APIResponse{Success: false, Error: app.ErrInvalidCredentials.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "login failed"})
		return
	}

	if err := startSession(c, u.ID); err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to start session"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: newUserSummary(u)})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to clear session"})
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true})
}

// Lookup reports whether an account exists for an email or facebook id.
func (h *AuthHandler) Lookup(c *gin.Context) {
	result, err := h.authService.Lookup(c.Request.Context(), c.Query("email"), c.Query("facebook_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "lookup failed"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: LookupResponse{
			Registered: result.Registered,
			UserID:     result.UserID,
		},
	})
}

// LinkTelegram stores the chat id reminders are delivered to.
func (h *AuthHandler) LinkTelegram(c *gin.Context) {
	var req LinkTelegramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	err := h.authService.LinkTelegramChat(c.Request.Context(), actingUserID(c), req.ChatID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidChatID):
			c.JSON(http.StatusBadRequest, APIResponse{Success: false, Error: app.ErrInvalidChatID.Error()})
		case errors.Is(err, idb.ErrUserNotFound):
			c.JSON(http.StatusNotFound, APIResponse{Success: false, Error: idb.ErrUserNotFound.Error()})
		default:
			c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "failed to link telegram chat"})
		}
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true})
}

// startSession stores the user id in the session cookie.
func startSession(c *gin.Context, userID int64) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, userID)
	return session.Save()
}
