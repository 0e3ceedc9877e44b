package api

import (
	"afili_api/internal/profile"
	"afili_api/internal/session"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sessionHandler covers login, logout, navigation and notifications.
type sessionHandler struct {
	controller *session.Controller
	accordion  *profile.Accordion
	logger     *zap.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(controller *session.Controller, accordion *profile.Accordion, logger *zap.Logger) *sessionHandler {
	return &sessionHandler{
		controller: controller,
		accordion:  accordion,
		logger:     logger,
	}
}

// stateResponse is the public view of session.State.
type stateResponse struct {
	session.State
	SalesCount int `json:"sales_count"`
}

func newStateResponse(s session.State) stateResponse {
	return stateResponse{State: s, SalesCount: len(s.Sales)}
}

// handleLogin handles POST /login. Credentials are simulated: any
// well-formed pair is accepted.
func (h *sessionHandler) handleLogin(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind login request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	state := h.controller.Login()
	h.logger.Info("user logged in", zap.String("email", req.Email))
	ctx.JSON(http.StatusOK, newStateResponse(state))
}

func (h *sessionHandler) handleLogout(ctx *gin.Context) {
	h.controller.Logout()
	h.accordion.Reset()
	ctx.JSON(http.StatusOK, newStateResponse(h.controller.Snapshot()))
}

func (h *sessionHandler) handleGetState(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, newStateResponse(h.controller.Snapshot()))
}

// handleNavigate handles PUT /screen.
func (h *sessionHandler) handleNavigate(ctx *gin.Context) {
	var req struct {
		Screen string `json:"screen" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	screen, err := session.ParseScreen(req.Screen)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.controller.Navigate(screen)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotAuthenticated):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, newStateResponse(state))
}

func (h *sessionHandler) handleGetNotification(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"notification": h.controller.Snapshot().Notification})
}

// handleDismissNotification handles DELETE /notification/:id.
func (h *sessionHandler) handleDismissNotification(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.controller.Dismiss(id); err != nil {
		switch {
		case errors.Is(err, session.ErrNotificationNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
