package api

import (
	"afili_api/internal/profile"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type profileHandler struct {
	accordion *profile.Accordion
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(accordion *profile.Accordion) *profileHandler {
	return &profileHandler{accordion: accordion}
}

func (h *profileHandler) handleGetProfile(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"user":        profile.User(),
		"tokens":      profile.MaskedTokens(),
		"tips":        profile.Tips(),
		"open_tip_id": h.accordion.OpenID(),
	})
}

func (h *profileHandler) handleToggleTip(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid tip id"})
		return
	}

	open, err := h.accordion.Toggle(id)
	if err != nil {
		if errors.Is(err, profile.ErrUnknownTip) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"open_tip_id": open})
}
