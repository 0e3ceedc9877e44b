package api

import (
	"afili_api/internal/sales"
	"afili_api/internal/session"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// salesHandler serves the dashboard and the raw sales list.
type salesHandler struct {
	controller *session.Controller
	logger     *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(controller *session.Controller, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		controller: controller,
		logger:     logger,
	}
}

// handleDashboard handles GET /dashboard?window=.
func (h *salesHandler) handleDashboard(ctx *gin.Context) {
	window, err := sales.ParseWindow(ctx.Query("window"))
	if err != nil {
		h.logger.Warn("invalid window requested", zap.String("window", ctx.Query("window")))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state := h.controller.Snapshot()
	if state.Loading {
		ctx.JSON(http.StatusOK, gin.H{"loading": true})
		return
	}

	dashboard := sales.BuildDashboard(state.Sales, window, h.controller.Now())
	h.logger.Debug("dashboard built",
		zap.String("window", string(window)),
		zap.Int("count", dashboard.Summary.Count),
		zap.String("top_platform", dashboard.Summary.TopPlatform),
	)
	ctx.JSON(http.StatusOK, dashboard)
}

func (h *salesHandler) handleListSales(ctx *gin.Context) {
	state := h.controller.Snapshot()
	ctx.JSON(http.StatusOK, gin.H{"results": state.Sales, "loading": state.Loading})
}

func (h *salesHandler) handleGetSale(ctx *gin.Context) {
	sale, err := sales.Find(h.controller.Snapshot().Sales, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, sales.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, sale)
}
