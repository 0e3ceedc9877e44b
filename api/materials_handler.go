package api

import (
	"afili_api/internal/materials"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type materialsHandler struct {
	materialsService *materials.Service
	logger           *zap.Logger
}

// NewMaterialsHandler creates a new materials handler.
func NewMaterialsHandler(materialsService *materials.Service, logger *zap.Logger) *materialsHandler {
	return &materialsHandler{
		materialsService: materialsService,
		logger:           logger,
	}
}

func (h *materialsHandler) handleListMaterials(ctx *gin.Context) {
	list, err := h.materialsService.List()
	if err != nil {
		h.logger.Error("failed to list materials", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list materials"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"results": list})
}

// handleCreateMaterial handles POST /materials.
func (h *materialsHandler) handleCreateMaterial(ctx *gin.Context) {
	var req materials.CreateInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	m, err := h.materialsService.Create(req)
	if err != nil {
		if errors.Is(err, materials.ErrInvalidMaterial) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create material"})
		return
	}

	ctx.JSON(http.StatusCreated, m)
}

// handleGetMaterial returns one material; clients copy its content.
func (h *materialsHandler) handleGetMaterial(ctx *gin.Context) {
	id, ok := materialID(ctx)
	if !ok {
		return
	}

	m, err := h.materialsService.Get(id)
	if err != nil {
		writeMaterialError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, m)
}

// handleDeleteMaterial handles DELETE /materials/:id?confirm=true.
func (h *materialsHandler) handleDeleteMaterial(ctx *gin.Context) {
	id, ok := materialID(ctx)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(ctx.Query("confirm"))

	if err := h.materialsService.Delete(id, confirmed); err != nil {
		writeMaterialError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func materialID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return 0, false
	}
	return id, true
}

func writeMaterialError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, materials.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "material not found"})
	case errors.Is(err, materials.ErrConfirmationRequired):
		ctx.JSON(http.StatusPreconditionRequired, gin.H{"error": "delete must be confirmed"})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
