package api

import (
	"afili_api/internal/links"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type linksHandler struct {
	qrSize int
	logger *zap.Logger
}

// NewLinksHandler creates a new link generator handler.
func NewLinksHandler(qrSize int, logger *zap.Logger) *linksHandler {
	return &linksHandler{
		qrSize: qrSize,
		logger: logger,
	}
}

// handleGenerateLink handles POST /links.
func (h *linksHandler) handleGenerateLink(ctx *gin.Context) {
	var req struct {
		ProductID   string `json:"product_id"`
		AffiliateID string `json:"affiliate_id"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	link, err := links.Generate(req.ProductID, req.AffiliateID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"link": link})
}

// handleQRCode handles GET /links/qr and answers with a PNG attachment.
func (h *linksHandler) handleQRCode(ctx *gin.Context) {
	size := h.qrSize
	if raw := ctx.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > links.MaxQRSize {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid size"})
			return
		}
		size = n
	}

	link, err := links.Generate(ctx.Query("product_id"), ctx.Query("affiliate_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	png, err := links.QRCode(link, size)
	if err != nil {
		if errors.Is(err, links.ErrMissingField) || errors.Is(err, links.ErrInvalidSize) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to render qr code", zap.String("link", link), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render qr code"})
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", links.QRFilename))
	ctx.Data(http.StatusOK, "image/png", png)
}
