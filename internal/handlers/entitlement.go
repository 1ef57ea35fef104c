package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/services"
)

type EntitlementHandler struct {
	log            *logger.Logger
	entitlementSvc services.EntitlementService
}

func NewEntitlementHandler(log *logger.Logger, entitlementSvc services.EntitlementService) *EntitlementHandler {
	return &EntitlementHandler{
		log:            log.With("handler", "EntitlementHandler"),
		entitlementSvc: entitlementSvc,
	}
}

// DELETE /api/admin/entitlements/:user_id/cache
// Support tooling for when a subscription is changed by hand in the Laravel
// database: drops the cached flag so the next stream re-reads MySQL instead
// of waiting out the TTL.
func (h *EntitlementHandler) InvalidateCache(c *gin.Context) {
	userID := c.Param("user_id")
	h.entitlementSvc.Invalidate(c.Request.Context(), userID)
	RespondOK(c, gin.H{"invalidated": true, "user_id": userID})
}
