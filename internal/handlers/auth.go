package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/requestdata"
)

// AuthHandler only introspects tokens. Issuing them is the external Laravel
// API's job.
type AuthHandler struct {
	log *logger.Logger
}

func NewAuthHandler(log *logger.Logger) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler")}
}

// GET /api/auth/verify
// Reaching this handler means RequireAuth accepted the token and resolved
// the user, so all that is left is echoing the identity back.
func (h *AuthHandler) Verify(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	RespondOK(c, gin.H{
		"valid":   true,
		"user_id": rd.UserID,
		"email":   rd.Email,
	})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	RespondOK(c, gin.H{
		"user_id": rd.UserID,
		"email":   rd.Email,
		"name":    rd.Name,
		"role":    rd.Role,
	})
}
