package handler

import (
	"net/http"

	"student_portal/internal/model"
	"student_portal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PasswordResetHandler exposes the reset token issue/redeem flow
type PasswordResetHandler struct {
	service service.PasswordResetService
	log     *zap.Logger
}

func NewPasswordResetHandler(s service.PasswordResetService, log *zap.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{service: s, log: log}
}

func (h *PasswordResetHandler) RequestReset(c *gin.Context) {
	var req model.PasswordResetRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.RequestReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.log, err, "Failed to create password reset token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (h *PasswordResetHandler) ValidateToken(c *gin.Context) {
	var req model.PasswordResetTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.service.ValidateToken(c.Request.Context(), req.Token); err != nil {
		respondError(c, h.log, err, "Failed to validate password reset token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (h *PasswordResetHandler) Confirm(c *gin.Context) {
	var req model.PasswordResetConfirmRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.ConfirmReset(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, h.log, err, "Failed to reset password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// RegisterPasswordResetRoutes registers the public password reset routes
func (h *PasswordResetHandler) RegisterPasswordResetRoutes(rg *gin.RouterGroup) {
	resetGroup := rg.Group("/password_reset")
	{
		resetGroup.POST("", h.RequestReset)
		resetGroup.POST("/validate_token", h.ValidateToken)
		resetGroup.POST("/confirm", h.Confirm)
	}
}
