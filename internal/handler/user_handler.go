package handler

import (
	"net/http"
	"strconv"

	"student_portal/internal/model"
	"student_portal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves the caller's own profile and the dekanat user listing
type UserHandler struct {
	service service.UserService
	log     *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{service: s, log: log}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, "Failed to retrieve profile")
		return
	}
	c.JSON(http.StatusOK, model.ToProfile(user))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
		return
	}

	var req model.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.log, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, model.ToProfile(user))
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
		return
	}

	var req model.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	// The target is always the caller; the service re-checks ownership
	if err := h.service.ChangePassword(c.Request.Context(), userID, userID, req); err != nil {
		respondError(c, h.log, err, "Failed to change password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": service.MsgPasswordChanged})
}

// ListUsers is only reachable through the dekanat group middleware
func (h *UserHandler) ListUsers(c *gin.Context) {
	page := 1
	if pageParam := c.Query("page"); pageParam != "" {
		p, err := strconv.Atoi(pageParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid page."})
			return
		}
		page = p
	}

	users, err := h.service.ListUsers(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.log, err, "Failed to retrieve users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// RegisterUserRoutes registers profile, password and listing routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, dekanatMW gin.HandlerFunc) {
	userRoutes := rg.Group("")
	userRoutes.Use(authMW) // All routes in this group require authentication
	{
		userRoutes.GET("/profile", h.GetProfile)
		userRoutes.PUT("/profile", h.UpdateProfile)
		userRoutes.PATCH("/profile", h.UpdateProfile)
		userRoutes.PUT("/password", h.ChangePassword)
		userRoutes.GET("/users", dekanatMW, h.ListUsers)
	}
}
