package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"academy-backend/internal/common/apperrors"
	"academy-backend/internal/features/profile/models"
	"academy-backend/internal/features/profile/service"
)

type ProfileHandler struct {
	sync  *service.SyncService
	admin *service.AdminResolver
}

func NewProfileHandler(sync *service.SyncService, admin *service.AdminResolver) *ProfileHandler {
	return &ProfileHandler{sync: sync, admin: admin}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profiles := router.Group("/profiles")
	{
		profiles.POST("/sync", h.syncProfile)
		profiles.GET("/:wallet", h.getProfile)
		profiles.GET("/:wallet/admin", h.getAdminStatus)
	}
}

type syncRequest struct {
	WalletAddress string  `json:"wallet_address" binding:"required"`
	DisplayName   string  `json:"display_name"`
	Squad         *string `json:"squad"`
}

func (h *ProfileHandler) syncProfile(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.sync.SyncOnConnect(c.Request.Context(), req.WalletAddress, models.SyncHints{
		DisplayName: req.DisplayName,
		Squad:       req.Squad,
	})
	if err != nil {
		// Only validation errors escape the sync chain.
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProfileHandler) getProfile(c *gin.Context) {
	profile, err := h.sync.GetProfile(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) getAdminStatus(c *gin.Context) {
	isAdmin := h.admin.IsAdmin(c.Request.Context(), c.Param("wallet"))
	c.JSON(http.StatusOK, gin.H{"is_admin": isAdmin})
}
