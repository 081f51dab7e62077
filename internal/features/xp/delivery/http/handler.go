package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"academy-backend/internal/common/apperrors"
	"academy-backend/internal/features/xp/models"
	"academy-backend/internal/features/xp/service"
)

type XPHandler struct {
	service service.XPService
}

func NewXPHandler(service service.XPService) *XPHandler {
	return &XPHandler{service: service}
}

func (h *XPHandler) RegisterRoutes(router *gin.RouterGroup) {
	xp := router.Group("/xp")
	{
		xp.POST("", h.addXP)
		xp.GET("/:wallet", h.getXP)
	}
}

type addXPRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	Amount        int64  `json:"amount" binding:"required"`
	Source        string `json:"source" binding:"required"`
}

func (h *XPHandler) addXP(c *gin.Context) {
	var req addXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.AddXP(c.Request.Context(), req.WalletAddress, req.Amount, models.XPSource(req.Source))
	if err != nil {
		if apperrors.IsValidation(err) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *XPHandler) getXP(c *gin.Context) {
	record, err := h.service.GetXP(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		if apperrors.IsValidation(err) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}
