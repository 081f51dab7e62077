package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"academy-backend/internal/features/activity/models"
	"academy-backend/internal/features/activity/service"
)

type ActivityHandler struct {
	service *service.ActivityService
}

func NewActivityHandler(service *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/activity", h.recordActivity)
	router.GET("/activity/:wallet", h.recentActivity)
	router.POST("/connections", h.trackConnection)
	router.GET("/analytics/connections", h.connectionAnalytics)
}

type recordActivityRequest struct {
	WalletAddress string                 `json:"wallet_address" binding:"required"`
	ActivityType  string                 `json:"activity_type" binding:"required"`
	Metadata      map[string]interface{} `json:"metadata"`
}

func (h *ActivityHandler) recordActivity(c *gin.Context) {
	var req recordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Recording is fire-and-forget; acceptance does not imply durability.
	h.service.Record(c.Request.Context(), req.WalletAddress, req.ActivityType, req.Metadata)
	c.Status(http.StatusAccepted)
}

func (h *ActivityHandler) recentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events := h.service.RecentActivity(c.Request.Context(), c.Param("wallet"), limit)
	if events == nil {
		events = []models.ActivityEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

type trackConnectionRequest struct {
	WalletAddress      string                 `json:"wallet_address" binding:"required"`
	ConnectionType     string                 `json:"connection_type" binding:"required"`
	Provider           string                 `json:"provider"`
	SessionData        map[string]interface{} `json:"session_data"`
	VerificationResult map[string]interface{} `json:"verification_result"`
}

func (h *ActivityHandler) trackConnection(c *gin.Context) {
	var req trackConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.service.TrackConnection(c.Request.Context(), models.ConnectionEvent{
		WalletAddress:      req.WalletAddress,
		ConnectionType:     req.ConnectionType,
		Provider:           req.Provider,
		SessionData:        req.SessionData,
		VerificationResult: req.VerificationResult,
	})
	c.Status(http.StatusAccepted)
}

func (h *ActivityHandler) connectionAnalytics(c *gin.Context) {
	windowDays, err := strconv.Atoi(c.DefaultQuery("window_days", "7"))
	if err != nil || windowDays <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "window_days must be a positive integer"})
		return
	}

	summary := h.service.ComputeAnalytics(c.Request.Context(), windowDays)
	c.JSON(http.StatusOK, summary)
}
