package handlers

import (
	"net/http"

	"buildflow-api/config"
	"buildflow-api/middleware"
	"buildflow-api/models"

	"github.com/gin-gonic/gin"
)

type TelemetryEventRequest struct {
	EventType string         `json:"event_type" binding:"required"`
	Metadata  map[string]any `json:"metadata"`
}

// CaptureEvent ingests a client-side telemetry event. Auth is optional:
// anonymous events (landing page visits) record with no user.
func CaptureEvent(c *gin.Context) {
	var req TelemetryEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_type is required"})
		return
	}

	var userID *uint
	if id := middleware.GetUserID(c); id != 0 {
		userID = &id
	}

	entry := models.EventLog{
		UserID:    userID,
		EventType: req.EventType,
		Metadata:  req.Metadata,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		// Telemetry must never error loudly at the client
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "captured", "event_id": entry.ID})
}

// GetMetrics returns the admin dashboard aggregates and recent activity
func GetMetrics(c *gin.Context) {
	var usersCount, ordersCount, activeOrders int64
	config.DB.Model(&models.User{}).Count(&usersCount)
	config.DB.Model(&models.Order{}).Count(&ordersCount)
	config.DB.Model(&models.Order{}).
		Where("status IN ?", []models.OrderStatus{
			models.StatusPending, models.StatusAccepted, models.StatusShipped,
		}).
		Count(&activeOrders)

	// Revenue recognized only on delivered orders
	var totalRevenue float64
	config.DB.Model(&models.Order{}).
		Where("status = ?", models.StatusDelivered).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue)

	var recentEvents []models.EventLog
	config.DB.Preload("User").
		Order("created_at desc").
		Limit(10).
		Find(&recentEvents)

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"total_users":   usersCount,
			"total_orders":  ordersCount,
			"active_orders": activeOrders,
			"total_revenue": totalRevenue,
		},
		"recent_events": recentEvents,
	})
}
