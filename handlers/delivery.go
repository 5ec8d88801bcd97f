package handlers

import (
	"log"
	"net/http"
	"time"

	"buildflow-api/config"
	"buildflow-api/middleware"
	"buildflow-api/models"
	"buildflow-api/statemachine"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListAvailableDeliveries shows unclaimed jobs with full order detail
func ListAvailableDeliveries(c *gin.Context) {
	var deliveries []models.Delivery
	config.DB.
		Preload("Order.Supplier.Profile").
		Preload("Order.Customer.Profile").
		Preload("Order.Items.Product").
		Where("status = ?", models.DeliverySearching).
		Order("created_at asc").
		Find(&deliveries)
	c.JSON(http.StatusOK, gin.H{"count": len(deliveries), "deliveries": deliveries})
}

// ListMyDeliveries returns jobs assigned to the calling partner
func ListMyDeliveries(c *gin.Context) {
	partnerID := middleware.GetUserID(c)
	var deliveries []models.Delivery
	config.DB.Preload("Order.Items.Product").Preload("Order.Customer").
		Where("partner_id = ?", partnerID).
		Order("updated_at desc").
		Find(&deliveries)
	c.JSON(http.StatusOK, gin.H{"count": len(deliveries), "deliveries": deliveries})
}

// AcceptDelivery claims a SEARCHING job for the calling partner. The claim is
// a conditional update matched on the current status, so concurrent claims on
// the same row produce exactly one winner.
func AcceptDelivery(c *gin.Context) {
	partnerID := middleware.GetUserID(c)
	deliveryID := c.Param("id")

	now := time.Now()
	result := config.DB.Model(&models.Delivery{}).
		Where("id = ? AND status = ?", deliveryID, models.DeliverySearching).
		Updates(map[string]interface{}{
			"partner_id": partnerID,
			"status":     models.DeliveryAssigned,
			"started_at": now,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept delivery"})
		return
	}
	if result.RowsAffected == 0 {
		var delivery models.Delivery
		if err := config.DB.First(&delivery, "id = ?", deliveryID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Delivery job not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "Job already taken"})
		return
	}

	var delivery models.Delivery
	config.DB.Preload("Order").First(&delivery, "id = ?", deliveryID)

	logEvent(c, uintPtr(partnerID), models.EventDeliveryAccepted,
		map[string]any{"deliveryId": deliveryID, "orderId": delivery.OrderID})

	c.JSON(http.StatusOK, delivery)
}

type UpdateDeliveryStatusRequest struct {
	Status models.DeliveryStatus `json:"status" binding:"required"`
}

// UpdateDeliveryStatus progresses a claimed job and mirrors the change into
// the parent order inside the same transaction.
func (e *Env) UpdateDeliveryStatus(c *gin.Context) {
	partnerID := middleware.GetUserID(c)
	deliveryID := c.Param("id")

	var delivery models.Delivery
	if err := config.DB.First(&delivery, "id = ?", deliveryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Delivery not found"})
		return
	}
	if delivery.PartnerID == nil || *delivery.PartnerID != partnerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the assigned partner for this delivery"})
		return
	}

	var req UpdateDeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := statemachine.CanTransitionDelivery(delivery.Status, req.Status); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Invalid state transition",
			"current_status": delivery.Status,
			"requested":      req.Status,
			"reason":         err.Error(),
		})
		return
	}

	orderStatus := statemachine.OrderStatusFor(req.Status)
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": req.Status}
		if req.Status == models.DeliveryCompleted {
			updates["completed_at"] = time.Now()
		}
		if err := tx.Model(&delivery).Updates(updates).Error; err != nil {
			return err
		}
		if orderStatus != "" {
			if err := tx.Model(&models.Order{}).Where("id = ?", delivery.OrderID).
				Update("status", orderStatus).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update delivery"})
		return
	}

	logEvent(c, uintPtr(partnerID), models.EventDeliveryUpdate,
		map[string]any{"deliveryId": deliveryID, "status": req.Status})

	if orderStatus != "" {
		message := "Driver update: " + string(req.Status)
		switch req.Status {
		case models.DeliveryPickedUp:
			message = "Driver has picked up your order!"
		case models.DeliveryCompleted:
			message = "Order Delivered! 📦"
		}
		if err := e.Hub.PublishStatus(delivery.OrderID, orderStatus, message); err != nil {
			log.Printf("realtime publish failed for order %s: %v", delivery.OrderID, err)
		}
	}

	config.DB.First(&delivery, "id = ?", deliveryID)
	c.JSON(http.StatusOK, delivery)
}
