package handlers

import (
	"fmt"
	"log"
	"net/http"

	"buildflow-api/config"
	"buildflow-api/middleware"
	"buildflow-api/models"
	"buildflow-api/statemachine"

	"github.com/gin-gonic/gin"
)

type CreateOrderRequest struct {
	SupplierID uint `json:"supplier_id" binding:"required"`
	Items      []struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
}

// CreateOrder creates an order from a cart (customer only). Line prices are
// snapshotted from the current product price and never recalculated.
func (e *Env) CreateOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var supplier models.User
	if err := config.DB.First(&supplier, req.SupplierID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}

	var orderItems []models.OrderItem
	var total float64
	for _, reqItem := range req.Items {
		var product models.Product
		if err := config.DB.First(&product, reqItem.ProductID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Product %d not found", reqItem.ProductID)})
			return
		}
		total += product.Price * float64(reqItem.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Quantity:  reqItem.Quantity,
			Price:     product.Price,
		})
	}

	order := models.Order{
		CustomerID:  customerID,
		SupplierID:  req.SupplierID,
		Status:      models.StatusPending,
		TotalAmount: total,
		Items:       orderItems,
	}
	// Order + items persist as one unit
	if err := config.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	logEvent(c, uintPtr(customerID), models.EventOrderPlaced,
		map[string]any{"orderId": order.ID, "total": total})

	var customer models.User
	if err := config.DB.First(&customer, customerID).Error; err == nil {
		e.Notify.OrderConfirmation(customer.Email, customer.Name, &order)
	}

	config.DB.Preload("Items.Product").First(&order, "id = ?", order.ID)
	c.JSON(http.StatusCreated, order)
}

// ListOrders returns orders scoped by the caller's role, newest first
func ListOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	query := config.DB.Preload("Items.Product").Preload("Customer").Preload("Supplier")
	switch role {
	case models.RoleCustomer:
		query = query.Where("customer_id = ?", userID)
	case models.RoleSupplier:
		query = query.Where("supplier_id = ?", userID)
	case models.RoleAdmin:
		// all orders
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Role cannot list orders"})
		return
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	query.Order("created_at desc").Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func actorFor(role models.UserRole) string {
	switch role {
	case models.RoleCustomer:
		return statemachine.ActorCustomer
	case models.RoleSupplier:
		return statemachine.ActorSupplier
	case models.RoleDelivery:
		return statemachine.ActorDriver
	case models.RoleAdmin:
		return statemachine.ActorAdmin
	}
	return ""
}

// UpdateOrderStatus transitions an order. Suppliers only on their own orders;
// customers only to CANCELLED on their own orders; admin unrestricted. On
// ACCEPTED a delivery job is created in SEARCHING with addresses resolved
// from the supplier and customer profiles; on CANCELLED a still-unclaimed
// job is removed so partners cannot accept a dead order.
func (e *Env) UpdateOrderStatus(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	role := middleware.GetRole(c)
	orderID := c.Param("id")

	var order models.Order
	if err := config.DB.First(&order, "id = ?", orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch role {
	case models.RoleSupplier:
		if order.SupplierID != actorID {
			c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
			return
		}
	case models.RoleCustomer:
		if order.CustomerID != actorID {
			c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
			return
		}
		if req.Status != models.StatusCancelled {
			c.JSON(http.StatusForbidden, gin.H{"error": "Customers may only cancel orders"})
			return
		}
	case models.RoleAdmin:
		// unrestricted
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Role cannot update order status"})
		return
	}

	if err := statemachine.CanTransition(order.Status, req.Status, actorFor(role)); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"requested":         req.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}

	prevStatus := order.Status
	if err := config.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	switch req.Status {
	case models.StatusAccepted:
		e.ensureDelivery(&order)
	case models.StatusCancelled:
		releaseDelivery(&order)
	}

	logEvent(c, uintPtr(actorID), models.EventOrderStatus,
		map[string]any{"orderId": order.ID, "oldStatus": prevStatus, "newStatus": req.Status})

	var customer models.User
	if err := config.DB.First(&customer, order.CustomerID).Error; err == nil {
		e.Notify.OrderStatusEmail(customer.Email, &order, req.Status)
		e.Notify.Push(customer.FCMToken,
			fmt.Sprintf("Order %s", req.Status),
			fmt.Sprintf("Your order #%s is now %s.", order.ShortID(), req.Status),
			map[string]string{"orderId": order.ID, "status": string(req.Status)})
	}

	if err := e.Hub.PublishStatus(order.ID, req.Status,
		fmt.Sprintf("Order status updated to %s", req.Status)); err != nil {
		// Best-effort; a late subscriber re-fetches over HTTP
		log.Printf("realtime publish failed for order %s: %v", order.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"current_status":  req.Status,
	})
}

// ensureDelivery creates the SEARCHING delivery job for a newly accepted
// order. At most one delivery exists per order; a second accept is a no-op.
func (e *Env) ensureDelivery(order *models.Order) {
	var existing models.Delivery
	if err := config.DB.Where("order_id = ?", order.ID).First(&existing).Error; err == nil {
		return
	}

	pickup := profileAddress(order.SupplierID)
	dropoff := profileAddress(order.CustomerID)

	delivery := models.Delivery{
		OrderID:        order.ID,
		Status:         models.DeliverySearching,
		PickupAddress:  pickup,
		DropoffAddress: dropoff,
		DeliveryFee:    e.Cfg.BaseDeliveryFee,
	}
	if err := config.DB.Create(&delivery).Error; err != nil {
		log.Printf("auto delivery creation failed for order %s: %v", order.ID, err)
	}
}

// releaseDelivery removes a cancelled order's delivery job while it is still
// unclaimed. The status match makes the delete and a concurrent claim
// mutually exclusive; a job claimed first keeps its row and partner.
func releaseDelivery(order *models.Order) {
	err := config.DB.
		Where("order_id = ? AND status = ?", order.ID, models.DeliverySearching).
		Delete(&models.Delivery{}).Error
	if err != nil {
		log.Printf("delivery release failed for order %s: %v", order.ID, err)
	}
}

func profileAddress(userID uint) string {
	var profile models.Profile
	if err := config.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return ""
	}
	if profile.City != "" {
		return profile.Address + ", " + profile.City
	}
	return profile.Address
}
