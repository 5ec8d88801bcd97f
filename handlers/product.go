package handlers

import (
	"net/http"

	"buildflow-api/config"
	"buildflow-api/middleware"
	"buildflow-api/models"

	"github.com/gin-gonic/gin"
)

// ListProducts returns the catalog with optional filters (public)
func ListProducts(c *gin.Context) {
	var products []models.Product
	query := config.DB.Preload("Supplier")

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if supplierID := c.Query("supplier_id"); supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	search := c.Query("search")
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	query.Find(&products)

	if search != "" {
		var userID *uint
		if id := middleware.GetUserID(c); id != 0 {
			userID = &id
		}
		logEvent(c, userID, models.EventSearch, map[string]any{"query": search})
	}

	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Category    string  `json:"category" binding:"required"`
	Stock       int     `json:"stock" binding:"gte=0"`
	Unit        string  `json:"unit"`
}

// CreateProduct adds a catalog entry owned by the calling supplier
func CreateProduct(c *gin.Context) {
	supplierID := middleware.GetUserID(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := models.Product{
		SupplierID:  supplierID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Unit:        req.Unit,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	logEvent(c, uintPtr(supplierID), models.EventProductCreated,
		map[string]any{"productId": product.ID, "name": product.Name})

	c.JSON(http.StatusCreated, product)
}

type UpdateProductRequest struct {
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
}

// UpdateProduct mutates a product; only the owning supplier or an admin may
func UpdateProduct(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if role != models.RoleAdmin && product.SupplierID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to modify this product"})
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if len(updates) > 0 {
		if err := config.DB.Model(&product).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
	}

	c.JSON(http.StatusOK, product)
}
