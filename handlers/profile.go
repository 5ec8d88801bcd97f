package handlers

import (
	"net/http"

	"buildflow-api/config"
	"buildflow-api/middleware"
	"buildflow-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// GetProfile returns the authenticated user with their profile
func GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.Preload("Profile").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type UpdateProfileRequest struct {
	Address      string `json:"address"`
	City         string `json:"city"`
	Phone        string `json:"phone"`
	BusinessName string `json:"business_name"`
	VehicleInfo  string `json:"vehicle_info"`
}

// UpdateProfile upserts the caller's profile row
func UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := models.Profile{
		UserID:       userID,
		Address:      req.Address,
		City:         req.City,
		Phone:        req.Phone,
		BusinessName: req.BusinessName,
		VehicleInfo:  req.VehicleInfo,
	}
	err := config.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"address", "city", "phone", "business_name", "vehicle_info", "updated_at",
		}),
	}).Create(&profile).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	logEvent(c, uintPtr(userID), models.EventProfileUpdated, nil)

	config.DB.Where("user_id = ?", userID).First(&profile)
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

type RegisterTokenRequest struct {
	FCMToken string `json:"fcm_token" binding:"required"`
}

// RegisterFCMToken stores the caller's push token for order notifications
func RegisterFCMToken(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := config.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("fcm_token", req.FCMToken).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Push token registered"})
}
