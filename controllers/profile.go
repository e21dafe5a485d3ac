package controllers

import (
	"errors"
	"net/http"
	"seoanalyzer-backend/config"
	"seoanalyzer-backend/models"
	"seoanalyzer-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateProfileInput struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type UpdateTemplateInput struct {
	Status   string  `json:"status" binding:"required"`
	Message  *string `json:"message"`
	IsActive *bool   `json:"isActive"`
}

func GetProfile(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":  user.Name,
		"email": user.Email,
		"phone": user.Phone,
		"role":  user.Role,
	})
}

func UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Phone != nil && *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// GetNotificationTemplates lists the per-status message templates (admin only)
func GetNotificationTemplates(c *gin.Context) {
	var templates []models.NotificationTemplate
	if err := config.DB.Order("status ASC").Find(&templates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve templates")
		return
	}
	c.JSON(http.StatusOK, templates)
}

// UpdateNotificationTemplate edits the message sent for a status (admin only)
func UpdateNotificationTemplate(c *gin.Context) {
	var input UpdateTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !models.ValidStatus(input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown status")
		return
	}

	var template models.NotificationTemplate
	if err := config.DB.Where("status = ?", input.Status).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Message != nil {
		template.Message = *input.Message
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update template")
		return
	}

	c.JSON(http.StatusOK, template)
}
