// controllers/service.go
package controllers

import (
	"errors"
	"net/http"
	"seoanalyzer-backend/config"
	"seoanalyzer-backend/models"
	"seoanalyzer-backend/utils"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	CategoryID          uuid.UUID         `json:"categoryId" binding:"required"`
	Name                string            `json:"name" binding:"required"`
	Slug                string            `json:"slug" binding:"required"`
	Description         string            `json:"description"`
	DetailedDescription string            `json:"detailedDescription"`
	Benefits            models.StringList `json:"benefits"`
	Price               *float64          `json:"price"` // null means "contact us"
	PriceType           string            `json:"priceType"`
	Duration            string            `json:"duration"`
	IsFeatured          bool              `json:"isFeatured"`
	Order               int               `json:"order"`
	CustomFields        models.JSONB      `json:"customFields"`
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	CategoryID          *uuid.UUID        `json:"categoryId"`
	Name                *string           `json:"name"`
	Slug                *string           `json:"slug"`
	Description         *string           `json:"description"`
	DetailedDescription *string           `json:"detailedDescription"`
	Benefits            models.StringList `json:"benefits"`
	Price               *float64          `json:"price"`
	PriceType           *string           `json:"priceType"`
	Duration            *string           `json:"duration"`
	IsActive            *bool             `json:"isActive"`
	IsFeatured          *bool             `json:"isFeatured"`
	Order               *int              `json:"order"`
	CustomFields        models.JSONB      `json:"customFields"`
}

// CreateService creates a new service (admin only)
func CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidateSlug(input.Slug) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid slug format")
		return
	}

	priceType := input.PriceType
	if priceType == "" {
		priceType = models.PriceTypeFixed
	}
	if !models.ValidPriceType(priceType) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid price type")
		return
	}

	// The category must exist
	var category models.ServiceCategory
	if err := config.DB.Where("id = ?", input.CategoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Check slug uniqueness
	var existing models.Service
	if err := config.DB.Where("slug = ?", input.Slug).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Service with this slug already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	service := models.Service{
		CategoryID:          input.CategoryID,
		Name:                input.Name,
		Slug:                input.Slug,
		Description:         input.Description,
		DetailedDescription: input.DetailedDescription,
		Benefits:            input.Benefits,
		Price:               input.Price,
		PriceType:           priceType,
		Duration:            input.Duration,
		IsFeatured:          input.IsFeatured,
		Order:               input.Order,
		CustomFields:        input.CustomFields,
		IsActive:            true,
	}

	if err := config.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, service)
}

// GetServices retrieves services, optionally filtered by category. Inactive
// services are only visible to admins asking for them.
func GetServices(c *gin.Context) {
	role, _ := c.Get("role")

	query := config.DB.Model(&models.Service{}).Preload("Category")

	if categoryID := c.Query("categoryId"); categoryID != "" {
		categoryUUID, err := uuid.Parse(categoryID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
			return
		}
		query = query.Where("category_id = ?", categoryUUID)
	}

	includeInactive, _ := strconv.ParseBool(c.Query("includeInactive"))
	if role != models.RoleAdmin || !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var services []models.Service
	if err := query.Order("category_id, \"order\" ASC").Find(&services).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, services)
}

// GetService retrieves a specific service by ID including its category
func GetService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var service models.Service
	if err := config.DB.Preload("Category").Where("id = ?", serviceUUID).
		First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	role, _ := c.Get("role")
	if role != models.RoleAdmin && !service.IsActive {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, service)
}

// GetServiceBySlug retrieves a specific service by slug including its category
func GetServiceBySlug(c *gin.Context) {
	var service models.Service
	if err := config.DB.Preload("Category").Where("slug = ?", c.Param("slug")).
		First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	role, _ := c.Get("role")
	if role != models.RoleAdmin && !service.IsActive {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, service)
}

// GetFeaturedServices lists active featured services (public)
func GetFeaturedServices(c *gin.Context) {
	limit := 6
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l >= 1 && l <= 12 {
		limit = l
	}

	var services []models.Service
	if err := config.DB.Preload("Category").
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("\"order\" ASC").Limit(limit).Find(&services).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, services)
}

// GetServicesByCategorySlug lists active services of a category (public)
func GetServicesByCategorySlug(c *gin.Context) {
	var category models.ServiceCategory
	if err := config.DB.Where("slug = ? AND is_active = ?", c.Param("slug"), true).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var services []models.Service
	if err := config.DB.Where("category_id = ? AND is_active = ?", category.ID, true).
		Order("\"order\" ASC").Find(&services).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, services)
}

// UpdateService updates an existing service (admin only)
func UpdateService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := config.DB.Where("id = ?", serviceUUID).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CategoryID != nil && *input.CategoryID != service.CategoryID {
		var category models.ServiceCategory
		if err := config.DB.Where("id = ?", *input.CategoryID).First(&category).Error; err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
			return
		}
		service.CategoryID = *input.CategoryID
	}

	if input.Slug != nil && *input.Slug != service.Slug {
		if !utils.ValidateSlug(*input.Slug) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid slug format")
			return
		}
		var existing models.Service
		if err := config.DB.Where("slug = ?", *input.Slug).First(&existing).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Service with this slug already exists")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		service.Slug = *input.Slug
	}

	if input.PriceType != nil {
		if !models.ValidPriceType(*input.PriceType) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid price type")
			return
		}
		service.PriceType = *input.PriceType
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.DetailedDescription != nil {
		service.DetailedDescription = *input.DetailedDescription
	}
	if input.Benefits != nil {
		service.Benefits = input.Benefits
	}
	if input.Price != nil {
		service.Price = input.Price
	}
	if input.Duration != nil {
		service.Duration = *input.Duration
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		service.IsFeatured = *input.IsFeatured
	}
	if input.Order != nil {
		service.Order = *input.Order
	}
	if input.CustomFields != nil {
		service.CustomFields = input.CustomFields
	}

	if err := config.DB.Save(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteService deletes a service (admin only). Refused while any open
// request still references it; deactivate instead.
func DeleteService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var openRequests int64
	if err := config.DB.Model(&models.ServiceRequest{}).
		Where("service_id = ? AND status IN ?", serviceUUID,
			[]string{models.StatusPending, models.StatusApproved, models.StatusInProgress}).
		Count(&openRequests).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if openRequests > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Service has open requests")
		return
	}

	result := config.DB.Where("id = ?", serviceUUID).Delete(&models.Service{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
