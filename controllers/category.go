// controllers/category.go
package controllers

import (
	"errors"
	"net/http"
	"seoanalyzer-backend/config"
	"seoanalyzer-backend/models"
	"seoanalyzer-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateCategoryInput defines the expected JSON structure for creating a category
type CreateCategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
}

// UpdateCategoryInput defines the expected JSON structure for updating a category
type UpdateCategoryInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	IsActive    *bool   `json:"isActive"`
	Order       *int    `json:"order"`
}

// CategorySummary is the list shape with a service count
type CategorySummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	IsActive      bool      `json:"isActive"`
	Order         int       `json:"order"`
	ServicesCount int64     `json:"servicesCount"`
}

// CreateCategory creates a new service category (admin only)
func CreateCategory(c *gin.Context) {
	var input CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidateSlug(input.Slug) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid slug format")
		return
	}

	// Check slug uniqueness
	var existing models.ServiceCategory
	if err := config.DB.Where("slug = ?", input.Slug).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Category with this slug already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	category := models.ServiceCategory{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		Icon:        input.Icon,
		Order:       input.Order,
		IsActive:    true,
	}

	if err := config.DB.Create(&category).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// GetCategories retrieves all categories with service counts. Inactive
// categories are only included for admins.
func GetCategories(c *gin.Context) {
	role, _ := c.Get("role")

	query := config.DB.Model(&models.ServiceCategory{})
	if role != models.RoleAdmin {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.ServiceCategory
	if err := query.Order("\"order\" ASC, name ASC").Find(&categories).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	summaries := make([]CategorySummary, 0, len(categories))
	for _, cat := range categories {
		var count int64
		config.DB.Model(&models.Service{}).
			Where("category_id = ? AND is_active = ?", cat.ID, true).Count(&count)
		summaries = append(summaries, CategorySummary{
			ID:            cat.ID,
			Name:          cat.Name,
			Slug:          cat.Slug,
			Description:   cat.Description,
			Icon:          cat.Icon,
			IsActive:      cat.IsActive,
			Order:         cat.Order,
			ServicesCount: count,
		})
	}

	c.JSON(http.StatusOK, summaries)
}

// GetCategory retrieves a category by ID including its services
func GetCategory(c *gin.Context) {
	categoryUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	var category models.ServiceCategory
	if err := config.DB.Preload("Services").Where("id = ?", categoryUUID).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	respondWithCategory(c, category)
}

// GetCategoryBySlug retrieves a category by slug including its services
func GetCategoryBySlug(c *gin.Context) {
	var category models.ServiceCategory
	if err := config.DB.Preload("Services").Where("slug = ?", c.Param("slug")).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	respondWithCategory(c, category)
}

// Non-admins never see inactive services inside a category
func respondWithCategory(c *gin.Context, category models.ServiceCategory) {
	role, _ := c.Get("role")
	if role != models.RoleAdmin {
		active := make([]models.Service, 0, len(category.Services))
		for _, svc := range category.Services {
			if svc.IsActive {
				active = append(active, svc)
			}
		}
		category.Services = active
	}
	c.JSON(http.StatusOK, category)
}

// UpdateCategory updates an existing category (admin only)
func UpdateCategory(c *gin.Context) {
	categoryUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	var input UpdateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var category models.ServiceCategory
	if err := config.DB.Where("id = ?", categoryUUID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Slug != nil && *input.Slug != category.Slug {
		if !utils.ValidateSlug(*input.Slug) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid slug format")
			return
		}
		var existing models.ServiceCategory
		if err := config.DB.Where("slug = ?", *input.Slug).First(&existing).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Category with this slug already exists")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		category.Slug = *input.Slug
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Icon != nil {
		category.Icon = *input.Icon
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if input.Order != nil {
		category.Order = *input.Order
	}

	if err := config.DB.Save(&category).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory deletes a category (admin only). Refused while the category
// still owns services.
func DeleteCategory(c *gin.Context) {
	categoryUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	var serviceCount int64
	if err := config.DB.Model(&models.Service{}).
		Where("category_id = ?", categoryUUID).Count(&serviceCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if serviceCount > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Category still has services")
		return
	}

	result := config.DB.Where("id = ?", categoryUUID).Delete(&models.ServiceCategory{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
