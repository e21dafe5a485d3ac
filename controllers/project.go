// controllers/project.go
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

// CreateProjectInput defines the expected JSON structure for creating a project
type CreateProjectInput struct {
	Name        string `json:"name" binding:"required"`
	Domain      string `json:"domain" binding:"required"`
	Description string `json:"description"`
}

// UpdateProjectInput defines the expected JSON structure for updating a project
type UpdateProjectInput struct {
	Name        *string `json:"name"`
	Domain      *string `json:"domain"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// CreateProject creates a new project owned by the authenticated user
func CreateProject(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}
	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	var input CreateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	project := models.Project{
		OwnerID:     userUUID,
		Name:        input.Name,
		Domain:      input.Domain,
		Description: input.Description,
		IsActive:    true,
	}

	if err := config.DB.Create(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProjects retrieves the authenticated user's projects
func GetProjects(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}
	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	var projects []models.Project
	if err := config.DB.Where("owner_id = ?", userUUID).Find(&projects).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve projects")
		return
	}

	c.JSON(http.StatusOK, projects)
}

// GetProject retrieves a specific project owned by the user
func GetProject(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}
	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	projectUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid project ID format")
		return
	}

	var project models.Project
	if err := config.DB.Where("owner_id = ? AND id = ?", userUUID, projectUUID).
		First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, project)
}

// UpdateProject updates an existing project owned by the user
func UpdateProject(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}
	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	projectUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid project ID format")
		return
	}

	var input UpdateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var project models.Project
	if err := config.DB.Where("owner_id = ? AND id = ?", userUUID, projectUUID).
		First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Domain != nil {
		project.Domain = *input.Domain
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.IsActive != nil {
		project.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&project).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject soft deletes a project owned by the user
func DeleteProject(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}
	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	projectUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid project ID format")
		return
	}

	result := config.DB.Where("owner_id = ? AND id = ?", userUUID, projectUUID).
		Delete(&models.Project{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete project")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
