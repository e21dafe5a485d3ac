// controllers/request.go
package controllers

import (
	"errors"
	"net/http"
	"seoanalyzer-backend/models"
	"seoanalyzer-backend/services"
	"seoanalyzer-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var requestWorkflow *services.RequestWorkflow

// InitRequestWorkflow wires the workflow engine used by the request handlers
func InitRequestWorkflow(wf *services.RequestWorkflow) {
	requestWorkflow = wf
}

// CreateRequestInput defines the expected JSON structure for creating a request
type CreateRequestInput struct {
	ServiceID    uuid.UUID    `json:"serviceId" binding:"required"`
	ProjectID    *uuid.UUID   `json:"projectId"`
	Message      string       `json:"message" binding:"required"`
	CustomFields models.JSONB `json:"customFields"`
}

// UpdateRequestInput carries both the owner fields and the admin fields; the
// handler picks one set based on the actor's role.
type UpdateRequestInput struct {
	Message      *string      `json:"message"`
	CustomFields models.JSONB `json:"customFields"`
	Status       *string      `json:"status"`
	AdminNotes   *string      `json:"adminNotes"`
}

// CreateRequest submits a new service request for the authenticated user
func CreateRequest(c *gin.Context) {
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

	var input CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	request, err := requestWorkflow.CreateRequest(userUUID, services.CreateRequestInput{
		ServiceID:    input.ServiceID,
		ProjectID:    input.ProjectID,
		Message:      input.Message,
		CustomFields: input.CustomFields,
	})
	if err != nil {
		respondWithWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetRequests lists requests visible to the actor, optionally filtered by
// status; admins see everything
func GetRequests(c *gin.Context) {
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
	role, _ := c.Get("role")

	order := services.OrderNewestFirst
	if c.Query("order") == "oldest" {
		order = services.OrderOldestFirst
	}

	requests, err := requestWorkflow.ListRequests(userUUID, role == models.RoleAdmin, c.Query("status"), order)
	if err != nil {
		respondWithWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// GetRequest retrieves a single request. A request the actor may not see is
// reported as not found.
func GetRequest(c *gin.Context) {
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
	role, _ := c.Get("role")

	requestUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid request ID format")
		return
	}

	request, err := requestWorkflow.GetRequest(requestUUID, userUUID, role == models.RoleAdmin)
	if err != nil {
		respondWithWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// UpdateRequest dispatches once on the actor's role: admins change status and
// notes, owners edit message and custom fields.
func UpdateRequest(c *gin.Context) {
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
	role, _ := c.Get("role")

	requestUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid request ID format")
		return
	}

	var input UpdateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var request *models.ServiceRequest
	if role == models.RoleAdmin {
		request, err = requestWorkflow.UpdateAsAdmin(requestUUID, models.RoleAdmin, input.Status, input.AdminNotes)
	} else {
		request, err = requestWorkflow.UpdateAsOwner(requestUUID, userUUID, input.Message, input.CustomFields)
	}
	if err != nil {
		respondWithWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// DeleteRequest removes a request (admin only)
func DeleteRequest(c *gin.Context) {
	requestUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid request ID format")
		return
	}

	if err := requestWorkflow.DeleteRequest(requestUUID, models.RoleAdmin); err != nil {
		respondWithWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request deleted successfully"})
}

// respondWithWorkflowError maps the workflow error taxonomy onto HTTP status
// codes. Unknown errors surface as a generic 500.
func respondWithWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		utils.RespondWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
