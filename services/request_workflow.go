// services/request_workflow.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"seoanalyzer-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier is told about request lifecycle events after they commit. Delivery
// must not block the caller; implementations dispatch in the background.
type Notifier interface {
	RequestCreated(req *models.ServiceRequest)
	StatusChanged(req *models.ServiceRequest, oldStatus, newStatus string)
}

// RequestWorkflow decides whether a mutation to a service request is legal
// and applies it through the ledger. Owner and admin mutations are separate
// operations; the HTTP layer picks one based on the actor's role.
type RequestWorkflow struct {
	db       *gorm.DB
	ledger   *RequestLedger
	notifier Notifier
}

func NewRequestWorkflow(db *gorm.DB, notifier Notifier) *RequestWorkflow {
	return &RequestWorkflow{
		db:       db,
		ledger:   NewRequestLedger(db),
		notifier: notifier,
	}
}

// Ledger exposes the underlying request ledger
func (w *RequestWorkflow) Ledger() *RequestLedger {
	return w.ledger
}

type CreateRequestInput struct {
	ServiceID    uuid.UUID
	ProjectID    *uuid.UUID
	Message      string
	CustomFields models.JSONB
}

// CreateRequest validates the referenced service and project and creates a
// pending request owned by userID.
func (w *RequestWorkflow) CreateRequest(userID uuid.UUID, input CreateRequestInput) (*models.ServiceRequest, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}

	var service models.Service
	if err := w.db.Where("id = ?", input.ServiceID).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: service %s", ErrNotFound, input.ServiceID)
		}
		return nil, err
	}
	if !service.IsActive {
		return nil, fmt.Errorf("%w: service %q is not available", ErrValidation, service.Slug)
	}

	if input.ProjectID != nil {
		var project models.Project
		if err := w.db.Where("id = ?", *input.ProjectID).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: project %s", ErrNotFound, *input.ProjectID)
			}
			return nil, err
		}
		// A foreign project is indistinguishable from a missing one
		if project.OwnerID != userID {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, *input.ProjectID)
		}
	}

	req := &models.ServiceRequest{
		ServiceID:    input.ServiceID,
		UserID:       userID,
		ProjectID:    input.ProjectID,
		Status:       models.StatusPending,
		Message:      input.Message,
		CustomFields: input.CustomFields,
	}
	if err := w.ledger.Insert(req); err != nil {
		return nil, err
	}

	created, err := w.ledger.Find(req.ID)
	if err != nil {
		return nil, err
	}
	if w.notifier != nil {
		w.notifier.RequestCreated(created)
	}
	return created, nil
}

// UpdateAsOwner lets the owning user edit message and custom fields while the
// request is still pending.
func (w *RequestWorkflow) UpdateAsOwner(requestID, actorUserID uuid.UUID, message *string, customFields models.JSONB) (*models.ServiceRequest, error) {
	req, err := w.ledger.Find(requestID)
	if err != nil {
		return nil, err
	}

	if req.UserID != actorUserID {
		return nil, fmt.Errorf("%w: not the owner of request %s", ErrPermissionDenied, requestID)
	}
	if req.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: status is %s", ErrInvalidState, req.Status)
	}

	changes := map[string]interface{}{}
	if message != nil {
		if strings.TrimSpace(*message) == "" {
			return nil, fmt.Errorf("%w: message cannot be empty", ErrValidation)
		}
		changes["message"] = *message
	}
	if customFields != nil {
		changes["custom_fields"] = customFields
	}
	if len(changes) == 0 {
		return req, nil
	}

	return w.ledger.CompareAndUpdate(req.ID, req.Version, changes)
}

// UpdateAsAdmin lets an admin move a request through the lifecycle and attach
// notes. Notes are writable at any status; status changes must follow the
// transition table.
func (w *RequestWorkflow) UpdateAsAdmin(requestID uuid.UUID, actorRole string, newStatus, adminNotes *string) (*models.ServiceRequest, error) {
	if actorRole != models.RoleAdmin {
		return nil, fmt.Errorf("%w: admin role required", ErrPermissionDenied)
	}

	req, err := w.ledger.Find(requestID)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	oldStatus := req.Status

	if newStatus != nil {
		if !models.ValidStatus(*newStatus) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *newStatus)
		}
		if !models.CanTransition(oldStatus, *newStatus) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, oldStatus, *newStatus)
		}
		changes["status"] = *newStatus
	}
	if adminNotes != nil {
		changes["admin_notes"] = *adminNotes
	}
	if len(changes) == 0 {
		return req, nil
	}

	updated, err := w.ledger.CompareAndUpdate(req.ID, req.Version, changes)
	if err != nil {
		return nil, err
	}

	if newStatus != nil && w.notifier != nil {
		w.notifier.StatusChanged(updated, oldStatus, *newStatus)
	}
	return updated, nil
}

// GetRequest returns a request visible to the actor. Rows owned by someone
// else look exactly like missing rows to non-admins.
func (w *RequestWorkflow) GetRequest(requestID, actorUserID uuid.UUID, isAdmin bool) (*models.ServiceRequest, error) {
	req, err := w.ledger.Find(requestID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && req.UserID != actorUserID {
		return nil, fmt.Errorf("%w: request %s", ErrNotFound, requestID)
	}
	return req, nil
}

// ListRequests returns the requests the actor may see, newest first unless
// OrderOldestFirst is asked for.
func (w *RequestWorkflow) ListRequests(actorUserID uuid.UUID, isAdmin bool, statusFilter, order string) ([]models.ServiceRequest, error) {
	if statusFilter != "" && !models.ValidStatus(statusFilter) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, statusFilter)
	}

	filter := RequestFilter{Status: statusFilter}
	if !isAdmin {
		filter.UserID = &actorUserID
	}
	return w.ledger.Query(filter, order)
}

// DeleteRequest removes a request outright. Admin only; used for data
// hygiene, not part of the normal lifecycle.
func (w *RequestWorkflow) DeleteRequest(requestID uuid.UUID, actorRole string) error {
	if actorRole != models.RoleAdmin {
		return fmt.Errorf("%w: admin role required", ErrPermissionDenied)
	}

	result := w.db.Where("id = ?", requestID).Delete(&models.ServiceRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: request %s", ErrNotFound, requestID)
	}
	return nil
}
