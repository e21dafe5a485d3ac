// services/ledger.go
package services

import (
	"errors"
	"fmt"
	"time"

	"seoanalyzer-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Query ordering by creation time; ties always break by id ascending so
// pagination is deterministic
const (
	OrderNewestFirst = "newest"
	OrderOldestFirst = "oldest"
)

type RequestFilter struct {
	UserID    *uuid.UUID
	ServiceID *uuid.UUID
	Status    string
}

// RequestLedger owns durable storage and atomic mutation of service request
// rows. Every write goes through Insert or CompareAndUpdate; there is no
// unconditional update path.
type RequestLedger struct {
	db *gorm.DB
}

func NewRequestLedger(db *gorm.DB) *RequestLedger {
	return &RequestLedger{db: db}
}

func (l *RequestLedger) Insert(req *models.ServiceRequest) error {
	return l.db.Create(req).Error
}

func (l *RequestLedger) Find(id uuid.UUID) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	err := l.db.Preload("Service").Preload("Project").Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &req, nil
}

func (l *RequestLedger) Query(filter RequestFilter, order string) ([]models.ServiceRequest, error) {
	query := l.db.Model(&models.ServiceRequest{}).Preload("Service")

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ServiceID != nil {
		query = query.Where("service_id = ?", *filter.ServiceID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if order == OrderOldestFirst {
		query = query.Order("created_at ASC, id ASC")
	} else {
		query = query.Order("created_at DESC, id ASC")
	}

	var requests []models.ServiceRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// CompareAndUpdate applies changes only if the row still carries the version
// the caller read. A stale version yields ErrConflict; the caller retries
// with fresh data or gives up.
func (l *RequestLedger) CompareAndUpdate(id uuid.UUID, expectedVersion int, changes map[string]interface{}) (*models.ServiceRequest, error) {
	changes["version"] = expectedVersion + 1
	changes["updated_at"] = time.Now()

	result := l.db.Model(&models.ServiceRequest{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(changes)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		// Either the row is gone or someone got there first
		var count int64
		if err := l.db.Model(&models.ServiceRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, fmt.Errorf("%w: request %s", ErrNotFound, id)
		}
		return nil, ErrConflict
	}

	return l.Find(id)
}
