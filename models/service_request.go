package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Request lifecycle statuses
const (
	StatusPending    = "pending"
	StatusApproved   = "approved"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Legal admin-triggered transitions. Completed and cancelled are terminal.
var requestTransitions = map[string][]string{
	StatusPending:    {StatusApproved, StatusCancelled},
	StatusApproved:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

type ServiceRequest struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	ServiceID uuid.UUID  `gorm:"type:uuid;index;not null"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index"`

	Status       string `gorm:"type:varchar(20);not null;default:'pending'"`
	Message      string `gorm:"type:text"`
	CustomFields JSONB  `gorm:"type:jsonb"`
	AdminNotes   string `gorm:"type:text"`

	// Bumped on every write; stale writers lose
	Version int `gorm:"not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Service Service  `gorm:"foreignKey:ServiceID"`
	User    User     `gorm:"foreignKey:UserID"`
	Project *Project `gorm:"foreignKey:ProjectID"`
}

func (r *ServiceRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	if r.Version == 0 {
		r.Version = 1
	}
	return
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an admin may move a request from one status
// to another
func CanTransition(from, to string) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}
