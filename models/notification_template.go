package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationTemplate holds the message sent to a request owner when the
// request enters the given status. [ServiceName] and [RequestID] placeholders
// are replaced at send time.
type NotificationTemplate struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Status   string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Message  string    `gorm:"type:text;not null"`
	IsActive bool      `gorm:"default:true"`
	gorm.Model
}

func (t *NotificationTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
