package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"not null"`
	Slug        string    `gorm:"uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	Icon        string
	IsActive    bool `gorm:"default:true"`
	Order       int  `gorm:"default:0"`

	Services []Service `gorm:"foreignKey:CategoryID"`

	gorm.Model
}

func (c *ServiceCategory) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
