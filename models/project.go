package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name        string `gorm:"not null"`
	Domain      string `gorm:"not null"`
	Description string
	IsActive    bool `gorm:"default:true"`

	Requests []ServiceRequest `gorm:"foreignKey:ProjectID"`

	gorm.Model
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
