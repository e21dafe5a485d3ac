package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Price types a service can be billed under
const (
	PriceTypeFixed   = "fixed"
	PriceTypeHourly  = "hourly"
	PriceTypeMonthly = "monthly"
	PriceTypePerUnit = "per_unit"
)

type Service struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CategoryID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name                string `gorm:"not null"`
	Slug                string `gorm:"uniqueIndex;not null"`
	Description         string `gorm:"type:text"`
	DetailedDescription string `gorm:"type:text"`

	Benefits  StringList `gorm:"type:jsonb"`
	Price     *float64   `gorm:"type:decimal(10,2)"` // null means "contact us"
	PriceType string     `gorm:"type:varchar(20);default:'fixed'"`
	Duration  string     // duration estimate, e.g. "2-4 weeks"

	IsActive   bool `gorm:"default:true"`
	IsFeatured bool `gorm:"default:false"`
	Order      int  `gorm:"default:0"`

	// Field definitions the request form is built from
	CustomFields JSONB `gorm:"type:jsonb"`

	Category ServiceCategory  `gorm:"foreignKey:CategoryID"`
	Requests []ServiceRequest `gorm:"foreignKey:ServiceID"`

	gorm.Model
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

func ValidPriceType(t string) bool {
	switch t {
	case PriceTypeFixed, PriceTypeHourly, PriceTypeMonthly, PriceTypePerUnit:
		return true
	}
	return false
}
