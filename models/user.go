package models

import (
	"seoanalyzer-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Email    string    `gorm:"uniqueIndex;not null"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null"`
	Phone    string

	Role string `gorm:"type:varchar(20);not null;default:'user'"` // 'user' or 'admin'

	LastLogin *time.Time
	IsActive  bool `gorm:"default:true"`

	Projects []Project        `gorm:"foreignKey:OwnerID"`
	Requests []ServiceRequest `gorm:"foreignKey:UserID"`

	gorm.Model
}

// Initialize UUID and hash password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
