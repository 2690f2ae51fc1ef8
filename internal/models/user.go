package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/grantbridge/grant-management-api/internal/workflow"
)

type User struct {
	ID                uint64         `gorm:"primarykey" json:"id"`
	Email             string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash      string         `gorm:"type:varchar(255);not null" json:"-"`
	FirstName         string         `gorm:"type:varchar(100)" json:"first_name"`
	LastName          string         `gorm:"type:varchar(100)" json:"last_name"`
	Role              workflow.Role  `gorm:"type:varchar(40);not null;default:'partner_user'" json:"role"`
	EmailVerified     bool           `gorm:"not null;default:false" json:"email_verified"`
	VerificationToken string         `gorm:"type:varchar(50)" json:"-"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization *Organization `gorm:"foreignKey:OwnerID" json:"organization,omitempty"`
}
