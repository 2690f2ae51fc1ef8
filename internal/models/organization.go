package models

import (
	"time"

	"github.com/grantbridge/grant-management-api/internal/workflow"
)

// Organization is the unit under review. Status is the single source
// of truth for workflow position; CreatedAt anchors queue aging and is
// never mutated after creation. Organizations are never deleted.
type Organization struct {
	ID            uint64          `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Status        workflow.Status `gorm:"type:varchar(30);not null;default:'email_pending'" json:"status"`
	OwnerID       uint64          `gorm:"not null;uniqueIndex" json:"owner_id"`
	Sector        string          `gorm:"type:varchar(100)" json:"sector"`
	Country       string          `gorm:"type:varchar(100)" json:"country"`
	Mission       string          `gorm:"type:text" json:"mission"`
	Website       string          `gorm:"type:varchar(255)" json:"website"`
	DocumentCount int             `gorm:"not null;default:0" json:"document_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}
