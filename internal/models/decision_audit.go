package models

import (
	"time"

	"github.com/grantbridge/grant-management-api/internal/workflow"
)

// DecisionAudit is one audit record per reviewer decision, written
// after the status transition has been persisted.
type DecisionAudit struct {
	ID             string          `gorm:"type:varchar(36);primarykey" json:"id"`
	OrganizationID uint64          `gorm:"not null;index" json:"organization_id"`
	PreviousStatus workflow.Status `gorm:"type:varchar(30);not null" json:"previous_status"`
	NewStatus      workflow.Status `gorm:"type:varchar(30);not null" json:"new_status"`
	ReviewerRole   workflow.Role   `gorm:"type:varchar(40);not null" json:"reviewer_role"`
	DecidedAt      time.Time       `gorm:"not null" json:"decided_at"`
}
