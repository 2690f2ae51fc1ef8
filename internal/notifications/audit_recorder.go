package notifications

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grantbridge/grant-management-api/internal/models"
)

// AuditRecorder is a Notifier that persists one decision_audits row per
// event.
type AuditRecorder struct {
	db *gorm.DB
}

// NewAuditRecorder creates a new AuditRecorder
func NewAuditRecorder(db *gorm.DB) *AuditRecorder {
	return &AuditRecorder{db: db}
}

// NotifyDecision records the decision event as an audit row.
func (r *AuditRecorder) NotifyDecision(ctx context.Context, event DecisionEvent) error {
	audit := &models.DecisionAudit{
		ID:             uuid.New().String(),
		OrganizationID: event.OrganizationID,
		PreviousStatus: event.PreviousStatus,
		NewStatus:      event.NewStatus,
		ReviewerRole:   event.ReviewerRole,
		DecidedAt:      event.DecidedAt,
	}

	if err := r.db.WithContext(ctx).Create(audit).Error; err != nil {
		log.Printf("Failed to record decision audit for organization %d: %v", event.OrganizationID, err)
		return fmt.Errorf("failed to record decision audit: %w", err)
	}

	return nil
}
