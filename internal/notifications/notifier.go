package notifications

import (
	"context"
	"time"

	"github.com/grantbridge/grant-management-api/internal/workflow"
)

// DecisionEvent is the fire-and-forget payload emitted after a
// reviewer decision has been persisted.
type DecisionEvent struct {
	OrganizationID uint64          `json:"organization_id"`
	PreviousStatus workflow.Status `json:"previous_status"`
	NewStatus      workflow.Status `json:"new_status"`
	ReviewerRole   workflow.Role   `json:"reviewer_role"`
	DecidedAt      time.Time       `json:"decided_at"`
}

// Notifier delivers decision events to the notification/audit sink.
// Delivery is best-effort from the caller's point of view: a failure
// here never rolls back the persisted transition.
type Notifier interface {
	NotifyDecision(ctx context.Context, event DecisionEvent) error
}
