package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/grantbridge/grant-management-api/internal/models"
	"github.com/grantbridge/grant-management-api/internal/notifications"
	"github.com/grantbridge/grant-management-api/internal/repository"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

var (
	ErrNotReviewer    = errors.New("role has no review queue")
	ErrInvalidOutcome = errors.New("unknown decision outcome")
)

// Aging thresholds in days. Buckets are inclusive: an organization
// waiting 10 days counts in both the 3-day and 7-day buckets.
const (
	AgingThresholdDays   = 3
	UrgentThresholdDays  = 7
	OverdueThresholdDays = 14
)

// ReviewService lists review queues and applies reviewer decisions.
type ReviewService struct {
	orgRepo  repository.OrganizationRepository
	notifier notifications.Notifier
}

// NewReviewService creates a new ReviewService.
func NewReviewService(orgRepo repository.OrganizationRepository, notifier notifications.Notifier) *ReviewService {
	return &ReviewService{
		orgRepo:  orgRepo,
		notifier: notifier,
	}
}

// QueueItem is one organization awaiting the reviewer's decision.
type QueueItem struct {
	Organization models.Organization
	DaysWaiting  int
}

// SectorCount is the number of queued organizations in one sector.
type SectorCount struct {
	Sector string
	Count  int
}

// QueueSummary aggregates a queue for triage display.
type QueueSummary struct {
	Total       int
	Aging3Days  int
	Aging7Days  int
	Aging14Days int
	Sectors     []SectorCount
}

// Queue returns the organizations awaiting the given reviewer role,
// oldest first, with aging annotations and a summary.
func (s *ReviewService) Queue(role workflow.Role) ([]QueueItem, QueueSummary, error) {
	status, ok := workflow.ReviewerQueues[role]
	if !ok {
		return nil, QueueSummary{}, ErrNotReviewer
	}

	orgs, err := s.orgRepo.ListByStatus(status)
	if err != nil {
		return nil, QueueSummary{}, fmt.Errorf("failed to list queue: %w", err)
	}

	now := time.Now()
	items := make([]QueueItem, len(orgs))
	summary := QueueSummary{Total: len(orgs)}
	sectorCounts := make(map[string]int)

	for i, org := range orgs {
		days := int(now.Sub(org.CreatedAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		items[i] = QueueItem{Organization: org, DaysWaiting: days}

		if days >= AgingThresholdDays {
			summary.Aging3Days++
		}
		if days >= UrgentThresholdDays {
			summary.Aging7Days++
		}
		if days >= OverdueThresholdDays {
			summary.Aging14Days++
		}
		if org.Sector != "" {
			sectorCounts[org.Sector]++
		}
	}

	summary.Sectors = make([]SectorCount, 0, len(sectorCounts))
	for sector, count := range sectorCounts {
		summary.Sectors = append(summary.Sectors, SectorCount{Sector: sector, Count: count})
	}
	sort.Slice(summary.Sectors, func(i, j int) bool {
		if summary.Sectors[i].Count != summary.Sectors[j].Count {
			return summary.Sectors[i].Count > summary.Sectors[j].Count
		}
		return summary.Sectors[i].Sector < summary.Sectors[j].Sector
	})

	return items, summary, nil
}

// DecisionResult reports a persisted decision. NotificationFailed marks
// a degraded success: the transition is authoritative even when the
// audit event could not be delivered.
type DecisionResult struct {
	OrganizationID     uint64
	PreviousStatus     workflow.Status
	NewStatus          workflow.Status
	DecidedAt          time.Time
	NotificationFailed bool
}

// Decide applies a reviewer's decision to one organization. The status
// check and transition are a single compare-and-swap, so of two
// concurrent decisions exactly one succeeds and the loser gets
// ErrInvalidState. A replayed call after success fails the same way,
// which is what prevents double-processing.
func (s *ReviewService) Decide(ctx context.Context, orgID uint64, role workflow.Role, outcome workflow.Outcome) (*DecisionResult, error) {
	awaited, ok := workflow.ReviewerQueues[role]
	if !ok {
		return nil, ErrNotReviewer
	}

	event, ok := outcome.Event()
	if !ok {
		return nil, ErrInvalidOutcome
	}

	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	if org.Status != awaited {
		return nil, ErrInvalidState
	}

	next, err := workflow.Transition(org.Status, event, role)
	if err != nil {
		return nil, ErrInvalidState
	}

	swapped, err := s.orgRepo.UpdateStatusFrom(org.ID, org.Status, next)
	if err != nil {
		return nil, fmt.Errorf("failed to persist decision: %w", err)
	}
	if !swapped {
		// Lost the race: someone else decided first.
		return nil, ErrInvalidState
	}

	result := &DecisionResult{
		OrganizationID: org.ID,
		PreviousStatus: org.Status,
		NewStatus:      next,
		DecidedAt:      time.Now(),
	}

	auditEvent := notifications.DecisionEvent{
		OrganizationID: org.ID,
		PreviousStatus: org.Status,
		NewStatus:      next,
		ReviewerRole:   role,
		DecidedAt:      result.DecidedAt,
	}
	if err := s.notifier.NotifyDecision(ctx, auditEvent); err != nil {
		// The transition is already persisted; surface the failure
		// without rolling anything back.
		log.Printf("Decision persisted but notification failed for organization %d: %v", org.ID, err)
		result.NotificationFailed = true
	}

	return result, nil
}
