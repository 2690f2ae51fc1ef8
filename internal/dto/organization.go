package dto

import (
	"time"

	"github.com/grantbridge/grant-management-api/internal/models"
	"github.com/grantbridge/grant-management-api/internal/services"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID            uint64          `json:"id"`
	Name          string          `json:"name"`
	Status        workflow.Status `json:"status"`
	Sector        string          `json:"sector,omitempty"`
	Country       string          `json:"country,omitempty"`
	Mission       string          `json:"mission,omitempty"`
	Website       string          `json:"website,omitempty"`
	DocumentCount int             `json:"document_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToOrganizationDTO converts an organization model to DTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:            org.ID,
		Name:          org.Name,
		Status:        org.Status,
		Sector:        org.Sector,
		Country:       org.Country,
		Mission:       org.Mission,
		Website:       org.Website,
		DocumentCount: org.DocumentCount,
		CreatedAt:     org.CreatedAt,
		UpdatedAt:     org.UpdatedAt,
	}
}

// QueueItemDTO is one queue entry annotated for triage
type QueueItemDTO struct {
	OrganizationDTO
	OwnerEmail     string `json:"owner_email"`
	OwnerFirstName string `json:"owner_first_name"`
	OwnerLastName  string `json:"owner_last_name"`
	DaysWaiting    int    `json:"days_waiting"`
}

// SectorCountDTO is the queued-organization count for one sector
type SectorCountDTO struct {
	Sector string `json:"sector"`
	Count  int    `json:"count"`
}

// QueueSummaryDTO aggregates the queue; aging buckets are inclusive
type QueueSummaryDTO struct {
	Total       int              `json:"total"`
	Aging3Days  int              `json:"aging_3_days"`
	Aging7Days  int              `json:"aging_7_days"`
	Aging14Days int              `json:"aging_14_days"`
	Sectors     []SectorCountDTO `json:"sectors"`
}

// QueueDTO is the full queue response
type QueueDTO struct {
	Items   []QueueItemDTO  `json:"items"`
	Summary QueueSummaryDTO `json:"summary"`
}

// ToQueueDTO converts queue items and summary to the response shape
func ToQueueDTO(items []services.QueueItem, summary services.QueueSummary) QueueDTO {
	itemDTOs := make([]QueueItemDTO, len(items))
	for i, item := range items {
		itemDTOs[i] = QueueItemDTO{
			OrganizationDTO: ToOrganizationDTO(item.Organization),
			OwnerEmail:      item.Organization.Owner.Email,
			OwnerFirstName:  item.Organization.Owner.FirstName,
			OwnerLastName:   item.Organization.Owner.LastName,
			DaysWaiting:     item.DaysWaiting,
		}
	}

	sectorDTOs := make([]SectorCountDTO, len(summary.Sectors))
	for i, sc := range summary.Sectors {
		sectorDTOs[i] = SectorCountDTO{Sector: sc.Sector, Count: sc.Count}
	}

	return QueueDTO{
		Items: itemDTOs,
		Summary: QueueSummaryDTO{
			Total:       summary.Total,
			Aging3Days:  summary.Aging3Days,
			Aging7Days:  summary.Aging7Days,
			Aging14Days: summary.Aging14Days,
			Sectors:     sectorDTOs,
		},
	}
}

// DecisionResultDTO reports a persisted decision
type DecisionResultDTO struct {
	OrganizationID uint64          `json:"organization_id"`
	PreviousStatus workflow.Status `json:"previous_status"`
	NewStatus      workflow.Status `json:"new_status"`
	DecidedAt      time.Time       `json:"decided_at"`
	Warning        string          `json:"warning,omitempty"`
}

// ToDecisionResultDTO converts a decision result, surfacing a
// notification failure as a warning rather than an error
func ToDecisionResultDTO(result services.DecisionResult) DecisionResultDTO {
	dto := DecisionResultDTO{
		OrganizationID: result.OrganizationID,
		PreviousStatus: result.PreviousStatus,
		NewStatus:      result.NewStatus,
		DecidedAt:      result.DecidedAt,
	}
	if result.NotificationFailed {
		dto.Warning = "decision recorded but notification delivery failed"
	}
	return dto
}
