package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/grantbridge/grant-management-api/internal/models"
	"github.com/grantbridge/grant-management-api/internal/repository"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrInvalidState         = errors.New("operation not allowed in the current status")
	ErrInvalidToken         = errors.New("invalid verification token")
	ErrMissingFields        = errors.New("required fields missing")
)

// OnboardingService drives the partner side of the workflow: email
// verification and the three section submissions. Every status change
// goes through workflow.Transition and lands via the repository's
// compare-and-swap.
type OnboardingService struct {
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
}

// NewOnboardingService creates a new OnboardingService.
func NewOnboardingService(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) *OnboardingService {
	return &OnboardingService{
		orgRepo:  orgRepo,
		userRepo: userRepo,
	}
}

// VerifyEmail checks the partner's verification token, marks the user
// verified and advances the organization to Section A.
func (s *OnboardingService) VerifyEmail(userID uint64, token string) (*models.Organization, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.VerificationToken == "" || user.VerificationToken != strings.TrimSpace(token) {
		return nil, ErrInvalidToken
	}

	org, err := s.organizationForOwner(userID)
	if err != nil {
		return nil, err
	}

	next, err := workflow.Transition(org.Status, workflow.EventEmailVerified, workflow.RolePartner)
	if err != nil {
		return nil, ErrInvalidState
	}

	// The swap and the token consumption are one transaction: a failed
	// swap must not burn the one-shot token.
	swapped, err := s.userRepo.MarkVerifiedWithTransition(user, org.ID, org.Status, next)
	if err != nil {
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}
	if !swapped {
		return nil, ErrInvalidState
	}

	org.Status = next
	return org, nil
}

// SectionAInput is the organization profile collected in Section A.
type SectionAInput struct {
	Name    string
	Sector  string
	Country string
}

// SubmitSectionA records the organization profile. From a_pending it
// advances to Section B; from changes_requested it only revises content.
func (s *OnboardingService) SubmitSectionA(userID uint64, input SectionAInput) (*models.Organization, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrMissingFields
	}

	org, err := s.organizationForOwner(userID)
	if err != nil {
		return nil, err
	}

	org.Name = strings.TrimSpace(input.Name)
	org.Sector = strings.TrimSpace(input.Sector)
	org.Country = strings.TrimSpace(input.Country)

	return s.submitSection(org, workflow.StatusSectionAPending, workflow.EventSectionASubmitted)
}

// SectionBInput is the program narrative collected in Section B.
type SectionBInput struct {
	Mission string
	Website string
}

// SubmitSectionB records the program narrative and advances to Section C.
func (s *OnboardingService) SubmitSectionB(userID uint64, input SectionBInput) (*models.Organization, error) {
	if strings.TrimSpace(input.Mission) == "" {
		return nil, ErrMissingFields
	}

	org, err := s.organizationForOwner(userID)
	if err != nil {
		return nil, err
	}

	org.Mission = strings.TrimSpace(input.Mission)
	org.Website = strings.TrimSpace(input.Website)

	return s.submitSection(org, workflow.StatusSectionBPending, workflow.EventSectionBSubmitted)
}

// SectionCInput declares the supporting documents attached in Section C.
type SectionCInput struct {
	DocumentCount int
}

// SubmitSectionC records the supporting documents and hands the
// organization to the Grants Manager queue.
func (s *OnboardingService) SubmitSectionC(userID uint64, input SectionCInput) (*models.Organization, error) {
	if input.DocumentCount < 0 {
		return nil, ErrMissingFields
	}

	org, err := s.organizationForOwner(userID)
	if err != nil {
		return nil, err
	}

	org.DocumentCount = input.DocumentCount

	return s.submitSection(org, workflow.StatusSectionCPending, workflow.EventSectionCSubmitted)
}

// Restart acknowledges a changes_requested decision and re-enters the
// submission pipeline at Section A.
func (s *OnboardingService) Restart(userID uint64) (*models.Organization, error) {
	org, err := s.organizationForOwner(userID)
	if err != nil {
		return nil, err
	}

	next, err := workflow.Transition(org.Status, workflow.EventRestart, workflow.RolePartner)
	if err != nil {
		return nil, ErrInvalidState
	}

	if err := s.advance(org, next); err != nil {
		return nil, err
	}
	return org, nil
}

// GetOrganization returns the partner's organization.
func (s *OnboardingService) GetOrganization(userID uint64) (*models.Organization, error) {
	return s.organizationForOwner(userID)
}

// submitSection saves the section content and, when the organization is
// at the section's own pending status, advances it. A partner sent back
// with changes_requested may revise any section without moving status;
// only Restart does that.
func (s *OnboardingService) submitSection(org *models.Organization, pending workflow.Status, event workflow.Event) (*models.Organization, error) {
	switch org.Status {
	case pending:
		next, err := workflow.Transition(org.Status, event, workflow.RolePartner)
		if err != nil {
			return nil, ErrInvalidState
		}
		if err := s.orgRepo.Update(org); err != nil {
			return nil, fmt.Errorf("failed to save section: %w", err)
		}
		if err := s.advance(org, next); err != nil {
			return nil, err
		}
		return org, nil
	case workflow.StatusChangesRequested:
		if err := s.orgRepo.Update(org); err != nil {
			return nil, fmt.Errorf("failed to save section: %w", err)
		}
		return org, nil
	default:
		return nil, ErrInvalidState
	}
}

// advance performs the guarded status swap and refuses to proceed when
// another request already moved the organization.
func (s *OnboardingService) advance(org *models.Organization, next workflow.Status) error {
	swapped, err := s.orgRepo.UpdateStatusFrom(org.ID, org.Status, next)
	if err != nil {
		return fmt.Errorf("failed to persist transition: %w", err)
	}
	if !swapped {
		return ErrInvalidState
	}
	org.Status = next
	return nil
}

func (s *OnboardingService) organizationForOwner(userID uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByOwnerID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}
