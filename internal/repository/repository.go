package repository

import (
	"github.com/grantbridge/grant-management-api/internal/models"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// FindByOwnerID finds the organization owned by the given partner user
	FindByOwnerID(ownerID uint64) (*models.Organization, error)

	// Update saves content changes on an organization. It never changes
	// status; transitions go through UpdateStatusFrom.
	Update(org *models.Organization) error

	// ListByStatus lists organizations in the given status with owners
	// preloaded, oldest first (created_at ascending).
	ListByStatus(status workflow.Status) ([]models.Organization, error)

	// UpdateStatusFrom atomically moves an organization from one status
	// to another. It reports false when the organization was no longer
	// in the expected source status, which is how concurrent decisions
	// on the same organization lose.
	UpdateStatusFrom(id uint64, from, to workflow.Status) (bool, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithOrganization creates a partner user and their
	// organization within a single transaction.
	CreateWithOrganization(user *models.User, org *models.Organization) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email address
	FindByEmail(email string) (*models.User, error)

	// MarkVerifiedWithTransition marks the user verified, clears the
	// one-shot verification token and moves their organization from one
	// status to another, all in a single transaction. It reports false
	// and leaves every row untouched when the organization was no
	// longer in the expected source status, so a failed swap never
	// consumes the token.
	MarkVerifiedWithTransition(user *models.User, orgID uint64, from, to workflow.Status) (bool, error)
}
