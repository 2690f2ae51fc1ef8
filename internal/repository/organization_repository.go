package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/grantbridge/grant-management-api/internal/models"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByOwnerID finds the organization owned by the given partner user
func (r *GormOrganizationRepository) FindByOwnerID(ownerID uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("owner_id = ?", ownerID).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Update saves content changes on an organization. Status and the
// aging anchor are omitted from the write, so a stale struct can never
// overwrite a concurrent transition; status moves only through
// UpdateStatusFrom.
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return r.db.Omit("status", "created_at").Save(org).Error
}

// ListByStatus lists organizations awaiting the given status, oldest
// first so the longest-waiting items lead the queue.
func (r *GormOrganizationRepository) ListByStatus(status workflow.Status) ([]models.Organization, error) {
	var orgs []models.Organization
	if err := r.db.Preload("Owner").
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// UpdateStatusFrom performs the compare-and-swap that makes transitions
// strictly sequential per organization: the UPDATE is guarded on the
// expected source status, so of two concurrent decisions exactly one
// sees a row affected.
func (r *GormOrganizationRepository) UpdateStatusFrom(id uint64, from, to workflow.Status) (bool, error) {
	res := r.db.Model(&models.Organization{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
