package repository

import (
	"context"

	"github.com/yukikurage/organization-service/internal/models"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Exists reports whether an organization with this exact name exists
func (r *GormOrganizationRepository) Exists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Organization{}).
		Where("organization_name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByName finds an organization by name
func (r *GormOrganizationRepository) FindByName(ctx context.Context, name string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("organization_name = ?", name).First(&org).Error; err != nil {
		return nil, translate(err)
	}
	return &org, nil
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, translate(err)
	}
	return &org, nil
}

// Create inserts a new organization. A name or collection name already
// taken, including by a concurrent insert, yields ErrDuplicateKey.
func (r *GormOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	return translate(r.db.WithContext(ctx).Create(org).Error)
}

// Update applies the non-nil fields of patch and bumps updated_at
func (r *GormOrganizationRepository) Update(ctx context.Context, id uint64, patch OrganizationPatch) error {
	cols := patch.columns()
	if len(cols) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(&models.Organization{}).
		Where("id = ?", id).
		Updates(cols).Error)
}

// Delete removes an organization record
func (r *GormOrganizationRepository) Delete(ctx context.Context, id uint64) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Organization{}, id).Error)
}
