package repository

import (
	"context"

	"github.com/yukikurage/organization-service/internal/models"
	"gorm.io/gorm"
)

// GormAdminRepository is a GORM implementation of AdminRepository
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &GormAdminRepository{db: db}
}

// Exists reports whether an admin with this email exists
func (r *GormAdminRepository) Exists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByEmail finds an admin by email
func (r *GormAdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

// FindByID finds an admin by ID
func (r *GormAdminRepository) FindByID(ctx context.Context, id uint64) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

// Create inserts a new admin; a taken email yields ErrDuplicateKey
func (r *GormAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return translate(r.db.WithContext(ctx).Create(admin).Error)
}

// Update applies the non-nil fields of patch and bumps updated_at
func (r *GormAdminRepository) Update(ctx context.Context, id uint64, patch AdminPatch) error {
	cols := patch.columns()
	if len(cols) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", id).
		Updates(cols).Error)
}

// Delete removes an admin record
func (r *GormAdminRepository) Delete(ctx context.Context, id uint64) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Admin{}, id).Error)
}
