package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/organization-service/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a directory lookup matches no record.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateKey is returned when an insert or update violates a unique index.
	ErrDuplicateKey = errors.New("repository: duplicate key")
	// ErrNamespaceExists is returned when a namespace table already exists.
	ErrNamespaceExists = errors.New("repository: namespace already exists")
)

// OrganizationRepository is the tenant directory: organization name to
// namespace and administrator. Names and collection names are unique.
type OrganizationRepository interface {
	// Exists reports whether an organization with this exact name exists
	Exists(ctx context.Context, name string) (bool, error)

	// FindByName finds an organization by name
	FindByName(ctx context.Context, name string) (*models.Organization, error)

	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id uint64) (*models.Organization, error)

	// Create inserts a new organization and fills in its ID
	Create(ctx context.Context, org *models.Organization) error

	// Update applies the non-nil fields of patch
	Update(ctx context.Context, id uint64, patch OrganizationPatch) error

	// Delete removes an organization record
	Delete(ctx context.Context, id uint64) error
}

// OrganizationPatch holds the organization fields an update may change.
type OrganizationPatch struct {
	Name           *string
	CollectionName *string
	AdminID        *uint64
}

func (p OrganizationPatch) columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if p.Name != nil {
		cols["organization_name"] = *p.Name
	}
	if p.CollectionName != nil {
		cols["collection_name"] = *p.CollectionName
	}
	if p.AdminID != nil {
		cols["admin_id"] = *p.AdminID
	}
	return cols
}

// AdminRepository is the admin directory: email to credential and owning
// organization. Emails are unique.
type AdminRepository interface {
	// Exists reports whether an admin with this email exists
	Exists(ctx context.Context, email string) (bool, error)

	// FindByEmail finds an admin by email
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)

	// FindByID finds an admin by ID
	FindByID(ctx context.Context, id uint64) (*models.Admin, error)

	// Create inserts a new admin and fills in its ID
	Create(ctx context.Context, admin *models.Admin) error

	// Update applies the non-nil fields of patch
	Update(ctx context.Context, id uint64, patch AdminPatch) error

	// Delete removes an admin record
	Delete(ctx context.Context, id uint64) error
}

// AdminPatch holds the admin fields an update may change.
type AdminPatch struct {
	Email          *string
	HashedPassword *string
	IsActive       *bool
}

func (p AdminPatch) columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.HashedPassword != nil {
		cols["hashed_password"] = *p.HashedPassword
	}
	if p.IsActive != nil {
		cols["is_active"] = *p.IsActive
	}
	return cols
}

// NamespaceRepository provisions the per-organization document namespaces.
// Every method takes the organization name; the namespace identifier is
// always NamespaceName(orgName).
type NamespaceRepository interface {
	// Create provisions an empty namespace holding only the initialization marker
	Create(ctx context.Context, orgName string) (string, error)

	// Rename copies every document to the namespace of newName, then drops the old one
	Rename(ctx context.Context, oldName, newName string) (string, error)

	// Drop removes the namespace; dropping a missing namespace is not an error
	Drop(ctx context.Context, orgName string) error

	// Exists reports whether the namespace has been provisioned
	Exists(ctx context.Context, orgName string) (bool, error)

	// Documents lists every document stored in the namespace
	Documents(ctx context.Context, orgName string) ([]models.TenantDocument, error)
}

// translate maps gorm errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}
