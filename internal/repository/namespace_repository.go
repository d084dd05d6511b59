package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/organization-service/internal/database"
	"github.com/yukikurage/organization-service/internal/models"
	"gorm.io/gorm"
)

// NamespacePrefix keeps namespace tables apart from the directory tables.
const NamespacePrefix = "org_"

const copyBatchSize = 500

// NamespaceName derives the namespace identifier of an organization:
// lowercase, spaces replaced by underscores, prefixed.
func NamespaceName(orgName string) string {
	return NamespacePrefix + strings.ReplaceAll(strings.ToLower(orgName), " ", "_")
}

// GormNamespaceRepository stores each namespace as its own table of
// TenantDocument rows.
type GormNamespaceRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewNamespaceRepository creates a new NamespaceRepository
func NewNamespaceRepository(db *gorm.DB) NamespaceRepository {
	return &GormNamespaceRepository{db: db, now: time.Now}
}

// Create provisions the namespace of orgName and writes the initialization
// marker. An existing table is never reused, so two organizations whose
// names derive the same identifier cannot share documents.
func (r *GormNamespaceRepository) Create(ctx context.Context, orgName string) (string, error) {
	collection := NamespaceName(orgName)
	db := r.db.WithContext(ctx)

	if db.Migrator().HasTable(collection) {
		return "", fmt.Errorf("%w: %s", ErrNamespaceExists, collection)
	}
	if err := db.Table(collection).Migrator().CreateTable(&models.TenantDocument{}); err != nil {
		return "", fmt.Errorf("failed to create namespace %s: %w", collection, err)
	}

	marker := models.TenantDocument{Initialized: true, CreatedAt: r.now().UTC()}
	if err := db.Scopes(database.InNamespace(collection)).Create(&marker).Error; err != nil {
		return "", fmt.Errorf("failed to initialize namespace %s: %w", collection, err)
	}
	return collection, nil
}

// Rename moves every document of oldName's namespace into a new namespace for
// newName and drops the old one. The steps are not atomic: a failure after
// the copy leaves both namespaces populated.
func (r *GormNamespaceRepository) Rename(ctx context.Context, oldName, newName string) (string, error) {
	from, to := NamespaceName(oldName), NamespaceName(newName)
	if from == to {
		return to, nil
	}
	db := r.db.WithContext(ctx)

	if !db.Migrator().HasTable(from) {
		// Nothing to migrate; still leave the organization with a namespace.
		return r.Create(ctx, newName)
	}
	if db.Migrator().HasTable(to) {
		return "", fmt.Errorf("%w: %s", ErrNamespaceExists, to)
	}

	docs, err := r.Documents(ctx, oldName)
	if err != nil {
		return "", err
	}
	if err := db.Table(to).Migrator().CreateTable(&models.TenantDocument{}); err != nil {
		return "", fmt.Errorf("failed to create namespace %s: %w", to, err)
	}
	if len(docs) > 0 {
		// Let the target assign fresh keys so its sequence stays consistent.
		for i := range docs {
			docs[i].ID = 0
		}
		if err := db.Table(to).CreateInBatches(&docs, copyBatchSize).Error; err != nil {
			return "", fmt.Errorf("failed to copy documents from %s to %s: %w", from, to, err)
		}
	}

	if err := db.Migrator().DropTable(from); err != nil {
		return "", fmt.Errorf("failed to drop namespace %s: %w", from, err)
	}
	return to, nil
}

// Drop removes the namespace of orgName if it exists
func (r *GormNamespaceRepository) Drop(ctx context.Context, orgName string) error {
	collection := NamespaceName(orgName)
	db := r.db.WithContext(ctx)

	if !db.Migrator().HasTable(collection) {
		return nil
	}
	if err := db.Migrator().DropTable(collection); err != nil {
		return fmt.Errorf("failed to drop namespace %s: %w", collection, err)
	}
	return nil
}

// Exists reports whether the namespace of orgName has been provisioned
func (r *GormNamespaceRepository) Exists(ctx context.Context, orgName string) (bool, error) {
	return r.db.WithContext(ctx).Migrator().HasTable(NamespaceName(orgName)), nil
}

// Documents lists every document in the namespace of orgName
func (r *GormNamespaceRepository) Documents(ctx context.Context, orgName string) ([]models.TenantDocument, error) {
	collection := NamespaceName(orgName)

	var docs []models.TenantDocument
	if err := r.db.WithContext(ctx).Scopes(database.InNamespace(collection)).
		Order("id").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to read namespace %s: %w", collection, err)
	}
	return docs, nil
}
