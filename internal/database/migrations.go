package database

import (
	"fmt"

	"github.com/yukikurage/organization-service/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// requiredIndexes lists the directory indexes uniqueness depends on. Inserts
// race on these, so they must exist before the service accepts traffic.
var requiredIndexes = []struct {
	model interface{}
	table string
	field string
}{
	{&models.Organization{}, "organizations", "Name"},
	{&models.Organization{}, "organizations", "CollectionName"},
	{&models.Admin{}, "admins", "Email"},
	{&models.Admin{}, "admins", "OrganizationID"},
}

// EnsureIndexes creates any directory index missing from tables created by an
// older schema.
func EnsureIndexes(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()

	for _, idx := range requiredIndexes {
		if migrator.HasIndex(idx.model, idx.field) {
			log.Debug("Index already exists, skipping",
				zap.String("table", idx.table), zap.String("field", idx.field))
			continue
		}

		if err := migrator.CreateIndex(idx.model, idx.field); err != nil {
			return fmt.Errorf("failed to create index on %s.%s: %w", idx.table, idx.field, err)
		}
		log.Info("Created index", zap.String("table", idx.table), zap.String("field", idx.field))
	}

	return nil
}
