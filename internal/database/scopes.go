package database

import (
	"gorm.io/gorm"
)

// InNamespace points a query at the namespace table of one organization
func InNamespace(collection string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Table(collection)
	}
}
