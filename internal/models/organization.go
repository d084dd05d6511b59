package models

import (
	"time"
)

type Organization struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"column:organization_name;type:varchar(255);uniqueIndex;not null" json:"organization_name"`
	CollectionName string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"collection_name"`
	AdminID        *uint64   `json:"admin_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
