package models

import "time"

// TenantDocument is the fixed row shape of every organization namespace.
// Namespaces are tables created at runtime, so the table name is supplied by
// the caller and never derived from this type.
type TenantDocument struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Initialized bool      `gorm:"not null;default:false" json:"initialized"`
	Payload     string    `gorm:"type:text" json:"payload,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
