package dto

import (
	"time"

	"github.com/yukikurage/organization-service/internal/models"
)

// OrganizationDTO represents an organization directory record
type OrganizationDTO struct {
	ID               uint64    `json:"id"`
	OrganizationName string    `json:"organization_name"`
	CollectionName   string    `json:"collection_name"`
	AdminID          *uint64   `json:"admin_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateOrganizationResponse is returned after an organization is provisioned
type CreateOrganizationResponse struct {
	ID               uint64  `json:"id"`
	OrganizationName string  `json:"organization_name"`
	CollectionName   string  `json:"collection_name"`
	AdminID          *uint64 `json:"admin_id"`
	Message          string  `json:"message"`
}

// MessageResponse carries a human readable outcome
type MessageResponse struct {
	Message string `json:"message"`
}

// ToOrganizationDTO converts an organization to DTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:               org.ID,
		OrganizationName: org.Name,
		CollectionName:   org.CollectionName,
		AdminID:          org.AdminID,
		CreatedAt:        org.CreatedAt,
		UpdatedAt:        org.UpdatedAt,
	}
}

// ToCreateOrganizationResponse converts a newly created organization to DTO
func ToCreateOrganizationResponse(org models.Organization) CreateOrganizationResponse {
	return CreateOrganizationResponse{
		ID:               org.ID,
		OrganizationName: org.Name,
		CollectionName:   org.CollectionName,
		AdminID:          org.AdminID,
		Message:          "Organization created successfully",
	}
}
