package dto

import (
	"github.com/yukikurage/organization-service/internal/constants"
	"github.com/yukikurage/organization-service/internal/services"
)

// LoginResponse is returned by a successful admin login
type LoginResponse struct {
	AccessToken    string `json:"access_token"`
	TokenType      string `json:"token_type"`
	AdminID        uint64 `json:"admin_id"`
	OrganizationID uint64 `json:"organization_id"`
	Email          string `json:"email"`
}

// ToLoginResponse converts a login result to DTO
func ToLoginResponse(result services.LoginResult) LoginResponse {
	return LoginResponse{
		AccessToken:    result.AccessToken,
		TokenType:      constants.TokenType,
		AdminID:        result.Admin.ID,
		OrganizationID: result.Admin.OrganizationID,
		Email:          result.Admin.Email,
	}
}
