package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/organization-service/internal/auth"
	"github.com/yukikurage/organization-service/internal/models"
	"github.com/yukikurage/organization-service/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
)

// AuthService handles administrator authentication.
type AuthService struct {
	adminRepo repository.AdminRepository
	tokens    *auth.TokenService
	log       *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(adminRepo repository.AdminRepository, tokens *auth.TokenService, log *zap.Logger) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		tokens:    tokens,
		log:       log,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a freshly issued access token and the admin it was issued for.
type LoginResult struct {
	AccessToken string
	Admin       *models.Admin
}

// Login verifies credentials and issues an access token. An unknown email and
// a wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (result *LoginResult, err error) {
	defer func() { record(opLogin, err) }()

	admin, err := s.adminRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	if !auth.VerifyPassword(input.Password, admin.HashedPassword) {
		s.log.Debug("Login rejected", zap.Uint64("admin_id", admin.ID))
		return nil, ErrInvalidCredentials
	}
	if !admin.IsActive {
		s.log.Info("Login by inactive administrator", zap.Uint64("admin_id", admin.ID))
		return nil, ErrAccountInactive
	}

	token, err := s.tokens.Issue(auth.TokenSubject{
		AdminID:        admin.ID,
		OrganizationID: admin.OrganizationID,
		Email:          admin.Email,
	})
	if err != nil {
		return nil, err
	}

	return &LoginResult{AccessToken: token, Admin: admin}, nil
}
