package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/yukikurage/organization-service/internal/auth"
	"github.com/yukikurage/organization-service/internal/constants"
	"github.com/yukikurage/organization-service/internal/models"
	"github.com/yukikurage/organization-service/internal/repository"
	"github.com/yukikurage/organization-service/internal/telemetry"
	"go.uber.org/zap"
)

var (
	ErrOrganizationNotFound    = errors.New("organization not found")
	ErrOrganizationExists      = errors.New("organization already exists")
	ErrNewNameTaken            = errors.New("new organization name already exists")
	ErrInvalidOrganizationName = errors.New("organization name must be 1-50 letters, digits, spaces, '_' or '-' and start with a letter or digit")
	ErrEmailTaken              = errors.New("email already registered")
	ErrMissingCredentials      = errors.New("email and password are required")
	ErrNotOrganizationOwner    = errors.New("not authorized")
	ErrAdminMissing            = errors.New("organization has no administrator")
)

// Operation labels for telemetry.RecordOperation.
const (
	opCreate            = "create"
	opRename            = "rename"
	opUpdateCredentials = "update_credentials"
	opDelete            = "delete"
	opLogin             = "login"
)

var organizationNamePattern = regexp.MustCompile(
	fmt.Sprintf(`^[A-Za-z0-9][A-Za-z0-9 _-]{0,%d}$`, constants.MaxOrganizationNameLength-1))

// ValidateOrganizationName reports whether name can be turned into a namespace.
func ValidateOrganizationName(name string) error {
	if !organizationNamePattern.MatchString(name) {
		return ErrInvalidOrganizationName
	}
	return nil
}

// OrganizationServiceConfig tunes authorization of organization operations.
type OrganizationServiceConfig struct {
	// EnforceUpdateOwnership rejects updates from admins of other organizations.
	EnforceUpdateOwnership bool
}

// OrganizationService orchestrates the directory records and the namespace of
// each organization. None of its multi-step operations are atomic; a failing
// step is reported and the earlier steps stay applied.
type OrganizationService struct {
	orgRepo    repository.OrganizationRepository
	adminRepo  repository.AdminRepository
	namespaces repository.NamespaceRepository
	log        *zap.Logger
	cfg        OrganizationServiceConfig
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(
	orgRepo repository.OrganizationRepository,
	adminRepo repository.AdminRepository,
	namespaces repository.NamespaceRepository,
	log *zap.Logger,
	cfg OrganizationServiceConfig,
) *OrganizationService {
	if !cfg.EnforceUpdateOwnership {
		log.Warn("Organization updates accept any valid admin token; set ENFORCE_UPDATE_OWNERSHIP=true to restrict them to the owner")
	}
	return &OrganizationService{
		orgRepo:    orgRepo,
		adminRepo:  adminRepo,
		namespaces: namespaces,
		log:        log,
		cfg:        cfg,
	}
}

// CreateOrganizationInput represents parameters to create a new organization.
type CreateOrganizationInput struct {
	Name     string
	Email    string
	Password string
}

// CreateOrganization registers an organization with its administrator and
// provisions its namespace. Steps run in order: organization record, admin
// record, admin link, namespace. There is no rollback.
func (s *OrganizationService) CreateOrganization(ctx context.Context, input CreateOrganizationInput) (org *models.Organization, err error) {
	defer func() { record(opCreate, err) }()

	if err := ValidateOrganizationName(input.Name); err != nil {
		return nil, err
	}
	if input.Email == "" || input.Password == "" {
		return nil, ErrMissingCredentials
	}

	exists, err := s.orgRepo.Exists(ctx, input.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check organization name: %w", err)
	}
	if exists {
		return nil, ErrOrganizationExists
	}

	// Checked up front so a taken email does not leave an organization behind.
	emailTaken, err := s.adminRepo.Exists(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if emailTaken {
		return nil, ErrEmailTaken
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	org = &models.Organization{
		Name:           input.Name,
		CollectionName: repository.NamespaceName(input.Name),
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrOrganizationExists
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	log := s.log.With(zap.String("organization", org.Name), zap.Uint64("organization_id", org.ID))

	admin := &models.Admin{
		Email:          input.Email,
		HashedPassword: hashed,
		OrganizationID: org.ID,
		IsActive:       true,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		log.Error("Organization created without administrator", zap.Error(err))
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	if err := s.orgRepo.Update(ctx, org.ID, repository.OrganizationPatch{AdminID: &admin.ID}); err != nil {
		log.Error("Administrator not linked to organization", zap.Uint64("admin_id", admin.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to link admin to organization: %w", err)
	}
	org.AdminID = &admin.ID

	if _, err := s.namespaces.Create(ctx, org.Name); err != nil {
		log.Error("Namespace not provisioned", zap.String("collection", org.CollectionName), zap.Error(err))
		return nil, fmt.Errorf("failed to provision namespace: %w", err)
	}

	log.Info("Organization created",
		zap.String("collection", org.CollectionName),
		zap.Uint64("admin_id", admin.ID))
	return org, nil
}

// GetOrganization returns the organization registered under name.
func (s *OrganizationService) GetOrganization(ctx context.Context, name string) (*models.Organization, error) {
	org, err := s.orgRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// UpdateOrganizationInput represents parameters to update an organization.
// Empty fields are left unchanged.
type UpdateOrganizationInput struct {
	Name     string
	NewName  string
	Email    string
	Password string
	// ActorAdminID is the admin the request was authenticated as.
	ActorAdminID uint64
}

// UpdateOrganization renames the organization and/or replaces its admin
// credentials. The rename runs first; a credential failure after a successful
// rename leaves the rename in place.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, input UpdateOrganizationInput) (*models.Organization, error) {
	org, err := s.GetOrganization(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if s.cfg.EnforceUpdateOwnership && !ownedBy(org, input.ActorAdminID) {
		record(opRename, ErrNotOrganizationOwner)
		return nil, ErrNotOrganizationOwner
	}

	if input.NewName != "" && input.NewName != org.Name {
		err := s.rename(ctx, org, input.NewName)
		record(opRename, err)
		if err != nil {
			return nil, err
		}
	}

	if input.Email != "" || input.Password != "" {
		err := s.updateCredentials(ctx, org, input.Email, input.Password)
		record(opUpdateCredentials, err)
		if err != nil {
			return nil, err
		}
	}

	return org, nil
}

func (s *OrganizationService) rename(ctx context.Context, org *models.Organization, newName string) error {
	if err := ValidateOrganizationName(newName); err != nil {
		return err
	}

	exists, err := s.orgRepo.Exists(ctx, newName)
	if err != nil {
		return fmt.Errorf("failed to check organization name: %w", err)
	}
	if exists {
		return ErrNewNameTaken
	}

	collection, err := s.namespaces.Rename(ctx, org.Name, newName)
	if err != nil {
		if errors.Is(err, repository.ErrNamespaceExists) {
			return ErrNewNameTaken
		}
		return fmt.Errorf("failed to rename namespace: %w", err)
	}

	if err := s.orgRepo.Update(ctx, org.ID, repository.OrganizationPatch{
		Name:           &newName,
		CollectionName: &collection,
	}); err != nil {
		s.log.Error("Namespace renamed but organization record not updated",
			zap.String("organization", org.Name),
			zap.String("new_name", newName),
			zap.String("collection", collection),
			zap.Error(err))
		if errors.Is(err, repository.ErrDuplicateKey) {
			return ErrNewNameTaken
		}
		return fmt.Errorf("failed to update organization: %w", err)
	}

	s.log.Info("Organization renamed",
		zap.String("organization", org.Name),
		zap.String("new_name", newName),
		zap.String("collection", collection))

	org.Name = newName
	org.CollectionName = collection
	return nil
}

func (s *OrganizationService) updateCredentials(ctx context.Context, org *models.Organization, email, password string) error {
	if org.AdminID == nil {
		return ErrAdminMissing
	}

	var patch repository.AdminPatch
	if email != "" {
		patch.Email = &email
	}
	if password != "" {
		hashed, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		patch.HashedPassword = &hashed
	}

	if err := s.adminRepo.Update(ctx, *org.AdminID, patch); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to update admin: %w", err)
	}

	s.log.Info("Administrator credentials updated",
		zap.String("organization", org.Name),
		zap.Uint64("admin_id", *org.AdminID),
		zap.Bool("email_changed", email != ""),
		zap.Bool("password_changed", password != ""))
	return nil
}

// DeleteOrganization drops the namespace, then the admin, then the
// organization record. Only the organization's own admin may delete it.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, name string, actorAdminID uint64) (err error) {
	org, err := s.GetOrganization(ctx, name)
	if err != nil {
		return err
	}
	defer func() { record(opDelete, err) }()

	if !ownedBy(org, actorAdminID) {
		return ErrNotOrganizationOwner
	}

	log := s.log.With(zap.String("organization", org.Name), zap.Uint64("organization_id", org.ID))

	if err := s.namespaces.Drop(ctx, org.Name); err != nil {
		return fmt.Errorf("failed to drop namespace: %w", err)
	}
	if err := s.adminRepo.Delete(ctx, *org.AdminID); err != nil {
		log.Error("Namespace dropped but administrator not deleted", zap.Error(err))
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	if err := s.orgRepo.Delete(ctx, org.ID); err != nil {
		log.Error("Administrator deleted but organization record remains", zap.Error(err))
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	log.Info("Organization deleted")
	return nil
}

func ownedBy(org *models.Organization, adminID uint64) bool {
	return org.AdminID != nil && *org.AdminID == adminID
}

func record(operation string, err error) {
	switch {
	case err == nil:
		telemetry.RecordOperation(operation, telemetry.ResultSuccess)
	case errors.Is(err, ErrNotOrganizationOwner),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrAccountInactive):
		telemetry.RecordOperation(operation, telemetry.ResultDenied)
	default:
		telemetry.RecordOperation(operation, telemetry.ResultFailure)
	}
}
