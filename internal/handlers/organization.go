package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/organization-service/internal/dto"
	apierrors "github.com/yukikurage/organization-service/internal/errors"
	"github.com/yukikurage/organization-service/internal/middleware"
	"github.com/yukikurage/organization-service/internal/services"
)

// OrganizationHandler serves the organization lifecycle endpoints.
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// CreateOrganization provisions an organization, its admin and its namespace
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	type CreateOrgRequest struct {
		OrganizationName string `json:"organization_name" binding:"required"`
		Email            string `json:"email" binding:"required,email"`
		Password         string `json:"password" binding:"required"`
	}

	var req CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), services.CreateOrganizationInput{
		Name:     req.OrganizationName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondOrganizationError(c, "creating", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCreateOrganizationResponse(*org))
}

// GetOrganization returns the directory record of one organization
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	name := c.Query("organization_name")
	if name == "" {
		apierrors.MissingField(c, "organization_name")
		return
	}

	org, err := h.orgService.GetOrganization(c.Request.Context(), name)
	if err != nil {
		respondOrganizationError(c, "fetching", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// UpdateOrganization renames an organization and/or changes its admin credentials
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateOrgRequest struct {
		OrganizationName    string `json:"organization_name" binding:"required"`
		NewOrganizationName string `json:"new_organization_name"`
		Email               string `json:"email" binding:"omitempty,email"`
		Password            string `json:"password"`
	}

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.orgService.UpdateOrganization(c.Request.Context(), services.UpdateOrganizationInput{
		Name:         req.OrganizationName,
		NewName:      req.NewOrganizationName,
		Email:        req.Email,
		Password:     req.Password,
		ActorAdminID: claims.AdminID,
	}); err != nil {
		respondOrganizationError(c, "updating", err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Organization updated successfully"})
}

// DeleteOrganization removes an organization owned by the authenticated admin
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	name := c.Query("organization_name")
	if name == "" {
		apierrors.MissingField(c, "organization_name")
		return
	}

	if err := h.orgService.DeleteOrganization(c.Request.Context(), name, claims.AdminID); err != nil {
		respondOrganizationError(c, "deleting", err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Organization '%s' deleted successfully", name),
	})
}

func respondOrganizationError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, "Organization not found")
	case errors.Is(err, services.ErrOrganizationExists):
		apierrors.Conflict(c, "Organization already exists")
	case errors.Is(err, services.ErrNewNameTaken):
		apierrors.Conflict(c, "New organization name already exists")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "Email already registered")
	case errors.Is(err, services.ErrInvalidOrganizationName),
		errors.Is(err, services.ErrMissingCredentials):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotOrganizationOwner):
		apierrors.Forbidden(c, "Not authorized")
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, fmt.Sprintf("Error %s organization: %v", action, err))
	}
}
