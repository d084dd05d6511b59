package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/organization-service/internal/repository"
	"github.com/yukikurage/organization-service/internal/services"
)

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t, services.OrganizationServiceConfig{})

	w := env.do(t, http.MethodPost, "/org/create", gin.H{
		"organization_name": "Acme",
		"email":             "admin@acme.com",
		"password":          "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	created := decode(t, w)

	w = env.do(t, http.MethodPost, "/admin/login", gin.H{"email": "admin@acme.com", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "bearer", body["token_type"])
	assert.Equal(t, "admin@acme.com", body["email"])
	assert.Equal(t, created["admin_id"], body["admin_id"])
	assert.Equal(t, created["id"], body["organization_id"])

	claims, ok := env.tokens.Verify(body["access_token"].(string))
	require.True(t, ok)
	assert.EqualValues(t, body["admin_id"], claims.AdminID)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	env := setupTestEnv(t, services.OrganizationServiceConfig{})
	env.createOrg(t, "Acme", "admin@acme.com", "secret123")

	wrongPassword := env.do(t, http.MethodPost, "/admin/login", gin.H{"email": "admin@acme.com", "password": "nope"}, "")
	unknownEmail := env.do(t, http.MethodPost, "/admin/login", gin.H{"email": "ghost@acme.com", "password": "secret123"}, "")

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())

	w := env.do(t, http.MethodPost, "/admin/login", gin.H{"email": "admin@acme.com"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	admin, err := env.adminRepo.FindByEmail(context.Background(), "admin@acme.com")
	require.NoError(t, err)
	inactive := false
	require.NoError(t, env.adminRepo.Update(context.Background(), admin.ID, repository.AdminPatch{IsActive: &inactive}))

	w = env.do(t, http.MethodPost, "/admin/login", gin.H{"email": "admin@acme.com", "password": "secret123"}, "")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Account inactive", decode(t, w)["message"])
}
