package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/organization-service/internal/auth"
	"github.com/yukikurage/organization-service/internal/database"
	"github.com/yukikurage/organization-service/internal/repository"
	"github.com/yukikurage/organization-service/internal/services"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db         *gorm.DB
	router     *gin.Engine
	tokens     *auth.TokenService
	adminRepo  repository.AdminRepository
	namespaces repository.NamespaceRepository
}

func setupTestEnv(t *testing.T, cfg services.OrganizationServiceConfig) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), database.Options(false))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))
	t.Cleanup(func() {
		database.Close(db)
	})

	tokens, err := auth.NewTokenService("handler-secret", "HS256", time.Hour)
	require.NoError(t, err)

	log := zap.NewNop()
	orgRepo := repository.NewOrganizationRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	namespaces := repository.NewNamespaceRepository(db)

	router := NewRouter(RouterConfig{
		DB:                  db,
		Logger:              log,
		Tokens:              tokens,
		AuthService:         services.NewAuthService(adminRepo, tokens, log),
		OrganizationService: services.NewOrganizationService(orgRepo, adminRepo, namespaces, log, cfg),
		AllowedOrigins:      []string{"*"},
	})

	return testEnv{
		db:         db,
		router:     router,
		tokens:     tokens,
		adminRepo:  adminRepo,
		namespaces: namespaces,
	}
}

// do sends a request through the router. body is JSON encoded unless nil.
func (e testEnv) do(t *testing.T, method, url string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

// createOrg creates an organization and returns the login token of its admin.
func (e testEnv) createOrg(t *testing.T, name, email, password string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/org/create", gin.H{
		"organization_name": name,
		"email":             email,
		"password":          password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/admin/login", gin.H{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)["access_token"].(string)
}
