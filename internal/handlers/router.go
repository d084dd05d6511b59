package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/organization-service/internal/auth"
	"github.com/yukikurage/organization-service/internal/middleware"
	"github.com/yukikurage/organization-service/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RouterConfig holds everything the HTTP routes depend on.
type RouterConfig struct {
	DB                  *gorm.DB
	Logger              *zap.Logger
	Tokens              *auth.TokenService
	AuthService         *services.AuthService
	OrganizationService *services.OrganizationService
	AllowedOrigins      []string
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	authHandler := NewAuthHandler(cfg.AuthService)
	orgHandler := NewOrganizationHandler(cfg.OrganizationService)
	healthHandler := NewHealthHandler(cfg.DB, cfg.Logger)

	r.GET("/", healthHandler.Root)
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	org := r.Group("/org")
	{
		org.POST("/create", orgHandler.CreateOrganization)
		org.GET("/get", orgHandler.GetOrganization)
		org.PUT("/update", middleware.RequireAuth(cfg.Tokens), orgHandler.UpdateOrganization)
		org.DELETE("/delete", middleware.RequireAuth(cfg.Tokens), orgHandler.DeleteOrganization)
	}

	admin := r.Group("/admin")
	{
		admin.POST("/login", authHandler.Login)
	}

	return r
}
