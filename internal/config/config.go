// Package config loads the service configuration.
//
// Values are layered: built-in defaults < optional config.yaml < .env file <
// process environment. Environment variable names match the ones the service
// has always used (MASTER_DB_NAME, JWT_SECRET_KEY, ...), so they are bound
// explicitly instead of through a prefix.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Debug    bool           `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address returns the host:port the HTTP server listens on
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig describes the shared database holding the directories and
// every tenant namespace.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	URL          string `mapstructure:"url"`
	Name         string `mapstructure:"name"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DSN returns the connection string. An explicit URL wins; otherwise a local
// default is built for the configured driver around the catalog database name.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	switch d.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=localhost port=5432 user=postgres dbname=%s sslmode=disable", d.Name)
	case DriverSQLite:
		return d.Name + ".db"
	default:
		return fmt.Sprintf("root@tcp(localhost:3306)/%s?charset=utf8mb4&parseTime=True&loc=UTC", d.Name)
	}
}

// MaskedDSN returns the connection string with credentials removed, for logging.
func (d DatabaseConfig) MaskedDSN() string {
	dsn := d.DSN()
	if i := strings.LastIndex(dsn, "@"); i >= 0 {
		return "***@" + dsn[i+1:]
	}
	if strings.Contains(dsn, "password=") {
		return "***MASKED***"
	}
	return dsn
}

type AuthConfig struct {
	JWTSecret              string `mapstructure:"jwt_secret"`
	JWTAlgorithm           string `mapstructure:"jwt_algorithm"`
	JWTExpirationMinutes   int    `mapstructure:"jwt_expiration_minutes"`
	EnforceUpdateOwnership bool   `mapstructure:"enforce_update_ownership"`
}

// TokenTTL returns the lifetime of issued access tokens
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.JWTExpirationMinutes) * time.Minute
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"server.host":                   "HOST",
	"server.port":                   "PORT",
	"database.driver":               "DATABASE_DRIVER",
	"database.url":                  "DATABASE_URL",
	"database.name":                 "MASTER_DB_NAME",
	"database.max_open_conns":       "DATABASE_MAX_OPEN_CONNS",
	"database.max_idle_conns":       "DATABASE_MAX_IDLE_CONNS",
	"auth.jwt_secret":               "JWT_SECRET_KEY",
	"auth.jwt_algorithm":            "JWT_ALGORITHM",
	"auth.jwt_expiration_minutes":   "JWT_EXPIRATION_MINUTES",
	"auth.enforce_update_ownership": "ENFORCE_UPDATE_OWNERSHIP",
	"cors.allowed_origins":          "CORS_ALLOWED_ORIGINS",
	"debug":                         "DEBUG",
}

// Load reads configuration from the optional config file, a .env file in the
// working directory and the environment, then validates it.
func Load(configPath string) (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.CORS.AllowedOrigins = splitOrigins(cfg.CORS.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", DriverMySQL)
	v.SetDefault("database.url", "")
	v.SetDefault("database.name", "master_organization_db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_algorithm", "HS256")
	v.SetDefault("auth.jwt_expiration_minutes", 1440)
	v.SetDefault("auth.enforce_update_ownership", false)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("debug", true)
}

// splitOrigins accepts both a YAML list and a comma separated env value.
func splitOrigins(in []string) []string {
	var out []string
	for _, item := range in {
		for _, o := range strings.Split(item, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}

// Validate checks the configuration for values the service cannot run with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.Name == "" && c.Database.URL == "" {
		return errors.New("database name or url is required")
	}

	switch c.Auth.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported jwt algorithm %q", c.Auth.JWTAlgorithm)
	}
	if c.Auth.JWTExpirationMinutes <= 0 {
		return errors.New("jwt expiration minutes must be positive")
	}
	if c.Auth.JWTSecret == "" && !c.Debug {
		return errors.New("JWT_SECRET_KEY is required when DEBUG is false")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
