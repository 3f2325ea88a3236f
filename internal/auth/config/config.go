package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all configuration for the auth module.
type Config struct {
	// MongoDB Configuration
	MongoDBURI   string `env:"MONGODB_URI,required"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"employee_admin"`

	// Session token configuration. The default lifetime is one year.
	JWTSecretKey string        `env:"JWT_SECRET_KEY,required"`
	JWTIssuer    string        `env:"JWT_ISSUER" envDefault:"employee-admin"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"8760h"`

	// Password hashing
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// Optional token denylist; revocation on logout is disabled when empty
	RedisURL string `env:"REDIS_URL"`

	// Cookie Configuration
	CookieName     string `env:"COOKIE_NAME" envDefault:"token"`
	CookiePath     string `env:"COOKIE_PATH" envDefault:"/"`
	CookieDomain   string `env:"COOKIE_DOMAIN" envDefault:""`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	CookieHTTPOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	CookieSameSite string `env:"COOKIE_SAME_SITE" envDefault:"Lax"`

	// Seed admin created at startup when the admins collection is empty
	BootstrapAdminUserName    string `env:"BOOTSTRAP_ADMIN_USERNAME"`
	BootstrapAdminPassword    string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
	BootstrapAdminEmail       string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminMobile      string `env:"BOOTSTRAP_ADMIN_MOBILE" envDefault:"0000000000"`
	BootstrapAdminDesignation string `env:"BOOTSTRAP_ADMIN_DESIGNATION" envDefault:"Administrator"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load auth configuration from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes and checks values env tags cannot express.
func (cfg *Config) Validate() error {
	if cfg.JWTSecretKey == "" {
		return errors.New("jwt_secret_key is required")
	}
	if cfg.MongoDBURI == "" {
		return errors.New("mongodb_uri is required")
	}
	if cfg.SessionTTL <= 0 {
		return errors.New("session_ttl must be positive")
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	sameSite := strings.ToLower(cfg.CookieSameSite)
	switch sameSite {
	case "lax", "strict", "none":
		cfg.CookieSameSite = strings.ToUpper(sameSite[:1]) + sameSite[1:]
	default:
		return errors.New("cookie_same_site must be one of 'Lax', 'Strict', or 'None'")
	}

	if cfg.BootstrapAdminUserName != "" && cfg.BootstrapAdminPassword == "" {
		return errors.New("bootstrap_admin_password is required when bootstrap_admin_username is set")
	}
	return nil
}

// HasBootstrapAdmin reports whether a seed admin is configured.
func (cfg *Config) HasBootstrapAdmin() bool {
	return cfg.BootstrapAdminUserName != ""
}
