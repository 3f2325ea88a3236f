package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
)

// DefaultProfilePic is used when an employee is created without a picture.
const DefaultProfilePic = "https://upload.wikimedia.org/wikipedia/commons/a/ac/Default_pfp.jpg?20200418092106"

// Config holds all configuration for the employee module.
type Config struct {
	// Picture storage
	UploadDir           string `env:"UPLOAD_DIR" envDefault:"./public"`
	PublicPath          string `env:"PUBLIC_PATH" envDefault:"/public"`
	DefaultProfilePic   string `env:"DEFAULT_PROFILE_PIC" envDefault:"https://upload.wikimedia.org/wikipedia/commons/a/ac/Default_pfp.jpg?20200418092106"`
	MaxUploadBytes      int64  `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
	PictureMaxDimension int    `env:"PICTURE_MAX_DIMENSION" envDefault:"512"`

	// Records
	EmployeeIDPrefix string `env:"EMPLOYEE_ID_PREFIX" envDefault:"EMP"`
	BcryptCost       int    `env:"BCRYPT_COST" envDefault:"10"`
	MaxPageSize      int    `env:"MAX_PAGE_SIZE" envDefault:"100"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load employee configuration from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.UploadDir) == "" {
		return errors.New("upload_dir is required")
	}
	if !strings.HasPrefix(cfg.PublicPath, "/") {
		return errors.New("public_path must start with '/'")
	}
	cfg.PublicPath = strings.TrimSuffix(cfg.PublicPath, "/")
	if cfg.MaxUploadBytes <= 0 {
		return errors.New("max_upload_bytes must be positive")
	}
	if cfg.PictureMaxDimension < 16 {
		return errors.New("picture_max_dimension must be at least 16")
	}
	if cfg.EmployeeIDPrefix == "" {
		return errors.New("employee_id_prefix is required")
	}
	if cfg.DefaultProfilePic == "" {
		cfg.DefaultProfilePic = DefaultProfilePic
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	return nil
}
