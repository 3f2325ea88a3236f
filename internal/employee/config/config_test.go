package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "./public", cfg.UploadDir)
	assert.Equal(t, "/public", cfg.PublicPath)
	assert.Equal(t, DefaultProfilePic, cfg.DefaultProfilePic)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 512, cfg.PictureMaxDimension)
	assert.Equal(t, "EMP", cfg.EmployeeIDPrefix)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PUBLIC_PATH", "/static/")
	t.Setenv("EMPLOYEE_ID_PREFIX", "STAFF")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/static", cfg.PublicPath)
	assert.Equal(t, "STAFF", cfg.EmployeeIDPrefix)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
}

func TestValidate_Rejects(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
	}{
		{"relative public path", func(c *Config) { c.PublicPath = "public" }},
		{"zero upload size", func(c *Config) { c.MaxUploadBytes = 0 }},
		{"tiny pictures", func(c *Config) { c.PictureMaxDimension = 4 }},
		{"empty prefix", func(c *Config) { c.EmployeeIDPrefix = "" }},
		{"empty upload dir", func(c *Config) { c.UploadDir = " " }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				UploadDir:           "./public",
				PublicPath:          "/public",
				MaxUploadBytes:      1,
				PictureMaxDimension: 512,
				EmployeeIDPrefix:    "EMP",
			}
			tc.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
