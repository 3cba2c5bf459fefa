package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("JWT_EXPIRY_HOURS", "")
	t.Setenv("S3_ENABLED", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "bolt", cfg.StoreDriver)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10*time.Second, cfg.OpenFoodFactsTimeout)
	assert.False(t, cfg.S3Enabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("S3_ENABLED", "true")
	t.Setenv("OCR_ENABLED", "false")
	t.Setenv("ENVIRONMENT", "production")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.S3Enabled)
	assert.False(t, cfg.OCREnabled)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_IgnoresUnparseableValues(t *testing.T) {
	t.Setenv("BODY_LIMIT_MB", "lots")
	t.Setenv("S3_USE_SSL", "maybe")

	cfg := Load()

	assert.Equal(t, 10, cfg.BodyLimitMB)
	assert.False(t, cfg.S3UseSSL)
}
