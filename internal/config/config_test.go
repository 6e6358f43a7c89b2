package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:3000", cfg.Portals.MainAppURL)
	assert.Equal(t, "http://localhost:3001", cfg.Portals.BrokerPortalURL)
	assert.Equal(t, "http://localhost:3002", cfg.Portals.HRPortalURL)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.S3Enabled())
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "too-short")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRejectsRelativePortalURL(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("BROKER_PORTAL_URL", "/broker")

	_, err := Load()
	assert.Error(t, err)
}

func TestDurationEnvAcceptsMinutes(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PDF_CACHE_TTL", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)

	t.Setenv("PDF_CACHE_TTL", "90s")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
}
