package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "test-missing")
	t.Setenv("JWT_SECRET", "unit-test-secret")
	t.Setenv("MONGODB_URI", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "unit-test-secret", cfg.Secret)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.True(t, cfg.Collab.SingleSession)
	assert.False(t, cfg.Collab.StrictEvents)
	assert.Equal(t, 10, cfg.Collab.JoinLimit)
}

func TestLoad_SecretRequiredOutsideDebug(t *testing.T) {
	t.Setenv("CONFIG_ENV", "test-missing")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MONGODB_URI", "")

	_, err := Load()
	require.Error(t, err)
}
