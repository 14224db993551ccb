package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("FACTA_LOGIN", "12345")
		t.Setenv("FACTA_PASSWORD", "secret")

		cfg, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, "4570", cfg.Port)
		assert.Equal(t, "https://webservice.facta.com.br", cfg.FactaURL)
		assert.Equal(t, 30*time.Second, cfg.FactaTimeout)
		assert.Equal(t, 50*time.Minute, cfg.TokenTTL)
		assert.Equal(t, "@every 45m", cfg.TokenWarmupSchedule)
		assert.Empty(t, cfg.APIPasswordHash)
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Setenv("FACTA_LOGIN", "")
		t.Setenv("FACTA_PASSWORD", "secret")

		_, err := NewConfig()
		assert.ErrorContains(t, err, "FACTA_LOGIN")
	})

	t.Run("invalid timeout", func(t *testing.T) {
		t.Setenv("FACTA_LOGIN", "12345")
		t.Setenv("FACTA_PASSWORD", "secret")
		t.Setenv("FACTA_TIMEOUT", "soon")

		_, err := NewConfig()
		assert.ErrorContains(t, err, "FACTA_TIMEOUT")
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("FACTA_LOGIN", "12345")
		t.Setenv("FACTA_PASSWORD", "secret")
		t.Setenv("TOKEN_TTL", "10m")
		t.Setenv("TOKEN_WARMUP_SCHEDULE", "")

		cfg, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, 10*time.Minute, cfg.TokenTTL)
		assert.Empty(t, cfg.TokenWarmupSchedule)
	})
}
