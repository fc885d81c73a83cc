package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/checkoutkit/pkg/config"
)

type testConfig struct {
	BaseURL string        `env:"TEST_ATLAS_BASE_URL,required"`
	Token   string        `env:"TEST_ATLAS_TOKEN"`
	Timeout time.Duration `env:"TEST_ATLAS_TIMEOUT" envDefault:"30s"`
	Retries int           `env:"TEST_ATLAS_RETRIES" envDefault:"3"`
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_ATLAS_BASE_URL", "https://api.example.com")
	t.Setenv("TEST_ATLAS_TOKEN", "tok-123")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, "tok-123", cfg.Token)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.Retries)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("TEST_ATLAS_BASE_URL", "https://api.example.com")
	t.Setenv("TEST_ATLAS_TIMEOUT", "5s")
	t.Setenv("TEST_ATLAS_RETRIES", "7")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 7, cfg.Retries)
}

func TestLoadMissingRequired(t *testing.T) {
	// t.Setenv registers the restore; the variable itself must be absent
	// for the required tag to trip.
	t.Setenv("TEST_ATLAS_BASE_URL", "placeholder")
	require.NoError(t, os.Unsetenv("TEST_ATLAS_BASE_URL"))

	var cfg testConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoadNilPointer(t *testing.T) {
	t.Parallel()

	err := config.Load[testConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestMustLoadPanics(t *testing.T) {
	t.Setenv("TEST_ATLAS_BASE_URL", "placeholder")
	require.NoError(t, os.Unsetenv("TEST_ATLAS_BASE_URL"))

	assert.Panics(t, func() {
		var cfg testConfig
		config.MustLoad(&cfg)
	})
}
