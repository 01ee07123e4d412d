package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8091", cfg.Port)
	assert.Equal(t, "kscan", cfg.Database.Name)
	assert.Equal(t, 400, cfg.Scan.LookbackDays)
	assert.Equal(t, "KOSPI", cfg.Scan.IndexSymbol)
	assert.Equal(t, "https://fchart.stock.naver.com", cfg.Naver.ChartBaseURL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SCAN_WORKERS", "8")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("ENV", "local")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_LookbackTooShort(t *testing.T) {
	t.Setenv("SCAN_LOOKBACK_DAYS", "10")

	_, err := Load()
	assert.Error(t, err)
}
