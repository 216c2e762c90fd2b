package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mspro-labs/coin-filter/internal/apperr"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coinfilter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGetAppConfigDefaults(t *testing.T) {
	t.Setenv("COINFILTER_CONFIG_PATH", "")
	t.Setenv("COINFILTER_LOG_LEVEL", "")
	t.Setenv("COINFILTER_PUSHGATEWAY_URL", "")
	os.Unsetenv("COINFILTER_CONFIG_PATH")
	os.Unsetenv("COINFILTER_LOG_LEVEL")
	os.Unsetenv("COINFILTER_PUSHGATEWAY_URL")

	cfg, err := GetAppConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigPath, cfg.ConfigPath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.PushgatewayURL)
}

func TestGetAppConfigFromEnv(t *testing.T) {
	t.Setenv("COINFILTER_CONFIG_PATH", "/etc/coinfilter.yaml")
	t.Setenv("COINFILTER_LOG_LEVEL", "debug")
	t.Setenv("COINFILTER_PUSHGATEWAY_URL", "http://localhost:9091")

	cfg, err := GetAppConfig()
	require.NoError(t, err)
	assert.Equal(t, "/etc/coinfilter.yaml", cfg.ConfigPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://localhost:9091", cfg.PushgatewayURL)
}

func TestGetAppConfigRejectsBadPushgateway(t *testing.T) {
	t.Setenv("COINFILTER_PUSHGATEWAY_URL", "not a url")

	_, err := GetAppConfig()
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Configuration))
}

func TestLoadExportConfigMissingOptionalFile(t *testing.T) {
	cfg, err := LoadExportConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, DefaultExportConfig(), cfg)
	assert.Equal(t, "coins.csv", cfg.OutputPath())
}

func TestLoadExportConfigMissingRequiredFile(t *testing.T) {
	_, err := LoadExportConfig(filepath.Join(t.TempDir(), "absent.yaml"), true)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Configuration))
}

func TestLoadExportConfigOverlaysDefaults(t *testing.T) {
	path := writeFile(t, `
source:
  url: https://example.com/ticker
  timeout: 15s
  fields:
    price: price
output:
  format: xlsx
`)

	cfg, err := LoadExportConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/ticker", cfg.Source.URL)
	assert.Equal(t, 15*time.Second, cfg.Source.Timeout)
	assert.Equal(t, "name", cfg.Source.Fields.Name)
	assert.Equal(t, "price", cfg.Source.Fields.Price)
	assert.Equal(t, "available_supply", cfg.Source.Fields.Supply)
	assert.Equal(t, "coins.xlsx", cfg.OutputPath())
}

func TestLoadExportConfigInvalid(t *testing.T) {
	testCases := map[string]string{
		"bad yaml":   "source: [",
		"bad format": "output:\n  format: json\n",
		"bad url":    "source:\n  url: nope\n",
		"no field":   "source:\n  fields:\n    name: \"\"\n",
	}

	for name, content := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadExportConfig(writeFile(t, content), true)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.Configuration))
		})
	}
}

func TestOutputPath(t *testing.T) {
	cfg := DefaultExportConfig()
	cfg.Output.Format = "sqlite"
	assert.Equal(t, "coins.db", cfg.OutputPath())

	cfg.Output.Path = "out/market.db"
	assert.Equal(t, "out/market.db", cfg.OutputPath())
}
