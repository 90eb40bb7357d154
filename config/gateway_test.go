package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGatewayConfigIsValid(t *testing.T) {
	cfg := DefaultGatewayConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendInnerTube, cfg.Extractor.Backend)
	assert.False(t, cfg.IsDataAPI())
	assert.Equal(t, 15*time.Second, cfg.Relay.FetchTimeout)
}

func TestGatewayConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *GatewayConfig)
		wantErr string
	}{
		{"empty addr", func(c *GatewayConfig) { c.Server.Addr = "" }, "server.addr"},
		{"unknown backend", func(c *GatewayConfig) { c.Extractor.Backend = "scraper" }, "extractor.backend"},
		{"dataapi without key", func(c *GatewayConfig) { c.Extractor.Backend = BackendDataAPI }, "api_key"},
		{"max results too large", func(c *GatewayConfig) { c.Extractor.MaxResults = 51 }, "max_results"},
		{"zero fetch timeout", func(c *GatewayConfig) { c.Relay.FetchTimeout = 0 }, "fetch_timeout"},
		{"zero dial timeout", func(c *GatewayConfig) { c.Relay.DialTimeout = 0 }, "dial_timeout"},
		{"tiny buffer", func(c *GatewayConfig) { c.Relay.BufferSize = 10 }, "buffer_size"},
		{"bad log format", func(c *GatewayConfig) { c.Log.Format = "xml" }, "log.format"},
		{"empty player version", func(c *GatewayConfig) { c.InnerTube.PlayerClientVersion = "" }, "client versions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGatewayConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("dataapi with key", func(t *testing.T) {
		cfg := DefaultGatewayConfig()
		cfg.Extractor.Backend = BackendDataAPI
		cfg.Extractor.APIKey = "key"
		assert.NoError(t, cfg.Validate())
		assert.True(t, cfg.IsDataAPI())
	})
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultGatewayConfig(), cfg)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("GATEWAY_RELAY_FETCH_TIMEOUT", "3s")
	t.Setenv("GATEWAY_LOG_FORMAT", "console")
	t.Setenv("GATEWAY_EXTRACTOR_MAX_RESULTS", "10")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.Relay.FetchTimeout)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, int64(10), cfg.Extractor.MaxResults)
}

func TestLoadPortFallback(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	content := []byte(`
server:
  addr: "127.0.0.1:7000"
extractor:
  backend: dataapi
  api_key: secret
relay:
  dial_timeout: 2s
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, BackendDataAPI, cfg.Extractor.Backend)
	assert.Equal(t, "secret", cfg.Extractor.APIKey)
	assert.Equal(t, 2*time.Second, cfg.Relay.DialTimeout)
	// untouched keys keep defaults
	assert.Equal(t, 15*time.Second, cfg.Relay.FetchTimeout)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("GATEWAY_EXTRACTOR_BACKEND", "dataapi")

	_, err := Load(viper.New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}
