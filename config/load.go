package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GATEWAY_RELAY_FETCH_TIMEOUT.
const EnvPrefix = "GATEWAY"

// EnvKeyReplacer normalizes configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Defaults flattens a configuration into viper keys.
func Defaults(c *GatewayConfig) map[string]any {
	return map[string]any{
		"server.addr":                     c.Server.Addr,
		"server.read_header_timeout":      c.Server.ReadHeaderTimeout,
		"server.shutdown_timeout":         c.Server.ShutdownTimeout,
		"server.cors_origins":             c.Server.CORSOrigins,
		"extractor.backend":               c.Extractor.Backend,
		"extractor.api_key":               c.Extractor.APIKey,
		"extractor.region":                c.Extractor.Region,
		"extractor.max_results":           c.Extractor.MaxResults,
		"innertube.client_type":           c.InnerTube.ClientType,
		"innertube.client_version":        c.InnerTube.ClientVersion,
		"innertube.player_client_version": c.InnerTube.PlayerClientVersion,
		"innertube.language":              c.InnerTube.Language,
		"innertube.region":                c.InnerTube.Region,
		"innertube.request_timeout":       c.InnerTube.RequestTimeout,
		"relay.fetch_timeout":             c.Relay.FetchTimeout,
		"relay.dial_timeout":              c.Relay.DialTimeout,
		"relay.max_idle_conns":            c.Relay.MaxIdleConns,
		"relay.idle_conn_timeout":         c.Relay.IdleConnTimeout,
		"relay.buffer_size":               c.Relay.BufferSize,
		"log.level":                       c.Log.Level,
		"log.format":                      c.Log.Format,
	}
}

// Load resolves the configuration from defaults, an optional file, GATEWAY_* environment
// variables and any flags already bound to v, then validates it.
// A missing config file is only an error when configFile was given explicitly.
func Load(v *viper.Viper, configFile string) (*GatewayConfig, error) {
	base := DefaultGatewayConfig()

	// PORT is honoured for platforms that inject it; explicit settings still win.
	if port := os.Getenv("PORT"); port != "" {
		base.Server.Addr = net.JoinHostPort("0.0.0.0", port)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.AutomaticEnv()

	for key, value := range Defaults(base) {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("gateway")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/media-gateway")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &GatewayConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
