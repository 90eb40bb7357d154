// Package config provides configuration structures for the media gateway
package config

import (
	"fmt"
	"time"
)

// Extraction backends
const (
	BackendInnerTube = "innertube"
	BackendDataAPI   = "dataapi"
)

// GatewayConfig holds the complete runtime configuration
type GatewayConfig struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server" json:"server"`
	Extractor ExtractorConfig `mapstructure:"extractor" yaml:"extractor" json:"extractor"`
	InnerTube InnerTubeConfig `mapstructure:"innertube" yaml:"innertube" json:"innertube"`
	Relay     RelayConfig     `mapstructure:"relay" yaml:"relay" json:"relay"`
	Log       LogConfig       `mapstructure:"log" yaml:"log" json:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr              string        `mapstructure:"addr" yaml:"addr" json:"addr"`                                              // Listen address
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout" json:"read_header_timeout"` // Limit for reading request headers
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`          // Grace period for in-flight requests
	CORSOrigins       []string      `mapstructure:"cors_origins" yaml:"cors_origins" json:"cors_origins"`                      // "*" allows any origin
}

// ExtractorConfig selects and configures the catalog backend
type ExtractorConfig struct {
	Backend    string `mapstructure:"backend" yaml:"backend" json:"backend"`             // "innertube" or "dataapi"
	APIKey     string `mapstructure:"api_key" yaml:"api_key" json:"-"`                   // Required by the dataapi backend
	Region     string `mapstructure:"region" yaml:"region" json:"region"`                // Region code used for trending
	MaxResults int64  `mapstructure:"max_results" yaml:"max_results" json:"max_results"` // Page size for dataapi list calls
}

// InnerTubeConfig contains configuration for the InnerTube client
type InnerTubeConfig struct {
	ClientType          string        `mapstructure:"client_type" yaml:"client_type" json:"client_type"`                               // Default: "WEB"
	ClientVersion       string        `mapstructure:"client_version" yaml:"client_version" json:"client_version"`                      // WEB client version
	PlayerClientVersion string        `mapstructure:"player_client_version" yaml:"player_client_version" json:"player_client_version"` // ANDROID client version used for /player
	Language            string        `mapstructure:"language" yaml:"language" json:"language"`
	Region              string        `mapstructure:"region" yaml:"region" json:"region"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout" yaml:"request_timeout" json:"request_timeout"`
}

// RelayConfig configures the outbound stream fetches
type RelayConfig struct {
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout" json:"fetch_timeout"`             // Max wait for response headers, per hop
	DialTimeout     time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout" json:"dial_timeout"`                // TCP connect limit
	MaxIdleConns    int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns" json:"max_idle_conns"`          // Shared pool size
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout" json:"idle_conn_timeout"` // Pool eviction
	BufferSize      int           `mapstructure:"buffer_size" yaml:"buffer_size" json:"buffer_size"`                   // Copy buffer per transfer
}

// LogConfig configures zerolog
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"` // "json" or "console"
}

// DefaultGatewayConfig returns a configuration with sensible defaults
func DefaultGatewayConfig() *GatewayConfig {
	return &GatewayConfig{
		Server: ServerConfig{
			Addr:              "0.0.0.0:8080",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			CORSOrigins:       []string{"*"},
		},
		Extractor: ExtractorConfig{
			Backend:    BackendInnerTube,
			Region:     "US",
			MaxResults: 25,
		},
		InnerTube: InnerTubeConfig{
			ClientType:          "WEB",
			ClientVersion:       "2.20250222.10.00",
			PlayerClientVersion: "20.10.38",
			Language:            "en",
			Region:              "US",
			RequestTimeout:      15 * time.Second,
		},
		Relay: RelayConfig{
			FetchTimeout:    15 * time.Second,
			DialTimeout:     5 * time.Second,
			MaxIdleConns:    100,
			IdleConnTimeout: 90 * time.Second,
			BufferSize:      32 * 1024,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks if the configuration is valid
func (c *GatewayConfig) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}

	validBackends := map[string]bool{
		BackendInnerTube: true,
		BackendDataAPI:   true,
	}
	if !validBackends[c.Extractor.Backend] {
		return fmt.Errorf("invalid extractor.backend '%s', must be one of: innertube, dataapi", c.Extractor.Backend)
	}

	// The Data API backend cannot work without a key
	if c.Extractor.Backend == BackendDataAPI && c.Extractor.APIKey == "" {
		return fmt.Errorf("extractor.backend dataapi requires extractor.api_key")
	}

	if c.Extractor.MaxResults < 1 || c.Extractor.MaxResults > 50 {
		return fmt.Errorf("extractor.max_results must be between 1 and 50")
	}

	if c.InnerTube.ClientVersion == "" || c.InnerTube.PlayerClientVersion == "" {
		return fmt.Errorf("innertube client versions cannot be empty")
	}

	if c.InnerTube.RequestTimeout <= 0 {
		return fmt.Errorf("innertube.request_timeout must be positive")
	}

	// Validate relay durations
	if c.Relay.FetchTimeout <= 0 {
		return fmt.Errorf("relay.fetch_timeout must be positive")
	}

	if c.Relay.DialTimeout <= 0 {
		return fmt.Errorf("relay.dial_timeout must be positive")
	}

	if c.Relay.MaxIdleConns < 0 {
		return fmt.Errorf("relay.max_idle_conns cannot be negative")
	}

	if c.Relay.BufferSize < 512 {
		return fmt.Errorf("relay.buffer_size must be at least 512 bytes")
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log.format '%s', must be json or console", c.Log.Format)
	}

	return nil
}

// IsDataAPI returns true if catalog queries go to the YouTube Data API
func (c *GatewayConfig) IsDataAPI() bool {
	return c.Extractor.Backend == BackendDataAPI
}
