// Package innertube implements the extraction backend on top of YouTube's internal
// youtubei/v1 API (browse, search, player, next). No API key is required.
package innertube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/researchaccelerator-hub/media-gateway/config"
	"github.com/researchaccelerator-hub/media-gateway/extractor"
)

const (
	baseWebURL      = "https://www.youtube.com"
	defaultEndpoint = baseWebURL + "/youtubei/v1"

	webUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// Cap on a single InnerTube response body
	maxResponseSize = 8 * 1024 * 1024
)

var _ extractor.Backend = (*Client)(nil)

// Client implements extractor.Backend using the InnerTube API.
// It needs more response parsing than the Data API but has no quota.
type Client struct {
	mu        sync.RWMutex // Protects httpClient and connected state
	connected bool

	httpClient *http.Client
	endpoint   string
	cfg        config.InnerTubeConfig
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for InnerTube calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEndpoint points the client at a different youtubei/v1 root, e.g. a test server.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimSuffix(endpoint, "/")
	}
}

// NewClient creates a new InnerTube backend. A nil config uses the defaults.
func NewClient(cfg *config.InnerTubeConfig, opts ...Option) *Client {
	if cfg == nil {
		cfg = &config.DefaultGatewayConfig().InnerTube
	}

	c := &Client{
		endpoint: defaultEndpoint,
		cfg:      *cfg,
	}
	if c.cfg.ClientType == "" {
		c.cfg.ClientType = "WEB"
	}
	for _, opt := range opts {
		opt(c)
	}

	log.Info().
		Str("client_type", c.cfg.ClientType).
		Str("client_version", c.cfg.ClientVersion).
		Str("endpoint", c.endpoint).
		Msg("Creating YouTube InnerTube client")

	return c
}

// Connect prepares the HTTP client. Calling it twice is harmless.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		log.Warn().Msg("Client already connected")
		return nil
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.cfg.RequestTimeout}
	}

	c.connected = true
	log.Info().Msg("Successfully connected to YouTube InnerTube API")
	return nil
}

// Disconnect releases idle connections
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		log.Warn().Msg("Client already disconnected")
		return nil
	}

	log.Info().Msg("Disconnecting from YouTube InnerTube API")
	c.httpClient.CloseIdleConnections()
	c.connected = false
	return nil
}

// ensureConnected returns the HTTP client or an error if Connect was not called
func (c *Client) ensureConnected() (*http.Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected || c.httpClient == nil {
		return nil, fmt.Errorf("client not connected - call Connect() first")
	}

	return c.httpClient, nil
}

// webContext builds the WEB client context used by browse, search and next.
func (c *Client) webContext() map[string]any {
	return map[string]any{
		"client": map[string]any{
			"clientName":    c.cfg.ClientType,
			"clientVersion": c.cfg.ClientVersion,
			"hl":            c.cfg.Language,
			"gl":            c.cfg.Region,
		},
		"user":    map[string]any{"enableSafetyMode": false},
		"request": map[string]any{"useSsl": true},
	}
}

// androidContext builds the ANDROID client context used by player; it returns unciphered urls for most formats.
func (c *Client) androidContext() map[string]any {
	return map[string]any{
		"client": map[string]any{
			"clientName":        "ANDROID",
			"clientVersion":     c.cfg.PlayerClientVersion,
			"androidSdkVersion": 30,
			"hl":                c.cfg.Language,
			"gl":                c.cfg.Region,
		},
	}
}

func (c *Client) androidUserAgent() string {
	return "com.google.android.youtube/" + c.cfg.PlayerClientVersion + " (Linux; U; Android 11) gzip"
}

// post sends payload to youtubei/v1/{method} and decodes the JSON response.
// HTTP 404 maps to extractor.ErrNotFound.
func (c *Client) post(ctx context.Context, method string, payload map[string]any, android bool) (map[string]interface{}, error) {
	hc, err := c.ensureConnected()
	if err != nil {
		return nil, err
	}

	if android {
		payload["context"] = c.androidContext()
		payload["racyCheckOk"] = true
		payload["contentCheckOk"] = true
	} else {
		payload["context"] = c.webContext()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/"+method+"?prettyPrint=false", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Origin", baseWebURL)
	req.Header.Set("Referer", baseWebURL+"/")
	if android {
		req.Header.Set("User-Agent", c.androidUserAgent())
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", c.cfg.PlayerClientVersion)
	} else {
		req.Header.Set("User-Agent", webUserAgent)
		req.Header.Set("X-Youtube-Client-Name", "1")
		req.Header.Set("X-Youtube-Client-Version", c.cfg.ClientVersion)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("innertube %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("innertube %s: %w", method, extractor.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("innertube %s: HTTP %d: %s", method, resp.StatusCode, snippet)
	}

	var data map[string]interface{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	log.Debug().Str("method", method).Int("keys", len(data)).Msg("InnerTube response received")
	return data, nil
}

// alertError turns an ERROR alert in a browse response into ErrNotFound.
func alertError(data map[string]interface{}) error {
	alerts, _ := getSlice(data, "alerts")
	for _, alert := range alerts {
		kind, _ := getString(alert, "alertRenderer", "type")
		if kind == "ERROR" {
			text, _ := textAt(alert, "alertRenderer", "text")
			return fmt.Errorf("%s: %w", text, extractor.ErrNotFound)
		}
	}
	return nil
}
