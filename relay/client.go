package relay

import (
	"net"
	"net/http"
	"time"

	"github.com/researchaccelerator-hub/media-gateway/config"
)

// NewHTTPClient builds the pooled client for origin fetches.
// It never follows redirects itself and has no overall timeout, since a transfer may
// legitimately run for a long time; ResponseHeaderTimeout bounds each hop instead.
func NewHTTPClient(cfg config.RelayConfig) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: 30 * time.Second,
	}

	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          cfg.MaxIdleConns,
			MaxIdleConnsPerHost:   max(cfg.MaxIdleConns/4, 2),
			IdleConnTimeout:       cfg.IdleConnTimeout,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: cfg.FetchTimeout,
			// Bodies are relayed as the origin sent them, Content-Length included
			DisableCompression: true,
		},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
