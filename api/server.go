// Package api serves the catalog queries as JSON, the stream relay and the operational endpoints.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/researchaccelerator-hub/media-gateway/common"
	"github.com/researchaccelerator-hub/media-gateway/config"
	"github.com/researchaccelerator-hub/media-gateway/metrics"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Catalog     Catalog
	Relay       http.Handler
	Metrics     *metrics.Registry
	CORSOrigins []string
}

// NewHandler builds the complete handler tree: routes, metrics, CORS and access logging.
func NewHandler(d Deps) http.Handler {
	reg := d.Metrics
	if reg == nil {
		reg = metrics.New()
	}
	h := &catalogHandlers{catalog: d.Catalog}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", reg.Wrap("index", http.HandlerFunc(handleIndex)))
	mux.Handle("GET /healthz", http.HandlerFunc(handleHealth))
	mux.Handle("GET /metrics", reg.Handler())

	mux.Handle("GET /api/video/{id}", reg.Wrap("video", http.HandlerFunc(h.video)))
	mux.Handle("GET /api/channel/{id}", reg.Wrap("channel", http.HandlerFunc(h.channel)))
	mux.Handle("GET /api/playlist/{id}", reg.Wrap("playlist", http.HandlerFunc(h.playlist)))
	mux.Handle("GET /api/search", reg.Wrap("search", http.HandlerFunc(h.search)))
	mux.Handle("GET /api/trending", reg.Wrap("trending", http.HandlerFunc(h.trending)))
	mux.Handle("GET /api/{kind}/{id}/summary", reg.Wrap("summary", http.HandlerFunc(h.summary)))

	if d.Relay != nil {
		mux.Handle("/vid/{videoId}/{itag}", reg.Wrap("relay", d.Relay))
	}

	return common.AccessLog(CORS(d.CORSOrigins, mux))
}

// Server is the gateway's HTTP listener.
type Server struct {
	srv *http.Server
}

// NewServer creates a server for handler. There is no write timeout: relayed transfers
// can last as long as the media does.
func NewServer(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// ListenAndServe blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.srv.Addr).Msg("Starting HTTP server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	log.Info().Str("addr", l.Addr().String()).Msg("Starting HTTP server")
	if err := s.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")
	return s.srv.Shutdown(ctx)
}
