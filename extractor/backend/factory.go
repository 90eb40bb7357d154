// Package backend builds the extraction backends selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/researchaccelerator-hub/media-gateway/config"
	"github.com/researchaccelerator-hub/media-gateway/extractor"
	"github.com/researchaccelerator-hub/media-gateway/extractor/dataapi"
	"github.com/researchaccelerator-hub/media-gateway/extractor/innertube"
)

// connector is implemented by every backend client.
type connector interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

// Backends is the connected catalog source plus the stream resolver used by the relay.
// The Data API cannot list stream renditions, so streams always come from InnerTube.
type Backends struct {
	Source   extractor.Source
	Resolver extractor.StreamResolver

	clients []connector
}

// Factory creates backends from the gateway configuration
type Factory interface {
	Create(ctx context.Context, cfg *config.GatewayConfig) (*Backends, error)
}

// DefaultFactory implements Factory with the real InnerTube and Data API clients.
type DefaultFactory struct {
	innerTubeOpts []innertube.Option
}

// NewDefaultFactory creates a new DefaultFactory. The options are passed to the InnerTube client.
func NewDefaultFactory(opts ...innertube.Option) *DefaultFactory {
	return &DefaultFactory{innerTubeOpts: opts}
}

// Create connects the backend named by cfg.Extractor.Backend.
func (f *DefaultFactory) Create(ctx context.Context, cfg *config.GatewayConfig) (*Backends, error) {
	it := innertube.NewClient(&cfg.InnerTube, f.innerTubeOpts...)
	b := &Backends{Resolver: it}

	switch cfg.Extractor.Backend {
	case config.BackendInnerTube:
		b.Source = it
		b.clients = []connector{it}
	case config.BackendDataAPI:
		api, err := dataapi.NewClient(cfg.Extractor, cfg.InnerTube.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create data api client: %w", err)
		}
		b.Source = api
		b.clients = []connector{api, it}
	default:
		return nil, fmt.Errorf("unsupported extractor backend: %s", cfg.Extractor.Backend)
	}

	for i, c := range b.clients {
		if err := c.Connect(ctx); err != nil {
			for _, connected := range b.clients[:i] {
				_ = connected.Disconnect(ctx)
			}
			return nil, fmt.Errorf("failed to connect %s backend: %w", cfg.Extractor.Backend, err)
		}
	}

	log.Info().Str("backend", cfg.Extractor.Backend).Msg("Extraction backend ready")
	return b, nil
}

// Close disconnects every client. The first error is returned.
func (b *Backends) Close(ctx context.Context) error {
	var first error
	for _, c := range b.clients {
		if err := c.Disconnect(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
