package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/researchaccelerator-hub/media-gateway/aggregator"
	"github.com/researchaccelerator-hub/media-gateway/api"
	"github.com/researchaccelerator-hub/media-gateway/config"
	"github.com/researchaccelerator-hub/media-gateway/extractor/backend"
	"github.com/researchaccelerator-hub/media-gateway/metrics"
	"github.com/researchaccelerator-hub/media-gateway/relay"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address, e.g. 0.0.0.0:8080")
	lo.Must0(viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")))

	serveCmd.Flags().String("backend", "", "Extraction backend: innertube or dataapi")
	lo.Must0(viper.BindPFlag("extractor.backend", serveCmd.Flags().Lookup("backend")))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP gateway",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		l, err := net.Listen("tcp", cfg.Server.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
		}
		return run(ctx, cfg, l, backend.NewDefaultFactory())
	},
}

// run serves the gateway on l until ctx is cancelled, then drains in-flight requests
// for at most cfg.Server.ShutdownTimeout.
func run(ctx context.Context, cfg *config.GatewayConfig, l net.Listener, factory backend.Factory) error {
	backends, err := factory.Create(ctx, cfg)
	if err != nil {
		_ = l.Close()
		return fmt.Errorf("failed to create extraction backend: %w", err)
	}
	defer func() {
		if err := backends.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Error closing extraction backend")
		}
	}()

	registry := metrics.New()
	streams := relay.New(backends.Resolver, relay.NewHTTPClient(cfg.Relay))
	handler := api.NewHandler(api.Deps{
		Catalog:     aggregator.NewService(backends.Source, backends.Resolver),
		Relay:       relay.NewHandler(streams, cfg.Relay.BufferSize, registry),
		Metrics:     registry,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	srv := api.NewServer(cfg.Server, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(l)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("Media gateway stopped")
	return nil
}
