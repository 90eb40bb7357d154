// Package cmd implements the media-gateway command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/researchaccelerator-hub/media-gateway/common"
	"github.com/researchaccelerator-hub/media-gateway/config"
)

var cfgFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a gateway.yaml file (default ./gateway.yaml or /etc/media-gateway/gateway.yaml)")

	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	lo.Must0(viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")))

	rootCmd.PersistentFlags().String("log-format", "", "Log output: json or console")
	lo.Must0(viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format")))
}

var rootCmd = &cobra.Command{
	Use:           "media-gateway",
	Short:         "Catalog aggregation API and media stream relay",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration from the bound flags, file and environment
// and configures the global logger from it.
func loadConfig() (*config.GatewayConfig, error) {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, err
	}
	if err := common.SetupLogging(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}
