// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"firestige.xyz/sharp/internal/config"
	"firestige.xyz/sharp/internal/filename"
	"firestige.xyz/sharp/internal/log"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sharp",
	Short: "PADRE SHARP file naming and telemetry validation",
	Long: `sharp handles PADRE SHARP mission data files.

It encodes and decodes science file names, validates raw CCSDS telemetry
and drives a raw file through the processing chain to its next product.

Configuration is read from --config, or config.yml in $SHARP_CONFIGDIR
(default: <user config dir>/sharp). SHARP_* environment variables override
any key, e.g. SHARP_LOG_LEVEL=debug.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (default: $SHARP_CONFIGDIR/config.yml)")

	rootCmd.AddCommand(filenameCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the configuration and initializes the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := log.Init(cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, nil
}

func newCodec(cfg *config.Config) *filename.Codec {
	return filename.NewCodec(cfg.Vocabulary)
}
