package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/sharp/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create the configuration",
	Long: `Inspect and create the sharp configuration.

Subcommands:
  print  - Print the effective configuration
  init   - Write the default configuration to the config dir`,
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		return runConfigPrint(cfg, cmd.OutOrStdout())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long: `Write the default configuration to config.yml in $SHARP_CONFIGDIR
(default: <user config dir>/sharp). An existing file is only replaced with
--overwrite, and is kept as config.yml.bak.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		return runConfigInit(dir, configInitOverwrite, cmd.OutOrStdout())
	},
}

var configInitOverwrite bool

func init() {
	configCmd.AddCommand(configPrintCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&configInitOverwrite, "overwrite", false, "replace an existing config file")
}

func runConfigPrint(cfg *config.Config, w io.Writer) error {
	return config.Dump(cfg, w)
}

func runConfigInit(dir string, overwrite bool, w io.Writer) error {
	path, err := config.WriteDefault(dir, overwrite)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w (use --overwrite to replace it)", err)
		}
		return err
	}
	fmt.Fprintf(w, "✓ Configuration written to %s\n", path)
	return nil
}
