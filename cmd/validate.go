package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"firestige.xyz/sharp/internal/config"
	"firestige.xyz/sharp/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a raw CCSDS telemetry file",
	Long: `Validate a raw CCSDS telemetry file and print every finding.

Baseline checks (header version, sequence continuity, truncation, trailing
bytes) always run. --apid restricts the accepted APIDs; the configured
validators run afterwards. Exits non-zero when there is any finding.

Examples:
  sharp validate -f PADRESP13_250503042550.DAT
  sharp validate -f PADRESP13_250503042550.DAT --apid 160 --apid 161 --checksum xor --strict`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runValidate(cmd.Context(), cfg, validateFlags, cmd.OutOrStdout())
	},
}

// validateOptions are the command line overrides of the validation section.
type validateOptions struct {
	File     string
	APIDs    []uint
	Strict   bool
	Checksum string
}

var validateFlags validateOptions

func init() {
	f := validateCmd.Flags()
	f.StringVarP(&validateFlags.File, "file", "f", "", "telemetry file to validate (required)")
	f.UintSliceVar(&validateFlags.APIDs, "apid", nil, "valid APID, repeatable (default: validation.valid_apids)")
	f.BoolVar(&validateFlags.Strict, "strict", false, "abort on the first failing validator")
	f.StringVar(&validateFlags.Checksum, "checksum", "", "checksum algorithm none|xor, replaces the configured checksum validator")
	validateCmd.MarkFlagRequired("file")
}

func runValidate(ctx context.Context, cfg *config.Config, flags validateOptions, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	vc, err := applyValidateFlags(cfg.Validation, flags)
	if err != nil {
		return err
	}
	opts, err := vc.Options(validation.NewRegistry(), nil)
	if err != nil {
		return err
	}

	report, err := validation.ValidateFile(ctx, flags.File, opts)
	if err != nil {
		return err
	}
	for _, line := range report.Strings() {
		fmt.Fprintln(w, line)
	}
	if report.Len() > 0 {
		return fmt.Errorf("%s: %d validation finding(s)", flags.File, report.Len())
	}
	fmt.Fprintf(w, "VALID: %s\n", flags.File)
	return nil
}

func applyValidateFlags(vc config.ValidationConfig, flags validateOptions) (config.ValidationConfig, error) {
	if len(flags.APIDs) > 0 {
		vc.ValidAPIDs = make([]uint16, 0, len(flags.APIDs))
		for _, apid := range flags.APIDs {
			if apid > 0x7FF {
				return vc, fmt.Errorf("APID %d does not fit in 11 bits", apid)
			}
			vc.ValidAPIDs = append(vc.ValidAPIDs, uint16(apid))
		}
	}
	if flags.Strict {
		vc.Strict = true
	}
	if flags.Checksum != "" {
		validators := make([]validation.ValidatorConfig, 0, len(vc.Validators)+1)
		for _, v := range vc.Validators {
			if v.Name != "checksum" {
				validators = append(validators, v)
			}
		}
		vc.Validators = append(validators, validation.ValidatorConfig{
			Name:    "checksum",
			Options: map[string]any{"algorithm": flags.Checksum},
		})
	}
	return vc, nil
}
