package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"firestige.xyz/sharp/internal/config"
	"firestige.xyz/sharp/internal/log"
	"firestige.xyz/sharp/internal/metrics"
	"firestige.xyz/sharp/internal/pipeline"
	"firestige.xyz/sharp/internal/validation"
)

var processCmd = &cobra.Command{
	Use:   "process <file>...",
	Short: "Run files through the processing chain",
	Long: `Validate raw telemetry and create the next data product of each file:
raw -> l0, l0 -> l1, l1 -> ql. The created paths are printed one per line.

Examples:
  sharp process PADRESP13_250503042550.DAT
  sharp process --output-dir /data/l1 padre_sharp_l0_20250503T042550_v0.0.0.fits
  sharp process --metrics-file /var/lib/node_exporter/sharp.prom *.DAT`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runProcess(cmd.Context(), cfg, processFlags, args, log.GetLogger(), cmd.OutOrStdout())
	},
}

type processOptions struct {
	OutputDir   string
	MetricsFile string
}

var processFlags processOptions

func init() {
	f := processCmd.Flags()
	f.StringVarP(&processFlags.OutputDir, "output-dir", "o", "", "directory for created products (default: pipeline.output_dir or the temp dir)")
	f.StringVar(&processFlags.MetricsFile, "metrics-file", "", "write validation metrics here in Prometheus text format (default: metrics.textfile)")
}

func runProcess(ctx context.Context, cfg *config.Config, flags processOptions, files []string, logger log.Logger, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	outputDir := cfg.Pipeline.OutputDir
	if flags.OutputDir != "" {
		outputDir = flags.OutputDir
	}
	metricsFile := cfg.Metrics.Textfile
	if flags.MetricsFile != "" {
		metricsFile = flags.MetricsFile
	}

	var rec *metrics.Recorder
	if metricsFile != "" {
		rec = metrics.NewRecorder()
	}
	opts, err := cfg.Validation.Options(validation.NewRegistry(), rec)
	if err != nil {
		return err
	}

	p := pipeline.New(pipeline.Config{
		Codec:      newCodec(cfg),
		Validation: opts,
		OutputDir:  outputDir,
		Logger:     logger,
	})
	outputs, runErr := p.ProcessFiles(ctx, files)
	for _, out := range outputs {
		fmt.Fprintln(w, out)
	}

	if rec != nil {
		if err := rec.WriteTextfile(metricsFile); err != nil {
			logger.WithError(err).Errorf("Could not write metrics to %s.", metricsFile)
		}
	}
	m := p.Metrics()
	logger.WithFields(map[string]interface{}{
		"processed": m.Processed.Load(),
		"produced":  m.Produced.Load(),
		"failed":    m.Failed.Load(),
		"findings":  m.Findings.Load(),
	}).Info("Processing finished.")
	return runErr
}
