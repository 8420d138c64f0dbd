package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

var (
	inputDir  string
	outputDir string
)

var rootCmd = &cobra.Command{
	Use:   "docoutline",
	Short: "Extract titles and H1-H3 outlines from PDF documents",
	Long: `docoutline reads every PDF in the input directory and writes one JSON
outline record per document to the output directory.

A document's embedded table of contents is used when present; otherwise
headings are inferred from font sizes, boldness and numbering patterns.
A document that cannot be read still gets a record holding its file name
as the title and an empty outline.

Configuration is read from the environment (and a .env file if present).
--input and --output override INPUT_DIR and OUTPUT_DIR.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Starting processing pdfs")
		report, err := newRunner(cfg, out, log).Run(cmd.Context())
		if err != nil {
			log.Error("batch failed", "error", err)
			return err
		}
		fmt.Fprintln(out, "completed processing pdfs")

		c := report.Snapshot().Counts
		log.Debug("batch summary", "run_id", report.RunID, "total", c.Total, "degraded", c.Degraded)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&inputDir, "input", "", "input directory (default: $INPUT_DIR or /app/input)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", "", "output directory (default: $OUTPUT_DIR or /app/output)")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
}

// setup loads and validates configuration and builds the logger.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg := config.Load()
	if inputDir != "" {
		cfg.InputDir = inputDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	log := newLogger(cmd.ErrOrStderr(), cfg)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return cfg, log, err
	}
	return cfg, log, nil
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func newRunner(cfg config.Config, out io.Writer, log *slog.Logger) *pipeline.Runner {
	extractor := outline.NewExtractor(cfg.Thresholds(), log)
	return pipeline.NewRunner(cfg, extractor, pipeline.NewLatencyStats(cfg.StatsWindow), out, log)
}
