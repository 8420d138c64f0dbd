package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/google/uuid"
)

// Runner processes every matching file in the input directory, one at a
// time, writing one outline record per file.
type Runner struct {
	cfg       config.Config
	extractor *outline.Extractor
	stats     *LatencyStats
	out       io.Writer
	log       *slog.Logger
}

// NewRunner creates a runner. Progress lines are written to out.
func NewRunner(cfg config.Config, extractor *outline.Extractor, stats *LatencyStats, out io.Writer, log *slog.Logger) *Runner {
	if out == nil {
		out = io.Discard
	}
	if stats == nil {
		stats = NewLatencyStats(cfg.StatsWindow)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		cfg:       cfg,
		extractor: extractor,
		stats:     stats,
		out:       out,
		log:       log,
	}
}

// Stats returns the rolling latency tracker shared by every run.
func (r *Runner) Stats() *LatencyStats {
	return r.stats
}

// Run processes the current contents of the input directory. A failing
// document never stops the batch; only directory-level failures and
// cancellation between documents are returned as errors.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := NewReport(uuid.NewString())
	log := r.log.With("run_id", report.RunID)

	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	inputs, err := r.ListInputs()
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		fmt.Fprintln(r.out, "No PDF files found in input directory")
		log.Info("no input files", "input_dir", r.cfg.InputDir, "extensions", r.cfg.Extensions)
		report.Finish()
		return report, nil
	}

	log.Info("batch started", "input_dir", r.cfg.InputDir, "output_dir", r.cfg.OutputDir, "files", len(inputs))

	for _, path := range inputs {
		if err := ctx.Err(); err != nil {
			report.Finish()
			log.Warn("batch interrupted", "processed", len(report.Snapshot().Files), "error", err)
			return report, err
		}
		report.Add(r.ProcessFile(log, path))
	}

	report.Finish()
	snap := report.Snapshot()
	log.Info("batch complete",
		"total", snap.Counts.Total,
		"completed", snap.Counts.Completed,
		"degraded", snap.Counts.Degraded,
		"write_failed", snap.Counts.WriteFailed,
		"p95_ms", snap.Latency.P95Ms,
		"elapsed", snap.FinishedAt.Sub(snap.StartedAt).String(),
	)
	return report, nil
}

// ListInputs returns the matching files in the input directory in
// lexical order. A missing directory has no inputs.
func (r *Runner) ListInputs() ([]string, error) {
	entries, err := os.ReadDir(r.cfg.InputDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !r.Accepts(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(r.cfg.InputDir, e.Name()))
	}
	return paths, nil
}

// Accepts reports whether name is configured for processing and has a
// parser.
func (r *Runner) Accepts(name string) bool {
	return r.cfg.Accepts(name) && parser.IsSupportedExtension(name)
}

// ProcessFile extracts and writes the record for one input file.
func (r *Runner) ProcessFile(log *slog.Logger, path string) FileResult {
	name := filepath.Base(path)
	stem := Stem(path)
	outPath := OutputPath(r.cfg.OutputDir, path)
	log = log.With("file", name)

	var hash string
	start := time.Now()
	res := r.extractor.Process(path, stem, func() (outline.Source, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		hash = ContentHashHex(data)
		return ParseDocument(bytes.NewReader(data), name)
	})
	elapsed := time.Since(start)
	r.stats.Record(elapsed)

	fr := FileResult{
		File:        name,
		Output:      filepath.Base(outPath),
		Status:      StatusCompleted,
		Title:       res.Outline.Title,
		Headings:    len(res.Outline.Headings),
		Duration:    elapsed,
		ContentHash: hash,
	}

	if res.Degraded() {
		fr.Status = StatusDegraded
		fr.Error = res.Err.Error()
		log.Warn("extraction failed, writing fallback", "error", res.Err)
		fmt.Fprintf(r.out, "Error processing %s: %v\n", name, res.Err)
	}

	if err := WriteOutline(outPath, res.Outline, r.cfg.ValidateOutput); err != nil {
		log.Error("write failed", "output", fr.Output, "error", err)
		fmt.Fprintf(r.out, "Error processing %s: %v\n", name, err)

		fallback := outline.Fallback(stem)
		fr.Status = StatusWriteFailed
		fr.Error = err.Error()
		fr.Title = fallback.Title
		fr.Headings = 0

		if ferr := WriteOutline(outPath, fallback, false); ferr != nil {
			log.Error("fallback write failed", "output", fr.Output, "error", ferr)
			fr.Error = fmt.Sprintf("%s; fallback: %s", fr.Error, ferr)
			return fr
		}
		fmt.Fprintf(r.out, "Processed %s -> %s (with errors)\n", name, fr.Output)
		return fr
	}

	log.Info("outline written",
		"output", fr.Output,
		"title", fr.Title,
		"headings", fr.Headings,
		"duration_ms", elapsed.Milliseconds(),
	)
	fmt.Fprintf(r.out, "Processed %s -> %s\n", name, fr.Output)
	return fr
}

// ParseDocument parses r with the parser registered for filename's
// extension.
func ParseDocument(r io.Reader, filename string) (outline.Source, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(r, filename)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
