package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// Watcher runs the batch once, then processes files as they are created
// or rewritten in the input directory. Everything happens on the calling
// goroutine, so documents are still handled one at a time.
type Watcher struct {
	runner *Runner
	settle time.Duration
	log    *slog.Logger

	// last content hash written per input file name
	seen map[string]string
}

func NewWatcher(runner *Runner, settle time.Duration, log *slog.Logger) *Watcher {
	if settle <= 0 {
		settle = 750 * time.Millisecond
	}
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{
		runner: runner,
		settle: settle,
		log:    log,
		seen:   make(map[string]string),
	}
}

// Run blocks until ctx is cancelled. The returned report covers every
// file handled after the initial batch.
func (w *Watcher) Run(ctx context.Context) (*Report, error) {
	initial, err := w.runner.Run(ctx)
	if err != nil {
		return initial, err
	}
	for _, f := range initial.Snapshot().Files {
		w.seen[f.File] = f.ContentHash
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := w.runner.cfg.InputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create input dir: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	report := NewReport(uuid.NewString())
	log := w.log.With("run_id", report.RunID)
	log.Info("watching input directory", "input_dir", dir, "settle", w.settle.String())

	pending := make(map[string]time.Time)
	timer := time.NewTimer(w.settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			report.Finish()
			log.Info("watch stopped", "processed", len(report.Snapshot().Files))
			return report, nil

		case ev, ok := <-fw.Events:
			if !ok {
				report.Finish()
				return report, nil
			}
			name := filepath.Base(ev.Name)
			if !w.runner.Accepts(name) {
				continue
			}
			switch {
			case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
				pending[ev.Name] = time.Now()
				timer.Reset(w.settle)
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				delete(pending, ev.Name)
				delete(w.seen, name)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				report.Finish()
				return report, nil
			}
			log.Warn("watch error", "error", err)

		case <-timer.C:
			next := w.flush(log, report, pending)
			if next > 0 {
				timer.Reset(next)
			}
		}
	}
}

// flush processes every pending file whose events have settled and
// returns how long until the next one is due, or zero when none remain.
func (w *Watcher) flush(log *slog.Logger, report *Report, pending map[string]time.Time) time.Duration {
	now := time.Now()
	var (
		next  time.Duration
		ready []string
	)
	for path, last := range pending {
		wait := w.settle - now.Sub(last)
		if wait > 0 {
			if next == 0 || wait < next {
				next = wait
			}
			continue
		}
		ready = append(ready, path)
	}
	sort.Strings(ready)
	for _, path := range ready {
		delete(pending, path)
		w.handle(log, report, path)
	}
	return next
}

func (w *Watcher) handle(log *slog.Logger, report *Report, path string) {
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		// Removed before it settled.
		log.Debug("skipping unreadable file", "file", name, "error", err)
		return
	}
	if hash := ContentHashHex(data); w.seen[name] == hash {
		log.Debug("content unchanged, skipping", "file", name)
		return
	}

	fr := w.runner.ProcessFile(log, path)
	w.seen[name] = fr.ContentHash
	report.Add(fr)
}
