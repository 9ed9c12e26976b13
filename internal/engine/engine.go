// Package engine implements the concurrent transfer engine that copies
// classified images into the destination tree. Work is drained in fixed-size
// batches across a bounded worker pool; individual failures are retried with
// backoff and never stop the run.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"

	"github.com/driftlight/snapsort/internal/common"
	"github.com/driftlight/snapsort/internal/model"
)

// Event describes the completion of one transfer, for progress observers.
type Event struct {
	Path      string
	Success   bool
	Completed int
	Total     int
}

// Config holds configuration options for the transfer engine.
type Config struct {
	// Workers bounds the number of concurrent copies within a batch.
	Workers int
	// BatchSize is the number of items dispatched per batch.
	BatchSize int
	// BackoffUnit is the base delay of the retry ladder. Production runs
	// use the 1-second default; tests shrink it.
	BackoffUnit time.Duration
	// ProgressWriter receives the per-batch progress bar. Nil disables it.
	ProgressWriter io.Writer
	// Events, when non-nil, receives a completion event per item. Sends
	// never block; a slow observer misses events rather than stalling
	// transfers.
	Events chan<- Event
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Workers:     4,
		BatchSize:   100,
		BackoffUnit: time.Second,
	}
}

// Summary reports the aggregate outcome of a run.
type Summary struct {
	Processed int64
	Errors    int64
	Elapsed   time.Duration
}

// Engine copies WorkItems into place.
type Engine struct {
	fs        afero.Fs
	stats     *model.RunStats
	cfg       Config
	completed atomic.Int64
}

// New creates a transfer engine. Zero or negative worker and batch settings
// fall back to defaults.
func New(fs afero.Fs, stats *model.RunStats, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Workers < 1 {
		cfg.Workers = def.Workers
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.BackoffUnit <= 0 {
		cfg.BackoffUnit = def.BackoffUnit
	}
	return &Engine{
		fs:    fs,
		stats: stats,
		cfg:   cfg,
	}
}

// Run drains the queue in sequential batches, dispatching each batch across
// the worker pool and waiting for it to finish before starting the next.
// Cancellation is honored between batches and inside retry backoff; a
// canceled run returns promptly with whatever counts it accumulated.
func (e *Engine) Run(ctx context.Context, items []model.WorkItem) Summary {
	start := time.Now()
	total := len(items)

	for len(items) > 0 {
		if ctx.Err() != nil {
			slog.Info("Transfer canceled, abandoning remaining work",
				"remaining", len(items))
			break
		}

		n := e.cfg.BatchSize
		if n > len(items) {
			n = len(items)
		}
		batch := items[:n]
		items = items[n:]

		e.runBatch(ctx, batch, total)
	}

	return Summary{
		Processed: e.stats.Processed(),
		Errors:    e.stats.Errors(),
		Elapsed:   time.Since(start),
	}
}

func (e *Engine) runBatch(ctx context.Context, batch []model.WorkItem, total int) {
	bar := e.newBar(len(batch))
	sem := make(chan struct{}, e.cfg.Workers)
	var wg sync.WaitGroup

	for _, item := range batch {
		wg.Add(1)
		go func(item model.WorkItem) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			ok := e.copyOne(ctx, item)

			if bar != nil {
				_ = bar.Add(1)
			}
			e.notify(item, ok, total)
		}(item)
	}

	wg.Wait()
	if bar != nil {
		_ = bar.Finish()
	}
}

func (e *Engine) newBar(size int) *progressbar.ProgressBar {
	if e.cfg.ProgressWriter == nil {
		return nil
	}
	return progressbar.NewOptions(size,
		progressbar.OptionSetWriter(e.cfg.ProgressWriter),
		progressbar.OptionSetDescription("Processing images"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

func (e *Engine) notify(item model.WorkItem, ok bool, total int) {
	done := int(e.completed.Add(1))
	if e.cfg.Events == nil {
		return
	}
	select {
	case e.cfg.Events <- Event{
		Path:      item.SourcePath,
		Success:   ok,
		Completed: done,
		Total:     total,
	}:
	default:
	}
}

// copyOne transfers a single item. A missing source or an uncreatable
// destination folder is terminal for the item; copy failures go through the
// retry ladder. The return value reports item success.
func (e *Engine) copyOne(ctx context.Context, item model.WorkItem) bool {
	if ok, err := afero.Exists(e.fs, item.SourcePath); err != nil || !ok {
		slog.Warn("Skipping item", "path", item.SourcePath, "error", common.ErrSourceMissing)
		return false
	}

	if err := e.fs.MkdirAll(item.DestFolder, 0o755); err != nil {
		e.stats.MarkError()
		slog.Error("Failed to create destination folder",
			"folder", item.DestFolder, "error", err)
		return false
	}

	destName := e.uniqueName(item.DestFolder, filepath.Base(item.SourcePath))
	destPath := filepath.Join(item.DestFolder, destName)

	err := common.WithRetry(ctx, func() error {
		return e.copyFile(item.SourcePath, destPath)
	}, common.RetryOptions{
		MaxAttempts:  5,
		InitialDelay: e.cfg.BackoffUnit,
		MaxDelay:     16 * e.cfg.BackoffUnit,
		Multiplier:   2.0,
		OnAttemptError: func(attempt int, attemptErr error) {
			// Counted per attempt, not per item.
			e.stats.MarkError()
			slog.Error("Copy attempt failed",
				"attempt", attempt,
				"source", item.SourcePath,
				"error", attemptErr)
		},
	})
	if err != nil {
		slog.Error("Failed to copy file",
			"source", item.SourcePath,
			"destination", destPath,
			"error", err)
		return false
	}

	e.stats.MarkProcessed()
	slog.Debug("Copied file", "source", item.SourcePath, "destination", destPath)
	return true
}

// uniqueName resolves filename collisions by appending " (n)" before the
// extension. The check-then-use here is best effort: two in-flight items
// with the same basename and destination can still race the final create.
func (e *Engine) uniqueName(folder, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	candidate := filename
	for n := 1; ; n++ {
		exists, err := afero.Exists(e.fs, filepath.Join(folder, candidate))
		if err != nil || !exists {
			return candidate
		}
		candidate = fmt.Sprintf("%s (%d)%s", base, n, ext)
	}
}

// copyFile copies content and preserves the source's mode and timestamps.
func (e *Engine) copyFile(src, dst string) error {
	info, err := e.fs.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	in, err := e.fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := e.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy content: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to finalize destination: %w", err)
	}

	if err := e.fs.Chtimes(dst, time.Now(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to preserve timestamps: %w", err)
	}
	return nil
}
