package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/driftlight/snapsort/internal/classifier"
	"github.com/driftlight/snapsort/internal/cli"
	"github.com/driftlight/snapsort/internal/common"
	"github.com/driftlight/snapsort/internal/config"
	"github.com/driftlight/snapsort/internal/engine"
	"github.com/driftlight/snapsort/internal/model"
	"github.com/driftlight/snapsort/internal/scanner"
	"github.com/driftlight/snapsort/internal/tui"
)

// traversalSink routes walker failures into the run statistics and the log.
type traversalSink struct {
	stats *model.RunStats
}

func (s *traversalSink) RecordError(path string, err error) {
	s.stats.MarkError()
	slog.Error("Traversal error", "path", path, "error", err)
}

func runSort(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	start := time.Now()

	if len(args) == 1 {
		viper.Set("input_directory", args[0])
	}

	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return common.NewUserError("Configuration is invalid", err)
	}

	dryRun := viper.GetBool("sort.dry_run")
	useTUI := viper.GetBool("sort.tui")

	handler := cli.NewInterruptHandler(out)
	ctx = handler.HandleInterrupts(ctx)

	fmt.Fprintln(out, cli.FormatTitle("Starting image sorting..."))
	slog.Info("Starting image sorting",
		"input", cfg.InputDir,
		"destination", cfg.DestDir,
		"workers", cfg.MaxWorkers,
		"batch_size", cfg.BatchSize)

	fs := afero.NewOsFs()
	stats := &model.RunStats{}

	queue, err := buildQueue(ctx, fs, cfg, stats)
	if err != nil {
		return err
	}
	slog.Info("Classification complete", "queued", len(queue))

	if dryRun {
		fmt.Fprintln(out, cli.FormatInfo("Dry run: nothing will be copied."))
		printCensus(out, queue)
		return nil
	}

	if err := fs.MkdirAll(cfg.DestDir, 0o755); err != nil {
		stats.MarkError()
		slog.Error("Failed to create destination root", "path", cfg.DestDir, "error", err)
		fmt.Fprintln(out, cli.FormatError("Could not create the destination root; see log for details."))
	}

	engineCfg := engine.Config{
		Workers:     cfg.MaxWorkers,
		BatchSize:   cfg.BatchSize,
		BackoffUnit: time.Second,
	}

	var summary engine.Summary
	if useTUI {
		summary = runWithTUI(ctx, fs, stats, engineCfg, queue)
	} else {
		engineCfg.ProgressWriter = out
		eng := engine.New(fs, stats, engineCfg)
		summary = eng.Run(ctx, queue)
	}

	// The reported time covers the whole run, scanning and classification
	// included, not just the transfer phase.
	summary.Elapsed = time.Since(start)
	cli.WriteSummary(out, summary, handler.WasInterrupted())
	return nil
}

// buildQueue walks the input tree and classifies every candidate image,
// producing the transfer queue. Scanner and classifier run sequentially;
// only the transfer phase is concurrent.
func buildQueue(ctx context.Context, fs afero.Fs, cfg *config.Config, stats *model.RunStats) ([]model.WorkItem, error) {
	walker, err := scanner.New(fs, cfg.InputDir, &traversalSink{stats: stats})
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	clf := classifier.New(fs, cfg, stats)

	var queue []model.WorkItem
	if err := walker.Walk(ctx, func(path string) {
		queue = append(queue, clf.Classify(path))
	}); err != nil {
		return nil, err
	}
	return queue, nil
}

// runWithTUI runs the engine in the background while the progress view owns
// the terminal. Quitting the view cancels the run.
func runWithTUI(ctx context.Context, fs afero.Fs, stats *model.RunStats, engineCfg engine.Config, queue []model.WorkItem) engine.Summary {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan engine.Event, 64)
	engineCfg.Events = events

	eng := engine.New(fs, stats, engineCfg)
	summaryCh := make(chan engine.Summary, 1)
	go func() {
		summaryCh <- eng.Run(ctx, queue)
		close(events)
	}()

	if err := tui.Run(events, len(queue), cancel); err != nil {
		slog.Error("Progress view failed", "error", err)
	}
	return <-summaryCh
}
