package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/driftlight/snapsort/internal/cli"
	"github.com/driftlight/snapsort/internal/common"
	"github.com/driftlight/snapsort/internal/config"
	"github.com/driftlight/snapsort/internal/model"
)

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [input-directory]",
		Short: "Classify images and report destinations without copying",
		Long: `Walk the input tree, classify every supported image, and print a census
of where each file would land. No files are copied and no directories are
created.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		viper.Set("input_directory", args[0])
	}

	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return common.NewUserError("Configuration is invalid", err)
	}

	ctx = cli.NewInterruptHandler(out).HandleInterrupts(ctx)

	fmt.Fprintln(out, cli.FormatTitle("Scanning "+cfg.InputDir))

	fs := afero.NewOsFs()
	stats := &model.RunStats{}

	queue, err := buildQueue(ctx, fs, cfg, stats)
	if err != nil {
		return err
	}

	printCensus(out, queue)
	if errs := stats.Errors(); errs > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d files could not be classified.", errs)))
	}
	return nil
}

// printCensus prints how many files map to each destination folder.
func printCensus(w io.Writer, queue []model.WorkItem) {
	counts := make(map[string]int)
	for _, item := range queue {
		counts[item.DestFolder]++
	}

	folders := make([]string, 0, len(counts))
	for folder := range counts {
		folders = append(folders, folder)
	}
	sort.Strings(folders)

	for _, folder := range folders {
		fmt.Fprintf(w, "  %6d  %s\n", counts[folder], folder)
	}
	fmt.Fprintf(w, "  %6d  total\n", len(queue))
}
