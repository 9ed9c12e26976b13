// Package main contains the snapsort CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/driftlight/snapsort/internal/cli"
	"github.com/driftlight/snapsort/internal/common"
	"github.com/driftlight/snapsort/internal/config"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "snapsort [input-directory]",
		Short: "📷 Sort photo collections by size, quality, and shape",
		Long: `snapsort classifies images by pixel dimensions, resolution, and
modification date, then copies them into a destination tree that reflects the
classification. Sources are never modified.

An optional positional argument overrides the configured input directory.`,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: initConfig,
		RunE:              runSort,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/snapsort/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Sort flags live on the root command; sorting is the default action.
	rootCmd.Flags().Bool("dry-run", false, "Classify and report without copying")
	rootCmd.Flags().Bool("tui", false, "Show a live progress view during transfer")
	rootCmd.Flags().IntP("workers", "w", 0, "Concurrent copy workers (0 = configured value)")
	rootCmd.Flags().IntP("batch-size", "b", 0, "Items per transfer batch (0 = configured value)")

	_ = viper.BindPFlag("sort.dry_run", rootCmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("sort.tui", rootCmd.Flags().Lookup("tui"))

	// Add commands
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Signal handling belongs to the command's InterruptHandler; registering
	// it here as well would fire two handlers on the same SIGINT.
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		var uerr *common.UserError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, cli.FormatError(uerr.UserMessage))
			slog.Debug("Command failed", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/snapsort", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("SNAPSORT")
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Override worker and batch settings from flags when given.
	if workers, err := cmd.Flags().GetInt("workers"); err == nil && workers > 0 {
		viper.Set("max_workers", workers)
	}
	if batch, err := cmd.Flags().GetInt("batch-size"); err == nil && batch > 0 {
		viper.Set("batch_size", batch)
	}

	return setupLogging()
}

func setupLogging() error {
	level := viper.GetString("logging.level")
	format := viper.GetString("logging.format")

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	return common.SetupLogger(slogLevel, format)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			slog.Info("snapsort version", "version", version)
		},
	}
}
