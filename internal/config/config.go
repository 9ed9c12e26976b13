// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/driftlight/snapsort/internal/common"
	"github.com/driftlight/snapsort/internal/model"
)

// Logging holds the log output settings.
type Logging struct {
	Level  string
	Format string
}

// Config is the full runtime configuration for a sorting run. It is owned by
// the caller and read-only to the pipeline packages.
type Config struct {
	// InputDir is the absolute root of the tree to scan.
	InputDir string
	// DestDir is the absolute root of the sorted output tree.
	DestDir string

	LargePixelThreshold int
	XLPixelThreshold    int
	QualityDPIThreshold int
	MinModificationYear int

	KeepDirectoryStructure bool
	SortWithImageShape     bool

	FolderNames model.FolderNames

	MaxWorkers int
	BatchSize  int

	Logging Logging
}

// SetDefaults registers every configuration default on the given viper
// instance. Unknown keys in the config file, including the conventional
// underscore-prefixed comment keys, are simply never read.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input_directory", "data/Images")
	v.SetDefault("destination_directory", "Sorted Images")
	v.SetDefault("large_pixel_threshold", 1000)
	v.SetDefault("xl_pixel_threshold", 2000)
	v.SetDefault("quality_dpi_threshold", 300)
	v.SetDefault("min_modification_year", 2016)
	v.SetDefault("keep_directory_structure", false)
	v.SetDefault("sort_with_image_shape", true)
	v.SetDefault("max_workers", runtime.NumCPU())
	v.SetDefault("batch_size", 100)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	for tier, name := range model.DefaultFolderNames() {
		v.SetDefault("folder_names."+string(tier), name)
	}
}

// FromViper builds a Config from the given viper instance and validates it.
// Both directory roots are resolved to absolute paths.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		InputDir:               ExpandPath(v.GetString("input_directory")),
		DestDir:                ExpandPath(v.GetString("destination_directory")),
		LargePixelThreshold:    v.GetInt("large_pixel_threshold"),
		XLPixelThreshold:       v.GetInt("xl_pixel_threshold"),
		QualityDPIThreshold:    v.GetInt("quality_dpi_threshold"),
		MinModificationYear:    v.GetInt("min_modification_year"),
		KeepDirectoryStructure: v.GetBool("keep_directory_structure"),
		SortWithImageShape:     v.GetBool("sort_with_image_shape"),
		MaxWorkers:             v.GetInt("max_workers"),
		BatchSize:              v.GetInt("batch_size"),
		Logging: Logging{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	cfg.FolderNames = model.DefaultFolderNames()
	for tier, name := range v.GetStringMapString("folder_names") {
		cfg.FolderNames[model.SizeTier(tier)] = name
	}

	var err error
	if cfg.InputDir, err = filepath.Abs(cfg.InputDir); err != nil {
		return nil, fmt.Errorf("failed to resolve input directory: %w", err)
	}
	if cfg.DestDir, err = filepath.Abs(cfg.DestDir); err != nil {
		return nil, fmt.Errorf("failed to resolve destination directory: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the cross-field invariants a run depends on.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("%w: input directory must be set", common.ErrInvalidConfig)
	}
	if c.DestDir == "" {
		return fmt.Errorf("%w: destination directory must be set", common.ErrInvalidConfig)
	}
	if c.LargePixelThreshold <= 0 || c.XLPixelThreshold <= 0 {
		return fmt.Errorf("%w: pixel thresholds must be positive", common.ErrInvalidConfig)
	}
	if c.XLPixelThreshold < c.LargePixelThreshold {
		return fmt.Errorf("%w: xl_pixel_threshold (%d) is below large_pixel_threshold (%d)",
			common.ErrInvalidConfig, c.XLPixelThreshold, c.LargePixelThreshold)
	}
	if c.QualityDPIThreshold <= 0 {
		return fmt.Errorf("%w: quality_dpi_threshold must be positive", common.ErrInvalidConfig)
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("%w: max_workers must be at least 1", common.ErrInvalidConfig)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be at least 1", common.ErrInvalidConfig)
	}
	if err := c.FolderNames.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	return nil
}
