package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlight/snapsort/internal/common"
	"github.com/driftlight/snapsort/internal/model"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(newViper(t))
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.InputDir))
	assert.True(t, filepath.IsAbs(cfg.DestDir))
	assert.Equal(t, 1000, cfg.LargePixelThreshold)
	assert.Equal(t, 2000, cfg.XLPixelThreshold)
	assert.Equal(t, 300, cfg.QualityDPIThreshold)
	assert.Equal(t, 2016, cfg.MinModificationYear)
	assert.False(t, cfg.KeepDirectoryStructure)
	assert.True(t, cfg.SortWithImageShape)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.GreaterOrEqual(t, cfg.MaxWorkers, 1)
	assert.Equal(t, "Best Quality", cfg.FolderNames[model.TierBestQuality])
	assert.Equal(t, "Errors", cfg.FolderNames[model.TierErrors])
}

func TestFromViperOverrides(t *testing.T) {
	v := newViper(t)
	v.Set("large_pixel_threshold", 800)
	v.Set("folder_names.small", "Tiny")
	v.Set("max_workers", 2)

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.LargePixelThreshold)
	assert.Equal(t, "Tiny", cfg.FolderNames[model.TierSmall])
	assert.Equal(t, 2, cfg.MaxWorkers)
}

func TestFromViperValidation(t *testing.T) {
	tests := []struct {
		name string
		set  func(v *viper.Viper)
	}{
		{name: "zero batch size", set: func(v *viper.Viper) { v.Set("batch_size", 0) }},
		{name: "zero workers", set: func(v *viper.Viper) { v.Set("max_workers", 0) }},
		{name: "negative threshold", set: func(v *viper.Viper) { v.Set("large_pixel_threshold", -1) }},
		{name: "inverted thresholds", set: func(v *viper.Viper) {
			v.Set("large_pixel_threshold", 3000)
			v.Set("xl_pixel_threshold", 2000)
		}},
		{name: "folder name with separator", set: func(v *viper.Viper) { v.Set("folder_names.errors", "bad/name") }},
		{name: "empty folder name", set: func(v *viper.Viper) { v.Set("folder_names.large", "") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper(t)
			tt.set(v)
			_, err := FromViper(v)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("SNAPSORT_TEST_DIR", "/srv/photos")

	assert.Equal(t, "/srv/photos/in", ExpandPath("$SNAPSORT_TEST_DIR/in"))
	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/plain/path", ExpandPath("/plain/path"))
}
