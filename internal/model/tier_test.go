package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeFor(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  ShapeLabel
	}{
		{name: "perfect square", ratio: 1.0, want: ShapeSquare},
		{name: "lower square boundary", ratio: 0.9, want: ShapeSquare},
		{name: "upper square boundary", ratio: 1.1, want: ShapeSquare},
		{name: "landscape", ratio: 1.5, want: ShapeLandscape},
		{name: "landscape boundary", ratio: 2.0, want: ShapeLandscape},
		{name: "portrait", ratio: 0.75, want: ShapePortrait},
		{name: "portrait boundary", ratio: 0.5, want: ShapePortrait},
		{name: "wide banner", ratio: 3.0, want: ShapeBanner},
		{name: "just past landscape", ratio: 2.01, want: ShapeBanner},
		{name: "tall banner", ratio: 0.2, want: ShapeBanner},
		{name: "just below portrait", ratio: 0.49, want: ShapeBanner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShapeFor(tt.ratio))
		})
	}
}

func TestFolderNamesValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(FolderNames)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(FolderNames) {},
		},
		{
			name:    "missing tier",
			mutate:  func(f FolderNames) { delete(f, TierErrors) },
			wantErr: "missing",
		},
		{
			name:    "empty name",
			mutate:  func(f FolderNames) { f[TierSmall] = "" },
			wantErr: "missing",
		},
		{
			name:    "forward slash",
			mutate:  func(f FolderNames) { f[TierLarge] = "Large/Files" },
			wantErr: "path separator",
		},
		{
			name:    "backslash",
			mutate:  func(f FolderNames) { f[TierXLarge] = `XL\Files` },
			wantErr: "path separator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := DefaultFolderNames()
			tt.mutate(names)
			err := names.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunStatsConcurrentIncrements(t *testing.T) {
	var stats RunStats

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 1000; j++ {
				stats.MarkProcessed()
				stats.MarkError()
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	assert.Equal(t, int64(8000), stats.Processed())
	assert.Equal(t, int64(8000), stats.Errors())
}
