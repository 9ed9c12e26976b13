// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
)

// SizeTier buckets an image by its pixel dimensions, resolution, and age.
type SizeTier string

// Size tier constants.
const (
	TierSmall       SizeTier = "small"
	TierStandard    SizeTier = "standard"
	TierLarge       SizeTier = "large"
	TierXLarge      SizeTier = "xlarge"
	TierBestQuality SizeTier = "best_quality"
	// TierErrors is the redirect bucket for images whose metadata could not
	// be read. It is a destination like any other tier, not a dropped item.
	TierErrors SizeTier = "errors"
)

// AllTiers lists every tier that must have a display name configured.
var AllTiers = []SizeTier{
	TierSmall,
	TierStandard,
	TierLarge,
	TierXLarge,
	TierBestQuality,
	TierErrors,
}

// ShapeLabel describes an image's aspect ratio bucket.
type ShapeLabel string

// Shape label constants.
const (
	ShapeSquare    ShapeLabel = "square"
	ShapeLandscape ShapeLabel = "landscape"
	ShapePortrait  ShapeLabel = "portrait"
	ShapeBanner    ShapeLabel = "banner"
)

// ShapeFor buckets an aspect ratio. Ratios at the square boundaries count as
// square; anything wider than 2:1 or taller than 1:2 is a banner.
func ShapeFor(ratio float64) ShapeLabel {
	switch {
	case ratio >= 0.9 && ratio <= 1.1:
		return ShapeSquare
	case ratio > 1.1 && ratio <= 2.0:
		return ShapeLandscape
	case ratio >= 0.5 && ratio < 0.9:
		return ShapePortrait
	default:
		return ShapeBanner
	}
}

// FolderNames maps every size tier to the directory name used for it in the
// destination tree. The mapping must be total: a missing or malformed name is
// a configuration error, caught at load time rather than mid-run.
type FolderNames map[SizeTier]string

// DefaultFolderNames returns the stock display names.
func DefaultFolderNames() FolderNames {
	return FolderNames{
		TierSmall:       "Small",
		TierStandard:    "Standard",
		TierLarge:       "Large",
		TierXLarge:      "XLarge",
		TierBestQuality: "Best Quality",
		TierErrors:      "Errors",
	}
}

// Validate checks that every tier has a usable directory name.
func (f FolderNames) Validate() error {
	for _, tier := range AllTiers {
		name, ok := f[tier]
		if !ok || name == "" {
			return fmt.Errorf("folder name for %q is missing", tier)
		}
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("folder name for %q contains a path separator: %q", tier, name)
		}
	}
	return nil
}
