// Package classifier maps image metadata to a destination folder. The
// mapping is deterministic and total: every path yields exactly one folder,
// with unreadable images redirected to the errors folder rather than
// dropped.
package classifier

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/driftlight/snapsort/internal/common"
	"github.com/driftlight/snapsort/internal/config"
	"github.com/driftlight/snapsort/internal/imagemeta"
	"github.com/driftlight/snapsort/internal/model"
)

// Classifier computes destination folders for candidate images.
type Classifier struct {
	fs    afero.Fs
	cfg   *config.Config
	stats *model.RunStats
}

// New creates a Classifier. The config must already be validated.
func New(fs afero.Fs, cfg *config.Config, stats *model.RunStats) *Classifier {
	return &Classifier{
		fs:    fs,
		cfg:   cfg,
		stats: stats,
	}
}

// Classify turns a source path into a WorkItem. Metadata failures redirect
// the item to the errors folder and are counted; they never abort the run.
func (c *Classifier) Classify(path string) model.WorkItem {
	info, err := imagemeta.Probe(c.fs, path)
	if err != nil {
		return c.errorItem(path, err)
	}

	if info.Height == 0 {
		return c.errorItem(path, common.ErrZeroHeight)
	}

	folder := c.baseFolder(path)
	folder = filepath.Join(folder, c.cfg.FolderNames[c.sizeTier(info)])

	if c.cfg.SortWithImageShape {
		ratio := float64(info.Width) / float64(info.Height)
		folder = filepath.Join(folder, string(model.ShapeFor(ratio)))
	}

	return model.WorkItem{SourcePath: path, DestFolder: folder}
}

// baseFolder is the destination root, optionally extended with the source's
// position relative to the input root.
func (c *Classifier) baseFolder(path string) string {
	if !c.cfg.KeepDirectoryStructure {
		return c.cfg.DestDir
	}

	rel, err := filepath.Rel(c.cfg.InputDir, filepath.Dir(path))
	if err != nil || rel == "." {
		return c.cfg.DestDir
	}
	return filepath.Join(c.cfg.DestDir, rel)
}

// sizeTier buckets the image. Comparisons are strict on both sides, so
// dimensions exactly at a threshold fall through to the standard tier.
func (c *Classifier) sizeTier(info imagemeta.Info) model.SizeTier {
	large := c.cfg.LargePixelThreshold
	xl := c.cfg.XLPixelThreshold

	switch {
	case info.Width < large && info.Height < large:
		return model.TierSmall
	case info.Width > xl && info.Height > xl &&
		info.DPI >= c.cfg.QualityDPIThreshold &&
		info.ModYear >= c.cfg.MinModificationYear:
		return model.TierBestQuality
	case info.Width > xl && info.Height > xl:
		return model.TierXLarge
	case info.Width > large && info.Height > large:
		return model.TierLarge
	default:
		return model.TierStandard
	}
}

// errorItem routes an unclassifiable image to the shared errors folder
// directly under the destination root.
func (c *Classifier) errorItem(path string, err error) model.WorkItem {
	c.stats.MarkError()
	slog.Error("Failed to classify image", "path", path, "error", err)
	return model.WorkItem{
		SourcePath: path,
		DestFolder: filepath.Join(c.cfg.DestDir, c.cfg.FolderNames[model.TierErrors]),
	}
}
