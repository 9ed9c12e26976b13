// Package imagemeta reads just enough of an image file to classify it:
// pixel dimensions, resolution, and modification year. Image content is
// never decoded.
package imagemeta

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	// Registered for image.DecodeConfig.
	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/afero"
	_ "golang.org/x/image/webp"

	"github.com/driftlight/snapsort/internal/common"
)

// Info holds the metadata the classifier needs.
type Info struct {
	Width  int
	Height int
	// DPI is the horizontal resolution, or 0 when the file carries none.
	DPI int
	// ModYear is the year of the file's last modification.
	ModYear int
}

// SupportedExtensions lists the file extensions the pipeline handles,
// lowercase with leading dot.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".heic", ".webp"}

// IsSupported reports whether the filename has a supported image extension.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Probe reads dimensions, resolution, and modification year for the image at
// path. Any failure is returned as an error; Probe never panics on malformed
// input.
func Probe(fs afero.Fs, path string) (Info, error) {
	fi, err := fs.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	f, err := fs.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	info := Info{ModYear: fi.ModTime().Year()}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".heic":
		info.Width, info.Height, err = heicDimensions(f)
		if err != nil {
			return Info{}, fmt.Errorf("%w: %s: %v", common.ErrUnsupportedImage, path, err)
		}
	default:
		cfg, _, decodeErr := image.DecodeConfig(f)
		if decodeErr != nil {
			if errors.Is(decodeErr, image.ErrFormat) {
				return Info{}, fmt.Errorf("%w: %s", common.ErrUnsupportedImage, path)
			}
			return Info{}, fmt.Errorf("failed to read %s: %w", path, decodeErr)
		}
		info.Width, info.Height = cfg.Width, cfg.Height
	}

	info.DPI = density(f, ext)

	return info, nil
}

// density extracts the horizontal resolution where the format records one.
// JPEG resolution comes from EXIF, PNG from the pHYs chunk. Absent or
// unreadable resolution is 0, never an error.
func density(f afero.File, ext string) int {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0
	}

	switch ext {
	case ".jpg", ".jpeg":
		return exifDPI(f)
	case ".png":
		return pngDPI(f)
	}
	return 0
}

func exifDPI(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 0
	}

	tag, err := x.Get(exif.XResolution)
	if err != nil {
		return 0
	}

	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0
	}

	return int(num / den)
}
