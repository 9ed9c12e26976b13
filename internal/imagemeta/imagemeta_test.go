package imagemeta

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlight/snapsort/internal/common"
	"github.com/driftlight/snapsort/internal/testutil"
)

func TestProbe(t *testing.T) {
	fs := afero.NewMemMapFs()
	mtime := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)

	testutil.WriteFile(t, fs, "/in/plain.png", testutil.PNG(t, 640, 480), mtime)
	testutil.WriteFile(t, fs, "/in/dense.png",
		testutil.WithPNGDensity(t, testutil.PNG(t, 640, 480), testutil.DPI300), mtime)
	testutil.WriteFile(t, fs, "/in/photo.jpg", testutil.JPEG(t, 120, 80), mtime)
	testutil.WriteFile(t, fs, "/in/apple.heic", testutil.HEIC(4032, 3024), mtime)
	testutil.WriteFile(t, fs, "/in/shot.webp", testutil.WebP(320, 240), mtime)
	testutil.WriteFile(t, fs, "/in/broken.jpg", []byte("not an image at all"), mtime)

	tests := []struct {
		name    string
		path    string
		want    Info
		wantErr error
	}{
		{
			name: "png without density",
			path: "/in/plain.png",
			want: Info{Width: 640, Height: 480, DPI: 0, ModYear: 2021},
		},
		{
			name: "png with pHYs density",
			path: "/in/dense.png",
			want: Info{Width: 640, Height: 480, DPI: 300, ModYear: 2021},
		},
		{
			name: "jpeg without exif",
			path: "/in/photo.jpg",
			want: Info{Width: 120, Height: 80, DPI: 0, ModYear: 2021},
		},
		{
			name: "heic dimensions from ispe",
			path: "/in/apple.heic",
			want: Info{Width: 4032, Height: 3024, DPI: 0, ModYear: 2021},
		},
		{
			name: "lossless webp",
			path: "/in/shot.webp",
			want: Info{Width: 320, Height: 240, DPI: 0, ModYear: 2021},
		},
		{
			name:    "corrupt jpeg",
			path:    "/in/broken.jpg",
			wantErr: common.ErrUnsupportedImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Probe(fs, tt.path)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProbeMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Probe(fs, "/nowhere/gone.jpg")
	require.Error(t, err)
}

func TestProbeHEICWithoutDimensions(t *testing.T) {
	fs := afero.NewMemMapFs()
	mtime := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	// A container with no meta box carries no ispe property.
	testutil.WriteFile(t, fs, "/in/empty.heic",
		testutil.Box("ftyp", []byte("heic\x00\x00\x00\x00")), mtime)

	_, err := Probe(fs, "/in/empty.heic")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedImage)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("a.jpg"))
	assert.True(t, IsSupported("b.JPEG"))
	assert.True(t, IsSupported("c.Png"))
	assert.True(t, IsSupported("d.HEIC"))
	assert.True(t, IsSupported("e.webp"))
	assert.False(t, IsSupported("f.gif"))
	assert.False(t, IsSupported("g.jpg.txt"))
	assert.False(t, IsSupported("noext"))
}
