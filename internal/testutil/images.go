// Package testutil provides in-memory image fixtures for tests. Builders
// produce the smallest valid encodings that exercise the metadata probe, so
// tests never need binary files on disk.
package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// PNG encodes a width x height PNG.
func PNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// JPEG encodes a width x height JPEG without EXIF metadata.
func JPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// WithPNGDensity splices a pHYs chunk (unit: meters) right after IHDR. The
// chunk CRC is left zeroed; the density scanner does not verify checksums.
func WithPNGDensity(t *testing.T, pngData []byte, pixelsPerMeter uint32) []byte {
	t.Helper()
	const ihdrEnd = 8 + 4 + 4 + 13 + 4 // signature + IHDR length/type/body/crc

	chunk := make([]byte, 0, 9+12)
	chunk = binary.BigEndian.AppendUint32(chunk, 9)
	chunk = append(chunk, "pHYs"...)
	chunk = binary.BigEndian.AppendUint32(chunk, pixelsPerMeter)
	chunk = binary.BigEndian.AppendUint32(chunk, pixelsPerMeter)
	chunk = append(chunk, 1)          // unit: meters
	chunk = append(chunk, 0, 0, 0, 0) // crc

	out := make([]byte, 0, len(pngData)+len(chunk))
	out = append(out, pngData[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, pngData[ihdrEnd:]...)
	return out
}

// DPI300 is the pixels-per-meter value for a 300 DPI pHYs chunk.
const DPI300 uint32 = 11811

// WebP builds a minimal lossless WebP whose VP8L header declares the given
// dimensions. Both are stored as 14-bit values, minus one, little-endian
// bit-packed after the signature byte.
func WebP(width, height int) []byte {
	w := uint32(width - 1)
	h := uint32(height - 1)
	payload := []byte{
		0x2f, // VP8L signature
		byte(w),
		byte(w>>8)&0x3f | byte(h&0x03)<<6,
		byte(h >> 2),
		byte(h>>10) & 0x0f, // no alpha, version 0
	}

	out := make([]byte, 0, 12+8+len(payload)+1)
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(4+8+len(payload)+1))
	out = append(out, "WEBPVP8L"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	out = append(out, payload...)
	return append(out, 0) // chunk padding to an even length
}

// HEIC builds a minimal ISO-BMFF container whose meta/iprp/ipco/ispe
// property declares the given dimensions.
func HEIC(width, height uint32) []byte {
	ispe := make([]byte, 0, 12)
	ispe = append(ispe, 0, 0, 0, 0) // version + flags
	ispe = binary.BigEndian.AppendUint32(ispe, width)
	ispe = binary.BigEndian.AppendUint32(ispe, height)

	ipco := Box("ipco", Box("ispe", ispe))
	iprp := Box("iprp", ipco)
	metaPayload := append([]byte{0, 0, 0, 0}, iprp...)

	out := Box("ftyp", []byte("heic\x00\x00\x00\x00heicmif1"))
	return append(out, Box("meta", metaPayload)...)
}

// Box wraps a payload in an ISO-BMFF box header.
func Box(boxType string, payload []byte) []byte {
	out := make([]byte, 0, 8+len(payload))
	out = binary.BigEndian.AppendUint32(out, uint32(8+len(payload)))
	out = append(out, boxType...)
	return append(out, payload...)
}

// WriteFile writes data to the filesystem and pins its modification time.
func WriteFile(t *testing.T, fs afero.Fs, path string, data []byte, mtime time.Time) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, data, 0o644))
	require.NoError(t, fs.Chtimes(path, mtime, mtime))
}
