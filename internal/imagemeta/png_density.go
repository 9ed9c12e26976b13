package imagemeta

import (
	"encoding/binary"
	"io"
	"math"
)

// pngDPI scans PNG chunks for a pHYs chunk and converts its
// pixels-per-meter value to dots per inch. PNGs without a pHYs chunk, or
// with a density in the unspecified unit, report 0.
func pngDPI(r io.Reader) int {
	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return 0
	}

	for {
		var header [8]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			return 0
		}

		length := int64(binary.BigEndian.Uint32(header[:4]))
		chunkType := string(header[4:8])

		switch chunkType {
		case "pHYs":
			var body [9]byte
			if length < int64(len(body)) {
				return 0
			}
			if _, err := io.ReadFull(r, body[:]); err != nil {
				return 0
			}
			if body[8] != 1 {
				// Unit is not meters; aspect ratio only.
				return 0
			}
			ppm := binary.BigEndian.Uint32(body[:4])
			return int(math.Round(float64(ppm) * 0.0254))
		case "IDAT", "IEND":
			// pHYs must precede image data.
			return 0
		}

		// Skip chunk body and CRC.
		if _, err := io.CopyN(io.Discard, r, length+4); err != nil {
			return 0
		}
	}
}
