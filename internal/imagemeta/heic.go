package imagemeta

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HEIC files are ISO base media containers. The pixel dimensions live in an
// "ispe" property box nested under meta/iprp/ipco. No library in use here
// decodes HEIF, so this walks the box structure directly and reads nothing
// but the one property it needs.

var errNoIspe = errors.New("no ispe box found")

// containerBoxes are the boxes worth descending into on the way to ispe.
// "meta" is a full box and carries a 4-byte version/flags prefix.
var containerBoxes = map[string]int64{
	"meta": 4,
	"iprp": 0,
	"ipco": 0,
}

func heicDimensions(r io.Reader) (width, height int, err error) {
	w, h, err := scanBoxes(r, -1)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// scanBoxes walks sibling boxes in r until limit bytes are consumed
// (limit < 0 means until EOF), descending into known containers.
func scanBoxes(r io.Reader, limit int64) (int, int, error) {
	var consumed int64

	for limit < 0 || consumed < limit {
		var header [8]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return 0, 0, err
		}
		consumed += 8

		size := int64(binary.BigEndian.Uint32(header[:4]))
		boxType := string(header[4:8])

		switch size {
		case 0:
			// Box extends to end of file.
			size = -1
		case 1:
			var large [8]byte
			if _, err := io.ReadFull(r, large[:]); err != nil {
				return 0, 0, err
			}
			consumed += 8
			size = int64(binary.BigEndian.Uint64(large[:])) - 16
		default:
			size -= 8
		}
		if size != -1 && size < 0 {
			return 0, 0, fmt.Errorf("malformed box %q", boxType)
		}

		if boxType == "ispe" {
			// Full box: version/flags, then width and height.
			var body [12]byte
			if _, err := io.ReadFull(r, body[:]); err != nil {
				return 0, 0, err
			}
			w := int(binary.BigEndian.Uint32(body[4:8]))
			h := int(binary.BigEndian.Uint32(body[8:12]))
			return w, h, nil
		}

		if skip, ok := containerBoxes[boxType]; ok {
			if skip > 0 {
				if _, err := io.CopyN(io.Discard, r, skip); err != nil {
					return 0, 0, err
				}
				consumed += skip
				if size != -1 {
					size -= skip
				}
			}
			w, h, err := scanBoxes(r, size)
			if err == nil {
				return w, h, nil
			}
			if !errors.Is(err, errNoIspe) {
				return 0, 0, err
			}
			consumed += maxInt64(size, 0)
			continue
		}

		if size == -1 {
			break
		}
		if _, err := io.CopyN(io.Discard, r, size); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, 0, err
		}
		consumed += size
	}

	return 0, 0, errNoIspe
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
