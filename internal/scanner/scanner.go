// Package scanner enumerates candidate image files under an input root.
// It walks iteratively rather than recursively, never follows a path out of
// the root, and treats unreadable subtrees as localized failures.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/driftlight/snapsort/internal/common"
	"github.com/driftlight/snapsort/internal/imagemeta"
)

// ErrorSink receives traversal failures. The walker itself stays pure
// enumeration; counting and reporting policy belongs to the caller.
type ErrorSink interface {
	RecordError(path string, err error)
}

// Walker enumerates supported image files beneath a root directory.
type Walker struct {
	fs   afero.Fs
	root string
	sink ErrorSink
}

// New creates a Walker rooted at root, which must be an absolute path.
func New(fs afero.Fs, root string, sink ErrorSink) (*Walker, error) {
	if !filepath.IsAbs(root) {
		return nil, fmt.Errorf("scanner root must be absolute, got %q", root)
	}
	return &Walker{
		fs:   fs,
		root: filepath.Clean(root),
		sink: sink,
	}, nil
}

// Walk visits every supported image file under the root in directory
// iteration order, calling emit with its absolute path. Directory read
// failures and containment violations are reported to the sink and skipped;
// only context cancellation stops the walk early.
func (w *Walker) Walk(ctx context.Context, emit func(path string)) error {
	stack := []string{w.root}

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := afero.ReadDir(w.fs, dir)
		if err != nil {
			w.sink.RecordError(dir, fmt.Errorf("failed to read directory: %w", err))
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())

			if err := w.admit(path, entry.Mode()); err != nil {
				w.sink.RecordError(path, err)
				continue
			}

			switch {
			case entry.IsDir():
				stack = append(stack, path)
			case entry.Mode().IsRegular() && imagemeta.IsSupported(entry.Name()):
				slog.Debug("Found candidate image", "path", path)
				emit(path)
			}
		}
	}

	return nil
}

// admit decides whether a directory entry may be visited. Paths that escape
// the root lexically are rejected, as are symlinks of any kind: a link can
// point anywhere, and only regular files and real directories are trusted to
// stay inside the root.
func (w *Walker) admit(path string, mode os.FileMode) error {
	if !w.contained(path) {
		return common.ErrOutsideRoot
	}
	if mode&os.ModeSymlink != 0 {
		return common.ErrOutsideRoot
	}
	return nil
}

// contained reports whether path stays lexically inside the walker's root.
func (w *Walker) contained(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
