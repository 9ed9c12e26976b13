package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/driftlight/snapsort/internal/engine"
)

func TestWriteSummary(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		var buf bytes.Buffer
		WriteSummary(&buf, engine.Summary{
			Processed: 42,
			Errors:    0,
			Elapsed:   1500 * time.Millisecond,
		}, false)

		out := buf.String()
		assert.Contains(t, out, "no errors")
		assert.Contains(t, out, "Processed 42 files in 1.50 seconds.")
	})

	t.Run("with errors", func(t *testing.T) {
		var buf bytes.Buffer
		WriteSummary(&buf, engine.Summary{
			Processed: 10,
			Errors:    3,
			Elapsed:   2 * time.Second,
		}, false)

		out := buf.String()
		assert.Contains(t, out, "3 errors")
		assert.Contains(t, out, "Processed 10 files")
	})

	t.Run("interrupted", func(t *testing.T) {
		var buf bytes.Buffer
		WriteSummary(&buf, engine.Summary{
			Processed: 5,
			Errors:    1,
			Elapsed:   time.Second,
		}, true)

		out := buf.String()
		assert.Contains(t, out, "stopped before completing")
		assert.NotContains(t, out, "completed")
		assert.Contains(t, out, "Processed 5 files")
	})
}
