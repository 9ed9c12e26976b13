package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/driftlight/snapsort/internal/engine"
)

// WriteSummary renders the end-of-run summary to w and mirrors it into the
// log. An interrupted run is called out as partial; a zero-error run gets the
// success line; otherwise the error count is surfaced, with the detailed
// causes living only in the log.
func WriteSummary(w io.Writer, summary engine.Summary, interrupted bool) {
	switch {
	case interrupted:
		fmt.Fprintln(w, FormatWarning("Sorting stopped before completing; counts below are partial."))
		slog.Info("Sorting interrupted", "error_count", summary.Errors)
	case summary.Errors == 0:
		fmt.Fprintln(w, FormatSuccess("Sorting completed successfully with no errors."))
		slog.Info("Sorting completed successfully with no errors")
	default:
		fmt.Fprintln(w, FormatWarning(fmt.Sprintf("Sorting completed with %d errors.", summary.Errors)))
		slog.Info("Sorting completed with errors", "error_count", summary.Errors)
	}

	line := fmt.Sprintf("Processed %d files in %.2f seconds.",
		summary.Processed, summary.Elapsed.Seconds())
	fmt.Fprintln(w, SubtleStyle.Render(line))
	slog.Info("Run finished",
		"processed", summary.Processed,
		"errors", summary.Errors,
		"elapsed", summary.Elapsed)
}
