package model

import "sync/atomic"

// RunStats accumulates the outcome of a sorting run. Both counters are
// incremented concurrently by transfer workers, so all access goes through
// atomics. Error increments happen per failed attempt, not per failed item:
// an item that exhausts its retries contributes one error for every attempt.
type RunStats struct {
	processed atomic.Int64
	errors    atomic.Int64
}

// MarkProcessed records one successfully copied file.
func (s *RunStats) MarkProcessed() {
	s.processed.Add(1)
}

// MarkError records one failure (a failed copy attempt, an unreadable image,
// a denied directory, or a containment violation).
func (s *RunStats) MarkError() {
	s.errors.Add(1)
}

// Processed returns the number of files copied so far.
func (s *RunStats) Processed() int64 {
	return s.processed.Load()
}

// Errors returns the number of errors recorded so far.
func (s *RunStats) Errors() int64 {
	return s.errors.Load()
}
