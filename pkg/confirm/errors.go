package confirm

import "fmt"

// MissingOffsetError is returned when a pushed offset skips past the next
// expected one, leaving a gap the buffer has no way to backfill.
type MissingOffsetError struct {
	// Expected is the offset the buffer needed next.
	Expected uint64
}

func (e *MissingOffsetError) Error() string {
	return fmt.Sprintf("missing offset %d", e.Expected)
}

// DepthExceededError is returned when accepting a pushed offset would require
// discarding more trailing entries than the configured depth allows.
type DepthExceededError struct {
	// ReorgDepth is the number of trailing entries the push would replace.
	ReorgDepth uint64

	// MaxDepth is the configured tolerance.
	MaxDepth int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("reorganization depth %d exceeds maximum %d", e.ReorgDepth, e.MaxDepth)
}
