// Package confirm implements a reorganization-tolerant confirmation buffer.
//
// The buffer holds a bounded sliding window of the most recently observed
// offsets (block numbers in practice) and their payloads. An entry is emitted
// as confirmed only once enough newer offsets have been pushed on top of it
// without a reorganization evicting it first. The buffer knows nothing about
// blocks, hashes or payload contents; it operates purely on offsets.
package confirm

// Entry is a single window entry: an offset and the payload observed at it.
type Entry[V any] struct {
	Offset  uint64
	Payload []V
}

// Buffer is a bounded sliding window over `(offset, payload)` entries.
//
// It is single-threaded and performs no I/O. Callers that need concurrent
// access must serialize around the whole buffer; the intended driver is a
// single sequential block-observation loop.
type Buffer[V any] struct {
	depth  int
	window []Entry[V]
}

// New creates an empty buffer that confirms an entry once depth newer offsets
// have accumulated on top of it. depth is also the maximum number of trailing
// entries a single reorganization may replace.
//
// depth 0 is legal and degrades the buffer to a pass-through: every pushed
// entry is confirmed immediately.
func New[V any](depth int) *Buffer[V] {
	return &Buffer[V]{
		depth:  depth,
		window: make([]Entry[V], 0, depth+1),
	}
}

// Depth returns the configured confirmation depth.
func (b *Buffer[V]) Depth() int {
	return b.depth
}

// Len returns the number of unconfirmed entries currently held.
func (b *Buffer[V]) Len() int {
	return len(b.window)
}

// Push records a newly observed entry and returns the entry that passed the
// confirmation requirement, if any.
//
// Offsets must arrive contiguously: after an entry at offset N the next push
// must carry an offset in [N+1-depth, N+1]. An offset beyond N+1 fails with
// *MissingOffsetError. An offset at or below the back of the window replaces
// the trailing entries it supersedes; if that replacement reaches further
// back than depth entries, Push fails with *DepthExceededError. On failure
// the window is left exactly as it was, so both errors are inspectable with
// errors.As and the decision to abort or resynchronize belongs to the caller.
func (b *Buffer[V]) Push(offset uint64, payload []V) (*Entry[V], error) {
	if n := len(b.window); n > 0 {
		last := b.window[n-1].Offset

		switch {
		case offset > last:
			// offset-last avoids computing last+1, which would overflow
			// at the top of the uint64 range.
			if offset-last > 1 {
				return nil, &MissingOffsetError{Expected: last + 1}
			}
		default:
			reorgDepth := last - offset + 1
			if reorgDepth > uint64(b.depth) {
				return nil, &DepthExceededError{ReorgDepth: reorgDepth, MaxDepth: b.depth}
			}
			// Discard the superseded tail. Those entries were never
			// confirmed and must not be re-emitted. A tolerated reorg can
			// reach past the start of a window that has not filled up yet,
			// so evict at most what is actually held.
			evict := reorgDepth
			if evict > uint64(n) {
				evict = uint64(n)
			}
			b.window = b.window[:n-int(evict)]
		}
	}

	b.window = append(b.window, Entry[V]{Offset: offset, Payload: payload})

	if len(b.window) > b.depth {
		confirmed := b.window[0]
		b.window = b.window[1:]
		return &confirmed, nil
	}

	return nil, nil
}
