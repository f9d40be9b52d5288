package confirm

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// windowOffsets extracts the offsets currently held, oldest first.
func windowOffsets(b *Buffer[string]) []uint64 {
	offsets := make([]uint64, 0, len(b.window))
	for _, e := range b.window {
		offsets = append(offsets, e.Offset)
	}
	return offsets
}

func mustPush(t *testing.T, b *Buffer[string], offset uint64, payload ...string) *Entry[string] {
	t.Helper()
	confirmed, err := b.Push(offset, payload)
	require.NoError(t, err)
	return confirmed
}

func TestBuffer_DepthZeroPassthrough(t *testing.T) {
	b := New[string](0)
	require.Equal(t, 0, b.Len())

	confirmed, err := b.Push(123, []string{"abc", "def"})
	require.NoError(t, err)
	require.NotNil(t, confirmed)
	assert.Equal(t, uint64(123), confirmed.Offset)
	assert.Equal(t, []string{"abc", "def"}, confirmed.Payload)
	assert.Equal(t, 0, b.Len())

	// Any offset is accepted while the window is empty, so even a
	// non-contiguous follow-up passes straight through.
	confirmed, err = b.Push(200, nil)
	require.NoError(t, err)
	require.NotNil(t, confirmed)
	assert.Equal(t, uint64(200), confirmed.Offset)
	assert.Equal(t, 0, b.Len())
}

func TestBuffer_ConfirmsAfterDepthNewerOffsets(t *testing.T) {
	b := New[string](3)

	require.Nil(t, mustPush(t, b, 1, "a"))
	require.Nil(t, mustPush(t, b, 2, "b"))
	require.Nil(t, mustPush(t, b, 3, "c"))
	assert.Equal(t, []uint64{1, 2, 3}, windowOffsets(b))

	confirmed := mustPush(t, b, 4, "d")
	require.NotNil(t, confirmed)
	assert.Equal(t, uint64(1), confirmed.Offset)
	assert.Equal(t, []string{"a"}, confirmed.Payload)
	assert.Equal(t, []uint64{2, 3, 4}, windowOffsets(b))
}

func TestBuffer_ReplacesLastEntry(t *testing.T) {
	b := New[string](3)
	mustPush(t, b, 1, "a")
	mustPush(t, b, 2, "b")
	mustPush(t, b, 3, "c")
	mustPush(t, b, 4, "d")

	// Re-observation of offset 4 replaces the back entry only.
	require.Nil(t, mustPush(t, b, 4, "x"))
	assert.Equal(t, []uint64{2, 3, 4}, windowOffsets(b))
	assert.Equal(t, []string{"x"}, b.window[2].Payload)
}

func TestBuffer_ReplacesMultipleTrailingEntries(t *testing.T) {
	b := New[string](3)
	mustPush(t, b, 1, "a")
	mustPush(t, b, 2, "b")
	mustPush(t, b, 3, "c")
	mustPush(t, b, 4, "d")

	// Offset 3 reaches two entries back: 3 and 4 are superseded.
	require.Nil(t, mustPush(t, b, 3, "x"))
	assert.Equal(t, []uint64{2, 3}, windowOffsets(b))
	assert.Equal(t, []string{"x"}, b.window[1].Payload)
}

func TestBuffer_ReorgAtMaximumDepth(t *testing.T) {
	b := New[string](3)
	mustPush(t, b, 1, "a")
	mustPush(t, b, 2, "b")
	mustPush(t, b, 3, "c")
	mustPush(t, b, 4, "d")
	require.Equal(t, []uint64{2, 3, 4}, windowOffsets(b))

	// Replacing the whole window is exactly depth 3, still tolerated.
	require.Nil(t, mustPush(t, b, 2, "x"))
	assert.Equal(t, []uint64{2}, windowOffsets(b))
	assert.Equal(t, []string{"x"}, b.window[0].Payload)
}

func TestBuffer_ToleratedReorgDeeperThanWindow(t *testing.T) {
	b := New[string](3)
	mustPush(t, b, 10, "a")

	// Reorg depth 3 is tolerated, but only one entry exists yet: the
	// eviction clears what is held and the new entry reseeds the window.
	require.Nil(t, mustPush(t, b, 8, "x"))
	assert.Equal(t, []uint64{8}, windowOffsets(b))
	assert.Equal(t, []string{"x"}, b.window[0].Payload)

	// The reseeded window behaves normally from here on.
	require.Nil(t, mustPush(t, b, 9, "y"))
	require.Nil(t, mustPush(t, b, 10, "z"))
	confirmed := mustPush(t, b, 11, "w")
	require.NotNil(t, confirmed)
	assert.Equal(t, uint64(8), confirmed.Offset)
	assert.Equal(t, []uint64{9, 10, 11}, windowOffsets(b))
}

func TestBuffer_DepthExceeded(t *testing.T) {
	b := New[string](3)
	mustPush(t, b, 1, "a")
	mustPush(t, b, 2, "b")
	mustPush(t, b, 3, "c")
	mustPush(t, b, 4, "d")
	require.Equal(t, []uint64{2, 3, 4}, windowOffsets(b))

	confirmed, err := b.Push(1, []string{"x"})
	require.Error(t, err)
	require.Nil(t, confirmed)

	var depthErr *DepthExceededError
	require.ErrorAs(t, err, &depthErr)
	assert.Equal(t, uint64(4), depthErr.ReorgDepth)
	assert.Equal(t, 3, depthErr.MaxDepth)

	// Failed push leaves the window untouched.
	assert.Equal(t, []uint64{2, 3, 4}, windowOffsets(b))
}

func TestBuffer_MissingOffset(t *testing.T) {
	b := New[string](3)
	mustPush(t, b, 10, "a")
	mustPush(t, b, 11, "b")

	confirmed, err := b.Push(13, []string{"x"})
	require.Error(t, err)
	require.Nil(t, confirmed)

	var missingErr *MissingOffsetError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, uint64(12), missingErr.Expected)
	assert.Equal(t, []uint64{10, 11}, windowOffsets(b))
}

func TestBuffer_FirstPushAcceptsAnyOffset(t *testing.T) {
	b := New[string](2)
	require.Nil(t, mustPush(t, b, 987654, "a"))
	assert.Equal(t, []uint64{987654}, windowOffsets(b))
}

func TestBuffer_OffsetAtUpperBound(t *testing.T) {
	b := New[string](2)
	mustPush(t, b, math.MaxUint64-1, "a")
	require.Nil(t, mustPush(t, b, math.MaxUint64, "b"))

	// Replacing the top entry must not wrap around when computing the
	// expected next offset.
	require.Nil(t, mustPush(t, b, math.MaxUint64, "c"))
	assert.Equal(t, []uint64{math.MaxUint64 - 1, math.MaxUint64}, windowOffsets(b))
}

func TestBuffer_EmptyPayloadIsEmitted(t *testing.T) {
	b := New[string](1)
	require.Nil(t, mustPush(t, b, 1))

	confirmed := mustPush(t, b, 2)
	require.NotNil(t, confirmed)
	assert.Equal(t, uint64(1), confirmed.Offset)
	assert.Empty(t, confirmed.Payload)
}

func TestBuffer_WindowInvariants(t *testing.T) {
	const depth = 4

	b := New[int](depth)
	lastConfirmed := uint64(0)

	// Mixed appends and shallow reorgs; after every successful push the
	// window is bounded by depth, offsets are contiguous and confirmations
	// arrive in strictly increasing order, older than everything retained.
	steps := []uint64{1, 2, 3, 4, 5, 5, 6, 4, 5, 6, 7, 8, 9, 8, 9, 10, 11, 12}
	for _, offset := range steps {
		confirmed, err := b.Push(offset, nil)
		require.NoError(t, err)

		require.LessOrEqual(t, b.Len(), depth)
		for i := 1; i < len(b.window); i++ {
			require.Equal(t, b.window[i-1].Offset+1, b.window[i].Offset)
		}

		if confirmed != nil {
			require.Greater(t, confirmed.Offset, lastConfirmed)
			for _, e := range b.window {
				require.Less(t, confirmed.Offset, e.Offset)
			}
			lastConfirmed = confirmed.Offset
		}
	}
}

func TestBuffer_EndToEndScenario(t *testing.T) {
	b := New[string](3)

	require.Nil(t, mustPush(t, b, 1, "a"))
	require.Nil(t, mustPush(t, b, 2, "b"))
	require.Nil(t, mustPush(t, b, 3, "c"))
	assert.Equal(t, []uint64{1, 2, 3}, windowOffsets(b))

	confirmed := mustPush(t, b, 4, "d")
	require.NotNil(t, confirmed)
	assert.Equal(t, uint64(1), confirmed.Offset)
	assert.Equal(t, []string{"a"}, confirmed.Payload)
	assert.Equal(t, []uint64{2, 3, 4}, windowOffsets(b))

	require.Nil(t, mustPush(t, b, 4, "d2"))
	assert.Equal(t, []uint64{2, 3, 4}, windowOffsets(b))

	require.Nil(t, mustPush(t, b, 3, "c2"))
	assert.Equal(t, []uint64{2, 3}, windowOffsets(b))
	assert.Equal(t, []string{"c2"}, b.window[1].Payload)
}

func TestBuffer_ErrorsAreComparableAsValuesOfTheirKind(t *testing.T) {
	b := New[string](1)
	mustPush(t, b, 5, "a")

	_, err := b.Push(7, nil)
	var missingErr *MissingOffsetError
	require.True(t, errors.As(err, &missingErr))
	assert.EqualError(t, err, "missing offset 6")

	_, err = b.Push(4, nil)
	var depthErr *DepthExceededError
	require.True(t, errors.As(err, &depthErr))
	assert.EqualError(t, err, "reorganization depth 2 exceeds maximum 1")
}
