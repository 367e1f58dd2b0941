package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allocRow allocates n adjacent same-sized blocks and returns their pointers.
// Adjacency lets the tests exercise each merge case directly.
func allocRow(t *testing.T, h *Heap, n int, size int32) []Ptr {
	t.Helper()
	ptrs := make([]Ptr, n)
	for i := range ptrs {
		p, _, err := h.Allocate(size)
		require.NoError(t, err)
		ptrs[i] = p
	}
	return ptrs
}

// freeSpan returns the size of the free block starting at bp, or zero when bp
// is still allocated.
func freeSpan(h *Heap, bp Ptr) int32 {
	if h.allocated(bp) {
		return 0
	}
	return h.blockSize(bp)
}

func TestCoalesceNoneWithAllocatedNeighbors(t *testing.T) {
	h := newTestHeap(t)
	ptrs := allocRow(t, h, 3, 56) // three adjacent 64-byte blocks
	base := h.Stats()

	require.NoError(t, h.Deallocate(ptrs[1]))
	assert.Equal(t, int32(64), freeSpan(h, ptrs[1]), "no merge expected")

	s := h.Stats()
	assert.Equal(t, base.CoalesceNext, s.CoalesceNext)
	assert.Equal(t, base.CoalescePrev, s.CoalescePrev)
	assert.Equal(t, base.CoalesceBoth, s.CoalesceBoth)
	requireSound(t, h)
}

func TestCoalesceWithNext(t *testing.T) {
	h := newTestHeap(t)
	ptrs := allocRow(t, h, 4, 56)
	base := h.Stats()

	require.NoError(t, h.Deallocate(ptrs[2]))
	require.NoError(t, h.Deallocate(ptrs[1]))

	// Freeing 1 after 2 merges forward; the span starts at 1's address.
	assert.Equal(t, int32(128), freeSpan(h, ptrs[1]))
	assert.Equal(t, base.CoalesceNext+1, h.Stats().CoalesceNext)
	requireSound(t, h)
}

func TestCoalesceWithPrev(t *testing.T) {
	h := newTestHeap(t)
	ptrs := allocRow(t, h, 4, 56)
	base := h.Stats()

	require.NoError(t, h.Deallocate(ptrs[1]))
	require.NoError(t, h.Deallocate(ptrs[2]))

	// Freeing 2 after 1 merges backward; the span keeps 1's identity.
	assert.Equal(t, int32(128), freeSpan(h, ptrs[1]))
	assert.Equal(t, base.CoalescePrev+1, h.Stats().CoalescePrev)
	requireSound(t, h)
}

func TestCoalesceBothNeighbors(t *testing.T) {
	h := newTestHeap(t)
	ptrs := allocRow(t, h, 5, 56)
	base := h.Stats()

	require.NoError(t, h.Deallocate(ptrs[1]))
	require.NoError(t, h.Deallocate(ptrs[3]))
	require.NoError(t, h.Deallocate(ptrs[2]))

	assert.Equal(t, int32(192), freeSpan(h, ptrs[1]))
	assert.Equal(t, base.CoalesceBoth+1, h.Stats().CoalesceBoth)
	requireSound(t, h)
}

func TestPairwiseCoalesceEitherOrder(t *testing.T) {
	for _, lowFirst := range []bool{true, false} {
		h := newTestHeap(t)
		ptrs := allocRow(t, h, 3, 120) // three adjacent 128-byte blocks

		if lowFirst {
			require.NoError(t, h.Deallocate(ptrs[0]))
			require.NoError(t, h.Deallocate(ptrs[1]))
		} else {
			require.NoError(t, h.Deallocate(ptrs[1]))
			require.NoError(t, h.Deallocate(ptrs[0]))
		}

		// Exactly one free block spans the combined range, in either order.
		assert.Equal(t, int32(256), freeSpan(h, ptrs[0]))
		require.Zero(t, h.CheckHeap(false), "violations after pairwise free")
	}
}

func TestCoalesceConservesFreeBytes(t *testing.T) {
	h := newTestHeap(t)
	ptrs := allocRow(t, h, 5, 56)
	before := h.Stats().FreeBytes

	require.NoError(t, h.Deallocate(ptrs[1]))
	require.NoError(t, h.Deallocate(ptrs[2]))
	require.NoError(t, h.Deallocate(ptrs[3]))

	assert.Equal(t, before+3*64, h.Stats().FreeBytes,
		"coalescing must not create or lose bytes")
	requireSound(t, h)
}

func TestExtensionCoalescesWithFreeTail(t *testing.T) {
	h := newTestHeap(t)

	// Leave a free tail, then request more than any free block can serve so
	// the region has to grow.
	_, _, err := h.Allocate(56)
	require.NoError(t, err)
	require.Positive(t, h.Stats().FreeBytes)
	base := h.Stats()

	_, data, err := h.Allocate(8000)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(data), 8000)

	// The new space merged with the old free tail instead of leaving two
	// adjacent free blocks behind.
	assert.Equal(t, base.ExtendCalls+1, h.Stats().ExtendCalls)
	assert.Equal(t, base.CoalescePrev+1, h.Stats().CoalescePrev)
	requireSound(t, h)
}
