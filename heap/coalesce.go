package heap

// mergeCase enumerates the allocation state of a freed block's physical
// neighbors. The prologue and epilogue sentinels are permanently allocated,
// so neighbor inspection never needs to special-case the region boundaries.
type mergeCase uint8

const (
	mergeNone mergeCase = iota // both neighbors allocated
	mergeNext                  // next free, previous allocated
	mergePrev                  // previous free, next allocated
	mergeBoth                  // both neighbors free
)

// neighborCase inspects the physically adjacent blocks of bp.
func (h *Heap) neighborCase(bp Ptr) mergeCase {
	prevAllocated := h.allocated(h.prevBlock(bp))
	nextAllocated := h.allocated(h.nextBlock(bp))

	switch {
	case prevAllocated && nextAllocated:
		return mergeNone
	case prevAllocated:
		return mergeNext
	case nextAllocated:
		return mergePrev
	default:
		return mergeBoth
	}
}

// coalesce merges the unlinked FREE block bp with any free neighbors,
// inserts the result into its bucket, and returns the merged block. Callers
// must pass a block that is marked free but not yet linked; free neighbors
// are unlinked here before their tags are absorbed.
func (h *Heap) coalesce(bp Ptr) Ptr {
	switch h.neighborCase(bp) {
	case mergeNext:
		bp = h.mergeWithNext(bp)
	case mergePrev:
		bp = h.mergeWithPrev(bp)
	case mergeBoth:
		bp = h.mergeWithBoth(bp)
	}
	h.insertFree(bp)
	return bp
}

// mergeWithNext absorbs the next block into bp.
func (h *Heap) mergeWithNext(bp Ptr) Ptr {
	next := h.nextBlock(bp)
	h.removeFree(next)
	h.writeTags(bp, h.blockSize(bp)+h.blockSize(next), false)
	h.stats.CoalesceNext++
	return bp
}

// mergeWithPrev absorbs bp into the previous block; the merged identity is
// the previous block's address.
func (h *Heap) mergeWithPrev(bp Ptr) Ptr {
	prev := h.prevBlock(bp)
	h.removeFree(prev)
	h.writeTags(prev, h.blockSize(prev)+h.blockSize(bp), false)
	h.stats.CoalescePrev++
	return prev
}

// mergeWithBoth absorbs bp and the next block into the previous block.
func (h *Heap) mergeWithBoth(bp Ptr) Ptr {
	prev := h.prevBlock(bp)
	next := h.nextBlock(bp)
	h.removeFree(prev)
	h.removeFree(next)
	h.writeTags(prev, h.blockSize(prev)+h.blockSize(bp)+h.blockSize(next), false)
	h.stats.CoalesceBoth++
	return prev
}
