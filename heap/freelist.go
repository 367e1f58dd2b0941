package heap

import "math/bits"

// Segregated free-list index. Bucket i holds FREE blocks whose size has its
// highest set bit at position i, so bucket membership is determined solely
// by block size and the mapping is monotonic: a larger size never maps to a
// lower bucket. Insertion is LIFO; search is first-fit within a bucket and
// then escalates to larger buckets.

// bucketFor returns the bucket index for a block size.
func (h *Heap) bucketFor(size int32) int {
	idx := bits.Len32(uint32(size)) - 1
	if idx >= len(h.buckets) {
		idx = len(h.buckets) - 1
	}
	return idx
}

// insertFree pushes a FREE block onto the head of its bucket. O(1).
func (h *Heap) insertFree(bp Ptr) {
	size := h.blockSize(bp)
	idx := h.bucketFor(size)
	head := h.buckets[idx]

	h.setPrevFree(bp, NilPtr)
	h.setNextFree(bp, head)
	if head != NilPtr {
		h.setPrevFree(head, bp)
	}
	h.buckets[idx] = bp

	h.stats.FreeBlocks++
	h.stats.FreeBytes += int64(size)
}

// removeFree splices a linked block out of its bucket. O(1). The block must
// currently be linked; membership is tracked by the callers.
func (h *Heap) removeFree(bp Ptr) {
	size := h.blockSize(bp)
	prev, next := h.prevFree(bp), h.nextFree(bp)

	if prev != NilPtr {
		h.setNextFree(prev, next)
	} else {
		h.buckets[h.bucketFor(size)] = next
	}
	if next != NilPtr {
		h.setPrevFree(next, prev)
	}

	h.stats.FreeBlocks--
	h.stats.FreeBytes -= int64(size)
}

// findFit returns the first FREE block with size >= asize, scanning the
// bucket for asize and then every larger bucket in increasing order. A
// bucket may hold blocks smaller than asize (they share the power-of-two
// class), so each candidate's size is still checked. Returns NilPtr when no
// bucket holds an adequate block.
func (h *Heap) findFit(asize int32) Ptr {
	for idx := h.bucketFor(asize); idx < len(h.buckets); idx++ {
		for bp := h.buckets[idx]; bp != NilPtr; bp = h.nextFree(bp) {
			if h.blockSize(bp) >= asize {
				return bp
			}
		}
	}
	return NilPtr
}
