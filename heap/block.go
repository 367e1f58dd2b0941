package heap

import "github.com/joshuapare/heapkit/internal/tag"

// Block layout accessors. A Ptr is the offset of the first payload byte: the
// header word sits immediately before it and the footer word occupies the
// last word of the block. Header and footer always carry the identical
// (size, allocated) pair; writeTags is the only mutator, so any code path
// that changes either field updates both.

func (h *Heap) blockSize(bp Ptr) int32 {
	return tag.Size(h.data(), bp-tag.WordSize)
}

func (h *Heap) allocated(bp Ptr) bool {
	return tag.Allocated(h.data(), bp-tag.WordSize)
}

// nextBlock returns the physically adjacent block after bp.
func (h *Heap) nextBlock(bp Ptr) Ptr {
	return bp + h.blockSize(bp)
}

// prevBlock returns the physically adjacent block before bp, found through
// the previous block's footer word.
func (h *Heap) prevBlock(bp Ptr) Ptr {
	return bp - tag.Size(h.data(), bp-tag.Overhead)
}

// writeTags writes the header and footer pair for a block in one step.
func (h *Heap) writeTags(bp Ptr, size int32, allocated bool) {
	data := h.data()
	tag.Put(data, bp-tag.WordSize, size, allocated)
	tag.Put(data, bp+size-tag.Overhead, size, allocated)
}

// payload returns the caller-visible byte span of a block.
func (h *Heap) payload(bp Ptr) []byte {
	return h.data()[bp : bp+h.blockSize(bp)-tag.Overhead]
}

func (h *Heap) payloadSize(bp Ptr) int32 {
	return h.blockSize(bp) - tag.Overhead
}

// Free-list links live in the first two payload words of a FREE block. They
// are meaningless while the block is allocated.

func (h *Heap) prevFree(bp Ptr) Ptr {
	return tag.Link(h.data(), bp)
}

func (h *Heap) nextFree(bp Ptr) Ptr {
	return tag.Link(h.data(), bp+tag.WordSize)
}

func (h *Heap) setPrevFree(bp, to Ptr) {
	tag.PutLink(h.data(), bp, to)
}

func (h *Heap) setNextFree(bp, to Ptr) {
	tag.PutLink(h.data(), bp+tag.WordSize, to)
}
