package heap

import (
	"fmt"
	"math"
	"os"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/tag"
	"github.com/joshuapare/heapkit/region"
)

// Region start layout: one padding word, then the 8-byte prologue sentinel
// (header + footer, permanently allocated), then the blocks, then the
// zero-size epilogue sentinel header as the last word of the region. The
// sentinels mean coalescing never has to check for the region boundaries.
const (
	prologuePtr   Ptr   = 2 * tag.WordSize // prologue payload offset
	firstBlockPtr Ptr   = 4 * tag.WordSize // first real block payload offset
	startupSize   int32 = 4 * tag.WordSize // padding + prologue + epilogue header

	// maxRequest bounds a single allocation request so that size adjustment
	// arithmetic cannot overflow int32.
	maxRequest = region.MaxRegionSize - 2*tag.MinBlockSize
)

// Heap is a segregated free-list allocator over a managed region: boundary
// tag block encoding, power-of-two size-class buckets, first-fit search,
// splitting on allocation, and immediate coalescing on deallocation.
//
// Each Heap is an independent instance; nothing is shared between Heaps
// except a Region, and a Region must belong to exactly one Heap.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Heap struct {
	r       *region.Region
	cfg     Config
	buckets []Ptr
	stats   Stats
}

// New creates a Heap over r and initializes it. A nil cfg selects
// DefaultConfig.
func New(r *region.Region, cfg *Config) (*Heap, error) {
	c := DefaultConfig
	if cfg != nil {
		c = cfg.withDefaults()
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	h := &Heap{r: r, cfg: c}
	if err := h.Init(); err != nil {
		return nil, err
	}
	return h, nil
}

// Init lays down the prologue and epilogue sentinels and the initial free
// block, and resets the bucket index and statistics. It is called by New and
// may be called again to reset state between independent traces; any region
// space acquired so far is recycled into one spanning free block. All
// previously returned pointers are invalidated.
func (h *Heap) Init() error {
	if h.r.Size() < startupSize {
		if _, err := h.r.Extend(startupSize - h.r.Size()); err != nil {
			return ErrNoSpace
		}
	}

	h.buckets = make([]Ptr, h.cfg.NumBuckets)
	h.stats = Stats{}

	data := h.data()
	size := h.r.Size()
	tag.PutLink(data, 0, 0) // alignment padding word
	h.writeTags(prologuePtr, tag.Overhead, true)
	tag.Put(data, size-tag.WordSize, 0, true) // epilogue

	// Recycle everything between the sentinels into one free block. On a
	// fresh region there is nothing there yet, so grow by the configured
	// initial free space instead.
	if spare := size - startupSize; spare >= tag.MinBlockSize {
		h.writeTags(firstBlockPtr, spare, false)
		h.insertFree(firstBlockPtr)
		return nil
	}
	if _, err := h.extend(h.cfg.InitialRegion); err != nil {
		return ErrNoSpace
	}
	return nil
}

// Allocate returns a block with at least n payload bytes. A request of zero
// or fewer bytes returns NilPtr with no error. When no free block fits, the
// region is extended by max(n adjusted, ChunkSize); extension failure
// surfaces as ErrNoSpace.
func (h *Heap) Allocate(n int32) (Ptr, []byte, error) {
	h.stats.AllocateCalls++
	if n <= 0 {
		return NilPtr, nil, nil
	}
	if int(n) > maxRequest {
		return NilPtr, nil, ErrNoSpace
	}

	asize := adjustSize(n)
	bp := h.findFit(asize)
	if bp == NilPtr {
		grow := asize
		if grow < h.cfg.ChunkSize {
			grow = h.cfg.ChunkSize
		}
		var err error
		bp, err = h.extend(grow)
		if err != nil {
			debugLogf("Allocate(%d): extension by %d failed: %v", n, grow, err)
			return NilPtr, nil, ErrNoSpace
		}
	}

	h.place(bp, asize)
	h.stats.BytesAllocated += int64(h.blockSize(bp))
	return bp, h.payload(bp), nil
}

// Deallocate releases the block at p and merges it with any free neighbors.
// Deallocate(NilPtr) is a no-op. A pointer that does not reference a live
// allocated block is rejected with ErrBadPointer before any state changes.
func (h *Heap) Deallocate(p Ptr) error {
	if p == NilPtr {
		return nil
	}
	h.stats.DeallocateCalls++
	if err := h.checkLive(p); err != nil {
		return err
	}

	size := h.blockSize(p)
	h.stats.BytesFreed += int64(size)
	h.writeTags(p, size, false)
	h.coalesce(p)
	return nil
}

// Reallocate resizes the block at p to n payload bytes by allocating a new
// block, copying min(n, old payload size) bytes, and freeing the old block.
// On allocation failure the original block remains valid and untouched.
func (h *Heap) Reallocate(p Ptr, n int32) (Ptr, []byte, error) {
	h.stats.ReallocateCalls++
	if n <= 0 {
		if err := h.Deallocate(p); err != nil {
			return NilPtr, nil, err
		}
		return NilPtr, nil, nil
	}
	if p == NilPtr {
		return h.Allocate(n)
	}
	if err := h.checkLive(p); err != nil {
		return NilPtr, nil, err
	}

	oldSize := h.payloadSize(p)
	np, payload, err := h.Allocate(n)
	if err != nil {
		return NilPtr, nil, err
	}

	count := n
	if oldSize < count {
		count = oldSize
	}
	copy(payload[:count], h.data()[p:p+count])

	if err := h.Deallocate(p); err != nil {
		return NilPtr, nil, err
	}
	return np, payload, nil
}

// ZeroAllocate allocates count*size payload bytes and zero-fills them. A
// product that overflows the request domain is rejected with ErrBadRequest
// instead of being truncated.
func (h *Heap) ZeroAllocate(count, size int32) (Ptr, []byte, error) {
	h.stats.ZeroAllocateCalls++
	if count <= 0 || size <= 0 {
		return NilPtr, nil, nil
	}
	total, ok := buf.MulOverflowSafe(int(count), int(size))
	if !ok || total > math.MaxInt32 {
		return NilPtr, nil, ErrBadRequest
	}

	p, payload, err := h.Allocate(int32(total))
	if err != nil {
		return NilPtr, nil, err
	}
	clear(payload)
	return p, payload, nil
}

// Payload re-resolves the payload slice for a live block, for callers that
// held a Ptr across operations that may have grown the region.
func (h *Heap) Payload(p Ptr) ([]byte, error) {
	if err := h.checkLive(p); err != nil {
		return nil, err
	}
	return h.payload(p), nil
}

// Config returns the active configuration.
func (h *Heap) Config() Config {
	return h.cfg
}

// Region returns the managed region.
func (h *Heap) Region() *region.Region {
	return h.r
}

func (h *Heap) data() []byte {
	return h.r.Bytes()
}

// adjustSize converts a payload request into a block size: add the tag
// overhead, round up to the alignment unit, and clamp to the minimum block.
func adjustSize(n int32) int32 {
	asize := tag.Align(n + tag.Overhead)
	if asize < tag.MinBlockSize {
		asize = tag.MinBlockSize
	}
	return asize
}

// place carves an allocated block of asize bytes out of the free block bp.
// The block is unlinked first; if the remainder can stand alone as a block
// it is split off and coalesced (the remainder can touch a free neighbor on
// extension paths), otherwise the whole block is used and the internal
// fragmentation accepted.
func (h *Heap) place(bp Ptr, asize int32) {
	size := h.blockSize(bp)
	h.removeFree(bp)

	if rem := size - asize; rem >= tag.MinBlockSize {
		h.stats.SplitCount++
		h.writeTags(bp, asize, true)
		next := h.nextBlock(bp)
		h.writeTags(next, rem, false)
		h.coalesce(next)
		return
	}
	h.writeTags(bp, size, true)
}

// extend grows the region, lays a new free block over the old epilogue,
// writes a fresh epilogue at the new end, and coalesces the block with any
// trailing free space. Returns the (possibly merged) free block.
func (h *Heap) extend(n int32) (Ptr, error) {
	n = tag.Align(n)
	start, err := h.r.Extend(n)
	if err != nil {
		return NilPtr, err
	}

	h.stats.ExtendCalls++
	h.stats.ExtendBytes += int64(n)
	if logAlloc {
		fmt.Fprintf(os.Stderr, "[HEAP] extend #%d: +%d bytes, region now %d\n",
			h.stats.ExtendCalls, n, h.r.Size())
	}

	// The old epilogue header becomes the new block's header.
	bp := start
	h.writeTags(bp, n, false)
	tag.Put(h.data(), h.r.Size()-tag.WordSize, 0, true)
	return h.coalesce(bp), nil
}

// checkLive verifies that p references a live allocated block before a
// deallocation path touches it: in bounds, aligned, tagged allocated, and
// with a bit-identical header/footer pair.
func (h *Heap) checkLive(p Ptr) error {
	data := h.data()
	if p < firstBlockPtr || p%tag.Alignment != 0 || int(p) > len(data)-tag.WordSize {
		return fmt.Errorf("%w: offset %#x", ErrBadPointer, p)
	}
	hdr := p - tag.WordSize
	size := tag.Size(data, hdr)
	if size < tag.MinBlockSize || int(hdr)+int(size) > int(h.r.Size())-tag.WordSize {
		return fmt.Errorf("%w: offset %#x has block size %d", ErrBadPointer, p, size)
	}
	if !tag.Allocated(data, hdr) {
		return fmt.Errorf("%w: offset %#x is not allocated", ErrBadPointer, p)
	}
	if tag.Raw(data, hdr) != tag.Raw(data, p+size-tag.Overhead) {
		return fmt.Errorf("%w: offset %#x header/footer mismatch", ErrBadPointer, p)
	}
	return nil
}
