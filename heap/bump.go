package heap

import (
	"math"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/tag"
	"github.com/joshuapare/heapkit/region"
)

// BumpAllocator is the trivial append-only variant: a single break pointer
// advances through the region and freed space is never reused. Deallocate
// only counts the call. It shares the Allocator interface and the boundary
// tag encoding with Heap so the same traces and diagnostics run against
// both, which makes it a useful throughput and fragmentation baseline.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type BumpAllocator struct {
	r     *region.Region
	cfg   Config
	brk   Ptr // payload offset of the next allocation
	stats Stats
}

// NewBump creates a bump allocator over r. A nil cfg selects DefaultConfig.
func NewBump(r *region.Region, cfg *Config) (*BumpAllocator, error) {
	c := DefaultConfig
	if cfg != nil {
		c = cfg.withDefaults()
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &BumpAllocator{r: r, cfg: c, brk: 2 * tag.WordSize}, nil
}

// Allocate carves the next block off the break pointer, extending the
// region by at least ChunkSize when it runs out.
func (b *BumpAllocator) Allocate(n int32) (Ptr, []byte, error) {
	b.stats.AllocateCalls++
	if n <= 0 {
		return NilPtr, nil, nil
	}
	if int(n) > maxRequest {
		return NilPtr, nil, ErrNoSpace
	}

	asize := adjustSize(n)
	for int(b.brk)+int(asize) > int(b.r.Size())+tag.WordSize {
		grow := asize
		if grow < b.cfg.ChunkSize {
			grow = b.cfg.ChunkSize
		}
		if _, err := b.r.Extend(grow); err != nil {
			return NilPtr, nil, ErrNoSpace
		}
		b.stats.ExtendCalls++
		b.stats.ExtendBytes += int64(grow)
	}

	bp := b.brk
	b.brk += asize
	data := b.r.Bytes()
	tag.Put(data, bp-tag.WordSize, asize, true)
	tag.Put(data, bp+asize-tag.Overhead, asize, true)
	b.stats.BytesAllocated += int64(asize)
	return bp, data[bp : bp+asize-tag.Overhead], nil
}

// Deallocate is a recorded no-op: space is never reclaimed.
func (b *BumpAllocator) Deallocate(p Ptr) error {
	if p == NilPtr {
		return nil
	}
	b.stats.DeallocateCalls++
	return nil
}

// Reallocate always moves: allocate, copy, and abandon the old block.
func (b *BumpAllocator) Reallocate(p Ptr, n int32) (Ptr, []byte, error) {
	b.stats.ReallocateCalls++
	if n <= 0 {
		if err := b.Deallocate(p); err != nil {
			return NilPtr, nil, err
		}
		return NilPtr, nil, nil
	}
	if p == NilPtr {
		return b.Allocate(n)
	}

	oldSize := tag.Size(b.r.Bytes(), p-tag.WordSize) - tag.Overhead
	np, payload, err := b.Allocate(n)
	if err != nil {
		return NilPtr, nil, err
	}

	count := n
	if oldSize < count {
		count = oldSize
	}
	copy(payload[:count], b.r.Bytes()[p:p+count])
	b.stats.DeallocateCalls++
	return np, payload, nil
}

// ZeroAllocate allocates count*size payload bytes and zero-fills them.
func (b *BumpAllocator) ZeroAllocate(count, size int32) (Ptr, []byte, error) {
	b.stats.ZeroAllocateCalls++
	if count <= 0 || size <= 0 {
		return NilPtr, nil, nil
	}
	total, ok := buf.MulOverflowSafe(int(count), int(size))
	if !ok || total > math.MaxInt32 {
		return NilPtr, nil, ErrBadRequest
	}

	p, payload, err := b.Allocate(int32(total))
	if err != nil {
		return NilPtr, nil, err
	}
	clear(payload)
	return p, payload, nil
}

// Stats returns a snapshot of the allocator statistics.
func (b *BumpAllocator) Stats() Stats {
	return b.stats
}
