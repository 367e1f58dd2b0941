// Package heap implements a general-purpose dynamic memory manager over a
// single contiguous, growable region of bytes.
//
// # Overview
//
// The core is a segregated free-list block allocator: every block carries a
// boundary tag (size and allocation bit, duplicated in a header and footer
// word), free blocks are indexed in power-of-two size-class buckets as
// intrusive doubly linked lists, allocation is a first-fit search with
// splitting, and deallocation merges the block with free neighbors
// immediately. The managed region is bounded by a permanently allocated
// prologue sentinel and a zero-size epilogue sentinel so neighbor traversal
// never needs region-boundary checks.
//
// # Addressing
//
// Blocks are addressed by offset into the region's backing slice (Ptr),
// never by raw pointer. This keeps every bounds and alignment check in one
// place and lets the region's backing array move when it grows.
//
// # Usage Example
//
//	r := region.New(region.NewSliceProvider(0))
//	h, err := heap.New(r, nil)
//	if err != nil {
//	    return err
//	}
//
//	p, data, err := h.Allocate(256)
//	if err != nil {
//	    return err
//	}
//	copy(data, payload)
//
//	// Later, release the block.
//	err = h.Deallocate(p)
//
// # Implementations
//
// Heap: the free-list allocator described above.
//
// BumpAllocator: append-only baseline implementing the same Allocator
// interface; Deallocate is a recorded no-op.
//
// # Diagnostics
//
// CheckHeap walks the block chain and the bucket index and reports every
// structural violation found; it never repairs state. Stats and PrintStats
// expose operation counters.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Use one instance per goroutine
// or synchronize access externally.
package heap
