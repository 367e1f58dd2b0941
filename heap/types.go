package heap

// Ptr is a payload offset into the managed region. The header word of the
// block sits immediately before the offset. Offset 0 falls inside the
// alignment padding at the start of the region and is never a valid payload,
// so it doubles as the nil pointer.
type Ptr = int32

// NilPtr is the "no block" sentinel.
const NilPtr Ptr = 0

// Allocator is the contract shared by the free-list heap and the append-only
// bump variant.
//
// Implementations:
//   - Heap: segregated free-list allocator with splitting and coalescing
//   - BumpAllocator: append-only wrapper that never reuses freed space
//
// Returned payload slices alias the managed region and remain valid until
// the next operation that can grow the region. Callers that need longevity
// should keep the Ptr and re-resolve the payload.
type Allocator interface {
	// Allocate returns a block with at least n payload bytes.
	// A request of zero or fewer bytes is a benign no-op returning NilPtr.
	Allocate(n int32) (Ptr, []byte, error)

	// Deallocate releases the block at p. Deallocate(NilPtr) is a no-op.
	Deallocate(p Ptr) error

	// Reallocate resizes the block at p to n payload bytes, moving it if
	// necessary. Reallocate(NilPtr, n) behaves as Allocate(n);
	// Reallocate(p, 0) behaves as Deallocate(p) and returns NilPtr.
	// On failure the original block is left untouched.
	Reallocate(p Ptr, n int32) (Ptr, []byte, error)

	// ZeroAllocate allocates count*size payload bytes and zero-fills them.
	// The product is checked for overflow before use.
	ZeroAllocate(count, size int32) (Ptr, []byte, error)
}

var (
	_ Allocator = (*Heap)(nil)
	_ Allocator = (*BumpAllocator)(nil)
)
