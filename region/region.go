package region

import (
	"github.com/joshuapare/heapkit/internal/buf"
)

// MaxRegionSize is the hard cap on a managed region. Block offsets and sizes
// are int32, so the region can never exceed 2GB - 1 bytes.
const MaxRegionSize = 0x7FFFFFFF

// Provider supplies raw bytes to a Region. Grow extends the backing store by
// n bytes and returns the full backing slice, or an error when the address
// space is exhausted. The prefix of the returned slice must be stable: bytes
// written before a Grow call are visible at the same offsets afterwards.
type Provider interface {
	Grow(n int) ([]byte, error)
}

// Region is one logically contiguous byte range backed by a Provider.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Region struct {
	p    Provider
	data []byte
	size int32
}

// New creates an empty Region on top of the given provider.
func New(p Provider) *Region {
	return &Region{p: p}
}

// Bytes returns the current backing slice. The slice is invalidated by the
// next Extend call; callers that hold offsets rather than sub-slices are
// unaffected.
func (r *Region) Bytes() []byte {
	return r.data
}

// Size returns the current region size in bytes.
func (r *Region) Size() int32 {
	return r.size
}

// Extend grows the region by n bytes and returns the offset where the newly
// available space begins. Provider failure and the 2GB offset cap both
// surface as ErrExhausted so callers can treat them uniformly as
// out-of-memory.
func (r *Region) Extend(n int32) (int32, error) {
	if n <= 0 {
		return 0, ErrBadSize
	}
	total, ok := buf.AddOverflowSafe(int(r.size), int(n))
	if !ok || total > MaxRegionSize {
		return 0, ErrExhausted
	}

	data, err := r.p.Grow(int(n))
	if err != nil {
		return 0, err
	}

	start := r.size
	r.data = data[:total]
	r.size = int32(total)
	return start, nil
}
