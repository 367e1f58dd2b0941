//go:build !linux && !darwin

package region

// MmapProvider on platforms without anonymous mmap support reserves the full
// limit as a plain allocation. Semantics match the unix implementation: the
// backing array never moves and Grow only advances the break pointer.
type MmapProvider struct {
	buf []byte
	brk int
}

// NewMmapProvider reserves maxBytes of memory. A non-positive maxBytes
// selects DefaultLimit.
func NewMmapProvider(maxBytes int) (*MmapProvider, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultLimit
	}
	if maxBytes > MaxRegionSize {
		maxBytes = MaxRegionSize
	}
	return &MmapProvider{buf: make([]byte, maxBytes)}, nil
}

// Grow advances the break pointer by n bytes within the reservation.
func (p *MmapProvider) Grow(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrBadSize
	}
	if p.brk+n > len(p.buf) {
		return nil, ErrExhausted
	}
	p.brk += n
	return p.buf[:p.brk], nil
}

// Close releases the reservation. The provider must not be used afterwards.
func (p *MmapProvider) Close() error {
	p.buf = nil
	return nil
}
