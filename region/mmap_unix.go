//go:build linux || darwin

package region

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MmapProvider backs a Region with one anonymous private mapping reserved up
// front. Grow never moves the mapping; it only advances the break pointer,
// so payload slices handed out by allocators stay valid across growth.
type MmapProvider struct {
	buf []byte
	brk int
}

// NewMmapProvider reserves maxBytes of anonymous memory. A non-positive
// maxBytes selects DefaultLimit.
func NewMmapProvider(maxBytes int) (*MmapProvider, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultLimit
	}
	if maxBytes > MaxRegionSize {
		maxBytes = MaxRegionSize
	}
	b, err := unix.Mmap(-1, 0, maxBytes,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("region: mmap reserve %d bytes: %w", maxBytes, err)
	}
	return &MmapProvider{buf: b}, nil
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
	if p.buf == nil {
		return nil
	}
	err := unix.Munmap(p.buf)
	p.buf = nil
	return err
}
