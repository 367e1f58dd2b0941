package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/tag"
)

// Violation describes one structural inconsistency found in the region.
type Violation struct {
	Kind    string // which invariant was violated
	Offset  int32  // payload offset of the offending block, -1 if none
	Message string
}

func (v *Violation) Error() string {
	if v.Offset >= 0 {
		return fmt.Sprintf("%s at offset %#x: %s", v.Kind, v.Offset, v.Message)
	}
	return fmt.Sprintf("%s: %s", v.Kind, v.Message)
}

// Region start layout constants, shared with the heap package by
// construction: padding word, prologue sentinel, blocks, epilogue header.
const (
	prologuePtr   int32 = 2 * tag.WordSize
	firstBlockPtr int32 = 4 * tag.WordSize
	minRegionSize int32 = 4 * tag.WordSize
)

// AllInvariants runs every structural check over the region bytes and
// returns all violations found, in walk order. A nil result means the
// region is structurally sound.
func AllInvariants(data []byte, size int32) []*Violation {
	var vs []*Violation

	if int32(len(data)) < size || size < minRegionSize {
		return append(vs, &Violation{
			Kind:    "Region",
			Offset:  -1,
			Message: fmt.Sprintf("region too small: %d bytes (need %d)", size, minRegionSize),
		})
	}

	vs = append(vs, Prologue(data)...)
	blocks, walked := Blocks(data, size)
	vs = append(vs, blocks...)
	if walked {
		vs = append(vs, Epilogue(data, size)...)
	}
	return vs
}

// Prologue checks the prologue sentinel: fixed size, permanently allocated,
// matching tag pair.
func Prologue(data []byte) []*Violation {
	var vs []*Violation
	hdr := prologuePtr - tag.WordSize

	if got := tag.Size(data, hdr); got != tag.Overhead {
		vs = append(vs, &Violation{
			Kind:    "Prologue",
			Offset:  prologuePtr,
			Message: fmt.Sprintf("sentinel size %d, want %d", got, tag.Overhead),
		})
	}
	if !tag.Allocated(data, hdr) {
		vs = append(vs, &Violation{
			Kind:    "Prologue",
			Offset:  prologuePtr,
			Message: "sentinel not marked allocated",
		})
	}
	if tag.Raw(data, hdr) != tag.Raw(data, prologuePtr) {
		vs = append(vs, &Violation{
			Kind:    "Prologue",
			Offset:  prologuePtr,
			Message: "header does not match footer",
		})
	}
	return vs
}

// Blocks walks the chain from the first block to the epilogue, checking each
// block's tag pair, alignment, minimum size, and bounds, and that no two
// physically adjacent blocks are both free (the coalescing invariant). The
// second result reports whether the walk reached the epilogue; a corrupt
// size field stops the walk early since every later offset would be
// untrustworthy.
func Blocks(data []byte, size int32) ([]*Violation, bool) {
	var vs []*Violation
	end := size - tag.WordSize // epilogue header offset
	prevFree := false

	bp := firstBlockPtr
	for bp < end+tag.WordSize {
		hdr := bp - tag.WordSize
		bsize := tag.Size(data, hdr)
		if bsize == 0 {
			break // epilogue reached
		}

		if bp%tag.Alignment != 0 {
			vs = append(vs, &Violation{
				Kind:    "Block",
				Offset:  bp,
				Message: "payload is not double-word aligned",
			})
		}
		if bsize < tag.MinBlockSize || bsize%tag.Alignment != 0 {
			vs = append(vs, &Violation{
				Kind:    "Block",
				Offset:  bp,
				Message: fmt.Sprintf("illegal block size %d", bsize),
			})
			return vs, false
		}
		if int(hdr)+int(bsize) > int(end) {
			vs = append(vs, &Violation{
				Kind:    "Block",
				Offset:  bp,
				Message: fmt.Sprintf("block of size %d extends past region end", bsize),
			})
			return vs, false
		}
		if tag.Raw(data, hdr) != tag.Raw(data, bp+bsize-tag.Overhead) {
			vs = append(vs, &Violation{
				Kind:    "Block",
				Offset:  bp,
				Message: "header does not match footer",
			})
		}

		free := !tag.Allocated(data, hdr)
		if free && prevFree {
			vs = append(vs, &Violation{
				Kind:    "Coalesce",
				Offset:  bp,
				Message: "two adjacent free blocks",
			})
		}
		prevFree = free

		bp += bsize
	}
	return vs, true
}

// Epilogue checks the epilogue sentinel: zero size, allocated, sitting in
// the last word of the region.
func Epilogue(data []byte, size int32) []*Violation {
	var vs []*Violation
	hdr := size - tag.WordSize

	if got := tag.Size(data, hdr); got != 0 {
		vs = append(vs, &Violation{
			Kind:    "Epilogue",
			Offset:  size,
			Message: fmt.Sprintf("sentinel size %d, want 0", got),
		})
	}
	if !tag.Allocated(data, hdr) {
		vs = append(vs, &Violation{
			Kind:    "Epilogue",
			Offset:  size,
			Message: "sentinel not marked allocated",
		})
	}
	return vs
}
