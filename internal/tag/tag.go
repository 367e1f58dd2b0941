// Package tag houses the boundary-tag word codec used by the block heap.
// Every block in the managed region begins and ends with a 4-byte tag word
// packing the block size together with its allocation bit. The goal is to
// keep the encoding focused and allocation-free so higher-level packages can
// orchestrate block traversal without re-deriving the bit layout.
package tag

import "encoding/binary"

const (
	// WordSize is the size of a single tag word in bytes.
	WordSize = 4

	// Alignment is the double-word alignment unit. Block sizes are always a
	// multiple of this, which keeps the low three bits of every tag free and
	// every payload address 8-byte aligned.
	Alignment = 8

	// AlignmentMask masks the low bits reserved for flags.
	AlignmentMask = Alignment - 1

	// Overhead is the fixed per-block bookkeeping cost: one header word plus
	// one footer word.
	Overhead = 2 * WordSize

	// MinBlockSize is the smallest legal block: header, footer, and two link
	// words. The link words live in the payload and are only meaningful while
	// the block is free, but the block must be large enough to hold them in
	// either state.
	MinBlockSize = Overhead + 2*WordSize

	// allocBit marks a block as allocated. Stored in bit 0 of the tag word.
	allocBit = 0x1
)

// Pack combines a block size and allocation flag into a single tag word.
// The size must be a multiple of Alignment; the low bits carry the flag.
func Pack(size int32, allocated bool) uint32 {
	v := uint32(size)
	if allocated {
		v |= allocBit
	}
	return v
}

// Put writes a tag word at the given offset.
func Put(b []byte, off, size int32, allocated bool) {
	binary.LittleEndian.PutUint32(b[off:off+WordSize], Pack(size, allocated))
}

// Size reads the block size from the tag word at the given offset.
func Size(b []byte, off int32) int32 {
	return int32(binary.LittleEndian.Uint32(b[off:off+WordSize]) & ^uint32(AlignmentMask))
}

// Allocated reads the allocation flag from the tag word at the given offset.
func Allocated(b []byte, off int32) bool {
	return binary.LittleEndian.Uint32(b[off:off+WordSize])&allocBit != 0
}

// Raw reads the full tag word without decoding. Used by consistency checks
// that compare a header and footer for bit-identity.
func Raw(b []byte, off int32) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+WordSize])
}

// PutLink writes a free-list link offset into a payload word.
func PutLink(b []byte, off, link int32) {
	binary.LittleEndian.PutUint32(b[off:off+WordSize], uint32(link))
}

// Link reads a free-list link offset from a payload word.
func Link(b []byte, off int32) int32 {
	return int32(binary.LittleEndian.Uint32(b[off : off+WordSize]))
}

// Align returns n rounded up to the next Alignment boundary.
//
// Example:
//
//	Align(1)  = 8
//	Align(8)  = 8
//	Align(9)  = 16
func Align(n int32) int32 {
	return (n + AlignmentMask) & ^int32(AlignmentMask)
}
