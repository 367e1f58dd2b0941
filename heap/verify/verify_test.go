package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/tag"
)

type testBlock struct {
	size      int32
	allocated bool
}

func blk(size int32, allocated bool) testBlock {
	return testBlock{size: size, allocated: allocated}
}

// buildRegion assembles a minimal well-formed region by hand: padding word,
// prologue sentinel, the given (size, allocated) blocks, epilogue header.
func buildRegion(blocks ...testBlock) []byte {
	total := minRegionSize
	for _, b := range blocks {
		total += b.size
	}
	data := make([]byte, total)

	tag.Put(data, prologuePtr-tag.WordSize, tag.Overhead, true)
	tag.Put(data, prologuePtr, tag.Overhead, true)

	bp := firstBlockPtr
	for _, b := range blocks {
		tag.Put(data, bp-tag.WordSize, b.size, b.allocated)
		tag.Put(data, bp+b.size-tag.Overhead, b.size, b.allocated)
		bp += b.size
	}
	tag.Put(data, total-tag.WordSize, 0, true)
	return data
}

func kinds(vs []*Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Kind
	}
	return out
}

func TestSoundRegionHasNoViolations(t *testing.T) {
	data := buildRegion(blk(32, true), blk(64, false), blk(16, true))
	assert.Empty(t, AllInvariants(data, int32(len(data))))
}

func TestEmptyRegionHasNoViolations(t *testing.T) {
	data := buildRegion()
	assert.Empty(t, AllInvariants(data, int32(len(data))))
}

func TestUndersizedRegionRejected(t *testing.T) {
	vs := AllInvariants(make([]byte, 8), 8)
	require.Len(t, vs, 1)
	assert.Equal(t, "Region", vs[0].Kind)
}

func TestCorruptPrologueDetected(t *testing.T) {
	data := buildRegion(blk(32, true))

	// Clear the prologue's allocated bit in the header only: both the flag
	// check and the header/footer identity check must fire.
	tag.Put(data, prologuePtr-tag.WordSize, tag.Overhead, false)

	vs := Prologue(data)
	require.Len(t, vs, 2)
	assert.Equal(t, "Prologue", vs[0].Kind)
	assert.Equal(t, "Prologue", vs[1].Kind)
}

func TestCorruptFooterDetected(t *testing.T) {
	data := buildRegion(blk(32, true), blk(64, false))

	// Overwrite the first block's footer with a lie about its size.
	tag.Put(data, firstBlockPtr+32-tag.Overhead, 48, true)

	vs := AllInvariants(data, int32(len(data)))
	require.NotEmpty(t, vs)
	assert.Contains(t, kinds(vs), "Block")
	assert.Contains(t, vs[0].Message, "header does not match footer")
}

func TestAdjacentFreeBlocksDetected(t *testing.T) {
	data := buildRegion(blk(32, false), blk(64, false))

	vs := AllInvariants(data, int32(len(data)))
	require.Len(t, vs, 1)
	assert.Equal(t, "Coalesce", vs[0].Kind)
	assert.Equal(t, firstBlockPtr+32, vs[0].Offset)
}

func TestIllegalBlockSizeStopsWalk(t *testing.T) {
	data := buildRegion(blk(32, true), blk(64, true))

	// A size below the legal minimum poisons every later offset, so the walk
	// must stop instead of cascading bogus violations.
	tag.Put(data, firstBlockPtr-tag.WordSize, 8, true)

	vs, walked := Blocks(data, int32(len(data)))
	assert.False(t, walked)
	require.Len(t, vs, 1)
	assert.Equal(t, "Block", vs[0].Kind)
	assert.Contains(t, vs[0].Message, "illegal block size")
}

func TestOverrunningBlockDetected(t *testing.T) {
	data := buildRegion(blk(32, true))

	// Size field claims far more than the region holds.
	tag.Put(data, firstBlockPtr-tag.WordSize, 4096, true)

	vs, walked := Blocks(data, int32(len(data)))
	assert.False(t, walked)
	require.Len(t, vs, 1)
	assert.Contains(t, vs[0].Message, "extends past region end")
}

func TestCorruptEpilogueDetected(t *testing.T) {
	data := buildRegion(blk(32, true))
	size := int32(len(data))

	tag.Put(data, size-tag.WordSize, 16, false)

	vs := Epilogue(data, size)
	require.Len(t, vs, 2)
	for _, v := range vs {
		assert.Equal(t, "Epilogue", v.Kind)
	}
}

func TestViolationErrorString(t *testing.T) {
	v := &Violation{Kind: "Block", Offset: 0x40, Message: "illegal block size 9"}
	assert.Equal(t, "Block at offset 0x40: illegal block size 9", v.Error())

	v = &Violation{Kind: "Region", Offset: -1, Message: "region too small"}
	assert.Equal(t, "Region: region too small", v.Error())
}
