package heap

import (
	"fmt"
	"os"

	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/tag"
)

// CheckHeap walks the block chain from prologue to epilogue, verifying the
// structural invariants and the free-list index, and reports each violation
// to stderr. With verbose set, every block is printed as well. It returns
// the number of violations found; it never repairs state. Purely an
// auxiliary consistency check, not required for allocator correctness.
func (h *Heap) CheckHeap(verbose bool) int {
	data := h.data()
	size := h.r.Size()

	if verbose {
		fmt.Fprintf(os.Stderr, "heap (%d bytes):\n", size)
	}

	violations := verify.AllInvariants(data, size)
	violations = append(violations, h.checkFreeLists()...)
	for _, v := range violations {
		fmt.Fprintln(os.Stderr, v)
	}

	if verbose {
		for bp := firstBlockPtr; bp < size; bp = h.nextBlock(bp) {
			bsize := h.blockSize(bp)
			if bsize == 0 {
				fmt.Fprintf(os.Stderr, "  %#08x: epilogue\n", bp)
				break
			}
			h.printBlock(bp)
			if bsize < tag.MinBlockSize {
				break // walking further would loop on a corrupt size
			}
		}
	}

	return len(violations)
}

func (h *Heap) printBlock(bp Ptr) {
	data := h.data()
	hdr := bp - tag.WordSize
	ftr := bp + h.blockSize(bp) - tag.Overhead

	fmt.Fprintf(os.Stderr, "  %#08x: header [%d:%c] footer [%d:%c]\n", bp,
		tag.Size(data, hdr), stateChar(tag.Allocated(data, hdr)),
		tag.Size(data, ftr), stateChar(tag.Allocated(data, ftr)))
}

func stateChar(allocated bool) byte {
	if allocated {
		return 'a'
	}
	return 'f'
}

// checkFreeLists cross-checks the bucket index against the physical block
// chain: every linked block must be free and sized to its bucket with
// consistent back-links, and every free block in the chain must be linked
// in exactly one bucket.
func (h *Heap) checkFreeLists() []*verify.Violation {
	var vs []*verify.Violation
	linked := make(map[Ptr]int)

	for idx, head := range h.buckets {
		prev := NilPtr
		// Bound traversal by the free-block gauge so a corrupt cycle cannot
		// hang the check.
		for bp, hops := head, 0; bp != NilPtr; bp, hops = h.nextFree(bp), hops+1 {
			if hops > h.stats.FreeBlocks {
				vs = append(vs, &verify.Violation{
					Kind: "FreeList", Offset: bp,
					Message: fmt.Sprintf("bucket %d list exceeds free block count (cycle?)", idx),
				})
				break
			}
			if h.allocated(bp) {
				vs = append(vs, &verify.Violation{
					Kind: "FreeList", Offset: bp,
					Message: fmt.Sprintf("allocated block linked in bucket %d", idx),
				})
			}
			if got := h.bucketFor(h.blockSize(bp)); got != idx {
				vs = append(vs, &verify.Violation{
					Kind: "FreeList", Offset: bp,
					Message: fmt.Sprintf("block of size %d in bucket %d, belongs in %d",
						h.blockSize(bp), idx, got),
				})
			}
			if h.prevFree(bp) != prev {
				vs = append(vs, &verify.Violation{
					Kind: "FreeList", Offset: bp,
					Message: "previous-link does not match list position",
				})
			}
			linked[bp]++
			prev = bp
		}
	}

	for bp, n := range linked {
		if n > 1 {
			vs = append(vs, &verify.Violation{
				Kind: "FreeList", Offset: bp,
				Message: fmt.Sprintf("block linked %d times", n),
			})
		}
	}

	// Every free block in the physical chain must be indexed.
	size := h.r.Size()
	for bp := firstBlockPtr; bp < size; bp = h.nextBlock(bp) {
		bsize := h.blockSize(bp)
		if bsize == 0 {
			break
		}
		if bsize < tag.MinBlockSize {
			break // structural walk already reported this
		}
		if !h.allocated(bp) && linked[bp] == 0 {
			vs = append(vs, &verify.Violation{
				Kind: "FreeList", Offset: bp,
				Message: "free block missing from its bucket",
			})
		}
	}

	return vs
}
