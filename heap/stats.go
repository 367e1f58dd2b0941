package heap

import (
	"io"

	"github.com/inhies/go-bytesize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats holds internal allocator statistics.
type Stats struct {
	AllocateCalls     int   // Total Allocate() calls
	DeallocateCalls   int   // Total Deallocate() calls (excluding NilPtr no-ops)
	ReallocateCalls   int   // Total Reallocate() calls
	ZeroAllocateCalls int   // Total ZeroAllocate() calls
	ExtendCalls       int   // Number of region extensions
	ExtendBytes       int64 // Total bytes acquired via extension
	SplitCount        int   // Number of block splits during placement
	CoalesceNext      int   // Merges with the next neighbor only
	CoalescePrev      int   // Merges with the previous neighbor only
	CoalesceBoth      int   // Three-way merges
	BytesAllocated    int64 // Total block bytes handed out (including overhead)
	BytesFreed        int64 // Total block bytes released
	FreeBlocks        int   // Current number of FREE blocks (gauge)
	FreeBytes         int64 // Current sum of FREE block sizes (gauge)
}

// Stats returns a snapshot of the allocator statistics.
func (h *Heap) Stats() Stats {
	return h.stats
}

// PrintStats writes a human-readable statistics report to w.
func (h *Heap) PrintStats(w io.Writer) {
	p := message.NewPrinter(language.English)
	s := h.stats

	p.Fprintf(w, "heap %q: region %s, %d free blocks (%s free)\n",
		h.cfg.Name, bytesize.New(float64(h.r.Size())), s.FreeBlocks,
		bytesize.New(float64(s.FreeBytes)))
	p.Fprintf(w, "  ops: %d allocate, %d deallocate, %d reallocate, %d zero-allocate\n",
		s.AllocateCalls, s.DeallocateCalls, s.ReallocateCalls, s.ZeroAllocateCalls)
	p.Fprintf(w, "  extensions: %d calls, %s acquired\n",
		s.ExtendCalls, bytesize.New(float64(s.ExtendBytes)))
	p.Fprintf(w, "  splits: %d  coalesces: %d next, %d prev, %d both\n",
		s.SplitCount, s.CoalesceNext, s.CoalescePrev, s.CoalesceBoth)
	p.Fprintf(w, "  volume: %s allocated, %s freed\n",
		bytesize.New(float64(s.BytesAllocated)), bytesize.New(float64(s.BytesFreed)))
}
