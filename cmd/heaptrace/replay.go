package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/region"
)

var (
	replayConfig    string
	replayAllocator string
	replayLimit     int
	replayCheck     bool
)

func init() {
	cmd := newReplayCmd()
	cmd.Flags().StringVar(&replayConfig, "config", "", "YAML allocator config file")
	cmd.Flags().StringVar(&replayAllocator, "allocator", "heap",
		"Allocator implementation: heap or bump")
	cmd.Flags().IntVar(&replayLimit, "limit", region.DefaultLimit,
		"Region size limit in bytes")
	cmd.Flags().BoolVar(&replayCheck, "check", false,
		"Validate heap invariants after every operation")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>",
		Short: "Replay an allocation trace and report statistics",
		Long: `The replay command parses a trace file, drives the allocator
with it, and prints allocator statistics when the trace completes.

Example:
  heaptrace replay traces/binary.rep
  heaptrace replay traces/coalescing.rep --check
  heaptrace replay traces/realloc.rep --allocator bump
  heaptrace replay traces/binary.rep --config heap.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args[0])
		},
	}
	return cmd
}

func loadReplayConfig() (*heap.Config, error) {
	if replayConfig == "" {
		return nil, nil
	}
	return heap.LoadConfig(replayConfig)
}

func runReplay(path string) error {
	ops, err := readTraceFile(path)
	if err != nil {
		return err
	}
	cfg, err := loadReplayConfig()
	if err != nil {
		return err
	}

	r := region.New(region.NewSliceProvider(replayLimit))

	switch replayAllocator {
	case "heap":
		h, err := heap.New(r, cfg)
		if err != nil {
			return err
		}
		after := func(op traceOp) error {
			if !replayCheck {
				return nil
			}
			if n := h.CheckHeap(verbose); n > 0 {
				return fmt.Errorf("trace line %d: %d heap violations", op.line, n)
			}
			return nil
		}
		if err := runOps(h, ops, after); err != nil {
			return err
		}
		printInfo("replayed %d operations from %s\n", len(ops), path)
		if !quiet {
			h.PrintStats(os.Stdout)
		}

	case "bump":
		b, err := heap.NewBump(r, cfg)
		if err != nil {
			return err
		}
		if err := runOps(b, ops, nil); err != nil {
			return err
		}
		s := b.Stats()
		printInfo("replayed %d operations from %s\n", len(ops), path)
		printInfo("bump: %d allocate, %d deallocate, %d reallocate, region %d bytes\n",
			s.AllocateCalls, s.DeallocateCalls, s.ReallocateCalls, r.Size())

	default:
		return fmt.Errorf("unknown allocator %q (want heap or bump)", replayAllocator)
	}
	return nil
}

func readTraceFile(path string) ([]traceOp, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()
	return parseTrace(f)
}

// runOps drives the allocator with the parsed trace, mapping trace handles to
// live pointers. The optional after hook runs behind every operation.
func runOps(a heap.Allocator, ops []traceOp, after func(traceOp) error) error {
	handles := make(map[int]heap.Ptr)

	for _, op := range ops {
		switch op.kind {
		case 'a':
			if _, exists := handles[op.id]; exists {
				return fmt.Errorf("trace line %d: handle %d already live", op.line, op.id)
			}
			p, _, err := a.Allocate(op.size)
			if err != nil {
				return fmt.Errorf("trace line %d: allocate %d: %w", op.line, op.size, err)
			}
			handles[op.id] = p
			printVerbose("line %d: a %d %d -> 0x%X\n", op.line, op.id, op.size, p)

		case 'r':
			p, exists := handles[op.id]
			if !exists {
				return fmt.Errorf("trace line %d: reallocate of unknown handle %d", op.line, op.id)
			}
			np, _, err := a.Reallocate(p, op.size)
			if err != nil {
				return fmt.Errorf("trace line %d: reallocate to %d: %w", op.line, op.size, err)
			}
			handles[op.id] = np
			printVerbose("line %d: r %d %d -> 0x%X\n", op.line, op.id, op.size, np)

		case 'f':
			p, exists := handles[op.id]
			if !exists {
				return fmt.Errorf("trace line %d: free of unknown handle %d", op.line, op.id)
			}
			if err := a.Deallocate(p); err != nil {
				return fmt.Errorf("trace line %d: free handle %d: %w", op.line, op.id, err)
			}
			delete(handles, op.id)
			printVerbose("line %d: f %d (0x%X)\n", op.line, op.id, p)
		}

		if after != nil {
			if err := after(op); err != nil {
				return err
			}
		}
	}
	return nil
}
