package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/region"
)

var (
	checkConfig string
	checkLimit  int
)

func init() {
	cmd := newCheckCmd()
	cmd.Flags().StringVar(&checkConfig, "config", "", "YAML allocator config file")
	cmd.Flags().IntVar(&checkLimit, "limit", region.DefaultLimit,
		"Region size limit in bytes")
	rootCmd.AddCommand(cmd)
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <trace>",
		Short: "Replay a trace with full validation after every operation",
		Long: `The check command replays a trace against the free-list heap and
runs the complete invariant checker after every single operation: boundary
tags, sentinels, coalescing, and free-list index consistency. It exits
non-zero on the first violation.

Example:
  heaptrace check traces/coalescing.rep
  heaptrace check traces/realloc.rep --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0])
		},
	}
	return cmd
}

func runCheck(path string) error {
	ops, err := readTraceFile(path)
	if err != nil {
		return err
	}

	var cfg *heap.Config
	if checkConfig != "" {
		if cfg, err = heap.LoadConfig(checkConfig); err != nil {
			return err
		}
	}

	h, err := heap.New(region.New(region.NewSliceProvider(checkLimit)), cfg)
	if err != nil {
		return err
	}

	after := func(op traceOp) error {
		if n := h.CheckHeap(verbose); n > 0 {
			return fmt.Errorf("trace line %d: %d heap violations", op.line, n)
		}
		return nil
	}
	if err := runOps(h, ops, after); err != nil {
		return err
	}

	printInfo("%s: %d operations, heap sound after every step\n", path, len(ops))
	if verbose {
		h.PrintStats(os.Stdout)
	}
	return nil
}
