package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// traceOp is one parsed trace line.
type traceOp struct {
	kind byte  // 'a', 'r', or 'f'
	id   int   // handle number, scoped to the trace
	size int32 // request size for 'a' and 'r'
	line int   // 1-based source line, for error reporting
}

// parseTrace reads the driver trace grammar: one op per line, blank lines and
// '#' comments skipped.
func parseTrace(r io.Reader) ([]traceOp, error) {
	var ops []traceOp
	sc := bufio.NewScanner(r)

	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		op := traceOp{kind: fields[0][0], line: line}

		switch {
		case fields[0] == "a" && len(fields) == 3:
			id, err1 := strconv.Atoi(fields[1])
			size, err2 := strconv.ParseInt(fields[2], 10, 32)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("trace line %d: malformed allocate: %q", line, text)
			}
			op.id, op.size = id, int32(size)

		case fields[0] == "r" && len(fields) == 3:
			id, err1 := strconv.Atoi(fields[1])
			size, err2 := strconv.ParseInt(fields[2], 10, 32)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("trace line %d: malformed reallocate: %q", line, text)
			}
			op.id, op.size = id, int32(size)

		case fields[0] == "f" && len(fields) == 2:
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("trace line %d: malformed free: %q", line, text)
			}
			op.id = id

		default:
			return nil, fmt.Errorf("trace line %d: unknown operation: %q", line, text)
		}

		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return ops, nil
}
