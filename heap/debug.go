package heap

import (
	"fmt"
	"os"
)

// Debug flag - set to true to enable verbose logging (compile-time toggle).
const debugHeap = false

// Runtime flag for extension logging - controlled by HEAPKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAPKIT_LOG_ALLOC") != ""

// debugLogf prints debug messages if debugHeap is enabled.
func debugLogf(format string, args ...any) {
	if debugHeap {
		fmt.Fprintf(os.Stderr, "[HEAP] "+format+"\n", args...)
	}
}
