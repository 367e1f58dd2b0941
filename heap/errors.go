package heap

import "errors"

var (
	// ErrNoSpace indicates that no free block was large enough and the region
	// could not grow any further.
	ErrNoSpace = errors.New("heap: no free block large enough")

	// ErrBadPointer indicates a pointer that does not reference a live
	// allocated block: out of bounds, misaligned, already freed, or with a
	// corrupted tag pair.
	ErrBadPointer = errors.New("heap: bad block pointer")

	// ErrBadRequest indicates a request whose size computation overflows.
	ErrBadRequest = errors.New("heap: request size overflows")

	// ErrConfig indicates an invalid allocator configuration.
	ErrConfig = errors.New("heap: invalid config")
)
