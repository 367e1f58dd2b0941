package region

import "errors"

var (
	// ErrExhausted indicates the provider cannot supply any more address space.
	ErrExhausted = errors.New("region: address space exhausted")

	// ErrBadSize indicates a non-positive extension request.
	ErrBadSize = errors.New("region: extension size must be positive")
)
