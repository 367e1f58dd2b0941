// Package region manages the single contiguous, growable byte range that a
// heap allocator carves blocks from.
//
// # Overview
//
// A Region is a monotonic view over a backing store supplied by a Provider.
// It only ever grows: Extend(n) asks the provider for n more bytes and
// returns the offset where the new space begins. Memory is never returned to
// the provider; ownership of every byte acquired stays with the caller until
// the Region is discarded.
//
// # Providers
//
// Two providers are included:
//
//   - SliceProvider: a plain growable []byte with a configurable limit.
//     This is the default and the one used throughout the tests.
//   - MmapProvider: reserves the full limit up front with one anonymous
//     private mapping (unix) and grows by advancing an internal break
//     pointer. On other platforms the reservation is a plain allocation
//     with identical semantics.
//
// Both translate exhaustion into ErrExhausted, which allocators surface as
// an out-of-memory result rather than a crash.
//
// # Thread Safety
//
// Regions and providers are not thread-safe. Callers must synchronize
// access externally.
package region
