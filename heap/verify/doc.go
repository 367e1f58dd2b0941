// Package verify provides structural validation for a managed heap region.
// These checks are diagnostic only: they walk the block chain from the
// prologue sentinel to the epilogue sentinel, collect every violation they
// find, and never repair state or halt execution. The allocator does not
// depend on them for correctness; tests and the CheckHeap diagnostic do.
package verify
