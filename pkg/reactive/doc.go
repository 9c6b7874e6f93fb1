// Package reactive implements fine-grained dependency tracking: reactive
// cells whose per-key reads and writes are observable, re-runnable effects
// that record what they read, and lazily cached computed values.
//
// The engine is synchronous and single-threaded. A write may run
// every subscribed effect to completion before it returns; schedulers are a
// synchronous indirection (used for computed laziness), not deferred
// execution. A cell and the effects subscribed to it must be confined to a
// single goroutine; the tracking context itself is goroutine-keyed, so
// independent graphs on separate goroutines (one per session, say) do not
// interfere.
package reactive
