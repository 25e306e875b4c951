// Package markalloc supplies mark-stack memory for concurrent
// garbage collector marking, with a limited scope:
//
//   - Stack buffers have a single fixed size, configured per engine.
//   - Buffers are carved in magazine sized batches out of one reserved
//     address range, then perpetually recycled. Individual buffers are
//     never freed.
//   - Committed memory is given back to the OS only when the owning
//     engine releases the allocator.
//   - Magazine and Stack methods are not thread safe, both are owned
//     by a single goroutine at a time. Allocator, Space and Freelist
//     are safe for concurrent use.
//
// The full address range is reserved up front and physical memory is
// committed in fixed increments as marking demand grows, up to a hard
// "spacelimit". Marking cannot make progress without mark-stack
// memory, so exhausting the limit is unrecoverable and terminates the
// process.
package markalloc

// TODO: decommit idle expansion increments between marking cycles,
// once committed memory is accounted per increment.
