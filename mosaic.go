// Package mosaic is an archetypal entity-component storage and query engine.
// Entities are grouped by their exact component-type set into archetypes for
// cache-friendly iteration, migrate between archetypes atomically whenever
// their component set changes, and are reached through searches that declare
// their read/write access up front so conflicting access is rejected at
// runtime.
//
// The World is single-threaded-safe: no internal locking, all operations
// synchronous and bounded. Confine a World to one goroutine, or guard it
// with an external read/write lock and only run read-only searches in
// parallel.
package mosaic
