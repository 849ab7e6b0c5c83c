// Package cache holds the client-side working set of server resources.
//
// # Overview
//
// The Store keeps the last successfully fetched value per cache key
// (one key per products page, one for the category list) together with
// per-key loading and error state. Reads are stale-while-revalidate:
// within the freshness window a cached value is served without network;
// past it the Store refetches while the old value stays available for
// display.
//
// # Failure policy
//
// A failed fetch is retried up to two more times inside the same read.
// Only when the budget is exhausted does the key flip to errored, and
// even then the last good value is preserved and served. The next read
// starts a fresh attempt.
//
// # Concurrency
//
// Any number of goroutines may read the same key concurrently; a
// singleflight group guarantees at most one network fetch per key at a
// time, with every waiter receiving the shared result. Entries carry a
// generation counter bumped by Invalidate, so a fetch that resolves
// after its key was invalidated cannot overwrite fresher state.
package cache
