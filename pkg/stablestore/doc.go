// Package stablestore provides an append-only, chunked arena whose element
// addresses never change.
//
// A Store hands out *T handles to stored elements. Those handles stay valid,
// and keep pointing at the same element, for as long as the Store is
// reachable, no matter how many elements are appended afterwards.
//
// A plain slice grown with append does not give this guarantee: when the
// backing array runs out of capacity, append copies every element into a new
// array and earlier pointers keep referring to the old copy. Store grows by
// allocating whole new fixed-capacity chunks instead and never touches an
// existing chunk again.
//
// # Basic Usage
//
//	var store stablestore.Store[string] // zero value is ready to use
//
//	pos, err := store.Append("a")
//	if err != nil {
//	    // only possible with Options.MaxLen, see [ErrAllocation]
//	}
//
//	handle, ok := store.Get(pos)
//
// # Concurrency
//
// A Store is not safe for concurrent mutation. Handles returned by [Store.Get]
// and [Store.Append] may be read from any goroutine once the call that
// produced them has returned.
package stablestore
