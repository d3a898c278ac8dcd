// Package reiterator wraps a single-pass source in a lazy, memoizing cache
// that can be traversed any number of times and in any order.
//
// Every element is pulled from the source at most once, stored in a
// [stablestore.Store], and handed out as a *T that stays valid (and keeps
// pointing at the same element) for as long as the [Reiterator] is reachable.
// Nothing is pulled until it is asked for, and never more than the request
// needs.
//
// # Basic Usage
//
//	it := reiterator.FromSlice([]rune{'a', 'b', 'c'}) // nothing pulled yet
//
//	// Positional access: pulls 'a' and 'b', caches both.
//	h, ok, err := it.At(1)
//	// h.Index == 1, *h.Value == 'b'
//
//	// Sequential access shares the same cache.
//	for {
//	    h, ok, err := it.Next()
//	    if err != nil || !ok {
//	        break
//	    }
//	    // h.Index: 0, 1, 2
//	}
//
//	it.Restart() // rewind the cursor; the source is never rewound
//
// # Cursor
//
// The cursor is the position [Reiterator.Get] peeks at and [Reiterator.Next]
// reads before advancing. It can be set to any value with
// [Reiterator.SetIndex]; that performs no I/O by itself. Reaching the end of
// the source is a property of an access result (ok == false), not a state of
// the cursor.
//
// # Concurrency
//
// A Reiterator is not safe for concurrent use. Handles it returns may be read
// from any goroutine, including while the Reiterator keeps growing.
//
// # Error Handling
//
// Running out of source elements is not an error. The only runtime error is
// [ErrAllocation], returned when [Options.MaxCached] is exceeded; the cache
// and the source are left exactly as they were.
package reiterator
