package reiterator

import (
	"fmt"
	"io"
	"iter"
	"math"

	"github.com/rs/zerolog"

	"github.com/calvinalkan/reiterator/pkg/stablestore"
)

// Options configure a [Reiterator].
//
// The zero value is valid.
type Options struct {
	// ChunkSize is the number of elements per cache chunk.
	// 0 means [stablestore.DefaultChunkSize].
	ChunkSize int

	// MaxCached caps the number of cached elements. 0 means unbounded.
	// Requests that would cache more fail with [ErrAllocation].
	MaxCached int

	// Logger receives debug events about fills and exhaustion.
	// nil means no logging.
	Logger *zerolog.Logger
}

// Stats is a snapshot of a Reiterator's counters.
type Stats struct {
	// Cached is the number of elements stored.
	Cached int

	// Pulls is the number of elements the source has produced. It equals
	// Cached, plus one while a pulled element waits for cache space.
	Pulls int

	// Polls is the number of calls made to the source, including the one
	// that reported its end.
	Polls int

	// Exhausted reports whether the source signalled its end.
	Exhausted bool

	// Chunks is the number of cache chunks allocated.
	Chunks int
}

// Reiterator caches the output of a [Source] and serves it by position.
//
// A Reiterator must be obtained via [New] or one of the From helpers; the
// zero value is not usable.
type Reiterator[T any] struct {
	_ [0]func() // prevent external construction

	src   Source[T]
	store *stablestore.Store[T]
	log   zerolog.Logger

	// cursor is the next position Next will read. Any value is allowed.
	cursor int

	exhausted bool
	closed    bool
	pulls     int
	polls     int

	// pending holds an element that was pulled but could not be cached
	// because the store refused to grow. It is stored by the next fill.
	pending    T
	hasPending bool

	// err is the error that stopped the last All range.
	err error
}

// New returns a Reiterator over src with an empty cache and the cursor at 0.
// Nothing is pulled from src until an access method asks for it.
//
// The Reiterator takes exclusive ownership of src: nothing else may call
// src.Next afterwards.
//
// Possible errors: [ErrInvalidInput].
func New[T any](src Source[T], opts Options) (*Reiterator[T], error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidInput)
	}

	store, err := stablestore.New[T](stablestore.Options{
		ChunkSize: opts.ChunkSize,
		MaxLen:    opts.MaxCached,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &Reiterator[T]{src: src, store: store, log: log}, nil
}

// FromSource wraps src with default options.
//
// A nil src is treated as an empty source, so every access reports
// ok == false. Use [New] to reject nil instead.
func FromSource[T any](src Source[T]) *Reiterator[T] {
	if src == nil {
		src = SliceSource[T](nil)
	}

	return &Reiterator[T]{src: src, store: &stablestore.Store[T]{}, log: zerolog.Nop()}
}

// FromSlice wraps items with default options.
func FromSlice[T any](items []T) *Reiterator[T] {
	return FromSource(SliceSource(items))
}

// FromSeq wraps seq with default options.
//
// Call [Reiterator.Close] if the sequence may not be drained.
func FromSeq[T any](seq iter.Seq[T]) *Reiterator[T] {
	return FromSource(SeqSource(seq))
}

// FromFunc wraps next with default options.
func FromFunc[T any](next func() (T, bool)) *Reiterator[T] {
	return FromSource[T](SourceFunc[T](next))
}

// fill pulls from the source until pos is cached or the source is exhausted.
//
// An element is pulled before room is made for it. If the store refuses to
// grow, the element is parked in pending and the error is returned; the next
// fill stores it without pulling again.
func (r *Reiterator[T]) fill(pos int) error {
	if pos < 0 || r.store.Len() > pos || (r.exhausted && !r.hasPending) {
		return nil
	}

	from := r.store.Len()

	for r.store.Len() <= pos {
		if !r.hasPending {
			if r.exhausted {
				break
			}

			v, ok := r.src.Next()
			r.polls++

			if !ok {
				r.exhausted = true

				r.log.Debug().Int("length", r.store.Len()).Msg("source exhausted")

				break
			}

			r.pulls++
			r.pending, r.hasPending = v, true
		}

		_, err := r.store.Append(r.pending)
		if err != nil {
			r.log.Warn().
				Int("position", pos).
				Int("cached", r.store.Len()).
				Msg("allocation failed")

			return err
		}

		var zero T

		r.pending, r.hasPending = zero, false
	}

	r.log.Debug().
		Int("from", from).
		Int("to", pos).
		Int("pulled", r.store.Len()-from).
		Msg("fill")

	return nil
}

// At returns the element at pos, pulling from the source as far as needed.
// It does not move the cursor.
//
// ok is false if the source ends before pos, or pos is negative.
//
// Possible errors: [ErrAllocation].
func (r *Reiterator[T]) At(pos int) (Indexed[T], bool, error) {
	err := r.fill(pos)
	if err != nil {
		return Indexed[T]{}, false, err
	}

	h, ok := r.Peek(pos)

	return h, ok, nil
}

// Peek returns the element at pos only if it is already cached. It never
// pulls from the source.
//
// ok == false means "not computed yet", which does not imply out of bounds.
func (r *Reiterator[T]) Peek(pos int) (Indexed[T], bool) {
	v, ok := r.store.Get(pos)
	if !ok {
		return Indexed[T]{}, false
	}

	return Indexed[T]{Index: pos, Value: v}, true
}

// Get returns the element at the cursor without advancing it.
//
// Repeated calls return the identical handle.
//
// Possible errors: [ErrAllocation].
func (r *Reiterator[T]) Get() (Indexed[T], bool, error) {
	return r.At(r.cursor)
}

// Read is [Reiterator.Peek] at the cursor.
func (r *Reiterator[T]) Read() (Indexed[T], bool) {
	return r.Peek(r.cursor)
}

// Next returns the element at the cursor and then advances the cursor.
//
// If there is no element (or an error occurs), the cursor is left unchanged,
// so once the source is known to be finite Next keeps returning ok == false.
// At math.MaxInt the element is returned but the cursor stays put, as with
// [Reiterator.Advance].
//
// Possible errors: [ErrAllocation].
func (r *Reiterator[T]) Next() (Indexed[T], bool, error) {
	h, ok, err := r.At(r.cursor)
	if err != nil || !ok {
		return h, ok, err
	}

	r.Advance()

	return h, true, nil
}

// Seek sets the cursor to pos and returns the element there.
//
// The cursor is moved even if ok is false.
//
// Possible errors: [ErrAllocation].
func (r *Reiterator[T]) Seek(pos int) (Indexed[T], bool, error) {
	r.SetIndex(pos)

	return r.Get()
}

// Populate caches everything up to and including the cursor.
//
// Possible errors: [ErrAllocation].
func (r *Reiterator[T]) Populate() error {
	return r.fill(r.cursor)
}

// Index returns the cursor.
func (r *Reiterator[T]) Index() int {
	return r.cursor
}

// SetIndex moves the cursor to pos. It performs no I/O; the next access
// pulls lazily. Negative positions are never realizable: accesses there
// return ok == false without pulling.
func (r *Reiterator[T]) SetIndex(pos int) {
	r.cursor = pos
}

// Restart moves the cursor back to 0. Cached elements are kept.
func (r *Reiterator[T]) Restart() {
	r.cursor = 0
}

// Advance moves the cursor forward by one without computing anything.
// It returns false, leaving the cursor unchanged, if that would overflow.
func (r *Reiterator[T]) Advance() bool {
	if r.cursor == math.MaxInt {
		return false
	}

	r.cursor++

	return true
}

// Len returns the number of cached elements.
func (r *Reiterator[T]) Len() int {
	return r.store.Len()
}

// Exhausted reports whether the source has signalled its end.
func (r *Reiterator[T]) Exhausted() bool {
	return r.exhausted
}

// Stats returns a snapshot of the counters.
func (r *Reiterator[T]) Stats() Stats {
	return Stats{
		Cached:    r.store.Len(),
		Pulls:     r.pulls,
		Polls:     r.polls,
		Exhausted: r.exhausted,
		Chunks:    r.store.Chunks(),
	}
}

// All ranges from the cursor to the end of the source by repeated
// [Reiterator.Next], leaving the cursor after the last yielded element.
//
// If an error stops the range early it is reported by [Reiterator.Err].
func (r *Reiterator[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		r.err = nil

		for {
			h, ok, err := r.Next()
			if err != nil {
				r.err = err

				return
			}

			if !ok || !yield(h.Index, h.Value) {
				return
			}
		}
	}
}

// Err returns the error that stopped the most recent [Reiterator.All] range,
// or nil.
func (r *Reiterator[T]) Err() error {
	return r.err
}

// Close marks the source exhausted and closes it if it implements
// [io.Closer]. Cached elements remain readable; positions beyond them
// report ok == false, and an element still waiting for cache space is
// dropped. Close is idempotent.
func (r *Reiterator[T]) Close() error {
	if r.closed {
		return nil
	}

	var zero T

	r.closed = true
	r.exhausted = true
	r.pending, r.hasPending = zero, false

	closer, ok := r.src.(io.Closer)
	if !ok {
		return nil
	}

	err := closer.Close()
	if err != nil {
		return fmt.Errorf("closing source: %w", err)
	}

	return nil
}
