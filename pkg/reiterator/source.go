package reiterator

import "iter"

// Source is a single-pass producer of elements.
//
// Next returns the next element and true, or the zero value and false once
// the source is exhausted. A Reiterator calls Next at most once per element
// and never again after the first false.
//
// If a Source also implements [io.Closer], [Reiterator.Close] closes it.
type Source[T any] interface {
	Next() (T, bool)
}

// SourceFunc adapts a function to a [Source].
type SourceFunc[T any] func() (T, bool)

// Next calls f.
func (f SourceFunc[T]) Next() (T, bool) {
	return f()
}

type sliceSource[T any] struct {
	items []T
	pos   int
}

func (s *sliceSource[T]) Next() (T, bool) {
	if s.pos >= len(s.items) {
		var zero T

		return zero, false
	}

	v := s.items[s.pos]
	s.pos++

	return v, true
}

// SliceSource returns a [Source] yielding items in order.
//
// Elements are copied into the cache as they are pulled, so later writes to
// items are visible only for positions not yet pulled.
func SliceSource[T any](items []T) Source[T] {
	return &sliceSource[T]{items: items}
}

// seqSource drives an iter.Seq through iter.Pull.
type seqSource[T any] struct {
	next func() (T, bool)
	stop func()
}

func (s *seqSource[T]) Next() (T, bool) {
	return s.next()
}

func (s *seqSource[T]) Close() error {
	s.stop()

	return nil
}

// SeqSource returns a [Source] pulling from seq.
//
// The returned source implements [io.Closer]; close it (or the Reiterator
// owning it) if it may not be drained, to release the pull iterator.
func SeqSource[T any](seq iter.Seq[T]) Source[T] {
	next, stop := iter.Pull(seq)

	return &seqSource[T]{next: next, stop: stop}
}
