package reiterator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/reiterator/pkg/reiterator"
)

// countingSource yields items and records how often each position was pulled.
type countingSource[T any] struct {
	items  []T
	pos    int
	calls  int
	pulled map[int]int
	closed bool
}

func newCountingSource[T any](items []T) *countingSource[T] {
	return &countingSource[T]{items: items, pulled: map[int]int{}}
}

func (s *countingSource[T]) Next() (T, bool) {
	s.calls++

	if s.pos >= len(s.items) {
		var zero T

		return zero, false
	}

	s.pulled[s.pos]++
	v := s.items[s.pos]
	s.pos++

	return v, true
}

func (s *countingSource[T]) Close() error {
	s.closed = true

	return nil
}

// requireEachPulledOnce fails if any position was pulled more than once.
func (s *countingSource[T]) requireEachPulledOnce(t *testing.T) {
	t.Helper()

	for pos, n := range s.pulled {
		require.Equal(t, 1, n, "position %d pulled %d times", pos, n)
	}
}

func newCounting[T any](t *testing.T, items []T, opts reiterator.Options) (*reiterator.Reiterator[T], *countingSource[T]) {
	t.Helper()

	src := newCountingSource(items)

	it, err := reiterator.New[T](src, opts)
	require.NoError(t, err)

	return it, src
}

func mustAt[T any](t *testing.T, it *reiterator.Reiterator[T], pos int) reiterator.Indexed[T] {
	t.Helper()

	h, ok, err := it.At(pos)
	require.NoError(t, err)
	require.True(t, ok, "At(%d) should be present", pos)
	require.Equal(t, pos, h.Index)

	return h
}

// requireAbsent returns a checker for an access result that must be absent:
//
//	requireAbsent(t)(it.At(5))
func requireAbsent(t *testing.T) func(h any, ok bool, err error) {
	t.Helper()

	return func(h any, ok bool, err error) {
		t.Helper()

		require.NoError(t, err)
		require.False(t, ok)
		require.Zero(t, h, "absent result must be the zero handle")
	}
}
