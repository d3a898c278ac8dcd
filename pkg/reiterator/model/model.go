// Package model provides a deliberately simple, in-memory state model of
// reiterator's publicly observable behavior.
//
// The model knows the whole source up front and only tracks counters, which
// makes it easy to audit. It is the oracle for property and fuzz tests.
package model

import (
	"fmt"
	"math"

	"github.com/calvinalkan/reiterator/pkg/reiterator"
)

// Entry mirrors an observable (position, value) result.
type Entry[T any] struct {
	Index int
	Value T
}

// Reiterator models reiterator.Reiterator over a known source.
type Reiterator[T any] struct {
	// Source is the full sequence the real source would produce.
	Source []T

	// MaxCached mirrors reiterator.Options.MaxCached (0 = unbounded).
	MaxCached int

	Cached    int
	Pulls     int
	Polls     int
	Exhausted bool
	Cursor    int

	// Pending is set while a pulled element waits for cache space.
	Pending bool
}

// New returns a model over source with nothing cached.
func New[T any](source []T, maxCached int) *Reiterator[T] {
	return &Reiterator[T]{Source: source, MaxCached: maxCached}
}

func (m *Reiterator[T]) fill(pos int) error {
	for pos >= 0 && m.Cached <= pos {
		if !m.Pending {
			if m.Exhausted {
				break
			}

			m.Polls++

			if m.Pulls == len(m.Source) {
				m.Exhausted = true

				break
			}

			m.Pulls++
			m.Pending = true
		}

		if m.MaxCached > 0 && m.Cached >= m.MaxCached {
			return fmt.Errorf("%w: limit of %d elements reached", reiterator.ErrAllocation, m.MaxCached)
		}

		m.Cached++
		m.Pending = false
	}

	return nil
}

// At mirrors Reiterator.At.
func (m *Reiterator[T]) At(pos int) (Entry[T], bool, error) {
	err := m.fill(pos)
	if err != nil {
		return Entry[T]{}, false, err
	}

	entry, ok := m.Peek(pos)

	return entry, ok, nil
}

// Peek mirrors Reiterator.Peek.
func (m *Reiterator[T]) Peek(pos int) (Entry[T], bool) {
	if pos < 0 || pos >= m.Cached {
		return Entry[T]{}, false
	}

	return Entry[T]{Index: pos, Value: m.Source[pos]}, true
}

// Get mirrors Reiterator.Get.
func (m *Reiterator[T]) Get() (Entry[T], bool, error) {
	return m.At(m.Cursor)
}

// Next mirrors Reiterator.Next.
func (m *Reiterator[T]) Next() (Entry[T], bool, error) {
	entry, ok, err := m.At(m.Cursor)
	if ok {
		m.Advance()
	}

	return entry, ok, err
}

// Seek mirrors Reiterator.Seek.
func (m *Reiterator[T]) Seek(pos int) (Entry[T], bool, error) {
	m.Cursor = pos

	return m.Get()
}

// Populate mirrors Reiterator.Populate.
func (m *Reiterator[T]) Populate() error {
	return m.fill(m.Cursor)
}

// SetIndex mirrors Reiterator.SetIndex.
func (m *Reiterator[T]) SetIndex(pos int) {
	m.Cursor = pos
}

// Restart mirrors Reiterator.Restart.
func (m *Reiterator[T]) Restart() {
	m.Cursor = 0
}

// Advance mirrors Reiterator.Advance.
func (m *Reiterator[T]) Advance() bool {
	if m.Cursor == math.MaxInt {
		return false
	}

	m.Cursor++

	return true
}

// Stats mirrors Reiterator.Stats, except for Chunks which is an
// implementation detail.
func (m *Reiterator[T]) Stats() reiterator.Stats {
	return reiterator.Stats{
		Cached:    m.Cached,
		Pulls:     m.Pulls,
		Polls:     m.Polls,
		Exhausted: m.Exhausted,
	}
}
