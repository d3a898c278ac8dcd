package stablestore

import (
	"fmt"
	"iter"
)

// DefaultChunkSize is the number of elements per chunk when
// [Options.ChunkSize] is zero.
const DefaultChunkSize = 64

// Options configure a [Store].
//
// The zero value is valid: DefaultChunkSize chunks, no length limit.
type Options struct {
	// ChunkSize is the capacity of each chunk. 0 means DefaultChunkSize.
	ChunkSize int

	// MaxLen caps the number of elements the store will accept.
	// 0 means unbounded. Appending past the cap fails with [ErrAllocation].
	MaxLen int
}

// Store is an append-only sequence with stable element addresses.
//
// The zero value is an empty store using [DefaultChunkSize] with no limit.
type Store[T any] struct {
	// chunks holds fixed-capacity slices. Only the last one is ever appended
	// to and none is ever reallocated. The outer slice may be reallocated,
	// which is fine: it only holds slice headers.
	chunks    [][]T
	chunkSize int
	maxLen    int
	length    int
}

// New returns an empty store configured by opts.
//
// Possible errors: [ErrInvalidInput].
func New[T any](opts Options) (*Store[T], error) {
	if opts.ChunkSize < 0 {
		return nil, fmt.Errorf("%w: chunk size %d", ErrInvalidInput, opts.ChunkSize)
	}

	if opts.MaxLen < 0 {
		return nil, fmt.Errorf("%w: max len %d", ErrInvalidInput, opts.MaxLen)
	}

	return &Store[T]{chunkSize: opts.ChunkSize, maxLen: opts.MaxLen}, nil
}

// Len returns the number of stored elements.
func (s *Store[T]) Len() int {
	return s.length
}

// Chunks returns the number of allocated chunks.
func (s *Store[T]) Chunks() int {
	return len(s.chunks)
}

// Reserve makes sure the next [Store.Append] will succeed.
//
// If the current chunk is full, a new chunk is allocated. Calling Reserve
// repeatedly without appending allocates at most one chunk.
//
// Possible errors: [ErrAllocation].
func (s *Store[T]) Reserve() error {
	if s.maxLen > 0 && s.length >= s.maxLen {
		return fmt.Errorf("%w: limit of %d elements reached", ErrAllocation, s.maxLen)
	}

	if n := len(s.chunks); n > 0 && len(s.chunks[n-1]) < cap(s.chunks[n-1]) {
		return nil
	}

	s.chunks = append(s.chunks, make([]T, 0, s.size()))

	return nil
}

// Append stores v at position Len() and returns that position.
//
// On error nothing is stored and all earlier handles remain valid.
//
// Possible errors: [ErrAllocation].
func (s *Store[T]) Append(v T) (int, error) {
	err := s.Reserve()
	if err != nil {
		return 0, err
	}

	last := len(s.chunks) - 1
	// Within capacity: append writes in place and never moves the array.
	s.chunks[last] = append(s.chunks[last], v)

	pos := s.length
	s.length++

	return pos, nil
}

// Get returns a handle to the element at pos.
//
// ok is false if pos is negative or not yet stored.
func (s *Store[T]) Get(pos int) (*T, bool) {
	if pos < 0 || pos >= s.length {
		return nil, false
	}

	size := s.size()

	return &s.chunks[pos/size][pos%size], true
}

// All yields every stored position and its handle in order.
//
// Elements appended while ranging are yielded too.
func (s *Store[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for pos := 0; pos < s.length; pos++ {
			handle, _ := s.Get(pos)
			if !yield(pos, handle) {
				return
			}
		}
	}
}

func (s *Store[T]) size() int {
	if s.chunkSize <= 0 {
		return DefaultChunkSize
	}

	return s.chunkSize
}
