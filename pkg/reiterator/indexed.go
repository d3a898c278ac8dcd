package reiterator

import "iter"

// Indexed is a handle to a cached element together with its position.
//
// Value points into the cache and is never nil for a handle returned with
// ok == true. The element stays owned by the cache; treat it as read-only.
// The zero Indexed stands for "absent".
type Indexed[T any] struct {
	// Index is the number of elements the source produced before this one.
	Index int

	// Value is the cached element.
	Value *T
}

// Ok reports whether h refers to an element.
func (h Indexed[T]) Ok() bool {
	return h.Value != nil
}

// Value returns the element handle of h, or nil if h is absent.
func Value[T any](h Indexed[T]) *T {
	return h.Value
}

// IndexOf returns the position of h, or false if h is absent.
func IndexOf[T any](h Indexed[T]) (int, bool) {
	if h.Value == nil {
		return 0, false
	}

	return h.Index, true
}

// CopyValue returns a copy of the element of h, or false if h is absent.
func CopyValue[T any](h Indexed[T]) (T, bool) {
	if h.Value == nil {
		var zero T

		return zero, false
	}

	return *h.Value, true
}

// Values maps a positional sequence (for example [Reiterator.All]) to its
// element handles.
func Values[T any](seq iter.Seq2[int, *T]) iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for _, v := range seq {
			if !yield(v) {
				return
			}
		}
	}
}

// Indices maps a positional sequence (for example [Reiterator.All]) to its
// positions.
func Indices[T any](seq iter.Seq2[int, *T]) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range seq {
			if !yield(i) {
				return
			}
		}
	}
}
