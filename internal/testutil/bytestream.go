// Package testutil drives model-vs-real reiterator tests from fuzz bytes.
package testutil

// ByteStream hands out fuzz input one byte at a time.
//
// Reads past the end yield zero, so a given input always decodes to the
// same values.
type ByteStream struct {
	rest []byte
}

// NewByteStream wraps b. The slice is not copied.
func NewByteStream(b []byte) *ByteStream {
	return &ByteStream{rest: b}
}

// HasMore reports whether unread bytes remain.
func (s *ByteStream) HasMore() bool {
	return len(s.rest) > 0
}

// NextByte consumes one byte.
func (s *ByteStream) NextByte() byte {
	if len(s.rest) == 0 {
		return 0
	}

	b := s.rest[0]
	s.rest = s.rest[1:]

	return b
}

// NextInt consumes one byte and maps it into [0, n). n <= 0 yields 0
// without consuming.
func (s *ByteStream) NextInt(n int) int {
	if n <= 0 {
		return 0
	}

	return int(s.NextByte()) % n
}
