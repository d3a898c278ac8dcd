package stablestore

import "errors"

// Sentinel errors returned by stablestore operations.
//
// Callers should use [errors.Is] to check error types.
var (
	// ErrAllocation indicates the store could not grow.
	//
	// Returned when appending would exceed [Options.MaxLen]. Existing
	// elements and handles are unaffected.
	//
	// Recovery: the caller decides. Retrying fails the same way until the
	// store is replaced by one with a larger budget.
	ErrAllocation = errors.New("stablestore: allocation failed")

	// ErrInvalidInput indicates invalid [Options] were provided.
	//
	// This is a programming error.
	ErrInvalidInput = errors.New("stablestore: invalid input")
)
