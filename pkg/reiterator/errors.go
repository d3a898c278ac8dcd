package reiterator

import (
	"errors"

	"github.com/calvinalkan/reiterator/pkg/stablestore"
)

// Sentinel errors returned by reiterator operations.
//
// Callers should use [errors.Is] to check error types.
var (
	// ErrAllocation indicates the cache could not grow to satisfy a request.
	//
	// An element pulled for the failed request is held and stored by the
	// next request that has room, so a later request never observes a gap.
	//
	// Recovery: use what is already cached, or rebuild with a larger
	// [Options.MaxCached].
	ErrAllocation = stablestore.ErrAllocation

	// ErrInvalidInput indicates invalid [Options] were provided.
	//
	// This is a programming error.
	ErrInvalidInput = errors.New("reiterator: invalid input")
)
