//go:build !linux

package cli

import "io"

// isTerminal always reports false off Linux; the REPL falls back to
// script mode.
func isTerminal(io.Reader) bool {
	return false
}
