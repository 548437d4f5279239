//go:build !linux

package main

// Coloured diagnostics are only enabled where terminal detection is wired up.
func isTerminal(uintptr) bool {
	return false
}
