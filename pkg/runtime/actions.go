package runtime

import "math/big"

// Actions is the closed set of engine operations available to a running line.
type Actions interface {
	// TotalWeight returns the sum of all current line weights.
	TotalWeight() *big.Int
	// Defer sets the defer flag for the step in progress and returns it.
	// A deferred line keeps its weight when the step ends.
	Defer(deferred bool) bool
	// LineExists reports whether id names a line with positive weight.
	LineExists(id uint64) bool
	// Char renders a code point as a one-character string.
	Char(codePoint *big.Int) (string, error)
	// UpdateWeight adds delta to the weight of line id, clamping at zero,
	// and returns the new weight. A zero delta reads the weight.
	UpdateWeight(id uint64, delta *big.Int) (*big.Int, error)
}
