package runtime

import (
	"fmt"
	"math/big"
)

// Action is the executable body of a line. It talks to the engine only
// through Actions.
type Action func(Actions) error

// Line is an immutable (identifier, weight, action) triple. A changed line
// is a new value; see WithWeight.
type Line struct {
	ID     uint64
	Weight *big.Int
	Action Action
}

// NewLine copies weight so later changes by the caller cannot leak in.
func NewLine(id uint64, weight *big.Int, action Action) Line {
	var w *big.Int
	if weight != nil {
		w = new(big.Int).Set(weight)
	}
	return Line{ID: id, Weight: w, Action: action}
}

// WithWeight returns a copy of l carrying weight.
func (l Line) WithWeight(weight *big.Int) Line {
	return NewLine(l.ID, weight, l.Action)
}

func (l Line) String() string {
	return fmt.Sprintf("%d#%s", l.ID, l.Weight)
}
