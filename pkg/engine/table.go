package engine

import (
	"math/big"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"

	"wsharp/interpreter-go/pkg/runtime"
)

// lineTable maps line identifiers to lines, iterated in ascending
// identifier order. It is the only record of current weights.
type lineTable struct {
	tree *treemap.Map
}

func newLineTable(lines []runtime.Line) *lineTable {
	t := &lineTable{tree: treemap.NewWith(utils.UInt64Comparator)}
	for _, line := range lines {
		t.put(line)
	}
	return t
}

func (t *lineTable) get(id uint64) (runtime.Line, bool) {
	v, ok := t.tree.Get(id)
	if !ok {
		return runtime.Line{}, false
	}
	return v.(runtime.Line), true
}

// put replaces the entry for line.ID in one operation.
func (t *lineTable) put(line runtime.Line) {
	t.tree.Put(line.ID, line)
}

func (t *lineTable) total() *big.Int {
	sum := new(big.Int)
	it := t.tree.Iterator()
	for it.Next() {
		sum.Add(sum, it.Value().(runtime.Line).Weight)
	}
	return sum
}

// owner finds the line whose range [lower, lower+weight) contains draw,
// accumulating lower bounds in identifier order.
func (t *lineTable) owner(draw *big.Int) (runtime.Line, bool) {
	lower := new(big.Int)
	upper := new(big.Int)
	it := t.tree.Iterator()
	for it.Next() {
		line := it.Value().(runtime.Line)
		upper.Add(lower, line.Weight)
		if draw.Cmp(lower) >= 0 && draw.Cmp(upper) < 0 {
			return line, true
		}
		lower.Set(upper)
	}
	return runtime.Line{}, false
}

func (t *lineTable) lines() []runtime.Line {
	out := make([]runtime.Line, 0, t.tree.Size())
	it := t.tree.Iterator()
	for it.Next() {
		out = append(out, it.Value().(runtime.Line))
	}
	return out
}
