package engine

import (
	"fmt"
	"log/slog"
	"math/big"

	"wsharp/interpreter-go/pkg/runtime"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger traces every step at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine runs a W# program one weighted-random step at a time. It owns its
// line table; it is not safe for concurrent use.
type Engine struct {
	table    *lineTable
	source   runtime.RandomSource
	deferred bool
	steps    uint64
	logger   *slog.Logger
}

// New validates lines and builds an engine over them. Every invalid entry is
// reported in one *LinesError. Identifiers must be unique; a later duplicate
// replaces an earlier one.
func New(lines []runtime.Line, source runtime.RandomSource, opts ...Option) (*Engine, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	var invalid LinesError
	for i, line := range lines {
		switch {
		case line.Action == nil:
			invalid.Issues = append(invalid.Issues, LineIssue{Index: i, Reason: "action is nil"})
		case line.Weight == nil:
			invalid.Issues = append(invalid.Issues, LineIssue{Index: i, Reason: "weight is nil"})
		case line.Weight.Sign() < 0:
			invalid.Issues = append(invalid.Issues, LineIssue{Index: i, Reason: fmt.Sprintf("weight %s is negative", line.Weight)})
		}
	}
	if len(invalid.Issues) > 0 {
		return nil, &invalid
	}
	if source == nil {
		return nil, ErrNoRandomSource
	}

	e := &Engine{
		table:  newLineTable(lines),
		source: source,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Execute runs one step. It reports false once the total weight is zero;
// callers stop looping then. An error leaves the selected line's weight as
// the action left it.
func (e *Engine) Execute() (bool, error) {
	e.deferred = false

	total := e.table.total()
	if total.Sign() == 0 {
		return false, nil
	}

	draw, err := e.source.Uniform(total)
	if err != nil {
		return false, fmt.Errorf("engine: draw: %w", err)
	}
	if draw == nil || draw.Sign() < 0 || draw.Cmp(total) >= 0 {
		return false, fmt.Errorf("engine: random source returned %v outside [0, %s)", draw, total)
	}

	line, ok := e.table.owner(draw)
	if !ok {
		return false, fmt.Errorf("%w: draw %s, total %s", ErrInconsistentTable, draw, total)
	}

	e.steps++
	if err := line.Action(stepActions{e}); err != nil {
		return false, fmt.Errorf("engine: line %d: %w", line.ID, err)
	}

	// The action may have changed any weight, this line's included, so the
	// decrement starts from the table as it stands now.
	current, ok := e.table.get(line.ID)
	if ok && !e.deferred && current.Weight.Sign() > 0 {
		current = current.WithWeight(new(big.Int).Sub(current.Weight, big.NewInt(1)))
		e.table.put(current)
	}

	e.logger.Debug("step",
		slog.Uint64("step", e.steps),
		slog.Uint64("line", line.ID),
		slog.String("draw", draw.String()),
		slog.String("total", total.String()),
		slog.Bool("deferred", e.deferred),
		slog.String("weight", current.Weight.String()))
	return true, nil
}

// Steps reports how many lines have executed.
func (e *Engine) Steps() uint64 {
	return e.steps
}

// TotalWeight returns the sum of all current weights.
func (e *Engine) TotalWeight() *big.Int {
	return e.table.total()
}

// Snapshot returns the current lines in identifier order.
func (e *Engine) Snapshot() []runtime.Line {
	return e.table.lines()
}

// stepActions is the view of the engine handed to a running line.
type stepActions struct {
	e *Engine
}

var _ runtime.Actions = stepActions{}

func (a stepActions) TotalWeight() *big.Int {
	return a.e.table.total()
}

func (a stepActions) Defer(deferred bool) bool {
	a.e.deferred = deferred
	return deferred
}

func (a stepActions) LineExists(id uint64) bool {
	line, ok := a.e.table.get(id)
	return ok && line.Weight.Sign() > 0
}

func (a stepActions) Char(codePoint *big.Int) (string, error) {
	return runtime.CodePoint(codePoint)
}

func (a stepActions) UpdateWeight(id uint64, delta *big.Int) (*big.Int, error) {
	line, ok := a.e.table.get(id)
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownLine, id)
	}
	if delta == nil || delta.Sign() == 0 {
		return new(big.Int).Set(line.Weight), nil
	}
	weight := new(big.Int).Add(line.Weight, delta)
	if weight.Sign() < 0 {
		weight.SetInt64(0)
	}
	a.e.table.put(line.WithWeight(weight))
	return weight, nil
}
