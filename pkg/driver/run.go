package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"wsharp/interpreter-go/pkg/diagnostic"
	"wsharp/interpreter-go/pkg/engine"
	"wsharp/interpreter-go/pkg/runtime"
)

// ErrStepLimit is returned when a run is stopped by RunOptions.MaxSteps while
// lines still had weight.
var ErrStepLimit = errors.New("driver: step limit reached")

// DiagnosticsError reports that a program cannot run because compiling it
// produced diagnostics.
type DiagnosticsError struct {
	Diagnostics []diagnostic.Diagnostic
}

func (e *DiagnosticsError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "driver: %d diagnostic(s)", len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		b.WriteString("\n- ")
		b.WriteString(d.String())
	}
	return b.String()
}

// RunOptions bounds and observes a run.
type RunOptions struct {
	// MaxSteps stops the run after that many executed lines; 0 means no limit.
	MaxSteps uint64
	// Logger receives a debug record per step.
	Logger *slog.Logger
}

// Run drives the engine until no line has weight left. Cancellation is
// observed between steps only. It returns the number of executed steps.
func Run(ctx context.Context, lines []runtime.Line, source runtime.RandomSource, opts RunOptions) (uint64, error) {
	var engineOpts []engine.Option
	if opts.Logger != nil {
		engineOpts = append(engineOpts, engine.WithLogger(opts.Logger))
	}
	e, err := engine.New(lines, source, engineOpts...)
	if err != nil {
		return 0, fmt.Errorf("driver: %w", err)
	}
	for {
		if err := ctx.Err(); err != nil {
			return e.Steps(), err
		}
		if opts.MaxSteps > 0 && e.Steps() >= opts.MaxSteps && e.TotalWeight().Sign() > 0 {
			return e.Steps(), fmt.Errorf("%w after %d steps", ErrStepLimit, e.Steps())
		}
		ok, err := e.Execute()
		if err != nil {
			return e.Steps(), err
		}
		if !ok {
			return e.Steps(), nil
		}
	}
}
