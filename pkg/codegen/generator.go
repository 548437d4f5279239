package codegen

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"wsharp/interpreter-go/pkg/binder"
	"wsharp/interpreter-go/pkg/runtime"
)

// ErrDiagnostics is returned when asked to generate a program that failed to
// bind. Such programs never run.
var ErrDiagnostics = errors.New("codegen: program has diagnostics")

// Function implements a user function made visible to the binder with
// binder.WithFunctions.
type Function func(args []runtime.Value) (runtime.Value, error)

// Options wires the program's I/O and randomness.
type Options struct {
	Stdout    io.Writer
	Stdin     io.Reader
	Random    runtime.RandomSource
	Functions map[string]Function
}

// machine is the state shared by every line of one generated program.
type machine struct {
	globals   *runtime.Environment
	stdout    io.Writer
	stdin     *bufio.Reader
	random    runtime.RandomSource
	functions map[string]Function
}

// Generate lowers a bound program into engine lines. Each line's action
// evaluates its bound statements against the engine's Actions. Globals start
// at their zero values because lines run in random order.
func Generate(program *binder.BoundProgram, opts Options) ([]runtime.Line, error) {
	if program == nil {
		return nil, fmt.Errorf("codegen: program is nil")
	}
	if n := len(program.Diagnostics); n > 0 {
		return nil, fmt.Errorf("%w (%d)", ErrDiagnostics, n)
	}

	m := &machine{
		globals:   runtime.NewEnvironment(),
		stdout:    opts.Stdout,
		random:    opts.Random,
		functions: opts.Functions,
	}
	if m.stdout == nil {
		m.stdout = io.Discard
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	m.stdin = bufio.NewReader(stdin)
	if m.random == nil {
		m.random = runtime.NewCryptoSource()
	}

	for _, variable := range program.Variables {
		zero, err := runtime.ZeroValue(variable.Type)
		if err != nil {
			return nil, fmt.Errorf("codegen: global %s: %w", variable.Name, err)
		}
		m.globals.Define(variable.Name, zero)
	}

	bound := program.Lines()
	lines := make([]runtime.Line, 0, len(bound))
	for _, line := range bound {
		lines = append(lines, runtime.NewLine(line.ID, line.Weight, m.action(line)))
	}
	return lines, nil
}

func (m *machine) action(line *binder.LineStatement) runtime.Action {
	return func(actions runtime.Actions) error {
		ev := &evaluator{m: m, actions: actions}
		return ev.runLine(line)
	}
}
