package codegen

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"wsharp/interpreter-go/pkg/binder"
	"wsharp/interpreter-go/pkg/runtime"
	"wsharp/interpreter-go/pkg/symbols"
)

func (ev *evaluator) evalCall(call *binder.CallExpression) (runtime.Value, error) {
	switch call.Function {
	case symbols.FuncN:
		return ev.lineCount(call)
	case symbols.FuncPrint:
		text, err := ev.evalString(call.Arguments[0])
		if err != nil {
			return nil, err
		}
		if _, err := fmt.Fprintln(ev.m.stdout, text); err != nil {
			return nil, failAt(call, fmt.Errorf("print: %w", err))
		}
		return runtime.VoidValue{}, nil
	case symbols.FuncRandom:
		return ev.random(call)
	case symbols.FuncRead:
		return ev.read(call)
	case symbols.FuncU:
		codePoint, err := ev.evalInteger(call.Arguments[0])
		if err != nil {
			return nil, err
		}
		s, err := ev.actions.Char(codePoint)
		if err != nil {
			return nil, failAt(call, err)
		}
		return runtime.StringValue{Val: s}, nil
	}
	return ev.callUser(call)
}

// lineCount implements N(k): the current weight of line k, or 0 when k is
// not a live line.
func (ev *evaluator) lineCount(call *binder.CallExpression) (runtime.Value, error) {
	n, err := ev.evalInteger(call.Arguments[0])
	if err != nil {
		return nil, err
	}
	if !n.IsUint64() || !ev.actions.LineExists(n.Uint64()) {
		return runtime.NewInteger(new(big.Int)), nil
	}
	weight, err := ev.actions.UpdateWeight(n.Uint64(), new(big.Int))
	if err != nil {
		return nil, failAt(call, err)
	}
	return runtime.NewInteger(weight), nil
}

func (ev *evaluator) random(call *binder.CallExpression) (runtime.Value, error) {
	maximum, err := ev.evalInteger(call.Arguments[0])
	if err != nil {
		return nil, err
	}
	if maximum.Sign() <= 0 {
		return nil, failAt(call, fmt.Errorf("random: maximum must be positive, got %s", maximum))
	}
	n, err := ev.m.random.Uniform(maximum)
	if err != nil {
		return nil, failAt(call, fmt.Errorf("random: %w", err))
	}
	return runtime.NewInteger(n), nil
}

// read returns the next input line without its terminator, or "" at end of
// input.
func (ev *evaluator) read(call *binder.CallExpression) (runtime.Value, error) {
	text, err := ev.m.stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, failAt(call, fmt.Errorf("read: %w", err))
	}
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	return runtime.StringValue{Val: text}, nil
}

func (ev *evaluator) callUser(call *binder.CallExpression) (runtime.Value, error) {
	fn, ok := ev.m.functions[call.Function.Name]
	if !ok {
		return nil, failAt(call, fmt.Errorf("function `%s` has no implementation", call.Function.Name))
	}
	args := make([]runtime.Value, len(call.Arguments))
	for i, arg := range call.Arguments {
		v, err := ev.eval(arg)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	result, err := fn(args)
	if err != nil {
		return nil, failAt(call, fmt.Errorf("%s: %w", call.Function.Name, err))
	}
	if result == nil {
		result = runtime.VoidValue{}
	}
	return result, nil
}
