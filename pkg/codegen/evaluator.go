package codegen

import (
	"errors"
	"fmt"
	"math/big"

	"wsharp/interpreter-go/pkg/ast"
	"wsharp/interpreter-go/pkg/binder"
	"wsharp/interpreter-go/pkg/runtime"
)

var ErrDivisionByZero = errors.New("division by zero")

// RuntimeError locates a failure in the source.
type RuntimeError struct {
	Span ast.Span
	Err  error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("(%d, %d): %v", e.Span.Start.Line, e.Span.Start.Column, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func failAt(n binder.Node, err error) error {
	var located *RuntimeError
	if errors.As(err, &located) {
		return err
	}
	return &RuntimeError{Span: n.Span(), Err: err}
}

// evaluator runs one line for one engine step.
type evaluator struct {
	m       *machine
	actions runtime.Actions
}

func (ev *evaluator) runLine(line *binder.LineStatement) error {
	if line.Defer != nil {
		cond, err := ev.evalBool(line.Defer)
		if err != nil {
			return err
		}
		if ev.actions.Defer(cond) {
			return nil
		}
	}
	for _, stmt := range line.Statements {
		if err := ev.exec(stmt); err != nil {
			return err
		}
	}
	if line.Again != nil {
		cond, err := ev.evalBool(line.Again)
		if err != nil {
			return err
		}
		ev.actions.Defer(cond)
	}
	return nil
}

func (ev *evaluator) exec(stmt binder.Statement) error {
	switch stmt := stmt.(type) {
	case *binder.ExpressionStatement:
		_, err := ev.eval(stmt.Expression)
		return err
	case *binder.LineCountUpdateStatement:
		id, err := ev.evalLineID(stmt.Line)
		if err != nil {
			return err
		}
		delta, err := ev.evalInteger(stmt.Delta)
		if err != nil {
			return err
		}
		if _, err := ev.actions.UpdateWeight(id, delta); err != nil {
			return failAt(stmt, err)
		}
		return nil
	default:
		return failAt(stmt, fmt.Errorf("cannot execute %s", stmt.Kind()))
	}
}

func (ev *evaluator) eval(expr binder.Expression) (runtime.Value, error) {
	switch expr := expr.(type) {
	case *binder.LiteralExpression:
		switch v := expr.Value.(type) {
		case *big.Int:
			return runtime.NewInteger(v), nil
		case bool:
			return runtime.BoolValue{Val: v}, nil
		case string:
			return runtime.StringValue{Val: v}, nil
		}
		return nil, failAt(expr, fmt.Errorf("unsupported literal %T", expr.Value))
	case *binder.VariableExpression:
		v, err := ev.m.globals.Get(expr.Variable.Name)
		if err != nil {
			return nil, failAt(expr, err)
		}
		return v, nil
	case *binder.AssignmentExpression:
		v, err := ev.eval(expr.Value)
		if err != nil {
			return nil, err
		}
		if err := ev.m.globals.Assign(expr.Variable.Name, v); err != nil {
			return nil, failAt(expr, err)
		}
		return v, nil
	case *binder.UnaryExpression:
		return ev.evalUnary(expr)
	case *binder.BinaryExpression:
		return ev.evalBinary(expr)
	case *binder.ParenthesizedExpression:
		return ev.eval(expr.Expression)
	case *binder.CallExpression:
		return ev.evalCall(expr)
	case *binder.ConversionExpression:
		v, err := ev.eval(expr.Expression)
		if err != nil {
			return nil, err
		}
		converted, err := runtime.Convert(v, expr.To)
		if err != nil {
			return nil, failAt(expr, err)
		}
		return converted, nil
	case *binder.ErrorExpression:
		return nil, failAt(expr, errors.New("cannot evaluate an expression that failed to bind"))
	default:
		return nil, fmt.Errorf("codegen: unsupported expression %T", expr)
	}
}

func (ev *evaluator) evalInteger(expr binder.Expression) (*big.Int, error) {
	v, err := ev.eval(expr)
	if err != nil {
		return nil, err
	}
	i, ok := v.(runtime.IntegerValue)
	if !ok {
		return nil, failAt(expr, fmt.Errorf("expected integer, got %s", v.Kind()))
	}
	return i.Val, nil
}

func (ev *evaluator) evalBool(expr binder.Expression) (bool, error) {
	v, err := ev.eval(expr)
	if err != nil {
		return false, err
	}
	b, ok := v.(runtime.BoolValue)
	if !ok {
		return false, failAt(expr, fmt.Errorf("expected bool, got %s", v.Kind()))
	}
	return b.Val, nil
}

func (ev *evaluator) evalString(expr binder.Expression) (string, error) {
	v, err := ev.eval(expr)
	if err != nil {
		return "", err
	}
	s, ok := v.(runtime.StringValue)
	if !ok {
		return "", failAt(expr, fmt.Errorf("expected string, got %s", v.Kind()))
	}
	return s.Val, nil
}

// evalLineID evaluates a line reference used by `k#d`.
func (ev *evaluator) evalLineID(expr binder.Expression) (uint64, error) {
	n, err := ev.evalInteger(expr)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, failAt(expr, fmt.Errorf("line %s does not exist", n))
	}
	return n.Uint64(), nil
}

func (ev *evaluator) evalUnary(expr *binder.UnaryExpression) (runtime.Value, error) {
	switch expr.Operator.Kind {
	case binder.UnaryLogicalNegation:
		b, err := ev.evalBool(expr.Operand)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: !b}, nil
	case binder.UnaryNegation:
		n, err := ev.evalInteger(expr.Operand)
		if err != nil {
			return nil, err
		}
		return runtime.NewInteger(new(big.Int).Neg(n)), nil
	case binder.UnaryIdentity:
		n, err := ev.evalInteger(expr.Operand)
		if err != nil {
			return nil, err
		}
		return runtime.NewInteger(n), nil
	}
	return nil, failAt(expr, fmt.Errorf("unsupported unary operator %s", expr.Operator.Syntax))
}

func (ev *evaluator) evalBinary(expr *binder.BinaryExpression) (runtime.Value, error) {
	switch expr.Operator.Kind {
	case binder.BinaryLogicalAnd, binder.BinaryLogicalOr:
		left, err := ev.evalBool(expr.Left)
		if err != nil {
			return nil, err
		}
		if left == (expr.Operator.Kind == binder.BinaryLogicalOr) {
			return runtime.BoolValue{Val: left}, nil
		}
		right, err := ev.evalBool(expr.Right)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: right}, nil
	}

	left, err := ev.eval(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.eval(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Kind {
	case binder.BinaryEquals:
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case binder.BinaryNotEquals:
		return runtime.BoolValue{Val: !valuesEqual(left, right)}, nil
	}

	if ls, ok := left.(runtime.StringValue); ok && expr.Operator.Kind == binder.BinaryAddition {
		rs, _ := right.(runtime.StringValue)
		return runtime.StringValue{Val: ls.Val + rs.Val}, nil
	}

	l, lok := left.(runtime.IntegerValue)
	r, rok := right.(runtime.IntegerValue)
	if !lok || !rok {
		return nil, failAt(expr, fmt.Errorf("operator %s needs integers, got %s and %s", expr.Operator.Syntax, left.Kind(), right.Kind()))
	}
	a, b := l.Val, r.Val
	switch expr.Operator.Kind {
	case binder.BinaryAddition:
		return runtime.NewInteger(new(big.Int).Add(a, b)), nil
	case binder.BinarySubtraction:
		return runtime.NewInteger(new(big.Int).Sub(a, b)), nil
	case binder.BinaryMultiplication:
		return runtime.NewInteger(new(big.Int).Mul(a, b)), nil
	case binder.BinaryDivision, binder.BinaryModulo:
		if b.Sign() == 0 {
			return nil, failAt(expr, ErrDivisionByZero)
		}
		if expr.Operator.Kind == binder.BinaryDivision {
			return runtime.NewInteger(new(big.Int).Quo(a, b)), nil
		}
		return runtime.NewInteger(new(big.Int).Rem(a, b)), nil
	case binder.BinaryLess:
		return runtime.BoolValue{Val: a.Cmp(b) < 0}, nil
	case binder.BinaryLessOrEquals:
		return runtime.BoolValue{Val: a.Cmp(b) <= 0}, nil
	case binder.BinaryGreater:
		return runtime.BoolValue{Val: a.Cmp(b) > 0}, nil
	case binder.BinaryGreaterOrEquals:
		return runtime.BoolValue{Val: a.Cmp(b) >= 0}, nil
	}
	return nil, failAt(expr, fmt.Errorf("unsupported binary operator %s", expr.Operator.Syntax))
}

func valuesEqual(left, right runtime.Value) bool {
	switch l := left.(type) {
	case runtime.IntegerValue:
		r, ok := right.(runtime.IntegerValue)
		return ok && l.Val.Cmp(r.Val) == 0
	case runtime.BoolValue:
		r, ok := right.(runtime.BoolValue)
		return ok && l.Val == r.Val
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		return ok && l.Val == r.Val
	}
	return false
}
