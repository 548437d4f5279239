package binder

import (
	"wsharp/interpreter-go/pkg/ast"
	"wsharp/interpreter-go/pkg/symbols"
)

type UnaryOperatorKind int

const (
	UnaryIdentity UnaryOperatorKind = iota
	UnaryNegation
	UnaryLogicalNegation
)

// UnaryOperator is one resolved entry of the unary operator table.
type UnaryOperator struct {
	Syntax  ast.UnaryOperator
	Kind    UnaryOperatorKind
	Operand *symbols.TypeSymbol
	Result  *symbols.TypeSymbol
}

var unaryOperators = []*UnaryOperator{
	{ast.UnaryOperatorNot, UnaryLogicalNegation, symbols.Boolean, symbols.Boolean},
	{ast.UnaryOperatorIdentity, UnaryIdentity, symbols.Integer, symbols.Integer},
	{ast.UnaryOperatorNegate, UnaryNegation, symbols.Integer, symbols.Integer},
}

// LookupUnaryOperator resolves op applied to an operand of the given type.
func LookupUnaryOperator(op ast.UnaryOperator, operand *symbols.TypeSymbol) (*UnaryOperator, bool) {
	for _, candidate := range unaryOperators {
		if candidate.Syntax == op && candidate.Operand == operand {
			return candidate, true
		}
	}
	return nil, false
}

type BinaryOperatorKind int

const (
	BinaryAddition BinaryOperatorKind = iota
	BinarySubtraction
	BinaryMultiplication
	BinaryDivision
	BinaryModulo
	BinaryLogicalAnd
	BinaryLogicalOr
	BinaryEquals
	BinaryNotEquals
	BinaryLess
	BinaryLessOrEquals
	BinaryGreater
	BinaryGreaterOrEquals
)

// BinaryOperator is one resolved entry of the binary operator table.
type BinaryOperator struct {
	Syntax ast.BinaryOperator
	Kind   BinaryOperatorKind
	Left   *symbols.TypeSymbol
	Right  *symbols.TypeSymbol
	Result *symbols.TypeSymbol
}

func sameOperands(syntax ast.BinaryOperator, kind BinaryOperatorKind, operand, result *symbols.TypeSymbol) *BinaryOperator {
	return &BinaryOperator{Syntax: syntax, Kind: kind, Left: operand, Right: operand, Result: result}
}

var binaryOperators = []*BinaryOperator{
	sameOperands(ast.BinaryOperatorAdd, BinaryAddition, symbols.Integer, symbols.Integer),
	sameOperands(ast.BinaryOperatorSubtract, BinarySubtraction, symbols.Integer, symbols.Integer),
	sameOperands(ast.BinaryOperatorMultiply, BinaryMultiplication, symbols.Integer, symbols.Integer),
	sameOperands(ast.BinaryOperatorDivide, BinaryDivision, symbols.Integer, symbols.Integer),
	sameOperands(ast.BinaryOperatorModulo, BinaryModulo, symbols.Integer, symbols.Integer),
	sameOperands(ast.BinaryOperatorLess, BinaryLess, symbols.Integer, symbols.Boolean),
	sameOperands(ast.BinaryOperatorLessEqual, BinaryLessOrEquals, symbols.Integer, symbols.Boolean),
	sameOperands(ast.BinaryOperatorGreater, BinaryGreater, symbols.Integer, symbols.Boolean),
	sameOperands(ast.BinaryOperatorGreaterEqual, BinaryGreaterOrEquals, symbols.Integer, symbols.Boolean),

	sameOperands(ast.BinaryOperatorAnd, BinaryLogicalAnd, symbols.Boolean, symbols.Boolean),
	sameOperands(ast.BinaryOperatorOr, BinaryLogicalOr, symbols.Boolean, symbols.Boolean),

	sameOperands(ast.BinaryOperatorAdd, BinaryAddition, symbols.String, symbols.String),

	sameOperands(ast.BinaryOperatorEqual, BinaryEquals, symbols.Integer, symbols.Boolean),
	sameOperands(ast.BinaryOperatorNotEqual, BinaryNotEquals, symbols.Integer, symbols.Boolean),
	sameOperands(ast.BinaryOperatorEqual, BinaryEquals, symbols.Boolean, symbols.Boolean),
	sameOperands(ast.BinaryOperatorNotEqual, BinaryNotEquals, symbols.Boolean, symbols.Boolean),
	sameOperands(ast.BinaryOperatorEqual, BinaryEquals, symbols.String, symbols.Boolean),
	sameOperands(ast.BinaryOperatorNotEqual, BinaryNotEquals, symbols.String, symbols.Boolean),
}

// LookupBinaryOperator resolves op applied to operands of the given types.
func LookupBinaryOperator(op ast.BinaryOperator, left, right *symbols.TypeSymbol) (*BinaryOperator, bool) {
	for _, candidate := range binaryOperators {
		if candidate.Syntax == op && candidate.Left == left && candidate.Right == right {
			return candidate, true
		}
	}
	return nil, false
}
