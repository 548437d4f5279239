package ast

import (
	"math/big"
	"strconv"
)

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(strconv.FormatInt(value, 10), big.NewInt(value))
}

func IntBig(value *big.Int) *IntegerLiteral {
	return NewIntegerLiteral(value.String(), new(big.Int).Set(value))
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

// Expression helpers.

func Un(op UnaryOperator, operand Expression) *UnaryExpression {
	return NewUnaryExpression(op, operand)
}

func Bin(op BinaryOperator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Paren(expr Expression) *ParenthesizedExpression {
	return NewParenthesizedExpression(expr)
}

func Call(name string, args ...Expression) *CallExpression {
	return NewCallExpression(ID(name), args)
}

// Statement helpers.

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Assign(name string, value Expression) *AssignmentStatement {
	return NewAssignmentStatement(ID(name), value)
}

func Update(line, delta Expression) *UpdateLineCountStatement {
	return NewUpdateLineCountStatement(line, delta)
}

// Line helpers.

// Ln builds a weight-1 line with no defer/again clauses.
func Ln(number int64, statements ...Statement) *Line {
	return NewLine(Int(number), nil, nil, statements, nil)
}

// WeightedLn builds a line with an explicit initial weight.
func WeightedLn(number, weight int64, statements ...Statement) *Line {
	return NewLine(Int(number), Int(weight), nil, statements, nil)
}

// DeferLn builds a line guarded by `defer (cond)`.
func DeferLn(number int64, cond Expression, statements ...Statement) *Line {
	return NewLine(Int(number), nil, cond, statements, nil)
}

// AgainLn builds a line ending in `again (cond)`.
func AgainLn(number int64, cond Expression, statements ...Statement) *Line {
	return NewLine(Int(number), nil, nil, statements, cond)
}

func Unit(lines ...*Line) *CompilationUnit {
	return NewCompilationUnit(lines)
}
