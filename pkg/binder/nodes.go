package binder

import (
	"fmt"
	"math/big"

	"wsharp/interpreter-go/pkg/ast"
	"wsharp/interpreter-go/pkg/symbols"
)

// BoundNodeKind enumerates every bound node. The set is closed: consumers
// switch over it exhaustively.
type BoundNodeKind int

const (
	KindLiteralExpression BoundNodeKind = iota
	KindVariableExpression
	KindAssignmentExpression
	KindUnaryExpression
	KindBinaryExpression
	KindParenthesizedExpression
	KindCallExpression
	KindConversionExpression
	KindErrorExpression

	KindExpressionStatement
	KindLineCountUpdateStatement
	KindLineStatement
	KindBlockStatement
)

var kindNames = [...]string{
	KindLiteralExpression:        "LiteralExpression",
	KindVariableExpression:       "VariableExpression",
	KindAssignmentExpression:     "AssignmentExpression",
	KindUnaryExpression:          "UnaryExpression",
	KindBinaryExpression:         "BinaryExpression",
	KindParenthesizedExpression:  "ParenthesizedExpression",
	KindCallExpression:           "CallExpression",
	KindConversionExpression:     "ConversionExpression",
	KindErrorExpression:          "ErrorExpression",
	KindExpressionStatement:      "ExpressionStatement",
	KindLineCountUpdateStatement: "LineCountUpdateStatement",
	KindLineStatement:            "LineStatement",
	KindBlockStatement:           "BlockStatement",
}

func (k BoundNodeKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("BoundNodeKind(%d)", int(k))
}

// Node is implemented only by the types in this file.
type Node interface {
	Kind() BoundNodeKind
	Span() ast.Span
	sealed()
}

type Expression interface {
	Node
	Type() *symbols.TypeSymbol
	expression()
}

type Statement interface {
	Node
	statement()
}

type node struct {
	span ast.Span
}

func (n node) Span() ast.Span { return n.span }
func (node) sealed()          {}

type expressionNode struct{ node }

func (expressionNode) expression() {}

type statementNode struct{ node }

func (statementNode) statement() {}

// Expressions

// LiteralExpression holds a *big.Int, bool or string constant.
type LiteralExpression struct {
	expressionNode
	Value any
	typ   *symbols.TypeSymbol
}

func (*LiteralExpression) Kind() BoundNodeKind         { return KindLiteralExpression }
func (e *LiteralExpression) Type() *symbols.TypeSymbol { return e.typ }

type VariableExpression struct {
	expressionNode
	Variable *symbols.VariableSymbol
}

func (*VariableExpression) Kind() BoundNodeKind         { return KindVariableExpression }
func (e *VariableExpression) Type() *symbols.TypeSymbol { return e.Variable.Type }

// AssignmentExpression stores Value into Variable and evaluates to it.
type AssignmentExpression struct {
	expressionNode
	Variable *symbols.VariableSymbol
	Value    Expression
}

func (*AssignmentExpression) Kind() BoundNodeKind         { return KindAssignmentExpression }
func (e *AssignmentExpression) Type() *symbols.TypeSymbol { return e.Value.Type() }

type UnaryExpression struct {
	expressionNode
	Operator *UnaryOperator
	Operand  Expression
}

func (*UnaryExpression) Kind() BoundNodeKind         { return KindUnaryExpression }
func (e *UnaryExpression) Type() *symbols.TypeSymbol { return e.Operator.Result }

type BinaryExpression struct {
	expressionNode
	Operator *BinaryOperator
	Left     Expression
	Right    Expression
}

func (*BinaryExpression) Kind() BoundNodeKind         { return KindBinaryExpression }
func (e *BinaryExpression) Type() *symbols.TypeSymbol { return e.Operator.Result }

type ParenthesizedExpression struct {
	expressionNode
	Expression Expression
}

func (*ParenthesizedExpression) Kind() BoundNodeKind         { return KindParenthesizedExpression }
func (e *ParenthesizedExpression) Type() *symbols.TypeSymbol { return e.Expression.Type() }

type CallExpression struct {
	expressionNode
	Function  *symbols.FunctionSymbol
	Arguments []Expression
}

func (*CallExpression) Kind() BoundNodeKind         { return KindCallExpression }
func (e *CallExpression) Type() *symbols.TypeSymbol { return e.Function.ReturnType }

// ConversionExpression converts Expression to To. Identity conversions are
// never materialised.
type ConversionExpression struct {
	expressionNode
	To         *symbols.TypeSymbol
	Expression Expression
}

func (*ConversionExpression) Kind() BoundNodeKind         { return KindConversionExpression }
func (e *ConversionExpression) Type() *symbols.TypeSymbol { return e.To }

// ErrorExpression replaces a subtree that failed to bind.
type ErrorExpression struct {
	expressionNode
}

func (*ErrorExpression) Kind() BoundNodeKind       { return KindErrorExpression }
func (*ErrorExpression) Type() *symbols.TypeSymbol { return symbols.Error }

// Statements

type ExpressionStatement struct {
	statementNode
	Expression Expression
}

func (*ExpressionStatement) Kind() BoundNodeKind { return KindExpressionStatement }

// LineCountUpdateStatement adds Delta to the weight of line Line.
type LineCountUpdateStatement struct {
	statementNode
	Line  Expression
	Delta Expression
}

func (*LineCountUpdateStatement) Kind() BoundNodeKind { return KindLineCountUpdateStatement }

// LineStatement is one numbered program line. Defer and Again are nil when
// the clause is absent.
type LineStatement struct {
	statementNode
	ID         uint64
	Weight     *big.Int
	Defer      Expression
	Again      Expression
	Statements []Statement
}

func (*LineStatement) Kind() BoundNodeKind { return KindLineStatement }

type BlockStatement struct {
	statementNode
	Statements []Statement
}

func (*BlockStatement) Kind() BoundNodeKind { return KindBlockStatement }

// Children returns the direct bound children of n in evaluation order.
func Children(n Node) []Node {
	var out []Node
	add := func(children ...Node) {
		for _, c := range children {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	switch n := n.(type) {
	case *LiteralExpression, *VariableExpression, *ErrorExpression:
	case *AssignmentExpression:
		add(n.Value)
	case *UnaryExpression:
		add(n.Operand)
	case *BinaryExpression:
		add(n.Left, n.Right)
	case *ParenthesizedExpression:
		add(n.Expression)
	case *CallExpression:
		for _, arg := range n.Arguments {
			add(arg)
		}
	case *ConversionExpression:
		add(n.Expression)
	case *ExpressionStatement:
		add(n.Expression)
	case *LineCountUpdateStatement:
		add(n.Line, n.Delta)
	case *LineStatement:
		add(n.Defer)
		for _, stmt := range n.Statements {
			add(stmt)
		}
		add(n.Again)
	case *BlockStatement:
		for _, stmt := range n.Statements {
			add(stmt)
		}
	}
	return out
}
