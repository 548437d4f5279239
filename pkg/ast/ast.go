package ast

import "math/big"

type NodeType string

const (
	NodeCompilationUnit          NodeType = "CompilationUnit"
	NodeLine                     NodeType = "Line"
	NodeExpressionStatement      NodeType = "ExpressionStatement"
	NodeAssignmentStatement      NodeType = "AssignmentStatement"
	NodeUpdateLineCountStatement NodeType = "UpdateLineCountStatement"
	NodeIntegerLiteral           NodeType = "IntegerLiteral"
	NodeBooleanLiteral           NodeType = "BooleanLiteral"
	NodeStringLiteral            NodeType = "StringLiteral"
	NodeIdentifier               NodeType = "Identifier"
	NodeUnaryExpression          NodeType = "UnaryExpression"
	NodeBinaryExpression         NodeType = "BinaryExpression"
	NodeParenthesizedExpression  NodeType = "ParenthesizedExpression"
	NodeCallExpression           NodeType = "CallExpression"
	NodeBadExpression            NodeType = "BadExpression"
)

// Position is a 1-based line/column location plus the 0-based byte offset.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span covers the half-open source range [Start, End).
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Len reports the span length in bytes.
func (s Span) Len() int { return s.End.Offset - s.Start.Offset }

// IsZero reports whether the span was never set.
func (s Span) IsZero() bool {
	return s.Start.Line == 0 && s.Start.Column == 0 && s.End.Line == 0 && s.End.Column == 0
}

// Cover returns the smallest span containing both a and b.
func Cover(a, b Span) Span {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	out := a
	if b.Start.Offset < out.Start.Offset {
		out.Start = b.Start
	}
	if b.End.Offset > out.End.Offset {
		out.End = b.End
	}
	return out
}

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	Loc  Span     `json:"span"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.Loc }
func (nodeImpl) isNode()              {}

func (n *nodeImpl) setSpan(span Span) { n.Loc = span }

type spanSetter interface {
	setSpan(Span)
}

// SetSpan records the source range of a node. Nodes built by hand (tests,
// tooling) may leave spans unset.
func SetSpan(node Node, span Span) {
	if setter, ok := node.(spanSetter); ok {
		setter.setSpan(span)
	}
}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// CompilationUnit is the root of a parsed W# source text.
type CompilationUnit struct {
	nodeImpl

	Lines []*Line `json:"lines"`
}

func NewCompilationUnit(lines []*Line) *CompilationUnit {
	return &CompilationUnit{nodeImpl: newNodeImpl(NodeCompilationUnit), Lines: lines}
}

// Line is one numbered program line:
//
//	10#2 defer (N(20) > 0) print("hi"), 20#-1 again (false);
type Line struct {
	nodeImpl

	Number     *IntegerLiteral `json:"number"`
	Weight     *IntegerLiteral `json:"weight,omitempty"`
	Defer      Expression      `json:"defer,omitempty"`
	Again      Expression      `json:"again,omitempty"`
	Statements []Statement     `json:"statements"`
}

func NewLine(number *IntegerLiteral, weight *IntegerLiteral, deferCond Expression, statements []Statement, againCond Expression) *Line {
	return &Line{
		nodeImpl:   newNodeImpl(NodeLine),
		Number:     number,
		Weight:     weight,
		Defer:      deferCond,
		Again:      againCond,
		Statements: statements,
	}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type AssignmentStatement struct {
	nodeImpl
	statementMarker

	Name  *Identifier `json:"name"`
	Value Expression  `json:"value"`
}

func NewAssignmentStatement(name *Identifier, value Expression) *AssignmentStatement {
	return &AssignmentStatement{nodeImpl: newNodeImpl(NodeAssignmentStatement), Name: name, Value: value}
}

// UpdateLineCountStatement is `line#delta`.
type UpdateLineCountStatement struct {
	nodeImpl
	statementMarker

	Line  Expression `json:"line"`
	Delta Expression `json:"delta"`
}

func NewUpdateLineCountStatement(line, delta Expression) *UpdateLineCountStatement {
	return &UpdateLineCountStatement{nodeImpl: newNodeImpl(NodeUpdateLineCountStatement), Line: line, Delta: delta}
}

// Literals

type IntegerLiteral struct {
	nodeImpl
	expressionMarker

	Text  string   `json:"text"`
	Value *big.Int `json:"value"`
}

func NewIntegerLiteral(text string, value *big.Int) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Text: text, Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Operators

type UnaryOperator string

const (
	UnaryOperatorNot      UnaryOperator = "!"
	UnaryOperatorNegate   UnaryOperator = "-"
	UnaryOperatorIdentity UnaryOperator = "+"
)

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryOperator string

const (
	BinaryOperatorAdd          BinaryOperator = "+"
	BinaryOperatorSubtract     BinaryOperator = "-"
	BinaryOperatorMultiply     BinaryOperator = "*"
	BinaryOperatorDivide       BinaryOperator = "/"
	BinaryOperatorModulo       BinaryOperator = "%"
	BinaryOperatorAnd          BinaryOperator = "&&"
	BinaryOperatorOr           BinaryOperator = "||"
	BinaryOperatorEqual        BinaryOperator = "=="
	BinaryOperatorNotEqual     BinaryOperator = "!="
	BinaryOperatorLess         BinaryOperator = "<"
	BinaryOperatorLessEqual    BinaryOperator = "<="
	BinaryOperatorGreater      BinaryOperator = ">"
	BinaryOperatorGreaterEqual BinaryOperator = ">="
)

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator BinaryOperator `json:"operator"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right"`
}

func NewBinaryExpression(operator BinaryOperator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type ParenthesizedExpression struct {
	nodeImpl
	expressionMarker

	Expression Expression `json:"expression"`
}

func NewParenthesizedExpression(expr Expression) *ParenthesizedExpression {
	return &ParenthesizedExpression{nodeImpl: newNodeImpl(NodeParenthesizedExpression), Expression: expr}
}

type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee    *Identifier  `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewCallExpression(callee *Identifier, args []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Arguments: args}
}

// BadExpression stands in for input the parser could not make sense of.
type BadExpression struct {
	nodeImpl
	expressionMarker
}

func NewBadExpression() *BadExpression {
	return &BadExpression{nodeImpl: newNodeImpl(NodeBadExpression)}
}
