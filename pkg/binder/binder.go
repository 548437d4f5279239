package binder

import (
	"fmt"
	"math/big"

	"wsharp/interpreter-go/pkg/ast"
	"wsharp/interpreter-go/pkg/diagnostic"
	"wsharp/interpreter-go/pkg/symbols"
)

// BoundProgram is the result of binding a compilation unit. Root is always
// populated, even when Diagnostics is not empty.
type BoundProgram struct {
	Root        *BlockStatement
	Variables   []*symbols.VariableSymbol
	Diagnostics []diagnostic.Diagnostic
}

// Lines returns the bound lines of the program in source order.
func (p *BoundProgram) Lines() []*LineStatement {
	lines := make([]*LineStatement, 0, len(p.Root.Statements))
	for _, stmt := range p.Root.Statements {
		if line, ok := stmt.(*LineStatement); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// Option configures a Binder.
type Option func(*Binder)

// WithFunctions makes user functions callable alongside the builtins.
// Builtins take precedence on a name clash.
func WithFunctions(fns ...*symbols.FunctionSymbol) Option {
	return func(b *Binder) {
		for _, fn := range fns {
			if fn != nil {
				b.functions[fn.Name] = fn
			}
		}
	}
}

// Binder resolves names, functions and conversions over a syntax tree.
type Binder struct {
	scope     *Scope
	functions map[string]*symbols.FunctionSymbol
	lines     map[uint64]bool
	diags     diagnostic.Bag
}

func newBinder(opts ...Option) *Binder {
	b := &Binder{
		scope:     NewScope(),
		functions: make(map[string]*symbols.FunctionSymbol),
		lines:     make(map[uint64]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BindProgram binds every line of unit. Problems are reported as diagnostics;
// binding never stops early.
func BindProgram(unit *ast.CompilationUnit, opts ...Option) *BoundProgram {
	b := newBinder(opts...)
	root := &BlockStatement{}
	if unit == nil {
		return &BoundProgram{Root: root}
	}
	root.span = unit.Span()

	ids := b.declareLines(unit.Lines)
	for i, line := range unit.Lines {
		if line == nil {
			continue
		}
		root.Statements = append(root.Statements, b.bindLine(line, ids[i]))
	}
	return &BoundProgram{
		Root:        root,
		Variables:   b.scope.Variables(),
		Diagnostics: b.diags.Items(),
	}
}

// declareLines records every line identifier up front so lines may refer to
// lines declared after them.
func (b *Binder) declareLines(lines []*ast.Line) []uint64 {
	ids := make([]uint64, len(lines))
	for i, line := range lines {
		if line == nil || line.Number == nil {
			continue
		}
		number := line.Number
		if number.Value.Sign() < 0 || !number.Value.IsUint64() {
			b.diags.Report(number.Span(), "line number `%s` does not fit in 64 bits", number.Text)
			continue
		}
		id := number.Value.Uint64()
		ids[i] = id
		if b.lines[id] {
			b.diags.Report(number.Span(), "line `%d` is already defined", id)
			continue
		}
		b.lines[id] = true
	}
	return ids
}

func (b *Binder) bindLine(line *ast.Line, id uint64) *LineStatement {
	bound := &LineStatement{ID: id, Weight: big.NewInt(1)}
	bound.span = line.Span()
	if line.Weight != nil && line.Weight.Value != nil {
		bound.Weight = new(big.Int).Set(line.Weight.Value)
	}
	if line.Defer != nil {
		bound.Defer = b.bindCondition(line.Defer, "defer")
	}
	for _, stmt := range line.Statements {
		bound.Statements = append(bound.Statements, b.bindStatement(stmt))
	}
	if line.Again != nil {
		bound.Again = b.bindCondition(line.Again, "again")
	}
	return bound
}

func (b *Binder) bindCondition(expr ast.Expression, clause string) Expression {
	return b.bindExpressionAs(expr, symbols.Boolean, clause+" condition: ")
}

func (b *Binder) bindStatement(stmt ast.Statement) Statement {
	switch stmt := stmt.(type) {
	case *ast.ExpressionStatement:
		bound := &ExpressionStatement{Expression: b.bindExpression(stmt.Expression)}
		bound.span = stmt.Span()
		return bound
	case *ast.AssignmentStatement:
		bound := &ExpressionStatement{Expression: b.bindAssignment(stmt)}
		bound.span = stmt.Span()
		return bound
	case *ast.UpdateLineCountStatement:
		bound := &LineCountUpdateStatement{
			Line:  b.bindLineReference(stmt.Line, "line count update: "),
			Delta: b.bindExpressionAs(stmt.Delta, symbols.Integer, "line count update: "),
		}
		bound.span = stmt.Span()
		return bound
	default:
		bound := &ExpressionStatement{Expression: errorExpression(ast.Span{})}
		if stmt != nil {
			bound.span = stmt.Span()
			b.diags.Report(stmt.Span(), "unsupported statement %s", stmt.NodeType())
		}
		return bound
	}
}

// bindLineReference binds an Integer expression that names a line. Literal
// references must name a line of the program.
func (b *Binder) bindLineReference(expr ast.Expression, prefix string) Expression {
	bound := b.bindExpressionAs(expr, symbols.Integer, prefix)
	if lit, ok := unparenthesize(expr).(*ast.IntegerLiteral); ok && lit.Value != nil {
		if !lit.Value.IsUint64() || !b.lines[lit.Value.Uint64()] {
			b.diags.Report(lit.Span(), "undefined line `%s`", lit.Text)
		}
	}
	return bound
}

func unparenthesize(expr ast.Expression) ast.Expression {
	for {
		paren, ok := expr.(*ast.ParenthesizedExpression)
		if !ok {
			return expr
		}
		expr = paren.Expression
	}
}

func (b *Binder) bindExpression(expr ast.Expression) Expression {
	switch expr := expr.(type) {
	case *ast.IntegerLiteral:
		value := expr.Value
		if value == nil {
			value = new(big.Int)
		}
		return literal(expr.Span(), new(big.Int).Set(value), symbols.Integer)
	case *ast.BooleanLiteral:
		return literal(expr.Span(), expr.Value, symbols.Boolean)
	case *ast.StringLiteral:
		return literal(expr.Span(), expr.Value, symbols.String)
	case *ast.Identifier:
		return b.bindName(expr)
	case *ast.UnaryExpression:
		return b.bindUnary(expr)
	case *ast.BinaryExpression:
		return b.bindBinary(expr)
	case *ast.ParenthesizedExpression:
		inner := b.bindExpression(expr.Expression)
		bound := &ParenthesizedExpression{Expression: inner}
		bound.span = expr.Span()
		return bound
	case *ast.CallExpression:
		return b.bindCall(expr)
	case *ast.BadExpression:
		// The parser already reported it.
		return errorExpression(expr.Span())
	case nil:
		return errorExpression(ast.Span{})
	default:
		b.diags.Report(expr.Span(), "unsupported expression %s", expr.NodeType())
		return errorExpression(expr.Span())
	}
}

// bindExpressionAs binds expr where a value of type want is expected and
// applies an implicit conversion.
func (b *Binder) bindExpressionAs(expr ast.Expression, want *symbols.TypeSymbol, prefix string) Expression {
	return b.convert(b.bindExpression(expr), want, false, prefix)
}

// convert checks that bound can become a value of type to. Explicit
// conversions come from `Type(expr)` syntax.
func (b *Binder) convert(bound Expression, to *symbols.TypeSymbol, explicit bool, prefix string) Expression {
	from := bound.Type()
	flags := Classify(from, to)
	switch {
	case !flags.Exists():
		b.diags.Report(bound.Span(), "%scannot convert `%s` to `%s`", prefix, from, to)
		return errorExpression(bound.Span())
	case !explicit && !flags.AllowedImplicitly():
		b.diags.Report(bound.Span(), "%simplicit conversion not allowed; an explicit conversion exists from `%s` to `%s`", prefix, from, to)
		return errorExpression(bound.Span())
	case flags.IsIdentity(), from == symbols.Error:
		return bound
	case to == symbols.Error:
		return errorExpression(bound.Span())
	}
	conv := &ConversionExpression{To: to, Expression: bound}
	conv.span = bound.Span()
	return conv
}

func (b *Binder) bindName(id *ast.Identifier) Expression {
	variable, ok := b.scope.Lookup(id.Name)
	if !ok {
		b.diags.Report(id.Span(), "undefined name `%s`", id.Name)
		return errorExpression(id.Span())
	}
	bound := &VariableExpression{Variable: variable}
	bound.span = id.Span()
	return bound
}

func (b *Binder) bindAssignment(stmt *ast.AssignmentStatement) Expression {
	value := b.bindExpression(stmt.Value)
	name := stmt.Name.Name
	typ := value.Type()
	if typ == symbols.Void {
		b.diags.Report(stmt.Value.Span(), "cannot assign an expression of type `Void` to `%s`", name)
		typ = symbols.Error
		value = errorExpression(stmt.Value.Span())
	}

	variable, declared := b.scope.Declare(name, typ)
	if !declared {
		switch {
		case variable.Type == symbols.Error && typ != symbols.Error:
			// The first declaration failed to bind; later uses see the type
			// seen now.
			variable = b.scope.Redeclare(name, typ)
		case typ != symbols.Error && variable.Type != typ:
			b.diags.Report(stmt.Name.Span(), "cannot redeclare `%s` as `%s`; it is already declared as `%s`", name, typ, variable.Type)
			return errorExpression(stmt.Span())
		}
	}
	bound := &AssignmentExpression{Variable: variable, Value: value}
	bound.span = stmt.Span()
	return bound
}

func (b *Binder) bindUnary(expr *ast.UnaryExpression) Expression {
	operand := b.bindExpression(expr.Operand)
	if operand.Type() == symbols.Error {
		return errorExpression(expr.Span())
	}
	op, ok := LookupUnaryOperator(expr.Operator, operand.Type())
	if !ok {
		b.diags.Report(expr.Span(), "unary operator `%s` is not defined for type `%s`", expr.Operator, operand.Type())
		return errorExpression(expr.Span())
	}
	bound := &UnaryExpression{Operator: op, Operand: operand}
	bound.span = expr.Span()
	return bound
}

func (b *Binder) bindBinary(expr *ast.BinaryExpression) Expression {
	left := b.bindExpression(expr.Left)
	right := b.bindExpression(expr.Right)
	if left.Type() == symbols.Error || right.Type() == symbols.Error {
		return errorExpression(expr.Span())
	}
	op, ok := LookupBinaryOperator(expr.Operator, left.Type(), right.Type())
	if !ok {
		b.diags.Report(expr.Span(), "binary operator `%s` is not defined for types `%s` and `%s`", expr.Operator, left.Type(), right.Type())
		return errorExpression(expr.Span())
	}
	bound := &BinaryExpression{Operator: op, Left: left, Right: right}
	bound.span = expr.Span()
	return bound
}

func (b *Binder) lookupFunction(name string) (*symbols.FunctionSymbol, bool) {
	if fn, ok := symbols.LookupBuiltin(name); ok {
		return fn, true
	}
	fn, ok := b.functions[name]
	return fn, ok
}

func (b *Binder) bindCall(call *ast.CallExpression) Expression {
	name := call.Callee.Name
	if typ, ok := symbols.LookupType(name); ok {
		return b.bindExplicitConversion(call, typ)
	}

	fn, ok := b.lookupFunction(name)
	if !ok {
		b.diags.Report(call.Callee.Span(), "undefined function `%s`", name)
		b.bindArgumentsForErrors(call.Arguments)
		return errorExpression(call.Span())
	}
	if len(call.Arguments) != len(fn.Parameters) {
		b.diags.Report(call.Span(), "function `%s` expects %d argument(s), got %d", name, len(fn.Parameters), len(call.Arguments))
		b.bindArgumentsForErrors(call.Arguments)
		return errorExpression(call.Span())
	}

	args := make([]Expression, len(call.Arguments))
	for i, arg := range call.Arguments {
		prefix := fmt.Sprintf("argument %d of `%s`: ", i+1, name)
		if fn == symbols.FuncN {
			args[i] = b.bindLineReference(arg, prefix)
			continue
		}
		args[i] = b.bindExpressionAs(arg, fn.Parameters[i].Type, prefix)
	}
	bound := &CallExpression{Function: fn, Arguments: args}
	bound.span = call.Span()
	return bound
}

func (b *Binder) bindExplicitConversion(call *ast.CallExpression, to *symbols.TypeSymbol) Expression {
	if len(call.Arguments) != 1 {
		b.diags.Report(call.Span(), "conversion to `%s` expects 1 argument, got %d", to, len(call.Arguments))
		b.bindArgumentsForErrors(call.Arguments)
		return errorExpression(call.Span())
	}
	bound := b.convert(b.bindExpression(call.Arguments[0]), to, true, "")
	if conv, ok := bound.(*ConversionExpression); ok {
		conv.span = call.Span()
	}
	return bound
}

// bindArgumentsForErrors binds arguments of a call that cannot be bound so
// that problems inside them are still reported.
func (b *Binder) bindArgumentsForErrors(args []ast.Expression) {
	for _, arg := range args {
		b.bindExpression(arg)
	}
}

func literal(span ast.Span, value any, typ *symbols.TypeSymbol) *LiteralExpression {
	lit := &LiteralExpression{Value: value, typ: typ}
	lit.span = span
	return lit
}

func errorExpression(span ast.Span) *ErrorExpression {
	expr := &ErrorExpression{}
	expr.span = span
	return expr
}
