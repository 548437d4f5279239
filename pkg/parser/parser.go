package parser

import (
	"math/big"

	"wsharp/interpreter-go/pkg/ast"
	"wsharp/interpreter-go/pkg/diagnostic"
)

// Parse turns W# source text into a compilation unit. It never fails: syntax
// problems are reported as diagnostics and the parser resumes at the next `;`.
func Parse(source string) (*ast.CompilationUnit, []diagnostic.Diagnostic) {
	var diags diagnostic.Bag
	lx := newLexer(source, &diags)
	var tokens []Token
	for {
		tok := lx.next()
		if tok.Kind == TokenBad {
			// Already reported by the lexer.
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	p := &parser{tokens: tokens, diags: &diags}
	unit := p.parseCompilationUnit()
	return unit, diags.Items()
}

type parser struct {
	tokens []Token
	pos    int
	diags  *diagnostic.Bag
}

func (p *parser) peek(offset int) Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *parser) current() Token { return p.peek(0) }

func (p *parser) nextToken() Token {
	tok := p.current()
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) at(kind TokenKind) bool {
	return p.current().Kind == kind
}

// expect consumes a token of the given kind. On mismatch it reports a
// diagnostic and returns false without consuming anything.
func (p *parser) expect(kind TokenKind) (Token, bool) {
	tok := p.current()
	if tok.Kind == kind {
		return p.nextToken(), true
	}
	p.diags.Report(tok.Span, "unexpected token %s, expected %s", tok.describe(), kind)
	return Token{Kind: kind, Span: ast.Span{Start: tok.Span.Start, End: tok.Span.Start}}, false
}

// synchronize skips to just past the next `;` so the following line parses cleanly.
func (p *parser) synchronize() {
	for !p.at(TokenEOF) {
		if p.nextToken().Kind == TokenSemicolon {
			return
		}
	}
}

func (p *parser) parseCompilationUnit() *ast.CompilationUnit {
	var lines []*ast.Line
	for !p.at(TokenEOF) {
		start := p.pos
		if line := p.parseLine(); line != nil {
			lines = append(lines, line)
		}
		if p.pos == start {
			p.nextToken()
		}
	}
	unit := ast.NewCompilationUnit(lines)
	if len(lines) > 0 {
		ast.SetSpan(unit, ast.Cover(lines[0].Span(), lines[len(lines)-1].Span()))
	}
	return unit
}

func (p *parser) parseLine() *ast.Line {
	reported := p.diags.Len()
	numberTok, ok := p.expect(TokenNumber)
	if !ok {
		p.synchronize()
		return nil
	}
	number := integerLiteral(numberTok)

	var weight *ast.IntegerLiteral
	if p.at(TokenHash) {
		p.nextToken()
		weightTok, ok := p.expect(TokenNumber)
		if !ok {
			p.synchronize()
			return nil
		}
		weight = integerLiteral(weightTok)
	}

	var deferCond ast.Expression
	if p.at(TokenDeferKeyword) {
		p.nextToken()
		deferCond = p.parseClauseCondition()
	}

	statements := []ast.Statement{p.parseStatement()}
	for p.at(TokenComma) {
		p.nextToken()
		statements = append(statements, p.parseStatement())
	}

	var againCond ast.Expression
	if p.at(TokenAgainKeyword) {
		p.nextToken()
		againCond = p.parseClauseCondition()
	}

	line := ast.NewLine(number, weight, deferCond, statements, againCond)
	end := p.current().Span
	switch {
	case p.at(TokenSemicolon):
		p.nextToken()
	case p.diags.Len() > reported:
		// The line already has an error; don't pile a second one on top.
		p.synchronize()
		end = p.tokens[max(p.pos-1, 0)].Span
	default:
		p.expect(TokenSemicolon)
		p.synchronize()
		end = p.tokens[max(p.pos-1, 0)].Span
	}
	ast.SetSpan(line, ast.Cover(numberTok.Span, end))
	return line
}

func (p *parser) parseClauseCondition() ast.Expression {
	open, _ := p.expect(TokenOpenParenthesis)
	cond := p.parseExpression(0)
	closeTok, _ := p.expect(TokenCloseParenthesis)
	paren := ast.NewParenthesizedExpression(cond)
	ast.SetSpan(paren, ast.Cover(open.Span, closeTok.Span))
	return paren
}

func (p *parser) parseStatement() ast.Statement {
	if p.at(TokenIdentifier) && p.peek(1).Kind == TokenEquals {
		nameTok := p.nextToken()
		p.nextToken() // =
		name := identifier(nameTok)
		value := p.parseExpression(0)
		stmt := ast.NewAssignmentStatement(name, value)
		ast.SetSpan(stmt, ast.Cover(nameTok.Span, value.Span()))
		return stmt
	}

	expr := p.parseExpression(0)
	if p.at(TokenHash) {
		p.nextToken()
		delta := p.parseExpression(0)
		stmt := ast.NewUpdateLineCountStatement(expr, delta)
		ast.SetSpan(stmt, ast.Cover(expr.Span(), delta.Span()))
		return stmt
	}
	stmt := ast.NewExpressionStatement(expr)
	ast.SetSpan(stmt, expr.Span())
	return stmt
}

func binaryPrecedence(kind TokenKind) (ast.BinaryOperator, int) {
	switch kind {
	case TokenStar:
		return ast.BinaryOperatorMultiply, 6
	case TokenSlash:
		return ast.BinaryOperatorDivide, 6
	case TokenPercent:
		return ast.BinaryOperatorModulo, 6
	case TokenPlus:
		return ast.BinaryOperatorAdd, 5
	case TokenMinus:
		return ast.BinaryOperatorSubtract, 5
	case TokenLess:
		return ast.BinaryOperatorLess, 4
	case TokenLessEquals:
		return ast.BinaryOperatorLessEqual, 4
	case TokenGreater:
		return ast.BinaryOperatorGreater, 4
	case TokenGreaterEquals:
		return ast.BinaryOperatorGreaterEqual, 4
	case TokenEqualsEquals:
		return ast.BinaryOperatorEqual, 3
	case TokenBangEquals:
		return ast.BinaryOperatorNotEqual, 3
	case TokenAmpersandAmpersand:
		return ast.BinaryOperatorAnd, 2
	case TokenPipePipe:
		return ast.BinaryOperatorOr, 1
	default:
		return "", 0
	}
}

const unaryPrecedence = 7

func unaryOperator(kind TokenKind) (ast.UnaryOperator, bool) {
	switch kind {
	case TokenBang:
		return ast.UnaryOperatorNot, true
	case TokenMinus:
		return ast.UnaryOperatorNegate, true
	case TokenPlus:
		return ast.UnaryOperatorIdentity, true
	default:
		return "", false
	}
}

func (p *parser) parseExpression(parentPrecedence int) ast.Expression {
	var left ast.Expression
	if op, ok := unaryOperator(p.current().Kind); ok {
		opTok := p.nextToken()
		operand := p.parseExpression(unaryPrecedence)
		unary := ast.NewUnaryExpression(op, operand)
		ast.SetSpan(unary, ast.Cover(opTok.Span, operand.Span()))
		left = unary
	} else {
		left = p.parsePrimary()
	}

	for {
		op, precedence := binaryPrecedence(p.current().Kind)
		if precedence == 0 || precedence <= parentPrecedence {
			return left
		}
		p.nextToken()
		right := p.parseExpression(precedence)
		binary := ast.NewBinaryExpression(op, left, right)
		ast.SetSpan(binary, ast.Cover(left.Span(), right.Span()))
		left = binary
	}
}

func (p *parser) parsePrimary() ast.Expression {
	tok := p.current()
	switch tok.Kind {
	case TokenNumber:
		p.nextToken()
		return integerLiteral(tok)
	case TokenString:
		p.nextToken()
		lit := ast.NewStringLiteral(tok.Value.(string))
		ast.SetSpan(lit, tok.Span)
		return lit
	case TokenTrueKeyword, TokenFalseKeyword:
		p.nextToken()
		lit := ast.NewBooleanLiteral(tok.Kind == TokenTrueKeyword)
		ast.SetSpan(lit, tok.Span)
		return lit
	case TokenIdentifier:
		p.nextToken()
		name := identifier(tok)
		if !p.at(TokenOpenParenthesis) {
			return name
		}
		return p.parseCallArguments(name)
	case TokenOpenParenthesis:
		p.nextToken()
		inner := p.parseExpression(0)
		closeTok, _ := p.expect(TokenCloseParenthesis)
		paren := ast.NewParenthesizedExpression(inner)
		ast.SetSpan(paren, ast.Cover(tok.Span, closeTok.Span))
		return paren
	default:
		p.diags.Report(tok.Span, "unexpected token %s, expected expression", tok.describe())
		switch tok.Kind {
		case TokenSemicolon, TokenComma, TokenCloseParenthesis, TokenEOF:
		default:
			p.nextToken()
		}
		bad := ast.NewBadExpression()
		ast.SetSpan(bad, tok.Span)
		return bad
	}
}

func (p *parser) parseCallArguments(callee *ast.Identifier) ast.Expression {
	p.nextToken() // (
	var args []ast.Expression
	if !p.at(TokenCloseParenthesis) {
		args = append(args, p.parseExpression(0))
		for p.at(TokenComma) {
			p.nextToken()
			args = append(args, p.parseExpression(0))
		}
	}
	closeTok, _ := p.expect(TokenCloseParenthesis)
	call := ast.NewCallExpression(callee, args)
	ast.SetSpan(call, ast.Cover(callee.Span(), closeTok.Span))
	return call
}

func integerLiteral(tok Token) *ast.IntegerLiteral {
	value, _ := tok.Value.(*big.Int)
	if value == nil {
		value = new(big.Int)
	}
	lit := ast.NewIntegerLiteral(tok.Text, value)
	ast.SetSpan(lit, tok.Span)
	return lit
}

func identifier(tok Token) *ast.Identifier {
	id := ast.NewIdentifier(tok.Text)
	ast.SetSpan(id, tok.Span)
	return id
}
