package parser

import (
	"math/big"
	"strings"
	"unicode"
	"unicode/utf8"

	"wsharp/interpreter-go/pkg/ast"
	"wsharp/interpreter-go/pkg/diagnostic"
)

type lexer struct {
	src   string
	pos   int
	line  int
	col   int
	diags *diagnostic.Bag
}

func newLexer(src string, diags *diagnostic.Bag) *lexer {
	return &lexer{src: src, line: 1, col: 1, diags: diags}
}

func (l *lexer) position() ast.Position {
	return ast.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *lexer) peekRune(ahead int) rune {
	pos := l.pos
	for i := 0; ; i++ {
		if pos >= len(l.src) {
			return 0
		}
		r, size := utf8.DecodeRuneInString(l.src[pos:])
		if i == ahead {
			return r
		}
		pos += size
	}
}

func (l *lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col += size
	}
	return r
}

func (l *lexer) skipTrivia() {
	for l.pos < len(l.src) {
		r := l.peekRune(0)
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '/' && l.peekRune(1) == '/':
			for l.pos < len(l.src) && l.peekRune(0) != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) next() Token {
	l.skipTrivia()
	start := l.position()
	if l.pos >= len(l.src) {
		return Token{Kind: TokenEOF, Span: ast.Span{Start: start, End: start}}
	}

	r := l.peekRune(0)
	var tok Token
	switch {
	case isDigit(r):
		tok = l.number()
	case r == '"':
		tok = l.stringLiteral(start)
	case isIdentStart(r):
		tok = l.identifier()
	default:
		tok = l.punctuation(r)
	}
	tok.Span = ast.Span{Start: start, End: l.position()}
	tok.Text = l.src[start.Offset:l.pos]
	if tok.Kind == TokenBad {
		l.diags.Report(tok.Span, "bad character input: `%s`", tok.Text)
	}
	return tok
}

func (l *lexer) number() Token {
	start := l.pos
	for isDigit(l.peekRune(0)) {
		l.advance()
	}
	value, _ := new(big.Int).SetString(l.src[start:l.pos], 10)
	return Token{Kind: TokenNumber, Value: value}
}

func (l *lexer) identifier() Token {
	start := l.pos
	for r := l.peekRune(0); isIdentStart(r) || isDigit(r); r = l.peekRune(0) {
		l.advance()
	}
	text := l.src[start:l.pos]
	if kind, ok := keywords[text]; ok {
		return Token{Kind: kind}
	}
	return Token{Kind: TokenIdentifier}
}

func (l *lexer) stringLiteral(start ast.Position) Token {
	l.advance() // opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.src) || l.peekRune(0) == '\n' {
			l.diags.Report(ast.Span{Start: start, End: l.position()}, "unterminated string literal")
			return Token{Kind: TokenString, Value: b.String()}
		}
		r := l.advance()
		switch r {
		case '"':
			return Token{Kind: TokenString, Value: b.String()}
		case '\\':
			escStart := l.position()
			esc := l.advance()
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case '"', '\\':
				b.WriteRune(esc)
			default:
				escStart.Offset--
				escStart.Column--
				l.diags.Report(ast.Span{Start: escStart, End: l.position()}, "unknown escape sequence `\\%c`", esc)
			}
		default:
			b.WriteRune(r)
		}
	}
}

func (l *lexer) punctuation(r rune) Token {
	l.advance()
	two := func(second rune, pair, single TokenKind) Token {
		if l.peekRune(0) == second {
			l.advance()
			return Token{Kind: pair}
		}
		return Token{Kind: single}
	}
	switch r {
	case '+':
		return Token{Kind: TokenPlus}
	case '-':
		return Token{Kind: TokenMinus}
	case '*':
		return Token{Kind: TokenStar}
	case '/':
		return Token{Kind: TokenSlash}
	case '%':
		return Token{Kind: TokenPercent}
	case '(':
		return Token{Kind: TokenOpenParenthesis}
	case ')':
		return Token{Kind: TokenCloseParenthesis}
	case '#':
		return Token{Kind: TokenHash}
	case ',':
		return Token{Kind: TokenComma}
	case ';':
		return Token{Kind: TokenSemicolon}
	case '!':
		return two('=', TokenBangEquals, TokenBang)
	case '=':
		return two('=', TokenEqualsEquals, TokenEquals)
	case '<':
		return two('=', TokenLessEquals, TokenLess)
	case '>':
		return two('=', TokenGreaterEquals, TokenGreater)
	case '&':
		return two('&', TokenAmpersandAmpersand, TokenBad)
	case '|':
		return two('|', TokenPipePipe, TokenBad)
	default:
		return Token{Kind: TokenBad}
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// Tokenize lexes source into tokens (ending with TokenEOF) and reports
// lexical diagnostics.
func Tokenize(source string) ([]Token, []diagnostic.Diagnostic) {
	var diags diagnostic.Bag
	lx := newLexer(source, &diags)
	var tokens []Token
	for {
		tok := lx.next()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	return tokens, diags.Items()
}
