package parser

import (
	"fmt"

	"wsharp/interpreter-go/pkg/ast"
)

// TokenKind identifies a lexical token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenBad
	TokenNumber
	TokenString
	TokenIdentifier

	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenBang
	TokenAmpersandAmpersand
	TokenPipePipe
	TokenEqualsEquals
	TokenBangEquals
	TokenEquals
	TokenLess
	TokenLessEquals
	TokenGreater
	TokenGreaterEquals
	TokenOpenParenthesis
	TokenCloseParenthesis
	TokenHash
	TokenComma
	TokenSemicolon

	TokenTrueKeyword
	TokenFalseKeyword
	TokenDeferKeyword
	TokenAgainKeyword
)

var fixedTokenText = map[TokenKind]string{
	TokenPlus:               "+",
	TokenMinus:              "-",
	TokenStar:               "*",
	TokenSlash:              "/",
	TokenPercent:            "%",
	TokenBang:               "!",
	TokenAmpersandAmpersand: "&&",
	TokenPipePipe:           "||",
	TokenEqualsEquals:       "==",
	TokenBangEquals:         "!=",
	TokenEquals:             "=",
	TokenLess:               "<",
	TokenLessEquals:         "<=",
	TokenGreater:            ">",
	TokenGreaterEquals:      ">=",
	TokenOpenParenthesis:    "(",
	TokenCloseParenthesis:   ")",
	TokenHash:               "#",
	TokenComma:              ",",
	TokenSemicolon:          ";",
	TokenTrueKeyword:        "true",
	TokenFalseKeyword:       "false",
	TokenDeferKeyword:       "defer",
	TokenAgainKeyword:       "again",
}

var keywords = map[string]TokenKind{
	"true":  TokenTrueKeyword,
	"false": TokenFalseKeyword,
	"defer": TokenDeferKeyword,
	"again": TokenAgainKeyword,
}

// FixedText returns the spelling of punctuation and keyword tokens, or "" for
// tokens whose text varies.
func FixedText(kind TokenKind) string {
	return fixedTokenText[kind]
}

func (k TokenKind) String() string {
	if text, ok := fixedTokenText[k]; ok {
		return "`" + text + "`"
	}
	switch k {
	case TokenEOF:
		return "end of file"
	case TokenBad:
		return "bad token"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenIdentifier:
		return "identifier"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

// Token is a lexeme with its source span. Value holds the decoded literal for
// numbers (*big.Int) and strings (string).
type Token struct {
	Kind  TokenKind
	Text  string
	Value any
	Span  ast.Span
}

func (t Token) describe() string {
	if t.Kind == TokenEOF {
		return "end of file"
	}
	return "`" + t.Text + "`"
}
