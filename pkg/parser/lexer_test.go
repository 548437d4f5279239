package parser

import (
	"math/big"
	"testing"
)

func TestTokenizeSingleTokens(t *testing.T) {
	cases := []struct {
		text string
		kind TokenKind
	}{
		{"+", TokenPlus},
		{"-", TokenMinus},
		{"*", TokenStar},
		{"/", TokenSlash},
		{"%", TokenPercent},
		{"!", TokenBang},
		{"&&", TokenAmpersandAmpersand},
		{"||", TokenPipePipe},
		{"==", TokenEqualsEquals},
		{"!=", TokenBangEquals},
		{"=", TokenEquals},
		{"<", TokenLess},
		{"<=", TokenLessEquals},
		{">", TokenGreater},
		{">=", TokenGreaterEquals},
		{"(", TokenOpenParenthesis},
		{")", TokenCloseParenthesis},
		{"#", TokenHash},
		{",", TokenComma},
		{";", TokenSemicolon},
		{"true", TokenTrueKeyword},
		{"false", TokenFalseKeyword},
		{"defer", TokenDeferKeyword},
		{"again", TokenAgainKeyword},
		{"a", TokenIdentifier},
		{"abc_1", TokenIdentifier},
		{"1", TokenNumber},
		{"123", TokenNumber},
		{`"hi"`, TokenString},
	}
	for _, tc := range cases {
		tokens, diags := Tokenize(tc.text)
		if len(diags) != 0 {
			t.Fatalf("%q: unexpected diagnostics %v", tc.text, diags)
		}
		if len(tokens) != 2 {
			t.Fatalf("%q: expected 1 token plus EOF, got %d", tc.text, len(tokens))
		}
		if tokens[0].Kind != tc.kind || tokens[0].Text != tc.text {
			t.Fatalf("%q: got kind %s text %q", tc.text, tokens[0].Kind, tokens[0].Text)
		}
	}
}

func TestFixedTextRoundTrips(t *testing.T) {
	for kind := TokenEOF; kind <= TokenAgainKeyword; kind++ {
		text := FixedText(kind)
		if text == "" {
			continue
		}
		tokens, _ := Tokenize(text)
		if tokens[0].Kind != kind {
			t.Fatalf("FixedText(%s) = %q lexes as %s", kind, text, tokens[0].Kind)
		}
	}
}

func TestTokenizeSkipsWhitespaceAndComments(t *testing.T) {
	tokens, diags := Tokenize("1 // first line\n\t2#3 ;\r\n")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
	want := []TokenKind{TokenNumber, TokenNumber, TokenHash, TokenNumber, TokenSemicolon, TokenEOF}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, kind := range want {
		if tokens[i].Kind != kind {
			t.Fatalf("tokens[%d] = %s, want %s", i, tokens[i].Kind, kind)
		}
	}
	second := tokens[1]
	if second.Span.Start.Line != 2 || second.Span.Start.Column != 2 {
		t.Fatalf("expected `2` at (2, 2), got (%d, %d)", second.Span.Start.Line, second.Span.Start.Column)
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	tokens, diags := Tokenize(`"a\"b\\c\nd\te"`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
	if got := tokens[0].Value.(string); got != "a\"b\\c\nd\te" {
		t.Fatalf("decoded string = %q", got)
	}
}

func TestTokenizeReportsLexicalErrors(t *testing.T) {
	cases := []struct {
		text    string
		message string
	}{
		{"$", "bad character input: `$`"},
		{"&", "bad character input: `&`"},
		{`"open`, "unterminated string literal"},
		{`"\q"`, "unknown escape sequence `\\q`"},
	}
	for _, tc := range cases {
		_, diags := Tokenize(tc.text)
		if len(diags) != 1 {
			t.Fatalf("%q: expected 1 diagnostic, got %v", tc.text, diags)
		}
		if diags[0].Message != tc.message {
			t.Fatalf("%q: message = %q, want %q", tc.text, diags[0].Message, tc.message)
		}
	}
}

func TestNumberTokenValueIsUnbounded(t *testing.T) {
	text := "123456789012345678901234567890"
	tokens, _ := Tokenize(text)
	if got := tokens[0].Value.(*big.Int).String(); got != text {
		t.Fatalf("number value = %s, want %s", got, text)
	}
}
