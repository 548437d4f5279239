package driver

import (
	"errors"
	"strings"
	"testing"

	"wsharp/interpreter-go/pkg/codegen"
)

func TestCompileCleanProgram(t *testing.T) {
	c := Compile("1 print(\"hi\");\n2#0 x = 1;")
	if diags := c.Diagnostics(); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	lines, err := c.Lines(codegen.Options{})
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

func TestCompileOrdersSyntaxBeforeBinding(t *testing.T) {
	c := Compile("1 print(y)")
	diags := c.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", diags)
	}
	if !strings.Contains(diags[0].Message, "expected `;`") {
		t.Fatalf("first diagnostic should be syntactic, got %q", diags[0].Message)
	}
	if diags[1].Message != "undefined name `y`" {
		t.Fatalf("second diagnostic = %q", diags[1].Message)
	}
}

func TestCompileRefusesToGenerateWithDiagnostics(t *testing.T) {
	c := Compile("1 x = 1, x = \"s\";")
	_, err := c.Lines(codegen.Options{})
	var diagErr *DiagnosticsError
	if !errors.As(err, &diagErr) {
		t.Fatalf("expected DiagnosticsError, got %v", err)
	}
	if len(diagErr.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diagErr.Diagnostics)
	}
	if !strings.HasPrefix(err.Error(), "driver: 1 diagnostic(s)\n- (1, ") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}
