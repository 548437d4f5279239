package diagnostic

import (
	"fmt"

	"wsharp/interpreter-go/pkg/ast"
)

// Diagnostic is a user-facing compile-time problem anchored to a source span.
type Diagnostic struct {
	Span    ast.Span
	Message string
}

// String renders the diagnostic as `(line, column): message`.
func (d Diagnostic) String() string {
	return fmt.Sprintf("(%d, %d): %s", d.Span.Start.Line, d.Span.Start.Column, d.Message)
}

// Bag accumulates diagnostics in discovery order.
type Bag struct {
	items []Diagnostic
}

// Report appends a formatted diagnostic.
func (b *Bag) Report(span ast.Span, format string, args ...any) {
	b.items = append(b.items, Diagnostic{Span: span, Message: fmt.Sprintf(format, args...)})
}

// Extend appends diagnostics collected elsewhere, preserving their order.
func (b *Bag) Extend(diags []Diagnostic) {
	b.items = append(b.items, diags...)
}

// Len reports the number of diagnostics collected so far.
func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a copy of the collected diagnostics.
func (b *Bag) Items() []Diagnostic {
	if len(b.items) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}
