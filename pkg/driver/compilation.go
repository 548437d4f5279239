package driver

import (
	"wsharp/interpreter-go/pkg/ast"
	"wsharp/interpreter-go/pkg/binder"
	"wsharp/interpreter-go/pkg/codegen"
	"wsharp/interpreter-go/pkg/diagnostic"
	"wsharp/interpreter-go/pkg/parser"
	"wsharp/interpreter-go/pkg/runtime"
)

// Compilation holds every stage of compiling one W# source text.
type Compilation struct {
	Source  string
	Unit    *ast.CompilationUnit
	Program *binder.BoundProgram

	syntax []diagnostic.Diagnostic
}

// Compile parses and binds source. It always succeeds; problems are reported
// by Diagnostics.
func Compile(source string, opts ...binder.Option) *Compilation {
	unit, syntax := parser.Parse(source)
	return &Compilation{
		Source:  source,
		Unit:    unit,
		Program: binder.BindProgram(unit, opts...),
		syntax:  syntax,
	}
}

// Diagnostics returns syntax diagnostics followed by binding diagnostics,
// each group in discovery order.
func (c *Compilation) Diagnostics() []diagnostic.Diagnostic {
	var bag diagnostic.Bag
	bag.Extend(c.syntax)
	bag.Extend(c.Program.Diagnostics)
	return bag.Items()
}

// Lines generates the executable lines. Programs with diagnostics are
// refused.
func (c *Compilation) Lines(opts codegen.Options) ([]runtime.Line, error) {
	if diags := c.Diagnostics(); len(diags) > 0 {
		return nil, &DiagnosticsError{Diagnostics: diags}
	}
	return codegen.Generate(c.Program, opts)
}
