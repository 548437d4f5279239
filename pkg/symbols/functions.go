package symbols

import (
	"fmt"
	"strings"
)

// ParameterSymbol is a named, typed function parameter.
type ParameterSymbol struct {
	Name string
	Type *TypeSymbol
}

// FunctionSymbol describes a callable: builtins and any user functions supplied
// to the binder resolve through the same shape.
type FunctionSymbol struct {
	Name       string
	Parameters []ParameterSymbol
	ReturnType *TypeSymbol
}

func (f *FunctionSymbol) String() string {
	params := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.Name + ": " + p.Type.Name()
	}
	return fmt.Sprintf("%s(%s) -> %s", f.Name, strings.Join(params, ", "), f.ReturnType.Name())
}

func newFunction(name string, ret *TypeSymbol, params ...ParameterSymbol) *FunctionSymbol {
	return &FunctionSymbol{Name: name, Parameters: params, ReturnType: ret}
}

// Builtins.
var (
	FuncN      = newFunction("N", Integer, ParameterSymbol{Name: "lineNumber", Type: Integer})
	FuncPrint  = newFunction("print", Void, ParameterSymbol{Name: "text", Type: String})
	FuncRandom = newFunction("random", Integer, ParameterSymbol{Name: "maximum", Type: Integer})
	FuncRead   = newFunction("read", String)
	FuncU      = newFunction("U", String, ParameterSymbol{Name: "codePoint", Type: Integer})
)

var builtins = map[string]*FunctionSymbol{
	FuncN.Name:      FuncN,
	FuncPrint.Name:  FuncPrint,
	FuncRandom.Name: FuncRandom,
	FuncRead.Name:   FuncRead,
	FuncU.Name:      FuncU,
}

// LookupBuiltin resolves one of the fixed intrinsic functions.
func LookupBuiltin(name string) (*FunctionSymbol, bool) {
	fn, ok := builtins[name]
	return fn, ok
}

// Builtins returns the intrinsic functions in a stable order.
func Builtins() []*FunctionSymbol {
	return []*FunctionSymbol{FuncN, FuncPrint, FuncRandom, FuncRead, FuncU}
}
