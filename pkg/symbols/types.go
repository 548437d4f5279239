package symbols

// TypeSymbol names one of the closed set of W# types.
type TypeSymbol struct {
	name string
}

var (
	Boolean = &TypeSymbol{name: "Boolean"}
	Integer = &TypeSymbol{name: "Integer"}
	String  = &TypeSymbol{name: "String"}
	Void    = &TypeSymbol{name: "Void"}
	// Error is assigned to expressions that failed to bind so that checks
	// further up the tree stay quiet instead of cascading.
	Error = &TypeSymbol{name: "?"}
)

// Types lists every type symbol in declaration order.
var Types = []*TypeSymbol{Boolean, Integer, String, Void, Error}

func (t *TypeSymbol) Name() string { return t.name }

func (t *TypeSymbol) String() string { return t.name }

// LookupType resolves the type names that may be used as explicit
// conversions (`String(42)`). Void and Error are not nameable.
func LookupType(name string) (*TypeSymbol, bool) {
	switch name {
	case Boolean.name:
		return Boolean, true
	case Integer.name:
		return Integer, true
	case String.name:
		return String, true
	}
	return nil, false
}

// VariableSymbol is a name declared in the flat program scope.
type VariableSymbol struct {
	Name string
	Type *TypeSymbol
}

func (v *VariableSymbol) String() string { return v.Name + ": " + v.Type.Name() }
