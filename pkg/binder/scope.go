package binder

import "wsharp/interpreter-go/pkg/symbols"

// Scope is the single flat program scope. W# has no nested lexical scopes:
// every line sees every name declared textually before it.
type Scope struct {
	names map[string]*symbols.VariableSymbol
	order []*symbols.VariableSymbol
}

// NewScope creates an empty program scope.
func NewScope() *Scope {
	return &Scope{names: make(map[string]*symbols.VariableSymbol)}
}

// Declare binds a new name. It returns the existing symbol and false when the
// name is already declared.
func (s *Scope) Declare(name string, typ *symbols.TypeSymbol) (*symbols.VariableSymbol, bool) {
	if existing, ok := s.names[name]; ok {
		return existing, false
	}
	variable := &symbols.VariableSymbol{Name: name, Type: typ}
	s.names[name] = variable
	s.order = append(s.order, variable)
	return variable, true
}

// Redeclare replaces the symbol bound to name with a fresh one of type typ.
// Nodes bound against the previous symbol keep its type.
func (s *Scope) Redeclare(name string, typ *symbols.TypeSymbol) *symbols.VariableSymbol {
	variable := &symbols.VariableSymbol{Name: name, Type: typ}
	previous, ok := s.names[name]
	s.names[name] = variable
	if !ok {
		s.order = append(s.order, variable)
		return variable
	}
	for i, v := range s.order {
		if v == previous {
			s.order[i] = variable
			break
		}
	}
	return variable
}

// Lookup finds a declared name.
func (s *Scope) Lookup(name string) (*symbols.VariableSymbol, bool) {
	variable, ok := s.names[name]
	return variable, ok
}

// Variables returns the declared names in declaration order.
func (s *Scope) Variables() []*symbols.VariableSymbol {
	return append([]*symbols.VariableSymbol(nil), s.order...)
}
