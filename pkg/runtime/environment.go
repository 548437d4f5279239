package runtime

import "fmt"

// Environment holds the program's globals. W# has one flat scope, so there
// is no parent chain.
type Environment struct {
	values map[string]Value
}

// NewEnvironment creates an empty global store.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// Define inserts or replaces a binding.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Assign updates an existing binding.
func (e *Environment) Assign(name string, value Value) error {
	if _, ok := e.values[name]; !ok {
		return fmt.Errorf("runtime: undefined variable `%s`", name)
	}
	e.values[name] = value
	return nil
}

// Get retrieves a binding.
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("runtime: undefined variable `%s`", name)
}
