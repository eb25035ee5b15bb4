package runtime

import (
	"sort"
)

type binding struct {
	typeName    string
	value       Value
	initialized bool
}

// Environment provides lexical scoping for Bisaya++ variables. Every binding
// keeps the type it was declared with.
type Environment struct {
	values map[string]*binding
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]*binding),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define binds name in the current scope. Names already bound in this scope
// are rejected; outer bindings are shadowed.
func (e *Environment) Define(name, typeName string, value Value, initialized bool) error {
	if _, ok := e.values[name]; ok {
		return &RedeclarationError{Name: name}
	}
	e.values[name] = &binding{typeName: typeName, value: value, initialized: initialized}
	return nil
}

// Assign updates an existing binding in the first scope where it appears.
func (e *Environment) Assign(name string, value Value) error {
	b, err := e.lookup(name)
	if err != nil {
		return err
	}
	b.value = value
	b.initialized = true
	return nil
}

// Get retrieves a binding's value, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	b, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	if !b.initialized {
		return nil, &UninitializedVariableError{Name: name}
	}
	return b.value, nil
}

// GetType returns the declared type of name.
func (e *Environment) GetType(name string) (string, error) {
	b, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	return b.typeName, nil
}

func (e *Environment) lookup(name string) (*binding, error) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.values[name]; ok {
			return b, nil
		}
	}
	return nil, &UndefinedVariableError{Name: name}
}

// Keys returns the bindings of this scope in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extend creates a child scope.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
