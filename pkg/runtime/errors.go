package runtime

import "fmt"

// RedeclarationError reports a second declaration of a name in one scope.
type RedeclarationError struct {
	Name string
}

func (e *RedeclarationError) Error() string {
	return fmt.Sprintf("Redeclaration of '%s'.", e.Name)
}

type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'.", e.Name)
}

// UninitializedVariableError reports a read of a declared variable that has
// never been assigned.
type UninitializedVariableError struct {
	Name string
}

func (e *UninitializedVariableError) Error() string {
	return fmt.Sprintf("Variable '%s' might not have been initialized.", e.Name)
}
