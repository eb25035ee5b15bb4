package interpreter

import (
	"context"
	"fmt"
	"strings"

	"github.com/chrlskrt/bisayaplusplus/pkg/ast"
	"github.com/chrlskrt/bisayaplusplus/pkg/runtime"
)

func (i *Interpreter) execute(ctx context.Context, node ast.Statement, env *runtime.Environment) error {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		_, err := i.evaluateExpression(ctx, n.Expression, env)
		return err
	case *ast.VarDecl:
		return i.executeVarDecl(ctx, n, env)
	case *ast.Print:
		return i.executePrint(ctx, n, env)
	case *ast.Input:
		return i.executeInput(ctx, n, env)
	case *ast.Block:
		return i.executeBlock(ctx, n, env)
	case *ast.If:
		return i.executeIf(ctx, n, env)
	case *ast.While:
		return i.executeWhile(ctx, n, env)
	case *ast.DoWhile:
		return i.executeDoWhile(ctx, n, env)
	case *ast.ForLoop:
		return i.executeForLoop(ctx, n, env)
	default:
		return fmt.Errorf("unsupported statement type: %T", node)
	}
}

// executeBlock runs statements in a child scope; the caller's scope is
// untouched on every exit path.
func (i *Interpreter) executeBlock(ctx context.Context, block *ast.Block, env *runtime.Environment) error {
	scope := env.Extend()
	for _, stmt := range block.Statements {
		if err := i.execute(ctx, stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeVarDecl(ctx context.Context, decl *ast.VarDecl, env *runtime.Environment) error {
	name := decl.Name.Lexeme
	if decl.Initializer == nil {
		return scopeError(env.Define(name, decl.TypeName, nil, false), decl.Line())
	}
	value, err := i.evaluateExpression(ctx, decl.Initializer, env)
	if err != nil {
		return err
	}
	value, err = coerceAssignment(decl.TypeName, value, isLiteral(decl.Initializer), name, decl.Line())
	if err != nil {
		return err
	}
	return scopeError(env.Define(name, decl.TypeName, value, true), decl.Line())
}

func (i *Interpreter) executePrint(ctx context.Context, stmt *ast.Print, env *runtime.Environment) error {
	value, err := i.evaluateExpression(ctx, stmt.Expression, env)
	if err != nil {
		return err
	}
	return i.output.Emit(ctx, Stringify(value))
}

func (i *Interpreter) executeInput(ctx context.Context, stmt *ast.Input, env *runtime.Environment) error {
	types := make([]string, len(stmt.Names))
	for idx, name := range stmt.Names {
		typ, err := env.GetType(name.Lexeme)
		if err != nil {
			return scopeError(err, name.Line)
		}
		types[idx] = typ
	}

	line, err := i.input.ReadLine(ctx)
	if err != nil {
		return wrapRuntimeError(err, stmt.Line())
	}
	fields := strings.Split(strings.Trim(line, " \t\r\n"), ",")
	expected := len(stmt.Names)
	switch {
	case len(fields) < expected:
		return runtimeErrorf(stmt.Line(), "Received less inputs than needed. Expect %d, but received %d.", expected, len(fields))
	case len(fields) > expected:
		return runtimeErrorf(stmt.Line(), "Received more inputs than needed. Received %d, expect %d.", len(fields), expected)
	}

	values := make([]runtime.Value, expected)
	for idx, field := range fields {
		value, ok := convertInput(strings.TrimSpace(field), types[idx])
		if !ok {
			return runtimeErrorf(stmt.Line(), "Incompatible input for variable %s with type %s.", stmt.Names[idx].Lexeme, types[idx])
		}
		values[idx] = value
	}
	for idx, name := range stmt.Names {
		if err := env.Assign(name.Lexeme, values[idx]); err != nil {
			return scopeError(err, name.Line)
		}
	}
	return nil
}

func (i *Interpreter) executeIf(ctx context.Context, stmt *ast.If, env *runtime.Environment) error {
	ok, err := i.condition(ctx, stmt.Condition, env)
	if err != nil {
		return err
	}
	if ok {
		return i.executeBlock(ctx, stmt.Then, env)
	}
	for _, clause := range stmt.ElseIfs {
		ok, err := i.condition(ctx, clause.Condition, env)
		if err != nil {
			return err
		}
		if ok {
			return i.executeBlock(ctx, clause.Branch, env)
		}
	}
	if stmt.Else != nil {
		return i.executeBlock(ctx, stmt.Else, env)
	}
	return nil
}

func (i *Interpreter) executeWhile(ctx context.Context, loop *ast.While, env *runtime.Environment) error {
	for {
		if err := i.checkStop(); err != nil {
			return err
		}
		ok, err := i.condition(ctx, loop.Condition, env)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := i.executeBlock(ctx, loop.Body, env); err != nil {
			return err
		}
	}
}

func (i *Interpreter) executeDoWhile(ctx context.Context, loop *ast.DoWhile, env *runtime.Environment) error {
	for {
		if err := i.checkStop(); err != nil {
			return err
		}
		if err := i.executeBlock(ctx, loop.Body, env); err != nil {
			return err
		}
		ok, err := i.condition(ctx, loop.Condition, env)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

// executeForLoop keeps the initializer's bindings in one scope for the whole
// loop; each body iteration gets a fresh child of it.
func (i *Interpreter) executeForLoop(ctx context.Context, loop *ast.ForLoop, env *runtime.Environment) error {
	loopEnv := env.Extend()
	if err := i.execute(ctx, loop.Init, loopEnv); err != nil {
		return err
	}
	for {
		if err := i.checkStop(); err != nil {
			return err
		}
		ok, err := i.condition(ctx, loop.Condition, loopEnv)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := i.executeBlock(ctx, loop.Body, loopEnv); err != nil {
			return err
		}
		if err := i.execute(ctx, loop.Update, loopEnv); err != nil {
			return err
		}
	}
}

func (i *Interpreter) condition(ctx context.Context, expr ast.Expression, env *runtime.Environment) (bool, error) {
	value, err := i.evaluateExpression(ctx, expr, env)
	if err != nil {
		return false, err
	}
	return Truthy(value), nil
}
