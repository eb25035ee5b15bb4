package interpreter

import (
	"context"
	"fmt"

	"github.com/chrlskrt/bisayaplusplus/pkg/ast"
	"github.com/chrlskrt/bisayaplusplus/pkg/runtime"
	"github.com/chrlskrt/bisayaplusplus/pkg/token"
)

func (i *Interpreter) evaluateExpression(ctx context.Context, node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return literalValue(n), nil
	case *ast.Variable:
		val, err := env.Get(n.Name.Lexeme)
		if err != nil {
			return nil, scopeError(err, n.Line())
		}
		return val, nil
	case *ast.Grouping:
		return i.evaluateExpression(ctx, n.Inner, env)
	case *ast.Assign:
		return i.evaluateAssign(ctx, n, env)
	case *ast.Logical:
		return i.evaluateLogical(ctx, n, env)
	case *ast.Unary:
		return i.evaluateUnary(ctx, n, env)
	case *ast.Binary:
		left, err := i.evaluateExpression(ctx, n.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := i.evaluateExpression(ctx, n.Right, env)
		if err != nil {
			return nil, err
		}
		return applyBinary(n.Operator, left, right)
	case *ast.IncrementOrDecrement:
		return i.evaluateIncrement(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %T", node)
	}
}

func literalValue(lit *ast.Literal) runtime.Value {
	switch v := lit.Value.(type) {
	case int64:
		return runtime.IntegerValue{Val: v}
	case float64:
		return runtime.FloatValue{Val: v}
	case rune:
		return runtime.CharValue{Val: v}
	case bool:
		return runtime.BoolValue{Val: v}
	case string:
		return runtime.StringValue{Val: v}
	default:
		return runtime.NullValue{}
	}
}

func isLiteral(expr ast.Expression) bool {
	_, ok := expr.(*ast.Literal)
	return ok
}

func (i *Interpreter) evaluateAssign(ctx context.Context, assign *ast.Assign, env *runtime.Environment) (runtime.Value, error) {
	name := assign.Name.Lexeme
	value, err := i.evaluateExpression(ctx, assign.Value, env)
	if err != nil {
		return nil, err
	}
	declared, err := env.GetType(name)
	if err != nil {
		return nil, scopeError(err, assign.Line())
	}
	value, err = coerceAssignment(declared, value, isLiteral(assign.Value), name, assign.Line())
	if err != nil {
		return nil, err
	}
	if err := env.Assign(name, value); err != nil {
		return nil, scopeError(err, assign.Line())
	}
	return value, nil
}

func (i *Interpreter) evaluateLogical(ctx context.Context, expr *ast.Logical, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(ctx, expr.Left, env)
	if err != nil {
		return nil, err
	}
	leftTrue := Truthy(left)
	if expr.Operator.Kind == token.OR && leftTrue {
		return runtime.BoolValue{Val: true}, nil
	}
	if expr.Operator.Kind == token.AND && !leftTrue {
		return runtime.BoolValue{Val: false}, nil
	}
	right, err := i.evaluateExpression(ctx, expr.Right, env)
	if err != nil {
		return nil, err
	}
	return runtime.BoolValue{Val: Truthy(right)}, nil
}

func (i *Interpreter) evaluateUnary(ctx context.Context, expr *ast.Unary, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(ctx, expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case token.NOT:
		return runtime.BoolValue{Val: !Truthy(operand)}, nil
	case token.NEGATIVE, token.MINUS:
		switch v := operand.(type) {
		case runtime.IntegerValue:
			return runtime.IntegerValue{Val: -v.Val}, nil
		case runtime.FloatValue:
			return runtime.FloatValue{Val: -v.Val}, nil
		}
	case token.POSITIVE, token.PLUS:
		if runtime.IsNumeric(operand) {
			return operand, nil
		}
	default:
		return nil, runtimeErrorf(expr.Line(), "Unsupported unary operator '%s'.", expr.Operator.Lexeme)
	}
	return nil, runtimeErrorf(expr.Line(), "Operand of '%s' must be a number.", expr.Operator.Lexeme)
}

// evaluateIncrement updates the variable in its own representation. The
// prefix form yields the value before the update, the postfix form the value
// after it.
func (i *Interpreter) evaluateIncrement(expr *ast.IncrementOrDecrement, env *runtime.Environment) (runtime.Value, error) {
	name := expr.Target.Name.Lexeme
	current, err := env.Get(name)
	if err != nil {
		return nil, scopeError(err, expr.Line())
	}
	delta := int64(1)
	if expr.Operator.Kind == token.DECREMENT {
		delta = -1
	}
	var updated runtime.Value
	switch v := current.(type) {
	case runtime.IntegerValue:
		updated = runtime.IntegerValue{Val: v.Val + delta}
	case runtime.FloatValue:
		updated = runtime.FloatValue{Val: v.Val + float64(delta)}
	case runtime.CharValue:
		updated = runtime.CharValue{Val: v.Val + rune(delta)}
	default:
		typ, _ := env.GetType(name)
		return nil, runtimeErrorf(expr.Line(), "Cannot apply '%s' to variable '%s' of type %s.", expr.Operator.Lexeme, name, typ)
	}
	if err := env.Assign(name, updated); err != nil {
		return nil, scopeError(err, expr.Line())
	}
	if expr.IsPrefix {
		return current, nil
	}
	return updated, nil
}
