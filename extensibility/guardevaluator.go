// Package extensibility hosts pluggable GuardEvaluator/ContentExecutor
// implementations a host may wire into an Interpreter via its functional
// options, beyond the interpreter's own built-in identity-guard/no-op-content
// defaults. The core never evaluates these itself; it only calls the
// interface.
package extensibility

import (
	"strconv"
	"strings"

	scxml "github.com/arcstate/scxml"
	"github.com/arcstate/scxml/tree"
)

// DefaultGuardEvaluator only understands function-typed guards; a nil guard
// is always true, and anything else (including an unregistered string id)
// fails closed rather than silently matching.
type DefaultGuardEvaluator struct{}

func (DefaultGuardEvaluator) Eval(ctx *scxml.Context, guard tree.GuardRef, event scxml.Event) bool {
	if guard == nil {
		return true
	}
	if g, ok := guard.(func(*scxml.Context, scxml.Event) bool); ok {
		return g(ctx, event)
	}
	return false
}

// ExpressionGuardEvaluator evaluates simple "key op value" string guards
// against the context, for hosts that want a minimal built-in guard
// language instead of a Go closure for every transition.
type ExpressionGuardEvaluator struct{}

func NewExpressionGuardEvaluator() *ExpressionGuardEvaluator {
	return &ExpressionGuardEvaluator{}
}

func (e *ExpressionGuardEvaluator) Eval(ctx *scxml.Context, guard tree.GuardRef, event scxml.Event) bool {
	if guard == nil {
		return true
	}
	str, ok := guard.(string)
	if !ok {
		return false
	}
	parts := strings.Fields(str)
	if len(parts) != 3 {
		return false
	}
	key, op, valStr := parts[0], parts[1], parts[2]

	v, hasKey := ctx.Get(key)
	if !hasKey {
		return false
	}

	switch op {
	case "==":
		return e.evalEquals(v, valStr)
	case "!=":
		return !e.evalEquals(v, valStr)
	case ">":
		return e.evalCompare(v, valStr, func(a, b float64) bool { return a > b })
	case "<":
		return e.evalCompare(v, valStr, func(a, b float64) bool { return a < b })
	default:
		return false
	}
}

func (e *ExpressionGuardEvaluator) evalEquals(v any, valStr string) bool {
	switch valStr {
	case "true":
		return v == true
	case "false":
		return v == false
	case "nil":
		return v == nil
	default:
		if fVal, err := strconv.ParseFloat(valStr, 64); err == nil {
			if f, ok := v.(float64); ok {
				return f == fVal
			}
		}
		if s, ok := v.(string); ok {
			return s == valStr
		}
		return false
	}
}

func (e *ExpressionGuardEvaluator) evalCompare(v any, valStr string, cmp func(a, b float64) bool) bool {
	fVal, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return false
	}
	f, ok := v.(float64)
	if !ok {
		return false
	}
	return cmp(f, fVal)
}
