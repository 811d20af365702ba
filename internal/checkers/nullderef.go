package checkers

import (
	"fmt"

	"adalyze/internal/domains"
	"adalyze/internal/errors"
	"adalyze/internal/eval"
	"adalyze/internal/ir"
	"adalyze/internal/types"
)

// NullDeref reports dereferences whose pointer may be null. It inspects the
// assumes the lowering inserts before each dereference and asks the
// analysis whether null survives to that point.
type NullDeref struct{}

func (NullDeref) Name() string { return "null-deref" }

func (NullDeref) Description() string {
	return "reports dereferences of possibly null pointers"
}

func (NullDeref) Kinds() []errors.Kind {
	return []errors.Kind{errors.KindNullDereference}
}

func (NullDeref) Run(prog *ir.Program, res *eval.Results) []errors.Diagnostic {
	var diags []errors.Diagnostic
	ir.WalkStmts(prog.Body, func(s ir.Stmt) {
		assume, ok := s.(*ir.AssumeStmt)
		if !ok {
			return
		}
		if _, isDeref := assume.Purpose.(ir.DerefCheck); !isDeref {
			return
		}
		ptr := pointerOperand(assume.Cond)
		if ptr == nil {
			return
		}
		values := res.EvalAt(s, ptr)
		mayNull, allNull := false, len(values) > 0
		for _, v := range values {
			null, onlyNull := nullness(v)
			mayNull = mayNull || null
			allNull = allNull && onlyNull
		}
		if !mayNull {
			return
		}
		diags = append(diags, diagAt(
			errors.NewDiagnostic(
				errors.KindNullDereference,
				fmt.Sprintf("%s may be null when dereferenced", ir.ExprString(ptr)),
			),
			prog, assume,
		).Precise(allNull && !res.Incomplete).Build())
	})
	return diags
}

// pointerOperand finds the pointer expression the guarding assume tests.
func pointerOperand(cond ir.Expr) ir.Expr {
	if _, ok := cond.Hint().(types.Pointer); ok {
		return cond
	}
	if call, ok := cond.(*ir.FunCall); ok {
		for _, arg := range call.Args {
			if found := pointerOperand(arg); found != nil {
				return found
			}
		}
	}
	return nil
}

// nullness inspects a pointer powerset value: whether null is among its
// paths, and whether it is exactly null.
func nullness(v domains.Value) (mayNull, onlyNull bool) {
	paths, ok := v.([]domains.Value)
	if !ok {
		return true, false
	}
	onlyNull = len(paths) > 0
	for _, p := range paths {
		switch p.(type) {
		case domains.NullPath:
			mayNull = true
		case domains.AnyPath:
			mayNull = true
			onlyNull = false
		default:
			onlyNull = false
		}
	}
	return mayNull, mayNull && onlyNull
}
