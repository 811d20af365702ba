package checkers

import (
	"fmt"

	"adalyze/internal/errors"
	"adalyze/internal/eval"
	"adalyze/internal/interp"
	"adalyze/internal/ir"
)

// SameOperands is a syntactic checker: it flags binary operations whose two
// operand trees are identical, a frequent copy-paste slip in boolean chains
// and comparisons. It does not consult the analysis.
type SameOperands struct{}

func (SameOperands) Name() string { return "same-operands" }

func (SameOperands) Description() string {
	return "reports binary operations with identical operands"
}

func (SameOperands) Kinds() []errors.Kind {
	return []errors.Kind{errors.KindSameOperands}
}

// flaggedOps are the operators where identical operands make the result
// trivial. Arithmetic like x + x is intentional often enough to skip.
var flaggedOps = map[string]bool{
	interp.OpAnd.Key(): true,
	interp.OpOr.Key():  true,
	interp.OpEq.Key():  true,
	interp.OpNeq.Key(): true,
	interp.OpLt.Key():  true,
	interp.OpLe.Key():  true,
	interp.OpGe.Key():  true,
	interp.OpGt.Key():  true,
	interp.OpSub.Key(): true,
}

func (SameOperands) Run(prog *ir.Program, _ *eval.Results) []errors.Diagnostic {
	var diags []errors.Diagnostic
	ir.WalkExprs(prog.Body, func(e ir.Expr) {
		call, ok := e.(*ir.FunCall)
		if !ok || len(call.Args) != 2 || !flaggedOps[call.Op.Key()] {
			return
		}
		if !ir.ExprEqual(call.Args[0], call.Args[1]) {
			return
		}
		if _, literal := call.Args[0].(*ir.Lit); literal {
			return
		}
		diags = append(diags, diagAt(
			errors.NewDiagnostic(
				errors.KindSameOperands,
				fmt.Sprintf("left and right operands of %q are identical", call.Op.Key()),
			),
			prog, call,
		).WithGravity(errors.GravityHigh).Build())
	})
	return diags
}
