package checkers

import (
	"fmt"

	"adalyze/internal/domains"
	"adalyze/internal/errors"
	"adalyze/internal/eval"
	"adalyze/internal/ir"
)

// Contracts reports contract conditions the analysis cannot discharge:
// preconditions, postconditions and assertions that may evaluate to false.
type Contracts struct{}

func (Contracts) Name() string { return "contracts" }

func (Contracts) Description() string {
	return "reports contract conditions that may not hold"
}

func (Contracts) Kinds() []errors.Kind {
	return []errors.Kind{errors.KindPrecondition, errors.KindPostcondition, errors.KindAssertion}
}

func (Contracts) Run(prog *ir.Program, res *eval.Results) []errors.Diagnostic {
	var diags []errors.Diagnostic
	ir.WalkStmts(prog.Body, func(s ir.Stmt) {
		assume, ok := s.(*ir.AssumeStmt)
		if !ok {
			return
		}
		contract, isContract := assume.Purpose.(ir.ContractCheck)
		if !isContract {
			return
		}
		mayFail, mustFail := conditionFailure(res, s, assume.Cond)
		if !mayFail {
			return
		}
		kind, noun := contractKind(contract.Kind)
		diags = append(diags, diagAt(
			errors.NewDiagnostic(kind, fmt.Sprintf("%s %s may not hold", noun, ir.ExprString(assume.Cond))),
			prog, assume,
		).Precise(mustFail && !res.Incomplete).Build())
	})
	return diags
}

func contractKind(kind ir.ContractKind) (errors.Kind, string) {
	switch kind {
	case ir.Precondition:
		return errors.KindPrecondition, "precondition"
	case ir.Postcondition:
		return errors.KindPostcondition, "postcondition"
	default:
		return errors.KindAssertion, "assertion"
	}
}

// conditionFailure evaluates a checked condition in every surviving trace:
// whether false is reachable, and whether the condition is false on every
// trace.
func conditionFailure(res *eval.Results, at ir.Stmt, cond ir.Expr) (mayFail, mustFail bool) {
	values := res.EvalAt(at, cond)
	mustFail = len(values) > 0
	for _, v := range values {
		b, ok := v.(domains.BoolElem)
		if !ok {
			mayFail = true
			mustFail = false
			continue
		}
		if b.HasFalse() {
			mayFail = true
		}
		if b != domains.BoolFalse {
			mustFail = false
		}
	}
	return mayFail, mayFail && mustFail
}
