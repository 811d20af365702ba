package checkers

import (
	"fmt"

	"adalyze/internal/errors"
	"adalyze/internal/eval"
	"adalyze/internal/ir"
)

// FieldExistence reports accesses to variant fields whose discriminant test
// may fail: the accessed field may not exist in the value's current
// variant.
type FieldExistence struct{}

func (FieldExistence) Name() string { return "field-existence" }

func (FieldExistence) Description() string {
	return "reports variant field accesses that may not exist"
}

func (FieldExistence) Kinds() []errors.Kind {
	return []errors.Kind{errors.KindFieldExistence}
}

func (FieldExistence) Run(prog *ir.Program, res *eval.Results) []errors.Diagnostic {
	var diags []errors.Diagnostic
	ir.WalkStmts(prog.Body, func(s ir.Stmt) {
		assume, ok := s.(*ir.AssumeStmt)
		if !ok {
			return
		}
		exist, isExist := assume.Purpose.(ir.ExistCheck)
		if !isExist {
			return
		}
		mayFail, mustFail := conditionFailure(res, s, assume.Cond)
		if !mayFail {
			return
		}
		diags = append(diags, diagAt(
			errors.NewDiagnostic(
				errors.KindFieldExistence,
				fmt.Sprintf("field %s may not exist for this variant", exist.Field),
			),
			prog, assume,
		).Precise(mustFail && !res.Incomplete).Build())
	})
	return diags
}
