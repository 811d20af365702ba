package checkers

import (
	"fmt"

	"adalyze/internal/errors"
	"adalyze/internal/eval"
	"adalyze/internal/ir"
)

// SameTest is a syntactic checker: it flags branch chains that test the
// same condition twice. The later branch is dead or the earlier one is
// wrong. It does not consult the analysis.
type SameTest struct{}

func (SameTest) Name() string { return "same-test" }

func (SameTest) Description() string {
	return "reports conditions tested twice in one branch chain"
}

func (SameTest) Kinds() []errors.Kind {
	return []errors.Kind{errors.KindDuplicateTest}
}

func (SameTest) Run(prog *ir.Program, _ *eval.Results) []errors.Diagnostic {
	var diags []errors.Diagnostic
	ir.WalkStmts(prog.Body, func(s ir.Stmt) {
		split, ok := s.(*ir.SplitStmt)
		if !ok {
			return
		}
		var conds []*ir.AssumeStmt
		for _, branch := range split.Branches {
			if len(branch) == 0 {
				continue
			}
			if assume, ok := branch[0].(*ir.AssumeStmt); ok {
				conds = append(conds, assume)
			}
		}
		for i := 0; i < len(conds); i++ {
			for j := i + 1; j < len(conds); j++ {
				if ir.ExprEqual(conds[i].Cond, conds[j].Cond) {
					diags = append(diags, diagAt(
						errors.NewDiagnostic(
							errors.KindDuplicateTest,
							fmt.Sprintf("condition %s already tested at line %d",
								ir.ExprString(conds[j].Cond), conds[i].P.Line),
						),
						prog, conds[j],
					).WithGravity(errors.GravityHigh).Build())
				}
			}
		}
	})
	return diags
}
