// Package checkers implements the property checkers that query analysis
// results and report diagnostics. Semantic checkers read the evaluator's
// per-trace environments; syntactic checkers inspect the IR directly and
// ignore the analysis.
package checkers

import (
	"adalyze/internal/errors"
	"adalyze/internal/eval"
	"adalyze/internal/ir"
)

// Checker is one property checker.
type Checker interface {
	Name() string
	Description() string
	Kinds() []errors.Kind
	Run(prog *ir.Program, res *eval.Results) []errors.Diagnostic
}

// All returns the registered checkers in reporting order.
func All() []Checker {
	return []Checker{
		NullDeref{},
		Contracts{},
		FieldExistence{},
		SameOperands{},
		SameTest{},
	}
}

// ByName finds a registered checker.
func ByName(name string) (Checker, bool) {
	for _, c := range All() {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

func position(p ir.Position) errors.Position {
	return errors.Position{Line: p.Line, Column: p.Column}
}

// diagAt fills the location fields shared by every finding on a node.
func diagAt(b *errors.DiagnosticBuilder, prog *ir.Program, node ir.Node) *errors.DiagnosticBuilder {
	return b.
		At(prog.File, position(node.NodePos()), position(node.NodePos())).
		InProc(prog.Name, position(prog.Pos), position(prog.EndPos))
}
