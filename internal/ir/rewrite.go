package ir

import "adalyze/internal/types"

// RewriteUniversalTypes replaces universal integer and real placeholder
// hints with concrete compatible types in a single pass over the tree. The
// concrete type comes from context when available (the expected parameter
// type of the enclosing call) and defaults to the language integer
// otherwise. On assignments where both sides stay universal, the target
// variable follows the chosen type.
func RewriteUniversalTypes(p *Program) {
	for _, s := range p.Body {
		rewriteStmt(s)
	}
	for _, v := range p.Vars {
		if types.IsUniversal(v.Type) {
			v.Type = types.DefaultInteger
		}
	}
}

func rewriteStmt(s Stmt) {
	switch node := s.(type) {
	case *AssignStmt:
		rewriteExpr(node.Value, node.Target.Var.Type)
		if types.IsUniversal(node.Target.Var.Type) {
			node.Target.Var.Type = concreteHint(node.Value.Hint())
		}
	case *AssumeStmt:
		rewriteExpr(node.Cond, types.Boolean{})
	case *SplitStmt:
		for _, branch := range node.Branches {
			for _, inner := range branch {
				rewriteStmt(inner)
			}
		}
	case *LoopStmt:
		for _, inner := range node.Body {
			rewriteStmt(inner)
		}
	}
}

// rewriteExpr rewrites universal hints below and at e. expected is the type
// the context requires of e, or nil when the context is itself universal.
func rewriteExpr(e Expr, expected types.Type) {
	switch node := e.(type) {
	case *Lit:
		if types.IsUniversal(node.Type) {
			node.Type = concreteOr(expected)
		}
	case *FunCall:
		for i, arg := range node.Args {
			var argExpected types.Type
			if i < len(node.ParamTypes) {
				argExpected = node.ParamTypes[i]
			}
			if argExpected == nil || types.IsUniversal(argExpected) {
				argExpected = siblingHint(node.Args, i)
			}
			rewriteExpr(arg, argExpected)
			if i < len(node.ParamTypes) && types.IsUniversal(node.ParamTypes[i]) {
				node.ParamTypes[i] = arg.Hint()
			}
		}
		if types.IsUniversal(node.Type) {
			if expected != nil && !types.IsUniversal(expected) {
				node.Type = expected
			} else if len(node.Args) > 0 {
				node.Type = concreteHint(node.Args[0].Hint())
			} else {
				node.Type = types.DefaultInteger
			}
		}
	}
}

// siblingHint finds a concrete hint among the other arguments of a call, the
// way a universal literal adopts the type of the operand it meets.
func siblingHint(args []Expr, skip int) types.Type {
	for i, a := range args {
		if i == skip {
			continue
		}
		if h := a.Hint(); h != nil && !types.IsUniversal(h) {
			return h
		}
	}
	return nil
}

func concreteOr(expected types.Type) types.Type {
	if expected != nil && !types.IsUniversal(expected) {
		return expected
	}
	return types.DefaultInteger
}

func concreteHint(t types.Type) types.Type {
	if t == nil || types.IsUniversal(t) {
		return types.DefaultInteger
	}
	return t
}
