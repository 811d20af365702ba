package ir

import (
	"fmt"
	"strings"

	"adalyze/internal/interp"
	"adalyze/internal/types"
)

// Print renders a program back into its textual form. The output is meant
// for debugging and golden tests, not byte-for-byte round-tripping.
func Print(p *Program) string {
	var b strings.Builder
	fmt.Fprintf(&b, "program %s\n", p.Name)
	for _, v := range p.Vars {
		mode := ""
		if v.Mode != ModeLocal {
			mode = string(v.Mode) + " "
		}
		fmt.Fprintf(&b, "var %s%s : %s\n", mode, v.Name, TypeString(v.Type))
	}
	b.WriteString("{\n")
	printStmts(&b, p.Body, 1)
	b.WriteString("}\n")
	return b.String()
}

func printStmts(b *strings.Builder, stmts []Stmt, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, s := range stmts {
		switch node := s.(type) {
		case *LabelStmt:
			fmt.Fprintf(b, "%s%s:\n", indent, node.Name)
		case *ReadStmt:
			fmt.Fprintf(b, "%sread %s\n", indent, node.Target.Var.Name)
		case *AssignStmt:
			fmt.Fprintf(b, "%s%s := %s\n", indent, node.Target.Var.Name, ExprString(node.Value))
		case *AssumeStmt:
			if node.Purpose != nil {
				fmt.Fprintf(b, "%scheck %s %s\n", indent, node.Purpose, ExprString(node.Cond))
			} else {
				fmt.Fprintf(b, "%sassume %s\n", indent, ExprString(node.Cond))
			}
		case *SplitStmt:
			fmt.Fprintf(b, "%ssplit {\n", indent)
			for i, branch := range node.Branches {
				if i > 0 {
					fmt.Fprintf(b, "%s} or {\n", indent)
				}
				printStmts(b, branch, depth+1)
			}
			fmt.Fprintf(b, "%s}\n", indent)
		case *LoopStmt:
			fmt.Fprintf(b, "%sloop {\n", indent)
			printStmts(b, node.Body, depth+1)
			fmt.Fprintf(b, "%s}\n", indent)
		case *GotoStmt:
			fmt.Fprintf(b, "%sgoto %s\n", indent, node.Label)
		}
	}
}

// ExprString renders an expression.
func ExprString(e Expr) string {
	switch node := e.(type) {
	case *Identifier:
		return node.Var.Name
	case *Lit:
		return fmt.Sprint(node.Value)
	case *FunCall:
		args := make([]string, len(node.Args))
		for i, a := range node.Args {
			args[i] = ExprString(a)
		}
		if tag, ok := node.Op.(interp.Tag); ok && len(args) == 2 {
			switch tag {
			case interp.OpAdd, interp.OpSub, interp.OpLt, interp.OpLe, interp.OpEq,
				interp.OpNeq, interp.OpGe, interp.OpGt, interp.OpAnd, interp.OpOr:
				return fmt.Sprintf("(%s %s %s)", args[0], tag, args[1])
			}
		}
		return fmt.Sprintf("%s(%s)", node.Op.Key(), strings.Join(args, ", "))
	}
	return "?"
}

// TypeString renders a source type in the textual IR syntax.
func TypeString(t types.Type) string {
	switch tpe := t.(type) {
	case types.Boolean:
		return "bool"
	case types.ASCIICharacter:
		return "char"
	case types.RealRange:
		return "real"
	case types.DataStorage:
		return "mem"
	case types.UniversalInt, types.UniversalReal:
		return "universal"
	case types.IntRange:
		return fmt.Sprintf("int [%d, %d]", tpe.Frm, tpe.To)
	case types.Enum:
		return "enum {" + strings.Join(tpe.Lits, ", ") + "}"
	case types.Product:
		elems := make([]string, len(tpe.Elems))
		for i, e := range tpe.Elems {
			elems[i] = TypeString(e)
		}
		return "record (" + strings.Join(elems, ", ") + ")"
	case types.Array:
		indices := make([]string, len(tpe.Indices))
		for i, ix := range tpe.Indices {
			indices[i] = TypeString(ix)
		}
		return "array [" + strings.Join(indices, ", ") + "] of " + TypeString(tpe.Component)
	case types.Pointer:
		return "ptr " + TypeString(tpe.Elem)
	case types.Modeled:
		return "modeled (" + TypeString(tpe.Actual) + ", " + TypeString(tpe.Model) + ")"
	default:
		return "unknown"
	}
}
