package ir

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"adalyze/internal/interp"
	"adalyze/internal/types"
)

// The textual IR (.air) is the serialized form of lowered procedures, used
// by test fixtures and the command line front door.

var airLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `//[^\n]*`, nil},

		// Character literals
		{"CharLit", `'[^']'`, nil},

		// Keywords and identifiers (order matters)
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Integer literals
		{"Integer", `[0-9]+`, nil},

		// Operators
		{"Operator", `(\|\||&&|==|!=|<=|>=|:=|[-+<>=!*&])`, nil},

		// Punctuation (must come after operators)
		{"Punctuation", `[{}[\]():,.;#]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

type airProgram struct {
	Pos    lexer.Position
	EndPos lexer.Position

	Name  string     `"program" @Ident`
	Decls []*airDecl `@@*`
	Body  []*airStmt `"{" @@* "}"`
}

type airDecl struct {
	Pos lexer.Position

	Mode      string   `"var" ( @"in" | @"out" )?`
	Name      string   `@Ident`
	Type      *airType `":" @@`
	Synthetic bool     `( @"synthetic" )?`
}

type airType struct {
	Int     *airIntType     `  @@`
	Enum    *airEnumType    `| @@`
	Record  *airRecordType  `| @@`
	Array   *airArrayType   `| @@`
	Ptr     *airPtrType     `| @@`
	Modeled *airModeledType `| @@`
	Simple  string          `| @("bool" | "char" | "real" | "mem" | "universal" | "unknown")`
}

type airIntType struct {
	Lo *airInt `"int" "[" @@ ","`
	Hi *airInt `@@ "]"`
}

type airInt struct {
	Neg    bool   `( @"-" )?`
	Digits string `@Integer`
}

type airEnumType struct {
	Lits []string `"enum" "{" @Ident { "," @Ident } "}"`
}

type airRecordType struct {
	Elems []*airType `"record" "(" @@ { "," @@ } ")"`
}

type airArrayType struct {
	Indices []*airType `"array" "[" @@ { "," @@ } "]"`
	Comp    *airType   `"of" @@`
}

type airPtrType struct {
	Elem *airType `"ptr" @@`
}

type airModeledType struct {
	Actual *airType `"modeled" "(" @@ ","`
	Model  *airType `@@ ")"`
}

type airStmt struct {
	Pos lexer.Position

	Label  *airLabel  `  @@`
	Read   *airRead   `| @@`
	Assume *airAssume `| @@`
	Check  *airCheck  `| @@`
	Split  *airSplit  `| @@`
	Loop   *airLoop   `| @@`
	Goto   *airGoto   `| @@`
	Assign *airAssign `| @@`
}

type airLabel struct {
	Name string `@Ident ":"`
}

type airRead struct {
	Name string `"read" @Ident`
}

type airAssume struct {
	Cond *airExpr `"assume" @@`
}

type airCheck struct {
	Kind  string   `"check" @("deref" | "pre" | "post" | "assert" | "exists")`
	Field string   `( "(" @Ident ")" )?`
	Cond  *airExpr `@@`
}

type airSplit struct {
	Branches []*airBlock `"split" @@ { "or" @@ }`
}

type airBlock struct {
	Stmts []*airStmt `"{" @@* "}"`
}

type airLoop struct {
	Body *airBlock `"loop" @@`
}

type airGoto struct {
	Label string `"goto" @Ident`
}

type airAssign struct {
	Deref  bool       `( @"*" )?`
	Target string     `@Ident`
	Index  []*airExpr `( "[" @@ { "," @@ } "]" )?`
	Field  *string    `( "." @Integer )?`
	Value  *airExpr   `":=" @@`
}

type airExpr struct {
	Pos lexer.Position

	Or *airOr `@@`
}

type airOr struct {
	Left *airAnd   `@@`
	Rest []*airAnd `{ "||" @@ }`
}

type airAnd struct {
	Left *airCmp   `@@`
	Rest []*airCmp `{ "&&" @@ }`
}

type airCmp struct {
	Left  *airSum `@@`
	Op    string  `( @("==" | "!=" | "<=" | ">=" | "<" | ">")`
	Right *airSum `@@ )?`
}

type airSum struct {
	Left *airUnary   `@@`
	Rest []*airSumOp `{ @@ }`
}

type airSumOp struct {
	Op    string    `@("+" | "-")`
	Right *airUnary `@@`
}

type airUnary struct {
	Pos lexer.Position

	Op    string      `( @("!" | "-" | "*" | "&") )?`
	Value *airPostfix `@@`
}

type airPostfix struct {
	Primary  *airPrimary  `@@`
	Suffixes []*airSuffix `{ @@ }`
}

type airSuffix struct {
	Index []*airExpr `  "[" @@ { "," @@ } "]"`
	Field *string    `| "." @Integer`
}

type airPrimary struct {
	Pos lexer.Position

	Number  *string  `  @Integer`
	CharLit *string  `| @CharLit`
	EnumTag *string  `| "#" @Ident`
	Paren   *airExpr `| "(" @@ ")"`
	Ident   *string  `| @Ident`
}

var airParser = participle.MustBuild[airProgram](
	participle.Lexer(airLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)

// ParseFile reads and parses a textual IR file.
func ParseFile(path string) (*Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseSource(path, string(source))
}

// ParseSource parses a textual IR program and converts it into the IR tree.
func ParseSource(path, source string) (*Program, error) {
	parsed, err := airParser.ParseString(path, source)
	if err != nil {
		return nil, err
	}
	return convert(path, parsed)
}

type converter struct {
	file string
	prog *Program
	vars map[string]*Variable
	mem  *Variable
}

func convert(path string, parsed *airProgram) (*Program, error) {
	c := &converter{
		file: path,
		vars: make(map[string]*Variable),
	}
	c.prog = &Program{
		Name:   parsed.Name,
		File:   path,
		Pos:    pos(parsed.Pos),
		EndPos: pos(parsed.EndPos),
	}
	for _, decl := range parsed.Decls {
		tpe, err := c.convertType(decl.Type)
		if err != nil {
			return nil, err
		}
		if _, dup := c.vars[decl.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate variable %q", c.file, decl.Name)
		}
		mode := ModeLocal
		if decl.Mode != "" {
			mode = Mode(decl.Mode)
		}
		v := &Variable{
			Name:  decl.Name,
			Type:  tpe,
			Mode:  mode,
			Index: len(c.prog.Vars),
			Pos:   pos(decl.Pos),
		}
		if decl.Synthetic {
			v.Purpose = Synthetic{}
		}
		c.vars[decl.Name] = v
		c.prog.Vars = append(c.prog.Vars, v)
		if _, isMem := tpe.(types.DataStorage); isMem && c.mem == nil {
			c.mem = v
		}
	}
	body, err := c.convertStmts(parsed.Body)
	if err != nil {
		return nil, err
	}
	c.prog.Body = body
	if err := c.checkLabels(body, c.collectLabels(body)); err != nil {
		return nil, err
	}
	return c.prog, nil
}

func pos(p lexer.Position) Position {
	return Position{Line: p.Line, Column: p.Column}
}

func (c *converter) convertType(t *airType) (types.Type, error) {
	switch {
	case t.Int != nil:
		lo, err := t.Int.Lo.value()
		if err != nil {
			return nil, err
		}
		hi, err := t.Int.Hi.value()
		if err != nil {
			return nil, err
		}
		return types.IntRange{Frm: lo, To: hi}, nil
	case t.Enum != nil:
		return types.Enum{Lits: t.Enum.Lits}, nil
	case t.Record != nil:
		elems := make([]types.Type, len(t.Record.Elems))
		for i, e := range t.Record.Elems {
			tpe, err := c.convertType(e)
			if err != nil {
				return nil, err
			}
			elems[i] = tpe
		}
		return types.Product{Elems: elems}, nil
	case t.Array != nil:
		indices := make([]types.Type, len(t.Array.Indices))
		for i, ix := range t.Array.Indices {
			tpe, err := c.convertType(ix)
			if err != nil {
				return nil, err
			}
			indices[i] = tpe
		}
		comp, err := c.convertType(t.Array.Comp)
		if err != nil {
			return nil, err
		}
		return types.Array{Indices: indices, Component: comp}, nil
	case t.Ptr != nil:
		elem, err := c.convertType(t.Ptr.Elem)
		if err != nil {
			return nil, err
		}
		return types.Pointer{Elem: elem}, nil
	case t.Modeled != nil:
		actual, err := c.convertType(t.Modeled.Actual)
		if err != nil {
			return nil, err
		}
		model, err := c.convertType(t.Modeled.Model)
		if err != nil {
			return nil, err
		}
		return types.Modeled{Actual: actual, Model: model}, nil
	}
	switch t.Simple {
	case "bool":
		return types.Boolean{}, nil
	case "char":
		return types.ASCIICharacter{}, nil
	case "real":
		return types.RealRange{}, nil
	case "mem":
		return types.DataStorage{}, nil
	case "universal":
		return types.UniversalInt{}, nil
	default:
		return types.Unknown{}, nil
	}
}

func (n *airInt) value() (int64, error) {
	v, err := strconv.ParseInt(n.Digits, 10, 64)
	if err != nil {
		return 0, err
	}
	if n.Neg {
		return -v, nil
	}
	return v, nil
}

func (c *converter) convertStmts(stmts []*airStmt) ([]Stmt, error) {
	out := make([]Stmt, 0, len(stmts))
	for _, s := range stmts {
		converted, err := c.convertStmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func (c *converter) convertStmt(s *airStmt) (Stmt, error) {
	at := pos(s.Pos)
	switch {
	case s.Label != nil:
		return &LabelStmt{Name: s.Label.Name, P: at}, nil
	case s.Read != nil:
		target, err := c.ident(s.Read.Name, at)
		if err != nil {
			return nil, err
		}
		return &ReadStmt{Target: target, P: at}, nil
	case s.Assume != nil:
		cond, err := c.convertExpr(s.Assume.Cond)
		if err != nil {
			return nil, err
		}
		return &AssumeStmt{Cond: cond, P: at}, nil
	case s.Check != nil:
		cond, err := c.convertExpr(s.Check.Cond)
		if err != nil {
			return nil, err
		}
		var purpose Purpose
		switch s.Check.Kind {
		case "deref":
			purpose = DerefCheck{}
		case "exists":
			purpose = ExistCheck{Field: s.Check.Field}
		default:
			purpose = ContractCheck{Kind: ContractKind(s.Check.Kind)}
		}
		return &AssumeStmt{Cond: cond, Purpose: purpose, P: at}, nil
	case s.Split != nil:
		branches := make([][]Stmt, len(s.Split.Branches))
		for i, b := range s.Split.Branches {
			converted, err := c.convertStmts(b.Stmts)
			if err != nil {
				return nil, err
			}
			branches[i] = converted
		}
		return &SplitStmt{Branches: branches, P: at}, nil
	case s.Loop != nil:
		body, err := c.convertStmts(s.Loop.Body.Stmts)
		if err != nil {
			return nil, err
		}
		return &LoopStmt{Body: body, P: at}, nil
	case s.Goto != nil:
		return &GotoStmt{Label: s.Goto.Label, P: at}, nil
	case s.Assign != nil:
		return c.convertAssign(s.Assign, at)
	}
	return nil, fmt.Errorf("%s:%d:%d: unrecognized statement", c.file, at.Line, at.Column)
}

func (c *converter) convertAssign(a *airAssign, at Position) (Stmt, error) {
	value, err := c.convertExpr(a.Value)
	if err != nil {
		return nil, err
	}

	if a.Deref {
		// *p := v writes through the pointer into memory.
		if c.mem == nil {
			return nil, fmt.Errorf("%s:%d:%d: pointer store requires a mem variable", c.file, at.Line, at.Column)
		}
		ptr, err := c.ident(a.Target, at)
		if err != nil {
			return nil, err
		}
		memRef := &Identifier{Var: c.mem, P: at}
		call := &FunCall{
			Op:   interp.OpUpdated,
			Args: []Expr{memRef, ptr, value},
			Type: c.mem.Type,
			P:    at,
		}
		return &AssignStmt{Target: &Identifier{Var: c.mem, P: at}, Value: call, P: at}, nil
	}

	target, err := c.ident(a.Target, at)
	if err != nil {
		return nil, err
	}

	switch {
	case len(a.Index) > 0:
		arrType, ok := target.Var.Type.(types.Array)
		if !ok {
			return nil, fmt.Errorf("%s:%d:%d: %q is not an array", c.file, at.Line, at.Column, a.Target)
		}
		indices, err := c.convertIndexArgs(a.Index, arrType.Indices)
		if err != nil {
			return nil, err
		}
		c.adoptHint(value, arrType.Component)
		call := &FunCall{
			Op:         interp.OpUpdated,
			Args:       append([]Expr{target, value}, indices...),
			Type:       target.Var.Type,
			ParamTypes: append([]types.Type{target.Var.Type, arrType.Component}, arrType.Indices...),
			P:          at,
		}
		return &AssignStmt{Target: &Identifier{Var: target.Var, P: at}, Value: call, P: at}, nil

	case a.Field != nil:
		idx, err := strconv.Atoi(*a.Field)
		if err != nil {
			return nil, err
		}
		prodType, ok := target.Var.Type.(types.Product)
		if !ok || idx >= len(prodType.Elems) {
			return nil, fmt.Errorf("%s:%d:%d: %q has no component %d", c.file, at.Line, at.Column, a.Target, idx)
		}
		c.adoptHint(value, prodType.Elems[idx])
		call := &FunCall{
			Op:         interp.UpdatedName{Index: idx},
			Args:       []Expr{target, value},
			Type:       target.Var.Type,
			ParamTypes: []types.Type{target.Var.Type, prodType.Elems[idx]},
			P:          at,
		}
		return &AssignStmt{Target: &Identifier{Var: target.Var, P: at}, Value: call, P: at}, nil

	default:
		c.adoptHint(value, target.Var.Type)
		return &AssignStmt{Target: target, Value: value, P: at}, nil
	}
}

func (c *converter) ident(name string, at Position) (*Identifier, error) {
	v, ok := c.vars[name]
	if !ok {
		return nil, fmt.Errorf("%s:%d:%d: undefined variable %q", c.file, at.Line, at.Column, name)
	}
	return &Identifier{Var: v, P: at}, nil
}

// adoptHint fixes the type hint of literals whose type the grammar cannot
// know locally (null, enum tags, universal integers in typed positions).
func (c *converter) adoptHint(e Expr, tpe types.Type) {
	lit, ok := e.(*Lit)
	if !ok {
		return
	}
	switch lit.Type.(type) {
	case types.Unknown:
		lit.Type = tpe
	case types.UniversalInt:
		if _, universal := tpe.(types.UniversalInt); !universal {
			if _, unknown := tpe.(types.Unknown); !unknown {
				lit.Type = tpe
			}
		}
	}
}

func (c *converter) convertIndexArgs(args []*airExpr, indexTypes []types.Type) ([]Expr, error) {
	if len(args) != len(indexTypes) {
		return nil, fmt.Errorf("%s: expected %d indices, got %d", c.file, len(indexTypes), len(args))
	}
	out := make([]Expr, len(args))
	for i, a := range args {
		e, err := c.convertExpr(a)
		if err != nil {
			return nil, err
		}
		c.adoptHint(e, indexTypes[i])
		out[i] = e
	}
	return out, nil
}

func (c *converter) convertExpr(e *airExpr) (Expr, error) {
	return c.convertOr(e.Or, pos(e.Pos))
}

func (c *converter) convertOr(e *airOr, at Position) (Expr, error) {
	left, err := c.convertAnd(e.Left, at)
	if err != nil {
		return nil, err
	}
	for _, r := range e.Rest {
		right, err := c.convertAnd(r, at)
		if err != nil {
			return nil, err
		}
		left = c.boolCall(interp.OpOr, left, right, at)
	}
	return left, nil
}

func (c *converter) convertAnd(e *airAnd, at Position) (Expr, error) {
	left, err := c.convertCmp(e.Left, at)
	if err != nil {
		return nil, err
	}
	for _, r := range e.Rest {
		right, err := c.convertCmp(r, at)
		if err != nil {
			return nil, err
		}
		left = c.boolCall(interp.OpAnd, left, right, at)
	}
	return left, nil
}

func (c *converter) boolCall(op interp.Tag, left, right Expr, at Position) Expr {
	return &FunCall{
		Op:         op,
		Args:       []Expr{left, right},
		Type:       types.Boolean{},
		ParamTypes: []types.Type{types.Boolean{}, types.Boolean{}},
		P:          at,
	}
}

var cmpOps = map[string]interp.Tag{
	"==": interp.OpEq,
	"!=": interp.OpNeq,
	"<":  interp.OpLt,
	"<=": interp.OpLe,
	">":  interp.OpGt,
	">=": interp.OpGe,
}

func (c *converter) convertCmp(e *airCmp, at Position) (Expr, error) {
	left, err := c.convertSum(e.Left, at)
	if err != nil {
		return nil, err
	}
	if e.Op == "" {
		return left, nil
	}
	right, err := c.convertSum(e.Right, at)
	if err != nil {
		return nil, err
	}
	// Literals on one side adopt the type of the other.
	c.adoptHint(left, right.Hint())
	c.adoptHint(right, left.Hint())
	operand := pickOperandType(left.Hint(), right.Hint())
	return &FunCall{
		Op:         cmpOps[e.Op],
		Args:       []Expr{left, right},
		Type:       types.Boolean{},
		ParamTypes: []types.Type{operand, operand},
		P:          at,
	}, nil
}

// pickOperandType prefers the concrete operand type over universal
// placeholders.
func pickOperandType(l, r types.Type) types.Type {
	if types.IsUniversal(l) {
		return r
	}
	return l
}

func (c *converter) convertSum(e *airSum, at Position) (Expr, error) {
	left, err := c.convertUnary(e.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range e.Rest {
		right, err := c.convertUnary(r.Right)
		if err != nil {
			return nil, err
		}
		c.adoptHint(left, right.Hint())
		c.adoptHint(right, left.Hint())
		operand := pickOperandType(left.Hint(), right.Hint())
		op := interp.OpAdd
		if r.Op == "-" {
			op = interp.OpSub
		}
		left = &FunCall{
			Op:         op,
			Args:       []Expr{left, right},
			Type:       operand,
			ParamTypes: []types.Type{operand, operand},
			P:          at,
		}
	}
	return left, nil
}

func (c *converter) convertUnary(e *airUnary) (Expr, error) {
	at := pos(e.Pos)
	value, err := c.convertPostfix(e.Value, at)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "":
		return value, nil
	case "!":
		return &FunCall{
			Op:         interp.OpNot,
			Args:       []Expr{value},
			Type:       types.Boolean{},
			ParamTypes: []types.Type{types.Boolean{}},
			P:          at,
		}, nil
	case "-":
		return &FunCall{
			Op:         interp.OpNeg,
			Args:       []Expr{value},
			Type:       value.Hint(),
			ParamTypes: []types.Type{value.Hint()},
			P:          at,
		}, nil
	case "*":
		ptrType, ok := value.Hint().(types.Pointer)
		if !ok {
			return nil, fmt.Errorf("%s:%d:%d: dereference of a non-pointer", c.file, at.Line, at.Column)
		}
		args := []Expr{value}
		paramTypes := []types.Type{value.Hint()}
		if c.mem != nil {
			args = append(args, &Identifier{Var: c.mem, P: at})
			paramTypes = append(paramTypes, c.mem.Type)
		}
		return &FunCall{
			Op:         interp.OpDeref,
			Args:       args,
			Type:       ptrType.Elem,
			ParamTypes: paramTypes,
			P:          at,
		}, nil
	case "&":
		id, ok := value.(*Identifier)
		if !ok {
			return nil, fmt.Errorf("%s:%d:%d: address of a non-variable", c.file, at.Line, at.Column)
		}
		args := []Expr{}
		paramTypes := []types.Type{}
		if c.mem != nil {
			args = append(args, &Identifier{Var: c.mem, P: at})
			paramTypes = append(paramTypes, c.mem.Type)
		}
		return &FunCall{
			Op:         interp.VarName{Index: id.Var.Index},
			Args:       args,
			Type:       types.Pointer{Elem: id.Var.Type},
			ParamTypes: paramTypes,
			P:          at,
		}, nil
	}
	return nil, fmt.Errorf("%s:%d:%d: unrecognized unary operator %q", c.file, at.Line, at.Column, e.Op)
}

func (c *converter) convertPostfix(e *airPostfix, at Position) (Expr, error) {
	expr, err := c.convertPrimary(e.Primary)
	if err != nil {
		return nil, err
	}
	for _, suffix := range e.Suffixes {
		switch {
		case len(suffix.Index) > 0:
			arrType, ok := expr.Hint().(types.Array)
			if !ok {
				return nil, fmt.Errorf("%s:%d:%d: indexing a non-array", c.file, at.Line, at.Column)
			}
			indices, err := c.convertIndexArgs(suffix.Index, arrType.Indices)
			if err != nil {
				return nil, err
			}
			expr = &FunCall{
				Op:         interp.OpCall,
				Args:       append([]Expr{expr}, indices...),
				Type:       arrType.Component,
				ParamTypes: append([]types.Type{expr.Hint()}, arrType.Indices...),
				P:          at,
			}
		case suffix.Field != nil:
			idx, err := strconv.Atoi(*suffix.Field)
			if err != nil {
				return nil, err
			}
			prodType, ok := expr.Hint().(types.Product)
			if !ok || idx >= len(prodType.Elems) {
				return nil, fmt.Errorf("%s:%d:%d: no component %d", c.file, at.Line, at.Column, idx)
			}
			expr = &FunCall{
				Op:         interp.GetName{Index: idx},
				Args:       []Expr{expr},
				Type:       prodType.Elems[idx],
				ParamTypes: []types.Type{expr.Hint()},
				P:          at,
			}
		}
	}
	return expr, nil
}

func (c *converter) convertPrimary(e *airPrimary) (Expr, error) {
	at := pos(e.Pos)
	switch {
	case e.Number != nil:
		v, err := strconv.ParseInt(*e.Number, 10, 64)
		if err != nil {
			return nil, err
		}
		return &Lit{Value: v, Type: types.UniversalInt{}, P: at}, nil
	case e.CharLit != nil:
		return &Lit{Value: rune((*e.CharLit)[1]), Type: types.ASCIICharacter{}, P: at}, nil
	case e.EnumTag != nil:
		return &Lit{Value: *e.EnumTag, Type: types.Unknown{}, P: at}, nil
	case e.Paren != nil:
		return c.convertExpr(e.Paren)
	case e.Ident != nil:
		switch *e.Ident {
		case "true":
			return &Lit{Value: true, Type: types.Boolean{}, P: at}, nil
		case "false":
			return &Lit{Value: false, Type: types.Boolean{}, P: at}, nil
		case "null":
			return &Lit{Value: "null", Type: types.Unknown{}, P: at}, nil
		}
		return c.ident(*e.Ident, at)
	}
	return nil, fmt.Errorf("%s:%d:%d: unrecognized expression", c.file, at.Line, at.Column)
}

func (c *converter) collectLabels(stmts []Stmt) map[string]bool {
	labels := make(map[string]bool)
	var walk func([]Stmt)
	walk = func(body []Stmt) {
		for _, s := range body {
			switch node := s.(type) {
			case *LabelStmt:
				labels[node.Name] = true
			case *SplitStmt:
				for _, b := range node.Branches {
					walk(b)
				}
			case *LoopStmt:
				walk(node.Body)
			}
		}
	}
	walk(stmts)
	return labels
}

func (c *converter) checkLabels(stmts []Stmt, labels map[string]bool) error {
	var check func([]Stmt) error
	check = func(body []Stmt) error {
		for _, s := range body {
			switch node := s.(type) {
			case *GotoStmt:
				if !labels[node.Label] {
					return fmt.Errorf("%s:%d:%d: goto to undefined label %q",
						c.file, node.P.Line, node.P.Column, node.Label)
				}
			case *SplitStmt:
				for _, b := range node.Branches {
					if err := check(b); err != nil {
						return err
					}
				}
			case *LoopStmt:
				if err := check(node.Body); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return check(stmts)
}
