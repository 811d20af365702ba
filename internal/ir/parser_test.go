package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adalyze/internal/interp"
	"adalyze/internal/types"
)

func parseForTest(t *testing.T, source string) *Program {
	t.Helper()
	prog, err := ParseSource("test.air", source)
	require.NoError(t, err)
	return prog
}

func TestParseDeclarations(t *testing.T) {
	prog := parseForTest(t, `
program demo
var x : int [-20, 20]
var b : bool
var c : enum {red, green, blue}
var r : record (int [0, 5], bool)
var a : array [int [-10, 10]] of int [0, 9]
var p : ptr int [0, 9]
var m : mem
{
}
`)
	assert.Equal(t, "demo", prog.Name)
	require.Len(t, prog.Vars, 7)

	assert.Equal(t, types.IntRange{Frm: -20, To: 20}, prog.Vars[0].Type)
	assert.Equal(t, types.Boolean{}, prog.Vars[1].Type)
	assert.Equal(t, types.Enum{Lits: []string{"red", "green", "blue"}}, prog.Vars[2].Type)
	assert.Equal(t, types.Product{Elems: []types.Type{
		types.IntRange{Frm: 0, To: 5}, types.Boolean{},
	}}, prog.Vars[3].Type)
	assert.Equal(t, types.Array{
		Indices:   []types.Type{types.IntRange{Frm: -10, To: 10}},
		Component: types.IntRange{Frm: 0, To: 9},
	}, prog.Vars[4].Type)
	assert.Equal(t, types.Pointer{Elem: types.IntRange{Frm: 0, To: 9}}, prog.Vars[5].Type)
	assert.Equal(t, types.DataStorage{}, prog.Vars[6].Type)

	for i, v := range prog.Vars {
		assert.Equal(t, i, v.Index, "slots follow declaration order")
	}
}

func TestParseStatements(t *testing.T) {
	prog := parseForTest(t, `
program demo
var x : int [0, 10]
var y : int [0, 10]
{
  read x
  assume x >= 2
  y := x + 1
  split {
    assume x == 2
  } or {
    assume x != 2
  }
  loop {
    y := y - 1
  }
  again:
  goto again
}
`)
	require.Len(t, prog.Body, 7)

	assert.IsType(t, &ReadStmt{}, prog.Body[0])
	assume := prog.Body[1].(*AssumeStmt)
	assert.Nil(t, assume.Purpose)

	assign := prog.Body[2].(*AssignStmt)
	assert.Equal(t, "y", assign.Target.Var.Name)
	call := assign.Value.(*FunCall)
	assert.Equal(t, interp.OpAdd, call.Op)
	require.Len(t, call.Args, 2)

	split := prog.Body[3].(*SplitStmt)
	require.Len(t, split.Branches, 2)

	loop := prog.Body[4].(*LoopStmt)
	require.Len(t, loop.Body, 1)

	assert.IsType(t, &LabelStmt{}, prog.Body[5])
	assert.IsType(t, &GotoStmt{}, prog.Body[6])
}

func TestParseChecks(t *testing.T) {
	prog := parseForTest(t, `
program demo
var p : ptr int [0, 9]
var x : int [0, 9]
{
  check deref p != null
  check pre x >= 1
  check post x <= 8
  check assert x == 4
  check exists(tag) x != 0
}
`)
	require.Len(t, prog.Body, 5)
	assert.Equal(t, DerefCheck{}, prog.Body[0].(*AssumeStmt).Purpose)
	assert.Equal(t, ContractCheck{Kind: Precondition}, prog.Body[1].(*AssumeStmt).Purpose)
	assert.Equal(t, ContractCheck{Kind: Postcondition}, prog.Body[2].(*AssumeStmt).Purpose)
	assert.Equal(t, ContractCheck{Kind: Assertion}, prog.Body[3].(*AssumeStmt).Purpose)
	assert.Equal(t, ExistCheck{Field: "tag"}, prog.Body[4].(*AssumeStmt).Purpose)
}

func TestParseLiteralHints(t *testing.T) {
	prog := parseForTest(t, `
program demo
var c : enum {red, green}
var p : ptr bool
{
  assume c == #red
  assume p != null
}
`)
	eq := prog.Body[0].(*AssumeStmt).Cond.(*FunCall)
	lit := eq.Args[1].(*Lit)
	assert.Equal(t, "red", lit.Value)
	assert.Equal(t, prog.Vars[0].Type, lit.Type, "enum tags adopt the sibling's type")

	neq := prog.Body[1].(*AssumeStmt).Cond.(*FunCall)
	nullLit := neq.Args[1].(*Lit)
	assert.Equal(t, prog.Vars[1].Type, nullLit.Type, "null adopts the pointer type")
}

func TestParseArrayAndFieldSugar(t *testing.T) {
	prog := parseForTest(t, `
program demo
var a : array [int [0, 9]] of int [0, 9]
var r : record (int [0, 5], bool)
var x : int [0, 9]
{
  a[2] := 7
  x := a[2]
  r.0 := 3
  x := r.0
}
`)
	arrUpd := prog.Body[0].(*AssignStmt)
	assert.Equal(t, "a", arrUpd.Target.Var.Name)
	updCall := arrUpd.Value.(*FunCall)
	assert.Equal(t, interp.OpUpdated, updCall.Op)
	require.Len(t, updCall.Args, 3)

	arrGet := prog.Body[1].(*AssignStmt).Value.(*FunCall)
	assert.Equal(t, interp.OpCall, arrGet.Op)

	fieldUpd := prog.Body[2].(*AssignStmt).Value.(*FunCall)
	assert.Equal(t, interp.UpdatedName{Index: 0}, fieldUpd.Op)

	fieldGet := prog.Body[3].(*AssignStmt).Value.(*FunCall)
	assert.Equal(t, interp.GetName{Index: 0}, fieldGet.Op)
	assert.Equal(t, types.IntRange{Frm: 0, To: 5}, fieldGet.Type)
}

func TestParseErrors(t *testing.T) {
	_, err := ParseSource("bad.air", `
program demo
var x : int [0, 9]
{
  y := 1
}
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined variable")

	_, err = ParseSource("bad.air", `
program demo
var x : int [0, 9]
{
  goto nowhere
}
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined label")
}

func TestPrintRoundTrips(t *testing.T) {
	source := `
program demo
var x : int [0, 10]
{
  read x
  assume x >= 2
  x := x + 1
}
`
	prog := parseForTest(t, source)
	printed := Print(prog)

	again, err := ParseSource("printed.air", printed)
	require.NoError(t, err)
	assert.Equal(t, Print(again), printed, "printing is stable")
}
