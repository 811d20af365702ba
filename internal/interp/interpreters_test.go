package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adalyze/internal/domains"
	"adalyze/internal/types"
)

func TestBooleanInterpretation(t *testing.T) {
	ti, ok := BooleanInterpreter(types.Boolean{})
	require.True(t, ok)
	assert.Equal(t, "bool", ti.Domain.Name())

	lit, ok := ti.Lit(true)
	require.True(t, ok)
	assert.Equal(t, domains.Value(domains.BoolTrue), lit)

	provider := ti.ProviderBuilder(NoDefs)
	sig := NewSignature(OpAnd, []domains.Domain{domains.Bool, domains.Bool}, domains.Bool)
	def, ok := provider(sig)
	require.True(t, ok)
	assert.Equal(t, domains.Value(domains.BoolTrue), def.Fwd(domains.BoolTrue, domains.BoolTrue))
}

func TestIntRangeInterpretation(t *testing.T) {
	ti, ok := IntRangeInterpreter(types.IntRange{Frm: -20, To: 20})
	require.True(t, ok)
	assert.Equal(t, "int[-20,20]", ti.Domain.Name())

	provider := ti.ProviderBuilder(NoDefs)
	intDom := ti.Domain.(*domains.Intervals)
	sig := NewSignature(OpAdd, []domains.Domain{intDom, intDom}, intDom)
	def, ok := provider(sig)
	require.True(t, ok)
	assert.Equal(t, "[3, 7]", intDom.Str(def.Fwd(intDom.Range(1, 2), intDom.Range(2, 5))))

	relSig := NewSignature(OpLt, []domains.Domain{intDom, intDom}, domains.Bool)
	_, ok = provider(relSig)
	assert.True(t, ok, "comparisons come with the interpretation")
}

func TestCharInterpretationBuildsThroughCodePoints(t *testing.T) {
	chain := DefaultInterpreter()
	ti, ok := chain(types.ASCIICharacter{})
	require.True(t, ok)
	assert.Equal(t, "int[0,127]", ti.Domain.Name())

	lit, ok := ti.Lit('A')
	require.True(t, ok)
	assert.Equal(t, "[65, 65]", ti.Domain.Str(lit))
}

func TestEnumInterpretationPicksRepresentation(t *testing.T) {
	small, ok := EnumInterpreter(types.Enum{Lits: []string{"red", "green"}})
	require.True(t, ok)
	assert.Contains(t, small.Domain.Name(), "powerset", "small carriers use the powerset-named lattice")

	big, ok := EnumInterpreter(types.Enum{Lits: []string{"a", "b", "c", "d", "e", "f"}})
	require.True(t, ok)
	assert.Contains(t, big.Domain.Name(), "subsets", "large carriers use the direct subset lattice")

	lit, ok := small.Lit("red")
	require.True(t, ok)
	assert.False(t, small.Domain.IsEmpty(lit))
}

func TestRealAndUnknownFallBackToUniverse(t *testing.T) {
	chain := DefaultInterpreter()

	real, ok := chain(types.RealRange{})
	require.True(t, ok)
	assert.Equal(t, "universe", real.Domain.Name())

	unknown, ok := chain(types.Unknown{})
	require.True(t, ok)
	assert.Equal(t, "universe", unknown.Domain.Name())
}

func TestProductInterpretationSynthesizesEq(t *testing.T) {
	chain := DefaultInterpreter()
	recType := types.Product{Elems: []types.Type{
		types.IntRange{Frm: 1, To: 5},
		types.Enum{Lits: []string{"a", "b"}},
	}}
	ti, ok := chain(recType)
	require.True(t, ok)
	prodDom := ti.Domain.(*domains.Product)

	interps := []*TypeInterpretation{ti}
	for _, e := range recType.Elems {
		inner, ok := chain(e)
		require.True(t, ok)
		interps = append(interps, inner)
	}
	provider := BuildProvider(interps)

	eqSig := NewSignature(OpEq, []domains.Domain{prodDom, prodDom}, domains.Bool)
	def, ok := provider(eqSig)
	require.True(t, ok, "product equality is synthesized from component equality")

	ints := prodDom.Doms[0].(*domains.Intervals)
	enum := prodDom.Doms[1].(*domains.FiniteSubsets)
	l := prodDom.Make(ints.Range(2, 2), enum.Of("a"))
	assert.Equal(t, domains.Value(domains.BoolTrue), def.Fwd(l, l))

	r := prodDom.Make(ints.Range(3, 3), enum.Of("a"))
	assert.Equal(t, domains.Value(domains.BoolFalse), def.Fwd(l, r))

	getSig := NewSignature(GetName{Index: 1}, []domains.Domain{prodDom}, enum)
	getDef, ok := provider(getSig)
	require.True(t, ok)
	assert.Equal(t, "{a}", enum.Str(getDef.Fwd(l)))
}

func TestArrayInterpretationFlattensIndices(t *testing.T) {
	chain := DefaultInterpreter()
	arrType := types.Array{
		Indices:   []types.Type{types.IntRange{Frm: -10, To: 10}},
		Component: types.IntRange{Frm: -10, To: 10},
	}
	ti, ok := chain(arrType)
	require.True(t, ok)
	arrDom := ti.Domain.(*domains.SparseArray)
	idxDom := arrDom.IndexDom.(*domains.Product)
	intDom := idxDom.Doms[0].(*domains.Intervals)
	compDom := arrDom.ElemDom.(*domains.Intervals)

	provider := ti.ProviderBuilder(NoDefs)

	callSig := NewSignature(OpCall, []domains.Domain{arrDom, intDom}, compDom)
	getDef, ok := provider(callSig)
	require.True(t, ok, "array reads resolve through the call signature")

	updSig := NewSignature(OpUpdated, []domains.Domain{arrDom, compDom, intDom}, arrDom)
	updDef, ok := provider(updSig)
	require.True(t, ok)

	// The wrapper turns flattened index arguments into index tuples.
	updated := updDef.Fwd(arrDom.Top(), compDom.Range(5, 5), intDom.Range(3, 3))
	got := getDef.Fwd(updated, intDom.Range(3, 3))
	assert.Equal(t, "[5, 5]", compDom.Str(got))

	refined, ok := updDef.Bwd(arrDom.Top(), updated, compDom.Range(5, 5), intDom.Range(3, 3))
	require.True(t, ok, "array update is not refinable but stays feasible")
	assert.Len(t, refined, 3)
}

func TestRAMInterpretation(t *testing.T) {
	ti, ok := RAMInterpreter(types.DataStorage{})
	require.True(t, ok)
	assert.Equal(t, "memory", ti.Domain.Name())

	ints := domains.NewIntervals(0, 9)
	provider := ti.ProviderBuilder(NoDefs)

	updSig := NewSignature(UpdatedName{Index: 2}, []domains.Domain{domains.RAM, ints}, domains.RAM)
	updDef, ok := provider(updSig)
	require.True(t, ok)

	getSig := NewSignature(GetName{Index: 2}, []domains.Domain{domains.RAM}, ints)
	getDef, ok := provider(getSig)
	require.True(t, ok)

	mem := updDef.Fwd(domains.RAM.Top(), ints.Range(4, 4))
	assert.Equal(t, "[4, 4]", ints.Str(getDef.Fwd(mem)))

	eqSig := NewSignature(OpEq, []domains.Domain{domains.RAM, domains.RAM}, domains.Bool)
	eqDef, ok := provider(eqSig)
	require.True(t, ok)
	assert.Equal(t, domains.Value(domains.BoolBoth), eqDef.Fwd(mem, mem),
		"memory equality is trapped, not implemented")
}

func TestModeledInterpretationPromotesActualOps(t *testing.T) {
	chain := DefaultInterpreter()
	modType := types.Modeled{
		Actual: types.IntRange{Frm: 0, To: 10},
		Model:  types.Boolean{},
	}
	ti, ok := chain(modType)
	require.True(t, ok)
	dom := ti.Domain.(*domains.Product)

	lit, ok := ti.Lit(int64(4))
	require.True(t, ok)
	comps := dom.Tuple(lit)
	assert.Equal(t, "[4, 4]", dom.Doms[0].Str(comps[0]))
	assert.Equal(t, domains.Value(domains.BoolBoth), comps[1], "the ghost component pads with Top")

	provider := ti.ProviderBuilder(NoDefs)
	addSig := NewSignature(OpAdd, []domains.Domain{dom, dom}, dom)
	def, ok := provider(addSig)
	require.True(t, ok, "operations on the actual domain promote to the modeled product")

	l, _ := ti.Lit(int64(2))
	r, _ := ti.Lit(int64(3))
	res := dom.Tuple(def.Fwd(l, r))
	assert.Equal(t, "[5, 5]", dom.Doms[0].Str(res[0]))

	getModelSig := NewSignature(OpGetModel, []domains.Domain{dom}, domains.Bool)
	modelDef, ok := provider(getModelSig)
	require.True(t, ok)
	assert.Equal(t, domains.Value(domains.BoolBoth), modelDef.Fwd(lit))
}

func TestDefaultInterpreterMemoizes(t *testing.T) {
	chain := DefaultInterpreter()

	a, ok := chain(types.IntRange{Frm: 0, To: 7})
	require.True(t, ok)
	b, ok := chain(types.IntRange{Frm: 0, To: 7})
	require.True(t, ok)
	assert.Same(t, a, b, "identical types share one interpretation")

	nested, ok := chain(types.Array{
		Indices:   []types.Type{types.IntRange{Frm: 0, To: 7}},
		Component: types.Product{Elems: []types.Type{types.Boolean{}, types.IntRange{Frm: 0, To: 7}}},
	})
	require.True(t, ok, "the chain ties its own recursion for nested types")
	assert.IsType(t, &domains.SparseArray{}, nested.Domain)
}

func TestPointerInterpretation(t *testing.T) {
	chain := DefaultInterpreter()
	ptrType := types.Pointer{Elem: types.IntRange{Frm: 0, To: 9}}
	ti, ok := chain(ptrType)
	require.True(t, ok)
	ptrDom := ti.Domain.(*domains.Powerset)
	assert.Equal(t, "ptr(int[0,9])", ptrDom.Name())

	lit, ok := ti.Lit("null")
	require.True(t, ok)
	paths := ptrDom.Elems(lit)
	require.Len(t, paths, 1)
	assert.Equal(t, domains.Value(domains.NullPath{}), paths[0])

	provider := ti.ProviderBuilder(NoDefs)
	eqSig := NewSignature(OpEq, []domains.Domain{ptrDom, ptrDom}, domains.Bool)
	def, ok := provider(eqSig)
	require.True(t, ok)
	assert.Equal(t, domains.Value(domains.BoolTrue), def.Fwd(lit, lit))

	intDom := domains.NewIntervals(0, 9)
	derefSig := NewSignature(OpDeref, []domains.Domain{ptrDom, domains.RAM}, intDom)
	_, ok = provider(derefSig)
	assert.True(t, ok, "dereference resolves against the pointer domain")

	addrSig := NewSignature(VarName{Index: 0}, []domains.Domain{domains.RAM}, ptrDom)
	addrDef, ok := provider(addrSig)
	require.True(t, ok)
	addr := addrDef.Fwd(domains.RAM.Top())
	assert.Equal(t, "{&v0}", ptrDom.Str(addr))
}
