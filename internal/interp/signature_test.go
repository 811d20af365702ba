package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adalyze/internal/domainops"
	"adalyze/internal/domains"
)

func TestSignatureKeyEquality(t *testing.T) {
	ints := domains.NewIntervals(0, 10)
	sameInts := domains.NewIntervals(0, 10)
	otherInts := domains.NewIntervals(0, 20)

	a := NewSignature(OpAdd, []domains.Domain{ints, ints}, ints)
	b := NewSignature(OpAdd, []domains.Domain{sameInts, sameInts}, sameInts)
	c := NewSignature(OpAdd, []domains.Domain{otherInts, otherInts}, otherInts)
	d := NewSignature(OpSub, []domains.Domain{ints, ints}, ints)

	assert.Equal(t, a.Key(), b.Key(), "structurally equal signatures share a key")
	assert.NotEqual(t, a.Key(), c.Key(), "different bounds are different domains")
	assert.NotEqual(t, a.Key(), d.Key(), "the operator name is part of the key")
}

func TestSignatureKeyParameterizedNames(t *testing.T) {
	ints := domains.NewIntervals(0, 10)
	prod := domains.NewProduct(ints, ints)

	get0 := NewSignature(GetName{Index: 0}, []domains.Domain{prod}, ints)
	get1 := NewSignature(GetName{Index: 1}, []domains.Domain{prod}, ints)
	assert.NotEqual(t, get0.Key(), get1.Key(), "the field index distinguishes accessors")
}

func TestSignatureContainsAndSubstituted(t *testing.T) {
	ints := domains.NewIntervals(0, 10)
	boolDom := domains.Bool
	wide := domains.NewIntervals(-100, 100)

	sig := NewSignature(OpLt, []domains.Domain{ints, ints}, boolDom)
	assert.True(t, sig.Contains(ints))
	assert.True(t, sig.Contains(boolDom))
	assert.False(t, sig.Contains(wide))

	swapped := sig.Substituted(ints, wide)
	assert.True(t, swapped.Contains(wide))
	assert.False(t, swapped.Contains(ints))
	assert.Equal(t, boolDom.Name(), swapped.Output.Name(), "untouched domains survive")
}

func TestSignatureOutParamsInKey(t *testing.T) {
	ints := domains.NewIntervals(0, 10)
	plain := NewSignature(Tag("read"), []domains.Domain{ints}, nil)
	out := Signature{Name: Tag("read"), Inputs: []domains.Domain{ints}, OutParams: []int{0}}
	assert.NotEqual(t, plain.Key(), out.Key(), "out parameters are part of the identity")
}

func TestDictProviderLookup(t *testing.T) {
	ints := domains.NewIntervals(0, 10)
	sig := NewSignature(OpAdd, []domains.Domain{ints, ints}, ints)
	add := domainops.IntervalAdd(ints)

	provider := DictProvider(map[string]Def{
		sig.Key(): {Fwd: add, Bwd: domainops.InvIntervalAdd(ints)},
	})

	def, ok := provider(sig)
	require.True(t, ok)
	got := def.Fwd(ints.Range(1, 2), ints.Range(3, 4))
	assert.Equal(t, "[4, 6]", ints.Str(got))

	_, ok = provider(NewSignature(OpSub, []domains.Domain{ints, ints}, ints))
	assert.False(t, ok)
}

func TestProviderAlternation(t *testing.T) {
	ints := domains.NewIntervals(0, 10)
	addSig := NewSignature(OpAdd, []domains.Domain{ints, ints}, ints)
	subSig := NewSignature(OpSub, []domains.Domain{ints, ints}, ints)

	adds := DictProvider(map[string]Def{addSig.Key(): {Fwd: domainops.IntervalAdd(ints)}})
	subs := DictProvider(map[string]Def{subSig.Key(): {Fwd: domainops.IntervalSub(ints)}})

	combined := adds.Or(subs)
	_, ok := combined(addSig)
	assert.True(t, ok)
	_, ok = combined(subSig)
	assert.True(t, ok)
	_, ok = combined(NewSignature(OpNeg, []domains.Domain{ints}, ints))
	assert.False(t, ok)
}
