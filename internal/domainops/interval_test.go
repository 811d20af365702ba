package domainops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adalyze/internal/domains"
)

func TestIntervalAddEnclosing(t *testing.T) {
	d := domains.NewIntervals(-100, 100)
	add := IntervalAdd(d)

	got := add(d.Range(1, 3), d.Range(10, 20))
	assert.Equal(t, "[11, 23]", d.Str(got))

	clamped := add(d.Range(50, 90), d.Range(50, 90))
	assert.Equal(t, "[100, 100]", d.Str(clamped), "results clamp to the type bounds")

	assert.True(t, d.IsEmpty(add(d.Bottom(), d.Range(0, 1))), "bottom propagates")
}

func TestIntervalSubAndNeg(t *testing.T) {
	d := domains.NewIntervals(-100, 100)

	got := IntervalSub(d)(d.Range(5, 10), d.Range(1, 3))
	assert.Equal(t, "[2, 9]", d.Str(got))

	neg := IntervalNeg(d)(d.Range(2, 7))
	assert.Equal(t, "[-7, -2]", d.Str(neg))
}

func TestInvIntervalAddRefinesBothSides(t *testing.T) {
	d := domains.NewIntervals(-100, 100)
	inv := InvIntervalAdd(d)

	// l + r in [10, 12] with l in [0, 100], r in [4, 5].
	refined, ok := inv(d.Range(10, 12), d.Range(0, 100), d.Range(4, 5))
	require.True(t, ok)
	assert.Equal(t, "[5, 8]", d.Str(refined[0]))
	assert.Equal(t, "[4, 5]", d.Str(refined[1]))
}

func TestInvIntervalAddInfeasible(t *testing.T) {
	d := domains.NewIntervals(-100, 100)
	_, ok := InvIntervalAdd(d)(d.Range(50, 60), d.Range(0, 10), d.Range(0, 10))
	assert.False(t, ok, "no pair of operands reaches the expected sum")
}

func TestIntervalComparisons(t *testing.T) {
	d := domains.NewIntervals(-100, 100)

	assert.Equal(t, domains.Value(domains.BoolTrue), IntervalLt(d)(d.Range(0, 3), d.Range(4, 9)))
	assert.Equal(t, domains.Value(domains.BoolFalse), IntervalLt(d)(d.Range(5, 9), d.Range(1, 5)))
	assert.Equal(t, domains.Value(domains.BoolBoth), IntervalLt(d)(d.Range(0, 5), d.Range(3, 9)))

	assert.Equal(t, domains.Value(domains.BoolTrue), IntervalGe(d)(d.Range(5, 9), d.Range(1, 5)))
	assert.Equal(t, domains.Value(domains.BoolNone), IntervalLe(d)(d.Bottom(), d.Range(0, 1)))
}

func TestInvIntervalLtRefinement(t *testing.T) {
	d := domains.NewIntervals(-100, 100)
	inv := InvIntervalLt(d)

	refined, ok := inv(domains.BoolTrue, d.Range(0, 50), d.Range(10, 20))
	require.True(t, ok)
	assert.Equal(t, "[0, 19]", d.Str(refined[0]), "left stays strictly below right's bound")
	assert.Equal(t, "[10, 20]", d.Str(refined[1]))

	refined, ok = inv(domains.BoolFalse, d.Range(0, 50), d.Range(10, 20))
	require.True(t, ok)
	assert.Equal(t, "[10, 50]", d.Str(refined[0]), "the false case flips to >=")
	assert.Equal(t, "[10, 20]", d.Str(refined[1]))
}

func TestInvIntervalLtSoundness(t *testing.T) {
	d := domains.NewIntervals(-20, 20)
	inv := InvIntervalLt(d)
	lt := IntervalLt(d)

	l, r := d.Range(-5, 10), d.Range(0, 8)
	refined, ok := inv(domains.BoolTrue, l, r)
	require.True(t, ok)

	// Every concrete pair satisfying the expectation survives refinement.
	for a := int64(-5); a <= 10; a++ {
		for b := int64(0); b <= 8; b++ {
			if a < b {
				assert.True(t, d.Le(d.Range(a, a), refined[0]), "lost %d", a)
				assert.True(t, d.Le(d.Range(b, b), refined[1]), "lost %d", b)
			}
		}
	}
	// Round trip: the refined inputs cannot contradict the expectation.
	assert.NotEqual(t, domains.Value(domains.BoolFalse), lt(refined[0], refined[1]))
}

func TestIntervalEqNeq(t *testing.T) {
	d := domains.NewIntervals(-100, 100)

	assert.Equal(t, domains.Value(domains.BoolTrue), Eq(d)(d.Range(4, 4), d.Range(4, 4)))
	assert.Equal(t, domains.Value(domains.BoolFalse), Eq(d)(d.Range(0, 2), d.Range(5, 9)))
	assert.Equal(t, domains.Value(domains.BoolBoth), Eq(d)(d.Range(0, 5), d.Range(3, 9)))

	refined, ok := InvEq(d)(domains.BoolTrue, d.Range(0, 5), d.Range(3, 9))
	require.True(t, ok)
	assert.Equal(t, "[3, 5]", d.Str(refined[0]))
	assert.Equal(t, "[3, 5]", d.Str(refined[1]))

	_, ok = InvEq(d)(domains.BoolTrue, d.Range(0, 2), d.Range(5, 9))
	assert.False(t, ok, "disjoint sides cannot be equal")

	refined, ok = InvNeq(d)(domains.BoolTrue, d.Range(3, 3), d.Range(3, 9))
	require.True(t, ok)
	assert.Equal(t, "[4, 9]", d.Str(refined[1]), "a boundary singleton is carved off")
}

func TestMonotonicityOfAdd(t *testing.T) {
	d := domains.NewIntervals(-50, 50)
	add := IntervalAdd(d)

	small := add(d.Range(0, 1), d.Range(2, 3))
	big := add(d.Range(0, 5), d.Range(0, 3))
	assert.True(t, d.Le(small, big), "wider inputs give wider outputs")
}
