package domainops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adalyze/internal/domains"
)

func testArray() (*domains.SparseArray, *domains.Intervals, *domains.Intervals) {
	idx := domains.NewIntervals(-10, 10)
	elem := domains.NewIntervals(-10, 10)
	return domains.NewSparseArray(idx, elem, 15), idx, elem
}

func TestArrayPointUpdateSplitsSlice(t *testing.T) {
	arr, idx, elem := testArray()

	// a = [((-10,10), (0,0))], then a[(3,3)] := (5,5).
	a := arr.FromEntries([]domains.Entry{{Index: idx.Range(-10, 10), Elem: elem.Range(0, 0)}})
	updated := ArrayUpdated(arr)(a, elem.Range(5, 5), idx.Range(3, 3))

	want := arr.FromEntries([]domains.Entry{
		{Index: idx.Range(-10, 2), Elem: elem.Range(0, 0)},
		{Index: idx.Range(3, 3), Elem: elem.Range(5, 5)},
		{Index: idx.Range(4, 10), Elem: elem.Range(0, 0)},
	})
	assert.True(t, domains.Eq(arr, updated, want), "got %s", arr.Str(updated))

	entries, ok := arr.Entries(updated)
	require.True(t, ok)
	assert.Len(t, entries, 3)
}

func TestArrayGetJoinsOverlappingSlices(t *testing.T) {
	arr, idx, elem := testArray()
	a := arr.FromEntries([]domains.Entry{
		{Index: idx.Range(-10, 3), Elem: elem.Range(2, 3)},
		{Index: idx.Range(4, 10), Elem: elem.Range(6, 10)},
	})

	assert.Equal(t, "[2, 3]", elem.Str(ArrayGet(arr)(a, idx.Range(0, 2))))
	assert.Equal(t, "[2, 10]", elem.Str(ArrayGet(arr)(a, idx.Range(3, 4))),
		"a read spanning two slices joins their elements")
	assert.True(t, elem.IsEmpty(ArrayGet(arr)(a, idx.Bottom())))
}

func TestArrayUpdateGetLaws(t *testing.T) {
	arr, idx, elem := testArray()
	a := arr.FromEntries([]domains.Entry{{Index: idx.Range(-5, 5), Elem: elem.Range(0, 1)}})

	v := elem.Range(7, 7)
	i := idx.Range(2, 2)
	updated := ArrayUpdated(arr)(a, v, i)

	got := ArrayGet(arr)(updated, i)
	assert.True(t, elem.Le(v, got), "get after update covers the written value")

	j := idx.Range(-4, -3)
	assert.True(t, domains.Eq(elem, ArrayGet(arr)(updated, j), ArrayGet(arr)(a, j)),
		"a point update leaves disjoint indices untouched")

	rng := ArrayIndexRange(arr)(updated)
	assert.True(t, idx.Le(i, rng), "the written index joins the index range")
}

func TestArrayInValuesOf(t *testing.T) {
	arr, idx, elem := testArray()
	a := arr.FromEntries([]domains.Entry{
		{Index: idx.Range(-10, 3), Elem: elem.Range(2, 3)},
		{Index: idx.Range(4, 10), Elem: elem.Range(6, 10)},
	})
	inValues := ArrayInValuesOf(arr)

	assert.Equal(t, domains.Value(domains.BoolBoth), inValues(elem.Range(2, 2), a),
		"inclusion in one slice joins with exclusion from the other")
	assert.Equal(t, domains.Value(domains.BoolFalse), inValues(elem.Range(4, 5), a))
	assert.Equal(t, domains.Value(domains.BoolBoth), inValues(elem.Range(2, 10), a))
	assert.Equal(t, domains.Value(domains.BoolNone), inValues(elem.Bottom(), a))

	single := arr.FromEntries([]domains.Entry{{Index: idx.Range(0, 5), Elem: elem.Range(2, 3)}})
	assert.Equal(t, domains.Value(domains.BoolTrue), inValues(elem.Range(2, 2), single))
}

func TestArrayString(t *testing.T) {
	arr, idx, elem := testArray()

	built := ArrayString(arr)(
		idx.Range(0, 0), elem.Range(1, 1),
		idx.Range(1, 1), elem.Range(2, 2),
	)
	assert.Equal(t, "[1, 1]", elem.Str(ArrayGet(arr)(built, idx.Range(0, 0))))
	assert.Equal(t, "[2, 2]", elem.Str(ArrayGet(arr)(built, idx.Range(1, 1))))
}

func TestInvArrayGetSingleIndexRefines(t *testing.T) {
	arr, idx, elem := testArray()
	a := arr.FromEntries([]domains.Entry{{Index: idx.Range(0, 5), Elem: elem.Range(0, 9)}})

	// Reading index 2 observed a value in [7, 9].
	refinedArr, refinedIdx, ok := InvArrayGet(arr)(elem.Range(7, 9), a, idx.Range(2, 2))
	require.True(t, ok)
	assert.Equal(t, "[2, 2]", idx.Str(refinedIdx))

	got := ArrayGet(arr)(refinedArr, idx.Range(2, 2))
	assert.Equal(t, "[7, 9]", elem.Str(got), "the observed cell narrows")

	other := ArrayGet(arr)(refinedArr, idx.Range(0, 1))
	assert.Equal(t, "[0, 9]", elem.Str(other), "other cells keep their constraint")
}

func TestInvArrayGetInfeasible(t *testing.T) {
	arr, idx, elem := testArray()
	a := arr.FromEntries([]domains.Entry{{Index: idx.Range(0, 5), Elem: elem.Range(0, 3)}})

	_, _, ok := InvArrayGet(arr)(elem.Range(8, 9), a, idx.Range(2, 2))
	assert.False(t, ok, "the array cannot hold the expected value there")
}

func TestInvArrayIndexRange(t *testing.T) {
	arr, idx, elem := testArray()
	a := arr.FromEntries([]domains.Entry{
		{Index: idx.Range(-5, -1), Elem: elem.Range(0, 0)},
		{Index: idx.Range(1, 5), Elem: elem.Range(2, 2)},
	})

	refined, ok := InvArrayIndexRange(arr)(idx.Range(0, 10), a)
	require.True(t, ok)
	entries, hasEntries := arr.Entries(refined)
	require.True(t, hasEntries)
	require.Len(t, entries, 1, "slices outside the expected range drop")
	assert.Equal(t, "[1, 5]", idx.Str(entries[0].Index))
}

func TestInvArrayInValuesOf(t *testing.T) {
	arr, idx, elem := testArray()
	a := arr.FromEntries([]domains.Entry{
		{Index: idx.Range(-10, 3), Elem: elem.Range(2, 3)},
		{Index: idx.Range(4, 10), Elem: elem.Range(6, 10)},
	})

	x, refined, ok := InvArrayInValuesOf(arr)(domains.BoolTrue, elem.Range(-3, 8), a)
	require.True(t, ok)
	assert.Equal(t, "[2, 8]", elem.Str(x))

	entries, hasEntries := arr.Entries(refined)
	require.True(t, hasEntries)
	require.Len(t, entries, 2)
	assert.Equal(t, "[2, 3]", elem.Str(entries[0].Elem))
	assert.Equal(t, "[6, 8]", elem.Str(entries[1].Elem))
}

func TestInvArrayUpdatedRefinesNothing(t *testing.T) {
	arr, idx, elem := testArray()
	a := arr.FromEntries([]domains.Entry{{Index: idx.Range(0, 5), Elem: elem.Range(0, 9)}})

	refinedArr, refinedVal, refinedIdx, ok := InvArrayUpdated(arr)(
		arr.Top(), a, elem.Range(1, 2), idx.Range(3, 3))
	require.True(t, ok)
	assert.True(t, domains.Eq(arr, a, refinedArr))
	assert.Equal(t, "[1, 2]", elem.Str(refinedVal))
	assert.Equal(t, "[3, 3]", idx.Str(refinedIdx))
}
