package domains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizedDropsEmptySlices(t *testing.T) {
	ints := NewIntervals(-10, 10)
	elems := NewIntervals(0, 9)
	arr := NewSparseArray(ints, elems, 15)

	v := arr.Normalized([]Entry{
		{Index: ints.Bottom(), Elem: elems.Range(1, 2)},
		{Index: ints.Range(0, 3), Elem: elems.Range(4, 5)},
	})
	entries, ok := arr.Entries(v)
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "[0, 3]", ints.Str(entries[0].Index))
}

func TestNormalizedEmptyElementMeansNoArray(t *testing.T) {
	ints := NewIntervals(-10, 10)
	elems := NewIntervals(0, 9)
	arr := NewSparseArray(ints, elems, 15)

	v := arr.Normalized([]Entry{
		{Index: ints.Range(0, 3), Elem: elems.Bottom()},
	})
	assert.True(t, arr.IsEmpty(v), "a slice mapped to no value leaves no array")
}

func TestNormalizedMergesOverlaps(t *testing.T) {
	ints := NewIntervals(-10, 10)
	elems := NewIntervals(0, 9)
	arr := NewSparseArray(ints, elems, 15)

	v := arr.Normalized([]Entry{
		{Index: ints.Range(0, 5), Elem: elems.Range(1, 1)},
		{Index: ints.Range(3, 8), Elem: elems.Range(2, 2)},
	})
	entries, ok := arr.Entries(v)
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "[0, 8]", ints.Str(entries[0].Index))
	assert.Equal(t, "[1, 2]", elems.Str(entries[0].Elem))
}

func TestNormalizedFusesAdjacentEqualElems(t *testing.T) {
	ints := NewIntervals(-10, 10)
	elems := NewIntervals(0, 9)
	arr := NewSparseArray(ints, elems, 15)

	v := arr.Normalized([]Entry{
		{Index: ints.Range(0, 3), Elem: elems.Range(7, 7)},
		{Index: ints.Range(4, 8), Elem: elems.Range(7, 7)},
	})
	entries, ok := arr.Entries(v)
	require.True(t, ok)
	require.Len(t, entries, 1, "adjacent slices with equal elements coalesce")
	assert.Equal(t, "[0, 8]", ints.Str(entries[0].Index))

	gap := arr.Normalized([]Entry{
		{Index: ints.Range(0, 3), Elem: elems.Range(7, 7)},
		{Index: ints.Range(5, 8), Elem: elems.Range(7, 7)},
	})
	gapEntries, ok := arr.Entries(gap)
	require.True(t, ok)
	assert.Len(t, gapEntries, 2, "a gap blocks coalescing")
}

func TestNormalizationIdempotence(t *testing.T) {
	ints := NewIntervals(-10, 10)
	elems := NewIntervals(0, 9)
	arr := NewSparseArray(ints, elems, 15)

	inputs := [][]Entry{
		{
			{Index: ints.Range(0, 5), Elem: elems.Range(1, 1)},
			{Index: ints.Range(3, 8), Elem: elems.Range(2, 2)},
		},
		{
			{Index: ints.Range(-10, -1), Elem: elems.Range(0, 4)},
			{Index: ints.Range(0, 10), Elem: elems.Range(0, 4)},
		},
	}
	for _, entries := range inputs {
		once := arr.Normalized(entries)
		onceEntries, ok := arr.Entries(once)
		require.True(t, ok)
		twice := arr.Normalized(onceEntries)
		assert.True(t, Eq(arr, once, twice), "normalize is idempotent")
	}
}

func TestMaxElemsCapCollapses(t *testing.T) {
	ints := NewIntervals(0, 100)
	elems := NewIntervals(0, 9)
	arr := NewSparseArray(ints, elems, 3)

	var entries []Entry
	for i := int64(0); i < 10; i++ {
		entries = append(entries, Entry{
			Index: ints.Range(i*10, i*10+5),
			Elem:  elems.Range(i%3, i%3),
		})
	}
	v := arr.Normalized(entries)
	capped, ok := arr.Entries(v)
	require.True(t, ok)
	assert.LessOrEqual(t, len(capped), 3, "the slice cap bounds the representation")
}

func TestSparseArrayMeetDetectsConflict(t *testing.T) {
	ints := NewIntervals(-10, 10)
	elems := NewIntervals(0, 9)
	arr := NewSparseArray(ints, elems, 15)

	a := arr.FromEntries([]Entry{{Index: ints.Range(0, 4), Elem: elems.Range(1, 2)}})
	b := arr.FromEntries([]Entry{{Index: ints.Range(2, 6), Elem: elems.Range(5, 6)}})
	assert.True(t, arr.IsEmpty(arr.Meet(a, b)),
		"overlapping slices with disjoint elements admit no array")
}

func TestSparseArrayMeetRefinesOverlap(t *testing.T) {
	ints := NewIntervals(-10, 10)
	elems := NewIntervals(0, 9)
	arr := NewSparseArray(ints, elems, 15)

	a := arr.FromEntries([]Entry{{Index: ints.Range(0, 6), Elem: elems.Range(1, 5)}})
	b := arr.FromEntries([]Entry{{Index: ints.Range(4, 8), Elem: elems.Range(3, 9)}})
	m := arr.Meet(a, b)
	require.False(t, arr.IsEmpty(m))

	assert.True(t, arr.Le(m, a), "meet refines both operands")
	assert.True(t, arr.Le(m, b), "meet refines both operands")
}
