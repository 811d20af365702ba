package domains

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lawCase bundles a domain with a sample of its elements, bottom and top
// included, over which the lattice laws are checked exhaustively.
type lawCase struct {
	name string
	dom  Domain
	elems []Value
}

func lawCases() []lawCase {
	ints := NewIntervals(-10, 10)
	enum := FiniteSubsetsOf("red", "green", "blue")
	small := PowersetOf("a", "b")
	prod := NewProduct(ints, Bool)
	arr := NewSparseArray(ints, NewIntervals(0, 5), 4)
	paths := AccessPathsLattice{}
	ptr := NewPowerset(paths, TouchMerge(paths), []Value{AnyPath{}})

	return []lawCase{
		{
			name: "booleans",
			dom:  Bool,
			elems: []Value{BoolNone, BoolFalse, BoolTrue, BoolBoth},
		},
		{
			name: "finite subsets",
			dom:  enum,
			elems: []Value{
				enum.Bottom(), enum.Top(),
				enum.Of("red"), enum.Of("green"), enum.Of("red", "blue"),
			},
		},
		{
			name: "powerset of subsets",
			dom:  small,
			elems: []Value{
				small.Bottom(), small.Top(), small.Of("a"), small.Of("b"),
			},
		},
		{
			name: "intervals",
			dom:  ints,
			elems: []Value{
				ints.Bottom(), ints.Top(),
				ints.Range(-5, 5), ints.Range(0, 0), ints.Range(3, 7), ints.Range(-10, -2),
			},
		},
		{
			name: "product",
			dom:  prod,
			elems: []Value{
				prod.Bottom(), prod.Top(),
				prod.Make(ints.Range(0, 5), BoolTrue),
				prod.Make(ints.Range(-3, 3), BoolBoth),
				prod.Make(ints.Range(2, 2), BoolFalse),
			},
		},
		{
			name: "sparse array",
			dom:  arr,
			elems: []Value{
				arr.Bottom(), arr.Top(),
				arr.FromEntries([]Entry{{Index: ints.Range(0, 4), Elem: Interval{Lo: 1, Hi: 2}}}),
				arr.FromEntries([]Entry{
					{Index: ints.Range(-5, -1), Elem: Interval{Lo: 0, Hi: 0}},
					{Index: ints.Range(1, 5), Elem: Interval{Lo: 3, Hi: 5}},
				}),
			},
		},
		{
			name: "access path powerset",
			dom:  ptr,
			elems: []Value{
				ptr.Bottom(), ptr.Top(),
				ptr.Of(Value(NullPath{})),
				ptr.Of(Value(VarPath{Index: 1})),
				ptr.Of(Value(NullPath{}), Value(VarPath{Index: 2})),
			},
		},
		{
			name: "memory",
			dom:  RAM,
			elems: []Value{
				RAM.Bottom(), RAM.Top(),
				RAM.FromCells(map[int]MemCell{0: {Dom: ints, Val: ints.Range(1, 3)}}),
				RAM.FromCells(map[int]MemCell{
					0: {Dom: ints, Val: ints.Range(2, 5)},
					1: {Dom: Bool, Val: BoolTrue},
				}),
			},
		},
		{
			name:  "universe",
			dom:   Universe{},
			elems: []Value{Universe{}.Top()},
		},
	}
}

func TestPartialOrderLaws(t *testing.T) {
	for _, tc := range lawCases() {
		t.Run(tc.name, func(t *testing.T) {
			d := tc.dom
			for _, x := range tc.elems {
				assert.True(t, d.Le(x, x), "reflexivity: %s", d.Str(x))
				assert.True(t, d.Le(d.Bottom(), x), "bottom below %s", d.Str(x))
				assert.True(t, d.Le(x, d.Top()), "%s below top", d.Str(x))
			}
			for _, x := range tc.elems {
				for _, y := range tc.elems {
					if d.Le(x, y) && d.Le(y, x) {
						assert.True(t, Eq(d, x, y), "antisymmetry: %s vs %s", d.Str(x), d.Str(y))
					}
					for _, z := range tc.elems {
						if d.Le(x, y) && d.Le(y, z) {
							assert.True(t, d.Le(x, z),
								"transitivity: %s <= %s <= %s", d.Str(x), d.Str(y), d.Str(z))
						}
					}
				}
			}
		})
	}
}

func TestJoinMeetLaws(t *testing.T) {
	for _, tc := range lawCases() {
		t.Run(tc.name, func(t *testing.T) {
			d := tc.dom
			for _, x := range tc.elems {
				assert.True(t, Eq(d, d.Join(x, x), x), "join idempotence on %s", d.Str(x))
				assert.True(t, Eq(d, d.Meet(x, x), x), "meet idempotence on %s", d.Str(x))
				for _, y := range tc.elems {
					join := d.Join(x, y)
					meet := d.Meet(x, y)

					assert.True(t, Eq(d, join, d.Join(y, x)),
						"join commutativity: %s vs %s", d.Str(x), d.Str(y))
					assert.True(t, Eq(d, meet, d.Meet(y, x)),
						"meet commutativity: %s vs %s", d.Str(x), d.Str(y))

					assert.True(t, d.Le(x, join), "join is an upper bound of %s", d.Str(x))
					assert.True(t, d.Le(y, join), "join is an upper bound of %s", d.Str(y))
					assert.True(t, d.Le(meet, x), "meet is a lower bound of %s", d.Str(x))
					assert.True(t, d.Le(meet, y), "meet is a lower bound of %s", d.Str(y))

					assert.True(t, Eq(d, d.Join(x, d.Meet(x, y)), x),
						"absorption: %s with %s", d.Str(x), d.Str(y))

					for _, z := range tc.elems {
						assert.True(t, Eq(d, d.Join(d.Join(x, y), z), d.Join(x, d.Join(y, z))),
							"join associativity: %s %s %s", d.Str(x), d.Str(y), d.Str(z))
					}
				}
			}
		})
	}
}

func TestIsEmptyMatchesBottom(t *testing.T) {
	for _, tc := range lawCases() {
		if _, isUniverse := tc.dom.(Universe); isUniverse {
			continue // the one-point lattice has no empty element
		}
		t.Run(tc.name, func(t *testing.T) {
			require.True(t, tc.dom.IsEmpty(tc.dom.Bottom()))
			assert.False(t, tc.dom.IsEmpty(tc.dom.Top()))
		})
	}
}

func TestSplitCoversDifference(t *testing.T) {
	ints := NewIntervals(-10, 10)
	x := ints.Range(-5, 8).(Interval)
	y := ints.Range(0, 3)

	parts := ints.Split(x, y)
	require.Len(t, parts, 2)

	// The cover re-joins to the original minus the hole.
	joined := ints.Bottom()
	for _, p := range parts {
		assert.True(t, ints.Le(p, x), "piece %s inside %s", ints.Str(p), ints.Str(x))
		assert.True(t, ints.IsEmpty(ints.Meet(p, y)), "piece %s misses %s", ints.Str(p), ints.Str(y))
		joined = ints.Join(joined, p)
	}
	assert.Equal(t, "[-5, 8]", ints.Str(joined), "hole disappears under the convex join")

	for i, p := range parts {
		for j, q := range parts {
			if i != j {
				assert.True(t, ints.IsEmpty(ints.Meet(p, q)), "pieces overlap")
			}
		}
	}
}

func TestCardinals(t *testing.T) {
	ints := NewIntervals(-10, 10)
	assert.Equal(t, Finite(21), ints.Size(ints.Top()))
	assert.Equal(t, Finite(1), ints.Size(ints.Range(4, 4)))
	assert.True(t, ints.Size(ints.Range(4, 4)).IsOne())

	prod := NewProduct(ints, Bool)
	assert.Equal(t, Finite(42), prod.Size(prod.Top()))
	assert.True(t, Infinite.Mul(Finite(3)).Infinite)

	enum := FiniteSubsetsOf("a", "b", "c")
	assert.Equal(t, Finite(2), enum.Size(enum.Of("a", "c")))
}

func TestWidening(t *testing.T) {
	ints := NewIntervals(-100, 100)

	widened := ints.Widen(ints.Range(0, 3), ints.Range(0, 4))
	assert.Equal(t, "[0, 100]", ints.Str(widened), "growing bound jumps to the domain bound")

	stable := ints.Widen(ints.Range(0, 10), ints.Range(2, 8))
	assert.Equal(t, "[0, 10]", ints.Str(stable), "stable bounds stay put")
}

func TestStrRendering(t *testing.T) {
	ints := NewIntervals(-10, 10)
	assert.Equal(t, "[]", ints.Str(ints.Bottom()))
	assert.Equal(t, "{false, true}", Bool.Str(BoolBoth))

	enum := FiniteSubsetsOf("b", "a")
	assert.Equal(t, "{a, b}", enum.Str(enum.Top()), "carrier is kept ordered")

	prod := NewProduct(ints, Bool)
	got := prod.Str(prod.Make(ints.Range(1, 2), BoolTrue))
	assert.Equal(t, fmt.Sprintf("(%s, %s)", "[1, 2]", "{true}"), got)
}
