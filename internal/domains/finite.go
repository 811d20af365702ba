package domains

import (
	"math/bits"
	"sort"
	"strings"
)

// Bits is an element of a finite subset lattice: a set of carrier tags
// encoded as a bitmask over the carrier order.
type Bits uint64

const maxCarrier = 64

// FiniteSubsets is the subset lattice over a finite carrier of tags. Both
// constructors (PowersetOf, FiniteSubsetsOf) build the same bitset lattice;
// they differ only in the domain name. No subsets are enumerated.
type FiniteSubsets struct {
	carrier  []string
	index    map[string]int
	powerset bool
}

func newFiniteSubsets(tags []string, powerset bool) *FiniteSubsets {
	if len(tags) > maxCarrier {
		tags = tags[:maxCarrier]
	}
	sorted := make([]string, len(tags))
	copy(sorted, tags)
	sort.Strings(sorted)
	index := make(map[string]int, len(sorted))
	for i, t := range sorted {
		index[t] = i
	}
	return &FiniteSubsets{carrier: sorted, index: index, powerset: powerset}
}

// PowersetOf builds the subset lattice of a small carrier under the
// "powerset" name.
func PowersetOf(tags ...string) *FiniteSubsets {
	return newFiniteSubsets(tags, true)
}

// FiniteSubsetsOf uses the direct subset representation for larger carriers.
func FiniteSubsetsOf(tags ...string) *FiniteSubsets {
	return newFiniteSubsets(tags, false)
}

// Carrier returns the ordered carrier tags.
func (d *FiniteSubsets) Carrier() []string { return d.carrier }

// Of builds the subset holding exactly the given tags. Unknown tags are
// ignored.
func (d *FiniteSubsets) Of(tags ...string) Value {
	var m Bits
	for _, t := range tags {
		if i, ok := d.index[t]; ok {
			m |= 1 << uint(i)
		}
	}
	return m
}

func (d *FiniteSubsets) Name() string {
	prefix := "subsets"
	if d.powerset {
		prefix = "powerset"
	}
	return prefix + "{" + strings.Join(d.carrier, ",") + "}"
}

func (d *FiniteSubsets) Bottom() Value { return Bits(0) }

func (d *FiniteSubsets) Top() Value {
	if len(d.carrier) == maxCarrier {
		return Bits(^uint64(0))
	}
	return Bits(1)<<uint(len(d.carrier)) - 1
}

func (d *FiniteSubsets) IsEmpty(x Value) bool { return x.(Bits) == 0 }

func (d *FiniteSubsets) Le(x, y Value) bool {
	a, b := x.(Bits), y.(Bits)
	return a&b == a
}

func (d *FiniteSubsets) Join(x, y Value) Value { return x.(Bits) | y.(Bits) }
func (d *FiniteSubsets) Meet(x, y Value) Value { return x.(Bits) & y.(Bits) }

func (d *FiniteSubsets) Size(x Value) Cardinal {
	return Finite(int64(bits.OnesCount64(uint64(x.(Bits)))))
}

func (d *FiniteSubsets) Lit(lit any) (Value, bool) {
	tag, ok := lit.(string)
	if !ok {
		return nil, false
	}
	i, ok := d.index[tag]
	if !ok {
		return nil, false
	}
	return Bits(1) << uint(i), true
}

func (d *FiniteSubsets) Str(x Value) string {
	m := x.(Bits)
	var tags []string
	for i, t := range d.carrier {
		if m&(1<<uint(i)) != 0 {
			tags = append(tags, t)
		}
	}
	return "{" + strings.Join(tags, ", ") + "}"
}

func (d *FiniteSubsets) Split(x, y Value) []Value {
	rest := x.(Bits) &^ y.(Bits)
	if rest == 0 {
		return nil
	}
	return []Value{rest}
}
