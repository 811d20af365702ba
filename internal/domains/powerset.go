package domains

import "strings"

// Powerset is a bounded powerset over an inner lattice: elements are finite
// antichains of inner elements, and any pair satisfying the merge predicate
// is collapsed by joining. The bound keeps pointer domains finite.
type Powerset struct {
	Inner Domain
	// MergePredicate decides which pairs of inner elements may not coexist
	// in one antichain.
	MergePredicate func(a, b Value) bool
	// TopElems is the canonical representation of Top.
	TopElems []Value
	// Label distinguishes powersets built over the same inner lattice,
	// such as pointer domains with different designated types.
	Label string
}

// NewPowerset builds the powerset lattice over inner with the given merge
// predicate and top representation.
func NewPowerset(inner Domain, merge func(a, b Value) bool, top []Value) *Powerset {
	return &Powerset{Inner: inner, MergePredicate: merge, TopElems: top}
}

// Elems reads the antichain of x.
func (d *Powerset) Elems(x Value) []Value { return x.([]Value) }

// Of normalizes a list of inner elements into a powerset element.
func (d *Powerset) Of(elems ...Value) Value { return d.normalized(elems) }

func (d *Powerset) normalized(elems []Value) Value {
	work := make([]Value, 0, len(elems))
	for _, e := range elems {
		if !d.Inner.IsEmpty(e) {
			work = append(work, e)
		}
	}
	for changed := true; changed; {
		changed = false
	outer:
		for i := 0; i < len(work); i++ {
			for j := i + 1; j < len(work); j++ {
				if d.MergePredicate(work[i], work[j]) {
					work[i] = d.Inner.Join(work[i], work[j])
					work = append(work[:j], work[j+1:]...)
					changed = true
					break outer
				}
			}
		}
	}
	return work
}

func (d *Powerset) Name() string {
	if d.Label != "" {
		return d.Label
	}
	return "powerset(" + d.Inner.Name() + ")"
}

func (d *Powerset) Bottom() Value { return []Value{} }

func (d *Powerset) Top() Value {
	top := make([]Value, len(d.TopElems))
	copy(top, d.TopElems)
	return top
}

func (d *Powerset) IsEmpty(x Value) bool { return len(x.([]Value)) == 0 }

func (d *Powerset) Le(x, y Value) bool {
	ys := y.([]Value)
	for _, ex := range x.([]Value) {
		held := false
		for _, ey := range ys {
			if d.Inner.Le(ex, ey) {
				held = true
				break
			}
		}
		if !held {
			return false
		}
	}
	return true
}

func (d *Powerset) Join(x, y Value) Value {
	merged := make([]Value, 0, len(x.([]Value))+len(y.([]Value)))
	merged = append(merged, x.([]Value)...)
	merged = append(merged, y.([]Value)...)
	return d.normalized(merged)
}

func (d *Powerset) Meet(x, y Value) Value {
	var out []Value
	for _, ex := range x.([]Value) {
		for _, ey := range y.([]Value) {
			m := d.Inner.Meet(ex, ey)
			if !d.Inner.IsEmpty(m) {
				out = append(out, m)
			}
		}
	}
	return d.normalized(out)
}

func (d *Powerset) Size(x Value) Cardinal {
	size := Finite(0)
	for _, e := range x.([]Value) {
		size = size.Add(d.Inner.Size(e))
	}
	return size
}

func (d *Powerset) Lit(lit any) (Value, bool) {
	inner, ok := d.Inner.Lit(lit)
	if !ok {
		return nil, false
	}
	return []Value{inner}, true
}

func (d *Powerset) Str(x Value) string {
	elems := x.([]Value)
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = d.Inner.Str(e)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
