package domains

import (
	"fmt"
	"strings"
)

// DefaultMaxArrayElems caps the number of slices a sparse array element may
// carry before adjacent entries are collapsed.
const DefaultMaxArrayElems = 15

// Entry pairs a slice of indices with the abstract element those indices map
// to.
type Entry struct {
	Index Value
	Elem  Value
}

// arrayNone is the bottom of the sparse array lattice: the empty set of
// concrete arrays. It is distinct from the empty entry list, which is Top
// (every index maps to element Top).
type arrayNone struct{}

// SparseArray is the lattice of finite lists of (index slice, element) pairs
// with disjoint slices after normalization. A concrete array belongs to an
// element when each of its cells at an index covered by some slice holds a
// value of the paired element, and cells outside all slices are
// unconstrained.
type SparseArray struct {
	IndexDom Domain
	ElemDom  Domain
	MaxElems int
}

// NewSparseArray builds the sparse array lattice over the given index and
// element lattices. maxElems <= 0 selects the default cap.
func NewSparseArray(index, elem Domain, maxElems int) *SparseArray {
	if maxElems <= 0 {
		maxElems = DefaultMaxArrayElems
	}
	return &SparseArray{IndexDom: index, ElemDom: elem, MaxElems: maxElems}
}

// Entries reads the entry list of x. ok is false when x is bottom.
func (d *SparseArray) Entries(x Value) ([]Entry, bool) {
	if _, none := x.(arrayNone); none {
		return nil, false
	}
	return x.([]Entry), true
}

// FromEntries normalizes an entry list into a lattice element.
func (d *SparseArray) FromEntries(entries []Entry) Value {
	return d.Normalized(entries)
}

// Normalized brings an entry list into canonical form: entries with empty
// slices are dropped, overlapping entries are merged by joining, entries
// with equal elements whose slices coalesce exactly are fused, and the
// MaxElems cap is enforced by collapsing adjacent entries. An entry that
// maps a non-empty slice to the empty element denotes no concrete array at
// all and yields Bottom.
func (d *SparseArray) Normalized(entries []Entry) Value {
	work := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if d.IndexDom.IsEmpty(e.Index) {
			continue
		}
		if d.ElemDom.IsEmpty(e.Elem) {
			return arrayNone{}
		}
		work = append(work, e)
	}

	// Merge overlapping slices by joining both components until disjoint.
	for changed := true; changed; {
		changed = false
	outer:
		for i := 0; i < len(work); i++ {
			for j := i + 1; j < len(work); j++ {
				if !d.IndexDom.IsEmpty(d.IndexDom.Meet(work[i].Index, work[j].Index)) {
					work[i] = Entry{
						Index: d.IndexDom.Join(work[i].Index, work[j].Index),
						Elem:  d.ElemDom.Join(work[i].Elem, work[j].Elem),
					}
					work = append(work[:j], work[j+1:]...)
					changed = true
					break outer
				}
			}
		}
	}

	// Fuse entries with equal elements whose slices coalesce without a gap.
	for changed := true; changed; {
		changed = false
	fuse:
		for i := 0; i < len(work); i++ {
			for j := i + 1; j < len(work); j++ {
				if !Eq(d.ElemDom, work[i].Elem, work[j].Elem) {
					continue
				}
				joined := d.IndexDom.Join(work[i].Index, work[j].Index)
				sum := d.IndexDom.Size(work[i].Index).Add(d.IndexDom.Size(work[j].Index))
				if js := d.IndexDom.Size(joined); !js.Infinite && !sum.Infinite && js.N == sum.N {
					work[i] = Entry{Index: joined, Elem: work[i].Elem}
					work = append(work[:j], work[j+1:]...)
					changed = true
					break fuse
				}
			}
		}
	}

	// Enforce the slice cap by collapsing neighbors in list order.
	for len(work) > d.MaxElems {
		merged := Entry{
			Index: d.IndexDom.Join(work[0].Index, work[1].Index),
			Elem:  d.ElemDom.Join(work[0].Elem, work[1].Elem),
		}
		work = append([]Entry{merged}, work[2:]...)
		work = d.Normalized(work).([]Entry)
	}

	return work
}

func (d *SparseArray) Name() string {
	return fmt.Sprintf("array(%s -> %s)", d.IndexDom.Name(), d.ElemDom.Name())
}

func (d *SparseArray) Bottom() Value { return arrayNone{} }
func (d *SparseArray) Top() Value    { return []Entry{} }

func (d *SparseArray) IsEmpty(x Value) bool {
	_, none := x.(arrayNone)
	return none
}

// Le checks inclusion of concretizations: every constraint carried by y must
// be implied by x. Coverage of y's slices is verified through the index
// split capability when available; without it the check is conservative.
func (d *SparseArray) Le(x, y Value) bool {
	if d.IsEmpty(x) {
		return true
	}
	if d.IsEmpty(y) {
		return false
	}
	xe, ye := x.([]Entry), y.([]Entry)
	for _, eb := range ye {
		if Eq(d.ElemDom, eb.Elem, d.ElemDom.Top()) {
			continue
		}
		// Values x can hold inside eb's slice must fit eb's element.
		for _, ea := range xe {
			if !d.IndexDom.IsEmpty(d.IndexDom.Meet(ea.Index, eb.Index)) &&
				!d.ElemDom.Le(ea.Elem, eb.Elem) {
				return false
			}
		}
		// Every index of eb's slice must be covered by x's entries,
		// otherwise x maps it to Top which eb constrains.
		if !d.covers(xe, eb.Index) {
			return false
		}
	}
	return true
}

// covers reports whether the entry slices of xe jointly cover all of idx.
func (d *SparseArray) covers(xe []Entry, idx Value) bool {
	sp, ok := d.IndexDom.(Splitter)
	if !ok {
		for _, ea := range xe {
			if d.IndexDom.Le(idx, ea.Index) {
				return true
			}
		}
		return false
	}
	remaining := []Value{idx}
	for _, ea := range xe {
		var next []Value
		for _, r := range remaining {
			for _, part := range sp.Split(r, ea.Index) {
				if !d.IndexDom.IsEmpty(part) {
					next = append(next, part)
				}
			}
		}
		remaining = next
		if len(remaining) == 0 {
			return true
		}
	}
	return len(remaining) == 0
}

// Join keeps only the constraints shared by both sides: where the slices
// overlap, the elements join; a region covered by one side only is
// unconstrained in the other and drops to Top.
func (d *SparseArray) Join(x, y Value) Value {
	if d.IsEmpty(x) {
		return y
	}
	if d.IsEmpty(y) {
		return x
	}
	xe, ye := x.([]Entry), y.([]Entry)
	var out []Entry
	for _, ea := range xe {
		for _, eb := range ye {
			ov := d.IndexDom.Meet(ea.Index, eb.Index)
			if !d.IndexDom.IsEmpty(ov) {
				out = append(out, Entry{Index: ov, Elem: d.ElemDom.Join(ea.Elem, eb.Elem)})
			}
		}
	}
	return d.Normalized(out)
}

// Meet refines pairwise: overlapping slices meet both components, and the
// uncovered remainder of each entry survives unchanged (the other side maps
// it to Top). An overlap whose element meet is empty proves the two sets of
// arrays share nothing.
func (d *SparseArray) Meet(x, y Value) Value {
	if d.IsEmpty(x) || d.IsEmpty(y) {
		return arrayNone{}
	}
	xe, ye := x.([]Entry), y.([]Entry)
	var out []Entry
	sp, hasSplit := d.IndexDom.(Splitter)

	residue := func(own, other []Entry) ([]Entry, bool) {
		var kept []Entry
		for _, ea := range own {
			remaining := []Value{ea.Index}
			for _, eb := range other {
				ov := d.IndexDom.Meet(ea.Index, eb.Index)
				if d.IndexDom.IsEmpty(ov) {
					continue
				}
				if !hasSplit {
					remaining = nil
					continue
				}
				var next []Value
				for _, r := range remaining {
					for _, part := range sp.Split(r, eb.Index) {
						if !d.IndexDom.IsEmpty(part) {
							next = append(next, part)
						}
					}
				}
				remaining = next
			}
			for _, r := range remaining {
				kept = append(kept, Entry{Index: r, Elem: ea.Elem})
			}
		}
		return kept, true
	}

	for _, ea := range xe {
		for _, eb := range ye {
			ov := d.IndexDom.Meet(ea.Index, eb.Index)
			if d.IndexDom.IsEmpty(ov) {
				continue
			}
			me := d.ElemDom.Meet(ea.Elem, eb.Elem)
			if d.ElemDom.IsEmpty(me) {
				return arrayNone{}
			}
			out = append(out, Entry{Index: ov, Elem: me})
		}
	}
	keptX, _ := residue(xe, ye)
	keptY, _ := residue(ye, xe)
	out = append(out, keptX...)
	out = append(out, keptY...)
	return d.Normalized(out)
}

func (d *SparseArray) Size(x Value) Cardinal {
	if d.IsEmpty(x) {
		return Finite(0)
	}
	return Infinite
}

func (d *SparseArray) Lit(lit any) (Value, bool) { return nil, false }

func (d *SparseArray) Str(x Value) string {
	if d.IsEmpty(x) {
		return "<no array>"
	}
	entries := x.([]Entry)
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s: %s", d.IndexDom.Str(e.Index), d.ElemDom.Str(e.Elem))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
