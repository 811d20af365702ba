package domains

import "strconv"

// Path is a symbolic memory address: a variable slot, a field projection of
// another path, a subprogram, null, or the unknown address.
type Path interface {
	pathAtom()
	String() string
}

// NoPath is the bottom of the access path lattice.
type NoPath struct{}

// AnyPath is the top: an unknown address, possibly null.
type AnyPath struct{}

// NullPath is the null address.
type NullPath struct{}

// VarPath is the address of the variable at the given slot index.
type VarPath struct {
	Index int
}

// FieldPath is the address of field Index inside the object addressed by
// Inner.
type FieldPath struct {
	Index int
	Inner Path
}

// SubpPath is the address of a subprogram. Defs opaquely carries the
// forward/backward pair of the target so calls through the pointer can be
// resolved.
type SubpPath struct {
	Name string
	Defs any
}

func (NoPath) pathAtom()    {}
func (AnyPath) pathAtom()   {}
func (NullPath) pathAtom()  {}
func (VarPath) pathAtom()   {}
func (FieldPath) pathAtom() {}
func (SubpPath) pathAtom()  {}

func (NoPath) String() string   { return "<none>" }
func (AnyPath) String() string  { return "<any>" }
func (NullPath) String() string { return "null" }
func (p VarPath) String() string {
	return "&v" + strconv.Itoa(p.Index)
}
func (p FieldPath) String() string {
	return p.Inner.String() + "." + strconv.Itoa(p.Index)
}
func (p SubpPath) String() string { return "&" + p.Name }

// PathEq is structural equality of paths. SubpPath compares by name.
func PathEq(a, b Path) bool {
	switch pa := a.(type) {
	case FieldPath:
		pb, ok := b.(FieldPath)
		return ok && pa.Index == pb.Index && PathEq(pa.Inner, pb.Inner)
	case SubpPath:
		pb, ok := b.(SubpPath)
		return ok && pa.Name == pb.Name
	default:
		return a == b
	}
}

// unwind flattens a path into its base atom and the field indices applied to
// it, outermost last.
func unwind(p Path) (Path, []int) {
	var fields []int
	for {
		f, ok := p.(FieldPath)
		if !ok {
			break
		}
		fields = append([]int{f.Index}, fields...)
		p = f.Inner
	}
	return p, fields
}

// Touches reports whether one path is a prefix of the other: both reach into
// the same object.
func Touches(a, b Path) bool {
	baseA, fieldsA := unwind(a)
	baseB, fieldsB := unwind(b)
	if !PathEq(baseA, baseB) {
		return false
	}
	n := len(fieldsA)
	if len(fieldsB) < n {
		n = len(fieldsB)
	}
	for i := 0; i < n; i++ {
		if fieldsA[i] != fieldsB[i] {
			return false
		}
	}
	return true
}

// AccessPathsLattice is the flat lattice of single access paths: bottom,
// top, and an antichain of concrete paths in between.
type AccessPathsLattice struct{}

func (AccessPathsLattice) Name() string  { return "accesspath" }
func (AccessPathsLattice) Bottom() Value { return NoPath{} }
func (AccessPathsLattice) Top() Value    { return AnyPath{} }

func (AccessPathsLattice) IsEmpty(x Value) bool {
	_, none := x.(NoPath)
	return none
}

func (d AccessPathsLattice) Le(x, y Value) bool {
	if d.IsEmpty(x) {
		return true
	}
	if _, any := y.(AnyPath); any {
		return true
	}
	if d.IsEmpty(y) {
		return false
	}
	return PathEq(x.(Path), y.(Path))
}

func (d AccessPathsLattice) Join(x, y Value) Value {
	if d.IsEmpty(x) {
		return y
	}
	if d.IsEmpty(y) {
		return x
	}
	if PathEq(x.(Path), y.(Path)) {
		return x
	}
	return AnyPath{}
}

func (d AccessPathsLattice) Meet(x, y Value) Value {
	if _, any := x.(AnyPath); any {
		return y
	}
	if _, any := y.(AnyPath); any {
		return x
	}
	if d.IsEmpty(x) || d.IsEmpty(y) {
		return NoPath{}
	}
	if PathEq(x.(Path), y.(Path)) {
		return x
	}
	return NoPath{}
}

func (d AccessPathsLattice) Size(x Value) Cardinal {
	switch x.(type) {
	case NoPath:
		return Finite(0)
	case AnyPath:
		return Infinite
	default:
		return Finite(1)
	}
}

func (AccessPathsLattice) Lit(lit any) (Value, bool) {
	if s, ok := lit.(string); ok && s == "null" {
		return NullPath{}, true
	}
	return nil, false
}

func (AccessPathsLattice) Str(x Value) string {
	return x.(Path).String()
}

// TouchMerge is the merge predicate used for pointer powersets: two paths
// merge when comparable or when one reaches into the other.
func TouchMerge(d AccessPathsLattice) func(a, b Value) bool {
	return func(a, b Value) bool {
		if d.Le(a, b) || d.Le(b, a) {
			return true
		}
		pa, okA := a.(Path)
		pb, okB := b.(Path)
		return okA && okB && Touches(pa, pb)
	}
}
