package domains

import "strings"

// Product is the componentwise product of its component lattices. Elements
// are tuples ([]Value); an element is empty as soon as any component is.
type Product struct {
	Doms []Domain
}

// NewProduct builds the product lattice of the given components.
func NewProduct(doms ...Domain) *Product {
	return &Product{Doms: doms}
}

// Tuple reads the components of a product element.
func (d *Product) Tuple(x Value) []Value { return x.([]Value) }

// Make builds a product element from components. The caller supplies one
// value per component domain.
func (d *Product) Make(comps ...Value) Value {
	vs := make([]Value, len(comps))
	copy(vs, comps)
	return vs
}

// With returns a copy of x with component i replaced.
func (d *Product) With(x Value, i int, v Value) Value {
	old := x.([]Value)
	vs := make([]Value, len(old))
	copy(vs, old)
	vs[i] = v
	return vs
}

func (d *Product) Name() string {
	names := make([]string, len(d.Doms))
	for i, c := range d.Doms {
		names[i] = c.Name()
	}
	return "(" + strings.Join(names, " * ") + ")"
}

func (d *Product) Bottom() Value {
	vs := make([]Value, len(d.Doms))
	for i, c := range d.Doms {
		vs[i] = c.Bottom()
	}
	return vs
}

func (d *Product) Top() Value {
	vs := make([]Value, len(d.Doms))
	for i, c := range d.Doms {
		vs[i] = c.Top()
	}
	return vs
}

func (d *Product) IsEmpty(x Value) bool {
	for i, c := range d.Doms {
		if c.IsEmpty(x.([]Value)[i]) {
			return true
		}
	}
	return false
}

func (d *Product) Le(x, y Value) bool {
	if d.IsEmpty(x) {
		return true
	}
	if d.IsEmpty(y) {
		return false
	}
	for i, c := range d.Doms {
		if !c.Le(x.([]Value)[i], y.([]Value)[i]) {
			return false
		}
	}
	return true
}

func (d *Product) Join(x, y Value) Value {
	if d.IsEmpty(x) {
		return y
	}
	if d.IsEmpty(y) {
		return x
	}
	vs := make([]Value, len(d.Doms))
	for i, c := range d.Doms {
		vs[i] = c.Join(x.([]Value)[i], y.([]Value)[i])
	}
	return vs
}

func (d *Product) Meet(x, y Value) Value {
	vs := make([]Value, len(d.Doms))
	for i, c := range d.Doms {
		vs[i] = c.Meet(x.([]Value)[i], y.([]Value)[i])
		if c.IsEmpty(vs[i]) {
			return d.Bottom()
		}
	}
	return vs
}

func (d *Product) Size(x Value) Cardinal {
	size := Finite(1)
	for i, c := range d.Doms {
		size = size.Mul(c.Size(x.([]Value)[i]))
	}
	return size
}

func (d *Product) Lit(lit any) (Value, bool) {
	comps, ok := lit.([]any)
	if !ok || len(comps) != len(d.Doms) {
		return nil, false
	}
	vs := make([]Value, len(d.Doms))
	for i, c := range d.Doms {
		v, ok := c.Lit(comps[i])
		if !ok {
			return nil, false
		}
		vs[i] = v
	}
	return vs, true
}

func (d *Product) Str(x Value) string {
	parts := make([]string, len(d.Doms))
	for i, c := range d.Doms {
		parts[i] = c.Str(x.([]Value)[i])
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Split covers x \ y dimension by dimension: for dimension i the cover keeps
// the meet of the first i components and splits the i-th, leaving the rest of
// x untouched. Available only when every component splits.
func (d *Product) Split(x, y Value) []Value {
	if d.IsEmpty(x) {
		return nil
	}
	if d.IsEmpty(y) {
		return []Value{x}
	}
	splitters := make([]Splitter, len(d.Doms))
	for i, c := range d.Doms {
		sp, ok := c.(Splitter)
		if !ok {
			return []Value{x}
		}
		splitters[i] = sp
	}
	var cover []Value
	xs, ys := x.([]Value), y.([]Value)
	for i := range d.Doms {
		for _, part := range splitters[i].Split(xs[i], ys[i]) {
			piece := make([]Value, len(d.Doms))
			for j := range d.Doms {
				switch {
				case j < i:
					piece[j] = d.Doms[j].Meet(xs[j], ys[j])
				case j == i:
					piece[j] = part
				default:
					piece[j] = xs[j]
				}
			}
			if !d.IsEmpty(piece) {
				cover = append(cover, Value(piece))
			}
		}
	}
	return cover
}
