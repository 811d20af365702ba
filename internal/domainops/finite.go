package domainops

import "adalyze/internal/domains"

// Eq builds the forward equality test for any lattice: two singleton sets
// decide the answer, a non-empty overlap of larger sets keeps both outcomes.
func Eq(d domains.Domain) Forward {
	return func(args ...domains.Value) domains.Value {
		l, r := args[0], args[1]
		if d.IsEmpty(l) || d.IsEmpty(r) {
			return domains.BoolNone
		}
		if d.IsEmpty(d.Meet(l, r)) {
			return domains.BoolFalse
		}
		if d.Size(l).IsOne() && d.Size(r).IsOne() {
			return domains.BoolTrue
		}
		return domains.BoolBoth
	}
}

// Neq is equality with the outcome flipped.
func Neq(d domains.Domain) Forward {
	eq := Eq(d)
	return func(args ...domains.Value) domains.Value {
		return BoolNot(eq(args...))
	}
}

// InvEq refines both sides toward their meet when equality is expected, and
// carves a known singleton out of the other side when inequality is.
func InvEq(d domains.Domain) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		e := expected.(domains.BoolElem)
		l, r := constrs[0], constrs[1]
		if e == domains.BoolNone || d.IsEmpty(l) || d.IsEmpty(r) {
			return nil, false
		}
		switch e {
		case domains.BoolTrue:
			m := d.Meet(l, r)
			if d.IsEmpty(m) {
				return nil, false
			}
			return []domains.Value{m, m}, true
		case domains.BoolFalse:
			if d.Size(l).IsOne() && d.Size(r).IsOne() && domains.Eq(d, l, r) {
				return nil, false
			}
			if d.Size(l).IsOne() {
				r = subtract(d, r, l)
				if d.IsEmpty(r) {
					return nil, false
				}
			} else if d.Size(r).IsOne() {
				l = subtract(d, l, r)
				if d.IsEmpty(l) {
					return nil, false
				}
			}
			return []domains.Value{l, r}, true
		default:
			return []domains.Value{l, r}, true
		}
	}
}

// InvNeq is InvEq with the expected outcome flipped.
func InvNeq(d domains.Domain) Backward {
	invEq := InvEq(d)
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		return invEq(BoolNot(expected), constrs...)
	}
}
