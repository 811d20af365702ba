package domainops

import "adalyze/internal/domains"

// Included tests membership of one abstract element in another: the result
// holds true when inclusion is certain, false when the sets are disjoint,
// and both outcomes when they partially overlap.
func Included(d domains.Domain) func(x, e domains.Value) domains.Value {
	return func(x, e domains.Value) domains.Value {
		if d.IsEmpty(x) || d.IsEmpty(e) {
			return domains.BoolNone
		}
		if d.Le(x, e) {
			return domains.BoolTrue
		}
		if d.IsEmpty(d.Meet(x, e)) {
			return domains.BoolFalse
		}
		return domains.BoolBoth
	}
}

// InvIncluded refines the element toward the container when inclusion is
// expected. The exclusion case is only decidable when inclusion was already
// certain, in which case it is infeasible.
func InvIncluded(d domains.Domain) func(expected, x, e domains.Value) (domains.Value, domains.Value, bool) {
	return func(expected, x, e domains.Value) (domains.Value, domains.Value, bool) {
		res := expected.(domains.BoolElem)
		if res == domains.BoolNone || d.IsEmpty(x) || d.IsEmpty(e) {
			return nil, nil, false
		}
		switch res {
		case domains.BoolTrue:
			m := d.Meet(x, e)
			if d.IsEmpty(m) {
				return nil, nil, false
			}
			return m, e, true
		case domains.BoolFalse:
			if d.Le(x, e) {
				return nil, nil, false
			}
			return x, e, true
		default:
			return x, e, true
		}
	}
}
