package domainops

import "adalyze/internal/domains"

// ProductGetter projects component i of a product element.
func ProductGetter(i int) Forward {
	return func(args ...domains.Value) domains.Value {
		return args[0].([]domains.Value)[i]
	}
}

// InvProductGetter refines the i-th component toward the expected
// projection and leaves the others unchanged.
func InvProductGetter(d *domains.Product, i int) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		prod := constrs[0]
		if d.IsEmpty(prod) || d.Doms[i].IsEmpty(expected) {
			return nil, false
		}
		refined := d.Doms[i].Meet(d.Tuple(prod)[i], expected)
		if d.Doms[i].IsEmpty(refined) {
			return nil, false
		}
		return []domains.Value{d.With(prod, i, refined)}, true
	}
}

// ProductUpdater replaces component i of a product element.
func ProductUpdater(d *domains.Product, i int) Forward {
	return func(args ...domains.Value) domains.Value {
		return d.With(args[0], i, args[1])
	}
}

// InvProductUpdater reverses an update: the expected result constrains the
// new value at i and the original product everywhere else.
func InvProductUpdater(d *domains.Product, i int) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		prod, val := constrs[0], constrs[1]
		if d.IsEmpty(expected) || d.IsEmpty(prod) || d.Doms[i].IsEmpty(val) {
			return nil, false
		}
		exp := d.Tuple(expected)
		newVal := d.Doms[i].Meet(val, exp[i])
		if d.Doms[i].IsEmpty(newVal) {
			return nil, false
		}
		newProd := make([]domains.Value, len(d.Doms))
		old := d.Tuple(prod)
		for j := range d.Doms {
			if j == i {
				newProd[j] = old[j]
				continue
			}
			newProd[j] = d.Doms[j].Meet(old[j], exp[j])
			if d.Doms[j].IsEmpty(newProd[j]) {
				return nil, false
			}
		}
		return []domains.Value{domains.Value(newProd), newVal}, true
	}
}

// ProductEq folds the component equality tests with boolean conjunction
// semantics, stopping early once the outcome is pinned to false.
func ProductEq(eqs []Forward) Forward {
	return func(args ...domains.Value) domains.Value {
		l, r := args[0].([]domains.Value), args[1].([]domains.Value)
		res := domains.Value(domains.BoolTrue)
		for i, eq := range eqs {
			res = BoolAnd(res, eq(l[i], r[i]))
			if res == domains.Value(domains.BoolFalse) || res == domains.Value(domains.BoolNone) {
				break
			}
		}
		return res
	}
}

// ProductNeq is ProductEq negated.
func ProductNeq(eqs []Forward) Forward {
	eq := ProductEq(eqs)
	return func(args ...domains.Value) domains.Value {
		return BoolNot(eq(args...))
	}
}

// InvProductEq refines every component pairwise when equality is expected.
// An expected inequality only pins a component when it is the single one
// still able to differ.
func InvProductEq(d *domains.Product, invEqs []Backward, eqs []Forward) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		e := expected.(domains.BoolElem)
		l, r := constrs[0], constrs[1]
		if e == domains.BoolNone || d.IsEmpty(l) || d.IsEmpty(r) {
			return nil, false
		}
		lt, rt := d.Tuple(l), d.Tuple(r)
		switch e {
		case domains.BoolTrue:
			newL := make([]domains.Value, len(d.Doms))
			newR := make([]domains.Value, len(d.Doms))
			for i, inv := range invEqs {
				res, ok := inv(domains.BoolTrue, lt[i], rt[i])
				if !ok {
					return nil, false
				}
				newL[i], newR[i] = res[0], res[1]
			}
			return []domains.Value{domains.Value(newL), domains.Value(newR)}, true
		case domains.BoolFalse:
			undecided := -1
			for i, eq := range eqs {
				if eq(lt[i], rt[i]).(domains.BoolElem) != domains.BoolTrue {
					if undecided >= 0 {
						return []domains.Value{l, r}, true
					}
					undecided = i
				}
			}
			if undecided < 0 {
				return nil, false
			}
			res, ok := invEqs[undecided](domains.BoolFalse, lt[undecided], rt[undecided])
			if !ok {
				return nil, false
			}
			newL := d.With(l, undecided, res[0])
			newR := d.With(r, undecided, res[1])
			return []domains.Value{newL, newR}, true
		default:
			return []domains.Value{l, r}, true
		}
	}
}

// InvProductNeq is InvProductEq with the expected outcome flipped.
func InvProductNeq(d *domains.Product, invEqs []Backward, eqs []Forward) Backward {
	invEq := InvProductEq(d, invEqs, eqs)
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		return invEq(BoolNot(expected), constrs...)
	}
}
