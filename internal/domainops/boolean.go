package domainops

import "adalyze/internal/domains"

// Boolean forward operations compute the set of results reachable from any
// pair of concrete operands drawn from the operand sets.

func BoolNot(args ...domains.Value) domains.Value {
	x := args[0].(domains.BoolElem)
	var res domains.BoolElem
	if x.HasTrue() {
		res |= domains.BoolFalse
	}
	if x.HasFalse() {
		res |= domains.BoolTrue
	}
	return res
}

func BoolAnd(args ...domains.Value) domains.Value {
	l, r := args[0].(domains.BoolElem), args[1].(domains.BoolElem)
	if l == domains.BoolNone || r == domains.BoolNone {
		return domains.BoolNone
	}
	var res domains.BoolElem
	if l.HasTrue() && r.HasTrue() {
		res |= domains.BoolTrue
	}
	if l.HasFalse() || r.HasFalse() {
		res |= domains.BoolFalse
	}
	return res
}

func BoolOr(args ...domains.Value) domains.Value {
	l, r := args[0].(domains.BoolElem), args[1].(domains.BoolElem)
	if l == domains.BoolNone || r == domains.BoolNone {
		return domains.BoolNone
	}
	var res domains.BoolElem
	if l.HasFalse() && r.HasFalse() {
		res |= domains.BoolFalse
	}
	if l.HasTrue() || r.HasTrue() {
		res |= domains.BoolTrue
	}
	return res
}

func InvBoolNot(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
	e := expected.(domains.BoolElem)
	c := constrs[0].(domains.BoolElem)
	refined := BoolNot(e).(domains.BoolElem) & c
	if refined == domains.BoolNone {
		return nil, false
	}
	return []domains.Value{refined}, true
}

// InvBoolAnd: an expected true forces both operands true. An expected false
// only pins an operand when the other is already known true; otherwise the
// disjunction of blame is kept as-is.
func InvBoolAnd(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
	e := expected.(domains.BoolElem)
	l, r := constrs[0].(domains.BoolElem), constrs[1].(domains.BoolElem)
	if e == domains.BoolNone || l == domains.BoolNone || r == domains.BoolNone {
		return nil, false
	}
	switch e {
	case domains.BoolTrue:
		l &= domains.BoolTrue
		r &= domains.BoolTrue
		if l == domains.BoolNone || r == domains.BoolNone {
			return nil, false
		}
		return []domains.Value{l, r}, true
	case domains.BoolFalse:
		if l == domains.BoolTrue {
			r &= domains.BoolFalse
			if r == domains.BoolNone {
				return nil, false
			}
			return []domains.Value{l, r}, true
		}
		if r == domains.BoolTrue {
			l &= domains.BoolFalse
			if l == domains.BoolNone {
				return nil, false
			}
			return []domains.Value{l, r}, true
		}
		if !l.HasFalse() && !r.HasFalse() {
			return nil, false
		}
		return []domains.Value{l, r}, true
	default:
		return []domains.Value{l, r}, true
	}
}

func InvBoolOr(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
	e := expected.(domains.BoolElem)
	l, r := constrs[0].(domains.BoolElem), constrs[1].(domains.BoolElem)
	if e == domains.BoolNone || l == domains.BoolNone || r == domains.BoolNone {
		return nil, false
	}
	switch e {
	case domains.BoolFalse:
		l &= domains.BoolFalse
		r &= domains.BoolFalse
		if l == domains.BoolNone || r == domains.BoolNone {
			return nil, false
		}
		return []domains.Value{l, r}, true
	case domains.BoolTrue:
		if l == domains.BoolFalse {
			r &= domains.BoolTrue
			if r == domains.BoolNone {
				return nil, false
			}
			return []domains.Value{l, r}, true
		}
		if r == domains.BoolFalse {
			l &= domains.BoolTrue
			if l == domains.BoolNone {
				return nil, false
			}
			return []domains.Value{l, r}, true
		}
		if !l.HasTrue() && !r.HasTrue() {
			return nil, false
		}
		return []domains.Value{l, r}, true
	default:
		return []domains.Value{l, r}, true
	}
}
