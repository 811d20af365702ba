package domainops

import "adalyze/internal/domains"

// Interval arithmetic has no wrap-around model: results are the enclosing
// interval clamped to the domain bounds, and overflow is not tracked here.

func IntervalAdd(d *domains.Intervals) Forward {
	return func(args ...domains.Value) domains.Value {
		l, r := args[0].(domains.Interval), args[1].(domains.Interval)
		if l.Empty || r.Empty {
			return d.Bottom()
		}
		return d.Range(l.Lo+r.Lo, l.Hi+r.Hi)
	}
}

func IntervalSub(d *domains.Intervals) Forward {
	return func(args ...domains.Value) domains.Value {
		l, r := args[0].(domains.Interval), args[1].(domains.Interval)
		if l.Empty || r.Empty {
			return d.Bottom()
		}
		return d.Range(l.Lo-r.Hi, l.Hi-r.Lo)
	}
}

func IntervalNeg(d *domains.Intervals) Forward {
	return func(args ...domains.Value) domains.Value {
		x := args[0].(domains.Interval)
		if x.Empty {
			return d.Bottom()
		}
		return d.Range(-x.Hi, -x.Lo)
	}
}

// InvIntervalAdd solves l + r in [a, b] for each operand given the other's
// constraint: l is narrowed to [a - r.Hi, b - r.Lo] and symmetrically.
func InvIntervalAdd(d *domains.Intervals) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		e := expected.(domains.Interval)
		l, r := constrs[0].(domains.Interval), constrs[1].(domains.Interval)
		if e.Empty || l.Empty || r.Empty {
			return nil, false
		}
		newL := d.Meet(l, domains.Interval{Lo: e.Lo - r.Hi, Hi: e.Hi - r.Lo})
		newR := d.Meet(r, domains.Interval{Lo: e.Lo - l.Hi, Hi: e.Hi - l.Lo})
		if d.IsEmpty(newL) || d.IsEmpty(newR) {
			return nil, false
		}
		return []domains.Value{newL, newR}, true
	}
}

func InvIntervalSub(d *domains.Intervals) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		e := expected.(domains.Interval)
		l, r := constrs[0].(domains.Interval), constrs[1].(domains.Interval)
		if e.Empty || l.Empty || r.Empty {
			return nil, false
		}
		newL := d.Meet(l, domains.Interval{Lo: e.Lo + r.Lo, Hi: e.Hi + r.Hi})
		newR := d.Meet(r, domains.Interval{Lo: l.Lo - e.Hi, Hi: l.Hi - e.Lo})
		if d.IsEmpty(newL) || d.IsEmpty(newR) {
			return nil, false
		}
		return []domains.Value{newL, newR}, true
	}
}

func InvIntervalNeg(d *domains.Intervals) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		e := expected.(domains.Interval)
		x := constrs[0].(domains.Interval)
		if e.Empty || x.Empty {
			return nil, false
		}
		refined := d.Meet(x, domains.Interval{Lo: -e.Hi, Hi: -e.Lo})
		if d.IsEmpty(refined) {
			return nil, false
		}
		return []domains.Value{refined}, true
	}
}

func IntervalLt(d *domains.Intervals) Forward {
	return func(args ...domains.Value) domains.Value {
		l, r := args[0].(domains.Interval), args[1].(domains.Interval)
		if l.Empty || r.Empty {
			return domains.BoolNone
		}
		if l.Hi < r.Lo {
			return domains.BoolTrue
		}
		if l.Lo >= r.Hi {
			return domains.BoolFalse
		}
		return domains.BoolBoth
	}
}

func IntervalLe(d *domains.Intervals) Forward {
	return func(args ...domains.Value) domains.Value {
		l, r := args[0].(domains.Interval), args[1].(domains.Interval)
		if l.Empty || r.Empty {
			return domains.BoolNone
		}
		if l.Hi <= r.Lo {
			return domains.BoolTrue
		}
		if l.Lo > r.Hi {
			return domains.BoolFalse
		}
		return domains.BoolBoth
	}
}

func IntervalGt(d *domains.Intervals) Forward {
	lt := IntervalLt(d)
	return func(args ...domains.Value) domains.Value {
		return lt(args[1], args[0])
	}
}

func IntervalGe(d *domains.Intervals) Forward {
	le := IntervalLe(d)
	return func(args ...domains.Value) domains.Value {
		return le(args[1], args[0])
	}
}

// refineLt narrows l strictly below r and r strictly above l.
func refineLt(d *domains.Intervals, l, r domains.Interval) (domains.Interval, domains.Interval, bool) {
	newL := d.Meet(l, domains.Interval{Lo: d.Lo, Hi: r.Hi - 1}).(domains.Interval)
	newR := d.Meet(r, domains.Interval{Lo: l.Lo + 1, Hi: d.Hi}).(domains.Interval)
	if newL.Empty || newR.Empty {
		return newL, newR, false
	}
	return newL, newR, true
}

// refineLe narrows l below-or-equal r and r above-or-equal l.
func refineLe(d *domains.Intervals, l, r domains.Interval) (domains.Interval, domains.Interval, bool) {
	newL := d.Meet(l, domains.Interval{Lo: d.Lo, Hi: r.Hi}).(domains.Interval)
	newR := d.Meet(r, domains.Interval{Lo: l.Lo, Hi: d.Hi}).(domains.Interval)
	if newL.Empty || newR.Empty {
		return newL, newR, false
	}
	return newL, newR, true
}

func InvIntervalLt(d *domains.Intervals) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		e := expected.(domains.BoolElem)
		l, r := constrs[0].(domains.Interval), constrs[1].(domains.Interval)
		if e == domains.BoolNone || l.Empty || r.Empty {
			return nil, false
		}
		switch e {
		case domains.BoolTrue:
			newL, newR, ok := refineLt(d, l, r)
			if !ok {
				return nil, false
			}
			return []domains.Value{newL, newR}, true
		case domains.BoolFalse:
			newR, newL, ok := refineLe(d, r, l)
			if !ok {
				return nil, false
			}
			return []domains.Value{newL, newR}, true
		default:
			return []domains.Value{l, r}, true
		}
	}
}

func InvIntervalLe(d *domains.Intervals) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		e := expected.(domains.BoolElem)
		l, r := constrs[0].(domains.Interval), constrs[1].(domains.Interval)
		if e == domains.BoolNone || l.Empty || r.Empty {
			return nil, false
		}
		switch e {
		case domains.BoolTrue:
			newL, newR, ok := refineLe(d, l, r)
			if !ok {
				return nil, false
			}
			return []domains.Value{newL, newR}, true
		case domains.BoolFalse:
			newR, newL, ok := refineLt(d, r, l)
			if !ok {
				return nil, false
			}
			return []domains.Value{newL, newR}, true
		default:
			return []domains.Value{l, r}, true
		}
	}
}

func InvIntervalGt(d *domains.Intervals) Backward {
	invLt := InvIntervalLt(d)
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		res, ok := invLt(expected, constrs[1], constrs[0])
		if !ok {
			return nil, false
		}
		return []domains.Value{res[1], res[0]}, true
	}
}

func InvIntervalGe(d *domains.Intervals) Backward {
	invLe := InvIntervalLe(d)
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		res, ok := invLe(expected, constrs[1], constrs[0])
		if !ok {
			return nil, false
		}
		return []domains.Value{res[1], res[0]}, true
	}
}
