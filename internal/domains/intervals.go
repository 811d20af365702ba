package domains

import "fmt"

// Interval is an element of an interval lattice: empty, or the closed range
// [Lo, Hi].
type Interval struct {
	Lo, Hi int64
	Empty  bool
}

// Intervals is the lattice of closed integer intervals within the type
// bounds [Lo, Hi]. Join takes the enclosing interval; widening is applied by
// the evaluator, not here.
type Intervals struct {
	Lo, Hi int64
}

// NewIntervals builds the interval lattice for the bounded range [lo, hi].
func NewIntervals(lo, hi int64) *Intervals {
	if lo > hi {
		lo, hi = hi, lo
	}
	return &Intervals{Lo: lo, Hi: hi}
}

// Range builds the element [lo, hi] clamped to the domain bounds. An inverted
// range is empty.
func (d *Intervals) Range(lo, hi int64) Value {
	if lo < d.Lo {
		lo = d.Lo
	}
	if hi > d.Hi {
		hi = d.Hi
	}
	if lo > hi {
		return Interval{Empty: true}
	}
	return Interval{Lo: lo, Hi: hi}
}

func (d *Intervals) Name() string {
	return fmt.Sprintf("int[%d,%d]", d.Lo, d.Hi)
}

func (d *Intervals) Bottom() Value { return Interval{Empty: true} }
func (d *Intervals) Top() Value    { return Interval{Lo: d.Lo, Hi: d.Hi} }

func (d *Intervals) IsEmpty(x Value) bool { return x.(Interval).Empty }

func (d *Intervals) Le(x, y Value) bool {
	a, b := x.(Interval), y.(Interval)
	if a.Empty {
		return true
	}
	if b.Empty {
		return false
	}
	return b.Lo <= a.Lo && a.Hi <= b.Hi
}

func (d *Intervals) Join(x, y Value) Value {
	a, b := x.(Interval), y.(Interval)
	if a.Empty {
		return b
	}
	if b.Empty {
		return a
	}
	return Interval{Lo: min64(a.Lo, b.Lo), Hi: max64(a.Hi, b.Hi)}
}

func (d *Intervals) Meet(x, y Value) Value {
	a, b := x.(Interval), y.(Interval)
	if a.Empty || b.Empty {
		return Interval{Empty: true}
	}
	lo, hi := max64(a.Lo, b.Lo), min64(a.Hi, b.Hi)
	if lo > hi {
		return Interval{Empty: true}
	}
	return Interval{Lo: lo, Hi: hi}
}

func (d *Intervals) Size(x Value) Cardinal {
	a := x.(Interval)
	if a.Empty {
		return Finite(0)
	}
	return Finite(a.Hi - a.Lo + 1)
}

func (d *Intervals) Lit(lit any) (Value, bool) {
	var v int64
	switch n := lit.(type) {
	case int:
		v = int64(n)
	case int64:
		v = n
	default:
		return nil, false
	}
	if v < d.Lo || v > d.Hi {
		return Interval{Empty: true}, true
	}
	return Interval{Lo: v, Hi: v}, true
}

func (d *Intervals) Str(x Value) string {
	a := x.(Interval)
	if a.Empty {
		return "[]"
	}
	return fmt.Sprintf("[%d, %d]", a.Lo, a.Hi)
}

// Split covers x \ y with at most two intervals, one on each side of y.
func (d *Intervals) Split(x, y Value) []Value {
	a, b := x.(Interval), y.(Interval)
	if a.Empty {
		return nil
	}
	if b.Empty {
		return []Value{a}
	}
	var parts []Value
	if a.Lo < b.Lo {
		parts = append(parts, Interval{Lo: a.Lo, Hi: min64(a.Hi, b.Lo-1)})
	}
	if a.Hi > b.Hi {
		parts = append(parts, Interval{Lo: max64(a.Lo, b.Hi+1), Hi: a.Hi})
	}
	return parts
}

// Widen jumps unstable bounds to the domain bounds so that ascending chains
// stabilize.
func (d *Intervals) Widen(prev, next Value) Value {
	a, b := prev.(Interval), next.(Interval)
	if a.Empty {
		return b
	}
	if b.Empty {
		return a
	}
	lo, hi := a.Lo, a.Hi
	if b.Lo < a.Lo {
		lo = d.Lo
	}
	if b.Hi > a.Hi {
		hi = d.Hi
	}
	return Interval{Lo: lo, Hi: hi}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
