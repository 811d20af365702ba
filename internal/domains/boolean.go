package domains

// BoolElem is an element of the four-point boolean lattice: the empty set,
// {false}, {true}, and {false, true}, encoded as a two-bit set.
type BoolElem uint8

const (
	BoolNone  BoolElem = 0
	BoolFalse BoolElem = 1
	BoolTrue  BoolElem = 2
	BoolBoth  BoolElem = 3
)

// HasTrue reports whether the set contains the concrete value true.
func (b BoolElem) HasTrue() bool { return b&BoolTrue != 0 }

// HasFalse reports whether the set contains the concrete value false.
func (b BoolElem) HasFalse() bool { return b&BoolFalse != 0 }

// Booleans is the four-element boolean lattice.
type Booleans struct{}

// Bool is the shared boolean lattice instance.
var Bool = Booleans{}

func (Booleans) Name() string  { return "bool" }
func (Booleans) Bottom() Value { return BoolNone }
func (Booleans) Top() Value    { return BoolBoth }

func (Booleans) IsEmpty(x Value) bool { return x.(BoolElem) == BoolNone }

func (Booleans) Le(x, y Value) bool {
	a, b := x.(BoolElem), y.(BoolElem)
	return a&b == a
}

func (Booleans) Join(x, y Value) Value { return x.(BoolElem) | y.(BoolElem) }
func (Booleans) Meet(x, y Value) Value { return x.(BoolElem) & y.(BoolElem) }

func (Booleans) Size(x Value) Cardinal {
	switch x.(BoolElem) {
	case BoolNone:
		return Finite(0)
	case BoolBoth:
		return Finite(2)
	default:
		return Finite(1)
	}
}

func (Booleans) Lit(lit any) (Value, bool) {
	b, ok := lit.(bool)
	if !ok {
		return nil, false
	}
	if b {
		return BoolTrue, true
	}
	return BoolFalse, true
}

func (Booleans) Str(x Value) string {
	switch x.(BoolElem) {
	case BoolNone:
		return "{}"
	case BoolFalse:
		return "{false}"
	case BoolTrue:
		return "{true}"
	default:
		return "{false, true}"
	}
}

func (Booleans) Split(x, y Value) []Value {
	rest := x.(BoolElem) &^ y.(BoolElem)
	if rest == BoolNone {
		return nil
	}
	return []Value{rest}
}
