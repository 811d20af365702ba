// Package types models the source types the analyzer interprets. Each type
// is a small immutable value; Key returns a canonical string used to memoize
// interpretations so that identical types share one abstract domain.
package types

import (
	"fmt"
	"strings"
)

// Type is a source type as seen by the IR.
type Type interface {
	typeNode()
	Key() string
}

// Boolean is the source boolean type.
type Boolean struct{}

// ASCIICharacter is the 7-bit character type.
type ASCIICharacter struct{}

// IntRange is a bounded integer range type.
type IntRange struct {
	Frm, To int64
}

// RealRange is a real range type; the analyzer has no precise model for it.
type RealRange struct{}

// Enum is an enumeration with named literals.
type Enum struct {
	Lits []string
}

// Pointer is an access type designating Elem.
type Pointer struct {
	Elem Type
}

// Product is a record with positional components.
type Product struct {
	Elems []Type
}

// Array maps index tuples to components.
type Array struct {
	Indices   []Type
	Component Type
}

// DataStorage is the stack of spilled variables whose address may be taken.
type DataStorage struct{}

// Modeled pairs an actual type with a ghost model type used by contract
// reasoning.
type Modeled struct {
	Actual, Model Type
}

// Unknown is a type the front-end could not resolve.
type Unknown struct{}

// UniversalInt is the placeholder type of integer literals before the
// universal-type rewrite picks a concrete compatible type.
type UniversalInt struct{}

// UniversalReal is the real counterpart of UniversalInt.
type UniversalReal struct{}

func (Boolean) typeNode()        {}
func (ASCIICharacter) typeNode() {}
func (IntRange) typeNode()       {}
func (RealRange) typeNode()      {}
func (Enum) typeNode()           {}
func (Pointer) typeNode()        {}
func (Product) typeNode()        {}
func (Array) typeNode()          {}
func (DataStorage) typeNode()    {}
func (Modeled) typeNode()        {}
func (Unknown) typeNode()        {}
func (UniversalInt) typeNode()   {}
func (UniversalReal) typeNode()  {}

func (Boolean) Key() string        { return "bool" }
func (ASCIICharacter) Key() string { return "char" }
func (t IntRange) Key() string     { return fmt.Sprintf("int[%d,%d]", t.Frm, t.To) }
func (RealRange) Key() string      { return "real" }
func (t Enum) Key() string         { return "enum{" + strings.Join(t.Lits, ",") + "}" }
func (t Pointer) Key() string      { return "ptr(" + t.Elem.Key() + ")" }

func (t Product) Key() string {
	keys := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		keys[i] = e.Key()
	}
	return "record(" + strings.Join(keys, ",") + ")"
}

func (t Array) Key() string {
	keys := make([]string, len(t.Indices))
	for i, ix := range t.Indices {
		keys[i] = ix.Key()
	}
	return "array[" + strings.Join(keys, ",") + "](" + t.Component.Key() + ")"
}

func (DataStorage) Key() string  { return "mem" }
func (t Modeled) Key() string    { return "modeled(" + t.Actual.Key() + "," + t.Model.Key() + ")" }
func (Unknown) Key() string      { return "unknown" }
func (UniversalInt) Key() string { return "universal-int" }
func (UniversalReal) Key() string {
	return "universal-real"
}

// DefaultInteger is the concrete type substituted for universal integers
// when no context pins another one.
var DefaultInteger = IntRange{Frm: -(1 << 31), To: 1<<31 - 1}

// IsUniversal reports whether t is a universal placeholder.
func IsUniversal(t Type) bool {
	switch t.(type) {
	case UniversalInt, UniversalReal:
		return true
	}
	return false
}
