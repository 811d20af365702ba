package domains

import (
	"fmt"
	"sort"
	"strings"
)

// MemCell is the contents of one spilled variable slot together with its
// element lattice. The lattice travels with the cell because the memory
// domain itself is untyped: each slot gets its domain from the operation
// that wrote it.
type MemCell struct {
	Dom Domain
	Val Value
}

// memNone is the bottom of the memory lattice.
type memNone struct{}

// RandomAccessMemory is the lattice of stack contents for variables whose
// address may be taken: a product keyed by variable slot index. A missing
// slot is unconstrained (Top of its lattice).
type RandomAccessMemory struct{}

// RAM is the shared memory lattice instance.
var RAM = RandomAccessMemory{}

// Cells reads the populated slots of x. ok is false when x is bottom.
func (RandomAccessMemory) Cells(x Value) (map[int]MemCell, bool) {
	if _, none := x.(memNone); none {
		return nil, false
	}
	return x.(map[int]MemCell), true
}

// FromCells normalizes a slot map into a lattice element: slots holding Top
// are dropped, a slot holding an empty value makes the whole memory empty.
func (d RandomAccessMemory) FromCells(cells map[int]MemCell) Value {
	out := make(map[int]MemCell, len(cells))
	for i, c := range cells {
		if c.Dom.IsEmpty(c.Val) {
			return memNone{}
		}
		if Eq(c.Dom, c.Val, c.Dom.Top()) {
			continue
		}
		out[i] = c
	}
	return out
}

func (RandomAccessMemory) Name() string  { return "memory" }
func (RandomAccessMemory) Bottom() Value { return memNone{} }
func (RandomAccessMemory) Top() Value    { return map[int]MemCell{} }

func (RandomAccessMemory) IsEmpty(x Value) bool {
	_, none := x.(memNone)
	return none
}

func (d RandomAccessMemory) Le(x, y Value) bool {
	if d.IsEmpty(x) {
		return true
	}
	if d.IsEmpty(y) {
		return false
	}
	xc, yc := x.(map[int]MemCell), y.(map[int]MemCell)
	for i, cy := range yc {
		cx, ok := xc[i]
		if !ok || cx.Dom.Name() != cy.Dom.Name() {
			// x leaves the slot unconstrained while y constrains it.
			return false
		}
		if !cx.Dom.Le(cx.Val, cy.Val) {
			return false
		}
	}
	return true
}

func (d RandomAccessMemory) Join(x, y Value) Value {
	if d.IsEmpty(x) {
		return y
	}
	if d.IsEmpty(y) {
		return x
	}
	xc, yc := x.(map[int]MemCell), y.(map[int]MemCell)
	out := make(map[int]MemCell)
	for i, cx := range xc {
		cy, ok := yc[i]
		if !ok || cx.Dom.Name() != cy.Dom.Name() {
			continue
		}
		out[i] = MemCell{Dom: cx.Dom, Val: cx.Dom.Join(cx.Val, cy.Val)}
	}
	return d.FromCells(out)
}

func (d RandomAccessMemory) Meet(x, y Value) Value {
	if d.IsEmpty(x) || d.IsEmpty(y) {
		return memNone{}
	}
	xc, yc := x.(map[int]MemCell), y.(map[int]MemCell)
	out := make(map[int]MemCell)
	for i, cx := range xc {
		out[i] = cx
	}
	for i, cy := range yc {
		cx, ok := out[i]
		if !ok || cx.Dom.Name() != cy.Dom.Name() {
			out[i] = cy
			continue
		}
		out[i] = MemCell{Dom: cx.Dom, Val: cx.Dom.Meet(cx.Val, cy.Val)}
	}
	return d.FromCells(out)
}

func (d RandomAccessMemory) Size(x Value) Cardinal {
	if d.IsEmpty(x) {
		return Finite(0)
	}
	return Infinite
}

func (RandomAccessMemory) Lit(lit any) (Value, bool) { return nil, false }

func (d RandomAccessMemory) Str(x Value) string {
	if d.IsEmpty(x) {
		return "<no memory>"
	}
	cells := x.(map[int]MemCell)
	idxs := make([]int, 0, len(cells))
	for i := range cells {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	parts := make([]string, len(idxs))
	for k, i := range idxs {
		parts[k] = fmt.Sprintf("v%d: %s", i, cells[i].Dom.Str(cells[i].Val))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
