package domainops

import "adalyze/internal/domains"

// Random-access memory operations address spilled variables by slot index.
// The element lattice of each slot comes from the operation's signature.

// RAMGetter reads slot idx; a missing slot is unconstrained.
func RAMGetter(idx int, out domains.Domain) Forward {
	return func(args ...domains.Value) domains.Value {
		cells, ok := domains.RAM.Cells(args[0])
		if !ok {
			return out.Bottom()
		}
		if c, present := cells[idx]; present && c.Dom.Name() == out.Name() {
			return c.Val
		}
		return out.Top()
	}
}

func InvRAMGetter(idx int, out domains.Domain) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		if out.IsEmpty(expected) {
			return nil, false
		}
		mem, ok := narrowSlot(constrs[0], idx, out, expected)
		if !ok {
			return nil, false
		}
		return []domains.Value{mem}, true
	}
}

// RAMUpdater writes slot idx strongly.
func RAMUpdater(idx int, valDom domains.Domain) Forward {
	return func(args ...domains.Value) domains.Value {
		cells, ok := domains.RAM.Cells(args[0])
		if !ok {
			return domains.RAM.Bottom()
		}
		if valDom.IsEmpty(args[1]) {
			return domains.RAM.Bottom()
		}
		out := cloneCells(cells)
		out[idx] = domains.MemCell{Dom: valDom, Val: args[1]}
		return domains.RAM.FromCells(out)
	}
}

// InvRAMUpdater reverses a slot write: the expected memory constrains the
// written value at idx and the original memory everywhere else.
func InvRAMUpdater(idx int, valDom domains.Domain) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		expCells, ok := domains.RAM.Cells(expected)
		if !ok {
			return nil, false
		}
		mem, val := constrs[0], constrs[1]
		if domains.RAM.IsEmpty(mem) || valDom.IsEmpty(val) {
			return nil, false
		}
		if c, present := expCells[idx]; present && c.Dom.Name() == valDom.Name() {
			val = valDom.Meet(val, c.Val)
			if valDom.IsEmpty(val) {
				return nil, false
			}
		}
		rest := cloneCells(expCells)
		delete(rest, idx)
		refined := domains.RAM.Meet(mem, domains.RAM.FromCells(rest))
		if domains.RAM.IsEmpty(refined) {
			return nil, false
		}
		return []domains.Value{refined, val}, true
	}
}

// RAMOffsetter rebases the slot indexing by off, reserving a region for the
// locals of a new frame.
func RAMOffsetter(off int) Forward {
	return func(args ...domains.Value) domains.Value {
		cells, ok := domains.RAM.Cells(args[0])
		if !ok {
			return domains.RAM.Bottom()
		}
		out := make(map[int]domains.MemCell, len(cells))
		for i, c := range cells {
			out[i+off] = c
		}
		return domains.RAM.FromCells(out)
	}
}

func InvRAMOffsetter(off int) Backward {
	shift := RAMOffsetter(-off)
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		if domains.RAM.IsEmpty(expected) {
			return nil, false
		}
		refined := domains.RAM.Meet(constrs[0], shift(expected))
		if domains.RAM.IsEmpty(refined) {
			return nil, false
		}
		return []domains.Value{refined}, true
	}
}

// RAMCopyOffset propagates the callee-visible portion of memory back into
// the caller's view: the callee's slots overwrite the caller's.
func RAMCopyOffset(args ...domains.Value) domains.Value {
	caller, okC := domains.RAM.Cells(args[0])
	callee, okE := domains.RAM.Cells(args[1])
	if !okC || !okE {
		return domains.RAM.Bottom()
	}
	out := cloneCells(caller)
	for i, c := range callee {
		out[i] = c
	}
	return domains.RAM.FromCells(out)
}

func InvRAMCopyOffset(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
	if domains.RAM.IsEmpty(expected) {
		return nil, false
	}
	return Unrefined(constrs)
}

// Memory equality cannot be decided without the element lattices of every
// slot; the forward answer is unconstrained and the backward one refines
// nothing.
func RAMEq(args ...domains.Value) domains.Value {
	return domains.BoolBoth
}

func RAMNeq(args ...domains.Value) domains.Value {
	return domains.BoolBoth
}

func InvRAMEq(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
	if expected.(domains.BoolElem) == domains.BoolNone {
		return nil, false
	}
	return Unrefined(constrs)
}

func InvRAMNeq(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
	return InvRAMEq(BoolNot(expected), constrs...)
}
