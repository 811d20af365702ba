package domainops

import "adalyze/internal/domains"

// Pointer values are powersets of access paths. Addresses are created from
// variable slots, field projections and subprograms; dereference and update
// go through the random-access memory the spilled variables live in.

// VarAddress produces the address of the variable at the given slot. The
// memory argument is only threaded through for uniformity with the IR call
// shape.
func VarAddress(ptr *domains.Powerset, idx int) Forward {
	return func(args ...domains.Value) domains.Value {
		return ptr.Of(domains.Value(domains.VarPath{Index: idx}))
	}
}

func InvVarAddress(ptr *domains.Powerset, idx int) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		if ptr.IsEmpty(expected) {
			return nil, false
		}
		m := ptr.Meet(expected, ptr.Of(domains.Value(domains.VarPath{Index: idx})))
		if ptr.IsEmpty(m) {
			return nil, false
		}
		return Unrefined(constrs)
	}
}

// FieldAddress projects every path of the operand into the given field.
func FieldAddress(ptr *domains.Powerset, field int) Forward {
	return func(args ...domains.Value) domains.Value {
		var out []domains.Value
		for _, p := range ptr.Elems(args[0]) {
			switch path := p.(type) {
			case domains.NullPath, domains.AnyPath:
				out = append(out, p)
			case domains.Path:
				out = append(out, domains.Value(domains.FieldPath{Index: field, Inner: path}))
			}
		}
		return ptr.Of(out...)
	}
}

// InvFieldAddress strips the field projection back off the expected paths.
func InvFieldAddress(ptr *domains.Powerset, field int) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		if ptr.IsEmpty(expected) {
			return nil, false
		}
		base := constrs[0]
		var stripped []domains.Value
		for _, p := range ptr.Elems(expected) {
			switch path := p.(type) {
			case domains.FieldPath:
				if path.Index == field {
					stripped = append(stripped, domains.Value(path.Inner))
				}
			case domains.AnyPath:
				stripped = append(stripped, p)
			}
		}
		if len(stripped) == 0 {
			return nil, false
		}
		refined := ptr.Meet(base, ptr.Of(stripped...))
		if ptr.IsEmpty(refined) {
			return nil, false
		}
		return []domains.Value{refined}, true
	}
}

// SubpAddress produces the address of a subprogram, carrying its
// forward/backward pair for later calls through the pointer.
func SubpAddress(ptr *domains.Powerset, name string, defs any) Forward {
	return func(args ...domains.Value) domains.Value {
		return ptr.Of(domains.Value(domains.SubpPath{Name: name, Defs: defs}))
	}
}

func InvSubpAddress() Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		return Unrefined(constrs)
	}
}

// Deref reads through a pointer: variable addresses read their memory slot,
// null contributes nothing, an unknown address yields Top of the element
// lattice.
func Deref(ptr *domains.Powerset, out domains.Domain) Forward {
	return func(args ...domains.Value) domains.Value {
		ptrVal := args[0]
		res := out.Bottom()
		var mem domains.Value
		if len(args) > 1 {
			mem = args[1]
		}
		for _, p := range ptr.Elems(ptrVal) {
			switch path := p.(type) {
			case domains.NullPath:
				// Dereferencing null has no successor state; the deref
				// checker reports it separately.
			case domains.VarPath:
				res = out.Join(res, readSlot(mem, path.Index, out))
			default:
				res = out.Join(res, out.Top())
			}
		}
		return res
	}
}

func readSlot(mem domains.Value, idx int, out domains.Domain) domains.Value {
	if mem == nil {
		return out.Top()
	}
	cells, ok := domains.RAM.Cells(mem)
	if !ok {
		return out.Bottom()
	}
	if c, present := cells[idx]; present && c.Dom.Name() == out.Name() {
		return c.Val
	}
	return out.Top()
}

// InvDeref drops null from the pointer constraint; when a single variable
// address remains, its memory slot is narrowed to the expected value.
func InvDeref(ptr *domains.Powerset, out domains.Domain) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		if out.IsEmpty(expected) || ptr.IsEmpty(constrs[0]) {
			return nil, false
		}
		var nonNull []domains.Value
		for _, p := range ptr.Elems(constrs[0]) {
			if _, isNull := p.(domains.NullPath); !isNull {
				nonNull = append(nonNull, p)
			}
		}
		if len(nonNull) == 0 {
			return nil, false
		}
		refined := make([]domains.Value, len(constrs))
		copy(refined, constrs)
		refined[0] = ptr.Of(nonNull...)
		if len(constrs) > 1 {
			if vp, single := singleVar(nonNull); single {
				mem, ok := narrowSlot(constrs[1], vp.Index, out, expected)
				if !ok {
					return nil, false
				}
				refined[1] = mem
			}
		}
		return refined, true
	}
}

func singleVar(paths []domains.Value) (domains.VarPath, bool) {
	if len(paths) != 1 {
		return domains.VarPath{}, false
	}
	vp, ok := paths[0].(domains.VarPath)
	return vp, ok
}

func narrowSlot(mem domains.Value, idx int, dom domains.Domain, expected domains.Value) (domains.Value, bool) {
	cells, ok := domains.RAM.Cells(mem)
	if !ok {
		return nil, false
	}
	cur := dom.Top()
	if c, present := cells[idx]; present && c.Dom.Name() == dom.Name() {
		cur = c.Val
	}
	refined := dom.Meet(cur, expected)
	if dom.IsEmpty(refined) {
		return nil, false
	}
	out := make(map[int]domains.MemCell, len(cells)+1)
	for i, c := range cells {
		out[i] = c
	}
	out[idx] = domains.MemCell{Dom: dom, Val: refined}
	return domains.RAM.FromCells(out), true
}

// PtrUpdated writes through a pointer into memory: a single variable address
// updates its slot strongly, several candidates update weakly, an unknown
// address havocs the memory.
func PtrUpdated(ptr *domains.Powerset, valDom domains.Domain) Forward {
	return func(args ...domains.Value) domains.Value {
		mem, ptrVal, val := args[0], args[1], args[2]
		cells, ok := domains.RAM.Cells(mem)
		if !ok {
			return domains.RAM.Bottom()
		}
		paths := ptr.Elems(ptrVal)
		if vp, single := singleVar(paths); single {
			out := cloneCells(cells)
			out[vp.Index] = domains.MemCell{Dom: valDom, Val: val}
			return domains.RAM.FromCells(out)
		}
		out := cloneCells(cells)
		for _, p := range paths {
			switch path := p.(type) {
			case domains.VarPath:
				if c, present := out[path.Index]; present && c.Dom.Name() == valDom.Name() {
					out[path.Index] = domains.MemCell{Dom: valDom, Val: valDom.Join(c.Val, val)}
				} else {
					delete(out, path.Index)
				}
			case domains.NullPath:
			default:
				// Unknown target: every slot may have been written.
				return domains.RAM.Top()
			}
		}
		return domains.RAM.FromCells(out)
	}
}

func cloneCells(cells map[int]domains.MemCell) map[int]domains.MemCell {
	out := make(map[int]domains.MemCell, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

func InvPtrUpdated() Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		return Unrefined(constrs)
	}
}

// PtrCall invokes through a subprogram pointer. When every candidate is the
// same subprogram its forward implementation is applied; otherwise the
// result is unknown.
func PtrCall(ptr *domains.Powerset, out domains.Domain) Forward {
	return func(args ...domains.Value) domains.Value {
		paths := ptr.Elems(args[0])
		if len(paths) == 1 {
			if sp, ok := paths[0].(domains.SubpPath); ok {
				if fwd, ok := sp.Defs.(Forward); ok {
					return fwd(args[1:]...)
				}
			}
		}
		return out.Top()
	}
}

func InvPtrCall() Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		return Unrefined(constrs)
	}
}

// PtrEq compares address sets: singletons decide, overlap keeps both
// outcomes. An unknown address keeps both outcomes as well since distinct
// paths may alias it.
func PtrEq(ptr *domains.Powerset) Forward {
	return func(args ...domains.Value) domains.Value {
		l, r := ptr.Elems(args[0]), ptr.Elems(args[1])
		if len(l) == 0 || len(r) == 0 {
			return domains.BoolNone
		}
		var res domains.BoolElem
		for _, pl := range l {
			for _, pr := range r {
				_, anyL := pl.(domains.AnyPath)
				_, anyR := pr.(domains.AnyPath)
				if anyL || anyR {
					return domains.BoolBoth
				}
				if domains.PathEq(pl.(domains.Path), pr.(domains.Path)) {
					res |= domains.BoolTrue
				} else {
					res |= domains.BoolFalse
				}
			}
		}
		return res
	}
}

func PtrNeq(ptr *domains.Powerset) Forward {
	eq := PtrEq(ptr)
	return func(args ...domains.Value) domains.Value {
		return BoolNot(eq(args...))
	}
}

// InvPtrEq narrows both sides to their overlap when equality is expected
// and drops a known singleton from the other side when inequality is.
func InvPtrEq(ptr *domains.Powerset) Backward {
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		e := expected.(domains.BoolElem)
		l, r := constrs[0], constrs[1]
		if e == domains.BoolNone || ptr.IsEmpty(l) || ptr.IsEmpty(r) {
			return nil, false
		}
		switch e {
		case domains.BoolTrue:
			m := ptr.Meet(l, r)
			if ptr.IsEmpty(m) {
				return nil, false
			}
			return []domains.Value{m, m}, true
		case domains.BoolFalse:
			newL, newR := dropSingleton(ptr, l, r), dropSingleton(ptr, r, l)
			if ptr.IsEmpty(newL) || ptr.IsEmpty(newR) {
				return nil, false
			}
			return []domains.Value{newL, newR}, true
		default:
			return []domains.Value{l, r}, true
		}
	}
}

// dropSingleton removes the other side's single concrete path from x.
func dropSingleton(ptr *domains.Powerset, x, other domains.Value) domains.Value {
	os := ptr.Elems(other)
	if len(os) != 1 {
		return x
	}
	op, ok := os[0].(domains.Path)
	if !ok {
		return x
	}
	if _, any := op.(domains.AnyPath); any {
		return x
	}
	var kept []domains.Value
	for _, p := range ptr.Elems(x) {
		if pp, isPath := p.(domains.Path); isPath && domains.PathEq(pp, op) {
			continue
		}
		kept = append(kept, p)
	}
	return ptr.Of(kept...)
}

func InvPtrNeq(ptr *domains.Powerset) Backward {
	invEq := InvPtrEq(ptr)
	return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
		return invEq(BoolNot(expected), constrs...)
	}
}
