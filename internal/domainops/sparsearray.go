package domainops

import "adalyze/internal/domains"

// Sparse array operations work on tuple-shaped indices (elements of the
// array's index product domain). The flattening between curried IR calls and
// tuple indices is done by the type interpreter, not here.

// ArrayGet joins the elements of every entry whose slice can hold one of the
// requested indices.
func ArrayGet(d *domains.SparseArray) func(arr, idx domains.Value) domains.Value {
	return func(arr, idx domains.Value) domains.Value {
		entries, ok := d.Entries(arr)
		if !ok || d.IndexDom.IsEmpty(idx) {
			return d.ElemDom.Bottom()
		}
		res := d.ElemDom.Bottom()
		for _, e := range entries {
			if !d.IndexDom.IsEmpty(d.IndexDom.Meet(idx, e.Index)) {
				res = d.ElemDom.Join(res, e.Elem)
			}
		}
		return res
	}
}

// ArrayUpdated writes val at the given indices. A single concrete index with
// a splittable index domain is updated precisely by carving the overlapping
// slices around it; otherwise the new entry is joined in.
func ArrayUpdated(d *domains.SparseArray) func(arr, val, idx domains.Value) domains.Value {
	sp, hasSplit := d.IndexDom.(domains.Splitter)
	return func(arr, val, idx domains.Value) domains.Value {
		entries, ok := d.Entries(arr)
		if !ok {
			return d.Bottom()
		}
		if d.IndexDom.IsEmpty(idx) || d.ElemDom.IsEmpty(val) {
			return d.Bottom()
		}
		if hasSplit && d.IndexDom.Size(idx).IsOne() {
			out := make([]domains.Entry, 0, len(entries)+1)
			for _, e := range entries {
				if d.IndexDom.IsEmpty(d.IndexDom.Meet(idx, e.Index)) {
					out = append(out, e)
					continue
				}
				for _, part := range sp.Split(e.Index, idx) {
					if !d.IndexDom.IsEmpty(part) {
						out = append(out, domains.Entry{Index: part, Elem: e.Elem})
					}
				}
			}
			out = append(out, domains.Entry{Index: idx, Elem: val})
			return d.Normalized(out)
		}
		return d.Join(arr, d.FromEntries([]domains.Entry{{Index: idx, Elem: val}}))
	}
}

// ArrayIndexRange joins the slices of every entry: the set of indices the
// array constrains.
func ArrayIndexRange(d *domains.SparseArray) func(arr domains.Value) domains.Value {
	return func(arr domains.Value) domains.Value {
		entries, ok := d.Entries(arr)
		if !ok {
			return d.IndexDom.Bottom()
		}
		res := d.IndexDom.Bottom()
		for _, e := range entries {
			res = d.IndexDom.Join(res, e.Index)
		}
		return res
	}
}

// ArrayInValuesOf checks membership of x among the values the array holds,
// with an early exit once both outcomes are reachable.
func ArrayInValuesOf(d *domains.SparseArray) func(x, arr domains.Value) domains.Value {
	included := Included(d.ElemDom)
	return func(x, arr domains.Value) domains.Value {
		entries, ok := d.Entries(arr)
		if !ok {
			return domains.BoolNone
		}
		res := domains.Value(domains.BoolNone)
		for _, e := range entries {
			res = domains.Bool.Join(res, included(x, e.Elem))
			if res == domains.Value(domains.BoolBoth) {
				break
			}
		}
		return res
	}
}

// ArrayString folds pointwise updates over a flattened sequence of
// (index, element) pairs, the way aggregate literals are lowered.
func ArrayString(d *domains.SparseArray) func(args ...domains.Value) domains.Value {
	updated := ArrayUpdated(d)
	return func(args ...domains.Value) domains.Value {
		res := d.Top()
		for i := 0; i+1 < len(args); i += 2 {
			res = updated(res, args[i+1], args[i])
		}
		return res
	}
}

// InvArrayGet refines an array and index constraint from an expected read
// result. The "biggest array" holding the expected values at the constrained
// indices and Top elsewhere is met with the array constraint; when exactly
// one index survives, the array is refined by a precise update.
func InvArrayGet(d *domains.SparseArray) func(res, arrC, idxC domains.Value) (domains.Value, domains.Value, bool) {
	get := ArrayGet(d)
	updated := ArrayUpdated(d)
	sp, hasSplit := d.IndexDom.(domains.Splitter)
	return func(res, arrC, idxC domains.Value) (domains.Value, domains.Value, bool) {
		if !hasSplit {
			if d.IsEmpty(arrC) || d.IndexDom.IsEmpty(idxC) {
				return nil, nil, false
			}
			return arrC, idxC, true
		}
		biggest := []domains.Entry{{Index: idxC, Elem: res}}
		for _, part := range sp.Split(d.IndexDom.Top(), idxC) {
			if !d.IndexDom.IsEmpty(part) {
				biggest = append(biggest, domains.Entry{Index: part, Elem: d.ElemDom.Top()})
			}
		}
		met := d.Meet(d.FromEntries(biggest), arrC)
		metEntries, ok := d.Entries(met)
		if !ok {
			return nil, nil, false
		}
		indices := d.IndexDom.Bottom()
		for _, e := range metEntries {
			if d.IndexDom.Le(e.Index, idxC) && d.ElemDom.Le(e.Elem, res) {
				indices = d.IndexDom.Join(indices, e.Index)
			}
		}
		size := d.IndexDom.Size(indices)
		switch {
		case !size.Infinite && size.N == 0:
			return nil, nil, false
		case size.IsOne():
			narrowed := d.ElemDom.Meet(res, get(arrC, indices))
			return updated(arrC, narrowed, indices), indices, true
		default:
			return arrC, indices, true
		}
	}
}

// InvArrayUpdated cannot refine through an update; constraints are returned
// unchanged. Assertions over updated arrays therefore lose precision here.
func InvArrayUpdated(d *domains.SparseArray) func(res, arrC, valC, idxC domains.Value) (domains.Value, domains.Value, domains.Value, bool) {
	return func(res, arrC, valC, idxC domains.Value) (domains.Value, domains.Value, domains.Value, bool) {
		if d.IsEmpty(arrC) {
			return nil, nil, nil, false
		}
		return arrC, valC, idxC, true
	}
}

// InvArrayIndexRange keeps only the slice portions that fall inside the
// expected range.
func InvArrayIndexRange(d *domains.SparseArray) func(res, arrC domains.Value) (domains.Value, bool) {
	return func(res, arrC domains.Value) (domains.Value, bool) {
		if d.IndexDom.IsEmpty(res) || d.IsEmpty(arrC) {
			return nil, false
		}
		entries, _ := d.Entries(arrC)
		var out []domains.Entry
		for _, e := range entries {
			m := d.IndexDom.Meet(res, e.Index)
			if !d.IndexDom.IsEmpty(m) {
				out = append(out, domains.Entry{Index: m, Elem: e.Elem})
			}
		}
		return d.FromEntries(out), true
	}
}

// InvArrayInValuesOf is precise only for an expected true: each entry's
// element is narrowed to its overlap with the candidate value, and entries
// that cannot hold it are dropped from the constraint.
func InvArrayInValuesOf(d *domains.SparseArray) func(res, xC, arrC domains.Value) (domains.Value, domains.Value, bool) {
	return func(res, xC, arrC domains.Value) (domains.Value, domains.Value, bool) {
		e := res.(domains.BoolElem)
		if e == domains.BoolNone || d.ElemDom.IsEmpty(xC) || d.IsEmpty(arrC) {
			return nil, nil, false
		}
		if e != domains.BoolTrue {
			return xC, arrC, true
		}
		entries, _ := d.Entries(arrC)
		joined := d.ElemDom.Bottom()
		var refined []domains.Entry
		for _, entry := range entries {
			m := d.ElemDom.Meet(xC, entry.Elem)
			joined = d.ElemDom.Join(joined, m)
			if !d.ElemDom.IsEmpty(m) {
				refined = append(refined, domains.Entry{Index: entry.Index, Elem: m})
			}
		}
		if len(refined) == 0 || d.ElemDom.IsEmpty(joined) {
			return nil, nil, false
		}
		return joined, d.FromEntries(refined), true
	}
}
