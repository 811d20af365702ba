package interp

import (
	"adalyze/internal/domainops"
	"adalyze/internal/domains"
	"adalyze/internal/transformer"
	"adalyze/internal/types"
)

// TypeInterpretation is how a source type is represented during abstract
// interpretation: the domain its values live in, a builder for the provider
// of its operations, and a builder for literal elements.
type TypeInterpretation struct {
	Domain          domains.Domain
	ProviderBuilder ProviderBuilder
	Lit             func(lit any) (domains.Value, bool)
}

// TypeInterpreter transforms source types into interpretations. Interpreters
// compose by alternation; the first one that matches a type wins.
type TypeInterpreter = transformer.Transformer[types.Type, *TypeInterpretation]

// NewUniverseInterpretation interprets a type with the one-point lattice:
// every operation answer is Top.
func NewUniverseInterpretation() *TypeInterpretation {
	dom := domains.Universe{}
	return &TypeInterpretation{
		Domain:          dom,
		ProviderBuilder: ConstBuilder(NoDefs),
		Lit: func(any) (domains.Value, bool) {
			return dom.Top(), true
		},
	}
}

// BooleanInterpreter interprets the source boolean type with the four-point
// boolean lattice.
func BooleanInterpreter(tpe types.Type) (*TypeInterpretation, bool) {
	if _, ok := tpe.(types.Boolean); !ok {
		return nil, false
	}
	boolDom := domains.Bool
	unSig := signer([]domains.Domain{boolDom}, boolDom)
	binSig := signer([]domains.Domain{boolDom, boolDom}, boolDom)

	defs := map[string]Def{
		unSig(OpNot).Key():  {Fwd: domainops.BoolNot, Bwd: domainops.InvBoolNot},
		binSig(OpAnd).Key(): {Fwd: domainops.BoolAnd, Bwd: domainops.InvBoolAnd},
		binSig(OpOr).Key():  {Fwd: domainops.BoolOr, Bwd: domainops.InvBoolOr},
		binSig(OpEq).Key():  {Fwd: domainops.Eq(boolDom), Bwd: domainops.InvEq(boolDom)},
		binSig(OpNeq).Key(): {Fwd: domainops.Neq(boolDom), Bwd: domainops.InvNeq(boolDom)},
	}

	return &TypeInterpretation{
		Domain:          boolDom,
		ProviderBuilder: ConstBuilder(DictProvider(defs)),
		Lit:             boolDom.Lit,
	}, true
}

// IntRangeInterpreter interprets bounded integer ranges with the interval
// lattice over the type bounds.
func IntRangeInterpreter(tpe types.Type) (*TypeInterpretation, bool) {
	rng, ok := tpe.(types.IntRange)
	if !ok {
		return nil, false
	}
	intDom := domains.NewIntervals(rng.Frm, rng.To)
	boolDom := domains.Bool

	unSig := signer([]domains.Domain{intDom}, intDom)
	binSig := signer([]domains.Domain{intDom, intDom}, intDom)
	relSig := signer([]domains.Domain{intDom, intDom}, boolDom)

	defs := map[string]Def{
		binSig(OpAdd).Key(): {Fwd: domainops.IntervalAdd(intDom), Bwd: domainops.InvIntervalAdd(intDom)},
		binSig(OpSub).Key(): {Fwd: domainops.IntervalSub(intDom), Bwd: domainops.InvIntervalSub(intDom)},
		unSig(OpNeg).Key():  {Fwd: domainops.IntervalNeg(intDom), Bwd: domainops.InvIntervalNeg(intDom)},
		relSig(OpLt).Key():  {Fwd: domainops.IntervalLt(intDom), Bwd: domainops.InvIntervalLt(intDom)},
		relSig(OpLe).Key():  {Fwd: domainops.IntervalLe(intDom), Bwd: domainops.InvIntervalLe(intDom)},
		relSig(OpEq).Key():  {Fwd: domainops.Eq(intDom), Bwd: domainops.InvEq(intDom)},
		relSig(OpNeq).Key(): {Fwd: domainops.Neq(intDom), Bwd: domainops.InvNeq(intDom)},
		relSig(OpGe).Key():  {Fwd: domainops.IntervalGe(intDom), Bwd: domainops.InvIntervalGe(intDom)},
		relSig(OpGt).Key():  {Fwd: domainops.IntervalGt(intDom), Bwd: domainops.InvIntervalGt(intDom)},
	}

	return &TypeInterpretation{
		Domain:          intDom,
		ProviderBuilder: ConstBuilder(DictProvider(defs)),
		Lit:             intDom.Lit,
	}, true
}

// CharInterpreter reinterprets ASCII characters over the 0..127 interval,
// building literals through their code points.
func CharInterpreter(intInterpreter TypeInterpreter) TypeInterpreter {
	return func(tpe types.Type) (*TypeInterpretation, bool) {
		if _, ok := tpe.(types.ASCIICharacter); !ok {
			return nil, false
		}
		inner, ok := intInterpreter(types.IntRange{Frm: 0, To: 127})
		if !ok {
			return nil, false
		}
		return &TypeInterpretation{
			Domain:          inner.Domain,
			ProviderBuilder: inner.ProviderBuilder,
			Lit: func(lit any) (domains.Value, bool) {
				switch c := lit.(type) {
				case rune:
					return inner.Lit(int64(c))
				case byte:
					return inner.Lit(int64(c))
				case string:
					if len(c) == 1 {
						return inner.Lit(int64(c[0]))
					}
				}
				return nil, false
			},
		}, true
	}
}

// RealRangeInterpreter has no precise model for reals and falls back to the
// universe lattice.
func RealRangeInterpreter(tpe types.Type) (*TypeInterpretation, bool) {
	if _, ok := tpe.(types.RealRange); !ok {
		return nil, false
	}
	return NewUniverseInterpretation(), true
}

// EnumInterpreter interprets enumerations: carriers of at most four literals
// get the lattice built by PowersetOf, larger ones the one built by
// FiniteSubsetsOf (the same bitset lattice under another name).
func EnumInterpreter(tpe types.Type) (*TypeInterpretation, bool) {
	enum, ok := tpe.(types.Enum)
	if !ok {
		return nil, false
	}
	var enumDom *domains.FiniteSubsets
	if len(enum.Lits) < 5 {
		enumDom = domains.PowersetOf(enum.Lits...)
	} else {
		enumDom = domains.FiniteSubsetsOf(enum.Lits...)
	}
	relSig := signer([]domains.Domain{enumDom, enumDom}, domains.Bool)

	defs := map[string]Def{
		relSig(OpEq).Key():  {Fwd: domainops.Eq(enumDom), Bwd: domainops.InvEq(enumDom)},
		relSig(OpNeq).Key(): {Fwd: domainops.Neq(enumDom), Bwd: domainops.InvNeq(enumDom)},
	}

	return &TypeInterpretation{
		Domain:          enumDom,
		ProviderBuilder: ConstBuilder(DictProvider(defs)),
		Lit:             enumDom.Lit,
	}, true
}

// PointerInterpreter interprets access types as bounded powersets of access
// paths, merging paths that are comparable or reach into each other. It
// provides address formation, dereference, calls and update through memory,
// and pointer comparisons.
func PointerInterpreter(inner TypeInterpreter) TypeInterpreter {
	return func(tpe types.Type) (*TypeInterpretation, bool) {
		ptrType, ok := tpe.(types.Pointer)
		if !ok {
			return nil, false
		}
		elemInterp, ok := inner(ptrType.Elem)
		if !ok {
			return nil, false
		}
		pathLat := domains.AccessPathsLattice{}
		ptrDom := domains.NewPowerset(pathLat, domains.TouchMerge(pathLat), []domains.Value{domains.AnyPath{}})
		ptrDom.Label = "ptr(" + elemInterp.Domain.Name() + ")"
		boolDom := domains.Bool
		relSig := signer([]domains.Domain{ptrDom, ptrDom}, boolDom)

		provideSimple := func(sig Signature) (Def, bool) {
			switch name := sig.Name.(type) {
			case VarName:
				if sig.Output != nil && sig.Output.Name() == ptrDom.Name() {
					return Def{
						Fwd: domainops.VarAddress(ptrDom, name.Index),
						Bwd: domainops.InvVarAddress(ptrDom, name.Index),
					}, true
				}
			case FieldName:
				if sig.Output != nil && sig.Output.Name() == ptrDom.Name() {
					return Def{
						Fwd: domainops.FieldAddress(ptrDom, name.Index),
						Bwd: domainops.InvFieldAddress(ptrDom, name.Index),
					}, true
				}
			case Tag:
				switch {
				case name == OpDeref && len(sig.Inputs) >= 1 && sig.Inputs[0].Name() == ptrDom.Name():
					return Def{
						Fwd: domainops.Deref(ptrDom, sig.Output),
						Bwd: domainops.InvDeref(ptrDom, sig.Output),
					}, true
				case name == OpUpdated && len(sig.Inputs) == 3 &&
					sig.Inputs[0].Name() == domains.RAM.Name() &&
					sig.Inputs[1].Name() == ptrDom.Name():
					return Def{
						Fwd: domainops.PtrUpdated(ptrDom, sig.Inputs[2]),
						Bwd: domainops.InvPtrUpdated(),
					}, true
				case name == OpCall && len(sig.Inputs) >= 1 && sig.Inputs[0].Name() == ptrDom.Name():
					return Def{
						Fwd: domainops.PtrCall(ptrDom, sig.Output),
						Bwd: domainops.InvPtrCall(),
					}, true
				case sig.Key() == relSig(OpEq).Key():
					return Def{Fwd: domainops.PtrEq(ptrDom), Bwd: domainops.InvPtrEq(ptrDom)}, true
				case sig.Key() == relSig(OpNeq).Key():
					return Def{Fwd: domainops.PtrNeq(ptrDom), Bwd: domainops.InvPtrNeq(ptrDom)}, true
				}
			}
			return Def{}, false
		}

		providerBuilder := func(innerProv Provider) Provider {
			subpAccess := func(sig Signature) (Def, bool) {
				name, ok := sig.Name.(SubpName)
				if !ok || sig.Output == nil || sig.Output.Name() != ptrDom.Name() {
					return Def{}, false
				}
				// The accessed subprogram's own signature is rebuilt from
				// the auxiliary domains, then resolved through the full
				// provider so the stored address can carry its definition.
				var inputs []domains.Domain
				var output domains.Domain
				if name.DoesReturn && len(sig.Aux) > 0 {
					inputs = sig.Aux[:len(sig.Aux)-1]
					output = sig.Aux[len(sig.Aux)-1]
				} else {
					inputs = sig.Aux
				}
				subpSig := NewSignature(Tag(name.Name), inputs, output)
				subpDef, found := innerProv(subpSig)
				var defs any
				if found {
					defs = subpDef.Fwd
				}
				return Def{
					Fwd: domainops.SubpAddress(ptrDom, name.Name, defs),
					Bwd: domainops.InvSubpAddress(),
				}, true
			}
			return Provider(provideSimple).Or(subpAccess)
		}

		return &TypeInterpretation{
			Domain:          ptrDom,
			ProviderBuilder: providerBuilder,
			Lit:             ptrDom.Lit,
		}, true
	}
}

// ProductInterpreter interprets records with the product of their component
// interpretations. Equality is synthesized from component equality through
// the inner provider; field access and update come with their inverses.
func ProductInterpreter(elem TypeInterpreter) TypeInterpreter {
	return func(tpe types.Type) (*TypeInterpretation, bool) {
		prodType, ok := tpe.(types.Product)
		if !ok {
			return nil, false
		}
		elemInterps, ok := elem.Lifted()(prodType.Elems)
		if !ok {
			return nil, false
		}
		elemDoms := make([]domains.Domain, len(elemInterps))
		for i, ti := range elemInterps {
			elemDoms[i] = ti.Domain
		}
		prodDom := domains.NewProduct(elemDoms...)
		boolDom := domains.Bool
		relSig := signer([]domains.Domain{prodDom, prodDom}, boolDom)

		providerBuilder := func(innerProv Provider) Provider {
			componentEqDefs := func() ([]Def, bool) {
				defs := make([]Def, len(elemDoms))
				for i, d := range elemDoms {
					def, ok := innerProv(NewSignature(OpEq, []domains.Domain{d, d}, boolDom))
					if !ok {
						return nil, false
					}
					defs[i] = def
				}
				return defs, true
			}

			binOps := func(sig Signature) (Def, bool) {
				name, ok := sig.Name.(Tag)
				if !ok || (name != OpEq && name != OpNeq) || sig.Key() != relSig(name).Key() {
					return Def{}, false
				}
				comps, ok := componentEqDefs()
				if !ok {
					return Def{}, false
				}
				eqs := make([]domainops.Forward, len(comps))
				invEqs := make([]domainops.Backward, len(comps))
				for i, def := range comps {
					eqs[i] = def.Fwd
					invEqs[i] = def.Bwd
				}
				if name == OpEq {
					return Def{
						Fwd: domainops.ProductEq(eqs),
						Bwd: domainops.InvProductEq(prodDom, invEqs, eqs),
					}, true
				}
				return Def{
					Fwd: domainops.ProductNeq(eqs),
					Bwd: domainops.InvProductNeq(prodDom, invEqs, eqs),
				}, true
			}

			getUpdate := func(sig Signature) (Def, bool) {
				switch name := sig.Name.(type) {
				case GetName:
					if name.Index < len(elemDoms) &&
						len(sig.Inputs) == 1 && sig.Inputs[0].Name() == prodDom.Name() {
						return Def{
							Fwd: domainops.ProductGetter(name.Index),
							Bwd: domainops.InvProductGetter(prodDom, name.Index),
						}, true
					}
				case UpdatedName:
					if name.Index < len(elemDoms) &&
						len(sig.Inputs) == 2 && sig.Inputs[0].Name() == prodDom.Name() {
						return Def{
							Fwd: domainops.ProductUpdater(prodDom, name.Index),
							Bwd: domainops.InvProductUpdater(prodDom, name.Index),
						}, true
					}
				}
				return Def{}, false
			}

			return Provider(binOps).Or(getUpdate)
		}

		lit := func(l any) (domains.Value, bool) {
			comps, ok := l.([]any)
			if !ok || len(comps) != len(elemInterps) {
				return nil, false
			}
			vs := make([]domains.Value, len(comps))
			for i, c := range comps {
				v, ok := elemInterps[i].Lit(c)
				if !ok {
					return nil, false
				}
				vs[i] = v
			}
			return domains.Value(vs), true
		}

		return &TypeInterpretation{
			Domain:          prodDom,
			ProviderBuilder: providerBuilder,
			Lit:             lit,
		}, true
	}
}

// ArrayInterpreter interprets arrays with a sparse array domain whose index
// domain is the product of the index interpretations. The IR flattens index
// tuples across call arguments, so the raw array operations are wrapped to
// convert between the two shapes.
func ArrayInterpreter(attribute TypeInterpreter) TypeInterpreter {
	return func(tpe types.Type) (*TypeInterpretation, bool) {
		arrType, ok := tpe.(types.Array)
		if !ok {
			return nil, false
		}
		indexInterps, ok := attribute.Lifted()(arrType.Indices)
		if !ok {
			return nil, false
		}
		compInterp, ok := attribute(arrType.Component)
		if !ok {
			return nil, false
		}
		indexDoms := make([]domains.Domain, len(indexInterps))
		for i, ti := range indexInterps {
			indexDoms[i] = ti.Domain
		}
		indicesDom := domains.NewProduct(indexDoms...)
		compDom := compInterp.Domain
		arrayDom := domains.NewSparseArray(indicesDom, compDom, domains.DefaultMaxArrayElems)

		callSig := NewSignature(OpCall, append([]domains.Domain{arrayDom}, indexDoms...), compDom)
		updatedSig := NewSignature(OpUpdated, append([]domains.Domain{arrayDom, compDom}, indexDoms...), arrayDom)

		rawGet := domainops.ArrayGet(arrayDom)
		rawUpdated := domainops.ArrayUpdated(arrayDom)
		rawIndexRange := domainops.ArrayIndexRange(arrayDom)
		rawInValuesOf := domainops.ArrayInValuesOf(arrayDom)
		rawString := domainops.ArrayString(arrayDom)
		rawInvGet := domainops.InvArrayGet(arrayDom)
		rawInvUpdated := domainops.InvArrayUpdated(arrayDom)
		rawInvIndexRange := domainops.InvArrayIndexRange(arrayDom)
		rawInvInValuesOf := domainops.InvArrayInValuesOf(arrayDom)

		tuple := func(args []domains.Value) domains.Value {
			return indicesDom.Make(args...)
		}

		get := func(args ...domains.Value) domains.Value {
			return rawGet(args[0], tuple(args[1:]))
		}
		updated := func(args ...domains.Value) domains.Value {
			return rawUpdated(args[0], args[1], tuple(args[2:]))
		}
		invGet := func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
			arr, indices, ok := rawInvGet(expected, constrs[0], tuple(constrs[1:]))
			if !ok {
				return nil, false
			}
			out := []domains.Value{arr}
			out = append(out, indicesDom.Tuple(indices)...)
			return out, true
		}
		invUpdated := func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
			arr, val, indices, ok := rawInvUpdated(expected, constrs[0], constrs[1], tuple(constrs[2:]))
			if !ok {
				return nil, false
			}
			out := []domains.Value{arr, val}
			out = append(out, indicesDom.Tuple(indices)...)
			return out, true
		}
		str := func(args ...domains.Value) domains.Value {
			wrapped := make([]domains.Value, len(args))
			for i, arg := range args {
				if i%2 == 0 {
					wrapped[i] = indicesDom.Make(arg)
				} else {
					wrapped[i] = arg
				}
			}
			return rawString(wrapped...)
		}
		invStr := func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
			return domainops.Unrefined(constrs)
		}
		inValuesOf := func(args ...domains.Value) domains.Value {
			return rawInValuesOf(args[0], args[1])
		}
		invInValuesOf := func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
			x, arr, ok := rawInvInValuesOf(expected, constrs[0], constrs[1])
			if !ok {
				return nil, false
			}
			return []domains.Value{x, arr}, true
		}

		inIndexRange := func(dim int) domainops.Forward {
			dimDom := indexDoms[dim-1]
			included := domainops.Included(dimDom)
			return func(args ...domains.Value) domains.Value {
				rng := rawIndexRange(args[1])
				if indicesDom.IsEmpty(rng) {
					return domains.BoolNone
				}
				return included(args[0], indicesDom.Tuple(rng)[dim-1])
			}
		}
		invInIndexRange := func(dim int) domainops.Backward {
			dimDom := indexDoms[dim-1]
			invIncluded := domainops.InvIncluded(dimDom)
			return func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
				idxC, arrC := constrs[0], constrs[1]
				rng := rawIndexRange(arrC)
				if indicesDom.IsEmpty(rng) {
					return nil, false
				}
				dimRng := indicesDom.Tuple(rng)[dim-1]
				newIdx, newDimRng, ok := invIncluded(expected, idxC, dimRng)
				if !ok {
					return nil, false
				}
				newArr, ok := rawInvIndexRange(indicesDom.With(rng, dim-1, newDimRng), arrC)
				if !ok {
					return nil, false
				}
				if dimDom.IsEmpty(newIdx) || arrayDom.IsEmpty(newArr) {
					return nil, false
				}
				return []domains.Value{newIdx, newArr}, true
			}
		}

		provider := func(sig Signature) (Def, bool) {
			switch {
			case sig.Key() == callSig.Key():
				return Def{Fwd: get, Bwd: invGet}, true
			case sig.Key() == updatedSig.Key():
				return Def{Fwd: updated, Bwd: invUpdated}, true
			case sig.Name == OpName(OpString) && sig.Output != nil &&
				sig.Output.Name() == arrayDom.Name() && len(indexDoms) == 1:
				return Def{Fwd: str, Bwd: invStr}, true
			case sig.Name == OpName(OpInValuesOf) && len(sig.Inputs) == 2 &&
				sig.Inputs[1].Name() == arrayDom.Name():
				return Def{Fwd: inValuesOf, Bwd: invInValuesOf}, true
			}
			if name, ok := sig.Name.(InRangeName); ok &&
				len(sig.Inputs) == 2 && sig.Inputs[1].Name() == arrayDom.Name() &&
				name.Dim >= 1 && name.Dim <= len(indexDoms) {
				return Def{Fwd: inIndexRange(name.Dim), Bwd: invInIndexRange(name.Dim)}, true
			}
			return Def{}, false
		}

		return &TypeInterpretation{
			Domain:          arrayDom,
			ProviderBuilder: ConstBuilder(provider),
			Lit:             arrayDom.Lit,
		}, true
	}
}

// RAMInterpreter interprets the data storage type with the random-access
// memory lattice. Memory equality is trapped: it answers nothing and refines
// nothing.
func RAMInterpreter(tpe types.Type) (*TypeInterpretation, bool) {
	if _, ok := tpe.(types.DataStorage); !ok {
		return nil, false
	}
	memDom := domains.RAM
	relSig := signer([]domains.Domain{memDom, memDom}, domains.Bool)
	cpySig := NewSignature(OpCopyOffset, []domains.Domain{memDom, memDom}, memDom)

	provider := func(sig Signature) (Def, bool) {
		switch name := sig.Name.(type) {
		case GetName:
			if len(sig.Inputs) >= 1 && sig.Inputs[0].Name() == memDom.Name() {
				return Def{
					Fwd: domainops.RAMGetter(name.Index, sig.Output),
					Bwd: domainops.InvRAMGetter(name.Index, sig.Output),
				}, true
			}
		case UpdatedName:
			if len(sig.Inputs) == 2 && sig.Inputs[0].Name() == memDom.Name() {
				return Def{
					Fwd: domainops.RAMUpdater(name.Index, sig.Inputs[1]),
					Bwd: domainops.InvRAMUpdater(name.Index, sig.Inputs[1]),
				}, true
			}
		case OffsetName:
			if len(sig.Inputs) >= 1 && sig.Inputs[0].Name() == memDom.Name() {
				return Def{
					Fwd: domainops.RAMOffsetter(name.Index),
					Bwd: domainops.InvRAMOffsetter(name.Index),
				}, true
			}
		case Tag:
			switch {
			case sig.Key() == cpySig.Key():
				return Def{Fwd: domainops.RAMCopyOffset, Bwd: domainops.InvRAMCopyOffset}, true
			case sig.Key() == relSig(OpEq).Key():
				return Def{Fwd: domainops.RAMEq, Bwd: domainops.InvRAMEq}, true
			case sig.Key() == relSig(OpNeq).Key():
				return Def{Fwd: domainops.RAMNeq, Bwd: domainops.InvRAMNeq}, true
			}
		}
		return Def{}, false
	}

	return &TypeInterpretation{
		Domain:          memDom,
		ProviderBuilder: ConstBuilder(provider),
		Lit: func(any) (domains.Value, bool) {
			return memDom.Top(), true
		},
	}, true
}

// ModeledInterpreter interprets a modeled type as the product of its actual
// and ghost model interpretations. Provider requests are rewritten by
// substituting the product domain with the actual domain before dispatching;
// the resolved implementations are wrapped to strip the ghost component on
// the way in and pad it with model Top on the way out.
func ModeledInterpreter(inner TypeInterpreter) TypeInterpreter {
	return func(tpe types.Type) (*TypeInterpretation, bool) {
		modType, ok := tpe.(types.Modeled)
		if !ok {
			return nil, false
		}
		actualInterp, ok := inner(modType.Actual)
		if !ok {
			return nil, false
		}
		modelInterp, ok := inner(modType.Model)
		if !ok {
			return nil, false
		}
		dom := domains.NewProduct(actualInterp.Domain, modelInterp.Domain)
		modelTop := modelInterp.Domain.Top()
		actualDom := actualInterp.Domain

		wrap := func(sig Signature, def Def) Def {
			converted := make(map[int]bool)
			for i, in := range sig.Inputs {
				if in.Name() == dom.Name() {
					converted[i] = true
				}
			}
			convertedOutput := sig.Output != nil && sig.Output.Name() == dom.Name()

			fwd := func(args ...domains.Value) domains.Value {
				unwrapped := make([]domains.Value, len(args))
				for i, arg := range args {
					if converted[i] {
						unwrapped[i] = arg.([]domains.Value)[0]
					} else {
						unwrapped[i] = arg
					}
				}
				res := def.Fwd(unwrapped...)
				if convertedOutput {
					return domains.Value([]domains.Value{res, modelTop})
				}
				return res
			}
			bwd := func(expected domains.Value, constrs ...domains.Value) ([]domains.Value, bool) {
				exp := expected
				if convertedOutput {
					exp = expected.([]domains.Value)[0]
				}
				unwrapped := make([]domains.Value, len(constrs))
				for i, c := range constrs {
					if converted[i] {
						unwrapped[i] = c.([]domains.Value)[0]
					} else {
						unwrapped[i] = c
					}
				}
				res, ok := def.Bwd(exp, unwrapped...)
				if !ok {
					return nil, false
				}
				out := make([]domains.Value, len(res))
				for i, r := range res {
					if converted[i] {
						out[i] = domains.Value([]domains.Value{r, modelTop})
					} else {
						out[i] = r
					}
				}
				return out, true
			}
			return Def{Fwd: fwd, Bwd: bwd}
		}

		providerBuilder := func(innerProv Provider) Provider {
			promoted := func(sig Signature) (Def, bool) {
				if !sig.Contains(dom) {
					return Def{}, false
				}
				subSig := sig.Substituted(dom, actualDom)
				def, ok := actualInterp.ProviderBuilder(innerProv)(subSig)
				if !ok {
					return Def{}, false
				}
				return wrap(sig, def), true
			}
			modelGetter := func(sig Signature) (Def, bool) {
				if sig.Name == OpName(OpGetModel) && len(sig.Inputs) == 1 &&
					sig.Inputs[0].Name() == dom.Name() {
					return Def{
						Fwd: domainops.ProductGetter(1),
						Bwd: domainops.InvProductGetter(dom, 1),
					}, true
				}
				return Def{}, false
			}
			return MemoizedProvider(Provider(promoted).Or(modelGetter))
		}

		lit := func(l any) (domains.Value, bool) {
			actual, ok := actualInterp.Lit(l)
			if !ok {
				return nil, false
			}
			return domains.Value([]domains.Value{actual, modelTop}), true
		}

		return &TypeInterpretation{
			Domain:          dom,
			ProviderBuilder: providerBuilder,
			Lit:             lit,
		}, true
	}
}

// UnknownInterpreter gives unresolved types the universe lattice.
func UnknownInterpreter(tpe types.Type) (*TypeInterpretation, bool) {
	switch tpe.(type) {
	case types.Unknown, types.UniversalInt, types.UniversalReal:
		return NewUniverseInterpretation(), true
	}
	return nil, false
}

// DefaultInterpreter is the standard interpreter chain, memoized by source
// type so identical types share one domain object. The chain references
// itself for nested types through a lazy binding.
func DefaultInterpreter() TypeInterpreter {
	var self TypeInterpreter
	selfRef := func(t types.Type) (*TypeInterpretation, bool) {
		return self(t)
	}
	self = transformer.Memoized(
		transformer.FromBuilder(func() TypeInterpreter {
			return TypeInterpreter(BooleanInterpreter).
				Or(CharInterpreter(IntRangeInterpreter)).
				Or(IntRangeInterpreter).
				Or(RealRangeInterpreter).
				Or(EnumInterpreter).
				Or(PointerInterpreter(selfRef)).
				Or(ProductInterpreter(selfRef)).
				Or(ArrayInterpreter(selfRef)).
				Or(RAMInterpreter).
				Or(ModeledInterpreter(selfRef)).
				Or(UnknownInterpreter)
		}),
		types.Type.Key,
	)
	return self
}
