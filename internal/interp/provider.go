package interp

// BuildProvider combines the providers of a set of interpretations into one
// memoized provider. Each interpretation's provider builder receives the
// combined provider back, so composite types can resolve their component
// operations recursively.
func BuildProvider(interps []*TypeInterpretation) Provider {
	var self Provider
	selfRef := func(sig Signature) (Def, bool) {
		return self(sig)
	}
	combined := Provider(NoDefs)
	for _, ti := range interps {
		combined = combined.Or(ti.ProviderBuilder(selfRef))
	}
	self = MemoizedProvider(combined)
	return self
}
