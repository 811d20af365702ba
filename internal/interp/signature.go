package interp

import (
	"strings"

	"adalyze/internal/domainops"
	"adalyze/internal/domains"
	"adalyze/internal/transformer"
)

// Signature is the structural description of an operation: its name, the
// abstract domains of its inputs, the output domain (nil for procedures),
// and the indices of its out parameters. Aux carries extra domains some
// providers need, such as the designated type of a pointer.
type Signature struct {
	Name      OpName
	Inputs    []domains.Domain
	Output    domains.Domain
	OutParams []int
	Aux       []domains.Domain
}

// NewSignature builds a signature without out parameters.
func NewSignature(name OpName, inputs []domains.Domain, output domains.Domain) Signature {
	return Signature{Name: name, Inputs: inputs, Output: output}
}

// Key is a canonical structural rendering. Two signatures are interchangeable
// exactly when their keys match; providers and the evaluator memoize on it.
func (s Signature) Key() string {
	var b strings.Builder
	b.WriteString(s.Name.Key())
	b.WriteByte('(')
	for i, d := range s.Inputs {
		if i > 0 {
			b.WriteByte(',')
		}
		for _, out := range s.OutParams {
			if out == i {
				b.WriteString("out ")
				break
			}
		}
		b.WriteString(d.Name())
	}
	b.WriteByte(')')
	if s.Output != nil {
		b.WriteString("->")
		b.WriteString(s.Output.Name())
	}
	for _, aux := range s.Aux {
		b.WriteString("~")
		b.WriteString(aux.Name())
	}
	return b.String()
}

func (s Signature) String() string { return s.Key() }

// Contains reports whether the domain occurs among the inputs or as the
// output.
func (s Signature) Contains(d domains.Domain) bool {
	if s.Output != nil && s.Output.Name() == d.Name() {
		return true
	}
	for _, in := range s.Inputs {
		if in.Name() == d.Name() {
			return true
		}
	}
	return false
}

// Substituted renames every occurrence of one domain by another.
func (s Signature) Substituted(d, by domains.Domain) Signature {
	inputs := make([]domains.Domain, len(s.Inputs))
	for i, in := range s.Inputs {
		if in.Name() == d.Name() {
			inputs[i] = by
		} else {
			inputs[i] = in
		}
	}
	output := s.Output
	if output != nil && output.Name() == d.Name() {
		output = by
	}
	return Signature{Name: s.Name, Inputs: inputs, Output: output, OutParams: s.OutParams, Aux: s.Aux}
}

// Def pairs the forward transfer function of an operation with its backward
// refinement partner.
type Def struct {
	Fwd domainops.Forward
	Bwd domainops.Backward
}

// Provider maps signatures to definitions. Providers compose with the
// transformer combinators: alternation tries providers in order, sequencing
// derives new signatures to look up.
type Provider = transformer.Transformer[Signature, Def]

// ProviderBuilder builds a provider given the full provider it may consult
// for inner lookups (component operations of a composite type).
type ProviderBuilder func(inner Provider) Provider

// NoDefs is the provider that matches nothing.
func NoDefs(Signature) (Def, bool) { return Def{}, false }

// ConstBuilder ignores the inner provider.
func ConstBuilder(p Provider) ProviderBuilder {
	return func(Provider) Provider { return p }
}

// DictProvider looks definitions up by signature key.
func DictProvider(defs map[string]Def) Provider {
	return func(sig Signature) (Def, bool) {
		def, ok := defs[sig.Key()]
		return def, ok
	}
}

// MemoizedProvider caches resolutions by signature key.
func MemoizedProvider(p Provider) Provider {
	return transformer.Memoized(p, Signature.Key)
}

// signer builds signatures of a fixed shape for several operator names, the
// way operation tables are laid out.
func signer(inputs []domains.Domain, output domains.Domain) func(name OpName) Signature {
	return func(name OpName) Signature {
		return NewSignature(name, inputs, output)
	}
}
