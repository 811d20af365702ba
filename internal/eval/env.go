package eval

import (
	"strings"

	"adalyze/internal/domains"
)

// Env maps variable slots to abstract values. Environments are compared
// structurally through the per-slot domains to detect the fixpoint.
type Env struct {
	vals []domains.Value
	doms []domains.Domain
}

func newTopEnv(doms []domains.Domain) *Env {
	vals := make([]domains.Value, len(doms))
	for i, d := range doms {
		vals[i] = d.Top()
	}
	return &Env{vals: vals, doms: doms}
}

// Value reads the abstract value of the variable at slot idx.
func (e *Env) Value(idx int) domains.Value { return e.vals[idx] }

// Domain returns the lattice of the variable at slot idx.
func (e *Env) Domain(idx int) domains.Domain { return e.doms[idx] }

func (e *Env) clone() *Env {
	vals := make([]domains.Value, len(e.vals))
	copy(vals, e.vals)
	return &Env{vals: vals, doms: e.doms}
}

func (e *Env) with(idx int, v domains.Value) *Env {
	out := e.clone()
	out.vals[idx] = v
	return out
}

func (e *Env) join(other *Env) *Env {
	vals := make([]domains.Value, len(e.vals))
	for i, d := range e.doms {
		vals[i] = d.Join(e.vals[i], other.vals[i])
	}
	return &Env{vals: vals, doms: e.doms}
}

// widen applies each domain's widening slot by slot, falling back to join
// where no widening capability exists.
func (e *Env) widen(next *Env) *Env {
	vals := make([]domains.Value, len(e.vals))
	for i, d := range e.doms {
		vals[i] = domains.WidenVia(d, e.vals[i], next.vals[i])
	}
	return &Env{vals: vals, doms: e.doms}
}

func (e *Env) le(other *Env) bool {
	for i, d := range e.doms {
		if !d.Le(e.vals[i], other.vals[i]) {
			return false
		}
	}
	return true
}

func (e *Env) String() string {
	parts := make([]string, len(e.vals))
	for i, d := range e.doms {
		parts[i] = d.Str(e.vals[i])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
