package eval

import (
	"fmt"
	"strconv"
	"strings"
)

// maxTraceLen bounds trace histories so the per-node state table stays
// finite regardless of the merge predicate.
const maxTraceLen = 8

// Trace is the bounded history of branch decisions that led to a program
// point, as the ids of the branch-entry nodes taken.
type Trace []int

// Extend appends a branch decision, keeping the bounded suffix.
func (t Trace) Extend(node int) Trace {
	out := make(Trace, 0, len(t)+1)
	out = append(out, t...)
	out = append(out, node)
	if len(out) > maxTraceLen {
		out = out[len(out)-maxTraceLen:]
	}
	return out
}

func (t Trace) String() string {
	parts := make([]string, len(t))
	for i, id := range t {
		parts[i] = strconv.Itoa(id)
	}
	return "<" + strings.Join(parts, ",") + ">"
}

// MergePredicate decides when two traces reach the same abstract state slot
// at a node: traces with equal keys are merged by joining their
// environments.
type MergePredicate interface {
	Name() string
	Key(t Trace) string
}

// AlwaysMerge keeps a single environment per node.
type AlwaysMerge struct{}

func (AlwaysMerge) Name() string     { return "always" }
func (AlwaysMerge) Key(Trace) string { return "" }

// LastK distinguishes traces by their last K branch decisions.
type LastK struct {
	K int
}

func (p LastK) Name() string { return fmt.Sprintf("last-%d", p.K) }

func (p LastK) Key(t Trace) string {
	if len(t) > p.K {
		t = t[len(t)-p.K:]
	}
	return t.String()
}

// MergePredicateByName resolves the command line spelling of a merge
// predicate: "always" or "last-<k>".
func MergePredicateByName(name string) (MergePredicate, error) {
	if name == "" || name == "always" {
		return AlwaysMerge{}, nil
	}
	if rest, ok := strings.CutPrefix(name, "last-"); ok {
		k, err := strconv.Atoi(rest)
		if err != nil || k < 1 {
			return nil, fmt.Errorf("invalid merge predicate %q", name)
		}
		return LastK{K: k}, nil
	}
	return nil, fmt.Errorf("unknown merge predicate %q", name)
}
