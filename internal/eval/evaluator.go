package eval

import (
	"context"

	"github.com/tliron/commonlog"

	"adalyze/internal/domains"
	"adalyze/internal/interp"
	"adalyze/internal/ir"
	"adalyze/internal/types"
)

var log = commonlog.GetLogger("adalyze.eval")

// Options tunes one analysis run.
type Options struct {
	// Merge decides which traces share an environment slot.
	Merge MergePredicate
	// WideningDelay is how many times a loop header may grow before
	// widening kicks in.
	WideningDelay int
	// MaxIterations caps worklist processing; the analysis returns partial
	// results marked incomplete when the budget runs out.
	MaxIterations int
}

// DefaultOptions matches the shipped defaults of the analyzer.
func DefaultOptions() Options {
	return Options{
		Merge:         AlwaysMerge{},
		WideningDelay: 3,
		MaxIterations: 20000,
	}
}

// Analyzer runs the abstract evaluator over one program. It owns the
// per-analysis caches: the type interpreter memo and the combined operation
// provider.
type Analyzer struct {
	prog       *ir.Program
	graph      *Graph
	typeInterp interp.TypeInterpreter
	provider   interp.Provider
	varDoms    []domains.Domain
	opts       Options

	// unsupported records constructs substituted by Top, by signature key.
	unsupported map[string]bool
}

// NewAnalyzer prepares an analysis: it interprets every type the program
// mentions and assembles the combined provider those interpretations offer.
func NewAnalyzer(prog *ir.Program, typeInterp interp.TypeInterpreter, opts Options) *Analyzer {
	if opts.Merge == nil {
		opts.Merge = AlwaysMerge{}
	}
	if opts.WideningDelay <= 0 {
		opts.WideningDelay = 3
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 20000
	}

	a := &Analyzer{
		prog:        prog,
		graph:       BuildGraph(prog),
		typeInterp:  typeInterp,
		opts:        opts,
		unsupported: make(map[string]bool),
	}

	a.varDoms = make([]domains.Domain, len(prog.Vars))
	seen := make(map[string]*interp.TypeInterpretation)
	var interps []*interp.TypeInterpretation
	record := func(t types.Type) *interp.TypeInterpretation {
		key := t.Key()
		if ti, ok := seen[key]; ok {
			return ti
		}
		ti, ok := typeInterp(t)
		if !ok {
			log.Warningf("no interpretation for type %s, substituting universe", key)
			ti = interp.NewUniverseInterpretation()
		}
		seen[key] = ti
		interps = append(interps, ti)
		return ti
	}
	for i, v := range prog.Vars {
		a.varDoms[i] = record(v.Type).Domain
	}
	walkExprs(prog.Body, func(e ir.Expr) {
		record(e.Hint())
	})
	a.provider = interp.BuildProvider(interps)
	return a
}

// Graph exposes the control flow graph of the analyzed program.
func (a *Analyzer) Graph() *Graph { return a.graph }

// DomainOf returns the lattice a variable's values live in.
func (a *Analyzer) DomainOf(v *ir.Variable) domains.Domain {
	return a.varDoms[v.Index]
}

func walkExprs(stmts []ir.Stmt, visit func(ir.Expr)) {
	var walkExpr func(e ir.Expr)
	walkExpr = func(e ir.Expr) {
		visit(e)
		if call, ok := e.(*ir.FunCall); ok {
			for _, arg := range call.Args {
				walkExpr(arg)
			}
		}
	}
	for _, s := range stmts {
		switch node := s.(type) {
		case *ir.AssignStmt:
			walkExpr(node.Target)
			walkExpr(node.Value)
		case *ir.ReadStmt:
			walkExpr(node.Target)
		case *ir.AssumeStmt:
			walkExpr(node.Cond)
		case *ir.SplitStmt:
			for _, branch := range node.Branches {
				walkExprs(branch, visit)
			}
		case *ir.LoopStmt:
			walkExprs(node.Body, visit)
		}
	}
}

type stateEntry struct {
	trace Trace
	env   *Env
}

// Run computes the fixpoint. Cancellation is cooperative: the context is
// checked between worklist iterations, and partial results are returned
// marked incomplete.
func (a *Analyzer) Run(ctx context.Context) *Results {
	res := &Results{
		analyzer:  a,
		graph:     a.graph,
		Semantics: make(map[int]map[string]*stateEntry),
	}
	visits := make(map[int]map[string]int)

	res.Semantics[a.graph.Entry] = map[string]*stateEntry{
		"": {trace: Trace{}, env: newTopEnv(a.varDoms)},
	}

	queue := []int{a.graph.Entry}
	queued := map[int]bool{a.graph.Entry: true}
	iterations := 0

	for len(queue) > 0 {
		if ctx.Err() != nil {
			res.Incomplete = true
			log.Warningf("analysis of %s cancelled, returning partial results", a.prog.Name)
			return res
		}
		iterations++
		if iterations > a.opts.MaxIterations {
			res.Incomplete = true
			log.Warningf("analysis of %s exhausted its iteration budget", a.prog.Name)
			return res
		}

		id := queue[0]
		queue = queue[1:]
		queued[id] = false
		node := a.graph.Nodes[id]

		for _, entry := range orderedEntries(res.Semantics[id]) {
			out, feasible := a.transfer(node, entry.env)
			if !feasible {
				continue
			}
			for _, succ := range node.Succs {
				trace := entry.trace
				if node.Branch {
					trace = trace.Extend(succ)
				}
				if a.propagate(res, visits, succ, trace, out) && !queued[succ] {
					queue = append(queue, succ)
					queued[succ] = true
				}
			}
		}
	}
	a.narrow(res, 2)
	return res
}

// narrow runs bounded decreasing sweeps after the widened fixpoint: each
// node entry is recomputed from its predecessors without widening, clawing
// back the precision the widening jump gave up. The recomputed state is a
// post-fixpoint of a monotone system, so replacing slots that strictly
// decreased stays sound.
func (a *Analyzer) narrow(res *Results, sweeps int) {
	for s := 0; s < sweeps; s++ {
		for _, node := range a.graph.Nodes {
			if node.ID == a.graph.Entry {
				continue
			}
			slots := res.Semantics[node.ID]
			if len(slots) == 0 {
				continue
			}
			recomputed := make(map[string]*Env)
			for _, predID := range node.Preds {
				pred := a.graph.Nodes[predID]
				for _, e := range orderedEntries(res.Semantics[predID]) {
					out, feasible := a.transfer(pred, e.env)
					if !feasible {
						continue
					}
					trace := e.trace
					if pred.Branch {
						trace = trace.Extend(node.ID)
					}
					key := a.opts.Merge.Key(trace)
					if cur, ok := recomputed[key]; ok {
						recomputed[key] = cur.join(out)
					} else {
						recomputed[key] = out.clone()
					}
				}
			}
			for key, slot := range slots {
				if newEnv, ok := recomputed[key]; ok && newEnv.le(slot.env) {
					slot.env = newEnv
				}
			}
		}
	}
}

// propagate joins an incoming environment into a successor slot, widening
// loop headers once they have grown past the configured delay. It reports
// whether the slot changed.
func (a *Analyzer) propagate(res *Results, visits map[int]map[string]int, succ int, trace Trace, env *Env) bool {
	key := a.opts.Merge.Key(trace)
	slots := res.Semantics[succ]
	if slots == nil {
		slots = make(map[string]*stateEntry)
		res.Semantics[succ] = slots
	}
	cur, ok := slots[key]
	if !ok {
		slots[key] = &stateEntry{trace: trace, env: env.clone()}
		return true
	}
	joined := cur.env.join(env)
	if a.graph.Nodes[succ].LoopHead {
		if visits[succ] == nil {
			visits[succ] = make(map[string]int)
		}
		visits[succ][key]++
		if visits[succ][key] > a.opts.WideningDelay {
			joined = cur.env.widen(joined)
		}
	}
	if joined.le(cur.env) {
		return false
	}
	cur.env = joined
	return true
}

// transfer applies a node's effect to its entry environment. The boolean is
// false when the state is infeasible and the trace dies.
func (a *Analyzer) transfer(node *GraphNode, env *Env) (*Env, bool) {
	switch node.Kind {
	case KindRead:
		idx := node.Read.Target.Var.Index
		return env.with(idx, a.varDoms[idx].Top()), true
	case KindAssign:
		idx := node.Assign.Target.Var.Index
		return env.with(idx, a.evalExpr(env, node.Assign.Value)), true
	case KindAssume:
		val := a.evalExpr(env, node.Assume.Cond)
		b, ok := val.(domains.BoolElem)
		if !ok {
			// A condition the domains cannot track constrains nothing.
			return env, true
		}
		if !b.HasTrue() {
			return nil, false
		}
		refined := env.clone()
		if !a.refineExpr(refined, node.Assume.Cond, domains.BoolTrue) {
			return nil, false
		}
		return refined, true
	default:
		return env, true
	}
}

// evalExpr computes the abstract value of an expression. Unsupported
// constructs evaluate to Top of their hint's domain, keeping the analysis
// sound.
func (a *Analyzer) evalExpr(env *Env, e ir.Expr) domains.Value {
	switch node := e.(type) {
	case *ir.Identifier:
		return env.Value(node.Var.Index)
	case *ir.Lit:
		ti := a.interpretationOf(node.Type)
		if v, ok := ti.Lit(node.Value); ok {
			return v
		}
		a.warnUnsupported("literal of type " + node.Type.Key())
		return ti.Domain.Top()
	case *ir.FunCall:
		args := make([]domains.Value, len(node.Args))
		for i, arg := range node.Args {
			args[i] = a.evalExpr(env, arg)
		}
		def, outDom, ok := a.resolve(node)
		if !ok {
			return outDom.Top()
		}
		return def.Fwd(args...)
	}
	return domains.Universe{}.Top()
}

// refineExpr propagates an expected value backwards through an expression,
// narrowing the environment. It reports false when the expectation is
// infeasible.
func (a *Analyzer) refineExpr(env *Env, e ir.Expr, expected domains.Value) bool {
	switch node := e.(type) {
	case *ir.Identifier:
		dom := a.varDoms[node.Var.Index]
		refined := dom.Meet(env.Value(node.Var.Index), expected)
		if dom.IsEmpty(refined) {
			return false
		}
		env.vals[node.Var.Index] = refined
		return true
	case *ir.Lit:
		ti := a.interpretationOf(node.Type)
		v, ok := ti.Lit(node.Value)
		if !ok {
			return true
		}
		return !ti.Domain.IsEmpty(ti.Domain.Meet(v, expected))
	case *ir.FunCall:
		def, _, ok := a.resolve(node)
		if !ok {
			return true
		}
		args := make([]domains.Value, len(node.Args))
		for i, arg := range node.Args {
			args[i] = a.evalExpr(env, arg)
		}
		refined, feasible := def.Bwd(expected, args...)
		if !feasible {
			return false
		}
		for i, arg := range node.Args {
			if i >= len(refined) {
				break
			}
			if !a.refineExpr(env, arg, refined[i]) {
				return false
			}
		}
		return true
	}
	return true
}

// resolve finds the definition of a call through the combined provider. The
// output domain is returned even on failure so callers can substitute Top.
func (a *Analyzer) resolve(call *ir.FunCall) (interp.Def, domains.Domain, bool) {
	outDom := a.interpretationOf(call.Type).Domain
	inputs := make([]domains.Domain, len(call.Args))
	for i, arg := range call.Args {
		inputs[i] = a.interpretationOf(arg.Hint()).Domain
	}
	sig := interp.NewSignature(call.Op, inputs, outDom)
	def, ok := a.provider(sig)
	if !ok {
		a.warnUnsupported(sig.Key())
		return interp.Def{}, outDom, false
	}
	return def, outDom, true
}

func (a *Analyzer) interpretationOf(t types.Type) *interp.TypeInterpretation {
	ti, ok := a.typeInterp(t)
	if !ok {
		return interp.NewUniverseInterpretation()
	}
	return ti
}

func (a *Analyzer) warnUnsupported(what string) {
	if a.unsupported[what] {
		return
	}
	a.unsupported[what] = true
	log.Warningf("unsupported construct in %s: %s", a.prog.Name, what)
}
