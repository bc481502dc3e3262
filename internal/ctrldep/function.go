package ctrldep

import (
	"fmt"
	"iter"
)

// FunctionAnalysis owns the control-dependency graph of one function.
//
// The graph borrows the function's instructions. It is computed once and
// must be rebuilt if the underlying program changes.
type FunctionAnalysis[I comparable, V any] struct {
	fn     Function[I, V]
	instrs []I       // arena: index is program position
	index  map[I]int // instruction -> arena index
	graph  *graph
}

// NewFunctionAnalysis analyzes fn using the given oracles.
func NewFunctionAnalysis[I comparable, V any](
	fn Function[I, V],
	alias AliasOracle[V],
	effects EffectOracle[I, V],
	opts ...Option,
) *FunctionAnalysis[I, V] {
	return newFunctionAnalysis(fn, alias, effects, newOptions(opts))
}

func newFunctionAnalysis[I comparable, V any](
	fn Function[I, V],
	alias AliasOracle[V],
	effects EffectOracle[I, V],
	o *options,
) *FunctionAnalysis[I, V] {
	a := &FunctionAnalysis[I, V]{
		fn:    fn,
		index: make(map[I]int),
	}
	a.number(fn.Body())

	ctx := &walkContext[I, V]{
		fn:      fn,
		alias:   alias,
		effects: effects,
		index:   a.index,
		log:     o.loggerFor(fn.String()),
	}
	a.graph = finalize(walkRegion(ctx, fn.Body()), len(a.instrs))
	ctx.log.Debug().Int("instructions", len(a.instrs)).Int("edges", a.graph.edges).Msg("analyzed")
	return a
}

// number assigns arena indices in pre-order: an instruction comes before
// the instructions of its nested scopes.
func (a *FunctionAnalysis[I, V]) number(scope Scope[I]) {
	for _, instr := range scope {
		if _, dup := a.index[instr]; dup {
			panic(fmt.Sprintf("ctrldep: %v appears twice in %s", instr, a.fn))
		}
		a.index[instr] = len(a.instrs)
		a.instrs = append(a.instrs, instr)
		for _, child := range a.fn.Regions(instr) {
			a.number(child)
		}
	}
}

// Function returns the analyzed function.
func (a *FunctionAnalysis[I, V]) Function() Function[I, V] { return a.fn }

// Predecessors returns the instructions instr must stay after, ordered by
// program position. filter may be nil. Returns nil if instr is unknown.
func (a *FunctionAnalysis[I, V]) Predecessors(instr I, filter func(I) bool) []I {
	return a.collect(instr, a.graph.preds, filter)
}

// Successors returns the instructions that must stay after instr, ordered
// by program position. filter may be nil. Returns nil if instr is unknown.
func (a *FunctionAnalysis[I, V]) Successors(instr I, filter func(I) bool) []I {
	return a.collect(instr, a.graph.succs, filter)
}

func (a *FunctionAnalysis[I, V]) collect(instr I, adj map[int][]int, filter func(I) bool) []I {
	idx, ok := a.index[instr]
	if !ok {
		return nil
	}
	list := adj[idx]
	if len(list) == 0 {
		return nil
	}
	out := make([]I, 0, len(list))
	for _, i := range list {
		if filter == nil || filter(a.instrs[i]) {
			out = append(out, a.instrs[i])
		}
	}
	return out
}

// Position returns the program position of instr.
func (a *FunctionAnalysis[I, V]) Position(instr I) (int, bool) {
	idx, ok := a.index[instr]
	return idx, ok
}

// Instructions returns every instruction of the function, nested scopes
// included, in program order.
func (a *FunctionAnalysis[I, V]) Instructions() []I { return a.instrs }

// EdgeCount returns the number of edges in the graph.
func (a *FunctionAnalysis[I, V]) EdgeCount() int { return a.graph.edges }

// Edges yields every (predecessor, successor) pair, ordered by successor
// then predecessor position.
func (a *FunctionAnalysis[I, V]) Edges() iter.Seq2[I, I] {
	return func(yield func(I, I) bool) {
		for succ := range a.instrs {
			for _, pred := range a.graph.preds[succ] {
				if !yield(a.instrs[pred], a.instrs[succ]) {
					return
				}
			}
		}
	}
}
