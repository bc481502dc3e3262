package sideeffect

import (
	"iter"

	"golang.org/x/tools/go/ssa"

	"github.com/mpyw/sideeffect/internal"
	"github.com/mpyw/sideeffect/internal/ctrldep"
	"github.com/mpyw/sideeffect/internal/goir"
)

// Result holds the control-dependency graphs of one package.
type Result struct {
	analysis *internal.Analysis
}

// Graph returns the graph covering fn. Anonymous functions share the graph
// of their enclosing top-level function. Returns nil for functions outside
// the package or declared in generated files.
func (r *Result) Graph(fn *ssa.Function) *Graph {
	fa := r.analysis.Graph(fn)
	if fa == nil {
		return nil
	}
	return &Graph{fa: fa}
}

// Functions returns the analyzed top-level functions in source order.
func (r *Result) Functions() []*ssa.Function {
	funcs := r.analysis.Graphs.Functions()
	out := make([]*ssa.Function, len(funcs))
	for i, fn := range funcs {
		out[i] = fn.(*goir.Function).SSA()
	}
	return out
}

// Graph is the control-dependency graph of one top-level function. Edges
// always point forward in program order, so the graph is acyclic.
type Graph struct {
	fa *ctrldep.FunctionAnalysis[goir.Instr, goir.Value]
}

// Function returns the top-level function of the graph.
func (g *Graph) Function() *ssa.Function {
	return g.fa.Function().(*goir.Function).SSA()
}

// Predecessors returns the instructions that must run before instr, in
// program order. filter, if non-nil, selects which to return.
func (g *Graph) Predecessors(instr ssa.Instruction, filter func(ssa.Instruction) bool) []ssa.Instruction {
	return g.fa.Predecessors(instr, filter)
}

// Successors returns the instructions that must run after instr, in
// program order. filter, if non-nil, selects which to return.
func (g *Graph) Successors(instr ssa.Instruction, filter func(ssa.Instruction) bool) []ssa.Instruction {
	return g.fa.Successors(instr, filter)
}

// Edges yields every (predecessor, successor) pair.
func (g *Graph) Edges() iter.Seq2[ssa.Instruction, ssa.Instruction] {
	return g.fa.Edges()
}

// Len returns the number of edges.
func (g *Graph) Len() int { return g.fa.EdgeCount() }
