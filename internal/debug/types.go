// Package debug renders control-dependency graphs for inspection.
package debug

import (
	"go/token"

	"golang.org/x/tools/go/ssa"

	"github.com/mpyw/sideeffect/internal/ctrldep"
)

// Info is a snapshot of one function's control-dependency graph.
type Info struct {
	Function string
	Edges    int
	Nodes    []NodeInfo // Instructions taking part in at least one edge, in program order
}

// NodeInfo describes one instruction of the graph.
type NodeInfo struct {
	Index int       // Program-order position
	Pos   token.Pos // May be token.NoPos for synthetic instructions
	Text  string
	Preds []int // Positions of the predecessors, ascending
}

// NewInfo collects the graph of an analyzed function.
func NewInfo(fa *ctrldep.FunctionAnalysis[ssa.Instruction, ssa.Value]) *Info {
	info := &Info{
		Function: fa.Function().String(),
		Edges:    fa.EdgeCount(),
	}
	for i, instr := range fa.Instructions() {
		preds := fa.Predecessors(instr, nil)
		if len(preds) == 0 && len(fa.Successors(instr, nil)) == 0 {
			continue
		}
		node := NodeInfo{
			Index: i,
			Pos:   instr.Pos(),
			Text:  instrText(instr),
			Preds: make([]int, len(preds)),
		}
		for j, pred := range preds {
			node.Preds[j], _ = fa.Position(pred)
		}
		info.Nodes = append(info.Nodes, node)
	}
	return info
}

// instrText prints instr the way ssa function dumps do.
func instrText(instr ssa.Instruction) string {
	if v, ok := instr.(ssa.Value); ok && v.Name() != "" {
		return v.Name() + " = " + v.String()
	}
	return instr.String()
}
