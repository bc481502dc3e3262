package debug

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// Format returns a readable listing of a function graph.
//
//	Function: example.com/p.order (3 edges)
//	  [0] line 6: *counter = 1:int
//	  [1] line 7: t0 = *counter
//	       └─ after: [0] line 6
func Format(info *Info, fset *token.FileSet) string {
	if info == nil {
		return ""
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "Function: %s (%d edges)\n", info.Function, info.Edges)

	lines := make(map[int]int, len(info.Nodes))
	for _, node := range info.Nodes {
		lines[node.Index] = line(fset, node.Pos)
		fmt.Fprintf(&buf, "  [%d] line %d: %s\n", node.Index, lines[node.Index], node.Text)
		if len(node.Preds) == 0 {
			continue
		}
		after := make([]string, len(node.Preds))
		for i, pred := range node.Preds {
			after[i] = fmt.Sprintf("[%d] line %d", pred, lines[pred])
		}
		fmt.Fprintf(&buf, "       └─ after: %s\n", strings.Join(after, ", "))
	}
	return buf.String()
}

func line(fset *token.FileSet, pos token.Pos) int {
	if fset == nil || !pos.IsValid() {
		return 0
	}
	return fset.Position(pos).Line
}

// =============================================================================
// DOT Export
// =============================================================================

type dotNode struct {
	id    int64
	label string
}

func (n dotNode) ID() int64 { return n.id }

func (n dotNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: strconv.Quote(n.label)}}
}

// FormatDOT renders a function graph in Graphviz DOT format. Edges point
// from predecessor to successor.
func FormatDOT(info *Info, fset *token.FileSet) ([]byte, error) {
	g := simple.NewDirectedGraph()
	nodes := make(map[int]dotNode, len(info.Nodes))
	for _, node := range info.Nodes {
		n := dotNode{
			id:    int64(node.Index),
			label: fmt.Sprintf("L%d: %s", line(fset, node.Pos), node.Text),
		}
		nodes[node.Index] = n
		g.AddNode(n)
	}
	for _, node := range info.Nodes {
		for _, pred := range node.Preds {
			g.SetEdge(g.NewEdge(nodes[pred], nodes[node.Index]))
		}
	}

	out, err := dot.Marshal(g, strconv.Quote(info.Function), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", info.Function, err)
	}
	return out, nil
}
