package internal

import (
	"fmt"
	"go/token"
	"slices"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ssa"

	"github.com/mpyw/sideeffect/internal/directive"
	"github.com/mpyw/sideeffect/internal/goir"
)

// =============================================================================
// Entry Point
// =============================================================================

// Report emits one diagnostic per instruction with predecessors:
//
//	store ordered after L12, L14
//
// Lines are those of the predecessors in ascending order, each listed once. Reports on lines covered by //sideeffect:ignore are
// suppressed, and ignore directives that suppressed nothing are reported.
func Report(pass *analysis.Pass, a *Analysis) {
	ignoreMaps := make(map[string]directive.IgnoreMap)
	for _, file := range pass.Files {
		filename := pass.Fset.Position(file.Pos()).Filename
		ignoreMaps[filename] = directive.BuildIgnoreMap(pass.Fset, file)
	}

	r := &reporter{
		pass:       pass,
		ignoreMaps: ignoreMaps,
		reported:   make(map[token.Pos][]string),
	}
	for _, fn := range a.Graphs.Functions() {
		fa := a.Graphs.Function(fn)
		for _, instr := range fa.Instructions() {
			r.report(instr, fa.Predecessors(instr, nil))
		}
	}

	for _, file := range pass.Files {
		ignoreMap := ignoreMaps[pass.Fset.Position(file.Pos()).Filename]
		for _, pos := range ignoreMap.UnusedIgnores() {
			pass.Reportf(pos, "unused sideeffect:ignore directive")
		}
	}
}

// =============================================================================
// Reporter
// =============================================================================

// reporter turns graph edges into diagnostics.
//
// It ensures:
//   - Identical messages at the same position are only reported once
//   - Line-level and file-level ignore directives suppress reports
type reporter struct {
	pass       *analysis.Pass
	ignoreMaps map[string]directive.IgnoreMap
	reported   map[token.Pos][]string
}

func (r *reporter) report(instr goir.Instr, preds []goir.Instr) {
	pos := instr.Pos()
	if len(preds) == 0 || !pos.IsValid() {
		return
	}

	positions := make([]token.Pos, len(preds))
	for i, pred := range preds {
		positions[i] = pred.Pos()
	}
	lines := sortedLines(r.pass.Fset, positions)
	if len(lines) == 0 {
		return
	}

	labels := make([]string, len(lines))
	for i, line := range lines {
		labels[i] = fmt.Sprintf("L%d", line)
	}
	message := fmt.Sprintf("%s ordered after %s", Describe(instr), strings.Join(labels, ", "))

	if slices.Contains(r.reported[pos], message) {
		return
	}
	r.reported[pos] = append(r.reported[pos], message)

	position := r.pass.Fset.Position(pos)
	if ignoreMap := r.ignoreMaps[position.Filename]; ignoreMap != nil && ignoreMap.ShouldIgnore(position.Line) {
		return
	}
	r.pass.Reportf(pos, "%s", message)
}

// sortedLines returns the distinct lines of the valid positions, ascending.
// Blocks are laid out in index order, so a loop body can put a later line
// before an earlier one.
func sortedLines(fset *token.FileSet, positions []token.Pos) []int {
	var lines []int
	for _, p := range positions {
		if p.IsValid() {
			lines = append(lines, fset.Position(p).Line)
		}
	}
	slices.Sort(lines)
	return slices.Compact(lines)
}

// Describe names the kind of an effectful instruction.
//
//	┌─────────────────────┬──────────────────┐
//	│  Instruction        │  Kind            │
//	├─────────────────────┼──────────────────┤
//	│  *ssa.Store         │  store           │
//	│  *ssa.UnOp (*)      │  load            │
//	│  *ssa.UnOp (<-)     │  receive         │
//	│  *ssa.MapUpdate     │  map update      │
//	│  *ssa.Lookup        │  map lookup      │
//	│  *ssa.Range         │  range           │
//	│  *ssa.Send          │  send            │
//	│  *ssa.Call          │  call            │
//	│  *ssa.Go            │  go              │
//	│  *ssa.Defer         │  defer           │
//	│  *ssa.RunDefers     │  deferred calls  │
//	│  *ssa.Panic         │  panic           │
//	│  *ssa.Select        │  select          │
//	└─────────────────────┴──────────────────┘
func Describe(instr goir.Instr) string {
	switch instr := instr.(type) {
	case *ssa.Store:
		return "store"
	case *ssa.UnOp:
		if instr.Op == token.ARROW {
			return "receive"
		}
		return "load"
	case *ssa.MapUpdate:
		return "map update"
	case *ssa.Lookup:
		return "map lookup"
	case *ssa.Range:
		return "range"
	case *ssa.Send:
		return "send"
	case *ssa.Call:
		return "call"
	case *ssa.Go:
		return "go"
	case *ssa.Defer:
		return "defer"
	case *ssa.RunDefers:
		return "deferred calls"
	case *ssa.Panic:
		return "panic"
	case *ssa.Select:
		return "select"
	default:
		return "instruction"
	}
}
