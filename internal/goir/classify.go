package goir

import (
	"go/token"

	"golang.org/x/tools/go/ssa"

	"github.com/mpyw/sideeffect/internal/ctrldep"
	"github.com/mpyw/sideeffect/internal/directive"
)

// Classifier is the effect oracle for Go SSA.
//
// Calls are classified by the first source that knows the callee:
//
//  1. Builtins, from a fixed list
//  2. //sideeffect:pure, //sideeffect:read and //sideeffect:write directives
//  3. The effect table
//
// Any other call is an effectful instruction with unknown resources, which
// orders it against every earlier and later access.
type Classifier struct {
	table      *Table
	directives *directive.FuncSet
}

var _ ctrldep.EffectOracle[Instr, Value] = (*Classifier)(nil)

// NewClassifier creates a Classifier. Both arguments may be nil.
func NewClassifier(table *Table, directives *directive.FuncSet) *Classifier {
	return &Classifier{table: table, directives: directives}
}

// AccessKind implements ctrldep.EffectOracle.
func (c *Classifier) AccessKind(instr Instr) ctrldep.AccessKind {
	switch instr := instr.(type) {
	case *ssa.Store, *ssa.MapUpdate, *ssa.Send:
		return ctrldep.AccessWrite
	case *ssa.UnOp:
		switch instr.Op {
		case token.ARROW:
			return ctrldep.AccessWrite
		case token.MUL:
			return ctrldep.AccessRead
		}
	case *ssa.Lookup:
		if isMap(instr.X.Type()) {
			return ctrldep.AccessRead
		}
	case *ssa.Range:
		if isMap(instr.X.Type()) {
			return ctrldep.AccessRead
		}
	case *ssa.Call:
		if len(resourceArgs(instr.Common())) == 0 {
			break
		}
		switch c.CallEffect(instr.Common()) {
		case EffectRead:
			return ctrldep.AccessRead
		case EffectWrite:
			return ctrldep.AccessWrite
		}
	}
	return ctrldep.AccessNotApplicable
}

// IsSideEffectFree implements ctrldep.EffectOracle. It is only consulted for
// instructions without an access kind.
func (c *Classifier) IsSideEffectFree(instr Instr) bool {
	switch instr := instr.(type) {
	case *ssa.Go, *ssa.Defer, *ssa.RunDefers, *ssa.Panic, *ssa.Select:
		return false
	case *ssa.Call:
		switch c.CallEffect(instr.Common()) {
		case EffectPure:
			return true
		case EffectRead, EffectWrite:
			// Declared effects are free only when no argument can reference memory.
			return len(resourceArgs(instr.Common())) == 0
		}
		return false
	}
	return true
}

// IsDeclaration implements ctrldep.EffectOracle.
func (c *Classifier) IsDeclaration(instr Instr, alias ctrldep.AliasOracle[Value]) bool {
	if !isAllocation(instr) {
		return false
	}
	return !alias.IsUnknown(instr.(ssa.Value))
}

func isAllocation(instr ssa.Instruction) bool {
	switch instr.(type) {
	case *ssa.Alloc, *ssa.MakeMap, *ssa.MakeChan, *ssa.MakeSlice:
		return true
	}
	return false
}

// =============================================================================
// Callee Effects
// =============================================================================

// CallEffect returns the effect of the function called by common.
// Dynamic calls (interface methods, function values) are unknown.
func (c *Classifier) CallEffect(common *ssa.CallCommon) Effect {
	if common.IsInvoke() {
		return EffectUnknown
	}
	if b, ok := common.Value.(*ssa.Builtin); ok {
		return builtinEffect(b.Name())
	}
	fn := common.StaticCallee()
	if fn == nil {
		return EffectUnknown
	}

	switch c.directives.Lookup(fn) {
	case directive.Pure:
		return EffectPure
	case directive.Read:
		return EffectRead
	case directive.Write:
		return EffectWrite
	}
	if e, ok := c.table.Lookup(TableKey(fn)); ok {
		return e
	}
	return EffectUnknown
}

// TableKey returns the effect table key of fn: its SSA name, taken from the
// generic origin for instantiations.
func TableKey(fn *ssa.Function) string {
	if origin := fn.Origin(); origin != nil {
		fn = origin
	}
	return fn.String()
}

//	┌──────────────────────────────────────────────┬──────────┐
//	│  Builtin                                     │  Effect  │
//	├──────────────────────────────────────────────┼──────────┤
//	│  len cap min max real imag complex           │  pure    │
//	│  ssa:wrapnilchk                              │  pure    │
//	│  copy append delete clear close              │  write   │
//	│  anything else (print, recover, ...)         │  unknown │
//	└──────────────────────────────────────────────┴──────────┘
func builtinEffect(name string) Effect {
	switch name {
	case "len", "cap", "min", "max", "real", "imag", "complex", "ssa:wrapnilchk":
		return EffectPure
	case "copy", "append", "delete", "clear", "close":
		return EffectWrite
	}
	return EffectUnknown
}
