package goir

import (
	"fmt"
	"slices"

	"golang.org/x/tools/go/ssa"

	"github.com/mpyw/sideeffect/internal/ctrldep"
)

// AliasAnalysis holds the aliasing info of every function of a module.
//
// Everything is resolved up front, so the per-function oracles are
// read-only and safe to share between goroutines.
type AliasAnalysis struct {
	infos map[*ssa.Function]*AliasInfo
}

var _ ctrldep.AliasAnalysis[Instr, Value] = (*AliasAnalysis)(nil)

// NewAliasAnalysis resolves the resources of every accessed value in funcs.
func NewAliasAnalysis(funcs []*Function) *AliasAnalysis {
	a := &AliasAnalysis{infos: make(map[*ssa.Function]*AliasInfo, len(funcs))}
	for _, f := range funcs {
		a.infos[f.fn] = newAliasInfo(f)
	}
	return a
}

// ForFunction implements ctrldep.AliasAnalysis.
func (a *AliasAnalysis) ForFunction(fn ctrldep.Function[Instr, Value]) ctrldep.AliasOracle[Value] {
	f, ok := fn.(*Function)
	if !ok {
		panic(fmt.Sprintf("goir: alias analysis for foreign function %T", fn))
	}
	return a.Info(f.fn)
}

// Info returns the aliasing info of a top-level function. Functions outside
// the module get an info that knows nothing, so every value is unknown.
func (a *AliasAnalysis) Info(fn *ssa.Function) *AliasInfo {
	if info := a.infos[fn]; info != nil {
		return info
	}
	return &AliasInfo{}
}

// =============================================================================
// Per-Function Info
// =============================================================================

type resolution struct {
	ids     []uint64
	unknown bool
}

// AliasInfo is the aliasing oracle of one top-level function, closures
// included. Resource ids are only meaningful within it.
type AliasInfo struct {
	resolved map[ssa.Value]resolution
}

var _ ctrldep.AliasOracle[Value] = (*AliasInfo)(nil)

// IsUnknown implements ctrldep.AliasOracle.
func (i *AliasInfo) IsUnknown(v ssa.Value) bool {
	r, ok := i.resolved[v]
	return !ok || r.unknown
}

// ResourceIDs implements ctrldep.AliasOracle.
func (i *AliasInfo) ResourceIDs(v ssa.Value) []uint64 {
	return i.resolved[v].ids
}

func newAliasInfo(f *Function) *AliasInfo {
	instrs := f.allInstrs()
	b := &aliasBuilder{
		roots:    make(map[ssa.Value]uint64),
		bindings: make(map[*ssa.FreeVar]ssa.Value),
		memo:     make(map[ssa.Value]resolution),
	}
	for _, instr := range instrs {
		mc, ok := instr.(*ssa.MakeClosure)
		if !ok {
			continue
		}
		anon, ok := mc.Fn.(*ssa.Function)
		if !ok {
			continue
		}
		for i, fv := range anon.FreeVars {
			if i < len(mc.Bindings) {
				b.bindings[fv] = mc.Bindings[i]
			}
		}
	}

	info := &AliasInfo{resolved: make(map[ssa.Value]resolution)}
	for _, instr := range instrs {
		for _, v := range accessedValues(instr) {
			info.resolved[v] = b.resolve(v)
		}
		if isAllocation(instr) {
			v := instr.(ssa.Value)
			info.resolved[v] = b.resolve(v)
		}
	}
	return info
}

// =============================================================================
// Root Tracing
// =============================================================================

// aliasBuilder traces values back to the allocation they point into.
//
//	┌────────────────────────┬────────────────────────────────────────────┐
//	│  SSA Construct         │  Tracing Behavior                          │
//	├────────────────────────┼────────────────────────────────────────────┤
//	│  Alloc/Global/Make*    │  STOP - root, one resource id              │
//	│  FieldAddr/IndexAddr   │  Trace the base (fields are not separated) │
//	│  Slice/ChangeType      │  Trace the operand                         │
//	│  FreeVar               │  Trace the binding in parent's MakeClosure │
//	│  Phi                   │  Union of all edges                        │
//	│  anything else         │  STOP - unknown                            │
//	└────────────────────────┴────────────────────────────────────────────┘
type aliasBuilder struct {
	roots    map[ssa.Value]uint64
	bindings map[*ssa.FreeVar]ssa.Value
	memo     map[ssa.Value]resolution
}

func (b *aliasBuilder) resolve(v ssa.Value) resolution {
	if r, ok := b.memo[v]; ok {
		return r
	}
	r := b.trace(v, make(map[ssa.Value]bool))
	if !r.unknown && len(r.ids) == 0 {
		r = resolution{unknown: true}
	}
	b.memo[v] = r
	return r
}

func (b *aliasBuilder) trace(v ssa.Value, visiting map[ssa.Value]bool) resolution {
	if v == nil {
		return resolution{unknown: true}
	}
	if visiting[v] {
		// Cycle through a Phi: adds no new roots.
		return resolution{}
	}
	visiting[v] = true

	switch v := v.(type) {
	case *ssa.Alloc, *ssa.Global, *ssa.MakeMap, *ssa.MakeChan, *ssa.MakeSlice:
		return resolution{ids: []uint64{b.rootID(v)}}
	case *ssa.FieldAddr:
		return b.trace(v.X, visiting)
	case *ssa.IndexAddr:
		return b.trace(v.X, visiting)
	case *ssa.Slice:
		return b.trace(v.X, visiting)
	case *ssa.ChangeType:
		return b.trace(v.X, visiting)
	case *ssa.FreeVar:
		if binding, ok := b.bindings[v]; ok {
			return b.trace(binding, visiting)
		}
	case *ssa.Phi:
		var ids []uint64
		for _, edge := range v.Edges {
			r := b.trace(edge, visiting)
			if r.unknown {
				return r
			}
			ids = append(ids, r.ids...)
		}
		slices.Sort(ids)
		return resolution{ids: slices.Compact(ids)}
	}
	return resolution{unknown: true}
}

func (b *aliasBuilder) rootID(v ssa.Value) uint64 {
	if id, ok := b.roots[v]; ok {
		return id
	}
	id := uint64(len(b.roots))
	b.roots[v] = id
	return id
}
