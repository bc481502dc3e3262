package goir

import (
	"golang.org/x/tools/go/ssa"

	"github.com/mpyw/sideeffect/internal/ctrldep"
)

// Instr and Value are the ctrldep type arguments for Go SSA.
type (
	Instr = ssa.Instruction
	Value = ssa.Value
)

// =============================================================================
// Module
// =============================================================================

// Module is the whole-package unit: every top-level source function.
type Module struct {
	funcs  []*Function
	byFunc map[*ssa.Function]*Function
}

var _ ctrldep.Module[Instr, Value] = (*Module)(nil)

// NewModule builds a module from the source functions of a package, as
// listed by buildssa. Anonymous functions are not analyzed on their own:
// they are nested scopes of their enclosing function.
func NewModule(srcFuncs []*ssa.Function) *Module {
	m := &Module{byFunc: make(map[*ssa.Function]*Function)}
	for _, fn := range srcFuncs {
		if fn == nil || fn.Parent() != nil || fn.Blocks == nil {
			continue
		}
		if _, dup := m.byFunc[fn]; dup {
			continue
		}
		f := newFunction(fn)
		m.funcs = append(m.funcs, f)
		m.byFunc[fn] = f
	}
	return m
}

// Functions implements ctrldep.Module.
func (m *Module) Functions() []ctrldep.Function[Instr, Value] {
	out := make([]ctrldep.Function[Instr, Value], len(m.funcs))
	for i, f := range m.funcs {
		out[i] = f
	}
	return out
}

// NewAliasAnalysis implements ctrldep.Module.
func (m *Module) NewAliasAnalysis() ctrldep.AliasAnalysis[Instr, Value] {
	return NewAliasAnalysis(m.funcs)
}

// Lookup returns the Function analyzing fn. Anonymous functions resolve to
// their enclosing top-level function. Returns nil if fn is not part of the
// module.
func (m *Module) Lookup(fn *ssa.Function) *Function {
	for fn != nil && fn.Parent() != nil {
		fn = fn.Parent()
	}
	return m.byFunc[fn]
}

// =============================================================================
// Function
// =============================================================================

// Function is one top-level function together with the anonymous functions
// nested in it.
type Function struct {
	fn *ssa.Function

	// owned maps an instruction to the anonymous functions whose bodies are
	// nested scopes of that instruction.
	owned map[ssa.Instruction][]*ssa.Function
}

var _ ctrldep.Function[Instr, Value] = (*Function)(nil)

func newFunction(fn *ssa.Function) *Function {
	f := &Function{
		fn:    fn,
		owned: make(map[ssa.Instruction][]*ssa.Function),
	}
	f.claim(fn, map[*ssa.Function]bool{fn: true})
	return f
}

// claim walks fn in program order and hands every anonymous function to the
// first instruction that references it: a MakeClosure, or a call of a
// closure without free variables.
func (f *Function) claim(fn *ssa.Function, claimed map[*ssa.Function]bool) {
	var operands []*ssa.Value
	for _, instr := range scopeOf(fn) {
		operands = instr.Operands(operands[:0])
		for _, op := range operands {
			if op == nil {
				continue
			}
			anon, ok := (*op).(*ssa.Function)
			if !ok || anon.Parent() == nil || claimed[anon] || anon.Blocks == nil {
				continue
			}
			claimed[anon] = true
			f.owned[instr] = append(f.owned[instr], anon)
			f.claim(anon, claimed)
		}
	}
}

// scopeOf flattens the blocks of fn in index order.
func scopeOf(fn *ssa.Function) ctrldep.Scope[Instr] {
	var scope ctrldep.Scope[Instr]
	for _, b := range fn.Blocks {
		scope = append(scope, b.Instrs...)
	}
	return scope
}

// SSA returns the underlying top-level function.
func (f *Function) SSA() *ssa.Function { return f.fn }

// Body implements ctrldep.Function.
func (f *Function) Body() ctrldep.Scope[Instr] { return scopeOf(f.fn) }

// Regions implements ctrldep.Function.
func (f *Function) Regions(instr Instr) []ctrldep.Scope[Instr] {
	anons := f.owned[instr]
	if len(anons) == 0 {
		return nil
	}
	scopes := make([]ctrldep.Scope[Instr], len(anons))
	for i, anon := range anons {
		scopes[i] = scopeOf(anon)
	}
	return scopes
}

// ResourceValues implements ctrldep.Function.
func (f *Function) ResourceValues(instr Instr) []Value { return accessedValues(instr) }

func (f *Function) String() string { return f.fn.String() }

// allInstrs lists every instruction of f and its nested scopes, in program
// order.
func (f *Function) allInstrs() []Instr {
	var out []Instr
	var walk func(scope ctrldep.Scope[Instr])
	walk = func(scope ctrldep.Scope[Instr]) {
		for _, instr := range scope {
			out = append(out, instr)
			for _, anon := range f.owned[instr] {
				walk(scopeOf(anon))
			}
		}
	}
	walk(f.Body())
	return out
}
