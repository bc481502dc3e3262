package ctrldep

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ModuleAnalysis holds one FunctionAnalysis per function of a module.
//
// Functions share no analysis state: resource ids are scoped per function
// by the aliasing oracle, so they can be analyzed concurrently.
type ModuleAnalysis[I comparable, V any] struct {
	funcs  []Function[I, V]
	byFunc map[Function[I, V]]*FunctionAnalysis[I, V]
}

// NewModuleAnalysis analyzes every function of node. node must be a
// Module; anything else is a programming error and panics.
func NewModuleAnalysis[I comparable, V any](node any, effects EffectOracle[I, V], opts ...Option) *ModuleAnalysis[I, V] {
	mod, ok := node.(Module[I, V])
	if !ok {
		panic(fmt.Sprintf("ctrldep: module analysis requires a module, got %T", node))
	}
	o := newOptions(opts)

	aliases := mod.NewAliasAnalysis()
	funcs := mod.Functions()
	results := make([]*FunctionAnalysis[I, V], len(funcs))
	analyze := func(i int) {
		fn := funcs[i]
		results[i] = newFunctionAnalysis(fn, aliases.ForFunction(fn), effects, o)
	}

	if o.workers > 1 {
		g := new(errgroup.Group)
		g.SetLimit(o.workers)
		for i := range funcs {
			g.Go(func() error {
				analyze(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range funcs {
			analyze(i)
		}
	}

	m := &ModuleAnalysis[I, V]{
		funcs:  funcs,
		byFunc: make(map[Function[I, V]]*FunctionAnalysis[I, V], len(funcs)),
	}
	for i, fn := range funcs {
		m.byFunc[fn] = results[i]
	}
	return m
}

// Function returns the analysis of fn, or nil if fn is not in the module.
func (m *ModuleAnalysis[I, V]) Function(fn Function[I, V]) *FunctionAnalysis[I, V] {
	return m.byFunc[fn]
}

// Functions returns the analyzed functions in module order.
func (m *ModuleAnalysis[I, V]) Functions() []Function[I, V] { return m.funcs }
