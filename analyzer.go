// Package sideeffect computes control-dependency edges between effectful
// instructions of Go functions.
//
// Two instructions get an edge when reordering them could change what the
// program observes: a write and a later read or write of the same memory, or
// any effectful instruction around one whose resources are unknown. Edges
// follow program order and are computed per function over SSA form, with
// anonymous functions analyzed as scopes nested in their enclosing function.
//
// Analyzer exposes the graphs to other analyzers as a *Result. ReportAnalyzer
// reports every edge as a diagnostic, which is mostly useful for inspection.
package sideeffect

import (
	"reflect"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/buildssa"

	"github.com/mpyw/sideeffect/internal"
)

var (
	configPath  string
	workers     int
	debugFilter string
	dotOutput   bool
)

// Analyzer builds the control-dependency graphs of a package.
var Analyzer = &analysis.Analyzer{
	Name:       "sideeffect",
	Doc:        "computes control dependencies between effectful instructions",
	Requires:   []*analysis.Analyzer{buildssa.Analyzer},
	Run:        run,
	ResultType: reflect.TypeOf((*Result)(nil)),
}

func init() {
	Analyzer.Flags.StringVar(&configPath, "config", "", "YAML effect table merged over the built-in defaults")
	Analyzer.Flags.IntVar(&workers, "workers", 1, "number of functions analyzed concurrently")
	Analyzer.Flags.StringVar(&debugFilter, "debug", "", "regexp of function names whose analysis is traced to stderr")
	Analyzer.Flags.BoolVar(&dotOutput, "dot", false, "with -debug, also print traced graphs in Graphviz DOT format")
}

func run(pass *analysis.Pass) (any, error) {
	ssaInfo := pass.ResultOf[buildssa.Analyzer].(*buildssa.SSA)

	a, err := internal.Run(pass, ssaInfo, internal.Config{
		TablePath:   configPath,
		Workers:     workers,
		DebugFilter: debugFilter,
		DOT:         dotOutput,
	})
	if err != nil {
		return nil, err
	}
	return &Result{analysis: a}, nil
}
