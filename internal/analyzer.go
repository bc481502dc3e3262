// Package internal drives the control-dependency analysis over one package.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────────────────┐
//	│                         Analysis Flow                                   │
//	│                                                                         │
//	│   analyzer.go (public)                                                  │
//	│        │                                                                │
//	│        ▼                                                                │
//	│   internal/analyzer.go                                                  │
//	│   ┌─────────────────────────────────────────────────────────────────┐   │
//	│   │  Run()                                                          │   │
//	│   │    ├── Skip generated files                                     │   │
//	│   │    ├── Collect effect directives                                │   │
//	│   │    ├── Load the effect table                                    │   │
//	│   │    ├── Build the module (internal/goir)                         │   │
//	│   │    ├── Analyze all functions (internal/ctrldep)                 │   │
//	│   │    └── Print debug graphs                                       │   │
//	│   └─────────────────────────────────────────────────────────────────┘   │
//	│        │                                                                │
//	│        ▼                                                                │
//	│   internal/report.go                                                    │
//	│   (Diagnostics, ignore directives)                                      │
//	└─────────────────────────────────────────────────────────────────────────┘
package internal

import (
	"fmt"
	"go/ast"
	"io"
	"os"
	"regexp"

	"github.com/rs/zerolog"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/buildssa"
	"golang.org/x/tools/go/ssa"

	"github.com/mpyw/sideeffect/internal/ctrldep"
	"github.com/mpyw/sideeffect/internal/debug"
	"github.com/mpyw/sideeffect/internal/directive"
	"github.com/mpyw/sideeffect/internal/goir"
)

// Config holds the analyzer flags.
type Config struct {
	TablePath   string    // YAML effect table merged over the defaults; empty for defaults only
	Workers     int       // Functions analyzed concurrently; <= 1 is sequential
	DebugFilter string    // Regexp of function names to trace; empty disables debug output
	DOT         bool      // Also print traced graphs in Graphviz DOT format
	Stderr      io.Writer // Debug output; nil means os.Stderr
}

// Analysis is the result of Run.
type Analysis struct {
	Module *goir.Module
	Graphs *ctrldep.ModuleAnalysis[goir.Instr, goir.Value]
}

// Graph returns the graph of the top-level function enclosing fn, or nil.
func (a *Analysis) Graph(fn *ssa.Function) *ctrldep.FunctionAnalysis[goir.Instr, goir.Value] {
	f := a.Module.Lookup(fn)
	if f == nil {
		return nil
	}
	return a.Graphs.Function(f)
}

// =============================================================================
// Entry Point
// =============================================================================

// Run builds the control-dependency graphs of every source function in the
// package.
//
// Processing flow:
//  1. Drop functions declared in generated files
//  2. Collect //sideeffect:pure, :read and :write directives
//  3. Merge the user effect table over the embedded defaults
//  4. Analyze all functions, tracing those matching the debug filter
//  5. Print the graphs of traced functions, optionally as DOT
func Run(pass *analysis.Pass, ssaInfo *buildssa.SSA, cfg Config) (*Analysis, error) {
	var debugFilter *regexp.Regexp
	if cfg.DebugFilter != "" {
		re, err := regexp.Compile(cfg.DebugFilter)
		if err != nil {
			return nil, fmt.Errorf("invalid debug filter regex: %w", err)
		}
		debugFilter = re
	}

	table := goir.DefaultTable()
	if cfg.TablePath != "" {
		user, err := goir.LoadTable(cfg.TablePath)
		if err != nil {
			return nil, err
		}
		table = table.Merge(user)
	}

	skipFiles := buildSkipFiles(pass)
	directives := directive.NewFuncSet(pass.Fset)
	for _, file := range pass.Files {
		if skipFiles[pass.Fset.Position(file.Pos()).Filename] {
			continue
		}
		directives.AddAll(directive.BuildFunctionSet(file, pass.Pkg.Path()))
	}

	var srcFuncs []*ssa.Function
	for _, fn := range ssaInfo.SrcFuncs {
		if skipFiles[pass.Fset.Position(fn.Pos()).Filename] {
			continue
		}
		srcFuncs = append(srcFuncs, fn)
	}
	mod := goir.NewModule(srcFuncs)

	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	opts := []ctrldep.Option{ctrldep.WithWorkers(cfg.Workers)}
	if debugFilter != nil {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}).
			Level(zerolog.DebugLevel)
		opts = append(opts, ctrldep.WithLogger(logger), ctrldep.WithTraceFilter(debugFilter.MatchString))
	}

	graphs := ctrldep.NewModuleAnalysis[goir.Instr, goir.Value](mod, goir.NewClassifier(table, directives), opts...)

	if debugFilter != nil {
		for _, fn := range graphs.Functions() {
			if !debugFilter.MatchString(fn.String()) {
				continue
			}
			info := debug.NewInfo(graphs.Function(fn))
			fmt.Fprintf(stderr, "\n=== Debug output for %s ===\n", fn)
			fmt.Fprint(stderr, debug.Format(info, pass.Fset))
			if !cfg.DOT {
				continue
			}
			out, err := debug.FormatDOT(info, pass.Fset)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(stderr, "%s\n", out)
		}
	}

	return &Analysis{Module: mod, Graphs: graphs}, nil
}

// buildSkipFiles creates a set of filenames to skip.
// Generated files are always skipped.
// Test files can be skipped via the driver's built-in -test flag.
func buildSkipFiles(pass *analysis.Pass) map[string]bool {
	skipFiles := make(map[string]bool)
	for _, file := range pass.Files {
		if ast.IsGenerated(file) {
			skipFiles[pass.Fset.Position(file.Pos()).Filename] = true
		}
	}
	return skipFiles
}
