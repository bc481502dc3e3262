package internal

import (
	"bytes"
	"go/token"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/analysistest"
	"golang.org/x/tools/go/analysis/passes/buildssa"
	"golang.org/x/tools/go/ssa"

	"github.com/mpyw/sideeffect/internal/goir"
)

// newTestAnalyzer runs Run with cfg and stores the analysis in *out.
func newTestAnalyzer(cfg Config, out **Analysis) *analysis.Analyzer {
	return &analysis.Analyzer{
		Name:     "sideeffecttest",
		Doc:      "test",
		Requires: []*analysis.Analyzer{buildssa.Analyzer},
		Run: func(pass *analysis.Pass) (any, error) {
			a, err := Run(pass, pass.ResultOf[buildssa.Analyzer].(*buildssa.SSA), cfg)
			if err != nil {
				return nil, err
			}
			*out = a
			return nil, nil
		},
	}
}

// =============================================================================
// Run
// =============================================================================

func TestRun(t *testing.T) {
	t.Parallel()

	var a *Analysis
	analysistest.Run(t, analysistest.TestData(), newTestAnalyzer(Config{Workers: 2}, &a), "debugpkg")
	if a == nil {
		t.Fatal("Run() produced no analysis")
	}

	funcs := a.Graphs.Functions()
	if len(funcs) != 2 {
		t.Fatalf("got %d functions, want 2", len(funcs))
	}
	for _, fn := range funcs {
		f := fn.(*goir.Function)
		g := a.Graph(f.SSA())
		if g == nil {
			t.Fatalf("Graph(%v) = nil", f)
		}
		if g.EdgeCount() != 1 {
			t.Errorf("%v has %d edges, want 1", f, g.EdgeCount())
		}
	}
	if a.Graph(nil) != nil {
		t.Error("Graph(nil) should be nil")
	}
}

func TestRunDebugOutput(t *testing.T) {
	t.Parallel()

	var (
		a   *Analysis
		buf bytes.Buffer
	)
	cfg := Config{DebugFilter: `\.traced$`, Stderr: &buf}
	analysistest.Run(t, analysistest.TestData(), newTestAnalyzer(cfg, &a), "debugpkg")

	out := buf.String()
	for _, want := range []string{
		"=== Debug output for debugpkg.traced ===",
		"Function: debugpkg.traced (1 edges)",
		"access",
		"func=debugpkg.traced",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "untraced") {
		t.Errorf("debug output mentions a function outside the filter:\n%s", out)
	}
}

func TestRunDOTOutput(t *testing.T) {
	t.Parallel()

	t.Run("traced functions", func(t *testing.T) {
		t.Parallel()

		var (
			a   *Analysis
			buf bytes.Buffer
		)
		cfg := Config{DebugFilter: `\.traced$`, DOT: true, Stderr: &buf}
		analysistest.Run(t, analysistest.TestData(), newTestAnalyzer(cfg, &a), "debugpkg")

		out := buf.String()
		for _, want := range []string{
			"Function: debugpkg.traced (1 edges)",
			"digraph",
			"debugpkg.traced",
			"->",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("debug output missing %q:\n%s", want, out)
			}
		}
		if strings.Count(out, "digraph") != 1 {
			t.Errorf("want exactly one DOT graph:\n%s", out)
		}
	})

	t.Run("without debug filter", func(t *testing.T) {
		t.Parallel()

		var (
			a   *Analysis
			buf bytes.Buffer
		)
		analysistest.Run(t, analysistest.TestData(), newTestAnalyzer(Config{DOT: true, Stderr: &buf}, &a), "debugpkg")
		if buf.Len() != 0 {
			t.Errorf("DOT without a debug filter printed:\n%s", buf.String())
		}
	})
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"bad debug regexp", Config{DebugFilter: "("}, "invalid debug filter regex"},
		{"missing table", Config{TablePath: filepath.Join(t.TempDir(), "missing.yaml")}, "read effect table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Both errors are detected before the pass is used.
			_, err := Run(nil, nil, tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Run() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

// =============================================================================
// Describe
// =============================================================================

func TestDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		instr ssa.Instruction
		want  string
	}{
		{&ssa.Store{}, "store"},
		{&ssa.MapUpdate{}, "map update"},
		{&ssa.Lookup{}, "map lookup"},
		{&ssa.Range{}, "range"},
		{&ssa.Send{}, "send"},
		{&ssa.Call{}, "call"},
		{&ssa.Go{}, "go"},
		{&ssa.Defer{}, "defer"},
		{&ssa.RunDefers{}, "deferred calls"},
		{&ssa.Panic{}, "panic"},
		{&ssa.Select{}, "select"},
		{&ssa.Return{}, "instruction"},
	}

	for _, tt := range tests {
		if got := Describe(tt.instr); got != tt.want {
			t.Errorf("Describe(%T) = %q, want %q", tt.instr, got, tt.want)
		}
	}
}

func TestSortedLines(t *testing.T) {
	t.Parallel()

	fset := token.NewFileSet()
	file := fset.AddFile("p.go", -1, 100)
	file.SetLinesForContent([]byte(strings.Repeat("line\n", 20)))
	at := func(line int) token.Pos { return file.LineStart(line) }

	tests := []struct {
		name      string
		positions []token.Pos
		want      []int
	}{
		{"program order", []token.Pos{at(3), at(5)}, []int{3, 5}},
		{"loop body before header", []token.Pos{at(5), at(7), at(5)}, []int{5, 7}},
		{"same line twice", []token.Pos{at(4), at(4) + 2}, []int{4}},
		{"invalid positions dropped", []token.Pos{token.NoPos, at(2)}, []int{2}},
		{"nothing valid", []token.Pos{token.NoPos}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, sortedLines(fset, tt.positions)); diff != "" {
				t.Errorf("sortedLines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
