package sideeffect

import (
	"golang.org/x/tools/go/analysis"

	"github.com/mpyw/sideeffect/internal"
)

// ReportAnalyzer reports the predecessors of every effectful instruction.
var ReportAnalyzer = &analysis.Analyzer{
	Name:     "sideeffectreport",
	Doc:      "reports control dependencies between effectful instructions",
	Requires: []*analysis.Analyzer{Analyzer},
	Run:      runReport,
}

func runReport(pass *analysis.Pass) (any, error) {
	result := pass.ResultOf[Analyzer].(*Result)
	internal.Report(pass, result.analysis)
	return nil, nil
}
