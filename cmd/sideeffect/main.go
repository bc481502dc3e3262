// Command sideeffect reports control dependencies between effectful
// instructions of Go functions.
//
// Usage:
//
//	sideeffect ./...
//	sideeffect -config effects.yaml -debug 'pkg\.Handler' ./...
//	sideeffect -debug 'pkg\.Handler' -dot ./... 2>graphs.txt
//
// Or as a vet tool:
//
//	go vet -vettool=$(which sideeffect) ./...
package main

import (
	"flag"

	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/mpyw/sideeffect"
)

func main() {
	exposeFlags()
	singlechecker.Main(sideeffect.ReportAnalyzer)
}

// exposeFlags lists the flags of sideeffect.Analyzer on ReportAnalyzer.
// singlechecker only parses the flags of the analyzer it runs.
func exposeFlags() {
	sideeffect.Analyzer.Flags.VisitAll(func(f *flag.Flag) {
		if sideeffect.ReportAnalyzer.Flags.Lookup(f.Name) == nil {
			sideeffect.ReportAnalyzer.Flags.Var(f.Value, f.Name, f.Usage)
		}
	})
}
