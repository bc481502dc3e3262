// Package goir adapts Go SSA (golang.org/x/tools/go/ssa) to the program
// representation expected by package ctrldep.
//
// # Mapping
//
//	┌──────────────────────────┬──────────────────────────────────────────┐
//	│  ctrldep concept         │  Go SSA                                  │
//	├──────────────────────────┼──────────────────────────────────────────┤
//	│  Module                  │  source functions of one *ssa.Package    │
//	│  Function                │  top-level *ssa.Function                 │
//	│  Scope                   │  instructions of all blocks, block order │
//	│  nested Scope            │  body of an anonymous function, owned by │
//	│                          │  the first instruction referencing it    │
//	│  resource                │  allocation root of a pointer, map, chan │
//	│                          │  or slice value                          │
//	│  declaration             │  Alloc, MakeMap, MakeChan, MakeSlice     │
//	└──────────────────────────┴──────────────────────────────────────────┘
//
// Classification of calls comes from, in order: source directives
// (//sideeffect:pure, //sideeffect:read, //sideeffect:write), the effect
// table loaded from YAML, and the embedded default table. Everything else
// is an unknown effect.
package goir
