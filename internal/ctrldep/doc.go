// Package ctrldep computes control-dependency edges between the effectful
// instructions of a function.
//
// Downstream passes that reorder, parallelize or move code must keep every
// edge reported here: an edge from A to B means B has to stay after A.
//
// # Pipeline
//
//	┌───────────────────────────────────────────────────────────────────┐
//	│                      NewModuleAnalysis()                          │
//	│                              │                                    │
//	│              one per function (optionally parallel)               │
//	│                              ▼                                    │
//	│  ┌──────────────┐    ┌──────────────┐    ┌────────────────────┐   │
//	│  │ RegionWalker │ →  │ AccessTracker│    │  GraphFinalizer    │   │
//	│  │ (per scope)  │ ←  │ (per scope)  │ →  │ sorted pred/succ   │   │
//	│  └──────────────┘    └──────────────┘    └────────────────────┘   │
//	└───────────────────────────────────────────────────────────────────┘
//
// The package knows nothing about any concrete program representation.
// Instructions, values, aliasing and effect classification all come in
// through the interfaces in ir.go.
//
// # Unknown Resource
//
// When the aliasing oracle cannot enumerate the resources behind a value, or
// an effectful instruction cannot be classified, the instruction touches the
// Unknown resource. An unknown write is a barrier; edges from unknown
// accesses are skipped when an edge to a known resource already implies
// them.
package ctrldep
