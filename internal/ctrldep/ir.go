package ctrldep

// =============================================================================
// Program Representation
// =============================================================================

// Scope is an ordered sequence of instructions. Any instruction in it may
// own further nested scopes.
type Scope[I comparable] []I

// Function is the unit of analysis. I is the instruction type and V the
// type of resource-typed values.
type Function[I comparable, V any] interface {
	// Body returns the top-level scope of the function.
	Body() Scope[I]

	// Regions returns the nested scopes owned by instr, in order.
	Regions(instr I) []Scope[I]

	// ResourceValues returns the resource-typed operands and results of
	// instr, to be resolved by the aliasing oracle.
	ResourceValues(instr I) []V

	String() string
}

// Module is a whole-program unit: a set of independently analyzed functions.
type Module[I comparable, V any] interface {
	Functions() []Function[I, V]

	// NewAliasAnalysis builds the aliasing context for the whole module.
	NewAliasAnalysis() AliasAnalysis[I, V]
}

// =============================================================================
// Oracles
// =============================================================================

// AliasAnalysis hands out per-function aliasing oracles. Resource ids are
// only meaningful within one function.
type AliasAnalysis[I comparable, V any] interface {
	ForFunction(fn Function[I, V]) AliasOracle[V]
}

// AliasOracle maps resource-typed values to resource identifiers.
type AliasOracle[V any] interface {
	// IsUnknown reports whether the resources behind v cannot be enumerated.
	IsUnknown(v V) bool

	// ResourceIDs returns the resources v may refer to. Only defined when
	// IsUnknown(v) is false.
	ResourceIDs(v V) []uint64
}

// EffectOracle classifies instructions.
type EffectOracle[I comparable, V any] interface {
	// AccessKind returns AccessNotApplicable when there is no resource
	// access info for instr.
	AccessKind(instr I) AccessKind

	IsSideEffectFree(instr I) bool

	// IsDeclaration reports whether instr creates a fresh resource handle
	// that aliases nothing.
	IsDeclaration(instr I, alias AliasOracle[V]) bool
}
