package goir

import (
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ssa"
)

// =============================================================================
// Type Detection
// =============================================================================

// IsResourceType reports whether values of type t refer to shared mutable
// state: pointers, maps, channels and slices.
func IsResourceType(t types.Type) bool {
	switch t.Underlying().(type) {
	case *types.Pointer, *types.Map, *types.Chan, *types.Slice:
		return true
	}
	return false
}

func isMap(t types.Type) bool {
	_, ok := t.Underlying().(*types.Map)
	return ok
}

// canReference reports whether a value of type t may carry a reference to
// shared mutable state. Interfaces and funcs may hide any pointer, and
// structs and arrays carry whatever their elements carry. Strings and other
// basic values cannot, except unsafe.Pointer.
func canReference(t types.Type) bool {
	if IsResourceType(t) {
		return true
	}
	switch t := t.Underlying().(type) {
	case *types.Interface, *types.Signature:
		return true
	case *types.Struct:
		for i := range t.NumFields() {
			if canReference(t.Field(i).Type()) {
				return true
			}
		}
	case *types.Array:
		return t.Len() > 0 && canReference(t.Elem())
	case *types.Basic:
		return t.Kind() == types.UnsafePointer
	}
	return false
}

// =============================================================================
// Accessed Values
// =============================================================================

// accessedValues returns the values whose resources instr reads or writes.
//
//	┌──────────────────────────┬───────────────────────────────┐
//	│  Instruction             │  Accessed                     │
//	├──────────────────────────┼───────────────────────────────┤
//	│  *ssa.Store              │  Addr                         │
//	│  *ssa.UnOp (* and <-)    │  X                            │
//	│  *ssa.MapUpdate          │  Map                          │
//	│  *ssa.Lookup (map)       │  X                            │
//	│  *ssa.Range (map)        │  X                            │
//	│  *ssa.Send               │  Chan                         │
//	│  *ssa.Call               │  reference-carrying args      │
//	└──────────────────────────┴───────────────────────────────┘
func accessedValues(instr ssa.Instruction) []ssa.Value {
	switch instr := instr.(type) {
	case *ssa.Store:
		return []ssa.Value{instr.Addr}
	case *ssa.UnOp:
		if instr.Op == token.MUL || instr.Op == token.ARROW {
			return []ssa.Value{instr.X}
		}
	case *ssa.MapUpdate:
		return []ssa.Value{instr.Map}
	case *ssa.Lookup:
		if isMap(instr.X.Type()) {
			return []ssa.Value{instr.X}
		}
	case *ssa.Range:
		if isMap(instr.X.Type()) {
			return []ssa.Value{instr.X}
		}
	case *ssa.Send:
		return []ssa.Value{instr.Chan}
	case *ssa.Call:
		return resourceArgs(instr.Common())
	}
	return nil
}

// resourceArgs returns the arguments of a call that may reference shared
// state, including a method receiver. Only pointers, maps, chans and slices
// resolve to known resources; the rest resolve to the unknown resource.
func resourceArgs(common *ssa.CallCommon) []ssa.Value {
	var out []ssa.Value
	for _, arg := range common.Args {
		if canReference(arg.Type()) {
			out = append(out, arg)
		}
	}
	return out
}
