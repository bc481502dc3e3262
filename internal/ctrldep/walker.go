package ctrldep

import (
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog"
)

// =============================================================================
// Raw Edges
// =============================================================================

// edgeSet maps an instruction's arena index to the set of its predecessors.
// Sets may overlap when nested scopes are merged; the finalizer dedups.
type edgeSet map[int]*bitset.BitSet

func (e edgeSet) add(succ, pred int) {
	preds := e[succ]
	if preds == nil {
		preds = bitset.New(uint(succ))
		e[succ] = preds
	}
	preds.Set(uint(pred))
}

func (e edgeSet) merge(other edgeSet) {
	for succ, preds := range other {
		if mine, ok := e[succ]; ok {
			mine.InPlaceUnion(preds)
			continue
		}
		e[succ] = preds
	}
}

// =============================================================================
// Region Walker
// =============================================================================

// walkContext is shared, read-only state for every walker of one function.
type walkContext[I comparable, V any] struct {
	fn      Function[I, V]
	alias   AliasOracle[V]
	effects EffectOracle[I, V]
	index   map[I]int
	log     zerolog.Logger
}

// regionWalker traverses one scope in program order with its own tracker.
//
// Nested scopes get a fresh walker; only their edges flow back to the
// parent, never their access history:
//
//	scope ─┬─ instr ──▶ child scope (fresh tracker) ──▶ edges ─┐
//	       │                                                   │
//	       │  ◀──────────────── merge ─────────────────────────┘
//	       └─ instr ──▶ tracker.recordAccess(...)
type regionWalker[I comparable, V any] struct {
	ctx     *walkContext[I, V]
	tracker *accessTracker
	edges   edgeSet
}

// walkRegion returns the raw predecessor sets produced by scope and all
// scopes nested in it.
func walkRegion[I comparable, V any](ctx *walkContext[I, V], scope Scope[I]) edgeSet {
	w := &regionWalker[I, V]{
		ctx:     ctx,
		tracker: newAccessTracker(),
		edges:   make(edgeSet),
	}
	for _, instr := range scope {
		w.visit(instr)
	}
	return w.edges
}

func (w *regionWalker[I, V]) visit(instr I) {
	for _, child := range w.ctx.fn.Regions(instr) {
		w.edges.merge(walkRegion(w.ctx, child))
	}

	effects := w.ctx.effects
	if effects.IsDeclaration(instr, w.ctx.alias) {
		return
	}
	kind := effects.AccessKind(instr)
	if kind == AccessNotApplicable && effects.IsSideEffectFree(instr) {
		return
	}

	idx := w.ctx.index[instr]
	resources := w.resolve(instr, kind)
	if len(resources) == 0 {
		panic(fmt.Sprintf("ctrldep: %v in %s accesses resources but none were resolved", instr, w.ctx.fn))
	}
	isUnknown := resources[0].IsUnknown()
	isRead := kind == AccessRead

	indirectlyTracked := false
	if isUnknown {
		for _, id := range w.tracker.knownResources() {
			w.addPredecessors(id, idx, isRead)
			if w.tracker.tracksUnknownAccess(id, isRead) {
				indirectlyTracked = true
			}
		}
	} else {
		for _, id := range resources {
			w.addPredecessors(id, idx, isRead)
			if w.tracker.tracksUnknownAccess(id, isRead) {
				indirectlyTracked = true
			}
			w.tracker.recordAccess(id, idx, isRead)
		}
	}
	if !indirectlyTracked {
		w.addPredecessors(Unknown, idx, isRead)
	}
	if isUnknown {
		w.tracker.recordAccess(Unknown, idx, isRead)
	}

	if e := w.ctx.log.Debug(); e.Enabled() {
		names := make([]string, len(resources))
		for i, id := range resources {
			names[i] = id.String()
		}
		e.Int("pos", idx).
			Str("instr", fmt.Sprint(instr)).
			Strs("resources", names).
			Bool("read", isRead).
			Bool("unknown_tracked", indirectlyTracked).
			Ints("preds", setBits(w.edges[idx])).
			Msg("access")
	}
}

// resolve returns the resources instr touches: either a deduplicated set of
// known ids in ascending order, or exactly {Unknown}.
func (w *regionWalker[I, V]) resolve(instr I, kind AccessKind) []ResourceID {
	if kind == AccessNotApplicable {
		return []ResourceID{Unknown}
	}
	var ids []uint64
	for _, v := range w.ctx.fn.ResourceValues(instr) {
		if w.ctx.alias.IsUnknown(v) {
			return []ResourceID{Unknown}
		}
		ids = append(ids, w.ctx.alias.ResourceIDs(v)...)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	resources := make([]ResourceID, len(ids))
	for i, id := range ids {
		resources[i] = Known(id)
	}
	return resources
}

// addPredecessors adds the edges instr needs from earlier accesses to id.
//
// A write depends on every read since the last write. The last write itself
// is only added when there were no such reads; otherwise each read already
// depends on it. A read depends on the last write only.
func (w *regionWalker[I, V]) addPredecessors(id ResourceID, instr int, isRead bool) {
	rec := w.tracker.lookup(id)
	if rec == nil {
		return
	}
	readTracked := false
	if !isRead {
		for _, read := range rec.readsSinceLastWrite {
			w.edges.add(instr, read)
		}
		readTracked = len(rec.readsSinceLastWrite) > 0
	}
	if rec.lastWrite >= 0 && !readTracked {
		w.edges.add(instr, rec.lastWrite)
	}
}

func setBits(bs *bitset.BitSet) []int {
	if bs == nil {
		return nil
	}
	out := make([]int, 0, bs.Count())
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}
