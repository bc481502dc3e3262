package ctrldep

// graph is the finalized form of an edgeSet: deduplicated adjacency lists
// in ascending program position. It is immutable once built.
type graph struct {
	preds map[int][]int
	succs map[int][]int
	edges int
}

// finalize converts raw predecessor sets over n instructions into sorted
// predecessor and successor lists.
//
// Scanning successors in ascending order and bits in ascending order yields
// both lists already sorted, so no explicit sort pass is needed.
func finalize(raw edgeSet, n int) *graph {
	g := &graph{
		preds: make(map[int][]int, len(raw)),
		succs: make(map[int][]int),
	}
	for succ := 0; succ < n; succ++ {
		bs, ok := raw[succ]
		if !ok || bs.None() {
			continue
		}
		preds := setBits(bs)
		for _, pred := range preds {
			g.succs[pred] = append(g.succs[pred], succ)
		}
		g.preds[succ] = preds
		g.edges += len(preds)
	}
	return g
}
