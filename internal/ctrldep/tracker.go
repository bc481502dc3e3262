package ctrldep

import (
	"cmp"
	"slices"
)

// accessRecord is the per-resource state driving edge decisions.
type accessRecord struct {
	// lastWrite is the arena index of the most recent write, or -1.
	lastWrite int

	// readsSinceLastWrite holds reads after lastWrite, in program order.
	readsSinceLastWrite []int

	// The flags record whether this resource already carries a dependency
	// on the most recent unknown write (for a later read or a later write)
	// and on the most recent unknown read.
	trackedUnknownWriteForRead  bool
	trackedUnknownWriteForWrite bool
	trackedUnknownRead          bool
}

// accessTracker keeps one accessRecord per resource seen in a scope.
//
// Records are created lazily on first access and live until the owning
// walker finishes its scope.
type accessTracker struct {
	records map[ResourceID]*accessRecord
}

func newAccessTracker() *accessTracker {
	return &accessTracker{records: make(map[ResourceID]*accessRecord)}
}

// lookup returns the record for id, or nil if id was never accessed.
func (t *accessTracker) lookup(id ResourceID) *accessRecord {
	return t.records[id]
}

// recordAccess updates the state after instr accessed id.
func (t *accessTracker) recordAccess(id ResourceID, instr int, isRead bool) {
	if id.IsUnknown() {
		if isRead {
			// A new unknown read is not carried by any known access yet.
			for _, rec := range t.records {
				rec.trackedUnknownRead = false
			}
		} else {
			// Unknown write is a barrier.
			clear(t.records)
		}
	}

	rec := t.records[id]
	if rec == nil {
		rec = &accessRecord{lastWrite: -1}
		t.records[id] = rec
	}

	if isRead {
		rec.readsSinceLastWrite = append(rec.readsSinceLastWrite, instr)
		// The read carries a pending unknown write for a later write to
		// this resource, but not for a later read: reads may be reordered
		// among themselves.
		rec.trackedUnknownWriteForWrite = true
		return
	}

	rec.trackedUnknownWriteForRead = true
	rec.trackedUnknownWriteForWrite = true
	rec.trackedUnknownRead = true
	rec.lastWrite = instr
	rec.readsSinceLastWrite = nil
}

// tracksUnknownAccess reports whether an access to id can skip edges from
// the Unknown resource because earlier accesses to id already depend on
// them.
func (t *accessTracker) tracksUnknownAccess(id ResourceID, isRead bool) bool {
	rec := t.records[id]
	if rec == nil {
		return false
	}
	if isRead {
		return rec.trackedUnknownWriteForRead
	}
	unknown := t.records[Unknown]
	noUnknownRead := unknown == nil || len(unknown.readsSinceLastWrite) == 0
	return rec.trackedUnknownWriteForWrite && (rec.trackedUnknownRead || noUnknownRead)
}

// knownResources returns every tracked resource except Unknown, by id.
func (t *accessTracker) knownResources() []ResourceID {
	ids := make([]ResourceID, 0, len(t.records))
	for id := range t.records {
		if !id.IsUnknown() {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, func(a, b ResourceID) int { return cmp.Compare(a.id, b.id) })
	return ids
}
