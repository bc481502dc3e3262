package ctrldep

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResourceID(t *testing.T) {
	if !Unknown.IsUnknown() {
		t.Error("Unknown should be unknown")
	}
	r := Known(0)
	if r.IsUnknown() {
		t.Error("Known(0) should not be unknown")
	}
	if id, ok := r.ID(); !ok || id != 0 {
		t.Errorf("Known(0).ID() = %d, %v, want 0, true", id, ok)
	}
	if Known(3) != Known(3) {
		t.Error("Known ids should compare by value")
	}
	if got := Known(7).String(); got != "#7" {
		t.Errorf("Known(7).String() = %q, want %q", got, "#7")
	}
	if got := Unknown.String(); got != "unknown" {
		t.Errorf("Unknown.String() = %q, want %q", got, "unknown")
	}
}

func TestAccessTracker_Write(t *testing.T) {
	tr := newAccessTracker()
	tr.recordAccess(Known(1), 0, true)
	tr.recordAccess(Known(1), 1, false)

	rec := tr.lookup(Known(1))
	if rec == nil {
		t.Fatal("record should exist after access")
	}
	if rec.lastWrite != 1 {
		t.Errorf("lastWrite = %d, want 1", rec.lastWrite)
	}
	if len(rec.readsSinceLastWrite) != 0 {
		t.Errorf("write should clear reads, got %v", rec.readsSinceLastWrite)
	}
	if !rec.trackedUnknownWriteForRead || !rec.trackedUnknownWriteForWrite || !rec.trackedUnknownRead {
		t.Error("write should set every tracked flag")
	}
}

func TestAccessTracker_Read(t *testing.T) {
	tr := newAccessTracker()
	tr.recordAccess(Known(1), 0, true)
	tr.recordAccess(Known(1), 1, true)

	rec := tr.lookup(Known(1))
	if diff := cmp.Diff([]int{0, 1}, rec.readsSinceLastWrite); diff != "" {
		t.Errorf("readsSinceLastWrite mismatch (-want +got):\n%s", diff)
	}
	if rec.lastWrite != -1 {
		t.Errorf("lastWrite = %d, want -1", rec.lastWrite)
	}
	if !rec.trackedUnknownWriteForWrite {
		t.Error("read should carry the unknown write for later writes")
	}
	if rec.trackedUnknownWriteForRead {
		t.Error("read must not carry the unknown write for later reads")
	}
}

func TestAccessTracker_UnknownWriteIsBarrier(t *testing.T) {
	tr := newAccessTracker()
	tr.recordAccess(Known(1), 0, false)
	tr.recordAccess(Known(2), 1, true)
	tr.recordAccess(Unknown, 2, false)

	if tr.lookup(Known(1)) != nil || tr.lookup(Known(2)) != nil {
		t.Error("unknown write should discard every known record")
	}
	if rec := tr.lookup(Unknown); rec == nil || rec.lastWrite != 2 {
		t.Error("unknown write should be recorded as the unknown resource's last write")
	}
	if got := tr.knownResources(); len(got) != 0 {
		t.Errorf("knownResources() = %v, want none", got)
	}
}

func TestAccessTracker_UnknownReadResetsFlag(t *testing.T) {
	tr := newAccessTracker()
	tr.recordAccess(Known(1), 0, false)
	tr.recordAccess(Known(2), 1, false)
	tr.recordAccess(Unknown, 2, true)

	for _, id := range []ResourceID{Known(1), Known(2)} {
		rec := tr.lookup(id)
		if rec == nil {
			t.Fatalf("%s: unknown read must not discard records", id)
		}
		if rec.trackedUnknownRead {
			t.Errorf("%s: trackedUnknownRead should be reset by an unknown read", id)
		}
		if !rec.trackedUnknownWriteForRead || !rec.trackedUnknownWriteForWrite {
			t.Errorf("%s: unknown read must leave the write flags alone", id)
		}
	}
}

func TestAccessTracker_TracksUnknownAccess(t *testing.T) {
	t.Run("untracked resource", func(t *testing.T) {
		tr := newAccessTracker()
		if tr.tracksUnknownAccess(Known(1), true) || tr.tracksUnknownAccess(Known(1), false) {
			t.Error("resource without record cannot track anything")
		}
	})

	t.Run("after write", func(t *testing.T) {
		tr := newAccessTracker()
		tr.recordAccess(Known(1), 0, false)
		if !tr.tracksUnknownAccess(Known(1), true) {
			t.Error("write should cover a later read")
		}
		if !tr.tracksUnknownAccess(Known(1), false) {
			t.Error("write should cover a later write")
		}
	})

	t.Run("after read only", func(t *testing.T) {
		tr := newAccessTracker()
		tr.recordAccess(Known(1), 0, true)
		if tr.tracksUnknownAccess(Known(1), true) {
			t.Error("read must not cover a later read")
		}
		if !tr.tracksUnknownAccess(Known(1), false) {
			t.Error("read should cover a later write when no unknown read is pending")
		}
	})

	t.Run("pending unknown read", func(t *testing.T) {
		tr := newAccessTracker()
		tr.recordAccess(Known(1), 0, false)
		tr.recordAccess(Unknown, 1, true)
		if tr.tracksUnknownAccess(Known(1), false) {
			t.Error("write must not skip a pending unknown read")
		}
		if !tr.tracksUnknownAccess(Known(1), true) {
			t.Error("read may still skip the unknown write")
		}

		tr.recordAccess(Known(1), 2, false)
		if !tr.tracksUnknownAccess(Known(1), false) {
			t.Error("a later write should carry the unknown read again")
		}
	})
}

func TestAccessTracker_KnownResourcesSorted(t *testing.T) {
	tr := newAccessTracker()
	for i, id := range []uint64{9, 3, 5} {
		tr.recordAccess(Known(id), i, true)
	}
	tr.recordAccess(Unknown, 3, true)

	want := []ResourceID{Known(3), Known(5), Known(9)}
	if diff := cmp.Diff(want, tr.knownResources(), cmp.AllowUnexported(ResourceID{})); diff != "" {
		t.Errorf("knownResources() mismatch (-want +got):\n%s", diff)
	}
}
