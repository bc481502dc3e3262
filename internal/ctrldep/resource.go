package ctrldep

import "strconv"

// ResourceID names a logical stateful location an instruction may read or
// write. It is either a known identifier handed out by the aliasing oracle
// or the Unknown sentinel, which may alias any resource.
type ResourceID struct {
	id    uint64
	known bool
}

// Unknown is the conservative resource that could alias anything.
var Unknown = ResourceID{}

// Known returns the resource identified by id.
func Known(id uint64) ResourceID {
	return ResourceID{id: id, known: true}
}

// IsUnknown reports whether r is the Unknown sentinel.
func (r ResourceID) IsUnknown() bool { return !r.known }

// ID returns the identifier of a known resource.
func (r ResourceID) ID() (uint64, bool) { return r.id, r.known }

func (r ResourceID) String() string {
	if !r.known {
		return "unknown"
	}
	return "#" + strconv.FormatUint(r.id, 10)
}

// AccessKind classifies how an instruction touches its resources.
type AccessKind int

const (
	// AccessNotApplicable means the classification oracle has no resource
	// access info for the instruction.
	AccessNotApplicable AccessKind = iota
	// AccessRead is a read-only access.
	AccessRead
	// AccessWrite is a write access.
	AccessWrite
	// AccessUnknown is an access with unknown effect; treated as a write.
	AccessUnknown
)

func (k AccessKind) String() string {
	switch k {
	case AccessNotApplicable:
		return "n/a"
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessUnknown:
		return "unknown"
	default:
		return "access-kind(" + strconv.Itoa(int(k)) + ")"
	}
}
