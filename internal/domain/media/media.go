package media

import "time"

// Descriptor is the stored metadata record describing visibility and
// ownership of one media item. Absence of a descriptor means the request is
// treated as not-found; raw bytes are never served without one.
type Descriptor struct {
	UniqueID string
	IsAdult  bool
	IsPublic bool
	OwnerID  string
}

// Identity is a resolved, authenticated caller. Absence is a legitimate
// state (anonymous caller), not an error.
type Identity struct {
	ID          string
	DateOfBirth time.Time
	Verified    bool
}
