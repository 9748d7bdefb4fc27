package tree

// Identifiable is implemented by records with a unique identity.
type Identifiable[I comparable] interface {
	// NodeID returns the record's unique id, assigned by the store.
	NodeID() I
}

// ParentReferencing is implemented by records that may reference a parent.
type ParentReferencing[I comparable] interface {
	// ParentNodeID returns the parent's id. ok is false for roots.
	ParentNodeID() (I, bool)
}

// Record is the full capability set a tree node must expose.
type Record[I comparable] interface {
	Identifiable[I]
	ParentReferencing[I]
}

// ChildCountCacher is optionally implemented by records that carry a
// cached child count maintained by the store's atomic counters.
type ChildCountCacher interface {
	// CachedChildCount returns the cached count for the named counter
	// field. ok is false when no cached value is present.
	CachedChildCount(field string) (int, bool)
}

// Fields carries attribute values for insert and update operations.
// A nil value clears the attribute (setting the parent field to nil
// promotes the record to a root).
type Fields map[string]any
