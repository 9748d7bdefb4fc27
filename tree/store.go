package tree

import "context"

// Reader is the read half of the store collaborator.
type Reader[I comparable, R Record[I]] interface {
	// FindByID returns the record with the given id, or ErrNotFound if
	// it doesn't exist or is deleted.
	FindByID(ctx context.Context, id I) (R, error)

	// FindParentID returns the parent id of the record with the given
	// id without materializing the full record. ok is false when the
	// record is a root. Returns ErrNotFound if the record is missing.
	FindParentID(ctx context.Context, id I) (I, bool, error)

	// FindByParentIDs returns all records whose parent reference is in
	// parents, honoring the query's order, limit, and conditions.
	FindByParentIDs(ctx context.Context, parents []I, q Query) ([]R, error)

	// FindIDsByParentIDs is the id-projection variant of
	// FindByParentIDs.
	FindIDsByParentIDs(ctx context.Context, parents []I, q Query) ([]I, error)

	// FindRoots returns all records with no parent reference.
	FindRoots(ctx context.Context, q Query) ([]R, error)

	// CountByParentIDs counts records whose parent reference is in
	// parents and that match all conditions.
	CountByParentIDs(ctx context.Context, parents []I, conds []Condition) (int, error)
}

// Writer is the write half of the store collaborator.
type Writer[I comparable, R Record[I]] interface {
	// Insert creates a record from fields and assigns it an id.
	Insert(ctx context.Context, fields Fields) (R, error)

	// Update rewrites the named fields of an existing record and
	// returns the updated record. Returns ErrNotFound if the record is
	// missing.
	Update(ctx context.Context, id I, fields Fields) (R, error)

	// Delete removes a record, applying the cascade policy to its
	// children. Returns ErrHasChildren under CascadeRestrict when
	// active children exist.
	Delete(ctx context.Context, id I, policy CascadePolicy) error

	// IncrementCounter atomically adds one to a numeric counter field.
	IncrementCounter(ctx context.Context, id I, field string) error

	// DecrementCounter atomically subtracts one from a numeric counter
	// field.
	DecrementCounter(ctx context.Context, id I, field string) error
}

// Store is the full collaborator contract the engine depends on. It is
// the engine's only dependency; implementations own consistency,
// ordering, and condition evaluation for each individual call.
type Store[I comparable, R Record[I]] interface {
	Reader[I, R]
	Writer[I, R]
}
