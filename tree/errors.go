package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record doesn't exist or is deleted.
	ErrNotFound = errors.New("happytree: record not found")

	// ErrParentNotFound is returned when a referenced parent doesn't exist.
	ErrParentNotFound = errors.New("happytree: parent record not found")

	// ErrAlreadyExists is returned when inserting a record whose id is
	// already taken.
	ErrAlreadyExists = errors.New("happytree: record already exists")

	// ErrHasChildren is returned when deleting a record with active
	// children under CascadeRestrict.
	ErrHasChildren = errors.New("happytree: record has active children")

	// ErrParentIsSelf is returned when a record is assigned as its own
	// parent.
	ErrParentIsSelf = errors.New("happytree: record cannot be its own parent")

	// ErrParentIsDescendant is returned when a record's descendant is
	// assigned as its parent.
	ErrParentIsDescendant = errors.New("happytree: cannot assign a descendant as parent")

	// ErrCycleDetected is returned when a stored parent chain revisits a
	// node, indicating corrupted data that would otherwise loop forever.
	ErrCycleDetected = errors.New("happytree: parent chain contains a cycle")
)

// ValidationError reports a rejected field assignment. It wraps one of
// the sentinel errors above and is surfaced before any write occurs.
type ValidationError struct {
	// Field is the name of the rejected field.
	Field string

	// Err is the underlying rejection reason.
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
