package tree

import (
	"context"
	"errors"
)

// CheckParent validates a proposed parent assignment against the
// pre-write tree state. Self-parenting is rejected with zero store
// calls; assigning a current descendant of node is rejected after an
// id-only walk of the candidate's ancestor chain. Both rejections are
// ValidationErrors naming the configured parent field.
func (t *Tree[I, R]) CheckParent(ctx context.Context, node R, candidate I) error {
	if candidate == node.NodeID() {
		return &ValidationError{Field: t.config.ParentField, Err: ErrParentIsSelf}
	}

	pid, ok, err := t.store.FindParentID(ctx, candidate)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Candidate absence is an existence problem, not a cycle;
			// Create and Reparent report it as ErrParentNotFound.
			return nil
		}
		return err
	}

	isDescendant, err := t.chainContains(ctx, pid, ok, node.NodeID(), candidate)
	if err != nil {
		return err
	}
	if isDescendant {
		return &ValidationError{Field: t.config.ParentField, Err: ErrParentIsDescendant}
	}
	return nil
}
