package tree

import (
	"context"
	"errors"
)

// AncestorOf reports whether node is an ancestor of other. It walks
// other's ancestor chain with id-only lookups, returning true on the
// first id matching node's. A node is never its own ancestor. Absent
// records and nil records yield false, not an error.
func (t *Tree[I, R]) AncestorOf(ctx context.Context, node R, other R) (bool, error) {
	if isNilRecord(any(node)) || isNilRecord(any(other)) {
		return false, nil
	}
	first, ok := other.ParentNodeID()
	return t.chainContains(ctx, first, ok, node.NodeID(), other.NodeID())
}

// DescendantOf reports whether node is a descendant of other. It is
// defined as other.AncestorOf(node); the duality holds for any two
// records by construction.
func (t *Tree[I, R]) DescendantOf(ctx context.Context, node R, other R) (bool, error) {
	return t.AncestorOf(ctx, other, node)
}

// chainContains walks the parent chain starting at cursor (the first
// ancestor, free of store calls when taken from a record) and reports
// whether target appears in it. start is the id the chain hangs off,
// used only for cycle detection.
func (t *Tree[I, R]) chainContains(ctx context.Context, cursor I, ok bool, target I, start I) (bool, error) {
	seen := map[I]struct{}{start: {}}

	for ok {
		if cursor == target {
			return true, nil
		}
		if _, dup := seen[cursor]; dup {
			return false, ErrCycleDetected
		}
		seen[cursor] = struct{}{}

		pid, hasParent, err := t.store.FindParentID(ctx, cursor)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		cursor, ok = pid, hasParent
	}
	return false, nil
}
