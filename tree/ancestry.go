package tree

import (
	"context"
	"errors"
)

// The ancestry walker advances a single id cursor up the parent chain.
// Each advance is one FindParentID projection call; no intermediate
// record is materialized. A chain broken by a concurrent delete simply
// terminates early. A revisited id means the stored chain is cyclic and
// aborts with ErrCycleDetected.

// AncestorIDs returns node's ancestor ids in child-to-root order. One
// store call per tree level.
func (t *Tree[I, R]) AncestorIDs(ctx context.Context, node R) ([]I, error) {
	var ids []I
	err := t.walkAncestorIDs(ctx, node, func(id I) bool {
		ids = append(ids, id)
		return false
	})
	return ids, err
}

// AncestorsCount returns the number of ancestors above node. Same call
// cost as AncestorIDs.
func (t *Tree[I, R]) AncestorsCount(ctx context.Context, node R) (int, error) {
	count := 0
	err := t.walkAncestorIDs(ctx, node, func(I) bool {
		count++
		return false
	})
	return count, err
}

// Ancestors returns node's ancestor records in child-to-root order. One
// point lookup per tree level; an ancestor deleted mid-walk terminates
// the chain.
func (t *Tree[I, R]) Ancestors(ctx context.Context, node R) ([]R, error) {
	var out []R
	seen := map[I]struct{}{node.NodeID(): {}}

	cursor, ok := node.ParentNodeID()
	for ok {
		if _, dup := seen[cursor]; dup {
			return nil, ErrCycleDetected
		}
		seen[cursor] = struct{}{}

		rec, err := t.store.FindByID(ctx, cursor)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				break
			}
			return nil, err
		}
		out = append(out, rec)
		cursor, ok = rec.ParentNodeID()
	}
	return out, nil
}

// SelfAndAncestors returns node followed by its ancestors in
// child-to-root order.
func (t *Tree[I, R]) SelfAndAncestors(ctx context.Context, node R) ([]R, error) {
	ancestors, err := t.Ancestors(ctx, node)
	if err != nil {
		return nil, err
	}
	return append([]R{node}, ancestors...), nil
}

// RootID returns the id of node's root. Zero store calls when node is a
// root, otherwise one projection call per level and no materialization.
func (t *Tree[I, R]) RootID(ctx context.Context, node R) (I, error) {
	last := node.NodeID()
	err := t.walkAncestorIDs(ctx, node, func(id I) bool {
		last = id
		return false
	})
	return last, err
}

// Root returns node's root record. When node is a root it is returned
// with zero store calls; otherwise the id-only walk finds the root id
// and exactly one point lookup materializes it, regardless of depth.
func (t *Tree[I, R]) Root(ctx context.Context, node R) (R, error) {
	if t.IsRoot(node) {
		return node, nil
	}
	var zero R
	rootID, err := t.RootID(ctx, node)
	if err != nil {
		return zero, err
	}
	return t.store.FindByID(ctx, rootID)
}

// walkAncestorIDs drives the cursor from node's parent to the root,
// calling visit for each ancestor id. visit returning true stops the
// walk early. The node's own parent reference seeds the cursor, so a
// chain of n ancestors costs n projection calls.
func (t *Tree[I, R]) walkAncestorIDs(ctx context.Context, node R, visit func(id I) bool) error {
	seen := map[I]struct{}{node.NodeID(): {}}

	cursor, ok := node.ParentNodeID()
	for ok {
		if _, dup := seen[cursor]; dup {
			return ErrCycleDetected
		}
		seen[cursor] = struct{}{}

		if visit(cursor) {
			return nil
		}

		pid, hasParent, err := t.store.FindParentID(ctx, cursor)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		cursor, ok = pid, hasParent
	}
	return nil
}
