package tree

import "context"

// Descendants returns all records below node, honoring the query's
// per-level order, limit, and conditions. The default strategy is
// DFSIterative, which yields pre-order (document) ordering at the cost
// of one store call per visited node. BFS strategies yield level order
// at one store call per level.
func (t *Tree[I, R]) Descendants(ctx context.Context, node R, q Query) ([]R, error) {
	q = t.effective(q)
	switch q.Traversal {
	case BFSIterative:
		return t.descendantsBFS(ctx, node, q)
	case BFSRecursive:
		var out []R
		err := t.descendantsBFSRecursive(ctx, []I{node.NodeID()}, q, &out)
		return out, err
	case DFSRecursive:
		var out []R
		err := t.descendantsDFSRecursive(ctx, node.NodeID(), q, &out)
		return out, err
	default:
		return t.descendantsDFS(ctx, node, q)
	}
}

// SelfAndDescendants returns node followed by its descendants.
func (t *Tree[I, R]) SelfAndDescendants(ctx context.Context, node R, q Query) ([]R, error) {
	descendants, err := t.Descendants(ctx, node, q)
	if err != nil {
		return nil, err
	}
	return append([]R{node}, descendants...), nil
}

// DescendantIDs returns the ids of all records below node using
// id-projection lookups only. Default strategy is DFSIterative.
func (t *Tree[I, R]) DescendantIDs(ctx context.Context, node R, q Query) ([]I, error) {
	q = t.effective(q)
	switch q.Traversal {
	case BFSIterative:
		return t.descendantIDsBFS(ctx, node, q)
	case BFSRecursive:
		var out []I
		err := t.descendantIDsBFSRecursive(ctx, []I{node.NodeID()}, q, &out)
		return out, err
	case DFSRecursive:
		var out []I
		err := t.descendantIDsDFSRecursive(ctx, node.NodeID(), q, &out)
		return out, err
	default:
		return t.descendantIDsDFS(ctx, node, q)
	}
}

// SelfAndDescendantIDs returns node's id followed by its descendant ids.
func (t *Tree[I, R]) SelfAndDescendantIDs(ctx context.Context, node R, q Query) ([]I, error) {
	ids, err := t.DescendantIDs(ctx, node, q)
	if err != nil {
		return nil, err
	}
	return append([]I{node.NodeID()}, ids...), nil
}

// DescendantsCount returns the number of records below node. The default
// strategy is BFSIterative: it sums per-level id-frontier sizes, so the
// cost is one projection call per level, strictly cheaper than DFS's
// per-node cost on wide trees.
func (t *Tree[I, R]) DescendantsCount(ctx context.Context, node R, q Query) (int, error) {
	q = t.effective(q)
	switch q.Traversal {
	case DFSIterative, DFSRecursive:
		ids, err := t.descendantIDsDFS(ctx, node, q)
		if err != nil {
			return 0, err
		}
		return len(ids), nil
	default:
		count := 0
		frontier := []I{node.NodeID()}
		for len(frontier) > 0 {
			level, err := t.store.FindIDsByParentIDs(ctx, frontier, q)
			if err != nil {
				return 0, err
			}
			count += len(level)
			frontier = level
		}
		return count, nil
	}
}

// descendantsBFS expands the tree level by level. One filtered lookup
// per level over the whole frontier; terminates on an empty level.
func (t *Tree[I, R]) descendantsBFS(ctx context.Context, node R, q Query) ([]R, error) {
	var out []R
	frontier := []I{node.NodeID()}
	for len(frontier) > 0 {
		level, err := t.store.FindByParentIDs(ctx, frontier, q)
		if err != nil {
			return nil, err
		}
		if len(level) == 0 {
			break
		}
		out = append(out, level...)
		frontier = recordIDs[I](level)
	}
	return out, nil
}

// descendantsBFSRecursive is the recursive form of level-order
// expansion. Same call count and result order as descendantsBFS.
func (t *Tree[I, R]) descendantsBFSRecursive(ctx context.Context, frontier []I, q Query, out *[]R) error {
	level, err := t.store.FindByParentIDs(ctx, frontier, q)
	if err != nil {
		return err
	}
	if len(level) == 0 {
		return nil
	}
	*out = append(*out, level...)
	return t.descendantsBFSRecursive(ctx, recordIDs[I](level), q, out)
}

// descendantsDFS visits each record before its siblings' subtrees. The
// pending sequence is seeded with the direct children; each visit pops
// the front record and prepends its own children, so a record's subtree
// is emitted immediately after it.
func (t *Tree[I, R]) descendantsDFS(ctx context.Context, node R, q Query) ([]R, error) {
	pending, err := t.store.FindByParentIDs(ctx, []I{node.NodeID()}, q)
	if err != nil {
		return nil, err
	}
	var out []R
	for len(pending) > 0 {
		rec := pending[0]
		pending = pending[1:]
		out = append(out, rec)

		children, err := t.store.FindByParentIDs(ctx, []I{rec.NodeID()}, q)
		if err != nil {
			return nil, err
		}
		if len(children) > 0 {
			pending = append(children, pending...)
		}
	}
	return out, nil
}

// descendantsDFSRecursive is the fully materialized recursive form of
// pre-order traversal. Same call count and order as descendantsDFS.
func (t *Tree[I, R]) descendantsDFSRecursive(ctx context.Context, id I, q Query, out *[]R) error {
	children, err := t.store.FindByParentIDs(ctx, []I{id}, q)
	if err != nil {
		return err
	}
	for _, child := range children {
		*out = append(*out, child)
		if err := t.descendantsDFSRecursive(ctx, child.NodeID(), q, out); err != nil {
			return err
		}
	}
	return nil
}

// descendantIDsBFS is the id-projection form of level-order expansion.
func (t *Tree[I, R]) descendantIDsBFS(ctx context.Context, node R, q Query) ([]I, error) {
	var out []I
	frontier := []I{node.NodeID()}
	for len(frontier) > 0 {
		level, err := t.store.FindIDsByParentIDs(ctx, frontier, q)
		if err != nil {
			return nil, err
		}
		if len(level) == 0 {
			break
		}
		out = append(out, level...)
		frontier = level
	}
	return out, nil
}

// descendantIDsBFSRecursive is the recursive id-projection form of
// level-order expansion. Same call count and order as descendantIDsBFS.
func (t *Tree[I, R]) descendantIDsBFSRecursive(ctx context.Context, frontier []I, q Query, out *[]I) error {
	level, err := t.store.FindIDsByParentIDs(ctx, frontier, q)
	if err != nil {
		return err
	}
	if len(level) == 0 {
		return nil
	}
	*out = append(*out, level...)
	return t.descendantIDsBFSRecursive(ctx, level, q, out)
}

// descendantIDsDFS is the id-projection form of pre-order traversal.
func (t *Tree[I, R]) descendantIDsDFS(ctx context.Context, node R, q Query) ([]I, error) {
	pending, err := t.store.FindIDsByParentIDs(ctx, []I{node.NodeID()}, q)
	if err != nil {
		return nil, err
	}
	var out []I
	for len(pending) > 0 {
		id := pending[0]
		pending = pending[1:]
		out = append(out, id)

		children, err := t.store.FindIDsByParentIDs(ctx, []I{id}, q)
		if err != nil {
			return nil, err
		}
		if len(children) > 0 {
			pending = append(children, pending...)
		}
	}
	return out, nil
}

// descendantIDsDFSRecursive is the recursive id-projection form of
// pre-order traversal. Same call count and order as descendantIDsDFS.
func (t *Tree[I, R]) descendantIDsDFSRecursive(ctx context.Context, id I, q Query, out *[]I) error {
	children, err := t.store.FindIDsByParentIDs(ctx, []I{id}, q)
	if err != nil {
		return err
	}
	for _, child := range children {
		*out = append(*out, child)
		if err := t.descendantIDsDFSRecursive(ctx, child, q, out); err != nil {
			return err
		}
	}
	return nil
}

// recordIDs projects a record slice to its ids.
func recordIDs[I comparable, R Record[I]](recs []R) []I {
	ids := make([]I, len(recs))
	for i, rec := range recs {
		ids[i] = rec.NodeID()
	}
	return ids
}
