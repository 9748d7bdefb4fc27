package tree

import (
	"context"
	"errors"
	"reflect"
)

// Tree is the traversal engine. It is parameterized by the record's id
// type and record type and holds no mutable state: every method is an
// independent sequence of store calls, safe for concurrent use.
type Tree[I comparable, R Record[I]] struct {
	store  Store[I, R]
	config Config
}

// New creates a traversal engine over the given store.
func New[I comparable, R Record[I]](store Store[I, R], config Config) *Tree[I, R] {
	config.validate()
	return &Tree[I, R]{
		store:  store,
		config: config,
	}
}

// Config returns the engine's normalized configuration.
func (t *Tree[I, R]) Config() Config {
	return t.config
}

// effective fills in the configured default sibling order when the query
// carries none.
func (t *Tree[I, R]) effective(q Query) Query {
	if len(q.Order) == 0 {
		q.Order = t.config.Order
	}
	return q
}

// IsRoot reports whether node has no parent reference. Issues no store
// calls.
func (t *Tree[I, R]) IsRoot(node R) bool {
	_, ok := node.ParentNodeID()
	return !ok
}

// IsChild reports whether node has a parent reference. Issues no store
// calls.
func (t *Tree[I, R]) IsChild(node R) bool {
	return !t.IsRoot(node)
}

// IsLeaf reports whether node has no children. Issues one id-projection
// existence probe.
func (t *Tree[I, R]) IsLeaf(ctx context.Context, node R) (bool, error) {
	ids, err := t.store.FindIDsByParentIDs(ctx, []I{node.NodeID()}, Query{Limit: 1})
	if err != nil {
		return false, err
	}
	return len(ids) == 0, nil
}

// IsInternal reports whether node is neither a root nor a leaf. Issues
// no store calls for roots, one existence probe otherwise.
func (t *Tree[I, R]) IsInternal(ctx context.Context, node R) (bool, error) {
	if t.IsRoot(node) {
		return false, nil
	}
	leaf, err := t.IsLeaf(ctx, node)
	if err != nil {
		return false, err
	}
	return !leaf, nil
}

// Parent returns node's parent record. ok is false when node is a root
// or the parent was deleted mid-call.
func (t *Tree[I, R]) Parent(ctx context.Context, node R) (R, bool, error) {
	var zero R
	pid, ok := node.ParentNodeID()
	if !ok {
		return zero, false, nil
	}
	rec, err := t.store.FindByID(ctx, pid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return zero, false, nil
		}
		return zero, false, err
	}
	return rec, true, nil
}

// Children returns node's direct children in one filtered lookup.
func (t *Tree[I, R]) Children(ctx context.Context, node R, q Query) ([]R, error) {
	return t.store.FindByParentIDs(ctx, []I{node.NodeID()}, t.effective(q))
}

// ChildrenCount returns the number of direct children matching conds.
// When the counter cache is configured and the record carries a cached
// value, an unconditional count is answered with zero store calls.
func (t *Tree[I, R]) ChildrenCount(ctx context.Context, node R, conds ...Condition) (int, error) {
	if t.config.CounterField != "" && len(conds) == 0 {
		if c, ok := any(node).(ChildCountCacher); ok {
			if n, cached := c.CachedChildCount(t.config.CounterField); cached {
				return n, nil
			}
		}
	}
	return t.store.CountByParentIDs(ctx, []I{node.NodeID()}, conds)
}

// SelfAndSiblings returns node's parent's children, node included. For
// roots it returns the root set.
func (t *Tree[I, R]) SelfAndSiblings(ctx context.Context, node R, q Query) ([]R, error) {
	pid, ok := node.ParentNodeID()
	if !ok {
		return t.store.FindRoots(ctx, t.effective(q))
	}
	return t.store.FindByParentIDs(ctx, []I{pid}, t.effective(q))
}

// Siblings returns SelfAndSiblings minus node itself, compared by id.
func (t *Tree[I, R]) Siblings(ctx context.Context, node R, q Query) ([]R, error) {
	all, err := t.SelfAndSiblings(ctx, node, q)
	if err != nil {
		return nil, err
	}
	self := node.NodeID()
	out := make([]R, 0, len(all))
	for _, rec := range all {
		if rec.NodeID() != self {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Roots returns all records with no parent reference.
func (t *Tree[I, R]) Roots(ctx context.Context, q Query) ([]R, error) {
	return t.store.FindRoots(ctx, t.effective(q))
}

// isNilRecord guards against records passed as typed nil pointers, which
// would otherwise panic inside the interface method calls.
func isNilRecord(rec any) bool {
	if rec == nil {
		return true
	}
	v := reflect.ValueOf(rec)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
