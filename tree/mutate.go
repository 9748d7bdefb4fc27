package tree

import (
	"context"
	"errors"
	"fmt"
)

// Create inserts a new record. When fields carry a parent reference the
// referenced record must exist; the store assigns the id, so
// self-parenting cannot occur at creation. With the counter cache
// configured, the parent's count is incremented after the insert.
func (t *Tree[I, R]) Create(ctx context.Context, fields Fields) (R, error) {
	var zero R

	if raw, present := fields[t.config.ParentField]; present && raw != nil {
		pid, ok := raw.(I)
		if !ok {
			return zero, fmt.Errorf("happytree: field %q: unexpected id type %T", t.config.ParentField, raw)
		}
		if _, err := t.store.FindByID(ctx, pid); err != nil {
			if errors.Is(err, ErrNotFound) {
				return zero, ErrParentNotFound
			}
			return zero, err
		}
	}

	rec, err := t.store.Insert(ctx, fields)
	if err != nil {
		return zero, err
	}

	if t.config.CounterField != "" {
		if pid, ok := rec.ParentNodeID(); ok {
			if err := t.store.IncrementCounter(ctx, pid, t.config.CounterField); err != nil {
				return zero, err
			}
		}
	}
	return rec, nil
}

// Reparent moves node under newParent, or promotes it to a root when
// newParent is nil. The cycle guard runs against the pre-write state
// before anything is persisted. With the counter cache configured, the
// old parent's count is decremented and the new parent's incremented,
// exactly once each.
func (t *Tree[I, R]) Reparent(ctx context.Context, node R, newParent *I) (R, error) {
	var zero R
	oldParent, hadParent := node.ParentNodeID()

	if newParent != nil {
		if err := t.CheckParent(ctx, node, *newParent); err != nil {
			return zero, err
		}
		if _, err := t.store.FindByID(ctx, *newParent); err != nil {
			if errors.Is(err, ErrNotFound) {
				return zero, ErrParentNotFound
			}
			return zero, err
		}
	}

	// Unchanged assignment is a no-op; counters must not drift.
	if newParent == nil && !hadParent {
		return node, nil
	}
	if newParent != nil && hadParent && *newParent == oldParent {
		return node, nil
	}

	var value any
	if newParent != nil {
		value = *newParent
	}
	rec, err := t.store.Update(ctx, node.NodeID(), Fields{t.config.ParentField: value})
	if err != nil {
		return zero, err
	}

	if t.config.CounterField != "" {
		if hadParent {
			if err := t.store.DecrementCounter(ctx, oldParent, t.config.CounterField); err != nil {
				return zero, err
			}
		}
		if newParent != nil {
			if err := t.store.IncrementCounter(ctx, *newParent, t.config.CounterField); err != nil {
				return zero, err
			}
		}
	}
	return rec, nil
}

// Delete removes node under the given cascade policy. The store owns the
// cascade itself; CascadeRestrict surfaces ErrHasChildren when active
// children exist. With the counter cache configured, the old parent's
// count is decremented after the delete.
func (t *Tree[I, R]) Delete(ctx context.Context, node R, policy CascadePolicy) error {
	if err := t.store.Delete(ctx, node.NodeID(), policy); err != nil {
		return err
	}
	if t.config.CounterField != "" {
		if pid, ok := node.ParentNodeID(); ok {
			return t.store.DecrementCounter(ctx, pid, t.config.CounterField)
		}
	}
	return nil
}
