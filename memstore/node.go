package memstore

import (
	"fmt"

	"github.com/thoughtafter/acts-as-happy-tree/tree"
)

// Node is one in-memory tree record.
type Node struct {
	// ID is the uuid assigned on insert.
	ID string

	// ParentID references the parent node; empty for roots.
	ParentID string

	// Position is the insertion-order sibling key.
	Position int

	// Fields holds the remaining attributes, counter fields included.
	Fields map[string]any
}

// NodeID returns the node's id.
func (n *Node) NodeID() string { return n.ID }

// ParentNodeID returns the parent id; ok is false for roots.
func (n *Node) ParentNodeID() (string, bool) {
	return n.ParentID, n.ParentID != ""
}

// CachedChildCount returns the counter field value maintained by the
// store's atomic counters. ok is false when the field was never set.
func (n *Node) CachedChildCount(field string) (int, bool) {
	v, ok := n.Fields[field].(int)
	return v, ok
}

// fieldValue resolves a field name against the struct fields first,
// then the attribute map. Unknown fields resolve to nil.
func (n *Node) fieldValue(name, parentField string) any {
	switch name {
	case "id":
		return n.ID
	case parentField:
		if n.ParentID == "" {
			return nil
		}
		return n.ParentID
	case "position":
		return n.Position
	default:
		return n.Fields[name]
	}
}

// matches evaluates all conditions against the node.
func (n *Node) matches(conds []tree.Condition, parentField string) (bool, error) {
	for _, c := range conds {
		cmp, err := compareValues(n.fieldValue(c.Field, parentField), c.Value)
		if err != nil {
			return false, fmt.Errorf("memstore: condition on %q: %w", c.Field, err)
		}
		ok := false
		switch c.Op {
		case tree.OpEq:
			ok = cmp == 0
		case tree.OpNe:
			ok = cmp != 0
		case tree.OpLt:
			ok = cmp < 0
		case tree.OpLe:
			ok = cmp <= 0
		case tree.OpGt:
			ok = cmp > 0
		case tree.OpGe:
			ok = cmp >= 0
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (n *Node) clone() *Node {
	copied := *n
	copied.Fields = make(map[string]any, len(n.Fields))
	for k, v := range n.Fields {
		copied.Fields[k] = v
	}
	return &copied
}

// compareValues compares two field values of matching kind, returning
// <0, 0, or >0. Mismatched or unsupported types are an error so a
// misconfigured filter surfaces instead of silently matching nothing.
func compareValues(a, b any) (int, error) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, fmt.Errorf("cannot compare %T and %T", a, b)
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		}
		return 0, nil
	case int:
		bv, ok := toInt64(b)
		if !ok {
			return 0, fmt.Errorf("cannot compare %T and %T", a, b)
		}
		return compareInt64(int64(av), bv), nil
	case int64:
		bv, ok := toInt64(b)
		if !ok {
			return 0, fmt.Errorf("cannot compare %T and %T", a, b)
		}
		return compareInt64(av, bv), nil
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return 0, fmt.Errorf("cannot compare %T and %T", a, b)
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		}
		return 0, nil
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, fmt.Errorf("cannot compare %T and %T", a, b)
		}
		switch {
		case av == bv:
			return 0, nil
		case !av:
			return -1, nil
		}
		return 1, nil
	default:
		return 0, fmt.Errorf("unsupported field type %T", a)
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
