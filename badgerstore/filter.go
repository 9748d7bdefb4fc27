package badgerstore

import (
	"fmt"
	"sort"

	"github.com/thoughtafter/acts-as-happy-tree/tree"
)

// Condition and order evaluation happens in Go after decoding: there is
// no query engine underneath, and JSON decoding normalizes all numbers
// to float64.

func (n *Node) fieldValue(name string) any {
	switch name {
	case "id":
		return n.ID
	case "parent_id":
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

func (n *Node) matches(conds []tree.Condition) (bool, error) {
	for _, c := range conds {
		cmp, err := compareValues(n.fieldValue(c.Field), c.Value)
		if err != nil {
			return false, fmt.Errorf("badgerstore: condition on %q: %w", c.Field, err)
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

// sortNodes orders nodes by the given sort keys, falling back to
// position. An order naming an unknown field is rejected rather than
// silently ignored.
func sortNodes(nodes []*Node, orders []tree.Order) error {
	if len(orders) == 0 {
		orders = []tree.Order{{Field: "position"}}
	}

	var sortErr error
	sort.SliceStable(nodes, func(i, j int) bool {
		for _, o := range orders {
			cmp, err := compareValues(nodes[i].fieldValue(o.Field), nodes[j].fieldValue(o.Field))
			if err != nil {
				if sortErr == nil {
					sortErr = fmt.Errorf("badgerstore: order by %q: %w", o.Field, err)
				}
				return false
			}
			if cmp == 0 {
				continue
			}
			if o.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return sortErr
}

// compareValues compares two field values, coercing all numeric kinds
// to float64 since JSON decoding produces them.
func compareValues(a, b any) (int, error) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, fmt.Errorf("cannot compare %T and %T", a, b)
		}
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		}
		return 0, nil
	}

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

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
