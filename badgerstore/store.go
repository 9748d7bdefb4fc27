package badgerstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/thoughtafter/acts-as-happy-tree/tree"
)

// Config holds configuration for the Store.
type Config struct {
	// Dir is the on-disk database directory. Ignored with InMemory.
	Dir string

	// InMemory keeps all data in memory; used by tests.
	InMemory bool

	// Logger receives badger's internal logging. Nil uses slog.Default.
	Logger *slog.Logger

	// Observer, when set, is notified of every store operation.
	Observer tree.QueryObserver
}

// Store is an embedded BadgerDB-backed tree.Store.
type Store struct {
	db     *badger.DB
	config Config
}

// Open opens (or creates) the database and returns a Store.
func Open(config Config) (*Store, error) {
	if !config.InMemory && config.Dir == "" {
		return nil, errors.New("badgerstore: Dir is required unless InMemory is set")
	}

	opts := badger.DefaultOptions(config.Dir).
		WithInMemory(config.InMemory).
		WithLogger(newSlogAdapter(config.Logger))

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open: %w", err)
	}
	return &Store{db: db, config: config}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) observe(op string) {
	if s.config.Observer != nil {
		s.config.Observer.QueryIssued(op)
	}
}

// FindByID returns the node with the given id.
func (s *Store) FindByID(ctx context.Context, id string) (*Node, error) {
	s.observe("get_node")
	var node *Node
	err := s.db.View(func(txn *badger.Txn) error {
		n, err := getNode(txn, id)
		if err != nil {
			return err
		}
		node = n
		return nil
	})
	return node, err
}

// FindParentID returns the parent id of the node with the given id.
func (s *Store) FindParentID(ctx context.Context, id string) (string, bool, error) {
	s.observe("get_parent_id")
	var parentID string
	var hasParent bool
	err := s.db.View(func(txn *badger.Txn) error {
		n, err := getNode(txn, id)
		if err != nil {
			return err
		}
		parentID, hasParent = n.ParentID, n.ParentID != ""
		return nil
	})
	return parentID, hasParent, err
}

// FindByParentIDs returns nodes whose parent is in parents, filtered,
// ordered, and limited per the query.
func (s *Store) FindByParentIDs(ctx context.Context, parents []string, q tree.Query) ([]*Node, error) {
	s.observe("scan_children")
	return s.scan(parents, q)
}

// FindIDsByParentIDs is the id-projection variant of FindByParentIDs.
// With no conditions and the default order it iterates index keys only,
// never decoding node values.
func (s *Store) FindIDsByParentIDs(ctx context.Context, parents []string, q tree.Query) ([]string, error) {
	s.observe("scan_child_ids")

	if len(q.Conditions) == 0 && defaultOrder(q.Order) {
		var ids []string
		err := s.db.View(func(txn *badger.Txn) error {
			for _, parent := range parents {
				parentIDs, err := childIDsFromIndex(txn, parent, q.Limit)
				if err != nil {
					return err
				}
				ids = append(ids, parentIDs...)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if q.Limit > 0 && len(ids) > q.Limit {
			ids = ids[:q.Limit]
		}
		return ids, nil
	}

	nodes, err := s.scan(parents, q)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids, nil
}

// FindRoots returns all nodes with no parent reference.
func (s *Store) FindRoots(ctx context.Context, q tree.Query) ([]*Node, error) {
	s.observe("scan_roots")
	return s.scan([]string{""}, q)
}

// CountByParentIDs counts nodes whose parent is in parents and that
// match all conditions.
func (s *Store) CountByParentIDs(ctx context.Context, parents []string, conds []tree.Condition) (int, error) {
	s.observe("count_children")
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		for _, parent := range parents {
			nodes, err := childNodes(txn, parent)
			if err != nil {
				return err
			}
			for _, n := range nodes {
				match, err := n.matches(conds)
				if err != nil {
					return err
				}
				if match {
					count++
				}
			}
		}
		return nil
	})
	return count, err
}

// Insert creates a node from fields, assigning a uuid id and the next
// sibling position. A non-empty parent reference must name an existing
// node.
func (s *Store) Insert(ctx context.Context, fields tree.Fields) (*Node, error) {
	s.observe("insert")

	parentID := ""
	if raw, ok := fields["parent_id"]; ok && raw != nil {
		pid, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("badgerstore: parent reference: unexpected type %T", raw)
		}
		parentID = pid
	}

	node := &Node{
		ID:       uuid.NewString(),
		ParentID: parentID,
		Fields:   make(map[string]any),
	}
	for k, v := range fields {
		if k == "parent_id" || v == nil {
			continue
		}
		node.Fields[k] = v
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if parentID != "" {
			if _, err := getNode(txn, parentID); err != nil {
				if errors.Is(err, tree.ErrNotFound) {
					return tree.ErrParentNotFound
				}
				return err
			}
		}

		position, err := nextPosition(txn)
		if err != nil {
			return err
		}
		node.Position = position

		return putNode(txn, node)
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// Update rewrites the named fields of an existing node. A parent change
// moves the node's children-index entry under the new parent.
func (s *Store) Update(ctx context.Context, id string, fields tree.Fields) (*Node, error) {
	s.observe("update")
	var updated *Node
	err := s.db.Update(func(txn *badger.Txn) error {
		node, err := getNode(txn, id)
		if err != nil {
			return err
		}

		for k, v := range fields {
			if k == "parent_id" {
				newParent := ""
				if v != nil {
					pid, ok := v.(string)
					if !ok {
						return fmt.Errorf("badgerstore: parent reference: unexpected type %T", v)
					}
					newParent = pid
				}
				if newParent != "" && newParent != node.ParentID {
					if _, err := getNode(txn, newParent); err != nil {
						if errors.Is(err, tree.ErrNotFound) {
							return tree.ErrParentNotFound
						}
						return err
					}
				}
				if newParent != node.ParentID {
					if err := txn.Delete(childKey(node.ParentID, node.Position, node.ID)); err != nil {
						return err
					}
					node.ParentID = newParent
				}
				continue
			}
			if v == nil {
				delete(node.Fields, k)
				continue
			}
			if node.Fields == nil {
				node.Fields = make(map[string]any)
			}
			node.Fields[k] = v
		}

		if err := putNode(txn, node); err != nil {
			return err
		}
		updated = node
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a node, applying the cascade policy to its children
// inside the same transaction.
func (s *Store) Delete(ctx context.Context, id string, policy tree.CascadePolicy) error {
	s.observe("delete")
	return s.db.Update(func(txn *badger.Txn) error {
		node, err := getNode(txn, id)
		if err != nil {
			return err
		}

		switch policy {
		case tree.CascadeRestrict:
			childIDs, err := childIDsFromIndex(txn, id, 1)
			if err != nil {
				return err
			}
			if len(childIDs) > 0 {
				return tree.ErrHasChildren
			}
		case tree.CascadeDestroy:
			queue := []string{id}
			for len(queue) > 0 {
				next := queue[0]
				queue = queue[1:]
				childIDs, err := childIDsFromIndex(txn, next, 0)
				if err != nil {
					return err
				}
				queue = append(queue, childIDs...)
				if next != id {
					if err := deleteNode(txn, next); err != nil {
						return err
					}
				}
			}
		case tree.CascadeNullify:
			children, err := childNodes(txn, id)
			if err != nil {
				return err
			}
			for _, child := range children {
				if err := txn.Delete(childKey(child.ParentID, child.Position, child.ID)); err != nil {
					return err
				}
				child.ParentID = ""
				if err := putNode(txn, child); err != nil {
					return err
				}
			}
		}

		return deleteNode(txn, node.ID)
	})
}

// IncrementCounter adds one to a numeric counter field. The read and
// write share one transaction, so the update is atomic.
func (s *Store) IncrementCounter(ctx context.Context, id string, field string) error {
	s.observe("increment_counter")
	return s.addCounter(id, field, 1)
}

// DecrementCounter subtracts one from a numeric counter field.
func (s *Store) DecrementCounter(ctx context.Context, id string, field string) error {
	s.observe("decrement_counter")
	return s.addCounter(id, field, -1)
}

func (s *Store) addCounter(id, field string, delta int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		node, err := getNode(txn, id)
		if err != nil {
			return err
		}
		current, _ := toFloat(node.Fields[field])
		if node.Fields == nil {
			node.Fields = make(map[string]any)
		}
		node.Fields[field] = int(current) + delta
		return putNode(txn, node)
	})
}

// scan collects children of the given parents (or roots for the empty
// parent), then applies conditions, order, and limit.
func (s *Store) scan(parents []string, q tree.Query) ([]*Node, error) {
	var out []*Node
	err := s.db.View(func(txn *badger.Txn) error {
		for _, parent := range parents {
			nodes, err := childNodes(txn, parent)
			if err != nil {
				return err
			}
			for _, n := range nodes {
				match, err := n.matches(q.Conditions)
				if err != nil {
					return err
				}
				if match {
					out = append(out, n)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := sortNodes(out, q.Order); err != nil {
		return nil, err
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func getNode(txn *badger.Txn, id string) (*Node, error) {
	item, err := txn.Get(nodeKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, tree.ErrNotFound
		}
		return nil, err
	}
	var node *Node
	err = item.Value(func(val []byte) error {
		n, err := decodeNode(val)
		if err != nil {
			return err
		}
		node = n
		return nil
	})
	return node, err
}

// putNode writes the node value and its children-index entry.
func putNode(txn *badger.Txn, n *Node) error {
	data, err := encodeNode(n)
	if err != nil {
		return err
	}
	if err := txn.Set(nodeKey(n.ID), data); err != nil {
		return err
	}
	return txn.Set(childKey(n.ParentID, n.Position, n.ID), []byte(n.ID))
}

// deleteNode removes the node value and its children-index entry.
func deleteNode(txn *badger.Txn, id string) error {
	node, err := getNode(txn, id)
	if err != nil {
		if errors.Is(err, tree.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := txn.Delete(childKey(node.ParentID, node.Position, node.ID)); err != nil {
		return err
	}
	return txn.Delete(nodeKey(id))
}

// childIDsFromIndex iterates a parent's index prefix, yielding ids in
// insertion order without decoding node values. limit 0 means all.
func childIDsFromIndex(txn *badger.Txn, parentID string, limit int) ([]string, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = childKeyPrefix(parentID)
	opts.PrefetchValues = true

	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []string
	for it.Rewind(); it.Valid(); it.Next() {
		err := it.Item().Value(func(val []byte) error {
			ids = append(ids, string(val))
			return nil
		})
		if err != nil {
			return nil, err
		}
		if limit > 0 && len(ids) >= limit {
			break
		}
	}
	return ids, nil
}

// childNodes loads a parent's children in insertion order.
func childNodes(txn *badger.Txn, parentID string) ([]*Node, error) {
	ids, err := childIDsFromIndex(txn, parentID, 0)
	if err != nil {
		return nil, err
	}
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		n, err := getNode(txn, id)
		if err != nil {
			if errors.Is(err, tree.ErrNotFound) {
				continue // index entry outlived the node
			}
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// nextPosition advances the persistent insertion counter.
func nextPosition(txn *badger.Txn) (int64, error) {
	var position int64
	item, err := txn.Get([]byte(seqKey))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		position = 1
	case err != nil:
		return 0, err
	default:
		err = item.Value(func(val []byte) error {
			position = int64(binary.BigEndian.Uint64(val)) + 1
			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(position))
	return position, txn.Set([]byte(seqKey), buf)
}

// defaultOrder reports whether the order is empty or plain ascending
// position, which the index prefix already provides.
func defaultOrder(orders []tree.Order) bool {
	if len(orders) == 0 {
		return true
	}
	return len(orders) == 1 && orders[0].Field == "position" && !orders[0].Desc
}
