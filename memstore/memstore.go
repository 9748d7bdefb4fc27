// Package memstore provides an in-memory tree.Store implementation.
//
// It is the reference backend: a map guarded by a RWMutex, uuid ids, an
// insertion-order position key for sibling ordering, and synchronous
// cascades. Conditions and orders are evaluated against node fields.
// Tests use it as the substrate for engine behavior and, via an
// injected failure, for store-outage propagation.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/thoughtafter/acts-as-happy-tree/tree"
)

// Config holds configuration for the Store.
type Config struct {
	// ParentField is the field name carrying the parent reference.
	// Default: "parent_id"
	ParentField string

	// Observer, when set, is notified of every query.
	Observer tree.QueryObserver
}

// DefaultConfig returns defaults matching tree.DefaultConfig.
func DefaultConfig() Config {
	return Config{ParentField: "parent_id"}
}

// validate ensures config values are usable.
func (c *Config) validate() {
	if c.ParentField == "" {
		c.ParentField = "parent_id"
	}
}

// Store is an in-memory tree.Store keyed by uuid string ids.
type Store struct {
	config Config

	mu      sync.RWMutex
	nodes   map[string]*Node
	nextPos int
	failErr error
}

// New creates an empty Store.
func New(config Config) *Store {
	config.validate()
	return &Store{
		config: config,
		nodes:  make(map[string]*Node),
	}
}

// Fail makes every subsequent operation return err until cleared with
// Fail(nil). Used by tests to simulate an unavailable store.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Len returns the number of stored nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

func (s *Store) observe(op string) {
	if s.config.Observer != nil {
		s.config.Observer.QueryIssued(op)
	}
}

// FindByID returns the node with the given id.
func (s *Store) FindByID(ctx context.Context, id string) (*Node, error) {
	s.observe("find_by_id")
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failErr != nil {
		return nil, s.failErr
	}
	n, ok := s.nodes[id]
	if !ok {
		return nil, tree.ErrNotFound
	}
	return n.clone(), nil
}

// FindParentID returns the parent id of the node with the given id
// without materializing the node.
func (s *Store) FindParentID(ctx context.Context, id string) (string, bool, error) {
	s.observe("find_parent_id")
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failErr != nil {
		return "", false, s.failErr
	}
	n, ok := s.nodes[id]
	if !ok {
		return "", false, tree.ErrNotFound
	}
	return n.ParentID, n.ParentID != "", nil
}

// FindByParentIDs returns nodes whose parent is in parents, filtered,
// ordered, and limited per the query.
func (s *Store) FindByParentIDs(ctx context.Context, parents []string, q tree.Query) ([]*Node, error) {
	s.observe("find_by_parent_ids")
	return s.query(parents, false, q)
}

// FindIDsByParentIDs is the id-projection variant of FindByParentIDs.
func (s *Store) FindIDsByParentIDs(ctx context.Context, parents []string, q tree.Query) ([]string, error) {
	s.observe("find_ids_by_parent_ids")
	nodes, err := s.query(parents, false, q)
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
	s.observe("find_roots")
	return s.query(nil, true, q)
}

// CountByParentIDs counts nodes whose parent is in parents and that
// match all conditions.
func (s *Store) CountByParentIDs(ctx context.Context, parents []string, conds []tree.Condition) (int, error) {
	s.observe("count_by_parent_ids")
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failErr != nil {
		return 0, s.failErr
	}
	in := idSet(parents)
	count := 0
	for _, n := range s.nodes {
		if _, ok := in[n.ParentID]; !ok {
			continue
		}
		match, err := n.matches(conds, s.config.ParentField)
		if err != nil {
			return 0, err
		}
		if match {
			count++
		}
	}
	return count, nil
}

// Insert creates a node from fields, assigning a uuid id and the next
// sibling position. A non-empty parent reference must name an existing
// node.
func (s *Store) Insert(ctx context.Context, fields tree.Fields) (*Node, error) {
	s.observe("insert")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}

	parentID, err := parentValue(fields[s.config.ParentField])
	if err != nil {
		return nil, err
	}
	if parentID != "" {
		if _, ok := s.nodes[parentID]; !ok {
			return nil, tree.ErrParentNotFound
		}
	}

	n := &Node{
		ID:       uuid.NewString(),
		ParentID: parentID,
		Position: s.nextPos,
		Fields:   make(map[string]any),
	}
	s.nextPos++
	for k, v := range fields {
		if k == s.config.ParentField || v == nil {
			continue
		}
		n.Fields[k] = v
	}
	s.nodes[n.ID] = n
	return n.clone(), nil
}

// Update rewrites the named fields of an existing node. A nil value
// clears the field; a nil parent reference promotes the node to a root.
func (s *Store) Update(ctx context.Context, id string, fields tree.Fields) (*Node, error) {
	s.observe("update")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}

	n, ok := s.nodes[id]
	if !ok {
		return nil, tree.ErrNotFound
	}
	for k, v := range fields {
		if k == s.config.ParentField {
			parentID, err := parentValue(v)
			if err != nil {
				return nil, err
			}
			if parentID != "" {
				if _, exists := s.nodes[parentID]; !exists {
					return nil, tree.ErrParentNotFound
				}
			}
			n.ParentID = parentID
			continue
		}
		if v == nil {
			delete(n.Fields, k)
			continue
		}
		n.Fields[k] = v
	}
	return n.clone(), nil
}

// Delete removes a node, applying the cascade policy to its children
// synchronously.
func (s *Store) Delete(ctx context.Context, id string, policy tree.CascadePolicy) error {
	s.observe("delete")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}

	if _, ok := s.nodes[id]; !ok {
		return tree.ErrNotFound
	}

	switch policy {
	case tree.CascadeRestrict:
		for _, n := range s.nodes {
			if n.ParentID == id {
				return tree.ErrHasChildren
			}
		}
	case tree.CascadeDestroy:
		queue := []string{id}
		for len(queue) > 0 {
			next := queue[0]
			queue = queue[1:]
			for _, n := range s.nodes {
				if n.ParentID == next {
					queue = append(queue, n.ID)
				}
			}
			delete(s.nodes, next)
		}
		return nil
	case tree.CascadeNullify:
		for _, n := range s.nodes {
			if n.ParentID == id {
				n.ParentID = ""
			}
		}
	}

	delete(s.nodes, id)
	return nil
}

// IncrementCounter atomically adds one to a numeric counter field.
func (s *Store) IncrementCounter(ctx context.Context, id string, field string) error {
	s.observe("increment_counter")
	return s.addCounter(id, field, 1)
}

// DecrementCounter atomically subtracts one from a numeric counter field.
func (s *Store) DecrementCounter(ctx context.Context, id string, field string) error {
	s.observe("decrement_counter")
	return s.addCounter(id, field, -1)
}

func (s *Store) addCounter(id, field string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	n, ok := s.nodes[id]
	if !ok {
		return tree.ErrNotFound
	}
	current, _ := n.Fields[field].(int)
	n.Fields[field] = current + delta
	return nil
}

// query collects nodes by parent set (or the root set), then applies
// conditions, order, and limit.
func (s *Store) query(parents []string, roots bool, q tree.Query) ([]*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failErr != nil {
		return nil, s.failErr
	}

	in := idSet(parents)
	var out []*Node
	for _, n := range s.nodes {
		if roots {
			if n.ParentID != "" {
				continue
			}
		} else if _, ok := in[n.ParentID]; !ok {
			continue
		}
		match, err := n.matches(q.Conditions, s.config.ParentField)
		if err != nil {
			return nil, err
		}
		if match {
			out = append(out, n.clone())
		}
	}

	if err := sortNodes(out, q.Order, s.config.ParentField); err != nil {
		return nil, err
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func parentValue(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	id, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("memstore: parent reference: unexpected type %T", v)
	}
	return id, nil
}

// sortNodes orders nodes by the given sort keys, falling back to
// position. An order naming an unknown field is rejected rather than
// silently ignored.
func sortNodes(nodes []*Node, orders []tree.Order, parentField string) error {
	if len(orders) == 0 {
		orders = []tree.Order{{Field: "position"}}
	}

	var sortErr error
	sort.SliceStable(nodes, func(i, j int) bool {
		for _, o := range orders {
			a := nodes[i].fieldValue(o.Field, parentField)
			b := nodes[j].fieldValue(o.Field, parentField)
			cmp, err := compareValues(a, b)
			if err != nil {
				if sortErr == nil {
					sortErr = fmt.Errorf("memstore: order by %q: %w", o.Field, err)
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
