// Package badgerstore provides an embedded BadgerDB-backed tree.Store.
//
// Nodes are JSON values under "node#<id>" keys. A children index maps
// "child#<parent>#<position>#<id>" keys to node ids, so a prefix
// iteration over "child#<parent>#" yields a parent's children in
// insertion order; roots use an empty parent segment. Cascades run
// synchronously inside read-write transactions.
package badgerstore

import (
	"encoding/json"
	"fmt"
)

const (
	nodePrefix  = "node#"
	childPrefix = "child#"
	seqKey      = "meta#seq"
)

// Node is one persisted tree record.
type Node struct {
	// ID is the uuid assigned on insert.
	ID string `json:"id"`

	// ParentID references the parent node; empty for roots.
	ParentID string `json:"parent_id,omitempty"`

	// Position is the insertion-order sibling key.
	Position int64 `json:"position"`

	// Fields holds the remaining attributes, counter fields included.
	Fields map[string]any `json:"fields,omitempty"`
}

// NodeID returns the node's id.
func (n *Node) NodeID() string { return n.ID }

// ParentNodeID returns the parent id; ok is false for roots.
func (n *Node) ParentNodeID() (string, bool) {
	return n.ParentID, n.ParentID != ""
}

// CachedChildCount returns the counter field value maintained by the
// store's counter updates. ok is false when the field is absent.
func (n *Node) CachedChildCount(field string) (int, bool) {
	v, ok := toFloat(n.Fields[field])
	if !ok {
		return 0, false
	}
	return int(v), true
}

func encodeNode(n *Node) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: encode node %s: %w", n.ID, err)
	}
	return data, nil
}

func decodeNode(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("badgerstore: decode node: %w", err)
	}
	return &n, nil
}

func nodeKey(id string) []byte {
	return []byte(nodePrefix + id)
}

// childKey indexes a node under its parent. The zero-padded position
// keeps prefix iteration in insertion order.
func childKey(parentID string, position int64, id string) []byte {
	return []byte(fmt.Sprintf("%s%s#%020d#%s", childPrefix, parentID, position, id))
}

// childKeyPrefix is the iteration prefix for a parent's children. An
// empty parentID yields the root-set prefix.
func childKeyPrefix(parentID string) []byte {
	return []byte(fmt.Sprintf("%s%s#", childPrefix, parentID))
}
