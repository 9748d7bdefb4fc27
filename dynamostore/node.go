// Package dynamostore provides a DynamoDB-backed tree.Store.
//
// Nodes live in a single table keyed by id. A GSI on a sharded parent
// partition key serves children lookups, with an insertion-order
// position attribute as the sort key. Deletes are soft: a ttl attribute
// marks the node deleted and a cascade attribute tells the stream
// handler how to treat its children.
package dynamostore

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attribute names managed by the store.
const (
	attrID        = "id"
	attrParentID  = "parent_id"
	attrParentPK  = "parent_pk"
	attrPosition  = "position"
	attrVersion   = "version"
	attrCreatedAt = "created_at"
	attrUpdatedAt = "updated_at"
	attrTTL       = "ttl"
	attrCascade   = "cascade"
)

// rootRef is the parent reference used in parent_pk for root nodes, so
// the root set is queryable through the same index.
const rootRef = "root"

// Node represents a retrieved node with common fields extracted.
type Node struct {
	// Raw is the raw DynamoDB item.
	Raw map[string]types.AttributeValue

	// ID is the node's unique id.
	ID string

	// ParentID is the parent's id (empty for root nodes).
	ParentID string

	// Position is the insertion-order sibling key.
	Position int64

	// Version is the optimistic lock version.
	Version int64

	// CreatedAt is the ISO 8601 creation timestamp.
	CreatedAt string

	// UpdatedAt is the ISO 8601 last update timestamp.
	UpdatedAt string
}

// NodeID returns the node's id.
func (n *Node) NodeID() string { return n.ID }

// ParentNodeID returns the parent id; ok is false for roots.
func (n *Node) ParentNodeID() (string, bool) {
	return n.ParentID, n.ParentID != ""
}

// CachedChildCount returns the counter attribute maintained by the
// store's atomic ADD updates. ok is false when the attribute is absent.
func (n *Node) CachedChildCount(field string) (int, bool) {
	v, ok := n.Raw[field].(*types.AttributeValueMemberN)
	if !ok {
		return 0, false
	}
	count, err := strconv.Atoi(v.Value)
	if err != nil {
		return 0, false
	}
	return count, true
}

// unmarshalNode converts a DynamoDB item to a Node.
func unmarshalNode(raw map[string]types.AttributeValue) *Node {
	n := &Node{Raw: raw}

	if v, ok := raw[attrID].(*types.AttributeValueMemberS); ok {
		n.ID = v.Value
	}
	if v, ok := raw[attrParentID].(*types.AttributeValueMemberS); ok {
		n.ParentID = v.Value
	}
	if v, ok := raw[attrPosition].(*types.AttributeValueMemberN); ok {
		n.Position, _ = strconv.ParseInt(v.Value, 10, 64)
	}
	if v, ok := raw[attrVersion].(*types.AttributeValueMemberN); ok {
		n.Version, _ = strconv.ParseInt(v.Value, 10, 64)
	}
	if v, ok := raw[attrCreatedAt].(*types.AttributeValueMemberS); ok {
		n.CreatedAt = v.Value
	}
	if v, ok := raw[attrUpdatedAt].(*types.AttributeValueMemberS); ok {
		n.UpdatedAt = v.Value
	}

	return n
}
