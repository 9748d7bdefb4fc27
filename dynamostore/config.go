package dynamostore

import "github.com/thoughtafter/acts-as-happy-tree/tree"

// Config holds configuration for the Store.
type Config struct {
	// TableName is the node table.
	// Default: "happytree_nodes"
	TableName string

	// ParentIndex is the GSI keyed by the sharded parent partition key
	// with position as the sort key.
	// Default: "parent-index"
	ParentIndex string

	// NumShards is the number of shards for the parent index.
	// Higher values increase write throughput per parent but require
	// more parallel queries when reading children.
	// Default: 1 (no sharding, single query)
	// Max: 256
	NumShards int

	// Observer, when set, is notified of every DynamoDB call.
	Observer tree.QueryObserver
}

// DefaultConfig returns sensible defaults for small datasets.
func DefaultConfig() Config {
	return Config{
		TableName:   "happytree_nodes",
		ParentIndex: "parent-index",
		NumShards:   1,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = "happytree_nodes"
	}
	if c.ParentIndex == "" {
		c.ParentIndex = "parent-index"
	}
	if c.NumShards < 1 {
		c.NumShards = 1
	}
	if c.NumShards > 256 {
		c.NumShards = 256
	}
}
