// Package shard provides shard key generation for the parent index of a
// distributed node table.
package shard

import (
	"fmt"
	"hash/fnv"
)

// ParentPK computes the sharded parent-index partition key for a node.
// With numShards=1, all children of a parent land on shard "00". With
// numShards>1, children are distributed across shards by node id hash.
func ParentPK(parentRef, nodeID string, numShards int) string {
	if numShards <= 1 {
		return fmt.Sprintf("%s#00", parentRef)
	}
	h := fnv.New32a()
	h.Write([]byte(nodeID))
	shard := h.Sum32() % uint32(numShards)
	return fmt.Sprintf("%s#%02x", parentRef, shard)
}

// AllPKs enumerates every parent-index partition key for a parent. Used
// when reading children, which must fan out across all shards.
func AllPKs(parentRef string, numShards int) []string {
	if numShards <= 1 {
		return []string{fmt.Sprintf("%s#00", parentRef)}
	}
	pks := make([]string, numShards)
	for i := 0; i < numShards; i++ {
		pks[i] = fmt.Sprintf("%s#%02x", parentRef, i)
	}
	return pks
}
