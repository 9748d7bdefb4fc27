package shard

import (
	"strings"
	"testing"
)

func TestParentPK_SingleShard(t *testing.T) {
	// With numShards=1, all children of a parent land on shard "00"
	tests := []struct {
		parentRef string
		nodeID    string
		expected  string
	}{
		{"p1", "c1", "p1#00"},
		{"p1", "c2", "p1#00"},
		{"p2", "c1", "p2#00"},
		{"root", "c1", "root#00"},
	}

	for _, tt := range tests {
		result := ParentPK(tt.parentRef, tt.nodeID, 1)
		if result != tt.expected {
			t.Errorf("ParentPK(%q, %q, 1) = %q, want %q",
				tt.parentRef, tt.nodeID, result, tt.expected)
		}
	}
}

func TestParentPK_ZeroShards(t *testing.T) {
	// Zero or negative shards should be treated as 1
	result := ParentPK("p1", "c1", 0)
	if result != "p1#00" {
		t.Errorf("expected 'p1#00', got %q", result)
	}

	result = ParentPK("p1", "c1", -1)
	if result != "p1#00" {
		t.Errorf("expected 'p1#00', got %q", result)
	}
}

func TestParentPK_MultipleShards(t *testing.T) {
	// With numShards=256, different node ids should spread across shards
	parentRef := "p1"
	numShards := 256

	shardCounts := make(map[string]int)
	for i := 0; i < 1000; i++ {
		nodeID := "node#" + string(rune('a'+i%26)) + string(rune('0'+i%10))
		pk := ParentPK(parentRef, nodeID, numShards)

		if !strings.HasPrefix(pk, parentRef+"#") {
			t.Errorf("expected prefix %q#, got %q", parentRef, pk)
		}

		shard := pk[len(parentRef)+1:]
		shardCounts[shard]++
	}

	// Should have distribution across multiple shards (not all in one)
	if len(shardCounts) < 10 {
		t.Errorf("expected distribution across multiple shards, got only %d unique shards", len(shardCounts))
	}
}

func TestParentPK_Deterministic(t *testing.T) {
	first := ParentPK("p1", "c1", 256)
	for i := 0; i < 100; i++ {
		result := ParentPK("p1", "c1", 256)
		if result != first {
			t.Errorf("expected deterministic result %q, got %q on iteration %d", first, result, i)
		}
	}
}

func TestParentPK_HexFormat(t *testing.T) {
	// Shard suffix should be 2-character hex (00-ff)
	result := ParentPK("p1", "node#test", 256)
	parts := strings.Split(result, "#")
	if len(parts) < 2 {
		t.Fatalf("expected at least 2 parts, got %d: %q", len(parts), result)
	}

	shard := parts[len(parts)-1]
	if len(shard) != 2 {
		t.Errorf("expected 2-character shard, got %q", shard)
	}
	for _, c := range shard {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Errorf("expected hex character, got %c", c)
		}
	}
}

func TestParentPK_SameNodeDifferentParent(t *testing.T) {
	// Same node under different parents keys to different partitions
	pk1 := ParentPK("p1", "c1", 256)
	pk2 := ParentPK("p2", "c1", 256)
	if pk1 == pk2 {
		t.Error("expected different PKs for different parents")
	}
}

func TestAllPKs_SingleShard(t *testing.T) {
	pks := AllPKs("p1", 1)
	if len(pks) != 1 || pks[0] != "p1#00" {
		t.Errorf("expected [p1#00], got %v", pks)
	}

	pks = AllPKs("p1", 0)
	if len(pks) != 1 || pks[0] != "p1#00" {
		t.Errorf("expected [p1#00] for zero shards, got %v", pks)
	}
}

func TestAllPKs_EnumeratesEveryShard(t *testing.T) {
	numShards := 16
	pks := AllPKs("p1", numShards)
	if len(pks) != numShards {
		t.Fatalf("expected %d PKs, got %d", numShards, len(pks))
	}

	seen := make(map[string]bool)
	for _, pk := range pks {
		if !strings.HasPrefix(pk, "p1#") {
			t.Errorf("expected prefix 'p1#', got %q", pk)
		}
		if seen[pk] {
			t.Errorf("duplicate PK %q", pk)
		}
		seen[pk] = true
	}
}

// Every write key must be readable: ParentPK output appears in AllPKs.
func TestAllPKs_CoversParentPK(t *testing.T) {
	numShards := 32
	pks := AllPKs("p1", numShards)
	set := make(map[string]bool, len(pks))
	for _, pk := range pks {
		set[pk] = true
	}

	for i := 0; i < 200; i++ {
		nodeID := "node-" + string(rune('a'+i%26)) + string(rune('0'+i%10))
		pk := ParentPK("p1", nodeID, numShards)
		if !set[pk] {
			t.Errorf("ParentPK %q not enumerated by AllPKs", pk)
		}
	}
}

func BenchmarkParentPK_SingleShard(b *testing.B) {
	parentRef := "550e8400-e29b-41d4-a716-446655440000"
	nodeID := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParentPK(parentRef, nodeID, 1)
	}
}

func BenchmarkParentPK_256Shards(b *testing.B) {
	parentRef := "550e8400-e29b-41d4-a716-446655440000"
	nodeID := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParentPK(parentRef, nodeID, 256)
	}
}
