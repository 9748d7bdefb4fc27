// Package tree provides hierarchical traversal over a self-referencing
// parent-pointer record store.
//
// HappyTree turns a flat table of records, each carrying a nullable
// reference to its parent, into navigable tree operations: parent and
// child lookup, ancestor walks, breadth-first and depth-first descendant
// enumeration, subtree counts, and relationship predicates. The engine
// issues a controlled number of store calls per operation and never
// requires the caller to write recursive queries.
//
// # Record Interfaces
//
// Records participate via capability interfaces:
//
//	type Identifiable[I comparable] interface {
//	    NodeID() I
//	}
//
//	type ParentReferencing[I comparable] interface {
//	    ParentNodeID() (I, bool)
//	}
//
// A record whose ParentNodeID reports ok=false is a root.
//
// # The Store Collaborator
//
// The engine depends on a single [Store] interface: point lookups by id,
// parent-reference projections, filtered lookups by parent-id set, counts,
// and basic insert/update/delete with atomic counter maintenance. This
// package ships no storage; see the memstore, dynamostore, and badgerstore
// packages for implementations.
//
// # Call Costs
//
// Ancestor walks cost one store call per tree level. Breadth-first
// descendant traversal costs one store call per level regardless of tree
// width, making it the default for counts. Depth-first traversal costs one
// call per visited node and yields pre-order (document) ordering, making
// it the default for listings. [Tree.Root] materializes exactly one record
// regardless of depth; [Tree.IsRoot] and the self-parenting fast path of
// [Tree.CheckParent] issue no store calls at all.
//
// # Consistency
//
// Store calls within one traversal are independent; the engine assumes
// per-call consistency only. A record deleted mid-traversal is excluded
// from the result rather than failing the call. Any other store failure
// aborts the traversal and is returned unchanged. The engine holds no
// state between calls and is safe for concurrent use.
//
// # Errors
//
// The package defines domain-specific errors:
//
//   - [ErrNotFound] - record doesn't exist or is deleted
//   - [ErrParentNotFound] - referenced parent doesn't exist
//   - [ErrHasChildren] - cannot delete a record with children
//   - [ErrParentIsSelf] - record assigned as its own parent
//   - [ErrParentIsDescendant] - descendant assigned as parent
//   - [ErrCycleDetected] - stored parent chain revisits a node
//
// [ErrParentIsSelf] and [ErrParentIsDescendant] are surfaced wrapped in a
// [ValidationError] naming the rejected field.
package tree
