package tree

// Traversal selects the descendant enumeration strategy for a call.
type Traversal int

const (
	// TraversalDefault uses DFSIterative for listings and BFSIterative
	// for counts.
	TraversalDefault Traversal = iota

	// BFSIterative expands the tree level by level with one store call
	// per level. Cheapest strategy for counts: cost scales with depth,
	// not width.
	BFSIterative

	// BFSRecursive is the recursive form of level-order expansion.
	// Same call count and result order as BFSIterative.
	BFSRecursive

	// DFSIterative visits each node before its siblings' subtrees,
	// yielding pre-order (document) ordering. One store call per
	// visited node plus one initial call.
	DFSIterative

	// DFSRecursive is the fully materialized recursive form of
	// pre-order traversal. Same call count and order as DFSIterative.
	DFSRecursive
)

// String returns the traversal name for logging and observer labels.
func (t Traversal) String() string {
	switch t {
	case BFSIterative:
		return "bfs"
	case BFSRecursive:
		return "bfs_recursive"
	case DFSIterative:
		return "dfs"
	case DFSRecursive:
		return "dfs_recursive"
	default:
		return "default"
	}
}

// Op is a comparison operator for a query condition.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// Condition is one structured filter predicate evaluated by the store.
// Conditions are values, never interpolated query text.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Order is one sort key applied by the store.
type Order struct {
	Field string
	Desc  bool
}

// Query configures a single traversal call. Order, Limit, and Conditions
// are applied independently to every store query the traversal issues
// (per level for BFS, per node expansion for DFS), never globally across
// the whole result. A record excluded by Conditions is not expanded, so
// its entire subtree is pruned.
type Query struct {
	// Order sorts each query's results. Empty falls back to the
	// engine's configured default sibling order.
	Order []Order

	// Limit caps each query's results. Zero means no limit.
	Limit int

	// Conditions filter each query's results.
	Conditions []Condition

	// Traversal selects the enumeration strategy.
	Traversal Traversal
}

// CascadePolicy governs what happens to a deleted record's children.
type CascadePolicy int

const (
	// CascadeNone deletes the record and leaves its children untouched.
	CascadeNone CascadePolicy = iota

	// CascadeDestroy recursively deletes all descendants.
	CascadeDestroy

	// CascadeNullify clears the children's parent reference, promoting
	// them to roots.
	CascadeNullify

	// CascadeRestrict refuses the delete while children exist.
	CascadeRestrict
)

// String returns the policy name for logging and store encodings.
func (p CascadePolicy) String() string {
	switch p {
	case CascadeDestroy:
		return "destroy"
	case CascadeNullify:
		return "nullify"
	case CascadeRestrict:
		return "restrict"
	default:
		return "none"
	}
}
