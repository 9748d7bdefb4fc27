package tree

import "sync"

// QueryObserver is notified of every query a store issues. Stores accept
// an observer at construction; tests use it to assert exact call counts.
// Implementations must be safe for concurrent use.
type QueryObserver interface {
	// QueryIssued is called once per store query with the operation
	// name (e.g. "find_by_id", "find_by_parent_ids").
	QueryIssued(op string)
}

// QueryCount is a QueryObserver that tallies queries per operation.
type QueryCount struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewQueryCount creates an empty QueryCount.
func NewQueryCount() *QueryCount {
	return &QueryCount{counts: make(map[string]int)}
}

// QueryIssued records one query for op.
func (c *QueryCount) QueryIssued(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[op]++
}

// Total returns the number of queries recorded across all operations.
func (c *QueryCount) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Of returns the number of queries recorded for op.
func (c *QueryCount) Of(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[op]
}

// Reset clears all recorded counts.
func (c *QueryCount) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = make(map[string]int)
}
