package tree

// Config holds configuration for a Tree engine.
type Config struct {
	// ParentField is the record field holding the parent reference.
	// Default: "parent_id"
	ParentField string

	// CounterField names the cached child-count field maintained by the
	// store's atomic counters. Empty disables the cache, in which case
	// ChildrenCount issues one count query per call.
	// Default: "" (disabled)
	CounterField string

	// Order is the default sibling ordering applied when a query
	// carries none. Default: ascending "position" (insertion order).
	Order []Order
}

// DefaultConfig returns defaults matching the conventional schema.
func DefaultConfig() Config {
	return Config{
		ParentField: "parent_id",
		Order:       []Order{{Field: "position"}},
	}
}

// validate ensures config values are usable.
func (c *Config) validate() {
	if c.ParentField == "" {
		c.ParentField = "parent_id"
	}
	if len(c.Order) == 0 {
		c.Order = []Order{{Field: "position"}}
	}
}
