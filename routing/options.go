package routing

import "fmt"

type searchConfig struct {
	// Maximum number of states popped from the frontier before the search is
	// aborted. Zero means no limit.
	maxPops int
}

// Option configures a search.
type Option func(*searchConfig)

// WithMaxPops bounds the number of states the search may expand. The search
// fails with ErrSearchBudget if the destination is not reached within k pops.
// It panics if k is not positive.
func WithMaxPops(k int) Option {
	if k <= 0 {
		panic(fmt.Sprintf("routing: max pops must be positive, got %d", k))
	}
	return func(c *searchConfig) {
		c.maxPops = k
	}
}
