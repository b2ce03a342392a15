package routing

import "errors"

var (
	// ErrNoPath is returned when the destination cannot be reached from the
	// source, with or without compression.
	ErrNoPath = errors.New("routing: no path available")

	// ErrUnknownNode is returned when a router name is not part of the graph.
	ErrUnknownNode = errors.New("routing: unknown router")

	// ErrNegativeLatency is returned when a link has a negative latency.
	ErrNegativeLatency = errors.New("routing: negative link latency")

	// ErrSearchBudget is returned when a search exceeds its maximum number of
	// frontier pops before reaching the destination.
	ErrSearchBudget = errors.New("routing: search budget exhausted")
)
