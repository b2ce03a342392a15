package routing

import (
	"fmt"
	"strings"
)

// Route is the result of a search.
//
// Nodes is the sequence of routers traversed by the route, from the source to
// the destination (both included). Compressed is the position in Nodes of the
// router where traffic is compressed, that is, the router whose outgoing link
// towards Nodes[Compressed+1] has its latency halved. Compressed is -1 if the
// route does not use compression.
type Route struct {
	Latency    int
	Nodes      []int
	Compressed int

	// Search statistics.
	Pops        int
	Relaxations int
}

// Names returns the names of the routers traversed by the route.
func (r *Route) Names(n *Network) []string {
	names := make([]string, len(r.Nodes))
	for i, node := range r.Nodes {
		names[i] = n.Names[node]
	}
	return names
}

// CompressedAt returns the name of the router where traffic is compressed or
// the empty string if the route does not use compression.
func (r *Route) CompressedAt(n *Network) string {
	if r.Compressed < 0 {
		return ""
	}
	return n.Names[r.Nodes[r.Compressed]]
}

// String returns a representation of the route as a sequence of router
// indices separated by " -> ". The compression router, if any, is followed by
// a star. For example: "0 -> 4* -> 3 -> 1".
func (r *Route) String() string {
	return r.format(func(node int) string { return fmt.Sprintf("%d", node) })
}

// Format is like String but uses the router names of network n.
func (r *Route) Format(n *Network) string {
	return r.format(func(node int) string { return n.Names[node] })
}

func (r *Route) format(label func(int) string) string {
	sb := strings.Builder{}
	for i, node := range r.Nodes {
		if i > 0 {
			sb.WriteString(" -> ")
		}
		sb.WriteString(label(node))
		if i == r.Compressed {
			sb.WriteString("*")
		}
	}
	return sb.String()
}
