// Package routing computes minimum-latency routes in a network where the
// latency of one link per route can be halved by compressing traffic at a
// compression-capable router.
package routing

import (
	"fmt"
	"slices"

	"github.com/rhartert/sparsesets"
)

// Link is an outgoing link of a router in a Graph.
type Link struct {
	To      string
	Latency int
}

// Graph maps each router name to its ordered list of outgoing links. Every
// link must point to a router that is itself a key of the map.
type Graph map[string][]Link

// Edge represents a directed link between two routers of a Network.
type Edge struct {
	From    int
	To      int
	Latency int
}

// Network is the compiled form of a Graph where routers are identified by
// their index in Names. A Network is never modified once compiled and can be
// searched by several goroutines at the same time.
type Network struct {
	Names []string
	Nexts [][]int
	Edges []Edge

	index map[string]int
}

// NewNetwork creates a new network with the specified edges and router
// names. It is important to ensure that edges are only between routers within
// the range [0, len(names)); otherwise, the function will panic.
func NewNetwork(edges []Edge, names []string) *Network {
	n := &Network{
		Names: names,
		Nexts: make([][]int, len(names)),
		Edges: make([]Edge, len(edges)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		n.index[name] = i
	}
	for i, e := range edges {
		n.Edges[i] = e
		n.Nexts[e.From] = append(n.Nexts[e.From], i)
	}
	return n
}

// Compile validates g and returns its Network representation. Routers are
// indexed in lexicographic order and the links of each router keep their
// order in g.
func Compile(g Graph) (*Network, error) {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	slices.Sort(names)

	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}

	edges := []Edge{}
	for from, name := range names {
		for _, l := range g[name] {
			to, ok := index[l.To]
			if !ok {
				return nil, fmt.Errorf("%w: link %s -> %s", ErrUnknownNode, name, l.To)
			}
			if l.Latency < 0 {
				return nil, fmt.Errorf("%w: link %s -> %s has latency %d", ErrNegativeLatency, name, l.To, l.Latency)
			}
			edges = append(edges, Edge{From: from, To: to, Latency: l.Latency})
		}
	}

	return NewNetwork(edges, names), nil
}

// Size returns the number of routers in the network.
func (n *Network) Size() int {
	return len(n.Names)
}

// Index returns the index of the router with the given name. The second
// returned value is false if the network has no such router.
func (n *Network) Index(name string) (int, bool) {
	i, ok := n.index[name]
	return i, ok
}

// Lookup is like Index but fails with ErrUnknownNode if the router does not
// exist.
func (n *Network) Lookup(name string) (int, error) {
	i, ok := n.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	return i, nil
}

// CompressionSet returns the set of router indices that correspond to the
// given names. Duplicated names are ignored.
func (n *Network) CompressionSet(names []string) (*sparsesets.Set, error) {
	set := sparsesets.New(n.Size())
	for _, name := range names {
		i, err := n.Lookup(name)
		if err != nil {
			return nil, err
		}
		if !set.Contains(i) {
			set.Insert(i)
		}
	}
	return set, nil
}
