package routing

import (
	"fmt"
	"math"

	"github.com/rhartert/sparsesets"
	"github.com/rhartert/yagh"
)

// unreached is the latency of states that have not been reached yet.
const unreached = math.MaxInt

// FindMinimumLatency returns the minimum latency to send traffic from source
// to destination in g, compressing it at most once at one of the routers in
// compressible. Compressing traffic at router u halves (floor division) the
// latency of the link taken to leave u.
//
// The function fails with ErrNoPath if destination is unreachable and with
// ErrUnknownNode if one of the given routers is not in g.
func FindMinimumLatency(g Graph, compressible []string, source string, destination string) (int, error) {
	n, err := Compile(g)
	if err != nil {
		return 0, err
	}
	set, err := n.CompressionSet(compressible)
	if err != nil {
		return 0, err
	}
	src, err := n.Lookup(source)
	if err != nil {
		return 0, err
	}
	dst, err := n.Lookup(destination)
	if err != nil {
		return 0, err
	}

	latency, err := MinimumLatency(n, set, src, dst)
	if err != nil {
		return 0, fmt.Errorf("%s -> %s: %w", source, destination, err)
	}
	return latency, nil
}

// MinimumLatency returns the latency of the best route from src to dst in
// network n. See Search for details.
func MinimumLatency(n *Network, compressible *sparsesets.Set, src int, dst int) (int, error) {
	r, err := Search(n, compressible, src, dst)
	if err != nil {
		return 0, err
	}
	return r.Latency, nil
}

// Search computes the best route from router src to router dst in network n
// when traffic can be compressed at most once at any router of compressible
// (nil means no compression router).
//
// The search is a Dijkstra over states (router, compressed) where compressed
// records whether compression has already been used on the way to the
// router. Each router thus has two best known latencies, one per state. The
// search stops as soon as dst is expanded and the route is the best of the
// two states of dst.
//
// Neither n nor compressible are modified. Each call allocates its own search
// structures so that concurrent searches on the same network are safe.
func Search(n *Network, compressible *sparsesets.Set, src int, dst int, opts ...Option) (*Route, error) {
	cfg := searchConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	nNodes := n.Size()
	if src < 0 || nNodes <= src {
		return nil, fmt.Errorf("%w: source %d is not in the network", ErrUnknownNode, src)
	}
	if dst < 0 || nNodes <= dst {
		return nil, fmt.Errorf("%w: destination %d is not in the network", ErrUnknownNode, dst)
	}

	s := newSearcher(n, compressible)
	s.latencies[src][0] = 0
	s.push(state(src, false), 0)

	for s.frontier.Size() > 0 {
		entry := s.frontier.Pop()
		st := s.pushed[entry.Elem]
		if s.settled[st] {
			continue // superseded by a cheaper entry
		}
		if cfg.maxPops > 0 && s.pops == cfg.maxPops {
			return nil, fmt.Errorf("%w: %d states expanded", ErrSearchBudget, s.pops)
		}
		s.settled[st] = true
		s.pops++
		u, compressed := st/2, st%2 == 1

		// The latency of a settled state is final. A cheaper compressed
		// arrival at dst may still be recorded in the other slot, which is
		// why the route is read from both slots below.
		if u == dst {
			break
		}

		s.relax(u, compressed, entry.Cost)
	}

	return s.route(dst)
}

// state returns the index of router node in the given mode.
func state(node int, compressed bool) int {
	if compressed {
		return node*2 + 1
	}
	return node * 2
}

type searcher struct {
	net          *Network
	compressible *sparsesets.Set

	// Best known latency of each router, without (slot 0) and with (slot 1)
	// compression already used.
	latencies [][2]int

	// Predecessor of each state on its best known route, -1 if none.
	prevs []int

	// States whose latency is final.
	settled []bool

	// The frontier never updates nor re-inserts an element: yagh v0.0.0
	// does not maintain element positions on Pop. Each push gets a fresh
	// element and pushed maps it back to its state. Outdated entries are
	// skipped when popped.
	frontier *yagh.IntMap[int]
	pushed   []int

	pops        int
	relaxations int
}

func newSearcher(n *Network, compressible *sparsesets.Set) *searcher {
	nNodes := n.Size()
	s := &searcher{
		net:          n,
		compressible: compressible,
		latencies:    make([][2]int, nNodes),
		prevs:        make([]int, nNodes*2),
		settled:      make([]bool, nNodes*2),
		frontier:     yagh.New[int](maxPushes(n)),
		pushed:       make([]int, 0, maxPushes(n)),
	}
	for i := range s.latencies {
		s.latencies[i] = [2]int{unreached, unreached}
	}
	for i := range s.prevs {
		s.prevs[i] = -1
	}
	return s
}

// maxPushes bounds the number of frontier insertions of a search on n. Every
// state is relaxed at most once and relaxing a state improves at most two
// states per link: three per link overall plus the source.
func maxPushes(n *Network) int {
	return 3*len(n.Edges) + 1
}

// push adds state st to the frontier with the given latency.
func (s *searcher) push(st int, latency int) {
	s.frontier.Put(len(s.pushed), latency)
	s.pushed = append(s.pushed, st)
}

// relax proposes the successors of state (u, compressed) reached with the
// given latency.
func (s *searcher) relax(u int, compressed bool, latency int) {
	from := state(u, compressed)
	canCompress := !compressed && s.compressible != nil && s.compressible.Contains(u)

	for _, e := range s.net.Nexts[u] {
		edge := s.net.Edges[e]
		s.update(from, edge.To, compressed, latency+edge.Latency)
		if canCompress {
			s.update(from, edge.To, true, latency+edge.Latency/2)
		}
	}
}

// update records the state (v, compressed) with the given latency if it
// improves on the best known latency of that state.
func (s *searcher) update(from int, v int, compressed bool, latency int) {
	s.relaxations++

	slot := 0
	if compressed {
		slot = 1
	}
	if s.latencies[v][slot] <= latency {
		return // dominated
	}

	s.latencies[v][slot] = latency
	to := state(v, compressed)
	s.prevs[to] = from
	s.push(to, latency)
}

// route builds the best route to dst from the latencies and predecessors
// recorded so far. Ties are resolved in favor of the route that does not use
// compression.
func (s *searcher) route(dst int) (*Route, error) {
	best := state(dst, false)
	if s.latencies[dst][1] < s.latencies[dst][0] {
		best = state(dst, true)
	}
	latency := s.latencies[dst][best%2]
	if latency == unreached {
		return nil, ErrNoPath
	}

	states := []int{}
	for st := best; st != -1; st = s.prevs[st] {
		states = append(states, st)
	}

	r := &Route{
		Latency:     latency,
		Nodes:       make([]int, len(states)),
		Compressed:  -1,
		Pops:        s.pops,
		Relaxations: s.relaxations,
	}
	for i := range states {
		st := states[len(states)-1-i]
		r.Nodes[i] = st / 2
		if i > 0 && st%2 == 1 && r.Compressed == -1 {
			r.Compressed = i - 1
		}
	}
	return r, nil
}
