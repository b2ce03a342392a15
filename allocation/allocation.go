// Package allocation distributes data fragments over data centers so as to
// minimize the worst risk taken by any single data center.
package allocation

import (
	"container/heap"
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrNoDataCenters is returned when there is no data center to hold the
	// fragments.
	ErrNoDataCenters = errors.New("allocation: no data center")

	// ErrNegativeRisk is returned when a data center has a negative base risk.
	ErrNegativeRisk = errors.New("allocation: negative base risk")

	// ErrNegativeFragments is returned when the number of fragments is
	// negative.
	ErrNegativeFragments = errors.New("allocation: negative number of fragments")

	// ErrTooManyFragments is returned when the number of fragments exceeds
	// MaxFragments.
	ErrTooManyFragments = errors.New("allocation: too many fragments")
)

// MaxFragments is the largest number of fragments Distribute accepts. Risks
// grow as base^n so the cost of each assignment grows with the number of
// fragments already assigned.
const MaxFragments = 10000

// Plan is the result of a distribution. Fragments[i] is the number of
// fragments held by data center i and MaxRisk is the highest risk among all
// data centers.
type Plan struct {
	Fragments []int
	MaxRisk   *big.Int
}

// Risk returns the risk of a data center with the given base risk when it
// holds n fragments, that is base^n.
func Risk(base int64, n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(base), big.NewInt(int64(n)), nil)
}

// MinimizeMaxRisk returns the maximum risk of the distribution computed by
// Distribute.
func MinimizeMaxRisk(baseRisks []int64, fragments int) (*big.Int, error) {
	p, err := Distribute(baseRisks, fragments)
	if err != nil {
		return nil, err
	}
	return p.MaxRisk, nil
}

// Distribute assigns fragments to data centers where baseRisks[i] is the base
// risk of data center i. Each data center first receives one fragment. The
// remaining fragments are then assigned one by one to the data center with
// the lowest current risk, ties being broken by the number of fragments held
// and then by base risk.
//
// If there are fewer fragments than data centers, each data center still
// holds one fragment and no additional fragment is assigned. Distribute
// fails with ErrTooManyFragments above MaxFragments.
func Distribute(baseRisks []int64, fragments int) (*Plan, error) {
	if len(baseRisks) == 0 {
		return nil, ErrNoDataCenters
	}
	if fragments < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeFragments, fragments)
	}
	if fragments > MaxFragments {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyFragments, fragments, MaxFragments)
	}
	for i, b := range baseRisks {
		if b < 0 {
			return nil, fmt.Errorf("%w: data center %d has base risk %d", ErrNegativeRisk, i, b)
		}
	}

	h := make(riskHeap, len(baseRisks))
	for i, b := range baseRisks {
		h[i] = &center{id: i, base: b, fragments: 1, risk: Risk(b, 1)}
	}
	heap.Init(&h)

	for i := len(baseRisks); i < fragments; i++ {
		c := h[0]
		c.fragments++
		c.risk.Mul(c.risk, big.NewInt(c.base))
		heap.Fix(&h, 0)
	}

	p := &Plan{
		Fragments: make([]int, len(baseRisks)),
		MaxRisk:   new(big.Int),
	}
	for _, c := range h {
		p.Fragments[c.id] = c.fragments
		if c.risk.Cmp(p.MaxRisk) > 0 {
			p.MaxRisk.Set(c.risk)
		}
	}
	return p, nil
}

type center struct {
	id        int
	base      int64
	fragments int
	risk      *big.Int
}

// riskHeap is a min-heap of data centers ordered by (risk, fragments, base).
type riskHeap []*center

func (h riskHeap) Len() int { return len(h) }

func (h riskHeap) Less(i, j int) bool {
	if c := h[i].risk.Cmp(h[j].risk); c != 0 {
		return c < 0
	}
	if h[i].fragments != h[j].fragments {
		return h[i].fragments < h[j].fragments
	}
	if h[i].base != h[j].base {
		return h[i].base < h[j].base
	}
	return h[i].id < h[j].id
}

func (h riskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *riskHeap) Push(x any) { *h = append(*h, x.(*center)) }

func (h *riskHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return c
}
