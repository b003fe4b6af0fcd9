package workload

import (
	"github.com/rhartert/circuitsim/callsim"
	"github.com/sirupsen/logrus"
)

// EndpointSampler draws the source and destination of calls. Each node is
// drawn with a probability proportional to the total capacity of its links,
// and the destination is drawn among the nodes other than the source.
type EndpointSampler struct {
	n int

	// Capacity tree: the leaf of node u is at index n+u and every internal
	// node i < n holds the sum of nodes 2i and 2i+1. Index 0 is unused.
	capa []float64
}

// NewEndpointSampler returns a sampler over the nodes of topo.
func NewEndpointSampler(topo *callsim.Topology) *EndpointSampler {
	n := topo.NumNodes()
	capa := make([]float64, 2*n)
	for u := 0; u < n; u++ {
		capa[n+u] = float64(topo.Degree(u))
	}
	for i := n - 1; i > 0; i-- {
		capa[i] = capa[2*i] + capa[2*i+1]
	}
	return &EndpointSampler{n: n, capa: capa}
}

// Capacity returns the total capacity of the links of node u.
func (s *EndpointSampler) Capacity(u int) float64 {
	return s.capa[s.n+u]
}

// Total returns the summed capacity of all nodes.
func (s *EndpointSampler) Total() float64 {
	if s.n == 0 {
		return 0
	}
	return s.capa[1]
}

// Pick returns the source and destination of a call, using rolls from src.
// It must only be called if at least two nodes have a positive capacity.
func (s *EndpointSampler) Pick(src Source) (int, int) {
	from := s.pick(src, -1)
	return from, s.pick(src, from)
}

// pick draws nodes until one with a positive capacity other than excluded
// is found. Rounding errors can land on a zero-capacity leaf.
func (s *EndpointSampler) pick(src Source, excluded int) int {
	for {
		if u := s.Draw(src.RandU01(), excluded); u >= 0 && u != excluded && s.Capacity(u) > 0 {
			return u
		}
	}
}

// Draw returns the node selected by roll, a random number in [0, 1), as if
// node excluded had no capacity. Use excluded = -1 to consider every node.
// It returns -1 if no node can be selected.
func (s *EndpointSampler) Draw(roll float64, excluded int) int {
	if roll < 0 || 1 <= roll {
		logrus.Panicf("roll must be a random number in [0, 1), got: %f", roll)
	}

	leaf, removed := -1, 0.0
	if excluded >= 0 {
		leaf, removed = s.n+excluded, s.Capacity(excluded)
	}
	if s.Total()-removed <= 0 {
		return -1
	}

	x := roll * (s.Total() - removed)
	i := 1
	for i < s.n {
		left := s.capa[2*i]
		if isAncestor(2*i, leaf) {
			left -= removed
		}
		if x < left {
			i = 2 * i
		} else {
			x -= left
			i = 2*i + 1
		}
	}
	return i - s.n
}

// isAncestor returns true if tree node i is leaf or one of its ancestors.
func isAncestor(i int, leaf int) bool {
	for ; leaf >= i; leaf /= 2 {
		if leaf == i {
			return true
		}
	}
	return false
}
