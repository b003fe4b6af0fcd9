package callsim

import (
	"math"

	"github.com/rhartert/circuitsim/callsim/paths"
	"github.com/rhartert/sparsesets"
	"github.com/rhartert/yagh"
)

// PathFinder computes single-source shortest paths over a topology. Its
// buffers are pre-allocated so that it can be used by several searches, but
// a PathFinder must not be used by concurrent goroutines.
type PathFinder struct {
	topo *Topology

	costs    []float64
	hops     []int
	prevNode []int
	prevLink []int

	frontier *yagh.IntMap[float64]

	// Nodes whose labels were set by the last search.
	touched *sparsesets.Set
}

// NewPathFinder returns a PathFinder for topo.
func NewPathFinder(topo *Topology) *PathFinder {
	nNodes := topo.NumNodes()
	pf := &PathFinder{
		topo:     topo,
		costs:    make([]float64, nNodes),
		hops:     make([]int, nNodes),
		prevNode: make([]int, nNodes),
		prevLink: make([]int, nNodes),
		frontier: yagh.New[float64](nNodes),
		touched:  sparsesets.New(nNodes),
	}
	for v := 0; v < nNodes; v++ {
		pf.clearLabel(v)
	}
	return pf
}

// Shortest returns the best path from src to dst according to q, restricted
// to the links that have at least one available circuit in s. The second
// returned value is the cost of the path. The third is false if there is no
// such path, in which case the other values are meaningless.
//
// Bottleneck queries are solved in two phases. The first one computes the
// best achievable bottleneck cost B. The second one returns the path with the
// fewest hops among the paths whose links all weigh at most B.
//
// Ties are broken deterministically: among paths of equal cost, the one with
// fewer hops is preferred, then the one whose last hop comes from the node
// with the smallest index.
func (pf *PathFinder) Shortest(s *NetworkState, src int, dst int, q Query) (*paths.Path, float64, bool) {
	weight := func(link int) float64 { return q.Weight(s, link) }
	admit := func(link int) bool { return s.Available(link) > 0 }

	if !pf.search(src, dst, weight, q.Bottleneck, admit) {
		return nil, math.Inf(1), false
	}
	cost := pf.costs[dst]
	if !q.Bottleneck {
		return paths.FromPredecessors(dst, pf.prevNode, pf.prevLink), cost, true
	}

	// The path found by the first phase only uses links that weigh at most
	// cost. Therefore, the second phase necessarily finds a path as well.
	pf.search(src, dst, unitWeight, false, func(link int) bool {
		return admit(link) && weight(link) <= cost
	})
	return paths.FromPredecessors(dst, pf.prevNode, pf.prevLink), cost, true
}

// HopDistances returns the number of hops on the shortest path from src to
// every node of the empty network, i.e. using every link of the topology
// whatever its load. Unreachable nodes have a distance of -1.
func (pf *PathFinder) HopDistances(src int) []int {
	pf.search(src, -1, unitWeight, false, func(int) bool { return true })
	dists := make([]int, len(pf.costs))
	for v, c := range pf.costs {
		if math.IsInf(c, 1) {
			dists[v] = -1
		} else {
			dists[v] = pf.hops[v]
		}
	}
	return dists
}

func unitWeight(int) float64 {
	return 1
}

// search runs Dijkstra's algorithm from src over the admitted links. It
// returns true if dst was reached. Path costs are either the sum of the link
// weights or, if bottleneck is true, the largest link weight. Both
// combinations never decrease when a path is extended, which is what the
// algorithm requires.
//
// Nodes are ordered by cost only. A node whose label is improved by the tie
// rules after it was expanded is expanded again, so that zero-weight links
// cannot hide a path with fewer hops. The search stops once every node that
// is not more expensive than dst has been expanded. Use dst = -1 to compute
// the labels of every node.
func (pf *PathFinder) search(src int, dst int, weight func(int) float64, bottleneck bool, admit func(int) bool) bool {
	for _, v := range pf.touched.Content() {
		pf.clearLabel(v)
	}
	pf.touched.Clear()

	origin := 0.0
	if bottleneck {
		origin = math.Inf(-1)
	}
	pf.costs[src] = origin
	pf.touched.Insert(src)
	pf.frontier.Put(src, origin)

	for {
		next, ok := pf.frontier.Min()
		if !ok || (dst >= 0 && next.Cost > pf.costs[dst]) {
			break
		}
		pf.frontier.Pop()
		u := next.Elem

		for _, e := range pf.topo.Nexts[u] {
			if !admit(e) {
				continue
			}
			v := pf.topo.Links[e].Other(u)

			var newCost float64
			if bottleneck {
				newCost = math.Max(pf.costs[u], weight(e))
			} else {
				newCost = pf.costs[u] + weight(e)
			}
			newHops := pf.hops[u] + 1

			// Path src -> u -> v is not better than the best known path.
			if !pf.better(v, newCost, newHops, u) {
				continue
			}

			pf.costs[v] = newCost
			pf.hops[v] = newHops
			pf.prevNode[v] = u
			pf.prevLink[v] = e
			pf.touched.Insert(v)
			pf.frontier.Put(v, newCost)
		}
	}

	// Leave the frontier empty for the next search.
	for pf.frontier.Size() > 0 {
		pf.frontier.Pop()
	}

	return dst >= 0 && !math.IsInf(pf.costs[dst], 1)
}

func (pf *PathFinder) clearLabel(v int) {
	pf.costs[v] = math.Inf(1)
	pf.hops[v] = 0
	pf.prevNode[v] = -1
	pf.prevLink[v] = -1
}

// better returns true if reaching v from u with the given cost and number of
// hops is better than the best known way to reach v.
func (pf *PathFinder) better(v int, cost float64, hops int, u int) bool {
	switch {
	case cost != pf.costs[v]:
		return cost < pf.costs[v]
	case hops != pf.hops[v]:
		return hops < pf.hops[v]
	default:
		return u < pf.prevNode[v]
	}
}
