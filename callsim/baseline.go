package callsim

// Baseline holds the number of hops on the shortest path between every pair
// of nodes of the empty network. It only depends on the topology and can be
// shared by concurrent simulation runs once built.
type Baseline struct {
	hops [][]int
}

// NewBaseline computes the empty-network hop distances of topo.
func NewBaseline(topo *Topology) *Baseline {
	nNodes := topo.NumNodes()
	pf := NewPathFinder(topo)

	b := &Baseline{hops: make([][]int, nNodes)}
	for u := 0; u < nNodes; u++ {
		b.hops[u] = pf.HopDistances(u)
	}
	return b
}

// Hops returns the number of hops between s and t on the empty network. The
// second returned value is false if t cannot be reached from s.
func (b *Baseline) Hops(s int, t int) (int, bool) {
	h := b.hops[s][t]
	return h, h >= 0
}
