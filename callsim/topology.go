package callsim

import (
	"errors"
	"fmt"
)

// ErrNoLink is returned when two nodes are not connected by a link.
var ErrNoLink = errors.New("no link between nodes")

// Link represents an undirected link between nodes A and B. Capacity is the
// total number of circuits on the link and Delay its propagation delay.
type Link struct {
	A        int
	B        int
	Delay    float64
	Capacity int64
}

// Other returns the end of the link that is not u.
func (l Link) Other(u int) int {
	if l.A == u {
		return l.B
	}
	return l.A
}

// Topology represents the immutable part of a circuit-switched network: its
// nodes and its links with their capacity and propagation delay. Links with
// a capacity of 0 are not part of the topology.
//
// A Topology is never modified once created and can be shared by several
// simulation runs. The mutable part of the network (i.e. the circuits that
// are currently reserved) lives in NetworkState.
type Topology struct {
	Nodes *Nodes
	Links []Link

	// Nexts[u] holds the IDs of the links incident to node u.
	Nexts [][]int

	// linkAt is a dense nNodes*nNodes matrix that maps a pair of nodes to the
	// ID of the link between them, or -1 if they are not adjacent.
	linkAt []int
}

// NewTopology creates a topology over the given nodes. Links with a capacity
// of 0 are dropped. If several links connect the same pair of nodes, the last
// one wins. It is an error for a link to have an endpoint that is not in
// nodes, to be a self-loop, or to have a negative capacity or delay.
func NewTopology(nodes *Nodes, links []Link) (*Topology, error) {
	nNodes := nodes.Len()
	t := &Topology{
		Nodes:  nodes,
		Links:  make([]Link, 0, len(links)),
		Nexts:  make([][]int, nNodes),
		linkAt: make([]int, nNodes*nNodes),
	}
	for i := range t.linkAt {
		t.linkAt[i] = -1
	}

	for i, l := range links {
		if l.A < 0 || nNodes <= l.A || l.B < 0 || nNodes <= l.B {
			return nil, fmt.Errorf("link %d: %w", i, ErrUnknownNode)
		}
		if l.A == l.B {
			return nil, fmt.Errorf("link %d: self-loop on node %s", i, nodes.Name(l.A))
		}
		if l.Capacity < 0 {
			return nil, fmt.Errorf("link %d: negative capacity %d", i, l.Capacity)
		}
		if l.Delay < 0 {
			return nil, fmt.Errorf("link %d: negative delay %f", i, l.Delay)
		}
		if id := t.linkAt[l.A*nNodes+l.B]; id >= 0 {
			t.Links[id].Delay = l.Delay
			t.Links[id].Capacity = l.Capacity
			continue
		}
		id := len(t.Links)
		t.Links = append(t.Links, l)
		t.linkAt[l.A*nNodes+l.B] = id
		t.linkAt[l.B*nNodes+l.A] = id
	}

	// Capacity-zero links are absent from the graph. They are removed once
	// all the links are known since a later line can override an earlier one.
	kept := t.Links[:0]
	for i := range t.linkAt {
		t.linkAt[i] = -1
	}
	for _, l := range t.Links {
		if l.Capacity == 0 {
			continue
		}
		id := len(kept)
		kept = append(kept, l)
		t.linkAt[l.A*nNodes+l.B] = id
		t.linkAt[l.B*nNodes+l.A] = id
		t.Nexts[l.A] = append(t.Nexts[l.A], id)
		t.Nexts[l.B] = append(t.Nexts[l.B], id)
	}
	t.Links = kept

	return t, nil
}

// NumNodes returns the number of nodes in the topology.
func (t *Topology) NumNodes() int {
	return len(t.Nexts)
}

// NumLinks returns the number of links in the topology.
func (t *Topology) NumLinks() int {
	return len(t.Links)
}

// Link returns the ID of the link between u and v, or -1 if u and v are not
// adjacent.
func (t *Topology) Link(u int, v int) int {
	n := len(t.Nexts)
	if u < 0 || n <= u || v < 0 || n <= v {
		return -1
	}
	return t.linkAt[u*n+v]
}

// Capacity returns the total number of circuits between u and v, or 0 if the
// nodes are not adjacent.
func (t *Topology) Capacity(u int, v int) int64 {
	if id := t.Link(u, v); id >= 0 {
		return t.Links[id].Capacity
	}
	return 0
}

// Delay returns the propagation delay between u and v, or 0 if the nodes are
// not adjacent.
func (t *Topology) Delay(u int, v int) float64 {
	if id := t.Link(u, v); id >= 0 {
		return t.Links[id].Delay
	}
	return 0
}

// Degree returns the total capacity of the links incident to node u.
func (t *Topology) Degree(u int) int64 {
	total := int64(0)
	for _, id := range t.Nexts[u] {
		total += t.Links[id].Capacity
	}
	return total
}
