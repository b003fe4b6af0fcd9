// Package paths provides the representation of a route between two nodes of
// a circuit-switched network.
package paths

import (
	"fmt"
	"strings"
)

// Path represents a loop-free route between two nodes in a network.
//
// A Path is made of a sequence of nodes and of the links that connect each
// pair of consecutive nodes. It respects the following invariants:
//
//   - Minimum length: 1 node (a path from a node to itself has no link)
//   - Source node: First element in the node sequence
//   - Destination node: Last element in the node sequence
//   - Links: Exactly Length()-1 links, link i connects node i and node i+1
//
// Paths are immutable once built.
type Path struct {
	nodes []int
	links []int
}

// New returns the path made of the given nodes and links. It returns an error
// if the number of links does not match the number of nodes.
func New(nodes []int, links []int) (*Path, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("path has no node")
	}
	if len(links) != len(nodes)-1 {
		return nil, fmt.Errorf("path with %d nodes must have %d links, got %d", len(nodes), len(nodes)-1, len(links))
	}
	return &Path{
		nodes: append([]int(nil), nodes...),
		links: append([]int(nil), links...),
	}, nil
}

// FromPredecessors rebuilds the path that ends at node dst by following the
// predecessor links. prevNode[v] is the node preceding v on the path and
// prevLink[v] the link used to reach v, or -1 for the path's source.
func FromPredecessors(dst int, prevNode []int, prevLink []int) *Path {
	n := 1
	for v := dst; prevNode[v] >= 0; v = prevNode[v] {
		n++
	}

	p := &Path{
		nodes: make([]int, n),
		links: make([]int, n-1),
	}
	v := dst
	for i := n - 1; i > 0; i-- {
		p.nodes[i] = v
		p.links[i-1] = prevLink[v]
		v = prevNode[v]
	}
	p.nodes[0] = v
	return p
}

// Length returns the length of the path in terms of nodes.
func (p *Path) Length() int {
	return len(p.nodes)
}

// Hops returns the number of links on the path.
func (p *Path) Hops() int {
	return len(p.links)
}

// Source returns the first node of the path.
func (p *Path) Source() int {
	return p.nodes[0]
}

// Destination returns the last node of the path.
func (p *Path) Destination() int {
	return p.nodes[len(p.nodes)-1]
}

// Node returns the node at position pos starting from 0 (the source) and
// ending at Length()-1 (the destination).
func (p *Path) Node(pos int) int {
	return p.nodes[pos]
}

// Nodes returns the sequence of nodes in the path (including the path's source
// and destination).
//
// Important: the slice is a view on one of the path's internal structure and
// should only be used in read-only operations. Modifying the slice will most
// likely results in incorrect behavior.
func (p *Path) Nodes() []int {
	return p.nodes
}

// Links returns the sequence of links in the path. The same read-only
// restrictions as Nodes apply.
func (p *Path) Links() []int {
	return p.links
}

// String returns a string representation of the path as a sequence of nodes
// separated by " -> ". For example: "0 -> 4 -> 3 -> 1".
func (p *Path) String() string {
	return p.Format(func(n int) string { return fmt.Sprintf("%d", n) })
}

// Format is like String but uses name to render each node.
func (p *Path) Format(name func(int) string) string {
	sb := strings.Builder{}
	for i := 0; i < len(p.nodes)-1; i++ {
		sb.WriteString(name(p.nodes[i]))
		sb.WriteString(" -> ")
	}
	sb.WriteString(name(p.nodes[len(p.nodes)-1]))
	return sb.String()
}
