package callsim

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownNode is returned when a name or index does not refer to a node
	// of the topology.
	ErrUnknownNode = errors.New("unknown node")

	// ErrTooManyNodes is returned when interning a name would exceed the
	// maximum number of nodes.
	ErrTooManyNodes = errors.New("too many nodes")
)

// DefaultMaxNodes is the node bound of the classic single-letter topologies.
const DefaultMaxNodes = 26

// Nodes maps opaque node names to dense indices in [0, Len()).
type Nodes struct {
	names []string
	index map[string]int
	max   int // 0 means unbounded
}

// NewNodes returns an empty set of nodes that accepts at most max distinct
// names. A max of 0 means unbounded.
func NewNodes(max int) *Nodes {
	return &Nodes{
		index: map[string]int{},
		max:   max,
	}
}

// Intern returns the index of the given name, registering it if needed.
func (n *Nodes) Intern(name string) (int, error) {
	if i, ok := n.index[name]; ok {
		return i, nil
	}
	if name == "" {
		return -1, fmt.Errorf("%w: empty name", ErrUnknownNode)
	}
	if n.max > 0 && len(n.names) == n.max {
		return -1, fmt.Errorf("%w: cannot add %q, limit is %d", ErrTooManyNodes, name, n.max)
	}
	i := len(n.names)
	n.names = append(n.names, name)
	n.index[name] = i
	return i, nil
}

// Index returns the index of a previously interned name.
func (n *Nodes) Index(name string) (int, bool) {
	i, ok := n.index[name]
	return i, ok
}

// Name returns the name of node i.
func (n *Nodes) Name(i int) string {
	if i < 0 || i >= len(n.names) {
		return fmt.Sprintf("#%d", i)
	}
	return n.names[i]
}

// Len returns the number of interned nodes.
func (n *Nodes) Len() int {
	return len(n.names)
}
