package callsim

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownPolicy is returned when parsing an unsupported policy name.
	ErrUnknownPolicy = errors.New("unknown policy")

	// ErrUnknownMetric is returned when parsing an unsupported path metric.
	ErrUnknownMetric = errors.New("unknown path metric")
)

// Policy is a path selection strategy.
type Policy int8

const (
	PolicyUnknown Policy = iota

	// SHPF selects the path with the fewest hops.
	SHPF
	// SDPF selects the path with the smallest cumulative propagation delay.
	SDPF
	// LLP selects the least loaded path, i.e. the path whose busiest link is
	// the least utilized.
	LLP
	// MFC selects the path whose bottleneck link has the largest fraction of
	// free circuits.
	MFC
	// SHPO selects the path with the fewest hops but blocks calls that would
	// need more hops than on the empty network.
	SHPO
)

var policyNames = map[Policy]string{
	SHPF: "SHPF",
	SDPF: "SDPF",
	LLP:  "LLP",
	MFC:  "MFC",
	SHPO: "SHPO",
}

// AllPolicies returns every supported policy in reporting order.
func AllPolicies() []Policy {
	return []Policy{SHPF, SDPF, LLP, MFC, SHPO}
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int8(p))
}

// ParsePolicy returns the policy with the given (case insensitive) name.
func ParsePolicy(name string) (Policy, error) {
	for p, n := range policyNames {
		if strings.EqualFold(n, name) {
			return p, nil
		}
	}
	return PolicyUnknown, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// PathMetric defines how the weights of the links on a path are combined
// into the path's cost for the load-based policies (LLP and MFC).
type PathMetric int8

const (
	// Bottleneck rates a path by its worst link: the most utilized link for
	// LLP and the link with the smallest free-circuit ratio for MFC. Among the paths
	// with the best bottleneck, the one with the fewest hops is selected.
	Bottleneck PathMetric = iota

	// Additive rates a path by the sum of its link weights: the utilization
	// for LLP and the free-circuit ratio for MFC.
	Additive
)

func (m PathMetric) String() string {
	switch m {
	case Bottleneck:
		return "bottleneck"
	case Additive:
		return "additive"
	default:
		return fmt.Sprintf("PathMetric(%d)", int8(m))
	}
}

// ParsePathMetric returns the metric with the given name.
func ParsePathMetric(name string) (PathMetric, error) {
	switch strings.ToLower(name) {
	case "bottleneck", "":
		return Bottleneck, nil
	case "additive":
		return Additive, nil
	default:
		return Bottleneck, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
}

// CostFunc returns the weight of a link in the current network state.
type CostFunc func(s *NetworkState, link int) float64

// HopCost gives a weight of 1 to every link.
func HopCost(_ *NetworkState, _ int) float64 {
	return 1
}

// DelayCost weights links by their propagation delay.
func DelayCost(s *NetworkState, link int) float64 {
	return s.Topology().Links[link].Delay
}

// LoadCost weights links by their utilization: 1 - available/capacity.
func LoadCost(s *NetworkState, link int) float64 {
	return 1 - float64(s.Available(link))/float64(s.Topology().Links[link].Capacity)
}

// FreeRatioCost weights links by their fraction of free circuits:
// available/capacity.
func FreeRatioCost(s *NetworkState, link int) float64 {
	return float64(s.Available(link)) / float64(s.Topology().Links[link].Capacity)
}

// scarcityCost is minimized by the bottleneck search of MFC: minimizing the
// largest -available/capacity on a path maximizes its smallest free-circuit
// ratio.
func scarcityCost(s *NetworkState, link int) float64 {
	return -FreeRatioCost(s, link)
}

// Query describes a single-source shortest path search: how links are
// weighted and whether the cost of a path is the sum of its link weights or
// its largest link weight.
type Query struct {
	Weight     CostFunc
	Bottleneck bool
}

// Query returns the search performed by the policy under the given metric.
// SHPO shares the hop-count query of SHPF, its admission rule is applied by
// the simulation loop.
func (p Policy) Query(m PathMetric) (Query, error) {
	switch p {
	case SHPF, SHPO:
		return Query{Weight: HopCost}, nil
	case SDPF:
		return Query{Weight: DelayCost}, nil
	case LLP:
		return Query{Weight: LoadCost, Bottleneck: m == Bottleneck}, nil
	case MFC:
		if m == Additive {
			return Query{Weight: FreeRatioCost}, nil
		}
		return Query{Weight: scarcityCost, Bottleneck: true}, nil
	default:
		return Query{}, fmt.Errorf("%w: %s", ErrUnknownPolicy, p)
	}
}
