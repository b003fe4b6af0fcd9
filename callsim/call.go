package callsim

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

// Call is one entry of a call workload.
type Call struct {
	// ID identifies the call in the workload, usually its position in the
	// input file.
	ID          int
	Arrival     float64
	Duration    float64
	Source      int
	Destination int
}

// End returns the time at which the call ends if it is admitted.
func (c Call) End() float64 {
	return c.Arrival + c.Duration
}

// CallState is the state of a call within a simulation run.
type CallState int8

const (
	Pending CallState = iota
	Admitted
	Blocked
	Expired
)

func (s CallState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Admitted:
		return "admitted"
	case Blocked:
		return "blocked"
	case Expired:
		return "expired"
	default:
		return fmt.Sprintf("CallState(%d)", int8(s))
	}
}

// SortCalls returns a copy of calls sorted by arrival time. Calls that arrive
// at the same time keep their relative order. The second returned value is
// true if calls were already sorted.
func SortCalls(calls []Call) ([]Call, bool) {
	sorted := slices.Clone(calls)
	if slices.IsSortedFunc(sorted, compareArrival) {
		return sorted, true
	}
	slices.SortStableFunc(sorted, compareArrival)
	return sorted, false
}

func compareArrival(a Call, b Call) int {
	switch {
	case a.Arrival < b.Arrival:
		return -1
	case a.Arrival > b.Arrival:
		return 1
	default:
		return 0
	}
}

// validateCall checks that c can be simulated on a topology with nNodes nodes.
func validateCall(c Call, nNodes int) error {
	if c.Source < 0 || nNodes <= c.Source {
		return fmt.Errorf("call %d: source: %w", c.ID, ErrUnknownNode)
	}
	if c.Destination < 0 || nNodes <= c.Destination {
		return fmt.Errorf("call %d: destination: %w", c.ID, ErrUnknownNode)
	}
	if c.Source == c.Destination {
		return fmt.Errorf("call %d: source and destination are the same node", c.ID)
	}
	if math.IsNaN(c.Arrival) || math.IsInf(c.Arrival, 0) {
		return fmt.Errorf("call %d: invalid arrival time %f", c.ID, c.Arrival)
	}
	if math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) || c.Duration < 0 {
		return fmt.Errorf("call %d: invalid duration %f", c.ID, c.Duration)
	}
	return nil
}
