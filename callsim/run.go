package callsim

import (
	"errors"
	"fmt"

	"github.com/rhartert/circuitsim/callsim/paths"
	"github.com/rhartert/yagh"
	"github.com/sirupsen/logrus"
)

// ErrConservation is returned when the circuits reserved on a link do not
// match the circuits held by the calls of the ledger.
var ErrConservation = errors.New("capacity conservation violated")

// Observer is notified of the outcome of every call of a run.
type Observer interface {
	CallAdmitted(policy Policy, hops int, delay float64)
	CallBlocked(policy Policy)

	// LinkReserved is called for each link of an admitted call's path with
	// the link's utilization once the call's circuit is reserved.
	LinkReserved(policy Policy, utilization float64)
}

// Options configures a simulation run.
type Options struct {
	// Metric used by the load-based policies.
	Metric PathMetric

	// Verify checks capacity conservation after each call. This is expensive
	// and meant for testing.
	Verify bool

	// Baseline holds the empty-network hop distances used by SHPO. It is
	// computed by NewRun if nil.
	Baseline *Baseline

	// Observer is optional.
	Observer Observer
}

// Outcome is the result of the simulation for one call.
type Outcome struct {
	Call  Call
	State CallState

	// Path, Hops and Delay are only set for calls that were admitted.
	Path  *paths.Path
	Hops  int
	Delay float64
}

// Run is the simulation of a call workload under one policy. A Run owns its
// network state and ledger; several runs over the same topology are fully
// independent from each other.
type Run struct {
	Policy   Policy
	Topology *Topology
	State    *NetworkState
	Ledger   *Ledger

	opts     Options
	query    Query
	finder   *PathFinder
	calls    []Call
	outcomes []Outcome
	agg      *Aggregator

	// Admitted calls ordered by end time. The earliest ending call is always
	// at the top of the heap.
	expiry *yagh.IntMap[float64]
}

// NewRun returns a run of calls over topo under the given policy. Calls are
// processed by order of arrival; calls that arrive at the same time are
// processed in the order they are given.
func NewRun(topo *Topology, calls []Call, policy Policy, opts Options) (*Run, error) {
	query, err := policy.Query(opts.Metric)
	if err != nil {
		return nil, err
	}
	for _, c := range calls {
		if err := validateCall(c, topo.NumNodes()); err != nil {
			return nil, err
		}
	}

	sorted, wasSorted := SortCalls(calls)
	if !wasSorted {
		logrus.Debugf("%s: calls were not ordered by arrival time, sorting them", policy)
	}
	if policy == SHPO && opts.Baseline == nil {
		opts.Baseline = NewBaseline(topo)
	}

	state := NewNetworkState(topo)
	return &Run{
		Policy:   policy,
		Topology: topo,
		State:    state,
		Ledger:   NewLedger(state, len(sorted)),
		opts:     opts,
		query:    query,
		finder:   NewPathFinder(topo),
		calls:    sorted,
		outcomes: make([]Outcome, len(sorted)),
		agg:      NewAggregator(policy.String()),
		expiry:   yagh.New[float64](len(sorted)),
	}, nil
}

// Execute replays every call from a pristine network and returns the run's
// statistics. Executing a run several times always gives the same result.
//
// Blocked calls are an expected outcome and not an error. An error is only
// returned if the network state is found inconsistent, which denotes a bug.
func (r *Run) Execute() (Summary, error) {
	r.reset()
	logrus.Infof("%s: simulating %d calls", r.Policy, len(r.calls))

	for i := range r.calls {
		if err := r.process(i); err != nil {
			return Summary{}, err
		}
		if r.opts.Verify {
			if err := r.CheckConservation(); err != nil {
				return Summary{}, fmt.Errorf("after call %d: %w", r.calls[i].ID, err)
			}
		}
	}

	s := r.agg.Summary()
	logrus.Infof("%s: %d admitted, %d blocked", r.Policy, s.Admitted, s.Blocked)
	return s, nil
}

// Outcomes returns the outcome of each call, ordered by arrival time.
//
// Important: the slice is a view on one of the run's internal structure and
// should only be used in read-only operations.
func (r *Run) Outcomes() []Outcome {
	return r.outcomes
}

// CheckConservation verifies that, on every link, the available circuits plus
// the circuits held by calls equal the link's capacity.
func (r *Run) CheckConservation() error {
	for id, l := range r.Topology.Links {
		avail := r.State.Available(id)
		held := r.Ledger.HeldOn(id)
		if avail < 0 || avail > l.Capacity || avail+held != l.Capacity {
			return fmt.Errorf("%w: link %s-%s has %d available and %d held for a capacity of %d",
				ErrConservation, r.Topology.Nodes.Name(l.A), r.Topology.Nodes.Name(l.B), avail, held, l.Capacity)
		}
	}
	return nil
}

func (r *Run) reset() {
	r.Ledger.Reset()
	for r.expiry.Size() > 0 {
		r.expiry.Pop()
	}
	for i, c := range r.calls {
		r.outcomes[i] = Outcome{Call: c, State: Pending}
	}
	r.agg = NewAggregator(r.Policy.String())
}

// process handles the arrival of the i-th call.
func (r *Run) process(i int) error {
	c := r.calls[i]
	r.expire(c.Arrival)

	p, ok := r.route(c)
	if !ok {
		r.outcomes[i].State = Blocked
		r.agg.Block()
		if r.opts.Observer != nil {
			r.opts.Observer.CallBlocked(r.Policy)
		}
		logrus.Debugf("%s: call %d (%s -> %s) blocked at %g", r.Policy, c.ID,
			r.Topology.Nodes.Name(c.Source), r.Topology.Nodes.Name(c.Destination), c.Arrival)
		return nil
	}

	if err := r.Ledger.Reserve(i, p); err != nil {
		return err
	}

	delay := 0.0
	for _, id := range p.Links() {
		delay += r.Topology.Links[id].Delay
	}
	r.outcomes[i] = Outcome{
		Call:  c,
		State: Admitted,
		Path:  p,
		Hops:  p.Hops(),
		Delay: delay,
	}
	r.expiry.Put(i, c.End())
	r.agg.Admit(p.Hops(), delay)
	if r.opts.Observer != nil {
		r.opts.Observer.CallAdmitted(r.Policy, p.Hops(), delay)
		for _, id := range p.Links() {
			r.opts.Observer.LinkReserved(r.Policy, r.State.Utilization(id))
		}
	}
	logrus.Debugf("%s: call %d admitted at %g on %s", r.Policy, c.ID, c.Arrival,
		p.Format(r.Topology.Nodes.Name))

	return nil
}

// expire releases the circuits of every admitted call that ends at or before
// the given time.
func (r *Run) expire(now float64) {
	for {
		next, ok := r.expiry.Min()
		if !ok || next.Cost > now {
			return
		}
		r.expiry.Pop()
		i := next.Elem
		r.Ledger.Release(i)
		r.outcomes[i].State = Expired
	}
}

// route returns the path of call c or false if the call must be blocked.
func (r *Run) route(c Call) (*paths.Path, bool) {
	p, _, ok := r.finder.Shortest(r.State, c.Source, c.Destination, r.query)
	if !ok {
		return nil, false
	}
	if r.Policy != SHPO {
		return p, true
	}

	// SHPO only admits calls that can be routed on one of their shortest
	// paths of the empty network.
	empty, ok := r.opts.Baseline.Hops(c.Source, c.Destination)
	if !ok || p.Hops() > empty {
		return nil, false
	}
	return p, true
}
