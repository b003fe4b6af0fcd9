// Package workload generates synthetic call workloads.
//
// Calls arrive as a Poisson process and hold their circuit for an
// exponentially distributed duration. The endpoints of a call are selected
// with a probability proportional to the total capacity of their links, so
// that well connected nodes originate and receive more calls.
package workload

import (
	"errors"
	"fmt"

	"github.com/iti/rngstream"
	"github.com/rhartert/circuitsim/callsim"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNoEndpoints is returned when the topology has no pair of connected
// nodes to place calls between.
var ErrNoEndpoints = errors.New("topology has no link to place calls on")

// Source is a stream of random numbers uniformly distributed in [0, 1).
type Source interface {
	RandU01() float64
}

type Config struct {
	// Number of calls to generate.
	Calls int

	// Mean number of call arrivals per unit of time.
	ArrivalRate float64

	// Mean holding time of a call.
	MeanDuration float64

	// Seed of the arrival and holding time distributions.
	Seed uint64
}

func (c Config) Validate() error {
	if c.Calls < 0 {
		return fmt.Errorf("number of calls must be non-negative, got %d", c.Calls)
	}
	if !(c.ArrivalRate > 0) {
		return fmt.Errorf("arrival rate must be positive, got %f", c.ArrivalRate)
	}
	if !(c.MeanDuration > 0) {
		return fmt.Errorf("mean duration must be positive, got %f", c.MeanDuration)
	}
	return nil
}

// Generator draws calls over a topology.
type Generator struct {
	topo      *callsim.Topology
	cfg       Config
	rolls     Source
	endpoints *EndpointSampler

	interArrival distuv.Exponential
	holding      distuv.Exponential
}

// NewGenerator returns a generator of calls over topo. Endpoints are drawn
// from src, or from a new rngstream stream if src is nil.
func NewGenerator(topo *callsim.Topology, cfg Config, src Source) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if topo.NumLinks() == 0 {
		return nil, ErrNoEndpoints
	}
	if src == nil {
		src = rngstream.New(fmt.Sprintf("callsim-endpoints-%d", cfg.Seed))
	}

	return &Generator{
		topo:      topo,
		cfg:       cfg,
		rolls:     src,
		endpoints: NewEndpointSampler(topo),
		interArrival: distuv.Exponential{
			Rate: cfg.ArrivalRate,
			Src:  rand.NewSource(cfg.Seed),
		},
		holding: distuv.Exponential{
			Rate: 1 / cfg.MeanDuration,
			Src:  rand.NewSource(cfg.Seed + 1),
		},
	}, nil
}

// Generate returns the calls ordered by arrival time. The first call arrives
// at time 0.
func (g *Generator) Generate() []callsim.Call {
	calls := make([]callsim.Call, g.cfg.Calls)
	now := 0.0
	for i := range calls {
		if i > 0 {
			now += g.interArrival.Rand()
		}
		src, dst := g.endpoints.Pick(g.rolls)
		calls[i] = callsim.Call{
			ID:          i,
			Arrival:     now,
			Duration:    g.holding.Rand(),
			Source:      src,
			Destination: dst,
		}
	}
	return calls
}
