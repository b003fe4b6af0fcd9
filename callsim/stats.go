package callsim

import (
	"gonum.org/v1/gonum/stat"
)

// Summary holds the statistics of a simulation run.
type Summary struct {
	Policy   string `yaml:"policy"`
	Total    int    `yaml:"total"`
	Admitted int    `yaml:"admitted"`
	Blocked  int    `yaml:"blocked"`

	// Percentage of the calls that were admitted or blocked. Both are 0 if
	// there was no call.
	SuccessRate float64 `yaml:"success_rate"`
	BlockRate   float64 `yaml:"block_rate"`

	// Mean and standard deviation of the number of hops and the propagation
	// delay of the admitted calls. All four are 0 if no call was admitted,
	// see HasAverages.
	AvgHops  float64 `yaml:"avg_hops"`
	AvgDelay float64 `yaml:"avg_delay"`
	StdHops  float64 `yaml:"std_hops"`
	StdDelay float64 `yaml:"std_delay"`
}

// HasAverages returns false if no call was admitted, in which case the
// average number of hops and delay are undefined.
func (s Summary) HasAverages() bool {
	return s.Admitted > 0
}

// Aggregator accumulates the outcome of each call of a run.
type Aggregator struct {
	policy  string
	blocked int
	hops    []float64
	delays  []float64

	totalHops  int
	totalDelay float64
}

// NewAggregator returns an empty aggregator for the named policy.
func NewAggregator(policy string) *Aggregator {
	return &Aggregator{policy: policy}
}

// Admit records an admitted call routed over a path with the given number of
// hops and cumulative propagation delay.
func (a *Aggregator) Admit(hops int, delay float64) {
	a.hops = append(a.hops, float64(hops))
	a.delays = append(a.delays, delay)
	a.totalHops += hops
	a.totalDelay += delay
}

// Block records a blocked call.
func (a *Aggregator) Block() {
	a.blocked++
}

// Summary derives the run's statistics from the recorded calls.
func (a *Aggregator) Summary() Summary {
	admitted := len(a.hops)
	s := Summary{
		Policy:   a.policy,
		Total:    admitted + a.blocked,
		Admitted: admitted,
		Blocked:  a.blocked,
	}
	if s.Total > 0 {
		s.SuccessRate = float64(admitted) / float64(s.Total) * 100
		s.BlockRate = float64(a.blocked) / float64(s.Total) * 100
	}
	if admitted == 0 {
		return s
	}

	s.AvgHops = float64(a.totalHops) / float64(admitted)
	s.AvgDelay = a.totalDelay / float64(admitted)
	if admitted > 1 {
		s.StdHops = stat.StdDev(a.hops, nil)
		s.StdDelay = stat.StdDev(a.delays, nil)
	}
	return s
}
