// Package metrics exports the outcome of simulation runs as Prometheus
// metrics.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rhartert/circuitsim/callsim"
)

// Collector bundles the Prometheus metrics of simulation runs. It implements
// callsim.Observer and is safe for concurrent use by several runs.
type Collector struct {
	gatherer prometheus.Gatherer

	Calls       *prometheus.CounterVec
	Hops        *prometheus.HistogramVec
	Delays      *prometheus.HistogramVec
	Utilization *prometheus.HistogramVec
}

// NewCollector registers the simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	calls, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "callsim_calls_total",
		Help: "Total number of simulated calls, labeled by policy and outcome.",
	}, []string{"policy", "outcome"}), "callsim_calls_total")
	if err != nil {
		return nil, err
	}

	hops, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "callsim_path_hops",
		Help:    "Number of hops of the paths of admitted calls.",
		Buckets: prometheus.LinearBuckets(1, 1, 10),
	}, []string{"policy"}), "callsim_path_hops")
	if err != nil {
		return nil, err
	}

	delays, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "callsim_path_delay",
		Help:    "Cumulative propagation delay of the paths of admitted calls.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"policy"}), "callsim_path_delay")
	if err != nil {
		return nil, err
	}

	util, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "callsim_link_utilization",
		Help:    "Utilization of the links of a path once an admitted call is reserved.",
		Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
	}, []string{"policy"}), "callsim_link_utilization")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:    gatherer,
		Calls:       calls,
		Hops:        hops,
		Delays:      delays,
		Utilization: util,
	}, nil
}

// CallAdmitted records an admitted call.
func (c *Collector) CallAdmitted(policy callsim.Policy, hops int, delay float64) {
	if c == nil {
		return
	}
	p := policy.String()
	c.Calls.WithLabelValues(p, callsim.Admitted.String()).Inc()
	c.Hops.WithLabelValues(p).Observe(float64(hops))
	c.Delays.WithLabelValues(p).Observe(delay)
}

// CallBlocked records a blocked call.
func (c *Collector) CallBlocked(policy callsim.Policy) {
	if c == nil {
		return
	}
	c.Calls.WithLabelValues(policy.String(), callsim.Blocked.String()).Inc()
}

// LinkReserved records the utilization of a link used by an admitted call.
func (c *Collector) LinkReserved(policy callsim.Policy, utilization float64) {
	if c == nil {
		return
	}
	c.Utilization.WithLabelValues(policy.String()).Observe(utilization)
}

// WriteFile writes every metric gathered by the collector's registry to
// filename in the Prometheus text format.
func (c *Collector) WriteFile(filename string) error {
	return prometheus.WriteToTextfile(filename, c.gatherer)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
