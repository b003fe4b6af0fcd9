// Package experiment simulates a call workload under several routing
// policies and collects their results.
package experiment

import (
	"context"
	"fmt"
	"sync"

	"github.com/rhartert/circuitsim/callsim"
	"github.com/sirupsen/logrus"
)

// Runner simulates the same workload over the same topology under different
// policies. Each policy is simulated on its own network state so that runs
// never interfere with each other.
type Runner struct {
	Topology *callsim.Topology
	Calls    []callsim.Call

	// Metric used by the load-based policies.
	Metric callsim.PathMetric

	// Maximum number of policies simulated concurrently. Values smaller than
	// 2 run policies one after the other.
	Parallel int

	// Verify checks capacity conservation after each call.
	Verify bool

	// Observer is notified of every call of every run. It must be safe for
	// concurrent use if Parallel is larger than 1.
	Observer callsim.Observer
}

// Result is the outcome of the simulation of one policy.
type Result struct {
	Summary  callsim.Summary
	Outcomes []callsim.Outcome
}

// Run simulates each policy and returns their results in the same order.
// Runs that have not started yet are skipped once ctx is done.
func (r *Runner) Run(ctx context.Context, policies []callsim.Policy) ([]Result, error) {
	// Computed once and shared by runs as it only depends on the topology.
	var baseline *callsim.Baseline
	for _, p := range policies {
		if p == callsim.SHPO {
			baseline = callsim.NewBaseline(r.Topology)
			break
		}
	}

	runs := make([]*callsim.Run, len(policies))
	for i, p := range policies {
		run, err := callsim.NewRun(r.Topology, r.Calls, p, callsim.Options{
			Metric:   r.Metric,
			Verify:   r.Verify,
			Baseline: baseline,
			Observer: r.Observer,
		})
		if err != nil {
			return nil, err
		}
		runs[i] = run
	}

	results := make([]Result, len(runs))
	errs := make([]error, len(runs))
	execute := func(i int) {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			return
		}
		s, err := runs[i].Execute()
		if err != nil {
			errs[i] = fmt.Errorf("%s: %w", runs[i].Policy, err)
			return
		}
		results[i] = Result{Summary: s, Outcomes: runs[i].Outcomes()}
	}

	if r.Parallel < 2 {
		for i := range runs {
			execute(i)
		}
	} else {
		logrus.Debugf("simulating %d policies with up to %d workers", len(runs), r.Parallel)
		sem := make(chan struct{}, r.Parallel)
		wg := sync.WaitGroup{}
		for i := range runs {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()
				execute(i)
			}(i)
		}
		wg.Wait()
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Summaries returns the summary of each result.
func Summaries(results []Result) []callsim.Summary {
	summaries := make([]callsim.Summary, len(results))
	for i, res := range results {
		summaries[i] = res.Summary
	}
	return summaries
}
