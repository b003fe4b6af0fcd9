package experiment

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rhartert/circuitsim/callsim"
)

// testRunner returns a runner over a ring of 6 nodes with a chord, with
// enough overlapping calls for some of them to be blocked.
func testRunner(t *testing.T) *Runner {
	t.Helper()
	nodes := callsim.NewNodes(0)
	for _, n := range []string{"A", "B", "C", "D", "E", "F"} {
		if _, err := nodes.Intern(n); err != nil {
			t.Fatal(err)
		}
	}
	links := []callsim.Link{
		{A: 0, B: 1, Delay: 2, Capacity: 2},
		{A: 1, B: 2, Delay: 3, Capacity: 1},
		{A: 2, B: 3, Delay: 1, Capacity: 2},
		{A: 3, B: 4, Delay: 4, Capacity: 1},
		{A: 4, B: 5, Delay: 2, Capacity: 2},
		{A: 5, B: 0, Delay: 1, Capacity: 3},
		{A: 0, B: 3, Delay: 9, Capacity: 1},
	}
	topo, err := callsim.NewTopology(nodes, links)
	if err != nil {
		t.Fatal(err)
	}

	calls := []callsim.Call{}
	for i := 0; i < 40; i++ {
		calls = append(calls, callsim.Call{
			ID:          i,
			Arrival:     float64(i) * 0.5,
			Duration:    float64(3 + i%4),
			Source:      i % 6,
			Destination: (i*5 + 3) % 6,
		})
	}
	for i := range calls {
		if calls[i].Source == calls[i].Destination {
			calls[i].Destination = (calls[i].Destination + 1) % 6
		}
	}

	return &Runner{Topology: topo, Calls: calls, Verify: true}
}

func TestRunner_Run(t *testing.T) {
	r := testRunner(t)
	policies := callsim.AllPolicies()

	got, err := r.Run(context.Background(), policies)

	if err != nil {
		t.Fatalf("Run(): %s", err)
	}
	if len(got) != len(policies) {
		t.Fatalf("Run(): want %d results, got %d", len(policies), len(got))
	}
	for i, res := range got {
		s := res.Summary
		if s.Policy != policies[i].String() {
			t.Errorf("result %d: want policy %s, got %s", i, policies[i], s.Policy)
		}
		if s.Total != len(r.Calls) || s.Admitted+s.Blocked != s.Total {
			t.Errorf("%s: inconsistent summary %+v", s.Policy, s)
		}
		if len(res.Outcomes) != len(r.Calls) {
			t.Errorf("%s: want %d outcomes, got %d", s.Policy, len(r.Calls), len(res.Outcomes))
		}
	}
}

func TestRunner_Run_parallelMatchesSequential(t *testing.T) {
	seq := testRunner(t)
	par := testRunner(t)
	par.Parallel = 3
	policies := callsim.AllPolicies()

	for _, m := range []callsim.PathMetric{callsim.Bottleneck, callsim.Additive} {
		seq.Metric = m
		par.Metric = m

		want, err := seq.Run(context.Background(), policies)
		if err != nil {
			t.Fatal(err)
		}
		got, err := par.Run(context.Background(), policies)
		if err != nil {
			t.Fatal(err)
		}

		if diff := cmp.Diff(Summaries(want), Summaries(got)); diff != "" {
			t.Errorf("%s: summaries mismatch (-sequential +parallel):\n%s", m, diff)
		}
	}
}

func TestRunner_Run_canceled(t *testing.T) {
	r := testRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, callsim.AllPolicies())

	if err != context.Canceled {
		t.Errorf("Run(): want context.Canceled, got %v", err)
	}
}

func TestRunner_Run_invalidCall(t *testing.T) {
	r := testRunner(t)
	r.Calls = append(r.Calls, callsim.Call{ID: 99, Source: 0, Destination: 42, Duration: 1})

	if _, err := r.Run(context.Background(), []callsim.Policy{callsim.SHPF}); err == nil {
		t.Errorf("Run(): want error, got none")
	}
}
