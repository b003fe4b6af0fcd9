package callsim

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rhartert/circuitsim/callsim/paths"
)

func mustPath(t *testing.T, nodes []int, links []int) *paths.Path {
	t.Helper()
	p, err := paths.New(nodes, links)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLedger_Reserve(t *testing.T) {
	topo := lineTopology(t)
	state := NewNetworkState(topo)
	ledger := NewLedger(state, 2)

	err := ledger.Reserve(0, mustPath(t, []int{0, 1, 2}, []int{0, 1}))

	if err != nil {
		t.Fatalf("Reserve(): want no error, got %s", err)
	}
	wantAvailable := []int64{99, 99, 100}
	for l, want := range wantAvailable {
		if got := state.Available(l); got != want {
			t.Errorf("Available(%d): want %d, got %d", l, want, got)
		}
	}
	if diff := cmp.Diff([]Hold{{0, 1}, {1, 1}}, ledger.Holds(0)); diff != "" {
		t.Errorf("Holds(0): mismatch (-want +got):\n%s", diff)
	}
	if got := ledger.Holds(1); len(got) != 0 {
		t.Errorf("Holds(1): want none, got %v", got)
	}
}

func TestLedger_Reserve_alreadyHolding(t *testing.T) {
	state := NewNetworkState(lineTopology(t))
	ledger := NewLedger(state, 1)
	p := mustPath(t, []int{0, 1}, []int{0})

	if err := ledger.Reserve(0, p); err != nil {
		t.Fatal(err)
	}
	err := ledger.Reserve(0, p)

	if !errors.Is(err, ErrAlreadyHolding) {
		t.Errorf("Reserve() twice: want ErrAlreadyHolding, got %v", err)
	}
	if got := state.Available(0); got != 99 {
		t.Errorf("Available(0): want 99, got %d", got)
	}
}

func TestLedger_Reserve_overbookedIsAtomic(t *testing.T) {
	topo := newTestTopology(t,
		testLink{"A", "B", 1, 3},
		testLink{"B", "C", 1, 1},
	)
	state := NewNetworkState(topo)
	ledger := NewLedger(state, 2)
	p := mustPath(t, []int{0, 1, 2}, []int{0, 1})
	if err := ledger.Reserve(0, p); err != nil {
		t.Fatal(err)
	}

	err := ledger.Reserve(1, p) // B-C is full

	if !errors.Is(err, ErrOverbooked) {
		t.Fatalf("Reserve(): want ErrOverbooked, got %v", err)
	}
	if got := state.Available(0); got != 2 {
		t.Errorf("Available(A-B): want 2 (untouched), got %d", got)
	}
	if got := state.Available(1); got != 0 {
		t.Errorf("Available(B-C): want 0, got %d", got)
	}
	if got := ledger.Holds(1); len(got) != 0 {
		t.Errorf("Holds(1): want none, got %v", got)
	}
}

func TestLedger_Release(t *testing.T) {
	state := NewNetworkState(lineTopology(t))
	ledger := NewLedger(state, 2)
	ledger.Reserve(0, mustPath(t, []int{0, 1, 2, 3}, []int{0, 1, 2}))
	ledger.Reserve(1, mustPath(t, []int{1, 2}, []int{1}))

	if ok := ledger.Release(0); !ok {
		t.Errorf("Release(0): want true, got false")
	}

	wantAvailable := []int64{100, 99, 100}
	for l, want := range wantAvailable {
		if got := state.Available(l); got != want {
			t.Errorf("Available(%d): want %d, got %d", l, want, got)
		}
	}
}

func TestLedger_Release_twiceIsNoop(t *testing.T) {
	state := NewNetworkState(lineTopology(t))
	ledger := NewLedger(state, 1)
	ledger.Reserve(0, mustPath(t, []int{0, 1}, []int{0}))

	first := ledger.Release(0)
	second := ledger.Release(0)

	if !first || second {
		t.Errorf("Release(): want true then false, got %t then %t", first, second)
	}
	if got := state.Available(0); got != 100 {
		t.Errorf("Available(0): want 100, got %d", got)
	}
}

func TestLedger_noDrift(t *testing.T) {
	topo := squareTopology(t)
	state := NewNetworkState(topo)
	ledger := NewLedger(state, 3)
	routes := []*paths.Path{
		mustPath(t, []int{0, 1, 2}, []int{0, 1}),
		mustPath(t, []int{0, 3, 2}, []int{3, 2}),
		mustPath(t, []int{3, 1}, []int{4}),
	}

	for i := 0; i < 10000; i++ {
		call := i % len(routes)
		if err := ledger.Reserve(call, routes[call]); err != nil {
			t.Fatalf("iteration %d: Reserve(): %s", i, err)
		}
		if i%2 == 1 {
			ledger.Release(call)
		}
		if call == len(routes)-1 {
			for c := range routes {
				ledger.Release(c)
			}
		}
	}
	for c := range routes {
		ledger.Release(c)
	}

	for l, link := range topo.Links {
		if got := state.Available(l); got != link.Capacity {
			t.Errorf("Available(%d): want %d, got %d", l, link.Capacity, got)
		}
		if got := ledger.HeldOn(l); got != 0 {
			t.Errorf("HeldOn(%d): want 0, got %d", l, got)
		}
	}
}
