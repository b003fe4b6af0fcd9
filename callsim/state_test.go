package callsim

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// lineTopology returns a chain of three links with capacity 100 each.
func lineTopology(t *testing.T) *Topology {
	return newTestTopology(t,
		testLink{"A", "B", 1, 100},
		testLink{"B", "C", 1, 100},
		testLink{"C", "D", 1, 100},
	)
}

func TestState_Available(t *testing.T) {
	topo := lineTopology(t)
	state := NewNetworkState(topo)
	state.reserved[1] = 30

	if got := state.Available(1); got != 70 {
		t.Errorf("Available(1): want 70, got %d", got)
	}
	if got := state.AvailableBetween(1, 2); got != 70 {
		t.Errorf("AvailableBetween(B, C): want 70, got %d", got)
	}
	if got := state.AvailableBetween(0, 3); got != 0 {
		t.Errorf("AvailableBetween(A, D): want 0, got %d", got)
	}
	if got := state.Utilization(1); got != 0.3 {
		t.Errorf("Utilization(1): want 0.3, got %f", got)
	}
}

func TestState_AddLoad_oneAdd(t *testing.T) {
	wantChanges := []LoadChange{{0, 0}}
	wantReserved := []int64{10, 0, 0}
	state := NewNetworkState(lineTopology(t))

	state.AddLoad(0, 10)
	gotChanges := state.Changes()

	for l, want := range wantReserved {
		if got := state.Reserved(l); got != want {
			t.Errorf("Reserved(%d): want %d, got %d", l, want, got)
		}
	}
	if diff := cmp.Diff(wantChanges, gotChanges); diff != "" {
		t.Errorf("Changes(): mismatch (-want +got):\n%s", diff)
	}
}

func TestState_AddLoad_twoAdds(t *testing.T) {
	wantChanges := []LoadChange{{1, 10}}
	wantReserved := []int64{0, 30, 0}
	state := NewNetworkState(lineTopology(t))
	state.reserved[1] = 10

	state.AddLoad(1, 10)
	state.AddLoad(1, 10)
	gotChanges := state.Changes()

	for l, want := range wantReserved {
		if got := state.Reserved(l); got != want {
			t.Errorf("Reserved(%d): want %d, got %d", l, want, got)
		}
	}
	if diff := cmp.Diff(wantChanges, gotChanges); diff != "" {
		t.Errorf("Changes(): mismatch (-want +got):\n%s", diff)
	}
}

func TestState_RemoveLoad_twoRemoves(t *testing.T) {
	wantChanges := []LoadChange{{1, 30}}
	wantReserved := []int64{0, 10, 0}
	state := NewNetworkState(lineTopology(t))
	state.reserved[1] = 30

	state.RemoveLoad(1, 10)
	state.RemoveLoad(1, 10)
	gotChanges := state.Changes()

	for l, want := range wantReserved {
		if got := state.Reserved(l); got != want {
			t.Errorf("Reserved(%d): want %d, got %d", l, want, got)
		}
	}
	if diff := cmp.Diff(wantChanges, gotChanges); diff != "" {
		t.Errorf("Changes(): mismatch (-want +got):\n%s", diff)
	}
}

func TestState_PersistChanges(t *testing.T) {
	wantReserved := []int64{0, 10, 20}
	wantChanges := []LoadChange{}
	state := NewNetworkState(lineTopology(t))

	state.AddLoad(1, 10)
	state.AddLoad(2, 10)
	state.AddLoad(2, 10)
	state.PersistChanges()
	gotChanges := state.Changes()

	for l, want := range wantReserved {
		if got := state.Reserved(l); got != want {
			t.Errorf("Reserved(%d): want %d, got %d", l, want, got)
		}
	}
	if diff := cmp.Diff(wantChanges, gotChanges); diff != "" {
		t.Errorf("Changes(): mismatch (-want +got):\n%s", diff)
	}
}

func TestState_UndoChanges(t *testing.T) {
	wantReserved := []int64{0, 10, 20}
	wantChanges := []LoadChange{}
	state := NewNetworkState(lineTopology(t))
	state.reserved[1] = 10
	state.reserved[2] = 20

	state.AddLoad(1, 50)
	state.RemoveLoad(2, 10)
	state.UndoChanges()
	gotChanges := state.Changes()

	for l, want := range wantReserved {
		if got := state.Reserved(l); got != want {
			t.Errorf("Reserved(%d): want %d, got %d", l, want, got)
		}
	}
	if diff := cmp.Diff(wantChanges, gotChanges); diff != "" {
		t.Errorf("Changes(): mismatch (-want +got):\n%s", diff)
	}
}

func TestState_Reset(t *testing.T) {
	state := NewNetworkState(lineTopology(t))
	state.AddLoad(0, 5)
	state.PersistChanges()
	state.AddLoad(2, 7)

	state.Reset()

	for l := 0; l < 3; l++ {
		if got := state.Available(l); got != 100 {
			t.Errorf("Available(%d): want 100, got %d", l, got)
		}
	}
	if got := len(state.Changes()); got != 0 {
		t.Errorf("len(Changes()): want 0, got %d", got)
	}
}

func TestState_PersistChanges_timestampWraps(t *testing.T) {
	state := NewNetworkState(lineTopology(t))
	state.timestamp = math.MaxUint
	state.AddLoad(0, 5)

	state.PersistChanges() // wraps the timestamp around
	state.AddLoad(0, 3)
	state.AddLoad(1, 2)

	wantChanges := []LoadChange{{0, 5}, {1, 0}}
	if diff := cmp.Diff(wantChanges, state.Changes()); diff != "" {
		t.Errorf("Changes(): mismatch (-want +got):\n%s", diff)
	}
	state.UndoChanges()
	if got := state.Reserved(0); got != 5 {
		t.Errorf("Reserved(0): want 5, got %d", got)
	}
	if got := state.Reserved(1); got != 0 {
		t.Errorf("Reserved(1): want 0, got %d", got)
	}
}
