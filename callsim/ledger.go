package callsim

import (
	"errors"
	"fmt"

	"github.com/rhartert/circuitsim/callsim/paths"
)

var (
	// ErrOverbooked is returned when a reservation would exceed the capacity
	// of a link. It denotes a programming error: paths are only searched over
	// links with available circuits.
	ErrOverbooked = errors.New("link overbooked")

	// ErrAlreadyHolding is returned when reserving a path for a call that
	// already holds circuits.
	ErrAlreadyHolding = errors.New("call already holds circuits")
)

// Hold records the number of circuits a call holds on a link.
type Hold struct {
	Link  int
	Units int64
}

// Ledger records exactly which circuits each call holds so that they can be
// given back when the call ends.
type Ledger struct {
	state *NetworkState
	holds [][]Hold
}

// NewLedger returns an empty ledger for nCalls calls whose reservations are
// applied to state.
func NewLedger(state *NetworkState, nCalls int) *Ledger {
	return &Ledger{
		state: state,
		holds: make([][]Hold, nCalls),
	}
}

// Reserve reserves one circuit on each link of p on behalf of call. The
// reservation is atomic: if any link lacks an available circuit, the state is
// left untouched and ErrOverbooked is returned.
func (l *Ledger) Reserve(call int, p *paths.Path) error {
	if len(l.holds[call]) > 0 {
		return fmt.Errorf("call %d: %w", call, ErrAlreadyHolding)
	}

	l.state.UndoChanges() // start from the last persisted state
	for _, link := range p.Links() {
		if l.state.Available(link) < 1 {
			l.state.UndoChanges()
			return fmt.Errorf("call %d on link %d: %w", call, link, ErrOverbooked)
		}
		l.state.AddLoad(link, 1)
	}

	// Changes holds each link once, even if it appears several times in p.
	holds := make([]Hold, 0, len(l.state.Changes()))
	for _, lc := range l.state.Changes() {
		holds = append(holds, Hold{
			Link:  lc.Link,
			Units: l.state.Reserved(lc.Link) - lc.PreviousReserved,
		})
	}
	l.state.PersistChanges()
	l.holds[call] = holds

	return nil
}

// Release gives back every circuit held by call. It returns false if the call
// held nothing, in which case the state is not modified. Releasing a call
// twice is therefore equivalent to releasing it once.
func (l *Ledger) Release(call int) bool {
	holds := l.holds[call]
	if len(holds) == 0 {
		return false
	}
	for _, h := range holds {
		l.state.RemoveLoad(h.Link, h.Units)
	}
	l.state.PersistChanges()
	l.holds[call] = nil
	return true
}

// Holds returns the circuits held by call.
//
// Important: the slice is a view on one of the ledger's internal structure and
// should only be used in read-only operations.
func (l *Ledger) Holds(call int) []Hold {
	return l.holds[call]
}

// HeldOn returns the total number of circuits held on the link by all calls.
func (l *Ledger) HeldOn(link int) int64 {
	total := int64(0)
	for _, holds := range l.holds {
		for _, h := range holds {
			if h.Link == link {
				total += h.Units
			}
		}
	}
	return total
}

// Reset drops every record and makes every circuit available again.
func (l *Ledger) Reset() {
	for i := range l.holds {
		l.holds[i] = nil
	}
	l.state.Reset()
}
