package callsim

// LoadChange records the circuits reserved on a link at the last commit.
type LoadChange struct {
	Link             int
	PreviousReserved int64
}

// NetworkState is the mutable part of the network: the number of circuits
// currently reserved on each link of a Topology. It is a reversible structure
// that keeps track of the changes applied to its links and can efficiently
// undo them, which lets a reservation be applied atomically.
//
// Each simulation run owns its own NetworkState. The Topology it refers to is
// shared and never modified.
type NetworkState struct {
	topo     *Topology
	reserved []int64

	// Stack of changes used to restore the last persisted state.
	changes  []LoadChange
	nChanges int

	// Link l has a pending change iff savedAt[l] == timestamp.
	savedAt   []uint
	timestamp uint
}

// NewNetworkState returns a state of topo in which every circuit is available.
func NewNetworkState(topo *Topology) *NetworkState {
	nLinks := topo.NumLinks()
	return &NetworkState{
		topo:      topo,
		reserved:  make([]int64, nLinks),
		changes:   make([]LoadChange, nLinks),
		nChanges:  0,
		savedAt:   make([]uint, nLinks),
		timestamp: 1, // must be greater than the zero values in savedAt
	}
}

// Topology returns the topology the state refers to.
func (s *NetworkState) Topology() *Topology {
	return s.topo
}

// Reserved returns the number of circuits currently reserved on the link.
func (s *NetworkState) Reserved(link int) int64 {
	return s.reserved[link]
}

// Available returns the number of circuits that are not reserved on the link.
func (s *NetworkState) Available(link int) int64 {
	return s.topo.Links[link].Capacity - s.reserved[link]
}

// AvailableBetween returns the number of available circuits between u and v,
// or 0 if u and v are not adjacent.
func (s *NetworkState) AvailableBetween(u int, v int) int64 {
	if id := s.topo.Link(u, v); id >= 0 {
		return s.Available(id)
	}
	return 0
}

// Utilization returns the fraction of the link's circuits that are reserved.
func (s *NetworkState) Utilization(link int) float64 {
	return float64(s.reserved[link]) / float64(s.topo.Links[link].Capacity)
}

// AddLoad reserves n circuits on the link. The reservation stays pending
// until PersistChanges is called.
func (s *NetworkState) AddLoad(link int, n int64) {
	s.journal(link)
	s.reserved[link] += n
}

// RemoveLoad releases n circuits on the link. The release stays pending until
// PersistChanges is called.
func (s *NetworkState) RemoveLoad(link int, n int64) {
	s.journal(link)
	s.reserved[link] -= n
}

// journal records the reservation of link before its first pending change.
func (s *NetworkState) journal(link int) {
	if s.savedAt[link] == s.timestamp {
		return
	}
	s.changes[s.nChanges] = LoadChange{Link: link, PreviousReserved: s.reserved[link]}
	s.nChanges++
	s.savedAt[link] = s.timestamp
}

// PersistChanges commits the pending reservations and releases.
func (s *NetworkState) PersistChanges() {
	s.nChanges = 0
	s.nextEpoch()
}

// UndoChanges restores every link to its reservation at the last commit, in
// O(C) where C is the number of links with pending changes.
func (s *NetworkState) UndoChanges() {
	for ; s.nChanges > 0; s.nChanges-- {
		lc := s.changes[s.nChanges-1]
		s.reserved[lc.Link] = lc.PreviousReserved
	}
	s.nextEpoch()
}

// Changes returns the links with pending changes, in the order they were
// first changed. The slice is owned by the state and must not be modified.
func (s *NetworkState) Changes() []LoadChange {
	return s.changes[:s.nChanges]
}

// Reset releases every circuit and drops pending changes.
func (s *NetworkState) Reset() {
	clear(s.reserved)
	s.nChanges = 0
	s.nextEpoch()
}

// nextEpoch marks every link as unchanged. savedAt is cleared when the
// timestamp wraps around.
func (s *NetworkState) nextEpoch() {
	if s.timestamp++; s.timestamp != 0 {
		return
	}
	clear(s.savedAt)
	s.timestamp = 1
}
