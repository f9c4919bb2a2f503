package usecase

import (
	"sync"

	"deliverysync/internal/domain/entities"
)

// Snapshot is the client-local pairing of (Negotiation, Order) at a point in
// time. Either half may be absent before its first successful fetch.
type Snapshot struct {
	Negotiation *entities.Negotiation
	Order       *entities.Order
}

// Terminal reports whether synchronization may stop for this snapshot.
// This is the single polling-termination predicate: negotiation accepted,
// optionally additionally gated on the order having been delivered.
func (s Snapshot) Terminal(requireDelivered bool) bool {
	if s.Negotiation == nil || !s.Negotiation.Status.Terminal() {
		return false
	}
	if !requireDelivered {
		return true
	}
	return s.Order != nil && s.Order.Status == entities.OrderStatusDelivered
}

// SnapshotStore holds the last known negotiation and order for one session.
//
// Merges are field-wise (a nil argument leaves the prior half untouched) and
// last-write-wins by the entity's updatedAt: an incoming entity that is not
// strictly newer than the cached one is a no-op. This is what makes
// out-of-order completion safe: a slow poll response landing after a push
// cannot overwrite an accepted state with stale pending data.
type SnapshotStore struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Get returns the current snapshot. The second return is false while no
// entity has been stored yet.
func (st *SnapshotStore) Get() (Snapshot, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.snap, st.snap.Negotiation != nil || st.snap.Order != nil
}

// Set merges the given halves into the snapshot and reports whether
// anything changed.
func (st *SnapshotStore) Set(n *entities.Negotiation, o *entities.Order) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	changed := false
	if n != nil && (st.snap.Negotiation == nil || n.NewerThan(*st.snap.Negotiation)) {
		v := *n
		st.snap.Negotiation = &v
		changed = true
	}
	if o != nil && (st.snap.Order == nil || o.NewerThan(*st.snap.Order)) {
		v := *o
		st.snap.Order = &v
		changed = true
	}
	return changed
}

// Clear destroys the snapshot. Called when the session for an order ends.
func (st *SnapshotStore) Clear() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.snap = Snapshot{}
}
