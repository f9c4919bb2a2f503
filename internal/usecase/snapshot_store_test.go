package usecase

import (
	"testing"
	"time"

	"deliverysync/internal/domain/entities"
)

func negAt(status entities.NegotiationStatus, updated time.Time) *entities.Negotiation {
	return &entities.Negotiation{ID: "neg-1", OrderID: "ord-1", Status: status, UpdatedAt: updated}
}

func TestSnapshotStore_EmptyGet(t *testing.T) {
	st := NewSnapshotStore()
	if _, ok := st.Get(); ok {
		t.Fatalf("empty store must report absent")
	}
}

func TestSnapshotStore_StaleWriteRejected(t *testing.T) {
	st := NewSnapshotStore()
	t1 := time.Unix(100, 0)
	t2 := time.Unix(200, 0)

	if !st.Set(negAt(entities.NegotiationStatusAccepted, t2), nil) {
		t.Fatalf("first write must apply")
	}
	if st.Set(negAt(entities.NegotiationStatusPending, t1), nil) {
		t.Fatalf("stale write must be a no-op")
	}

	snap, ok := st.Get()
	if !ok || snap.Negotiation == nil {
		t.Fatalf("expected a cached negotiation")
	}
	if snap.Negotiation.Status != entities.NegotiationStatusAccepted {
		t.Fatalf("stale pending data overwrote accepted state: %+v", snap.Negotiation)
	}
}

func TestSnapshotStore_EqualTimestampIsNoop(t *testing.T) {
	st := NewSnapshotStore()
	ts := time.Unix(100, 0)

	st.Set(negAt(entities.NegotiationStatusPending, ts), nil)
	if st.Set(negAt(entities.NegotiationStatusCounterOffered, ts), nil) {
		t.Fatalf("equal updatedAt must not be considered newer")
	}
}

func TestSnapshotStore_FieldWiseMerge(t *testing.T) {
	st := NewSnapshotStore()
	ts := time.Unix(100, 0)

	st.Set(negAt(entities.NegotiationStatusPending, ts), nil)
	st.Set(nil, &entities.Order{ID: "ord-1", Status: entities.OrderStatusConfirmed, UpdatedAt: ts})

	snap, _ := st.Get()
	if snap.Negotiation == nil || snap.Order == nil {
		t.Fatalf("merge must preserve the untouched half: %+v", snap)
	}

	// nil/nil changes nothing.
	if st.Set(nil, nil) {
		t.Fatalf("empty set must be a no-op")
	}
}

func TestSnapshotStore_Clear(t *testing.T) {
	st := NewSnapshotStore()
	st.Set(negAt(entities.NegotiationStatusPending, time.Unix(1, 0)), nil)
	st.Clear()
	if _, ok := st.Get(); ok {
		t.Fatalf("cleared store must report absent")
	}
}

func TestSnapshot_Terminal(t *testing.T) {
	accepted := negAt(entities.NegotiationStatusAccepted, time.Unix(1, 0))
	pending := negAt(entities.NegotiationStatusPending, time.Unix(1, 0))

	t.Run("accepted alone", func(t *testing.T) {
		s := Snapshot{Negotiation: accepted}
		if !s.Terminal(false) {
			t.Fatalf("accepted negotiation is terminal")
		}
	})

	t.Run("pending is never terminal", func(t *testing.T) {
		s := Snapshot{Negotiation: pending, Order: &entities.Order{Status: entities.OrderStatusDelivered}}
		if s.Terminal(false) || s.Terminal(true) {
			t.Fatalf("pending negotiation must not be terminal")
		}
	})

	t.Run("absent negotiation is not terminal", func(t *testing.T) {
		if (Snapshot{}).Terminal(false) {
			t.Fatalf("absent negotiation must keep the session polling")
		}
	})

	t.Run("delivery-gated variant", func(t *testing.T) {
		undelivered := Snapshot{Negotiation: accepted, Order: &entities.Order{Status: entities.OrderStatusConfirmed}}
		if undelivered.Terminal(true) {
			t.Fatalf("variant requires delivered order")
		}
		delivered := Snapshot{Negotiation: accepted, Order: &entities.Order{Status: entities.OrderStatusDelivered}}
		if !delivered.Terminal(true) {
			t.Fatalf("accepted + delivered must be terminal")
		}
	})
}
