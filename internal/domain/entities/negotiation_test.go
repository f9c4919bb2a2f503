package entities

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNegotiationStatus_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want NegotiationStatus
	}{
		{"underscore spelling", `"counter_offered"`, NegotiationStatusCounterOffered},
		{"hyphen spelling", `"counter-offered"`, NegotiationStatusCounterOffered},
		{"pending", `"pending"`, NegotiationStatusPending},
		{"accepted with padding", `" Accepted "`, NegotiationStatusAccepted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var s NegotiationStatus
			if err := json.Unmarshal([]byte(tc.raw), &s); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if s != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, s)
			}
		})
	}

	t.Run("non-string payload", func(t *testing.T) {
		var s NegotiationStatus
		if err := json.Unmarshal([]byte(`7`), &s); err == nil {
			t.Fatalf("expected error for non-string status")
		}
	})
}

func TestNegotiation_LastDeliveryOffer(t *testing.T) {
	ts := func(sec int) time.Time { return time.Unix(int64(sec), 0).UTC() }

	t.Run("max by timestamp regardless of storage order", func(t *testing.T) {
		// Deliberately stored out of time order.
		n := Negotiation{PriceHistory: []Offer{
			{Price: 15, ProposedBy: OfferPartyDelivery, Timestamp: ts(3)},
			{Price: 10, ProposedBy: OfferPartyDelivery, Timestamp: ts(1)},
			{Price: 12, ProposedBy: OfferPartyCustomer, Timestamp: ts(2)},
		}}
		got, ok := n.LastDeliveryOffer()
		if !ok {
			t.Fatalf("expected a delivery offer")
		}
		if got.Price != 15 {
			t.Fatalf("expected price 15, got %v", got.Price)
		}
	})

	t.Run("customer offers are ignored", func(t *testing.T) {
		n := Negotiation{PriceHistory: []Offer{
			{Price: 99, ProposedBy: OfferPartyCustomer, Timestamp: ts(9)},
		}}
		if _, ok := n.LastDeliveryOffer(); ok {
			t.Fatalf("expected no delivery offer")
		}
	})

	t.Run("empty history", func(t *testing.T) {
		var n Negotiation
		if _, ok := n.LastDeliveryOffer(); ok {
			t.Fatalf("expected no delivery offer")
		}
	})
}

func TestNegotiation_NewerThan(t *testing.T) {
	older := Negotiation{UpdatedAt: time.Unix(100, 0)}
	newer := Negotiation{UpdatedAt: time.Unix(200, 0)}

	if !newer.NewerThan(older) {
		t.Fatalf("expected newer to win")
	}
	if older.NewerThan(newer) {
		t.Fatalf("stale entity must not be considered newer")
	}
	if older.NewerThan(older) {
		t.Fatalf("equal updatedAt must not be considered newer")
	}
}

func TestNegotiation_OfferAccepted(t *testing.T) {
	t.Run("not accepted negotiation", func(t *testing.T) {
		n := Negotiation{Status: NegotiationStatusPending, CurrentPrice: 20}
		if n.OfferAccepted(Offer{Price: 20}) {
			t.Fatalf("pending negotiation has no accepted offer")
		}
	})

	t.Run("price equality fallback", func(t *testing.T) {
		n := Negotiation{Status: NegotiationStatusAccepted, CurrentPrice: 20}
		if !n.OfferAccepted(Offer{Price: 20}) {
			t.Fatalf("expected accepted by price equality")
		}
		if n.OfferAccepted(Offer{Price: 18}) {
			t.Fatalf("different price must not be accepted")
		}
	})

	t.Run("server stamp wins over price", func(t *testing.T) {
		n := Negotiation{Status: NegotiationStatusAccepted, CurrentPrice: 20}
		if n.OfferAccepted(Offer{Price: 20, Status: "pending"}) {
			t.Fatalf("stamped pending offer must not display as accepted")
		}
		if !n.OfferAccepted(Offer{Price: 18, Status: "accepted"}) {
			t.Fatalf("stamped accepted offer must display as accepted")
		}
	})
}

func TestBadgeFor(t *testing.T) {
	if b := BadgeFor("counter-offered"); b.Tone != ToneBlue {
		t.Fatalf("hyphenated status should map through normalization, got %+v", b)
	}
	if b := NegotiationStatusAccepted.Badge(); b.Tone != ToneGreen || b.Label != "Accepted" {
		t.Fatalf("unexpected accepted badge: %+v", b)
	}
	if b := DeliveryStatusHeadingToCustomer.Badge(); b.Label != "Heading to customer" {
		t.Fatalf("unexpected delivery badge: %+v", b)
	}
	if b := BadgeFor("weird_new_state"); b.Tone != ToneNeutral || b.Label != "Unknown" {
		t.Fatalf("unknown status must fall back to neutral, got %+v", b)
	}
}
