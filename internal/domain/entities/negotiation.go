package entities

import (
	"encoding/json"
	"strings"
	"time"
)

// NegotiationStatus represents the lifecycle of a price negotiation.
//
// Domain notes:
//   - The server is the source of truth for negotiation state; the client
//     only caches it.
//   - "accepted" is terminal: once observed, the entity is immutable from
//     the client's perspective.
//   - Older backends emit the hyphenated spelling "counter-offered"; it is
//     normalized to "counter_offered" at the deserialization boundary so no
//     other code ever branches on both forms.

type NegotiationStatus string

const (
	NegotiationStatusPending        NegotiationStatus = "pending"
	NegotiationStatusCounterOffered NegotiationStatus = "counter_offered"
	NegotiationStatusAccepted       NegotiationStatus = "accepted"
)

// NormalizeNegotiationStatus maps raw wire values onto the canonical
// spellings above.
func NormalizeNegotiationStatus(raw string) NegotiationStatus {
	v := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
	return NegotiationStatus(v)
}

func (s *NegotiationStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = NormalizeNegotiationStatus(raw)
	return nil
}

// Terminal reports whether no further transition is expected.
func (s NegotiationStatus) Terminal() bool {
	return s == NegotiationStatusAccepted
}

// OfferParty identifies who proposed an offer.

type OfferParty string

const (
	OfferPartyDelivery OfferParty = "delivery"
	OfferPartyCustomer OfferParty = "customer"
)

// Offer is one proposed price within a negotiation. Offers are immutable
// once created; the history is append-only from the client's point of view.
type Offer struct {
	ID         string     `json:"id"`
	Price      float64    `json:"price"`
	ProposedBy OfferParty `json:"proposedBy"`
	Timestamp  time.Time  `json:"timestamp"`
	Status     string     `json:"status,omitempty"`
}

// Negotiation is one bargaining session over a single order's delivery price.
//
// Wire model (server-owned, Mongo-style keys):
//   - identity: _id
//   - references: orderId, deliveryId, storeId
//   - priceHistory holds offers in submission order, which is not guaranteed
//     to be timestamp order under clock skew.
type Negotiation struct {
	ID           string            `json:"_id"`
	OrderID      string            `json:"orderId"`
	DeliveryID   string            `json:"deliveryId"`
	StoreID      string            `json:"storeId"`
	InitialPrice float64           `json:"initialPrice"`
	CurrentPrice float64           `json:"currentPrice"`
	PriceHistory []Offer           `json:"priceHistory"`
	Status       NegotiationStatus `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// LastDeliveryOffer returns the delivery-proposed offer with the greatest
// timestamp. The history is scanned explicitly; positional (last-inserted)
// selection would be wrong whenever storage order diverges from time order.
func (n Negotiation) LastDeliveryOffer() (Offer, bool) {
	var best Offer
	found := false
	for _, o := range n.PriceHistory {
		if o.ProposedBy != OfferPartyDelivery {
			continue
		}
		if !found || o.Timestamp.After(best.Timestamp) {
			best = o
			found = true
		}
	}
	return best, found
}

// NewerThan reports whether n carries a strictly newer server version than
// other. Merges are last-write-wins by updatedAt, never by arrival order.
func (n Negotiation) NewerThan(other Negotiation) bool {
	return n.UpdatedAt.After(other.UpdatedAt)
}

// OfferAccepted reports whether o should be presented as the accepted offer.
// When the server stamps the offer's own status that stamp wins; otherwise
// the price-equality heuristic against currentPrice is used, which is
// ambiguous only when two offers share a price and the server never stamps.
func (n Negotiation) OfferAccepted(o Offer) bool {
	if n.Status != NegotiationStatusAccepted {
		return false
	}
	if o.Status != "" {
		return NormalizeNegotiationStatus(o.Status) == NegotiationStatusAccepted
	}
	return o.Price == n.CurrentPrice
}
