package sandbox

import (
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"deliverysync/internal/domain/entities"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrNegotiationNotFound = errors.New("negotiation not found")
	ErrNegotiationClosed   = errors.New("negotiation already closed")
	ErrInvalidAction       = errors.New("invalid action")
	ErrMissingCounterOffer = errors.New("reject requires a counter offer")
	ErrNegotiationExists   = errors.New("negotiation already exists for order")
	ErrInvalidResetToken   = errors.New("invalid or expired reset token")
	ErrWeakPassword        = errors.New("password too short")
)

const (
	// agentAcceptMargin: the simulated delivery agent accepts any counter
	// within 10% of its own last offer, otherwise it counters at the
	// midpoint.
	agentAcceptMargin = 0.10

	defaultAgentDelay = 2 * time.Second
	minPasswordLen    = 8
)

// Broadcaster receives negotiation changes for push fan-out. Implemented by
// the websocket Hub; nil disables push.
type Broadcaster interface {
	BroadcastNegotiation(action string, n entities.Negotiation, customerEmail string)
}

// Emulator is an in-memory order/negotiation backend with a simulated
// delivery agent on the other side of every negotiation. It backs the
// sandbox server used for local development and handler tests.
type Emulator struct {
	mu           sync.Mutex
	orders       map[string]entities.Order
	negotiations map[string]entities.Negotiation
	byOrder      map[string]string
	resetTokens  map[string]string

	hub        Broadcaster
	agentDelay time.Duration
	log        *zap.SugaredLogger
}

func NewEmulator(hub Broadcaster, log *zap.SugaredLogger) *Emulator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Emulator{
		orders:       make(map[string]entities.Order),
		negotiations: make(map[string]entities.Negotiation),
		byOrder:      make(map[string]string),
		resetTokens:  make(map[string]string),
		hub:          hub,
		agentDelay:   defaultAgentDelay,
		log:          log,
	}
}

// SetAgentDelay adjusts how long the simulated delivery agent waits before
// answering a counter offer. Tests shrink it.
func (e *Emulator) SetAgentDelay(d time.Duration) {
	e.mu.Lock()
	e.agentDelay = d
	e.mu.Unlock()
}

// SeedDemo creates one confirmed order with a pending negotiation and a
// standing delivery offer, plus a usable password-reset token.
func (e *Emulator) SeedDemo() (orderID, negotiationID string) {
	now := time.Now().UTC()
	order := entities.Order{
		ID:               uuid.NewString(),
		CustomerEmail:    "demo@deliverysync.dev",
		DeliveryID:       uuid.NewString(),
		PickupAddress:    "Store Plaza, 100",
		DeliveryAddress:  "Main St, 42",
		OrderDescription: "Demo order",
		Status:           entities.OrderStatusConfirmed,
		DeliveryStatus:   entities.DeliveryStatusAssigned,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	negotiation := entities.Negotiation{
		ID:           uuid.NewString(),
		OrderID:      order.ID,
		DeliveryID:   order.DeliveryID,
		InitialPrice: 20,
		CurrentPrice: 20,
		Status:       entities.NegotiationStatusPending,
		PriceHistory: []entities.Offer{{
			ID:         uuid.NewString(),
			Price:      20,
			ProposedBy: entities.OfferPartyDelivery,
			Timestamp:  now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	e.mu.Lock()
	e.orders[order.ID] = order
	e.negotiations[negotiation.ID] = negotiation
	e.byOrder[order.ID] = negotiation.ID
	e.resetTokens["demo-reset-token"] = order.CustomerEmail
	e.mu.Unlock()

	e.log.Infof("[sandbox][seed] order_id=%s negotiation_id=%s", order.ID, negotiation.ID)
	return order.ID, negotiation.ID
}

func (e *Emulator) GetOrder(orderID string) (entities.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	order, ok := e.orders[orderID]
	if !ok {
		return entities.Order{}, ErrOrderNotFound
	}
	return order, nil
}

func (e *Emulator) NegotiationByOrder(orderID string) (entities.Negotiation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.byOrder[orderID]
	if !ok {
		return entities.Negotiation{}, ErrNegotiationNotFound
	}
	return cloneNegotiation(e.negotiations[id]), nil
}

// CreateNegotiation opens a pending negotiation for an existing order with
// the given price as the opening delivery offer.
func (e *Emulator) CreateNegotiation(orderID string, initialPrice float64) (entities.Negotiation, error) {
	if initialPrice < 0 || math.IsNaN(initialPrice) || math.IsInf(initialPrice, 0) {
		return entities.Negotiation{}, ErrInvalidAction
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.orders[orderID]
	if !ok {
		return entities.Negotiation{}, ErrOrderNotFound
	}
	if _, exists := e.byOrder[orderID]; exists {
		return entities.Negotiation{}, ErrNegotiationExists
	}

	now := time.Now().UTC()
	negotiation := entities.Negotiation{
		ID:           uuid.NewString(),
		OrderID:      orderID,
		DeliveryID:   order.DeliveryID,
		InitialPrice: initialPrice,
		CurrentPrice: initialPrice,
		Status:       entities.NegotiationStatusPending,
		PriceHistory: []entities.Offer{{
			ID:         uuid.NewString(),
			Price:      initialPrice,
			ProposedBy: entities.OfferPartyDelivery,
			Timestamp:  now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.negotiations[negotiation.ID] = negotiation
	e.byOrder[orderID] = negotiation.ID

	e.broadcastLocked("created", negotiation, order.CustomerEmail)
	return cloneNegotiation(negotiation), nil
}

// CustomerResponse applies the customer's decision.
//
// accept closes the negotiation at the last delivery offer and stamps that
// offer accepted. reject appends the customer's counter offer and wakes the
// simulated delivery agent.
func (e *Emulator) CustomerResponse(negotiationID, action string, counterOffer *float64) (entities.Negotiation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	negotiation, ok := e.negotiations[negotiationID]
	if !ok {
		return entities.Negotiation{}, ErrNegotiationNotFound
	}
	if negotiation.Status.Terminal() {
		return entities.Negotiation{}, ErrNegotiationClosed
	}
	now := time.Now().UTC()

	switch strings.ToLower(strings.TrimSpace(action)) {
	case "accept":
		last, ok := lastDeliveryOfferIndex(negotiation.PriceHistory)
		if !ok {
			return entities.Negotiation{}, ErrInvalidAction
		}
		negotiation.PriceHistory[last].Status = "accepted"
		negotiation.CurrentPrice = negotiation.PriceHistory[last].Price
		negotiation.Status = entities.NegotiationStatusAccepted
		negotiation.UpdatedAt = now
		e.negotiations[negotiationID] = negotiation
		e.broadcastLocked("accepted", negotiation, e.customerEmailLocked(negotiation.OrderID))
		e.log.Infof("[sandbox][negotiation] accepted negotiation_id=%s price=%.2f", negotiation.ID, negotiation.CurrentPrice)

	case "reject":
		if counterOffer == nil || *counterOffer < 0 || math.IsNaN(*counterOffer) || math.IsInf(*counterOffer, 0) {
			return entities.Negotiation{}, ErrMissingCounterOffer
		}
		negotiation.PriceHistory = append(negotiation.PriceHistory, entities.Offer{
			ID:         uuid.NewString(),
			Price:      *counterOffer,
			ProposedBy: entities.OfferPartyCustomer,
			Timestamp:  now,
		})
		negotiation.CurrentPrice = *counterOffer
		negotiation.Status = entities.NegotiationStatusCounterOffered
		negotiation.UpdatedAt = now
		e.negotiations[negotiationID] = negotiation
		e.broadcastLocked("counter_offered", negotiation, e.customerEmailLocked(negotiation.OrderID))
		e.log.Infof("[sandbox][negotiation] counter offer negotiation_id=%s price=%.2f", negotiation.ID, *counterOffer)

		delay := e.agentDelay
		time.AfterFunc(delay, func() { e.agentRespond(negotiationID) })

	default:
		return entities.Negotiation{}, ErrInvalidAction
	}

	return cloneNegotiation(negotiation), nil
}

// PendingForCustomer lists open negotiations for a customer, newest first.
func (e *Emulator) PendingForCustomer(customerEmail string) []entities.Negotiation {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []entities.Negotiation
	for _, negotiation := range e.negotiations {
		if negotiation.Status.Terminal() {
			continue
		}
		order, ok := e.orders[negotiation.OrderID]
		if !ok || !strings.EqualFold(order.CustomerEmail, customerEmail) {
			continue
		}
		out = append(out, cloneNegotiation(negotiation))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

// ResetPassword consumes a reset token. Tokens are single use.
func (e *Emulator) ResetPassword(token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return ErrWeakPassword
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	email, ok := e.resetTokens[token]
	if !ok {
		return ErrInvalidResetToken
	}
	delete(e.resetTokens, token)
	e.log.Infof("[sandbox][auth] password reset customer=%s", email)
	return nil
}

// agentRespond is the simulated delivery agent's answer to a standing
// customer counter offer.
func (e *Emulator) agentRespond(negotiationID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	negotiation, ok := e.negotiations[negotiationID]
	if !ok || negotiation.Status != entities.NegotiationStatusCounterOffered {
		return
	}
	customerOffer := negotiation.CurrentPrice
	lastDelivery, ok := lastDeliveryOfferIndex(negotiation.PriceHistory)
	if !ok {
		return
	}
	deliveryPrice := negotiation.PriceHistory[lastDelivery].Price
	now := time.Now().UTC()

	if math.Abs(deliveryPrice-customerOffer) <= agentAcceptMargin*deliveryPrice {
		// Close enough: take the customer's price.
		for i := range negotiation.PriceHistory {
			if negotiation.PriceHistory[i].Price == customerOffer && negotiation.PriceHistory[i].ProposedBy == entities.OfferPartyCustomer {
				negotiation.PriceHistory[i].Status = "accepted"
			}
		}
		negotiation.Status = entities.NegotiationStatusAccepted
		negotiation.UpdatedAt = now
		e.negotiations[negotiationID] = negotiation
		e.broadcastLocked("accepted", negotiation, e.customerEmailLocked(negotiation.OrderID))
		e.log.Infof("[sandbox][agent] accepted counter negotiation_id=%s price=%.2f", negotiation.ID, customerOffer)
		return
	}

	midpoint := math.Round((deliveryPrice+customerOffer)/2*100) / 100
	negotiation.PriceHistory = append(negotiation.PriceHistory, entities.Offer{
		ID:         uuid.NewString(),
		Price:      midpoint,
		ProposedBy: entities.OfferPartyDelivery,
		Timestamp:  now,
	})
	negotiation.CurrentPrice = midpoint
	negotiation.Status = entities.NegotiationStatusPending
	negotiation.UpdatedAt = now
	e.negotiations[negotiationID] = negotiation
	e.broadcastLocked("countered", negotiation, e.customerEmailLocked(negotiation.OrderID))
	e.log.Infof("[sandbox][agent] countered negotiation_id=%s price=%.2f", negotiation.ID, midpoint)
}

func (e *Emulator) customerEmailLocked(orderID string) string {
	if order, ok := e.orders[orderID]; ok {
		return order.CustomerEmail
	}
	return ""
}

func (e *Emulator) broadcastLocked(action string, n entities.Negotiation, customerEmail string) {
	if e.hub == nil {
		return
	}
	// Copy before leaving the lock; the hub fans out asynchronously.
	clone := cloneNegotiation(n)
	go e.hub.BroadcastNegotiation(action, clone, customerEmail)
}

func lastDeliveryOfferIndex(history []entities.Offer) (int, bool) {
	best := -1
	for i, offer := range history {
		if offer.ProposedBy != entities.OfferPartyDelivery {
			continue
		}
		if best == -1 || offer.Timestamp.After(history[best].Timestamp) {
			best = i
		}
	}
	return best, best != -1
}

func cloneNegotiation(n entities.Negotiation) entities.Negotiation {
	out := n
	out.PriceHistory = make([]entities.Offer, len(n.PriceHistory))
	copy(out.PriceHistory, n.PriceHistory)
	return out
}
