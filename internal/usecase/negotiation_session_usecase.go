package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"deliverysync/internal/domain/entities"
	"deliverysync/internal/events"
	"deliverysync/internal/usecase/interfaces"
)

var (
	ErrInvalidCounterOffer = errors.New("invalid counter offer")
	ErrInvalidInitialPrice = errors.New("invalid initial price")
	ErrNoNegotiation       = errors.New("no negotiation in session")
	ErrNoDeliveryOffer     = errors.New("no delivery offer to respond to")
	ErrSessionClosed       = errors.New("session closed")
)

// Default poll cadence: uniform random in [15s, 20s), so a fleet of clients
// does not refresh in lockstep.
const (
	DefaultPollMin = 15 * time.Second
	DefaultPollMax = 20 * time.Second
)

// RoomJoiner scopes the push connection to a negotiation once its id becomes
// known. Implemented by the realtime channel adapter.
type RoomJoiner interface {
	JoinNegotiationRoom(negotiationID string)
}

// SessionOptions tune a negotiation session. The zero value is usable.
type SessionOptions struct {
	// Interval overrides the default randomized poll cadence.
	Interval IntervalFunc

	// TerminalRequiresDelivery additionally gates polling termination on the
	// order having reached its delivered state. Deployment-variant switch;
	// Snapshot.Terminal is the only place that evaluates it.
	TerminalRequiresDelivery bool

	// Rooms, when set, receives the negotiation id for room scoping.
	Rooms RoomJoiner

	Logger *zap.SugaredLogger
}

// NegotiationSessionUseCase is the synchronization coordinator for one order.
//
// It owns the snapshot store and the poll scheduler, consumes push events
// from the registry, and reconciles both channels under a single policy:
// merges are last-write-wins by updatedAt, polling stops exactly when the
// snapshot turns terminal, and any fetch failure keeps the last known good
// snapshot (stale-but-present beats blank).
type NegotiationSessionUseCase struct {
	orderID      string
	orders       interfaces.IOrderGateway
	negotiations interfaces.INegotiationGateway
	registry     *events.Registry

	store            *SnapshotStore
	sched            *PollScheduler
	interval         IntervalFunc
	requireDelivered bool
	rooms            RoomJoiner
	log              *zap.SugaredLogger

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	unsubs   []func()
	joinedID string
	lastErr  string
	closed   bool
}

func NewNegotiationSessionUseCase(
	orderID string,
	orders interfaces.IOrderGateway,
	negotiations interfaces.INegotiationGateway,
	registry *events.Registry,
	opts SessionOptions,
) *NegotiationSessionUseCase {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	interval := opts.Interval
	if interval == nil {
		interval = RandomInterval(DefaultPollMin, DefaultPollMax)
	}
	return &NegotiationSessionUseCase{
		orderID:          orderID,
		orders:           orders,
		negotiations:     negotiations,
		registry:         registry,
		store:            NewSnapshotStore(),
		sched:            NewPollScheduler(log),
		interval:         interval,
		requireDelivered: opts.TerminalRequiresDelivery,
		rooms:            opts.Rooms,
		log:              log,
	}
}

// Start performs the initial fetches, wires the push subscriptions and
// starts polling if the negotiation is not already terminal. Initial fetch
// failures are tolerated: the session keeps retrying through polling.
func (s *NegotiationSessionUseCase) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.ctx != nil {
		s.mu.Unlock()
		return nil
	}
	sctx, cancel := context.WithCancel(ctx)
	s.ctx = sctx
	s.cancel = cancel
	if s.registry != nil {
		s.unsubs = append(s.unsubs,
			s.registry.Subscribe(events.EventNegotiationUpdate, s.onNegotiationPush),
			s.registry.Subscribe(events.EventDeliveryUpdate, s.onDeliveryPush),
		)
	}
	s.mu.Unlock()

	if _, err := s.RefreshOrder(sctx); err != nil {
		s.log.Warnf("[session][start] initial order fetch failed order_id=%s err=%v", s.orderID, err)
	}
	if _, err := s.RefreshNegotiation(sctx); err != nil {
		s.log.Warnf("[session][start] initial negotiation fetch failed order_id=%s err=%v", s.orderID, err)
		// No negotiation observed yet: poll until one appears or the session
		// is closed.
		s.recomputeSchedule()
	}
	return nil
}

// RefreshOrder fetches the current order. On failure the previously cached
// order is preserved and a user-visible error is recorded.
func (s *NegotiationSessionUseCase) RefreshOrder(ctx context.Context) (entities.Order, error) {
	o, err := s.orders.GetOrder(ctx, s.orderID)
	if err != nil {
		s.setLastError("failed to load order data")
		s.log.Warnf("[session][order] fetch failed order_id=%s err=%v", s.orderID, err)
		return entities.Order{}, err
	}
	s.store.Set(nil, &o)
	s.setLastError("")
	s.recomputeSchedule()
	return o, nil
}

// RefreshNegotiation fetches the current negotiation by order id, merges it
// and recomputes the polling schedule. Same stale-preserving failure policy
// as RefreshOrder.
func (s *NegotiationSessionUseCase) RefreshNegotiation(ctx context.Context) (entities.Negotiation, error) {
	n, err := s.negotiations.GetByOrderID(ctx, s.orderID)
	if err != nil {
		s.setLastError("failed to load negotiation data")
		s.log.Warnf("[session][negotiation] fetch failed order_id=%s err=%v", s.orderID, err)
		return entities.Negotiation{}, err
	}
	s.store.Set(&n, nil)
	s.setLastError("")
	s.maybeJoinRoom(n.ID)
	s.recomputeSchedule()
	return n, nil
}

// AcceptOffer sends the accept decision for the last delivery-proposed offer
// and replaces the cached negotiation with the server's authoritative
// result. Acceptance is always terminal: polling stops unconditionally.
func (s *NegotiationSessionUseCase) AcceptOffer(ctx context.Context) (entities.Negotiation, error) {
	snap, _ := s.store.Get()
	if snap.Negotiation == nil {
		return entities.Negotiation{}, ErrNoNegotiation
	}
	if _, ok := snap.Negotiation.LastDeliveryOffer(); !ok {
		return entities.Negotiation{}, ErrNoDeliveryOffer
	}

	n, err := s.negotiations.CustomerResponse(ctx, snap.Negotiation.ID, interfaces.ActionAccept, nil)
	if err != nil {
		s.setLastError("failed to accept the offer")
		s.log.Warnf("[session][accept] request failed negotiation_id=%s err=%v", snap.Negotiation.ID, err)
		return entities.Negotiation{}, err
	}
	if n.Status != entities.NegotiationStatusAccepted {
		s.log.Warnf("[session][accept] server returned non-terminal status negotiation_id=%s status=%s", n.ID, n.Status)
	}
	s.store.Set(&n, nil)
	s.setLastError("")
	s.sched.Stop()
	s.log.Infof("[session][accept] offer accepted negotiation_id=%s price=%.2f", n.ID, n.CurrentPrice)
	return n, nil
}

// RejectWithCounter rejects the standing offer with a counter price given as
// raw user input. Invalid input is rejected locally, before any network
// call. On success polling is (re)started if needed, covering the case
// where it had stopped on a stale terminal read.
func (s *NegotiationSessionUseCase) RejectWithCounter(ctx context.Context, rawPrice string) (entities.Negotiation, error) {
	price, err := ParseCounterOffer(rawPrice)
	if err != nil {
		s.setLastError("invalid counter offer amount")
		return entities.Negotiation{}, err
	}
	snap, _ := s.store.Get()
	if snap.Negotiation == nil {
		return entities.Negotiation{}, ErrNoNegotiation
	}

	n, err := s.negotiations.CustomerResponse(ctx, snap.Negotiation.ID, interfaces.ActionReject, &price)
	if err != nil {
		s.setLastError("failed to send the counter offer")
		s.log.Warnf("[session][counter] request failed negotiation_id=%s err=%v", snap.Negotiation.ID, err)
		return entities.Negotiation{}, err
	}
	s.store.Set(&n, nil)
	s.setLastError("")
	s.recomputeSchedule()
	s.log.Infof("[session][counter] counter offer sent negotiation_id=%s price=%.2f", n.ID, price)
	return n, nil
}

// CreateNegotiation opens a negotiation for the session's order. Supplement
// for orders that reach the customer before the delivery agent opened one.
func (s *NegotiationSessionUseCase) CreateNegotiation(ctx context.Context, initialPrice float64) (entities.Negotiation, error) {
	if initialPrice < 0 || math.IsNaN(initialPrice) || math.IsInf(initialPrice, 0) {
		return entities.Negotiation{}, ErrInvalidInitialPrice
	}
	n, err := s.negotiations.Create(ctx, s.orderID, initialPrice)
	if err != nil {
		s.setLastError("failed to open the negotiation")
		return entities.Negotiation{}, err
	}
	s.store.Set(&n, nil)
	s.setLastError("")
	s.maybeJoinRoom(n.ID)
	s.recomputeSchedule()
	return n, nil
}

// Snapshot returns the last known (negotiation, order) pair.
func (s *NegotiationSessionUseCase) Snapshot() (Snapshot, bool) {
	return s.store.Get()
}

// LastError returns the single latest user-visible error message; it is
// replaced, never accumulated, by each subsequent operation.
func (s *NegotiationSessionUseCase) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Polling reports whether the poll timer is currently active.
func (s *NegotiationSessionUseCase) Polling() bool {
	return s.sched.Active()
}

// Close stops polling, releases the registry subscriptions and clears the
// snapshot. Mandatory cleanup: a leaked timer on a terminal negotiation
// keeps firing against a dead session. Safe to call more than once.
func (s *NegotiationSessionUseCase) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsubs := s.unsubs
	s.unsubs = nil
	cancel := s.cancel
	s.mu.Unlock()

	s.sched.Stop()
	for _, unsub := range unsubs {
		unsub()
	}
	if cancel != nil {
		cancel()
	}
	s.store.Clear()
	s.log.Infof("[session] closed order_id=%s", s.orderID)
}

// ParseCounterOffer validates raw counter-offer input: it must parse as a
// non-negative finite number.
func ParseCounterOffer(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrInvalidCounterOffer
	}
	return v, nil
}

// recomputeSchedule applies the one polling policy: stop when and only when
// the snapshot is terminal, start when a non-terminal state is observed and
// no timer is active.
func (s *NegotiationSessionUseCase) recomputeSchedule() {
	snap, _ := s.store.Get()
	if snap.Terminal(s.requireDelivered) {
		if s.sched.Active() {
			s.log.Infof("[session][poll] negotiation terminal, stopping order_id=%s", s.orderID)
		}
		s.sched.Stop()
		return
	}
	if !s.sched.Active() && s.sessionContext() != nil {
		s.sched.Start(s.interval, s.pollTick)
	}
}

func (s *NegotiationSessionUseCase) pollTick() {
	ctx := s.sessionContext()
	if ctx == nil {
		// A timer armed concurrently with Close can still fire once; make
		// sure it is the last time.
		s.sched.Stop()
		return
	}
	s.log.Debugf("[session][poll] refreshing order_id=%s", s.orderID)
	_, _ = s.RefreshNegotiation(ctx)
}

func (s *NegotiationSessionUseCase) onNegotiationPush(payload json.RawMessage) {
	ctx := s.sessionContext()
	if ctx == nil {
		return
	}
	if n, ok := decodeNegotiationPayload(payload); ok {
		if n.OrderID != "" && n.OrderID != s.orderID {
			return
		}
		s.store.Set(&n, nil)
		s.maybeJoinRoom(n.ID)
		s.recomputeSchedule()
		return
	}
	// Payload without an embedded entity: fall back to a fetch.
	_, _ = s.RefreshNegotiation(ctx)
}

func (s *NegotiationSessionUseCase) onDeliveryPush(json.RawMessage) {
	ctx := s.sessionContext()
	if ctx == nil {
		return
	}
	_, _ = s.RefreshOrder(ctx)
}

func decodeNegotiationPayload(payload json.RawMessage) (entities.Negotiation, bool) {
	var envelope struct {
		Negotiation *entities.Negotiation `json:"negotiation"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Negotiation != nil && envelope.Negotiation.ID != "" {
		return *envelope.Negotiation, true
	}
	var n entities.Negotiation
	if err := json.Unmarshal(payload, &n); err == nil && n.ID != "" {
		return n, true
	}
	return entities.Negotiation{}, false
}

func (s *NegotiationSessionUseCase) maybeJoinRoom(negotiationID string) {
	if s.rooms == nil || negotiationID == "" {
		return
	}
	s.mu.Lock()
	if s.joinedID == negotiationID {
		s.mu.Unlock()
		return
	}
	s.joinedID = negotiationID
	s.mu.Unlock()
	s.rooms.JoinNegotiationRoom(negotiationID)
}

func (s *NegotiationSessionUseCase) sessionContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.ctx == nil {
		return nil
	}
	return s.ctx
}

func (s *NegotiationSessionUseCase) setLastError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}
