package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"

	"deliverysync/internal/events"
	"deliverysync/internal/usecase"
)

var _ usecase.RoomJoiner = (*ChannelAdapter)(nil)

// Transport is the raw push connection. Implemented by the websocket
// transport in infrastructure; faked in tests.
//
// On replaces any previous handler registered for the event, which is what
// lets the adapter survive a Disconnect/Connect cycle without stacking
// duplicate handlers.
type Transport interface {
	Connect(ctx context.Context) error
	Disconnect()
	On(event string, handler func(json.RawMessage))
	Emit(event string, data any) error
}

// Identity carries the room-scoping identifiers for the connected user.
// Empty fields simply skip the corresponding room.
type Identity struct {
	CustomerEmail string
	DeliveryID    string
}

// Room join events and their payload shapes, as the backend expects them.
const (
	eventJoinCustomerRoom    = "join_customer_room"
	eventJoinDeliveryRoom    = "join_delivery_room"
	eventJoinNegotiationRoom = "join_negotiation_room"

	eventConnect = "connect"
)

// updateFamilies are the server event families the adapter forwards into the
// registry. Each may carry an "action" discriminator that gets republished
// under a derived name.
var updateFamilies = []string{
	events.EventCustomerUpdate,
	events.EventDeliveryUpdate,
	events.EventNegotiationUpdate,
}

// ChannelAdapter binds a push transport to the event registry: it joins the
// identity rooms on every (re)connect, forwards the update families, and
// republishes action-qualified payloads under derived event names
// ("negotiation_update" + action "accepted" -> "negotiation_accepted").
type ChannelAdapter struct {
	transport Transport
	registry  *events.Registry
	identity  Identity
	log       *zap.SugaredLogger

	mu             sync.Mutex
	negotiationIDs []string
	connected      bool
}

func NewChannelAdapter(transport Transport, registry *events.Registry, identity Identity, log *zap.SugaredLogger) *ChannelAdapter {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ChannelAdapter{
		transport: transport,
		registry:  registry,
		identity:  identity,
		log:       log,
	}
}

// Connect wires the handlers and opens the transport. Room joins happen in
// the connect handler, so they are re-issued automatically after every
// transport-level reconnect.
func (a *ChannelAdapter) Connect(ctx context.Context) error {
	a.transport.On(eventConnect, a.onConnect)
	for _, family := range updateFamilies {
		family := family
		a.transport.On(family, func(payload json.RawMessage) {
			a.forward(family, payload)
		})
	}
	if err := a.transport.Connect(ctx); err != nil {
		a.log.Warnf("[realtime][connect] transport connect failed err=%v", err)
		return err
	}
	return nil
}

// Disconnect closes the transport. The adapter can be connected again; the
// remembered negotiation rooms are re-joined on the next connect.
func (a *ChannelAdapter) Disconnect() {
	a.mu.Lock()
	a.connected = false
	a.mu.Unlock()
	a.transport.Disconnect()
}

// JoinNegotiationRoom scopes the connection to a negotiation. The id is
// remembered and re-joined after reconnects. Satisfies the session's
// RoomJoiner dependency.
func (a *ChannelAdapter) JoinNegotiationRoom(negotiationID string) {
	if negotiationID == "" {
		return
	}
	a.mu.Lock()
	for _, id := range a.negotiationIDs {
		if id == negotiationID {
			a.mu.Unlock()
			return
		}
	}
	a.negotiationIDs = append(a.negotiationIDs, negotiationID)
	connected := a.connected
	a.mu.Unlock()

	if connected {
		a.emitJoin(eventJoinNegotiationRoom, map[string]string{"negotiationId": negotiationID})
	}
}

func (a *ChannelAdapter) onConnect(json.RawMessage) {
	a.mu.Lock()
	a.connected = true
	rooms := make([]string, len(a.negotiationIDs))
	copy(rooms, a.negotiationIDs)
	a.mu.Unlock()

	if a.identity.CustomerEmail != "" {
		a.emitJoin(eventJoinCustomerRoom, map[string]string{"customerEmail": a.identity.CustomerEmail})
	}
	if a.identity.DeliveryID != "" {
		a.emitJoin(eventJoinDeliveryRoom, map[string]string{"deliveryId": a.identity.DeliveryID})
	}
	for _, id := range rooms {
		a.emitJoin(eventJoinNegotiationRoom, map[string]string{"negotiationId": id})
	}
	a.log.Infof("[realtime][connect] rooms joined customer=%s delivery=%s negotiations=%d",
		a.identity.CustomerEmail, a.identity.DeliveryID, len(rooms))
}

func (a *ChannelAdapter) emitJoin(event string, payload map[string]string) {
	if err := a.transport.Emit(event, payload); err != nil {
		a.log.Warnf("[realtime][join] emit failed event=%s err=%v", event, err)
	}
}

// forward publishes the family event as-is, then republishes under the
// action-derived name when the payload carries an action.
func (a *ChannelAdapter) forward(family string, payload json.RawMessage) {
	a.registry.Publish(family, payload)

	var probe struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil || probe.Action == "" {
		return
	}
	derived := strings.TrimSuffix(family, "_update") + "_" + probe.Action
	a.registry.Publish(derived, payload)
}
