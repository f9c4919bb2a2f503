package sandbox

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"deliverysync/internal/domain/entities"
)

// Room key prefixes. A connection can sit in any number of rooms.
const (
	roomCustomerPrefix    = "customer:"
	roomDeliveryPrefix    = "delivery:"
	roomNegotiationPrefix = "negotiation:"
)

var upgrader = websocket.Upgrader{
	// Local development server; cross-origin pages are expected.
	CheckOrigin: func(*http.Request) bool { return true },
}

type wsFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsClient) send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(wsFrame{Event: event, Data: payload})
}

// Hub tracks websocket clients and the rooms they joined, and fans
// negotiation updates out to the relevant rooms.
type Hub struct {
	mu      sync.Mutex
	rooms   map[string]map[*wsClient]struct{}
	members map[*wsClient][]string
	log     *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{
		rooms:   make(map[string]map[*wsClient]struct{}),
		members: make(map[*wsClient][]string),
		log:     log,
	}
}

var _ Broadcaster = (*Hub)(nil)

// BroadcastNegotiation pushes a negotiation_update frame to the negotiation
// room, the customer room and the delivery room.
func (h *Hub) BroadcastNegotiation(action string, n entities.Negotiation, customerEmail string) {
	payload := map[string]any{
		"action":      action,
		"negotiation": n,
	}
	rooms := []string{roomNegotiationPrefix + n.ID}
	if customerEmail != "" {
		rooms = append(rooms, roomCustomerPrefix+customerEmail)
	}
	if n.DeliveryID != "" {
		rooms = append(rooms, roomDeliveryPrefix+n.DeliveryID)
	}

	targets := make(map[*wsClient]struct{})
	h.mu.Lock()
	for _, room := range rooms {
		for client := range h.rooms[room] {
			targets[client] = struct{}{}
		}
	}
	h.mu.Unlock()

	for client := range targets {
		if err := client.send("negotiation_update", payload); err != nil {
			h.log.Warnf("[sandbox][hub] push failed action=%s err=%v", action, err)
		}
	}
	h.log.Debugf("[sandbox][hub] broadcast action=%s negotiation_id=%s clients=%d", action, n.ID, len(targets))
}

// ServeWS upgrades the request and runs the read loop, handling the room
// join events until the connection drops.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("[sandbox][hub] upgrade failed err=%v", err)
		return
	}
	client := &wsClient{conn: conn}
	h.mu.Lock()
	h.members[client] = nil
	h.mu.Unlock()
	defer h.drop(client)

	for {
		var f wsFrame
		if err := conn.ReadJSON(&f); err != nil {
			return
		}
		h.handleFrame(client, f)
	}
}

func (h *Hub) handleFrame(client *wsClient, f wsFrame) {
	var payload map[string]string
	if len(f.Data) > 0 {
		if err := json.Unmarshal(f.Data, &payload); err != nil {
			h.log.Warnf("[sandbox][hub] bad frame payload event=%s err=%v", f.Event, err)
			return
		}
	}

	switch f.Event {
	case "join_customer_room":
		h.join(client, roomCustomerPrefix+payload["customerEmail"])
	case "join_delivery_room":
		h.join(client, roomDeliveryPrefix+payload["deliveryId"])
	case "join_negotiation_room":
		h.join(client, roomNegotiationPrefix+payload["negotiationId"])
	default:
		h.log.Debugf("[sandbox][hub] ignoring frame event=%s", f.Event)
	}
}

func (h *Hub) join(client *wsClient, room string) {
	if room == roomCustomerPrefix || room == roomDeliveryPrefix || room == roomNegotiationPrefix {
		// Empty identifier.
		return
	}
	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*wsClient]struct{})
	}
	h.rooms[room][client] = struct{}{}
	h.members[client] = append(h.members[client], room)
	h.mu.Unlock()
	h.log.Debugf("[sandbox][hub] joined room=%s", room)
}

func (h *Hub) drop(client *wsClient) {
	h.mu.Lock()
	for _, room := range h.members[client] {
		delete(h.rooms[room], client)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.members, client)
	h.mu.Unlock()
	client.conn.Close()
}
