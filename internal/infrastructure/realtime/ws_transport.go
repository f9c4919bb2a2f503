package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	adapter "deliverysync/internal/adapter/realtime"
)

var ErrTransportClosed = errors.New("transport closed")

const (
	dialTimeout       = 10 * time.Second
	maxReconnectDelay = 30 * time.Second
)

var _ adapter.Transport = (*WSTransport)(nil)

// frame is the wire envelope for every websocket message, both directions.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// WSTransport is a websocket push connection with automatic reconnection.
// Lifecycle events are synthesized as regular events: "connect" after every
// successful (re)dial, "disconnect" when the link drops, "error" with the
// failure text when a dial attempt fails.
type WSTransport struct {
	url   string
	token string
	log   *zap.SugaredLogger

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[string]func(json.RawMessage)
	gen      int
	closed   bool
}

func NewWSTransport(url, token string, log *zap.SugaredLogger) *WSTransport {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &WSTransport{
		url:      url,
		token:    token,
		log:      log,
		handlers: make(map[string]func(json.RawMessage)),
	}
}

// On registers the handler for an event, replacing any previous one.
func (t *WSTransport) On(event string, handler func(json.RawMessage)) {
	t.mu.Lock()
	t.handlers[event] = handler
	t.mu.Unlock()
}

// Connect dials the server and starts the read loop. A closed transport can
// be connected again.
func (t *WSTransport) Connect(ctx context.Context) error {
	t.mu.Lock()
	if t.conn != nil {
		t.mu.Unlock()
		return nil
	}
	t.closed = false
	t.gen++
	gen := t.gen
	t.mu.Unlock()

	conn, err := t.dial(ctx)
	if err != nil {
		t.dispatch("error", errPayload(err))
		return err
	}

	t.mu.Lock()
	if t.closed || t.gen != gen {
		t.mu.Unlock()
		conn.Close()
		return ErrTransportClosed
	}
	t.conn = conn
	t.mu.Unlock()

	t.log.Infof("[ws][connect] connected url=%s", t.url)
	t.dispatch("connect", nil)
	go t.readLoop(ctx, conn, gen)
	return nil
}

// Disconnect closes the link and stops the reconnect loop.
func (t *WSTransport) Disconnect() {
	t.mu.Lock()
	t.closed = true
	t.gen++
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()

	if conn != nil {
		conn.Close()
		t.log.Infof("[ws][disconnect] closed url=%s", t.url)
	}
}

// Emit sends an event frame to the server.
func (t *WSTransport) Emit(event string, data any) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return ErrTransportClosed
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	// gorilla allows one concurrent writer; serialize through the mutex.
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return ErrTransportClosed
	}
	return t.conn.WriteJSON(frame{Event: event, Data: payload})
}

func (t *WSTransport) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	header := http.Header{}
	if t.token != "" {
		header.Set("Authorization", "Bearer "+t.token)
	}
	conn, _, err := dialer.DialContext(ctx, t.url, header)
	if err != nil {
		t.log.Warnf("[ws][dial] failed url=%s err=%v", t.url, err)
		return nil, err
	}
	return conn, nil
}

// readLoop pumps frames until the connection drops, then reconnects with
// exponential backoff until Disconnect or context cancellation.
func (t *WSTransport) readLoop(ctx context.Context, conn *websocket.Conn, gen int) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = maxReconnectDelay

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			if t.stale(gen) {
				return
			}
			t.log.Warnf("[ws][read] connection lost err=%v", err)
			t.dispatch("disconnect", nil)

			next, ok := t.reconnect(ctx, bo, gen)
			if !ok {
				return
			}
			conn = next
			bo.Reset()
			continue
		}
		if t.stale(gen) {
			return
		}
		t.dispatch(f.Event, f.Data)
	}
}

func (t *WSTransport) reconnect(ctx context.Context, bo *backoff.ExponentialBackOff, gen int) (*websocket.Conn, bool) {
	for {
		delay := bo.NextBackOff()
		t.log.Infof("[ws][reconnect] retrying in %s url=%s", delay, t.url)
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(delay):
		}
		if t.stale(gen) {
			return nil, false
		}

		conn, err := t.dial(ctx)
		if err != nil {
			t.dispatch("error", errPayload(err))
			continue
		}

		t.mu.Lock()
		if t.closed || t.gen != gen {
			t.mu.Unlock()
			conn.Close()
			return nil, false
		}
		t.conn = conn
		t.mu.Unlock()

		t.log.Infof("[ws][reconnect] reconnected url=%s", t.url)
		t.dispatch("connect", nil)
		return conn, true
	}
}

func (t *WSTransport) stale(gen int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed || t.gen != gen
}

func (t *WSTransport) dispatch(event string, payload json.RawMessage) {
	t.mu.Lock()
	h := t.handlers[event]
	t.mu.Unlock()
	if h != nil {
		h(payload)
	}
}

func errPayload(err error) json.RawMessage {
	b, _ := json.Marshal(map[string]string{"message": err.Error()})
	return b
}
