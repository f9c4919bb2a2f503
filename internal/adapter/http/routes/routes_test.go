package routes

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"deliverysync/internal/domain/entities"
	"deliverysync/internal/events"
	"deliverysync/internal/infrastructure/api"
	"deliverysync/internal/sandbox"
	"deliverysync/internal/usecase"
)

// End-to-end over real HTTP: sandbox server <- api client <- session usecase.

func newIntegrationStack(t *testing.T) (*sandbox.Emulator, *api.Client, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	emulator := sandbox.NewEmulator(nil, nil)
	orderID, _ := emulator.SeedDemo()

	server := NewServer(emulator, nil, nil)
	ts := httptest.NewServer(server.Engine())
	t.Cleanup(ts.Close)

	return emulator, api.NewClient(ts.URL, "demo@deliverysync.dev", nil), orderID
}

func TestIntegration_AcceptFlow(t *testing.T) {
	_, client, orderID := newIntegrationStack(t)

	session := usecase.NewNegotiationSessionUseCase(orderID, client, client, events.NewRegistry(nil), usecase.SessionOptions{
		Interval: func() time.Duration { return 50 * time.Millisecond },
	})
	defer session.Close()

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	snap, ok := session.Snapshot()
	if !ok || snap.Negotiation == nil || snap.Order == nil {
		t.Fatalf("initial fetch incomplete: %+v", snap)
	}
	if snap.Negotiation.Status != entities.NegotiationStatusPending {
		t.Fatalf("expected pending negotiation, got %s", snap.Negotiation.Status)
	}
	if !session.Polling() {
		t.Fatalf("non-terminal session must poll")
	}

	n, err := session.AcceptOffer(context.Background())
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if n.Status != entities.NegotiationStatusAccepted || n.CurrentPrice != 20 {
		t.Fatalf("unexpected accept result: %+v", n)
	}
	offer, _ := n.LastDeliveryOffer()
	if !n.OfferAccepted(offer) {
		t.Fatalf("server must stamp the accepted offer: %+v", offer)
	}
	if session.Polling() {
		t.Fatalf("acceptance must stop polling")
	}
}

func TestIntegration_CounterFlowWithAgent(t *testing.T) {
	emulator, client, orderID := newIntegrationStack(t)
	emulator.SetAgentDelay(20 * time.Millisecond)

	session := usecase.NewNegotiationSessionUseCase(orderID, client, client, events.NewRegistry(nil), usecase.SessionOptions{
		Interval: func() time.Duration { return 25 * time.Millisecond },
	})
	defer session.Close()

	if err := session.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Far from the standing 20 offer: the simulated agent counters at the
	// midpoint and polling must pick that up.
	n, err := session.RejectWithCounter(context.Background(), "10")
	if err != nil {
		t.Fatalf("counter failed: %v", err)
	}
	if n.Status != entities.NegotiationStatusCounterOffered || n.CurrentPrice != 10 {
		t.Fatalf("unexpected counter result: %+v", n)
	}
	if !session.Polling() {
		t.Fatalf("counter offer must keep polling alive")
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		snap, _ := session.Snapshot()
		if snap.Negotiation != nil && snap.Negotiation.Status == entities.NegotiationStatusPending && snap.Negotiation.CurrentPrice == 15 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("agent midpoint never observed via polling: %+v", snap.Negotiation)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Take the midpoint.
	if _, err := session.AcceptOffer(context.Background()); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	snap, _ := session.Snapshot()
	if snap.Negotiation.Status != entities.NegotiationStatusAccepted || snap.Negotiation.CurrentPrice != 15 {
		t.Fatalf("unexpected final state: %+v", snap.Negotiation)
	}
	if session.Polling() {
		t.Fatalf("polling must stop after settling")
	}
}

func TestIntegration_PendingListAndReset(t *testing.T) {
	_, client, _ := newIntegrationStack(t)

	list, err := client.PendingForCustomer(context.Background())
	if err != nil {
		t.Fatalf("pending list failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected the seeded negotiation, got %+v", list)
	}

	if err := client.ResetPassword(context.Background(), "demo-reset-token", "longenough"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
}
