package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_GetOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/order/ord-1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("missing bearer token, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"_id":"ord-1","customerEmail":"jane@example.com","status":"confirmed","updatedAt":"2026-01-10T12:00:00Z"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123", nil)
	order, err := c.GetOrder(context.Background(), "ord-1")
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if order.ID != "ord-1" || order.CustomerEmail != "jane@example.com" {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestClient_GetByOrderID_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", nil)
	if _, err := c.GetByOrderID(context.Background(), "ord-x"); !errors.Is(err, ErrNegotiationNotFound) {
		t.Fatalf("expected ErrNegotiationNotFound, got %v", err)
	}
}

func TestClient_CustomerResponse_Accept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/negotiation/neg-1/customer-response" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("body decode failed: %v", err)
		}
		if body["action"] != "accept" {
			t.Errorf("expected accept action, got %v", body["action"])
		}
		if _, present := body["counterOffer"]; present {
			t.Errorf("accept must not carry a counterOffer")
		}
		w.Write([]byte(`{"_id":"neg-1","orderId":"ord-1","status":"accepted","currentPrice":20,"updatedAt":"2026-01-10T12:01:00Z"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", nil)
	n, err := c.CustomerResponse(context.Background(), "neg-1", "accept", nil)
	if err != nil {
		t.Fatalf("customer response failed: %v", err)
	}
	if n.Status != "accepted" || n.CurrentPrice != 20 {
		t.Fatalf("unexpected negotiation: %+v", n)
	}
}

func TestClient_CustomerResponse_RejectCarriesCounterOffer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["action"] != "reject" || body["counterOffer"] != 18.5 {
			t.Errorf("unexpected body: %v", body)
		}
		w.Write([]byte(`{"_id":"neg-1","orderId":"ord-1","status":"counter-offered","currentPrice":18.5,"updatedAt":"2026-01-10T12:02:00Z"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", nil)
	counter := 18.5
	n, err := c.CustomerResponse(context.Background(), "neg-1", "reject", &counter)
	if err != nil {
		t.Fatalf("customer response failed: %v", err)
	}
	// Hyphenated status spelling must normalize on decode.
	if string(n.Status) != "counter_offered" {
		t.Fatalf("expected normalized status, got %q", n.Status)
	}
}

func TestClient_Create(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/negotiation" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["orderId"] != "ord-1" || body["initialPrice"] != 25.0 {
			t.Errorf("unexpected body: %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"_id":"neg-new","orderId":"ord-1","status":"pending","initialPrice":25,"currentPrice":25,"updatedAt":"2026-01-10T12:00:00Z"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", nil)
	n, err := c.Create(context.Background(), "ord-1", 25)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if n.ID != "neg-new" {
		t.Fatalf("unexpected negotiation: %+v", n)
	}
}

func TestClient_PendingForCustomer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/negotiation/customer/pending" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[{"_id":"neg-1","orderId":"ord-1","status":"pending","updatedAt":"2026-01-10T12:00:00Z"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", nil)
	list, err := c.PendingForCustomer(context.Background())
	if err != nil {
		t.Fatalf("pending list failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != "neg-1" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "expired", nil)
	if _, err := c.GetOrder(context.Background(), "ord-1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_ResetPassword(t *testing.T) {
	t.Run("short password rejected locally", func(t *testing.T) {
		c := NewClient("http://unreachable.invalid", "", nil)
		if err := c.ResetPassword(context.Background(), "tok", "short"); !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("request is unauthenticated", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/auth/reset-password" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "" {
				t.Errorf("reset must not carry auth, got %q", got)
			}
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["token"] != "reset-tok" || body["newPassword"] != "longenough" {
				t.Errorf("unexpected body: %v", body)
			}
			w.Write([]byte(`{"success":true,"message":"password updated"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "bearer-should-not-leak", nil)
		if err := c.ResetPassword(context.Background(), "reset-tok", "longenough"); err != nil {
			t.Fatalf("reset failed: %v", err)
		}
	})

	t.Run("success false is a failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Rejection arrives in-band on a 200, not as an HTTP error.
			w.Write([]byte(`{"success":false,"message":"token expired"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "", nil)
		err := c.ResetPassword(context.Background(), "stale-tok", "longenough")
		if !errors.Is(err, ErrResetRejected) {
			t.Fatalf("expected ErrResetRejected, got %v", err)
		}
		if !strings.Contains(err.Error(), "token expired") {
			t.Fatalf("error must carry the server message, got %v", err)
		}
	})
}

func TestClient_ServerErrorIsRequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL","message":"boom"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", nil)
	if _, err := c.GetByOrderID(context.Background(), "ord-1"); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}
