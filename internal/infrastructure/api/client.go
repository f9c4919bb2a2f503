package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"deliverysync/internal/domain/entities"
	"deliverysync/internal/usecase/interfaces"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrNegotiationNotFound = errors.New("negotiation not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrRequestFailed       = errors.New("request failed")
	ErrWeakPassword        = errors.New("password must be at least 8 characters")
	ErrResetRejected       = errors.New("password reset rejected")
)

const (
	// DefaultTimeout bounds every request; slow backends must not wedge the
	// poll loop.
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 1 << 20
	minPasswordLen   = 8
)

var _ interfaces.IOrderGateway = (*Client)(nil)
var _ interfaces.INegotiationGateway = (*Client)(nil)

// Client is the REST gateway to the order/negotiation backend. All requests
// except the password reset carry the bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func NewClient(baseURL, token string, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        log,
	}
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (entities.Order, error) {
	var order entities.Order
	err := c.do(ctx, http.MethodGet, "/order/"+orderID, nil, &order, true)
	if err != nil {
		c.log.Warnf("[api][order] fetch failed order_id=%s err=%v", orderID, err)
		return entities.Order{}, mapNotFound(err, ErrOrderNotFound)
	}
	return order, nil
}

func (c *Client) GetByOrderID(ctx context.Context, orderID string) (entities.Negotiation, error) {
	var negotiation entities.Negotiation
	err := c.do(ctx, http.MethodGet, "/negotiation/order-negotiation/"+orderID, nil, &negotiation, true)
	if err != nil {
		c.log.Warnf("[api][negotiation] fetch failed order_id=%s err=%v", orderID, err)
		return entities.Negotiation{}, mapNotFound(err, ErrNegotiationNotFound)
	}
	return negotiation, nil
}

// CustomerResponse sends the customer's decision. counterOffer accompanies a
// reject and is omitted from the body when nil.
func (c *Client) CustomerResponse(ctx context.Context, negotiationID, action string, counterOffer *float64) (entities.Negotiation, error) {
	body := map[string]any{"action": action}
	if counterOffer != nil {
		body["counterOffer"] = *counterOffer
	}
	var negotiation entities.Negotiation
	err := c.do(ctx, http.MethodPut, "/negotiation/"+negotiationID+"/customer-response", body, &negotiation, true)
	if err != nil {
		c.log.Warnf("[api][negotiation] customer response failed negotiation_id=%s action=%s err=%v", negotiationID, action, err)
		return entities.Negotiation{}, mapNotFound(err, ErrNegotiationNotFound)
	}
	return negotiation, nil
}

func (c *Client) Create(ctx context.Context, orderID string, initialPrice float64) (entities.Negotiation, error) {
	body := map[string]any{"orderId": orderID, "initialPrice": initialPrice}
	var negotiation entities.Negotiation
	err := c.do(ctx, http.MethodPost, "/negotiation", body, &negotiation, true)
	if err != nil {
		c.log.Warnf("[api][negotiation] create failed order_id=%s err=%v", orderID, err)
		return entities.Negotiation{}, err
	}
	return negotiation, nil
}

func (c *Client) PendingForCustomer(ctx context.Context) ([]entities.Negotiation, error) {
	var negotiations []entities.Negotiation
	err := c.do(ctx, http.MethodGet, "/negotiation/customer/pending", nil, &negotiations, true)
	if err != nil {
		c.log.Warnf("[api][negotiation] pending list failed err=%v", err)
		return nil, err
	}
	return negotiations, nil
}

// ResetPassword completes a password reset with the emailed token. The
// request is unauthenticated; the password length is validated locally before
// anything leaves the process. The backend signals rejection in-band with a
// 2xx {success:false, message} body, which is an application failure here.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return ErrWeakPassword
	}
	body := map[string]string{"token": token, "newPassword": newPassword}
	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/reset-password", body, &result, false); err != nil {
		c.log.Warnf("[api][auth] password reset failed err=%v", err)
		return err
	}
	if !result.Success {
		c.log.Warnf("[api][auth] password reset rejected msg=%s", result.Message)
		if result.Message != "" {
			return fmt.Errorf("%w: %s", ErrResetRejected, result.Message)
		}
		return ErrResetRejected
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: status=404", errNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: status=%d body=%s", ErrRequestFailed, resp.StatusCode, truncate(data, 256))
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// errNotFound is internal; callers surface the entity-specific sentinel.
var errNotFound = errors.New("not found")

func mapNotFound(err, sentinel error) error {
	if errors.Is(err, errNotFound) {
		return sentinel
	}
	return err
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
