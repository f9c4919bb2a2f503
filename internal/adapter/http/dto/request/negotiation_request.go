package request

import (
	"errors"
	"math"
	"strings"
)

var ErrInvalidCounterOffer = errors.New("invalid counter offer value")

// CustomerResponseRequest is the body of the customer-response endpoint.
// CounterOffer must be present iff the action is reject.
type CustomerResponseRequest struct {
	Action       string   `json:"action" binding:"required"`
	CounterOffer *float64 `json:"counterOffer"`
}

func (r CustomerResponseRequest) NormalizedAction() string {
	return strings.ToLower(strings.TrimSpace(r.Action))
}

func (r CustomerResponseRequest) ValidateCounterOffer() error {
	if r.CounterOffer == nil {
		return nil
	}
	v := *r.CounterOffer
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrInvalidCounterOffer
	}
	return nil
}

type CreateNegotiationRequest struct {
	OrderID      string  `json:"orderId" binding:"required"`
	InitialPrice float64 `json:"initialPrice" binding:"required"`
}
