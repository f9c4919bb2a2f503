package interfaces

import (
	"context"

	"deliverysync/internal/domain/entities"
)

// Customer decision actions accepted by the negotiation backend.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// INegotiationGateway talks to the negotiation backend on behalf of the
// customer. Implementations attach the session's bearer credential.
type INegotiationGateway interface {
	// GetByOrderID fetches the active negotiation for an order.
	GetByOrderID(ctx context.Context, orderID string) (entities.Negotiation, error)

	// CustomerResponse sends an accept/reject decision. counterOffer is set
	// only for rejections and carries the customer's counter price.
	CustomerResponse(ctx context.Context, negotiationID, action string, counterOffer *float64) (entities.Negotiation, error)

	// Create opens a new negotiation for an order at the given initial price.
	Create(ctx context.Context, orderID string, initialPrice float64) (entities.Negotiation, error)

	// PendingForCustomer lists the authenticated customer's pending
	// negotiations.
	PendingForCustomer(ctx context.Context) ([]entities.Negotiation, error)
}
