package interfaces

import (
	"context"

	"deliverysync/internal/domain/entities"
)

// IOrderGateway fetches the server-owned order the negotiation is attached
// to.
type IOrderGateway interface {
	GetOrder(ctx context.Context, orderID string) (entities.Order, error)
}
