package entities

import "time"

// OrderStatus is the order-level lifecycle. The client treats it as opaque
// display data; transitions are driven entirely by the server.

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
)

// DeliveryStatus is the finer-grained physical-delivery sub-state machine:
// assigned -> heading_to_store -> arrived_at_store -> heading_to_customer ->
// arrived_at_customer -> completed.

type DeliveryStatus string

const (
	DeliveryStatusAssigned          DeliveryStatus = "assigned"
	DeliveryStatusHeadingToStore    DeliveryStatus = "heading_to_store"
	DeliveryStatusArrivedAtStore    DeliveryStatus = "arrived_at_store"
	DeliveryStatusHeadingToCustomer DeliveryStatus = "heading_to_customer"
	DeliveryStatusArrivedAtCustomer DeliveryStatus = "arrived_at_customer"
	DeliveryStatusCompleted         DeliveryStatus = "completed"
)

// Order is the delivery order a negotiation is attached to. The server owns
// it; the client holds a read-only cached copy.
type Order struct {
	ID               string         `json:"_id"`
	DeliveryID       string         `json:"deliveryId"`
	StoreID          string         `json:"storeId"`
	PickupAddress    string         `json:"pickupAddress"`
	DeliveryAddress  string         `json:"deliveryAddress"`
	OrderDescription string         `json:"orderDescription"`
	CustomerEmail    string         `json:"customerEmail"`
	Status           OrderStatus    `json:"status"`
	DeliveryStatus   DeliveryStatus `json:"deliveryStatus"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// NewerThan reports whether o carries a strictly newer server version than
// other.
func (o Order) NewerThan(other Order) bool {
	return o.UpdatedAt.After(other.UpdatedAt)
}
