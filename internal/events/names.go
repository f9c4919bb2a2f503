package events

// Event families delivered by the push transport. Payloads optionally carry
// an "action" discriminator; the channel adapter republishes those under the
// derived name "<family-prefix>_<action>" (e.g. "negotiation_accepted").
const (
	EventCustomerUpdate    = "customer_update"
	EventDeliveryUpdate    = "delivery_update"
	EventNegotiationUpdate = "negotiation_update"
)
