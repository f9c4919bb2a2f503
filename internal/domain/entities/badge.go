package entities

// Badge is the display metadata for a status value: a human label and a
// color tone. Rendering concerns collapse into this single mapping instead
// of per-page branching.
type Badge struct {
	Label string
	Tone  string
}

const (
	ToneAmber   = "amber"
	ToneGreen   = "green"
	ToneBlue    = "blue"
	ToneNeutral = "neutral"
)

var statusBadges = map[string]Badge{
	string(NegotiationStatusPending):        {Label: "Pending", Tone: ToneAmber},
	string(NegotiationStatusCounterOffered): {Label: "Counter offered", Tone: ToneBlue},
	string(NegotiationStatusAccepted):       {Label: "Accepted", Tone: ToneGreen},

	string(OrderStatusCreated):   {Label: "Created", Tone: ToneNeutral},
	string(OrderStatusConfirmed): {Label: "Confirmed", Tone: ToneBlue},
	string(OrderStatusDelivered): {Label: "Delivered", Tone: ToneGreen},

	string(DeliveryStatusAssigned):          {Label: "Assigned", Tone: ToneNeutral},
	string(DeliveryStatusHeadingToStore):    {Label: "Heading to store", Tone: ToneBlue},
	string(DeliveryStatusArrivedAtStore):    {Label: "Arrived at store", Tone: ToneBlue},
	string(DeliveryStatusHeadingToCustomer): {Label: "Heading to customer", Tone: ToneBlue},
	string(DeliveryStatusArrivedAtCustomer): {Label: "Arrived at customer", Tone: ToneBlue},
	string(DeliveryStatusCompleted):         {Label: "Completed", Tone: ToneGreen},
}

// BadgeFor resolves display metadata for any status value, negotiation and
// order statuses alike. Unknown values get a neutral badge rather than an
// error; display must never fail on new server-side states.
func BadgeFor(status string) Badge {
	if b, ok := statusBadges[string(NormalizeNegotiationStatus(status))]; ok {
		return b
	}
	return Badge{Label: "Unknown", Tone: ToneNeutral}
}

func (s NegotiationStatus) Badge() Badge { return BadgeFor(string(s)) }
func (s OrderStatus) Badge() Badge       { return BadgeFor(string(s)) }
func (s DeliveryStatus) Badge() Badge    { return BadgeFor(string(s)) }
