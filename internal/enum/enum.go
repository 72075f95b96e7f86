package enum

// ── Fulfilment stages (advanced by the admin, in this order) ──

const (
	OrderStatusPending   = "Pending"
	OrderStatusReceived  = "Received"
	OrderStatusPacked    = "Packed"
	OrderStatusOnTheWay  = "On The Way"
	OrderStatusDelivered = "Delivered"
)

// ── Payment ──

const (
	PaymentMethodOnline = "online"
	PaymentMethodCOD    = "cod"
)

const (
	PaymentStatusPending = "Pending"
	PaymentStatusCOD     = "COD"
	PaymentStatusPaid    = "Paid"
	PaymentStatusFailed  = "Failed"
)

// ── Catalog (CHECK constrained in DB) ──

const (
	CategoryBatter     = "Batter"
	CategoryReadyToEat = "Ready-to-Eat"
	CategoryPickles    = "Pickles"
	CategoryOthers     = "Others"
)
