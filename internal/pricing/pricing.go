// Package pricing computes cart totals and the first-order free delivery
// promotion. Amounts are whole rupees.
package pricing

// Line is one cart entry: unit price times quantity.
type Line struct {
	Price    int64
	Quantity int32
}

// Policy holds the store-wide delivery rules.
type Policy struct {
	DeliveryFee           int64
	FreeDeliveryThreshold int64
}

// Quote is the priced result for a cart.
type Quote struct {
	Subtotal     int64
	DeliveryFee  int64
	Total        int64
	FreeDelivery bool
}

// Subtotal sums price*quantity over lines.
func Subtotal(lines []Line) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.Price * int64(l.Quantity)
	}
	return sum
}

// FreeDelivery reports whether a cart with this subtotal ships free.
// Only a phone number with no order history qualifies, for its whole lifetime.
func (p Policy) FreeDelivery(subtotal int64, hasPreviousOrders bool) bool {
	return !hasPreviousOrders && subtotal >= p.FreeDeliveryThreshold
}

// Quote prices lines for a customer.
func (p Policy) Quote(lines []Line, hasPreviousOrders bool) Quote {
	subtotal := Subtotal(lines)
	q := Quote{Subtotal: subtotal, DeliveryFee: p.DeliveryFee}
	if p.FreeDelivery(subtotal, hasPreviousOrders) {
		q.DeliveryFee = 0
		q.FreeDelivery = true
	}
	q.Total = q.Subtotal + q.DeliveryFee
	return q
}
