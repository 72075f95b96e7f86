package deeplink

import (
	"net/url"
	"strings"

	"github.com/vamshi335235/priya-Traders-project/internal/database"
	"github.com/vamshi335235/priya-Traders-project/internal/enum"
)

// UPI returns a upi://pay intent for the order total. ok is false for
// cash-on-delivery orders.
func (b Builder) UPI(order database.Order) (string, bool) {
	if order.PaymentMethod != enum.PaymentMethodOnline {
		return "", false
	}
	q := url.Values{}
	q.Set("pa", b.PayeeVPA)
	q.Set("pn", b.PayeeName)
	q.Set("am", rupees(order.TotalAmount))
	q.Set("cu", "INR")
	q.Set("tn", "Order "+ShortID(order))
	return "upi://pay?" + strings.ReplaceAll(q.Encode(), "+", "%20"), true
}
