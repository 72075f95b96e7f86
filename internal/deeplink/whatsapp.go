// Package deeplink builds the WhatsApp and UPI links the storefront and
// admin panel open on the customer's device. Nothing here sends anything;
// delivery is up to the person tapping the link.
package deeplink

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vamshi335235/priya-Traders-project/internal/database"
	"github.com/vamshi335235/priya-Traders-project/internal/enum"
)

// Builder holds the business identity the links point at.
type Builder struct {
	BusinessName  string
	BusinessPhone string
	PayeeVPA      string
	PayeeName     string
}

var stageText = map[string]string{
	enum.OrderStatusReceived:  "✅ *Received* and is being processed!",
	enum.OrderStatusPacked:    "📦 *Packed* and ready for pickup!",
	enum.OrderStatusOnTheWay:  "🚀 *Out for Delivery* and will reach you soon!",
	enum.OrderStatusDelivered: "✨ *Delivered* successfully! Enjoy your fresh batter.",
}

// WhatsApp returns a wa.me link that opens a chat with phone prefilled with text.
func WhatsApp(phone, text string) string {
	u := "https://wa.me/" + phone
	if text == "" {
		return u
	}
	// wa.me does not decode '+' as a space.
	return u + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// StatusMessage is the customer notification for an order entering status.
// ok is false for Pending and unknown stages, which send nothing.
func (b Builder) StatusMessage(status, customerName string) (string, bool) {
	text, ok := stageText[status]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("🍱 *Order Update from %s*\n\nHi *%s*, your order is now %s\n\n🙏 Thank you for choosing %s!",
		b.BusinessName, customerName, text, b.BusinessName), true
}

// StatusLink is StatusMessage wrapped in a link to the customer's chat.
func (b Builder) StatusLink(order database.Order) (string, bool) {
	msg, ok := b.StatusMessage(order.Status, order.CustomerName)
	if !ok {
		return "", false
	}
	return WhatsApp(order.CustomerPhone, msg), true
}

// OrderMessage summarises a placed order for the business chat.
func (b Builder) OrderMessage(order database.Order, items []database.OrderItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🛒 *New Order - %s*\n\n", b.BusinessName)
	fmt.Fprintf(&sb, "Order: #%s\n", ShortID(order))
	fmt.Fprintf(&sb, "Name: %s\nPhone: %s\nAddress: %s\n\n", order.CustomerName, order.CustomerPhone, order.DeliveryAddress)
	for _, item := range items {
		fmt.Fprintf(&sb, "• %s x%d = Rs.%d\n", item.Name, item.Quantity, item.Price*int64(item.Quantity))
	}
	fmt.Fprintf(&sb, "\nSubtotal: Rs.%d\n", order.Subtotal)
	if order.DeliveryFee == 0 {
		sb.WriteString("Delivery: FREE\n")
	} else {
		fmt.Fprintf(&sb, "Delivery: Rs.%d\n", order.DeliveryFee)
	}
	fmt.Fprintf(&sb, "*Total: Rs.%d*\n", order.TotalAmount)
	if order.PaymentMethod == enum.PaymentMethodCOD {
		sb.WriteString("Payment: Cash on Delivery")
	} else {
		sb.WriteString("Payment: UPI")
	}
	return sb.String()
}

// OrderLink opens the business chat with the order summary.
func (b Builder) OrderLink(order database.Order, items []database.OrderItem) string {
	return WhatsApp(b.BusinessPhone, b.OrderMessage(order, items))
}

// ShortID is the human reference shown on receipts: the first eight hex
// characters of the order ID, upper-cased.
func ShortID(order database.Order) string {
	return strings.ToUpper(order.ID.String()[:8])
}

func rupees(amount int64) string {
	return decimal.NewFromInt(amount).StringFixed(2)
}
