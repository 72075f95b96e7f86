package service

import (
	"errors"
	"fmt"

	"github.com/vamshi335235/priya-Traders-project/internal/enum"
)

var (
	ErrUnknownStatus        = errors.New("unknown status")
	ErrFinalStatus          = errors.New("order is already delivered")
	ErrUnknownPaymentStatus = errors.New("unknown paymentStatus")
)

// StatusFlow is the fulfilment sequence shown to admins. Any stage may be
// set directly; NextStatus walks it one step at a time.
var StatusFlow = []string{
	enum.OrderStatusPending,
	enum.OrderStatusReceived,
	enum.OrderStatusPacked,
	enum.OrderStatusOnTheWay,
	enum.OrderStatusDelivered,
}

func IsValidStatus(s string) bool {
	return statusIndex(s) >= 0
}

// NextStatus returns the stage after current.
func NextStatus(current string) (string, error) {
	idx := statusIndex(current)
	if idx < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, current)
	}
	if idx == len(StatusFlow)-1 {
		return "", ErrFinalStatus
	}
	return StatusFlow[idx+1], nil
}

// IsProcessing reports whether the order is past intake but not delivered.
func IsProcessing(s string) bool {
	switch s {
	case enum.OrderStatusReceived, enum.OrderStatusPacked, enum.OrderStatusOnTheWay:
		return true
	}
	return false
}

func IsValidPaymentStatus(s string) bool {
	switch s {
	case enum.PaymentStatusPending, enum.PaymentStatusCOD,
		enum.PaymentStatusPaid, enum.PaymentStatusFailed:
		return true
	}
	return false
}

func statusIndex(s string) int {
	for i, st := range StatusFlow {
		if st == s {
			return i
		}
	}
	return -1
}
