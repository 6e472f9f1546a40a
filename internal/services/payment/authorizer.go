package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Method is a payment method tag.
type Method string

const (
	MethodGPay    Method = "gpay"
	MethodPhonePe Method = "phonepe"
	MethodCard    Method = "card"
)

// Methods lists every recognized method tag.
func Methods() []string {
	return []string{string(MethodGPay), string(MethodPhonePe), string(MethodCard)}
}

// ParseMethod maps a method tag to a Method. Comparison is
// case-insensitive; unrecognized or empty tags resolve to the card
// variant rather than an error.
func ParseMethod(s string) Method {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gpay":
		return MethodGPay
	case "phonepe":
		return MethodPhonePe
	default:
		return MethodCard
	}
}

// Confirmation renders the branded confirmation text for an authorized
// amount. Exactly three outcomes exist; there is no declined variant.
func Confirmation(amount float64, method Method) string {
	switch method {
	case MethodGPay:
		return fmt.Sprintf("Paid ₹%.2f via Google Pay", amount)
	case MethodPhonePe:
		return fmt.Sprintf("Paid ₹%.2f via PhonePe", amount)
	default:
		return fmt.Sprintf("Paid ₹%.2f via Credit/Debit Card", amount)
	}
}

// ErrUnavailable marks an authorizer that could not be reached. The
// local authorizer never returns it; a remote implementation would.
var ErrUnavailable = errors.New("payment service unavailable")

// Authorizer confirms a payment of the given amount with the given
// method tag. The contract admits failure so that a real payment
// gateway can replace the local formatter without touching the order
// orchestrator.
type Authorizer interface {
	Authorize(ctx context.Context, amount float64, method string) (string, error)
}

// LocalAuthorizer formats confirmations in-process. It stands in for a
// real payment network boundary and cannot fail.
type LocalAuthorizer struct{}

func (LocalAuthorizer) Authorize(_ context.Context, amount float64, method string) (string, error) {
	return Confirmation(amount, ParseMethod(method)), nil
}
