// Package billing derives an immutable Bill from an order request in a
// single pass, producing the structured record and the printable
// receipt from the same walk over the order.
package billing

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"food-ordering-system/internal/models"
)

const (
	separator  = "------------------------------"
	dateLayout = "2006-01-02 15:04:05"
)

// orderSeq disambiguates bills composed within the same clock reading.
var orderSeq atomic.Int64

// NextOrderID returns a monotonically increasing identifier: the
// millisecond wall clock fused with a process-local sequence, so two
// compositions in the same millisecond still differ.
func NextOrderID(now time.Time) int64 {
	return now.UnixMilli()<<10 | (orderSeq.Add(1) & 0x3ff)
}

// Compose builds a Bill from an order request and the payment
// confirmation text. Field order in the receipt is fixed: customer
// block, date, restaurant header, item lines, delivery charge, total,
// payment method, confirmation.
func Compose(req *models.OrderRequest, confirmation string, now time.Time) *models.Bill {
	method := req.PaymentMethod
	if method == "" {
		method = "card"
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Customer: %s\nEmail: %s\nPhone: %s\n",
		req.UserDetails.Username, req.UserDetails.Email, req.UserDetails.Phone)
	fmt.Fprintf(&out, "Date: %s\n", now.Format(dateLayout))
	fmt.Fprintf(&out, "Restaurant: %s\n%s\n", req.RestaurantName, separator)

	out.WriteString("Items:\n")
	var subtotal float64
	for _, item := range req.Items {
		lineTotal := item.Price * float64(item.Quantity)
		subtotal += lineTotal
		fmt.Fprintf(&out, "- %s x%d (₹%.2f) = ₹%.2f\n", item.Name, item.Quantity, item.Price, lineTotal)
	}

	total := subtotal + req.DeliveryCharge
	fmt.Fprintf(&out, "Delivery Charge: ₹%.2f\n", req.DeliveryCharge)
	fmt.Fprintf(&out, "%s\nTOTAL: ₹%.2f\n", separator, total)
	fmt.Fprintf(&out, "Payment Method: %s\n", method)
	fmt.Fprintf(&out, "\nValidation: %s\n", confirmation)

	return &models.Bill{
		ID:             NextOrderID(now),
		Username:       req.UserDetails.Username,
		Email:          req.UserDetails.Email,
		Phone:          req.UserDetails.Phone,
		Restaurant:     req.RestaurantName,
		Items:          req.Items,
		DeliveryCharge: req.DeliveryCharge,
		Subtotal:       subtotal,
		TotalAmount:    total,
		PaymentMethod:  method,
		Confirmation:   confirmation,
		CreatedAt:      now,
		ReceiptText:    out.String(),
	}
}
