package models

import "time"

// OrderPlacedMessage is published to the orders fanout exchange after a
// bill has been persisted. Consumers treat it as a best-effort activity
// feed; order placement never depends on its delivery.
type OrderPlacedMessage struct {
	OrderID       int64     `json:"order_id"`
	Username      string    `json:"username"`
	Restaurant    string    `json:"restaurant"`
	TotalAmount   float64   `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	PlacedAt      time.Time `json:"placed_at"`
}

// NewOrderPlacedMessage builds the event from a persisted bill.
func NewOrderPlacedMessage(bill *Bill) *OrderPlacedMessage {
	return &OrderPlacedMessage{
		OrderID:       bill.ID,
		Username:      bill.Username,
		Restaurant:    bill.Restaurant,
		TotalAmount:   bill.TotalAmount,
		PaymentMethod: bill.PaymentMethod,
		PlacedAt:      bill.CreatedAt,
	}
}
