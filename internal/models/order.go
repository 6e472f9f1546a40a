package models

import "time"

// UserDetails identifies the customer placing an order.
type UserDetails struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// OrderItem is a single ordered line item.
type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// OrderRequest is the payload accepted by the order creation endpoint.
// It is transient; only the Bill derived from it is persisted.
type OrderRequest struct {
	UserDetails    UserDetails `json:"user_details"`
	Items          []OrderItem `json:"items"`
	RestaurantName string      `json:"restaurant_name"`
	DeliveryCharge float64     `json:"delivery_charge"`
	PaymentMethod  string      `json:"payment_method"`
}

// Subtotal sums the item line totals in request order, so the result
// matches the per-line accumulation used when rendering the receipt.
func (r *OrderRequest) Subtotal() float64 {
	var subtotal float64
	for _, item := range r.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}

// Total is the items subtotal plus the delivery charge.
func (r *OrderRequest) Total() float64 {
	return r.Subtotal() + r.DeliveryCharge
}

// Bill is the immutable record derived from an OrderRequest once the
// payment has been confirmed. Persisted exactly once.
type Bill struct {
	ID             int64       `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Restaurant     string      `json:"restaurant"`
	Items          []OrderItem `json:"items"`
	DeliveryCharge float64     `json:"delivery_charge"`
	Subtotal       float64     `json:"subtotal"`
	TotalAmount    float64     `json:"total_amount"`
	PaymentMethod  string      `json:"payment_method"`
	Confirmation   string      `json:"confirmation"`
	CreatedAt      time.Time   `json:"timestamp"`
	ReceiptText    string      `json:"bill_text"`
}

// OrderResult is returned to the caller after a successful placement.
type OrderResult struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
	Bill    string `json:"bill"`
}
