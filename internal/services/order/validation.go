package order

import (
	"fmt"

	"food-ordering-system/internal/models"
)

// ValidationError reports a structurally invalid order field. It is
// returned before any side effect has occurred.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateOrderRequest checks the structural invariants of an order
// request: customer and restaurant present, at least one well-formed
// item, non-negative charges.
func ValidateOrderRequest(req *models.OrderRequest) error {
	if req.UserDetails.Username == "" {
		return ValidationError{
			Field:   "user_details.username",
			Message: "username is required",
		}
	}

	if req.RestaurantName == "" {
		return ValidationError{
			Field:   "restaurant_name",
			Message: "restaurant name is required",
		}
	}

	if req.DeliveryCharge < 0 {
		return ValidationError{
			Field:   "delivery_charge",
			Message: "delivery charge must not be negative",
		}
	}

	return validateItems(req.Items)
}

func validateItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return ValidationError{
			Field:   "items",
			Message: "items cannot be empty",
		}
	}

	for i, item := range items {
		if err := validateItem(item, i); err != nil {
			return err
		}
	}
	return nil
}

func validateItem(item models.OrderItem, index int) error {
	if item.Name == "" {
		return ValidationError{
			Field:   fmt.Sprintf("items[%d].name", index),
			Message: "item name is required",
		}
	}

	if item.Quantity < 1 {
		return ValidationError{
			Field:   fmt.Sprintf("items[%d].quantity", index),
			Message: "item quantity must be at least 1",
		}
	}

	if item.Price < 0 {
		return ValidationError{
			Field:   fmt.Sprintf("items[%d].price", index),
			Message: "item price must not be negative",
		}
	}

	return nil
}
