package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"food-ordering-system/internal/models"
)

func TestFormatEvent(t *testing.T) {
	event := &models.OrderPlacedMessage{
		OrderID:       181818,
		Username:      "alice",
		Restaurant:    "Spice Villa",
		TotalAmount:   12.0,
		PaymentMethod: "gpay",
		PlacedAt:      time.Date(2026, 3, 14, 13, 45, 30, 0, time.UTC),
	}

	got := formatEvent(event)
	assert.Equal(t, "[2026-03-14 13:45:30] Order 181818 placed by alice at Spice Villa, total ₹12.00 (gpay)", got)
}
