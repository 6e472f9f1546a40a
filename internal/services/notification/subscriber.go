package notification

import (
	"context"
	"fmt"

	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/messaging"
	"food-ordering-system/internal/models"
)

// Subscriber consumes order-placed events and renders a human-readable
// activity feed. Purely observational; order placement never waits on
// it.
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger
}

// NewSubscriber creates a new order event subscriber.
func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
	}
}

// Start consumes events until the context is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Order event subscriber started", requestID, nil)

	err := s.consumer.StartConsuming(ctx, s.handleEvent)
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func (s *Subscriber) handleEvent(ctx context.Context, body []byte) error {
	var event models.OrderPlacedMessage
	if err := messaging.ParseMessage(body, &event); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse order event", "", err, nil)
		return fmt.Errorf("failed to parse order event: %w", err)
	}

	fmt.Println(formatEvent(&event))

	s.logger.Info("order_event_received", "Order placed", "", map[string]interface{}{
		"order_id":     event.OrderID,
		"restaurant":   event.Restaurant,
		"total_amount": event.TotalAmount,
	})
	return nil
}

func formatEvent(event *models.OrderPlacedMessage) string {
	return fmt.Sprintf("[%s] Order %d placed by %s at %s, total ₹%.2f (%s)",
		event.PlacedAt.Format("2006-01-02 15:04:05"),
		event.OrderID,
		event.Username,
		event.Restaurant,
		event.TotalAmount,
		event.PaymentMethod,
	)
}

// Close stops the underlying consumer.
func (s *Subscriber) Close() error {
	return s.consumer.Close()
}
