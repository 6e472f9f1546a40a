package messaging

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rabbitmq/amqp091-go"

	"food-ordering-system/internal/config"
	"food-ordering-system/internal/logger"
)

// Exchange and queue names for the order event feed.
const (
	OrdersExchange   = "orders_fanout"
	OrderEventsQueue = "order_events_queue"
)

// Connection wraps a RabbitMQ connection with reconnection logic.
type Connection struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *logger.Logger
	url     string
}

// New creates a new RabbitMQ connection and declares the topology.
func New(cfg *config.Config, log *logger.Logger) (*Connection, error) {
	conn := &Connection{
		logger: log,
		url:    cfg.RabbitMQURL(),
	}

	if err := conn.connect(); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}

	return conn, nil
}

// connect dials RabbitMQ with exponential backoff and sets up topology.
func (c *Connection) connect() error {
	dial := func() error {
		conn, err := amqp091.Dial(c.url)
		if err != nil {
			return err
		}

		channel, err := conn.Channel()
		if err != nil {
			conn.Close()
			return err
		}

		c.conn = conn
		c.channel = channel

		if err := c.setupTopology(); err != nil {
			c.close()
			return err
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Error("rabbitmq_connection_failed",
			fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", wait),
			"startup", err, nil)
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	if err := backoff.RetryNotify(dial, policy, notify); err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	return nil
}

// setupTopology declares the orders fanout exchange and its event queue.
func (c *Connection) setupTopology() error {
	err := c.channel.ExchangeDeclare(
		OrdersExchange, // name
		"fanout",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", OrdersExchange, err)
	}

	_, err = c.channel.QueueDeclare(
		OrderEventsQueue, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", OrderEventsQueue, err)
	}

	err = c.channel.QueueBind(
		OrderEventsQueue, // queue name
		"",               // routing key (ignored for fanout)
		OrdersExchange,   // exchange
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", OrderEventsQueue, err)
	}

	return nil
}

// Reconnect re-establishes a dropped connection.
func (c *Connection) Reconnect() error {
	c.close()
	return c.connect()
}

// Channel returns the current channel.
func (c *Connection) Channel() *amqp091.Channel {
	return c.channel
}

// IsClosed checks if the connection is closed.
func (c *Connection) IsClosed() bool {
	return c.conn == nil || c.conn.IsClosed()
}

// Close closes the connection.
func (c *Connection) Close() error {
	return c.close()
}

func (c *Connection) close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
