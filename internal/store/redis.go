package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const tallyPrefix = "payments:"

// MethodSummary aggregates the authorizations seen for one method tag.
type MethodSummary struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// PaymentTally records authorized payments per method in Redis. Writes
// are best effort and never sit on an order's critical path.
type PaymentTally struct {
	client *redis.Client
}

// NewPaymentTally creates a tally backed by the Redis at addr.
func NewPaymentTally(addr string) *PaymentTally {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &PaymentTally{client: client}
}

// Ping checks connectivity.
func (t *PaymentTally) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}

// Record adds one authorization to the method's tally.
func (t *PaymentTally) Record(ctx context.Context, method string, amount float64) error {
	key := tallyPrefix + method

	pipe := t.client.TxPipeline()
	pipe.HIncrBy(ctx, key, "count", 1)
	pipe.HIncrByFloat(ctx, key, "amount", amount)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record payment tally: %w", err)
	}
	return nil
}

// Summary returns the tally for each of the given methods. Methods with
// no recorded authorizations yield a zero summary.
func (t *PaymentTally) Summary(ctx context.Context, methods []string) (map[string]MethodSummary, error) {
	summaries := make(map[string]MethodSummary, len(methods))

	for _, method := range methods {
		fields, err := t.client.HGetAll(ctx, tallyPrefix+method).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read payment tally for %s: %w", method, err)
		}

		var summary MethodSummary
		if v, ok := fields["count"]; ok {
			summary.Count, _ = strconv.ParseInt(v, 10, 64)
		}
		if v, ok := fields["amount"]; ok {
			summary.Amount, _ = strconv.ParseFloat(v, 64)
		}
		summaries[method] = summary
	}

	return summaries, nil
}

// Close releases the Redis client.
func (t *PaymentTally) Close() error {
	return t.client.Close()
}
