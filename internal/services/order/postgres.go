package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"food-ordering-system/internal/database"
	"food-ordering-system/internal/models"
)

// Repository stores bills in the orders table, with items as JSONB.
type Repository struct {
	db *database.DB
}

// NewRepository creates a bill repository over the shared pool.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// InsertBill writes a bill exactly once.
func (r *Repository) InsertBill(ctx context.Context, bill *models.Bill) error {
	items, err := json.Marshal(bill.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}

	err = r.db.Exec(ctx, database.InsertBillSQL,
		bill.ID, bill.Username, bill.Email, bill.Phone, bill.Restaurant, items,
		bill.DeliveryCharge, bill.Subtotal, bill.TotalAmount, bill.PaymentMethod,
		bill.Confirmation, bill.ReceiptText, bill.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}
	return nil
}

// GetBill fetches a bill by its order identifier.
func (r *Repository) GetBill(ctx context.Context, id int64) (*models.Bill, error) {
	var (
		bill  models.Bill
		items []byte
	)

	err := r.db.QueryRow(ctx, database.GetBillByIDSQL, id).Scan(
		&bill.ID, &bill.Username, &bill.Email, &bill.Phone, &bill.Restaurant, &items,
		&bill.DeliveryCharge, &bill.Subtotal, &bill.TotalAmount, &bill.PaymentMethod,
		&bill.Confirmation, &bill.ReceiptText, &bill.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	if err := json.Unmarshal(items, &bill.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}

	return &bill, nil
}
