package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"food-ordering-system/internal/database"
	"food-ordering-system/internal/models"
)

var (
	ErrUserExists    = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrHotelNotFound = errors.New("hotel not found")
)

// Repository backs the core service's users and hotels collections.
type Repository struct {
	db *database.DB
}

// NewRepository creates the core repository over the shared pool.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser registers a new user, refusing duplicate usernames.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	var exists bool
	if err := r.db.QueryRow(ctx, database.UserExistsSQL, user.Username).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return ErrUserExists
	}

	err := r.db.Exec(ctx, database.InsertUserSQL,
		user.Username, user.Password, user.Name, user.Phone, user.Email, user.Address, user.City)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser fetches a user by username, password included. Callers
// strip the password before returning the record to clients.
func (r *Repository) GetUser(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, database.GetUserByUsernameSQL, username).Scan(
		&user.Username, &user.Password, &user.Name, &user.Phone, &user.Email, &user.Address, &user.City)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// NextHotelID allocates the next hotel identifier with the
// max-existing-id-plus-one pattern.
func (r *Repository) NextHotelID(ctx context.Context) (int, error) {
	var id int
	if err := r.db.QueryRow(ctx, database.NextHotelIDSQL).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to allocate hotel id: %w", err)
	}
	return id, nil
}

// InsertHotel stores a new hotel with its menu.
func (r *Repository) InsertHotel(ctx context.Context, hotel *models.Hotel) error {
	menu := hotel.Menu
	if menu == nil {
		menu = []models.MenuItem{}
	}
	menuJSON, err := json.Marshal(menu)
	if err != nil {
		return fmt.Errorf("failed to marshal menu: %w", err)
	}

	err = r.db.Exec(ctx, database.InsertHotelSQL,
		hotel.ID, hotel.Name, hotel.Address, hotel.City, menuJSON)
	if err != nil {
		return fmt.Errorf("failed to insert hotel: %w", err)
	}
	return nil
}

// ListHotels returns the full catalog ordered by id.
func (r *Repository) ListHotels(ctx context.Context) ([]models.Hotel, error) {
	rows, err := r.db.Query(ctx, database.ListHotelsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	defer rows.Close()

	hotels := []models.Hotel{}
	for rows.Next() {
		hotel, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, *hotel)
	}
	return hotels, rows.Err()
}

// GetHotel fetches one hotel by id.
func (r *Repository) GetHotel(ctx context.Context, id int) (*models.Hotel, error) {
	rows, err := r.db.Query(ctx, database.GetHotelByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrHotelNotFound
	}
	return scanHotel(rows)
}

// AppendMenuItem appends an item to the hotel's menu array.
func (r *Repository) AppendMenuItem(ctx context.Context, hotelID int, item models.MenuItem) error {
	itemJSON, err := json.Marshal([]models.MenuItem{item})
	if err != nil {
		return fmt.Errorf("failed to marshal menu item: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, database.AppendMenuItemSQL, hotelID, itemJSON)
	if err != nil {
		return fmt.Errorf("failed to append menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrHotelNotFound
	}
	return nil
}

// SetDeliveryPerson assigns a courier to the hotel.
func (r *Repository) SetDeliveryPerson(ctx context.Context, hotelID int, person models.DeliveryPerson) error {
	personJSON, err := json.Marshal(person)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery person: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, database.SetDeliveryPersonSQL, hotelID, personJSON)
	if err != nil {
		return fmt.Errorf("failed to set delivery person: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrHotelNotFound
	}
	return nil
}

func scanHotel(row pgx.Rows) (*models.Hotel, error) {
	var (
		hotel      models.Hotel
		menuJSON   []byte
		personJSON []byte
	)

	if err := row.Scan(&hotel.ID, &hotel.Name, &hotel.Address, &hotel.City, &menuJSON, &personJSON); err != nil {
		return nil, fmt.Errorf("failed to scan hotel: %w", err)
	}

	if err := json.Unmarshal(menuJSON, &hotel.Menu); err != nil {
		return nil, fmt.Errorf("failed to unmarshal menu: %w", err)
	}
	if len(personJSON) > 0 {
		hotel.DeliveryPerson = &models.DeliveryPerson{}
		if err := json.Unmarshal(personJSON, hotel.DeliveryPerson); err != nil {
			return nil, fmt.Errorf("failed to unmarshal delivery person: %w", err)
		}
	}
	return &hotel, nil
}
