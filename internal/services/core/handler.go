package core

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"food-ordering-system/internal/config"
	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/models"
	"food-ordering-system/internal/web"
)

// Store is the persistence surface the core handlers depend on.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, username string) (*models.User, error)
	NextHotelID(ctx context.Context) (int, error)
	InsertHotel(ctx context.Context, hotel *models.Hotel) error
	ListHotels(ctx context.Context) ([]models.Hotel, error)
	GetHotel(ctx context.Context, id int) (*models.Hotel, error)
	AppendMenuItem(ctx context.Context, hotelID int, item models.MenuItem) error
	SetDeliveryPerson(ctx context.Context, hotelID int, person models.DeliveryPerson) error
}

// Handler serves the auth, admin and hotel catalog routes of the core
// service. Credentials here are a stub; session security is out of
// scope.
type Handler struct {
	store  Store
	admin  config.AdminConfig
	logger *logger.Logger
}

// NewHandler creates the core service handler.
func NewHandler(store Store, admin config.AdminConfig, log *logger.Logger) *Handler {
	return &Handler{
		store:  store,
		admin:  admin,
		logger: log,
	}
}

// Register mounts all core routes.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/register", h.RegisterUser)
	mux.HandleFunc("GET /auth/user/{username}", h.GetUser)

	mux.HandleFunc("POST /admin/login", h.AdminLogin)
	mux.HandleFunc("POST /admin/add_hotel", h.AddHotel)
	mux.HandleFunc("POST /admin/add_item", h.AddItem)
	mux.HandleFunc("POST /admin/add_delivery_person", h.AddDeliveryPerson)

	mux.HandleFunc("GET /hotel/list", h.ListHotels)
	mux.HandleFunc("GET /hotel/{id}", h.GetHotel)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates a registered user.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteMessage(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.store.GetUser(ctx, req.Username)
	if err != nil || user.Password != req.Password {
		web.WriteMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	web.WriteJSON(w, http.StatusOK, map[string]string{
		"token":   "fake-jwt-token-" + req.Username,
		"message": "Login successful",
	})
}

// RegisterUser creates a new user account.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		web.WriteMessage(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if user.Username == "" {
		web.WriteMessage(w, http.StatusBadRequest, "Username required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, ErrUserExists) {
			web.WriteMessage(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.logger.Error("user_create_failed", "Failed to register user", "", err, nil)
		web.WriteMessage(w, http.StatusServiceUnavailable, "User store unavailable")
		return
	}

	web.WriteMessage(w, http.StatusCreated, "User registered")
}

// GetUser returns a user's public profile.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.store.GetUser(ctx, r.PathValue("username"))
	if err != nil {
		web.WriteMessage(w, http.StatusNotFound, "User not found")
		return
	}

	user.Password = ""
	web.WriteJSON(w, http.StatusOK, user)
}

// AdminLogin authenticates the configured admin account.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteMessage(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if req.Username != h.admin.Username || req.Password != h.admin.Password {
		web.WriteMessage(w, http.StatusUnauthorized, "Invalid Admin Credentials")
		return
	}

	web.WriteJSON(w, http.StatusOK, map[string]string{
		"token":   "admin-secret-token",
		"message": "Admin logged in",
	})
}

// AddHotel creates a catalog entry with a freshly allocated id.
func (h *Handler) AddHotel(w http.ResponseWriter, r *http.Request) {
	var hotel models.Hotel
	if err := json.NewDecoder(r.Body).Decode(&hotel); err != nil {
		web.WriteMessage(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if hotel.Name == "" {
		web.WriteMessage(w, http.StatusBadRequest, "Name required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := h.store.NextHotelID(ctx)
	if err != nil {
		h.logger.Error("hotel_id_failed", "Failed to allocate hotel id", "", err, nil)
		web.WriteMessage(w, http.StatusServiceUnavailable, "Hotel store unavailable")
		return
	}

	hotel.ID = id
	if err := h.store.InsertHotel(ctx, &hotel); err != nil {
		h.logger.Error("hotel_create_failed", "Failed to insert hotel", "", err, nil)
		web.WriteMessage(w, http.StatusServiceUnavailable, "Hotel store unavailable")
		return
	}

	web.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Hotel created",
		"id":      id,
	})
}

type addItemRequest struct {
	HotelID int     `json:"hotel_id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
}

// AddItem appends a menu item to an existing hotel.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteMessage(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	item := models.MenuItem{
		ID:    int(time.Now().UnixMilli() % 100000),
		Name:  req.Name,
		Price: req.Price,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.AppendMenuItem(ctx, req.HotelID, item); err != nil {
		if errors.Is(err, ErrHotelNotFound) {
			web.WriteMessage(w, http.StatusNotFound, "Hotel not found")
			return
		}
		h.logger.Error("menu_item_failed", "Failed to add menu item", "", err, nil)
		web.WriteMessage(w, http.StatusServiceUnavailable, "Hotel store unavailable")
		return
	}

	web.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Item added",
		"item_id": item.ID,
	})
}

type addDeliveryPersonRequest struct {
	HotelID int     `json:"hotel_id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	City    string  `json:"city"`
	Charge  float64 `json:"charge"`
}

// AddDeliveryPerson assigns a courier to a hotel.
func (h *Handler) AddDeliveryPerson(w http.ResponseWriter, r *http.Request) {
	var req addDeliveryPersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteMessage(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if req.HotelID == 0 {
		web.WriteMessage(w, http.StatusBadRequest, "Hotel ID required")
		return
	}

	person := models.DeliveryPerson{
		Name:   req.Name,
		Phone:  req.Phone,
		City:   req.City,
		Charge: req.Charge,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.SetDeliveryPerson(ctx, req.HotelID, person); err != nil {
		if errors.Is(err, ErrHotelNotFound) {
			web.WriteMessage(w, http.StatusNotFound, "Hotel not found")
			return
		}
		h.logger.Error("delivery_person_failed", "Failed to assign delivery person", "", err, nil)
		web.WriteMessage(w, http.StatusServiceUnavailable, "Hotel store unavailable")
		return
	}

	web.WriteMessage(w, http.StatusCreated, "Delivery Person Added to Hotel")
}

// ListHotels returns the whole catalog.
func (h *Handler) ListHotels(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	hotels, err := h.store.ListHotels(ctx)
	if err != nil {
		h.logger.Error("hotel_list_failed", "Failed to list hotels", "", err, nil)
		web.WriteMessage(w, http.StatusServiceUnavailable, "Hotel store unavailable")
		return
	}

	web.WriteJSON(w, http.StatusOK, hotels)
}

// GetHotel returns one hotel by id.
func (h *Handler) GetHotel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		web.WriteMessage(w, http.StatusBadRequest, "Invalid hotel id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	hotel, err := h.store.GetHotel(ctx, id)
	if err != nil {
		if errors.Is(err, ErrHotelNotFound) {
			web.WriteMessage(w, http.StatusNotFound, "Hotel not found")
			return
		}
		h.logger.Error("hotel_get_failed", "Failed to get hotel", "", err, nil)
		web.WriteMessage(w, http.StatusServiceUnavailable, "Hotel store unavailable")
		return
	}

	web.WriteJSON(w, http.StatusOK, hotel)
}
