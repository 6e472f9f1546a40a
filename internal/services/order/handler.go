package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/models"
	"food-ordering-system/internal/services/payment"
	"food-ordering-system/internal/web"
)

// Handler serves the order endpoints of a transaction node.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new order handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Register mounts the order routes.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /order/create", h.CreateOrder)
	mux.HandleFunc("GET /order/{id}", h.GetOrder)
}

// CreateOrder handles POST /order/create.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req models.OrderRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		h.logger.Error("validation_failed", "Failed to parse request body", requestID, err, nil)
		web.WriteMessage(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := h.service.PlaceOrder(ctx, &req, requestID)
	if err != nil {
		h.writeOrderError(w, requestID, &req, err)
		return
	}

	web.WriteJSON(w, http.StatusCreated, result)
}

// GetOrder handles GET /order/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		web.WriteMessage(w, http.StatusBadRequest, "Invalid order id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	bill, err := h.service.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			web.WriteMessage(w, http.StatusNotFound, "Order not found")
			return
		}
		web.WriteMessage(w, http.StatusServiceUnavailable, "Order store unavailable")
		return
	}

	web.WriteJSON(w, http.StatusOK, bill)
}

// writeOrderError maps placement failures onto the caller-visible
// status taxonomy: validation 400, refused payment 400, unreachable
// dependencies 503.
func (h *Handler) writeOrderError(w http.ResponseWriter, requestID string, req *models.OrderRequest, err error) {
	var validationErr ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.logger.Error("validation_failed", "Request validation failed", requestID, err, map[string]interface{}{
			"restaurant": req.RestaurantName,
		})
		web.WriteMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, payment.ErrUnavailable):
		h.logger.Error("payment_unavailable", "Payment authorizer unreachable", requestID, err, nil)
		web.WriteMessage(w, http.StatusServiceUnavailable, "Payment Service Unavailable")
	case errors.Is(err, ErrPaymentRefused):
		h.logger.Error("payment_refused", "Payment was refused", requestID, err, nil)
		web.WriteMessage(w, http.StatusBadRequest, "Payment Failed")
	case errors.Is(err, ErrStoreUnavailable):
		h.logger.Error("order_store_failed", "Failed to persist bill", requestID, err, nil)
		web.WriteMessage(w, http.StatusServiceUnavailable, "Failed to store order")
	default:
		h.logger.Error("order_creation_failed", "Failed to create order", requestID, err, nil)
		web.WriteMessage(w, http.StatusServiceUnavailable, "Internal server error")
	}
}
