package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/store"
	"food-ordering-system/internal/web"
)

// ProcessRequest is the payload for POST /payment/process.
type ProcessRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

// ProcessResponse is returned on a successful authorization.
type ProcessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Handler serves the payment endpoints of a transaction node.
type Handler struct {
	authorizer Authorizer
	tally      *store.PaymentTally
	logger     *logger.Logger
}

// NewHandler creates a payment handler. tally may be nil when no Redis
// is configured; authorizations are then simply not recorded.
func NewHandler(authorizer Authorizer, tally *store.PaymentTally, log *logger.Logger) *Handler {
	return &Handler{
		authorizer: authorizer,
		tally:      tally,
		logger:     log,
	}
}

// Register mounts the payment routes.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /payment/process", h.Process)
	mux.HandleFunc("GET /payment/summary", h.Summary)
}

// Process authorizes a payment and returns the confirmation text.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteMessage(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if req.Amount <= 0 {
		web.WriteMessage(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	confirmation, err := h.authorizer.Authorize(r.Context(), req.Amount, req.Method)
	if err != nil {
		h.logger.Error("payment_failed", "Authorization failed", requestID, err, map[string]interface{}{
			"method": req.Method,
		})
		web.WriteMessage(w, http.StatusServiceUnavailable, "Payment Service Unavailable")
		return
	}

	h.record(req.Method, req.Amount, requestID)

	h.logger.Debug("payment_authorized", confirmation, requestID, map[string]interface{}{
		"method": string(ParseMethod(req.Method)),
		"amount": req.Amount,
	})

	web.WriteJSON(w, http.StatusOK, ProcessResponse{Status: "SUCCESS", Message: confirmation})
}

// Summary reports the per-method authorization tally.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if h.tally == nil {
		web.WriteMessage(w, http.StatusServiceUnavailable, "Payment tally not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	summaries, err := h.tally.Summary(ctx, Methods())
	if err != nil {
		h.logger.Error("tally_read_failed", "Failed to read payment tally", "", err, nil)
		web.WriteMessage(w, http.StatusServiceUnavailable, "Payment tally unavailable")
		return
	}

	web.WriteJSON(w, http.StatusOK, summaries)
}

// record tallies the authorization, tolerating tally outages.
func (h *Handler) record(method string, amount float64, requestID string) {
	if h.tally == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.tally.Record(ctx, string(ParseMethod(method)), amount); err != nil {
		h.logger.Error("tally_write_failed", "Failed to record payment tally", requestID, err, nil)
	}
}
