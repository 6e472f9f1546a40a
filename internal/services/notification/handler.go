package notification

import (
	"encoding/json"
	"net/http"

	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/web"
)

// SendBillRequest is the payload for POST /notification/send_bill.
type SendBillRequest struct {
	ToEmail     string `json:"to_email"`
	BillContent string `json:"bill_content"`
}

// Handler serves the notification endpoint of a transaction node.
type Handler struct {
	dispatcher Dispatcher
	logger     *logger.Logger
}

// NewHandler creates a notification handler.
func NewHandler(dispatcher Dispatcher, log *logger.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		logger:     log,
	}
}

// Register mounts the notification routes.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /notification/send_bill", h.SendBill)
}

// SendBill delivers a receipt to the requested recipient.
func (h *Handler) SendBill(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	var req SendBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteMessage(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if req.ToEmail == "" {
		web.WriteMessage(w, http.StatusBadRequest, "No recipient")
		return
	}

	if err := h.dispatcher.Send(r.Context(), req.ToEmail, req.BillContent); err != nil {
		h.logger.Error("mail_send_failed", "Failed to deliver bill", requestID, err, map[string]interface{}{
			"recipient": req.ToEmail,
		})
		web.WriteMessage(w, http.StatusBadGateway, "Failed to send email")
		return
	}

	web.WriteMessage(w, http.StatusOK, "Email sent successfully")
}
