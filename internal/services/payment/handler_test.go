package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-ordering-system/internal/logger"
)

type unreachableAuthorizer struct{}

func (unreachableAuthorizer) Authorize(context.Context, float64, string) (string, error) {
	return "", ErrUnavailable
}

func newPaymentMux(auth Authorizer) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(auth, nil, logger.New("payment-test")).Register(mux)
	return mux
}

func TestProcess_Success(t *testing.T) {
	mux := newPaymentMux(LocalAuthorizer{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/payment/process",
		strings.NewReader(`{"amount": 550, "method": "gpay"}`))
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SUCCESS", resp.Status)
	assert.Equal(t, "Paid ₹550.00 via Google Pay", resp.Message)
}

func TestProcess_InvalidInputs(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"malformed json", `{"amount": `, http.StatusBadRequest, "Invalid JSON format"},
		{"zero amount", `{"amount": 0, "method": "gpay"}`, http.StatusBadRequest, "Invalid amount"},
		{"negative amount", `{"amount": -5, "method": "card"}`, http.StatusBadRequest, "Invalid amount"},
	}

	mux := newPaymentMux(LocalAuthorizer{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/payment/process", strings.NewReader(tt.body))
			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestProcess_AuthorizerUnavailable(t *testing.T) {
	mux := newPaymentMux(unreachableAuthorizer{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/payment/process",
		strings.NewReader(`{"amount": 100, "method": "card"}`))
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSummary_WithoutTally(t *testing.T) {
	mux := newPaymentMux(LocalAuthorizer{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/payment/summary", nil)
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
