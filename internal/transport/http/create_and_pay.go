package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/navidnahidi/peek-exercise/internal/app"
	"github.com/navidnahidi/peek-exercise/internal/domain"
)

// OrderAndPayCreator is the minimal interface needed for the compound
// create-and-pay flow.
type OrderAndPayCreator interface {
	CreateOrderAndPay(ctx context.Context, in app.CreateOrderAndPayInput) (domain.Order, error)
}

// HandleCreateOrderAndPay returns an HTTP handler that creates an order and
// applies one payment to it atomically. Any failure, the simulated payment
// outcome included, maps to 400 with the underlying message.
func HandleCreateOrderAndPay(svc OrderAndPayCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req createOrderAndPayRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		order, err := svc.CreateOrderAndPay(r.Context(), app.CreateOrderAndPayInput{
			Email:         req.Email,
			Amount:        req.Amount.float(),
			PaymentAmount: req.PaymentAmount.float(),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(orderSummary(order))
	}
}

type createOrderAndPayRequest struct {
	Email         string      `json:"email"`
	Amount        amountField `json:"amount"`
	PaymentAmount amountField `json:"paymentAmount"`
}
