package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/navidnahidi/peek-exercise/internal/app"
	"github.com/navidnahidi/peek-exercise/internal/domain"
)

// PaymentApplier is the minimal interface needed to apply a payment to an
// existing order.
type PaymentApplier interface {
	ApplyPayment(ctx context.Context, in app.ApplyPaymentInput) (app.ApplyPaymentResult, error)
}

// HandleApplyPayment returns an HTTP handler for applying a payment to an
// order. Repeating an equal amount inside the duplicate window responds 200
// without creating a new payment.
func HandleApplyPayment(svc PaymentApplier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		orderID, ok := parseApplyPaymentPath(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}

		var req applyPaymentRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		res, err := svc.ApplyPayment(r.Context(), app.ApplyPaymentInput{
			OrderID: orderID,
			Amount:  req.Amount.float(),
		})
		if err != nil {
			switch err {
			case domain.ErrInvalidID, domain.ErrInvalidAmount, domain.ErrInsufficientBalance:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case domain.ErrOrderNotFound:
				http.Error(w, err.Error(), http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if res.Applied {
			w.WriteHeader(http.StatusCreated)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(orderDetail(res.Order))
	}
}

type applyPaymentRequest struct {
	Amount amountField `json:"amount"`
}

func parseApplyPaymentPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "orders" || parts[2] != "payment" {
		return "", false
	}
	if parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
