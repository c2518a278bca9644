package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/navidnahidi/peek-exercise/internal/domain"
)

// OrderGetter is the minimal interface needed to fetch one order.
type OrderGetter interface {
	GetOrder(ctx context.Context, id string) (domain.Order, error)
}

// HandleGetOrder returns an HTTP handler for fetching an order together with
// its payment history.
func HandleGetOrder(svc OrderGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id, ok := parseOrderPath(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			switch err {
			case domain.ErrInvalidID:
				http.Error(w, "order id is required", http.StatusBadRequest)
			case domain.ErrOrderNotFound:
				http.Error(w, err.Error(), http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(orderDetail(order))
	}
}

// HandleOrderByID routes the /orders/{id} subtree: GET fetches the order,
// POST on /orders/{id}/payment applies a payment.
func HandleOrderByID(get OrderGetter, pay PaymentApplier) http.HandlerFunc {
	getHandler := HandleGetOrder(get)
	payHandler := HandleApplyPayment(pay)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := parseApplyPaymentPath(r.URL.Path); ok {
			payHandler(w, r)
			return
		}
		if _, ok := parseOrderPath(r.URL.Path); ok {
			getHandler(w, r)
			return
		}
		if strings.Trim(r.URL.Path, "/") == "orders" {
			http.Error(w, "order id is required", http.StatusBadRequest)
			return
		}
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	}
}

func parseOrderPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		return "", false
	}
	if parts[0] != "orders" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type orderDetailResponse struct {
	orderResponse
	Payments []paymentResponse `json:"payments"`
}

type paymentResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"OrderId"` // legacy field casing
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func orderDetail(o domain.Order) orderDetailResponse {
	resp := orderDetailResponse{
		orderResponse: orderSummary(o),
		Payments:      make([]paymentResponse, 0, len(o.Payments)),
	}
	for _, p := range o.Payments {
		resp.Payments = append(resp.Payments, paymentResponse{
			ID:        p.ID,
			OrderID:   p.OrderID,
			Amount:    p.Amount,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return resp
}
