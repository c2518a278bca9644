package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/navidnahidi/peek-exercise/internal/app"
	"github.com/navidnahidi/peek-exercise/internal/domain"
)

const defaultPageSize = 10

// OrderCollectionService is the minimal interface needed for the orders
// collection endpoints.
type OrderCollectionService interface {
	CreateOrder(ctx context.Context, in app.CreateOrderInput) (domain.Order, error)
	ListOrders(ctx context.Context, in app.ListOrdersInput) (app.ListOrdersResult, error)
}

// HandleOrders returns an HTTP handler for creating orders and listing a
// customer's orders.
func HandleOrders(svc OrderCollectionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handleCreateOrder(w, r, svc)
		case http.MethodGet:
			handleListOrders(w, r, svc)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func handleCreateOrder(w http.ResponseWriter, r *http.Request, svc OrderCollectionService) {
	var req createOrderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	order, err := svc.CreateOrder(r.Context(), app.CreateOrderInput{
		Email:  req.Email,
		Amount: req.Amount.float(),
	})
	if err != nil {
		// Validation failures on this route surface as 500; create-and-pay
		// maps the same failures to 400. Kept for API compatibility.
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(orderSummary(order))
}

func handleListOrders(w http.ResponseWriter, r *http.Request, svc OrderCollectionService) {
	q := r.URL.Query()
	in := app.ListOrdersInput{
		Email:     q.Get("email"),
		Page:      1,
		Limit:     defaultPageSize,
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, domain.ErrInvalidPage.Error(), http.StatusBadRequest)
			return
		}
		in.Page = page
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			// Unparseable limits fall back to the pagination ceiling.
			limit = 0
		}
		in.Limit = limit
	}

	res, err := svc.ListOrders(r.Context(), in)
	if err != nil {
		switch err {
		case domain.ErrInvalidEmail, domain.ErrInvalidPage:
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	resp := listOrdersResponse{
		Orders:      make([]orderResponse, 0, len(res.Orders)),
		TotalPages:  res.TotalPages,
		CurrentPage: res.CurrentPage,
	}
	for _, order := range res.Orders {
		resp.Orders = append(resp.Orders, orderSummary(order))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type createOrderRequest struct {
	Email  string      `json:"email"`
	Amount amountField `json:"amount"`
}

// orderResponse keeps the legacy camelCase wire format.
type orderResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	OriginalAmount float64   `json:"originalAmount"`
	Balance        float64   `json:"balance"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type listOrdersResponse struct {
	Orders      []orderResponse `json:"orders"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
}

func orderSummary(o domain.Order) orderResponse {
	return orderResponse{
		ID:             o.ID,
		Email:          o.Email,
		OriginalAmount: o.OriginalAmount,
		Balance:        o.Balance,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}
