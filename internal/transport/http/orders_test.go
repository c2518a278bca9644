package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/navidnahidi/peek-exercise/internal/app"
	"github.com/navidnahidi/peek-exercise/internal/domain"
)

func TestHandleOrders_Create(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	created := domain.Order{
		ID:             "order-1",
		Email:          "a@b.com",
		OriginalAmount: 100,
		Balance:        100,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "created",
			body:           `{"email":"a@b.com","amount":100}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"originalAmount":100`,
		},
		{
			name:           "string amount accepted",
			body:           `{"email":"a@b.com","amount":"100.45"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid json",
			body:           `{"email":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			// Validation failures surface as 500 on this route.
			name:           "invalid email",
			body:           `{"email":"nope","amount":100}`,
			serviceErr:     domain.ErrInvalidEmail,
			expectedStatus: http.StatusInternalServerError,
			expectedSubstr: "Internal Server Error",
		},
		{
			name:           "invalid amount",
			body:           `{"email":"a@b.com","amount":0}`,
			serviceErr:     domain.ErrInvalidAmount,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "store failure",
			body:           `{"email":"a@b.com","amount":100}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubOrderCollection{order: created, err: tt.serviceErr}

			req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleOrders(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleOrders_CreatePassesNaNForMissingAmount(t *testing.T) {
	t.Parallel()

	svc := &stubOrderCollection{err: domain.ErrInvalidAmount}
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(`{"email":"a@b.com"}`))
	rec := httptest.NewRecorder()

	HandleOrders(svc).ServeHTTP(rec, req)

	if !math.IsNaN(svc.lastCreate.Amount) {
		t.Fatalf("expected NaN for missing amount, got %v", svc.lastCreate.Amount)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestHandleOrders_List(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	result := app.ListOrdersResult{
		Orders: []domain.Order{{
			ID:             "order-1",
			Email:          "a@b.com",
			OriginalAmount: 100,
			Balance:        60,
			CreatedAt:      now,
			UpdatedAt:      now,
		}},
		TotalPages:  3,
		CurrentPage: 2,
	}

	tests := []struct {
		name           string
		target         string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "ok",
			target:         "/orders?email=a@b.com&page=2&limit=1",
			expectedStatus: http.StatusOK,
			expectedSubstr: `"totalPages":3`,
		},
		{
			name:           "invalid email",
			target:         "/orders?email=nope",
			serviceErr:     domain.ErrInvalidEmail,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid page value",
			target:         "/orders?email=a@b.com&page=abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "negative page",
			target:         "/orders?email=a@b.com&page=-1",
			serviceErr:     domain.ErrInvalidPage,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "store failure",
			target:         "/orders?email=a@b.com",
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubOrderCollection{list: result, err: tt.serviceErr}

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()

			HandleOrders(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleOrders_ListDefaultsAndFallbacks(t *testing.T) {
	t.Parallel()

	svc := &stubOrderCollection{}
	req := httptest.NewRequest(http.MethodGet, "/orders?email=a@b.com", nil)
	rec := httptest.NewRecorder()
	HandleOrders(svc).ServeHTTP(rec, req)

	if svc.lastList.Page != 1 {
		t.Fatalf("expected default page 1, got %d", svc.lastList.Page)
	}
	if svc.lastList.Limit != 10 {
		t.Fatalf("expected default limit 10, got %d", svc.lastList.Limit)
	}

	req = httptest.NewRequest(http.MethodGet, "/orders?email=a@b.com&limit=abc", nil)
	rec = httptest.NewRecorder()
	HandleOrders(svc).ServeHTTP(rec, req)

	if svc.lastList.Limit != 0 {
		t.Fatalf("expected unparseable limit to pass 0, got %d", svc.lastList.Limit)
	}

	var resp listOrdersResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Orders == nil {
		t.Fatalf("expected orders array in response")
	}
}

func TestHandleOrders_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodDelete, "/orders", nil)
	rec := httptest.NewRecorder()

	HandleOrders(&stubOrderCollection{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

type stubOrderCollection struct {
	order domain.Order
	list  app.ListOrdersResult
	err   error

	lastCreate app.CreateOrderInput
	lastList   app.ListOrdersInput
}

func (s *stubOrderCollection) CreateOrder(_ context.Context, in app.CreateOrderInput) (domain.Order, error) {
	s.lastCreate = in
	return s.order, s.err
}

func (s *stubOrderCollection) ListOrders(_ context.Context, in app.ListOrdersInput) (app.ListOrdersResult, error) {
	s.lastList = in
	return s.list, s.err
}
