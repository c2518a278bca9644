package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/navidnahidi/peek-exercise/internal/app"
	"github.com/navidnahidi/peek-exercise/internal/domain"
)

func TestHandleCreateOrderAndPay(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	order := domain.Order{
		ID:             "order-1",
		Email:          "a@b.com",
		OriginalAmount: 100,
		Balance:        60,
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
			body:           `{"email":"a@b.com","amount":100,"paymentAmount":40}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"balance":60`,
		},
		{
			name:           "string amounts accepted",
			body:           `{"email":"a@b.com","amount":"100","paymentAmount":"40"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid json",
			body:           `{"email":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid email maps to 400",
			body:           `{"email":"nope","amount":100,"paymentAmount":40}`,
			serviceErr:     domain.ErrInvalidEmail,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "invalid email format",
		},
		{
			name:           "payment failure maps to 400",
			body:           `{"email":"a@b.com","amount":100,"paymentAmount":40}`,
			serviceErr:     domain.ErrPaymentFailed,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "payment failed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubOrderAndPayCreator{order: order, err: tt.serviceErr}

			req := httptest.NewRequest(http.MethodPost, "/orders/create-and-pay", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleCreateOrderAndPay(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleCreateOrderAndPay_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/orders/create-and-pay", nil)
	rec := httptest.NewRecorder()

	HandleCreateOrderAndPay(&stubOrderAndPayCreator{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

type stubOrderAndPayCreator struct {
	order domain.Order
	err   error
}

func (s *stubOrderAndPayCreator) CreateOrderAndPay(_ context.Context, _ app.CreateOrderAndPayInput) (domain.Order, error) {
	return s.order, s.err
}
