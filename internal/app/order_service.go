package app

import (
	"context"
	"math"
	"time"

	"github.com/navidnahidi/peek-exercise/internal/clock"
	"github.com/navidnahidi/peek-exercise/internal/domain"
)

type OrderRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateOrder(ctx context.Context, order domain.Order) error
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ListOrdersByEmail(ctx context.Context, email string, limit, offset int, sortBy string, desc bool) ([]domain.Order, int, error)
	CreatePayment(ctx context.Context, payment domain.Payment) error
	UpdateOrderBalance(ctx context.Context, orderID string, balance float64, updatedAt time.Time) error
	FindPaymentSince(ctx context.Context, orderID string, amount float64, since time.Time) (*domain.Payment, error)
}

const (
	maxPageLimit           = 100
	defaultSortField       = "createdAt"
	defaultDuplicateWindow = 30 * time.Second
)

var sortFields = map[string]struct{}{
	"createdAt":      {},
	"updatedAt":      {},
	"originalAmount": {},
	"balance":        {},
}

type OrderService struct {
	repo      OrderRepository
	clock     clock.Clock
	payments  PaymentProcessor
	dupWindow time.Duration
}

func NewOrderService(repo OrderRepository, clk clock.Clock, payments PaymentProcessor, opts ...OrderServiceOption) *OrderService {
	svc := &OrderService{
		repo:      repo,
		clock:     clk,
		payments:  payments,
		dupWindow: defaultDuplicateWindow,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type OrderServiceOption func(*OrderService)

// WithDuplicateWindow overrides how far back an equal payment suppresses a new one.
func WithDuplicateWindow(d time.Duration) OrderServiceOption {
	return func(s *OrderService) {
		if d > 0 {
			s.dupWindow = d
		}
	}
}

type CreateOrderInput struct {
	Email  string
	Amount float64
}

func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	order, err := s.buildOrder(in.Email, in.Amount)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// buildOrder validates the creation inputs shared by CreateOrder and
// CreateOrderAndPay and assembles the new order.
func (s *OrderService) buildOrder(email string, amount float64) (domain.Order, error) {
	email = domain.NormalizeEmail(email)
	if !domain.ValidEmail(email) {
		return domain.Order{}, domain.ErrInvalidEmail
	}
	normalized := domain.NormalizeAmount(amount)
	if normalized == 0 || !domain.IsPositiveAmount(normalized) {
		return domain.Order{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	return domain.Order{
		ID:             newID(),
		Email:          email,
		OriginalAmount: normalized,
		Balance:        normalized,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

type CreateOrderAndPayInput struct {
	Email         string
	Amount        float64
	PaymentAmount float64
}

// CreateOrderAndPay creates an order and applies one payment to it in a single
// transaction. Any failure, the simulated payment outcome included, rolls the
// whole operation back so no order or payment row is left behind.
func (s *OrderService) CreateOrderAndPay(ctx context.Context, in CreateOrderAndPayInput) (domain.Order, error) {
	order, err := s.buildOrder(in.Email, in.Amount)
	if err != nil {
		return domain.Order{}, err
	}
	paymentAmount := domain.NormalizeAmount(in.PaymentAmount)
	if !domain.IsPositiveAmount(paymentAmount) {
		return domain.Order{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateOrder(txCtx, order); err != nil {
			return err
		}
		if err := s.payments.Process(txCtx, order.ID, paymentAmount); err != nil {
			return err
		}
		payment := domain.Payment{
			ID:        newID(),
			OrderID:   order.ID,
			Amount:    paymentAmount,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.CreatePayment(txCtx, payment); err != nil {
			return err
		}
		// A payment larger than the order amount drives the balance negative
		// here; only ApplyPayment rejects that case.
		order.Balance = domain.NormalizeAmount(order.Balance - paymentAmount)
		order.UpdatedAt = now
		return s.repo.UpdateOrderBalance(txCtx, order.ID, order.Balance, now)
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

type ApplyPaymentInput struct {
	OrderID string
	Amount  float64
}

// ApplyPaymentResult carries the resulting order. Applied is false when an
// equal payment inside the duplicate window made the request a no-op.
type ApplyPaymentResult struct {
	Order   domain.Order
	Applied bool
}

// ApplyPayment records a payment against an existing order and decrements its
// balance. A payment with the same normalized amount created within the
// duplicate window is treated as already applied and changes nothing. The
// balance check and write are isolated only by the surrounding transaction;
// two concurrent payments against one order can race on it.
func (s *OrderService) ApplyPayment(ctx context.Context, in ApplyPaymentInput) (ApplyPaymentResult, error) {
	if in.OrderID == "" {
		return ApplyPaymentResult{}, domain.ErrInvalidID
	}
	amount := domain.NormalizeAmount(in.Amount)
	if !domain.IsPositiveAmount(amount) {
		return ApplyPaymentResult{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now()
	order, err := s.repo.GetOrder(ctx, in.OrderID)
	if err != nil {
		return ApplyPaymentResult{}, err
	}

	duplicate, err := s.repo.FindPaymentSince(ctx, order.ID, amount, now.Add(-s.dupWindow))
	if err != nil {
		return ApplyPaymentResult{}, err
	}
	if duplicate != nil {
		return ApplyPaymentResult{Order: order, Applied: false}, nil
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetOrder(txCtx, in.OrderID)
		if err != nil {
			return err
		}
		balance := domain.NormalizeAmount(current.Balance - amount)
		if balance < 0 {
			return domain.ErrInsufficientBalance
		}
		payment := domain.Payment{
			ID:        newID(),
			OrderID:   current.ID,
			Amount:    amount,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.CreatePayment(txCtx, payment); err != nil {
			return err
		}
		return s.repo.UpdateOrderBalance(txCtx, current.ID, balance, now)
	})
	if err != nil {
		return ApplyPaymentResult{}, err
	}

	updated, err := s.repo.GetOrder(ctx, in.OrderID)
	if err != nil {
		return ApplyPaymentResult{}, err
	}
	return ApplyPaymentResult{Order: updated, Applied: true}, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	if id == "" {
		return domain.Order{}, domain.ErrInvalidID
	}
	return s.repo.GetOrder(ctx, id)
}

type ListOrdersInput struct {
	Email     string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type ListOrdersResult struct {
	Orders      []domain.Order
	TotalPages  int
	CurrentPage int
}

// ListOrders returns one page of a customer's orders. Page 0 resolves to 1,
// a non-positive limit falls back to the pagination ceiling, sortBy outside
// the allow-list falls back to creation time, and sortOrder is descending
// only on an exact "desc".
func (s *OrderService) ListOrders(ctx context.Context, in ListOrdersInput) (ListOrdersResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if !domain.ValidEmail(email) {
		return ListOrdersResult{}, domain.ErrInvalidEmail
	}

	page := in.Page
	if page == 0 {
		page = 1
	}
	if page < 0 {
		return ListOrdersResult{}, domain.ErrInvalidPage
	}

	limit := in.Limit
	if limit <= 0 {
		limit = maxPageLimit
	}

	sortBy := in.SortBy
	if _, ok := sortFields[sortBy]; !ok {
		sortBy = defaultSortField
	}

	orders, total, err := s.repo.ListOrdersByEmail(
		ctx,
		email,
		limit,
		(page-1)*limit,
		sortBy,
		in.SortOrder == "desc",
	)
	if err != nil {
		return ListOrdersResult{}, err
	}

	return ListOrdersResult{
		Orders:      orders,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}, nil
}
