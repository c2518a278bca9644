package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/navidnahidi/peek-exercise/internal/domain"
)

// sortColumns maps API sort field names onto table columns. Anything else
// falls back to creation time.
var sortColumns = map[string]string{
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
	"originalAmount": "original_amount",
	"balance":        "balance",
}

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (id, email, original_amount, balance, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt,
		order.ID, order.Email, order.OriginalAmount, order.Balance, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// GetOrder loads an order together with its payment history. A malformed id
// is reported the same way as a missing row.
func (r *OrderRepository) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	const query = `
SELECT id, email, original_amount, balance, created_at, updated_at
FROM orders
WHERE id = $1`

	var o domain.Order
	err := r.queryRow(ctx, query, id).
		Scan(&o.ID, &o.Email, &o.OriginalAmount, &o.Balance, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows || isInvalidUUID(err) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	payments, err := r.listPayments(ctx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Payments = payments
	return o, nil
}

func (r *OrderRepository) ListOrdersByEmail(ctx context.Context, email string, limit, offset int, sortBy string, desc bool) ([]domain.Order, int, error) {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if desc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
SELECT id, email, original_amount, balance, created_at, updated_at
FROM orders
WHERE email = $1
ORDER BY %s %s
LIMIT $2 OFFSET $3`, column, direction)

	rows, err := r.query(ctx, query, email, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Email, &o.OriginalAmount, &o.Balance, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	var total int
	if err := r.queryRow(ctx, `SELECT COUNT(*) FROM orders WHERE email = $1`, email).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	return orders, total, nil
}

func (r *OrderRepository) CreatePayment(ctx context.Context, payment domain.Payment) error {
	const stmt = `
INSERT INTO payments (id, order_id, amount, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.exec(ctx, stmt,
		payment.ID, payment.OrderID, payment.Amount, payment.CreatedAt, payment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *OrderRepository) UpdateOrderBalance(ctx context.Context, orderID string, balance float64, updatedAt time.Time) error {
	const stmt = `UPDATE orders SET balance = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderID, balance, updatedAt)
	if err != nil {
		return fmt.Errorf("update order balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// FindPaymentSince returns the newest payment on the order with the given
// amount created strictly after since, or nil when there is none.
func (r *OrderRepository) FindPaymentSince(ctx context.Context, orderID string, amount float64, since time.Time) (*domain.Payment, error) {
	const query = `
SELECT id, order_id, amount, created_at, updated_at
FROM payments
WHERE order_id = $1 AND amount = $2 AND created_at > $3
ORDER BY created_at DESC
LIMIT 1`

	var p domain.Payment
	err := r.queryRow(ctx, query, orderID, amount, since).
		Scan(&p.ID, &p.OrderID, &p.Amount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &p, nil
}

func (r *OrderRepository) listPayments(ctx context.Context, orderID string) ([]domain.Payment, error) {
	const query = `
SELECT id, order_id, amount, created_at, updated_at
FROM payments
WHERE order_id = $1
ORDER BY created_at`

	rows, err := r.query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
