package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/storefront-gateway/internal/domain"
)

// OrderRepository defines persistence access for checkout orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	ListByCustomer(ctx context.Context, email string) ([]domain.Order, error)
	GetByID(ctx context.Context, id, email string) (*domain.Order, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a Postgres-backed implementation.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("encode order lines: %w", err)
	}

	const query = `
        INSERT INTO orders (id, customer_email, lines, subtotal, shipping_fee, tax, total, total_items,
                            shipping_name, shipping_phone, address, district, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		order.ID,
		order.CustomerEmail,
		lines,
		order.Summary.Subtotal,
		order.Summary.ShippingFee,
		order.Summary.Tax,
		order.Summary.Total,
		order.Summary.TotalItems,
		order.ShippingName,
		order.ShippingPhone,
		order.Address,
		order.District,
		order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
}

const orderColumns = `
        SELECT id, customer_email, lines, subtotal, shipping_fee, tax, total, total_items,
               shipping_name, shipping_phone, address, district, status, created_at, updated_at
        FROM orders`

func (r *orderRepository) ListByCustomer(ctx context.Context, email string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, orderColumns+` WHERE customer_email=$1 ORDER BY created_at DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *orderRepository) GetByID(ctx context.Context, id, email string) (*domain.Order, error) {
	rows, err := r.pool.Query(ctx, orderColumns+` WHERE id=$1 AND customer_email=$2`, id, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, pgx.ErrNoRows
	}
	return scanOrder(rows)
}

func scanOrder(rows pgx.Rows) (*domain.Order, error) {
	var order domain.Order
	var lines []byte
	if err := rows.Scan(
		&order.ID,
		&order.CustomerEmail,
		&lines,
		&order.Summary.Subtotal,
		&order.Summary.ShippingFee,
		&order.Summary.Tax,
		&order.Summary.Total,
		&order.Summary.TotalItems,
		&order.ShippingName,
		&order.ShippingPhone,
		&order.Address,
		&order.District,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(lines, &order.Lines); err != nil {
		return nil, fmt.Errorf("decode order lines: %w", err)
	}
	return &order, nil
}
