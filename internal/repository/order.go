package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopveda/storefront/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (
		id, order_number, customer, items, subtotal, discount, coupon_code,
		total_amount, payment_status, order_status, payment_id, utr_number,
		payment_proof_url, payment_submitted_at, verified_amount, verified_at,
		verified_by, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	selectOrderColumns = `id, order_number, customer, items, subtotal, discount, coupon_code,
		total_amount, payment_status, order_status, payment_id, utr_number,
		payment_proof_url, payment_submitted_at, verified_amount, verified_at,
		verified_by, created_at, updated_at`

	listOrdersSQL = `SELECT ` + selectOrderColumns + ` FROM orders ORDER BY created_at DESC`

	getOrderByIDSQL = `SELECT ` + selectOrderColumns + ` FROM orders WHERE id = $1`

	updateOrderSQL = `UPDATE orders SET
		payment_status = $2, order_status = $3, payment_id = $4, utr_number = $5,
		payment_proof_url = $6, payment_submitted_at = $7, verified_amount = $8,
		verified_at = $9, verified_by = $10, updated_at = $11
	WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Customer
// details and item snapshots are stored as JSONB; decimal amounts inside the
// snapshots serialize as strings, so prices round-trip without loss.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order with every field it was created with.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	customerJSON, itemsJSON, err := marshalOrderDocs(o)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.OrderNumber, customerJSON, itemsJSON, o.Subtotal, o.Discount,
		o.CouponCode, o.TotalAmount, string(o.PaymentStatus), string(o.OrderStatus),
		o.PaymentID, o.UTRNumber, o.PaymentProofURL, o.PaymentSubmittedAt,
		o.VerifiedAmount, o.VerifiedAt, o.VerifiedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// GetByID returns a single order by its identifier. Returns order.ErrNotFound
// when no matching order exists.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// Update persists the mutable payment and fulfillment fields. The pricing
// fields and item snapshots are immutable after creation and are not touched.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	tag, err := r.pool.Exec(ctx, updateOrderSQL,
		o.ID, string(o.PaymentStatus), string(o.OrderStatus), o.PaymentID,
		o.UTRNumber, o.PaymentProofURL, o.PaymentSubmittedAt, o.VerifiedAmount,
		o.VerifiedAt, o.VerifiedBy, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func marshalOrderDocs(o *order.Order) (customerJSON, itemsJSON []byte, err error) {
	customerJSON, err = json.Marshal(o.Customer)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling order customer: %w", err)
	}
	itemsJSON, err = json.Marshal(o.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling order items: %w", err)
	}
	return customerJSON, itemsJSON, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o             order.Order
		customerJSON  []byte
		itemsJSON     []byte
		paymentStatus string
		orderStatus   string
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &customerJSON, &itemsJSON, &o.Subtotal,
		&o.Discount, &o.CouponCode, &o.TotalAmount, &paymentStatus, &orderStatus,
		&o.PaymentID, &o.UTRNumber, &o.PaymentProofURL, &o.PaymentSubmittedAt,
		&o.VerifiedAmount, &o.VerifiedAt, &o.VerifiedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return o, err
	}

	o.PaymentStatus = order.PaymentStatus(paymentStatus)
	o.OrderStatus = order.OrderStatus(orderStatus)

	if err := json.Unmarshal(customerJSON, &o.Customer); err != nil {
		return o, fmt.Errorf("unmarshaling order customer: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return o, fmt.Errorf("unmarshaling order items: %w", err)
	}
	return o, nil
}
