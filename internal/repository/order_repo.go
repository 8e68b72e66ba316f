package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ordertrack/internal/models"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

var _ Orders = (*OrderRepository)(nil)

// Every statement filters on user_id; the row set of another user is
// indistinguishable from an empty table.
const (
	selectOrdersByUserSQL = `
		SELECT id, content, order_number, status, amount, user_id, created_at, updated_at
		FROM orders WHERE user_id = ? ORDER BY created_at DESC`

	selectOrderByIDSQL = `
		SELECT id, content, order_number, status, amount, user_id, created_at, updated_at
		FROM orders WHERE id = ? AND user_id = ?`

	insertOrderSQL = `
		INSERT INTO orders (id, content, order_number, status, amount, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	updateOrderSQL = `
		UPDATE orders SET content = ?, order_number = ?, status = ?, amount = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	deleteOrderSQL = `DELETE FROM orders WHERE id = ? AND user_id = ?`

	statsByUserSQL = `SELECT status, COUNT(*), COALESCE(SUM(amount), 0) FROM orders WHERE user_id = ? GROUP BY status`
)

// ListByUser returns the user's orders, newest created first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, selectOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("select orders for user %q: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Order, 0, 16)
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows.Scan, &o); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return out, nil
}

// GetByID fetches one order owned by userID. Returns (nil, nil) both when
// the order does not exist and when it belongs to someone else.
func (r *OrderRepository) GetByID(ctx context.Context, userID, orderID string) (*models.Order, error) {
	var o models.Order
	row := r.db.QueryRowContext(ctx, selectOrderByIDSQL, orderID, userID)
	if err := scanOrder(row.Scan, &o); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order %q: %w", orderID, err)
	}
	return &o, nil
}

// Insert persists a fully populated order.
func (r *OrderRepository) Insert(ctx context.Context, o models.Order) error {
	_, err := r.db.ExecContext(ctx, insertOrderSQL,
		o.ID, o.Content, o.OrderNumber, string(o.Status), o.Amount, o.UserID,
		formatTime(o.CreatedAt), formatTime(o.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert order %q: %w", o.ID, err)
	}
	return nil
}

// Update full-replaces the mutable fields of an owned order. The bool result
// reports whether a row matched (false covers missing and foreign orders alike).
func (r *OrderRepository) Update(ctx context.Context, o models.Order) (bool, error) {
	res, err := r.db.ExecContext(ctx, updateOrderSQL,
		o.Content, o.OrderNumber, string(o.Status), o.Amount, formatTime(o.UpdatedAt),
		o.ID, o.UserID)
	if err != nil {
		return false, fmt.Errorf("update order %q: %w", o.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for order %q: %w", o.ID, err)
	}
	return n > 0, nil
}

// Delete removes an owned order; false means nothing matched.
func (r *OrderRepository) Delete(ctx context.Context, userID, orderID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteOrderSQL, orderID, userID)
	if err != nil {
		return false, fmt.Errorf("delete order %q: %w", orderID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for order %q: %w", orderID, err)
	}
	return n > 0, nil
}

// StatsByUser aggregates counts and amount sums grouped by status in a
// single pass; recomputed on every call, no caching.
func (r *OrderRepository) StatsByUser(ctx context.Context, userID string) (models.OrderStats, error) {
	var stats models.OrderStats

	rows, err := r.db.QueryContext(ctx, statsByUserSQL, userID)
	if err != nil {
		return stats, fmt.Errorf("aggregate orders for user %q: %w", userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int
			sum    float64
		)
		if err := rows.Scan(&status, &count, &sum); err != nil {
			return stats, fmt.Errorf("scan stats row: %w", err)
		}
		stats.Total += count
		switch models.OrderStatus(status) {
		case models.StatusPlaced:
			stats.Pending, stats.PendingAmount = count, sum
		case models.StatusCompleted:
			stats.Completed, stats.CompletedAmount = count, sum
		case models.StatusSettled:
			stats.Settled, stats.SettledAmount = count, sum
		default:
			// Unknown persisted status still counts toward the total.
		}
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterate stats rows: %w", err)
	}
	return stats, nil
}

type scanFunc func(dest ...any) error

func scanOrder(scan scanFunc, o *models.Order) error {
	var status string
	if err := scan(&o.ID, &o.Content, &o.OrderNumber, &status, &o.Amount, &o.UserID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}
	o.Status = models.OrderStatus(status)
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return nil
}
