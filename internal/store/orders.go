package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"grocery-api/internal/models"
)

// orderColumns aliases the flattened address columns back onto the nested
// Address struct for sqlx scanning.
const orderColumns = `
	id, amount, status, payment_type, is_paid, payment_status,
	created_at, updated_at,
	first_name AS "address.first_name",
	last_name AS "address.last_name",
	phone AS "address.phone",
	street AS "address.street",
	town AS "address.town",
	payment_method AS "address.payment_method"`

// CreateOrder persists an order and its items in one transaction. Either the
// whole order lands or nothing does.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, amount, status, payment_type, is_paid, payment_status,
			first_name, last_name, phone, street, town, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	row := tx.QueryRowxContext(ctx, query,
		order.ID, order.Amount, order.Status, order.PaymentType,
		order.IsPaid, order.PaymentStatus,
		order.Address.FirstName, order.Address.LastName, order.Address.Phone,
		order.Address.Street, order.Address.Town, order.Address.PaymentMethod)
	if err := row.Scan(&order.CreatedAt, &order.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			items[i].OrderID, items[i].ProductID, items[i].Quantity, items[i].UnitPrice,
		).Scan(&items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order by ID, without items.
func (s *Store) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders retrieves every order in seller triage order: unpaid first,
// pending payments first, then status, then most recent.
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT "+orderColumns+` FROM orders
		ORDER BY is_paid ASC, payment_status ASC, status ASC, created_at DESC`)
	return orders, err
}

// GetOrderItemsByOrderID retrieves all items for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// UpdateOrderStatus overwrites the order status. Any status is reachable from
// any other; validation happens in the service layer.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		status, orderID)
	if err != nil {
		return err
	}
	return s.checkOrderFound(res, orderID)
}

// UpdatePaymentStatus sets the payment status and derives is_paid in the same
// statement, so the two can never disagree.
func (s *Store) UpdatePaymentStatus(ctx context.Context, orderID, paymentStatus string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders
		SET payment_status = $1, is_paid = ($1 = 'Verified'), updated_at = NOW()
		WHERE id = $2`,
		paymentStatus, orderID)
	if err != nil {
		return err
	}
	return s.checkOrderFound(res, orderID)
}

// DeleteOrdersBefore removes orders created before the cutoff, items included.
// Used by the retention worker.
func (s *Store) DeleteOrdersBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE created_at < $1)",
		cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired order items: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM orders WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired orders: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return deleted, tx.Commit()
}

func (s *Store) checkOrderFound(res sql.Result, orderID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return nil
}
