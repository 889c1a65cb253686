package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ahmdfariiss/nilasense/internal/models"
	"github.com/ahmdfariiss/nilasense/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	selectOrderByGatewayRefQuery = `
						SELECT id, user_id, order_number, total_amount, status, payment_status, shipping_address,
						       payment_gateway, gateway_token, gateway_correlation_key, gateway_transaction_id,
						       gateway_event_at, paid_at, created_at, updated_at
						FROM orders
						WHERE gateway_correlation_key = $1 OR order_number = $1
`
	selectOrderByNumberQuery = `
						SELECT id, user_id, order_number, total_amount, status, payment_status, shipping_address,
						       payment_gateway, gateway_token, gateway_correlation_key, gateway_transaction_id,
						       gateway_event_at, paid_at, created_at, updated_at
						FROM orders
						WHERE order_number = $1
`
	selectOrderForUpdateQuery = `
						SELECT id, user_id, order_number, total_amount, status, payment_status, shipping_address,
						       payment_gateway, gateway_token, gateway_correlation_key, gateway_transaction_id,
						       gateway_event_at, paid_at, created_at, updated_at
						FROM orders
						WHERE id = $1
						FOR UPDATE
`
	selectOrdersForReconcileQuery = `
						SELECT id, user_id, order_number, total_amount, status, payment_status, shipping_address,
						       payment_gateway, gateway_token, gateway_correlation_key, gateway_transaction_id,
						       gateway_event_at, paid_at, created_at, updated_at
						FROM orders
						WHERE payment_status = 'unpaid' AND gateway_correlation_key IS NOT NULL AND status = 'pending'
`
	storeCheckoutTokenQuery = `
						UPDATE orders
						SET gateway_token = $1, gateway_correlation_key = $2, payment_gateway = $3, updated_at = now()
						WHERE id = $4 AND payment_status = 'unpaid' AND gateway_token IS NULL
`
	applyTransitionQuery = `
						UPDATE orders
						SET status = $1, payment_status = $2, gateway_transaction_id = $3, payment_gateway = $4,
						    gateway_event_at = $5, paid_at = $6, updated_at = now()
						WHERE id = $7
`
)

// PaymentRepository holds the payment flow queries over orders
type PaymentRepository struct {
	db *postgres.DB
}

// NewPaymentRepository creates new PaymentRepository instance
func NewPaymentRepository(db *postgres.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// GetUserOrder returns user order with items
func (pr *PaymentRepository) GetUserOrder(ctx context.Context, id, userID uint64) (*models.Order, error) {
	order := models.Order{}
	if err := scanOrder(pr.db.QueryRow(ctx, selectOrderByIDQuery, id, userID), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	rows, err := pr.db.Query(ctx, selectOrderItemsQuery, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := models.OrderItem{}
		err = rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice)
		if err != nil {
			continue
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}

// GetOrderByGatewayRef returns order whose correlation key or order number
// equals the gateway-side order reference
func (pr *PaymentRepository) GetOrderByGatewayRef(ctx context.Context, ref string) (*models.Order, error) {
	order := models.Order{}
	if err := scanOrder(pr.db.QueryRow(ctx, selectOrderByGatewayRefQuery, ref), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetOrderByNumber returns order by its business key
func (pr *PaymentRepository) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	order := models.Order{}
	if err := scanOrder(pr.db.QueryRow(ctx, selectOrderByNumberQuery, number), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// ListOrdersForReconcile returns unpaid pending orders holding a correlation key
func (pr *PaymentRepository) ListOrdersForReconcile(ctx context.Context) ([]models.Order, error) {
	rows, err := pr.db.Query(ctx, selectOrdersForReconcileQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		if err := scanOrder(rows, &order); err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// StoreCheckoutToken persists checkout token and correlation key for an order.
// The update is conditional on the order being unpaid with no token yet, so of
// two racing issuers only one write lands; the loser gets ErrConflictData and
// must re-read the winner's token.
func (pr *PaymentRepository) StoreCheckoutToken(ctx context.Context, orderID uint64, token, key, gateway string) error {
	cmd, err := pr.db.Exec(ctx, storeCheckoutTokenQuery, token, key, gateway, orderID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrConflictData
	}

	return nil
}

// planTransition computes the row-level effect of applying tr to the locked
// order: whether the stored event watermark makes the transition a no-op, and
// the paid_at value to persist. paid_at is set only when the order first
// becomes paid; a repeated paid delivery keeps the original timestamp.
func planTransition(order *models.Order, tr models.PaymentTransition) (paidAt *time.Time, stale bool) {
	if order.GatewayEventAt != nil && tr.EventAt.Before(*order.GatewayEventAt) {
		return nil, true
	}

	switch {
	case tr.PaymentStatus == models.PaymentStatusPaid && order.PaymentStatus == models.PaymentStatusPaid:
		paidAt = order.PaidAt
	case tr.PaymentStatus == models.PaymentStatusPaid:
		now := time.Now()
		paidAt = &now
	}

	return paidAt, false
}

// ApplyTransition locks the order row and applies the computed payment
// transition in one transaction. A transition whose gateway event time is
// older than the stored watermark is a no-op and the current row is returned.
func (pr *PaymentRepository) ApplyTransition(ctx context.Context, orderID uint64, tr models.PaymentTransition) (*models.Order, error) {
	tx, err := pr.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	order := models.Order{}
	if err := scanOrder(tx.QueryRow(ctx, selectOrderForUpdateQuery, orderID), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	paidAt, stale := planTransition(&order, tr)
	if stale {
		// stale notification, keep the fresher state
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return &order, nil
	}

	eventAt := tr.EventAt
	_, err = tx.Exec(ctx, applyTransitionQuery, tr.Status, tr.PaymentStatus, tr.GatewayTransactionID,
		tr.Gateway, eventAt, paidAt, orderID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	applyTransitionToOrder(&order, tr, paidAt)

	return &order, nil
}

// applyTransitionToOrder mirrors the applied UPDATE on the in-memory row.
// The gateway transaction id is always replaced, so the order ends up
// pointing at the transaction the gateway reported last.
func applyTransitionToOrder(order *models.Order, tr models.PaymentTransition, paidAt *time.Time) {
	eventAt := tr.EventAt
	order.Status = tr.Status
	order.PaymentStatus = tr.PaymentStatus
	order.GatewayTransactionID = &tr.GatewayTransactionID
	order.PaymentGateway = &tr.Gateway
	order.GatewayEventAt = &eventAt
	order.PaidAt = paidAt
}
