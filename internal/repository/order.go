package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmdfariiss/nilasense/internal/models"
	"github.com/ahmdfariiss/nilasense/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	nextOrderNumberQuery = `SELECT nextval('order_number_seq')`

	insertOrderQuery = `
						INSERT INTO orders (user_id, order_number, total_amount, shipping_address)
						VALUES ($1, $2, $3, $4)
						RETURNING id, status, payment_status, created_at, updated_at
`
	selectProductForOrderQuery = `
						SELECT id, name, price, stock FROM products
						WHERE id = $1
						FOR UPDATE
`
	decrementProductStockQuery = `
						UPDATE products
						SET stock = stock - $1, updated_at = now()
						WHERE id = $2
`
	insertOrderItemQuery = `
						INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price)
						VALUES ($1, $2, $3, $4, $5)
						RETURNING id
`
	selectOrdersByUserIDQuery = `
						SELECT id, user_id, order_number, total_amount, status, payment_status, shipping_address,
						       payment_gateway, gateway_token, gateway_correlation_key, gateway_transaction_id,
						       gateway_event_at, paid_at, created_at, updated_at
						FROM orders
						WHERE user_id = $1
						ORDER BY created_at DESC
`
	selectOrderByIDQuery = `
						SELECT id, user_id, order_number, total_amount, status, payment_status, shipping_address,
						       payment_gateway, gateway_token, gateway_correlation_key, gateway_transaction_id,
						       gateway_event_at, paid_at, created_at, updated_at
						FROM orders
						WHERE id = $1 AND user_id = $2
`
	selectOrderItemsQuery = `
						SELECT id, order_id, product_id, product_name, quantity, unit_price FROM order_items
						WHERE order_id = $1
						ORDER BY id
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row pgx.Row, order *models.Order) error {
	return row.Scan(&order.ID, &order.UserID, &order.OrderNumber, &order.TotalAmount, &order.Status,
		&order.PaymentStatus, &order.ShippingAddress, &order.PaymentGateway, &order.GatewayToken,
		&order.GatewayCorrelationKey, &order.GatewayTransactionID, &order.GatewayEventAt,
		&order.PaidAt, &order.CreatedAt, &order.UpdatedAt)
}

// formatOrderNumber builds a human-readable order number from the creation
// date and the global order sequence. The sequence is printed in full, so
// numbers stay unique however many orders a day brings; padding only keeps
// the low values aligned.
func formatOrderNumber(at time.Time, seq uint64) string {
	return fmt.Sprintf("ORD-%s-%04d", at.Format("20060102"), seq)
}

// CreateOrder creates order with its items in a single transaction.
// Product rows are locked, stock is checked and decremented, product name and
// unit price are snapshotted into order items.
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var seq uint64
	if err := tx.QueryRow(ctx, nextOrderNumberQuery).Scan(&seq); err != nil {
		return nil, err
	}
	order.OrderNumber = formatOrderNumber(time.Now(), seq)

	var total int64
	for i := range order.Items {
		item := &order.Items[i]

		var (
			name  string
			price int64
			stock int32
		)
		err := tx.QueryRow(ctx, selectProductForOrderQuery, item.ProductID).Scan(&item.ProductID, &name, &price, &stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, models.ErrDataNotFound
			}
			return nil, err
		}

		if stock < item.Quantity {
			return nil, models.ErrInsufficientStock
		}

		if _, err := tx.Exec(ctx, decrementProductStockQuery, item.Quantity, item.ProductID); err != nil {
			return nil, err
		}

		item.ProductName = name
		item.UnitPrice = price
		total += price * int64(item.Quantity)
	}
	order.TotalAmount = total

	err = tx.QueryRow(ctx, insertOrderQuery, order.UserID, order.OrderNumber, order.TotalAmount, order.ShippingAddress).
		Scan(&order.ID, &order.Status, &order.PaymentStatus, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err := tx.QueryRow(ctx, insertOrderItemQuery, order.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice).
			Scan(&item.ID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrdersByUserID gets user orders, newest first
func (or *OrderRepository) GetOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersByUserIDQuery, userID)
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

// GetOrderByID returns user order with items
func (or *OrderRepository) GetOrderByID(ctx context.Context, id, userID uint64) (*models.Order, error) {
	order := models.Order{}
	if err := scanOrder(or.db.QueryRow(ctx, selectOrderByIDQuery, id, userID), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	items, err := or.getOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (or *OrderRepository) getOrderItems(ctx context.Context, orderID uint64) ([]models.OrderItem, error) {
	rows, err := or.db.Query(ctx, selectOrderItemsQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}

	for rows.Next() {
		item := models.OrderItem{}
		err = rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice)
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
