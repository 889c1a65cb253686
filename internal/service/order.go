package service

import (
	"context"

	"github.com/ahmdfariiss/nilasense/internal/models"
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder creates order with its items in a single transaction
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrdersByUserID gets user orders
	GetOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error)
	// GetOrderByID returns user order with items
	GetOrderByID(ctx context.Context, id, userID uint64) (*models.Order, error)
}

// OrderService implements OrderService interface
type OrderService struct {
	repo OrderRepository
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// Create creates user order from requested items
func (os *OrderService) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if len(order.Items) == 0 {
		return nil, models.ErrOrderEmpty
	}

	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return nil, models.ErrOrderEmpty
		}
	}

	return os.repo.CreateOrder(ctx, order)
}

// ListUserOrders returns list of user orders
func (os *OrderService) ListUserOrders(ctx context.Context, userID uint64) ([]models.Order, error) {
	return os.repo.GetOrdersByUserID(ctx, userID)
}

// GetUserOrder returns user order with items
func (os *OrderService) GetUserOrder(ctx context.Context, id, userID uint64) (*models.Order, error) {
	return os.repo.GetOrderByID(ctx, id, userID)
}
