package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ahmdfariiss/nilasense/internal/models"
)

type OrderService interface {
	// Create creates user order from requested items
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	// ListUserOrders returns list of user orders
	ListUserOrders(ctx context.Context, userID uint64) ([]models.Order, error)
	// GetUserOrder returns user order with items
	GetUserOrder(ctx context.Context, id, userID uint64) (*models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderItemRequest struct {
	ProductID uint64 `json:"product_id" validate:"required"`
	Quantity  int32  `json:"quantity" validate:"required,gt=0"`
}

type createOrderRequest struct {
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string             `json:"shipping_address" validate:"required"`
}

type orderItemResponse struct {
	ProductID   uint64 `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int32  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

type orderResponse struct {
	ID            uint64              `json:"id"`
	OrderNumber   string              `json:"order_number"`
	TotalAmount   int64               `json:"total_amount"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	PaidAt        *string             `json:"paid_at,omitempty"`
	CreatedAt     string              `json:"created_at"`
	Items         []orderItemResponse `json:"items,omitempty"`
}

func newOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}

	if order.PaidAt != nil {
		paidAt := order.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}

	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	return resp
}

// CreateOrder creates new order with items
// 200 — order has been created
// 400 — bad request format or insufficient stock
// 401 — user is not authenticated
// 404 — product not found
// 500 — internal server error
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createOrderRequest
		if err := decodeValid(r, &req); err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		order := models.Order{
			UserID:          payload.UserID,
			ShippingAddress: req.ShippingAddress,
		}
		for _, item := range req.Items {
			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		created, err := oh.svc.Create(r.Context(), &order)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrOrderEmpty):
				respondMessage(w, http.StatusBadRequest, "order has no items")
			case errors.Is(err, models.ErrInsufficientStock):
				respondMessage(w, http.StatusBadRequest, "insufficient product stock")
			case errors.Is(err, models.ErrDataNotFound):
				respondMessage(w, http.StatusNotFound, "product not found")
			default:
				respondMessage(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		respondJSON(w, http.StatusOK, newOrderResponse(created))
	}
}

// ListUserOrders returns orders of authenticated user
// 200 — successful request
// 401 — user is not authenticated
// 500 — internal server error
func (oh *OrderHandler) ListUserOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		orders, err := oh.svc.ListUserOrders(r.Context(), payload.UserID)
		if err != nil {
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, newOrderResponse(&orders[i]))
		}

		respondJSON(w, http.StatusOK, resp)
	}
}

// GetOrder returns single user order with items
// 200 — successful request
// 401 — user is not authenticated
// 404 — order not found
// 500 — internal server error
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := idParam(r, "orderID")
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "bad request")
			return
		}

		order, err := oh.svc.GetUserOrder(r.Context(), id, payload.UserID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondMessage(w, http.StatusNotFound, "order not found")
				return
			}
			respondMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondJSON(w, http.StatusOK, newOrderResponse(order))
	}
}
