package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmdfariiss/nilasense/internal/gateway"
	"github.com/ahmdfariiss/nilasense/internal/logger"
	"github.com/ahmdfariiss/nilasense/internal/models"
	"go.uber.org/zap"
)

// PaymentRepository is interface for interacting with payment-related order data
type PaymentRepository interface {
	// GetUserOrder returns user order with items
	GetUserOrder(ctx context.Context, id, userID uint64) (*models.Order, error)
	// GetOrderByGatewayRef returns order by correlation key or order number
	GetOrderByGatewayRef(ctx context.Context, ref string) (*models.Order, error)
	// GetOrderByNumber returns order by its business key
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
	// ListOrdersForReconcile returns unpaid pending orders holding a correlation key
	ListOrdersForReconcile(ctx context.Context) ([]models.Order, error)
	// StoreCheckoutToken persists checkout token and correlation key for an order
	StoreCheckoutToken(ctx context.Context, orderID uint64, token, key, gw string) error
	// ApplyTransition locks the order row and applies the payment transition
	ApplyTransition(ctx context.Context, orderID uint64, tr models.PaymentTransition) (*models.Order, error)
}

// PaymentGateway is interface for the hosted checkout provider
type PaymentGateway interface {
	// CreateTransaction opens a hosted checkout
	CreateTransaction(ctx context.Context, req *gateway.CheckoutRequest) (*models.CheckoutToken, error)
	// TransactionStatus queries gateway's view of a transaction
	TransactionStatus(ctx context.Context, orderRef string) (*models.GatewayStatus, error)
	// RedirectURL builds the hosted checkout URL for a stored token
	RedirectURL(token string) string
}

// PaymentService implements the token issuer, webhook reconciler and status poller
type PaymentService struct {
	repo    PaymentRepository
	users   UserRepository
	gateway PaymentGateway
}

// NewPaymentService creates new PaymentService instance
func NewPaymentService(repo PaymentRepository, users UserRepository, gw PaymentGateway) *PaymentService {
	return &PaymentService{
		repo:    repo,
		users:   users,
		gateway: gw,
	}
}

// mapGatewayStatus maps a gateway-reported transaction status to the local
// order transition. ok is false for statuses that must not change the order.
func mapGatewayStatus(txStatus, fraudStatus string) (status, paymentStatus string, ok bool) {
	switch txStatus {
	case "capture":
		if fraudStatus == "accept" {
			return models.OrderStatusPaid, models.PaymentStatusPaid, true
		}
		return "", "", false
	case "settlement":
		return models.OrderStatusPaid, models.PaymentStatusPaid, true
	case "cancel", "deny", "expire", "pending":
		return models.OrderStatusPending, models.PaymentStatusUnpaid, true
	}
	return "", "", false
}

// CreateTransaction issues a checkout token for an unpaid pending order.
// A second call for an order that already holds a token returns that token
// instead of opening another gateway transaction.
func (ps *PaymentService) CreateTransaction(ctx context.Context, orderID, userID uint64) (*models.CheckoutToken, error) {
	order, err := ps.repo.GetUserOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, models.ErrOrderAlreadyPaid
	}

	if order.GatewayToken != nil {
		return &models.CheckoutToken{
			Token:       *order.GatewayToken,
			RedirectURL: ps.gateway.RedirectURL(*order.GatewayToken),
			OrderNumber: order.OrderNumber,
			Reused:      true,
		}, nil
	}

	if order.Status != models.OrderStatusPending {
		return nil, models.ErrOrderNotPayable
	}

	if len(order.Items) == 0 {
		return nil, models.ErrOrderEmpty
	}

	user, err := ps.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// the gateway rejects reuse of an order id once a transaction exists
	// under it, so a fresh correlation key is sent instead of the order number
	key := fmt.Sprintf("%s-%d", order.OrderNumber, time.Now().Unix())

	token, err := ps.gateway.CreateTransaction(ctx, &gateway.CheckoutRequest{
		OrderRef:        key,
		GrossAmount:     order.TotalAmount,
		CustomerName:    user.Name,
		CustomerEmail:   user.Email,
		CustomerPhone:   user.Phone,
		ShippingAddress: order.ShippingAddress,
		Items:           order.Items,
	})
	if err != nil {
		return nil, err
	}

	err = ps.repo.StoreCheckoutToken(ctx, order.ID, token.Token, key, gateway.GatewayName)
	if err != nil {
		if errors.Is(err, models.ErrConflictData) {
			// a concurrent issuer won the race, hand out its token
			current, rerr := ps.repo.GetUserOrder(ctx, orderID, userID)
			if rerr == nil && current.GatewayToken != nil {
				return &models.CheckoutToken{
					Token:       *current.GatewayToken,
					RedirectURL: ps.gateway.RedirectURL(*current.GatewayToken),
					OrderNumber: current.OrderNumber,
					Reused:      true,
				}, nil
			}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &models.CheckoutToken{
		Token:       token.Token,
		RedirectURL: token.RedirectURL,
		OrderNumber: order.OrderNumber,
	}, nil
}

// resolveOrder finds the order for a gateway-side order reference: first by
// correlation key or exact order number, then by the order number recovered
// from stripping the key's timestamp suffix.
func (ps *PaymentService) resolveOrder(ctx context.Context, ref string) (*models.Order, error) {
	order, err := ps.repo.GetOrderByGatewayRef(ctx, ref)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, models.ErrDataNotFound) {
		return nil, err
	}

	if i := strings.LastIndex(ref, "-"); i > 0 {
		return ps.repo.GetOrderByNumber(ctx, ref[:i])
	}

	return nil, models.ErrDataNotFound
}

// HandleNotification applies an asynchronous gateway notification to the
// matching order. Repeated and reordered deliveries are safe: the mapping is
// deterministic and stale events are fenced by the order's event watermark.
func (ps *PaymentService) HandleNotification(ctx context.Context, st *models.GatewayStatus) error {
	order, err := ps.resolveOrder(ctx, st.OrderRef)
	if err != nil {
		return err
	}

	status, paymentStatus, ok := mapGatewayStatus(st.TransactionStatus, st.FraudStatus)
	if !ok {
		logger.Log.Info("ignoring unmapped gateway status",
			zap.String("order_ref", st.OrderRef),
			zap.String("transaction_status", st.TransactionStatus),
			zap.String("fraud_status", st.FraudStatus))
		return nil
	}

	_, err = ps.repo.ApplyTransition(ctx, order.ID, models.PaymentTransition{
		Status:               status,
		PaymentStatus:        paymentStatus,
		GatewayTransactionID: st.TransactionID,
		Gateway:              gateway.GatewayName,
		EventAt:              st.EventAt,
	})
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	return nil
}

// CheckStatus reconciles local order state against the gateway on demand.
// Gateway failures never surface to the caller: the stored state is returned
// with the view marked stale.
func (ps *PaymentService) CheckStatus(ctx context.Context, orderID, userID uint64) (*models.PaymentStatusView, error) {
	order, err := ps.repo.GetUserOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}

	if order.PaymentGateway == nil || *order.PaymentGateway != gateway.GatewayName || order.GatewayCorrelationKey == nil {
		return &models.PaymentStatusView{Order: order}, nil
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		return &models.PaymentStatusView{Order: order}, nil
	}

	st, err := ps.gateway.TransactionStatus(ctx, *order.GatewayCorrelationKey)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			// gateway has no transaction under this key, nothing to reconcile
			return &models.PaymentStatusView{Order: order}, nil
		}
		logger.Log.Warn("gateway status refresh failed",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
		return &models.PaymentStatusView{Order: order, Stale: true}, nil
	}

	status, paymentStatus, ok := mapGatewayStatus(st.TransactionStatus, st.FraudStatus)
	if !ok || (order.Status == status && order.PaymentStatus == paymentStatus) {
		return &models.PaymentStatusView{Order: order, GatewayStatus: st}, nil
	}

	updated, err := ps.repo.ApplyTransition(ctx, order.ID, models.PaymentTransition{
		Status:               status,
		PaymentStatus:        paymentStatus,
		GatewayTransactionID: st.TransactionID,
		Gateway:              gateway.GatewayName,
		EventAt:              st.EventAt,
	})
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &models.PaymentStatusView{Order: updated, GatewayStatus: st}, nil
}

// ReconcileOrders drains the channel and reconciles each order against the
// gateway the same way the status poller does
func (ps *PaymentService) ReconcileOrders(ctx context.Context, orderCh <-chan models.Order) {
	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("reconcile is done")
			return
		case order, ok := <-orderCh:
			if !ok {
				return
			}

			if order.GatewayCorrelationKey == nil {
				continue
			}

			st, err := ps.gateway.TransactionStatus(ctx, *order.GatewayCorrelationKey)
			if err != nil {
				if !errors.Is(err, models.ErrDataNotFound) {
					logger.Log.Error("reconcile status request error",
						zap.String("order_number", order.OrderNumber), zap.Error(err))
				}
				continue
			}

			status, paymentStatus, ok := mapGatewayStatus(st.TransactionStatus, st.FraudStatus)
			if !ok || (order.Status == status && order.PaymentStatus == paymentStatus) {
				continue
			}

			if _, err := ps.repo.ApplyTransition(ctx, order.ID, models.PaymentTransition{
				Status:               status,
				PaymentStatus:        paymentStatus,
				GatewayTransactionID: st.TransactionID,
				Gateway:              gateway.GatewayName,
				EventAt:              st.EventAt,
			}); err != nil {
				logger.Log.Error("reconcile transition error",
					zap.String("order_number", order.OrderNumber), zap.Error(err))
			}
		}
	}
}

// GetOrdersForReconcile writes reconcilable orders to channel
func (ps *PaymentService) GetOrdersForReconcile(ctx context.Context, orderCh chan<- models.Order) error {
	orders, err := ps.repo.ListOrdersForReconcile(ctx)
	if err != nil {
		return err
	}

	for _, order := range orders {
		select {
		case orderCh <- order:
		case <-ctx.Done():
			// consumer is gone, do not block on a full channel
			return ctx.Err()
		}
	}

	return nil
}
