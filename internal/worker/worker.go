package worker

import (
	"context"
	"time"

	"github.com/ahmdfariiss/nilasense/internal/logger"
	"github.com/ahmdfariiss/nilasense/internal/models"
)

type PaymentService interface {
	ReconcileOrders(ctx context.Context, orderCh <-chan models.Order)
	GetOrdersForReconcile(ctx context.Context, orderCh chan<- models.Order) error
}

// PaymentReconciler is worker that periodically reconciles unpaid
// gateway-backed orders against the gateway, covering webhooks that
// never arrived
type PaymentReconciler struct {
	svc      PaymentService
	interval time.Duration
}

// NewPaymentReconciler creates new payment reconciler
func NewPaymentReconciler(svc PaymentService, interval time.Duration) *PaymentReconciler {
	return &PaymentReconciler{
		svc:      svc,
		interval: interval,
	}
}

// Run processes reconcile sweeps until the context is cancelled
func (pr *PaymentReconciler) Run(ctx context.Context) {
	if pr.interval <= 0 {
		logger.Log.Info("payment reconciler is disabled")
		return
	}

	orders := make(chan models.Order, 10)

	go pr.svc.ReconcileOrders(ctx, orders)

	ticker := time.NewTicker(pr.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("payment reconciler is done")
			return
		case <-ticker.C:
			if err := pr.svc.GetOrdersForReconcile(ctx, orders); err != nil {
				logger.Log.Error("error get orders for reconcile")
			}
		}
	}
}
