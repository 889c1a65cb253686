package repository

import (
	"testing"
	"time"

	"github.com/ahmdfariiss/nilasense/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestPlanTransition(t *testing.T) {
	watermark := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	firstPaidAt := time.Date(2025, 1, 1, 11, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		order      models.Order
		transition models.PaymentTransition
		wantStale  bool
		checkPaid  func(t *testing.T, paidAt *time.Time)
	}{
		{
			name: "older_event_is_stale",
			order: models.Order{
				PaymentStatus:  models.PaymentStatusUnpaid,
				GatewayEventAt: timePtr(watermark),
			},
			transition: models.PaymentTransition{
				Status:        models.OrderStatusPaid,
				PaymentStatus: models.PaymentStatusPaid,
				EventAt:       watermark.Add(-time.Minute),
			},
			wantStale: true,
		},
		{
			name: "zero_event_time_is_stale",
			order: models.Order{
				Status:         models.OrderStatusPaid,
				PaymentStatus:  models.PaymentStatusPaid,
				GatewayEventAt: timePtr(watermark),
				PaidAt:         timePtr(firstPaidAt),
			},
			transition: models.PaymentTransition{
				Status:        models.OrderStatusPending,
				PaymentStatus: models.PaymentStatusUnpaid,
			},
			wantStale: true,
		},
		{
			name: "equal_event_time_applies",
			order: models.Order{
				PaymentStatus:  models.PaymentStatusUnpaid,
				GatewayEventAt: timePtr(watermark),
			},
			transition: models.PaymentTransition{
				Status:        models.OrderStatusPaid,
				PaymentStatus: models.PaymentStatusPaid,
				EventAt:       watermark,
			},
			checkPaid: func(t *testing.T, paidAt *time.Time) {
				require.NotNil(t, paidAt)
				assert.WithinDuration(t, time.Now(), *paidAt, time.Minute)
			},
		},
		{
			name: "no_watermark_applies",
			order: models.Order{
				PaymentStatus: models.PaymentStatusUnpaid,
			},
			transition: models.PaymentTransition{
				Status:        models.OrderStatusPending,
				PaymentStatus: models.PaymentStatusUnpaid,
				EventAt:       watermark,
			},
			checkPaid: func(t *testing.T, paidAt *time.Time) {
				assert.Nil(t, paidAt)
			},
		},
		{
			name: "first_paid_sets_paid_at",
			order: models.Order{
				PaymentStatus: models.PaymentStatusUnpaid,
			},
			transition: models.PaymentTransition{
				Status:        models.OrderStatusPaid,
				PaymentStatus: models.PaymentStatusPaid,
				EventAt:       watermark,
			},
			checkPaid: func(t *testing.T, paidAt *time.Time) {
				require.NotNil(t, paidAt)
				assert.WithinDuration(t, time.Now(), *paidAt, time.Minute)
			},
		},
		{
			name: "repeated_paid_keeps_original_paid_at",
			order: models.Order{
				Status:         models.OrderStatusPaid,
				PaymentStatus:  models.PaymentStatusPaid,
				GatewayEventAt: timePtr(watermark),
				PaidAt:         timePtr(firstPaidAt),
			},
			transition: models.PaymentTransition{
				Status:        models.OrderStatusPaid,
				PaymentStatus: models.PaymentStatusPaid,
				EventAt:       watermark.Add(time.Minute),
			},
			checkPaid: func(t *testing.T, paidAt *time.Time) {
				require.NotNil(t, paidAt)
				assert.True(t, paidAt.Equal(firstPaidAt))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paidAt, stale := planTransition(&tt.order, tt.transition)
			assert.Equal(t, tt.wantStale, stale)
			if tt.wantStale {
				assert.Nil(t, paidAt)
				return
			}
			tt.checkPaid(t, paidAt)
		})
	}
}

func TestApplyTransitionToOrder(t *testing.T) {
	oldID := "mid-old"
	oldGateway := "midtrans"
	paidAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	order := models.Order{
		Status:               models.OrderStatusPending,
		PaymentStatus:        models.PaymentStatusUnpaid,
		GatewayTransactionID: &oldID,
		PaymentGateway:       &oldGateway,
	}
	tr := models.PaymentTransition{
		Status:               models.OrderStatusPaid,
		PaymentStatus:        models.PaymentStatusPaid,
		GatewayTransactionID: "mid-new",
		Gateway:              "midtrans",
		EventAt:              time.Date(2025, 1, 1, 12, 30, 0, 0, time.UTC),
	}

	applyTransitionToOrder(&order, tr, &paidAt)

	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	require.NotNil(t, order.GatewayTransactionID)
	assert.Equal(t, "mid-new", *order.GatewayTransactionID)
	require.NotNil(t, order.GatewayEventAt)
	assert.True(t, order.GatewayEventAt.Equal(tr.EventAt))
	require.NotNil(t, order.PaidAt)
	assert.True(t, order.PaidAt.Equal(paidAt))
}
