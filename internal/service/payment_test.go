package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmdfariiss/nilasense/internal/gateway"
	"github.com/ahmdfariiss/nilasense/internal/models"
	"github.com/ahmdfariiss/nilasense/internal/service/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestMapGatewayStatus(t *testing.T) {
	tests := []struct {
		name              string
		txStatus          string
		fraudStatus       string
		wantStatus        string
		wantPaymentStatus string
		wantOK            bool
	}{
		{
			name:              "capture_accept_is_paid",
			txStatus:          "capture",
			fraudStatus:       "accept",
			wantStatus:        models.OrderStatusPaid,
			wantPaymentStatus: models.PaymentStatusPaid,
			wantOK:            true,
		},
		{
			name:        "capture_challenge_is_ignored",
			txStatus:    "capture",
			fraudStatus: "challenge",
			wantOK:      false,
		},
		{
			name:              "settlement_is_paid",
			txStatus:          "settlement",
			wantStatus:        models.OrderStatusPaid,
			wantPaymentStatus: models.PaymentStatusPaid,
			wantOK:            true,
		},
		{
			name:              "cancel_reverts_to_pending",
			txStatus:          "cancel",
			wantStatus:        models.OrderStatusPending,
			wantPaymentStatus: models.PaymentStatusUnpaid,
			wantOK:            true,
		},
		{
			name:              "deny_reverts_to_pending",
			txStatus:          "deny",
			wantStatus:        models.OrderStatusPending,
			wantPaymentStatus: models.PaymentStatusUnpaid,
			wantOK:            true,
		},
		{
			name:              "expire_reverts_to_pending",
			txStatus:          "expire",
			wantStatus:        models.OrderStatusPending,
			wantPaymentStatus: models.PaymentStatusUnpaid,
			wantOK:            true,
		},
		{
			name:              "pending_stays_pending",
			txStatus:          "pending",
			wantStatus:        models.OrderStatusPending,
			wantPaymentStatus: models.PaymentStatusUnpaid,
			wantOK:            true,
		},
		{
			name:     "refund_is_ignored",
			txStatus: "refund",
			wantOK:   false,
		},
		{
			name:     "unknown_status_is_ignored",
			txStatus: "authorize",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, paymentStatus, ok := mapGatewayStatus(tt.txStatus, tt.fraudStatus)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantPaymentStatus, paymentStatus)
		})
	}
}

func TestPaymentService_CreateTransaction(t *testing.T) {
	tests := []struct {
		name      string
		orderID   uint64
		userID    uint64
		setup     func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockUserRepository, *mocks.MockPaymentGateway)
		wantToken *models.CheckoutToken
		wantErr   error
	}{
		{
			name:    "order_not_found",
			orderID: 7,
			userID:  1,
			setup: func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockUserRepository, *mocks.MockPaymentGateway) {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetUserOrder(gomock.Any(), uint64(7), uint64(1)).Return(nil, models.ErrDataNotFound).AnyTimes()

				usersMock := mocks.NewMockUserRepository(ctrl)
				gwMock := mocks.NewMockPaymentGateway(ctrl)
				gwMock.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Times(0)
				return repoMock, usersMock, gwMock
			},
			wantErr: models.ErrDataNotFound,
		},
		{
			name:    "paid_order_is_rejected",
			orderID: 42,
			userID:  1,
			setup: func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockUserRepository, *mocks.MockPaymentGateway) {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetUserOrder(gomock.Any(), uint64(42), uint64(1)).Return(&models.Order{
					ID:            42,
					OrderNumber:   "ORD-20250101-0001",
					Status:        models.OrderStatusPaid,
					PaymentStatus: models.PaymentStatusPaid,
				}, nil).AnyTimes()

				usersMock := mocks.NewMockUserRepository(ctrl)
				gwMock := mocks.NewMockPaymentGateway(ctrl)
				gwMock.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Times(0)
				return repoMock, usersMock, gwMock
			},
			wantErr: models.ErrOrderAlreadyPaid,
		},
		{
			name:    "existing_token_is_reused",
			orderID: 42,
			userID:  1,
			setup: func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockUserRepository, *mocks.MockPaymentGateway) {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetUserOrder(gomock.Any(), uint64(42), uint64(1)).Return(&models.Order{
					ID:            42,
					OrderNumber:   "ORD-20250101-0001",
					Status:        models.OrderStatusPending,
					PaymentStatus: models.PaymentStatusUnpaid,
					GatewayToken:  strPtr("TKN1"),
				}, nil).AnyTimes()

				usersMock := mocks.NewMockUserRepository(ctrl)

				gwMock := mocks.NewMockPaymentGateway(ctrl)
				gwMock.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Times(0)
				gwMock.EXPECT().RedirectURL("TKN1").Return("https://app.sandbox.midtrans.com/snap/v2/vtweb/TKN1").AnyTimes()
				return repoMock, usersMock, gwMock
			},
			wantToken: &models.CheckoutToken{
				Token:       "TKN1",
				RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/TKN1",
				OrderNumber: "ORD-20250101-0001",
				Reused:      true,
			},
		},
		{
			name:    "cancelled_order_is_not_payable",
			orderID: 42,
			userID:  1,
			setup: func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockUserRepository, *mocks.MockPaymentGateway) {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetUserOrder(gomock.Any(), uint64(42), uint64(1)).Return(&models.Order{
					ID:            42,
					OrderNumber:   "ORD-20250101-0001",
					Status:        models.OrderStatusCancelled,
					PaymentStatus: models.PaymentStatusUnpaid,
				}, nil).AnyTimes()

				usersMock := mocks.NewMockUserRepository(ctrl)
				gwMock := mocks.NewMockPaymentGateway(ctrl)
				gwMock.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Times(0)
				return repoMock, usersMock, gwMock
			},
			wantErr: models.ErrOrderNotPayable,
		},
		{
			name:    "empty_order_is_rejected_before_gateway",
			orderID: 42,
			userID:  1,
			setup: func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockUserRepository, *mocks.MockPaymentGateway) {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetUserOrder(gomock.Any(), uint64(42), uint64(1)).Return(&models.Order{
					ID:            42,
					OrderNumber:   "ORD-20250101-0001",
					Status:        models.OrderStatusPending,
					PaymentStatus: models.PaymentStatusUnpaid,
				}, nil).AnyTimes()

				usersMock := mocks.NewMockUserRepository(ctrl)
				gwMock := mocks.NewMockPaymentGateway(ctrl)
				gwMock.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Times(0)
				return repoMock, usersMock, gwMock
			},
			wantErr: models.ErrOrderEmpty,
		},
		{
			name:    "fresh_token_is_issued",
			orderID: 42,
			userID:  1,
			setup: func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockUserRepository, *mocks.MockPaymentGateway) {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetUserOrder(gomock.Any(), uint64(42), uint64(1)).Return(&models.Order{
					ID:            42,
					OrderNumber:   "ORD-20250101-0001",
					TotalAmount:   150000,
					Status:        models.OrderStatusPending,
					PaymentStatus: models.PaymentStatusUnpaid,
					Items: []models.OrderItem{
						{ProductID: 5, ProductName: "Tilapia 1kg", Quantity: 3, UnitPrice: 50000},
					},
				}, nil).AnyTimes()
				repoMock.EXPECT().StoreCheckoutToken(gomock.Any(), uint64(42), "TKN1", gomock.Any(), gateway.GatewayName).Return(nil)

				usersMock := mocks.NewMockUserRepository(ctrl)
				usersMock.EXPECT().GetUserByID(gomock.Any(), uint64(1)).Return(&models.User{
					ID:    1,
					Name:  "Budi",
					Email: "budi@example.com",
				}, nil).AnyTimes()

				gwMock := mocks.NewMockPaymentGateway(ctrl)
				gwMock.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(&models.CheckoutToken{
					Token:       "TKN1",
					RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/TKN1",
				}, nil)
				return repoMock, usersMock, gwMock
			},
			wantToken: &models.CheckoutToken{
				Token:       "TKN1",
				RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/TKN1",
				OrderNumber: "ORD-20250101-0001",
			},
		},
		{
			name:    "issuance_race_loser_returns_winner_token",
			orderID: 42,
			userID:  1,
			setup: func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockUserRepository, *mocks.MockPaymentGateway) {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				gomock.InOrder(
					repoMock.EXPECT().GetUserOrder(gomock.Any(), uint64(42), uint64(1)).Return(&models.Order{
						ID:            42,
						OrderNumber:   "ORD-20250101-0001",
						TotalAmount:   150000,
						Status:        models.OrderStatusPending,
						PaymentStatus: models.PaymentStatusUnpaid,
						Items: []models.OrderItem{
							{ProductID: 5, ProductName: "Tilapia 1kg", Quantity: 3, UnitPrice: 50000},
						},
					}, nil),
					repoMock.EXPECT().StoreCheckoutToken(gomock.Any(), uint64(42), "TKN2", gomock.Any(), gateway.GatewayName).Return(models.ErrConflictData),
					repoMock.EXPECT().GetUserOrder(gomock.Any(), uint64(42), uint64(1)).Return(&models.Order{
						ID:            42,
						OrderNumber:   "ORD-20250101-0001",
						Status:        models.OrderStatusPending,
						PaymentStatus: models.PaymentStatusUnpaid,
						GatewayToken:  strPtr("TKN1"),
					}, nil),
				)

				usersMock := mocks.NewMockUserRepository(ctrl)
				usersMock.EXPECT().GetUserByID(gomock.Any(), uint64(1)).Return(&models.User{
					ID:    1,
					Name:  "Budi",
					Email: "budi@example.com",
				}, nil).AnyTimes()

				gwMock := mocks.NewMockPaymentGateway(ctrl)
				gwMock.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(&models.CheckoutToken{
					Token:       "TKN2",
					RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/TKN2",
				}, nil)
				gwMock.EXPECT().RedirectURL("TKN1").Return("https://app.sandbox.midtrans.com/snap/v2/vtweb/TKN1").AnyTimes()
				return repoMock, usersMock, gwMock
			},
			wantToken: &models.CheckoutToken{
				Token:       "TKN1",
				RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/TKN1",
				OrderNumber: "ORD-20250101-0001",
				Reused:      true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoMock, usersMock, gwMock := tt.setup(t)
			svc := NewPaymentService(repoMock, usersMock, gwMock)

			got, err := svc.CreateTransaction(context.Background(), tt.orderID, tt.userID)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			if diff := cmp.Diff(tt.wantToken, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPaymentService_HandleNotification(t *testing.T) {
	eventAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		status  *models.GatewayStatus
		setup   func(t *testing.T) *mocks.MockPaymentRepository
		wantErr error
	}{
		{
			name: "settlement_marks_order_paid",
			status: &models.GatewayStatus{
				TransactionID:     "mid-123",
				OrderRef:          "ORD-20250101-0001-1735732800",
				TransactionStatus: "settlement",
				EventAt:           eventAt,
			},
			setup: func(t *testing.T) *mocks.MockPaymentRepository {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetOrderByGatewayRef(gomock.Any(), "ORD-20250101-0001-1735732800").Return(&models.Order{
					ID:          42,
					OrderNumber: "ORD-20250101-0001",
				}, nil).AnyTimes()
				repoMock.EXPECT().ApplyTransition(gomock.Any(), uint64(42), models.PaymentTransition{
					Status:               models.OrderStatusPaid,
					PaymentStatus:        models.PaymentStatusPaid,
					GatewayTransactionID: "mid-123",
					Gateway:              gateway.GatewayName,
					EventAt:              eventAt,
				}).Return(&models.Order{ID: 42}, nil)
				return repoMock
			},
		},
		{
			name: "expire_reverts_order_to_pending",
			status: &models.GatewayStatus{
				TransactionID:     "mid-123",
				OrderRef:          "ORD-20250101-0001-1735732800",
				TransactionStatus: "expire",
				EventAt:           eventAt,
			},
			setup: func(t *testing.T) *mocks.MockPaymentRepository {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetOrderByGatewayRef(gomock.Any(), "ORD-20250101-0001-1735732800").Return(&models.Order{
					ID:          42,
					OrderNumber: "ORD-20250101-0001",
				}, nil).AnyTimes()
				repoMock.EXPECT().ApplyTransition(gomock.Any(), uint64(42), models.PaymentTransition{
					Status:               models.OrderStatusPending,
					PaymentStatus:        models.PaymentStatusUnpaid,
					GatewayTransactionID: "mid-123",
					Gateway:              gateway.GatewayName,
					EventAt:              eventAt,
				}).Return(&models.Order{ID: 42}, nil)
				return repoMock
			},
		},
		{
			name: "unmapped_status_changes_nothing",
			status: &models.GatewayStatus{
				TransactionID:     "mid-123",
				OrderRef:          "ORD-20250101-0001-1735732800",
				TransactionStatus: "refund",
				EventAt:           eventAt,
			},
			setup: func(t *testing.T) *mocks.MockPaymentRepository {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetOrderByGatewayRef(gomock.Any(), gomock.Any()).Return(&models.Order{
					ID:          42,
					OrderNumber: "ORD-20250101-0001",
				}, nil).AnyTimes()
				repoMock.EXPECT().ApplyTransition(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return repoMock
			},
		},
		{
			name: "capture_challenge_changes_nothing",
			status: &models.GatewayStatus{
				TransactionID:     "mid-123",
				OrderRef:          "ORD-20250101-0001-1735732800",
				TransactionStatus: "capture",
				FraudStatus:       "challenge",
				EventAt:           eventAt,
			},
			setup: func(t *testing.T) *mocks.MockPaymentRepository {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetOrderByGatewayRef(gomock.Any(), gomock.Any()).Return(&models.Order{
					ID:          42,
					OrderNumber: "ORD-20250101-0001",
				}, nil).AnyTimes()
				repoMock.EXPECT().ApplyTransition(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return repoMock
			},
		},
		{
			name: "order_resolved_by_stripped_suffix",
			status: &models.GatewayStatus{
				TransactionID:     "mid-123",
				OrderRef:          "ORD-20250101-0001-1735732800",
				TransactionStatus: "settlement",
				EventAt:           eventAt,
			},
			setup: func(t *testing.T) *mocks.MockPaymentRepository {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetOrderByGatewayRef(gomock.Any(), "ORD-20250101-0001-1735732800").Return(nil, models.ErrDataNotFound)
				repoMock.EXPECT().GetOrderByNumber(gomock.Any(), "ORD-20250101-0001").Return(&models.Order{
					ID:          42,
					OrderNumber: "ORD-20250101-0001",
				}, nil)
				repoMock.EXPECT().ApplyTransition(gomock.Any(), uint64(42), gomock.Any()).Return(&models.Order{ID: 42}, nil)
				return repoMock
			},
		},
		{
			name: "unresolvable_reference",
			status: &models.GatewayStatus{
				OrderRef:          "ORD-19990101-9999-1735732800",
				TransactionStatus: "settlement",
				EventAt:           eventAt,
			},
			setup: func(t *testing.T) *mocks.MockPaymentRepository {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetOrderByGatewayRef(gomock.Any(), gomock.Any()).Return(nil, models.ErrDataNotFound)
				repoMock.EXPECT().GetOrderByNumber(gomock.Any(), "ORD-19990101-9999").Return(nil, models.ErrDataNotFound)
				repoMock.EXPECT().ApplyTransition(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				return repoMock
			},
			wantErr: models.ErrDataNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoMock := tt.setup(t)
			svc := NewPaymentService(repoMock, nil, nil)

			err := svc.HandleNotification(context.Background(), tt.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPaymentService_CheckStatus(t *testing.T) {
	eventAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	unpaidOrder := func() *models.Order {
		return &models.Order{
			ID:                    42,
			OrderNumber:           "ORD-20250101-0001",
			Status:                models.OrderStatusPending,
			PaymentStatus:         models.PaymentStatusUnpaid,
			PaymentGateway:        strPtr(gateway.GatewayName),
			GatewayToken:          strPtr("TKN1"),
			GatewayCorrelationKey: strPtr("ORD-20250101-0001-1735732800"),
		}
	}

	tests := []struct {
		name     string
		setup    func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockPaymentGateway)
		wantView *models.PaymentStatusView
		wantErr  error
	}{
		{
			name: "order_without_gateway_returns_stored_state",
			setup: func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockPaymentGateway) {
				ctrl := gomock.NewController(t)

				order := &models.Order{
					ID:            42,
					OrderNumber:   "ORD-20250101-0001",
					Status:        models.OrderStatusPending,
					PaymentStatus: models.PaymentStatusUnpaid,
				}
				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetUserOrder(gomock.Any(), uint64(42), uint64(1)).Return(order, nil).AnyTimes()

				gwMock := mocks.NewMockPaymentGateway(ctrl)
				gwMock.EXPECT().TransactionStatus(gomock.Any(), gomock.Any()).Times(0)
				return repoMock, gwMock
			},
			wantView: &models.PaymentStatusView{
				Order: &models.Order{
					ID:            42,
					OrderNumber:   "ORD-20250101-0001",
					Status:        models.OrderStatusPending,
					PaymentStatus: models.PaymentStatusUnpaid,
				},
			},
		},
		{
			name: "paid_order_skips_gateway",
			setup: func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockPaymentGateway) {
				ctrl := gomock.NewController(t)

				order := unpaidOrder()
				order.Status = models.OrderStatusPaid
				order.PaymentStatus = models.PaymentStatusPaid

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetUserOrder(gomock.Any(), uint64(42), uint64(1)).Return(order, nil).AnyTimes()

				gwMock := mocks.NewMockPaymentGateway(ctrl)
				gwMock.EXPECT().TransactionStatus(gomock.Any(), gomock.Any()).Times(0)
				return repoMock, gwMock
			},
			wantView: &models.PaymentStatusView{
				Order: func() *models.Order {
					o := unpaidOrder()
					o.Status = models.OrderStatusPaid
					o.PaymentStatus = models.PaymentStatusPaid
					return o
				}(),
			},
		},
		{
			name: "gateway_failure_marks_view_stale",
			setup: func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockPaymentGateway) {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetUserOrder(gomock.Any(), uint64(42), uint64(1)).Return(unpaidOrder(), nil).AnyTimes()

				gwMock := mocks.NewMockPaymentGateway(ctrl)
				gwMock.EXPECT().TransactionStatus(gomock.Any(), "ORD-20250101-0001-1735732800").
					Return(nil, models.GatewayError{Err: errors.New("connection refused")}).AnyTimes()
				return repoMock, gwMock
			},
			wantView: &models.PaymentStatusView{
				Order: unpaidOrder(),
				Stale: true,
			},
		},
		{
			name: "unknown_gateway_transaction_returns_stored_state",
			setup: func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockPaymentGateway) {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetUserOrder(gomock.Any(), uint64(42), uint64(1)).Return(unpaidOrder(), nil).AnyTimes()

				gwMock := mocks.NewMockPaymentGateway(ctrl)
				gwMock.EXPECT().TransactionStatus(gomock.Any(), "ORD-20250101-0001-1735732800").
					Return(nil, models.ErrDataNotFound).AnyTimes()
				return repoMock, gwMock
			},
			wantView: &models.PaymentStatusView{
				Order: unpaidOrder(),
			},
		},
		{
			name: "settlement_applies_transition",
			setup: func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockPaymentGateway) {
				ctrl := gomock.NewController(t)

				updated := unpaidOrder()
				updated.Status = models.OrderStatusPaid
				updated.PaymentStatus = models.PaymentStatusPaid
				updated.GatewayTransactionID = strPtr("mid-123")
				updated.PaidAt = &eventAt

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetUserOrder(gomock.Any(), uint64(42), uint64(1)).Return(unpaidOrder(), nil).AnyTimes()
				repoMock.EXPECT().ApplyTransition(gomock.Any(), uint64(42), models.PaymentTransition{
					Status:               models.OrderStatusPaid,
					PaymentStatus:        models.PaymentStatusPaid,
					GatewayTransactionID: "mid-123",
					Gateway:              gateway.GatewayName,
					EventAt:              eventAt,
				}).Return(updated, nil)

				gwMock := mocks.NewMockPaymentGateway(ctrl)
				gwMock.EXPECT().TransactionStatus(gomock.Any(), "ORD-20250101-0001-1735732800").Return(&models.GatewayStatus{
					TransactionID:     "mid-123",
					OrderRef:          "ORD-20250101-0001-1735732800",
					TransactionStatus: "settlement",
					EventAt:           eventAt,
				}, nil).AnyTimes()
				return repoMock, gwMock
			},
			wantView: &models.PaymentStatusView{
				Order: func() *models.Order {
					o := unpaidOrder()
					o.Status = models.OrderStatusPaid
					o.PaymentStatus = models.PaymentStatusPaid
					o.GatewayTransactionID = strPtr("mid-123")
					o.PaidAt = &eventAt
					return o
				}(),
				GatewayStatus: &models.GatewayStatus{
					TransactionID:     "mid-123",
					OrderRef:          "ORD-20250101-0001-1735732800",
					TransactionStatus: "settlement",
					EventAt:           eventAt,
				},
			},
		},
		{
			name: "matching_status_applies_nothing",
			setup: func(t *testing.T) (*mocks.MockPaymentRepository, *mocks.MockPaymentGateway) {
				ctrl := gomock.NewController(t)

				repoMock := mocks.NewMockPaymentRepository(ctrl)
				repoMock.EXPECT().GetUserOrder(gomock.Any(), uint64(42), uint64(1)).Return(unpaidOrder(), nil).AnyTimes()
				repoMock.EXPECT().ApplyTransition(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

				gwMock := mocks.NewMockPaymentGateway(ctrl)
				gwMock.EXPECT().TransactionStatus(gomock.Any(), "ORD-20250101-0001-1735732800").Return(&models.GatewayStatus{
					TransactionID:     "mid-123",
					OrderRef:          "ORD-20250101-0001-1735732800",
					TransactionStatus: "pending",
					EventAt:           eventAt,
				}, nil).AnyTimes()
				return repoMock, gwMock
			},
			wantView: &models.PaymentStatusView{
				Order: unpaidOrder(),
				GatewayStatus: &models.GatewayStatus{
					TransactionID:     "mid-123",
					OrderRef:          "ORD-20250101-0001-1735732800",
					TransactionStatus: "pending",
					EventAt:           eventAt,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoMock, gwMock := tt.setup(t)
			svc := NewPaymentService(repoMock, nil, gwMock)

			got, err := svc.CheckStatus(context.Background(), 42, 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			if diff := cmp.Diff(tt.wantView, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPaymentService_GetOrdersForReconcile(t *testing.T) {
	t.Run("orders_are_written_to_channel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repoMock := mocks.NewMockPaymentRepository(ctrl)
		repoMock.EXPECT().ListOrdersForReconcile(gomock.Any()).Return([]models.Order{
			{ID: 1, OrderNumber: "ORD-20250101-0001"},
			{ID: 2, OrderNumber: "ORD-20250101-0002"},
		}, nil)

		svc := NewPaymentService(repoMock, nil, nil)
		orderCh := make(chan models.Order, 2)

		err := svc.GetOrdersForReconcile(context.Background(), orderCh)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), (<-orderCh).ID)
		assert.Equal(t, uint64(2), (<-orderCh).ID)
	})

	t.Run("cancelled_context_stops_the_sweep", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repoMock := mocks.NewMockPaymentRepository(ctrl)
		repoMock.EXPECT().ListOrdersForReconcile(gomock.Any()).Return([]models.Order{
			{ID: 1, OrderNumber: "ORD-20250101-0001"},
		}, nil)

		svc := NewPaymentService(repoMock, nil, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// nobody reads the channel, the send must not block
		err := svc.GetOrdersForReconcile(ctx, make(chan models.Order))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("list_failure_is_returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repoMock := mocks.NewMockPaymentRepository(ctrl)
		repoMock.EXPECT().ListOrdersForReconcile(gomock.Any()).Return(nil, models.ErrInternalError)

		svc := NewPaymentService(repoMock, nil, nil)

		err := svc.GetOrdersForReconcile(context.Background(), make(chan models.Order, 1))
		assert.ErrorIs(t, err, models.ErrInternalError)
	})
}
