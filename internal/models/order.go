package models

import "time"

// order status
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// payment status
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Order is order entity. Gateway fields stay nil until a checkout token
// is issued for the order.
type Order struct {
	ID                    uint64
	UserID                uint64
	OrderNumber           string
	TotalAmount           int64
	Status                string
	PaymentStatus         string
	ShippingAddress       string
	PaymentGateway        *string
	GatewayToken          *string
	GatewayCorrelationKey *string
	GatewayTransactionID  *string
	GatewayEventAt        *time.Time
	PaidAt                *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Items                 []OrderItem
}

// OrderItem is a line item snapshot taken at order creation.
// The payment flow reads it only to build the gateway item payload.
type OrderItem struct {
	ID          uint64
	OrderID     uint64
	ProductID   uint64
	ProductName string
	Quantity    int32
	UnitPrice   int64
}

// CheckoutToken is a checkout handle issued by the payment gateway
type CheckoutToken struct {
	Token       string
	RedirectURL string
	OrderNumber string
	Reused      bool
}

// GatewayStatus is gateway's view of a transaction
type GatewayStatus struct {
	TransactionID     string
	OrderRef          string
	TransactionStatus string
	FraudStatus       string
	EventAt           time.Time
}

// PaymentStatusView is the poller's view of an order. Stale is set when a
// gateway refresh was attempted and failed, so the caller knows the shown
// state is only the last known one.
type PaymentStatusView struct {
	Order         *Order
	GatewayStatus *GatewayStatus
	Stale         bool
}

// PaymentTransition is the computed target state applied to an order
// during reconciliation
type PaymentTransition struct {
	Status               string
	PaymentStatus        string
	GatewayTransactionID string
	Gateway              string
	EventAt              time.Time
}
