package gateway

import (
	"context"
	"time"

	"github.com/ahmdfariiss/nilasense/config"
	"github.com/ahmdfariiss/nilasense/internal/models"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// GatewayName identifies the provider recorded on orders
const GatewayName = "midtrans"

// midtrans reports event times in this layout, Asia/Jakarta local time
const eventTimeLayout = "2006-01-02 15:04:05"

// CheckoutRequest is everything the gateway needs to open a hosted checkout
type CheckoutRequest struct {
	OrderRef        string
	GrossAmount     int64
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	Items           []models.OrderItem
}

// Midtrans wraps the Snap and Core API clients.
// With missing keys it stays unconfigured and every call returns
// models.ErrGatewayNotConfigured instead of failing at startup.
type Midtrans struct {
	snap            snap.Client
	core            coreapi.Client
	enabledPayments []snap.SnapPaymentType
	redirectBase    string
	configured      bool
}

// NewMidtrans creates new Midtrans gateway client
func NewMidtrans(cfg *config.Config) *Midtrans {
	m := &Midtrans{}

	if cfg.MidtransServerKey == "" || cfg.MidtransClientKey == "" {
		return m
	}

	env := midtrans.Sandbox
	m.redirectBase = "https://app.sandbox.midtrans.com/snap/v2/vtweb/"
	if cfg.IsProduction() {
		env = midtrans.Production
		m.redirectBase = "https://app.midtrans.com/snap/v2/vtweb/"
	}

	m.snap.New(cfg.MidtransServerKey, env)
	m.core.New(cfg.MidtransServerKey, env)

	for _, method := range cfg.PaymentMethods {
		m.enabledPayments = append(m.enabledPayments, snap.SnapPaymentType(method))
	}
	m.configured = true

	return m
}

// CreateTransaction opens a hosted checkout and returns its token and redirect URL
func (m *Midtrans) CreateTransaction(ctx context.Context, req *CheckoutRequest) (*models.CheckoutToken, error) {
	if !m.configured {
		return nil, models.ErrGatewayNotConfigured
	}

	items := make([]midtrans.ItemDetails, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, midtrans.ItemDetails{
			ID:    item.ProductName,
			Name:  item.ProductName,
			Price: item.UnitPrice,
			Qty:   item.Quantity,
		})
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderRef,
			GrossAmt: req.GrossAmount,
		},
		Items: &items,
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
			ShipAddr: &midtrans.CustomerAddress{
				FName:   req.CustomerName,
				Phone:   req.CustomerPhone,
				Address: req.ShippingAddress,
			},
		},
		EnabledPayments: m.enabledPayments,
	}

	resp, snapErr := m.snap.CreateTransaction(snapReq)
	if snapErr != nil {
		return nil, models.GatewayError{Err: snapErr}
	}

	return &models.CheckoutToken{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		OrderNumber: req.OrderRef,
	}, nil
}

// RedirectURL builds the hosted checkout URL for a previously issued token
func (m *Midtrans) RedirectURL(token string) string {
	return m.redirectBase + token
}

// TransactionStatus queries gateway's view of a transaction by its order reference
func (m *Midtrans) TransactionStatus(ctx context.Context, orderRef string) (*models.GatewayStatus, error) {
	if !m.configured {
		return nil, models.ErrGatewayNotConfigured
	}

	resp, coreErr := m.core.CheckTransaction(orderRef)
	if coreErr != nil {
		if coreErr.StatusCode == 404 {
			return nil, models.ErrDataNotFound
		}
		return nil, models.GatewayError{Err: coreErr}
	}

	return &models.GatewayStatus{
		TransactionID:     resp.TransactionID,
		OrderRef:          resp.OrderID,
		TransactionStatus: resp.TransactionStatus,
		FraudStatus:       resp.FraudStatus,
		EventAt:           ParseEventTime(resp.SettlementTime, resp.TransactionTime),
	}, nil
}

// ParseEventTime picks the first parseable gateway timestamp. When no
// candidate parses it returns the zero time, so a payload without a usable
// timestamp can never outrank an order's stored event watermark. Webhook
// payloads and status responses use the same layout.
func ParseEventTime(candidates ...string) time.Time {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if t, err := time.Parse(eventTimeLayout, c); err == nil {
			return t
		}
	}
	return time.Time{}
}
