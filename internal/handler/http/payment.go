package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ahmdfariiss/nilasense/internal/gateway"
	"github.com/ahmdfariiss/nilasense/internal/logger"
	"github.com/ahmdfariiss/nilasense/internal/models"
	"go.uber.org/zap"
)

type PaymentService interface {
	// CreateTransaction issues a checkout token for an unpaid pending order
	CreateTransaction(ctx context.Context, orderID, userID uint64) (*models.CheckoutToken, error)
	// HandleNotification applies an asynchronous gateway notification
	HandleNotification(ctx context.Context, st *models.GatewayStatus) error
	// CheckStatus reconciles local order state against the gateway on demand
	CheckStatus(ctx context.Context, orderID, userID uint64) (*models.PaymentStatusView, error)
}

// PaymentHandler represents HTTP handler for payment-related requests
type PaymentHandler struct {
	svc        PaymentService
	production bool
}

// NewPaymentHandler creates new PaymentHandler instance
func NewPaymentHandler(svc PaymentService, production bool) *PaymentHandler {
	return &PaymentHandler{
		svc:        svc,
		production: production,
	}
}

// respondInternal writes a 500 response, attaching error detail outside production
func (ph *PaymentHandler) respondInternal(w http.ResponseWriter, message string, err error) {
	resp := messageResponse{Message: message}
	if !ph.production && err != nil {
		resp.Error = err.Error()
	}
	respondJSON(w, http.StatusInternalServerError, resp)
}

type createPaymentRequest struct {
	OrderID uint64 `json:"order_id" validate:"required"`
}

type createPaymentData struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
	OrderID     string `json:"order_id"`
	Reused      bool   `json:"reused,omitempty"`
}

type createPaymentResponse struct {
	Message string            `json:"message"`
	Data    createPaymentData `json:"data"`
}

// CreatePayment issues a hosted checkout token for an order
// 200 — token has been issued (or an outstanding one returned)
// 400 — bad request, order already paid or not payable
// 401 — user is not authenticated
// 404 — order not found
// 500 — gateway or internal error
func (ph *PaymentHandler) CreatePayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createPaymentRequest
		if err := decodeValid(r, &req); err != nil {
			respondMessage(w, http.StatusBadRequest, "order_id is required")
			return
		}

		token, err := ph.svc.CreateTransaction(r.Context(), req.OrderID, payload.UserID)
		if err != nil {
			var gwErr models.GatewayError
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				respondMessage(w, http.StatusNotFound, "order not found")
			case errors.Is(err, models.ErrOrderAlreadyPaid):
				respondMessage(w, http.StatusBadRequest, "order is already paid")
			case errors.Is(err, models.ErrOrderNotPayable):
				respondMessage(w, http.StatusBadRequest, "order is not in a payable state")
			case errors.Is(err, models.ErrOrderEmpty):
				respondMessage(w, http.StatusBadRequest, "order has no items")
			case errors.Is(err, models.ErrGatewayNotConfigured):
				ph.respondInternal(w, "payment gateway is not configured", err)
			case errors.As(err, &gwErr):
				message := "gateway api error"
				if looksLikeAuthError(err) {
					message = "gateway api error: check midtrans server key"
				}
				ph.respondInternal(w, message, err)
			default:
				ph.respondInternal(w, "internal error", err)
			}
			return
		}

		respondJSON(w, http.StatusOK, createPaymentResponse{
			Message: "payment token created",
			Data: createPaymentData{
				Token:       token.Token,
				RedirectURL: token.RedirectURL,
				OrderID:     token.OrderNumber,
				Reused:      token.Reused,
			},
		})
	}
}

// looksLikeAuthError reports whether a gateway failure smells like a key problem
func looksLikeAuthError(err error) bool {
	s := err.Error()
	return strings.Contains(s, "401") || strings.Contains(s, "Unauthorized")
}

type webhookRequest struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	TransactionTime   string `json:"transaction_time"`
	SettlementTime    string `json:"settlement_time"`
}

// Webhook handles asynchronous payment notifications from the gateway.
// The response is always 200 so the gateway never retry-storms on a
// notification this service failed to process; failures are only logged
// and the status poller acts as the fallback.
func (ph *PaymentHandler) Webhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var req webhookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Warn("malformed webhook payload", zap.Error(err))
			respondMessage(w, http.StatusOK, "ok")
			return
		}

		st := models.GatewayStatus{
			TransactionID:     req.TransactionID,
			OrderRef:          req.OrderID,
			TransactionStatus: req.TransactionStatus,
			FraudStatus:       req.FraudStatus,
			EventAt:           gateway.ParseEventTime(req.SettlementTime, req.TransactionTime),
		}

		if err := ph.svc.HandleNotification(r.Context(), &st); err != nil {
			logger.Log.Error("webhook processing failed",
				zap.String("order_ref", req.OrderID),
				zap.String("transaction_status", req.TransactionStatus),
				zap.Error(err))
		}

		respondMessage(w, http.StatusOK, "ok")
	}
}

type midtransStatusResponse struct {
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status,omitempty"`
}

type paymentStatusResponse struct {
	Order          orderResponse           `json:"order"`
	MidtransStatus *midtransStatusResponse `json:"midtrans_status,omitempty"`
	Stale          bool                    `json:"stale,omitempty"`
}

// PaymentStatus returns the reconciled payment state of an order
// 200 — successful request
// 400 — bad order id
// 401 — user is not authenticated
// 404 — order not found
// 500 — internal server error
func (ph *PaymentHandler) PaymentStatus() http.HandlerFunc {
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

		view, err := ph.svc.CheckStatus(r.Context(), id, payload.UserID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				respondMessage(w, http.StatusNotFound, "order not found")
				return
			}
			ph.respondInternal(w, "internal error", err)
			return
		}

		resp := paymentStatusResponse{
			Order: newOrderResponse(view.Order),
			Stale: view.Stale,
		}
		if view.GatewayStatus != nil {
			resp.MidtransStatus = &midtransStatusResponse{
				TransactionID:     view.GatewayStatus.TransactionID,
				TransactionStatus: view.GatewayStatus.TransactionStatus,
				FraudStatus:       view.GatewayStatus.FraudStatus,
			}
		}

		respondJSON(w, http.StatusOK, resp)
	}
}
