package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/otttrusted/storefront/internal/config"
	"github.com/otttrusted/storefront/internal/gateway"
)

var (
	ErrInvalidAmount        = errors.New("amount is required and must be positive")
	ErrMissingParameters    = errors.New("missing signature verification parameters")
	ErrGatewayNotConfigured = errors.New("razorpay keys are missing in server environment")
)

// PaymentService is the order broker in front of the payment gateway: it
// opens gateway orders server-side and verifies completion signatures.
type PaymentService struct {
	gateway gateway.Client
	cfg     *config.Config
}

func NewPaymentService(gw gateway.Client, cfg *config.Config) *PaymentService {
	return &PaymentService{gateway: gw, cfg: cfg}
}

// CreateOrder opens a gateway order for amount in whole currency units.
// Amount is converted to minor units with half-away-from-zero rounding,
// matching the gateway's integer paise contract.
func (s *PaymentService) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*gateway.Order, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if s.cfg.Razorpay.KeyID == "" || s.cfg.Razorpay.KeySecret == "" {
		return nil, ErrGatewayNotConfigured
	}

	if currency == "" {
		currency = "INR"
	}
	if receipt == "" {
		receipt = fmt.Sprintf("receipt_%d", time.Now().UnixMilli())
	}

	order, err := s.gateway.CreateOrder(ctx, &gateway.CreateOrderRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("gateway order created", "order_id", order.ID, "amount", order.Amount)
	return order, nil
}

// VerifySignature recomputes HMAC-SHA256(secret, orderID|paymentID) and
// compares it with the client-supplied signature. A mismatch is a normal
// false result, not an error: the signature itself is untrusted input.
func (s *PaymentService) VerifySignature(orderID, paymentID, signature string) (bool, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return false, ErrMissingParameters
	}
	if s.cfg.Razorpay.KeySecret == "" {
		return false, ErrGatewayNotConfigured
	}

	mac := hmac.New(sha256.New, []byte(s.cfg.Razorpay.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	authentic := hmac.Equal([]byte(expected), []byte(signature))
	if !authentic {
		slog.Error("payment signature mismatch", "order_id", orderID, "payment_id", paymentID)
	}
	return authentic, nil
}
