package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/otttrusted/storefront/internal/config"
	"github.com/otttrusted/storefront/internal/gateway"
	"github.com/otttrusted/storefront/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	order   *gateway.Order
	failure error
}

func (s *stubGateway) CreateOrder(_ context.Context, req *gateway.CreateOrderRequest) (*gateway.Order, error) {
	if s.failure != nil {
		return nil, s.failure
	}
	if s.order != nil {
		return s.order, nil
	}
	return &gateway.Order{
		ID:       "order_wire1",
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

func newPaymentApp(gw gateway.Client) (*fiber.App, *config.Config) {
	cfg := &config.Config{
		Razorpay: config.Razorpay{KeyID: "rzp_test_key", KeySecret: "rzp_test_secret"},
	}
	handler := NewPaymentHandler(services.NewPaymentService(gw, cfg))

	app := fiber.New()
	app.Post("/api/create-razorpay-order", handler.CreateOrder)
	app.Post("/api/verify-razorpay-payment", handler.VerifyPayment)
	return app, cfg
}

func TestCreateOrderWire(t *testing.T) {
	app, _ := newPaymentApp(&stubGateway{})

	status, body := postJSON(t, app, "/api/create-razorpay-order", fiber.Map{
		"amount": 199, "currency": "INR",
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "order_wire1", body["id"])
	assert.EqualValues(t, 19900, body["amount"])
	assert.Equal(t, "created", body["status"])
}

func TestCreateOrderWireRejectsMissingAmount(t *testing.T) {
	app, _ := newPaymentApp(&stubGateway{})

	status, body := postJSON(t, app, "/api/create-razorpay-order", fiber.Map{"currency": "INR"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Amount is required", body["error"])
}

func TestCreateOrderWireGatewayFailure(t *testing.T) {
	app, _ := newPaymentApp(&stubGateway{failure: &gateway.APIError{
		StatusCode:  401,
		Code:        "BAD_REQUEST_ERROR",
		Description: "Authentication failed",
	}})

	status, body := postJSON(t, app, "/api/create-razorpay-order", fiber.Map{"amount": 199})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Failed to create gateway order", body["error"])
	assert.Equal(t, "Authentication failed", body["details"])
	assert.Equal(t, "BAD_REQUEST_ERROR", body["code"])
}

func TestVerifyPaymentWire(t *testing.T) {
	app, cfg := newPaymentApp(&stubGateway{})

	mac := hmac.New(sha256.New, []byte(cfg.Razorpay.KeySecret))
	mac.Write([]byte("order_wire1|pay_wire1"))
	sig := hex.EncodeToString(mac.Sum(nil))

	status, body := postJSON(t, app, "/api/verify-razorpay-payment", fiber.Map{
		"razorpay_order_id":   "order_wire1",
		"razorpay_payment_id": "pay_wire1",
		"razorpay_signature":  sig,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Payment verified successfully", body["message"])

	// Tampered signature: 400 with success=false, never a 500.
	status, body = postJSON(t, app, "/api/verify-razorpay-payment", fiber.Map{
		"razorpay_order_id":   "order_wire1",
		"razorpay_payment_id": "pay_wire1",
		"razorpay_signature":  sig[:len(sig)-1] + "0",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid signature mismatch", body["message"])
}

func TestVerifyPaymentWireMissingParameters(t *testing.T) {
	app, _ := newPaymentApp(&stubGateway{})

	status, body := postJSON(t, app, "/api/verify-razorpay-payment", fiber.Map{
		"razorpay_order_id": "order_wire1",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Missing signature verification parameters", body["error"])
}
