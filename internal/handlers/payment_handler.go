package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/otttrusted/storefront/internal/dto"
	"github.com/otttrusted/storefront/internal/gateway"
	"github.com/otttrusted/storefront/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateOrder handles POST /api/create-razorpay-order. The response is the
// gateway's order object; error bodies mirror the gateway envelope
// {error, details, code}.
func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	var req dto.CreateGatewayOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.GatewayErrorResponse{
			Error: "Amount is required",
		})
	}

	order, err := h.paymentService.CreateOrder(c.Context(), req.Amount, req.Currency, req.Receipt)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			return c.Status(fiber.StatusBadRequest).JSON(dto.GatewayErrorResponse{
				Error: "Amount is required",
			})
		case errors.Is(err, services.ErrGatewayNotConfigured):
			return c.Status(fiber.StatusInternalServerError).JSON(dto.GatewayErrorResponse{
				Error: err.Error(),
			})
		}

		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) {
			slog.Error("gateway order creation failed", "action", "create_order",
				"code", apiErr.Code, "error", apiErr.Description)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.GatewayErrorResponse{
				Error:   "Failed to create gateway order",
				Details: apiErr.Description,
				Code:    apiErr.Code,
			})
		}

		slog.Error("gateway order creation failed", "action", "create_order", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.GatewayErrorResponse{
			Error: "Failed to create gateway order",
		})
	}

	return c.JSON(dto.GatewayOrderResponse{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
	})
}

// VerifyPayment handles POST /api/verify-razorpay-payment. A signature
// mismatch is a 400 with success=false, never a 500.
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.GatewayErrorResponse{
			Error: "Missing signature verification parameters",
		})
	}

	authentic, err := h.paymentService.VerifySignature(
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		if errors.Is(err, services.ErrMissingParameters) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.GatewayErrorResponse{
				Error: "Missing signature verification parameters",
			})
		}
		slog.Error("payment verification failed", "action", "verify_payment", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.GatewayErrorResponse{
			Error: err.Error(),
		})
	}

	if !authentic {
		return c.Status(fiber.StatusBadRequest).JSON(dto.VerifyPaymentResponse{
			Success: false,
			Message: "Invalid signature mismatch",
		})
	}

	return c.JSON(dto.VerifyPaymentResponse{
		Success: true,
		Message: "Payment verified successfully",
	})
}
