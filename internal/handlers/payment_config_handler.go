package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/otttrusted/storefront/internal/dto"
	"github.com/otttrusted/storefront/internal/services"
)

type PaymentConfigHandler struct {
	configService *services.PaymentConfigService
}

func NewPaymentConfigHandler(configService *services.PaymentConfigService) *PaymentConfigHandler {
	return &PaymentConfigHandler{configService: configService}
}

// Get is public: checkout and the support-contact UI read it.
func (h *PaymentConfigHandler) Get(c *fiber.Ctx) error {
	cfg, err := h.configService.Get(c.Context())
	if err != nil {
		slog.Error("payment config fetch failed", "action", "get_payment_config", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load payment config",
		})
	}
	if cfg == nil {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(cfg)
}

func (h *PaymentConfigHandler) Set(c *fiber.Ctx) error {
	var req dto.PaymentConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	cfg, err := h.configService.Set(c.Context(), &req)
	if err != nil {
		slog.Error("payment config update failed", "action", "set_payment_config", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save payment config",
		})
	}
	return c.JSON(cfg)
}
