package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/otttrusted/storefront/internal/dto"
	"github.com/otttrusted/storefront/internal/middleware"
	"github.com/otttrusted/storefront/internal/models"
	"github.com/otttrusted/storefront/internal/services"
)

type OrderHandler struct {
	orderService   *services.OrderService
	catalogService *services.CatalogService
	profileService *services.ProfileService
	configService  *services.PaymentConfigService
}

func NewOrderHandler(
	orderService *services.OrderService,
	catalogService *services.CatalogService,
	profileService *services.ProfileService,
	configService *services.PaymentConfigService,
) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		catalogService: catalogService,
		profileService: profileService,
		configService:  configService,
	}
}

// Place creates a pending order for the authenticated user. The checkout
// client calls this only after the payment signature verified authentic.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := dto.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "plan_id is required",
		})
	}

	proofRef := req.ProofURL
	if req.PaymentID != "" {
		proofRef = models.GatewayProofPrefix + req.PaymentID
	}

	order, err := h.orderService.Place(c.Context(), userID, req.PlanID, proofRef)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProofMissing):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "payment_id or proof_url is required",
			})
		case errors.Is(err, services.ErrPlanNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrPlanInactive):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("order placement failed", "action", "place_order", "user_id", userID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to place order",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.PlaceOrderResponse{
		OrderID:     order.ID,
		Status:      order.Status,
		SupportLink: h.supportLink(c, userID, order),
	})
}

// supportLink is best effort: a missing payment config or profile only means
// no prefilled WhatsApp handoff in the response.
func (h *OrderHandler) supportLink(c *fiber.Ctx, userID uuid.UUID, order *models.Order) string {
	cfg, err := h.configService.Get(c.Context())
	if err != nil || cfg == nil || cfg.WhatsAppNumber == "" {
		return ""
	}
	profile, _, err := h.profileService.GetOrCreate(c.Context(), userID, middleware.UserEmail(c))
	if err != nil {
		return ""
	}
	plan, err := h.catalogService.GetPlan(c.Context(), order.PlanID)
	if err != nil || plan.App == nil {
		return ""
	}
	return services.SupportLink(cfg.WhatsAppNumber, profile, plan, plan.App, order.PaymentProofURL)
}

// List returns the authenticated user's orders.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	orders, err := h.orderService.ListForUser(c.Context(), userID)
	if err != nil {
		slog.Error("order listing failed", "action", "list_orders", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list orders",
		})
	}

	return c.JSON(orders)
}

// ListAll returns every order for the admin console.
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	orders, err := h.orderService.ListAll(c.Context())
	if err != nil {
		slog.Error("admin order listing failed", "action", "admin_list_orders", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list orders",
		})
	}
	return c.JSON(orders)
}

// Transition handles PUT /api/admin/orders/:id/status.
func (h *OrderHandler) Transition(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid order id",
		})
	}

	var req dto.TransitionOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := dto.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "status must be accepted or rejected",
		})
	}

	order, err := h.orderService.Transition(c.Context(), orderID, req.Status, req.Credentials)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCredentialsMissing), errors.Is(err, services.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrOrderConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("order transition failed", "action", "transition_order", "order_id", orderID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update order",
		})
	}

	return c.JSON(order)
}

// ExportCSV streams every order as CSV for the admin reports tab.
func (h *OrderHandler) ExportCSV(c *fiber.Ctx) error {
	orders, err := h.orderService.ListAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to export orders",
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="orders-%s.csv"`, time.Now().Format("2006-01-02")))

	w := csv.NewWriter(c)
	defer w.Flush()

	if err := w.Write([]string{"id", "created_at", "user_email", "app", "plan", "price", "status", "payment_proof"}); err != nil {
		return err
	}
	for _, o := range orders {
		email, app, plan, price := "", "", "", ""
		if o.User != nil {
			email = o.User.Email
		}
		if o.Plan != nil {
			plan = o.Plan.Name
			price = strconv.Itoa(o.Plan.Price)
			if o.Plan.App != nil {
				app = o.Plan.App.Name
			}
		}
		row := []string{
			o.ID.String(),
			o.CreatedAt.Format(time.RFC3339),
			email, app, plan, price,
			o.Status,
			o.PaymentProofURL,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
