package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/otttrusted/storefront/internal/dto"
	"github.com/otttrusted/storefront/internal/services"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListApps is the public storefront catalog.
func (h *CatalogHandler) ListApps(c *fiber.Ctx) error {
	apps, err := h.catalogService.ListActive(c.Context())
	if err != nil {
		slog.Error("catalog listing failed", "action", "list_apps", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load catalog",
		})
	}
	return c.JSON(apps)
}

// ListAppsAdmin returns the full catalog, inactive entries included.
func (h *CatalogHandler) ListAppsAdmin(c *fiber.Ctx) error {
	apps, err := h.catalogService.ListAll(c.Context())
	if err != nil {
		slog.Error("catalog listing failed", "action", "admin_list_apps", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load catalog",
		})
	}
	return c.JSON(apps)
}

func (h *CatalogHandler) CreateApp(c *fiber.Ctx) error {
	var req dto.CreateAppRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := dto.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "name is required",
		})
	}

	app, err := h.catalogService.CreateApp(c.Context(), &req)
	if err != nil {
		slog.Error("app creation failed", "action", "create_app", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create app",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}

func (h *CatalogHandler) UpdateApp(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid app id",
		})
	}

	var req dto.UpdateAppRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	app, err := h.catalogService.UpdateApp(c.Context(), appID, &req)
	if err != nil {
		if errors.Is(err, services.ErrAppNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("app update failed", "action", "update_app", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update app",
		})
	}
	return c.JSON(app)
}

// DeleteApp removes an app. When dependent orders exist the request fails
// with 409 unless ?purge=true, leaving the operator the explicit choice
// between cascading the purge and deactivating the app instead.
func (h *CatalogHandler) DeleteApp(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid app id",
		})
	}

	purge := c.QueryBool("purge")
	if err := h.catalogService.DeleteApp(c.Context(), appID, purge); err != nil {
		switch {
		case errors.Is(err, services.ErrAppNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrAppHasOrders):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "App has existing orders: retry with ?purge=true to delete order history, or deactivate the app instead",
			})
		}
		slog.Error("app deletion failed", "action", "delete_app", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete app",
		})
	}

	return c.JSON(fiber.Map{"deleted": true})
}

func (h *CatalogHandler) CreatePlan(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid app id",
		})
	}

	var req dto.CreatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := dto.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "name and a positive price are required",
		})
	}

	plan, err := h.catalogService.CreatePlan(c.Context(), appID, &req)
	if err != nil {
		if errors.Is(err, services.ErrAppNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("plan creation failed", "action", "create_plan", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create plan",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

func (h *CatalogHandler) UpdatePlan(c *fiber.Ctx) error {
	planID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid plan id",
		})
	}

	var req dto.UpdatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	plan, err := h.catalogService.UpdatePlan(c.Context(), planID, &req)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("plan update failed", "action", "update_plan", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update plan",
		})
	}
	return c.JSON(plan)
}

func (h *CatalogHandler) DeletePlan(c *fiber.Ctx) error {
	planID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid plan id",
		})
	}

	if err := h.catalogService.DeletePlan(c.Context(), planID); err != nil {
		switch {
		case errors.Is(err, services.ErrPlanNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrAppHasOrders):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Plan has existing orders: deactivate it instead",
			})
		}
		slog.Error("plan deletion failed", "action", "delete_plan", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete plan",
		})
	}

	return c.JSON(fiber.Map{"deleted": true})
}
