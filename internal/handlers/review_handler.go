package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/otttrusted/storefront/internal/dto"
	"github.com/otttrusted/storefront/internal/services"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) ListActive(c *fiber.Ctx) error {
	reviews, err := h.reviewService.ListActive(c.Context())
	if err != nil {
		slog.Error("review listing failed", "action", "list_reviews", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load reviews",
		})
	}
	return c.JSON(reviews)
}

func (h *ReviewHandler) ListAll(c *fiber.Ctx) error {
	reviews, err := h.reviewService.ListAll(c.Context())
	if err != nil {
		slog.Error("review listing failed", "action", "admin_list_reviews", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load reviews",
		})
	}
	return c.JSON(reviews)
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := dto.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "user_name, content and a 1-5 rating are required",
		})
	}

	review, err := h.reviewService.Create(c.Context(), &req)
	if err != nil {
		slog.Error("review creation failed", "action", "create_review", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create review",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ReviewHandler) ToggleActive(c *fiber.Ctx) error {
	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid review id",
		})
	}

	review, err := h.reviewService.ToggleActive(c.Context(), reviewID)
	if err != nil {
		if errors.Is(err, services.ErrReviewNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("review toggle failed", "action", "toggle_review", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update review",
		})
	}
	return c.JSON(review)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid review id",
		})
	}

	if err := h.reviewService.Delete(c.Context(), reviewID); err != nil {
		if errors.Is(err, services.ErrReviewNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("review deletion failed", "action", "delete_review", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete review",
		})
	}
	return c.JSON(fiber.Map{"deleted": true})
}
