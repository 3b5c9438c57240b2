package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/otttrusted/storefront/internal/dto"
	"github.com/otttrusted/storefront/internal/middleware"
	"github.com/otttrusted/storefront/internal/storage"
)

type UploadHandler struct {
	store *storage.ProofStore
}

func NewUploadHandler(store *storage.ProofStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// UploadProof accepts a multipart payment-proof image for the manual
// bank-transfer flow and returns the URL to pass as the order's proof.
func (h *UploadHandler) UploadProof(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "file is required",
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "could not read uploaded file",
		})
	}
	defer f.Close()

	url, err := h.store.Save(userID, fileHeader.Filename, f)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "only jpg, jpeg, png and webp images are accepted",
			})
		}
		slog.Error("proof upload failed", "action", "upload_proof", "user_id", userID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to store upload",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UploadProofResponse{URL: url})
}
