package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/otttrusted/storefront/internal/dto"
	"github.com/otttrusted/storefront/internal/services"
)

type OTPHandler struct {
	otpService *services.OTPService
}

func NewOTPHandler(otpService *services.OTPService) *OTPHandler {
	return &OTPHandler{otpService: otpService}
}

// The OTP endpoints keep the legacy wire shape: {"message": ...} on success
// and {"error": ...} on failure.
func otpError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// SendOTP handles POST /api/send-otp.
func (h *OTPHandler) SendOTP(c *fiber.Ctx) error {
	var req dto.SendOTPRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return otpError(c, fiber.StatusBadRequest, "Email is required")
	}
	if err := dto.Validate(&req); err != nil {
		return otpError(c, fiber.StatusBadRequest, "Email is required")
	}

	if err := h.otpService.Request(c.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, services.ErrOTPTooManyRequests):
			return otpError(c, fiber.StatusTooManyRequests, err.Error())
		case errors.Is(err, services.ErrMailerNotConfigured):
			return otpError(c, fiber.StatusInternalServerError, err.Error())
		default:
			slog.Error("otp request failed", "action", "send_otp", "error", err)
			return otpError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(dto.SendOTPResponse{Message: "OTP sent"})
}

// VerifyOTP handles POST /api/verify-otp.
func (h *OTPHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.OTP == "" {
		return otpError(c, fiber.StatusBadRequest, "Missing email or OTP")
	}

	var userID *uuid.UUID
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			return otpError(c, fiber.StatusBadRequest, "Invalid userId")
		}
		userID = &id
	}

	if err := h.otpService.Verify(c.Context(), req.Email, req.OTP, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrOTPNotFound):
			return otpError(c, fiber.StatusBadRequest, "Invalid or expired OTP")
		case errors.Is(err, services.ErrOTPExpired):
			return otpError(c, fiber.StatusBadRequest, "OTP expired")
		case errors.Is(err, services.ErrOTPIncorrect):
			return otpError(c, fiber.StatusBadRequest, "Incorrect code")
		default:
			slog.Error("otp verification failed", "action", "verify_otp", "error", err)
			return otpError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(dto.VerifyOTPResponse{Success: true})
}
