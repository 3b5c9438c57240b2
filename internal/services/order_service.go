package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/otttrusted/storefront/internal/models"
	"gorm.io/gorm"
)

var (
	ErrPlanNotFound       = errors.New("plan not found")
	ErrPlanInactive       = errors.New("plan is not available for purchase")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderConflict      = errors.New("order is not pending")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrCredentialsMissing = errors.New("credentials are required to accept an order")
	ErrProofMissing       = errors.New("payment proof is required")
)

// OrderService owns the order lifecycle: placement in pending state and the
// admin transition to a terminal accepted/rejected state.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Place inserts a pending order for userID against planID. proofRef is
// either an uploaded-image URL or a RAZORPAY_ID:<paymentID> marker from the
// gateway flow. Gateway proofs double as an idempotency key: replaying the
// same verified payment returns the already-created order.
func (s *OrderService) Place(ctx context.Context, userID, planID uuid.UUID, proofRef string) (*models.Order, error) {
	if proofRef == "" {
		return nil, ErrProofMissing
	}

	var plan models.Plan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if !plan.Active {
		return nil, ErrPlanInactive
	}

	if strings.HasPrefix(proofRef, models.GatewayProofPrefix) {
		var existing models.Order
		err := s.db.WithContext(ctx).
			First(&existing, "payment_proof_url = ?", proofRef).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check for existing order: %w", err)
		}
	}

	order := models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		PlanID:          planID,
		Status:          models.OrderPending,
		PaymentProofURL: proofRef,
	}
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	slog.Info("order placed", "order_id", order.ID, "user_id", userID, "plan_id", planID)
	return &order, nil
}

// Transition moves a pending order to accepted or rejected. The update is
// guarded by a status precondition: whoever transitions first wins, a second
// attempt gets ErrOrderConflict instead of overwriting credentials.
func (s *OrderService) Transition(ctx context.Context, orderID uuid.UUID, newStatus string, credentials string) (*models.Order, error) {
	if newStatus != models.OrderAccepted && newStatus != models.OrderRejected {
		return nil, ErrInvalidStatus
	}
	if newStatus == models.OrderAccepted && credentials == "" {
		return nil, ErrCredentialsMissing
	}

	updates := map[string]interface{}{"status": newStatus}
	if newStatus == models.OrderAccepted {
		updates["credentials"] = credentials
	}

	result := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderPending).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update order: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var existing models.Order
		if err := s.db.WithContext(ctx).First(&existing, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOrderNotFound
			}
			return nil, fmt.Errorf("failed to load order: %w", err)
		}
		return nil, ErrOrderConflict
	}

	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Plan.App").First(&order, "id = ?", orderID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	slog.Info("order transitioned", "order_id", orderID, "status", newStatus)
	return &order, nil
}

// ListForUser returns the user's orders, newest first, with plan and app
// joined in. Price is always read through the plan row, never copied.
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Plan.App").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAll returns every order for the admin console, newest first.
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Plan.App").
		Preload("User").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

var nonDigits = regexp.MustCompile(`\D`)

// SupportLink builds the prefilled WhatsApp deep link handed back after a
// successful placement. Convenience only; the admin console is the source of
// truth for fulfillment.
func SupportLink(whatsappNumber string, profile *models.Profile, plan *models.Plan, app *models.App, paymentID string) string {
	if whatsappNumber == "" {
		return ""
	}

	msg := fmt.Sprintf("*New Razorpay Order*\n\nName: %s\nApp: %s\nPlan: %s (Rs. %d)\nEmail: %s\nPhone: %s\nPayment ID: %s",
		profile.FullName, app.Name, plan.Name, plan.Price, profile.Email, profile.Phone, paymentID)

	number := nonDigits.ReplaceAllString(whatsappNumber, "")
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(msg)
}
