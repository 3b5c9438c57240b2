package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/otttrusted/storefront/internal/dto"
	"github.com/otttrusted/storefront/internal/models"
	"gorm.io/gorm"
)

// PaymentConfigService manages the singleton payment_config row read by
// checkout and the support-contact UI.
type PaymentConfigService struct {
	db *gorm.DB
}

func NewPaymentConfigService(db *gorm.DB) *PaymentConfigService {
	return &PaymentConfigService{db: db}
}

// Get returns the singleton row, or nil when it has never been set.
func (s *PaymentConfigService) Get(ctx context.Context) (*models.PaymentConfig, error) {
	var cfg models.PaymentConfig
	err := s.db.WithContext(ctx).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment config: %w", err)
	}
	return &cfg, nil
}

// Set inserts the singleton on first write and updates it afterwards.
func (s *PaymentConfigService) Set(ctx context.Context, req *dto.PaymentConfigRequest) (*models.PaymentConfig, error) {
	existing, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		cfg := models.PaymentConfig{
			ID:             uuid.New(),
			WhatsAppNumber: req.WhatsAppNumber,
			UPIID:          req.UPIID,
			QRCodeURL:      req.QRCodeURL,
		}
		if err := s.db.WithContext(ctx).Create(&cfg).Error; err != nil {
			return nil, fmt.Errorf("failed to create payment config: %w", err)
		}
		return &cfg, nil
	}

	updates := map[string]interface{}{
		"whatsapp_number": req.WhatsAppNumber,
		"upi_id":          req.UPIID,
		"qr_code_url":     req.QRCodeURL,
	}
	if err := s.db.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment config: %w", err)
	}

	existing.WhatsAppNumber = req.WhatsAppNumber
	existing.UPIID = req.UPIID
	existing.QRCodeURL = req.QRCodeURL
	return existing, nil
}
