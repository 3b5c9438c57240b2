package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentConfig is a singleton row read by checkout and the support-contact UI.
type PaymentConfig struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WhatsAppNumber string    `gorm:"column:whatsapp_number;size:32" json:"whatsapp_number"`
	UPIID          string    `gorm:"column:upi_id;size:255" json:"upi_id"`
	QRCodeURL      string    `gorm:"column:qr_code_url;size:1024" json:"qr_code_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (PaymentConfig) TableName() string { return "payment_config" }

func (p *PaymentConfig) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
