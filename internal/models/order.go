package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderPending  = "pending"
	OrderAccepted = "accepted"
	OrderRejected = "rejected"
)

// GatewayProofPrefix marks a payment_proof_url that carries a verified
// gateway payment id instead of an uploaded-image URL.
const GatewayProofPrefix = "RAZORPAY_ID:"

// Order starts pending and is moved by an admin to accepted (with delivered
// credentials) or rejected. Both are terminal.
type Order struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanID          uuid.UUID `gorm:"type:uuid;not null;index" json:"plan_id"`
	Status          string    `gorm:"not null;default:'pending';size:20;index" json:"status"`
	PaymentProofURL string    `gorm:"size:1024;index" json:"payment_proof_url"`
	Credentials     *string   `gorm:"type:text" json:"credentials,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	User            *Profile  `gorm:"foreignKey:UserID" json:"-"`
	Plan            *Plan     `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
