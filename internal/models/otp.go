package models

import "time"

// VerificationOTP holds at most one live code per email. The plaintext code
// is never stored, only its keyed HMAC digest.
type VerificationOTP struct {
	Email           string    `gorm:"primaryKey;size:255" json:"email"`
	HashedOTP       string    `gorm:"not null;size:64" json:"-"`
	ExpiresAt       time.Time `gorm:"not null" json:"expires_at"`
	WindowStartedAt time.Time `gorm:"not null" json:"-"`
	RequestCount    int       `gorm:"not null;default:1" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (VerificationOTP) TableName() string { return "verification_otps" }
