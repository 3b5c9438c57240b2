package services

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/otttrusted/storefront/internal/config"
	"github.com/otttrusted/storefront/internal/mailer"
	"github.com/otttrusted/storefront/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOTPNotFound         = errors.New("invalid or expired OTP")
	ErrOTPExpired          = errors.New("OTP expired")
	ErrOTPIncorrect        = errors.New("incorrect code")
	ErrOTPTooManyRequests  = errors.New("too many OTP requests, try again later")
	ErrMailerNotConfigured = errors.New("mail API key is missing in server environment")
)

// OTPService issues 6-digit email verification codes and validates them
// against a stored keyed digest. Codes are single use and expire lazily.
type OTPService struct {
	db     *gorm.DB
	mailer mailer.Mailer
	cfg    *config.Config
}

func NewOTPService(db *gorm.DB, m mailer.Mailer, cfg *config.Config) *OTPService {
	return &OTPService{db: db, mailer: m, cfg: cfg}
}

// Request generates a fresh code for email, replacing any pending one, and
// mails the plaintext code. The upsert and the send are two independent
// fallible steps: a failed send does not roll back the stored digest.
func (s *OTPService) Request(ctx context.Context, email string) error {
	if s.cfg.Brevo.APIKey == "" {
		return ErrMailerNotConfigured
	}

	if err := s.checkRequestCap(ctx, email); err != nil {
		return err
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate OTP code: %w", err)
	}

	now := time.Now()
	record := models.VerificationOTP{
		Email:           email,
		HashedOTP:       s.digest(code),
		ExpiresAt:       now.Add(s.cfg.OTP.TTL),
		WindowStartedAt: now,
		RequestCount:    1,
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"hashed_otp": record.HashedOTP,
			"expires_at": record.ExpiresAt,
			"request_count": gorm.Expr(
				"CASE WHEN verification_otps.window_started_at > ? THEN verification_otps.request_count + 1 ELSE 1 END",
				now.Add(-s.cfg.OTP.RequestWindow)),
			"window_started_at": gorm.Expr(
				"CASE WHEN verification_otps.window_started_at > ? THEN verification_otps.window_started_at ELSE ? END",
				now.Add(-s.cfg.OTP.RequestWindow), now),
			"updated_at": now,
		}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	if err := s.mailer.SendOTPEmail(ctx, email, code); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}

	slog.Info("otp issued", "email", email)
	return nil
}

// checkRequestCap enforces the per-email sliding request window.
func (s *OTPService) checkRequestCap(ctx context.Context, email string) error {
	var existing models.VerificationOTP
	err := s.db.WithContext(ctx).First(&existing, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read OTP record: %w", err)
	}

	windowActive := time.Since(existing.WindowStartedAt) < s.cfg.OTP.RequestWindow
	if windowActive && existing.RequestCount >= s.cfg.OTP.MaxPerWindow {
		return ErrOTPTooManyRequests
	}
	return nil
}

// Verify validates a submitted code. A correct code consumes the record; an
// incorrect one leaves it in place so the user can retry within the expiry
// window. When userID is given, the profile is marked verified on success.
func (s *OTPService) Verify(ctx context.Context, email, code string, userID *uuid.UUID) error {
	var record models.VerificationOTP
	if err := s.db.WithContext(ctx).First(&record, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOTPNotFound
		}
		return fmt.Errorf("failed to read OTP record: %w", err)
	}

	if time.Now().After(record.ExpiresAt) {
		s.db.WithContext(ctx).Delete(&models.VerificationOTP{}, "email = ?", email)
		return ErrOTPExpired
	}

	if !hmac.Equal([]byte(s.digest(code)), []byte(record.HashedOTP)) {
		return ErrOTPIncorrect
	}

	// Single use.
	if err := s.db.WithContext(ctx).Delete(&models.VerificationOTP{}, "email = ?", email).Error; err != nil {
		return fmt.Errorf("failed to consume OTP record: %w", err)
	}

	if userID != nil {
		if err := s.db.WithContext(ctx).Model(&models.Profile{}).
			Where("id = ?", *userID).
			Update("is_verified", true).Error; err != nil {
			return fmt.Errorf("failed to mark profile verified: %w", err)
		}
	}

	slog.Info("otp verified", "email", email)
	return nil
}

func (s *OTPService) digest(code string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.OTP.Secret))
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

// generateCode draws a uniform 6-digit code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
