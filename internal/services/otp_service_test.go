package services

import (
	"context"
	"testing"
	"time"

	"github.com/otttrusted/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPRequestAndVerify(t *testing.T) {
	db := newTestDB(t)
	mail := &mockMailer{}
	svc := NewOTPService(db, mail, newTestConfig())
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "user@example.com"))
	code := mail.lastCode(t)
	require.Len(t, code, 6)

	// The stored record carries a digest, never the plaintext code.
	var record models.VerificationOTP
	require.NoError(t, db.First(&record, "email = ?", "user@example.com").Error)
	assert.NotEqual(t, code, record.HashedOTP)
	assert.Len(t, record.HashedOTP, 64)

	// A wrong code leaves the record in place for a retry.
	err := svc.Verify(ctx, "user@example.com", "000000", nil)
	assert.ErrorIs(t, err, ErrOTPIncorrect)
	require.NoError(t, db.First(&record, "email = ?", "user@example.com").Error)

	require.NoError(t, svc.Verify(ctx, "user@example.com", code, nil))

	// Single use: a replay of the consumed code is rejected.
	err = svc.Verify(ctx, "user@example.com", code, nil)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestOTPVerifyUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewOTPService(db, &mockMailer{}, newTestConfig())

	err := svc.Verify(context.Background(), "nobody@example.com", "123456", nil)
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestOTPVerifyExpired(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	svc := NewOTPService(db, &mockMailer{}, cfg)
	ctx := context.Background()

	record := models.VerificationOTP{
		Email:           "late@example.com",
		HashedOTP:       svc.digest("123456"),
		ExpiresAt:       time.Now().Add(-time.Minute),
		WindowStartedAt: time.Now().Add(-10 * time.Minute),
		RequestCount:    1,
	}
	require.NoError(t, db.Create(&record).Error)

	err := svc.Verify(ctx, "late@example.com", "123456", nil)
	assert.ErrorIs(t, err, ErrOTPExpired)

	// Expired records are consumed on detection.
	var count int64
	db.Model(&models.VerificationOTP{}).Where("email = ?", "late@example.com").Count(&count)
	assert.Zero(t, count)
}

func TestOTPRequestReplacesPending(t *testing.T) {
	db := newTestDB(t)
	mail := &mockMailer{}
	svc := NewOTPService(db, mail, newTestConfig())
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "user@example.com"))
	first := mail.lastCode(t)
	require.NoError(t, svc.Request(ctx, "user@example.com"))
	second := mail.lastCode(t)

	if first != second {
		err := svc.Verify(ctx, "user@example.com", first, nil)
		assert.ErrorIs(t, err, ErrOTPIncorrect)
	}
	require.NoError(t, svc.Verify(ctx, "user@example.com", second, nil))
}

func TestOTPRequestCap(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	cfg.OTP.MaxPerWindow = 2
	mail := &mockMailer{}
	svc := NewOTPService(db, mail, cfg)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "eager@example.com"))
	require.NoError(t, svc.Request(ctx, "eager@example.com"))

	err := svc.Request(ctx, "eager@example.com")
	assert.ErrorIs(t, err, ErrOTPTooManyRequests)
	assert.Len(t, mail.sent, 2)

	// The cap is per email, not global.
	require.NoError(t, svc.Request(ctx, "other@example.com"))
}

func TestOTPRequestCapResetsAfterWindow(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	cfg.OTP.MaxPerWindow = 1
	svc := NewOTPService(db, &mockMailer{}, cfg)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "user@example.com"))
	assert.ErrorIs(t, svc.Request(ctx, "user@example.com"), ErrOTPTooManyRequests)

	// Age the window past its horizon; the next request starts a new one.
	require.NoError(t, db.Model(&models.VerificationOTP{}).
		Where("email = ?", "user@example.com").
		Update("window_started_at", time.Now().Add(-2*time.Hour)).Error)

	require.NoError(t, svc.Request(ctx, "user@example.com"))

	var record models.VerificationOTP
	require.NoError(t, db.First(&record, "email = ?", "user@example.com").Error)
	assert.Equal(t, 1, record.RequestCount)
}

func TestOTPRequestMailerNotConfigured(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	cfg.Brevo.APIKey = ""
	svc := NewOTPService(db, &mockMailer{}, cfg)

	err := svc.Request(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, ErrMailerNotConfigured)
}

func TestOTPVerifyMarksProfileVerified(t *testing.T) {
	db := newTestDB(t)
	mail := &mockMailer{}
	svc := NewOTPService(db, mail, newTestConfig())
	ctx := context.Background()

	profile := seedProfile(t, db, "user@example.com", models.RoleUser)
	require.False(t, profile.IsVerified)

	require.NoError(t, svc.Request(ctx, "user@example.com"))
	require.NoError(t, svc.Verify(ctx, "user@example.com", mail.lastCode(t), &profile.ID))

	var reloaded models.Profile
	require.NoError(t, db.First(&reloaded, "id = ?", profile.ID).Error)
	assert.True(t, reloaded.IsVerified)
}

func TestOTPDigestKeyedBySecret(t *testing.T) {
	db := newTestDB(t)
	cfgA := newTestConfig()
	cfgB := newTestConfig()
	cfgB.OTP.Secret = "another-secret"

	a := NewOTPService(db, &mockMailer{}, cfgA)
	b := NewOTPService(db, &mockMailer{}, cfgB)

	assert.Equal(t, a.digest("482913"), a.digest("482913"))
	assert.NotEqual(t, a.digest("482913"), b.digest("482913"))
	assert.NotEqual(t, a.digest("482913"), a.digest("482914"))
}

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
