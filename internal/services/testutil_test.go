package services

import (
	"context"
	"testing"
	"time"

	"github.com/otttrusted/storefront/internal/config"
	"github.com/otttrusted/storefront/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection would see an empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Profile{},
		&models.RefreshToken{},
		&models.VerificationOTP{},
		&models.App{},
		&models.Plan{},
		&models.Order{},
		&models.Review{},
		&models.PaymentConfig{},
	)
	require.NoError(t, err)

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Environment:      "test",
		JWTSecret:        "test-jwt-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
		Razorpay: config.Razorpay{
			KeyID:     "rzp_test_key",
			KeySecret: "rzp_test_secret",
		},
		Brevo: config.Brevo{
			APIKey:      "test-brevo-key",
			SenderName:  "OTT Trusted",
			SenderEmail: "no-reply@otttrusted.online",
		},
		OTP: config.OTP{
			Secret:        "test-otp-secret",
			TTL:           5 * time.Minute,
			MaxPerWindow:  5,
			RequestWindow: time.Hour,
		},
	}
}

type sentMail struct {
	to   string
	code string
}

// mockMailer records sent codes instead of calling the Brevo API.
type mockMailer struct {
	sent    []sentMail
	failure error
}

func (m *mockMailer) SendOTPEmail(_ context.Context, to, code string) error {
	if m.failure != nil {
		return m.failure
	}
	m.sent = append(m.sent, sentMail{to: to, code: code})
	return nil
}

func (m *mockMailer) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1].code
}

func seedProfile(t *testing.T, db *gorm.DB, email, role string) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		Email:    email,
		Password: "x",
		FullName: "Test User",
		Phone:    "+91 9876543210",
		Role:     role,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func seedCatalog(t *testing.T, db *gorm.DB) (*models.App, *models.Plan) {
	t.Helper()
	app := &models.App{Name: "Netflix", Active: true}
	require.NoError(t, db.Create(app).Error)
	plan := &models.Plan{AppID: app.ID, Name: "Premium 4K", Price: 199, Active: true}
	require.NoError(t, db.Create(plan).Error)
	return app, plan
}
