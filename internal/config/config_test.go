package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("DB_PASSWORD", "db-pass")
	t.Setenv("OTP_SECRET", "otp-secret")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://api.razorpay.com", cfg.Razorpay.BaseAPIURL)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 5, cfg.OTP.MaxPerWindow)
	assert.Equal(t, time.Hour, cfg.OTP.RequestWindow)
}

func TestValidateRequiredSecrets(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWTSecret: "jwt-secret",
			DB:        DB{Password: "db-pass"},
			OTP:       OTP{Secret: "otp-secret"},
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.JWTSecret = ""
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg = base()
	cfg.DB.Password = ""
	assert.ErrorContains(t, cfg.Validate(), "DB_PASSWORD")

	// The OTP secret has no fallback: startup must fail without it.
	cfg = base()
	cfg.OTP.Secret = ""
	assert.ErrorContains(t, cfg.Validate(), "OTP_SECRET")
}

func TestDSN(t *testing.T) {
	cfg := &Config{DB: DB{
		Host: "db.internal", Port: "5433", User: "store",
		Password: "pw", Name: "storefront", SSLMode: "require",
	}}
	assert.Equal(t,
		"host=db.internal user=store password=pw dbname=storefront port=5433 sslmode=require TimeZone=UTC",
		cfg.DSN())
}
