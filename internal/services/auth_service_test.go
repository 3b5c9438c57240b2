package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/otttrusted/storefront/internal/dto"
	"github.com/otttrusted/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "user@example.com",
		Password: "supersecret",
		FullName: "Asha Rao",
		Phone:    "+91 9876543210",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleUser, resp.User.Role)

	// Plaintext passwords never hit the database.
	var profile models.Profile
	require.NoError(t, db.First(&profile, "email = ?", "user@example.com").Error)
	assert.NotEqual(t, "supersecret", profile.Password)

	_, err = svc.Register(&dto.RegisterRequest{Email: "user@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	login, err := svc.Login(&dto.LoginRequest{Email: "user@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)

	_, err = svc.Login(&dto.LoginRequest{Email: "user@example.com", Password: "wrongpass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterBootstrapAdmin(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	cfg.AdminEmails = "ops@otttrusted.online, root@otttrusted.online"
	svc := NewAuthService(db, cfg)

	resp, err := svc.Register(&dto.RegisterRequest{Email: "ops@otttrusted.online", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	resp, err = svc.Register(&dto.RegisterRequest{Email: "user@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, resp.User.Role)
}

func TestAccessTokenClaims(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	svc := NewAuthService(db, cfg)

	resp, err := svc.Register(&dto.RegisterRequest{Email: "user@example.com", Password: "supersecret"})
	require.NoError(t, err)

	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "user@example.com", claims["email"])
	assert.Equal(t, models.RoleUser, claims["role"])
	assert.NotEmpty(t, claims["sub"])
}

func TestRefreshRotatesToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	resp, err := svc.Register(&dto.RegisterRequest{Email: "user@example.com", Password: "supersecret"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	// The consumed token is revoked and cannot be replayed.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	resp, err := svc.Register(&dto.RegisterRequest{Email: "user@example.com", Password: "supersecret"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestProfileGetOrCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()

	existing := seedProfile(t, db, "user@example.com", models.RoleAdmin)

	profile, created, err := svc.GetOrCreate(ctx, existing.ID, "user@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, models.RoleAdmin, profile.Role)

	// A missing row is healed with a default user profile.
	orphan := seedProfile(t, db, "gone@example.com", models.RoleUser)
	require.NoError(t, db.Unscoped().Delete(orphan).Error)

	healed, created, err := svc.GetOrCreate(ctx, orphan.ID, "gone@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleUser, healed.Role)
	assert.Equal(t, "gone@example.com", healed.Email)
}
