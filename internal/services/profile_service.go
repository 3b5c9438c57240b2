package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/otttrusted/storefront/internal/models"
	"gorm.io/gorm"
)

// ProfileService reads profiles and self-heals missing rows.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetOrCreate fetches the profile for an authenticated id. When the row is
// missing it creates a default one with role=user and reports created=true,
// so callers see the healing explicitly instead of as a hidden read side
// effect.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID uuid.UUID, email string) (*models.Profile, bool, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).First(&profile, "id = ?", userID).Error
	if err == nil {
		return &profile, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to load profile: %w", err)
	}

	profile = models.Profile{
		ID:    userID,
		Email: email,
		Role:  models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create default profile: %w", err)
	}

	slog.Info("profile self-healed", "user_id", userID)
	return &profile, true, nil
}
