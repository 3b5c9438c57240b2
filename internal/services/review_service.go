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

var ErrReviewNotFound = errors.New("review not found")

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// ListActive returns the reviews shown publicly on the landing page.
func (s *ReviewService) ListActive(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) ListAll(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) Create(ctx context.Context, req *dto.CreateReviewRequest) (*models.Review, error) {
	review := models.Review{
		ID:       uuid.New(),
		UserName: req.UserName,
		Content:  req.Content,
		Rating:   req.Rating,
		Active:   true,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

func (s *ReviewService) ToggleActive(ctx context.Context, reviewID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to load review: %w", err)
	}

	toggled := !review.Active
	if err := s.db.WithContext(ctx).Model(&review).Update("active", toggled).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle review: %w", err)
	}
	review.Active = toggled
	return &review, nil
}

func (s *ReviewService) Delete(ctx context.Context, reviewID uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", reviewID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
