package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/otttrusted/storefront/internal/dto"
	"github.com/otttrusted/storefront/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAppNotFound  = errors.New("app not found")
	ErrAppHasOrders = errors.New("app has existing orders")
)

// CatalogService manages the purchasable apps and their plans.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListActive returns the storefront catalog: active apps with their active
// plans, recommended entries first, then newest.
func (s *CatalogService) ListActive(ctx context.Context) ([]models.App, error) {
	var apps []models.App
	err := s.db.WithContext(ctx).
		Preload("Plans", "active = ?", true).
		Where("active = ?", true).
		Order("recommended DESC").
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}
	return apps, nil
}

// ListAll returns the full catalog for the admin console, inactive included.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.App, error) {
	var apps []models.App
	err := s.db.WithContext(ctx).
		Preload("Plans").
		Order("recommended DESC").
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}
	return apps, nil
}

// GetPlan loads a plan with its app joined in.
func (s *CatalogService) GetPlan(ctx context.Context, planID uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	err := s.db.WithContext(ctx).Preload("App").First(&plan, "id = ?", planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return &plan, nil
}

func (s *CatalogService) CreateApp(ctx context.Context, req *dto.CreateAppRequest) (*models.App, error) {
	app := models.App{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		Active:      true,
		Recommended: req.Recommended,
	}
	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		return nil, fmt.Errorf("failed to create app: %w", err)
	}
	return &app, nil
}

func (s *CatalogService) UpdateApp(ctx context.Context, appID uuid.UUID, req *dto.UpdateAppRequest) (*models.App, error) {
	var app models.App
	if err := s.db.WithContext(ctx).First(&app, "id = ?", appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, fmt.Errorf("failed to load app: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.Recommended != nil {
		updates["recommended"] = *req.Recommended
	}
	if len(updates) == 0 {
		return &app, nil
	}

	if err := s.db.WithContext(ctx).Model(&app).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update app: %w", err)
	}
	return &app, nil
}

// DeleteApp removes an app and its plans. An app with dependent orders is a
// conflict unless purge is set, in which case order history, plans and the
// app are removed in one transaction. The non-purge alternative offered to
// the operator is deactivation via UpdateApp.
func (s *CatalogService) DeleteApp(ctx context.Context, appID uuid.UUID, purge bool) error {
	var app models.App
	if err := s.db.WithContext(ctx).First(&app, "id = ?", appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAppNotFound
		}
		return fmt.Errorf("failed to load app: %w", err)
	}

	var orderCount int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("plan_id IN (?)", s.db.Model(&models.Plan{}).Select("id").Where("app_id = ?", appID)).
		Count(&orderCount).Error
	if err != nil {
		return fmt.Errorf("failed to count dependent orders: %w", err)
	}

	if orderCount > 0 && !purge {
		return ErrAppHasOrders
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if orderCount > 0 {
			if err := tx.Where("plan_id IN (?)",
				tx.Model(&models.Plan{}).Select("id").Where("app_id = ?", appID)).
				Delete(&models.Order{}).Error; err != nil {
				return fmt.Errorf("failed to purge orders: %w", err)
			}
			slog.Info("purged dependent orders", "app_id", appID, "count", orderCount)
		}
		if err := tx.Where("app_id = ?", appID).Delete(&models.Plan{}).Error; err != nil {
			return fmt.Errorf("failed to delete plans: %w", err)
		}
		return tx.Delete(&app).Error
	})
}

func (s *CatalogService) CreatePlan(ctx context.Context, appID uuid.UUID, req *dto.CreatePlanRequest) (*models.Plan, error) {
	var app models.App
	if err := s.db.WithContext(ctx).First(&app, "id = ?", appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, fmt.Errorf("failed to load app: %w", err)
	}

	plan := models.Plan{
		ID:      uuid.New(),
		AppID:   appID,
		Name:    req.Name,
		Price:   req.Price,
		Details: req.Details,
		Active:  true,
	}
	if err := s.db.WithContext(ctx).Create(&plan).Error; err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return &plan, nil
}

func (s *CatalogService) UpdatePlan(ctx context.Context, planID uuid.UUID, req *dto.UpdatePlanRequest) (*models.Plan, error) {
	var plan models.Plan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Details != nil {
		updates["details"] = *req.Details
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return &plan, nil
	}

	if err := s.db.WithContext(ctx).Model(&plan).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	return &plan, nil
}

// DeletePlan removes a plan. Plans with order history cannot be deleted; the
// operator deactivates them instead.
func (s *CatalogService) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	var orderCount int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("plan_id = ?", planID).
		Count(&orderCount).Error; err != nil {
		return fmt.Errorf("failed to count dependent orders: %w", err)
	}
	if orderCount > 0 {
		return ErrAppHasOrders
	}

	result := s.db.WithContext(ctx).Delete(&models.Plan{}, "id = ?", planID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}
