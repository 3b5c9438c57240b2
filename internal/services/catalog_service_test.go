package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/otttrusted/storefront/internal/dto"
	"github.com/otttrusted/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListActiveFiltersCatalog(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	app, plan := seedCatalog(t, db)
	inactivePlan := &models.Plan{AppID: app.ID, Name: "Retired", Price: 99, Active: false}
	require.NoError(t, db.Create(inactivePlan).Error)
	hiddenApp := &models.App{Name: "Hidden", Active: false}
	require.NoError(t, db.Create(hiddenApp).Error)

	apps, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Len(t, apps[0].Plans, 1)
	assert.Equal(t, plan.ID, apps[0].Plans[0].ID)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateAndUpdateApp(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	app, err := svc.CreateApp(ctx, &dto.CreateAppRequest{Name: "Prime Video", Recommended: true})
	require.NoError(t, err)
	assert.True(t, app.Active)
	assert.True(t, app.Recommended)

	newName := "Amazon Prime Video"
	inactive := false
	updated, err := svc.UpdateApp(ctx, app.ID, &dto.UpdateAppRequest{Name: &newName, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Amazon Prime Video", updated.Name)
	assert.False(t, updated.Active)

	_, err = svc.UpdateApp(ctx, uuid.New(), &dto.UpdateAppRequest{Name: &newName})
	assert.ErrorIs(t, err, ErrAppNotFound)
}

func TestUpdatePlanPartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	_, plan := seedCatalog(t, db)

	price := 249
	updated, err := svc.UpdatePlan(ctx, plan.ID, &dto.UpdatePlanRequest{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 249, updated.Price)
	// Untouched fields survive a partial update.
	assert.Equal(t, "Premium 4K", updated.Name)
	assert.True(t, updated.Active)
}

func TestDeleteAppWithOrders(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	orders := NewOrderService(db)
	ctx := context.Background()

	user := seedProfile(t, db, "buyer@example.com", models.RoleUser)
	app, plan := seedCatalog(t, db)
	_, err := orders.Place(ctx, user.ID, plan.ID, "proof")
	require.NoError(t, err)

	// Order history blocks a plain delete.
	err = svc.DeleteApp(ctx, app.ID, false)
	assert.ErrorIs(t, err, ErrAppHasOrders)

	// Purge removes orders, plans and the app together.
	require.NoError(t, svc.DeleteApp(ctx, app.ID, true))

	var appCount, planCount, orderCount int64
	db.Model(&models.App{}).Count(&appCount)
	db.Model(&models.Plan{}).Count(&planCount)
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, appCount)
	assert.Zero(t, planCount)
	assert.Zero(t, orderCount)
}

func TestDeleteAppWithoutOrders(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	app, _ := seedCatalog(t, db)
	require.NoError(t, svc.DeleteApp(ctx, app.ID, false))

	err := svc.DeleteApp(ctx, app.ID, false)
	assert.ErrorIs(t, err, ErrAppNotFound)
}

func TestDeletePlanGuard(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	orders := NewOrderService(db)
	ctx := context.Background()

	user := seedProfile(t, db, "buyer@example.com", models.RoleUser)
	_, plan := seedCatalog(t, db)
	_, err := orders.Place(ctx, user.ID, plan.ID, "proof")
	require.NoError(t, err)

	err = svc.DeletePlan(ctx, plan.ID)
	assert.ErrorIs(t, err, ErrAppHasOrders)

	fresh, err := svc.CreatePlan(ctx, plan.AppID, &dto.CreatePlanRequest{Name: "Basic", Price: 99})
	require.NoError(t, err)
	require.NoError(t, svc.DeletePlan(ctx, fresh.ID))

	err = svc.DeletePlan(ctx, fresh.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}
