// internal/domain/feature/service_test.go
package feature_test

import (
	"context"
	"io"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/feature"
	"github.com/your-org/restaurant-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/restaurant-backend/internal/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *feature.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for _, model := range postgres.Models() {
		require.NoError(t, db.AutoMigrate(model))
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	return feature.NewService(db, &config.Config{}, nil, log)
}

func TestFeatureCatalog(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.CreateFeature(&feature.CreateFeatureRequest{
		Code: feature.CodeInventory,
		Name: "Inventory Ledger",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.Slug)

	_, err = svc.CreateFeature(&feature.CreateFeatureRequest{
		Code: feature.CodeInventory,
		Name: "Duplicate",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))

	features, err := svc.ListFeatures()
	require.NoError(t, err)
	assert.Len(t, features, 1)
}

func TestGrantAndRevoke(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	const outletID uint = 7

	_, err := svc.CreateFeature(&feature.CreateFeatureRequest{
		Code: feature.CodeInventory,
		Name: "Inventory Ledger",
	})
	require.NoError(t, err)

	enabled, err := svc.HasFeature(ctx, outletID, feature.CodeInventory)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, svc.Grant(ctx, outletID, feature.CodeInventory, 1))

	enabled, err = svc.HasFeature(ctx, outletID, feature.CodeInventory)
	require.NoError(t, err)
	assert.True(t, enabled)

	t.Run("grant is per outlet", func(t *testing.T) {
		enabled, err := svc.HasFeature(ctx, outletID+1, feature.CodeInventory)
		require.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("double grant rejected", func(t *testing.T) {
		err := svc.Grant(ctx, outletID, feature.CodeInventory, 1)
		require.Error(t, err)
		assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
	})

	require.NoError(t, svc.Revoke(ctx, outletID, feature.CodeInventory))

	enabled, err = svc.HasFeature(ctx, outletID, feature.CodeInventory)
	require.NoError(t, err)
	assert.False(t, enabled)

	t.Run("revoking a missing grant fails", func(t *testing.T) {
		err := svc.Revoke(ctx, outletID, feature.CodeInventory)
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("unknown feature code", func(t *testing.T) {
		err := svc.Grant(ctx, outletID, "telepathy", 1)
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
