// internal/domain/feature/service.go
package feature

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/pkg/apperr"
	"github.com/your-org/restaurant-backend/internal/pkg/slug"
	"gorm.io/gorm"
)

// Service handles the feature catalog and per-outlet entitlements. Reads
// go through a short-TTL Redis cache; grant/revoke invalidate it.
type Service struct {
	db     *gorm.DB
	config *config.Config
	cache  *redis.Client
	logger *logrus.Logger
}

// NewService creates a new feature service. cache may be nil, in which
// case every check hits the database.
func NewService(db *gorm.DB, cfg *config.Config, cache *redis.Client, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		cache:  cache,
		logger: logger,
	}
}

// CreateFeatureRequest represents feature catalog creation data
type CreateFeatureRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// CreateFeature registers a feature in the catalog
func (s *Service) CreateFeature(req *CreateFeatureRequest) (*Feature, error) {
	var existing Feature
	if err := s.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return nil, apperr.Duplicate("feature with code '%s' already exists", req.Code)
	}

	feature := &Feature{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Slug:        slug.New(),
	}

	if err := s.db.Create(feature).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to create feature")
	}

	return feature, nil
}

// ListFeatures retrieves the feature catalog
func (s *Service) ListFeatures() ([]Feature, error) {
	var features []Feature
	if err := s.db.Order("code").Find(&features).Error; err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve features")
	}
	return features, nil
}

// Grant entitles an outlet to a feature
func (s *Service) Grant(ctx context.Context, outletID uint, code string, grantedBy uint) error {
	feature, err := s.getByCode(code)
	if err != nil {
		return err
	}

	var existing OutletFeature
	if err := s.db.Where("outlet_id = ? AND feature_id = ?", outletID, feature.ID).First(&existing).Error; err == nil {
		return apperr.Duplicate("outlet already has feature '%s'", code)
	}

	grant := &OutletFeature{
		OutletID:  outletID,
		FeatureID: feature.ID,
		GrantedBy: grantedBy,
	}
	if err := s.db.Create(grant).Error; err != nil {
		return apperr.Persistence(err, "failed to grant feature")
	}

	s.invalidate(ctx, outletID, code)
	return nil
}

// Revoke removes an outlet's entitlement to a feature
func (s *Service) Revoke(ctx context.Context, outletID uint, code string) error {
	feature, err := s.getByCode(code)
	if err != nil {
		return err
	}

	result := s.db.Where("outlet_id = ? AND feature_id = ?", outletID, feature.ID).Delete(&OutletFeature{})
	if result.Error != nil {
		return apperr.Persistence(result.Error, "failed to revoke feature")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("outlet does not have feature '%s'", code)
	}

	s.invalidate(ctx, outletID, code)
	return nil
}

// HasFeature reports whether an outlet is entitled to a feature. This is
// the read-only gate the order pipeline consults; it never fails the
// caller on cache trouble, only on database errors.
func (s *Service) HasFeature(ctx context.Context, outletID uint, code string) (bool, error) {
	key := s.cacheKey(outletID, code)

	if s.cache != nil {
		if val, err := s.cache.Get(ctx, key).Result(); err == nil {
			return val == "1", nil
		} else if !errors.Is(err, redis.Nil) {
			s.logger.WithError(err).Warn("feature cache read failed, falling back to database")
		}
	}

	var count int64
	err := s.db.Model(&OutletFeature{}).
		Joins("JOIN features ON features.id = outlet_features.feature_id").
		Where("outlet_features.outlet_id = ? AND features.code = ?", outletID, code).
		Count(&count).Error
	if err != nil {
		return false, apperr.Persistence(err, "failed to check feature entitlement")
	}

	enabled := count > 0
	if s.cache != nil {
		val := "0"
		if enabled {
			val = "1"
		}
		if err := s.cache.Set(ctx, key, val, s.config.Features.CacheTTL).Err(); err != nil {
			s.logger.WithError(err).Warn("feature cache write failed")
		}
	}

	return enabled, nil
}

func (s *Service) getByCode(code string) (*Feature, error) {
	var feature Feature
	err := s.db.Where("code = ?", code).First(&feature).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("feature '%s' not found", code)
	}
	if err != nil {
		return nil, apperr.Persistence(err, "failed to retrieve feature")
	}
	return &feature, nil
}

func (s *Service) cacheKey(outletID uint, code string) string {
	return fmt.Sprintf("feature:%d:%s", outletID, code)
}

func (s *Service) invalidate(ctx context.Context, outletID uint, code string) {
	if s.cache == nil {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.cache.Del(cctx, s.cacheKey(outletID, code)).Err(); err != nil {
		s.logger.WithError(err).Warn("feature cache invalidation failed")
	}
}
