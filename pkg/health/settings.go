package health

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/device-health-service/pkg/cache"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/models"
	"liyu1981.xyz/device-health-service/pkg/scoring"
)

// resolveSettings reads cache, then database, then falls back to defaults.
// Cache failures are logged and never fail the lookup.
func (h *Health) resolveSettings(ctx context.Context, centroID string) (scoring.Settings, error) {
	log := logger(common.LoggerCategorySettings)

	if h.SettingsCache != nil {
		s, err := h.SettingsCache.Get(ctx, centroID)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn("Settings cache read failed", zap.String("centro_id", centroID), zap.Error(err))
		}
	}

	var row models.DeviceHealthSettings
	var settings scoring.Settings
	err := h.Db.Conn.WithContext(ctx).First(&row, "centro_id = ?", centroID).Error
	switch {
	case err == nil:
		settings = scoring.FromModel(&row)
	case errors.Is(err, gorm.ErrRecordNotFound):
		settings = scoring.DefaultSettings()
	default:
		return scoring.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	if h.SettingsCache != nil {
		if err := h.SettingsCache.Set(ctx, centroID, settings); err != nil {
			log.Warn("Settings cache write failed", zap.String("centro_id", centroID), zap.Error(err))
		}
	}

	return settings, nil
}

func (h *Health) upsertSettings(ctx context.Context, centroID string, settings scoring.Settings) (scoring.Settings, error) {
	log := logger(common.LoggerCategorySettings)

	if centroID == "" {
		return scoring.Settings{}, validationError("centro_id is required")
	}
	if errs := SettingsSchema.Validate(&settings); errs != nil {
		return scoring.Settings{}, validationError(errs)
	}

	row := settings.ToModel(centroID)
	stored := scoring.FromModel(row)
	if stored.BatteryCriticalThreshold > stored.BatteryWarningThreshold {
		return scoring.Settings{}, validationError("battery critical threshold must not exceed the warning threshold")
	}
	if stored.StorageWarningThreshold > stored.StorageCriticalThreshold {
		return scoring.Settings{}, validationError("storage warning threshold must not exceed the critical threshold")
	}
	if stored.HealthScoreCriticalThreshold > stored.HealthScoreWarningThreshold {
		return scoring.Settings{}, validationError("health score critical threshold must not exceed the warning threshold")
	}

	log.Info("Received settings for centro", zap.String("centro_id", centroID), zap.Reflect("settings", settings))

	err := h.Db.Conn.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "centro_id"}},
		UpdateAll: true,
	}).Create(row).Error
	if err != nil {
		return scoring.Settings{}, fmt.Errorf("store settings: %w", err)
	}

	if h.SettingsCache != nil {
		if err := h.SettingsCache.Invalidate(ctx, centroID); err != nil {
			log.Warn("Settings cache invalidation failed", zap.String("centro_id", centroID), zap.Error(err))
		}
	}

	log.Info("Upserted settings for centro", zap.String("centro_id", centroID))

	return stored, nil
}

func (h *Health) settingsFor(ctx context.Context, centroID string) (scoring.Settings, error) {
	if h.Settings == nil {
		return h.resolveSettings(ctx, centroID)
	}
	return h.Settings.ResolveSettings(ctx, centroID)
}

type ISettingsImpl struct {
	health *Health
}

func (is *ISettingsImpl) ResolveSettings(ctx context.Context, centroID string) (scoring.Settings, error) {
	return is.health.resolveSettings(ctx, centroID)
}

func (is *ISettingsImpl) UpsertSettings(ctx context.Context, centroID string, settings scoring.Settings) (scoring.Settings, error) {
	return is.health.upsertSettings(ctx, centroID, settings)
}

func (h *Health) GetISettings() ISettings {
	return &ISettingsImpl{health: h}
}
