package scoring

import "liyu1981.xyz/device-health-service/pkg/models"

const (
	DefaultBatteryCriticalThreshold     = 20.0
	DefaultBatteryWarningThreshold      = 40.0
	DefaultStorageWarningThreshold      = 80.0
	DefaultStorageCriticalThreshold     = 90.0
	DefaultHealthScoreWarningThreshold  = 60
	DefaultHealthScoreCriticalThreshold = 40
	DefaultWarningDiscountPercent       = 5
	DefaultCriticalDiscountPercent      = 10

	// RAMCriticalPercent is not configurable per centro.
	RAMCriticalPercent = 90.0
)

// Settings is the per-centro configuration every evaluation runs against.
type Settings struct {
	IsEnabled                bool `json:"is_enabled"`
	AndroidMonitoringEnabled bool `json:"android_monitoring_enabled"`
	IOSWebAppEnabled         bool `json:"ios_webapp_enabled"`

	BatteryWarningThreshold      float64 `json:"battery_warning_threshold"`
	BatteryCriticalThreshold     float64 `json:"battery_critical_threshold"`
	StorageWarningThreshold      float64 `json:"storage_warning_threshold"`
	StorageCriticalThreshold     float64 `json:"storage_critical_threshold"`
	HealthScoreWarningThreshold  int     `json:"health_score_warning_threshold"`
	HealthScoreCriticalThreshold int     `json:"health_score_critical_threshold"`

	AutoDiscountEnabled     bool `json:"auto_discount_enabled"`
	WarningDiscountPercent  int  `json:"warning_discount_percent"`
	CriticalDiscountPercent int  `json:"critical_discount_percent"`
}

func DefaultSettings() Settings {
	return Settings{
		IsEnabled:                    true,
		AndroidMonitoringEnabled:     true,
		IOSWebAppEnabled:             true,
		BatteryWarningThreshold:      DefaultBatteryWarningThreshold,
		BatteryCriticalThreshold:     DefaultBatteryCriticalThreshold,
		StorageWarningThreshold:      DefaultStorageWarningThreshold,
		StorageCriticalThreshold:     DefaultStorageCriticalThreshold,
		HealthScoreWarningThreshold:  DefaultHealthScoreWarningThreshold,
		HealthScoreCriticalThreshold: DefaultHealthScoreCriticalThreshold,
		AutoDiscountEnabled:          false,
		WarningDiscountPercent:       DefaultWarningDiscountPercent,
		CriticalDiscountPercent:      DefaultCriticalDiscountPercent,
	}
}

// FromModel builds Settings from a stored row. A nil row yields the defaults,
// and zero thresholds or discounts fall back to their default values.
func FromModel(m *models.DeviceHealthSettings) Settings {
	s := DefaultSettings()
	if m == nil {
		return s
	}

	s.IsEnabled = m.IsEnabled
	s.AndroidMonitoringEnabled = m.AndroidMonitoringEnabled
	s.IOSWebAppEnabled = m.IOSWebAppEnabled
	s.AutoDiscountEnabled = m.AutoDiscountEnabled

	s.BatteryWarningThreshold = orFloat(m.BatteryWarningThreshold, s.BatteryWarningThreshold)
	s.BatteryCriticalThreshold = orFloat(m.BatteryCriticalThreshold, s.BatteryCriticalThreshold)
	s.StorageWarningThreshold = orFloat(m.StorageWarningThreshold, s.StorageWarningThreshold)
	s.StorageCriticalThreshold = orFloat(m.StorageCriticalThreshold, s.StorageCriticalThreshold)
	s.HealthScoreWarningThreshold = orInt(m.HealthScoreWarningThreshold, s.HealthScoreWarningThreshold)
	s.HealthScoreCriticalThreshold = orInt(m.HealthScoreCriticalThreshold, s.HealthScoreCriticalThreshold)
	s.WarningDiscountPercent = orInt(m.WarningDiscountPercent, s.WarningDiscountPercent)
	s.CriticalDiscountPercent = orInt(m.CriticalDiscountPercent, s.CriticalDiscountPercent)

	return s
}

// ToModel is the inverse of FromModel, used when seeding or replacing a row.
func (s Settings) ToModel(centroID string) *models.DeviceHealthSettings {
	return &models.DeviceHealthSettings{
		CentroID:                     centroID,
		IsEnabled:                    s.IsEnabled,
		AndroidMonitoringEnabled:     s.AndroidMonitoringEnabled,
		IOSWebAppEnabled:             s.IOSWebAppEnabled,
		BatteryWarningThreshold:      s.BatteryWarningThreshold,
		BatteryCriticalThreshold:     s.BatteryCriticalThreshold,
		StorageWarningThreshold:      s.StorageWarningThreshold,
		StorageCriticalThreshold:     s.StorageCriticalThreshold,
		HealthScoreWarningThreshold:  s.HealthScoreWarningThreshold,
		HealthScoreCriticalThreshold: s.HealthScoreCriticalThreshold,
		AutoDiscountEnabled:          s.AutoDiscountEnabled,
		WarningDiscountPercent:       s.WarningDiscountPercent,
		CriticalDiscountPercent:      s.CriticalDiscountPercent,
	}
}

// SourceEnabled reports whether telemetry from the given source is accepted.
func (s Settings) SourceEnabled(source models.Source) bool {
	switch source {
	case models.SourceAndroidNative:
		return s.AndroidMonitoringEnabled
	case models.SourceIOSWebApp:
		return s.IOSWebAppEnabled
	}
	return true
}

func orFloat(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return v
}

func orInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
