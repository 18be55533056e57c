package scoring

import (
	"fmt"

	"liyu1981.xyz/device-health-service/pkg/models"
)

const (
	AnomalyBatteryCritical = "battery_critical"
	AnomalyBatteryLow      = "battery_low"
	AnomalyBatteryHealth   = "battery_health"
	AnomalyStorageCritical = "storage_critical"
	AnomalyStorageWarning  = "storage_warning"
	AnomalyRAMCritical     = "ram_critical"
	AnomalyGeneralWarning  = "general_warning"
)

var batteryHealthSeverity = map[string]models.Severity{
	BatteryHealthOverheat:           models.SeverityHigh,
	BatteryHealthDead:               models.SeverityCritical,
	BatteryHealthOverVoltage:        models.SeverityHigh,
	BatteryHealthCold:               models.SeverityMedium,
	BatteryHealthUnspecifiedFailure: models.SeverityHigh,
}

// DetectAnomalies checks battery level, battery health, storage and RAM in
// that order. The result is never nil.
func DetectAnomalies(n Normalized, s Settings) []models.Anomaly {
	anomalies := []models.Anomaly{}

	if n.HasBattery() {
		level := *n.Battery.Level
		if level <= s.BatteryCriticalThreshold {
			anomalies = append(anomalies, models.Anomaly{
				Type:     AnomalyBatteryCritical,
				Severity: models.SeverityCritical,
				Message:  fmt.Sprintf("Critical battery level: %s%%", formatNumber(level)),
			})
		} else if level <= s.BatteryWarningThreshold {
			anomalies = append(anomalies, models.Anomaly{
				Type:     AnomalyBatteryLow,
				Severity: models.SeverityMedium,
				Message:  fmt.Sprintf("Low battery level: %s%%", formatNumber(level)),
			})
		}
	}

	if h := n.BatteryHealth; h != "" && h != BatteryHealthGood && h != BatteryHealthUnknown {
		severity, ok := batteryHealthSeverity[h]
		if !ok {
			severity = models.SeverityMedium
		}
		anomalies = append(anomalies, models.Anomaly{
			Type:     AnomalyBatteryHealth,
			Severity: severity,
			Message:  fmt.Sprintf("Battery problem detected: %s", h),
		})
	}

	if n.HasStorage() {
		p := *n.StoragePercentUsed
		if p >= s.StorageCriticalThreshold {
			anomalies = append(anomalies, models.Anomaly{
				Type:     AnomalyStorageCritical,
				Severity: models.SeverityCritical,
				Message:  fmt.Sprintf("Storage almost full: %.1f%% used", p),
			})
		} else if p >= s.StorageWarningThreshold {
			anomalies = append(anomalies, models.Anomaly{
				Type:     AnomalyStorageWarning,
				Severity: models.SeverityMedium,
				Message:  fmt.Sprintf("Storage running low: %.1f%% used", p),
			})
		}
	}

	if n.HasRAM() && *n.RAMPercentUsed >= RAMCriticalPercent {
		anomalies = append(anomalies, models.Anomaly{
			Type:     AnomalyRAMCritical,
			Severity: models.SeverityHigh,
			Message:  fmt.Sprintf("RAM almost exhausted: %.1f%% used", *n.RAMPercentUsed),
		})
	}

	return anomalies
}

// HighestSeverity returns the most severe level in the list, or "" when empty.
func HighestSeverity(anomalies []models.Anomaly) models.Severity {
	var highest models.Severity
	for _, a := range anomalies {
		if a.Severity.Rank() > highest.Rank() {
			highest = a.Severity
		}
	}
	return highest
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
