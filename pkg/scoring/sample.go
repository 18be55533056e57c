package scoring

import (
	"strings"

	"liyu1981.xyz/device-health-service/pkg/models"
)

const (
	BatteryHealthGood               = "good"
	BatteryHealthUnknown            = "unknown"
	BatteryHealthOverheat           = "overheat"
	BatteryHealthDead               = "dead"
	BatteryHealthOverVoltage        = "over_voltage"
	BatteryHealthCold               = "cold"
	BatteryHealthUnspecifiedFailure = "unspecified_failure"
)

type Battery struct {
	Level       *float64
	Health      string
	Cycles      *int
	Temperature *float64
	IsCharging  *bool
}

type Storage struct {
	TotalGB     *float64
	UsedGB      *float64
	AvailableGB *float64
}

type RAM struct {
	TotalMB     *float64
	AvailableMB *float64
}

type SystemInfo struct {
	OSVersion          string
	DeviceManufacturer string
	DeviceModelInfo    string
	AppVersion         string
}

// Sample is one telemetry submission. Every numeric reading is optional.
type Sample struct {
	Source  models.Source
	Battery Battery
	Storage Storage
	RAM     RAM
	System  SystemInfo
}

// Normalized carries a sample together with the values derived from it.
// Percentages are nil when the inputs needed to compute them are missing.
type Normalized struct {
	Sample

	BatteryHealth      string
	StoragePercentUsed *float64
	RAMPercentUsed     *float64
}

func (n Normalized) HasBattery() bool { return n.Battery.Level != nil }
func (n Normalized) HasStorage() bool { return n.StoragePercentUsed != nil }
func (n Normalized) HasRAM() bool     { return n.RAMPercentUsed != nil }

func Normalize(s Sample) Normalized {
	n := Normalized{
		Sample:        s,
		BatteryHealth: CanonicalBatteryHealth(s.Battery.Health),
	}

	if s.Storage.TotalGB != nil && s.Storage.UsedGB != nil && *s.Storage.TotalGB > 0 {
		p := *s.Storage.UsedGB / *s.Storage.TotalGB * 100
		n.StoragePercentUsed = &p
	}

	if s.RAM.TotalMB != nil && s.RAM.AvailableMB != nil && *s.RAM.TotalMB > 0 {
		p := (*s.RAM.TotalMB - *s.RAM.AvailableMB) / *s.RAM.TotalMB * 100
		n.RAMPercentUsed = &p
	}

	return n
}

// CanonicalBatteryHealth maps free-form platform strings ("Over Voltage",
// "OVERHEAT ") onto the category names the detector and scorer use.
func CanonicalBatteryHealth(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	h = strings.NewReplacer(" ", "_", "-", "_").Replace(h)
	if h == "overvoltage" {
		return BatteryHealthOverVoltage
	}
	return h
}

// SampleFromLog rebuilds the sample a stored log was scored from.
func SampleFromLog(l models.HealthLog) Sample {
	return Sample{
		Source: l.Source,
		Battery: Battery{
			Level:       l.BatteryLevel,
			Health:      l.BatteryHealth,
			Cycles:      l.BatteryCycles,
			Temperature: l.BatteryTemperature,
			IsCharging:  l.IsCharging,
		},
		Storage: Storage{
			TotalGB:     l.StorageTotalGB,
			UsedGB:      l.StorageUsedGB,
			AvailableGB: l.StorageAvailableGB,
		},
		RAM: RAM{
			TotalMB:     l.RAMTotalMB,
			AvailableMB: l.RAMAvailableMB,
		},
		System: SystemInfo{
			OSVersion:          l.OSVersion,
			DeviceManufacturer: l.DeviceManufacturer,
			DeviceModelInfo:    l.DeviceModelInfo,
			AppVersion:         l.AppVersion,
		},
	}
}
