package scoring

import "math"

const (
	WeightBattery = 0.4
	WeightStorage = 0.3
	WeightRAM     = 0.3
)

var batteryHealthPenalty = map[string]float64{
	BatteryHealthDead:               40,
	BatteryHealthOverheat:           30,
	BatteryHealthOverVoltage:        25,
	BatteryHealthUnspecifiedFailure: 20,
	BatteryHealthCold:               15,
}

// Score blends the available metric families into a 0-100 integer. Missing
// families are left out and the weights of the present ones renormalized, so a
// partial sample is not penalized. A sample with no usable family scores 0.
func Score(n Normalized) int {
	var total, weights float64

	if n.HasBattery() {
		sub := *n.Battery.Level - batteryHealthPenalty[n.BatteryHealth]
		total += clamp(sub, 0, 100) * WeightBattery
		weights += WeightBattery
	}

	if n.HasStorage() {
		total += clamp(100-*n.StoragePercentUsed, 0, 100) * WeightStorage
		weights += WeightStorage
	}

	if n.HasRAM() {
		total += clamp(100-*n.RAMPercentUsed, 0, 100) * WeightRAM
		weights += WeightRAM
	}

	if weights == 0 {
		return 0
	}

	return int(clamp(math.Round(total/weights), 0, 100))
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
