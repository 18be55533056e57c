package scoring

import "liyu1981.xyz/device-health-service/pkg/models"

type Evaluation struct {
	Normalized Normalized
	Score      int
	Anomalies  []models.Anomaly
	Alert      *AlertDecision
}

// Evaluate runs the full telemetry pipeline against one sample.
func Evaluate(sample Sample, s Settings) Evaluation {
	n := Normalize(sample)
	score := Score(n)
	anomalies := DetectAnomalies(n, s)
	return Evaluation{
		Normalized: n,
		Score:      score,
		Anomalies:  anomalies,
		Alert:      DecideAlert(score, anomalies, s),
	}
}
