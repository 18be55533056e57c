package scoring

import (
	"fmt"
	"time"

	"liyu1981.xyz/device-health-service/pkg/models"
)

const (
	AlertTypePerformanceLow = "performance_low"
	AlertTypeGeneralWarning = AnomalyGeneralWarning

	AlertTTL = 7 * 24 * time.Hour

	RecommendedAction = "Book a free diagnosis"
)

type AlertDecision struct {
	AlertType         string
	Severity          models.Severity
	Title             string
	Message           string
	RecommendedAction string
	DiscountPercent   int
	DiscountCode      *string
}

// DecideAlert returns nil when the score is healthy and no critical anomaly
// was found. A critical anomaly overrides the score based title and message
// but keeps the discount chosen from the score.
func DecideAlert(score int, anomalies []models.Anomaly, s Settings) *AlertDecision {
	var d *AlertDecision

	switch {
	case score < s.HealthScoreCriticalThreshold:
		d = &AlertDecision{
			AlertType: AlertTypePerformanceLow,
			Severity:  models.SeverityCritical,
			Title:     "Urgent attention required",
			Message:   fmt.Sprintf("Your device scored %d/100 on its health check. We recommend a full diagnosis.", score),
		}
		if s.AutoDiscountEnabled {
			d.DiscountPercent = s.CriticalDiscountPercent
		}
	case score < s.HealthScoreWarningThreshold:
		d = &AlertDecision{
			AlertType: AlertTypeGeneralWarning,
			Severity:  models.SeverityMedium,
			Title:     "Check-up recommended",
			Message:   fmt.Sprintf("Your device shows some warning signs (score: %d/100).", score),
		}
		if s.AutoDiscountEnabled {
			d.DiscountPercent = s.WarningDiscountPercent
		}
	}

	for _, a := range anomalies {
		if a.Severity != models.SeverityCritical {
			continue
		}
		if d == nil {
			d = &AlertDecision{}
		}
		d.AlertType = a.Type
		d.Severity = models.SeverityCritical
		d.Title = "Critical problem detected"
		d.Message = a.Message
		break
	}

	if d == nil {
		return nil
	}

	d.RecommendedAction = RecommendedAction
	if d.DiscountPercent > 0 {
		code := DiscountCode(d.DiscountPercent)
		d.DiscountCode = &code
	}
	return d
}

// DecideAlerts is the batch form of DecideAlert: one decision per anomaly
// type found, plus the score based one. Each alert type appears at most once.
func DecideAlerts(score int, anomalies []models.Anomaly, s Settings) []*AlertDecision {
	decisions := []*AlertDecision{}
	seen := map[string]bool{}

	for _, a := range anomalies {
		if seen[a.Type] {
			continue
		}
		seen[a.Type] = true

		d := &AlertDecision{
			AlertType:         a.Type,
			Severity:          a.Severity,
			Title:             "Device issue detected",
			Message:           a.Message,
			RecommendedAction: RecommendedAction,
		}
		if a.Severity == models.SeverityCritical {
			d.Title = "Critical problem detected"
		}
		if s.AutoDiscountEnabled {
			d.DiscountPercent = s.WarningDiscountPercent
			if a.Severity == models.SeverityCritical {
				d.DiscountPercent = s.CriticalDiscountPercent
			}
		}
		if d.DiscountPercent > 0 {
			code := DiscountCode(d.DiscountPercent)
			d.DiscountCode = &code
		}
		decisions = append(decisions, d)
	}

	if d := DecideAlert(score, nil, s); d != nil && !seen[d.AlertType] {
		decisions = append(decisions, d)
	}
	return decisions
}

func DiscountCode(percent int) string {
	return fmt.Sprintf("HEALTH%d", percent)
}

// ToModel materializes the decision as a pending alert expiring AlertTTL after now.
func (d *AlertDecision) ToModel(customerID, centroID string, deviceID *string, now time.Time) *models.HealthAlert {
	return &models.HealthAlert{
		CustomerID:        customerID,
		CentroID:          centroID,
		DeviceID:          deviceID,
		AlertType:         d.AlertType,
		Severity:          d.Severity,
		Title:             d.Title,
		Message:           d.Message,
		RecommendedAction: d.RecommendedAction,
		DiscountPercent:   d.DiscountPercent,
		DiscountCode:      d.DiscountCode,
		Status:            models.AlertStatusPending,
		ExpiresAt:         now.Add(AlertTTL),
	}
}
