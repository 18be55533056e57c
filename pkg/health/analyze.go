package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/models"
	"liyu1981.xyz/device-health-service/pkg/scoring"
)

const (
	AnalyzeWindow = 24 * time.Hour

	MessageMonitoringDisabled = "Monitoring disabled"
	MessageNoHealthLogs       = "No health logs found"
	MessageNoIssues           = "No issues detected"
	MessageAlertsExist        = "All alerts already exist"
)

// analyzeAlerts re-checks stored logs against the centro's current settings
// and raises one alert per issue type. An issue already covered by an open
// alert of the same type created within scoring.AlertTTL is skipped.
func (h *Health) analyzeAlerts(ctx context.Context, centroID string, req *AnalyzeAlertsRequest) (*AnalyzeAlertsResult, error) {
	log := logger(common.LoggerCategoryAlert)

	if req == nil {
		req = &AnalyzeAlertsRequest{}
	}
	if centroID == "" {
		return nil, validationError("centro_id is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &AnalyzeAlertsResult{Success: true, Alerts: []models.HealthAlert{}}

	settings, err := h.settingsFor(ctx, centroID)
	if err != nil {
		return nil, err
	}
	if !settings.IsEnabled {
		result.Message = MessageMonitoringDisabled
		return result, nil
	}

	logs, err := h.logsToAnalyze(ctx, centroID, req)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		result.Message = MessageNoHealthLogs
		return result, nil
	}

	candidates := 0
	since := h.now().Add(-scoring.AlertTTL)
	for _, l := range logs {
		eval := scoring.Evaluate(scoring.SampleFromLog(l), settings)
		decisions := scoring.DecideAlerts(l.HealthScore, eval.Anomalies, settings)
		candidates += len(decisions)

		for _, d := range decisions {
			exists, err := h.hasRecentOpenAlert(ctx, l.CustomerID, centroID, d.AlertType, since)
			if err != nil {
				return nil, err
			}
			if exists {
				result.Skipped++
				continue
			}

			alert := d.ToModel(l.CustomerID, centroID, l.DeviceID, h.now())
			alert.HealthLogID = &l.ID
			if err := h.storeAlert(ctx, alert, req.announce()); err != nil {
				return nil, err
			}
			result.Alerts = append(result.Alerts, *alert)
		}
	}
	result.Analyzed = len(logs)

	switch {
	case candidates == 0:
		result.Message = MessageNoIssues
	case len(result.Alerts) == 0:
		result.Message = MessageAlertsExist
	}

	log.Info("Alerts analyzed",
		zap.String("centro_id", centroID),
		zap.Int("logs", result.Analyzed),
		zap.Int("created", len(result.Alerts)),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

// logsToAnalyze returns the single requested log, a customer's latest log,
// or the latest log of every customer seen within AnalyzeWindow.
func (h *Health) logsToAnalyze(ctx context.Context, centroID string, req *AnalyzeAlertsRequest) ([]models.HealthLog, error) {
	conn := h.Db.Conn.WithContext(ctx)

	if req.HealthLogID != "" || req.CustomerID != "" {
		q := conn.Where("centro_id = ?", centroID)
		if req.HealthLogID != "" {
			q = q.Where("id = ?", req.HealthLogID)
		} else {
			q = q.Where("customer_id = ?", req.CustomerID)
		}

		var l models.HealthLog
		err := q.Order("created_at desc").First(&l).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("load health log: %w", err)
		}
		return []models.HealthLog{l}, nil
	}

	recent := []models.HealthLog{}
	err := conn.
		Where("centro_id = ? AND created_at >= ?", centroID, h.now().Add(-AnalyzeWindow)).
		Order("created_at desc").
		Find(&recent).Error
	if err != nil {
		return nil, fmt.Errorf("load health logs: %w", err)
	}

	latest := []models.HealthLog{}
	seen := map[string]bool{}
	for _, l := range recent {
		if seen[l.CustomerID] {
			continue
		}
		seen[l.CustomerID] = true
		latest = append(latest, l)
	}
	return latest, nil
}

func (h *Health) hasRecentOpenAlert(ctx context.Context, customerID, centroID, alertType string, since time.Time) (bool, error) {
	var count int64
	err := h.Db.Conn.WithContext(ctx).
		Model(&models.HealthAlert{}).
		Where("customer_id = ? AND centro_id = ? AND alert_type = ?", customerID, centroID, alertType).
		Where("status IN ?", openStatuses).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check existing alerts: %w", err)
	}
	return count > 0, nil
}
