package health

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/models"
	"liyu1981.xyz/device-health-service/pkg/scoring"
)

func (h *Health) logHealth(ctx context.Context, req *LogHealthRequest) (*LogHealthResult, error) {
	log := logger(common.LoggerCategoryLog)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	g, err := h.requireAccess(ctx, req.CustomerEmail, req.CentroID)
	if err != nil {
		return nil, err
	}

	source := models.Source(req.Source)
	if !g.Settings.SourceEnabled(source) {
		return nil, denied(ReasonPlatformDisabled, ErrPlatformDisabled)
	}

	eval := scoring.Evaluate(req.Sample(), g.Settings)
	n := eval.Normalized

	record := models.HealthLog{
		CustomerID:    g.Customer.ID,
		CentroID:      req.CentroID,
		DeviceID:      req.DeviceID,
		LoyaltyCardID: g.LoyaltyCard.ID,
		Source:        source,

		BatteryLevel:       n.Battery.Level,
		BatteryHealth:      n.BatteryHealth,
		BatteryCycles:      n.Battery.Cycles,
		BatteryTemperature: n.Battery.Temperature,
		IsCharging:         n.Battery.IsCharging,

		StorageTotalGB:     n.Storage.TotalGB,
		StorageUsedGB:      n.Storage.UsedGB,
		StorageAvailableGB: n.Storage.AvailableGB,
		StoragePercentUsed: n.StoragePercentUsed,

		RAMTotalMB:     n.RAM.TotalMB,
		RAMAvailableMB: n.RAM.AvailableMB,
		RAMPercentUsed: n.RAMPercentUsed,

		OSVersion:          n.System.OSVersion,
		DeviceManufacturer: n.System.DeviceManufacturer,
		DeviceModelInfo:    n.System.DeviceModelInfo,
		AppVersion:         n.System.AppVersion,

		HealthScore: eval.Score,
		Anomalies:   eval.Anomalies,
	}

	log.Info("Received health log",
		zap.String("centro_id", req.CentroID),
		zap.String("customer_id", g.Customer.ID),
		zap.String("source", req.Source),
		zap.Int("health_score", eval.Score),
		zap.Int("anomalies", len(eval.Anomalies)),
	)

	if err := h.Db.Conn.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("store health log: %w", err)
	}

	log.Info("Health log saved", zap.String("log_id", record.ID))

	h.afterEvaluation(ctx, AlertSubject{
		CustomerID:  g.Customer.ID,
		CentroID:    req.CentroID,
		DeviceID:    req.DeviceID,
		HealthLogID: &record.ID,
	}, eval.Score, eval.Anomalies, g.Settings)

	return &LogHealthResult{
		Success:     true,
		HealthScore: eval.Score,
		Anomalies:   eval.Anomalies,
		LogID:       record.ID,
	}, nil
}

// afterEvaluation runs the alert and badge side effects of a stored
// evaluation. Their failures are logged and never reach the caller.
func (h *Health) afterEvaluation(ctx context.Context, subject AlertSubject, score int, anomalies []models.Anomaly, settings scoring.Settings) {
	if h.Alert == nil {
		logger(common.LoggerCategoryAlert).Error("Alert service not available")
	} else if _, err := h.Alert.CreateAlertIfNeeded(ctx, subject, score, anomalies, settings); err != nil {
		logger(common.LoggerCategoryAlert).Error("Alert creation failed",
			zap.String("customer_id", subject.CustomerID),
			zap.String("centro_id", subject.CentroID),
			zap.Error(err),
		)
	}

	if h.Badge == nil {
		logger(common.LoggerCategoryBadge).Error("Badge service not available")
	} else if _, err := h.Badge.AwardBadgesIfEligible(ctx, subject.CustomerID, subject.CentroID); err != nil {
		logger(common.LoggerCategoryBadge).Error("Badge award failed",
			zap.String("customer_id", subject.CustomerID),
			zap.String("centro_id", subject.CentroID),
			zap.Error(err),
		)
	}
}

type ILogImpl struct {
	health *Health
}

func (il *ILogImpl) LogHealth(ctx context.Context, req *LogHealthRequest) (*LogHealthResult, error) {
	return il.health.logHealth(ctx, req)
}

func (h *Health) GetILog() ILog {
	return &ILogImpl{health: h}
}
