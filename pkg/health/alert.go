package health

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/models"
	"liyu1981.xyz/device-health-service/pkg/notify"
	"liyu1981.xyz/device-health-service/pkg/scoring"
)

var (
	acceptableStatuses = []models.AlertStatus{models.AlertStatusPending, models.AlertStatusSent, models.AlertStatusConfirmed}
	reviewableStatuses = []models.AlertStatus{models.AlertStatusPending, models.AlertStatusSent}
	openStatuses       = []models.AlertStatus{models.AlertStatusPending, models.AlertStatusSent}
)

func (h *Health) createAlertIfNeeded(ctx context.Context, subject AlertSubject, score int, anomalies []models.Anomaly, settings scoring.Settings) (*models.HealthAlert, error) {
	log := logger(common.LoggerCategoryAlert)

	decision := scoring.DecideAlert(score, anomalies, settings)
	if decision == nil {
		return nil, nil
	}

	alert := decision.ToModel(subject.CustomerID, subject.CentroID, subject.DeviceID, h.now())
	alert.HealthLogID = subject.HealthLogID
	alert.DiagnosticQuizID = subject.DiagnosticQuizID

	log.Info("Alert found",
		zap.String("centro_id", alert.CentroID),
		zap.String("alert_type", alert.AlertType),
		zap.String("severity", string(alert.Severity)),
		zap.Int("discount_offered", alert.DiscountPercent),
	)

	if err := h.storeAlert(ctx, alert, true); err != nil {
		return nil, err
	}

	return alert, nil
}

// storeAlert inserts alert and, when announce is set, announces it to the centro.
func (h *Health) storeAlert(ctx context.Context, alert *models.HealthAlert, announce bool) error {
	log := logger(common.LoggerCategoryAlert)

	if err := h.Db.Conn.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("store alert: %w", err)
	}

	log.Info("Alert saved", zap.String("alert_id", alert.ID))

	if !announce {
		return nil
	}
	h.dispatch(ctx, notify.Event{
		Kind:       notify.KindAlertCreated,
		Audience:   notify.AudienceCentro,
		CentroID:   alert.CentroID,
		CustomerID: alert.CustomerID,
		Title:      alert.Title,
		Message:    alert.Message,
		Data: map[string]any{
			"alert_id":         alert.ID,
			"alert_type":       alert.AlertType,
			"severity":         string(alert.Severity),
			"discount_offered": alert.DiscountPercent,
		},
	})
	return nil
}

func (h *Health) acceptAlert(ctx context.Context, req *AcceptAlertRequest) (*models.HealthAlert, error) {
	log := logger(common.LoggerCategoryAlert)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	g, err := h.requireAccess(ctx, req.CustomerEmail, req.CentroID)
	if err != nil {
		return nil, err
	}

	var alert models.HealthAlert
	err = h.Db.Conn.WithContext(ctx).
		First(&alert, "id = ? AND customer_id = ? AND centro_id = ?", req.AlertID, g.Customer.ID, req.CentroID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load alert: %w", err)
	}

	if !slices.Contains(acceptableStatuses, alert.Status) {
		return nil, fmt.Errorf("%w: status is %s", ErrAlertNotActionable, alert.Status)
	}

	now := h.now()
	if now.After(alert.ExpiresAt) {
		alert.Status = models.AlertStatusExpired
		if err := h.Db.Conn.WithContext(ctx).Model(&alert).Select("status").Updates(&alert).Error; err != nil {
			log.Warn("Failed to mark alert expired", zap.String("alert_id", alert.ID), zap.Error(err))
		}
		return nil, ErrAlertExpired
	}

	alert.Status = models.AlertStatusAccepted
	alert.AcceptedAt = &now
	if err := h.transitionAlert(ctx, &alert, acceptableStatuses, "status", "accepted_at"); err != nil {
		return nil, fmt.Errorf("accept alert: %w", err)
	}

	log.Info("Alert accepted", zap.String("alert_id", alert.ID), zap.String("customer_id", g.Customer.ID))

	return &alert, nil
}

func (h *Health) reviewAlert(ctx context.Context, centroID, alertID string, req *ReviewAlertRequest) (*models.HealthAlert, error) {
	log := logger(common.LoggerCategoryAlert)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	var alert models.HealthAlert
	err := h.Db.Conn.WithContext(ctx).First(&alert, "id = ? AND centro_id = ?", alertID, centroID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load alert: %w", err)
	}

	if !slices.Contains(reviewableStatuses, alert.Status) {
		return nil, fmt.Errorf("%w: status is %s", ErrAlertNotActionable, alert.Status)
	}

	now := h.now()
	alert.CentroReviewed = true
	alert.ReviewedAt = &now
	alert.CentroAction = req.Action
	alert.Status = models.AlertStatusDismissed
	if req.Action == ReviewActionConfirm {
		alert.Status = models.AlertStatusConfirmed
	}
	columns := []string{"centro_reviewed", "reviewed_at", "centro_action", "status"}
	if req.Notes != "" {
		alert.CentroNotes = req.Notes
		columns = append(columns, "centro_notes")
	}

	if err := h.transitionAlert(ctx, &alert, reviewableStatuses, columns...); err != nil {
		return nil, fmt.Errorf("update alert: %w", err)
	}

	log.Info("Alert reviewed",
		zap.String("alert_id", alert.ID),
		zap.String("action", req.Action),
		zap.String("status", string(alert.Status)),
	)

	if req.Action == ReviewActionConfirm {
		h.notifyCustomer(ctx, &alert)
	} else {
		h.dispatch(ctx, notify.Event{
			Kind:       notify.KindAlertDismissed,
			Audience:   notify.AudienceCentro,
			CentroID:   alert.CentroID,
			CustomerID: alert.CustomerID,
			Title:      alert.Title,
			Data:       map[string]any{"alert_id": alert.ID},
		})
	}

	return &alert, nil
}

// transitionAlert writes columns only while the stored status is still one
// of from. A row moved on by someone else yields ErrAlertNotActionable.
func (h *Health) transitionAlert(ctx context.Context, alert *models.HealthAlert, from []models.AlertStatus, columns ...string) error {
	result := h.Db.Conn.WithContext(ctx).
		Model(alert).
		Where("status IN ?", from).
		Select(columns).
		Updates(alert)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: status changed concurrently", ErrAlertNotActionable)
	}
	return nil
}

// notifyCustomer leaves an in-app notification for a confirmed alert and
// pushes it to the customer channel. Failures are logged only.
func (h *Health) notifyCustomer(ctx context.Context, alert *models.HealthAlert) {
	log := logger(common.LoggerCategoryAlert)

	var customer models.Customer
	if err := h.Db.Conn.WithContext(ctx).First(&customer, "id = ?", alert.CustomerID).Error; err != nil {
		log.Warn("Customer for confirmed alert not found", zap.String("alert_id", alert.ID), zap.Error(err))
		return
	}

	data := map[string]any{
		"alert_id":            alert.ID,
		"alert_type":          alert.AlertType,
		"recommended_action":  alert.RecommendedAction,
		"discount_offered":    alert.DiscountPercent,
		"confirmed_by_centro": true,
	}
	if alert.DiscountCode != nil {
		data["discount_code"] = *alert.DiscountCode
	}

	notification := models.CustomerNotification{
		CustomerEmail: customer.Email,
		CentroID:      alert.CentroID,
		Title:         alert.Title,
		Message:       alert.Message,
		Type:          fmt.Sprintf("health_alert_%s", alert.Severity),
		Data:          data,
	}
	if err := h.Db.Conn.WithContext(ctx).Create(&notification).Error; err != nil {
		log.Warn("Failed to create customer notification", zap.String("alert_id", alert.ID), zap.Error(err))
		return
	}

	pushedAt := h.now()
	alert.PushSentAt = &pushedAt
	if err := h.Db.Conn.WithContext(ctx).Model(alert).Select("push_sent_at").Updates(alert).Error; err != nil {
		log.Warn("Failed to record push time", zap.String("alert_id", alert.ID), zap.Error(err))
	}

	h.dispatch(ctx, notify.Event{
		Kind:       notify.KindAlertConfirmed,
		Audience:   notify.AudienceCustomer,
		CentroID:   alert.CentroID,
		CustomerID: alert.CustomerID,
		Title:      alert.Title,
		Message:    alert.Message,
		Data:       data,
	})

	log.Info("Customer notified", zap.String("alert_id", alert.ID), zap.String("notification_id", notification.ID))
}

func (h *Health) listCentroAlerts(ctx context.Context, centroID, status string) ([]models.HealthAlert, error) {
	if status != "" && !slices.Contains(models.AlertStatuses, status) {
		return nil, validationError(fmt.Sprintf("unknown alert status %q", status))
	}

	q := h.Db.Conn.WithContext(ctx).Where("centro_id = ?", centroID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	alerts := []models.HealthAlert{}
	err := q.Order("created_at desc").Find(&alerts).Error
	return alerts, err
}

type IAlertImpl struct {
	health *Health
}

func (ia *IAlertImpl) CreateAlertIfNeeded(ctx context.Context, subject AlertSubject, score int, anomalies []models.Anomaly, settings scoring.Settings) (*models.HealthAlert, error) {
	return ia.health.createAlertIfNeeded(ctx, subject, score, anomalies, settings)
}

func (ia *IAlertImpl) AcceptAlert(ctx context.Context, req *AcceptAlertRequest) (*models.HealthAlert, error) {
	return ia.health.acceptAlert(ctx, req)
}

func (ia *IAlertImpl) ReviewAlert(ctx context.Context, centroID, alertID string, req *ReviewAlertRequest) (*models.HealthAlert, error) {
	return ia.health.reviewAlert(ctx, centroID, alertID, req)
}

func (ia *IAlertImpl) AnalyzeAlerts(ctx context.Context, centroID string, req *AnalyzeAlertsRequest) (*AnalyzeAlertsResult, error) {
	return ia.health.analyzeAlerts(ctx, centroID, req)
}

func (ia *IAlertImpl) ListCentroAlerts(ctx context.Context, centroID, status string) ([]models.HealthAlert, error) {
	return ia.health.listCentroAlerts(ctx, centroID, status)
}

func (h *Health) GetIAlert() IAlert {
	return &IAlertImpl{health: h}
}
