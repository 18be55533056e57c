package health_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/db"
	"liyu1981.xyz/device-health-service/pkg/health"
	"liyu1981.xyz/device-health-service/pkg/models"
	"liyu1981.xyz/device-health-service/pkg/notify"
	"liyu1981.xyz/device-health-service/pkg/scoring"
	_ "liyu1981.xyz/device-health-service/pkg/testing"
)

func seedCriticalAlert(t *testing.T, h *health.Health, m member) models.HealthAlert {
	t.Helper()

	_, err := h.Log.LogHealth(context.Background(), criticalSample(m))
	require.NoError(t, err)

	alerts, err := h.Alert.ListCentroAlerts(context.Background(), m.CentroID, "")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	return alerts[0]
}

// moveAlertDuringUpdate registers a callback that sets the stored status of
// alertID inside the next alert update, right before its UPDATE runs.
func moveAlertDuringUpdate(t *testing.T, h *health.Health, alertID string, status models.AlertStatus) {
	t.Helper()

	fired := false
	require.NoError(t, h.Db.Conn.Callback().Update().Before("gorm:update").Register("test:move_alert", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "device_health_alerts" {
			return
		}
		fired = true
		_, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"UPDATE device_health_alerts SET status = ? WHERE id = ?", string(status), alertID)
		if err != nil {
			_ = tx.AddError(err)
		}
	}))
}

func isolatedHealth(t *testing.T) *health.Health {
	t.Helper()

	isolated, err := db.Open(db.UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)
	t.Cleanup(func() { _ = isolated.Close() })

	return (&health.Health{Db: *isolated}).WithDefaultServices()
}

func TestCreateAlertIfNeeded(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, h, _, _, _ := GetMockHealthWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	m := seedMember(t, h, nil)
	subject := health.AlertSubject{CustomerID: m.Customer.ID, CentroID: m.CentroID}

	alert, err := h.Alert.CreateAlertIfNeeded(context.Background(), subject, 75, []models.Anomaly{}, scoring.DefaultSettings())
	assert.NoError(t, err)
	assert.Nil(t, alert)

	alert, err = h.Alert.CreateAlertIfNeeded(context.Background(), subject, 50, []models.Anomaly{}, scoring.DefaultSettings())
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, scoring.AlertTypeGeneralWarning, alert.AlertType)
	assert.Equal(t, models.SeverityMedium, alert.Severity)
	assert.Equal(t, "Check-up recommended", alert.Title)
	assert.Zero(t, alert.DiscountPercent)
	assert.Nil(t, alert.DiscountCode)
	assert.Equal(t, models.AlertStatusPending, alert.Status)
	assert.WithinDuration(t, alert.CreatedAt.Add(scoring.AlertTTL), alert.ExpiresAt, time.Minute)
}

func TestReviewAlertConfirm(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, h, _, _, _ := GetMockHealthWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	recorder := &recordingDispatcher{}
	h.Notifier = recorder

	m := seedMember(t, h, autoDiscountSettings())
	alert := seedCriticalAlert(t, h, m)

	reviewed, err := h.Alert.ReviewAlert(context.Background(), m.CentroID, alert.ID, &health.ReviewAlertRequest{
		Action: health.ReviewActionConfirm,
		Notes:  "call the customer",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusConfirmed, reviewed.Status)
	assert.True(t, reviewed.CentroReviewed)
	assert.Equal(t, "call the customer", reviewed.CentroNotes)

	var stored models.HealthAlert
	require.NoError(t, h.Db.Conn.First(&stored, "id = ?", alert.ID).Error)
	assert.Equal(t, models.AlertStatusConfirmed, stored.Status)
	assert.Equal(t, health.ReviewActionConfirm, stored.CentroAction)
	assert.NotNil(t, stored.ReviewedAt)
	assert.NotNil(t, stored.PushSentAt)

	var notifications []models.CustomerNotification
	require.NoError(t, h.Db.Conn.Find(&notifications, "customer_email = ?", m.Email).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, "health_alert_critical", notifications[0].Type)
	assert.Equal(t, alert.Title, notifications[0].Title)
	assert.Equal(t, alert.ID, notifications[0].Data["alert_id"])
	assert.Equal(t, "HEALTH10", notifications[0].Data["discount_code"])

	assert.Equal(t, []notify.Kind{
		notify.KindAlertCreated,
		notify.KindBadgeAwarded,
		notify.KindAlertConfirmed,
	}, recorder.kinds())
	assert.Equal(t, notify.AudienceCustomer, recorder.events[2].Audience)
}

func TestReviewAlertDismiss(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, h, _, _, _ := GetMockHealthWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	m := seedMember(t, h, nil)
	alert := seedCriticalAlert(t, h, m)

	reviewed, err := h.Alert.ReviewAlert(context.Background(), m.CentroID, alert.ID, &health.ReviewAlertRequest{Action: health.ReviewActionDismiss})
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusDismissed, reviewed.Status)

	var count int64
	h.Db.Conn.Model(&models.CustomerNotification{}).Where("customer_email = ?", m.Email).Count(&count)
	assert.Zero(t, count)

	_, err = h.Alert.ReviewAlert(context.Background(), m.CentroID, alert.ID, &health.ReviewAlertRequest{Action: health.ReviewActionConfirm})
	assert.ErrorIs(t, err, health.ErrAlertNotActionable)
}

func TestReviewAlertErrors(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, h, _, _, _ := GetMockHealthWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	m := seedMember(t, h, nil)
	alert := seedCriticalAlert(t, h, m)

	_, err := h.Alert.ReviewAlert(context.Background(), m.CentroID, alert.ID, &health.ReviewAlertRequest{Action: "escalate"})
	assert.ErrorIs(t, err, health.ErrValidation)

	_, err = h.Alert.ReviewAlert(context.Background(), "other-centro", alert.ID, &health.ReviewAlertRequest{Action: health.ReviewActionConfirm})
	assert.ErrorIs(t, err, health.ErrAlertNotFound)
}

func TestAcceptAlert(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, h, _, _, _ := GetMockHealthWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	m := seedMember(t, h, nil)
	alert := seedCriticalAlert(t, h, m)
	req := &health.AcceptAlertRequest{CustomerEmail: m.Email, CentroID: m.CentroID, AlertID: alert.ID}

	accepted, err := h.Alert.AcceptAlert(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusAccepted, accepted.Status)
	assert.NotNil(t, accepted.AcceptedAt)

	_, err = h.Alert.AcceptAlert(context.Background(), req)
	assert.ErrorIs(t, err, health.ErrAlertNotActionable)

	other := seedMember(t, h, nil)
	_, err = h.Alert.AcceptAlert(context.Background(), &health.AcceptAlertRequest{
		CustomerEmail: other.Email,
		CentroID:      m.CentroID,
		AlertID:       alert.ID,
	})
	assert.ErrorIs(t, err, health.ErrNoActiveLoyaltyCard)
}

func TestAcceptAlertExpired(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, h, _, _, _ := GetMockHealthWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	m := seedMember(t, h, nil)
	alert := seedCriticalAlert(t, h, m)

	h.Now = func() time.Time { return time.Now().Add(scoring.AlertTTL + time.Hour) }

	_, err := h.Alert.AcceptAlert(context.Background(), &health.AcceptAlertRequest{
		CustomerEmail: m.Email,
		CentroID:      m.CentroID,
		AlertID:       alert.ID,
	})
	assert.ErrorIs(t, err, health.ErrAlertExpired)

	var stored models.HealthAlert
	require.NoError(t, h.Db.Conn.First(&stored, "id = ?", alert.ID).Error)
	assert.Equal(t, models.AlertStatusExpired, stored.Status)
}

func TestListCentroAlerts(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, h, _, _, _ := GetMockHealthWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	m := seedMember(t, h, nil)
	first := seedCriticalAlert(t, h, m)
	_, err := h.Alert.ReviewAlert(context.Background(), m.CentroID, first.ID, &health.ReviewAlertRequest{Action: health.ReviewActionDismiss})
	require.NoError(t, err)

	_, err = h.Log.LogHealth(context.Background(), criticalSample(m))
	require.NoError(t, err)

	all, err := h.Alert.ListCentroAlerts(context.Background(), m.CentroID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := h.Alert.ListCentroAlerts(context.Background(), m.CentroID, string(models.AlertStatusPending))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.NotEqual(t, first.ID, pending[0].ID)

	none, err := h.Alert.ListCentroAlerts(context.Background(), "empty-centro", "")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = h.Alert.ListCentroAlerts(context.Background(), m.CentroID, "bogus")
	assert.ErrorIs(t, err, health.ErrValidation)
}

func TestAcceptAlertStatusChangedConcurrently(t *testing.T) {
	common.SetTestLoggerNop()

	h := isolatedHealth(t)
	m := seedMember(t, h, nil)
	alert := seedCriticalAlert(t, h, m)

	moveAlertDuringUpdate(t, h, alert.ID, models.AlertStatusDismissed)

	_, err := h.Alert.AcceptAlert(context.Background(), &health.AcceptAlertRequest{
		CustomerEmail: m.Email,
		CentroID:      m.CentroID,
		AlertID:       alert.ID,
	})
	assert.ErrorIs(t, err, health.ErrAlertNotActionable)

	var stored models.HealthAlert
	require.NoError(t, h.Db.Conn.First(&stored, "id = ?", alert.ID).Error)
	assert.Equal(t, models.AlertStatusDismissed, stored.Status)
	assert.Nil(t, stored.AcceptedAt)
}

func TestReviewAlertStatusChangedConcurrently(t *testing.T) {
	common.SetTestLoggerNop()

	h := isolatedHealth(t)
	recorder := &recordingDispatcher{}
	h.Notifier = recorder

	m := seedMember(t, h, nil)
	alert := seedCriticalAlert(t, h, m)

	moveAlertDuringUpdate(t, h, alert.ID, models.AlertStatusAccepted)

	_, err := h.Alert.ReviewAlert(context.Background(), m.CentroID, alert.ID, &health.ReviewAlertRequest{
		Action: health.ReviewActionConfirm,
	})
	assert.ErrorIs(t, err, health.ErrAlertNotActionable)

	var stored models.HealthAlert
	require.NoError(t, h.Db.Conn.First(&stored, "id = ?", alert.ID).Error)
	assert.Equal(t, models.AlertStatusAccepted, stored.Status)
	assert.False(t, stored.CentroReviewed)
	assert.NotContains(t, recorder.kinds(), notify.KindAlertConfirmed)

	var notifications int64
	h.Db.Conn.Model(&models.CustomerNotification{}).Where("centro_id = ?", m.CentroID).Count(&notifications)
	assert.Zero(t, notifications)
}
