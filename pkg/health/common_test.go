package health_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/device-health-service/pkg/db"
	"liyu1981.xyz/device-health-service/pkg/health"
	"liyu1981.xyz/device-health-service/pkg/health/mocks"
	"liyu1981.xyz/device-health-service/pkg/models"
	"liyu1981.xyz/device-health-service/pkg/notify"
	"liyu1981.xyz/device-health-service/pkg/scoring"
)

func GetMockHealthWithMemorySqliteDialector(t *testing.T, useMockIAlert, useMockIBadge, useMockISettings bool) (
	*gomock.Controller,
	*health.Health,
	*mocks.MockIAlert,
	*mocks.MockIBadge,
	*mocks.MockISettings,
) {
	ctrl := gomock.NewController(t)

	mockIAlert := mocks.NewMockIAlert(ctrl)
	mockIBadge := mocks.NewMockIBadge(ctrl)
	mockISettings := mocks.NewMockISettings(ctrl)
	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations
	healthInstance := (&health.Health{Db: *dbInstance}).WithDefaultServices()

	opts := health.ServiceOpts{}
	if useMockIAlert {
		opts.Alert = mockIAlert
	}
	if useMockIBadge {
		opts.Badge = mockIBadge
	}
	if useMockISettings {
		opts.Settings = mockISettings
	}
	healthInstance.WithServices(opts)

	return ctrl, healthInstance, mockIAlert, mockIBadge, mockISettings
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

func findLog(logs []any, match func(l map[string]any) bool) bool {
	for _, log := range logs {
		if lobj, ok := log.(map[string]any); ok && match(lobj) {
			return true
		}
	}
	return false
}

type member struct {
	Email    string
	CentroID string
	Customer models.Customer
	Card     models.LoyaltyCard
}

// seedMember stores a customer with an active card at a fresh centro. A nil
// settings leaves the centro on defaults.
func seedMember(t *testing.T, h *health.Health, settings *scoring.Settings) member {
	t.Helper()

	m := member{
		Email:    uuid.NewString() + "@example.com",
		CentroID: uuid.NewString(),
	}
	m.Customer = models.Customer{Email: m.Email, Name: "Test Customer", CentroID: m.CentroID}
	require.NoError(t, h.Db.Conn.Create(&m.Customer).Error)

	m.Card = models.LoyaltyCard{
		CustomerID: m.Customer.ID,
		CentroID:   m.CentroID,
		CardNumber: "DH-" + uuid.NewString(),
		Status:     models.LoyaltyCardActive,
	}
	require.NoError(t, h.Db.Conn.Create(&m.Card).Error)

	if settings != nil {
		require.NoError(t, h.Db.Conn.Create(settings.ToModel(m.CentroID)).Error)
	}

	return m
}

func autoDiscountSettings() *scoring.Settings {
	s := scoring.DefaultSettings()
	s.AutoDiscountEnabled = true
	return &s
}

func ptr[T any](v T) *T {
	return &v
}

// criticalSample scores 11 with critical battery and storage anomalies.
func criticalSample(m member) *health.LogHealthRequest {
	return &health.LogHealthRequest{
		CustomerEmail:  m.Email,
		CentroID:       m.CentroID,
		Source:         string(models.SourceAndroidNative),
		BatteryLevel:   ptr(15.0),
		BatteryHealth:  "good",
		StorageTotalGB: ptr(128.0),
		StorageUsedGB:  ptr(120.0),
	}
}

func healthySample(m member) *health.LogHealthRequest {
	return &health.LogHealthRequest{
		CustomerEmail:  m.Email,
		CentroID:       m.CentroID,
		Source:         string(models.SourceAndroidNative),
		BatteryLevel:   ptr(90.0),
		BatteryHealth:  "good",
		StorageTotalGB: ptr(128.0),
		StorageUsedGB:  ptr(32.0),
		RAMTotalMB:     ptr(8192.0),
		RAMAvailableMB: ptr(4096.0),
	}
}

type recordingDispatcher struct {
	events []notify.Event
}

func (r *recordingDispatcher) Dispatch(_ context.Context, event notify.Event) error {
	r.events = append(r.events, event)
	return nil
}

func (r *recordingDispatcher) Close() error { return nil }

func (r *recordingDispatcher) kinds() []notify.Kind {
	kinds := []notify.Kind{}
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
