package health

//go:generate mockgen -destination=mocks/mock_health.go -package=mocks liyu1981.xyz/device-health-service/pkg/health ILog,IQuiz,IAlert,IBadge,ISettings,IAccess,IHistory

import (
	"context"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/device-health-service/pkg/cache"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/db"
	"liyu1981.xyz/device-health-service/pkg/models"
	"liyu1981.xyz/device-health-service/pkg/notify"
	"liyu1981.xyz/device-health-service/pkg/quiz"
	"liyu1981.xyz/device-health-service/pkg/scoring"
)

const dispatchTimeout = 5 * time.Second

type ILog interface {
	LogHealth(ctx context.Context, req *LogHealthRequest) (*LogHealthResult, error)
}

type IQuiz interface {
	SubmitQuiz(ctx context.Context, req *SubmitQuizRequest) (*SubmitQuizResult, error)
}

type IAlert interface {
	CreateAlertIfNeeded(ctx context.Context, subject AlertSubject, score int, anomalies []models.Anomaly, settings scoring.Settings) (*models.HealthAlert, error)
	AcceptAlert(ctx context.Context, req *AcceptAlertRequest) (*models.HealthAlert, error)
	ReviewAlert(ctx context.Context, centroID, alertID string, req *ReviewAlertRequest) (*models.HealthAlert, error)
	ListCentroAlerts(ctx context.Context, centroID, status string) ([]models.HealthAlert, error)
	AnalyzeAlerts(ctx context.Context, centroID string, req *AnalyzeAlertsRequest) (*AnalyzeAlertsResult, error)
}

type IBadge interface {
	AwardBadgesIfEligible(ctx context.Context, customerID, centroID string) ([]models.HealthBadge, error)
}

type ISettings interface {
	ResolveSettings(ctx context.Context, centroID string) (scoring.Settings, error)
	UpsertSettings(ctx context.Context, centroID string, settings scoring.Settings) (scoring.Settings, error)
}

type IAccess interface {
	VerifyAccess(ctx context.Context, req *IdentityRequest) (*AccessResult, error)
	EnrollCustomer(ctx context.Context, centroID string, req *EnrollCustomerRequest) (*Enrollment, error)
}

type IHistory interface {
	GetHealthHistory(ctx context.Context, req *HistoryRequest) (*History, error)
}

type Health struct {
	Db            db.DB
	Analyzer      *quiz.Analyzer
	Notifier      notify.Dispatcher
	SettingsCache cache.SettingsCache
	Now           func() time.Time

	Log      ILog
	Quiz     IQuiz
	Alert    IAlert
	Badge    IBadge
	Settings ISettings
	Access   IAccess
	History  IHistory
}

type ServiceOpts struct {
	Log      ILog
	Quiz     IQuiz
	Alert    IAlert
	Badge    IBadge
	Settings ISettings
	Access   IAccess
	History  IHistory
}

func (h *Health) WithServices(opts ServiceOpts) *Health {
	if opts.Log != nil {
		h.Log = opts.Log
	}
	if opts.Quiz != nil {
		h.Quiz = opts.Quiz
	}
	if opts.Alert != nil {
		h.Alert = opts.Alert
	}
	if opts.Badge != nil {
		h.Badge = opts.Badge
	}
	if opts.Settings != nil {
		h.Settings = opts.Settings
	}
	if opts.Access != nil {
		h.Access = opts.Access
	}
	if opts.History != nil {
		h.History = opts.History
	}
	return h
}

// WithDefaultServices wires every service to the database backed implementation.
func (h *Health) WithDefaultServices() *Health {
	return h.WithServices(ServiceOpts{
		Log:      h.GetILog(),
		Quiz:     h.GetIQuiz(),
		Alert:    h.GetIAlert(),
		Badge:    h.GetIBadge(),
		Settings: h.GetISettings(),
		Access:   h.GetIAccess(),
		History:  h.GetIHistory(),
	})
}

func (h *Health) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Health) dispatch(ctx context.Context, event notify.Event) {
	if h.Notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()

	if event.OccurredAt.IsZero() {
		event.OccurredAt = h.now()
	}

	if err := h.Notifier.Dispatch(ctx, event); err != nil {
		logger(common.LoggerCategoryAlert).Warn("Dispatch failed",
			zap.String("kind", string(event.Kind)),
			zap.String("centro_id", event.CentroID),
			zap.Error(err),
		)
	}
}

func logger(category string) *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameHealthCore,
		zap.String(common.LoggerFieldCategory, category),
	)
}
