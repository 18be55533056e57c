package health

import (
	"context"
	"time"

	z "github.com/Oudwins/zog"
	"liyu1981.xyz/device-health-service/pkg/models"
	"liyu1981.xyz/device-health-service/pkg/quiz"
	"liyu1981.xyz/device-health-service/pkg/scoring"
)

const (
	DefaultHistoryLimit = 30
	MaxHistoryLimit     = 200

	ReviewActionConfirm = "confirm"
	ReviewActionDismiss = "dismiss"
)

type IdentityRequest struct {
	CustomerEmail string `json:"customer_email"`
	CentroID      string `json:"centro_id"`
}

var identityRequestSchema = z.Struct(z.Shape{
	"CustomerEmail": z.String().Email().Required(),
	"CentroID":      z.String().Min(1).Required(),
})

func (r *IdentityRequest) Validate() error {
	if errs := identityRequestSchema.Validate(r); errs != nil {
		return validationError(errs)
	}
	return nil
}

type LogHealthRequest struct {
	CustomerEmail string  `json:"customer_email"`
	CentroID      string  `json:"centro_id"`
	DeviceID      *string `json:"device_id,omitempty"`
	Source        string  `json:"source"`

	BatteryLevel       *float64 `json:"battery_level,omitempty"`
	BatteryHealth      string   `json:"battery_health,omitempty"`
	BatteryCycles      *int     `json:"battery_cycles,omitempty"`
	BatteryTemperature *float64 `json:"battery_temperature,omitempty"`
	IsCharging         *bool    `json:"is_charging,omitempty"`

	StorageTotalGB     *float64 `json:"storage_total_gb,omitempty"`
	StorageUsedGB      *float64 `json:"storage_used_gb,omitempty"`
	StorageAvailableGB *float64 `json:"storage_available_gb,omitempty"`

	RAMTotalMB     *float64 `json:"ram_total_mb,omitempty"`
	RAMAvailableMB *float64 `json:"ram_available_mb,omitempty"`

	OSVersion          string `json:"os_version,omitempty"`
	DeviceManufacturer string `json:"device_manufacturer,omitempty"`
	DeviceModelInfo    string `json:"device_model_info,omitempty"`
	AppVersion         string `json:"app_version,omitempty"`
}

var logHealthRequestSchema = z.Struct(z.Shape{
	"CustomerEmail":      z.String().Email().Required(),
	"CentroID":           z.String().Min(1).Required(),
	"Source":             z.String().OneOf(models.Sources).Required(),
	"BatteryLevel":       z.Ptr(z.Float64().GTE(0).LTE(100)),
	"BatteryCycles":      z.Ptr(z.Int().GTE(0)),
	"BatteryTemperature": z.Ptr(z.Float64().GTE(-50).LTE(150)),
	"StorageTotalGB":     z.Ptr(z.Float64().GTE(0)),
	"StorageUsedGB":      z.Ptr(z.Float64().GTE(0)),
	"StorageAvailableGB": z.Ptr(z.Float64().GTE(0)),
	"RAMTotalMB":         z.Ptr(z.Float64().GTE(0)),
	"RAMAvailableMB":     z.Ptr(z.Float64().GTE(0)),
})

func (r *LogHealthRequest) Validate() error {
	if errs := logHealthRequestSchema.Validate(r); errs != nil {
		return validationError(errs)
	}
	return nil
}

func (r *LogHealthRequest) Sample() scoring.Sample {
	return scoring.Sample{
		Source: models.Source(r.Source),
		Battery: scoring.Battery{
			Level:       r.BatteryLevel,
			Health:      r.BatteryHealth,
			Cycles:      r.BatteryCycles,
			Temperature: r.BatteryTemperature,
			IsCharging:  r.IsCharging,
		},
		Storage: scoring.Storage{
			TotalGB:     r.StorageTotalGB,
			UsedGB:      r.StorageUsedGB,
			AvailableGB: r.StorageAvailableGB,
		},
		RAM: scoring.RAM{
			TotalMB:     r.RAMTotalMB,
			AvailableMB: r.RAMAvailableMB,
		},
		System: scoring.SystemInfo{
			OSVersion:          r.OSVersion,
			DeviceManufacturer: r.DeviceManufacturer,
			DeviceModelInfo:    r.DeviceModelInfo,
			AppVersion:         r.AppVersion,
		},
	}
}

type LogHealthResult struct {
	Success     bool             `json:"success"`
	HealthScore int              `json:"health_score"`
	Anomalies   []models.Anomaly `json:"anomalies"`
	LogID       string           `json:"log_id"`
}

type SubmitQuizRequest struct {
	CustomerEmail string         `json:"customer_email"`
	CentroID      string         `json:"centro_id"`
	DeviceID      *string        `json:"device_id,omitempty"`
	Responses     map[string]any `json:"responses"`
}

var submitQuizRequestSchema = z.Struct(z.Shape{
	"CustomerEmail": z.String().Email().Required(),
	"CentroID":      z.String().Min(1).Required(),
})

func (r *SubmitQuizRequest) Validate() error {
	if errs := submitQuizRequestSchema.Validate(r); errs != nil {
		return validationError(errs)
	}
	if r.Responses == nil {
		return validationError("responses is required")
	}
	return nil
}

type SubmitQuizResult struct {
	Success         bool          `json:"success"`
	HealthScore     int           `json:"health_score"`
	Analysis        string        `json:"analysis"`
	Recommendations []string      `json:"recommendations"`
	Strategy        quiz.Strategy `json:"strategy"`
	QuizID          string        `json:"quiz_id"`
}

type HistoryRequest struct {
	CustomerEmail string `json:"customer_email"`
	CentroID      string `json:"centro_id"`
	Limit         int    `json:"limit,omitempty"`
}

var historyRequestSchema = z.Struct(z.Shape{
	"CustomerEmail": z.String().Email().Required(),
	"CentroID":      z.String().Min(1).Required(),
	"Limit":         z.Int().GTE(0).LTE(MaxHistoryLimit),
})

func (r *HistoryRequest) Validate() error {
	if errs := historyRequestSchema.Validate(r); errs != nil {
		return validationError(errs)
	}
	return nil
}

func (r *HistoryRequest) limit() int {
	if r.Limit <= 0 {
		return DefaultHistoryLimit
	}
	return r.Limit
}

type History struct {
	Logs    []models.HealthLog      `json:"logs"`
	Quizzes []models.DiagnosticQuiz `json:"quizzes"`
	Badges  []models.HealthBadge    `json:"badges"`
	Alerts  []models.HealthAlert    `json:"alerts"`
}

type AcceptAlertRequest struct {
	CustomerEmail string `json:"customer_email"`
	CentroID      string `json:"centro_id"`
	AlertID       string `json:"alert_id"`
}

var acceptAlertRequestSchema = z.Struct(z.Shape{
	"CustomerEmail": z.String().Email().Required(),
	"CentroID":      z.String().Min(1).Required(),
	"AlertID":       z.String().Min(1).Required(),
})

func (r *AcceptAlertRequest) Validate() error {
	if errs := acceptAlertRequestSchema.Validate(r); errs != nil {
		return validationError(errs)
	}
	return nil
}

type AcceptAlertResult struct {
	Success bool                `json:"success"`
	Alert   *models.HealthAlert `json:"alert"`
}

// AcceptAlertWith adapts IAlert.AcceptAlert to the request/result shape the
// transports share.
func AcceptAlertWith(alerts IAlert) func(context.Context, *AcceptAlertRequest) (*AcceptAlertResult, error) {
	return func(ctx context.Context, req *AcceptAlertRequest) (*AcceptAlertResult, error) {
		alert, err := alerts.AcceptAlert(ctx, req)
		if err != nil {
			return nil, err
		}
		return &AcceptAlertResult{Success: true, Alert: alert}, nil
	}
}

type ReviewAlertRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes,omitempty"`
}

var ReviewAlertRequestSchema = z.Struct(z.Shape{
	"Action": z.String().OneOf([]string{ReviewActionConfirm, ReviewActionDismiss}).Required(),
	"Notes":  z.String().Max(2000),
})

func (r *ReviewAlertRequest) Validate() error {
	if errs := ReviewAlertRequestSchema.Validate(r); errs != nil {
		return validationError(errs)
	}
	return nil
}

// AnalyzeAlertsRequest picks the logs to re-check. HealthLogID wins over
// CustomerID. With neither, every customer's latest log of the last
// AnalyzeWindow is checked.
type AnalyzeAlertsRequest struct {
	CustomerID        string `json:"customer_id,omitempty" zog:"customer_id"`
	HealthLogID       string `json:"health_log_id,omitempty" zog:"health_log_id"`
	SendNotifications *bool  `json:"send_notifications,omitempty" zog:"send_notifications"`
}

var analyzeAlertsRequestSchema = z.Struct(z.Shape{
	"CustomerID":  z.String().Max(64),
	"HealthLogID": z.String().Max(64),
})

func (r *AnalyzeAlertsRequest) Validate() error {
	if errs := analyzeAlertsRequestSchema.Validate(r); errs != nil {
		return validationError(errs)
	}
	return nil
}

func (r *AnalyzeAlertsRequest) announce() bool {
	return r.SendNotifications == nil || *r.SendNotifications
}

type AnalyzeAlertsResult struct {
	Success  bool                 `json:"success"`
	Analyzed int                  `json:"analyzed"`
	Skipped  int                  `json:"skipped"`
	Alerts   []models.HealthAlert `json:"alerts"`
	Message  string               `json:"message,omitempty"`
}

type EnrollCustomerRequest struct {
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	CardNumber string     `json:"card_number,omitempty" zog:"card_number"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty" zog:"expires_at"`
}

var EnrollCustomerRequestSchema = z.Struct(z.Shape{
	"Email":      z.String().Email().Required(),
	"Name":       z.String().Max(200),
	"CardNumber": z.String().Max(64),
	"ExpiresAt":  z.Ptr(z.Time()),
})

func (r *EnrollCustomerRequest) Validate() error {
	if errs := EnrollCustomerRequestSchema.Validate(r); errs != nil {
		return validationError(errs)
	}
	return nil
}

type Enrollment struct {
	Customer    models.Customer    `json:"customer"`
	LoyaltyCard models.LoyaltyCard `json:"loyalty_card"`
	CardIssued  bool               `json:"card_issued"`
}

var SettingsSchema = z.Struct(z.Shape{
	"BatteryWarningThreshold":      z.Float64().GTE(0).LTE(100),
	"BatteryCriticalThreshold":     z.Float64().GTE(0).LTE(100),
	"StorageWarningThreshold":      z.Float64().GTE(0).LTE(100),
	"StorageCriticalThreshold":     z.Float64().GTE(0).LTE(100),
	"HealthScoreWarningThreshold":  z.Int().GTE(0).LTE(100),
	"HealthScoreCriticalThreshold": z.Int().GTE(0).LTE(100),
	"WarningDiscountPercent":       z.Int().GTE(0).LTE(100),
	"CriticalDiscountPercent":      z.Int().GTE(0).LTE(100),
})

// AlertSubject identifies who an alert is for and which record raised it.
type AlertSubject struct {
	CustomerID       string
	CentroID         string
	DeviceID         *string
	HealthLogID      *string
	DiagnosticQuizID *string
}
