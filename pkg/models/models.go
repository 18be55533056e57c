package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Source string

const (
	SourceAndroidNative Source = "android_native"
	SourceIOSWebApp     Source = "ios_webapp"
	SourceManualQuiz    Source = "manual_quiz"
	SourceDesktopAgent  Source = "desktop_agent"
)

var Sources = []string{
	string(SourceAndroidNative),
	string(SourceIOSWebApp),
	string(SourceManualQuiz),
	string(SourceDesktopAgent),
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities low < medium < high < critical. Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

type Anomaly struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

type LoyaltyCardStatus string

const (
	LoyaltyCardActive    LoyaltyCardStatus = "active"
	LoyaltyCardSuspended LoyaltyCardStatus = "suspended"
	LoyaltyCardExpired   LoyaltyCardStatus = "expired"
)

type QuizStatus string

const (
	QuizStatusSubmitted QuizStatus = "submitted"
	QuizStatusAnalyzed  QuizStatus = "analyzed"
)

type AlertStatus string

const (
	AlertStatusPending   AlertStatus = "pending"
	AlertStatusSent      AlertStatus = "sent"
	AlertStatusAccepted  AlertStatus = "accepted"
	AlertStatusExpired   AlertStatus = "expired"
	AlertStatusConfirmed AlertStatus = "confirmed"
	AlertStatusDismissed AlertStatus = "dismissed"
)

var AlertStatuses = []string{
	string(AlertStatusPending),
	string(AlertStatusSent),
	string(AlertStatusAccepted),
	string(AlertStatusExpired),
	string(AlertStatusConfirmed),
	string(AlertStatusDismissed),
}

type BadgeType string

const (
	BadgeFirstCheckup   BadgeType = "first_checkup"
	BadgeDeviceGuardian BadgeType = "device_guardian"
)

// Base gives every record a UUID primary key assigned on insert.
type Base struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type Customer struct {
	Base
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Name     string `json:"name"`
	CentroID string `gorm:"index" json:"centro_id"`
}

type LoyaltyCard struct {
	Base
	CustomerID string            `gorm:"index:idx_card_owner;not null" json:"customer_id"`
	CentroID   string            `gorm:"index:idx_card_owner;not null" json:"centro_id"`
	CardNumber string            `gorm:"uniqueIndex" json:"card_number"`
	Status     LoyaltyCardStatus `gorm:"type:varchar(20);index" json:"status"`
	ExpiresAt  *time.Time        `json:"expires_at,omitempty"`
}

type DeviceHealthSettings struct {
	CentroID  string    `gorm:"primaryKey;type:varchar(36)" json:"centro_id"`
	UpdatedAt time.Time `json:"updated_at"`

	IsEnabled                bool `json:"is_enabled"`
	AndroidMonitoringEnabled bool `json:"android_monitoring_enabled"`
	IOSWebAppEnabled         bool `gorm:"column:ios_webapp_enabled" json:"ios_webapp_enabled"`

	BatteryWarningThreshold      float64 `json:"battery_warning_threshold"`
	BatteryCriticalThreshold     float64 `json:"battery_critical_threshold"`
	StorageWarningThreshold      float64 `json:"storage_warning_threshold"`
	StorageCriticalThreshold     float64 `json:"storage_critical_threshold"`
	HealthScoreWarningThreshold  int     `json:"health_score_warning_threshold"`
	HealthScoreCriticalThreshold int     `json:"health_score_critical_threshold"`

	AutoDiscountEnabled     bool `json:"auto_discount_enabled"`
	WarningDiscountPercent  int  `json:"warning_discount_percent"`
	CriticalDiscountPercent int  `json:"critical_discount_percent"`
}

func (DeviceHealthSettings) TableName() string {
	return "device_health_settings"
}

type HealthLog struct {
	Base
	CustomerID    string  `gorm:"index:idx_log_owner;not null" json:"customer_id"`
	CentroID      string  `gorm:"index:idx_log_owner;not null" json:"centro_id"`
	DeviceID      *string `json:"device_id,omitempty"`
	LoyaltyCardID string  `json:"loyalty_card_id"`
	Source        Source  `gorm:"type:varchar(20)" json:"source"`

	BatteryLevel       *float64 `json:"battery_level,omitempty"`
	BatteryHealth      string   `json:"battery_health,omitempty"`
	BatteryCycles      *int     `json:"battery_cycles,omitempty"`
	BatteryTemperature *float64 `json:"battery_temperature,omitempty"`
	IsCharging         *bool    `json:"is_charging,omitempty"`

	StorageTotalGB     *float64 `gorm:"column:storage_total_gb" json:"storage_total_gb,omitempty"`
	StorageUsedGB      *float64 `gorm:"column:storage_used_gb" json:"storage_used_gb,omitempty"`
	StorageAvailableGB *float64 `gorm:"column:storage_available_gb" json:"storage_available_gb,omitempty"`
	StoragePercentUsed *float64 `json:"storage_percent_used,omitempty"`

	RAMTotalMB     *float64 `gorm:"column:ram_total_mb" json:"ram_total_mb,omitempty"`
	RAMAvailableMB *float64 `gorm:"column:ram_available_mb" json:"ram_available_mb,omitempty"`
	RAMPercentUsed *float64 `gorm:"column:ram_percent_used" json:"ram_percent_used,omitempty"`

	OSVersion          string `gorm:"column:os_version" json:"os_version,omitempty"`
	DeviceManufacturer string `json:"device_manufacturer,omitempty"`
	DeviceModelInfo    string `json:"device_model_info,omitempty"`
	AppVersion         string `json:"app_version,omitempty"`

	HealthScore int                          `json:"health_score"`
	Anomalies   datatypes.JSONSlice[Anomaly] `json:"anomalies"`
}

func (HealthLog) TableName() string {
	return "device_health_logs"
}

type DiagnosticQuiz struct {
	Base
	CustomerID    string  `gorm:"index:idx_quiz_owner;not null" json:"customer_id"`
	CentroID      string  `gorm:"index:idx_quiz_owner;not null" json:"centro_id"`
	DeviceID      *string `json:"device_id,omitempty"`
	LoyaltyCardID string  `json:"loyalty_card_id"`

	Responses       datatypes.JSONMap           `json:"responses"`
	Analysis        string                      `json:"analysis"`
	HealthScore     int                         `json:"health_score"`
	Recommendations datatypes.JSONSlice[string] `json:"recommendations"`
	Strategy        string                      `gorm:"type:varchar(20)" json:"strategy"`
	Status          QuizStatus                  `gorm:"type:varchar(20)" json:"status"`
	AnalyzedAt      *time.Time                  `json:"analyzed_at,omitempty"`
}

func (DiagnosticQuiz) TableName() string {
	return "diagnostic_quizzes"
}

type HealthAlert struct {
	Base
	CustomerID       string  `gorm:"index:idx_alert_owner;not null" json:"customer_id"`
	CentroID         string  `gorm:"index:idx_alert_owner;not null" json:"centro_id"`
	DeviceID         *string `json:"device_id,omitempty"`
	HealthLogID      *string `json:"device_health_log_id,omitempty"`
	DiagnosticQuizID *string `json:"diagnostic_quiz_id,omitempty"`

	AlertType         string      `gorm:"type:varchar(40)" json:"alert_type"`
	Severity          Severity    `gorm:"type:varchar(20)" json:"severity"`
	Title             string      `json:"title"`
	Message           string      `json:"message"`
	RecommendedAction string      `json:"recommended_action"`
	DiscountPercent   int         `json:"discount_offered"`
	DiscountCode      *string     `json:"discount_code,omitempty"`
	Status            AlertStatus `gorm:"type:varchar(20);index" json:"status"`
	ExpiresAt         time.Time   `json:"expires_at"`

	CentroReviewed bool       `json:"centro_reviewed"`
	ReviewedAt     *time.Time `json:"centro_reviewed_at,omitempty"`
	CentroAction   string     `json:"centro_action,omitempty"`
	CentroNotes    string     `json:"centro_notes,omitempty"`
	PushSentAt     *time.Time `json:"push_sent_at,omitempty"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
}

func (HealthAlert) TableName() string {
	return "device_health_alerts"
}

type HealthBadge struct {
	Base
	CustomerID  string    `gorm:"uniqueIndex:idx_badge_owner_type;not null" json:"customer_id"`
	CentroID    string    `gorm:"uniqueIndex:idx_badge_owner_type;not null" json:"centro_id"`
	BadgeType   BadgeType `gorm:"uniqueIndex:idx_badge_owner_type;type:varchar(40);not null" json:"badge_type"`
	Name        string    `json:"badge_name"`
	Description string    `json:"badge_description"`
	Icon        string    `json:"badge_icon"`
}

func (HealthBadge) TableName() string {
	return "customer_health_badges"
}

type CustomerNotification struct {
	Base
	CustomerEmail string            `gorm:"index;not null" json:"customer_email"`
	CentroID      string            `gorm:"index" json:"centro_id"`
	Title         string            `json:"title"`
	Message       string            `json:"message"`
	Type          string            `json:"type"`
	Data          datatypes.JSONMap `json:"data"`
	Read          bool              `json:"read"`
}

// All lists every record type for migrations.
func All() []any {
	return []any{
		&Customer{},
		&LoyaltyCard{},
		&DeviceHealthSettings{},
		&HealthLog{},
		&DiagnosticQuiz{},
		&HealthAlert{},
		&HealthBadge{},
		&CustomerNotification{},
	}
}
