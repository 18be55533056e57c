package health

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/models"
	"liyu1981.xyz/device-health-service/pkg/scoring"
)

type CustomerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LoyaltyCardInfo struct {
	ID         string     `json:"id"`
	CardNumber string     `json:"card_number"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type PlatformFlags struct {
	IsEnabled                bool `json:"is_enabled"`
	AndroidMonitoringEnabled bool `json:"android_monitoring_enabled"`
	IOSWebAppEnabled         bool `json:"ios_webapp_enabled"`
}

type AccessResult struct {
	HasAccess   bool             `json:"has_access"`
	Reason      string           `json:"reason,omitempty"`
	Customer    *CustomerInfo    `json:"customer,omitempty"`
	LoyaltyCard *LoyaltyCardInfo `json:"loyalty_card,omitempty"`
	Settings    *PlatformFlags   `json:"settings,omitempty"`
}

// grant is what a customer who passed the access gate brings along.
type grant struct {
	Customer    models.Customer
	LoyaltyCard models.LoyaltyCard
	Settings    scoring.Settings
}

func (h *Health) findCustomer(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := h.Db.Conn.WithContext(ctx).First(&customer, "email = ?", normalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, denied(ReasonCustomerNotFound, ErrCustomerNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	return &customer, nil
}

func (h *Health) findActiveCard(ctx context.Context, customerID, centroID string) (*models.LoyaltyCard, error) {
	var card models.LoyaltyCard
	err := h.Db.Conn.WithContext(ctx).
		Where("customer_id = ? AND centro_id = ? AND status = ?", customerID, centroID, models.LoyaltyCardActive).
		Where("expires_at IS NULL OR expires_at > ?", h.now()).
		Order("created_at desc").
		First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load loyalty card: %w", err)
	}
	return &card, nil
}

// requireAccess runs the gate every customer operation goes through: a known
// customer, an active loyalty card at the centro and the service enabled.
func (h *Health) requireAccess(ctx context.Context, email, centroID string) (*grant, error) {
	customer, err := h.findCustomer(ctx, email)
	if err != nil {
		return nil, err
	}

	card, err := h.findActiveCard(ctx, customer.ID, centroID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, denied(ReasonNoActiveLoyaltyCard, ErrNoActiveLoyaltyCard)
	}

	settings, err := h.settingsFor(ctx, centroID)
	if err != nil {
		return nil, err
	}
	if !settings.IsEnabled {
		return nil, denied(ReasonServiceDisabled, ErrServiceDisabled)
	}

	return &grant{Customer: *customer, LoyaltyCard: *card, Settings: settings}, nil
}

func (h *Health) verifyAccess(ctx context.Context, req *IdentityRequest) (*AccessResult, error) {
	log := logger(common.LoggerCategoryAccess)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	g, err := h.requireAccess(ctx, req.CustomerEmail, req.CentroID)
	if reason := Reason(err); reason != "" {
		log.Info("Access denied", zap.String("centro_id", req.CentroID), zap.String("reason", reason))
		return &AccessResult{HasAccess: false, Reason: reason}, nil
	}
	if err != nil {
		return nil, err
	}

	return &AccessResult{
		HasAccess: true,
		Customer:  &CustomerInfo{ID: g.Customer.ID, Name: g.Customer.Name},
		LoyaltyCard: &LoyaltyCardInfo{
			ID:         g.LoyaltyCard.ID,
			CardNumber: g.LoyaltyCard.CardNumber,
			ExpiresAt:  g.LoyaltyCard.ExpiresAt,
		},
		Settings: &PlatformFlags{
			IsEnabled:                g.Settings.IsEnabled,
			AndroidMonitoringEnabled: g.Settings.AndroidMonitoringEnabled,
			IOSWebAppEnabled:         g.Settings.IOSWebAppEnabled,
		},
	}, nil
}

func (h *Health) enrollCustomer(ctx context.Context, centroID string, req *EnrollCustomerRequest) (*Enrollment, error) {
	log := logger(common.LoggerCategoryAccess)

	if centroID == "" {
		return nil, validationError("centro_id is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var enrollment Enrollment
	err := h.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer := models.Customer{}
		if err := tx.
			Where(models.Customer{Email: normalizeEmail(req.Email)}).
			Attrs(models.Customer{Name: req.Name, CentroID: centroID}).
			FirstOrCreate(&customer).Error; err != nil {
			return fmt.Errorf("find or create customer: %w", err)
		}
		enrollment.Customer = customer

		var card models.LoyaltyCard
		err := tx.
			Where("customer_id = ? AND centro_id = ? AND status = ?", customer.ID, centroID, models.LoyaltyCardActive).
			Where("expires_at IS NULL OR expires_at > ?", h.now()).
			First(&card).Error
		if err == nil {
			enrollment.LoyaltyCard = card
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load loyalty card: %w", err)
		}

		card = models.LoyaltyCard{
			CustomerID: customer.ID,
			CentroID:   centroID,
			CardNumber: req.CardNumber,
			Status:     models.LoyaltyCardActive,
			ExpiresAt:  req.ExpiresAt,
		}
		if card.CardNumber == "" {
			card.CardNumber = newCardNumber()
		}
		if err := tx.Create(&card).Error; err != nil {
			return fmt.Errorf("issue loyalty card: %w", err)
		}
		enrollment.LoyaltyCard = card
		enrollment.CardIssued = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Customer enrolled",
		zap.String("centro_id", centroID),
		zap.String("customer_id", enrollment.Customer.ID),
		zap.Bool("card_issued", enrollment.CardIssued),
	)

	return &enrollment, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newCardNumber() string {
	return "DH-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

type IAccessImpl struct {
	health *Health
}

func (ia *IAccessImpl) VerifyAccess(ctx context.Context, req *IdentityRequest) (*AccessResult, error) {
	return ia.health.verifyAccess(ctx, req)
}

func (ia *IAccessImpl) EnrollCustomer(ctx context.Context, centroID string, req *EnrollCustomerRequest) (*Enrollment, error) {
	return ia.health.enrollCustomer(ctx, centroID, req)
}

func (h *Health) GetIAccess() IAccess {
	return &IAccessImpl{health: h}
}
