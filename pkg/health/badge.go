package health

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/models"
	"liyu1981.xyz/device-health-service/pkg/notify"
	"liyu1981.xyz/device-health-service/pkg/scoring"
)

// countCheckups counts logs and quizzes of the customer at the centro.
func (h *Health) countCheckups(ctx context.Context, customerID, centroID string) (int64, error) {
	var logs, quizzes int64

	conn := h.Db.Conn.WithContext(ctx)
	if err := conn.Model(&models.HealthLog{}).
		Where("customer_id = ? AND centro_id = ?", customerID, centroID).
		Count(&logs).Error; err != nil {
		return 0, fmt.Errorf("count health logs: %w", err)
	}
	if err := conn.Model(&models.DiagnosticQuiz{}).
		Where("customer_id = ? AND centro_id = ?", customerID, centroID).
		Count(&quizzes).Error; err != nil {
		return 0, fmt.Errorf("count diagnostic quizzes: %w", err)
	}

	return logs + quizzes, nil
}

// awardBadgesIfEligible inserts every badge the checkup count qualifies for.
// The insert is ON CONFLICT DO NOTHING on (customer_id, centro_id, badge_type),
// so a badge is stored once however many times or concurrently it is awarded.
// Only newly stored badges are returned.
func (h *Health) awardBadgesIfEligible(ctx context.Context, customerID, centroID string) ([]models.HealthBadge, error) {
	log := logger(common.LoggerCategoryBadge)

	total, err := h.countCheckups(ctx, customerID, centroID)
	if err != nil {
		return nil, err
	}

	awarded := []models.HealthBadge{}
	for _, earned := range scoring.BadgesEarned(total) {
		badge := earned.ToModel(customerID, centroID)

		result := h.Db.Conn.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "customer_id"},
				{Name: "centro_id"},
				{Name: "badge_type"},
			},
			DoNothing: true,
		}).Create(badge)
		if result.Error != nil {
			return awarded, fmt.Errorf("award %s badge: %w", earned.Type, result.Error)
		}
		if result.RowsAffected == 0 {
			continue
		}

		log.Info("Badge awarded",
			zap.String("customer_id", customerID),
			zap.String("centro_id", centroID),
			zap.String("badge_type", string(earned.Type)),
			zap.Int64("checkups", total),
		)
		awarded = append(awarded, *badge)

		h.dispatch(ctx, notify.Event{
			Kind:       notify.KindBadgeAwarded,
			Audience:   notify.AudienceCustomer,
			CentroID:   centroID,
			CustomerID: customerID,
			Title:      badge.Name,
			Message:    badge.Description,
			Data:       map[string]any{"badge_type": string(badge.BadgeType), "badge_icon": badge.Icon},
		})
	}

	return awarded, nil
}

type IBadgeImpl struct {
	health *Health
}

func (ib *IBadgeImpl) AwardBadgesIfEligible(ctx context.Context, customerID, centroID string) ([]models.HealthBadge, error) {
	return ib.health.awardBadgesIfEligible(ctx, customerID, centroID)
}

func (h *Health) GetIBadge() IBadge {
	return &IBadgeImpl{health: h}
}
