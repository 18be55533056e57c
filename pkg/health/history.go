package health

import (
	"context"
	"fmt"

	"liyu1981.xyz/device-health-service/pkg/models"
)

// getHealthHistory returns the newest logs and quizzes, every badge and the
// alerts still open for the customer at the centro.
func (h *Health) getHealthHistory(ctx context.Context, req *HistoryRequest) (*History, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customer, err := h.findCustomer(ctx, req.CustomerEmail)
	if err != nil {
		return nil, err
	}

	conn := h.Db.Conn.WithContext(ctx)
	owner := "customer_id = ? AND centro_id = ?"
	history := History{
		Logs:    []models.HealthLog{},
		Quizzes: []models.DiagnosticQuiz{},
		Badges:  []models.HealthBadge{},
		Alerts:  []models.HealthAlert{},
	}

	if err := conn.Where(owner, customer.ID, req.CentroID).
		Order("created_at desc").Limit(req.limit()).
		Find(&history.Logs).Error; err != nil {
		return nil, fmt.Errorf("load health logs: %w", err)
	}

	if err := conn.Where(owner, customer.ID, req.CentroID).
		Order("created_at desc").Limit(req.limit()).
		Find(&history.Quizzes).Error; err != nil {
		return nil, fmt.Errorf("load diagnostic quizzes: %w", err)
	}

	if err := conn.Where(owner, customer.ID, req.CentroID).
		Order("created_at asc").
		Find(&history.Badges).Error; err != nil {
		return nil, fmt.Errorf("load badges: %w", err)
	}

	if err := conn.Where(owner, customer.ID, req.CentroID).
		Where("status IN ?", openStatuses).
		Order("created_at desc").
		Find(&history.Alerts).Error; err != nil {
		return nil, fmt.Errorf("load alerts: %w", err)
	}

	return &history, nil
}

type IHistoryImpl struct {
	health *Health
}

func (ih *IHistoryImpl) GetHealthHistory(ctx context.Context, req *HistoryRequest) (*History, error) {
	return ih.health.getHealthHistory(ctx, req)
}

func (h *Health) GetIHistory() IHistory {
	return &IHistoryImpl{health: h}
}
