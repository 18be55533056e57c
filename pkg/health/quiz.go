package health

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/models"
	"liyu1981.xyz/device-health-service/pkg/scoring"
)

func (h *Health) submitQuiz(ctx context.Context, req *SubmitQuizRequest) (*SubmitQuizResult, error) {
	log := logger(common.LoggerCategoryQuiz)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	g, err := h.requireAccess(ctx, req.CustomerEmail, req.CentroID)
	if err != nil {
		return nil, err
	}

	result := h.Analyzer.Analyze(ctx, req.Responses)
	analyzedAt := h.now()

	record := models.DiagnosticQuiz{
		CustomerID:      g.Customer.ID,
		CentroID:        req.CentroID,
		DeviceID:        req.DeviceID,
		LoyaltyCardID:   g.LoyaltyCard.ID,
		Responses:       req.Responses,
		Analysis:        result.Analysis,
		HealthScore:     result.Score,
		Recommendations: result.Recommendations,
		Strategy:        string(result.Strategy),
		Status:          models.QuizStatusAnalyzed,
		AnalyzedAt:      &analyzedAt,
	}

	log.Info("Quiz analyzed",
		zap.String("centro_id", req.CentroID),
		zap.String("customer_id", g.Customer.ID),
		zap.String("strategy", string(result.Strategy)),
		zap.Int("health_score", result.Score),
	)

	if err := h.Db.Conn.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("store diagnostic quiz: %w", err)
	}

	log.Info("Quiz saved", zap.String("quiz_id", record.ID))

	h.afterEvaluation(ctx, AlertSubject{
		CustomerID:       g.Customer.ID,
		CentroID:         req.CentroID,
		DeviceID:         req.DeviceID,
		DiagnosticQuizID: &record.ID,
	}, result.Score, QuizAnomalies(result.Score, result.Analysis, g.Settings), g.Settings)

	return &SubmitQuizResult{
		Success:         true,
		HealthScore:     result.Score,
		Analysis:        result.Analysis,
		Recommendations: result.Recommendations,
		Strategy:        result.Strategy,
		QuizID:          record.ID,
	}, nil
}

// QuizAnomalies turns a low quiz score into the single warning the alert
// decision works from. Quizzes never produce critical anomalies.
func QuizAnomalies(score int, analysis string, settings scoring.Settings) []models.Anomaly {
	if score >= settings.HealthScoreWarningThreshold {
		return []models.Anomaly{}
	}
	return []models.Anomaly{{
		Type:     scoring.AnomalyGeneralWarning,
		Severity: models.SeverityMedium,
		Message:  analysis,
	}}
}

type IQuizImpl struct {
	health *Health
}

func (iq *IQuizImpl) SubmitQuiz(ctx context.Context, req *SubmitQuizRequest) (*SubmitQuizResult, error) {
	return iq.health.submitQuiz(ctx, req)
}

func (h *Health) GetIQuiz() IQuiz {
	return &IQuizImpl{health: h}
}
