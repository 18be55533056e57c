package health_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/health"
	"liyu1981.xyz/device-health-service/pkg/models"
	"liyu1981.xyz/device-health-service/pkg/quiz"
	"liyu1981.xyz/device-health-service/pkg/scoring"
	_ "liyu1981.xyz/device-health-service/pkg/testing"
)

type stubDelegate struct {
	text string
}

func (s stubDelegate) Generate(context.Context, map[string]any) (string, error) {
	return s.text, nil
}

func TestSubmitQuizRules(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, h, _, _, _ := GetMockHealthWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	m := seedMember(t, h, nil)

	res, err := h.Quiz.SubmitQuiz(context.Background(), &health.SubmitQuizRequest{
		CustomerEmail: m.Email,
		CentroID:      m.CentroID,
		Responses:     map[string]any{"battery_drains_fast": true, "overheating": "often"},
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 55, res.HealthScore)
	assert.Equal(t, quiz.StrategyRules, res.Strategy)
	assert.Equal(t, "Detected: battery life problems, frequent overheating.", res.Analysis)
	assert.Len(t, res.Recommendations, 2)

	var stored models.DiagnosticQuiz
	require.NoError(t, h.Db.Conn.First(&stored, "id = ?", res.QuizID).Error)
	assert.Equal(t, models.QuizStatusAnalyzed, stored.Status)
	assert.Equal(t, "often", stored.Responses["overheating"])
	assert.NotNil(t, stored.AnalyzedAt)

	alerts, err := h.Alert.ListCentroAlerts(context.Background(), m.CentroID, "")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, scoring.AlertTypeGeneralWarning, alerts[0].AlertType)
	assert.Equal(t, models.SeverityMedium, alerts[0].Severity)
	require.NotNil(t, alerts[0].DiagnosticQuizID)
	assert.Equal(t, res.QuizID, *alerts[0].DiagnosticQuizID)
}

func TestSubmitQuizDelegate(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, h, _, _, _ := GetMockHealthWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	h.Analyzer = quiz.NewAnalyzer(stubDelegate{
		text: "Sure! {\"health_score\": 82.6, \"analysis\": \"Looks fine\", \"recommendations\": [\"Update the OS\"]}",
	}, 0)

	m := seedMember(t, h, nil)

	res, err := h.Quiz.SubmitQuiz(context.Background(), &health.SubmitQuizRequest{
		CustomerEmail: m.Email,
		CentroID:      m.CentroID,
		Responses:     map[string]any{"battery_drains_fast": true},
	})
	require.NoError(t, err)
	assert.Equal(t, quiz.StrategyDelegate, res.Strategy)
	assert.Equal(t, 83, res.HealthScore)
	assert.Equal(t, "Looks fine", res.Analysis)
	assert.Equal(t, []string{"Update the OS"}, res.Recommendations)

	alerts, err := h.Alert.ListCentroAlerts(context.Background(), m.CentroID, "")
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestSubmitQuizValidation(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, h, _, _, _ := GetMockHealthWithMemorySqliteDialector(t, false, false, false)
	defer ctrl.Finish()

	m := seedMember(t, h, nil)

	_, err := h.Quiz.SubmitQuiz(context.Background(), &health.SubmitQuizRequest{CustomerEmail: m.Email, CentroID: m.CentroID})
	assert.ErrorIs(t, err, health.ErrValidation)

	_, err = h.Quiz.SubmitQuiz(context.Background(), &health.SubmitQuizRequest{
		CustomerEmail: "stranger@example.com",
		CentroID:      m.CentroID,
		Responses:     map[string]any{},
	})
	assert.ErrorIs(t, err, health.ErrCustomerNotFound)
}

func TestQuizAnomalies(t *testing.T) {
	s := scoring.DefaultSettings()

	assert.Empty(t, health.QuizAnomalies(60, "fine", s))

	anomalies := health.QuizAnomalies(59, "Detected: frequent app crashes.", s)
	require.Len(t, anomalies, 1)
	assert.Equal(t, scoring.AnomalyGeneralWarning, anomalies[0].Type)
	assert.Equal(t, models.SeverityMedium, anomalies[0].Severity)

	s.HealthScoreWarningThreshold = 80
	assert.Len(t, health.QuizAnomalies(70, "", s), 1)
}
