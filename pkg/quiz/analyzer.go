package quiz

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/device-health-service/pkg/common"
)

type Strategy string

const (
	StrategyDelegate Strategy = "delegate"
	StrategyRules    Strategy = "rules"

	DefaultTimeout = 15 * time.Second
)

var ErrNoDelegate = errors.New("no delegate configured")

// Delegate is an external text generation service asked to score the
// responses. It returns the raw model output, which may wrap the JSON answer
// in prose.
type Delegate interface {
	Generate(ctx context.Context, responses map[string]any) (string, error)
}

type Result struct {
	Score           int      `json:"health_score"`
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
	Strategy        Strategy `json:"strategy"`
}

type Analyzer struct {
	Delegate Delegate
	Timeout  time.Duration
}

func NewAnalyzer(delegate Delegate, timeout time.Duration) *Analyzer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Analyzer{Delegate: delegate, Timeout: timeout}
}

// Analyze never fails: any delegate problem falls back to RuleBasedAnalysis.
func (a *Analyzer) Analyze(ctx context.Context, responses map[string]any) Result {
	logger := common.GetLoggerWith(common.LoggerNameQuiz)

	result, err := a.delegate(ctx, responses)
	if err == nil {
		return result
	}

	if !errors.Is(err, ErrNoDelegate) {
		logger.Warn("Delegate analysis failed, using rules", zap.Error(err))
	}

	result = RuleBasedAnalysis(responses)
	logger.Debug("Rule based analysis", zap.Int("score", result.Score))
	return result
}

func (a *Analyzer) delegate(ctx context.Context, responses map[string]any) (Result, error) {
	if a == nil || a.Delegate == nil {
		return Result{}, ErrNoDelegate
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := a.Delegate.Generate(ctx, responses)
	if err != nil {
		return Result{}, err
	}

	result, err := ParseDelegateOutput(text)
	if err != nil {
		return Result{}, err
	}
	result.Strategy = StrategyDelegate
	return result, nil
}
