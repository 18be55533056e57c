package quiz

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"liyu1981.xyz/device-health-service/pkg/common"
	_ "liyu1981.xyz/device-health-service/pkg/testing"
)

type fakeDelegate struct {
	text  string
	err   error
	delay time.Duration
	calls int
}

func (f *fakeDelegate) Generate(ctx context.Context, _ map[string]any) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func TestRuleBasedAnalysisFallbackDeterminism(t *testing.T) {
	responses := map[string]any{"battery_drains_fast": true, "overheating": "often"}

	first := RuleBasedAnalysis(responses)
	second := RuleBasedAnalysis(responses)

	assert.Equal(t, first, second)
	assert.Equal(t, 55, first.Score)
	assert.Contains(t, first.Analysis, "battery")
	assert.Contains(t, first.Analysis, "overheating")
	assert.GreaterOrEqual(t, len(first.Recommendations), 2)
	assert.Equal(t, StrategyRules, first.Strategy)
}

func TestRuleBasedAnalysisNoIssues(t *testing.T) {
	r := RuleBasedAnalysis(map[string]any{"favourite_colour": "blue", "battery_rating": 5})
	assert.Equal(t, 100, r.Score)
	assert.Equal(t, NoIssuesAnalysis, r.Analysis)
	assert.Equal(t, []string{MaintenanceRecommendation}, r.Recommendations)

	r = RuleBasedAnalysis(nil)
	assert.Equal(t, 100, r.Score)
}

func TestRuleBasedAnalysisAllIssues(t *testing.T) {
	r := RuleBasedAnalysis(map[string]any{
		"battery_rating":     1.0,
		"overheating":        true,
		"performance_rating": "2",
		"storage_low":        true,
		"crashes":            "often",
	})
	assert.Equal(t, 10, r.Score)
	assert.Len(t, r.Recommendations, 5)
	assert.Equal(t,
		"Detected: battery life problems, frequent overheating, system slowdowns, insufficient storage space, frequent app crashes.",
		r.Analysis)
}

func TestRuleBasedAnalysisLooseValues(t *testing.T) {
	// strings are not booleans, ratings above the cutoff do not count
	r := RuleBasedAnalysis(map[string]any{
		"battery_drains_fast": "true",
		"storage_rating":      "3",
		"slowdowns":           "sometimes",
		"overheating":         false,
	})
	assert.Equal(t, 100, r.Score)

	r = RuleBasedAnalysis(map[string]any{"slowdowns": "Frequent", "storage_rating": "not a number"})
	assert.Equal(t, 85, r.Score)
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"score": 80}`, `{"score": 80}`},
		{"prose", "Sure! Here it is:\n{\"score\": 70, \"analysis\": \"ok\"}\nHope it helps {really}", `{"score": 70, "analysis": "ok"}`},
		{"nested", `x {"a": {"b": 1}, "c": [1, 2]} y`, `{"a": {"b": 1}, "c": [1, 2]}`},
		{"braces in strings", `{"analysis": "use } and { freely \" still string }"} tail`, `{"analysis": "use } and { freely \" still string }"}`},
		{"fenced", "```json\n{\"score\": 1}\n```", `{"score": 1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, in := range []string{"", "no json here", "{ never closed", "} {"} {
		_, err := ExtractJSONObject(in)
		assert.ErrorIs(t, err, ErrNoJSONObject, in)
	}
}

func TestParseDelegateOutput(t *testing.T) {
	r, err := ParseDelegateOutput(`Result: {"score": 72.6, "analysis": "Battery is aging", "recommendations": ["Replace battery"]}`)
	require.NoError(t, err)
	assert.Equal(t, 73, r.Score)
	assert.Equal(t, "Battery is aging", r.Analysis)
	assert.Equal(t, []string{"Replace battery"}, r.Recommendations)
	assert.Equal(t, StrategyDelegate, r.Strategy)

	r, err = ParseDelegateOutput(`{"score": 0}`)
	require.NoError(t, err)
	assert.Equal(t, DefaultDelegateScore, r.Score)
	assert.Equal(t, DefaultDelegateAnalysis, r.Analysis)
	assert.NotNil(t, r.Recommendations)
	assert.Empty(t, r.Recommendations)

	r, err = ParseDelegateOutput(`{"analysis": "fine"}`)
	require.NoError(t, err)
	assert.Equal(t, DefaultDelegateScore, r.Score)

	r, err = ParseDelegateOutput(`{"score": 250}`)
	require.NoError(t, err)
	assert.Equal(t, 100, r.Score)

	_, err = ParseDelegateOutput(`{"score": "high"}`)
	assert.Error(t, err)

	_, err = ParseDelegateOutput("I cannot help with that")
	assert.ErrorIs(t, err, ErrNoJSONObject)
}

func TestParseDelegateOutputHealthScoreKey(t *testing.T) {
	r, err := ParseDelegateOutput(`Sure! {"health_score": 82.6, "analysis": "Good overall"}`)
	require.NoError(t, err)
	assert.Equal(t, 83, r.Score)
	assert.Equal(t, "Good overall", r.Analysis)

	r, err = ParseDelegateOutput(`{"score": 40, "health_score": 90}`)
	require.NoError(t, err)
	assert.Equal(t, 40, r.Score)
}

func TestParseDelegateOutputSkipsProseBraces(t *testing.T) {
	r, err := ParseDelegateOutput(`Based on {battery, heat} answers: {"score": 70, "analysis": "ok"}`)
	require.NoError(t, err)
	assert.Equal(t, 70, r.Score)
	assert.Equal(t, "ok", r.Analysis)

	r, err = ParseDelegateOutput("{not json} then {also not} and finally\n```json\n{\"health_score\": 55}\n```")
	require.NoError(t, err)
	assert.Equal(t, 55, r.Score)

	_, err = ParseDelegateOutput(`{battery, heat} and nothing else`)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoJSONObject)
}

func TestAnalyzeUsesDelegate(t *testing.T) {
	common.SetTestLoggerNop()

	d := &fakeDelegate{text: `{"score": 64, "analysis": "Some wear", "recommendations": ["Check battery", "Clean storage"]}`}
	a := NewAnalyzer(d, time.Second)

	r := a.Analyze(context.Background(), map[string]any{"battery_drains_fast": true})
	assert.Equal(t, 1, d.calls)
	assert.Equal(t, StrategyDelegate, r.Strategy)
	assert.Equal(t, 64, r.Score)
	assert.Len(t, r.Recommendations, 2)
}

func TestAnalyzeFallsBack(t *testing.T) {
	responses := map[string]any{"battery_drains_fast": true, "overheating": "often"}

	cases := map[string]Delegate{
		"nil delegate": nil,
		"error":        &fakeDelegate{err: errors.New("503 service unavailable")},
		"garbage":      &fakeDelegate{text: "Sorry, I can't do that."},
		"malformed":    &fakeDelegate{text: `{"score": }`},
		"timeout":      &fakeDelegate{text: `{"score": 90}`, delay: time.Second},
	}

	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			common.SetTestLoggerNop()

			a := NewAnalyzer(d, 20*time.Millisecond)
			r := a.Analyze(context.Background(), responses)
			assert.Equal(t, StrategyRules, r.Strategy)
			assert.Equal(t, 55, r.Score)
		})
	}

	var nilAnalyzer *Analyzer
	assert.Equal(t, 55, nilAnalyzer.Analyze(context.Background(), responses).Score)
}

func TestAnalyzeFallbackIsLogged(t *testing.T) {
	var buf = &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zapcore.InfoLevel)

	a := NewAnalyzer(&fakeDelegate{err: errors.New("quota exceeded")}, time.Second)
	a.Analyze(context.Background(), map[string]any{})

	assert.Contains(t, buf.String(), `"logger":"quiz"`)
	assert.Contains(t, buf.String(), "Delegate analysis failed, using rules")
	assert.Contains(t, buf.String(), "quota exceeded")
}

func TestNewGeminiDelegateRequiresKey(t *testing.T) {
	_, err := NewGeminiDelegate(context.Background(), "", "")
	assert.Error(t, err)
}
