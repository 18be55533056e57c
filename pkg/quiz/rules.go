package quiz

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	KeyBatteryDrainsFast = "battery_drains_fast"
	KeyBatteryRating     = "battery_rating"
	KeyOverheating       = "overheating"
	KeySlowdowns         = "slowdowns"
	KeyPerformanceRating = "performance_rating"
	KeyStorageLow        = "storage_low"
	KeyStorageRating     = "storage_rating"
	KeyCrashes           = "crashes"

	lowRating = 2

	NoIssuesAnalysis          = "No significant problems detected."
	MaintenanceRecommendation = "Keep up with periodic check-ups to keep your device healthy"
)

type rule struct {
	deduction      int
	issue          string
	recommendation string
	matches        func(responses map[string]any) bool
}

// rules is the closed set of recognized answers. Keys outside it are ignored.
var rules = []rule{
	{
		deduction:      25,
		issue:          "battery life problems",
		recommendation: "We recommend a battery diagnosis",
		matches: func(r map[string]any) bool {
			return isTrue(r[KeyBatteryDrainsFast]) || ratedLow(r[KeyBatteryRating])
		},
	},
	{
		deduction:      20,
		issue:          "frequent overheating",
		recommendation: "Check the thermal paste and clean the device internally",
		matches: func(r map[string]any) bool {
			return isValue(r[KeyOverheating], "often") || isTrue(r[KeyOverheating])
		},
	},
	{
		deduction:      15,
		issue:          "system slowdowns",
		recommendation: "Consider a software cleanup and optimization",
		matches: func(r map[string]any) bool {
			return isValue(r[KeySlowdowns], "frequent") || ratedLow(r[KeyPerformanceRating])
		},
	},
	{
		deduction:      10,
		issue:          "insufficient storage space",
		recommendation: "Free up space or consider a storage upgrade",
		matches: func(r map[string]any) bool {
			return isTrue(r[KeyStorageLow]) || ratedLow(r[KeyStorageRating])
		},
	},
	{
		deduction:      20,
		issue:          "frequent app crashes",
		recommendation: "An in-depth software diagnosis is recommended",
		matches: func(r map[string]any) bool {
			return isValue(r[KeyCrashes], "often")
		},
	},
}

// RuleBasedAnalysis scores the responses from 100 down using the fixed rule
// table. It is deterministic and floors the score at 0.
func RuleBasedAnalysis(responses map[string]any) Result {
	score := 100
	var issues []string
	recommendations := []string{}

	for _, r := range rules {
		if !r.matches(responses) {
			continue
		}
		score -= r.deduction
		issues = append(issues, r.issue)
		recommendations = append(recommendations, r.recommendation)
	}

	analysis := NoIssuesAnalysis
	if len(issues) > 0 {
		analysis = fmt.Sprintf("Detected: %s.", strings.Join(issues, ", "))
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, MaintenanceRecommendation)
	}

	return Result{
		Score:           max(0, score),
		Analysis:        analysis,
		Recommendations: recommendations,
		Strategy:        StrategyRules,
	}
}

func isTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func isValue(v any, want string) bool {
	s, ok := v.(string)
	return ok && strings.EqualFold(strings.TrimSpace(s), want)
}

// ratedLow accepts JSON numbers or numeric strings. Anything else is unrated.
func ratedLow(v any) bool {
	rating, ok := asNumber(v)
	return ok && rating <= lowRating
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
