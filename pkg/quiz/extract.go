package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrNoJSONObject = errors.New("no JSON object found")

const (
	DefaultDelegateScore    = 50
	DefaultDelegateAnalysis = "Analysis completed"
)

// ExtractJSONObject returns the first balanced {...} substring of text.
// Braces inside JSON strings are ignored.
func ExtractJSONObject(text string) (string, error) {
	start, end := nextObject(text, 0)
	if start < 0 {
		return "", ErrNoJSONObject
	}
	return text[start:end], nil
}

// nextObject finds the first balanced object whose opening brace is at or
// after from. start is -1 when there is none.
func nextObject(text string, from int) (start, end int) {
	for from < len(text) {
		i := strings.IndexByte(text[from:], '{')
		if i < 0 {
			break
		}
		start = from + i
		if end = matchObject(text, start); end > 0 {
			return start, end
		}
		from = start + 1
	}
	return -1, -1
}

// matchObject returns the index just past the brace closing the one at
// start, or -1 when the object is never closed.
func matchObject(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

type delegateOutput struct {
	Score           *float64 `json:"score"`
	HealthScore     *float64 `json:"health_score"`
	Analysis        string   `json:"analysis"`
	Recommendations []string `json:"recommendations"`
}

// decodeDelegateOutput tries every balanced object in text in order and
// keeps the first one that decodes. Prose such as "{battery, heat}" before
// the answer is skipped.
func decodeDelegateOutput(text string) (delegateOutput, error) {
	var lastErr error
	from := 0
	for {
		start, end := nextObject(text, from)
		if start < 0 {
			break
		}
		var out delegateOutput
		err := json.Unmarshal([]byte(text[start:end]), &out)
		if err == nil {
			return out, nil
		}
		lastErr = err
		from = start + 1
	}

	if lastErr != nil {
		return delegateOutput{}, fmt.Errorf("decode delegate output: %w", lastErr)
	}
	return delegateOutput{}, ErrNoJSONObject
}

// ParseDelegateOutput extracts and decodes the delegate answer. The score is
// read from "score", or "health_score" when "score" is absent. A missing or
// zero score becomes DefaultDelegateScore and an empty analysis becomes
// DefaultDelegateAnalysis.
func ParseDelegateOutput(text string) (Result, error) {
	out, err := decodeDelegateOutput(text)
	if err != nil {
		return Result{}, err
	}
	if out.Score == nil {
		out.Score = out.HealthScore
	}

	score := DefaultDelegateScore
	if out.Score != nil && *out.Score != 0 {
		score = int(math.Max(0, math.Min(100, math.Round(*out.Score))))
	}

	analysis := out.Analysis
	if strings.TrimSpace(analysis) == "" {
		analysis = DefaultDelegateAnalysis
	}

	recommendations := out.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	return Result{
		Score:           score,
		Analysis:        analysis,
		Recommendations: recommendations,
		Strategy:        StrategyDelegate,
	}, nil
}
