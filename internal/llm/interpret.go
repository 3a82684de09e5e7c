// internal/llm/interpret.go

package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*?\}`)

var suspicionKeywords = []string{"suspicious", "fake", "bot", "artificial", "generated"}

// Interpret extracts a structured verdict from a model's free-form answer.
// The first JSON object found in the text wins; a response with no parseable
// JSON falls back to a keyword scan over the prose, with the confidence
// graded by how hedged the wording is.
func Interpret(text string) (map[string]any, float64, bool) {
	if match := jsonObjectRe.FindString(text); match != "" {
		var data map[string]any
		if err := json.Unmarshal([]byte(match), &data); err == nil {
			confidence := 0.5
			if v, ok := data["confidence"].(float64); ok {
				confidence = v
			}
			suspicious := false
			if v, ok := data["is_suspicious"].(bool); ok {
				suspicious = v
			}
			return data, confidence, suspicious
		}
	}

	lower := strings.ToLower(text)
	suspicious := containsAny(lower, suspicionKeywords...)

	// Confidence grades how hedged the wording is, independent of the
	// suspicion flag itself.
	confidence := 0.6
	switch {
	case containsAny(lower, "definitely", "clearly", "certain", "obvious"):
		confidence = 0.9
	case containsAny(lower, "likely", "probably", "appears"):
		confidence = 0.7
	case containsAny(lower, "possibly", "might", "could"):
		confidence = 0.5
	}
	return map[string]any{}, confidence, suspicious
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
