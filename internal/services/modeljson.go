package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/estoico/stoic-rag-backend/internal/types"
)

// CleanModelJSON recovers a JSON object from raw model output. Models wrap
// responses in fenced code blocks or prepend prose despite instructions, so:
// take the inside of a fence when one exists, drop a leading "json" language
// tag, and if the text still does not start with "{", cut everything before
// the first "{". Trailing text after the object is left for the decoder to
// ignore.
func CleanModelJSON(raw string) (string, error) {
	clean := strings.TrimSpace(raw)

	if strings.Contains(clean, "```") {
		parts := strings.Split(clean, "```")
		if len(parts) >= 2 {
			clean = parts[1]
		}
		clean = strings.TrimSpace(clean)
		if strings.HasPrefix(clean, "json") || strings.HasPrefix(clean, "JSON") {
			clean = clean[4:]
		}
		clean = strings.TrimSpace(clean)
	}

	if !strings.HasPrefix(clean, "{") {
		start := strings.Index(clean, "{")
		if start == -1 {
			return "", fmt.Errorf("no JSON object in model output")
		}
		clean = clean[start:]
	}
	return clean, nil
}

// ParseGeneratedExercise decodes and validates one exercise payload from raw
// model output.
func ParseGeneratedExercise(raw string) (*types.GeneratedExercise, error) {
	clean, err := CleanModelJSON(raw)
	if err != nil {
		return nil, err
	}

	var ex types.GeneratedExercise
	dec := json.NewDecoder(strings.NewReader(clean))
	if err := dec.Decode(&ex); err != nil {
		return nil, fmt.Errorf("model output is not valid JSON: %w", err)
	}

	required := []struct {
		field string
		val   string
	}{
		{"name", ex.Name},
		{"level", ex.Level},
		{"objective", ex.Objective},
		{"instructions", ex.Instructions},
		{"duration", ex.Duration},
		{"reflection", ex.Reflection},
	}
	missing := make([]string, 0, len(required))
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("model output missing required fields: %s", strings.Join(missing, ", "))
	}
	return &ex, nil
}
