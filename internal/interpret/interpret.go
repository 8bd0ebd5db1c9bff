// Package interpret maps extracted test observations to qualitative statuses
// and plain-language explanations using fixed per-category threshold tables.
//
// Interpretation is a total function of (category, numeric value): there is
// no external state and no memory across calls. Values that fail to parse and
// tests that fall outside the known categories resolve to StatusUnknown with
// a generic explanation rather than an error.
package interpret

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/intriguedcoder/medical-report-agent/pkg/models"
)

// Interpret derives the status and explanation for a single observation.
// It never fails.
func Interpret(obs models.RawObservation) models.Interpretation {
	category := Classify(obs.Name)

	value, ok := parseValue(obs.Value, category)
	if !ok {
		return models.Interpretation{
			Status: models.StatusUnknown,
			HealthImplication: fmt.Sprintf(
				"We could not read the value for %s. This test relates to your %s.",
				strings.TrimSpace(obs.Name), BodyPart(obs.Name)),
			SimpleAdvice: "Please show the original report to your doctor for this test.",
		}
	}

	table, known := thresholdTables[category]
	if !known {
		return models.Interpretation{
			Status: models.StatusUnknown,
			HealthImplication: fmt.Sprintf(
				"We do not have reference ranges for %s. This test relates to your %s.",
				strings.TrimSpace(obs.Name), BodyPart(obs.Name)),
			SimpleAdvice: "Please discuss this value with your doctor.",
		}
	}

	for _, rule := range table {
		if rule.applies(value) {
			return models.Interpretation{
				Status:            rule.status,
				HealthImplication: rule.implication,
				SimpleAdvice:      rule.advice,
			}
		}
	}

	// Tables cover the full number line; reaching here means a table bug.
	return models.Interpretation{
		Status:            models.StatusUnknown,
		HealthImplication: fmt.Sprintf("This test relates to your %s.", BodyPart(obs.Name)),
	}
}

// InterpretAll maps each observation through Interpret, preserving order.
func InterpretAll(observations []models.RawObservation) []models.Interpretation {
	out := make([]models.Interpretation, len(observations))
	for i, obs := range observations {
		out[i] = Interpret(obs)
	}
	return out
}

// parseValue parses an observation value as a float. Blood-pressure style
// ratios ("120/80") use the systolic component before the slash.
func parseValue(raw string, category Category) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if category == CategoryBloodPressure || strings.Contains(raw, "/") {
		if idx := strings.Index(raw, "/"); idx > 0 {
			raw = strings.TrimSpace(raw[:idx])
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NumericValue exposes the parse used by interpretation so downstream
// components (risk synthesis) apply identical semantics.
func NumericValue(obs models.RawObservation) (float64, bool) {
	return parseValue(obs.Value, Classify(obs.Name))
}
