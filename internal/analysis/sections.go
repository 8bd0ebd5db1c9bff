package analysis

import "strings"

// Section headers are matched case-insensitively anywhere in a line, so the
// parser tolerates markdown decoration and numbering around them.
var (
	summaryMarkers   = []string{"patient summary", "summary"}
	recMarkers       = []string{"recommendation"}
	riskMarkers      = []string{"risk assessment", "risk"}
	followupMarkers  = []string{"follow-up", "next steps"}
	recStopMarkers   = []string{"risk assessment", "follow-up"}
	riskStopMarkers  = []string{"follow-up", "medication"}
	otherStopMarkers = []string{"medication"}
)

// ParseNarrative splits raw model output into the sections the response
// format asks for. Missing sections get conservative defaults; the summary
// falls back to the leading text of the response.
func ParseNarrative(content string) *Narrative {
	n := &Narrative{FullText: content}

	n.Summary = extractBlock(content, summaryMarkers, append(recMarkers, riskMarkers...))
	if n.Summary == "" {
		n.Summary = leadingText(content, 200)
	}

	n.Recommendations = extractList(content, recMarkers, recStopMarkers, maxRecommendations)

	n.RiskAssessment = extractBlock(content, riskMarkers, riskStopMarkers)
	if n.RiskAssessment == "" {
		n.RiskAssessment = "Please consult with your healthcare provider for risk assessment."
	}

	n.FollowUpActions = extractBlock(content, followupMarkers, otherStopMarkers)
	if n.FollowUpActions == "" {
		n.FollowUpActions = "Schedule regular follow-up appointments with your healthcare provider."
	}

	return n
}

// extractBlock collects the lines between a start marker and the next stop
// marker, joined with spaces.
func extractBlock(content string, startMarkers, stopMarkers []string) string {
	var lines []string
	capturing := false

	for _, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		if !capturing {
			if containsAny(lower, startMarkers) {
				capturing = true
			}
			continue
		}
		if containsAny(lower, stopMarkers) {
			break
		}
		if trimmed := cleanLine(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, " ")
}

// extractList collects the non-empty lines of a section as separate items.
func extractList(content string, startMarkers, stopMarkers []string, limit int) []string {
	var items []string
	capturing := false

	for _, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		if !capturing {
			if containsAny(lower, startMarkers) {
				capturing = true
			}
			continue
		}
		if containsAny(lower, stopMarkers) {
			break
		}
		if trimmed := cleanLine(line); trimmed != "" {
			items = append(items, trimmed)
		}
		if len(items) >= limit {
			break
		}
	}
	return items
}

// cleanLine strips list bullets and markdown emphasis from one line.
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimLeft(trimmed, "-*•0123456789. ")
	trimmed = strings.Trim(trimmed, "*_")
	return strings.TrimSpace(trimmed)
}

// leadingText returns the first limit runes of the content, with an ellipsis
// when truncated.
func leadingText(content string, limit int) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
