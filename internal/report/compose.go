// Package report composes the final patient-facing analysis text from the
// structured pipeline outputs. Composition is deterministic: the same inputs
// always produce the same prose, in a fixed section order, always ending with
// the doctor disclaimer.
package report

import (
	"fmt"
	"strings"

	"github.com/intriguedcoder/medical-report-agent/internal/synthesize"
	"github.com/intriguedcoder/medical-report-agent/pkg/models"
)

// DefaultAudioCharLimit matches the vendor text-to-speech input ceiling.
const DefaultAudioCharLimit = 500

const summaryObservationLimit = 5
const summaryRecommendationLimit = 2

// Disclaimer closes every composed report, including the empty-report
// boilerplate.
const Disclaimer = "This is an automated reading of your report and not a medical diagnosis. Please consult a qualified doctor before acting on these results."

// ComposeInput carries everything the composer needs. AudioCharLimit falls
// back to DefaultAudioCharLimit when zero.
type ComposeInput struct {
	Structured      *models.StructuredData
	Interpretations []models.Interpretation
	Synthesis       models.Synthesis
	Language        string
	AudioCharLimit  int
}

// Compose builds the full analysis record. A report in which no test results
// were recognized still composes successfully, with boilerplate prose ending
// in the disclaimer.
func Compose(in ComposeInput) *models.AnalysisResult {
	structured := in.Structured
	if structured == nil {
		structured = &models.StructuredData{Observations: []models.RawObservation{}}
	}
	limit := in.AudioCharLimit
	if limit <= 0 {
		limit = DefaultAudioCharLimit
	}

	agg := models.Aggregate(in.Interpretations)
	bucket := synthesize.BucketFor(agg)
	obsSentences := observationSentences(structured.Observations, in.Interpretations)

	full := composeFull(structured, obsSentences, bucket, agg, in.Synthesis)
	summary := composeSummary(obsSentences, bucket, agg, in.Synthesis)

	return &models.AnalysisResult{
		Success:               true,
		ComprehensiveAnalysis: full,
		Summary:               summary,
		AudioSummary:          TruncateAtSentence(summary, limit),
		Recommendations:       in.Synthesis.Recommendations,
		RiskAssessment:        strings.Join(in.Synthesis.Risks, " "),
		FollowUpActions:       followUpActions(bucket),
		StructuredData:        *structured,
		NormalCount:           agg.NormalCount,
		ConcerningCount:       agg.ConcerningCount,
		Language:              in.Language,
	}
}

// composeFull renders the nine fixed sections in order. Empty sections are
// skipped; the disclaimer is always last.
func composeFull(structured *models.StructuredData, obsSentences []string, bucket synthesize.Bucket, agg models.AggregateCounts, syn models.Synthesis) string {
	var parts []string

	parts = append(parts, intro(structured, agg.Total))
	parts = append(parts, obsSentences...)
	parts = append(parts, overallStatusSentence(bucket, agg))

	if len(syn.Risks) > 0 {
		parts = append(parts, "Things to watch: "+strings.Join(syn.Risks, " "))
	}
	if len(syn.Implications) > 0 {
		parts = append(parts, strings.Join(syn.Implications, " "))
	}
	if len(syn.Recommendations) > 0 {
		parts = append(parts, "What you can do: "+numbered(syn.Recommendations))
	}
	if advice := ageAdvice(structured.PatientInfo.Age); advice != "" {
		parts = append(parts, advice)
	}

	parts = append(parts, generalHealthParagraph(bucket))
	parts = append(parts, Disclaimer)

	return strings.Join(parts, "\n\n")
}

// composeSummary is the short variant: intro, first few observation
// sentences, overall status, and the top recommendations.
func composeSummary(obsSentences []string, bucket synthesize.Bucket, agg models.AggregateCounts, syn models.Synthesis) string {
	var parts []string

	if agg.Total == 0 {
		parts = append(parts, "We could not recognize any test results in this report.")
	} else {
		parts = append(parts, fmt.Sprintf("We checked %d test results from your report.", agg.Total))
	}

	n := len(obsSentences)
	if n > summaryObservationLimit {
		n = summaryObservationLimit
	}
	parts = append(parts, obsSentences[:n]...)
	parts = append(parts, overallStatusSentence(bucket, agg))

	recs := syn.Recommendations
	if len(recs) > summaryRecommendationLimit {
		recs = recs[:summaryRecommendationLimit]
	}
	parts = append(parts, recs...)

	return strings.Join(parts, " ")
}

func intro(structured *models.StructuredData, total int) string {
	greeting := "Hello"
	if name := strings.TrimSpace(structured.PatientInfo.Name); name != "" {
		greeting = "Hello " + name
	}
	if total == 0 {
		return greeting + ". We read your medical report but could not recognize any test results in it. The photo may be blurry, or the report may use a format we do not understand yet."
	}
	return fmt.Sprintf("%s. We read your medical report and found %d test results. Here is what they mean in simple words.", greeting, total)
}

// observationSentences renders one sentence per recognized test. The two
// slices travel in lockstep from the pipeline; a length mismatch is clamped
// rather than treated as an error.
func observationSentences(observations []models.RawObservation, interpretations []models.Interpretation) []string {
	n := len(observations)
	if len(interpretations) < n {
		n = len(interpretations)
	}
	sentences := make([]string, 0, n)
	for i := 0; i < n; i++ {
		obs := observations[i]
		in := interpretations[i]

		value := obs.Value
		if obs.Unit != "" {
			value += " " + obs.Unit
		}
		sentences = append(sentences, fmt.Sprintf("%s is %s (%s). %s %s",
			strings.TrimSpace(obs.Name), statusPhrase(in.Status), value,
			in.HealthImplication, in.SimpleAdvice))
	}
	return sentences
}

func statusPhrase(s models.Status) string {
	switch s {
	case models.StatusGood:
		return "in a good range"
	case models.StatusALittleHigh:
		return "a little high"
	case models.StatusALittleLow:
		return "a little low"
	case models.StatusNeedsAttention:
		return "at a level that needs attention"
	default:
		return "at a level we could not interpret"
	}
}

func overallStatusSentence(bucket synthesize.Bucket, agg models.AggregateCounts) string {
	if agg.Total == 0 {
		return "Overall: no results could be checked, so we cannot comment on your health from this report."
	}
	switch bucket {
	case synthesize.BucketAllNormal:
		return fmt.Sprintf("Overall: all %d results look normal. Well done.", agg.Total)
	case synthesize.BucketOneConcern:
		return fmt.Sprintf("Overall: %d of %d results looks concerning, the rest are fine.", agg.ConcerningCount, agg.Total)
	case synthesize.BucketSomeConcern:
		return fmt.Sprintf("Overall: %d of %d results need some attention.", agg.ConcerningCount, agg.Total)
	default:
		return fmt.Sprintf("Overall: %d of %d results need attention. Please see a doctor about this report.", agg.ConcerningCount, agg.Total)
	}
}

func numbered(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, item)
	}
	return b.String()
}

// ageAdvice returns an age-appropriate advice sentence, or "" when the age is
// absent or unparseable.
func ageAdvice(age string) string {
	age = strings.TrimSpace(age)
	if age == "" {
		return ""
	}
	var years int
	if _, err := fmt.Sscanf(age, "%d", &years); err != nil || years <= 0 || years > 130 {
		return ""
	}
	switch {
	case years < 18:
		return "Since this report is for a young person, please have a pediatrician review these results, as children have different normal ranges."
	case years < 40:
		return "At your age, building healthy eating and exercise habits now will protect your health for decades."
	case years < 60:
		return "At your age, regular yearly check-ups help catch changes in these values early."
	default:
		return "At your age, please review these results with your regular doctor, and keep up gentle daily activity like walking."
	}
}

func generalHealthParagraph(bucket synthesize.Bucket) string {
	switch bucket {
	case synthesize.BucketAllNormal:
		return "Your report looks healthy. Good food, daily movement, enough sleep, and regular check-ups will keep it that way."
	case synthesize.BucketOneConcern:
		return "Most of your report looks healthy. Small, steady changes in food and activity usually bring a single off value back to normal."
	case synthesize.BucketSomeConcern:
		return "Your report shows a mix of normal and concerning values. This is common and usually improves with consistent habits and medical guidance."
	default:
		return "Your report shows several values that need care. Do not be alarmed; many such values improve with treatment and lifestyle changes, but please act on them soon."
	}
}

func followUpActions(bucket synthesize.Bucket) string {
	switch bucket {
	case synthesize.BucketAllNormal:
		return "Repeat a routine check-up in about a year."
	case synthesize.BucketOneConcern:
		return "Re-test the concerning value in about three months, sooner if you feel unwell."
	case synthesize.BucketSomeConcern:
		return "Book a doctor visit in the next few weeks to review the concerning values."
	default:
		return "Book a doctor visit within the next few days to review this report."
	}
}

// TruncateAtSentence shortens text to at most limit characters, cutting at
// the last full sentence that fits. When no sentence boundary fits, it falls
// back to a hard cut at the last space, then to a plain rune cut. The limit
// counts characters, never bytes.
func TruncateAtSentence(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	window := string(runes[:limit])

	cut := -1
	for _, end := range []string{". ", "! ", "? ", "।"} {
		if idx := strings.LastIndex(window, end); idx > cut {
			cut = idx + len(end) - 1
		}
	}
	if cut > 0 {
		return strings.TrimSpace(window[:cut+1])
	}
	if idx := strings.LastIndex(window, " "); idx > 0 {
		return strings.TrimSpace(window[:idx])
	}
	return window
}
