// Package synthesize derives secondary narrative content (risk factors,
// health implications, recommendations) from a full set of interpreted test
// results. It is purely functional: no I/O, no external calls, deterministic
// for a given input.
package synthesize

import (
	"github.com/intriguedcoder/medical-report-agent/internal/interpret"
	"github.com/intriguedcoder/medical-report-agent/pkg/models"
)

// DefaultRecommendationCap bounds the recommendation list. Call sites that
// render longer reports may raise it to six.
const DefaultRecommendationCap = 6

// SummaryRecommendationCap is the tighter bound used for short summaries.
const SummaryRecommendationCap = 5

// riskRule fires a canned risk sentence when an observation in the given
// category crosses a threshold. Risk thresholds are generally more extreme
// than the interpretation bands; a severe rule must precede its milder
// counterpart so only the strongest applicable sentence fires per match.
type riskRule struct {
	category interpret.Category
	applies  func(v float64) bool
	sentence string
}

var riskRules = []riskRule{
	{interpret.CategoryGlucose, func(v float64) bool { return v > 200 },
		"Very high blood sugar raises the risk of diabetes complications affecting the heart, kidneys, and eyes."},
	{interpret.CategoryGlucose, func(v float64) bool { return v > 140 },
		"Elevated blood sugar increases the long-term risk of developing diabetes."},
	{interpret.CategoryCholesterol, func(v float64) bool { return v > 240 },
		"High cholesterol significantly raises the risk of heart attack and stroke."},
	{interpret.CategoryCholesterol, func(v float64) bool { return v > 200 },
		"Borderline cholesterol adds gradual risk to your heart and blood vessels."},
	{interpret.CategoryBloodPressure, func(v float64) bool { return v > 180 },
		"Very high blood pressure is dangerous and needs urgent medical care."},
	{interpret.CategoryBloodPressure, func(v float64) bool { return v > 140 },
		"High blood pressure strains the heart and raises the risk of stroke."},
	{interpret.CategoryHbA1c, func(v float64) bool { return v > 7.0 },
		"Poorly controlled average blood sugar raises the risk of nerve and kidney damage."},
	{interpret.CategoryHbA1c, func(v float64) bool { return v > 6.4 },
		"Your average blood sugar is in the diabetes range, which carries long-term health risks."},
	{interpret.CategoryHemoglobin, func(v float64) bool { return v < 10 },
		"Severely low hemoglobin suggests anemia that needs medical evaluation."},
	{interpret.CategoryHemoglobin, func(v float64) bool { return v < 12 },
		"Low hemoglobin can lead to anemia and ongoing tiredness."},
	{interpret.CategoryCreatinine, func(v float64) bool { return v > 2.0 },
		"A very high creatinine level suggests significant kidney strain that needs prompt attention."},
	{interpret.CategoryCreatinine, func(v float64) bool { return v > 1.3 },
		"Elevated creatinine can be an early sign of reduced kidney function."},
	{interpret.CategoryThyroid, func(v float64) bool { return v > 10.0 },
		"A very high TSH level suggests a significantly underactive thyroid."},
	{interpret.CategoryThyroid, func(v float64) bool { return v < 0.1 },
		"A very low TSH level suggests a significantly overactive thyroid."},
}

var implicationByBucket = map[Bucket]string{
	BucketAllNormal:     "All your test results are within normal ranges. This is a good sign of your overall health.",
	BucketOneConcern:    "One of your test results needs a closer look, but overall your report is reassuring.",
	BucketSomeConcern:   "A few of your test results are outside the normal range. With some lifestyle changes and medical guidance, these usually improve.",
	BucketMostlyConcern: "Several of your test results need attention. Please take this report to a doctor so the findings can be addressed together.",
}

// Base lifestyle recommendations. The concerned variant leads with the
// doctor visit; the all-clear variant reinforces current habits.
var baseRecommendationsConcerning = []string{
	"Consult a doctor to discuss the results that are outside normal ranges.",
	"Eat a balanced diet with plenty of vegetables, whole grains, and fruits.",
	"Stay physically active for at least thirty minutes most days.",
	"Schedule a follow-up test to track your progress.",
}

var baseRecommendationsNormal = []string{
	"Keep up your current healthy habits.",
	"Eat a balanced diet with plenty of vegetables, whole grains, and fruits.",
	"Stay physically active for at least thirty minutes most days.",
}

// specificRule appends a targeted recommendation when a category crosses a
// threshold.
type specificRule struct {
	category interpret.Category
	applies  func(v float64) bool
	sentence string
}

var specificRules = []specificRule{
	{interpret.CategoryGlucose, func(v float64) bool { return v > 140 },
		"Limit sweets, sugary drinks, and refined flour to help bring your blood sugar down."},
	{interpret.CategoryCholesterol, func(v float64) bool { return v > 200 },
		"Cut back on fried and oily food to improve your cholesterol."},
	{interpret.CategoryHemoglobin, func(v float64) bool { return v < 12 },
		"Add iron-rich foods such as spinach, lentils, and dates to raise your hemoglobin."},
}

const maxSpecificRecommendations = 3

// Synthesize derives risks, implications, and recommendations from the
// interpreted results. Observations whose values cannot be parsed are
// skipped silently.
func Synthesize(observations []models.RawObservation, interpretations []models.Interpretation) models.Synthesis {
	return SynthesizeWithCap(observations, interpretations, DefaultRecommendationCap)
}

// SynthesizeWithCap is Synthesize with an explicit recommendation cap.
func SynthesizeWithCap(observations []models.RawObservation, interpretations []models.Interpretation, limit int) models.Synthesis {
	agg := models.Aggregate(interpretations)

	return models.Synthesis{
		Risks:           riskFactors(observations),
		Implications:    []string{implicationByBucket[BucketFor(agg)]},
		Recommendations: recommendations(observations, agg, limit),
	}
}

func riskFactors(observations []models.RawObservation) []string {
	risks := []string{}
	for _, obs := range observations {
		value, ok := interpret.NumericValue(obs)
		if !ok {
			continue
		}
		category := interpret.Classify(obs.Name)
		for _, rule := range riskRules {
			if rule.category == category && rule.applies(value) {
				risks = append(risks, rule.sentence)
				break
			}
		}
	}
	return risks
}

func recommendations(observations []models.RawObservation, agg models.AggregateCounts, limit int) []string {
	var recs []string
	if agg.ConcerningCount > 0 {
		recs = append(recs, baseRecommendationsConcerning...)
	} else {
		recs = append(recs, baseRecommendationsNormal...)
	}

	added := 0
	seen := map[interpret.Category]bool{}
	for _, obs := range observations {
		if added >= maxSpecificRecommendations {
			break
		}
		value, ok := interpret.NumericValue(obs)
		if !ok {
			continue
		}
		category := interpret.Classify(obs.Name)
		if seen[category] {
			continue
		}
		for _, rule := range specificRules {
			if rule.category == category && rule.applies(value) {
				recs = append(recs, rule.sentence)
				seen[category] = true
				added++
				break
			}
		}
	}

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// Bucket is the coarse four-way classification of how concerning a report is
// overall. It keys both the implication paragraph and the composer's
// overall-status sentence.
type Bucket int

const (
	BucketAllNormal Bucket = iota
	BucketOneConcern
	BucketSomeConcern
	BucketMostlyConcern
)

// BucketFor classifies aggregate counts: zero concerns, exactly one, at most
// half of all results, or more than half.
func BucketFor(agg models.AggregateCounts) Bucket {
	switch {
	case agg.ConcerningCount == 0:
		return BucketAllNormal
	case agg.ConcerningCount == 1:
		return BucketOneConcern
	case agg.Total > 0 && agg.ConcerningCount*2 <= agg.Total:
		return BucketSomeConcern
	default:
		return BucketMostlyConcern
	}
}
