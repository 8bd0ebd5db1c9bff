package synthesize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intriguedcoder/medical-report-agent/internal/interpret"
	"github.com/intriguedcoder/medical-report-agent/pkg/models"
)

func TestRiskFactorsStrongestRuleWins(t *testing.T) {
	tests := []struct {
		name    string
		obs     models.RawObservation
		want    string
		noRisks bool
	}{
		{
			name: "very high glucose fires the severe sentence only",
			obs:  models.RawObservation{Name: "Glucose", Value: "250"},
			want: "Very high blood sugar",
		},
		{
			name: "moderately high glucose fires the milder sentence",
			obs:  models.RawObservation{Name: "Glucose", Value: "160"},
			want: "Elevated blood sugar",
		},
		{
			name:    "normal glucose fires nothing",
			obs:     models.RawObservation{Name: "Glucose", Value: "100"},
			noRisks: true,
		},
		{
			name: "blood pressure uses the systolic component",
			obs:  models.RawObservation{Name: "Blood Pressure", Value: "190/110"},
			want: "urgent medical care",
		},
		{
			name: "severely low hemoglobin",
			obs:  models.RawObservation{Name: "Hemoglobin", Value: "9.1"},
			want: "Severely low hemoglobin",
		},
		{
			name: "low tsh",
			obs:  models.RawObservation{Name: "TSH", Value: "0.05"},
			want: "overactive thyroid",
		},
		{
			name:    "unparseable value is skipped",
			obs:     models.RawObservation{Name: "Glucose", Value: "very high"},
			noRisks: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risks := riskFactors([]models.RawObservation{tt.obs})
			if tt.noRisks {
				assert.Empty(t, risks)
				return
			}
			require.Len(t, risks, 1)
			assert.Contains(t, risks[0], tt.want)
		})
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		name       string
		concerning int
		total      int
		want       Bucket
	}{
		{"no results", 0, 0, BucketAllNormal},
		{"all normal", 0, 5, BucketAllNormal},
		{"one concern", 1, 5, BucketOneConcern},
		{"half concerning", 2, 4, BucketSomeConcern},
		{"under half concerning", 2, 5, BucketSomeConcern},
		{"over half concerning", 3, 5, BucketMostlyConcern},
		{"everything concerning", 4, 4, BucketMostlyConcern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := models.AggregateCounts{ConcerningCount: tt.concerning, Total: tt.total}
			assert.Equal(t, tt.want, BucketFor(agg))
		})
	}
}

func TestSynthesizeAllNormal(t *testing.T) {
	obs := []models.RawObservation{
		{Name: "Glucose", Value: "100"},
		{Name: "Cholesterol", Value: "180"},
	}
	ins := []models.Interpretation{
		{Status: models.StatusGood},
		{Status: models.StatusGood},
	}

	syn := Synthesize(obs, ins)

	assert.Empty(t, syn.Risks)
	require.Len(t, syn.Implications, 1)
	assert.Contains(t, syn.Implications[0], "normal ranges")
	require.NotEmpty(t, syn.Recommendations)
	assert.Contains(t, syn.Recommendations[0], "healthy habits")
}

func TestSynthesizeConcerningLeadsWithDoctorVisit(t *testing.T) {
	obs := []models.RawObservation{
		{Name: "Glucose", Value: "180"},
		{Name: "Cholesterol", Value: "250"},
	}
	ins := []models.Interpretation{
		{Status: models.StatusALittleHigh},
		{Status: models.StatusNeedsAttention},
	}

	syn := Synthesize(obs, ins)

	assert.Len(t, syn.Risks, 2)
	require.NotEmpty(t, syn.Recommendations)
	assert.Contains(t, syn.Recommendations[0], "Consult a doctor")
}

func TestSynthesizeRecommendationCap(t *testing.T) {
	obs := []models.RawObservation{
		{Name: "Glucose", Value: "180"},
		{Name: "Cholesterol", Value: "250"},
		{Name: "Hemoglobin", Value: "10.5"},
	}
	ins := []models.Interpretation{
		{Status: models.StatusALittleHigh},
		{Status: models.StatusNeedsAttention},
		{Status: models.StatusALittleLow},
	}

	full := SynthesizeWithCap(obs, ins, DefaultRecommendationCap)
	assert.LessOrEqual(t, len(full.Recommendations), DefaultRecommendationCap)

	short := SynthesizeWithCap(obs, ins, SummaryRecommendationCap)
	assert.Len(t, short.Recommendations, SummaryRecommendationCap)
}

func TestSynthesizeSpecificRecommendationsOncePerCategory(t *testing.T) {
	// Overlapping extraction can report the same glucose value twice; the
	// targeted dietary advice still appears only once.
	obs := []models.RawObservation{
		{Name: "Glucose", Value: "180"},
		{Name: "Blood Sugar", Value: "180"},
	}
	ins := []models.Interpretation{
		{Status: models.StatusALittleHigh},
		{Status: models.StatusALittleHigh},
	}

	syn := Synthesize(obs, ins)

	count := 0
	for _, rec := range syn.Recommendations {
		if rec == specificRules[0].sentence {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSynthesizeDeterministic(t *testing.T) {
	obs := []models.RawObservation{
		{Name: "Glucose", Value: "180"},
		{Name: "Hemoglobin", Value: "11"},
	}
	ins := []models.Interpretation{
		{Status: models.StatusALittleHigh},
		{Status: models.StatusALittleLow},
	}

	assert.Equal(t, Synthesize(obs, ins), Synthesize(obs, ins))
}

func TestSynthesizeEmptyInput(t *testing.T) {
	syn := Synthesize(nil, nil)

	assert.Empty(t, syn.Risks)
	require.Len(t, syn.Implications, 1)
	assert.NotEmpty(t, syn.Recommendations)
}

func TestRiskRulesCoverClassifiedCategories(t *testing.T) {
	for _, rule := range riskRules {
		assert.NotEqual(t, interpret.CategoryUnrecognized, rule.category)
		assert.NotEmpty(t, rule.sentence)
	}
}
