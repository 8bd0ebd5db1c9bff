// Package models defines the shared data types produced and consumed by the
// medical report analysis pipeline.
package models

// Status is the qualitative interpretation of a single test value.
type Status string

const (
	StatusGood           Status = "good"
	StatusALittleHigh    Status = "a_little_high"
	StatusALittleLow     Status = "a_little_low"
	StatusNeedsAttention Status = "needs_attention"
	StatusUnknown        Status = "unknown"
)

// Concerning reports whether a status should count toward the concerning
// total. Unknown values count toward neither normal nor concerning.
func (s Status) Concerning() bool {
	return s == StatusALittleHigh || s == StatusALittleLow || s == StatusNeedsAttention
}

// RawObservation is one candidate test result found in OCR text by a pattern
// matcher. The value is kept as the matched string and is not yet validated
// as numeric; blood-pressure style readings keep their "120/80" form.
type RawObservation struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Unit     string `json:"unit,omitempty"`
	RawMatch string `json:"raw_match,omitempty"`
}

// PatientInfo holds the sparse patient fields recognized from label patterns.
// Unmatched fields stay empty.
type PatientInfo struct {
	Name   string `json:"name,omitempty"`
	Age    string `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
	Date   string `json:"date,omitempty"`
}

// StructuredData is the extractor output for one report.
type StructuredData struct {
	Observations []RawObservation `json:"test_results"`
	PatientInfo  PatientInfo      `json:"patient_info"`
}

// Interpretation is the per-observation result of applying the threshold
// tables. It is a pure function of the test's category and numeric value.
type Interpretation struct {
	Status            Status `json:"status"`
	HealthImplication string `json:"health_implication"`
	SimpleAdvice      string `json:"simple_advice,omitempty"`
}

// AggregateCounts summarizes a set of interpretations.
// NormalCount + ConcerningCount <= Total; unknown statuses count toward
// neither.
type AggregateCounts struct {
	NormalCount     int `json:"normal_count"`
	ConcerningCount int `json:"concerning_count"`
	Total           int `json:"total"`
}

// Aggregate folds interpretations into counts.
func Aggregate(interpretations []Interpretation) AggregateCounts {
	agg := AggregateCounts{Total: len(interpretations)}
	for _, in := range interpretations {
		switch {
		case in.Status == StatusGood:
			agg.NormalCount++
		case in.Status.Concerning():
			agg.ConcerningCount++
		}
	}
	return agg
}

// Synthesis carries the secondary narrative content derived from the full set
// of interpreted results.
type Synthesis struct {
	Risks           []string `json:"risks"`
	Implications    []string `json:"implications"`
	Recommendations []string `json:"recommendations"`
}

// AnalysisResult is the final output record for one analyzed report. It is
// built once per request and never mutated afterwards.
type AnalysisResult struct {
	Success               bool           `json:"success"`
	ComprehensiveAnalysis string         `json:"comprehensive_analysis"`
	Summary               string         `json:"summary"`
	AudioSummary          string         `json:"audio_summary"`
	Recommendations       []string       `json:"recommendations"`
	RiskAssessment        string         `json:"risk_assessment"`
	FollowUpActions       string         `json:"follow_up_actions"`
	StructuredData        StructuredData `json:"structured_data"`
	NormalCount           int            `json:"normal_count"`
	ConcerningCount       int            `json:"concerning_count"`
	Language              string         `json:"language"`
	AIGenerated           bool           `json:"ai_generated,omitempty"`
	FallbackUsed          bool           `json:"fallback_used,omitempty"`
}
