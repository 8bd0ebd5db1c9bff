package interpret

import "strings"

// Category is a coarse medical-test grouping used to select a threshold
// table.
type Category string

const (
	CategoryHbA1c         Category = "hba1c"
	CategoryGlucose       Category = "glucose"
	CategoryCholesterol   Category = "cholesterol"
	CategoryBloodPressure Category = "blood_pressure"
	CategoryHemoglobin    Category = "hemoglobin"
	CategoryCreatinine    Category = "creatinine"
	CategoryThyroid       Category = "thyroid"
	CategoryVitaminD      Category = "vitamin_d"
	CategoryUnrecognized  Category = "unrecognized"
)

// categoryRule maps name substrings to a category. Rules are evaluated in
// declared order and the first match wins, so specific categories must come
// before generic ones (HbA1c before glucose, TSH before anything containing
// a bare "t").
type categoryRule struct {
	substrings []string
	category   Category
}

var categoryRules = []categoryRule{
	{[]string{"hba1c", "hb a1c", "a1c", "glycated"}, CategoryHbA1c},
	{[]string{"glucose", "sugar", "fbs", "rbs"}, CategoryGlucose},
	{[]string{"cholesterol", "lipid"}, CategoryCholesterol},
	{[]string{"blood pressure", "b.p", "bp"}, CategoryBloodPressure},
	{[]string{"hemoglobin", "haemoglobin", "hgb"}, CategoryHemoglobin},
	{[]string{"creatinine"}, CategoryCreatinine},
	{[]string{"tsh", "thyroid"}, CategoryThyroid},
	{[]string{"vitamin d", "vit d", "vit. d", "25-oh"}, CategoryVitaminD},
}

// Classify infers the category of a test from its name via case-insensitive
// substring containment, in fixed priority order.
func Classify(name string) Category {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.category
			}
		}
	}
	return CategoryUnrecognized
}

// bodyPartRule gives a best-effort body-system label for tests we cannot
// interpret numerically, so the generic explanation still says something
// useful.
type bodyPartRule struct {
	substrings []string
	label      string
}

var bodyPartRules = []bodyPartRule{
	{[]string{"glucose", "sugar", "hba1c", "a1c"}, "blood sugar and energy system"},
	{[]string{"cholesterol", "lipid", "triglyceride"}, "heart and blood vessels"},
	{[]string{"blood pressure", "bp"}, "heart and blood vessels"},
	{[]string{"hemoglobin", "haemoglobin", "rbc", "wbc", "platelet"}, "blood and oxygen supply"},
	{[]string{"creatinine", "urea", "uric"}, "kidneys"},
	{[]string{"tsh", "thyroid", "t3", "t4"}, "thyroid and metabolism"},
	{[]string{"vitamin", "calcium", "iron"}, "bones and nutrition"},
	{[]string{"sgpt", "sgot", "alt", "ast", "bilirubin", "liver"}, "liver"},
}

// BodyPart returns the body-system label for a test name, defaulting to
// "body" when nothing matches.
func BodyPart(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range bodyPartRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.label
			}
		}
	}
	return "body"
}
