// Package extract turns raw OCR text into structured test observations and
// patient metadata using an ordered set of pattern matchers.
//
// The matchers are deliberately permissive: OCR output from phone photos of
// printed reports is noisy, with inconsistent spacing and garbled tokens.
// Specific patterns (glucose, blood pressure) run before the generic
// "name: number unit" fallbacks, and every non-overlapping match from every
// pattern is kept. Overlapping patterns can therefore report the same
// physical value more than once; callers must not assume de-duplication.
package extract

import (
	"regexp"
	"strings"

	"github.com/intriguedcoder/medical-report-agent/pkg/models"
)

// minNameLength is the shortest candidate test name accepted.
const minNameLength = 3

// denylist filters out matches whose name is clearly not a medical test.
var denylist = []string{"page", "date", "time", "phone", "address"}

// observationPattern pairs a compiled regex with the capture-group layout of
// its matches. Every pattern captures (name, value, optional unit).
type observationPattern struct {
	re *regexp.Regexp
}

// Patterns are applied in declared order: dedicated matchers for tests with
// well-known shapes first, generic label/value fallbacks last.
var observationPatterns = []observationPattern{
	// Dedicated glucose matcher: tolerates "blood sugar", "FBS" and similar
	// labels that the generic patterns mangle.
	{re: regexp.MustCompile(`(?i)\b(glucose|blood sugar|fasting sugar|fbs|rbs)\s*[:=]?\s*([0-9]+(?:\.[0-9]+)?)\s*(mg/dl|mmol/l|mg%)?`)},
	// Blood pressure readings keep their systolic/diastolic ratio form.
	{re: regexp.MustCompile(`(?i)\b(blood pressure|b\.?p\.?)\s*[:=]?\s*([0-9]{2,3}\s*/\s*[0-9]{2,3})\s*(mmhg)?`)},
	// Generic "name: value unit".
	{re: regexp.MustCompile(`(?i)([a-z][a-z .()-]{1,40}?)\s*:\s*([0-9]+(?:\.[0-9]+)?)\s*([a-z/%µμ]+[a-z0-9/%µμ.]*)?`)},
	// Generic "name = value unit".
	{re: regexp.MustCompile(`(?i)([a-z][a-z .()-]{1,40}?)\s*=\s*([0-9]+(?:\.[0-9]+)?)\s*([a-z/%µμ]+[a-z0-9/%µμ.]*)?`)},
	// Generic "name value unit" with no separator at all.
	{re: regexp.MustCompile(`(?i)\b([a-z][a-z]{2,20})\s+([0-9]+(?:\.[0-9]+)?)\s*([a-z/%µμ]+[a-z0-9/%µμ.]*)?`)},
}

// patientPatterns extract the optional patient fields. First match in the
// text wins per field; unmatched fields stay empty.
var patientPatterns = []struct {
	field string
	re    *regexp.Regexp
}{
	{"name", regexp.MustCompile(`(?i)\bname\s*[:=]\s*([^\n:]+)`)},
	{"age", regexp.MustCompile(`(?i)\bage\s*[:=]\s*([0-9]{1,3})`)},
	{"gender", regexp.MustCompile(`(?i)\b(?:gender|sex)\s*[:=]\s*([a-zA-Z]+)`)},
	{"date", regexp.MustCompile(`(?i)\bdate\s*[:=]\s*([0-9]{1,2}[-/.][0-9]{1,2}[-/.][0-9]{2,4})`)},
}

// Extract scans raw OCR text and returns every candidate observation along
// with whatever patient metadata the label patterns recognize. It never
// fails: unusable matches are skipped and an empty result is valid.
func Extract(rawText string) *models.StructuredData {
	data := &models.StructuredData{
		Observations: []models.RawObservation{},
	}
	if strings.TrimSpace(rawText) == "" {
		return data
	}

	for _, p := range observationPatterns {
		for _, m := range p.re.FindAllStringSubmatch(rawText, -1) {
			if len(m) < 3 {
				continue
			}
			name := strings.TrimSpace(m[1])
			value := strings.ReplaceAll(strings.TrimSpace(m[2]), " ", "")
			unit := ""
			if len(m) > 3 {
				unit = strings.TrimSpace(m[3])
			}
			if !acceptableName(name) || value == "" {
				continue
			}
			data.Observations = append(data.Observations, models.RawObservation{
				Name:     name,
				Value:    value,
				Unit:     unit,
				RawMatch: strings.TrimSpace(m[0]),
			})
		}
	}

	data.PatientInfo = extractPatientInfo(rawText)
	return data
}

// acceptableName drops candidate names that are too short to be a test label
// or that contain a denylisted token (page headers, dates, contact lines).
func acceptableName(name string) bool {
	if len(name) < minNameLength {
		return false
	}
	lower := strings.ToLower(name)
	for _, banned := range denylist {
		if strings.Contains(lower, banned) {
			return false
		}
	}
	return true
}

func extractPatientInfo(text string) models.PatientInfo {
	var info models.PatientInfo
	for _, p := range patientPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if value == "" {
			continue
		}
		switch p.field {
		case "name":
			if info.Name == "" {
				info.Name = value
			}
		case "age":
			if info.Age == "" {
				info.Age = value
			}
		case "gender":
			if info.Gender == "" {
				info.Gender = value
			}
		case "date":
			if info.Date == "" {
				info.Date = value
			}
		}
	}
	return info
}
