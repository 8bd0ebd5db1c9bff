package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObservations(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantName  string
		wantValue string
		wantUnit  string
	}{
		{
			name:      "glucose with colon and unit",
			text:      "Glucose: 110 mg/dL",
			wantName:  "Glucose",
			wantValue: "110",
			wantUnit:  "mg/dL",
		},
		{
			name:      "blood sugar label",
			text:      "Blood Sugar 95 mg/dl",
			wantName:  "Blood Sugar",
			wantValue: "95",
			wantUnit:  "mg/dl",
		},
		{
			name:      "fbs abbreviation",
			text:      "FBS: 126",
			wantName:  "FBS",
			wantValue: "126",
		},
		{
			name:      "blood pressure keeps ratio form",
			text:      "Blood Pressure: 130/85 mmHg",
			wantName:  "Blood Pressure",
			wantValue: "130/85",
			wantUnit:  "mmHg",
		},
		{
			name:      "equals separator",
			text:      "Creatinine = 1.1 mg/dL",
			wantName:  "Creatinine",
			wantValue: "1.1",
			wantUnit:  "mg/dL",
		},
		{
			name:      "decimal value without unit",
			text:      "TSH: 2.5",
			wantName:  "TSH",
			wantValue: "2.5",
		},
		{
			name:      "no separator",
			text:      "Hemoglobin 13.5 g/dL",
			wantName:  "Hemoglobin",
			wantValue: "13.5",
			wantUnit:  "g/dL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Extract(tt.text)
			require.NotEmpty(t, data.Observations)

			obs := data.Observations[0]
			assert.Equal(t, tt.wantName, obs.Name)
			assert.Equal(t, tt.wantValue, obs.Value)
			assert.Equal(t, tt.wantUnit, obs.Unit)
			assert.NotEmpty(t, obs.RawMatch)
		})
	}
}

func TestExtractEmptyAndUnusableText(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty string", text: ""},
		{name: "whitespace only", text: "  \n\t  "},
		{name: "prose without values", text: "The patient was advised to rest and drink fluids."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Extract(tt.text)
			require.NotNil(t, data)
			assert.Empty(t, data.Observations)
		})
	}
}

func TestExtractDenylistedNames(t *testing.T) {
	data := Extract("Page: 2\nDate: 3\nPhone: 9876543210\nGlucose: 110 mg/dL")

	require.NotEmpty(t, data.Observations)
	for _, obs := range data.Observations {
		assert.NotContains(t, []string{"Page", "Date", "Phone"}, obs.Name)
	}
	assert.Equal(t, "Glucose", data.Observations[0].Name)
}

func TestExtractShortNamesRejected(t *testing.T) {
	data := Extract("Hb: 13.0 g/dL")
	assert.Empty(t, data.Observations, "two-letter names are below the minimum length")
}

func TestExtractMultipleResults(t *testing.T) {
	text := "Glucose: 180 mg/dL\nCholesterol: 210 mg/dL\nHemoglobin: 11 g/dL"
	data := Extract(text)

	names := map[string]bool{}
	for _, obs := range data.Observations {
		names[obs.Name] = true
	}
	assert.True(t, names["Glucose"])
	assert.True(t, names["Cholesterol"])
	assert.True(t, names["Hemoglobin"])
}

func TestExtractKeepsOverlappingMatches(t *testing.T) {
	// The dedicated glucose pattern and the generic colon pattern both match
	// this line; both matches are kept.
	data := Extract("Glucose: 110 mg/dL")
	assert.GreaterOrEqual(t, len(data.Observations), 2)
}

func TestExtractPatientInfo(t *testing.T) {
	text := `Name: Ramesh Kumar
Age: 45
Gender: Male
Date: 12/03/2025
Glucose: 110 mg/dL`

	data := Extract(text)

	assert.Equal(t, "Ramesh Kumar", data.PatientInfo.Name)
	assert.Equal(t, "45", data.PatientInfo.Age)
	assert.Equal(t, "Male", data.PatientInfo.Gender)
	assert.Equal(t, "12/03/2025", data.PatientInfo.Date)
}

func TestExtractPatientInfoMissingFields(t *testing.T) {
	data := Extract("Glucose: 110 mg/dL")

	assert.Empty(t, data.PatientInfo.Name)
	assert.Empty(t, data.PatientInfo.Age)
	assert.Empty(t, data.PatientInfo.Gender)
	assert.Empty(t, data.PatientInfo.Date)
}

func TestExtractDeterministic(t *testing.T) {
	text := "Glucose: 180 mg/dL\nBlood Pressure: 150/95 mmHg"
	first := Extract(text)
	second := Extract(text)
	assert.Equal(t, first, second)
}
