package translate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intriguedcoder/medical-report-agent/internal/sarvam"
	"github.com/intriguedcoder/medical-report-agent/pkg/models"
)

// fakeVendor translates by wrapping each chunk, or fails every call.
type fakeVendor struct {
	fail  bool
	calls []string
}

func (f *fakeVendor) Translate(ctx context.Context, text, sourceLang, targetLang string) (*sarvam.TranslateResult, error) {
	f.calls = append(f.calls, text)
	if f.fail {
		return nil, errors.New("vendor down")
	}
	return &sarvam.TranslateResult{
		TranslatedText:     "[" + targetLang + "]" + text,
		SourceLanguageCode: sourceLang,
		TargetLanguageCode: targetLang,
	}, nil
}

func TestTranslateText(t *testing.T) {
	vendor := &fakeVendor{}
	tr := NewSarvamTranslatorWithClient(vendor)

	res := tr.TranslateText(context.Background(), "Hello", "en-IN", "hi-IN")

	assert.Equal(t, "[hi-IN]Hello", res.Text)
	assert.False(t, res.Skipped)
	assert.False(t, res.FallbackUsed)
}

func TestTranslateTextSameLanguageSkips(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
	}{
		{name: "identical codes", source: "hi-IN", target: "hi-IN"},
		{name: "bare code matches regioned code", source: "hi", target: "hi-IN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vendor := &fakeVendor{}
			tr := NewSarvamTranslatorWithClient(vendor)

			res := tr.TranslateText(context.Background(), "Hello", tt.source, tt.target)

			assert.True(t, res.Skipped)
			assert.Equal(t, "Hello", res.Text)
			assert.Empty(t, vendor.calls, "vendor must not be called for a same-language request")
		})
	}
}

func TestTranslateTextFallsBackOnFailure(t *testing.T) {
	vendor := &fakeVendor{fail: true}
	tr := NewSarvamTranslatorWithClient(vendor)

	res := tr.TranslateText(context.Background(), "Hello world", "en-IN", "ta-IN")

	assert.True(t, res.FallbackUsed)
	assert.Equal(t, "Hello world", res.Text, "original text must survive vendor failure")
}

func TestTranslateTextChunksLongInput(t *testing.T) {
	vendor := &fakeVendor{}
	tr := NewSarvamTranslatorWithClient(vendor)

	sentence := "This sentence repeats to build a long report body. "
	long := strings.Repeat(sentence, 40) // ~2000 chars

	res := tr.TranslateText(context.Background(), long, "en-IN", "hi-IN")

	require.Greater(t, len(vendor.calls), 1, "long text must be split across calls")
	for _, call := range vendor.calls {
		assert.LessOrEqual(t, len(call), maxChunkChars)
	}
	assert.False(t, res.FallbackUsed)
	assert.Contains(t, res.Text, "[hi-IN]")
}

func TestTranslateTextChunksDoNotSplitRunes(t *testing.T) {
	vendor := &fakeVendor{}
	tr := NewSarvamTranslatorWithClient(vendor)

	// Devanagari with no spaces forces the hard-cut fallback; every chunk
	// must still land on a character boundary.
	long := strings.Repeat("क", 2500)

	res := tr.TranslateText(context.Background(), long, "hi-IN", "ta-IN")

	require.Greater(t, len(vendor.calls), 1)
	total := 0
	for _, call := range vendor.calls {
		assert.True(t, utf8.ValidString(call), "chunk must not split a multibyte character")
		assert.LessOrEqual(t, utf8.RuneCountInString(call), maxChunkChars)
		total += utf8.RuneCountInString(call)
	}
	assert.Equal(t, 2500, total, "no characters may be lost to chunking")
	assert.False(t, res.FallbackUsed)
}

func TestTranslateAnalysis(t *testing.T) {
	vendor := &fakeVendor{}
	tr := NewSarvamTranslatorWithClient(vendor)

	in := &models.AnalysisResult{
		Success:               true,
		ComprehensiveAnalysis: "Full text.",
		Summary:               "Short text.",
		AudioSummary:          "Audio text.",
		Recommendations:       []string{"Walk daily.", "Eat well."},
		RiskAssessment:        "Some risk.",
		FollowUpActions:       "See a doctor.",
		NormalCount:           2,
		Language:              "en-IN",
	}

	out, fallback := tr.TranslateAnalysis(context.Background(), in, "en-IN", "hi-IN")

	assert.False(t, fallback)
	assert.Equal(t, "hi-IN", out.Language)
	assert.Equal(t, "[hi-IN]Full text.", out.ComprehensiveAnalysis)
	assert.Equal(t, "[hi-IN]Walk daily.", out.Recommendations[0])
	assert.Equal(t, 2, out.NormalCount, "structured fields must not change")

	// Input must be untouched.
	assert.Equal(t, "Full text.", in.ComprehensiveAnalysis)
	assert.Equal(t, "en-IN", in.Language)
}

func TestTranslateAnalysisSameLanguage(t *testing.T) {
	vendor := &fakeVendor{}
	tr := NewSarvamTranslatorWithClient(vendor)

	in := &models.AnalysisResult{Summary: "Short text.", Language: "en-IN"}
	out, fallback := tr.TranslateAnalysis(context.Background(), in, "en", "en-IN")

	assert.False(t, fallback)
	assert.Equal(t, "Short text.", out.Summary)
	assert.Empty(t, vendor.calls)
}

func TestTranslateAnalysisFallback(t *testing.T) {
	vendor := &fakeVendor{fail: true}
	tr := NewSarvamTranslatorWithClient(vendor)

	in := &models.AnalysisResult{Summary: "Short text.", Language: "en-IN"}
	out, fallback := tr.TranslateAnalysis(context.Background(), in, "en-IN", "hi-IN")

	assert.True(t, fallback)
	assert.True(t, out.FallbackUsed)
	assert.Equal(t, "Short text.", out.Summary)
}

func TestNormalizeLanguageCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hi", "hi-IN"},
		{"hi-IN", "hi-IN"},
		{"ta", "ta-IN"},
		{"fr", "fr"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeLanguageCode(tt.in))
	}
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Hindi", LanguageName("hi-IN"))
	assert.Equal(t, "Tamil", LanguageName("ta"))
	assert.Equal(t, "xx-YY", LanguageName("xx-YY"))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("hi-IN"))
	assert.True(t, Supported("bn"))
	assert.False(t, Supported("fr-FR"))
}
