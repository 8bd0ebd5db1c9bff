// Package translate localizes composed report text into Indian languages via
// the Sarvam translation API.
//
// Translation is best-effort: when the vendor call fails, the untranslated
// text is returned and flagged so the pipeline can carry on. A request where
// source and target languages match is a successful no-op.
package translate

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/intriguedcoder/medical-report-agent/internal/logger"
	"github.com/intriguedcoder/medical-report-agent/internal/sarvam"
	"github.com/intriguedcoder/medical-report-agent/pkg/models"
)

// maxChunkChars keeps each vendor call under the translation input limit.
// Long analyses are split at sentence boundaries into chunks of at most this
// size and translated one by one.
const maxChunkChars = 900

// Translator converts text between supported languages.
type Translator interface {
	TranslateText(ctx context.Context, text, sourceLang, targetLang string) *Result
}

// Result is the outcome of one translation. Translation never hard-fails:
// Text always holds usable output, falling back to the input when the vendor
// is unavailable.
type Result struct {
	Text         string
	SourceLang   string
	TargetLang   string
	Skipped      bool
	FallbackUsed bool
}

// vendorClient is the part of the sarvam client the translator uses.
type vendorClient interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (*sarvam.TranslateResult, error)
}

// SarvamTranslator implements Translator over the Sarvam API.
type SarvamTranslator struct {
	client vendorClient
	log    zerolog.Logger
}

// NewSarvamTranslator creates a translator backed by the given client.
func NewSarvamTranslator(client *sarvam.Client) *SarvamTranslator {
	return NewSarvamTranslatorWithClient(client)
}

// NewSarvamTranslatorWithClient accepts any vendor client implementation (for testing).
func NewSarvamTranslatorWithClient(client vendorClient) *SarvamTranslator {
	return &SarvamTranslator{
		client: client,
		log:    logger.WithComponent("translate"),
	}
}

// TranslateText translates text from sourceLang to targetLang. Matching
// languages (after normalization) skip the vendor call. Vendor failures fall
// back to the original text with FallbackUsed set.
func (t *SarvamTranslator) TranslateText(ctx context.Context, text, sourceLang, targetLang string) *Result {
	sourceLang = NormalizeLanguageCode(sourceLang)
	targetLang = NormalizeLanguageCode(targetLang)

	result := &Result{
		Text:       text,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	}

	if strings.TrimSpace(text) == "" {
		result.Skipped = true
		return result
	}
	if sourceLang == targetLang {
		t.log.Debug().Str("lang", sourceLang).Msg("source and target languages match, skipping translation")
		result.Skipped = true
		return result
	}

	var translated []string
	for _, chunk := range splitChunks(text, maxChunkChars) {
		res, err := t.client.Translate(ctx, chunk, sourceLang, targetLang)
		if err != nil {
			t.log.Warn().Err(err).
				Str("source", sourceLang).
				Str("target", targetLang).
				Msg("translation failed, keeping original text")
			result.FallbackUsed = true
			return result
		}
		translated = append(translated, res.TranslatedText)
	}

	result.Text = strings.Join(translated, " ")
	return result
}

// TranslateAnalysis localizes the prose fields of an analysis in place on a
// copy, leaving structured data untouched. Per-field failures keep the
// original field text; FallbackUsed reports whether any field fell back.
func (t *SarvamTranslator) TranslateAnalysis(ctx context.Context, analysis *models.AnalysisResult, sourceLang, targetLang string) (*models.AnalysisResult, bool) {
	if analysis == nil {
		return nil, false
	}
	sourceLang = NormalizeLanguageCode(sourceLang)
	targetLang = NormalizeLanguageCode(targetLang)

	out := *analysis
	if sourceLang == targetLang {
		out.Language = targetLang
		return &out, false
	}

	fallback := false
	localize := func(text string) string {
		if strings.TrimSpace(text) == "" {
			return text
		}
		res := t.TranslateText(ctx, text, sourceLang, targetLang)
		if res.FallbackUsed {
			fallback = true
		}
		return res.Text
	}

	out.ComprehensiveAnalysis = localize(analysis.ComprehensiveAnalysis)
	out.Summary = localize(analysis.Summary)
	out.AudioSummary = localize(analysis.AudioSummary)
	out.RiskAssessment = localize(analysis.RiskAssessment)
	out.FollowUpActions = localize(analysis.FollowUpActions)

	out.Recommendations = make([]string, len(analysis.Recommendations))
	for i, rec := range analysis.Recommendations {
		out.Recommendations[i] = localize(rec)
	}

	out.Language = targetLang
	out.FallbackUsed = analysis.FallbackUsed || fallback
	return &out, fallback
}

// splitChunks breaks text into pieces of at most limit characters, preferring
// sentence boundaries, then word boundaries, then hard cuts. Windows are
// sliced by rune so a hard cut never splits a multibyte character.
func splitChunks(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	remaining := text
	for utf8.RuneCountInString(remaining) > limit {
		window := string([]rune(remaining)[:limit])

		cut := -1
		for _, end := range []string{". ", "! ", "? ", "।", "\n"} {
			if idx := strings.LastIndex(window, end); idx > cut {
				cut = idx + len(end) - 1
			}
		}
		if cut <= 0 {
			if idx := strings.LastIndex(window, " "); idx > 0 {
				cut = idx
			} else {
				cut = len(window) - 1
			}
		}

		chunks = append(chunks, strings.TrimSpace(remaining[:cut+1]))
		remaining = strings.TrimSpace(remaining[cut+1:])
	}
	if remaining != "" {
		chunks = append(chunks, remaining)
	}
	return chunks
}
