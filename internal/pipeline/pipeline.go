// Package pipeline wires the full report flow: OCR, extraction,
// interpretation, synthesis, composition, optional AI narrative,
// translation, and speech.
//
// Only the OCR stage is fatal. Every stage after it degrades gracefully: AI
// falls back to the rule-based result, translation falls back to English
// text, and speech falls back to a text-only response.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/intriguedcoder/medical-report-agent/internal/analysis"
	"github.com/intriguedcoder/medical-report-agent/internal/extract"
	"github.com/intriguedcoder/medical-report-agent/internal/interpret"
	"github.com/intriguedcoder/medical-report-agent/internal/langdetect"
	"github.com/intriguedcoder/medical-report-agent/internal/logger"
	"github.com/intriguedcoder/medical-report-agent/internal/ocr"
	"github.com/intriguedcoder/medical-report-agent/internal/report"
	"github.com/intriguedcoder/medical-report-agent/internal/speech"
	"github.com/intriguedcoder/medical-report-agent/internal/synthesize"
	"github.com/intriguedcoder/medical-report-agent/internal/translate"
	"github.com/intriguedcoder/medical-report-agent/pkg/models"
)

// composeLanguage is the language the deterministic composer writes in;
// other languages are reached by translation.
const composeLanguage = "en-IN"

// OCRFunc extracts text from image bytes.
type OCRFunc func(ctx context.Context, image []byte) (*ocr.Result, error)

// NarrativeFunc generates the optional AI narrative.
type NarrativeFunc func(ctx context.Context, medicalText, language string) (*analysis.Narrative, error)

// Options controls one analysis run.
type Options struct {
	// UserLanguage is the language of the textual response. Defaults to
	// the report's detected language.
	UserLanguage string

	// AudioLanguage is the language of the spoken summary. Defaults to
	// UserLanguage.
	AudioLanguage string

	// EnableAI turns the AI narrative stage on.
	EnableAI bool

	// SkipAudio turns speech synthesis off.
	SkipAudio bool

	// TTSCharLimit caps the audio summary length. Zero uses the vendor limit.
	TTSCharLimit int
}

// Outcome is the result of one pipeline run.
type Outcome struct {
	Analysis         *models.AnalysisResult
	OCRText          string
	DetectedLanguage string
	AudioPath        string
}

// Pipeline orchestrates the analysis stages. Optional collaborators may be
// nil; their stages are skipped.
type Pipeline struct {
	runOCR      OCRFunc
	narrative   NarrativeFunc
	translator  translate.Translator
	synthesizer speech.Synthesizer
	audioDir    string
	log         zerolog.Logger
}

// New creates a pipeline. runOCR is required; narrative, translator, and
// synthesizer are optional.
func New(runOCR OCRFunc, narrative NarrativeFunc, translator translate.Translator, synthesizer speech.Synthesizer, audioDir string) *Pipeline {
	return &Pipeline{
		runOCR:      runOCR,
		narrative:   narrative,
		translator:  translator,
		synthesizer: synthesizer,
		audioDir:    audioDir,
		log:         logger.WithComponent("pipeline"),
	}
}

// NewWithEngines creates a pipeline whose OCR stage sweeps the given engines.
func NewWithEngines(engines []ocr.Engine, narrative NarrativeFunc, translator translate.Translator, synthesizer speech.Synthesizer, audioDir string) *Pipeline {
	return New(func(ctx context.Context, image []byte) (*ocr.Result, error) {
		return ocr.Sweep(ctx, engines, image)
	}, narrative, translator, synthesizer, audioDir)
}

// AnalyzeImage runs the full flow over one report photo.
func (p *Pipeline) AnalyzeImage(ctx context.Context, image []byte, opts Options) (*Outcome, error) {
	const op = "AnalyzeImage"

	ocrResult, err := p.runOCR(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p.AnalyzeText(ctx, ocrResult.Text, opts)
}

// AnalyzeText runs every stage after OCR over already-extracted text.
func (p *Pipeline) AnalyzeText(ctx context.Context, text string, opts Options) (*Outcome, error) {
	detected := langdetect.Detect(text)

	userLang := translate.NormalizeLanguageCode(opts.UserLanguage)
	if userLang == "" {
		userLang = detected
	}
	audioLang := translate.NormalizeLanguageCode(opts.AudioLanguage)
	if audioLang == "" {
		audioLang = userLang
	}

	p.log.Info().
		Int("text_length", len(text)).
		Str("detected_language", detected).
		Str("user_language", userLang).
		Msg("analyzing report text")

	result := p.ruleBasedAnalysis(text, opts.TTSCharLimit)

	aiApplied := false
	if opts.EnableAI && p.narrative != nil {
		narrative, err := p.narrative(ctx, text, userLang)
		if err != nil {
			p.log.Warn().Err(err).Msg("AI narrative failed, keeping rule-based analysis")
			result.FallbackUsed = true
		} else {
			result = analysis.Combine(result, narrative)
			result.Language = userLang
			limit := opts.TTSCharLimit
			if limit <= 0 {
				limit = report.DefaultAudioCharLimit
			}
			result.AudioSummary = report.TruncateAtSentence(result.AudioSummary, limit)
			aiApplied = true
		}
	}

	// The AI narrative already speaks the user's language; only the
	// rule-based prose needs translating.
	if !aiApplied && p.translator != nil && userLang != composeLanguage {
		p.translateFields(ctx, result, userLang)
	}

	outcome := &Outcome{
		Analysis:         result,
		OCRText:          text,
		DetectedLanguage: detected,
	}

	if !opts.SkipAudio && p.synthesizer != nil {
		outcome.AudioPath = p.renderAudio(ctx, result, audioLang)
	}
	return outcome, nil
}

// ruleBasedAnalysis runs the deterministic core stages.
func (p *Pipeline) ruleBasedAnalysis(text string, ttsCharLimit int) *models.AnalysisResult {
	structured := extract.Extract(text)
	interpretations := interpret.InterpretAll(structured.Observations)
	syn := synthesize.Synthesize(structured.Observations, interpretations)

	return report.Compose(report.ComposeInput{
		Structured:      structured,
		Interpretations: interpretations,
		Synthesis:       syn,
		Language:        composeLanguage,
		AudioCharLimit:  ttsCharLimit,
	})
}

// translateFields localizes prose through a generic Translator.
func (p *Pipeline) translateFields(ctx context.Context, result *models.AnalysisResult, userLang string) {
	localize := func(text string) string {
		if strings.TrimSpace(text) == "" {
			return text
		}
		res := p.translator.TranslateText(ctx, text, composeLanguage, userLang)
		if res.FallbackUsed {
			result.FallbackUsed = true
		}
		return res.Text
	}

	result.ComprehensiveAnalysis = localize(result.ComprehensiveAnalysis)
	result.Summary = localize(result.Summary)
	result.AudioSummary = localize(result.AudioSummary)
	result.RiskAssessment = localize(result.RiskAssessment)
	result.FollowUpActions = localize(result.FollowUpActions)
	for i, rec := range result.Recommendations {
		result.Recommendations[i] = localize(rec)
	}
	result.Language = userLang
}

// renderAudio speaks the audio summary and saves it, returning the saved
// path or "" when speech is unavailable.
func (p *Pipeline) renderAudio(ctx context.Context, result *models.AnalysisResult, audioLang string) string {
	speechText := result.AudioSummary
	if strings.TrimSpace(speechText) == "" {
		speechText = result.Summary
	}
	if strings.TrimSpace(speechText) == "" {
		return ""
	}

	// Speak in the audio language even when it differs from the language the
	// result text ended up in.
	textLang := result.Language
	if audioLang != textLang && p.translator != nil {
		res := p.translator.TranslateText(ctx, speechText, textLang, audioLang)
		speechText = res.Text
	}

	audio, err := p.synthesizer.Synthesize(ctx, speechText, audioLang)
	if err != nil {
		p.log.Warn().Err(err).Str("language", audioLang).Msg("speech synthesis failed, returning text-only response")
		return ""
	}

	path, err := speech.SaveAudio(p.audioDir, audio)
	if err != nil {
		p.log.Warn().Err(err).Msg("saving audio failed, returning text-only response")
		return ""
	}
	return path
}
