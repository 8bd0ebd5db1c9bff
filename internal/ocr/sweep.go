package ocr

import (
	"bytes"
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/intriguedcoder/medical-report-agent/internal/logger"
)

// scoreKeywords are tokens expected in lab reports. Each hit adds a fixed
// bonus on top of the digit-density score.
var scoreKeywords = []string{
	"glucose", "sugar", "cholesterol", "hemoglobin", "haemoglobin",
	"blood", "pressure", "creatinine", "tsh", "thyroid", "hba1c",
	"vitamin", "mg/dl", "g/dl", "mmhg", "test", "result", "report",
	"patient", "normal", "range",
}

const keywordBonus = 10.0

// Score rates OCR text for how much usable lab-report content it appears to
// contain. Higher is better. The score combines digit density (lab values
// are numbers) with medical keyword hits, so a long page of garbled prose
// does not outrank a short but clean results table.
func Score(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	digits := 0
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits++
		}
	}

	lower := strings.ToLower(trimmed)
	score := float64(digits)
	for _, kw := range scoreKeywords {
		score += keywordBonus * float64(strings.Count(lower, kw))
	}
	return score
}

// Sweep runs every engine over the same image and returns the result whose
// text scores best. Individual engine failures are logged and skipped; Sweep
// fails only when every engine fails or the winning text is empty.
func Sweep(ctx context.Context, engines []Engine, image []byte) (*Result, error) {
	const op = "Sweep"

	if len(engines) == 0 {
		return nil, NewOCRError(op, ErrOCRFailed, "no engines configured")
	}

	log := logger.WithComponent("ocr-sweep")

	var best *Result
	var bestScore float64
	var lastErr error

	for _, engine := range engines {
		if ctx.Err() != nil {
			return nil, WrapOCRError(op, ErrContextCanceled, "sweep canceled")
		}

		result, err := engine.ExtractText(ctx, bytes.NewReader(image))
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Str("engine", engine.Name()).Msg("OCR pass failed, trying next engine")
			continue
		}

		score := Score(result.Text)
		logPass(log, engine.Name(), score, result)
		if best == nil || score > bestScore {
			best = result
			bestScore = score
		}
	}

	if best == nil {
		return nil, WrapOCRError(op, lastErr, "all OCR engines failed")
	}
	if strings.TrimSpace(best.Text) == "" {
		return nil, NewOCRError(op, ErrEmptyDocument, "best pass produced no text")
	}

	log.Info().Str("engine", best.Engine).Float64("score", bestScore).Msg("OCR sweep complete")
	return best, nil
}

func logPass(log zerolog.Logger, engine string, score float64, result *Result) {
	log.Debug().
		Str("engine", engine).
		Float64("score", score).
		Int("text_length", len(result.Text)).
		Dur("duration", result.ProcessingDuration).
		Msg("OCR pass scored")
}

// DefaultEngines builds the standard sweep order: Vision with no hints,
// Vision hinted for Hindi and English, then Document AI when configured.
// Engines that fail to initialize are skipped; an error is returned only
// when none can be built.
func DefaultEngines(ctx context.Context) ([]Engine, error) {
	const op = "DefaultEngines"

	var engines []Engine

	visionEngine, err := NewGoogleVisionEngine(ctx)
	if err == nil {
		engines = append(engines,
			visionEngine,
			visionEngine.WithLanguageHints("hi", "en"),
		)
	}

	docaiEngine, docErr := NewDocumentAIEngine(ctx)
	if docErr == nil {
		engines = append(engines, docaiEngine)
	}

	if len(engines) == 0 {
		if err == nil {
			err = docErr
		}
		return nil, WrapOCRError(op, err, "no OCR engines available")
	}
	return engines, nil
}
