// Package speech renders the audio summary of an analysis through the Sarvam
// text-to-speech API, choosing a voice per language and saving the audio for
// the web layer to serve.
//
// Speech is optional output: any failure here degrades the response to
// text-only and never fails the pipeline.
package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/intriguedcoder/medical-report-agent/internal/logger"
	"github.com/intriguedcoder/medical-report-agent/internal/report"
	"github.com/intriguedcoder/medical-report-agent/internal/sarvam"
	"github.com/intriguedcoder/medical-report-agent/internal/translate"
)

// Fallback voice used when the primary language/speaker synthesis fails.
// Hindi with this speaker is the vendor's most reliable combination.
const (
	FallbackLanguage = "hi-IN"
	FallbackSpeaker  = "meera"
)

// fallbackCharLimit further trims text for the retry pass.
const fallbackCharLimit = 300

var (
	// ErrSynthesisFailed is returned when both the primary and fallback
	// synthesis attempts fail.
	ErrSynthesisFailed = errors.New("speech synthesis failed")

	// ErrEmptyText is returned when there is nothing to speak.
	ErrEmptyText = errors.New("no text to synthesize")
)

// voiceProfiles maps each supported language to its preferred speaker.
var voiceProfiles = map[string]string{
	"hi-IN": "meera",
	"en-IN": "arvind",
	"ta-IN": "diya",
	"te-IN": "pavithra",
	"kn-IN": "maya",
	"ml-IN": "vidya",
	"gu-IN": "manisha",
	"mr-IN": "anushka",
	"bn-IN": "abhilash",
	"or-IN": "arya",
	"pa-IN": "karun",
}

// allowedSpeakers is the full set of voices the vendor accepts.
var allowedSpeakers = map[string]bool{
	"meera": true, "pavithra": true, "maitreyi": true, "arvind": true,
	"amol": true, "amartya": true, "diya": true, "neel": true,
	"misha": true, "vian": true, "arjun": true, "maya": true,
	"anushka": true, "abhilash": true, "manisha": true, "vidya": true,
	"arya": true, "karun": true, "hitesh": true,
}

// SpeakerFor returns the voice for a language, falling back to the default
// speaker for unknown languages or misconfigured profiles.
func SpeakerFor(language string) string {
	speaker, ok := voiceProfiles[translate.NormalizeLanguageCode(language)]
	if !ok || !allowedSpeakers[speaker] {
		return FallbackSpeaker
	}
	return speaker
}

// Synthesizer converts text to spoken audio.
type Synthesizer interface {
	// Synthesize renders text in the given language and returns audio bytes.
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// vendorClient is the part of the sarvam client the synthesizer uses.
type vendorClient interface {
	TextToSpeech(ctx context.Context, text, language, speaker string) ([]byte, error)
}

// SarvamSynthesizer implements Synthesizer over the Sarvam Bulbul API.
type SarvamSynthesizer struct {
	client    vendorClient
	charLimit int
	log       zerolog.Logger
}

// NewSarvamSynthesizer creates a synthesizer backed by the given client.
// charLimit caps the spoken text; zero uses the vendor limit.
func NewSarvamSynthesizer(client *sarvam.Client, charLimit int) *SarvamSynthesizer {
	return NewSarvamSynthesizerWithClient(client, charLimit)
}

// NewSarvamSynthesizerWithClient accepts any vendor client implementation (for testing).
func NewSarvamSynthesizerWithClient(client vendorClient, charLimit int) *SarvamSynthesizer {
	if charLimit <= 0 || charLimit > sarvam.MaxTTSChars {
		charLimit = sarvam.MaxTTSChars
	}
	return &SarvamSynthesizer{
		client:    client,
		charLimit: charLimit,
		log:       logger.WithComponent("speech"),
	}
}

// Synthesize renders text with the language's voice profile. The text is
// pre-truncated at a sentence boundary under the configured ceiling. When
// the primary language fails, a shorter Hindi fallback is attempted before
// giving up.
func (s *SarvamSynthesizer) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	const op = "Synthesize"

	language = translate.NormalizeLanguageCode(language)
	text = report.TruncateAtSentence(text, s.charLimit)
	if text == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyText)
	}

	speaker := SpeakerFor(language)
	audio, err := s.client.TextToSpeech(ctx, text, language, speaker)
	if err == nil && len(audio) > 0 {
		return audio, nil
	}
	s.log.Warn().Err(err).
		Str("language", language).
		Str("speaker", speaker).
		Msg("primary speech synthesis failed, trying fallback voice")

	fallbackText := report.TruncateAtSentence(text, fallbackCharLimit)
	audio, err = s.client.TextToSpeech(ctx, fallbackText, FallbackLanguage, FallbackSpeaker)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrSynthesisFailed, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrSynthesisFailed)
	}
	return audio, nil
}

// SaveAudio writes audio bytes to dir under a unique generated filename and
// returns the file's path. The directory is created when missing.
func SaveAudio(dir string, audio []byte) (string, error) {
	const op = "SaveAudio"

	if len(audio) == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyText)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%s: create audio dir: %w", op, err)
	}

	filename := fmt.Sprintf("analysis_%d_%s.wav", time.Now().Unix(), uuid.New().String()[:8])
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("%s: write audio file: %w", op, err)
	}
	return path, nil
}
