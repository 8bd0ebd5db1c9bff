// Package sarvam is a thin HTTP client for the Sarvam AI APIs: Mayura text
// translation and Bulbul text-to-speech for Indian languages.
package sarvam

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/intriguedcoder/medical-report-agent/internal/logger"
)

const (
	// DefaultBaseURL is the production Sarvam API endpoint.
	DefaultBaseURL = "https://api.sarvam.ai"

	// TranslateModel is the Sarvam translation model identifier.
	TranslateModel = "mayura:v1"

	// TTSModel is the Sarvam text-to-speech model identifier.
	TTSModel = "bulbul:v1"

	// MaxTTSChars is the vendor input ceiling for one text-to-speech call.
	MaxTTSChars = 500

	defaultTimeout = 30 * time.Second
)

// Client calls the Sarvam APIs. The zero value is not usable; construct with
// NewClient or NewClientWithConfig.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client with the API key from SARVAM_API_KEY.
func NewClient() (*Client, error) {
	const op = "NewClient"

	apiKey := os.Getenv("SARVAM_API_KEY")
	if apiKey == "" {
		return nil, WrapSarvamError(op, ErrMissingAPIKey, "")
	}
	return NewClientWithConfig(apiKey, DefaultBaseURL, nil), nil
}

// NewClientWithConfig creates a client with explicit settings (for testing).
// A nil httpClient falls back to a default with a 30s timeout.
func NewClientWithConfig(apiKey, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        logger.WithComponent("sarvam"),
	}
}

// TranslateResult is the outcome of one translation call.
type TranslateResult struct {
	TranslatedText     string `json:"translated_text"`
	SourceLanguageCode string `json:"source_language_code"`
	TargetLanguageCode string `json:"target_language_code"`
}

type translateRequest struct {
	Input               string `json:"input"`
	SourceLanguageCode  string `json:"source_language_code"`
	TargetLanguageCode  string `json:"target_language_code"`
	SpeakerGender       string `json:"speaker_gender"`
	Mode                string `json:"mode"`
	Model               string `json:"model"`
	EnablePreprocessing bool   `json:"enable_preprocessing"`
	OutputScript        string `json:"output_script"`
	NumeralsFormat      string `json:"numerals_format"`
}

type translateResponse struct {
	TranslatedText     string `json:"translated_text"`
	SourceLanguageCode string `json:"source_language_code"`
}

// Translate converts text between the given language codes using the Mayura
// model. Language codes are BCP-47 style with region, e.g. "en-IN", "hi-IN".
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (*TranslateResult, error) {
	const op = "Translate"

	if strings.TrimSpace(text) == "" {
		return nil, WrapSarvamError(op, ErrEmptyText, "")
	}

	reqBody := translateRequest{
		Input:               text,
		SourceLanguageCode:  sourceLang,
		TargetLanguageCode:  targetLang,
		SpeakerGender:       "Female",
		Mode:                "formal",
		Model:               TranslateModel,
		EnablePreprocessing: true,
		OutputScript:        "fully-native",
		NumeralsFormat:      "international",
	}

	c.log.Debug().
		Int("chars", len(text)).
		Str("source", sourceLang).
		Str("target", targetLang).
		Msg("translating text")

	var respBody translateResponse
	if err := c.post(ctx, op, "/translate", reqBody, &respBody); err != nil {
		return nil, err
	}

	detected := respBody.SourceLanguageCode
	if detected == "" {
		detected = sourceLang
	}
	return &TranslateResult{
		TranslatedText:     respBody.TranslatedText,
		SourceLanguageCode: detected,
		TargetLanguageCode: targetLang,
	}, nil
}

type ttsRequest struct {
	Inputs              []string `json:"inputs"`
	TargetLanguageCode  string   `json:"target_language_code"`
	Speaker             string   `json:"speaker"`
	Pitch               float64  `json:"pitch"`
	Pace                float64  `json:"pace"`
	Loudness            float64  `json:"loudness"`
	SpeechSampleRate    int      `json:"speech_sample_rate"`
	EnablePreprocessing bool     `json:"enable_preprocessing"`
	Model               string   `json:"model"`
}

type ttsResponse struct {
	Audios []string `json:"audios"`
}

// TextToSpeech renders text as audio with the Bulbul model and returns the
// decoded audio bytes. Text longer than MaxTTSChars is truncated with an
// ellipsis; callers wanting a cleaner cut should truncate at a sentence
// boundary before calling.
func (c *Client) TextToSpeech(ctx context.Context, text, language, speaker string) ([]byte, error) {
	const op = "TextToSpeech"

	if strings.TrimSpace(text) == "" {
		return nil, WrapSarvamError(op, ErrEmptyText, "")
	}
	// The vendor limit counts characters, not bytes.
	if runes := []rune(text); len(runes) > MaxTTSChars {
		text = string(runes[:MaxTTSChars-3]) + "..."
		c.log.Warn().Int("limit", MaxTTSChars).Msg("text truncated for TTS")
	}

	reqBody := ttsRequest{
		Inputs:              []string{text},
		TargetLanguageCode:  language,
		Speaker:             speaker,
		Pitch:               0,
		Pace:                1.0,
		Loudness:            1.0,
		SpeechSampleRate:    8000,
		EnablePreprocessing: true,
		Model:               TTSModel,
	}

	c.log.Debug().
		Int("chars", len(text)).
		Str("language", language).
		Str("speaker", speaker).
		Msg("synthesizing speech")

	var respBody ttsResponse
	if err := c.post(ctx, op, "/text-to-speech", reqBody, &respBody); err != nil {
		return nil, err
	}
	if len(respBody.Audios) == 0 || respBody.Audios[0] == "" {
		return nil, WrapSarvamError(op, ErrNoAudio, "")
	}

	audio, err := base64.StdEncoding.DecodeString(respBody.Audios[0])
	if err != nil {
		return nil, WrapSarvamError(op, err, "failed to decode audio payload")
	}
	return audio, nil
}

// post sends one JSON request and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, op, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return WrapSarvamError(op, err, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return WrapSarvamError(op, err, "failed to build request")
	}
	req.Header.Set("api-subscription-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return WrapSarvamError(op, err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return WrapSarvamError(op, err, "failed to read response")
	}
	if resp.StatusCode != http.StatusOK {
		return WrapSarvamError(op, ErrRequestFailed,
			fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return WrapSarvamError(op, err, "failed to decode response")
	}
	return nil
}
