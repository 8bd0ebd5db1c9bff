package sarvam

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	var gotHeader string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/translate", r.URL.Path)
		gotHeader = r.Header.Get("api-subscription-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]string{
			"translated_text":      "नमस्ते",
			"source_language_code": "en-IN",
		})
	}))
	defer server.Close()

	client := NewClientWithConfig("test-key", server.URL, nil)
	result, err := client.Translate(context.Background(), "Hello", "en-IN", "hi-IN")

	require.NoError(t, err)
	assert.Equal(t, "नमस्ते", result.TranslatedText)
	assert.Equal(t, "en-IN", result.SourceLanguageCode)
	assert.Equal(t, "hi-IN", result.TargetLanguageCode)

	assert.Equal(t, "test-key", gotHeader)
	assert.Equal(t, "Hello", gotBody["input"])
	assert.Equal(t, "mayura:v1", gotBody["model"])
	assert.Equal(t, "hi-IN", gotBody["target_language_code"])
	assert.Equal(t, "fully-native", gotBody["output_script"])
}

func TestTranslateEmptyText(t *testing.T) {
	client := NewClientWithConfig("test-key", "http://unused", nil)

	_, err := client.Translate(context.Background(), "   ", "en-IN", "hi-IN")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyText))
}

func TestTranslateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClientWithConfig("test-key", server.URL, nil)
	_, err := client.Translate(context.Background(), "Hello", "en-IN", "hi-IN")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.Contains(t, err.Error(), "429")
}

func TestTextToSpeech(t *testing.T) {
	audio := []byte("fake-wav-bytes")
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/text-to-speech", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string][]string{
			"audios": {base64.StdEncoding.EncodeToString(audio)},
		})
	}))
	defer server.Close()

	client := NewClientWithConfig("test-key", server.URL, nil)
	got, err := client.TextToSpeech(context.Background(), "नमस्ते", "hi-IN", "meera")

	require.NoError(t, err)
	assert.Equal(t, audio, got)

	assert.Equal(t, "bulbul:v1", gotBody["model"])
	assert.Equal(t, "meera", gotBody["speaker"])
	assert.Equal(t, "hi-IN", gotBody["target_language_code"])
	inputs, ok := gotBody["inputs"].([]any)
	require.True(t, ok)
	assert.Equal(t, "नमस्ते", inputs[0])
}

func TestTextToSpeechTruncatesLongText(t *testing.T) {
	var sentText string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Inputs []string `json:"inputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		sentText = body.Inputs[0]

		json.NewEncoder(w).Encode(map[string][]string{
			"audios": {base64.StdEncoding.EncodeToString([]byte("x"))},
		})
	}))
	defer server.Close()

	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}

	client := NewClientWithConfig("test-key", server.URL, nil)
	_, err := client.TextToSpeech(context.Background(), string(long), "hi-IN", "meera")

	require.NoError(t, err)
	assert.Len(t, sentText, MaxTTSChars)
	assert.True(t, len(sentText) <= MaxTTSChars)
}

func TestTextToSpeechCountsCharactersNotBytes(t *testing.T) {
	var sentText string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Inputs []string `json:"inputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		sentText = body.Inputs[0]

		json.NewEncoder(w).Encode(map[string][]string{
			"audios": {base64.StdEncoding.EncodeToString([]byte("x"))},
		})
	}))
	defer server.Close()

	// 195 characters of Devanagari is over 500 bytes but well under the
	// 500-character limit.
	text := strings.Repeat("आपकी रिपोर्ट ", 15)
	require.Greater(t, len(text), MaxTTSChars)
	require.Less(t, utf8.RuneCountInString(text), MaxTTSChars)

	client := NewClientWithConfig("test-key", server.URL, nil)
	_, err := client.TextToSpeech(context.Background(), text, "hi-IN", "meera")

	require.NoError(t, err)
	assert.Equal(t, text, sentText, "text under the character limit must not be truncated")
}

func TestTextToSpeechTruncatesByRunes(t *testing.T) {
	var sentText string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Inputs []string `json:"inputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		sentText = body.Inputs[0]

		json.NewEncoder(w).Encode(map[string][]string{
			"audios": {base64.StdEncoding.EncodeToString([]byte("x"))},
		})
	}))
	defer server.Close()

	client := NewClientWithConfig("test-key", server.URL, nil)
	_, err := client.TextToSpeech(context.Background(), strings.Repeat("क", 600), "hi-IN", "meera")

	require.NoError(t, err)
	assert.Equal(t, MaxTTSChars, utf8.RuneCountInString(sentText))
	assert.True(t, utf8.ValidString(sentText))
	assert.True(t, strings.HasSuffix(sentText, "..."))
}

func TestTextToSpeechNoAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][]string{"audios": {}})
	}))
	defer server.Close()

	client := NewClientWithConfig("test-key", server.URL, nil)
	_, err := client.TextToSpeech(context.Background(), "Hello", "en-IN", "meera")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoAudio))
}

func TestNewClientMissingKey(t *testing.T) {
	t.Setenv("SARVAM_API_KEY", "")

	_, err := NewClient()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}
