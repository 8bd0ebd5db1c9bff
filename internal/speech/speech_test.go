package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVendor records TTS calls and can fail selectively per language.
type fakeVendor struct {
	failLanguages map[string]bool
	calls         []ttsCall
}

type ttsCall struct {
	text     string
	language string
	speaker  string
}

func (f *fakeVendor) TextToSpeech(ctx context.Context, text, language, speaker string) ([]byte, error) {
	f.calls = append(f.calls, ttsCall{text: text, language: language, speaker: speaker})
	if f.failLanguages[language] {
		return nil, errors.New("vendor rejected language")
	}
	return []byte("audio:" + language), nil
}

func TestSpeakerFor(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"hi-IN", "meera"},
		{"en-IN", "arvind"},
		{"ta-IN", "diya"},
		{"bn", "abhilash"}, // bare code normalized first
		{"fr-FR", "meera"}, // unknown language falls back
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			assert.Equal(t, tt.want, SpeakerFor(tt.language))
		})
	}
}

func TestSynthesize(t *testing.T) {
	vendor := &fakeVendor{}
	syn := NewSarvamSynthesizerWithClient(vendor, 0)

	audio, err := syn.Synthesize(context.Background(), "Your report looks good.", "ta-IN")

	require.NoError(t, err)
	assert.Equal(t, []byte("audio:ta-IN"), audio)
	require.Len(t, vendor.calls, 1)
	assert.Equal(t, "diya", vendor.calls[0].speaker)
}

func TestSynthesizeTruncatesToCharLimit(t *testing.T) {
	vendor := &fakeVendor{}
	syn := NewSarvamSynthesizerWithClient(vendor, 100)

	long := strings.Repeat("This is a sentence. ", 20)
	_, err := syn.Synthesize(context.Background(), long, "hi-IN")

	require.NoError(t, err)
	require.Len(t, vendor.calls, 1)
	assert.LessOrEqual(t, len(vendor.calls[0].text), 100)
	assert.True(t, strings.HasSuffix(vendor.calls[0].text, "sentence."), "truncation must end at a sentence boundary")
}

func TestSynthesizeFallsBackToHindi(t *testing.T) {
	vendor := &fakeVendor{failLanguages: map[string]bool{"ta-IN": true}}
	syn := NewSarvamSynthesizerWithClient(vendor, 0)

	audio, err := syn.Synthesize(context.Background(), "Your report looks good.", "ta-IN")

	require.NoError(t, err)
	assert.Equal(t, []byte("audio:hi-IN"), audio)

	require.Len(t, vendor.calls, 2)
	assert.Equal(t, "ta-IN", vendor.calls[0].language)
	assert.Equal(t, FallbackLanguage, vendor.calls[1].language)
	assert.Equal(t, FallbackSpeaker, vendor.calls[1].speaker)
}

func TestSynthesizeBothAttemptsFail(t *testing.T) {
	vendor := &fakeVendor{failLanguages: map[string]bool{"ta-IN": true, "hi-IN": true}}
	syn := NewSarvamSynthesizerWithClient(vendor, 0)

	_, err := syn.Synthesize(context.Background(), "Your report looks good.", "ta-IN")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSynthesisFailed))
}

func TestSynthesizeEmptyText(t *testing.T) {
	syn := NewSarvamSynthesizerWithClient(&fakeVendor{}, 0)

	_, err := syn.Synthesize(context.Background(), "", "hi-IN")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyText))
}

func TestSaveAudio(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio")

	path, err := SaveAudio(dir, []byte("wav-bytes"))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "analysis_"))
	assert.True(t, strings.HasSuffix(path, ".wav"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("wav-bytes"), data)
}

func TestSaveAudioUniqueNames(t *testing.T) {
	dir := t.TempDir()

	first, err := SaveAudio(dir, []byte("a"))
	require.NoError(t, err)
	second, err := SaveAudio(dir, []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSaveAudioEmpty(t *testing.T) {
	_, err := SaveAudio(t.TempDir(), nil)
	require.Error(t, err)
}
