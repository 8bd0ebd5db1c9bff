package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intriguedcoder/medical-report-agent/pkg/models"
)

const sampleNarrative = `**Patient Summary**
Your blood sugar is elevated and your cholesterol is borderline.

**Health Recommendations**
- Reduce sugar intake
- Walk for thirty minutes daily
- Eat more vegetables

**Risk Assessment**
Elevated glucose carries a risk of developing diabetes.

**Follow-up Actions**
Re-test your blood sugar in three months.`

// newTestAnalyzer points the OpenAI-compatible client at a stub server.
func newTestAnalyzer(t *testing.T, handler http.HandlerFunc) *Analyzer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	return NewAnalyzerWithClient(openai.NewClientWithConfig(cfg))
}

func chatResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: "assistant", Content: content}},
		},
	}
}

func TestGenerateNarrative(t *testing.T) {
	var gotReq openai.ChatCompletionRequest

	analyzer := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(chatResponse(sampleNarrative))
	})

	narrative, err := analyzer.GenerateNarrative(context.Background(), "Glucose: 180 mg/dL", "hi-IN")

	require.NoError(t, err)
	assert.Equal(t, sampleNarrative, narrative.FullText)
	assert.Contains(t, narrative.Summary, "blood sugar is elevated")
	assert.Len(t, narrative.Recommendations, 3)
	assert.Contains(t, narrative.RiskAssessment, "diabetes")
	assert.Contains(t, narrative.FollowUpActions, "three months")

	assert.Equal(t, ChatModel, gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "Glucose: 180 mg/dL")
	assert.Contains(t, gotReq.Messages[1].Content, "Hindi")
}

func TestGenerateNarrativeUnknownLanguageFallsBackToEnglish(t *testing.T) {
	var prompt string

	analyzer := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt = req.Messages[1].Content
		json.NewEncoder(w).Encode(chatResponse(sampleNarrative))
	})

	_, err := analyzer.GenerateNarrative(context.Background(), "Glucose: 110", "fr-FR")

	require.NoError(t, err)
	assert.Contains(t, prompt, "in English")
}

func TestGenerateNarrativeServerError(t *testing.T) {
	analyzer := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	})

	_, err := analyzer.GenerateNarrative(context.Background(), "Glucose: 110", "en-IN")
	require.Error(t, err)
}

func TestGenerateNarrativeEmptyText(t *testing.T) {
	analyzer := NewAnalyzerWithClient(openai.NewClient("unused"))

	_, err := analyzer.GenerateNarrative(context.Background(), "   ", "en-IN")
	require.Error(t, err)
}

func TestParseNarrativeMissingSections(t *testing.T) {
	content := "The report shows mostly normal values with slightly high cholesterol."
	n := ParseNarrative(content)

	assert.Equal(t, content, n.FullText)
	assert.Equal(t, content, n.Summary, "summary falls back to leading text")
	assert.Empty(t, n.Recommendations)
	assert.Contains(t, n.RiskAssessment, "consult")
	assert.Contains(t, n.FollowUpActions, "follow-up")
}

func TestParseNarrativeRecommendationCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("**Health Recommendations**\n")
	for i := 0; i < 10; i++ {
		b.WriteString("- Recommendation item\n")
	}
	b.WriteString("**Risk Assessment**\nLow risk.\n")

	n := ParseNarrative(b.String())
	assert.Len(t, n.Recommendations, maxRecommendations)
}

func TestCombine(t *testing.T) {
	ruleBased := &models.AnalysisResult{
		Success:         true,
		Summary:         "rule summary",
		AudioSummary:    "rule audio summary",
		RiskAssessment:  "rule risk",
		Recommendations: []string{"rule rec"},
		NormalCount:     2,
		ConcerningCount: 1,
	}

	t.Run("narrative overlays prose", func(t *testing.T) {
		out := Combine(ruleBased, ParseNarrative(sampleNarrative))

		assert.True(t, out.AIGenerated)
		assert.False(t, out.FallbackUsed)
		assert.Equal(t, sampleNarrative, out.ComprehensiveAnalysis)
		assert.Contains(t, out.Summary, "blood sugar")
		assert.Equal(t, out.Summary, out.AudioSummary, "spoken summary follows the narrative")
		assert.Equal(t, 2, out.NormalCount, "counts come from the rule-based pass")
		assert.Equal(t, 1, out.ConcerningCount)
	})

	t.Run("nil narrative keeps rule-based result with fallback flag", func(t *testing.T) {
		out := Combine(ruleBased, nil)

		assert.False(t, out.AIGenerated)
		assert.True(t, out.FallbackUsed)
		assert.Equal(t, "rule summary", out.Summary)
		assert.Equal(t, []string{"rule rec"}, out.Recommendations)
	})

	t.Run("original is not mutated", func(t *testing.T) {
		Combine(ruleBased, ParseNarrative(sampleNarrative))
		assert.Equal(t, "rule summary", ruleBased.Summary)
		assert.False(t, ruleBased.AIGenerated)
	})
}
