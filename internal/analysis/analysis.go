// Package analysis generates an AI narrative for a medical report using the
// Sarvam-M chat model, layered on top of the deterministic rule-based
// analysis. The model speaks the patient's language directly, so narrative
// output skips the translation pass.
//
// AI output is strictly optional: any failure leaves the rule-based result
// standing alone, flagged with FallbackUsed.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/intriguedcoder/medical-report-agent/internal/logger"
	"github.com/intriguedcoder/medical-report-agent/internal/translate"
	"github.com/intriguedcoder/medical-report-agent/pkg/models"
)

const (
	// SarvamChatBaseURL is the OpenAI-compatible Sarvam chat endpoint.
	SarvamChatBaseURL = "https://api.sarvam.ai/v1"

	// ChatModel is the Sarvam chat model identifier.
	ChatModel = "sarvam-m"

	systemPrompt = "You are an expert medical AI assistant specializing in Indian healthcare. Provide accurate, culturally appropriate medical analysis while being empathetic and clear in your explanations."

	maxRecommendations = 5
)

// Narrative is the parsed AI analysis.
type Narrative struct {
	FullText        string
	Summary         string
	Recommendations []string
	RiskAssessment  string
	FollowUpActions string
}

// Analyzer produces AI narratives for report text.
type Analyzer struct {
	client *openai.Client
	log    zerolog.Logger
}

// NewAnalyzer creates an analyzer talking to the Sarvam chat endpoint with
// the given API key.
func NewAnalyzer(apiKey string) *Analyzer {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = SarvamChatBaseURL
	return NewAnalyzerWithClient(openai.NewClientWithConfig(cfg))
}

// NewAnalyzerWithClient creates an analyzer with an explicit client (for testing).
func NewAnalyzerWithClient(client *openai.Client) *Analyzer {
	return &Analyzer{
		client: client,
		log:    logger.WithComponent("analysis"),
	}
}

// promptInstructions give the model its task in the patient's own language.
// Languages without a dedicated instruction fall back to English.
var promptInstructions = map[string]struct {
	instruction string
	format      string
}{
	"en-IN": {"Analyze this medical report and provide a comprehensive assessment in English", "English"},
	"hi-IN": {"इस मेडिकल रिपोर्ट का विश्लेषण करें और हिंदी में व्यापक मूल्यांकन प्रदान करें", "Hindi"},
	"ta-IN": {"இந்த மருத்துவ அறிக்கையை பகுப்பாய்வு செய்து தமிழில் விரிவான மதிப்பீடு வழங்கவும்", "Tamil"},
	"te-IN": {"ఈ వైద్య నివేదికను విశ్లేషించి తెలుగులో సమగ్ర అంచనా అందించండి", "Telugu"},
	"bn-IN": {"এই চিকিৎসা রিপোর্টটি বিশ্লেষণ করুন এবং বাংলায় একটি বিস্তৃত মূল্যায়ন প্রদান করুন", "Bengali"},
}

// buildPrompt renders the analysis prompt for the given report text and
// language.
func buildPrompt(medicalText, language string) string {
	lang, ok := promptInstructions[translate.NormalizeLanguageCode(language)]
	if !ok {
		lang = promptInstructions["en-IN"]
	}

	return fmt.Sprintf(`%s

Medical Report Text:
%s

Please provide a comprehensive analysis in %s including:

1. **Patient Summary**: Brief overview of the patient's condition
2. **Key Findings**: Important test results and their interpretations
3. **Normal vs Abnormal Values**: Clear identification of concerning values
4. **Health Recommendations**: Specific dietary and lifestyle advice
5. **Risk Assessment**: Potential health risks based on the findings
6. **Follow-up Actions**: What the patient should do next
7. **Medication Insights**: If any medications are mentioned, explain their purpose

Format your response as a structured medical assessment that a patient can easily understand. Use simple language and avoid complex medical jargon. If any values are critical or require immediate attention, clearly highlight this. Respond in %s language only.`,
		lang.instruction, medicalText, lang.format, lang.format)
}

// GenerateNarrative asks the model for a patient-friendly analysis of the
// report text in the given language.
func (a *Analyzer) GenerateNarrative(ctx context.Context, medicalText, language string) (*Narrative, error) {
	const op = "GenerateNarrative"

	if strings.TrimSpace(medicalText) == "" {
		return nil, fmt.Errorf("%s: no report text", op)
	}

	a.log.Debug().
		Int("text_length", len(medicalText)).
		Str("language", language).
		Msg("requesting AI narrative")

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(medicalText, language),
			},
		},
		Temperature: 0.3,
		MaxTokens:   1500,
		TopP:        0.9,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: chat request failed: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: no response choices", op)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("%s: empty response content", op)
	}
	return ParseNarrative(content), nil
}

// Combine overlays the AI narrative on a rule-based result. The rule-based
// structured data, counts, and recommendations survive; AI prose replaces
// the generated text where the narrative has the matching section.
func Combine(ruleBased *models.AnalysisResult, narrative *Narrative) *models.AnalysisResult {
	if ruleBased == nil {
		return nil
	}
	out := *ruleBased
	if narrative == nil {
		out.FallbackUsed = true
		return &out
	}

	out.AIGenerated = true
	out.ComprehensiveAnalysis = narrative.FullText
	if narrative.Summary != "" {
		out.Summary = narrative.Summary
		// The spoken summary must follow the narrative too, or audio keeps
		// reading the replaced rule-based text.
		out.AudioSummary = narrative.Summary
	}
	if narrative.RiskAssessment != "" {
		out.RiskAssessment = narrative.RiskAssessment
	}
	if narrative.FollowUpActions != "" {
		out.FollowUpActions = narrative.FollowUpActions
	}
	if len(narrative.Recommendations) > 0 {
		out.Recommendations = narrative.Recommendations
	}
	return &out
}
