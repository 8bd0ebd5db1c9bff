package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/intriguedcoder/medical-report-agent/internal/analysis"
	"github.com/intriguedcoder/medical-report-agent/internal/config"
	"github.com/intriguedcoder/medical-report-agent/internal/logger"
	"github.com/intriguedcoder/medical-report-agent/internal/pipeline"
	"github.com/intriguedcoder/medical-report-agent/internal/sarvam"
	"github.com/intriguedcoder/medical-report-agent/internal/speech"
	"github.com/intriguedcoder/medical-report-agent/internal/translate"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [image-file]",
	Short: "Analyze a report photo end to end",
	Long: `Run the full pipeline over one report photo: OCR, test result extraction,
interpretation against reference ranges, risk synthesis, report composition,
optional AI narrative, translation, and optional spoken audio.

Requires SARVAM_API_KEY and Google Cloud credentials (see 'medreport ocr --help').`,
	Example: `  # Analyze a report and print the result in English
  medreport analyze report.jpg

  # Respond in Hindi with spoken audio
  medreport analyze report.jpg --language hi-IN

  # Text in English but audio in Tamil
  medreport analyze report.jpg --language en-IN --audio-language ta-IN

  # Rule-based analysis only, no audio, JSON to file
  medreport analyze report.jpg --no-ai --no-audio --json -o result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("language", "l", "", "Response language code (e.g. hi-IN, ta-IN); default: report's detected language")
	analyzeCmd.Flags().String("audio-language", "", "Audio language code; default: response language")
	analyzeCmd.Flags().Bool("no-ai", false, "Skip the AI narrative stage")
	analyzeCmd.Flags().Bool("no-audio", false, "Skip speech synthesis")
	analyzeCmd.Flags().Bool("json", false, "Output as JSON")
	analyzeCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().String("audio-dir", "", "Directory for generated audio files (default: AUDIO_DIR)")
	analyzeCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("analyze")

	language, _ := cmd.Flags().GetString("language")
	audioLanguage, _ := cmd.Flags().GetString("audio-language")
	noAI, _ := cmd.Flags().GetBool("no-ai")
	noAudio, _ := cmd.Flags().GetBool("no-audio")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")
	audioDir, _ := cmd.Flags().GetString("audio-dir")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if language != "" && !translate.Supported(language) {
		return fmt.Errorf("unsupported language %q. Supported: %s", language, supportedLanguageList())
	}
	if audioLanguage != "" && !translate.Supported(audioLanguage) {
		return fmt.Errorf("unsupported audio language %q. Supported: %s", audioLanguage, supportedLanguageList())
	}

	imagePath := args[0]

	fileInfo, err := validateImageFile(imagePath, log)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if audioDir == "" {
		audioDir = cfg.AudioDir
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	engines, err := createOCREngines(ctx, log)
	if err != nil {
		return err
	}

	client := sarvam.NewClientWithConfig(cfg.SarvamAPIKey, sarvam.DefaultBaseURL, nil)
	translator := translate.NewSarvamTranslator(client)
	synthesizer := speech.NewSarvamSynthesizer(client, cfg.TTSCharLimit)

	var narrative pipeline.NarrativeFunc
	if !noAI && cfg.EnableAI {
		narrative = analysis.NewAnalyzer(cfg.SarvamAPIKey).GenerateNarrative
	}

	p := pipeline.NewWithEngines(engines, narrative, translator, synthesizer, audioDir)

	image, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image file: %w", err)
	}

	log.Info().
		Str("file", imagePath).
		Int64("size", fileInfo.Size()).
		Str("language", language).
		Msg("Analyzing report")

	outcome, err := p.AnalyzeImage(ctx, image, pipeline.Options{
		UserLanguage:  language,
		AudioLanguage: audioLanguage,
		EnableAI:      narrative != nil,
		SkipAudio:     noAudio,
		TTSCharLimit:  cfg.TTSCharLimit,
	})
	if err != nil {
		return handleOCRError(err, log)
	}

	return outputAnalysis(outcome, outputPath, jsonOutput)
}

func supportedLanguageList() string {
	languages := translate.SupportedLanguages()
	codes := make([]string, 0, len(languages))
	for code := range languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return strings.Join(codes, ", ")
}

// outputAnalysis writes the analysis as JSON or readable text.
func outputAnalysis(outcome *pipeline.Outcome, outputPath string, jsonOutput bool) error {
	var outputData []byte

	if jsonOutput {
		data, err := json.MarshalIndent(map[string]any{
			"analysis":          outcome.Analysis,
			"detected_language": outcome.DetectedLanguage,
			"audio_path":        outcome.AudioPath,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		outputData = data
	} else {
		var out strings.Builder
		out.WriteString(outcome.Analysis.ComprehensiveAnalysis)
		out.WriteString("\n")
		if outcome.AudioPath != "" {
			out.WriteString(fmt.Sprintf("\nAudio saved to: %s\n", outcome.AudioPath))
		}
		outputData = []byte(out.String())
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	_, err := os.Stdout.Write(outputData)
	return err
}
