package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intriguedcoder/medical-report-agent/internal/config"
	"github.com/intriguedcoder/medical-report-agent/internal/logger"
	"github.com/intriguedcoder/medical-report-agent/internal/sarvam"
	"github.com/intriguedcoder/medical-report-agent/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text between supported Indian languages",
	Long: `Translate text through the Sarvam translation API. Reads text from the
argument, or from a file with --file.

Requires SARVAM_API_KEY.`,
	Example: `  # Translate English text to Hindi
  medreport translate "Your blood sugar is normal." --target hi-IN

  # Translate a saved analysis to Tamil
  medreport translate --file analysis.txt --source en-IN --target ta-IN -o analysis_ta.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringP("source", "s", "en-IN", "Source language code")
	translateCmd.Flags().StringP("target", "t", "hi-IN", "Target language code")
	translateCmd.Flags().StringP("file", "f", "", "Read text from file instead of argument")
	translateCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	translateCmd.Flags().Int("timeout", 120, "Processing timeout in seconds")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("translate")

	source, _ := cmd.Flags().GetString("source")
	target, _ := cmd.Flags().GetString("target")
	filePath, _ := cmd.Flags().GetString("file")
	outputPath, _ := cmd.Flags().GetString("output")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if !translate.Supported(source) {
		return fmt.Errorf("unsupported source language %q. Supported: %s", source, supportedLanguageList())
	}
	if !translate.Supported(target) {
		return fmt.Errorf("unsupported target language %q. Supported: %s", target, supportedLanguageList())
	}

	var text string
	switch {
	case filePath != "":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		text = string(data)
	case len(args) == 1:
		text = args[0]
	default:
		return fmt.Errorf("provide text as an argument or use --file")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	client := sarvam.NewClientWithConfig(cfg.SarvamAPIKey, sarvam.DefaultBaseURL, nil)
	translator := translate.NewSarvamTranslator(client)

	result := translator.TranslateText(ctx, text, source, target)
	if result.FallbackUsed {
		log.Warn().
			Str("source", source).
			Str("target", target).
			Msg("Translation failed, returning original text")
		fmt.Fprintln(os.Stderr, "Warning: translation failed, returning original text")
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(result.Text), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().
			Str("output_file", outputPath).
			Str("target", target).
			Msg("Translation written to file")
		return nil
	}

	fmt.Println(result.Text)
	return nil
}
