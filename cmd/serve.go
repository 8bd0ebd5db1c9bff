package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/intriguedcoder/medical-report-agent/internal/analysis"
	"github.com/intriguedcoder/medical-report-agent/internal/config"
	"github.com/intriguedcoder/medical-report-agent/internal/logger"
	"github.com/intriguedcoder/medical-report-agent/internal/pipeline"
	"github.com/intriguedcoder/medical-report-agent/internal/sarvam"
	"github.com/intriguedcoder/medical-report-agent/internal/server"
	"github.com/intriguedcoder/medical-report-agent/internal/speech"
	"github.com/intriguedcoder/medical-report-agent/internal/translate"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis server",
	Long: `Start the HTTP server used by the mobile and web frontends. Uploaded
report photos are analyzed through the full pipeline and returned with
translation and audio.

Configuration is read from the environment (see .env.example):
  SARVAM_API_KEY     - Sarvam API key (required)
  SERVER_ADDR        - Listen address (default :8080)
  AUDIO_DIR          - Directory for generated audio (default static/audio)
  ENABLE_AI_ANALYSIS - Toggle the AI narrative stage (default true)
  DEDUP_TTL_MINUTES  - Duplicate upload window (default 60)`,
	Example: `  # Start with environment configuration
  medreport serve

  # Start on a custom port
  medreport serve --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default: SERVER_ADDR)")
	serveCmd.Flags().String("audio-dir", "", "Directory for generated audio files (default: AUDIO_DIR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	addr, _ := cmd.Flags().GetString("addr")
	audioDir, _ := cmd.Flags().GetString("audio-dir")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if addr == "" {
		addr = cfg.ServerAddr
	}
	if audioDir == "" {
		audioDir = cfg.AudioDir
	}

	ctx := context.Background()
	engines, err := createOCREngines(ctx, log)
	if err != nil {
		return err
	}

	client := sarvam.NewClientWithConfig(cfg.SarvamAPIKey, sarvam.DefaultBaseURL, nil)
	translator := translate.NewSarvamTranslator(client)
	synthesizer := speech.NewSarvamSynthesizer(client, cfg.TTSCharLimit)

	var narrative pipeline.NarrativeFunc
	if cfg.EnableAI {
		narrative = analysis.NewAnalyzer(cfg.SarvamAPIKey).GenerateNarrative
	}

	p := pipeline.NewWithEngines(engines, narrative, translator, synthesizer, audioDir)

	srv := server.New(p, server.Config{
		Addr:     addr,
		AudioDir: audioDir,
		EnableAI: cfg.EnableAI,
		DedupTTL: time.Duration(cfg.DedupTTLMin) * time.Minute,
	})

	log.Info().
		Str("addr", addr).
		Str("audio_dir", audioDir).
		Bool("ai_enabled", cfg.EnableAI).
		Int("ocr_engines", len(engines)).
		Msg("Starting analysis server")

	return srv.Run()
}
