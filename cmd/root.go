package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intriguedcoder/medical-report-agent/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "medreport",
	Short: "Medical report reading assistant for Indian languages",
	Long: `medreport reads photographed medical lab reports, explains the test
results in simple language, and can translate and speak the explanation in
major Indian languages.

Reports are processed with Google Cloud OCR, interpreted against standard
reference ranges, and optionally enriched with an AI narrative and audio
through the Sarvam APIs.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("medreport CLI executed")

		fmt.Println("Welcome to medreport!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
