package ocr_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/intriguedcoder/medical-report-agent/internal/ocr"
)

// Example demonstrates a single-engine OCR pass over a report photo.
func Example() {
	// Create context with timeout for OCR processing
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Create engine - credentials handled internally from environment
	engine, err := ocr.NewGoogleVisionEngine(ctx)
	if err != nil {
		log.Fatalf("Failed to create OCR engine: %v", err)
	}
	defer engine.Close()

	// Open report image
	imageFile, err := os.Open("sample_report.jpg")
	if err != nil {
		log.Fatalf("Failed to open image: %v", err)
	}
	defer imageFile.Close()

	result, err := engine.ExtractText(ctx, imageFile)
	if err != nil {
		log.Fatalf("Failed to extract text: %v", err)
	}

	fmt.Printf("Extracted text (%d characters):\n%s\n", len(result.Text), result.Text)
}

// ExampleSweep demonstrates running the full engine sweep and keeping the
// best-scoring text.
func ExampleSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	engines, err := ocr.DefaultEngines(ctx)
	if err != nil {
		log.Fatalf("Failed to build OCR engines: %v", err)
	}

	image, err := os.ReadFile("sample_report.jpg")
	if err != nil {
		log.Fatalf("Failed to read image: %v", err)
	}

	result, err := ocr.Sweep(ctx, engines, image)
	if err != nil {
		log.Fatalf("OCR sweep failed: %v", err)
	}

	fmt.Printf("Best engine: %s (confidence %.2f)\n", result.Engine, result.Confidence)
	fmt.Println(result.Text)
}
