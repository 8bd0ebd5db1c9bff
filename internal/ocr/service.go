// Package ocr extracts text from photographed medical reports using Google
// Cloud OCR backends.
//
// Two engines are provided: Cloud Vision document text detection and a
// Document AI OCR processor. Lab reports arrive as phone photos of printed
// pages, so a single engine pass with default settings often returns garbled
// numbers; the Sweep helper runs several engine and language-hint
// combinations and keeps the text that scores best for medical content.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_PROJECT_ID: Google Cloud project ID (Document AI only)
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"
)

// MaxImageSizeBytes is the maximum accepted upload size (16MB).
const MaxImageSizeBytes = 16 * 1024 * 1024

// Engine is a single OCR backend.
type Engine interface {
	// ExtractText runs OCR over one image and returns the recognized text
	// with metadata.
	ExtractText(ctx context.Context, image io.Reader) (*Result, error)

	// Name identifies the engine in logs and sweep results.
	Name() string
}

// Result contains the outcome of one OCR pass.
type Result struct {
	// Text is the recognized text in reading order.
	Text string `json:"text"`

	// Engine is the name of the backend that produced the text.
	Engine string `json:"engine"`

	// Confidence is the average confidence score across detected text
	// (0.0 to 1.0), when the backend reports one.
	Confidence float32 `json:"confidence"`

	// LanguageCodes contains the languages the backend detected.
	LanguageCodes []string `json:"language_codes,omitempty"`

	// ProcessedAt is when processing completed.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration is how long the OCR pass took.
	ProcessingDuration time.Duration `json:"processing_duration"`
}

// imageMagic maps leading bytes to the formats accepted for upload.
var imageMagic = []struct {
	prefix []byte
	format string
}{
	{[]byte{0xFF, 0xD8, 0xFF}, "jpeg"},
	{[]byte{0x89, 'P', 'N', 'G'}, "png"},
	{[]byte{'B', 'M'}, "bmp"},
	{[]byte{'I', 'I', 0x2A, 0x00}, "tiff"},
	{[]byte{'M', 'M', 0x00, 0x2A}, "tiff"},
	{[]byte{'G', 'I', 'F', '8'}, "gif"},
	{[]byte{'%', 'P', 'D', 'F'}, "pdf"},
}

// readImage drains and validates an uploaded image. It enforces the size
// ceiling and rejects payloads without a recognizable image signature.
func readImage(op string, image io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(image, MaxImageSizeBytes+1))
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to read image data")
	}
	if len(data) > MaxImageSizeBytes {
		return nil, WrapOCRError(op, ErrImageTooLarge, fmt.Sprintf("file size exceeds %d bytes", MaxImageSizeBytes))
	}
	if DetectFormat(data) == "" {
		return nil, WrapOCRError(op, ErrInvalidImage, "unrecognized file signature")
	}
	return data, nil
}

// DetectFormat returns the image format implied by the payload's magic
// bytes, or "" when none matches.
func DetectFormat(data []byte) string {
	for _, m := range imageMagic {
		if bytes.HasPrefix(data, m.prefix) {
			return m.format
		}
	}
	return ""
}
