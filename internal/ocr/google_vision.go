package ocr

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// GoogleVisionEngine implements Engine using Cloud Vision document text
// detection on a single image.
type GoogleVisionEngine struct {
	client        *vision.ImageAnnotatorClient
	languageHints []string
}

// NewGoogleVisionEngine creates an engine with credentials from environment.
// It expects either GOOGLE_APPLICATION_CREDENTIALS path or GOOGLE_CREDENTIALS JSON in env.
func NewGoogleVisionEngine(ctx context.Context) (*GoogleVisionEngine, error) {
	const op = "NewGoogleVisionEngine"

	var client *vision.ImageAnnotatorClient
	var err error

	// Check for inline credentials first
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		// Try default credentials as fallback
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &GoogleVisionEngine{client: client}, nil
}

// NewGoogleVisionEngineWithClient creates an engine with an explicit client (for testing).
func NewGoogleVisionEngineWithClient(client *vision.ImageAnnotatorClient) *GoogleVisionEngine {
	return &GoogleVisionEngine{client: client}
}

// WithLanguageHints returns a variant of the engine that passes the given
// language hints to the Vision API. The underlying client is shared.
func (g *GoogleVisionEngine) WithLanguageHints(hints ...string) *GoogleVisionEngine {
	return &GoogleVisionEngine{client: g.client, languageHints: hints}
}

// Name identifies the engine in logs and sweep results.
func (g *GoogleVisionEngine) Name() string {
	if len(g.languageHints) > 0 {
		return "vision:" + strings.Join(g.languageHints, ",")
	}
	return "vision"
}

// ExtractText runs document text detection over one image.
func (g *GoogleVisionEngine) ExtractText(ctx context.Context, image io.Reader) (*Result, error) {
	const op = "ExtractText"
	startTime := time.Now()

	imageBytes, err := readImage(op, image)
	if err != nil {
		return nil, err
	}

	// Prepare the request
	annotateReq := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: imageBytes},
		Features: []*visionpb.Feature{
			{
				Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION,
			},
		},
	}
	if len(g.languageHints) > 0 {
		annotateReq.ImageContext = &visionpb.ImageContext{
			LanguageHints: g.languageHints,
		}
	}
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{annotateReq},
	}

	// Call the Vision API
	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}

	// Check for API errors
	if len(resp.Responses) == 0 {
		return nil, WrapOCRError(op, ErrOCRFailed, "no response from Vision API")
	}
	imageResp := resp.Responses[0]
	if imageResp.Error != nil {
		return nil, WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("Vision API error: %s", imageResp.Error.Message))
	}

	result, err := g.processVisionResponse(imageResp)
	if err != nil {
		return nil, WrapOCRError(op, err, "failed to process Vision API response")
	}

	result.Engine = g.Name()
	result.ProcessedAt = time.Now()
	result.ProcessingDuration = result.ProcessedAt.Sub(startTime)

	return result, nil
}

// processVisionResponse extracts text with metadata from one annotate response.
func (g *GoogleVisionEngine) processVisionResponse(imageResp *visionpb.AnnotateImageResponse) (*Result, error) {
	annotation := imageResp.FullTextAnnotation
	if annotation == nil || strings.TrimSpace(annotation.Text) == "" {
		return nil, ErrEmptyDocument
	}

	// Collect confidence scores from text annotations
	var confidenceSum float32
	var confidenceCount int
	for _, textAnnotation := range imageResp.TextAnnotations {
		if textAnnotation.Confidence > 0 {
			confidenceSum += textAnnotation.Confidence
			confidenceCount++
		}
	}
	var avgConfidence float32
	if confidenceCount > 0 {
		avgConfidence = confidenceSum / float32(confidenceCount)
	}

	// Collect detected languages from page properties
	languageSet := make(map[string]bool)
	for _, page := range annotation.Pages {
		if page.Property == nil {
			continue
		}
		for _, lang := range page.Property.DetectedLanguages {
			if lang.LanguageCode != "" {
				languageSet[lang.LanguageCode] = true
			}
		}
	}
	var languages []string
	for lang := range languageSet {
		languages = append(languages, lang)
	}

	return &Result{
		Text:          annotation.Text,
		Confidence:    avgConfidence,
		LanguageCodes: languages,
	}, nil
}

// Close closes the underlying Vision client.
func (g *GoogleVisionEngine) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
