// Package server exposes the analysis pipeline over HTTP for the mobile and
// web frontends.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/intriguedcoder/medical-report-agent/internal/logger"
	"github.com/intriguedcoder/medical-report-agent/internal/ocr"
	"github.com/intriguedcoder/medical-report-agent/internal/pipeline"
	"github.com/intriguedcoder/medical-report-agent/internal/translate"
)

// MaxUploadBytes caps one report upload (16MB).
const MaxUploadBytes = 16 * 1024 * 1024

// allowedExtensions are the upload file types accepted before content
// sniffing.
var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".bmp": true, ".tiff": true, ".tif": true,
	".gif": true, ".pdf": true,
}

// Analyzer runs the report pipeline for one uploaded image.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, image []byte, opts pipeline.Options) (*pipeline.Outcome, error)
}

// Config holds the server settings.
type Config struct {
	Addr     string
	AudioDir string
	EnableAI bool
	DedupTTL time.Duration
}

// Server is the HTTP front of the analysis pipeline.
type Server struct {
	analyzer Analyzer
	dedup    *DedupStore
	config   Config
	log      zerolog.Logger
}

// New creates a server around an analyzer.
func New(analyzer Analyzer, config Config) *Server {
	if config.DedupTTL <= 0 {
		config.DedupTTL = time.Hour
	}
	return &Server{
		analyzer: analyzer,
		dedup:    NewDedupStore(config.DedupTTL),
		config:   config,
		log:      logger.WithComponent("server"),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.MaxMultipartMemory = MaxUploadBytes

	router.GET("/healthz", s.handleHealth)
	router.GET("/api/languages", s.handleLanguages)
	router.POST("/api/analyze", s.handleAnalyze)

	if s.config.AudioDir != "" {
		router.Static("/audio", s.config.AudioDir)
	}
	return router
}

// Run starts the HTTP server and blocks.
func (s *Server) Run() error {
	s.log.Info().Str("addr", s.config.Addr).Msg("starting HTTP server")
	return s.Router().Run(s.config.Addr)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()[:8]
		c.Set("request_id", requestID)
		start := time.Now()

		c.Next()

		reqLog := logger.WithRequestID(requestID)
		reqLog.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "medical-report-agent",
	})
}

func (s *Server) handleLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"languages": translate.SupportedLanguages(),
		"default":   "en-IN",
	})
}

// analyzeResponse is the wire shape of a successful analysis.
type analyzeResponse struct {
	Success          bool   `json:"success"`
	Analysis         any    `json:"analysis"`
	DetectedLanguage string `json:"detected_language"`
	AudioURL         string `json:"audio_url,omitempty"`
	DuplicateUpload  bool   `json:"duplicate_upload,omitempty"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no file uploaded"})
		return
	}
	if fileHeader.Size > MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "file exceeds 16MB limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unsupported file type: " + ext})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read upload"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
	if err != nil || len(image) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read upload"})
		return
	}
	if len(image) > MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "file exceeds 16MB limit"})
		return
	}

	duplicate := s.dedup.Seen(Hash(image))

	opts := pipeline.Options{
		UserLanguage:  c.DefaultPostForm("language", "en-IN"),
		AudioLanguage: c.PostForm("audio_language"),
		EnableAI:      s.config.EnableAI,
		SkipAudio:     c.PostForm("skip_audio") == "true",
	}

	outcome, err := s.analyzer.AnalyzeImage(c.Request.Context(), image, opts)
	if err != nil {
		s.logAnalysisError(c, err)
		status := http.StatusInternalServerError
		message := "analysis failed"
		switch {
		case errors.Is(err, ocr.ErrInvalidImage), errors.Is(err, ocr.ErrImageTooLarge):
			status = http.StatusBadRequest
			message = err.Error()
		case errors.Is(err, ocr.ErrEmptyDocument):
			status = http.StatusUnprocessableEntity
			message = "no readable text found in the image"
		}
		c.JSON(status, gin.H{"success": false, "error": message})
		return
	}

	resp := analyzeResponse{
		Success:          true,
		Analysis:         outcome.Analysis,
		DetectedLanguage: outcome.DetectedLanguage,
		DuplicateUpload:  duplicate,
	}
	if outcome.AudioPath != "" {
		resp.AudioURL = "/audio/" + filepath.Base(outcome.AudioPath)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) logAnalysisError(c *gin.Context, err error) {
	requestID, _ := c.Get("request_id")
	id, _ := requestID.(string)
	reqLog := logger.WithRequestID(id)
	reqLog.Error().Err(err).Msg("analysis failed")
}
