// =============================================================================
// Lançamentos Consolidator - HTTP Server
// =============================================================================
//
// The serve command exposes the pipeline over HTTP so the statement can be
// pasted from a browser or posted by another system.
//
// ROUTES:
//   GET  /api/health      liveness probe
//   GET  /api/categories  summary headers and the active classification rules
//   POST /api/process     pasted text in, summary out
//
// POST /api/process accepts either a text/plain body or a JSON body
// {"text": "...", "source": "..."}. The response is the JSON report unless
// ?format=csv|xml|xlsx asks for a download; ?entries=true adds the entries.
// Blank text answers 422 with the paste warning.
//
// =============================================================================

package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ginjaninja78/lancamentos/internal/config"
	"github.com/ginjaninja78/lancamentos/internal/converter"
	"github.com/ginjaninja78/lancamentos/internal/logger"
	"github.com/ginjaninja78/lancamentos/internal/report"
	"github.com/ginjaninja78/lancamentos/internal/textinput"
	"github.com/ginjaninja78/lancamentos/internal/types"
	"github.com/ginjaninja78/lancamentos/pkg/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultSource names API inputs that don't name themselves.
const DefaultSource = "api"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// ProcessRequest is the JSON body of POST /api/process.
type ProcessRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Server serves the pipeline over HTTP.
type Server struct {
	conv   *converter.Converter
	cfg    *config.MainConfig
	log    zerolog.Logger
	engine *gin.Engine
}

// New builds the server and its routes.
func New(conv *converter.Converter, cfg *config.MainConfig, log zerolog.Logger) *Server {
	s := &Server{conv: conv, cfg: cfg, log: log}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	api := router.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/categories", s.categories)
		api.POST("/process", s.process)
	}

	s.engine = router
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "lancamentos",
	})
}

func (s *Server) categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"headers": types.Headers(),
		"rules":   s.conv.Classifier().Rules(),
	})
}

func (s *Server) process(c *gin.Context) {
	format := report.FormatJSON
	if name := c.Query("format"); name != "" {
		f, err := report.ParseFormat(name)
		if err != nil || f == report.FormatTable {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported format %q", name)})
			return
		}
		format = f
	}
	entries, _ := strconv.ParseBool(c.Query("entries"))

	req, err := s.readRequest(c)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reqLog := logger.FromContext(c.Request.Context())

	result := s.conv.Run(req.Source, req.Text)
	if errors.Is(result.Error, converter.ErrEmptyInput) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"warning": converter.EmptyInputWarning})
		return
	}
	if errors.Is(result.Error, converter.ErrValidationFailed) {
		reqLog.Warn().Str("run_id", result.RunID).Err(result.Error).Msg("run rejected")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  result.Error.Error(),
			"run_id": result.RunID,
			"issues": result.Validation.Issues,
		})
		return
	}
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}

	reqLog.Info().
		Str("run_id", result.RunID).
		Str("source", result.Source).
		Int("entries", len(result.Entries)).
		Msg("statement processed")

	rep := report.Report{
		Source:      result.Source,
		RunID:       result.RunID,
		GeneratedAt: time.Now(),
		Summary:     result.Summary,
		Entries:     result.Entries,
		Issues:      result.Validation.Issues,
	}
	opts := report.Options{IncludeEntries: entries}

	if format == report.FormatJSON {
		c.JSON(http.StatusOK, report.NewDocument(rep, opts))
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, format, rep, opts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fileName := utils.GenerateOutputFileName(s.cfg.FileNameFormat, map[string]string{
		"uuid":     result.RunID,
		"original": utils.OriginalName(result.Source),
	}, format.Extension())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, contentType(format), buf.Bytes())
}

// readRequest extracts the pasted text from a JSON or plain-text body.
func (s *Server) readRequest(c *gin.Context) (ProcessRequest, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Server.MaxBodyBytes)

	var req ProcessRequest
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, fmt.Errorf("invalid JSON body: %w", err)
		}
	} else {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return req, err
		}
		req.Text = string(body)
	}

	text, err := textinput.Read(strings.NewReader(req.Text), "UTF-8")
	if err != nil {
		return req, err
	}
	req.Text = text

	if req.Source == "" {
		req.Source = DefaultSource
	}
	return req, nil
}

func contentType(format report.Format) string {
	switch format {
	case report.FormatCSV:
		return "text/csv; charset=utf-8"
	case report.FormatXML:
		return "application/xml; charset=utf-8"
	case report.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// requestLogger tags each request with an ID and puts the tagged logger in
// the request context for the handlers.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLog := s.log.With().Str("request_id", uuid.NewString()).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLog))
		c.Next()

		reqLog.Info().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
