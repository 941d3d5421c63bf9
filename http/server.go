package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/jobtrack"
	"github.com/fwojciec/jobtrack/extract"
	"github.com/fwojciec/jobtrack/ingest"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// StatusClientClosedRequest is returned when the caller disconnects before
// the work it asked for completes.
const StatusClientClosedRequest = 499

// ShutdownTimeout bounds graceful shutdown in Close.
const ShutdownTimeout = 10 * time.Second

// Processor runs extraction for one or all postings.
type Processor interface {
	ProcessPosting(ctx context.Context, postingID string) (*jobtrack.Record, error)
	ProcessAll(ctx context.Context, progress extract.ProgressFunc) (*extract.BatchResult, error)
}

// Importer stores postings found on web pages.
type Importer interface {
	Import(ctx context.Context, rawURL string, opts ingest.ImportOptions) (*jobtrack.Posting, error)
}

// Server serves the jobtrack HTTP API.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *gin.Engine

	// Addr is the address to listen on, e.g. ":5000".
	Addr string

	Logger         *slog.Logger
	PostingService jobtrack.PostingService
	RecordService  jobtrack.RecordService
	Processor      Processor

	// Importer is optional; without it the import route is not registered.
	Importer Importer
}

// NewServer returns a Server with its dependencies unset.
// Set them before calling Handler or Open.
func NewServer() *Server {
	return &Server{Logger: slog.Default()}
}

// Handler builds the router. It is exposed for tests; Open calls it.
func (s *Server) Handler() http.Handler {
	if s.router != nil {
		return s.router
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests(), cors.New(corsConfig()))

	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	api.POST("/jobs", s.handleCreatePosting)
	api.GET("/jobs/:id", s.handleGetPosting)
	if s.Importer != nil {
		api.POST("/jobs/import", s.handleImportPosting)
	}
	api.POST("/entities/process", s.handleProcess)
	api.POST("/entities/processAll", s.handleProcessAll)
	api.GET("/entities", s.handleListRecords)
	api.GET("/entities/:id", s.handleGetRecord)

	s.router = r
	return r
}

// Open starts listening and serves requests in the background.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Addr, err)
	}
	s.ln = ln
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http server", "err", err)
		}
	}()
	return nil
}

// URL returns the base URL the server is listening on.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	return cfg
}

// logRequests logs one line per request.
func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		path := c.Request.URL.Path

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(begin),
			"ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			s.Logger.Error("http request", append(attrs, "err", c.Errors.String())...)
			return
		}
		s.Logger.Info("http request", attrs...)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createPostingRequest struct {
	Content string          `json:"content"`
	Source  jobtrack.Source `json:"source"`
}

func (s *Server) handleCreatePosting(c *gin.Context) {
	var req createPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, jobtrack.Errorf(jobtrack.EINVALID, "invalid request body: %v", err))
		return
	}

	posting := &jobtrack.Posting{Content: req.Content, Source: req.Source}
	if err := s.PostingService.CreatePosting(c.Request.Context(), posting); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "job": posting})
}

func (s *Server) handleGetPosting(c *gin.Context) {
	posting, err := s.PostingService.FindPostingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "job": posting})
}

type importPostingRequest struct {
	URL     string `json:"url"`
	Browser bool   `json:"browser"`
}

func (s *Server) handleImportPosting(c *gin.Context) {
	var req importPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, jobtrack.Errorf(jobtrack.EINVALID, "invalid request body: %v", err))
		return
	}

	posting, err := s.Importer.Import(c.Request.Context(), req.URL, ingest.ImportOptions{Browser: req.Browser})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "job": posting})
}

func (s *Server) handleProcess(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		s.writeError(c, jobtrack.Errorf(jobtrack.EINVALID, "query parameter id required"))
		return
	}

	record, err := s.Processor.ProcessPosting(c.Request.Context(), id)
	if jobtrack.ErrorCode(err) == jobtrack.ECANCELED {
		// The caller is gone; record the outcome without a body.
		s.Logger.Info("process canceled", "posting", id)
		c.AbortWithStatus(StatusClientClosedRequest)
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "entity": record})
}

func (s *Server) handleProcessAll(c *gin.Context) {
	progress := func(e extract.ProgressEvent) {
		switch e.Type {
		case extract.ProgressSaved:
			s.Logger.Info("record saved", "posting", e.PostingID, "record", e.RecordID, "completed", e.Completed, "total", e.Total)
		case extract.ProgressFailed:
			s.Logger.Warn("posting skipped", "posting", e.PostingID, "code", jobtrack.ErrorCode(e.Error), "err", e.Error)
		}
	}

	result, err := s.Processor.ProcessAll(c.Request.Context(), progress)
	switch {
	case jobtrack.ErrorCode(err) == jobtrack.ECANCELED:
		if result != nil {
			s.Logger.Info("batch canceled", "processed", result.Processed, "skipped", result.Skipped, "failed", result.Failed)
		}
		c.JSON(StatusClientClosedRequest, gin.H{"status": "error", "detail": "client disconnected"})
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "detail": jobtrack.ErrorMessage(err)})
	default:
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"detail": fmt.Sprintf("processed %d, skipped %d, failed %d", result.Processed, result.Skipped, result.Failed),
			"result": result,
		})
	}
}

func (s *Server) handleListRecords(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		s.writeError(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		s.writeError(c, err)
		return
	}

	records, err := s.RecordService.FindRecords(c.Request.Context(), jobtrack.RecordFilter{Limit: limit, Offset: offset})
	if err != nil {
		s.writeError(c, err)
		return
	}
	if records == nil {
		records = []*jobtrack.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "entities": records})
}

func (s *Server) handleGetRecord(c *gin.Context) {
	record, err := s.RecordService.FindRecordByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "entity": record})
}

func queryInt(c *gin.Context, name string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, jobtrack.Errorf(jobtrack.EINVALID, "query parameter %s must be a non-negative integer", name)
	}
	return n, nil
}

// writeError writes an error response. Upstream and internal failures get a
// generic detail; their cause is only logged.
func (s *Server) writeError(c *gin.Context, err error) {
	code := jobtrack.ErrorCode(err)
	status := ErrorStatusCode(code)

	detail := jobtrack.ErrorMessage(err)
	switch code {
	case jobtrack.EUNAVAILABLE:
		detail = "Upstream service unavailable."
	case jobtrack.EINTERNAL:
		detail = "Internal error."
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"status": "error", "detail": detail})
}

var codes = map[string]int{
	jobtrack.ECONFLICT:    http.StatusConflict,
	jobtrack.EINVALID:     http.StatusBadRequest,
	jobtrack.ENOTFOUND:    http.StatusNotFound,
	jobtrack.ECANCELED:    StatusClientClosedRequest,
	jobtrack.EEXTRACT:     http.StatusInternalServerError,
	jobtrack.EUNAVAILABLE: http.StatusBadGateway,
	jobtrack.EINTERNAL:    http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status for an error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}
