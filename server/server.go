// Package server serves the sandbox tools over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/xraph/sandbox/tools"
)

// ShutdownTimeout bounds the graceful drain in Run.
const ShutdownTimeout = 10 * time.Second

// maxBody caps a tool call request body.
const maxBody = 1 << 20

// Content is one block of a tool response.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResponse is the body of POST /tools/:name.
type CallResponse struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError"`
}

// Options configure a Server.
type Options struct {
	Addr           string
	AllowedOrigins []string
	Logger         *slog.Logger

	// Metrics, when set, is served at GET /metrics.
	Metrics prometheus.Gatherer
}

// Server routes HTTP requests to a Toolbox.
type Server struct {
	toolbox    *tools.Toolbox
	logger     *slog.Logger
	router     *gin.Engine
	httpServer *http.Server
}

// New builds the router and HTTP server.
func New(toolbox *tools.Toolbox, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		toolbox: toolbox,
		logger:  logger,
		router:  gin.New(),
	}
	s.router.Use(s.requestLogger(), gin.Recovery())
	s.routes()
	if opts.Metrics != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Metrics, promhttp.HandlerOpts{})))
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler(s.router)

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
	}
	return s
}

// Handler returns the root handler, CORS included.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) routes() {
	s.router.GET("/health", s.health)
	s.router.GET("/tools", s.listTools)
	s.router.POST("/tools/:name", s.callTool)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": s.toolbox.List()})
}

func (s *Server) callTool(c *gin.Context) {
	name := c.Param("name")
	if !s.toolbox.Has(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown tool: " + name})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBody))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}

	res, err := s.toolbox.Call(c.Request.Context(), name, json.RawMessage(body))
	if errors.Is(err, tools.ErrUnknownTool) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.logger.Error("tool call failed", "tool", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, CallResponse{
		Content: []Content{{Type: "text", Text: res.Text}},
		IsError: res.IsError,
	})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("sandbox server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down sandbox server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
