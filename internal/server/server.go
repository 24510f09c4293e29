// Package server exposes the converter to a browser editor over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/alnah/go-md2wechat"
	"github.com/alnah/go-md2wechat/internal/logging"
)

// Backend is the converter surface the server needs.
type Backend interface {
	Render(ctx context.Context, input md2wechat.Input) (*md2wechat.RenderResult, error)
	Export(ctx context.Context, input md2wechat.Input) (*md2wechat.ExportResult, error)
	HandlePaste(ctx context.Context, buf *md2wechat.Buffer, cursor int, p md2wechat.PastePayload) (*md2wechat.PasteResult, error)
	Upload(ctx context.Context, buf *md2wechat.Buffer, cursor int, img md2wechat.Image) (*md2wechat.UploadResult, error)
	Styles(ctx context.Context) []md2wechat.StyleInfo
	DefaultStyleKey() string
	ToggleStar(ctx context.Context, key string) (bool, []md2wechat.Notification, error)
}

// Config configures a Server.
type Config struct {
	Addr           string
	AllowedOrigins []string
	// MaxBodyBytes bounds request bodies. Default 8 MiB.
	MaxBodyBytes int64
}

// DefaultMaxBodyBytes leaves room for a 5 MiB image plus form overhead.
const DefaultMaxBodyBytes = 8 << 20

// Server is the HTTP editor backend.
type Server struct {
	backend Backend
	cfg     Config
	logger  logging.Logger
	router  *gin.Engine
	server  *http.Server
}

// New creates a Server and registers its routes.
func New(backend Backend, cfg Config, logger logging.Logger) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		backend: backend,
		cfg:     cfg,
		logger:  logging.OrNoOp(logger),
		router:  gin.New(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(s.bodyLimitMiddleware())

	// Without configured origins the editor must be served same-origin.
	if len(s.cfg.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = s.cfg.AllowedOrigins
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
		s.router.Use(cors.New(corsConfig))
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.health)

	api := s.router.Group("/api")
	{
		api.POST("/render", s.render)
		api.POST("/export", s.export)
		api.POST("/paste", s.paste)
		api.POST("/upload", s.upload)
		api.GET("/styles", s.styles)
		api.POST("/styles/:key/star", s.toggleStar)
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func (s *Server) bodyLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxBodyBytes)
		}
		c.Next()
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("editor backend listening", "addr", s.cfg.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down editor backend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
