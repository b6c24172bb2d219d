package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"MorningRadar/internal/board"
	"MorningRadar/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// Board is what the dashboard reads from and triggers.
type Board interface {
	Refresh(ctx context.Context) *board.Report
	Latest() *board.Report
}

// Server is the HTTP dashboard and JSON API.
type Server struct {
	board      Board
	metrics    *metrics.Registry // optional
	refreshSec int
	log        *logrus.Entry
	engine     *gin.Engine
}

// NewServer builds the router. reg may be nil, which disables /metrics.
func NewServer(b Board, reg *metrics.Registry, refreshSec int, log *logrus.Logger) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		board:      b,
		metrics:    reg,
		refreshSec: refreshSec,
		log:        log.WithField("component", "web"),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(tmpl)

	r.GET("/", s.dashboard)
	r.GET("/healthz", s.healthz)
	api := r.Group("/api")
	{
		api.GET("/score", s.score)
		api.POST("/refresh", s.refresh)
	}
	if reg != nil {
		r.GET("/metrics", gin.WrapH(reg.Handler()))
	}
	s.engine = r
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("dashboard listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve dashboard: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown dashboard: %w", err)
	}
	s.log.Info("dashboard stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("request")
	}
}
