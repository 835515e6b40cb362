// Package site serves the portfolio page, its chart images and the optional
// visitor admin endpoints.
package site

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/justinas/alice"
	"github.com/klauspost/compress/gzhttp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/dcabrera/portfolio/internal/config"
	"github.com/dcabrera/portfolio/internal/content"
	"github.com/dcabrera/portfolio/internal/logging"
	"github.com/dcabrera/portfolio/internal/visitors"
)

const svgContentType = "image/svg+xml"

type Options struct {
	Config     *config.Config
	Page       *Page
	Tracker    *visitors.Tracker // nil when tracking is disabled
	Cleaner    *visitors.Cleaner
	AdminToken string
}

type Server struct {
	cfg        *config.Config
	page       *Page
	tracker    *visitors.Tracker
	cleaner    *visitors.Cleaner
	adminToken string
	handler    http.Handler
	httpServer *http.Server
}

func NewServer(opts Options) (*Server, error) {
	if opts.Page == nil {
		return nil, errors.New("site: page is required")
	}
	tmpl, err := Templates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:        opts.Config,
		page:       opts.Page,
		tracker:    opts.Tracker,
		cleaner:    opts.Cleaner,
		adminToken: opts.AdminToken,
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger())
	if s.tracker != nil {
		r.Use(s.tracker.Middleware())
	}
	r.SetHTMLTemplate(tmpl)
	s.routes(r)

	middlewares := []alice.Constructor{securityHeaders}
	if s.cfg.Server.GzipEnabled {
		middlewares = append(middlewares, compressResponses)
	}
	s.handler = alice.New(middlewares...).Then(r)

	s.httpServer = &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
	}
	return s, nil
}

// Handler is the full middleware chain around the router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(r *gin.Engine) {
	r.StaticFS("/static", http.FS(staticFiles()))

	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", s.page.HTML)
	})

	r.GET("/charts/sales.svg", s.svg(s.page.SalesSVG))
	r.GET("/charts/platforms.svg", s.svg(s.page.PlatformSVG))

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"Name":          content.Name,
			"Tracking":      s.tracker != nil,
			"RetentionDays": s.cfg.Visitors.RetentionDays,
		})
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.adminRoutes(r)
}

func (s *Server) svg(body []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, svgContentType, body)
	}
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

func compressResponses(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("address", s.httpServer.Addr).Info("server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listening")
	case sig := <-done:
		logrus.WithField("signal", sig.String()).Info("shutdown signal received")
	case <-ctx.Done():
		logrus.Info("context cancelled")
	}

	timeout := s.cfg.Server.ShutdownTimeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logrus.WithField("timeout", timeout.String()).Info("shutting down server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down server")
	}

	logrus.Info("server stopped")
	return nil
}
