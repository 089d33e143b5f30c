package main

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pratyushrajshrestha/portfolio/internal/config"
	"github.com/pratyushrajshrestha/portfolio/internal/contact"
	"github.com/pratyushrajshrestha/portfolio/internal/content"
	"github.com/pratyushrajshrestha/portfolio/internal/logfields"
	"github.com/pratyushrajshrestha/portfolio/internal/metrics"
	"github.com/pratyushrajshrestha/portfolio/internal/nav"
	"github.com/pratyushrajshrestha/portfolio/internal/store"
)

type serverDeps struct {
	content *content.Store
	db      *store.Store
	contact *contact.Service
	nav     *nav.Registry
	metrics *metrics.Recorder
}

type server struct {
	serverDeps
	cfg   *config.Config
	tmpl  *template.Template
	admin *adminAuth
	now   func() time.Time
}

func newServer(cfg *config.Config, deps serverDeps) (*server, error) {
	tmpl, err := parseTemplates(content.NewMarkdown())
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	admin, err := newAdminAuth(cfg)
	if err != nil {
		return nil, err
	}

	s := &server{serverDeps: deps, cfg: cfg, tmpl: tmpl, admin: admin, now: time.Now}
	deps.nav.OnOpen(func(id string, h *nav.Header) {
		h.OnChange(func(prev, next string) {
			s.metrics.SectionActivated(next)
			slog.Debug("Active section changed",
				logfields.Session(id), logfields.Section(next), slog.String("previous", prev))
		})
	})
	return s, nil
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), s.visitorTracking())
	r.SetHTMLTemplate(s.tmpl)

	r.StaticFS("/static", http.FS(staticFS()))
	r.Static("/images", "./images")

	r.GET("/", s.index)
	r.GET("/resume", s.resume)
	r.GET("/privacy", s.privacy)

	navGroup := r.Group("/nav")
	navGroup.POST("/mount", s.navMount)
	navGroup.POST("/scroll", s.navScroll)
	navGroup.POST("/menu", s.navMenu)
	navGroup.POST("/close", s.navClose)

	r.GET("/stats/:index/stream", s.statStream)
	r.POST("/contact", s.submitContact)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.adminRoutes(r)
	return r
}

// quietPrefixes are logged at debug level only.
var quietPrefixes = []string{"/static/", "/images/", "/nav/scroll", "/metrics"}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case hasAnyPrefix(path, quietPrefixes):
			level = slog.LevelDebug
		}
		slog.LogAttrs(c.Request.Context(), level, "Request",
			logfields.Method(c.Request.Method),
			logfields.Path(path),
			logfields.Status(status),
			logfields.Duration(time.Since(start)))
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
