package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/pratyushrajshrestha/portfolio/internal/config"
	"github.com/pratyushrajshrestha/portfolio/internal/contact"
	"github.com/pratyushrajshrestha/portfolio/internal/content"
	"github.com/pratyushrajshrestha/portfolio/internal/jobs"
	"github.com/pratyushrajshrestha/portfolio/internal/logfields"
	"github.com/pratyushrajshrestha/portfolio/internal/metrics"
	"github.com/pratyushrajshrestha/portfolio/internal/nav"
	"github.com/pratyushrajshrestha/portfolio/internal/scrollspy"
	"github.com/pratyushrajshrestha/portfolio/internal/store"
)

var CLI struct {
	Config  config.Config `embed:""`
	Verbose bool          `short:"v" help:"Enable verbose logging" env:"VERBOSE"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("portfolio"),
		kong.Description("Personal portfolio site with a live navigation highlight and a contact form."))

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	kctx.FatalIfErrorf(CLI.Config.Validate())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, &CLI.Config); err != nil {
		slog.Error("Server failed", logfields.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := store.Open(cfg.DBPath, store.WithMkdirAll())
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Warn("Failed to close database", logfields.Error(err))
		}
	}()

	docs, err := content.NewStore(cfg.ContentPath)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	rec := metrics.New(prom.NewRegistry())
	docs.OnReload(func(*content.Content) { rec.ContentReloaded() })

	forwarder := contact.Select(
		contact.NewSMTPForwarder(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.ToEmail),
		formEndpoint(cfg, docs.Get()))
	slog.Info("Contact forwarding", slog.String("forwarder", fmt.Sprintf("%T", forwarder)))

	registry := nav.NewRegistry(func() []content.NavLink { return docs.Get().Nav }, scrollspy.DefaultOptions())

	srv, err := newServer(cfg, serverDeps{
		content: docs,
		db:      db,
		contact: contact.NewService(db, forwarder),
		nav:     registry,
		metrics: rec,
	})
	if err != nil {
		return err
	}

	sched, err := jobs.NewScheduler()
	if err != nil {
		return err
	}
	sched.OnPurged = rec.VisitorsPurged
	sched.OnSessions = rec.SetNavSessions
	if err := sched.ScheduleVisitorCleanup(db, cfg.VisitorRetention, 24*time.Hour); err != nil {
		return err
	}
	if err := sched.ScheduleNavSweep(registry, cfg.NavIdle, time.Minute); err != nil {
		return err
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			slog.Warn("Failed to stop scheduler", logfields.Error(err))
		}
	}()

	if err := docs.Watch(ctx); err != nil {
		slog.Warn("Content hot reload disabled", logfields.Path(docs.Path()), logfields.Error(err))
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", slog.String("addr", httpServer.Addr), slog.String("mode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// formEndpoint prefers the configured endpoint over the content document's.
func formEndpoint(cfg *config.Config, doc *content.Content) string {
	if cfg.FormEndpoint != "" {
		return cfg.FormEndpoint
	}
	return doc.Form.Endpoint
}
