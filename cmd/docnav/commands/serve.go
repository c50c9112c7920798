package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/docnav/internal/config"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/navstore"
	"git.home.luguber.info/inful/docnav/internal/scheduler"
	"git.home.luguber.info/inful/docnav/internal/server/httpserver"
	"git.home.luguber.info/inful/docnav/internal/watcher"
)

const shutdownTimeout = 30 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Registry  string `short:"r" help:"Registry artifact to serve (default from config)"`
	DocsPort  int    `name:"docs-port" help:"Docs server port (default from config)"`
	AdminPort int    `name:"admin-port" help:"Admin server port (default from config)"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	s.applyOverrides(cfg)
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}
	configureLogging(cfg, root.Verbose)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, cfg, nil)
}

func (s *ServeCmd) applyOverrides(cfg *config.Config) {
	if s.Registry != "" {
		cfg.Docs.RegistryFile = s.Registry
	}
	if s.DocsPort != 0 {
		cfg.Server.DocsPort = s.DocsPort
	}
	if s.AdminPort != 0 {
		cfg.Server.AdminPort = s.AdminPort
	}
}

// configureLogging switches the default logger to the configured format and level.
func configureLogging(cfg *config.Config, verbose bool) {
	level := cfg.Monitoring.Logging.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Monitoring.Logging.Format == config.LogFormatJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// RunServe loads the registry, starts the servers and reload triggers, and
// blocks until ctx is canceled. When ready is non-nil it receives the running
// server once both listeners are bound.
func RunServe(ctx context.Context, cfg *config.Config, ready chan<- *httpserver.Server) error {
	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		opts     httpserver.Options
	)
	if cfg.Monitoring.Metrics.Enabled {
		reg := prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewPrometheusRecorder(reg)
		opts.MetricsHandler = metrics.HTTPHandler(reg)
	}
	opts.Recorder = recorder

	store, err := navstore.Open(ctx, cfg.Docs.RegistryFile,
		navstore.WithRegistryOptions(registryOptions(cfg)...),
		navstore.WithRecorder(recorder))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRegistry, "failed to load route registry").
			WithContext("file", cfg.Docs.RegistryFile).
			UserAction().
			Build()
	}

	srv := httpserver.New(cfg, store, opts)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	stops, err := startReloaders(ctx, cfg, store)
	if err != nil {
		_ = srv.Stop(context.Background())
		return err
	}
	if ready != nil {
		ready <- srv
	}

	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping server...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	var errs []error
	for _, stop := range stops {
		if err := stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := srv.Stop(stopCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// startReloaders wires the registry file watcher and the reload schedule.
// It returns stop functions for whatever was started.
func startReloaders(ctx context.Context, cfg *config.Config, store *navstore.Store) ([]func() error, error) {
	var stops []func() error
	reload := store.ReloadFunc()

	if cfg.Registry.Watch {
		path := store.Path()
		w, err := watcher.New([]string{filepath.Dir(path)}, reload, watcher.WithFilter(watcher.FileFilter(path)))
		if err != nil {
			return nil, err
		}
		if err := w.Start(ctx); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to watch registry file").
				WithContext("file", path).
				Build()
		}
		stops = append(stops, w.Stop)
	}

	if cfg.Registry.ReloadSchedule != "" {
		sched, err := scheduler.New()
		if err != nil {
			return stopAll(stops), err
		}
		if _, err := sched.Schedule(ctx, "registry-reload", cfg.Registry.ReloadSchedule, reload); err != nil {
			_ = sched.Stop()
			return stopAll(stops), fmt.Errorf("schedule registry reload: %w", err)
		}
		sched.Start()
		stops = append(stops, sched.Stop)
	}

	slog.Info("Registry reload triggers ready",
		slog.Bool("watch", cfg.Registry.Watch),
		slog.String("schedule", cfg.Registry.ReloadSchedule),
		logfields.File(store.Path()))
	return stops, nil
}

// stopAll stops what was already started and returns nil so callers can
// report only the original error.
func stopAll(stops []func() error) []func() error {
	for _, stop := range stops {
		_ = stop()
	}
	return nil
}
