// Package httpserver runs the docs and admin HTTP servers.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/docnav/internal/config"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/server/handlers"
	"git.home.luguber.info/inful/docnav/internal/versiongate"
)

// Store is the registry view the servers read on every request.
type Store interface {
	handlers.SnapshotSource
	versiongate.VersionSource
}

// Options carries optional collaborators.
type Options struct {
	// Renderer renders documentation pages; nil uses the built-in HTML page.
	Renderer handlers.PageRenderer
	// Recorder receives gate, lookup and request metrics.
	Recorder metrics.Recorder
	// MetricsHandler serves the metrics path on the admin server when enabled.
	MetricsHandler http.Handler
	// Logger is used for request logs; nil uses slog.Default().
	Logger *slog.Logger
}

// Server manages the docs and admin HTTP endpoints.
type Server struct {
	cfg          *config.Config
	store        Store
	opts         Options
	gate         *versiongate.Gate
	errorAdapter *ferrors.HTTPErrorAdapter
	startTime    time.Time

	docsServer  *http.Server
	adminServer *http.Server
	docsAddr    net.Addr
	adminAddr   net.Addr
}

// New constructs the servers without binding any ports.
func New(cfg *config.Config, store Store, opts Options) *Server {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{
		cfg:          cfg,
		store:        store,
		opts:         opts,
		errorAdapter: ferrors.NewHTTPErrorAdapter(opts.Logger),
		startTime:    time.Now(),
	}
	s.gate = versiongate.New(cfg.Docs.Root, store,
		versiongate.WithExemptPrefixes(cfg.Docs.AssetPrefixes...),
		versiongate.WithRedirectStatus(cfg.Server.RedirectStatus),
		versiongate.WithRecorder(opts.Recorder),
		versiongate.WithLogger(opts.Logger))
	return s
}

// Start binds both ports before serving so a port conflict fails the whole
// start instead of leaving one server running.
func (s *Server) Start(ctx context.Context) error {
	type preBind struct {
		name string
		port int
		ln   net.Listener
	}
	binds := []preBind{
		{name: "docs", port: s.cfg.Server.DocsPort},
		{name: "admin", port: s.cfg.Server.AdminPort},
	}
	var bindErrs []error
	lc := net.ListenConfig{}
	for i := range binds {
		ln, err := lc.Listen(ctx, "tcp", fmt.Sprintf(":%d", binds[i].port))
		if err != nil {
			bindErrs = append(bindErrs, fmt.Errorf("%s port %d: %w", binds[i].name, binds[i].port, err))
			continue
		}
		binds[i].ln = ln
	}
	if len(bindErrs) > 0 {
		for _, b := range binds {
			if b.ln != nil {
				_ = b.ln.Close()
			}
		}
		return ferrors.WrapError(errors.Join(bindErrs...), ferrors.CategoryRuntime, "http startup failed").Fatal().Build()
	}
	return s.StartWithListeners(binds[0].ln, binds[1].ln)
}

// StartWithListeners serves on listeners the caller already bound.
func (s *Server) StartWithListeners(docsLn, adminLn net.Listener) error {
	s.docsServer = &http.Server{Handler: s.DocsHandler(), ReadHeaderTimeout: 10 * time.Second, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second, IdleTimeout: 120 * time.Second}
	s.adminServer = &http.Server{Handler: s.AdminHandler(), ReadHeaderTimeout: 10 * time.Second, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second, IdleTimeout: 120 * time.Second}
	s.docsAddr = docsLn.Addr()
	s.adminAddr = adminLn.Addr()

	s.serve("docs", s.docsServer, docsLn)
	s.serve("admin", s.adminServer, adminLn)
	slog.Info("HTTP servers started",
		slog.String("docs_addr", s.docsAddr.String()),
		slog.String("admin_addr", s.adminAddr.String()),
		slog.String("docs_root", s.gate.Root()))
	return nil
}

// DocsAddr returns the bound docs address, or nil before Start.
func (s *Server) DocsAddr() net.Addr { return s.docsAddr }

// AdminAddr returns the bound admin address, or nil before Start.
func (s *Server) AdminAddr() net.Addr { return s.adminAddr }

// Stop gracefully shuts down both servers.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error
	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
		}
	}
	if s.docsServer != nil {
		if err := s.docsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("docs server shutdown: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}
	slog.Info("HTTP servers stopped")
	return nil
}

func (s *Server) serve(kind string, srv *http.Server, ln net.Listener) {
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error(kind+" server error", logfields.Error(err))
		}
	}()
}
