// Package navstore holds the live route registry. Readers take the current
// snapshot without locking; a reload builds a complete new snapshot and swaps
// it in atomically, so a request never observes a half-applied registry.
package navstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/manifest"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/routes"
)

// ErrNotLoaded is returned when the store has no snapshot yet.
var ErrNotLoaded = errors.New("route registry not loaded")

// Snapshot is one immutable registry generation.
type Snapshot struct {
	Registry *routes.Registry
	Meta     manifest.Meta
	Hash     string
	LoadedAt time.Time
}

// Store owns the registry artifact path and the current snapshot.
type Store struct {
	path     string
	regOpts  []routes.Option
	recorder metrics.Recorder

	current atomic.Pointer[Snapshot]
	// reloadMu serializes reloads; reads never take it.
	reloadMu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithRegistryOptions passes options to every registry the store builds.
func WithRegistryOptions(opts ...routes.Option) Option {
	return func(s *Store) { s.regOpts = append(s.regOpts, opts...) }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// New creates an empty store for the artifact at path.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and performs the initial load.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := New(path, opts...)
	if _, err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// FromRegistry creates a store serving reg directly, without an artifact.
func FromRegistry(reg *routes.Registry, meta manifest.Meta) *Store {
	s := New("")
	s.current.Store(&Snapshot{Registry: reg, Meta: meta, LoadedAt: time.Now()})
	return s
}

// Path returns the artifact path.
func (s *Store) Path() string { return s.path }

// Reload re-reads the artifact. It reports whether a new snapshot was
// installed; an unchanged artifact is not rebuilt. On error the previous
// snapshot stays in place.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s.path == "" {
		return false, errors.New("navstore: no artifact path")
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	m, hash, err := manifest.Read(s.path)
	if err != nil {
		return false, s.fail(err)
	}
	if prev := s.current.Load(); prev != nil && prev.Hash == hash {
		s.recorder.IncRegistryReload(metrics.ResultUnchanged)
		return false, nil
	}
	reg, err := m.Registry(s.regOpts...)
	if err != nil {
		return false, s.fail(fmt.Errorf("%s: %w", s.path, err))
	}

	snap := &Snapshot{Registry: reg, Meta: m.Meta(), Hash: hash, LoadedAt: time.Now()}
	s.current.Store(snap)
	s.recorder.IncRegistryReload(metrics.ResultSuccess)
	s.recorder.SetRegistryVersions(len(snap.Meta.Versions))
	slog.Info("Route registry loaded",
		logfields.File(s.path),
		logfields.GenerationID(snap.Meta.GenerationID),
		logfields.Version(reg.DefaultVersion()),
		logfields.Count(len(snap.Meta.Versions)))
	return true, nil
}

func (s *Store) fail(err error) error {
	s.recorder.IncRegistryReload(metrics.ResultFailed)
	if s.Loaded() {
		slog.Warn("Route registry reload failed; keeping previous snapshot",
			logfields.File(s.path), logfields.Error(err))
	}
	return err
}

// Snapshot returns the current snapshot, or nil before the first load.
func (s *Store) Snapshot() *Snapshot { return s.current.Load() }

// Registry returns the current registry, or nil before the first load.
func (s *Store) Registry() *routes.Registry {
	if snap := s.current.Load(); snap != nil {
		return snap.Registry
	}
	return nil
}

// Loaded reports whether a snapshot is available.
func (s *Store) Loaded() bool { return s.current.Load() != nil }

// ReloadFunc adapts Reload to the watcher and scheduler callback shape,
// logging instead of returning errors.
func (s *Store) ReloadFunc() func(ctx context.Context) {
	return func(ctx context.Context) {
		if _, err := s.Reload(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Route registry reload failed", logfields.File(s.path), logfields.Error(err))
		}
	}
}

// SupportedVersions returns the current registry's versions, or nil before
// the first load.
func (s *Store) SupportedVersions() []string {
	if reg := s.Registry(); reg != nil {
		return reg.SupportedVersions()
	}
	return nil
}

// DefaultVersion returns the current default version, or "" before the first load.
func (s *Store) DefaultVersion() string {
	if reg := s.Registry(); reg != nil {
		return reg.DefaultVersion()
	}
	return ""
}
