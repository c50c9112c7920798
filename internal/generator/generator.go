// Package generator scans a documentation content tree and produces the route
// registry artifact. It is an explicitly invoked build step; the server never
// scans the filesystem at request time.
//
// Layout: one subdirectory of the content root per version. Below a version,
// every directory is a route node titled after its name. A directory that
// contains subdirectories is a group header; any other directory is a page.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/manifest"
	"git.home.luguber.info/inful/docnav/internal/routes"
)

// Generator builds registry artifacts from a content directory.
type Generator struct {
	ContentDir     string
	DefaultVersion string

	// Clock and NewID are replaceable for deterministic output in tests.
	Clock func() time.Time
	NewID func() string
}

// New creates a Generator for contentDir.
func New(contentDir, defaultVersion string) *Generator {
	return &Generator{
		ContentDir:     contentDir,
		DefaultVersion: defaultVersion,
		Clock:          func() time.Time { return time.Now().UTC() },
		NewID:          uuid.NewString,
	}
}

// Scan walks the content directory and returns the manifest it describes.
func (g *Generator) Scan(ctx context.Context) (*manifest.Manifest, error) {
	info, err := os.Stat(g.ContentDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrContentDirMissing, g.ContentDir)
	}

	versionDirs, err := subdirs(g.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}

	t := newTitler()
	trees := make(map[string][]routes.Node, len(versionDirs))
	ids := make([]string, 0, len(versionDirs))
	for _, v := range versionDirs {
		nodes, err := g.scanDir(ctx, t, filepath.Join(g.ContentDir, v), "/")
		if err != nil {
			return nil, fmt.Errorf("version %s: %w", v, err)
		}
		if len(nodes) == 0 {
			slog.Warn("Skipping version without content", logfields.Version(v))
			continue
		}
		trees[v] = nodes
		ids = append(ids, v)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoVersions, g.ContentDir)
	}
	if g.DefaultVersion != "" {
		if _, ok := trees[g.DefaultVersion]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrDefaultVersionMissing, g.DefaultVersion)
		}
	}

	ordered := orderVersions(ids, g.DefaultVersion)
	m := &manifest.Manifest{
		Schema:       manifest.SchemaVersion,
		GenerationID: g.newID(),
		GeneratedAt:  g.now(),
		SourceCommit: sourceCommit(g.ContentDir),
		Versions:     make([]routes.VersionTree, 0, len(ordered)),
	}
	for _, v := range ordered {
		m.Versions = append(m.Versions, routes.VersionTree{Version: v, Routes: trees[v]})
	}
	return m, nil
}

// scanDir turns the subdirectories of dir into nodes whose hrefs extend prefix.
func (g *Generator) scanDir(ctx context.Context, t *titler, dir, prefix string) ([]routes.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names, err := subdirs(dir)
	if err != nil || len(names) == 0 {
		return nil, err
	}
	nodes := make([]routes.Node, 0, len(names))
	for _, name := range names {
		href := path.Join(prefix, name)
		children, err := g.scanDir(ctx, t, filepath.Join(dir, name), href)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, routes.Node{
			Title:       t.Title(name),
			Href:        href,
			GroupHeader: len(children) > 0,
			Children:    children,
		})
	}
	return nodes, nil
}

// Generate scans, validates and writes the artifact to out.
func (g *Generator) Generate(ctx context.Context, out string) (*manifest.Manifest, error) {
	start := time.Now()
	m, err := g.Scan(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := m.Registry()
	if err != nil {
		return nil, err
	}
	if err := m.Write(out); err != nil {
		return nil, err
	}

	pages := 0
	for _, v := range reg.SupportedVersions() {
		pages += len(reg.Pages(v))
	}
	slog.Info("Route registry generated",
		logfields.File(out),
		logfields.GenerationID(m.GenerationID),
		slog.Any("versions", reg.SupportedVersions()),
		slog.Int("pages", pages),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return m, nil
}

func (g *Generator) now() time.Time {
	if g.Clock == nil {
		return time.Now().UTC()
	}
	return g.Clock()
}

func (g *Generator) newID() string {
	if g.NewID == nil {
		return uuid.NewString()
	}
	return g.NewID()
}

// subdirs lists the visible subdirectories of dir in name order. Names
// starting with "." or "_" are private and skipped.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.HasPrefix(e.Name(), "_") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
