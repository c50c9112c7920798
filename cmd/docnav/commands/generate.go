package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docnav/internal/config"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/generator"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/manifest"
	"git.home.luguber.info/inful/docnav/internal/watcher"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	ContentDir     string `name:"content-dir" short:"d" help:"Content directory with one subdirectory per version (default from config)"`
	Out            string `short:"o" help:"Registry artifact to write; .json selects JSON (default from config)"`
	DefaultVersion string `name:"default-version" help:"Version to serve for unversioned paths (default: newest)"`
	Watch          bool   `short:"w" help:"Regenerate whenever the content directory changes"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	c.applyConfig(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m, err := c.generate(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "Wrote %s (%d versions, default %s)\n", c.Out, len(m.Versions), m.Versions[0].Version)

	if !c.Watch {
		return nil
	}
	return c.watch(ctx)
}

// applyConfig fills unset flags from configuration.
func (c *GenerateCmd) applyConfig(cfg *config.Config) {
	if c.ContentDir == "" {
		c.ContentDir = cfg.Docs.ContentDir
	}
	if c.Out == "" {
		c.Out = cfg.Docs.RegistryFile
	}
	if c.DefaultVersion == "" {
		c.DefaultVersion = cfg.Docs.DefaultVersion
	}
}

func (c *GenerateCmd) generate(ctx context.Context) (*manifest.Manifest, error) {
	m, err := generator.New(c.ContentDir, c.DefaultVersion).Generate(ctx, c.Out)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryGenerator, "route registry generation failed").
			WithContext("content_dir", c.ContentDir).
			WithContext("out", c.Out).
			Build()
	}
	return m, nil
}

// watch regenerates on content changes until ctx is canceled. Failed
// regenerations are logged and leave the previous artifact in place.
func (c *GenerateCmd) watch(ctx context.Context) error {
	w, err := watcher.New([]string{c.ContentDir}, func(ctx context.Context) {
		if _, err := c.generate(ctx); err != nil {
			slog.Error("Regeneration failed", logfields.Path(c.ContentDir), logfields.Error(err))
		}
	}, watcher.WithRecursive())
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to watch content directory").
			WithContext("content_dir", c.ContentDir).
			Build()
	}
	<-ctx.Done()
	slog.Info("Stopping content watch")
	return w.Stop()
}
