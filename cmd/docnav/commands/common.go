// Package commands implements the docnav CLI commands.
package commands

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docnav/internal/config"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/manifest"
	"git.home.luguber.info/inful/docnav/internal/routes"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "docnav.yaml"

// Global carries state shared by all commands.
type Global struct {
	Out io.Writer
}

// NewGlobal returns the process-wide defaults.
func NewGlobal() *Global { return &Global{Out: os.Stdout} }

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docnav.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve    ServeCmd    `cmd:"" help:"Serve versioned documentation navigation and the version redirect gate"`
	Generate GenerateCmd `cmd:"" help:"Generate the route registry from a content directory"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Inspect  InspectCmd  `cmd:"" help:"Inspect a route registry artifact"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig reads the configuration file. A missing file at the default
// path is not an error; built-in defaults are used instead.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, config.ErrNotFound) && path == DefaultConfigPath {
		slog.Debug("No configuration file, using defaults", slog.String("config", path))
		return config.Default(), nil
	}
	if ferrors.HasCategory(err, ferrors.CategoryConfig) {
		return nil, err
	}
	return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load configuration").
		WithContext("config", path).
		UserAction().
		Build()
}

// registryOptions maps configuration onto registry construction options.
func registryOptions(cfg *config.Config) []routes.Option {
	return []routes.Option{
		routes.WithDocsRoot(cfg.Docs.Root),
		routes.WithNotFoundPolicy(cfg.Docs.NotFound.Policy()),
	}
}

// openRegistry loads the artifact at path.
func openRegistry(cfg *config.Config, path string) (*manifest.Manifest, *routes.Registry, error) {
	m, _, err := manifest.Read(path)
	if err != nil {
		return nil, nil, ferrors.WrapError(err, ferrors.CategoryRegistry, "failed to read route registry").
			WithContext("file", path).
			Build()
	}
	reg, err := m.Registry(registryOptions(cfg)...)
	if err != nil {
		return nil, nil, ferrors.WrapError(err, ferrors.CategoryRegistry, "invalid route registry").
			WithContext("file", path).
			Build()
	}
	return m, reg, nil
}
