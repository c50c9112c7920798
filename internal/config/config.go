// Package config loads the docnav configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// CurrentVersion is the configuration format version this package reads.
const CurrentVersion = "1.0"

// ErrNotFound indicates the configuration file does not exist.
var ErrNotFound = errors.New("configuration file not found")

// Config is the complete docnav configuration.
type Config struct {
	Version    string           `yaml:"version"`
	Docs       DocsConfig       `yaml:"docs"`
	Server     ServerConfig     `yaml:"server"`
	Registry   RegistryConfig   `yaml:"registry"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// DocsConfig describes the documentation tree and its registry artifact.
type DocsConfig struct {
	Root           string       `yaml:"root"`            // URL prefix of documentation pages
	ContentDir     string       `yaml:"content_dir"`     // Source tree scanned by the generator
	RegistryFile   string       `yaml:"registry_file"`   // Generated artifact the server loads
	DefaultVersion string       `yaml:"default_version"` // Overrides the newest version as default
	NotFound       NotFoundMode `yaml:"not_found"`       // Adjacency for pages missing from the tree
	AssetPrefixes  []string     `yaml:"asset_prefixes"`  // Paths exempt from the version gate
	AssetDir       string       `yaml:"asset_dir"`       // Served under each asset prefix; empty leaves them to a fronting server
}

// ServerConfig describes the HTTP listeners.
type ServerConfig struct {
	DocsPort       int `yaml:"docs_port"`
	AdminPort      int `yaml:"admin_port"`
	RedirectStatus int `yaml:"redirect_status"`
}

// RegistryConfig controls how the server picks up a regenerated artifact.
type RegistryConfig struct {
	Watch          bool   `yaml:"watch"`
	ReloadSchedule string `yaml:"reload_schedule"` // Interval ("10m") or cron expression
}

// MonitoringConfig groups observability settings.
type MonitoringConfig struct {
	Metrics MonitoringMetrics `yaml:"metrics"`
	Health  MonitoringHealth  `yaml:"health"`
	Logging MonitoringLogging `yaml:"logging"`
	Tracing MonitoringTracing `yaml:"tracing"`
}

// MonitoringMetrics represents metrics configuration.
type MonitoringMetrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MonitoringHealth represents health check configuration.
type MonitoringHealth struct {
	Path string `yaml:"path"`
}

// MonitoringLogging represents logging configuration.
type MonitoringLogging struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MonitoringTracing names the tracer used for request spans.
type MonitoringTracing struct {
	TracerName string `yaml:"tracer_name"`
}

// Load reads, normalizes, defaults and validates the configuration at path.
// Variables from .env and .env.local are loaded first without overriding the
// process environment, then ${VAR} references in the file are expanded.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported configuration version: %q (expected %s)", cfg.Version, CurrentVersion)
	}
	if err := finish(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a validated configuration built from defaults alone.
func Default() *Config {
	cfg := &Config{
		Version:    CurrentVersion,
		Registry:   RegistryConfig{Watch: true},
		Monitoring: MonitoringConfig{Metrics: MonitoringMetrics{Enabled: true}},
	}
	if err := finish(cfg); err != nil {
		// Defaults always validate.
		panic(err)
	}
	return cfg
}

func finish(cfg *Config) error {
	res := NormalizeConfig(cfg)
	for _, w := range res.Warnings {
		slog.Warn("Config normalization", slog.String("detail", w))
	}
	applyDefaults(cfg)
	if err := ValidateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load env file", logfields.File(name), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment file", logfields.File(name))
	}
}

// Init writes an example configuration to path. An existing file is only
// replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	example := Config{
		Version: CurrentVersion,
		Docs: DocsConfig{
			Root:          "/docs",
			ContentDir:    "./content/docs",
			RegistryFile:  "./routes.yaml",
			NotFound:      NotFoundNone,
			AssetPrefixes: []string{"/docs/_assets"},
		},
		Server: ServerConfig{DocsPort: 8080, AdminPort: 8081, RedirectStatus: 307},
		Registry: RegistryConfig{
			Watch: true,
		},
		Monitoring: MonitoringConfig{
			Metrics: MonitoringMetrics{Enabled: true, Path: "/metrics"},
			Health:  MonitoringHealth{Path: "/health"},
			Logging: MonitoringLogging{Level: LogLevelInfo, Format: LogFormatText},
			Tracing: MonitoringTracing{TracerName: "docnav"},
		},
	}
	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
