package config

import (
	"errors"
	"fmt"
	"strings"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/scheduler"
	"git.home.luguber.info/inful/docnav/internal/versiongate"
)

// ValidateConfig checks a normalized, defaulted configuration. All problems
// are reported together.
func ValidateConfig(c *Config) error {
	var errs []error
	invalid := func(field, msg string) {
		errs = append(errs, ferrors.ConfigError(msg).
			WithContext("field", field).
			UserAction().
			Build())
	}

	if c.Docs.Root == "" || c.Docs.Root == "/" {
		invalid("docs.root", "docs root must be a non-root URL path")
	}
	if strings.ContainsAny(c.Docs.Root, "?#") {
		invalid("docs.root", fmt.Sprintf("docs root %q must not contain a query or fragment", c.Docs.Root))
	}
	if strings.TrimSpace(c.Docs.RegistryFile) == "" {
		invalid("docs.registry_file", "registry file is required")
	}
	for _, p := range c.Docs.AssetPrefixes {
		if p == c.Docs.Root {
			invalid("docs.asset_prefixes", fmt.Sprintf("asset prefix %q must not equal the docs root", p))
		}
	}
	if strings.Contains(c.Docs.DefaultVersion, "/") {
		invalid("docs.default_version", fmt.Sprintf("default version %q must be a single path segment", c.Docs.DefaultVersion))
	}

	ports := []struct {
		field string
		port  int
	}{{"server.docs_port", c.Server.DocsPort}, {"server.admin_port", c.Server.AdminPort}}
	for _, p := range ports {
		if p.port < 1 || p.port > 65535 {
			invalid(p.field, fmt.Sprintf("port %d out of range", p.port))
		}
	}
	if c.Server.DocsPort == c.Server.AdminPort {
		invalid("server.admin_port", fmt.Sprintf("admin port %d collides with docs port", c.Server.AdminPort))
	}
	if !versiongate.ValidRedirectStatus(c.Server.RedirectStatus) {
		invalid("server.redirect_status", fmt.Sprintf("redirect status %d is not a redirect code", c.Server.RedirectStatus))
	}

	if c.Registry.ReloadSchedule != "" {
		if err := scheduler.Validate(c.Registry.ReloadSchedule); err != nil {
			invalid("registry.reload_schedule", fmt.Sprintf("invalid reload schedule %q: %v", c.Registry.ReloadSchedule, err))
		}
	}

	if c.Monitoring.Metrics.Path == c.Monitoring.Health.Path {
		invalid("monitoring.metrics.path", "metrics and health paths must differ")
	}
	return errors.Join(errs...)
}
