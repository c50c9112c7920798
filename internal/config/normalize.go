package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/foundation/normalization"
)

// NormalizationResult captures coercions made by NormalizeConfig.
type NormalizationResult struct {
	Warnings []string
}

// NormalizeConfig canonicalizes enumerations and URL paths in place. It runs
// before defaults so canonical values drive them.
func NormalizeConfig(c *Config) *NormalizationResult {
	res := &NormalizationResult{}

	c.Docs.NotFound = normalizeEnum(res, "docs.not_found", c.Docs.NotFound, notFoundNormalizer)
	c.Monitoring.Logging.Level = normalizeEnum(res, "monitoring.logging.level", c.Monitoring.Logging.Level, logLevelNormalizer)
	c.Monitoring.Logging.Format = normalizeEnum(res, "monitoring.logging.format", c.Monitoring.Logging.Format, logFormatNormalizer)

	c.Docs.Root = normalizeURLPath(res, "docs.root", c.Docs.Root)
	c.Monitoring.Metrics.Path = normalizeURLPath(res, "monitoring.metrics.path", c.Monitoring.Metrics.Path)
	c.Monitoring.Health.Path = normalizeURLPath(res, "monitoring.health.path", c.Monitoring.Health.Path)
	prefixes := c.Docs.AssetPrefixes[:0]
	for _, p := range c.Docs.AssetPrefixes {
		if p = normalizeURLPath(res, "docs.asset_prefixes", p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	c.Docs.AssetPrefixes = prefixes

	c.Docs.DefaultVersion = strings.TrimSpace(c.Docs.DefaultVersion)
	c.Registry.ReloadSchedule = strings.TrimSpace(c.Registry.ReloadSchedule)
	return res
}

// normalizeEnum leaves empty values empty for defaults to fill in.
func normalizeEnum[T ~string](res *NormalizationResult, field string, v T, n *normalization.Normalizer[T]) T {
	if strings.TrimSpace(string(v)) == "" {
		return ""
	}
	canon, ok := n.Lookup(string(v))
	if !ok {
		res.Warnings = append(res.Warnings, fmt.Sprintf("unknown %s '%s', defaulting to %s", field, v, n.Fallback()))
		return n.Fallback()
	}
	if canon != v {
		res.Warnings = append(res.Warnings, fmt.Sprintf("normalized %s from '%s' to '%s'", field, v, canon))
	}
	return canon
}

// normalizeURLPath ensures a single leading slash and no trailing slash.
func normalizeURLPath(res *NormalizationResult, field, p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return ""
	}
	canon := "/" + strings.Trim(trimmed, "/")
	if canon != p {
		res.Warnings = append(res.Warnings, fmt.Sprintf("normalized %s from '%s' to '%s'", field, p, canon))
	}
	return canon
}
