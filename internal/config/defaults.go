package config

// Default values applied to unset fields.
const (
	DefaultDocsRoot       = "/docs"
	DefaultContentDir     = "./content/docs"
	DefaultRegistryFile   = "./routes.yaml"
	DefaultDocsPort       = 8080
	DefaultAdminPort      = 8081
	DefaultRedirectStatus = 307
	DefaultMetricsPath    = "/metrics"
	DefaultHealthPath     = "/health"
	DefaultTracerName     = "docnav"
)

func applyDefaults(c *Config) {
	d := &c.Docs
	if d.Root == "" {
		d.Root = DefaultDocsRoot
	}
	if d.ContentDir == "" {
		d.ContentDir = DefaultContentDir
	}
	if d.RegistryFile == "" {
		d.RegistryFile = DefaultRegistryFile
	}
	if d.NotFound == "" {
		d.NotFound = NotFoundNone
	}

	s := &c.Server
	if s.DocsPort == 0 {
		s.DocsPort = DefaultDocsPort
	}
	if s.AdminPort == 0 {
		s.AdminPort = DefaultAdminPort
	}
	if s.RedirectStatus == 0 {
		s.RedirectStatus = DefaultRedirectStatus
	}

	m := &c.Monitoring
	if m.Metrics.Path == "" {
		m.Metrics.Path = DefaultMetricsPath
	}
	if m.Health.Path == "" {
		m.Health.Path = DefaultHealthPath
	}
	if m.Logging.Level == "" {
		m.Logging.Level = LogLevelInfo
	}
	if m.Logging.Format == "" {
		m.Logging.Format = LogFormatText
	}
	if m.Tracing.TracerName == "" {
		m.Tracing.TracerName = DefaultTracerName
	}
}
