// Package versiongate redirects unversioned documentation paths to the
// default version so every docs request that reaches a page handler carries a
// supported version as its first segment below the docs root.
package versiongate

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
)

// VersionSource supplies the versions the gate accepts. It is read on every
// request so registry reloads take effect immediately.
type VersionSource interface {
	SupportedVersions() []string
	DefaultVersion() string
}

// Decision is the outcome for one request path.
type Decision struct {
	Redirect bool   `json:"redirect"`
	Target   string `json:"target,omitempty"`
	// Exempt is set when the path matched an exempt prefix.
	Exempt bool `json:"exempt,omitempty"`
}

// Gate decides whether a request path needs a version redirect.
type Gate struct {
	root     string
	source   VersionSource
	exempt   []string
	status   int
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithExemptPrefixes skips paths under any of the given prefixes, such as
// static asset directories below the docs root.
func WithExemptPrefixes(prefixes ...string) Option {
	return func(g *Gate) {
		for _, p := range prefixes {
			if p = cleanRoot(p); p != "" {
				g.exempt = append(g.exempt, p)
			}
		}
	}
}

// WithRedirectStatus sets the redirect status code. Only 301, 302, 303, 307
// and 308 are accepted; anything else keeps the default.
func WithRedirectStatus(code int) Option {
	return func(g *Gate) {
		if ValidRedirectStatus(code) {
			g.status = code
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Gate) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithLogger sets the logger for redirect decisions.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// ValidRedirectStatus reports whether code is a redirect status the gate can issue.
func ValidRedirectStatus(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// New creates a gate for the docs root. An empty root means "/docs".
func New(root string, source VersionSource, opts ...Option) *Gate {
	g := &Gate{
		root:     cleanRoot(root),
		source:   source,
		status:   http.StatusTemporaryRedirect,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	if g.root == "" {
		g.root = "/docs"
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Root returns the docs root the gate guards.
func (g *Gate) Root() string { return g.root }

// RedirectStatus returns the status code used for redirects.
func (g *Gate) RedirectStatus() int { return g.status }

// Resolve decides what to do with requestPath. Paths outside the docs root,
// under an exempt prefix, or already carrying a supported version pass
// through. Everything else under the root is redirected to the default
// version with the remaining path kept intact.
func (g *Gate) Resolve(requestPath string) Decision {
	rest, ok := under(requestPath, g.root)
	if !ok {
		return Decision{}
	}
	for _, p := range g.exempt {
		if _, ok := under(requestPath, p); ok {
			return Decision{Exempt: true}
		}
	}

	def := g.source.DefaultVersion()
	if def == "" {
		// Nothing loaded yet; there is no version to redirect to.
		return Decision{}
	}
	first, _, _ := strings.Cut(strings.TrimPrefix(rest, "/"), "/")
	if first != "" && slices.Contains(g.source.SupportedVersions(), first) {
		return Decision{}
	}
	return Decision{Redirect: true, Target: g.root + "/" + def + rest}
}

// Middleware applies Resolve to every request, answering with a redirect when
// needed. Resolve sees the escaped path so encoded characters survive into the
// target. The query string is carried over as well.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := g.Resolve(r.URL.EscapedPath())
		switch {
		case d.Redirect:
			target := d.Target
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			g.recorder.IncGateDecision(metrics.GateRedirect)
			g.logger.Debug("Redirecting unversioned docs path",
				logfields.Path(r.URL.Path), logfields.Target(target), logfields.Status(g.status))
			http.Redirect(w, r, target, g.status)
			return
		case d.Exempt:
			g.recorder.IncGateDecision(metrics.GateExempt)
		default:
			if _, ok := under(r.URL.Path, g.root); ok {
				g.recorder.IncGateDecision(metrics.GatePass)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// under reports whether p equals root or continues it at a segment boundary,
// and returns the remainder after root ("" or starting with "/").
func under(p, root string) (string, bool) {
	if !strings.HasPrefix(p, root) {
		return "", false
	}
	rest := p[len(root):]
	if rest != "" && rest[0] != '/' {
		return "", false
	}
	return rest, true
}

func cleanRoot(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	return "/" + strings.Trim(p, "/")
}
