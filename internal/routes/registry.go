package routes

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultDocsRoot is the path prefix under which versioned documentation lives.
const DefaultDocsRoot = "/docs"

// Registry is an immutable set of route trees keyed by version. The first
// registered version is the default.
type Registry struct {
	versions []string
	trees    map[string][]Node
	pages    map[string][]Page
	index    map[string]map[string]int
	root     string
	policy   NotFoundPolicy
}

// Option configures a Registry.
type Option func(*Registry)

// WithDocsRoot sets the root prefix stripped by Adjacent.
func WithDocsRoot(root string) Option {
	return func(r *Registry) { r.root = root }
}

// WithNotFoundPolicy sets the policy Adjacent applies to unknown paths.
func WithNotFoundPolicy(p NotFoundPolicy) Option {
	return func(r *Registry) { r.policy = p }
}

// NewRegistry validates trees and builds a registry. The first tree becomes
// the default version.
func NewRegistry(trees []VersionTree, opts ...Option) (*Registry, error) {
	if len(trees) == 0 {
		return nil, ErrNoVersions
	}

	r := &Registry{
		versions: make([]string, 0, len(trees)),
		trees:    make(map[string][]Node, len(trees)),
		pages:    make(map[string][]Page, len(trees)),
		index:    make(map[string]map[string]int, len(trees)),
		root:     DefaultDocsRoot,
		policy:   NotFoundNone,
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, vt := range trees {
		if strings.TrimSpace(vt.Version) == "" {
			return nil, fmt.Errorf("%w: version id is empty", ErrEmptyTree)
		}
		if _, dup := r.trees[vt.Version]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVersion, vt.Version)
		}
		if len(vt.Routes) == 0 {
			return nil, fmt.Errorf("%w: version %s", ErrEmptyTree, vt.Version)
		}
		if err := validateNodes(vt.Version, vt.Routes, make(map[string]struct{})); err != nil {
			return nil, err
		}

		pages := Flatten(vt.Routes)
		idx := make(map[string]int, len(pages))
		for i, p := range pages {
			idx[p.Href] = i
		}

		r.versions = append(r.versions, vt.Version)
		r.trees[vt.Version] = cloneNodes(vt.Routes)
		r.pages[vt.Version] = pages
		r.index[vt.Version] = idx
	}
	return r, nil
}

func validateNodes(version string, nodes []Node, seen map[string]struct{}) error {
	for _, n := range nodes {
		if strings.TrimSpace(n.Title) == "" {
			return fmt.Errorf("%w: version %s: node %q has no title", ErrInvalidNode, version, n.Href)
		}
		if !strings.HasPrefix(n.Href, "/") {
			return fmt.Errorf("%w: version %s: href %q must start with /", ErrInvalidNode, version, n.Href)
		}
		if _, dup := seen[n.Href]; dup {
			return fmt.Errorf("%w: version %s: %s", ErrDuplicateHref, version, n.Href)
		}
		seen[n.Href] = struct{}{}
		if err := validateNodes(version, n.Children, seen); err != nil {
			return err
		}
	}
	return nil
}

// DefaultVersion returns the version used for unknown or missing versions.
func (r *Registry) DefaultVersion() string { return r.versions[0] }

// SupportedVersions lists all versions, default first.
func (r *Registry) SupportedVersions() []string { return slices.Clone(r.versions) }

// IsSupported reports whether version is registered.
func (r *Registry) IsSupported(version string) bool {
	_, ok := r.trees[version]
	return ok
}

// ResolveVersion maps version onto a registered version, falling back to the
// default. fellBack is true when the fallback was taken.
func (r *Registry) ResolveVersion(version string) (resolved string, fellBack bool) {
	if r.IsSupported(version) {
		return version, false
	}
	return r.DefaultVersion(), true
}

// TreeForVersion returns a copy of the route tree for version, or of the
// default version's tree when version is unknown.
func (r *Registry) TreeForVersion(version string) []Node {
	resolved, _ := r.ResolveVersion(version)
	return cloneNodes(r.trees[resolved])
}

// Pages returns the flattened pages of the resolved version.
func (r *Registry) Pages(version string) []Page {
	resolved, _ := r.ResolveVersion(version)
	return slices.Clone(r.pages[resolved])
}

// DocsRoot returns the root prefix used when normalizing request paths.
func (r *Registry) DocsRoot() string { return r.root }

// NotFoundPolicy returns the policy applied by Adjacent.
func (r *Registry) NotFoundPolicy() NotFoundPolicy { return r.policy }

// Adjacent returns the previous and next pages for a request path within
// version. A path that is itself a registered href is used as is; any other
// path is normalized with NormalizePath first. It never fails.
func (r *Registry) Adjacent(path, version string) Adjacency {
	resolved, _ := r.ResolveVersion(version)
	return adjacentAt(r.pages[resolved], r.indexOf(resolved, path), r.policy)
}

// AdjacentHref returns the neighbors of an exact version-relative href.
func (r *Registry) AdjacentHref(href, version string) Adjacency {
	resolved, _ := r.ResolveVersion(version)
	idx, ok := r.index[resolved][href]
	if !ok {
		idx = -1
	}
	return adjacentAt(r.pages[resolved], idx, r.policy)
}

// Lookup returns the page registered for a request path within version,
// resolving the path the same way Adjacent does.
func (r *Registry) Lookup(path, version string) (Page, bool) {
	resolved, _ := r.ResolveVersion(version)
	idx := r.indexOf(resolved, path)
	if idx < 0 {
		return Page{}, false
	}
	return r.pages[resolved][idx], true
}

// LookupHref returns the page with exactly href within version.
func (r *Registry) LookupHref(href, version string) (Page, bool) {
	resolved, _ := r.ResolveVersion(version)
	idx, ok := r.index[resolved][href]
	if !ok {
		return Page{}, false
	}
	return r.pages[resolved][idx], true
}

// indexOf finds path in a resolved version. An exact href match wins over the
// normalized form so hrefs starting with the root or a version id stay reachable.
func (r *Registry) indexOf(resolved, path string) int {
	if idx, ok := r.index[resolved][path]; ok {
		return idx
	}
	if idx, ok := r.index[resolved][NormalizePath(path, r.root, r.versions)]; ok {
		return idx
	}
	return -1
}

// Trees returns a deep copy of all version trees in registration order.
func (r *Registry) Trees() []VersionTree {
	out := make([]VersionTree, 0, len(r.versions))
	for _, v := range r.versions {
		out = append(out, VersionTree{Version: v, Routes: cloneNodes(r.trees[v])})
	}
	return out
}
