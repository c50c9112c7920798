package handlers

import (
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/routes"
)

// PageContext is everything a renderer needs for one documentation page.
type PageContext struct {
	Root           string
	Version        string
	DefaultVersion string
	Versions       []string
	Path           string
	Title          string
	Found          bool
	Tree           []routes.Node
	Prev           *routes.Page
	Next           *routes.Page
}

// Link returns the URL of href within the page's version.
func (pc PageContext) Link(href string) string {
	return pc.Root + "/" + pc.Version + href
}

// VersionLink returns the URL of the current page in another version.
func (pc PageContext) VersionLink(v string) string {
	return pc.Root + "/" + v + pc.Path
}

// PageRenderer writes the response for a documentation page. Content
// rendering lives behind this interface; docnav only supplies navigation.
type PageRenderer interface {
	RenderPage(w http.ResponseWriter, r *http.Request, pc PageContext) error
}

// PageRendererFunc adapts a function to PageRenderer.
type PageRendererFunc func(w http.ResponseWriter, r *http.Request, pc PageContext) error

// RenderPage implements PageRenderer.
func (f PageRendererFunc) RenderPage(w http.ResponseWriter, r *http.Request, pc PageContext) error {
	return f(w, r, pc)
}

// PageHandler serves {root}/{version}/* by resolving navigation for the page.
type PageHandler struct {
	store        SnapshotSource
	renderer     PageRenderer
	recorder     metrics.Recorder
	errorAdapter *ferrors.HTTPErrorAdapter
}

// NewPageHandler creates a page handler. A nil renderer uses the built-in HTML page.
func NewPageHandler(store SnapshotSource, renderer PageRenderer, rec metrics.Recorder) *PageHandler {
	if renderer == nil {
		renderer = NewHTMLRenderer()
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &PageHandler{
		store:        store,
		renderer:     renderer,
		recorder:     rec,
		errorAdapter: ferrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// ServeHTTP builds the PageContext and hands it to the renderer. The version
// root redirects to the first page of that version.
func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snap, ok := requireSnapshot(h.store, h.errorAdapter, w, r)
	if !ok {
		return
	}
	reg := snap.Registry
	ver := chi.URLParam(r, "version")
	if !reg.IsSupported(ver) {
		h.errorAdapter.WriteErrorResponse(w, r, ferrors.NotFoundError("unknown documentation version").
			WithContext("version", ver).
			Build())
		return
	}

	pagePath := cleanPagePath(chi.URLParam(r, "*"))
	if pagePath == "/" {
		if pages := reg.Pages(ver); len(pages) > 0 {
			http.Redirect(w, r, reg.DocsRoot()+"/"+ver+pages[0].Href, http.StatusFound)
			return
		}
	}

	// chi already removed root and version; pagePath is an href.
	page, found := reg.LookupHref(pagePath, ver)
	h.recorder.IncAdjacentLookup(found)
	adj := reg.AdjacentHref(pagePath, ver)
	pc := PageContext{
		Root:           reg.DocsRoot(),
		Version:        ver,
		DefaultVersion: reg.DefaultVersion(),
		Versions:       reg.SupportedVersions(),
		Path:           pagePath,
		Title:          page.Title,
		Found:          found,
		Tree:           reg.TreeForVersion(ver),
		Prev:           adj.Prev,
		Next:           adj.Next,
	}
	w.Header().Set(VersionHeader, ver)
	if err := h.renderer.RenderPage(w, r, pc); err != nil {
		slog.Error("Page render failed", logfields.Version(ver), logfields.Path(pagePath), logfields.Error(err))
		h.errorAdapter.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to render page").Build())
	}
}

func cleanPagePath(rest string) string {
	p := path.Clean("/" + rest)
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}
