package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/navstore"
	"git.home.luguber.info/inful/docnav/internal/routes"
	"git.home.luguber.info/inful/docnav/internal/server/responses"
)

// VersionHeader carries the version a response was actually served from.
const VersionHeader = "X-Docs-Version"

// SnapshotSource supplies the current registry snapshot.
type SnapshotSource interface {
	Snapshot() *navstore.Snapshot
}

// NavigationHandlers serves the JSON navigation API.
type NavigationHandlers struct {
	store        SnapshotSource
	recorder     metrics.Recorder
	errorAdapter *ferrors.HTTPErrorAdapter
}

// NewNavigationHandlers creates the API handlers. A nil recorder disables metrics.
func NewNavigationHandlers(store SnapshotSource, rec metrics.Recorder) *NavigationHandlers {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &NavigationHandlers{
		store:        store,
		recorder:     rec,
		errorAdapter: ferrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleVersions lists the supported versions, default first.
func (h *NavigationHandlers) HandleVersions(w http.ResponseWriter, r *http.Request) {
	snap, ok := requireSnapshot(h.store, h.errorAdapter, w, r)
	if !ok {
		return
	}
	if notModified(w, r, etag(snap, "")) {
		return
	}
	h.write(w, r, &responses.VersionsResponse{
		Default:      snap.Registry.DefaultVersion(),
		Versions:     snap.Registry.SupportedVersions(),
		GenerationID: snap.Meta.GenerationID,
	})
}

// HandleTree returns the navigation tree, falling back to the default version.
func (h *NavigationHandlers) HandleTree(w http.ResponseWriter, r *http.Request) {
	snap, ok := requireSnapshot(h.store, h.errorAdapter, w, r)
	if !ok {
		return
	}
	requested := chi.URLParam(r, "version")
	resolved, fellBack := h.resolve(w, snap.Registry, requested)
	if notModified(w, r, etag(snap, resolved)) {
		return
	}
	h.write(w, r, &responses.TreeResponse{
		Version:   resolved,
		Requested: requested,
		Fallback:  fellBack,
		Routes:    snap.Registry.TreeForVersion(resolved),
	})
}

// HandlePages returns the flattened page order used for prev/next links.
func (h *NavigationHandlers) HandlePages(w http.ResponseWriter, r *http.Request) {
	snap, ok := requireSnapshot(h.store, h.errorAdapter, w, r)
	if !ok {
		return
	}
	requested := chi.URLParam(r, "version")
	resolved, fellBack := h.resolve(w, snap.Registry, requested)
	if notModified(w, r, etag(snap, resolved)) {
		return
	}
	h.write(w, r, &responses.PagesResponse{
		Version:   resolved,
		Requested: requested,
		Fallback:  fellBack,
		Pages:     snap.Registry.Pages(resolved),
	})
}

// HandleAdjacent returns the previous and next pages for ?path=.
func (h *NavigationHandlers) HandleAdjacent(w http.ResponseWriter, r *http.Request) {
	snap, ok := requireSnapshot(h.store, h.errorAdapter, w, r)
	if !ok {
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		h.errorAdapter.WriteErrorResponse(w, r, ferrors.ValidationError("missing path query parameter").
			WithContext("parameter", "path").
			Build())
		return
	}
	resolved, _ := h.resolve(w, snap.Registry, chi.URLParam(r, "version"))
	_, found := snap.Registry.Lookup(path, resolved)
	h.recorder.IncAdjacentLookup(found)
	adj := snap.Registry.Adjacent(path, resolved)
	h.write(w, r, &responses.AdjacentResponse{
		Version: resolved,
		Path:    path,
		Found:   found,
		Prev:    adj.Prev,
		Next:    adj.Next,
	})
}

// resolve applies the default-version fallback and announces the result.
func (h *NavigationHandlers) resolve(w http.ResponseWriter, reg *routes.Registry, requested string) (string, bool) {
	resolved, fellBack := reg.ResolveVersion(requested)
	if fellBack {
		h.recorder.IncVersionFallback()
		slog.Debug("Unknown version served from default", logfields.Version(requested), logfields.Resolved(resolved))
	}
	w.Header().Set(VersionHeader, resolved)
	return resolved, fellBack
}

func (h *NavigationHandlers) write(w http.ResponseWriter, r *http.Request, v any) {
	if err := writeJSONPretty(w, r, http.StatusOK, v); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write response").Build())
	}
}

// requireSnapshot answers 503 while no registry is loaded.
func requireSnapshot(store SnapshotSource, adapter *ferrors.HTTPErrorAdapter, w http.ResponseWriter, r *http.Request) (*navstore.Snapshot, bool) {
	snap := store.Snapshot()
	if snap == nil || snap.Registry == nil {
		adapter.WriteErrorResponse(w, r, ferrors.WrapError(navstore.ErrNotLoaded, ferrors.CategoryRegistry, "route registry not loaded").
			Retryable().
			Build())
		return nil, false
	}
	return snap, true
}

// etag identifies a response by registry generation and version.
func etag(snap *navstore.Snapshot, version string) string {
	gen := snap.Meta.GenerationID
	if gen == "" {
		gen = snap.Hash
	}
	if gen == "" {
		return ""
	}
	if version == "" {
		return `"` + gen + `"`
	}
	return `"` + gen + "-" + version + `"`
}

// notModified sets the ETag and answers 304 when the client already has it.
func notModified(w http.ResponseWriter, r *http.Request, tag string) bool {
	if tag == "" {
		return false
	}
	w.Header().Set("ETag", tag)
	if r.Header.Get("If-None-Match") == tag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}
