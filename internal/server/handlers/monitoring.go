package handlers

import (
	"log/slog"
	"net/http"
	"time"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/server/responses"
	"git.home.luguber.info/inful/docnav/internal/version"
)

// MonitoringHandlers serves health, readiness and registry status.
type MonitoringHandlers struct {
	store        SnapshotSource
	startTime    time.Time
	errorAdapter *ferrors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(store SnapshotSource, startTime time.Time) *MonitoringHandlers {
	return &MonitoringHandlers{
		store:        store,
		startTime:    startTime,
		errorAdapter: ferrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealthCheck reports liveness. It does not depend on the registry.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, health); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write health response").Build())
	}
}

// HandleReadiness answers 200 once a registry snapshot is loaded and 503 before.
func (h *MonitoringHandlers) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	if snap == nil {
		_ = writeJSON(w, http.StatusServiceUnavailable, &responses.ReadyResponse{Status: "loading"})
		return
	}
	_ = writeJSON(w, http.StatusOK, &responses.ReadyResponse{Status: "ready", GenerationID: snap.Meta.GenerationID})
}

// HandleRegistry describes the loaded snapshot.
func (h *MonitoringHandlers) HandleRegistry(w http.ResponseWriter, r *http.Request) {
	snap, ok := requireSnapshot(h.store, h.errorAdapter, w, r)
	if !ok {
		return
	}
	reg := snap.Registry
	versions := reg.SupportedVersions()
	pages := make(map[string]int, len(versions))
	for _, v := range versions {
		pages[v] = len(reg.Pages(v))
	}
	resp := &responses.RegistryResponse{
		GenerationID:   snap.Meta.GenerationID,
		GeneratedAt:    snap.Meta.GeneratedAt,
		SourceCommit:   snap.Meta.SourceCommit,
		Hash:           snap.Hash,
		LoadedAt:       snap.LoadedAt,
		DocsRoot:       reg.DocsRoot(),
		DefaultVersion: reg.DefaultVersion(),
		NotFound:       string(reg.NotFoundPolicy()),
		Versions:       versions,
		Pages:          pages,
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write registry response").Build())
	}
}
