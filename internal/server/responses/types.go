// Package responses defines the JSON bodies returned by docnav HTTP handlers.
package responses

import (
	"time"

	"git.home.luguber.info/inful/docnav/internal/routes"
)

// VersionsResponse lists the supported versions.
type VersionsResponse struct {
	Default      string   `json:"default"`
	Versions     []string `json:"versions"`
	GenerationID string   `json:"generation_id,omitempty"`
}

// TreeResponse is the navigation tree of one version.
type TreeResponse struct {
	Version   string        `json:"version"`
	Requested string        `json:"requested"`
	Fallback  bool          `json:"fallback"`
	Routes    []routes.Node `json:"routes"`
}

// PagesResponse is the flattened page list of one version.
type PagesResponse struct {
	Version   string        `json:"version"`
	Requested string        `json:"requested"`
	Fallback  bool          `json:"fallback"`
	Pages     []routes.Page `json:"pages"`
}

// AdjacentResponse holds the neighbors of a page; missing sides are omitted.
type AdjacentResponse struct {
	Version string       `json:"version"`
	Path    string       `json:"path"`
	Found   bool         `json:"found"`
	Prev    *routes.Page `json:"prev,omitempty"`
	Next    *routes.Page `json:"next,omitempty"`
}

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// ReadyResponse reports whether the registry is loaded.
type ReadyResponse struct {
	Status       string `json:"status"`
	GenerationID string `json:"generation_id,omitempty"`
}

// RegistryResponse describes the loaded registry snapshot.
type RegistryResponse struct {
	GenerationID   string         `json:"generation_id,omitempty"`
	GeneratedAt    time.Time      `json:"generated_at"`
	SourceCommit   string         `json:"source_commit,omitempty"`
	Hash           string         `json:"hash,omitempty"`
	LoadedAt       time.Time      `json:"loaded_at"`
	DocsRoot       string         `json:"docs_root"`
	DefaultVersion string         `json:"default_version"`
	NotFound       string         `json:"not_found"`
	Versions       []string       `json:"versions"`
	Pages          map[string]int `json:"pages"`
}
