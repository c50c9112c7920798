package httpserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/manifest"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/navstore"
	"git.home.luguber.info/inful/docnav/internal/routes"
	"git.home.luguber.info/inful/docnav/internal/server/handlers"
	"git.home.luguber.info/inful/docnav/internal/server/responses"
)

func testRegistry(t *testing.T) *routes.Registry {
	t.Helper()
	reg, err := routes.NewRegistry([]routes.VersionTree{
		{Version: "v1.0.0", Routes: []routes.Node{
			{Title: "Getting Started", Href: "/getting-started", GroupHeader: true, Children: []routes.Node{
				{Title: "Introduction", Href: "/getting-started/introduction"},
			}},
			{Title: "Components", Href: "/components", GroupHeader: true, Children: []routes.Node{
				{Title: "Accordion", Href: "/components/accordion"},
				{Title: "Button", Href: "/components/button"},
				{Title: "Card", Href: "/components/card"},
			}},
		}},
		{Version: "v0.9.0", Routes: []routes.Node{
			{Title: "Introduction", Href: "/introduction"},
		}},
	})
	require.NoError(t, err)
	return reg
}

func newTestServer(t *testing.T, opts Options) (*Server, *navstore.Store) {
	t.Helper()
	cfg := config.Default()
	cfg.Docs.AssetPrefixes = []string{"/docs/_assets"}
	store := navstore.FromRegistry(testRegistry(t), manifest.Meta{GenerationID: "gen-1"})
	return New(cfg, store, opts), store
}

func get(t *testing.T, h http.Handler, target string, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestDocs_VersionGate(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	h := s.DocsHandler()

	w := get(t, h, "/docs/getting-started/introduction")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.Equal(t, "/docs/v1.0.0/getting-started/introduction", w.Header().Get("Location"))

	w = get(t, h, "/docs/v1.0.0/components/button")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "v1.0.0", w.Header().Get(handlers.VersionHeader))

	w = get(t, h, "/about")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Empty(t, w.Header().Get("Location"))

	w = get(t, h, "/docs/_assets/logo.svg")
	require.Empty(t, w.Header().Get("Location"))
}

func TestDocs_HrefsNamedLikeRootOrVersion(t *testing.T) {
	reg, err := routes.NewRegistry([]routes.VersionTree{
		{Version: "v2", Routes: []routes.Node{
			{Title: "Intro", Href: "/intro"},
			{Title: "Writing", Href: "/docs/writing"},
			{Title: "Migration", Href: "/v1/migration"},
		}},
		{Version: "v1", Routes: []routes.Node{{Title: "Intro", Href: "/intro"}}},
	})
	require.NoError(t, err)
	var got handlers.PageContext
	s := New(config.Default(), navstore.FromRegistry(reg, manifest.Meta{GenerationID: "gen-2"}), Options{
		Renderer: handlers.PageRendererFunc(func(w http.ResponseWriter, _ *http.Request, pc handlers.PageContext) error {
			got = pc
			w.WriteHeader(http.StatusOK)
			return nil
		}),
	})
	h := s.DocsHandler()

	require.Equal(t, http.StatusOK, get(t, h, "/docs/v2/docs/writing").Code)
	require.True(t, got.Found)
	require.Equal(t, "Writing", got.Title)
	require.Equal(t, "/intro", got.Prev.Href)
	require.Equal(t, "/v1/migration", got.Next.Href)

	require.Equal(t, http.StatusOK, get(t, h, "/docs/v2/v1/migration").Code)
	require.True(t, got.Found)
	require.Equal(t, "/docs/writing", got.Prev.Href)

	w := get(t, h, "/api/versions/v2/adjacent?path=/v1/migration")
	var adj responses.AdjacentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &adj))
	require.True(t, adj.Found)
	require.Equal(t, "/docs/writing", adj.Prev.Href)
}

func TestDocs_AssetPrefixes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.svg"), []byte("<svg/>"), 0o600))

	cfg := config.Default()
	cfg.Docs.AssetPrefixes = []string{"/docs/_assets"}
	cfg.Docs.AssetDir = dir
	s := New(cfg, navstore.FromRegistry(testRegistry(t), manifest.Meta{}), Options{})
	h := s.DocsHandler()

	w := get(t, h, "/docs/_assets/logo.svg")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "<svg/>", w.Body.String())

	require.Equal(t, http.StatusNotFound, get(t, h, "/docs/_assets/missing.svg").Code)
	require.Equal(t, http.StatusOK, get(t, h, "/docs/v1.0.0/components/button").Code)

	// Without an asset directory the prefix is left to a fronting server.
	s, _ = newTestServer(t, Options{})
	w = get(t, s.DocsHandler(), "/docs/_assets/logo.svg")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Empty(t, w.Header().Get("Location"))
	require.NotContains(t, w.Body.String(), "unknown documentation version")
}

func TestDocs_PageContext(t *testing.T) {
	var got handlers.PageContext
	s, _ := newTestServer(t, Options{Renderer: handlers.PageRendererFunc(func(w http.ResponseWriter, _ *http.Request, pc handlers.PageContext) error {
		got = pc
		w.WriteHeader(http.StatusOK)
		return nil
	})})
	h := s.DocsHandler()

	require.Equal(t, http.StatusOK, get(t, h, "/docs/v1.0.0/components/button/").Code)
	require.Equal(t, "v1.0.0", got.Version)
	require.Equal(t, "/components/button", got.Path)
	require.Equal(t, "Button", got.Title)
	require.True(t, got.Found)
	require.Equal(t, "/components/accordion", got.Prev.Href)
	require.Equal(t, "/components/card", got.Next.Href)
	require.Len(t, got.Tree, 2)
	require.Equal(t, []string{"v1.0.0", "v0.9.0"}, got.Versions)
	require.Equal(t, "/docs/v0.9.0/components/button", got.VersionLink("v0.9.0"))

	get(t, h, "/docs/v1.0.0/getting-started/introduction")
	require.Nil(t, got.Prev)
	require.Equal(t, "/components/accordion", got.Next.Href)

	get(t, h, "/docs/v1.0.0/components/card")
	require.Equal(t, "/components/button", got.Prev.Href)
	require.Nil(t, got.Next)

	get(t, h, "/docs/v1.0.0/missing")
	require.False(t, got.Found)
	require.Nil(t, got.Prev)
	require.Nil(t, got.Next)
}

func TestDocs_DefaultRenderer(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	h := s.DocsHandler()

	w := get(t, h, "/docs/v1.0.0/components/button")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, `<a rel="prev" href="/docs/v1.0.0/components/accordion">Accordion</a>`)
	require.Contains(t, body, `<a rel="next" href="/docs/v1.0.0/components/card">Card</a>`)
	require.Contains(t, body, `aria-current="page"`)
	require.Contains(t, body, `<span class="group">Components</span>`)

	w = get(t, h, "/docs/v1.0.0/nope")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Page not found")
}

func TestDocs_VersionRootRedirectsToFirstPage(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	w := get(t, s.DocsHandler(), "/docs/v0.9.0")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/docs/v0.9.0/introduction", w.Header().Get("Location"))
}

func TestAPI_Versions(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	h := s.DocsHandler()

	w := get(t, h, "/api/versions")
	require.Equal(t, http.StatusOK, w.Code)
	var resp responses.VersionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "v1.0.0", resp.Default)
	require.Equal(t, []string{"v1.0.0", "v0.9.0"}, resp.Versions)
	require.Equal(t, `"gen-1"`, w.Header().Get("ETag"))

	w = get(t, h, "/api/versions", "If-None-Match", `"gen-1"`)
	require.Equal(t, http.StatusNotModified, w.Code)
}

func TestAPI_TreeFallsBackToDefault(t *testing.T) {
	rec := &fallbackRecorder{}
	s, _ := newTestServer(t, Options{Recorder: rec})
	h := s.DocsHandler()

	w := get(t, h, "/api/versions/v9.9.9/tree")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "v1.0.0", w.Header().Get(handlers.VersionHeader))
	var resp responses.TreeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Fallback)
	require.Equal(t, "v9.9.9", resp.Requested)
	require.Equal(t, "v1.0.0", resp.Version)
	require.Len(t, resp.Routes, 2)
	require.Equal(t, 1, rec.fallbacks)

	w = get(t, h, "/api/versions/v0.9.0/tree")
	require.Equal(t, `"gen-1-v0.9.0"`, w.Header().Get("ETag"))
}

func TestAPI_PagesAndAdjacent(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	h := s.DocsHandler()

	w := get(t, h, "/api/versions/v1.0.0/pages")
	var pages responses.PagesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pages))
	require.Equal(t, []routes.Page{
		{Title: "Introduction", Href: "/getting-started/introduction"},
		{Title: "Accordion", Href: "/components/accordion"},
		{Title: "Button", Href: "/components/button"},
		{Title: "Card", Href: "/components/card"},
	}, pages.Pages)

	w = get(t, h, "/api/versions/v1.0.0/adjacent?path=/docs/v1.0.0/components/button")
	require.Equal(t, http.StatusOK, w.Code)
	var adj responses.AdjacentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &adj))
	require.True(t, adj.Found)
	require.Equal(t, "/components/accordion", adj.Prev.Href)
	require.Equal(t, "/components/card", adj.Next.Href)

	w = get(t, h, "/api/versions/v1.0.0/adjacent?path=/nowhere")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), `"prev"`)
	require.NotContains(t, w.Body.String(), `"next"`)

	w = get(t, h, "/api/versions/v1.0.0/adjacent")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), `"code":"validation"`)
}

func TestAPI_NotLoaded(t *testing.T) {
	cfg := config.Default()
	s := New(cfg, navstore.New("/nonexistent/routes.yaml"), Options{})

	w := get(t, s.DocsHandler(), "/api/versions")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), `"retryable":true`)

	// Without versions the gate cannot redirect.
	w = get(t, s.DocsHandler(), "/docs/intro")
	require.Empty(t, w.Header().Get("Location"))

	require.Equal(t, http.StatusServiceUnavailable, get(t, s.AdminHandler(), "/readyz").Code)
	require.Equal(t, http.StatusOK, get(t, s.AdminHandler(), "/healthz").Code)
}

func TestAdmin_Endpoints(t *testing.T) {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	s, _ := newTestServer(t, Options{Recorder: rec, MetricsHandler: metrics.HTTPHandler(reg)})
	admin := s.AdminHandler()

	require.Equal(t, http.StatusOK, get(t, admin, "/health").Code)
	require.Equal(t, http.StatusOK, get(t, admin, "/ready").Code)

	w := get(t, admin, "/api/registry")
	require.Equal(t, http.StatusOK, w.Code)
	var info responses.RegistryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	require.Equal(t, "gen-1", info.GenerationID)
	require.Equal(t, "/docs", info.DocsRoot)
	require.Equal(t, map[string]int{"v1.0.0": 4, "v0.9.0": 1}, info.Pages)

	get(t, s.DocsHandler(), "/docs/intro")
	w = get(t, admin, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `docnav_gate_decisions_total{decision="redirect"} 1`)
}

func TestServer_StartStop(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	docsLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	adminLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, s.StartWithListeners(docsLn, adminLn))

	client := &http.Client{
		Timeout:       5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
	resp, err := client.Get("http://" + s.DocsAddr().String() + "/docs/components/button?x=1")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	require.True(t, strings.HasSuffix(resp.Header.Get("Location"), "/docs/v1.0.0/components/button?x=1"))

	resp, err = client.Get("http://" + s.AdminAddr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestServer_StartFailsOnBusyPort(t *testing.T) {
	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer busy.Close()

	s, _ := newTestServer(t, Options{})
	s.cfg.Server.DocsPort = busy.Addr().(*net.TCPAddr).Port
	s.cfg.Server.AdminPort = 0
	require.Error(t, s.Start(context.Background()))
}

type fallbackRecorder struct {
	metrics.NoopRecorder
	fallbacks int
}

func (f *fallbackRecorder) IncVersionFallback() { f.fallbacks++ }
