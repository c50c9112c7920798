package navstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/manifest"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/routes"
)

type countingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	reloads  map[metrics.ResultLabel]int
	versions int
}

func (c *countingRecorder) IncRegistryReload(r metrics.ResultLabel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reloads == nil {
		c.reloads = map[metrics.ResultLabel]int{}
	}
	c.reloads[r]++
}

func (c *countingRecorder) SetRegistryVersions(n int) { c.versions = n }

func writeArtifact(t *testing.T, path, genID string, versions ...string) {
	t.Helper()
	m := &manifest.Manifest{GenerationID: genID, GeneratedAt: time.Unix(0, 0).UTC()}
	for _, v := range versions {
		m.Versions = append(m.Versions, routes.VersionTree{Version: v, Routes: []routes.Node{
			{Title: "Intro", Href: "/intro"},
			{Title: "Setup", Href: "/setup"},
		}})
	}
	require.NoError(t, m.Write(path))
}

func TestOpen_LoadsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	writeArtifact(t, path, "g1", "v1.0.0", "v0.9.0")
	rec := &countingRecorder{}

	s, err := Open(context.Background(), path, WithRecorder(rec))
	require.NoError(t, err)
	require.True(t, s.Loaded())
	require.Equal(t, "v1.0.0", s.Registry().DefaultVersion())
	require.Equal(t, "g1", s.Snapshot().Meta.GenerationID)
	require.NotEmpty(t, s.Snapshot().Hash)
	require.Equal(t, 1, rec.reloads[metrics.ResultSuccess])
	require.Equal(t, 2, rec.versions)
}

func TestOpen_MissingArtifact(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestReload_UnchangedArtifactKeepsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	writeArtifact(t, path, "g1", "v1.0.0")
	rec := &countingRecorder{}
	s, err := Open(context.Background(), path, WithRecorder(rec))
	require.NoError(t, err)
	before := s.Snapshot()

	changed, err := s.Reload(context.Background())
	require.NoError(t, err)
	require.False(t, changed)
	require.Same(t, before, s.Snapshot())
	require.Equal(t, 1, rec.reloads[metrics.ResultUnchanged])
}

func TestReload_SwapsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	writeArtifact(t, path, "g1", "v1.0.0")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	old := s.Registry()

	writeArtifact(t, path, "g2", "v2.0.0", "v1.0.0")
	changed, err := s.Reload(context.Background())
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, "v2.0.0", s.Registry().DefaultVersion())
	require.Equal(t, "g2", s.Snapshot().Meta.GenerationID)

	// Readers holding the previous registry keep a consistent view.
	require.Equal(t, "v1.0.0", old.DefaultVersion())
	require.False(t, old.IsSupported("v2.0.0"))
}

func TestReload_FailureKeepsPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	writeArtifact(t, path, "g1", "v1.0.0")
	rec := &countingRecorder{}
	s, err := Open(context.Background(), path, WithRecorder(rec))
	require.NoError(t, err)
	before := s.Snapshot()

	require.NoError(t, os.WriteFile(path, []byte("schema: 1\nversions:\n  - version: v1.0.0\n    routes: []\n"), 0o600))
	changed, err := s.Reload(context.Background())
	require.Error(t, err)
	require.False(t, changed)
	require.Same(t, before, s.Snapshot())
	require.Equal(t, 1, rec.reloads[metrics.ResultFailed])

	require.NoError(t, os.WriteFile(path, []byte("::not yaml"), 0o600))
	_, err = s.Reload(context.Background())
	require.Error(t, err)
	require.Same(t, before, s.Snapshot())
}

func TestReload_ConcurrentReaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	writeArtifact(t, path, "g1", "v1.0.0")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				reg := s.Registry()
				adj := reg.Adjacent("/intro", reg.DefaultVersion())
				if adj.Next == nil || adj.Next.Href != "/setup" {
					t.Errorf("inconsistent snapshot: %+v", adj)
					return
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		writeArtifact(t, path, "g", "v1.0.0", "v0."+string(rune('a'+i)))
		_, err := s.Reload(context.Background())
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()
}

func TestNew_NotLoaded(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "routes.yaml"))
	require.False(t, s.Loaded())
	require.Nil(t, s.Registry())
	require.Nil(t, s.Snapshot())
}

func TestFromRegistry(t *testing.T) {
	reg, err := routes.NewRegistry([]routes.VersionTree{{Version: "v1", Routes: []routes.Node{{Title: "A", Href: "/a"}}}})
	require.NoError(t, err)
	s := FromRegistry(reg, manifest.Meta{Versions: []string{"v1"}})
	require.True(t, s.Loaded())
	require.Same(t, reg, s.Registry())
	_, err = s.Reload(context.Background())
	require.Error(t, err)
}

func TestStore_VersionSource(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "routes.yaml"))
	require.Empty(t, s.DefaultVersion())
	require.Nil(t, s.SupportedVersions())

	writeArtifact(t, s.Path(), "g1", "v1.0.0", "v0.9.0")
	_, err := s.Reload(context.Background())
	require.NoError(t, err)
	require.Equal(t, "v1.0.0", s.DefaultVersion())
	require.Equal(t, []string{"v1.0.0", "v0.9.0"}, s.SupportedVersions())
}
