package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/routes"
)

func sampleManifest() *Manifest {
	return &Manifest{
		Schema:       SchemaVersion,
		GenerationID: "3f0c7c4e-8a4e-4a55-9a3c-6c9e8f0f2a11",
		GeneratedAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		SourceCommit: "abc123",
		Versions: []routes.VersionTree{
			{Version: "v1.0.0", Routes: []routes.Node{
				{Title: "Components", Href: "/components", GroupHeader: true, Children: []routes.Node{
					{Title: "Accordion", Href: "/components/accordion"},
					{Title: "Button", Href: "/components/button"},
				}},
			}},
		},
	}
}

func TestWriteRead_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"routes.yaml", "routes.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, sampleManifest().Write(path))

			got, hash, err := Read(path)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			require.Equal(t, sampleManifest(), got)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, Hash(data), hash)
		})
	}
}

func TestWrite_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, sampleManifest().Write(filepath.Join(dir, "nested", "routes.yaml")))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "routes.yaml", entries[0].Name())
}

func TestParse_RejectsSchemaAndEmpty(t *testing.T) {
	_, err := Parse([]byte("schema: 9\nversions: []\n"))
	require.True(t, errors.Is(err, ErrUnsupportedSchema))

	_, err = Parse([]byte("schema: 1\nversions: []\n"))
	require.True(t, errors.Is(err, ErrNoVersions))

	_, err = Parse([]byte("schema: [oops"))
	require.Error(t, err)
}

func TestManifest_Registry(t *testing.T) {
	reg, err := sampleManifest().Registry()
	require.NoError(t, err)
	require.Equal(t, "v1.0.0", reg.DefaultVersion())
	require.Len(t, reg.Pages("v1.0.0"), 2)

	bad := sampleManifest()
	bad.Versions[0].Routes[0].Children[1].Href = "/components/accordion"
	_, err = bad.Registry()
	require.True(t, errors.Is(err, routes.ErrDuplicateHref))
}

func TestFromRegistry_RoundTrip(t *testing.T) {
	m := sampleManifest()
	reg, err := m.Registry()
	require.NoError(t, err)

	back := FromRegistry(reg, m.Meta())
	require.Equal(t, m, back)
	require.Equal(t, []string{"v1.0.0"}, back.Meta().Versions)
}
