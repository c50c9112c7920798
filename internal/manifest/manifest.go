// Package manifest reads and writes the route registry artifact produced by
// the generator and consumed by the server at start-up.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docnav/internal/routes"
)

// SchemaVersion is the artifact format written by this package.
const SchemaVersion = 1

var (
	// ErrUnsupportedSchema indicates an artifact written by an incompatible generator.
	ErrUnsupportedSchema = errors.New("unsupported registry schema")

	// ErrNoVersions indicates an artifact without any version entries.
	ErrNoVersions = errors.New("registry artifact lists no versions")
)

// Manifest is the serialized registry plus generation metadata. Versions are
// stored in supported order; the first entry is the default version.
type Manifest struct {
	Schema       int                  `json:"schema" yaml:"schema"`
	GenerationID string               `json:"generation_id,omitempty" yaml:"generation_id,omitempty"`
	GeneratedAt  time.Time            `json:"generated_at" yaml:"generated_at"`
	SourceCommit string               `json:"source_commit,omitempty" yaml:"source_commit,omitempty"`
	Versions     []routes.VersionTree `json:"versions" yaml:"versions"`
}

// Meta is the generation metadata of a manifest without its trees.
type Meta struct {
	GenerationID string    `json:"generation_id,omitempty"`
	GeneratedAt  time.Time `json:"generated_at"`
	SourceCommit string    `json:"source_commit,omitempty"`
	Versions     []string  `json:"versions"`
}

// Meta returns the manifest metadata.
func (m *Manifest) Meta() Meta {
	vs := make([]string, 0, len(m.Versions))
	for _, v := range m.Versions {
		vs = append(vs, v.Version)
	}
	return Meta{
		GenerationID: m.GenerationID,
		GeneratedAt:  m.GeneratedAt,
		SourceCommit: m.SourceCommit,
		Versions:     vs,
	}
}

// Registry validates the manifest and builds an immutable registry from it.
func (m *Manifest) Registry(opts ...routes.Option) (*routes.Registry, error) {
	if len(m.Versions) == 0 {
		return nil, ErrNoVersions
	}
	reg, err := routes.NewRegistry(m.Versions, opts...)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	return reg, nil
}

// FromRegistry serializes reg with the given metadata.
func FromRegistry(reg *routes.Registry, meta Meta) *Manifest {
	return &Manifest{
		Schema:       SchemaVersion,
		GenerationID: meta.GenerationID,
		GeneratedAt:  meta.GeneratedAt,
		SourceCommit: meta.SourceCommit,
		Versions:     reg.Trees(),
	}
}

// Parse decodes an artifact. JSON input is accepted as YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode registry artifact: %w", err)
	}
	if m.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedSchema, m.Schema, SchemaVersion)
	}
	if len(m.Versions) == 0 {
		return nil, ErrNoVersions
	}
	return &m, nil
}

// Read loads an artifact from path and returns it with the hash of its bytes.
func Read(path string) (*Manifest, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read registry artifact: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return m, Hash(data), nil
}

// Marshal encodes the manifest; format is "json" or "yaml".
func (m *Manifest) Marshal(format string) ([]byte, error) {
	if m.Schema == 0 {
		m.Schema = SchemaVersion
	}
	if strings.EqualFold(format, "json") {
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal registry artifact: %w", err)
		}
		return append(data, '\n'), nil
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal registry artifact: %w", err)
	}
	return data, nil
}

// Write stores the manifest at path, choosing the format from the extension.
// The file is replaced atomically so concurrent readers never see a partial artifact.
func (m *Manifest) Write(path string) error {
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	data, err := m.Marshal(format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".routes-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace registry artifact: %w", err)
	}
	return nil
}

// Hash returns the hex sha256 of an artifact's bytes.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)
}
