// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/craftgraph/pkg/types"
)

// ManifestFile is the manifest's name inside the pages directory.
const ManifestFile = "manifest.yaml"

// ManifestPath returns the manifest location for a pages directory.
func ManifestPath(pagesDir string) string {
	return filepath.Join(pagesDir, ManifestFile)
}

// WriteManifest writes m as YAML, creating the parent directory.
func WriteManifest(path string, m types.Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// LoadManifest reads a manifest written by WriteManifest.
func LoadManifest(path string) (types.Manifest, error) {
	var m types.Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("reading manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	for i, p := range m.Pages {
		if !p.Kind.Valid() {
			return m, fmt.Errorf("manifest page %d (%s): unknown kind %q", i, p.ID, p.Kind)
		}
	}
	return m, nil
}
