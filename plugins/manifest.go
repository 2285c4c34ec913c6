package plugins

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/kingrea/casegen/internal/product"
	"gopkg.in/yaml.v3"
)

// Manifest is the optional metadata file that sits next to an interpreted
// module: term_plan.go is described by term_plan.yaml.
//
//	name: Level Term Plan
//	description: Pure protection, no maturity benefit
//	version: 1.2.0
type Manifest struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	Version     string `yaml:"version,omitempty"`
}

// Normalized returns a trimmed copy of the manifest.
func (m Manifest) Normalized() Manifest {
	return Manifest{
		Name:        strings.TrimSpace(m.Name),
		Description: strings.TrimSpace(m.Description),
		Version:     strings.TrimSpace(m.Version),
	}
}

// Validate rejects names that could not be shown on a single line.
func (m Manifest) Validate() error {
	if strings.ContainsAny(m.Name, "\r\n") {
		return fmt.Errorf("plugin: manifest name must be a single line")
	}
	return nil
}

// ParseManifestYAML decodes and validates a manifest payload. Unknown keys
// are rejected so typos do not silently drop metadata.
func ParseManifestYAML(data []byte) (Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Manifest{}, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("plugin: decode manifest: %w", err)
	}
	m = m.Normalized()
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// ManifestPath returns the manifest location for a module source file.
func ManifestPath(scriptPath string) string {
	return strings.TrimSuffix(scriptPath, ".go") + ".yaml"
}

// LoadManifest reads the manifest next to scriptPath. A missing file is not
// an error and reports false.
func LoadManifest(scriptPath string) (Manifest, bool, error) {
	path := ManifestPath(scriptPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, false, nil
		}
		return Manifest{}, false, fmt.Errorf("plugin: read %s: %w", path, err)
	}
	m, err := ParseManifestYAML(data)
	if err != nil {
		return Manifest{}, false, fmt.Errorf("plugin: %s: %w", path, err)
	}
	return m, true, nil
}

// apply fills info from the manifest. A name declared by the module itself
// wins over the manifest name.
func (m Manifest) apply(info *product.Info) {
	if info.Name == "" {
		info.Name = m.Name
	}
	if m.Description != "" {
		info.Description = m.Description
	}
	if m.Version != "" {
		info.Version = m.Version
	}
}
