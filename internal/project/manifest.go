// Package project locates and parses the optional trident.toml manifest,
// which carries project-wide layout defaults.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/alvesvaren/trident/internal/layout"
)

// ManifestName is the file looked up from the working directory upward.
const ManifestName = "trident.toml"

// LayoutSection is the [layout] table. Zero values mean "keep the default".
type LayoutSection struct {
	Algorithm    string `toml:"algorithm"`
	GroupPadding int    `toml:"group_padding"`
	Gap          int    `toml:"gap"`
	MaxRowWidth  int    `toml:"max_row_width"`
	ClassWidth   int    `toml:"class_width"`
	ClassHeight  int    `toml:"class_height"`
	NodeWidth    int    `toml:"node_width"`
	NodeHeight   int    `toml:"node_height"`
}

// Manifest is the parsed trident.toml.
type Manifest struct {
	Layout LayoutSection `toml:"layout"`
}

// FindManifest walks up from startDir to locate trident.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest parses a trident.toml file.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if a := m.Layout.Algorithm; a != "" && a != string(layout.Hierarchical) && a != string(layout.Grid) {
		return nil, fmt.Errorf("%s: unknown layout algorithm %q", path, a)
	}
	return &m, nil
}

// LoadFrom finds and parses the manifest for startDir. A missing manifest is
// not an error; the zero Manifest applies.
func LoadFrom(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Manifest{}, nil
	}
	return LoadManifest(path)
}

// Config applies the manifest's overrides on top of the default layout
// configuration.
func (m *Manifest) Config() layout.Config {
	cfg := layout.DefaultConfig()
	l := m.Layout
	if l.GroupPadding > 0 {
		cfg.GroupPadding = l.GroupPadding
	}
	if l.Gap > 0 {
		cfg.Gap = l.Gap
	}
	if l.MaxRowWidth > 0 {
		cfg.MaxRowWidth = l.MaxRowWidth
	}
	if l.ClassWidth > 0 {
		cfg.ClassSize.W = l.ClassWidth
	}
	if l.ClassHeight > 0 {
		cfg.ClassSize.H = l.ClassHeight
	}
	if l.NodeWidth > 0 {
		cfg.NodeSize.W = l.NodeWidth
	}
	if l.NodeHeight > 0 {
		cfg.NodeSize.H = l.NodeHeight
	}
	return cfg
}

// Algorithm returns the manifest's default algorithm, or hierarchical.
func (m *Manifest) Algorithm() layout.Algo {
	if m.Layout.Algorithm == string(layout.Grid) {
		return layout.Grid
	}
	return layout.Hierarchical
}
